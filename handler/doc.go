// Package handler provides type-safe HTTP request handling for the natours API
// and its rendered pages.
//
// Handlers are generic functions that receive a bound request struct and
// return a Response. Failures are not rendered inline: a handler returns
// Error(err) and Wrap forwards the error to one centralized ErrorHandler,
// which classifies it and answers in the format the request expects.
//
//	type GetTourRequest struct {
//		ID string `path:"id"`
//	}
//
//	func getTour(ctx handler.Context, req GetTourRequest) handler.Response {
//		tour, err := tours.FindByID(ctx, req.ID)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(tour)
//	}
//
//	r.Get("/tours/{id}", handler.Wrap(getTour,
//		handler.WithBinders[handler.Context, GetTourRequest](binder.Path(chi.URLParam)),
//		handler.WithErrorHandler[handler.Context, GetTourRequest](errorHandler),
//	))
//
// # Response Types
//
// JSON responses use the envelope shared by every API endpoint:
//
//	handler.JSON(doc)                                   // {"status":"success","data":{"data":doc}}
//	handler.JSON(doc, handler.WithJSONStatus(201))      // created
//	handler.JSONList(docs)                              // adds "results"
//	handler.JSONError(err)                              // {"status":"fail","message":"..."}
//	handler.Empty()                                     // 204, no body
//
// Server-rendered pages use templ components:
//
//	handler.Templ(component)
//	handler.TemplWithStatus(http.StatusNotFound, component)
//	handler.TemplPartial(partial, full)
//
// DataStar requests (Accept: text/event-stream) receive element patches over
// SSE instead of a full document.
//
// # Error Handling
//
// NewErrorHandler builds the centralized handler. Errors are classified as
// operational (HTTPError, ValidationError or anything an ErrorMapper
// recognizes) or as programming errors. Operational errors expose their
// message; programming errors answer 500 with a generic message unless the
// handler runs in development mode.
//
// Client errors (4xx) carry status "fail", server errors status "error".
package handler
