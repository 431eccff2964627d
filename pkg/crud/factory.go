package crud

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/natours/handler"
	"github.com/dmitrymomot/natours/pkg/query"
	"github.com/dmitrymomot/natours/pkg/sanitizer"
)

// ParentParam is the path binder name of the parent resource id.
const ParentParam = "parent"

// Request is bound by binder.Path, binder.Query and binder.JSON.
type Request struct {
	ID       string     `path:"id"`
	ParentID string     `path:"parent"`
	Query    url.Values `query:"*"`
	Body     Document   `json:"-"`
}

// UnmarshalJSON captures the whole JSON object as the request body.
func (r *Request) UnmarshalJSON(b []byte) error {
	if !bytes.HasPrefix(bytes.TrimSpace(b), []byte("{")) {
		return ErrBodyNotObject
	}
	var body Document
	if err := json.Unmarshal(b, &body); err != nil {
		return err
	}
	r.Body = body
	return nil
}

// Func is a generic resource handler.
type Func = handler.HandlerFunc[handler.Context, Request]

// ErrBodyNotObject is returned when the request body is not a JSON object.
var ErrBodyNotObject = errors.New("request body must be a JSON object")

type config struct {
	parentParam  string
	parentField  string
	queryOpts    []query.Option
	fallback     bool
	populate     []Populate
	clean        func(string) string
	errorHandler handler.ErrorHandler[handler.Context]
}

// Option configures the generated handlers.
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{fallback: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithParent nests the resource under a parent route parameter.
// List requests are filtered by field = parent id and created documents
// receive the parent id in field unless the body sets it.
//
//	crud.Routes(reviews, crud.WithParent("tourId", "tour"))
func WithParent(param, field string) Option {
	return func(c *config) {
		c.parentParam = param
		c.parentField = field
	}
}

// WithQueryOptions passes allow-lists and limits to the list pipeline.
func WithQueryOptions(opts ...query.Option) Option {
	return func(c *config) {
		c.queryOpts = append(c.queryOpts, opts...)
	}
}

// WithoutFallback disables the FindOne retry of GetOne.
func WithoutFallback() Option {
	return func(c *config) {
		c.fallback = false
	}
}

// WithPopulate sets the related documents attached by GetOne.
func WithPopulate(pops ...Populate) Option {
	return func(c *config) {
		c.populate = append(c.populate, pops...)
	}
}

// WithSanitizer replaces the function applied to every string of a request body.
func WithSanitizer(clean func(string) string) Option {
	return func(c *config) {
		if clean != nil {
			c.clean = clean
		}
	}
}

// WithErrorHandler sets the error handler used by Routes.
func WithErrorHandler(h handler.ErrorHandler[handler.Context]) Option {
	return func(c *config) {
		c.errorHandler = h
	}
}

// CreateOne stores the request body and answers 201 with the new document.
func CreateOne(m Model, opts ...Option) Func {
	cfg := newConfig(opts)
	return func(ctx handler.Context, req Request) handler.Response {
		body := sanitizer.Document(req.Body, cfg.clean)
		if cfg.parentField != "" && req.ParentID != "" {
			if _, ok := body[cfg.parentField]; !ok {
				body[cfg.parentField] = req.ParentID
			}
		}

		doc, err := m.Create(ctx, body)
		if err != nil {
			return handler.Error(fmt.Errorf("create: %w", err))
		}
		return handler.JSON(doc, handler.WithJSONStatus(http.StatusCreated))
	}
}

// GetOne answers with the document identified by the path id.
// A miss is retried once with FindOne({_id: id}) unless WithoutFallback is set.
// WithPopulate applies to both lookups.
//
//	crud.GetOne(tours, crud.WithPopulate(crud.Populate{Path: "reviews", From: "reviews", LocalField: "_id", ForeignField: "tour"}))
func GetOne(m Model, opts ...Option) Func {
	cfg := newConfig(opts)
	populate := cfg.populate
	return func(ctx handler.Context, req Request) handler.Response {
		if !IsValidID(req.ID) {
			return handler.Error(handler.NewHTTPError(http.StatusBadRequest, MsgInvalidID))
		}

		doc, err := m.FindByID(ctx, req.ID, populate...)
		if errors.Is(err, ErrNotFound) && cfg.fallback {
			doc, err = m.FindOne(ctx, bson.M{KeyID: req.ID}, populate...)
		}
		if err != nil {
			return handler.Error(notFound(err))
		}
		return handler.JSON(doc)
	}
}

// GetAll answers with the documents selected by the request query.
func GetAll(m Model, opts ...Option) Func {
	cfg := newConfig(opts)
	return func(ctx handler.Context, req Request) handler.Response {
		base := bson.M{}
		if cfg.parentField != "" && req.ParentID != "" {
			base[cfg.parentField] = req.ParentID
		}

		features := query.New(query.NewQuery(base), req.Query, cfg.queryOpts...).Apply()
		if err := features.Err(); err != nil {
			return handler.Error(err)
		}

		docs, err := m.Find(ctx, features.Query())
		if err != nil {
			return handler.Error(fmt.Errorf("find: %w", err))
		}
		return handler.JSONList(docs)
	}
}

// UpdateOne applies the request body to the document and answers with the
// updated version. Validators always run.
func UpdateOne(m Model, opts ...Option) Func {
	cfg := newConfig(opts)
	return func(ctx handler.Context, req Request) handler.Response {
		if !IsValidID(req.ID) {
			return handler.Error(handler.NewHTTPError(http.StatusBadRequest, MsgInvalidID))
		}

		body := sanitizer.Document(req.Body, cfg.clean)
		doc, err := m.FindByIDAndUpdate(ctx, req.ID, body, UpdateOptions{RunValidators: true})
		if err != nil {
			return handler.Error(notFound(err))
		}
		return handler.JSON(doc)
	}
}

// DeleteOne removes the document and answers 204.
func DeleteOne(m Model) Func {
	return func(ctx handler.Context, req Request) handler.Response {
		if !IsValidID(req.ID) {
			return handler.Error(handler.NewHTTPError(http.StatusBadRequest, MsgInvalidID))
		}
		if _, err := m.FindByIDAndDelete(ctx, req.ID); err != nil {
			return handler.Error(notFound(err))
		}
		return handler.Empty()
	}
}

func notFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return handler.NewHTTPError(http.StatusNotFound, MsgNotFound)
	}
	return err
}
