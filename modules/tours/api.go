package tours

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/natours/handler"
	"github.com/dmitrymomot/natours/pkg/crud"
	"github.com/dmitrymomot/natours/pkg/query"
)

// MsgUseSignup answers POST /users: accounts are created by the signup flow.
const MsgUseSignup = "This route is not defined! Please use /signup instead"

// Fields that may be repeated in a tour query; repeated values become $in.
var tourMultiValue = []string{"duration", "ratingsQuantity", "ratingsAverage", "maxGroupSize", "difficulty", "price"}

var tourFields = []string{
	"name", "slug", "duration", "maxGroupSize", "difficulty", "ratingsAverage",
	"ratingsQuantity", "price", "priceDiscount", "secretTour", "startDates",
	"guides", "createdAt",
}

// API returns the JSON resources mounted under /api/v1:
//
//	/tours                     tours, plus GET /tours/top-5-cheap
//	/tours/{tourId}/reviews    reviews of one tour
//	/reviews, /bookings, /users
func API(m Models, errorHandler handler.ErrorHandler[handler.Context]) http.Handler {
	onError := crud.WithErrorHandler(errorHandler)
	r := chi.NewRouter()

	tourOpts := []crud.Option{
		onError,
		crud.WithQueryOptions(
			query.WithFilterable(tourFields...),
			query.WithSortable(tourFields...),
			query.WithMultiValue(tourMultiValue...),
		),
		crud.WithPopulate(TourGuides, TourReviews),
	}
	r.Route("/tours", func(r chi.Router) {
		r.With(AliasTopTours).Get("/top-5-cheap", crud.Handle(crud.GetAll(m.Tours, tourOpts...), onError))
		r.Mount("/", crud.Routes(m.Tours, tourOpts...))
	})

	reviewQuery := crud.WithQueryOptions(
		query.WithFilterable("rating", "tour", "user", "createdAt"),
		query.WithSortable("rating", "createdAt"),
	)
	r.Mount("/tours/{tourId}/reviews", crud.Routes(m.Reviews,
		onError,
		reviewQuery,
		crud.WithParent("tourId", "tour"),
	))
	r.Mount("/reviews", crud.Routes(m.Reviews, onError, reviewQuery))

	r.Mount("/bookings", crud.Routes(m.Bookings,
		onError,
		crud.WithQueryOptions(
			query.WithFilterable("tour", "user", "paid", "price", "createdAt"),
			query.WithSortable("price", "createdAt"),
		),
	))

	r.Route("/users", func(r chi.Router) {
		userOpts := []crud.Option{
			onError,
			crud.WithQueryOptions(
				query.WithFilterable("name", "email", "role", "active"),
				query.WithSortable("name", "email", "role"),
				query.WithDefaultSort("name"),
			),
		}
		r.Get("/", crud.Handle(crud.GetAll(m.Users, userOpts...), onError))
		r.Post("/", crud.Handle(createUser, onError))
		r.Get("/{id}", crud.Handle(crud.GetOne(m.Users, userOpts...), onError))
		r.Patch("/{id}", crud.Handle(crud.UpdateOne(m.Users, userOpts...), onError))
		r.Delete("/{id}", crud.Handle(crud.DeleteOne(m.Users), onError))
	})

	return r
}

func createUser(handler.Context, crud.Request) handler.Response {
	return handler.Error(handler.NewHTTPError(http.StatusInternalServerError, MsgUseSignup))
}

// AliasTopTours presets the query of the five best rated cheap tours.
func AliasTopTours(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		q.Set("limit", "5")
		q.Set("sort", "-ratingsAverage,price")
		q.Set("fields", "name,price,ratingsAverage,summary,difficulty")

		r2 := r.Clone(r.Context())
		r2.URL.RawQuery = q.Encode()
		next.ServeHTTP(w, r2)
	})
}
