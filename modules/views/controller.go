package views

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/natours/binder"
	"github.com/dmitrymomot/natours/handler"
	"github.com/dmitrymomot/natours/modules/tours"
	"github.com/dmitrymomot/natours/pkg/crud"
	"github.com/dmitrymomot/natours/pkg/query"
)

// Page titles and messages.
const (
	TitleOverview   = "All Tours"
	TitleLogin      = "Log into your account"
	TitleSignup     = "Create your account"
	TitleAccount    = "Your account"
	TitleMyBookings = "My Bookings"

	MsgInvalidTourID = "Invalid tour ID format."
	MsgTourNotFound  = "There is no tour with that name."
)

// tourReviews attaches the reviews shown on the tour page.
var tourReviews = crud.Populate{
	Path:         "reviews",
	From:         tours.ReviewsCollection,
	LocalField:   crud.KeyID,
	ForeignField: "tour",
	Select:       []string{"review", "rating", "user"},
}

// Controller renders the server side pages.
type Controller struct {
	tours        crud.Model
	bookings     crud.Model
	views        Views
	errorHandler handler.ErrorHandler[handler.Context]
}

// New creates the page controller. Nil view constructors fall back to
// DefaultViews.
func New(m tours.Models, views Views, errorHandler handler.ErrorHandler[handler.Context]) *Controller {
	return &Controller{
		tours:        m.Tours,
		bookings:     m.Bookings,
		views:        views.WithDefaults(),
		errorHandler: errorHandler,
	}
}

// Handle returns the page router:
//
//	GET /           overview
//	GET /tour/{id}  tour details
//	GET /login, /signup, /me, /my-bookings
func (c *Controller) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(Alerts)

	r.Get("/", handler.Wrap(c.Overview,
		handler.WithErrorHandler[handler.Context, struct{}](c.errorHandler),
	))
	r.Get("/tour/{id}", handler.Wrap(c.Tour,
		handler.WithBinders[handler.Context, TourRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, TourRequest](c.errorHandler),
	))
	r.Get("/login", c.static(TitleLogin, c.views.Login))
	r.Get("/signup", c.static(TitleSignup, c.views.Signup))
	r.Get("/me", handler.Wrap(c.Account,
		handler.WithErrorHandler[handler.Context, struct{}](c.errorHandler),
	))
	r.Get("/my-bookings", handler.Wrap(c.MyBookings,
		handler.WithErrorHandler[handler.Context, struct{}](c.errorHandler),
	))

	return r
}

// TourRequest identifies the tour page.
type TourRequest struct {
	ID string `path:"id"`
}

func (c *Controller) page(ctx handler.Context, title string) Page {
	user, _ := UserFromContext(ctx)
	return Page{
		Title: title,
		Alert: AlertFromContext(ctx),
		User:  user,
	}
}

// Overview lists all tours.
func (c *Controller) Overview(ctx handler.Context, _ struct{}) handler.Response {
	list, err := c.tours.Find(ctx, nil)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Templ(c.views.Overview(OverviewPageParams{
		Page:  c.page(ctx, TitleOverview),
		Tours: list,
	}))
}

// Tour shows one tour with its reviews.
func (c *Controller) Tour(ctx handler.Context, req TourRequest) handler.Response {
	if !crud.IsValidID(req.ID) {
		return handler.Error(handler.NewHTTPError(http.StatusBadRequest, MsgInvalidTourID))
	}

	tour, err := c.tours.FindOne(ctx, bson.M{crud.KeyID: req.ID}, tourReviews)
	if errors.Is(err, crud.ErrNotFound) {
		return handler.Error(handler.NewHTTPError(http.StatusNotFound, MsgTourNotFound))
	}
	if err != nil {
		return handler.Error(err)
	}

	name, _ := tour["name"].(string)
	return handler.Templ(c.views.Tour(TourPageParams{
		Page: c.page(ctx, name+" Tour"),
		Tour: tour,
	}))
}

// Account shows the settings page of the signed in user.
func (c *Controller) Account(ctx handler.Context, _ struct{}) handler.Response {
	if _, ok := UserFromContext(ctx); !ok {
		return handler.Error(handler.ErrUnauthorized)
	}
	return handler.Templ(c.views.Account(c.page(ctx, TitleAccount)))
}

// MyBookings lists the tours booked by the signed in user.
func (c *Controller) MyBookings(ctx handler.Context, _ struct{}) handler.Response {
	user, ok := UserFromContext(ctx)
	if !ok {
		return handler.Error(handler.ErrUnauthorized)
	}

	bookings, err := c.bookings.Find(ctx, query.NewQuery(bson.M{"user": user[crud.KeyID]}))
	if err != nil {
		return handler.Error(fmt.Errorf("find bookings: %w", err))
	}

	ids := make(bson.A, 0, len(bookings))
	for _, b := range bookings {
		if id, ok := b["tour"]; ok && id != nil {
			ids = append(ids, id)
		}
	}

	var list []crud.Document
	if len(ids) > 0 {
		list, err = c.tours.Find(ctx, query.NewQuery(bson.M{crud.KeyID: bson.M{"$in": ids}}))
		if err != nil {
			return handler.Error(fmt.Errorf("find booked tours: %w", err))
		}
	}

	return handler.Templ(c.views.Overview(OverviewPageParams{
		Page:  c.page(ctx, TitleMyBookings),
		Tours: list,
	}))
}

func (c *Controller) static(title string, view func(Page) templ.Component) http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
		return handler.Templ(view(c.page(ctx, title)))
	}, handler.WithErrorHandler[handler.Context, struct{}](c.errorHandler))
}
