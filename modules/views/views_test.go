package views_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/natours/handler"
	"github.com/dmitrymomot/natours/modules/tours"
	"github.com/dmitrymomot/natours/modules/views"
	"github.com/dmitrymomot/natours/pkg/crud"
	"github.com/dmitrymomot/natours/pkg/logger"
)

func newPages(t *testing.T, user crud.Document) (http.Handler, tours.Models) {
	t.Helper()

	models := tours.NewMemoryModels()
	defaults := views.DefaultViews()
	eh := handler.NewErrorHandler(logger.Discard(), handler.ErrorHandlerConfig{
		Mappers:   []handler.ErrorMapper{crud.MapError},
		ErrorPage: defaults.ErrorPage,
	})
	pages := views.New(models, views.Views{}, eh).Handle()

	if user == nil {
		return pages, models
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages.ServeHTTP(w, r.WithContext(views.WithUser(r.Context(), user)))
	}), models
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func create(t *testing.T, m crud.Model, data crud.Document) bson.ObjectID {
	t.Helper()
	doc, err := m.Create(context.Background(), data)
	require.NoError(t, err)
	return doc[crud.KeyID].(bson.ObjectID)
}

func tour(name string, price float64) crud.Document {
	return crud.Document{
		"name":         name,
		"duration":     5,
		"maxGroupSize": 25,
		"difficulty":   "easy",
		"price":        price,
		"summary":      "A tour summary",
		"imageCover":   "cover.jpg",
	}
}

func TestOverview(t *testing.T) {
	t.Parallel()

	h, m := newPages(t, nil)
	create(t, m.Tours, tour("The Forest Hiker", 397))
	create(t, m.Tours, tour("The Sea Explorer", 497))

	rec := get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>Natours | All Tours</title>")
	assert.Contains(t, rec.Body.String(), "The Forest Hiker")
	assert.Contains(t, rec.Body.String(), "The Sea Explorer")
	assert.Contains(t, rec.Body.String(), `href="/login"`)
}

func TestAlerts(t *testing.T) {
	t.Parallel()

	h, _ := newPages(t, nil)

	rec := get(h, "/?alert=booking")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Reservation confirmed! Check your inbox for a confirmation email.")

	rec = get(h, "/?alert=unknown")
	assert.NotContains(t, rec.Body.String(), "alert--success")
}

func TestTourPage(t *testing.T) {
	t.Parallel()

	h, m := newPages(t, nil)
	tourID := create(t, m.Tours, tour("The Forest Hiker", 397))
	userID := create(t, m.Users, crud.Document{"name": "Lourdes Browning", "email": "loulou@example.com"})
	create(t, m.Reviews, crud.Document{
		"review": "Cras mollis nisi parturient mi nec aliquet suspendisse sagittis eros condimentum scelerisque taciti mattis praesent feugiat eu nascetur a tincidunt",
		"rating": 5,
		"tour":   tourID.Hex(),
		"user":   userID.Hex(),
	})

	t.Run("renders the tour with reviews", func(t *testing.T) {
		t.Parallel()

		rec := get(h, "/tour/"+tourID.Hex())
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<title>Natours | The Forest Hiker Tour</title>")
		assert.Contains(t, rec.Body.String(), "Cras mollis nisi parturient")
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()

		rec := get(h, "/tour/not-an-id")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), views.MsgInvalidTourID)
	})

	t.Run("unknown tour", func(t *testing.T) {
		t.Parallel()

		rec := get(h, "/tour/"+bson.NewObjectID().Hex())
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), views.MsgTourNotFound)
	})
}

func TestStaticPages(t *testing.T) {
	t.Parallel()

	h, _ := newPages(t, nil)

	tests := []struct {
		target string
		title  string
	}{
		{"/login", views.TitleLogin},
		{"/signup", views.TitleSignup},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()

			rec := get(h, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "<title>Natours | "+tt.title+"</title>")
		})
	}
}

func TestAccountPages(t *testing.T) {
	t.Parallel()

	t.Run("require a user", func(t *testing.T) {
		t.Parallel()

		h, _ := newPages(t, nil)
		for _, target := range []string{"/me", "/my-bookings"} {
			rec := get(h, target)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
			assert.Contains(t, rec.Body.String(), "You are not logged in!", target)
		}
	})

	t.Run("account", func(t *testing.T) {
		t.Parallel()

		h, _ := newPages(t, crud.Document{crud.KeyID: bson.NewObjectID(), "name": "Jonas Schmedtmann", "email": "admin@natours.io"})
		rec := get(h, "/me")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<title>Natours | Your account</title>")
		assert.Contains(t, rec.Body.String(), "admin@natours.io")
		assert.Contains(t, rec.Body.String(), "<span>Jonas</span>")
	})

	t.Run("my bookings", func(t *testing.T) {
		t.Parallel()

		userID := bson.NewObjectID()
		h, m := newPages(t, crud.Document{crud.KeyID: userID, "name": "Jonas Schmedtmann"})

		booked := create(t, m.Tours, tour("The Sea Explorer", 497))
		create(t, m.Tours, tour("The Snow Adventurer", 997))
		create(t, m.Bookings, crud.Document{"tour": booked.Hex(), "user": userID.Hex(), "price": 497})
		create(t, m.Bookings, crud.Document{"tour": booked.Hex(), "user": bson.NewObjectID().Hex(), "price": 497})

		rec := get(h, "/my-bookings")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<title>Natours | My Bookings</title>")
		assert.Contains(t, rec.Body.String(), "The Sea Explorer")
		assert.NotContains(t, rec.Body.String(), "The Snow Adventurer")
	})

	t.Run("my bookings without bookings", func(t *testing.T) {
		t.Parallel()

		h, m := newPages(t, crud.Document{crud.KeyID: bson.NewObjectID(), "name": "Leo Gillespie"})
		create(t, m.Tours, tour("The Sea Explorer", 497))

		rec := get(h, "/my-bookings")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "The Sea Explorer")
	})
}
