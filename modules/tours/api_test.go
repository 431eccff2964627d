package tours_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/natours/handler"
	"github.com/dmitrymomot/natours/modules/tours"
	"github.com/dmitrymomot/natours/pkg/crud"
	"github.com/dmitrymomot/natours/pkg/logger"
)

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Results *int   `json:"results"`
	Data    struct {
		Data json.RawMessage `json:"data"`
	} `json:"data"`
}

func newAPI(t *testing.T) (http.Handler, tours.Models) {
	t.Helper()

	models := tours.NewMemoryModels()
	eh := handler.NewErrorHandler(logger.Discard(), handler.ErrorHandlerConfig{
		Mappers: []handler.ErrorMapper{crud.MapError},
	})
	r := chi.NewRouter()
	r.Mount("/api/v1", tours.API(models, eh))
	return r, models
}

func do(t *testing.T, h http.Handler, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func tourBody(name string, price, rating float64) map[string]any {
	return map[string]any{
		"name":           name,
		"duration":       5,
		"maxGroupSize":   25,
		"difficulty":     "easy",
		"price":          price,
		"ratingsAverage": rating,
		"summary":        "Breathtaking hike through the Canadian Banff National Park",
		"imageCover":     "tour-1-cover.jpg",
	}
}

func createTour(t *testing.T, m tours.Models, name string, price, rating float64) string {
	t.Helper()
	doc, err := m.Tours.Create(context.Background(), tourBody(name, price, rating))
	require.NoError(t, err)
	return doc[crud.KeyID].(bson.ObjectID).Hex()
}

func TestCreateTour(t *testing.T) {
	t.Parallel()

	api, _ := newAPI(t)
	body := tourBody("The Forest Hiker", 397, 0)
	delete(body, "ratingsAverage")

	rec, env := do(t, api, http.MethodPost, "/api/v1/tours", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tour map[string]any
	require.NoError(t, json.Unmarshal(env.Data.Data, &tour))
	assert.Equal(t, "the-forest-hiker", tour["slug"])
	assert.Equal(t, 4.5, tour["ratingsAverage"])
	assert.Equal(t, false, tour["secretTour"])

	rec, env = do(t, api, http.MethodPost, "/api/v1/tours", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Duplicate field value: The Forest Hiker. Please use another value!", env.Message)

	invalid := tourBody("The Sea Explorer", 497, 4.8)
	invalid["priceDiscount"] = 600
	invalid["difficulty"] = "extreme"
	rec, env = do(t, api, http.MethodPost, "/api/v1/tours", invalid)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "fail", env.Status)
	assert.Contains(t, env.Message, "Invalid input data.")
	assert.Contains(t, env.Message, "Discount price should be below regular price")
	assert.Contains(t, env.Message, "Difficulty is either: easy, medium, difficult")
}

func TestTopFiveCheap(t *testing.T) {
	t.Parallel()

	api, models := newAPI(t)
	seed := []struct {
		name   string
		price  float64
		rating float64
	}{
		{"The Forest Hiker", 397, 4.7},
		{"The Sea Explorer", 497, 4.8},
		{"The Snow Adventurer", 997, 4.5},
		{"The City Wanderer", 1197, 4.8},
		{"The Park Camper", 1497, 4.9},
		{"The Sports Lover", 2997, 4.7},
		{"The Wine Taster", 1997, 4.5},
	}
	for _, s := range seed {
		createTour(t, models, s.name, s.price, s.rating)
	}

	rec, env := do(t, api, http.MethodGet, "/api/v1/tours/top-5-cheap?limit=50", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, env.Results)
	assert.Equal(t, 5, *env.Results)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data.Data, &list))
	names := make([]string, 0, len(list))
	for _, tour := range list {
		names = append(names, tour["name"].(string))
		for key := range tour {
			assert.Contains(t, []string{"_id", "name", "price", "ratingsAverage", "summary", "difficulty"}, key)
		}
	}
	assert.Equal(t, []string{
		"The Park Camper",
		"The Sea Explorer",
		"The City Wanderer",
		"The Forest Hiker",
		"The Sports Lover",
	}, names)
}

func TestTourQuery(t *testing.T) {
	t.Parallel()

	api, models := newAPI(t)
	createTour(t, models, "The Forest Hiker", 397, 4.7)
	createTour(t, models, "The Sea Explorer", 497, 4.8)
	createTour(t, models, "The Snow Adventurer", 997, 4.5)

	rec, env := do(t, api, http.MethodGet, "/api/v1/tours?price[lt]=900&sort=price", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, *env.Results)

	rec, env = do(t, api, http.MethodGet, "/api/v1/tours?price=397&price=997", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, *env.Results, "repeated price becomes $in")

	rec, _ = do(t, api, http.MethodGet, "/api/v1/tours?password=secret", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, api, http.MethodGet, "/api/v1/tours?duration[gte]=long", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNestedReviews(t *testing.T) {
	t.Parallel()

	api, models := newAPI(t)
	forest := createTour(t, models, "The Forest Hiker", 397, 4.7)
	sea := createTour(t, models, "The Sea Explorer", 497, 4.8)
	user := bson.NewObjectID().Hex()

	for _, id := range []string{forest, forest, sea} {
		rec, _ := do(t, api, http.MethodPost, fmt.Sprintf("/api/v1/tours/%s/reviews", id), map[string]any{
			"review": "Amazing tour!",
			"rating": 5,
			"user":   user,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec, env := do(t, api, http.MethodGet, "/api/v1/tours/"+forest+"/reviews", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, *env.Results)

	var reviews []map[string]any
	require.NoError(t, json.Unmarshal(env.Data.Data, &reviews))
	for _, r := range reviews {
		assert.Equal(t, forest, r["tour"])
	}

	rec, env = do(t, api, http.MethodGet, "/api/v1/reviews", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, *env.Results)

	rec, env = do(t, api, http.MethodGet, "/api/v1/tours/"+forest, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tour map[string]any
	require.NoError(t, json.Unmarshal(env.Data.Data, &tour))
	assert.Len(t, tour["reviews"], 2)
	assert.Empty(t, tour["guides"])

	rec, env = do(t, api, http.MethodPost, "/api/v1/tours/"+sea+"/reviews", map[string]any{"rating": 4, "user": user})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Message, "Review can not be empty!")
}

func TestUsersAndBookings(t *testing.T) {
	t.Parallel()

	api, models := newAPI(t)

	rec, env := do(t, api, http.MethodPost, "/api/v1/users", map[string]any{"name": "Jonas", "email": "jonas@example.com"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, tours.MsgUseSignup, env.Message)

	user, err := models.Users.Create(context.Background(), crud.Document{"name": "Laura", "email": " Laura@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, "laura@example.com", user["email"])
	assert.Equal(t, "user", user["role"])
	userID := user[crud.KeyID].(bson.ObjectID).Hex()

	rec, _ = do(t, api, http.MethodPatch, "/api/v1/users/"+userID, map[string]any{"role": "pilot"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	tourID := createTour(t, models, "The Forest Hiker", 397, 4.7)
	rec, env = do(t, api, http.MethodPost, "/api/v1/bookings", map[string]any{"tour": tourID, "user": userID, "price": 397})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var booking map[string]any
	require.NoError(t, json.Unmarshal(env.Data.Data, &booking))
	assert.Equal(t, true, booking["paid"])

	rec, env = do(t, api, http.MethodGet, "/api/v1/bookings?user="+userID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, *env.Results)

	rec, _ = do(t, api, http.MethodDelete, "/api/v1/users/"+userID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
