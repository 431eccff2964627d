package crud_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/natours/handler"
	"github.com/dmitrymomot/natours/pkg/crud"
	"github.com/dmitrymomot/natours/pkg/query"
)

type envelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results"`
	Message string `json:"message"`
	Data    struct {
		Data json.RawMessage `json:"data"`
	} `json:"data"`
}

func newAPI(t *testing.T) (http.Handler, *crud.MemoryModel, *crud.MemoryModel, []bson.ObjectID) {
	t.Helper()

	tours, ids := seedTours(t)
	reviews := crud.NewMemoryModel("reviews", crud.NewSchema[testReview]())
	tours.Link(reviews)

	errorHandler := handler.NewErrorHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		handler.ErrorHandlerConfig{Mappers: []handler.ErrorMapper{crud.MapError}},
	)

	r := chi.NewRouter()
	r.Mount("/api/v1/tours/{tourId}/reviews", crud.Routes(reviews,
		crud.WithParent("tourId", "tour"),
		crud.WithErrorHandler(errorHandler),
	))
	r.Mount("/api/v1/tours", crud.Routes(tours,
		crud.WithErrorHandler(errorHandler),
		crud.WithQueryOptions(query.WithMaxLimit(50)),
		crud.WithPopulate(crud.Populate{Path: "reviews", From: "reviews", LocalField: crud.KeyID, ForeignField: "tour"}),
	))
	return r, tours, reviews, ids
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestCreateOne(t *testing.T) {
	t.Parallel()

	t.Run("creates a document", func(t *testing.T) {
		t.Parallel()
		api, tours, _, _ := newAPI(t)

		rec, env := do(t, api, http.MethodPost, "/api/v1/tours",
			`{"name":"The Northern <b>Lights</b>","duration":3,"price":1497,"$where":"1"}`)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, handler.StatusSuccess, env.Status)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(env.Data.Data, &doc))
		assert.Equal(t, "The Northern &lt;b&gt;Lights&lt;/b&gt;", doc["name"])
		assert.Equal(t, 4.5, doc["ratingsAverage"])
		assert.EqualValues(t, 0, doc["__v"])

		id, ok := doc["_id"].(string)
		require.True(t, ok)
		_, err := tours.FindByID(t.Context(), id)
		assert.NoError(t, err)
	})

	t.Run("validation failure", func(t *testing.T) {
		t.Parallel()
		api, _, _, _ := newAPI(t)

		rec, env := do(t, api, http.MethodPost, "/api/v1/tours", `{"name":"The Sea Walker"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, handler.StatusFail, env.Status)
		assert.Equal(t, "Invalid input data. A tour must have a duration. A tour must have a price", env.Message)
	})

	t.Run("duplicate value", func(t *testing.T) {
		t.Parallel()
		api, _, _, _ := newAPI(t)

		rec, env := do(t, api, http.MethodPost, "/api/v1/tours", `{"name":"The Forest Hiker","duration":3,"price":10}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Duplicate field value: The Forest Hiker. Please use another value!", env.Message)
	})

	t.Run("body is not an object", func(t *testing.T) {
		t.Parallel()
		api, _, _, _ := newAPI(t)

		rec, env := do(t, api, http.MethodPost, "/api/v1/tours", `["a"]`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, handler.StatusFail, env.Status)
	})

	t.Run("nested create injects the parent id", func(t *testing.T) {
		t.Parallel()
		api, _, reviews, ids := newAPI(t)

		rec, _ := do(t, api, http.MethodPost, "/api/v1/tours/"+ids[0].Hex()+"/reviews", `{"review":"Loved it","rating":5}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		docs, err := reviews.Find(t.Context(), &query.Query{Filter: bson.M{"tour": ids[0].Hex()}})
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})
}

func TestGetOne(t *testing.T) {
	t.Parallel()

	api, _, reviews, ids := newAPI(t)
	reviews.Insert(crud.Document{"review": "Nice", "rating": 4.0, "tour": ids[1]})

	t.Run("found with populate", func(t *testing.T) {
		t.Parallel()

		rec, env := do(t, api, http.MethodGet, "/api/v1/tours/"+ids[1].Hex(), "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var doc map[string]any
		require.NoError(t, json.Unmarshal(env.Data.Data, &doc))
		assert.Equal(t, "The Sea Explorer", doc["name"])
		assert.Len(t, doc["reviews"], 1)
		assert.Nil(t, env.Results)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		rec, env := do(t, api, http.MethodGet, "/api/v1/tours/"+bson.NewObjectID().Hex(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, handler.StatusFail, env.Status)
		assert.Equal(t, crud.MsgNotFound, env.Message)
	})

	t.Run("malformed id", func(t *testing.T) {
		t.Parallel()

		rec, env := do(t, api, http.MethodGet, "/api/v1/tours/123", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, crud.MsgInvalidID, env.Message)
	})
}

func TestGetOneFallback(t *testing.T) {
	t.Parallel()

	id := bson.NewObjectID()
	m := &fallbackModel{doc: crud.Document{crud.KeyID: id, "name": "Found by filter"}}

	h := crud.Handle(crud.GetOne(m))
	rec, env := serveWithID(t, h, id.Hex())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data.Data), "Found by filter")
	assert.Equal(t, 1, m.findOneCalls)

	m = &fallbackModel{}
	h = crud.Handle(crud.GetOne(m, crud.WithoutFallback()))
	rec, _ = serveWithID(t, h, id.Hex())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, m.findOneCalls)
}

func serveWithID(t *testing.T, h http.HandlerFunc, id string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/api/{id}", h)
	return do(t, r, http.MethodGet, "/api/"+id, "")
}

// fallbackModel misses FindByID and answers FindOne with doc.
type fallbackModel struct {
	crud.Model
	doc          crud.Document
	findOneCalls int
}

func (m *fallbackModel) FindByID(_ context.Context, _ string, _ ...crud.Populate) (crud.Document, error) {
	return nil, crud.ErrNotFound
}

func (m *fallbackModel) FindOne(_ context.Context, _ bson.M, _ ...crud.Populate) (crud.Document, error) {
	m.findOneCalls++
	if m.doc == nil {
		return nil, crud.ErrNotFound
	}
	return m.doc, nil
}

func TestGetAll(t *testing.T) {
	t.Parallel()

	api, _, reviews, ids := newAPI(t)
	reviews.Insert(
		crud.Document{"review": "A", "rating": 5.0, "tour": ids[0]},
		crud.Document{"review": "B", "rating": 4.0, "tour": ids[0]},
		crud.Document{"review": "C", "rating": 3.0, "tour": ids[1]},
	)

	t.Run("list envelope", func(t *testing.T) {
		t.Parallel()

		rec, env := do(t, api, http.MethodGet, "/api/v1/tours?difficulty=easy&sort=price&fields=name,price", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.NotNil(t, env.Results)
		assert.Equal(t, 2, *env.Results)

		var docs []map[string]any
		require.NoError(t, json.Unmarshal(env.Data.Data, &docs))
		require.Len(t, docs, 2)
		assert.Equal(t, "The Forest Hiker", docs[0]["name"])
		assert.NotContains(t, docs[0], "difficulty")
	})

	t.Run("empty result", func(t *testing.T) {
		t.Parallel()

		rec, env := do(t, api, http.MethodGet, "/api/v1/tours?price[gt]=5000", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, *env.Results)
		assert.JSONEq(t, `[]`, string(env.Data.Data))
	})

	t.Run("nested list filtered by parent", func(t *testing.T) {
		t.Parallel()

		rec, env := do(t, api, http.MethodGet, "/api/v1/tours/"+ids[0].Hex()+"/reviews", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 2, *env.Results)
	})

	t.Run("parent filter wins over query", func(t *testing.T) {
		t.Parallel()

		rec, env := do(t, api, http.MethodGet, "/api/v1/tours/"+ids[0].Hex()+"/reviews?tour="+ids[1].Hex(), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, *env.Results)
	})

	t.Run("uncastable filter", func(t *testing.T) {
		t.Parallel()

		rec, env := do(t, api, http.MethodGet, "/api/v1/tours?duration=abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid duration: abc.", env.Message)
	})

	t.Run("mixed projection", func(t *testing.T) {
		t.Parallel()

		rec, _ := do(t, api, http.MethodGet, "/api/v1/tours?fields=name,-price", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateOne(t *testing.T) {
	t.Parallel()

	api, _, _, ids := newAPI(t)

	rec, env := do(t, api, http.MethodPatch, "/api/v1/tours/"+ids[0].Hex(), `{"price":297}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var doc map[string]any
	require.NoError(t, json.Unmarshal(env.Data.Data, &doc))
	assert.Equal(t, 297.0, doc["price"])

	rec, env = do(t, api, http.MethodPatch, "/api/v1/tours/"+ids[0].Hex(), `{"ratingsAverage":6}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid input data. ratingsAverage must be less or equal to 5", env.Message)

	rec, env = do(t, api, http.MethodPatch, "/api/v1/tours/"+bson.NewObjectID().Hex(), `{"price":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, crud.MsgNotFound, env.Message)
}

func TestDeleteOne(t *testing.T) {
	t.Parallel()

	api, tours, _, ids := newAPI(t)

	rec, _ := do(t, api, http.MethodDelete, "/api/v1/tours/"+ids[0].Hex(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())

	_, err := tours.FindByID(t.Context(), ids[0].Hex())
	assert.ErrorIs(t, err, crud.ErrNotFound)

	rec, env := do(t, api, http.MethodDelete, "/api/v1/tours/"+ids[0].Hex(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, crud.MsgNotFound, env.Message)
}
