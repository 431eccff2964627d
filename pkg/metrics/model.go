package metrics

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/natours/pkg/crud"
	"github.com/dmitrymomot/natours/pkg/query"
)

// Model decorates a crud.Model with operation counters.
type Model struct {
	next       crud.Model
	collection string
	m          *Metrics
}

var _ crud.Model = (*Model)(nil)

// Instrument wraps next; collection is used as the metric label.
func (m *Metrics) Instrument(collection string, next crud.Model) *Model {
	return &Model{next: next, collection: collection, m: m}
}

// Unwrap returns the decorated model.
func (im *Model) Unwrap() crud.Model {
	return im.next
}

func (im *Model) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, crud.ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	im.m.operations.WithLabelValues(im.collection, op, result).Inc()
	im.m.opDuration.WithLabelValues(im.collection, op).Observe(time.Since(start).Seconds())
}

func (im *Model) Create(ctx context.Context, data crud.Document) (crud.Document, error) {
	start := time.Now()
	doc, err := im.next.Create(ctx, data)
	im.observe("create", start, err)
	return doc, err
}

func (im *Model) FindByID(ctx context.Context, id string, populate ...crud.Populate) (crud.Document, error) {
	start := time.Now()
	doc, err := im.next.FindByID(ctx, id, populate...)
	im.observe("find_by_id", start, err)
	return doc, err
}

func (im *Model) FindOne(ctx context.Context, filter bson.M, populate ...crud.Populate) (crud.Document, error) {
	start := time.Now()
	doc, err := im.next.FindOne(ctx, filter, populate...)
	im.observe("find_one", start, err)
	return doc, err
}

func (im *Model) Find(ctx context.Context, q *query.Query) ([]crud.Document, error) {
	start := time.Now()
	docs, err := im.next.Find(ctx, q)
	im.observe("find", start, err)
	return docs, err
}

func (im *Model) FindByIDAndUpdate(ctx context.Context, id string, data crud.Document, opts crud.UpdateOptions) (crud.Document, error) {
	start := time.Now()
	doc, err := im.next.FindByIDAndUpdate(ctx, id, data, opts)
	im.observe("update", start, err)
	return doc, err
}

func (im *Model) FindByIDAndDelete(ctx context.Context, id string) (crud.Document, error) {
	start := time.Now()
	doc, err := im.next.FindByIDAndDelete(ctx, id)
	im.observe("delete", start, err)
	return doc, err
}
