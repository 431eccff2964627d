package crud

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/natours/pkg/query"
)

// Document is a record as stored and returned by a Model.
type Document = map[string]any

// Reserved document keys.
const (
	KeyID        = "_id"
	KeyVersion   = "__v"
	KeyCreatedAt = "createdAt"
)

// Populate describes related documents attached to a result.
// Generic handlers pass it through untouched; only models interpret it.
type Populate struct {
	// Path is the key the related documents are stored under.
	Path string
	// From is the related collection.
	From string
	// LocalField is matched against ForeignField of the related documents.
	LocalField   string
	ForeignField string
	// Select limits the fields of the related documents.
	Select []string
	// Single stores the first match (or nil) instead of an array.
	Single bool
}

// UpdateOptions controls FindByIDAndUpdate.
// The updated document is always returned.
type UpdateOptions struct {
	RunValidators bool
}

// Model is the document collection capability consumed by the handlers.
// Every lookup that matches nothing returns ErrNotFound.
type Model interface {
	Create(ctx context.Context, data Document) (Document, error)
	FindByID(ctx context.Context, id string, populate ...Populate) (Document, error)
	FindOne(ctx context.Context, filter bson.M, populate ...Populate) (Document, error)
	Find(ctx context.Context, q *query.Query) ([]Document, error)
	FindByIDAndUpdate(ctx context.Context, id string, data Document, opts UpdateOptions) (Document, error)
	FindByIDAndDelete(ctx context.Context, id string) (Document, error)
}

// AsDocument returns v as a Document when it is a nested document in any of
// the shapes produced by the memory model or the Mongo driver.
func AsDocument(v any) (Document, bool) {
	return asDocument(v)
}

// AsList returns v as a slice when it is a BSON or plain array.
func AsList(v any) ([]any, bool) {
	return asList(v)
}
