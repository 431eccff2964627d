package query

import "go.mongodb.org/mongo-driver/v2/bson"

// Query is a composed, not yet executed find request.
// It is created per request, mutated by Features and executed once by a model.
type Query struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.D
	Skip       int64
	Limit      int64
}

// NewQuery creates a query with an optional base filter, for example the
// parent id of a nested resource.
func NewQuery(base bson.M) *Query {
	filter := make(bson.M, len(base))
	for k, v := range base {
		filter[k] = v
	}
	return &Query{Filter: filter}
}
