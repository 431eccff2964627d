// Package crud provides the document Model capability, struct based schemas
// and generic HTTP handlers on top of them.
//
// A Model exposes six operations: Create, FindByID, FindOne, Find,
// FindByIDAndUpdate and FindByIDAndDelete. MemoryModel implements it in
// process; pkg/mongo implements it over a MongoDB collection. Both use a
// Schema to cast request values to field types and to run validation:
//
//	type Tour struct {
//		Name     string  `bson:"name" validate:"required,min=10,max=40" message:"required=A tour must have a name"`
//		Duration int     `bson:"duration" validate:"required,gt=0"`
//		Price    float64 `bson:"price" validate:"required,gt=0"`
//	}
//
//	tours := crud.NewMemoryModel("tours", crud.NewSchema[Tour](crud.WithUnique("name")))
//
// The handler factory turns any Model into a REST resource:
//
//	r.Mount("/api/v1/tours", crud.Routes(tours, crud.WithErrorHandler(errorHandler)))
//
// Handlers answer with the JSON envelope of package handler. Documents that
// cannot be found map to 404 "No document found with that ID"; every other
// failure is forwarded to the error handler, where MapError turns cast,
// duplicate and query errors into client errors.
package crud
