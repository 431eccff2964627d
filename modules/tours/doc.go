// Package tours holds the natours domain: the tour, review, booking and user
// schemas, their models and the JSON API built from the generic handlers of
// package crud.
//
//	models := tours.NewMemoryModels()
//	r.Mount("/api/v1", tours.API(models, errorHandler))
//
// Tours get their slug from the name on create; BackfillSlugs repairs tours
// stored before slugs existed.
package tours
