package binder

import (
	"fmt"
	"net/http"
)

// Path creates a path parameter binder function using the provided extractor.
// The extractor is called with the tag name of every `path:"name"` field.
// Empty values leave the field untouched.
//
// Example with chi router:
//
//	type TourRequest struct {
//		ID string `path:"id"`
//	}
//
//	r.Get("/tours/{id}", handler.Wrap(getTour,
//		handler.WithBinders[handler.Context, TourRequest](binder.Path(chi.URLParam)),
//	))
func Path(extractor func(r *http.Request, fieldName string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrFailedToParsePath)
		}

		rv, err := structValue(v, ErrFailedToParsePath)
		if err != nil {
			return err
		}
		rt := rv.Type()

		for i := 0; i < rv.NumField(); i++ {
			field := rv.Field(i)
			fieldType := rt.Field(i)
			if !field.CanSet() {
				continue
			}

			paramName, skip := parseFieldTag(fieldType, "path")
			if skip || paramName == catchAllTag {
				continue
			}

			value := extractor(r, paramName)
			if value == "" {
				continue
			}

			if err := setFieldValue(field, fieldType.Type, []string{value}); err != nil {
				return fmt.Errorf("%w: field %s: %v", ErrFailedToParsePath, fieldType.Name, err)
			}
		}

		return nil
	}
}
