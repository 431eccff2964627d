package query

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuery       = errors.New("invalid query")
	ErrFieldNotFilterable = fmt.Errorf("%w: field is not filterable", ErrInvalidQuery)
	ErrFieldNotSortable   = fmt.Errorf("%w: field is not sortable", ErrInvalidQuery)
	ErrMixedProjection    = fmt.Errorf("%w: fields cannot mix inclusion and exclusion", ErrInvalidQuery)
)

// FieldError reports the request parameter that failed an allow-list check.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
