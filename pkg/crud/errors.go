package crud

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/natours/handler"
	"github.com/dmitrymomot/natours/pkg/query"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid document id")
)

// Client messages
const (
	MsgNotFound  = "No document found with that ID"
	MsgInvalidID = "Invalid ID format."
)

// CastError reports a value that cannot be converted to its field type.
type CastError struct {
	Path  string
	Value any
	Kind  string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cast to %s failed for value %q at path %q", e.Kind, fmt.Sprint(e.Value), e.Path)
}

// DuplicateError reports a unique constraint violation.
type DuplicateError struct {
	Field string
	Value any
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate key %s: %v", e.Field, e.Value)
}

// MapError converts document errors into client errors.
// It is registered with handler.ErrorHandlerConfig.Mappers.
func MapError(err error) (handler.HTTPError, bool) {
	var (
		castErr  *CastError
		dupErr   *DuplicateError
		fieldErr *query.FieldError
	)
	switch {
	case errors.Is(err, ErrNotFound):
		return handler.NewHTTPError(http.StatusNotFound, MsgNotFound), true
	case errors.Is(err, ErrInvalidID):
		return handler.NewHTTPError(http.StatusBadRequest, MsgInvalidID), true
	case errors.As(err, &castErr):
		return handler.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Invalid %s: %v.", castErr.Path, castErr.Value)), true
	case errors.As(err, &dupErr):
		return handler.NewHTTPError(http.StatusBadRequest, DuplicateMessage(dupErr.Value)), true
	case errors.As(err, &fieldErr):
		return handler.NewHTTPError(http.StatusBadRequest, queryMessage(fieldErr)), true
	case errors.Is(err, query.ErrInvalidQuery):
		return handler.NewHTTPError(http.StatusBadRequest, "Invalid query."), true
	}
	return handler.HTTPError{}, false
}

// DuplicateMessage is the client message of a unique constraint violation.
func DuplicateMessage(value any) string {
	return fmt.Sprintf("Duplicate field value: %v. Please use another value!", value)
}

func queryMessage(e *query.FieldError) string {
	reason := strings.TrimPrefix(e.Err.Error(), query.ErrInvalidQuery.Error()+": ")
	return fmt.Sprintf("Invalid query parameter %s: %s.", e.Field, reason)
}
