package mongo

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/natours/handler"
	"github.com/dmitrymomot/natours/pkg/crud"
)

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
)

// MsgUnavailable is the client message of a database timeout.
const MsgUnavailable = "Database is not responding, please try again later."

// E11000 duplicate key error collection: natours.tours index: name_1 dup key: { name: "The Forest Hiker" }
var dupKeyPattern = regexp.MustCompile(`dup key: \{ ?([^:]+): (.*?) ?\}`)

// MapError converts driver errors into client errors.
// It is registered with handler.ErrorHandlerConfig.Mappers next to crud.MapError.
func MapError(err error) (handler.HTTPError, bool) {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return handler.NewHTTPError(http.StatusNotFound, crud.MsgNotFound), true
	case mongo.IsDuplicateKeyError(err):
		dup := duplicateError(err)
		return handler.NewHTTPError(http.StatusBadRequest, crud.DuplicateMessage(dup.Value)), true
	case mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return handler.NewHTTPError(http.StatusServiceUnavailable, MsgUnavailable), true
	}
	return handler.HTTPError{}, false
}

// translate maps driver errors to the crud vocabulary.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return crud.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return duplicateError(err)
	}
	return err
}

// duplicateError extracts the offending field and value from an E11000 message.
func duplicateError(err error) *crud.DuplicateError {
	m := dupKeyPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return &crud.DuplicateError{Value: "unknown"}
	}
	value := strings.TrimSpace(m[2])
	if unquoted, ok := strings.CutPrefix(value, `"`); ok {
		value = strings.TrimSuffix(unquoted, `"`)
	}
	return &crud.DuplicateError{Field: strings.TrimSpace(m[1]), Value: value}
}
