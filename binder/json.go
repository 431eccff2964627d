package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxJSONSize is the default maximum size for JSON request bodies (10KB).
const DefaultMaxJSONSize = 10 << 10

// JSON creates a JSON binder function with the default body size limit.
//
// Requests without a body (GET, DELETE or an empty payload) return
// ErrNotApplicable so the binder can be registered on every route.
//
//	handler.WithBinders[handler.Context, CreateTourRequest](binder.JSON())
func JSON() func(r *http.Request, v any) error {
	return JSONWithLimit(DefaultMaxJSONSize)
}

// JSONWithLimit is like JSON with a custom body size limit in bytes.
func JSONWithLimit(maxSize int64) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if r.Body == nil || r.Body == http.NoBody {
			return ErrNotApplicable
		}
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
			return ErrNotApplicable
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxSize+1))
		if err != nil {
			return fmt.Errorf("%w: failed to read request body: %v", ErrFailedToParseJSON, err)
		}
		if int64(len(body)) > maxSize {
			return fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, maxSize)
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return ErrNotApplicable
		}

		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		}
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || mediaType != "application/json" {
			return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, contentType)
		}

		decoder := json.NewDecoder(bytes.NewReader(body))
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(v); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}

		var extra json.RawMessage
		if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrFailedToParseJSON)
		}

		return nil
	}
}
