package handler

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Envelope statuses
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope is the JSON body shape of every API response.
type Envelope struct {
	Status  string   `json:"status"`
	Results *int     `json:"results,omitempty"`
	Message string   `json:"message,omitempty"`
	Data    *Payload `json:"data,omitempty"`
}

// Payload nests the returned document(s) under "data".
type Payload struct {
	Data any `json:"data"`
}

type jsonResponse struct {
	status int
	body   Envelope
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithResults adds the "results" count used by list endpoints.
func WithResults(n int) JSONOption {
	return func(r *jsonResponse) {
		r.body.Results = &n
	}
}

// JSON creates a success envelope {status, data: {data: v}}.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{
		status: http.StatusOK,
		body: Envelope{
			Status: StatusSuccess,
			Data:   &Payload{Data: v},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONList creates a list envelope with the results count.
func JSONList[T any](items []T, opts ...JSONOption) Response {
	if items == nil {
		items = []T{}
	}
	return JSON(items, append([]JSONOption{WithResults(len(items))}, opts...)...)
}

// JSONError creates an error envelope {status: fail|error, message}.
// Status is "fail" for client errors and "error" otherwise.
func JSONError(err error, opts ...JSONOption) Response {
	r := &jsonResponse{
		status: http.StatusInternalServerError,
		body: Envelope{
			Status:  StatusError,
			Message: err.Error(),
		},
	}

	var httpErr HTTPError
	var valErr ValidationError
	switch {
	case errors.As(err, &valErr):
		r.status = http.StatusBadRequest
		r.body.Message = valErr.Error()
	case errors.As(err, &httpErr):
		r.status = httpErr.Code
		r.body.Message = httpErr.Message
	}

	for _, opt := range opts {
		opt(r)
	}
	if isClientError(r.status) {
		r.body.Status = StatusFail
	}
	return r
}

// errorResponse hands its error to the error handler instead of rendering.
type errorResponse struct {
	err error
}

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// Error returns a Response that forwards err to the configured ErrorHandler.
// Handlers use it to delegate failures to the centralized error handling.
func Error(err error) Response {
	if err == nil {
		err = ErrInternal
	}
	return errorResponse{err: err}
}
