package handler

import "net/http"

// emptyResponse represents an empty HTTP response with only a status code
type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty creates an empty response with status 204 (No Content).
// DELETE endpoints return it after a successful removal.
func Empty() Response {
	return emptyResponse{
		status: http.StatusNoContent,
	}
}

// EmptyWithStatus creates an empty response with a custom status code.
func EmptyWithStatus(status int) Response {
	return emptyResponse{
		status: status,
	}
}
