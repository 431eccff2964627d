package views

import (
	"context"
	"net/http"
)

// MsgBookingAlert is shown after a successful checkout redirect.
const MsgBookingAlert = "Reservation confirmed! Check your inbox for a confirmation email. " +
	"If your booking doesn't appear immediately, please return later."

var alertMessages = map[string]string{
	"booking": MsgBookingAlert,
}

// Alerts turns the ?alert= query parameter into a message every page renders.
// Unknown alert names are ignored.
func Alerts(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if msg, ok := alertMessages[r.URL.Query().Get("alert")]; ok {
			r = r.WithContext(context.WithValue(r.Context(), alertKey, msg))
		}
		next.ServeHTTP(w, r)
	})
}
