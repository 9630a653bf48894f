// Package middleware provides HTTP middleware for the basenames API.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Strob0t/basenames/internal/logger"
)

const (
	headerRequestID    = "X-Request-ID"
	maxRequestIDLength = 64
)

// RequestID is HTTP middleware that reuses a well-formed inbound X-Request-ID
// or generates a new one. The ID is stored in the context and echoed on the
// response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if !acceptableID(id) {
			id = uuid.NewString()
		}

		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

// acceptableID rejects empty, oversized or non-printable IDs so they never
// reach log output.
func acceptableID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
