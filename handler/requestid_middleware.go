// file: handler/requestid_middleware.go

package handler

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDMiddleware injects a unique X-Request-Id header into every
// request/response pair, preserving an incoming one if present.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
			r.Header.Set("X-Request-Id", id)
		}
		w.Header().Set("X-Request-Id", id)

		next.ServeHTTP(w, r)
	})
}
