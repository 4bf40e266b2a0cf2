// file: handler/client_ip_test.go

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	t.Run("x-forwarded-for wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:1234"
		req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")

		assert.Equal(t, "203.0.113.5", ClientIP(req))
	})

	t.Run("remote addr without header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:1234"

		assert.Equal(t, "192.0.2.10", ClientIP(req))
	})

	t.Run("remote addr without port", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10"

		assert.Equal(t, "192.0.2.10", ClientIP(req))
	})

	t.Run("nothing known", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ""

		assert.Equal(t, "unknown", ClientIP(req))
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("generates an id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()

		RequestIDMiddleware(inner).ServeHTTP(rr, req)

		assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	})

	t.Run("preserves an incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", "incoming-id")
		rr := httptest.NewRecorder()

		RequestIDMiddleware(inner).ServeHTTP(rr, req)

		assert.Equal(t, "incoming-id", rr.Header().Get("X-Request-Id"))
	})
}
