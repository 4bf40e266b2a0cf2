// file: handler/ratelimit_middleware.go

package handler

import (
	"errors"
	"med-transcribe-api/common"
	"med-transcribe-api/service"
	"net/http"
	"strconv"
)

// RateLimitMiddleware counts each request against the route's configured
// per-IP window before the handler runs. Over-limit requests get a 429
// with a Retry-After header.
func RateLimitMiddleware(limiter *service.RateLimitService, routeKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := limiter.Allow(r.Context(), ClientIP(r), routeKey); err != nil {
				var rateErr *service.RateLimitError
				if errors.As(err, &rateErr) {
					w.Header().Set("Retry-After", strconv.Itoa(rateErr.RetryAfter))
					appErr := common.NewAppError(http.StatusTooManyRequests, rateErr.Error(), nil)
					appErr.Send(w)
					return
				}
				appErr := common.NewAppError(http.StatusInternalServerError, "Could not check request rate", err)
				appErr.Send(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
