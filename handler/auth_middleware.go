package handler

import (
	"context"
	"med-transcribe-api/common"
	"med-transcribe-api/model"
	"med-transcribe-api/service"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UsernameKey contextKey = "username"
)

// AuthMiddleware validates the bearer access token on protected routes and
// places the authenticated identity into the request context. Refresh
// tokens are rejected here; they are only accepted by the refresh endpoint.
func AuthMiddleware(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				err := common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil)
				err.Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				err := common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil)
				err.Send(w)
				return
			}

			claims, err := tokens.VerifyToken(headerParts[1], model.TokenTypeAccess)
			if err != nil {
				message := "Invalid token"
				if err == service.ErrExpiredToken {
					message = "Token has expired"
				}
				appErr := common.NewAppError(http.StatusUnauthorized, message, nil)
				appErr.Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UsernameKey, claims.Subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
