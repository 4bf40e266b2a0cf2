package router

import (
	"med-transcribe-api/handler"
	"med-transcribe-api/service"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "med-transcribe-api/docs"
)

func NewRouter(authHandler *handler.AuthHandler, tokens *service.TokenService, limiter *service.RateLimitService) http.Handler {
	mux := http.NewServeMux()

	rateLimited := func(routeKey string, h http.Handler) http.Handler {
		return handler.RateLimitMiddleware(limiter, routeKey)(h)
	}
	authenticated := handler.AuthMiddleware(tokens)

	mux.Handle("POST /api/register", rateLimited("register", handler.ErrorHandlingMiddleware(authHandler.Register)))
	mux.Handle("POST /api/token", rateLimited("login", handler.ErrorHandlingMiddleware(authHandler.Login)))
	mux.Handle("POST /api/refresh-token", rateLimited("token-refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh)))

	mux.Handle("GET /api/users/me", authenticated(handler.ErrorHandlingMiddleware(authHandler.Me)))
	mux.Handle("PUT /api/users/me/password", authenticated(handler.ErrorHandlingMiddleware(authHandler.ChangePassword)))

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return handler.RequestIDMiddleware(mux)
}
