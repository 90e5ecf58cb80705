package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Flarenzy/simple-auth-api/internal/auth"
	"github.com/Flarenzy/simple-auth-api/internal/domain"
	httpSwagger "github.com/swaggo/http-swagger"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type API struct {
	Logger *slog.Logger
	Health HealthChecker
	Users  domain.UserService
	Auth   auth.Authenticator
}

func NewAPI(logger *slog.Logger, health HealthChecker, users domain.UserService, authenticator auth.Authenticator) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		Logger: logger,
		Health: health,
		Users:  users,
		Auth:   authenticator,
	}
}

func (a *API) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", a.handleHealthz)
	mux.HandleFunc("GET /readyz", a.handleReadyz)
	mux.HandleFunc("POST /api/v1/users/register", a.handleRegister)
	mux.HandleFunc("POST /api/v1/users/login", a.handleLogin)
	mux.Handle("GET /api/v1/users/profile", a.authMiddleware(http.HandlerFunc(a.handleProfile)))
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return a.requestIDMiddleware(a.accessLogMiddleware(mux))
}
