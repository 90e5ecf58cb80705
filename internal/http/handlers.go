package http

import (
	"errors"
	"net/http"

	"github.com/Flarenzy/simple-auth-api/internal/auth"
	"github.com/Flarenzy/simple-auth-api/internal/domain"
)

// @Summary Health check
// @Tags health
// @Success 200 {string} string "ok"
// @Router /healthz [get]
func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// @Summary Readiness check
// @Tags health
// @Success 200 {string} string "ready"
// @Failure 503 {string} string "db unavailable"
// @Router /readyz [get]
func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if a.Health == nil {
		http.Error(w, "db unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := a.Health.Ping(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "db ping failed", "err", err)
		http.Error(w, "db unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// @Summary Register user
// @Tags users
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration payload"
// @Success 201 {object} UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/register [post]
func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := decode[RegisterRequest](r)
	defer r.Body.Close()
	if err != nil {
		a.Logger.DebugContext(ctx, "unmarshaling register request", "err", err.Error())
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Message: "bad request"})
		return
	}

	user, err := a.Users.Register(ctx, req.toInput())
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	a.respond(w, r, http.StatusCreated, userToResponse(user))
}

// @Summary Log in
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login payload"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/login [post]
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := decode[LoginRequest](r)
	defer r.Body.Close()
	if err != nil {
		a.Logger.DebugContext(ctx, "unmarshaling login request", "err", err.Error())
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Message: "bad request"})
		return
	}

	session, err := a.Users.Login(ctx, req.toInput())
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	a.respond(w, r, http.StatusOK, sessionToResponse(session))
}

// @Summary Current user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/profile [get]
func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		a.Logger.ErrorContext(ctx, "profile reached without principal")
		a.unauthorized(w, r, msgNoToken)
		return
	}

	user, err := a.Users.Profile(ctx, domain.UserID(principal.UserID))
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	a.respond(w, r, http.StatusOK, userToResponse(user))
}

// writeDomainError maps service errors to a status code and a client-safe message.
func (a *API) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		a.respond(w, r, http.StatusConflict, ErrorResponse{Message: "email already registered"})
	case errors.Is(err, domain.ErrUnauthorized):
		a.respond(w, r, http.StatusUnauthorized, ErrorResponse{Message: "invalid email or password"})
	case errors.Is(err, domain.ErrNotFound):
		a.respond(w, r, http.StatusNotFound, ErrorResponse{Message: "user not found"})
	default:
		a.Logger.ErrorContext(r.Context(), "uncaught error", "path", r.URL.Path, "err", err.Error())
		a.respond(w, r, http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
	}
}
