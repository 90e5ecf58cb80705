package http

import (
	"net/http"

	"github.com/Flarenzy/simple-auth-api/internal/auth"
)

const (
	msgNoToken      = "Unauthorized, no token"
	msgInvalidToken = "Invalid or expired token"
)

// authMiddleware admits a request only when it carries a bearer token the
// configured authenticator accepts, and attaches the resulting principal to
// the request context. Without an authenticator every request is rejected.
func (a *API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			a.Logger.DebugContext(ctx, "rejecting request without bearer token", "path", r.URL.Path)
			a.unauthorized(w, r, msgNoToken)
			return
		}

		if a.Auth == nil {
			a.Logger.ErrorContext(ctx, "no authenticator configured", "path", r.URL.Path)
			a.unauthorized(w, r, msgInvalidToken)
			return
		}

		principal, err := a.Auth.Authenticate(ctx, token)
		if err != nil {
			a.Logger.DebugContext(ctx, "token verification failed", "path", r.URL.Path, "err", err.Error())
			a.unauthorized(w, r, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(ctx, principal)))
	})
}

func (a *API) unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	a.respond(w, r, http.StatusUnauthorized, ErrorResponse{Message: message})
}
