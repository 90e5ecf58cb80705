package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Flarenzy/simple-auth-api/internal/auth"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret-0123456789")

func newTestAuthenticator(t *testing.T) *auth.HMACAuthenticator {
	t.Helper()

	a, err := auth.NewHMACAuthenticator(auth.HMACConfig{Secret: testSecret, TTL: time.Hour})
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}
	return a
}

func newTestAPI(t *testing.T) *API {
	return &API{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Auth:   newTestAuthenticator(t),
	}
}

func signToken(t *testing.T, claims jwt.MapClaims, secret []byte) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func makeClaims(id string, expiresIn time.Duration) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"id":  id,
		"iat": now.Unix(),
		"exp": now.Add(expiresIn).Unix(),
	}
}

func serveProtected(t *testing.T, api *API, authorization string, next http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	handler := api.authMiddleware(next)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/profile", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func mustNotBeCalled(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("downstream handler must not be called")
	}
}

func assertUnauthorized(t *testing.T, rec *httptest.ResponseRecorder, message string) {
	t.Helper()

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != message {
		t.Fatalf("expected message %q, got %q", message, body.Message)
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	rec := serveProtected(t, newTestAPI(t), "", mustNotBeCalled(t))
	assertUnauthorized(t, rec, "Unauthorized, no token")
}

func TestAuthMiddlewareRejectsNonBearerScheme(t *testing.T) {
	rec := serveProtected(t, newTestAPI(t), "Basic xyz", mustNotBeCalled(t))
	assertUnauthorized(t, rec, "Unauthorized, no token")
}

func TestAuthMiddlewareRejectsEmptyBearerToken(t *testing.T) {
	rec := serveProtected(t, newTestAPI(t), "Bearer ", mustNotBeCalled(t))
	assertUnauthorized(t, rec, "Invalid or expired token")
}

func TestRouterRejectsEmptyBearerTokenOverTheWire(t *testing.T) {
	server := httptest.NewServer(newTestAPI(t).Router())
	defer server.Close()

	conn, err := net.Dial("tcp", server.Listener.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The server trims the trailing space, so the handler sees "Bearer".
	raw := "GET /api/v1/users/profile HTTP/1.1\r\n" +
		"Host: " + server.Listener.Addr().String() + "\r\n" +
		"Authorization: Bearer \r\n" +
		"Connection: close\r\n\r\n"
	if _, err := io.WriteString(conn, raw); err != nil {
		t.Fatalf("write request: %v", err)
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "Invalid or expired token" {
		t.Fatalf("expected invalid token message, got %q", body.Message)
	}
}

func TestAuthMiddlewareRejectsMalformedToken(t *testing.T) {
	rec := serveProtected(t, newTestAPI(t), "Bearer not-a-jwt", mustNotBeCalled(t))
	assertUnauthorized(t, rec, "Invalid or expired token")
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	token := signToken(t, makeClaims("42", time.Hour), []byte("some-other-secret-value"))
	rec := serveProtected(t, newTestAPI(t), "Bearer "+token, mustNotBeCalled(t))
	assertUnauthorized(t, rec, "Invalid or expired token")
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	token := signToken(t, makeClaims("42", -time.Minute), testSecret)
	rec := serveProtected(t, newTestAPI(t), "Bearer "+token, mustNotBeCalled(t))
	assertUnauthorized(t, rec, "Invalid or expired token")
}

func TestAuthMiddlewareFailsClosedWithoutAuthenticator(t *testing.T) {
	api := newTestAPI(t)
	api.Auth = nil

	token := signToken(t, makeClaims("42", time.Hour), testSecret)
	rec := serveProtected(t, api, "Bearer "+token, mustNotBeCalled(t))
	assertUnauthorized(t, rec, "Invalid or expired token")
}

func TestAuthMiddlewareAdmitsValidToken(t *testing.T) {
	called := false
	token := signToken(t, makeClaims("42", time.Hour), testSecret)

	rec := serveProtected(t, newTestAPI(t), "Bearer "+token, func(w http.ResponseWriter, r *http.Request) {
		called = true
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			t.Fatal("expected principal in context")
		}
		if principal.UserID != "42" {
			t.Fatalf("unexpected user id: %q", principal.UserID)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected %d, got %d", http.StatusNoContent, rec.Code)
	}
	if !called {
		t.Fatal("expected downstream handler to be called")
	}
}

func TestAuthMiddlewareAdmitsIssuedToken(t *testing.T) {
	api := newTestAPI(t)
	token, _, err := api.Auth.(*auth.HMACAuthenticator).Issue("u123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got string
	rec := serveProtected(t, api, "Bearer "+token, func(w http.ResponseWriter, r *http.Request) {
		principal, _ := auth.PrincipalFromContext(r.Context())
		got = principal.UserID
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}
	if got != "u123" {
		t.Fatalf("expected identity u123, got %q", got)
	}
}

type recordingAuthenticator struct {
	token string
}

func (r *recordingAuthenticator) Authenticate(_ context.Context, token string) (auth.Principal, error) {
	r.token = token
	return auth.Principal{UserID: "x"}, nil
}

func TestAuthMiddlewarePassesTokenAfterScheme(t *testing.T) {
	recorder := &recordingAuthenticator{}
	api := newTestAPI(t)
	api.Auth = recorder

	serveProtected(t, api, "Bearer abc.def.ghi", func(http.ResponseWriter, *http.Request) {})

	if recorder.token != "abc.def.ghi" {
		t.Fatalf("expected token after scheme, got %q", recorder.token)
	}
}
