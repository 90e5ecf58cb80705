package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/golang-jwt/jwt/v5"
)

type staticKeyfunc struct {
	secret []byte
}

func (s staticKeyfunc) Keyfunc(_ *jwt.Token) (any, error) {
	return s.secret, nil
}

func (s staticKeyfunc) KeyfuncCtx(_ context.Context) jwt.Keyfunc {
	return s.Keyfunc
}

func (s staticKeyfunc) Storage() jwkset.Storage {
	return nil
}

func (s staticKeyfunc) VerificationKeySet(_ context.Context) (jwt.VerificationKeySet, error) {
	return jwt.VerificationKeySet{}, nil
}

func makeOIDCClaims(issuer string, audience any) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss": issuer,
		"sub": "user-1",
		"aud": audience,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
}

func newTestJWKSAuthenticator() *jwksAuthenticator {
	return &jwksAuthenticator{
		issuer:   "http://keycloak.local/realms/users",
		audience: "users-api",
		jwks:     staticKeyfunc{secret: []byte("test-secret")},
	}
}

func TestJWKSAuthenticatorRejectsWrongAudience(t *testing.T) {
	authenticator := newTestJWKSAuthenticator()

	token := signToken(t, makeOIDCClaims("http://keycloak.local/realms/users", []string{"other-api"}), []byte("test-secret"))
	_, err := authenticator.Authenticate(context.Background(), token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWKSAuthenticatorRejectsWrongIssuer(t *testing.T) {
	authenticator := newTestJWKSAuthenticator()

	token := signToken(t, makeOIDCClaims("http://wrong-issuer/realms/users", []string{"users-api"}), []byte("test-secret"))
	_, err := authenticator.Authenticate(context.Background(), token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWKSAuthenticatorReturnsPrincipal(t *testing.T) {
	authenticator := newTestJWKSAuthenticator()

	token := signToken(t, makeOIDCClaims("http://keycloak.local/realms/users", []string{"users-api"}), []byte("test-secret"))
	principal, err := authenticator.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if principal.UserID != "user-1" {
		t.Fatalf("unexpected user id: %v", principal.UserID)
	}
}

func TestNewJWKSAuthenticatorDisabledReturnsNil(t *testing.T) {
	authenticator, err := NewJWKSAuthenticator(context.Background(), JWKSConfig{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if authenticator != nil {
		t.Fatal("expected nil authenticator without jwks url")
	}
}

func TestNewJWKSAuthenticatorRequiresIssuer(t *testing.T) {
	_, err := NewJWKSAuthenticator(context.Background(), JWKSConfig{JWKSURL: "http://127.0.0.1:1/certs"})
	if err == nil {
		t.Fatal("expected error when issuer is empty")
	}
}

func TestNewJWKSAuthenticatorFailsWhenJWKSUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/certs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("no jwks"))
	}))
	defer server.Close()

	_, err := NewJWKSAuthenticator(context.Background(), JWKSConfig{
		Issuer:   "http://keycloak.local/realms/users",
		JWKSURL:  server.URL + "/certs",
		Audience: "users-api",
	})
	if err == nil {
		t.Fatal("expected error when jwks endpoint is unavailable")
	}
	if !errors.Is(err, jwkset.ErrInvalidHTTPStatusCode) || !strings.Contains(err.Error(), "502") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewJWKSAuthenticatorFetchesKeySetOnce(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"keys":[]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	authenticator, err := NewJWKSAuthenticator(ctx, JWKSConfig{
		Issuer:  "http://keycloak.local/realms/users",
		JWKSURL: server.URL + "/certs",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if authenticator == nil {
		t.Fatal("expected authenticator")
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("expected a single jwks request at startup, got %d", got)
	}
}
