package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSConfig configures verification of tokens minted by an external OpenID
// Connect provider. An empty JWKSURL disables it.
type JWKSConfig struct {
	JWKSURL  string
	Issuer   string
	Audience string
}

const (
	jwksHTTPTimeout     = 10 * time.Second
	jwksRefreshInterval = time.Hour
)

type jwksAuthenticator struct {
	issuer   string
	audience string
	jwks     keyfunc.Keyfunc
}

// NewJWKSAuthenticator returns nil when cfg has no JWKS URL. The key set is
// fetched before returning, so startup fails if it cannot be loaded. It is
// refreshed in the background until ctx is canceled.
func NewJWKSAuthenticator(ctx context.Context, cfg JWKSConfig) (Authenticator, error) {
	if cfg.JWKSURL == "" {
		return nil, nil
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("jwks url set but issuer is empty")
	}

	storage, err := jwkset.NewStorageFromHTTP(cfg.JWKSURL, jwkset.HTTPClientStorageOptions{
		Ctx:             ctx,
		HTTPTimeout:     jwksHTTPTimeout,
		RefreshInterval: jwksRefreshInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks from %s: %w", cfg.JWKSURL, err)
	}

	kf, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("build keyfunc for %s: %w", cfg.JWKSURL, err)
	}

	return &jwksAuthenticator{
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		jwks:     kf,
	}, nil
}

func (a *jwksAuthenticator) Authenticate(_ context.Context, bearerToken string) (Principal, error) {
	claims := jwt.MapClaims{}
	opts := []jwt.ParserOption{
		jwt.WithLeeway(5 * time.Second),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(a.issuer),
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}

	token, err := jwt.ParseWithClaims(bearerToken, claims, a.jwks.Keyfunc, opts...)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return Principal{}, ErrInvalidToken
	}

	return Principal{UserID: subject}, nil
}
