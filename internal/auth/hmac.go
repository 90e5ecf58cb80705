package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret NewHMACAuthenticator accepts.
const MinSecretLength = 16

var hmacMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// Claims is the payload of tokens issued at login. The identity lives in
// "id"; "sub" carries the same value for consumers that expect it there.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

type HMACConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	Leeway time.Duration
}

func (c HMACConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("secret", "[redacted]"),
		slog.Duration("ttl", c.TTL),
		slog.String("issuer", c.Issuer),
		slog.Duration("leeway", c.Leeway),
	)
}

// HMACAuthenticator issues and verifies tokens signed with a shared secret.
// It holds no mutable state and is safe for concurrent use.
type HMACAuthenticator struct {
	secret []byte
	ttl    time.Duration
	issuer string
	parser *jwt.Parser
	now    func() time.Time
}

func NewHMACAuthenticator(cfg HMACConfig) (*HMACAuthenticator, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("hmac secret must be at least %d bytes", MinSecretLength)
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	if cfg.Leeway < 0 {
		return nil, errors.New("token leeway must not be negative")
	}

	a := &HMACAuthenticator{
		secret: append([]byte(nil), cfg.Secret...),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(hmacMethods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithTimeFunc(func() time.Time { return a.now() }),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	a.parser = jwt.NewParser(opts...)

	return a, nil
}

// Issue signs a token for userID that expires after the configured TTL.
func (a *HMACAuthenticator) Issue(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("cannot issue token without user id")
	}

	now := a.now()
	expiresAt := now.Add(a.ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Authenticate verifies bearerToken and returns the identity it carries.
// Every failure is reported as ErrInvalidToken wrapping the parser error.
func (a *HMACAuthenticator) Authenticate(_ context.Context, bearerToken string) (Principal, error) {
	claims := &Claims{}
	token, err := a.parser.ParseWithClaims(bearerToken, claims, a.keyfunc)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return Principal{}, ErrInvalidToken
	}

	return Principal{UserID: claims.UserID}, nil
}

func (a *HMACAuthenticator) keyfunc(*jwt.Token) (any, error) {
	return a.secret, nil
}
