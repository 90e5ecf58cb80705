package domain

import (
	"context"
	"time"
)

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (User, error)
	Login(ctx context.Context, input LoginInput) (Session, error)
	Profile(ctx context.Context, id UserID) (User, error)
}

// PasswordHasher hashes and checks user passwords. Compare returns a non-nil
// error for any mismatch.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer mints the bearer credential handed out at login.
type TokenIssuer interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
}
