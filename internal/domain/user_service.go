package domain

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72

	// Compared against on unknown emails so both login failures cost one hash check.
	dummyPassword = "dummy-password-for-unknown-users"
)

type userService struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer

	dummyHash func() (string, error)
}

func NewUserService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		dummyHash: sync.OnceValues(func() (string, error) {
			return hasher.Hash(dummyPassword)
		}),
	}
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return User{}, err
	}

	if n := len(input.Password); n < minPasswordLength || n > maxPasswordLength {
		return User{}, fmt.Errorf("%w: password must be between %d and %d bytes", ErrInvalidInput, minPasswordLength, maxPasswordLength)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return User{}, err
	}

	return s.users.Create(ctx, CreateUserRecord{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
}

func (s *userService) Login(ctx context.Context, input LoginInput) (Session, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return Session{}, err
	}
	if input.Password == "" {
		return Session{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			if hash, hashErr := s.dummyHash(); hashErr == nil {
				_ = s.hasher.Compare(hash, input.Password)
			}
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(string(user.ID))
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *userService) Profile(ctx context.Context, id UserID) (User, error) {
	if id == "" {
		return User{}, ErrUnauthorized
	}
	return s.users.FindByID(ctx, id)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return email, nil
}
