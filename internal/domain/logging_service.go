package domain

import (
	"context"
	"log/slog"
)

type loggingUserService struct {
	logger *slog.Logger
	next   UserService
}

func NewLoggingUserService(logger *slog.Logger, next UserService) UserService {
	if logger == nil || next == nil {
		return next
	}

	return &loggingUserService{
		logger: logger,
		next:   next,
	}
}

func (s *loggingUserService) Register(ctx context.Context, input RegisterInput) (User, error) {
	user, err := s.next.Register(ctx, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "register user failed", "email", input.Email, "err", err.Error())
		return User{}, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", string(user.ID))
	return user, nil
}

func (s *loggingUserService) Login(ctx context.Context, input LoginInput) (Session, error) {
	session, err := s.next.Login(ctx, input)
	if err != nil {
		s.logger.WarnContext(ctx, "login failed", "email", input.Email, "err", err.Error())
		return Session{}, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", string(session.User.ID), "expires_at", session.ExpiresAt)
	return session, nil
}

func (s *loggingUserService) Profile(ctx context.Context, id UserID) (User, error) {
	user, err := s.next.Profile(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "get profile failed", "user_id", string(id), "err", err.Error())
	}
	return user, err
}
