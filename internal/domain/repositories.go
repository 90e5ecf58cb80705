package domain

import "context"

type UserRepository interface {
	Create(ctx context.Context, input CreateUserRecord) (User, error)
	FindByID(ctx context.Context, id UserID) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
}
