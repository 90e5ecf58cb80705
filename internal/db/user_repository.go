package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/Flarenzy/simple-auth-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const uniqueViolation = "23505"

const (
	createUser = `INSERT INTO users (id, name, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING id, name, email, password_hash, created_at, updated_at`

	getUserByID = `SELECT id, name, email, password_hash, created_at, updated_at
FROM users WHERE id = $1`

	getUserByEmail = `SELECT id, name, email, password_hash, created_at, updated_at
FROM users WHERE email = $1`
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

type userRow struct {
	ID           pgtype.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

func (r *UserRepository) Create(ctx context.Context, input domain.CreateUserRecord) (domain.User, error) {
	id := uuid.New()
	user, err := r.scanUser(r.db.QueryRow(ctx, createUser,
		pgtype.UUID{Bytes: id, Valid: true},
		input.Name,
		input.Email,
		input.PasswordHash,
	))
	if err != nil {
		if isUniqueEmailViolation(err) {
			return domain.User{}, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return domain.User{}, err
	}

	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	parsedID, err := parseDomainUserID(id)
	if err != nil {
		// Identities that are not UUIDs can never match a row.
		return domain.User{}, domain.ErrNotFound
	}

	user, err := r.scanUser(r.db.QueryRow(ctx, getUserByID, parsedID))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := r.scanUser(r.db.QueryRow(ctx, getUserByEmail, email))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	return user, nil
}

func (r *UserRepository) scanUser(row pgx.Row) (domain.User, error) {
	var u userRow
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, err
	}
	return toDomainUser(u), nil
}

func toDomainUser(u userRow) domain.User {
	return domain.User{
		ID:           domain.UserID(uuid.UUID(u.ID.Bytes).String()),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.Time,
		UpdatedAt:    u.UpdatedAt.Time,
	}
}

func parseDomainUserID(id domain.UserID) (pgtype.UUID, error) {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return pgtype.UUID{}, err
	}

	return pgtype.UUID{Bytes: u, Valid: true}, nil
}

func isUniqueEmailViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "unique_email"
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
