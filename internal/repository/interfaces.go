package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Daffa964/api-edutrash/internal/domain"
)

// ErrEmailTaken is returned by Create when the email uniqueness constraint rejects the insert.
var ErrEmailTaken = errors.New("email already registered")

// UserRepository exposes persistence for user accounts.
// Lookups that find nothing return an error wrapping pgx.ErrNoRows.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, userID int64) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
}

// FunFactCache stores generated fun facts keyed by category.
// Get reports ok=false on a miss.
type FunFactCache interface {
	Get(ctx context.Context, category string) (fact string, ok bool, err error)
	Set(ctx context.Context, category, fact string, ttl time.Duration) error
}
