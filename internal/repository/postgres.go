package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Daffa964/api-edutrash/internal/domain"
)

// Compile-time interface assertions.
var _ UserRepository = (*PostgresUserRepo)(nil)

const defaultStoreTimeout = 5 * time.Second

// Querier is the subset of pgxpool.Pool used by the repositories.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresUserRepo implements UserRepository.
type PostgresUserRepo struct {
	db      Querier
	timeout time.Duration
}

// NewPostgresUserRepo bounds every statement by timeout; zero selects 5s.
func NewPostgresUserRepo(db Querier, timeout time.Duration) *PostgresUserRepo {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &PostgresUserRepo{db: db, timeout: timeout}
}

const selectUserSQL = `SELECT id, username, email, password_hash, created_at FROM users`

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	user, err := scanUser(r.db.QueryRow(ctx, selectUserSQL+` WHERE email = $1`, email))
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	user, err := scanUser(r.db.QueryRow(ctx, selectUserSQL+` WHERE id = $1`, userID))
	if err != nil {
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

const insertUserSQL = `INSERT INTO users (id, username, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING id, username, email, password_hash, created_at`

func (r *PostgresUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	created, err := scanUser(r.db.QueryRow(ctx, insertUserSQL,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == "users_email_key" {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Ping checks the store is reachable.
func (r *PostgresUserRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.db.Exec(ctx, `SELECT 1`); err != nil {
		return fmt.Errorf("ping store: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
