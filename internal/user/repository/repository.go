package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/croftbar/member-portal/internal/common/db"
	"github.com/croftbar/member-portal/internal/common/logger"
	"github.com/croftbar/member-portal/internal/user/domain"
)

type Repository interface {
	Create(ctx context.Context, user domain.User) (domain.ID, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.ID, error) {
	var id int64
	err := db.RetryWithBackoff(ctx, r.log, db.DefaultRetryConfig, "create_user", func() error {
		start := time.Now()
		err := r.pool.QueryRow(
			ctx,
			`INSERT INTO users (first_name, last_name, email, username, password_hash)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			user.FirstName,
			user.LastName,
			user.Email,
			user.Username,
			user.PasswordHash,
		).Scan(&id)
		db.MeasureQuery("create_user", start, err)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateUser
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return domain.ID(id), nil
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	user, err := r.findOne(ctx, "find_user_by_username",
		`SELECT id, first_name, last_name, email, username, password_hash, created_at
		 FROM users WHERE username = $1`,
		username,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

func (r *PgRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error) {
	user, err := r.findOne(ctx, "find_user_by_username_or_email",
		`SELECT id, first_name, last_name, email, username, password_hash, created_at
		 FROM users WHERE username = $1 OR email = $2
		 LIMIT 1`,
		username,
		email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to find user by username or email: %w", err)
	}
	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	user, err := r.findOne(ctx, "find_user_by_id",
		`SELECT id, first_name, last_name, email, username, password_hash, created_at
		 FROM users WHERE id = $1`,
		int64(id),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to find user by id: %w", err)
	}
	return user, nil
}

func (r *PgRepository) findOne(ctx context.Context, operation, query string, args ...interface{}) (domain.User, error) {
	var user domain.User
	err := db.RetryWithBackoff(ctx, r.log, db.DefaultRetryConfig, operation, func() error {
		start := time.Now()
		err := scanUser(r.pool.QueryRow(ctx, query, args...), &user)
		db.MeasureQuery(operation, start, ignoreNotFound(err))
		return err
	})
	return user, err
}

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

var ErrUserNotFound = errors.New("user not found")

var ErrDuplicateUser = errors.New("username or email already exists")
