package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/croftbar/member-portal/internal/common/logger"
)

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the users table on startup, retrying transient
// connection failures. The unique constraints on email and username are the
// authoritative guard against concurrent duplicate registrations.
func EnsureSchema(ctx context.Context, log *logger.Logger, pool *pgxpool.Pool) error {
	err := RetryWithBackoff(ctx, log, DefaultRetryConfig, "ensure_schema", func() error {
		_, err := pool.Exec(ctx, usersSchema)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to ensure users schema: %w", err)
	}
	return nil
}
