/**
 * @description
 * Idempotent schema bootstrap. EnsureSchema runs at startup so a fresh
 * database is usable without a separate migration step.
 *
 * The unique index on accounts.user_id enforces the one-account-per-user rule
 * at the storage layer; the application treats its violation as
 * ErrAccountExists. users.user_id gets the same treatment for profiles.
 */

package store

import (
	"context"
	"fmt"
)

const schema = `
	CREATE TABLE IF NOT EXISTS credentials (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL UNIQUE,
		username TEXT NOT NULL,
		payment_password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		number TEXT NOT NULL,
		username TEXT NOT NULL,
		user_id UUID NOT NULL UNIQUE,
		balance BIGINT NOT NULL CHECK (balance >= 0),
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		sender_name TEXT NOT NULL,
		sender_number TEXT NOT NULL,
		receiver_name TEXT NOT NULL,
		receiver_number TEXT NOT NULL,
		amount BIGINT NOT NULL CHECK (amount > 0),
		memo TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_number ON accounts (number);
	CREATE INDEX IF NOT EXISTS idx_transactions_sender_number ON transactions (sender_number, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_transactions_receiver_number ON transactions (receiver_number, created_at DESC);
`

// EnsureSchema creates the required tables and indexes if they do not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("schema bootstrap failed: %w", err)
	}
	return nil
}
