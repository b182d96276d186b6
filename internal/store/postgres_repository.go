/**
 * @description
 * PostgreSQL implementation of the `Repository` interface. All SQL for the
 * `credentials`, `users`, `accounts`, and `transactions` tables lives here.
 *
 * The two multi-statement paths (account provisioning with seed data, and the
 * transfer commit) run inside a single pgx transaction so the whole batch is
 * atomic. Transfer balance updates carry a version precondition: the update
 * only applies when the row still has the version the caller read, closing
 * the lost-update window between validation and commit.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver.
 * - internal/domain: Domain models.
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sumin-dev/Silver-Bank/internal/domain"
)

const uniqueViolation = "23505"

// PostgresRepository is the concrete Repository backed by a pgx pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateCredential(ctx context.Context, cred *domain.Credential) error {
	query := `
		INSERT INTO credentials (id, email, password_hash, display_name)
		VALUES ($1, lower(btrim($2)), $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, cred.ID, cred.Email, cred.PasswordHash, cred.DisplayName).
		Scan(&cred.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("credential insert failed: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	var cred domain.Credential
	query := `
		SELECT id, email, password_hash, display_name, created_at
		FROM credentials
		WHERE email = lower(btrim($1))
	`
	err := r.db.QueryRow(ctx, query, email).
		Scan(&cred.ID, &cred.Email, &cred.PasswordHash, &cred.DisplayName, &cred.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}
	return &cred, nil
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, profile *domain.UserProfile) error {
	query := `
		INSERT INTO users (id, user_id, username, payment_password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, profile.ID, profile.UserID, profile.Username, profile.PaymentPasswordHash).
		Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrProfileExists
		}
		return fmt.Errorf("profile insert failed: %w", err)
	}
	return nil
}

// FindProfileByUserID keeps the original first-match semantics (LIMIT 1) even
// though the unique index on user_id makes duplicates impossible.
func (r *PostgresRepository) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	var p domain.UserProfile
	query := `
		SELECT id, user_id, username, payment_password_hash, created_at, updated_at, deleted_at
		FROM users
		WHERE user_id = $1 AND deleted_at IS NULL
		LIMIT 1
	`
	err := r.db.QueryRow(ctx, query, userID).
		Scan(&p.ID, &p.UserID, &p.Username, &p.PaymentPasswordHash, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) CreateAccountWithSeed(ctx context.Context, account *domain.Account, seed []domain.Transaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	insertAccount := `
		INSERT INTO accounts (id, number, username, user_id, balance, version)
		VALUES ($1, $2, $3, $4, $5, 1)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, insertAccount,
		account.ID, account.Number, account.Username, account.UserID, account.Balance).
		Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAccountExists
		}
		return fmt.Errorf("account insert failed: %w", err)
	}
	account.Version = 1

	insertTx := `
		INSERT INTO transactions (id, sender_name, sender_number, receiver_name, receiver_number, amount, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range seed {
		t := &seed[i]
		if _, err := tx.Exec(ctx, insertTx,
			t.ID, t.SenderName, t.SenderNumber, t.ReceiverName, t.ReceiverNumber, t.Amount, t.Memo); err != nil {
			return fmt.Errorf("seed transaction insert failed: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx commit failed: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindAccountByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	return r.findAccount(ctx, r.db, "user_id = $1", userID)
}

func (r *PostgresRepository) FindAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	return r.findAccount(ctx, r.db, "number = $1", number)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PostgresRepository) findAccount(ctx context.Context, q queryRower, where string, arg any) (*domain.Account, error) {
	var a domain.Account
	query := `
		SELECT id, number, username, user_id, balance, version, created_at, updated_at, deleted_at
		FROM accounts
		WHERE ` + where + ` AND deleted_at IS NULL
		LIMIT 1
	`
	err := q.QueryRow(ctx, query, arg).
		Scan(&a.ID, &a.Number, &a.Username, &a.UserID, &a.Balance, &a.Version,
			&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ExecuteTransfer commits one transfer as a single transaction:
// debit sender, credit receiver, append the transaction record.
// The receiver is re-read by number here rather than trusting the caller's
// validation-time snapshot, which shrinks (but does not remove) the staleness
// window; the version preconditions on both updates remove it.
func (r *PostgresRepository) ExecuteTransfer(ctx context.Context, params TransferParams) (*domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	receiver, err := r.findAccount(ctx, tx, "number = $1", params.ReceiverNumber)
	if err != nil {
		return nil, err
	}

	debit := `
		UPDATE accounts
		SET balance = balance - $1, version = version + 1, updated_at = now()
		WHERE id = $2 AND version = $3 AND balance >= $1
	`
	tag, err := tx.Exec(ctx, debit, params.Amount, params.SenderAccountID, params.SenderVersion)
	if err != nil {
		return nil, fmt.Errorf("sender debit failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a lost version race from an actual shortfall.
		var version, balance int64
		err := tx.QueryRow(ctx, "SELECT version, balance FROM accounts WHERE id = $1", params.SenderAccountID).
			Scan(&version, &balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrAccountNotFound
			}
			return nil, err
		}
		if version != params.SenderVersion {
			return nil, ErrStaleBalance
		}
		return nil, ErrInsufficientFunds
	}

	credit := `
		UPDATE accounts
		SET balance = balance + $1, version = version + 1, updated_at = now()
		WHERE id = $2 AND version = $3
	`
	tag, err = tx.Exec(ctx, credit, params.Amount, receiver.ID, receiver.Version)
	if err != nil {
		return nil, fmt.Errorf("receiver credit failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrStaleBalance
	}

	record := &domain.Transaction{
		ID:             uuid.New(),
		SenderName:     params.SenderName,
		SenderNumber:   params.SenderNumber,
		ReceiverName:   receiver.Username,
		ReceiverNumber: receiver.Number,
		Amount:         params.Amount,
		Memo:           params.Memo,
	}
	insert := `
		INSERT INTO transactions (id, sender_name, sender_number, receiver_name, receiver_number, amount, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, insert,
		record.ID, record.SenderName, record.SenderNumber,
		record.ReceiverName, record.ReceiverNumber, record.Amount, record.Memo).
		Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("transaction insert failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("tx commit failed: %w", err)
	}
	return record, nil
}

func (r *PostgresRepository) FindSentTransactions(ctx context.Context, senderNumber string) ([]domain.Transaction, error) {
	query := `
		SELECT id, sender_name, sender_number, receiver_name, receiver_number, amount, memo, created_at, updated_at, deleted_at
		FROM transactions
		WHERE sender_number = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`
	return r.queryTransactions(ctx, query, senderNumber)
}

// FindReceivedTransactions is intentionally unordered; the history view merges
// it with the sent set and sorts the union itself.
func (r *PostgresRepository) FindReceivedTransactions(ctx context.Context, receiverNumber string) ([]domain.Transaction, error) {
	query := `
		SELECT id, sender_name, sender_number, receiver_name, receiver_number, amount, memo, created_at, updated_at, deleted_at
		FROM transactions
		WHERE receiver_number = $1 AND deleted_at IS NULL
	`
	return r.queryTransactions(ctx, query, receiverNumber)
}

func (r *PostgresRepository) queryTransactions(ctx context.Context, query string, arg any) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.SenderName, &t.SenderNumber, &t.ReceiverName, &t.ReceiverNumber,
			&t.Amount, &t.Memo, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
