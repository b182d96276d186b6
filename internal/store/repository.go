/**
 * @description
 * This file defines the `Repository` interface, the contract for all data
 * access operations the Silver Bank service needs. Keeping the business logic
 * behind an interface decouples it from PostgreSQL and lets tests substitute
 * lightweight stubs.
 *
 * @dependencies
 * - context: Standard Go library.
 * - github.com/google/uuid: For ID handling.
 * - internal/domain: Domain models.
 */

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sumin-dev/Silver-Bank/internal/domain"
)

var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileExists      = errors.New("profile already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrStaleBalance       = errors.New("stale balance, please retry")
)

// TransferParams carries everything the store needs to commit one transfer as
// a single atomic batch. Sender fields are the validation-time snapshot; the
// receiver is re-read by number inside the transaction.
type TransferParams struct {
	SenderAccountID uuid.UUID
	SenderName      string
	SenderNumber    string
	SenderVersion   int64
	ReceiverNumber  string
	Amount          int64
	Memo            string
}

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// Sign-in credentials
	CreateCredential(ctx context.Context, cred *domain.Credential) error
	FindCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error)

	// Banking profiles
	CreateProfile(ctx context.Context, profile *domain.UserProfile) error
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)

	// Accounts
	// CreateAccountWithSeed inserts the account and its seed transactions in
	// one transaction; either everything lands or nothing does.
	CreateAccountWithSeed(ctx context.Context, account *domain.Account, seed []domain.Transaction) error
	FindAccountByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
	FindAccountByNumber(ctx context.Context, number string) (*domain.Account, error)

	// Transfers
	// ExecuteTransfer debits the sender, credits the receiver, and appends one
	// transaction record atomically. Balance updates are guarded by the
	// account version; a precondition miss returns ErrStaleBalance.
	ExecuteTransfer(ctx context.Context, params TransferParams) (*domain.Transaction, error)

	// Ledger reads
	FindSentTransactions(ctx context.Context, senderNumber string) ([]domain.Transaction, error)
	FindReceivedTransactions(ctx context.Context, receiverNumber string) ([]domain.Transaction, error)
}
