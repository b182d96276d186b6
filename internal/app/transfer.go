/**
 * @description
 * The transfer workflow. The client drives the state machine
 * (FormEntry → ReceiverValidation → PasswordPrompt → Committing) through
 * three service calls:
 *
 *   ValidateTransfer:      self-transfer / insufficient funds / receiver
 *                          existence checks, returns the receiver identity
 *                          for the password prompt.
 *   VerifyPaymentPassword: pure predicate over the stored hash; fail-closed
 *                          on store errors.
 *   Transfer:              full commit. Re-validates, verifies the password,
 *                          then hands one atomic batch to the store.
 *
 * The commit re-reads the receiver inside the store transaction instead of
 * reusing the validation-time snapshot. Balance updates are version-guarded;
 * a concurrent transfer against either account surfaces as
 * store.ErrStaleBalance and the client is asked to retry.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sumin-dev/Silver-Bank/internal/auth"
	"github.com/sumin-dev/Silver-Bank/internal/domain"
	"github.com/sumin-dev/Silver-Bank/internal/store"
)

// ValidateTransfer checks a transfer request against the sender's current
// account snapshot. Check order is fixed: self-transfer, then funds, then
// receiver existence, so the password prompt never appears for a request
// that was doomed from the form.
func (s *Service) ValidateTransfer(ctx context.Context, session auth.Session, req domain.ValidateTransferRequest) (*domain.ValidateTransferResponse, error) {
	sender, err := s.repo.FindAccountByUserID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.validateAgainst(ctx, sender, req.ReceiverNumber, req.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.ValidateTransferResponse{
		ReceiverName:   receiver.Username,
		ReceiverNumber: receiver.Number,
	}, nil
}

func (s *Service) validateAgainst(ctx context.Context, sender *domain.Account, receiverNumber string, amount int64) (*domain.Account, error) {
	if receiverNumber == sender.Number {
		return nil, ErrSelfTransfer
	}
	if amount > sender.Balance {
		return nil, store.ErrInsufficientFunds
	}
	receiver, err := s.repo.FindAccountByNumber(ctx, receiverNumber)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}
	return receiver, nil
}

// VerifyPaymentPassword compares the supplied password against the stored
// hash. It is a pure predicate: it never mutates state, and the same stored
// password and input always yield the same answer. Store failures are
// treated as verification failure (fail-closed) and reported generically.
func (s *Service) VerifyPaymentPassword(ctx context.Context, session auth.Session, password string) (bool, error) {
	profile, err := s.repo.FindProfileByUserID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("payment password verification failed: %w", err)
	}
	return auth.CheckSecret(password, profile.PaymentPasswordHash), nil
}

// Transfer runs the whole workflow server-side and commits on success.
// The returned transaction is the appended ledger record.
func (s *Service) Transfer(ctx context.Context, session auth.Session, req domain.TransferRequest) (*domain.Transaction, error) {
	sender, err := s.repo.FindAccountByUserID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.validateAgainst(ctx, sender, req.ReceiverNumber, req.Amount); err != nil {
		return nil, err
	}

	ok, err := s.VerifyPaymentPassword(ctx, session, req.PaymentPassword)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWrongPaymentPassword
	}

	record, err := s.repo.ExecuteTransfer(ctx, store.TransferParams{
		SenderAccountID: sender.ID,
		SenderName:      sender.Username,
		SenderNumber:    sender.Number,
		SenderVersion:   sender.Version,
		ReceiverNumber:  req.ReceiverNumber,
		Amount:          req.Amount,
		Memo:            req.Memo,
	})
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			// The receiver disappeared between validation and commit.
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}

	s.publishTransferCompleted(ctx, record)
	return record, nil
}

// publishTransferCompleted is best-effort: the commit already happened, so a
// broker failure only costs the event, never the transfer.
func (s *Service) publishTransferCompleted(ctx context.Context, record *domain.Transaction) {
	if s.events == nil {
		return
	}
	event := domain.TransferCompletedEvent{
		TransactionID:  record.ID,
		SenderNumber:   record.SenderNumber,
		ReceiverNumber: record.ReceiverNumber,
		Amount:         record.Amount,
		Memo:           record.Memo,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.events.PublishTransferCompleted(ctx, event); err != nil {
		log.Printf("level=warn component=app op=transfer msg=\"event publish failed\" transaction_id=%s err=%v",
			record.ID, err)
	}
}
