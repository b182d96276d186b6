/**
 * @description
 * Core business logic for Silver Bank. The `Service` struct orchestrates
 * profile creation, account provisioning, the transfer workflow, and the two
 * ledger views, coordinating between the repository and the event producer.
 *
 * @dependencies
 * - context, errors, fmt, log: Standard Go libraries.
 * - github.com/google/uuid: For UUID generation.
 * - internal/auth, internal/domain, internal/store: Sibling packages.
 * - pkg/rabbitmq: Event publishing after transfer commits.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/google/uuid"

	"github.com/sumin-dev/Silver-Bank/internal/auth"
	"github.com/sumin-dev/Silver-Bank/internal/domain"
	"github.com/sumin-dev/Silver-Bank/internal/store"
	"github.com/sumin-dev/Silver-Bank/pkg/rabbitmq"
)

var (
	ErrSelfTransfer           = errors.New("sender and receiver accounts are the same")
	ErrReceiverNotFound       = errors.New("receiver account not found")
	ErrWrongPaymentPassword   = errors.New("wrong payment password")
	ErrInvalidPaymentPassword = errors.New("payment password must be six digits")
	ErrProfileRequired        = errors.New("profile must be created before opening an account")
)

var paymentPasswordPattern = regexp.MustCompile(`^\d{6}$`)

// Service provides the core business logic for the banking API.
type Service struct {
	repo   store.Repository
	events rabbitmq.Publisher
}

// NewService creates a new Service. producer may be a fallback publisher when
// no broker is configured.
func NewService(repo store.Repository, producer rabbitmq.Publisher) *Service {
	return &Service{repo: repo, events: producer}
}

// Signup registers a new sign-in credential.
func (s *Service) Signup(ctx context.Context, req domain.SignupRequest) (*domain.Credential, error) {
	hash, err := auth.HashSecret(req.Password)
	if err != nil {
		return nil, fmt.Errorf("password hash failed: %w", err)
	}
	cred := &domain.Credential{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
	}
	if err := s.repo.CreateCredential(ctx, cred); err != nil {
		return nil, err
	}
	return cred, nil
}

// Login checks the email/password pair and returns the matching credential.
// Both unknown email and wrong password come back as ErrCredentialNotFound so
// the response does not leak which half was wrong.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.Credential, error) {
	cred, err := s.repo.FindCredentialByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if !auth.CheckSecret(req.Password, cred.PasswordHash) {
		return nil, store.ErrCredentialNotFound
	}
	return cred, nil
}

// CreateProfile stores the first-login banking profile: account holder name
// plus the bcrypt-hashed six-digit payment password.
func (s *Service) CreateProfile(ctx context.Context, session auth.Session, req domain.CreateProfileRequest) (*domain.UserProfile, error) {
	if !paymentPasswordPattern.MatchString(req.PaymentPassword) {
		return nil, ErrInvalidPaymentPassword
	}
	hash, err := auth.HashSecret(req.PaymentPassword)
	if err != nil {
		return nil, fmt.Errorf("payment password hash failed: %w", err)
	}
	profile := &domain.UserProfile{
		ID:                  uuid.New(),
		UserID:              session.UserID,
		Username:            req.Username,
		PaymentPasswordHash: hash,
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile returns the session user's banking profile.
func (s *Service) GetProfile(ctx context.Context, session auth.Session) (*domain.UserProfile, error) {
	return s.repo.FindProfileByUserID(ctx, session.UserID)
}

// GetAccount returns the session user's account, or store.ErrAccountNotFound
// when none has been opened yet.
func (s *Service) GetAccount(ctx context.Context, session auth.Session) (*domain.Account, error) {
	return s.repo.FindAccountByUserID(ctx, session.UserID)
}

// OpenAccount provisions the session user's single account: a random account
// number, a random seed balance, and the fixed demonstration ledger, all in
// one atomic batch. A second call fails with store.ErrAccountExists.
func (s *Service) OpenAccount(ctx context.Context, session auth.Session) (*domain.Account, error) {
	profile, err := s.repo.FindProfileByUserID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, err
	}

	account := &domain.Account{
		ID:       uuid.New(),
		Number:   NewAccountNumber(),
		Username: profile.Username,
		UserID:   session.UserID,
		Balance:  NewSeedBalance(),
	}
	seed := seedTransactions(account)

	if err := s.repo.CreateAccountWithSeed(ctx, account, seed); err != nil {
		log.Printf("level=error component=app op=open_account msg=\"account not created\" user_id=%s err=%v",
			session.UserID, err)
		return nil, err
	}
	return account, nil
}
