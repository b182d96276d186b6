package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/sumin-dev/Silver-Bank/internal/auth"
	"github.com/sumin-dev/Silver-Bank/internal/domain"
	"github.com/sumin-dev/Silver-Bank/internal/store"
)

// stubRepo substitutes the database in service tests. Only the function
// fields a test sets are callable; everything else panics through the
// embedded nil interface, which flags unexpected repository use.
type stubRepo struct {
	store.Repository

	createCredential      func(ctx context.Context, cred *domain.Credential) error
	findCredentialByEmail func(ctx context.Context, email string) (*domain.Credential, error)
	createProfile         func(ctx context.Context, profile *domain.UserProfile) error
	findProfileByUserID   func(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	createAccountWithSeed func(ctx context.Context, account *domain.Account, seed []domain.Transaction) error
	findAccountByUserID   func(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
	findAccountByNumber   func(ctx context.Context, number string) (*domain.Account, error)
	executeTransfer       func(ctx context.Context, params store.TransferParams) (*domain.Transaction, error)
	findSent              func(ctx context.Context, senderNumber string) ([]domain.Transaction, error)
	findReceived          func(ctx context.Context, receiverNumber string) ([]domain.Transaction, error)
}

func (s *stubRepo) CreateCredential(ctx context.Context, cred *domain.Credential) error {
	return s.createCredential(ctx, cred)
}

func (s *stubRepo) FindCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	return s.findCredentialByEmail(ctx, email)
}

func (s *stubRepo) CreateProfile(ctx context.Context, profile *domain.UserProfile) error {
	return s.createProfile(ctx, profile)
}

func (s *stubRepo) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	return s.findProfileByUserID(ctx, userID)
}

func (s *stubRepo) CreateAccountWithSeed(ctx context.Context, account *domain.Account, seed []domain.Transaction) error {
	return s.createAccountWithSeed(ctx, account, seed)
}

func (s *stubRepo) FindAccountByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	return s.findAccountByUserID(ctx, userID)
}

func (s *stubRepo) FindAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	return s.findAccountByNumber(ctx, number)
}

func (s *stubRepo) ExecuteTransfer(ctx context.Context, params store.TransferParams) (*domain.Transaction, error) {
	return s.executeTransfer(ctx, params)
}

func (s *stubRepo) FindSentTransactions(ctx context.Context, senderNumber string) ([]domain.Transaction, error) {
	return s.findSent(ctx, senderNumber)
}

func (s *stubRepo) FindReceivedTransactions(ctx context.Context, receiverNumber string) ([]domain.Transaction, error) {
	return s.findReceived(ctx, receiverNumber)
}

func testSession() auth.Session {
	return auth.Session{UserID: uuid.New(), Email: "user@example.com"}
}

func TestLoginWrongPasswordHidesWhichHalfFailed(t *testing.T) {
	hash, err := auth.HashSecret("correct-password")
	if err != nil {
		t.Fatal(err)
	}
	repo := &stubRepo{
		findCredentialByEmail: func(ctx context.Context, email string) (*domain.Credential, error) {
			return &domain.Credential{ID: uuid.New(), Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewService(repo, nil)

	_, err = svc.Login(context.Background(), domain.LoginRequest{Email: "user@example.com", Password: "wrong-password"})
	if !errors.Is(err, store.ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound for wrong password, got %v", err)
	}
}

func TestCreateProfileRejectsNonSixDigitPassword(t *testing.T) {
	svc := NewService(&stubRepo{}, nil)

	tests := []struct {
		name     string
		password string
	}{
		{name: "too short", password: "12345"},
		{name: "too long", password: "1234567"},
		{name: "letters", password: "12a456"},
		{name: "empty", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProfile(context.Background(), testSession(), domain.CreateProfileRequest{
				Username:        "김은지",
				PaymentPassword: tt.password,
			})
			if !errors.Is(err, ErrInvalidPaymentPassword) {
				t.Fatalf("expected ErrInvalidPaymentPassword, got %v", err)
			}
		})
	}
}

func TestCreateProfileHashesPaymentPassword(t *testing.T) {
	var stored *domain.UserProfile
	repo := &stubRepo{
		createProfile: func(ctx context.Context, profile *domain.UserProfile) error {
			stored = profile
			return nil
		},
	}
	svc := NewService(repo, nil)

	_, err := svc.CreateProfile(context.Background(), testSession(), domain.CreateProfileRequest{
		Username:        "김은지",
		PaymentPassword: "123456",
	})
	if err != nil {
		t.Fatal(err)
	}
	if stored == nil {
		t.Fatal("profile was not stored")
	}
	if stored.PaymentPasswordHash == "123456" {
		t.Fatal("payment password stored in plaintext")
	}
	if !auth.CheckSecret("123456", stored.PaymentPasswordHash) {
		t.Fatal("stored hash does not verify against the original password")
	}
}

func TestOpenAccountRequiresProfile(t *testing.T) {
	repo := &stubRepo{
		findProfileByUserID: func(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
			return nil, store.ErrProfileNotFound
		},
	}
	svc := NewService(repo, nil)

	_, err := svc.OpenAccount(context.Background(), testSession())
	if !errors.Is(err, ErrProfileRequired) {
		t.Fatalf("expected ErrProfileRequired, got %v", err)
	}
}

func TestOpenAccountSeedsLedger(t *testing.T) {
	session := testSession()
	var gotAccount *domain.Account
	var gotSeed []domain.Transaction
	repo := &stubRepo{
		findProfileByUserID: func(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
			return &domain.UserProfile{ID: uuid.New(), UserID: userID, Username: "김은지"}, nil
		},
		createAccountWithSeed: func(ctx context.Context, account *domain.Account, seed []domain.Transaction) error {
			gotAccount = account
			gotSeed = seed
			return nil
		},
	}
	svc := NewService(repo, nil)

	account, err := svc.OpenAccount(context.Background(), session)
	if err != nil {
		t.Fatal(err)
	}
	if account != gotAccount {
		t.Fatal("returned account is not the stored account")
	}
	if account.UserID != session.UserID {
		t.Fatalf("account bound to wrong user: %s", account.UserID)
	}
	if account.Username != "김은지" {
		t.Fatalf("account holder name not taken from profile: %q", account.Username)
	}
	if !accountNumberPattern.MatchString(account.Number) {
		t.Fatalf("invalid account number %q", account.Number)
	}

	if len(gotSeed) != len(seedDebits)+1 {
		t.Fatalf("expected %d seed transactions, got %d", len(seedDebits)+1, len(gotSeed))
	}
	bonus := gotSeed[0]
	if bonus.SenderNumber != bankNumber || bonus.ReceiverNumber != account.Number {
		t.Fatalf("first seed transaction is not the bank bonus credit: %+v", bonus)
	}
	if bonus.Amount != account.Balance {
		t.Fatalf("bonus amount %d does not match initial balance %d", bonus.Amount, account.Balance)
	}
	for i, debit := range gotSeed[1:] {
		if debit.SenderNumber != account.Number {
			t.Fatalf("seed debit %d not sent from the new account: %+v", i, debit)
		}
	}
}

func TestOpenAccountPropagatesAccountExists(t *testing.T) {
	repo := &stubRepo{
		findProfileByUserID: func(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
			return &domain.UserProfile{ID: uuid.New(), UserID: userID, Username: "김은지"}, nil
		},
		createAccountWithSeed: func(ctx context.Context, account *domain.Account, seed []domain.Transaction) error {
			return store.ErrAccountExists
		},
	}
	svc := NewService(repo, nil)

	_, err := svc.OpenAccount(context.Background(), testSession())
	if !errors.Is(err, store.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}
