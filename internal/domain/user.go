package domain

import (
	"time"

	"github.com/google/uuid"
)

// Credential is a sign-in identity (email + password hash). It is the
// server-side counterpart of the hosted auth provider the web client talks to.
type Credential struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile holds the banking profile created on first login: the account
// holder name and the payment password gating outgoing transfers. The payment
// password is stored only as a bcrypt hash.
type UserProfile struct {
	ID                  uuid.UUID  `json:"id"`
	UserID              uuid.UUID  `json:"user_id"`
	Username            string     `json:"username"`
	PaymentPasswordHash string     `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	DeletedAt           *time.Time `json:"deleted_at,omitempty"`
}

// SignupRequest is the DTO for creating a sign-in credential.
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the DTO for email/password sign-in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateProfileRequest is the DTO for first-login profile creation. The
// payment password must be exactly six decimal digits.
type CreateProfileRequest struct {
	Username        string `json:"username" validate:"required"`
	PaymentPassword string `json:"payment_password" validate:"required,len=6,numeric"`
}
