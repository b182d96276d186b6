package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is an immutable record of one value movement between two
// account numbers. Both parties' name and number are snapshotted at
// transaction time, so the record stays resolvable even if an account
// document later changes or disappears.
type Transaction struct {
	ID             uuid.UUID  `json:"id"`
	SenderName     string     `json:"sender_name"`
	SenderNumber   string     `json:"sender_number"`
	ReceiverName   string     `json:"receiver_name"`
	ReceiverNumber string     `json:"receiver_number"`
	Amount         int64      `json:"amount"` // in won, always positive
	Memo           string     `json:"memo"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// ValidateTransferRequest is the DTO for the receiver-validation step of the
// transfer flow. Amount is checked here so insufficient funds are reported
// before the password prompt ever appears.
type ValidateTransferRequest struct {
	ReceiverNumber string `json:"receiver_number" validate:"required"`
	Amount         int64  `json:"amount" validate:"required,gt=0"`
}

// ValidateTransferResponse carries the receiver identity shown in the
// payment password prompt.
type ValidateTransferResponse struct {
	ReceiverName   string `json:"receiver_name"`
	ReceiverNumber string `json:"receiver_number"`
}

// TransferRequest is the DTO for committing a transfer.
type TransferRequest struct {
	ReceiverNumber  string `json:"receiver_number" validate:"required"`
	Amount          int64  `json:"amount" validate:"required,gt=0"`
	Memo            string `json:"memo"`
	PaymentPassword string `json:"payment_password" validate:"required,len=6,numeric"`
}

// TransferCompletedEvent is the payload published to the message broker after
// a transfer commit succeeds.
type TransferCompletedEvent struct {
	TransactionID  uuid.UUID `json:"transaction_id"`
	SenderNumber   string    `json:"sender_number"`
	ReceiverNumber string    `json:"receiver_number"`
	Amount         int64     `json:"amount"`
	Memo           string    `json:"memo"`
	Timestamp      time.Time `json:"timestamp"`
}
