/**
 * @description
 * This file defines the core domain models for the Silver Bank service. These
 * structs represent the entities persisted in PostgreSQL and the data transfer
 * objects (DTOs) used by the business logic and API layers.
 *
 * @notes
 * - Amounts are stored as `int64` in won (the smallest currency unit; there is
 *   no fractional subunit), which avoids floating-point inaccuracies.
 * - Account and transaction rows are append-only in practice: `DeletedAt` is
 *   carried for schema compatibility but never set by this service.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a balance-holding record owned by exactly one user.
// The externally visible identifier is Number (NNNN-NNNN-NNNN); ID is only
// used for targeted updates.
type Account struct {
	ID        uuid.UUID  `json:"id"`
	Number    string     `json:"number"`
	Username  string     `json:"username"`
	UserID    uuid.UUID  `json:"user_id"`
	Balance   int64      `json:"balance"` // in won
	Version   int64      `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
