package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccrualStatus represents the lifecycle state of a pending accrual.
type AccrualStatus string

const (
	AccrualStatusPending  AccrualStatus = "PENDING"
	AccrualStatusMatured  AccrualStatus = "MATURED"
	AccrualStatusReversed AccrualStatus = "REVERSED"
)

// PendingAccrual is one unit of pending credit tied to a single sale,
// with its own maturation time. The sum of a seller's PENDING accrual
// amounts equals that seller's pending balance.
type PendingAccrual struct {
	ID        uuid.UUID       `json:"id"`
	SellerID  string          `json:"seller_id"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"` // idempotency key, unique
	Status    AccrualStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	MaturesAt time.Time       `json:"matures_at"`
	MaturedAt *time.Time      `json:"matured_at,omitempty"`
}

// IsDue returns true if the accrual is still pending and its hold period
// has elapsed at the given instant.
func (a *PendingAccrual) IsDue(now time.Time) bool {
	return a.Status == AccrualStatusPending && !a.MaturesAt.After(now)
}
