package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationStatus represents the state of a withdrawal hold.
type ReservationStatus string

const (
	ReservationStatusHeld      ReservationStatus = "HELD"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusReleased  ReservationStatus = "RELEASED"
)

// Reservation is a durable hold on available balance while a withdrawal
// is in flight with the payout gateway. The amount is already debited
// from the wallet; confirming keeps the debit, releasing restores it.
// Persisting reservations lets a reconciliation job recover holds left
// by a crashed coordinator.
type Reservation struct {
	ID            uuid.UUID         `json:"id"`
	SellerID      string            `json:"seller_id"`
	Amount        decimal.Decimal   `json:"amount"`
	Status        ReservationStatus `json:"status"`
	TransactionID uuid.UUID         `json:"transaction_id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// IsHeld returns true while the reservation can still be confirmed or released.
func (r *Reservation) IsHeld() bool {
	return r.Status == ReservationStatusHeld
}
