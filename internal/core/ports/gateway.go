package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// PayoutStatus is the gateway-reported state of a payout.
type PayoutStatus string

const (
	PayoutStatusSucceeded PayoutStatus = "SUCCEEDED"
	PayoutStatusPending   PayoutStatus = "PENDING"
	PayoutStatusRejected  PayoutStatus = "REJECTED"
	PayoutStatusUnknown   PayoutStatus = "UNKNOWN"
)

// PayoutResult is the gateway's answer for a submitted payout.
type PayoutResult struct {
	Status PayoutStatus
	Reason string
}

// PayoutGateway is the external payout API. Treated as unreliable: calls
// may time out and results may be delivered more than once. Submissions
// are keyed by reference so the gateway can deduplicate on its side.
type PayoutGateway interface {
	Submit(ctx context.Context, destinationAccount string, amount decimal.Decimal, reference string) (*PayoutResult, error)
	GetStatus(ctx context.Context, reference string) (*PayoutResult, error)
}
