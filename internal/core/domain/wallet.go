package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds a seller's balances. AvailableBalance is withdrawable now;
// PendingBalance is credited from sales still inside the hold period.
// Both are non-negative at every observable point: mutation happens only
// through the ledger store's atomic operations.
type Wallet struct {
	SellerID         string          `json:"seller_id"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	PayoutAccount    *string         `json:"payout_account,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// HasPayoutAccount returns true if a payout destination is configured.
// Withdrawal is disallowed without one.
func (w *Wallet) HasPayoutAccount() bool {
	return w.PayoutAccount != nil && *w.PayoutAccount != ""
}

// PlatformAccountID is the seller_id recorded on FEE transactions, which
// belong to the marketplace rather than any seller.
const PlatformAccountID = "platform"

// FeeAccount is the singleton platform account credited with the
// marketplace's cut of every sale.
type FeeAccount struct {
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}
