package entities

import (
	"time"

	"github.com/google/uuid"
)

// Wallet represents a customer's loyalty wallet
type Wallet struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	CustomerID       uuid.UUID `json:"customerId"`
	PointsBalance    int       `json:"pointsBalance"`
	LifetimeEarned   int       `json:"lifetimeEarned"`
	LifetimeRedeemed int       `json:"lifetimeRedeemed"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Snapshot is the wallet state handed back to API clients
type Snapshot struct {
	CustomerID       uuid.UUID `json:"customerId"`
	PointsBalance    int       `json:"pointsBalance"`
	LifetimeEarned   int       `json:"lifetimeEarned"`
	LifetimeRedeemed int       `json:"lifetimeRedeemed"`
}

// SnapshotOf maps a wallet to its client-facing snapshot
func SnapshotOf(w *Wallet) Snapshot {
	return Snapshot{
		CustomerID:       w.CustomerID,
		PointsBalance:    w.PointsBalance,
		LifetimeEarned:   w.LifetimeEarned,
		LifetimeRedeemed: w.LifetimeRedeemed,
	}
}

// AwardResult reports the outcome of an award operation.
// Changed is false when the award was a no-op (non-positive points).
type AwardResult struct {
	Changed       bool       `json:"changed"`
	TransactionID *uuid.UUID `json:"transactionId,omitempty"`
	Snapshot      Snapshot   `json:"wallet"`
}

// RedeemResult reports the outcome of a redemption. RedeemedPoints may be
// lower than Requested when the balance could not cover the full amount.
type RedeemResult struct {
	Changed        bool       `json:"changed"`
	Requested      int        `json:"requested"`
	RedeemedPoints int        `json:"redeemedPoints"`
	TransactionID  *uuid.UUID `json:"transactionId,omitempty"`
	Snapshot       Snapshot   `json:"wallet"`
}

// PartiallyFulfilled reports whether the redemption was clamped below the
// requested amount.
func (r RedeemResult) PartiallyFulfilled() bool {
	return r.RedeemedPoints < r.Requested
}
