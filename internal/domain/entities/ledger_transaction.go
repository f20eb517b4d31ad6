package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// LedgerReason classifies why points moved
type LedgerReason string

const (
	LedgerReasonPurchase   LedgerReason = "purchase"
	LedgerReasonRefund     LedgerReason = "refund"
	LedgerReasonAdjustment LedgerReason = "adjustment"
	LedgerReasonSignup     LedgerReason = "signup"
	LedgerReasonPromotion  LedgerReason = "promotion"
	LedgerReasonRedemption LedgerReason = "redemption"
)

// IsValid reports whether the reason is one of the known ledger reasons
func (r LedgerReason) IsValid() bool {
	switch r {
	case LedgerReasonPurchase, LedgerReasonRefund, LedgerReasonAdjustment,
		LedgerReasonSignup, LedgerReasonPromotion, LedgerReasonRedemption:
		return true
	}
	return false
}

// LedgerTransaction is one append-only row in the points ledger.
// Positive delta credits the wallet, negative delta debits it.
// Rows are never updated or deleted.
type LedgerTransaction struct {
	ID         uuid.UUID    `json:"id"`
	WalletID   uuid.UUID    `json:"walletId"`
	CustomerID uuid.UUID    `json:"customerId"`
	Delta      int          `json:"delta"`
	Reason     LedgerReason `json:"reason"`
	OrderID    *uuid.UUID   `json:"orderId,omitempty"`
	Note       null.String  `json:"note,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}
