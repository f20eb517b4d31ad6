package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreCreditStatus represents the lifecycle of a store credit
type StoreCreditStatus string

const (
	StoreCreditStatusPending StoreCreditStatus = "PENDING"
	StoreCreditStatusApplied StoreCreditStatus = "APPLIED"
	StoreCreditStatusVoided  StoreCreditStatus = "VOIDED"
)

// StoreCredit is a dollar credit minted from redeemed points. The cart
// subsystem consumes pending credits at checkout.
type StoreCredit struct {
	ID             uuid.UUID         `json:"id"`
	CustomerID     uuid.UUID         `json:"customerId"`
	TransactionID  uuid.UUID         `json:"transactionId"`
	Amount         decimal.Decimal   `json:"amount"`
	Currency       string            `json:"currency"`
	Status         StoreCreditStatus `json:"status"`
	AppliedOrderID *uuid.UUID        `json:"appliedOrderId,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}
