package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreCredit is the persistence model of a dollar credit minted from a
// redemption. Amount is stored as numeric text to avoid float drift.
type StoreCredit struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	CustomerID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	TransactionID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Amount         string     `gorm:"type:decimal(12,2);not null"`
	Currency       string     `gorm:"type:varchar(3);not null;default:'USD'"`
	Status         string     `gorm:"type:varchar(20);not null;index"`
	AppliedOrderID *uuid.UUID `gorm:"type:uuid;index"` // Nullable
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (StoreCredit) TableName() string {
	return "store_credits"
}
