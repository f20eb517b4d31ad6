package models

import (
	"time"

	"github.com/google/uuid"
)

// LoyaltyTransaction is one append-only ledger row. Rows are only ever
// inserted; there is no UpdatedAt.
type LoyaltyTransaction struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	WalletID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Delta      int        `gorm:"not null"`
	Reason     string     `gorm:"type:varchar(50);not null;index"`
	OrderID    *uuid.UUID `gorm:"type:uuid;index"` // Nullable
	Note       *string    `gorm:"type:text"`       // Nullable
	CreatedAt  time.Time  `gorm:"index"`
}

func (LoyaltyTransaction) TableName() string {
	return "loyalty_transactions"
}
