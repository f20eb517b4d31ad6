package models

import (
	"time"

	"github.com/google/uuid"
)

// LoyaltyWallet is the persistence model of a customer's points wallet.
// points_balance is kept non-negative by the guarded debit in the
// repository layer, not by a DB constraint.
type LoyaltyWallet struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	CustomerID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	PointsBalance    int       `gorm:"not null;default:0"`
	LifetimeEarned   int       `gorm:"not null;default:0"`
	LifetimeRedeemed int       `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (LoyaltyWallet) TableName() string {
	return "loyalty_wallets"
}
