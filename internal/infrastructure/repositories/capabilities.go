package repositories

import (
	"gorm.io/gorm"
	"printforge.backend/internal/infrastructure/models"
)

// Capabilities describes which optional schema pieces this deployment
// carries. Resolved once at startup; never re-introspected per request.
type Capabilities struct {
	// TransactionNote is true when loyalty_transactions has the note column
	TransactionNote bool
	// StoreCredits is true when the store_credits table exists
	StoreCredits bool
}

// ResolveCapabilities inspects the schema through the GORM migrator.
func ResolveCapabilities(db *gorm.DB) Capabilities {
	m := db.Migrator()
	return Capabilities{
		TransactionNote: m.HasColumn(&models.LoyaltyTransaction{}, "note"),
		StoreCredits:    m.HasTable(&models.StoreCredit{}),
	}
}
