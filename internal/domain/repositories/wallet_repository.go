package repositories

import (
	"context"

	"github.com/google/uuid"
	"printforge.backend/internal/domain/entities"
)

// WalletRepository defines loyalty wallet data operations
type WalletRepository interface {
	// GetByCustomerID returns (nil, nil) when the customer has no wallet yet
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*entities.Wallet, error)
	// Ensure returns the customer's wallet, creating an empty one if absent
	Ensure(ctx context.Context, customerID uuid.UUID) (*entities.Wallet, error)
	// Credit atomically increases points_balance and lifetime_earned by
	// points and returns the updated wallet
	Credit(ctx context.Context, customerID uuid.UUID, points int) (*entities.Wallet, error)
	// DebitIfSufficient atomically decreases points_balance and increases
	// lifetime_redeemed by points, but only when the balance covers the
	// debit. Returns false when the guard rejected the update.
	DebitIfSufficient(ctx context.Context, customerID uuid.UUID, points int) (bool, error)
	// ListPage returns wallets ordered by id for batch processing
	ListPage(ctx context.Context, offset, limit int) ([]*entities.Wallet, error)
}
