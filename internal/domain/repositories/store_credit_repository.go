package repositories

import (
	"context"

	"github.com/google/uuid"
	"printforge.backend/internal/domain/entities"
)

// StoreCreditRepository defines store credit data operations
type StoreCreditRepository interface {
	Create(ctx context.Context, credit *entities.StoreCredit) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.StoreCredit, error)
	ListPendingByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entities.StoreCredit, error)
	// MarkApplied transitions a pending credit to APPLIED for an order
	MarkApplied(ctx context.Context, id uuid.UUID, orderID uuid.UUID) error
}
