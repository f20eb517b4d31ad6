package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"printforge.backend/internal/domain/entities"
	"printforge.backend/pkg/utils"
)

// LedgerTransactionRepository defines append-only ledger operations.
// There are deliberately no update or delete methods.
type LedgerTransactionRepository interface {
	Create(ctx context.Context, tx *entities.LedgerTransaction) error
	// ListByCustomer returns transactions newest first plus the total count
	ListByCustomer(ctx context.Context, customerID uuid.UUID, pagination utils.PaginationParams) ([]*entities.LedgerTransaction, int64, error)
	// SumDeltaByWallet recomputes the signed delta total of one wallet
	SumDeltaByWallet(ctx context.Context, walletID uuid.UUID) (int64, error)
	// ListBetween returns transactions in [from, to) oldest first; zero
	// times leave the corresponding bound open
	ListBetween(ctx context.Context, from, to time.Time) ([]*entities.LedgerTransaction, error)
}
