package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"printforge.backend/internal/domain/entities"
	"printforge.backend/internal/infrastructure/models"
	"printforge.backend/pkg/utils"
)

// LedgerTransactionRepositoryImpl implements LedgerTransactionRepository
type LedgerTransactionRepositoryImpl struct {
	db         *gorm.DB
	noteColumn bool
}

// NewLedgerTransactionRepository creates a new ledger transaction
// repository. noteColumn is false when the deployment's schema predates the
// note column; notes are then dropped instead of failing the insert.
func NewLedgerTransactionRepository(db *gorm.DB, noteColumn bool) *LedgerTransactionRepositoryImpl {
	return &LedgerTransactionRepositoryImpl{db: db, noteColumn: noteColumn}
}

func (r *LedgerTransactionRepositoryImpl) Create(ctx context.Context, tx *entities.LedgerTransaction) error {
	db := GetDB(ctx, r.db)

	if tx.ID == uuid.Nil {
		tx.ID = utils.GenerateUUIDv7()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	m := &models.LoyaltyTransaction{
		ID:         tx.ID,
		WalletID:   tx.WalletID,
		CustomerID: tx.CustomerID,
		Delta:      tx.Delta,
		Reason:     string(tx.Reason),
		OrderID:    tx.OrderID,
		CreatedAt:  tx.CreatedAt,
	}
	if tx.Note.Valid {
		note := tx.Note.String
		m.Note = &note
	}

	q := db.WithContext(ctx)
	if !r.noteColumn {
		q = q.Omit("Note")
	}
	return q.Create(m).Error
}

func (r *LedgerTransactionRepositoryImpl) ListByCustomer(ctx context.Context, customerID uuid.UUID, pagination utils.PaginationParams) ([]*entities.LedgerTransaction, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.LoyaltyTransaction{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.LoyaltyTransaction
	if err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Limit(pagination.Limit).Offset(pagination.CalculateOffset()).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]*entities.LedgerTransaction, 0, len(ms))
	for _, m := range ms {
		model := m
		rows = append(rows, toLedgerTransactionEntity(&model))
	}
	return rows, total, nil
}

func (r *LedgerTransactionRepositoryImpl) SumDeltaByWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	err := db.WithContext(ctx).Model(&models.LoyaltyTransaction{}).
		Where("wallet_id = ?", walletID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *LedgerTransactionRepositoryImpl) ListBetween(ctx context.Context, from, to time.Time) ([]*entities.LedgerTransaction, error) {
	db := GetDB(ctx, r.db)

	q := db.WithContext(ctx).Model(&models.LoyaltyTransaction{})
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}

	var ms []models.LoyaltyTransaction
	if err := q.Order("created_at ASC, id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}

	rows := make([]*entities.LedgerTransaction, 0, len(ms))
	for _, m := range ms {
		model := m
		rows = append(rows, toLedgerTransactionEntity(&model))
	}
	return rows, nil
}

func toLedgerTransactionEntity(m *models.LoyaltyTransaction) *entities.LedgerTransaction {
	e := &entities.LedgerTransaction{
		ID:         m.ID,
		WalletID:   m.WalletID,
		CustomerID: m.CustomerID,
		Delta:      m.Delta,
		Reason:     entities.LedgerReason(m.Reason),
		OrderID:    m.OrderID,
		CreatedAt:  m.CreatedAt,
	}
	if m.Note != nil {
		e.Note = null.StringFrom(*m.Note)
	}
	return e
}
