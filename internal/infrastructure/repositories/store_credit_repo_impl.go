package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"printforge.backend/internal/domain/entities"
	"printforge.backend/internal/infrastructure/models"
	"printforge.backend/pkg/utils"
)

// StoreCreditRepositoryImpl implements StoreCreditRepository
type StoreCreditRepositoryImpl struct {
	db *gorm.DB
}

func NewStoreCreditRepository(db *gorm.DB) *StoreCreditRepositoryImpl {
	return &StoreCreditRepositoryImpl{db: db}
}

func (r *StoreCreditRepositoryImpl) Create(ctx context.Context, credit *entities.StoreCredit) error {
	db := GetDB(ctx, r.db)

	if credit.ID == uuid.Nil {
		credit.ID = utils.GenerateUUIDv7()
	}
	now := time.Now()
	if credit.CreatedAt.IsZero() {
		credit.CreatedAt = now
	}
	credit.UpdatedAt = now

	m := &models.StoreCredit{
		ID:             credit.ID,
		CustomerID:     credit.CustomerID,
		TransactionID:  credit.TransactionID,
		Amount:         credit.Amount.StringFixed(2),
		Currency:       credit.Currency,
		Status:         string(credit.Status),
		AppliedOrderID: credit.AppliedOrderID,
		CreatedAt:      credit.CreatedAt,
		UpdatedAt:      credit.UpdatedAt,
	}
	return db.WithContext(ctx).Create(m).Error
}

func (r *StoreCreditRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.StoreCredit, error) {
	db := GetDB(ctx, r.db)

	var m models.StoreCredit
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return toStoreCreditEntity(&m)
}

func (r *StoreCreditRepositoryImpl) ListPendingByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entities.StoreCredit, error) {
	db := GetDB(ctx, r.db)

	var ms []models.StoreCredit
	err := db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, string(entities.StoreCreditStatusPending)).
		Order("created_at ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	credits := make([]*entities.StoreCredit, 0, len(ms))
	for _, m := range ms {
		model := m
		credit, err := toStoreCreditEntity(&model)
		if err != nil {
			return nil, err
		}
		credits = append(credits, credit)
	}
	return credits, nil
}

func (r *StoreCreditRepositoryImpl) MarkApplied(ctx context.Context, id uuid.UUID, orderID uuid.UUID) error {
	db := GetDB(ctx, r.db)

	res := db.WithContext(ctx).Model(&models.StoreCredit{}).
		Where("id = ? AND status = ?", id, string(entities.StoreCreditStatusPending)).
		Updates(map[string]interface{}{
			"status":           string(entities.StoreCreditStatusApplied),
			"applied_order_id": orderID,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func toStoreCreditEntity(m *models.StoreCredit) (*entities.StoreCredit, error) {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return nil, fmt.Errorf("parse store credit amount %q: %w", m.Amount, err)
	}
	return &entities.StoreCredit{
		ID:             m.ID,
		CustomerID:     m.CustomerID,
		TransactionID:  m.TransactionID,
		Amount:         amount,
		Currency:       m.Currency,
		Status:         entities.StoreCreditStatus(m.Status),
		AppliedOrderID: m.AppliedOrderID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}
