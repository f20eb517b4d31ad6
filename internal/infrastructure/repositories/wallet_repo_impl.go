package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"printforge.backend/internal/domain/entities"
	"printforge.backend/internal/infrastructure/models"
	"printforge.backend/pkg/utils"
)

// WalletRepositoryImpl implements WalletRepository
type WalletRepositoryImpl struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepositoryImpl {
	return &WalletRepositoryImpl{db: db}
}

func (r *WalletRepositoryImpl) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*entities.Wallet, error) {
	db := GetDB(ctx, r.db)

	var m models.LoyaltyWallet
	if err := db.WithContext(ctx).Where("customer_id = ?", customerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toWalletEntity(&m), nil
}

// Ensure inserts an empty wallet unless one exists. The insert tolerates a
// concurrent create via ON CONFLICT DO NOTHING on customer_id.
func (r *WalletRepositoryImpl) Ensure(ctx context.Context, customerID uuid.UUID) (*entities.Wallet, error) {
	db := GetDB(ctx, r.db)

	now := time.Now()
	m := &models.LoyaltyWallet{
		ID:         utils.GenerateUUIDv7(),
		CustomerID: customerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}},
		DoNothing: true,
	}).Create(m).Error
	if err != nil {
		return nil, err
	}

	var out models.LoyaltyWallet
	if err := db.WithContext(ctx).Where("customer_id = ?", customerID).First(&out).Error; err != nil {
		return nil, err
	}
	return toWalletEntity(&out), nil
}

// Credit applies the increase as a single statement so concurrent awards
// never lose an update.
func (r *WalletRepositoryImpl) Credit(ctx context.Context, customerID uuid.UUID, points int) (*entities.Wallet, error) {
	db := GetDB(ctx, r.db)

	res := db.WithContext(ctx).Model(&models.LoyaltyWallet{}).
		Where("customer_id = ?", customerID).
		Updates(map[string]interface{}{
			"points_balance":  gorm.Expr("points_balance + ?", points),
			"lifetime_earned": gorm.Expr("lifetime_earned + ?", points),
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var m models.LoyaltyWallet
	if err := db.WithContext(ctx).Where("customer_id = ?", customerID).First(&m).Error; err != nil {
		return nil, err
	}
	return toWalletEntity(&m), nil
}

// DebitIfSufficient performs the guarded decrement. The balance check sits
// in the WHERE clause, so a concurrent spend makes the update affect zero
// rows instead of driving the balance negative.
func (r *WalletRepositoryImpl) DebitIfSufficient(ctx context.Context, customerID uuid.UUID, points int) (bool, error) {
	db := GetDB(ctx, r.db)

	res := db.WithContext(ctx).Model(&models.LoyaltyWallet{}).
		Where("customer_id = ? AND points_balance >= ?", customerID, points).
		Updates(map[string]interface{}{
			"points_balance":    gorm.Expr("points_balance - ?", points),
			"lifetime_redeemed": gorm.Expr("lifetime_redeemed + ?", points),
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *WalletRepositoryImpl) ListPage(ctx context.Context, offset, limit int) ([]*entities.Wallet, error) {
	db := GetDB(ctx, r.db)

	var ms []models.LoyaltyWallet
	if err := db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&ms).Error; err != nil {
		return nil, err
	}

	wallets := make([]*entities.Wallet, 0, len(ms))
	for _, m := range ms {
		model := m
		wallets = append(wallets, toWalletEntity(&model))
	}
	return wallets, nil
}

func toWalletEntity(m *models.LoyaltyWallet) *entities.Wallet {
	return &entities.Wallet{
		ID:               m.ID,
		CustomerID:       m.CustomerID,
		PointsBalance:    m.PointsBalance,
		LifetimeEarned:   m.LifetimeEarned,
		LifetimeRedeemed: m.LifetimeRedeemed,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
