package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"printforge.backend/internal/domain/entities"
	"printforge.backend/internal/infrastructure/sinalite"
	"printforge.backend/pkg/utils"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*entities.Wallet, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Ensure(ctx context.Context, customerID uuid.UUID) (*entities.Wallet, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Credit(ctx context.Context, customerID uuid.UUID, points int) (*entities.Wallet, error) {
	args := m.Called(ctx, customerID, points)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) DebitIfSufficient(ctx context.Context, customerID uuid.UUID, points int) (bool, error) {
	args := m.Called(ctx, customerID, points)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletRepository) ListPage(ctx context.Context, offset, limit int) ([]*entities.Wallet, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Wallet), args.Error(1)
}

// Mock LedgerTransactionRepository
type MockLedgerTransactionRepository struct {
	mock.Mock
}

func (m *MockLedgerTransactionRepository) Create(ctx context.Context, tx *entities.LedgerTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerTransactionRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, pagination utils.PaginationParams) ([]*entities.LedgerTransaction, int64, error) {
	args := m.Called(ctx, customerID, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.LedgerTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerTransactionRepository) SumDeltaByWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerTransactionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*entities.LedgerTransaction, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerTransaction), args.Error(1)
}

// Mock StoreCreditRepository
type MockStoreCreditRepository struct {
	mock.Mock
}

func (m *MockStoreCreditRepository) Create(ctx context.Context, credit *entities.StoreCredit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockStoreCreditRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.StoreCredit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.StoreCredit), args.Error(1)
}

func (m *MockStoreCreditRepository) ListPendingByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entities.StoreCredit, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.StoreCredit), args.Error(1)
}

func (m *MockStoreCreditRepository) MarkApplied(ctx context.Context, id uuid.UUID, orderID uuid.UUID) error {
	args := m.Called(ctx, id, orderID)
	return args.Error(0)
}

// Mock VendorCatalog
type MockVendorCatalog struct {
	mock.Mock
}

func (m *MockVendorCatalog) ListProducts(ctx context.Context) ([]entities.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Product), args.Error(1)
}

func (m *MockVendorCatalog) GetProductPricing(ctx context.Context, productID int, storeCode string) (*entities.ProductPricing, error) {
	args := m.Called(ctx, productID, storeCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ProductPricing), args.Error(1)
}

func (m *MockVendorCatalog) EstimateShipping(ctx context.Context, req sinalite.ShippingRequest) ([]entities.ShippingEstimate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ShippingEstimate), args.Error(1)
}

// Mock QuoteCache
type MockQuoteCache struct {
	mock.Mock
}

func (m *MockQuoteCache) Fetch(ctx context.Context, productID, storeCode string) ([]byte, error) {
	args := m.Called(ctx, productID, storeCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockQuoteCache) Put(ctx context.Context, productID, storeCode string, payload []byte) error {
	args := m.Called(ctx, productID, storeCode, payload)
	return args.Error(0)
}
