package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"printforge.backend/internal/domain/entities"
	domainerrors "printforge.backend/internal/domain/errors"
	"printforge.backend/internal/interfaces/http/middleware"
	"printforge.backend/pkg/utils"
)

type loyaltyServiceStub struct {
	snapshotFn func(ctx context.Context, customerID uuid.UUID) (*entities.Snapshot, error)
	historyFn  func(ctx context.Context, customerID uuid.UUID, pagination utils.PaginationParams) ([]*entities.LedgerTransaction, int64, error)
}

func (s *loyaltyServiceStub) GetSnapshot(ctx context.Context, customerID uuid.UUID) (*entities.Snapshot, error) {
	if s.snapshotFn != nil {
		return s.snapshotFn(ctx, customerID)
	}
	return &entities.Snapshot{CustomerID: customerID}, nil
}

func (s *loyaltyServiceStub) History(ctx context.Context, customerID uuid.UUID, pagination utils.PaginationParams) ([]*entities.LedgerTransaction, int64, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, customerID, pagination)
	}
	return []*entities.LedgerTransaction{}, 0, nil
}

type checkoutServiceStub struct {
	redeemFn func(ctx context.Context, customerID uuid.UUID, points int) (*entities.StoreCredit, *entities.RedeemResult, error)
}

func (s *checkoutServiceStub) RedeemForCredit(ctx context.Context, customerID uuid.UUID, points int) (*entities.StoreCredit, *entities.RedeemResult, error) {
	if s.redeemFn != nil {
		return s.redeemFn(ctx, customerID, points)
	}
	return nil, &entities.RedeemResult{}, nil
}

// asCustomer seeds the context the way AuthMiddleware would.
func asCustomer(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CustomerIDKey, id)
	}
}

func TestLoyaltyHandler_GetWallet_SuccessAndMissingAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	customerID := uuid.New()
	h := &LoyaltyHandler{
		loyaltyUsecase: &loyaltyServiceStub{
			snapshotFn: func(_ context.Context, id uuid.UUID) (*entities.Snapshot, error) {
				require.Equal(t, customerID, id)
				return &entities.Snapshot{
					CustomerID:       id,
					PointsBalance:    120,
					LifetimeEarned:   300,
					LifetimeRedeemed: 180,
				}, nil
			},
		},
	}

	r := gin.New()
	r.GET("/me/loyalty", asCustomer(customerID), h.GetWallet)

	req := httptest.NewRequest(http.MethodGet, "/me/loyalty", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "\"pointsBalance\":120")
	require.Contains(t, w.Body.String(), "\"lifetimeEarned\":300")

	// no auth middleware ran
	r2 := gin.New()
	r2.GET("/me/loyalty", h.GetWallet)
	req = httptest.NewRequest(http.MethodGet, "/me/loyalty", nil)
	w = httptest.NewRecorder()
	r2.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoyaltyHandler_GetWallet_NoWalletYet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &LoyaltyHandler{
		loyaltyUsecase: &loyaltyServiceStub{
			snapshotFn: func(context.Context, uuid.UUID) (*entities.Snapshot, error) {
				return nil, nil
			},
		},
	}

	r := gin.New()
	r.GET("/me/loyalty", asCustomer(uuid.New()), h.GetWallet)

	req := httptest.NewRequest(http.MethodGet, "/me/loyalty", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "\"wallet\":null")
}

func TestLoyaltyHandler_GetHistory_PaginatesAndDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	customerID := uuid.New()
	var seen utils.PaginationParams
	h := &LoyaltyHandler{
		loyaltyUsecase: &loyaltyServiceStub{
			historyFn: func(_ context.Context, _ uuid.UUID, pagination utils.PaginationParams) ([]*entities.LedgerTransaction, int64, error) {
				seen = pagination
				return []*entities.LedgerTransaction{
					{ID: uuid.New(), CustomerID: customerID, Delta: 50, Reason: entities.LedgerReasonPurchase},
				}, 41, nil
			},
		},
	}

	r := gin.New()
	r.GET("/me/loyalty/history", asCustomer(customerID), h.GetHistory)

	req := httptest.NewRequest(http.MethodGet, "/me/loyalty/history?page=3&limit=5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 3, seen.Page)
	require.Equal(t, 5, seen.Limit)
	require.Contains(t, w.Body.String(), "\"totalCount\":41")
	require.Contains(t, w.Body.String(), "\"totalPages\":9")

	// defaults kick in when the query is empty
	req = httptest.NewRequest(http.MethodGet, "/me/loyalty/history", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, seen.Page)
	require.Equal(t, utils.DefaultLimit, seen.Limit)
}

func TestLoyaltyHandler_GetHistory_EmptyRowsBranch(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &LoyaltyHandler{
		loyaltyUsecase: &loyaltyServiceStub{
			historyFn: func(context.Context, uuid.UUID, utils.PaginationParams) ([]*entities.LedgerTransaction, int64, error) {
				return nil, 0, nil
			},
		},
	}

	r := gin.New()
	r.GET("/me/loyalty/history", asCustomer(uuid.New()), h.GetHistory)

	req := httptest.NewRequest(http.MethodGet, "/me/loyalty/history", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "\"rows\":[]")
}

func TestLoyaltyHandler_GetHistory_RepoError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &LoyaltyHandler{
		loyaltyUsecase: &loyaltyServiceStub{
			historyFn: func(context.Context, uuid.UUID, utils.PaginationParams) ([]*entities.LedgerTransaction, int64, error) {
				return nil, 0, errors.New("db fail")
			},
		},
	}

	r := gin.New()
	r.GET("/me/loyalty/history", asCustomer(uuid.New()), h.GetHistory)

	req := httptest.NewRequest(http.MethodGet, "/me/loyalty/history", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "db fail")
}

func TestLoyaltyHandler_Redeem_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)

	customerID := uuid.New()
	txID := uuid.New()
	h := &LoyaltyHandler{
		checkoutUsecase: &checkoutServiceStub{
			redeemFn: func(_ context.Context, id uuid.UUID, points int) (*entities.StoreCredit, *entities.RedeemResult, error) {
				require.Equal(t, customerID, id)
				require.Equal(t, 500, points)
				credit := &entities.StoreCredit{
					ID:            uuid.New(),
					CustomerID:    id,
					TransactionID: txID,
					Amount:        decimal.NewFromInt(5),
					Currency:      "USD",
					Status:        entities.StoreCreditStatusPending,
				}
				return credit, &entities.RedeemResult{
					Changed:        true,
					Requested:      500,
					RedeemedPoints: 500,
					TransactionID:  &txID,
					Snapshot:       entities.Snapshot{CustomerID: id, PointsBalance: 100},
				}, nil
			},
		},
	}

	r := gin.New()
	r.POST("/me/loyalty/redeem", asCustomer(customerID), h.Redeem)

	req := httptest.NewRequest(http.MethodPost, "/me/loyalty/redeem", strings.NewReader(`{"points":500}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "\"redeemedPoints\":500")
	require.Contains(t, w.Body.String(), "\"status\":\"PENDING\"")
	require.Contains(t, w.Body.String(), "\"pointsBalance\":100")
}

func TestLoyaltyHandler_Redeem_ValidationAndAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &LoyaltyHandler{checkoutUsecase: &checkoutServiceStub{}}

	r := gin.New()
	r.POST("/me/loyalty/redeem", asCustomer(uuid.New()), h.Redeem)

	// malformed body
	req := httptest.NewRequest(http.MethodPost, "/me/loyalty/redeem", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// zero points fails gt=0
	req = httptest.NewRequest(http.MethodPost, "/me/loyalty/redeem", strings.NewReader(`{"points":0}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// no auth middleware ran
	r2 := gin.New()
	r2.POST("/me/loyalty/redeem", h.Redeem)
	req = httptest.NewRequest(http.MethodPost, "/me/loyalty/redeem", strings.NewReader(`{"points":500}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r2.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoyaltyHandler_Redeem_WalletMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &LoyaltyHandler{
		checkoutUsecase: &checkoutServiceStub{
			redeemFn: func(context.Context, uuid.UUID, int) (*entities.StoreCredit, *entities.RedeemResult, error) {
				return nil, nil, domainerrors.ErrWalletNotFound
			},
		},
	}

	r := gin.New()
	r.POST("/me/loyalty/redeem", asCustomer(uuid.New()), h.Redeem)

	req := httptest.NewRequest(http.MethodPost, "/me/loyalty/redeem", strings.NewReader(`{"points":500}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
