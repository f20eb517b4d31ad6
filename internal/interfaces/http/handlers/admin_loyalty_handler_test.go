package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"printforge.backend/internal/domain/entities"
	domainerrors "printforge.backend/internal/domain/errors"
)

type ledgerAdminStub struct {
	awardFn  func(ctx context.Context, customerID uuid.UUID, points int, reason entities.LedgerReason, orderID *uuid.UUID, note string) (*entities.AwardResult, error)
	redeemFn func(ctx context.Context, customerID uuid.UUID, points int, reason entities.LedgerReason, orderID *uuid.UUID, note string) (*entities.RedeemResult, error)
}

func (s *ledgerAdminStub) Award(ctx context.Context, customerID uuid.UUID, points int, reason entities.LedgerReason, orderID *uuid.UUID, note string) (*entities.AwardResult, error) {
	if s.awardFn != nil {
		return s.awardFn(ctx, customerID, points, reason, orderID, note)
	}
	return &entities.AwardResult{}, nil
}

func (s *ledgerAdminStub) Redeem(ctx context.Context, customerID uuid.UUID, points int, reason entities.LedgerReason, orderID *uuid.UUID, note string) (*entities.RedeemResult, error) {
	if s.redeemFn != nil {
		return s.redeemFn(ctx, customerID, points, reason, orderID, note)
	}
	return &entities.RedeemResult{}, nil
}

func TestAdminLoyaltyHandler_Award_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)

	customerID := uuid.New()
	orderID := uuid.New()
	txID := uuid.New()
	h := &AdminLoyaltyHandler{
		loyaltyUsecase: &ledgerAdminStub{
			awardFn: func(_ context.Context, id uuid.UUID, points int, reason entities.LedgerReason, order *uuid.UUID, note string) (*entities.AwardResult, error) {
				require.Equal(t, customerID, id)
				require.Equal(t, 250, points)
				require.Equal(t, entities.LedgerReasonPromotion, reason)
				require.NotNil(t, order)
				require.Equal(t, orderID, *order)
				require.Equal(t, "spring campaign", note)
				return &entities.AwardResult{
					Changed:       true,
					TransactionID: &txID,
					Snapshot:      entities.Snapshot{CustomerID: id, PointsBalance: 250, LifetimeEarned: 250},
				}, nil
			},
		},
	}

	r := gin.New()
	r.POST("/admin/loyalty/award", h.Award)

	body := fmt.Sprintf(`{"customerId":%q,"points":250,"reason":"promotion","orderId":%q,"note":"spring campaign"}`, customerID, orderID)
	req := httptest.NewRequest(http.MethodPost, "/admin/loyalty/award", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "\"changed\":true")
	require.Contains(t, w.Body.String(), "\"pointsBalance\":250")
}

func TestAdminLoyaltyHandler_Award_DefaultsReasonToAdjustment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seenReason entities.LedgerReason
	var seenOrder *uuid.UUID
	h := &AdminLoyaltyHandler{
		loyaltyUsecase: &ledgerAdminStub{
			awardFn: func(_ context.Context, _ uuid.UUID, _ int, reason entities.LedgerReason, order *uuid.UUID, _ string) (*entities.AwardResult, error) {
				seenReason = reason
				seenOrder = order
				return &entities.AwardResult{Changed: true}, nil
			},
		},
	}

	r := gin.New()
	r.POST("/admin/loyalty/award", h.Award)

	body := fmt.Sprintf(`{"customerId":%q,"points":10}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/admin/loyalty/award", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, entities.LedgerReasonAdjustment, seenReason)
	require.Nil(t, seenOrder)
}

func TestAdminLoyaltyHandler_Award_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &AdminLoyaltyHandler{loyaltyUsecase: &ledgerAdminStub{}}
	r := gin.New()
	r.POST("/admin/loyalty/award", h.Award)

	cases := []string{
		"{",
		`{"points":10}`,
		`{"customerId":"not-a-uuid","points":10}`,
		fmt.Sprintf(`{"customerId":%q,"points":-5}`, uuid.New()),
		fmt.Sprintf(`{"customerId":%q,"points":10,"orderId":"nope"}`, uuid.New()),
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/admin/loyalty/award", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}

func TestAdminLoyaltyHandler_Award_InvalidReason(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &AdminLoyaltyHandler{
		loyaltyUsecase: &ledgerAdminStub{
			awardFn: func(context.Context, uuid.UUID, int, entities.LedgerReason, *uuid.UUID, string) (*entities.AwardResult, error) {
				return nil, fmt.Errorf("%w: banana", domainerrors.ErrInvalidReason)
			},
		},
	}

	r := gin.New()
	r.POST("/admin/loyalty/award", h.Award)

	body := fmt.Sprintf(`{"customerId":%q,"points":10,"reason":"banana"}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/admin/loyalty/award", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "invalid ledger reason")
}

func TestAdminLoyaltyHandler_Reclaim_ClampedResult(t *testing.T) {
	gin.SetMode(gin.TestMode)

	customerID := uuid.New()
	h := &AdminLoyaltyHandler{
		loyaltyUsecase: &ledgerAdminStub{
			redeemFn: func(_ context.Context, id uuid.UUID, points int, reason entities.LedgerReason, _ *uuid.UUID, _ string) (*entities.RedeemResult, error) {
				require.Equal(t, 1000, points)
				require.Equal(t, entities.LedgerReasonAdjustment, reason)
				// wallet only held 400
				return &entities.RedeemResult{
					Changed:        true,
					Requested:      1000,
					RedeemedPoints: 400,
					Snapshot:       entities.Snapshot{CustomerID: id, PointsBalance: 0},
				}, nil
			},
		},
	}

	r := gin.New()
	r.POST("/admin/loyalty/reclaim", h.Reclaim)

	body := fmt.Sprintf(`{"customerId":%q,"points":1000}`, customerID)
	req := httptest.NewRequest(http.MethodPost, "/admin/loyalty/reclaim", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "\"requested\":1000")
	require.Contains(t, w.Body.String(), "\"redeemedPoints\":400")
}

func TestAdminLoyaltyHandler_Reclaim_Errors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &AdminLoyaltyHandler{
		loyaltyUsecase: &ledgerAdminStub{
			redeemFn: func(context.Context, uuid.UUID, int, entities.LedgerReason, *uuid.UUID, string) (*entities.RedeemResult, error) {
				return nil, errors.New("tx deadlock")
			},
		},
	}

	r := gin.New()
	r.POST("/admin/loyalty/reclaim", h.Reclaim)

	body := fmt.Sprintf(`{"customerId":%q,"points":10}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/admin/loyalty/reclaim", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "deadlock")

	// malformed body
	req = httptest.NewRequest(http.MethodPost, "/admin/loyalty/reclaim", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
