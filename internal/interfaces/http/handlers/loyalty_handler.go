package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"printforge.backend/internal/domain/entities"
	domainerrors "printforge.backend/internal/domain/errors"
	"printforge.backend/internal/interfaces/http/middleware"
	"printforge.backend/internal/interfaces/http/response"
	"printforge.backend/internal/usecases"
	"printforge.backend/pkg/utils"
)

type loyaltyService interface {
	GetSnapshot(ctx context.Context, customerID uuid.UUID) (*entities.Snapshot, error)
	History(ctx context.Context, customerID uuid.UUID, pagination utils.PaginationParams) ([]*entities.LedgerTransaction, int64, error)
}

type checkoutCreditService interface {
	RedeemForCredit(ctx context.Context, customerID uuid.UUID, points int) (*entities.StoreCredit, *entities.RedeemResult, error)
}

// LoyaltyHandler serves the customer-facing loyalty endpoints
type LoyaltyHandler struct {
	loyaltyUsecase  loyaltyService
	checkoutUsecase checkoutCreditService
}

// NewLoyaltyHandler creates a new loyalty handler
func NewLoyaltyHandler(loyaltyUsecase *usecases.LoyaltyUsecase, checkoutUsecase *usecases.CheckoutCreditUsecase) *LoyaltyHandler {
	return &LoyaltyHandler{
		loyaltyUsecase:  loyaltyUsecase,
		checkoutUsecase: checkoutUsecase,
	}
}

// GetWallet returns the caller's wallet snapshot, null if none exists yet
// GET /api/v1/me/loyalty
func (h *LoyaltyHandler) GetWallet(c *gin.Context) {
	customerID, ok := middleware.GetCustomerID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Customer not authenticated"))
		return
	}

	snapshot, err := h.loyaltyUsecase.GetSnapshot(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true, "wallet": snapshot})
}

// GetHistory lists the caller's ledger transactions, newest first
// GET /api/v1/me/loyalty/history
func (h *LoyaltyHandler) GetHistory(c *gin.Context) {
	customerID, ok := middleware.GetCustomerID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Customer not authenticated"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	pagination := utils.GetPaginationParams(page, limit)

	rows, total, err := h.loyaltyUsecase.History(c.Request.Context(), customerID, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	if rows == nil {
		rows = []*entities.LedgerTransaction{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"ok":         true,
		"rows":       rows,
		"pagination": utils.CalculateMeta(total, pagination.Page, pagination.Limit),
	})
}

// Redeem converts points into store credit for checkout. The redemption is
// clamped to the available balance; a zero balance yields a null credit.
// POST /api/v1/me/loyalty/redeem
func (h *LoyaltyHandler) Redeem(c *gin.Context) {
	var input struct {
		Points int `json:"points" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	customerID, ok := middleware.GetCustomerID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Customer not authenticated"))
		return
	}

	credit, result, err := h.checkoutUsecase.RedeemForCredit(c.Request.Context(), customerID, input.Points)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"credit":         credit,
		"wallet":         result.Snapshot,
		"redeemedPoints": result.RedeemedPoints,
	})
}
