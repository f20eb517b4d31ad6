package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"printforge.backend/internal/domain/entities"
	domainerrors "printforge.backend/internal/domain/errors"
	"printforge.backend/internal/interfaces/http/response"
	"printforge.backend/internal/usecases"
)

type ledgerAdminService interface {
	Award(ctx context.Context, customerID uuid.UUID, points int, reason entities.LedgerReason, orderID *uuid.UUID, note string) (*entities.AwardResult, error)
	Redeem(ctx context.Context, customerID uuid.UUID, points int, reason entities.LedgerReason, orderID *uuid.UUID, note string) (*entities.RedeemResult, error)
}

// AdminLoyaltyHandler serves back-office ledger adjustments
type AdminLoyaltyHandler struct {
	loyaltyUsecase ledgerAdminService
}

// NewAdminLoyaltyHandler creates a new admin loyalty handler
func NewAdminLoyaltyHandler(loyaltyUsecase *usecases.LoyaltyUsecase) *AdminLoyaltyHandler {
	return &AdminLoyaltyHandler{loyaltyUsecase: loyaltyUsecase}
}

type adjustmentInput struct {
	CustomerID string `json:"customerId" binding:"required,uuid"`
	Points     int    `json:"points" binding:"required,gt=0"`
	Reason     string `json:"reason"`
	OrderID    string `json:"orderId" binding:"omitempty,uuid"`
	Note       string `json:"note"`
}

func (in *adjustmentInput) parse() (uuid.UUID, entities.LedgerReason, *uuid.UUID) {
	customerID, _ := uuid.Parse(in.CustomerID)

	reason := entities.LedgerReasonAdjustment
	if in.Reason != "" {
		reason = entities.LedgerReason(in.Reason)
	}

	var orderID *uuid.UUID
	if in.OrderID != "" {
		id, _ := uuid.Parse(in.OrderID)
		orderID = &id
	}
	return customerID, reason, orderID
}

// Award credits points to a customer's wallet
// POST /api/v1/admin/loyalty/award
func (h *AdminLoyaltyHandler) Award(c *gin.Context) {
	var input adjustmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	customerID, reason, orderID := input.parse()

	result, err := h.loyaltyUsecase.Award(c.Request.Context(), customerID, input.Points, reason, orderID, input.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Reclaim debits points from a customer's wallet, clamped to its balance
// POST /api/v1/admin/loyalty/reclaim
func (h *AdminLoyaltyHandler) Reclaim(c *gin.Context) {
	var input adjustmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	customerID, reason, orderID := input.parse()

	result, err := h.loyaltyUsecase.Redeem(c.Request.Context(), customerID, input.Points, reason, orderID, input.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
