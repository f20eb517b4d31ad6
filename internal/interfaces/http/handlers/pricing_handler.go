package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"printforge.backend/internal/domain/entities"
	domainerrors "printforge.backend/internal/domain/errors"
	"printforge.backend/internal/infrastructure/sinalite"
	"printforge.backend/internal/interfaces/http/response"
	"printforge.backend/internal/usecases"
)

type pricingService interface {
	ListProducts(ctx context.Context) ([]entities.Product, error)
	Quote(ctx context.Context, productID int, storeCode string, optionIDs []int) (*entities.Quote, error)
	EstimateShipping(ctx context.Context, req sinalite.ShippingRequest) ([]entities.ShippingEstimate, error)
}

// PricingHandler serves the vendor-backed catalog, quote and shipping
// endpoints
type PricingHandler struct {
	pricingUsecase pricingService
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingUsecase *usecases.PricingUsecase) *PricingHandler {
	return &PricingHandler{pricingUsecase: pricingUsecase}
}

// ListProducts returns the sellable catalog
// GET /api/v1/products
func (h *PricingHandler) ListProducts(c *gin.Context) {
	products, err := h.pricingUsecase.ListProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	if products == nil {
		products = []entities.Product{}
	}

	response.Success(c, http.StatusOK, gin.H{"products": products})
}

// Quote prices one option selection for a product
// POST /api/v1/products/:id/quote
func (h *PricingHandler) Quote(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		response.Error(c, domainerrors.BadRequest("Invalid product ID"))
		return
	}

	var input struct {
		StoreCode string `json:"storeCode"`
		OptionIDs []int  `json:"optionIds" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	quote, err := h.pricingUsecase.Quote(c.Request.Context(), productID, input.StoreCode, input.OptionIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, quote)
}

// EstimateShipping returns carrier quotes for a prospective shipment
// POST /api/v1/shipping/estimate
func (h *PricingHandler) EstimateShipping(c *gin.Context) {
	var req sinalite.ShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	if req.ProductID <= 0 {
		response.Error(c, domainerrors.BadRequest("Invalid product ID"))
		return
	}

	estimates, err := h.pricingUsecase.EstimateShipping(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if estimates == nil {
		estimates = []entities.ShippingEstimate{}
	}

	response.Success(c, http.StatusOK, gin.H{"estimates": estimates})
}
