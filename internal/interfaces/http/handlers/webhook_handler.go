package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "printforge.backend/internal/domain/errors"
	"printforge.backend/internal/interfaces/http/response"
	"printforge.backend/internal/usecases"
)

type storefrontEventService interface {
	ProcessOrderEvent(ctx context.Context, eventType string, data json.RawMessage) error
	ProcessCustomerEvent(ctx context.Context, eventType string, data json.RawMessage) error
}

// WebhookHandler ingests storefront events. Signature verification happens
// in middleware before these handlers run.
type WebhookHandler struct {
	webhookUsecase storefrontEventService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookUsecase *usecases.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{webhookUsecase: webhookUsecase}
}

type eventEnvelope struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// eventType tolerates both envelope spellings the storefront has shipped.
func (e eventEnvelope) eventType() string {
	if e.Type != "" {
		return e.Type
	}
	return e.Event
}

// HandleOrderWebhook processes order lifecycle events
// POST /api/v1/webhooks/orders
func (h *WebhookHandler) HandleOrderWebhook(c *gin.Context) {
	var envelope eventEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.webhookUsecase.ProcessOrderEvent(c.Request.Context(), envelope.eventType(), envelope.Data); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true})
}

// HandleCustomerWebhook processes customer lifecycle events
// POST /api/v1/webhooks/customers
func (h *WebhookHandler) HandleCustomerWebhook(c *gin.Context) {
	var envelope eventEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.webhookUsecase.ProcessCustomerEvent(c.Request.Context(), envelope.eventType(), envelope.Data); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true})
}
