package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"printforge.backend/internal/domain/entities"
	domainerrors "printforge.backend/internal/domain/errors"
	domainRepos "printforge.backend/internal/domain/repositories"
	"printforge.backend/pkg/utils"
)

// WebhookUsecase turns storefront lifecycle events into ledger movements:
// paid orders earn points, refunds claw them back, new customers get the
// signup bonus.
type WebhookUsecase struct {
	loyalty     *LoyaltyUsecase
	creditRepo  domainRepos.StoreCreditRepository
	earnRate    int
	signupBonus int
}

// NewWebhookUsecase creates a new webhook usecase. earnRate is points per
// order dollar; signupBonus 0 disables the welcome grant.
func NewWebhookUsecase(
	loyalty *LoyaltyUsecase,
	creditRepo domainRepos.StoreCreditRepository,
	earnRate int,
	signupBonus int,
) *WebhookUsecase {
	if earnRate <= 0 {
		earnRate = 1
	}
	return &WebhookUsecase{
		loyalty:     loyalty,
		creditRepo:  creditRepo,
		earnRate:    earnRate,
		signupBonus: signupBonus,
	}
}

// ProcessOrderEvent handles an order webhook payload
func (u *WebhookUsecase) ProcessOrderEvent(ctx context.Context, eventType string, data json.RawMessage) error {
	log.Printf("Processing order event: %s", eventType)

	switch eventType {
	case "order.paid":
		var orderData struct {
			OrderID          string          `json:"orderId"`
			CustomerID       string          `json:"customerId"`
			Total            decimal.Decimal `json:"total"`
			Currency         string          `json:"currency"`
			AppliedCreditIDs []string        `json:"appliedCreditIds"`
		}
		if err := json.Unmarshal(data, &orderData); err != nil {
			return fmt.Errorf("order.paid payload: %w", domainerrors.ErrBadRequest)
		}
		orderID, customerID, err := parseOrderIDs(orderData.OrderID, orderData.CustomerID)
		if err != nil {
			return err
		}

		points := u.pointsFor(orderData.Total)
		if _, err := u.loyalty.Award(ctx, customerID, points, entities.LedgerReasonPurchase, &orderID, ""); err != nil {
			return err
		}

		if len(orderData.AppliedCreditIDs) > 0 {
			u.markCreditsApplied(ctx, customerID, orderID, orderData.AppliedCreditIDs)
		}

	case "order.refunded":
		var refundData struct {
			OrderID    string          `json:"orderId"`
			CustomerID string          `json:"customerId"`
			Total      decimal.Decimal `json:"total"`
		}
		if err := json.Unmarshal(data, &refundData); err != nil {
			return fmt.Errorf("order.refunded payload: %w", domainerrors.ErrBadRequest)
		}
		orderID, customerID, err := parseOrderIDs(refundData.OrderID, refundData.CustomerID)
		if err != nil {
			return err
		}

		// claw back what the order earned, clamped to whatever is left
		points := u.pointsFor(refundData.Total)
		if _, err := u.loyalty.Redeem(ctx, customerID, points, entities.LedgerReasonRefund, &orderID, ""); err != nil {
			return err
		}

	default:
		log.Printf("Unhandled order event type: %s", eventType)
	}

	return nil
}

// ProcessCustomerEvent handles a customer webhook payload
func (u *WebhookUsecase) ProcessCustomerEvent(ctx context.Context, eventType string, data json.RawMessage) error {
	log.Printf("Processing customer event: %s", eventType)

	switch eventType {
	case "customer.created":
		if u.signupBonus <= 0 {
			return nil
		}
		var customerData struct {
			CustomerID string `json:"customerId"`
		}
		if err := json.Unmarshal(data, &customerData); err != nil {
			return fmt.Errorf("customer.created payload: %w", domainerrors.ErrBadRequest)
		}
		customerID, err := uuid.Parse(customerData.CustomerID)
		if err != nil {
			return fmt.Errorf("customer id %q: %w", customerData.CustomerID, domainerrors.ErrBadRequest)
		}

		if _, err := u.loyalty.Award(ctx, customerID, u.signupBonus, entities.LedgerReasonSignup, nil, "welcome bonus"); err != nil {
			return err
		}

	default:
		log.Printf("Unhandled customer event type: %s", eventType)
	}

	return nil
}

// pointsFor converts an order total to earned points, rounding down.
func (u *WebhookUsecase) pointsFor(total decimal.Decimal) int {
	points := total.Mul(decimal.NewFromInt(int64(u.earnRate))).Floor()
	return int(points.IntPart())
}

// markCreditsApplied consumes the customer's pending credits spent on the
// order. Individual failures are logged and skipped so one bad id cannot
// drop the whole event.
func (u *WebhookUsecase) markCreditsApplied(ctx context.Context, customerID, orderID uuid.UUID, rawIDs []string) {
	pending, err := u.creditRepo.ListPendingByCustomer(ctx, customerID)
	if err != nil {
		log.Printf("Error listing pending credits for %s: %v", customerID, err)
		return
	}

	spent := make(map[uuid.UUID]bool, len(rawIDs))
	for _, id := range utils.ParseUUIDs(rawIDs) {
		spent[id] = true
	}

	for _, credit := range pending {
		if !spent[credit.ID] {
			continue
		}
		if err := u.creditRepo.MarkApplied(ctx, credit.ID, orderID); err != nil {
			log.Printf("Error marking credit %s applied: %v", credit.ID, err)
		}
	}
}

func parseOrderIDs(rawOrderID, rawCustomerID string) (uuid.UUID, uuid.UUID, error) {
	orderID, err := uuid.Parse(rawOrderID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("order id %q: %w", rawOrderID, domainerrors.ErrBadRequest)
	}
	customerID, err := uuid.Parse(rawCustomerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("customer id %q: %w", rawCustomerID, domainerrors.ErrBadRequest)
	}
	return orderID, customerID, nil
}
