package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"printforge.backend/internal/domain/entities"
	domainerrors "printforge.backend/internal/domain/errors"
	domainRepos "printforge.backend/internal/domain/repositories"
)

// CheckoutCreditUsecase converts redeemed points into store credit at a
// fixed exchange rate (default 100 points = $1). The credit row is written
// in the same transaction as the redemption so a failed credit insert rolls
// the points back too.
type CheckoutCreditUsecase struct {
	loyalty    *LoyaltyUsecase
	creditRepo domainRepos.StoreCreditRepository
	uow        domainRepos.UnitOfWork
	redeemRate int
	persist    bool
}

// NewCheckoutCreditUsecase creates a new checkout credit usecase. persist
// is false when the deployment's schema has no store_credits table; credits
// are then computed and returned but not stored.
func NewCheckoutCreditUsecase(
	loyalty *LoyaltyUsecase,
	creditRepo domainRepos.StoreCreditRepository,
	uow domainRepos.UnitOfWork,
	redeemRate int,
	persist bool,
) *CheckoutCreditUsecase {
	if redeemRate <= 0 {
		redeemRate = 100
	}
	return &CheckoutCreditUsecase{
		loyalty:    loyalty,
		creditRepo: creditRepo,
		uow:        uow,
		redeemRate: redeemRate,
		persist:    persist,
	}
}

// RedeemForCredit redeems points (clamped to the balance) and grants the
// equivalent store credit. A clamp to zero yields a nil credit, not an error.
func (u *CheckoutCreditUsecase) RedeemForCredit(ctx context.Context, customerID uuid.UUID, points int) (*entities.StoreCredit, *entities.RedeemResult, error) {
	if points <= 0 {
		return nil, nil, domainerrors.ErrBadRequest
	}

	var credit *entities.StoreCredit
	var result *entities.RedeemResult
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		result, err = u.loyalty.Redeem(txCtx, customerID, points, entities.LedgerReasonRedemption, nil, "")
		if err != nil {
			return err
		}
		if result.RedeemedPoints == 0 {
			return nil
		}

		amount := decimal.NewFromInt(int64(result.RedeemedPoints)).
			Div(decimal.NewFromInt(int64(u.redeemRate)))
		credit = &entities.StoreCredit{
			CustomerID:    customerID,
			TransactionID: *result.TransactionID,
			Amount:        amount,
			Currency:      "USD",
			Status:        entities.StoreCreditStatusPending,
		}
		if !u.persist {
			return nil
		}
		return u.creditRepo.Create(txCtx, credit)
	})
	if err != nil {
		return nil, nil, err
	}
	return credit, result, nil
}
