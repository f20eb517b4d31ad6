package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"printforge.backend/internal/domain/entities"
	domainerrors "printforge.backend/internal/domain/errors"
	domainRepos "printforge.backend/internal/domain/repositories"
	"printforge.backend/pkg/metrics"
	"printforge.backend/pkg/utils"
)

// redeemRetryLimit bounds how often a redemption re-reads the balance when a
// concurrent spend invalidates the clamp.
const redeemRetryLimit = 3

var errRedeemContended = errors.New("wallet balance changed during redemption")

// LoyaltyUsecase owns the points ledger: every balance change goes through
// Award or Redeem, which pair the wallet counter update with an append-only
// transaction row in one atomic unit.
type LoyaltyUsecase struct {
	walletRepo domainRepos.WalletRepository
	ledgerRepo domainRepos.LedgerTransactionRepository
	uow        domainRepos.UnitOfWork
}

// NewLoyaltyUsecase creates a new loyalty usecase
func NewLoyaltyUsecase(
	walletRepo domainRepos.WalletRepository,
	ledgerRepo domainRepos.LedgerTransactionRepository,
	uow domainRepos.UnitOfWork,
) *LoyaltyUsecase {
	return &LoyaltyUsecase{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		uow:        uow,
	}
}

// GetSnapshot returns the customer's wallet state, or (nil, nil) when the
// customer has never earned a point. It never creates a wallet.
func (u *LoyaltyUsecase) GetSnapshot(ctx context.Context, customerID uuid.UUID) (*entities.Snapshot, error) {
	wallet, err := u.walletRepo.GetByCustomerID(ctx, customerID)
	if err != nil || wallet == nil {
		return nil, err
	}
	snap := entities.SnapshotOf(wallet)
	return &snap, nil
}

// History lists the customer's ledger transactions newest first.
func (u *LoyaltyUsecase) History(ctx context.Context, customerID uuid.UUID, pagination utils.PaginationParams) ([]*entities.LedgerTransaction, int64, error) {
	return u.ledgerRepo.ListByCustomer(ctx, customerID, pagination)
}

// Award credits points to the customer's wallet, creating the wallet on
// first contact. Non-positive amounts are a no-op: no wallet is created and
// no transaction is written.
func (u *LoyaltyUsecase) Award(ctx context.Context, customerID uuid.UUID, points int, reason entities.LedgerReason, orderID *uuid.UUID, note string) (*entities.AwardResult, error) {
	if !reason.IsValid() {
		return nil, domainerrors.ErrInvalidReason
	}

	if points <= 0 {
		snap, err := u.snapshotOrZero(ctx, customerID)
		if err != nil {
			return nil, err
		}
		return &entities.AwardResult{Changed: false, Snapshot: snap}, nil
	}

	var result *entities.AwardResult
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		wallet, err := u.walletRepo.Ensure(txCtx, customerID)
		if err != nil {
			return err
		}
		updated, err := u.walletRepo.Credit(txCtx, customerID, points)
		if err != nil {
			return err
		}
		tx := &entities.LedgerTransaction{
			WalletID:   wallet.ID,
			CustomerID: customerID,
			Delta:      points,
			Reason:     reason,
			OrderID:    orderID,
			Note:       null.NewString(note, note != ""),
		}
		if err := u.ledgerRepo.Create(txCtx, tx); err != nil {
			return err
		}
		result = &entities.AwardResult{
			Changed:       true,
			TransactionID: &tx.ID,
			Snapshot:      entities.SnapshotOf(updated),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.AddPointsAwarded(int64(points))
	return result, nil
}

// Redeem debits up to points from the customer's wallet, clamping to the
// available balance. A short balance is not an error: RedeemedPoints carries
// what was actually debited and callers compare it against Requested.
func (u *LoyaltyUsecase) Redeem(ctx context.Context, customerID uuid.UUID, points int, reason entities.LedgerReason, orderID *uuid.UUID, note string) (*entities.RedeemResult, error) {
	if !reason.IsValid() {
		return nil, domainerrors.ErrInvalidReason
	}

	requested := points
	if requested < 0 {
		requested = 0
	}
	if requested == 0 {
		snap, err := u.snapshotOrZero(ctx, customerID)
		if err != nil {
			return nil, err
		}
		return &entities.RedeemResult{Requested: requested, Snapshot: snap}, nil
	}

	for attempt := 0; attempt < redeemRetryLimit; attempt++ {
		wallet, err := u.walletRepo.GetByCustomerID(ctx, customerID)
		if err != nil {
			return nil, err
		}
		if wallet == nil {
			return &entities.RedeemResult{
				Requested: requested,
				Snapshot:  entities.Snapshot{CustomerID: customerID},
			}, nil
		}

		redeemable := requested
		if wallet.PointsBalance < redeemable {
			redeemable = wallet.PointsBalance
		}
		if redeemable == 0 {
			return &entities.RedeemResult{
				Requested: requested,
				Snapshot:  entities.SnapshotOf(wallet),
			}, nil
		}

		var result *entities.RedeemResult
		err = u.uow.Do(ctx, func(txCtx context.Context) error {
			ok, err := u.walletRepo.DebitIfSufficient(txCtx, customerID, redeemable)
			if err != nil {
				return err
			}
			if !ok {
				// a concurrent spend shrank the balance below our clamp
				return errRedeemContended
			}
			updated, err := u.walletRepo.GetByCustomerID(txCtx, customerID)
			if err != nil {
				return err
			}
			tx := &entities.LedgerTransaction{
				WalletID:   wallet.ID,
				CustomerID: customerID,
				Delta:      -redeemable,
				Reason:     reason,
				OrderID:    orderID,
				Note:       null.NewString(note, note != ""),
			}
			if err := u.ledgerRepo.Create(txCtx, tx); err != nil {
				return err
			}
			result = &entities.RedeemResult{
				Changed:        true,
				Requested:      requested,
				RedeemedPoints: redeemable,
				TransactionID:  &tx.ID,
				Snapshot:       entities.SnapshotOf(updated),
			}
			return nil
		})
		if errors.Is(err, errRedeemContended) {
			continue
		}
		if err != nil {
			return nil, err
		}

		metrics.AddPointsRedeemed(int64(redeemable))
		return result, nil
	}

	// the balance kept moving under us; report the latest state unredeemed
	snap, err := u.snapshotOrZero(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &entities.RedeemResult{Requested: requested, Snapshot: snap}, nil
}

func (u *LoyaltyUsecase) snapshotOrZero(ctx context.Context, customerID uuid.UUID) (entities.Snapshot, error) {
	wallet, err := u.walletRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return entities.Snapshot{}, err
	}
	if wallet == nil {
		return entities.Snapshot{CustomerID: customerID}, nil
	}
	return entities.SnapshotOf(wallet), nil
}
