package jobs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"printforge.backend/internal/domain/entities"
	"printforge.backend/pkg/logger"
	"printforge.backend/pkg/metrics"
)

type walletPager interface {
	ListPage(ctx context.Context, offset, limit int) ([]*entities.Wallet, error)
}

type deltaSummer interface {
	SumDeltaByWallet(ctx context.Context, walletID uuid.UUID) (int64, error)
}

// LedgerAuditJob periodically cross-checks every wallet's counters against
// the sum of its ledger rows. It only reports; it never repairs.
type LedgerAuditJob struct {
	wallets  walletPager
	ledger   deltaSummer
	interval time.Duration
	pageSize int
	stop     chan struct{}
}

func NewLedgerAuditJob(wallets walletPager, ledger deltaSummer, interval time.Duration, pageSize int) *LedgerAuditJob {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if pageSize <= 0 {
		pageSize = 500
	}
	return &LedgerAuditJob{
		wallets:  wallets,
		ledger:   ledger,
		interval: interval,
		pageSize: pageSize,
		stop:     make(chan struct{}),
	}
}

func (j *LedgerAuditJob) Start(ctx context.Context) {
	log.Println("🕐 Starting ledger audit job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Ledger audit job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Ledger audit job stopped")
			return
		case <-ticker.C:
			j.runAudit(ctx)
		}
	}
}

func (j *LedgerAuditJob) Stop() {
	close(j.stop)
}

func (j *LedgerAuditJob) runAudit(ctx context.Context) {
	start := time.Now()
	scanned := 0
	mismatches := 0

	for offset := 0; ; offset += j.pageSize {
		wallets, err := j.wallets.ListPage(ctx, offset, j.pageSize)
		if err != nil {
			logger.Error(ctx, "Ledger audit: listing wallets failed",
				zap.Error(err), zap.Int("offset", offset))
			return
		}
		if len(wallets) == 0 {
			break
		}

		for _, w := range wallets {
			scanned++
			if j.checkWallet(ctx, w) {
				mismatches++
			}
		}

		if len(wallets) < j.pageSize {
			break
		}
	}

	logger.Info(ctx, "Ledger audit completed",
		zap.Int("wallets_scanned", scanned),
		zap.Int("mismatches", mismatches),
		zap.Duration("elapsed", time.Since(start)))
}

// checkWallet reports true when the wallet's counters disagree with its
// ledger rows.
func (j *LedgerAuditJob) checkWallet(ctx context.Context, w *entities.Wallet) bool {
	sum, err := j.ledger.SumDeltaByWallet(ctx, w.ID)
	if err != nil {
		logger.Error(ctx, "Ledger audit: summing deltas failed",
			zap.Error(err), zap.String("wallet_id", w.ID.String()))
		return false
	}

	lifetimeNet := w.LifetimeEarned - w.LifetimeRedeemed
	if sum == int64(w.PointsBalance) && lifetimeNet == w.PointsBalance {
		return false
	}

	metrics.IncAuditMismatch()
	logger.Warn(ctx, "Ledger audit: wallet out of balance",
		zap.String("wallet_id", w.ID.String()),
		zap.String("customer_id", w.CustomerID.String()),
		zap.Int("points_balance", w.PointsBalance),
		zap.Int64("ledger_sum", sum),
		zap.Int("lifetime_net", lifetimeNet))
	return true
}
