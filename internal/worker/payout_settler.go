package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/solstream/rewards/internal/adapter/treasury"
	"github.com/solstream/rewards/internal/domain/model"
)

// RewardsFacade exposes the subset of application functionality required by the settler.
type RewardsFacade interface {
	PayoutsForSettlement(ctx context.Context, limit int) ([]model.Payout, error)
	TransferPayout(ctx context.Context, payout model.Payout) error
	MarkPayoutSettled(ctx context.Context, payoutID int64) error
	ReleasePayout(ctx context.Context, payoutID int64) error
}

// PayoutSettler drains the pending payout queue by performing the external
// treasury transfer for each redeemed ledger. A payout stays durable until
// the transfer succeeds, so a crash or a treasury outage only delays
// settlement, never loses it.
type PayoutSettler struct {
	facade       RewardsFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Payout
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPayoutSettler constructs payout settlement worker pool.
func NewPayoutSettler(facade RewardsFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *PayoutSettler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PayoutSettler{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Payout, batchSize*workers),
	}
}

// Start launches background settlement.
func (p *PayoutSettler) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PayoutSettler) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PayoutSettler) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PayoutSettler) fetchAndDispatch(ctx context.Context) {
	payouts, err := p.facade.PayoutsForSettlement(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch payouts for settlement failed", slog.String("error", err.Error()))
		return
	}
	for _, payout := range payouts {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- payout:
		}
	}
}

func (p *PayoutSettler) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case payout, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handlePayout(ctx, payout)
		}
	}
}

func (p *PayoutSettler) handlePayout(ctx context.Context, payout model.Payout) {
	if err := p.facade.TransferPayout(ctx, payout); err != nil {
		var tooMany treasury.TooManyRequestsError
		switch {
		case errors.As(err, &tooMany):
			p.logger.Warn("treasury rate limited", slog.Duration("retry_after", tooMany.RetryAfter))
			time.Sleep(tooMany.RetryAfter)
		case errors.Is(err, treasury.ErrTransferRejected):
			p.logger.Error("payout transfer rejected",
				slog.Int64("payout", payout.ID),
				slog.String("identity", payout.Identity))
		default:
			p.logger.Error("payout transfer failed",
				slog.Int64("payout", payout.ID),
				slog.String("error", err.Error()))
		}

		if err := p.facade.ReleasePayout(ctx, payout.ID); err != nil {
			p.logger.Error("release payout failed", slog.Int64("payout", payout.ID), slog.String("error", err.Error()))
		}
		return
	}

	if err := p.facade.MarkPayoutSettled(ctx, payout.ID); err != nil {
		p.logger.Error("mark payout settled failed", slog.Int64("payout", payout.ID), slog.String("error", err.Error()))
		// Requeue; the transfer reference keeps the retry idempotent on
		// the treasury side.
		if err := p.facade.ReleasePayout(ctx, payout.ID); err != nil {
			p.logger.Error("release payout failed", slog.Int64("payout", payout.ID), slog.String("error", err.Error()))
		}
	}
}
