package repository

import (
	"context"

	"github.com/solstream/rewards/internal/domain/model"
)

// PayoutRepository provides access to redemption payouts and their
// settlement queue.
type PayoutRepository interface {
	ListByIdentity(ctx context.Context, identity string) ([]model.Payout, error)
	// SelectBatchForSettlement claims up to limit pending payouts and marks
	// them SETTLING so concurrent settlers skip them.
	SelectBatchForSettlement(ctx context.Context, limit int) ([]model.Payout, error)
	MarkSettled(ctx context.Context, payoutID int64) error
	// Release returns a claimed payout to PENDING after a failed transfer.
	Release(ctx context.Context, payoutID int64) error
}
