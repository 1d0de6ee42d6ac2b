package repository

import (
	"context"

	"github.com/solstream/rewards/internal/domain/model"
)

// LedgerRepository describes persistence operations for per-identity ledgers.
// Accrue and Redeem are transactional: every read, check, and mutation they
// perform commits together or not at all.
type LedgerRepository interface {
	Create(ctx context.Context, identity string, class model.AccountClass) (*model.UserLedger, error)
	GetByIdentity(ctx context.Context, identity string) (*model.UserLedger, error)
	// Accrue adds points to the ledger and the global distribution counter
	// and records the activity. All additions are overflow-checked.
	Accrue(ctx context.Context, identity string, points uint64, activity model.ActivityType) (*model.UserLedger, error)
	// Redeem drains the full points balance, debits the vault by the
	// converted amount, and enqueues a pending payout for settlement.
	Redeem(ctx context.Context, identity string) (*model.Payout, error)
}
