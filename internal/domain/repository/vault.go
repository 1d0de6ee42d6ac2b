package repository

import (
	"context"

	"github.com/solstream/rewards/internal/domain/model"
)

// VaultRepository manages the custodial payout pool. The balance is only
// debited by LedgerRepository.Redeem; no withdrawal is exposed here.
type VaultRepository interface {
	Balance(ctx context.Context) (*model.VaultBalance, error)
	Deposit(ctx context.Context, funder string, amount uint64) (*model.VaultBalance, error)
}
