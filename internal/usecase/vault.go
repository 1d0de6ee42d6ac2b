package usecase

import (
	"context"

	domainErrors "github.com/solstream/rewards/internal/domain/errors"
	"github.com/solstream/rewards/internal/domain/model"
	"github.com/solstream/rewards/internal/domain/repository"
)

// VaultUseCase manages the custodial payout pool. Deposits are open to any
// principal; the pool is only debited by the redeem transition.
type VaultUseCase struct {
	vault repository.VaultRepository
}

// NewVaultUseCase constructs VaultUseCase.
func NewVaultUseCase(vault repository.VaultRepository) *VaultUseCase {
	return &VaultUseCase{vault: vault}
}

// Balance returns the current vault balance.
func (u *VaultUseCase) Balance(ctx context.Context) (*model.VaultBalance, error) {
	return u.vault.Balance(ctx)
}

// Deposit credits the vault after the funder's external balance was debited.
func (u *VaultUseCase) Deposit(ctx context.Context, funder string, amount uint64) (*model.VaultBalance, error) {
	if amount == 0 {
		return nil, domainErrors.ErrInvalidArgument
	}
	return u.vault.Deposit(ctx, funder, amount)
}
