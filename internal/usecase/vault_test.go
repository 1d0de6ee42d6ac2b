package usecase

import (
	"context"
	"fmt"
	"testing"

	domainErrors "github.com/solstream/rewards/internal/domain/errors"
	"github.com/solstream/rewards/internal/domain/model"
	testhelpers "github.com/solstream/rewards/internal/test"
)

func TestVaultUseCaseBalance(t *testing.T) {
	repo := &testhelpers.VaultRepositoryStub{Pool: model.VaultBalance{Balance: 500}}
	uc := NewVaultUseCase(repo)

	balance, err := uc.Balance(context.Background())
	if err != nil {
		t.Fatalf("balance returned error: %v", err)
	}
	if balance.Balance != 500 {
		t.Fatalf("unexpected balance: %d", balance.Balance)
	}
}

func TestVaultUseCaseDeposit(t *testing.T) {
	repo := &testhelpers.VaultRepositoryStub{}
	uc := NewVaultUseCase(repo)

	balance, err := uc.Deposit(context.Background(), "bob", 300)
	if err != nil {
		t.Fatalf("deposit returned error: %v", err)
	}
	if balance.Balance != 300 {
		t.Fatalf("unexpected balance after deposit: %d", balance.Balance)
	}
	if len(repo.Deposits) != 1 || repo.Deposits[0].Funder != "bob" || repo.Deposits[0].Amount != 300 {
		t.Fatalf("deposit call not recorded: %+v", repo.Deposits)
	}
}

func TestVaultUseCaseDepositZeroAmount(t *testing.T) {
	uc := NewVaultUseCase(&testhelpers.VaultRepositoryStub{})
	if _, err := uc.Deposit(context.Background(), "bob", 0); err != domainErrors.ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for zero amount, got %v", err)
	}
}

func TestVaultUseCaseDepositRepositoryError(t *testing.T) {
	repo := &testhelpers.VaultRepositoryStub{DepositFn: func(context.Context, string, uint64) (*model.VaultBalance, error) {
		return nil, fmt.Errorf("storage down")
	}}
	uc := NewVaultUseCase(repo)
	if _, err := uc.Deposit(context.Background(), "bob", 10); err == nil {
		t.Fatal("expected repository error")
	}
}
