package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/solstream/rewards/internal/domain/errors"
	"github.com/solstream/rewards/internal/domain/model"
	"github.com/solstream/rewards/internal/domain/repository"
	pkgAuth "github.com/solstream/rewards/internal/pkg/auth"
)

// AuthUseCase handles principal lifecycle and token management. The login
// doubles as the opaque identity the ledger core trusts.
type AuthUseCase struct {
	principals repository.PrincipalRepository
	hasher     pkgAuth.PasswordHasher
	tokens     pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(principals repository.PrincipalRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{principals: principals, hasher: hasher, tokens: strategy}
}

// Register creates a new principal with login/password and returns auth token.
func (u *AuthUseCase) Register(ctx context.Context, login, password string) (*model.Principal, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	principal, err := u.principals.Create(ctx, login, hash)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(principal.Login)
	if err != nil {
		return nil, "", err
	}

	return principal, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.Principal, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	principal, err := u.principals.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(principal.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(principal.Login)
	if err != nil {
		return nil, "", err
	}

	return principal, token, nil
}

// ParseToken extracts the caller identity from provided token.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByLogin fetches principal by identity.
func (u *AuthUseCase) GetByLogin(ctx context.Context, login string) (*model.Principal, error) {
	return u.principals.GetByLogin(ctx, login)
}
