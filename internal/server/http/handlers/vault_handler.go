package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solstream/rewards/internal/adapter/treasury"
	"github.com/solstream/rewards/internal/server/http/dto"
)

// VaultHandler manages payout pool endpoints.
type VaultHandler struct {
	facade VaultFacade
}

// NewVaultHandler constructs VaultHandler.
func NewVaultHandler(facade VaultFacade) *VaultHandler {
	return &VaultHandler{facade: facade}
}

// Deposit handles POST /api/vault/deposits.
func (h *VaultHandler) Deposit(c *gin.Context) {
	funder := CurrentIdentity(c)
	var req dto.VaultDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	balance, err := h.facade.FundVault(c.Request.Context(), funder, req.Amount)
	if err != nil {
		if errors.Is(err, treasury.ErrTransferRejected) {
			c.Status(http.StatusPaymentRequired)
			return
		}
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusOK, dto.VaultResponse{Balance: balance.Balance, UpdatedAt: balance.UpdatedAt})
}

// Balance handles GET /api/vault.
func (h *VaultHandler) Balance(c *gin.Context) {
	balance, err := h.facade.VaultBalance(c.Request.Context())
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.JSON(http.StatusOK, dto.VaultResponse{Balance: balance.Balance, UpdatedAt: balance.UpdatedAt})
}
