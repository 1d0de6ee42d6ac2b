package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solstream/rewards/internal/domain/model"
	"github.com/solstream/rewards/internal/server/http/dto"
)

// LedgerHandler manages ledger-related endpoints.
type LedgerHandler struct {
	facade LedgerFacade
}

// NewLedgerHandler constructs LedgerHandler.
func NewLedgerHandler(facade LedgerFacade) *LedgerHandler {
	return &LedgerHandler{facade: facade}
}

// Create handles POST /api/ledger.
func (h *LedgerHandler) Create(c *gin.Context) {
	caller := CurrentIdentity(c)
	var req dto.LedgerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	ledger, err := h.facade.CreateLedger(c.Request.Context(), caller, model.AccountClass(req.AccountClass))
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusCreated, toLedgerResponse(ledger))
}

// Show handles GET /api/ledger.
func (h *LedgerHandler) Show(c *gin.Context) {
	caller := CurrentIdentity(c)
	ledger, err := h.facade.Ledger(c.Request.Context(), caller)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.JSON(http.StatusOK, toLedgerResponse(ledger))
}

// RecordActivity handles POST /api/ledgers/:identity/activities.
func (h *LedgerHandler) RecordActivity(c *gin.Context) {
	authorizer := CurrentIdentity(c)
	target := c.Param("identity")

	var req dto.ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	ledger, err := h.facade.RecordActivity(c.Request.Context(), authorizer, target, req.Points, model.ActivityType(req.Activity))
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusOK, toLedgerResponse(ledger))
}

// Redeem handles POST /api/ledger/redeem.
func (h *LedgerHandler) Redeem(c *gin.Context) {
	caller := CurrentIdentity(c)
	payout, err := h.facade.Redeem(c.Request.Context(), caller)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.JSON(http.StatusOK, toPayoutResponse(*payout))
}

// Activities handles GET /api/ledger/activities.
func (h *LedgerHandler) Activities(c *gin.Context) {
	caller := CurrentIdentity(c)
	activities, err := h.facade.ActivityHistory(c.Request.Context(), caller)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	if len(activities) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		resp = append(resp, dto.ActivityResponse{
			Activity:  string(a.Type),
			Points:    a.Points,
			CreatedAt: a.RecordedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Payouts handles GET /api/ledger/payouts.
func (h *LedgerHandler) Payouts(c *gin.Context) {
	caller := CurrentIdentity(c)
	payouts, err := h.facade.PayoutHistory(c.Request.Context(), caller)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	if len(payouts) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.PayoutResponse, 0, len(payouts))
	for _, p := range payouts {
		resp = append(resp, toPayoutResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func toLedgerResponse(ledger *model.UserLedger) dto.LedgerResponse {
	return dto.LedgerResponse{
		Identity:      ledger.Identity,
		AccountClass:  string(ledger.AccountClass),
		Points:        ledger.Points,
		TotalEarned:   ledger.TotalEarned,
		TotalRedeemed: ledger.TotalRedeemed,
		CreatedAt:     ledger.CreatedAt,
		UpdatedAt:     ledger.UpdatedAt,
	}
}

func toPayoutResponse(payout model.Payout) dto.PayoutResponse {
	return dto.PayoutResponse{
		ID:        payout.ID,
		Points:    payout.Points,
		Amount:    payout.Amount,
		Status:    string(payout.Status),
		CreatedAt: payout.CreatedAt,
		SettledAt: payout.SettledAt,
	}
}
