package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solstream/rewards/internal/domain/model"
	"github.com/solstream/rewards/internal/server/http/dto"
)

// StateHandler manages global configuration endpoints.
type StateHandler struct {
	facade StateFacade
}

// NewStateHandler constructs StateHandler.
func NewStateHandler(facade StateFacade) *StateHandler {
	return &StateHandler{facade: facade}
}

// Init handles POST /api/state. The first caller to initialize the system
// becomes its admin.
func (h *StateHandler) Init(c *gin.Context) {
	caller := CurrentIdentity(c)
	var req dto.StateInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	state, err := h.facade.InitializeGlobal(c.Request.Context(), caller, req.ConversionRate)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusCreated, toStateResponse(state))
}

// Show handles GET /api/state.
func (h *StateHandler) Show(c *gin.Context) {
	state, err := h.facade.GlobalState(c.Request.Context())
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.JSON(http.StatusOK, toStateResponse(state))
}

// UpdateRate handles PUT /api/state/rate.
func (h *StateHandler) UpdateRate(c *gin.Context) {
	caller := CurrentIdentity(c)
	var req dto.RateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.UpdateConversionRate(c.Request.Context(), caller, req.ConversionRate); err != nil {
		c.Status(statusForError(err))
		return
	}

	c.Status(http.StatusOK)
}

func toStateResponse(state *model.GlobalConfig) dto.StateResponse {
	return dto.StateResponse{
		Admin:                  state.AdminIdentity,
		ConversionRate:         state.ConversionRate,
		TotalPointsDistributed: state.TotalPointsDistributed,
		CreatedAt:              state.CreatedAt,
		UpdatedAt:              state.UpdatedAt,
	}
}
