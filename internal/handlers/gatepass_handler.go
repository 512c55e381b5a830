package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rajputgas/agency-api/internal/middleware"
	"github.com/rajputgas/agency-api/internal/models"
	"github.com/rajputgas/agency-api/internal/services"
)

type GatePassHandler struct {
	gatePassService *services.GatePassService
}

func NewGatePassHandler(gatePassService *services.GatePassService) *GatePassHandler {
	return &GatePassHandler{gatePassService: gatePassService}
}

// @Summary List Gate Passes
// @Description Get gate passes, optionally filtered by client and status
// @Tags GatePasses
// @Produce json
// @Param client_id query int false "Client ID"
// @Param status query string false "OUT or RETURNED"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /gate_passes [get]
func (h *GatePassHandler) Index(c *gin.Context) {
	var clientID uint
	if v := c.Query("client_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return
		}
		clientID = uint(parsed)
	}

	passes, err := h.gatePassService.List(c.Request.Context(), clientID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.GatePassResponse, 0, len(passes))
	for _, p := range passes {
		responses = append(responses, p.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"gate_passes": responses})
}

// @Summary Create Gate Pass
// @Description Register an outbound delivery of cylinders
// @Tags GatePasses
// @Accept json
// @Produce json
// @Param gate_pass body services.CreateGatePassInput true "Gate pass payload"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /gate_passes [post]
func (h *GatePassHandler) Create(c *gin.Context) {
	var input services.CreateGatePassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pass, err := h.gatePassService.Create(c.Request.Context(), input, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"gate_pass": pass.ToResponse()})
}

// @Summary Get Gate Pass
// @Description Get a single gate pass by ID
// @Tags GatePasses
// @Produce json
// @Param gate_pass_id path int true "Gate Pass ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /gate_passes/{gate_pass_id} [get]
func (h *GatePassHandler) Show(c *gin.Context) {
	passID, ok := paramUint(c, "gate_pass_id")
	if !ok {
		return
	}

	pass, err := h.gatePassService.GetByID(c.Request.Context(), passID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gate_pass": pass.ToResponse()})
}

// @Summary Mark Gate Pass Returned
// @Description Transition a gate pass to RETURNED; already-returned passes are a no-op
// @Tags GatePasses
// @Produce json
// @Param gate_pass_id path int true "Gate Pass ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /gate_passes/{gate_pass_id}/return [post]
func (h *GatePassHandler) Return(c *gin.Context) {
	passID, ok := paramUint(c, "gate_pass_id")
	if !ok {
		return
	}

	pass, err := h.gatePassService.MarkReturned(c.Request.Context(), passID, time.Now(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gate_pass": pass.ToResponse()})
}

// @Summary Sweep Overdue Gate Passes
// @Description Force-close OUT passes past their expected return time, crediting synthetic returns
// @Tags GatePasses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /gate_passes/sweep [post]
func (h *GatePassHandler) Sweep(c *gin.Context) {
	closed, err := h.gatePassService.AutoMarkDueReturns(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": closed})
}
