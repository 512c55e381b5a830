package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rajputgas/agency-api/internal/middleware"
	"github.com/rajputgas/agency-api/internal/services"
)

type CustodyHandler struct {
	custodyService *services.CustodyService
}

func NewCustodyHandler(custodyService *services.CustodyService) *CustodyHandler {
	return &CustodyHandler{custodyService: custodyService}
}

// @Summary Custody Summary
// @Description Per-variant delivered/returned/pending cylinders for one client
// @Tags Custody
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients/{client_id}/custody [get]
func (h *CustodyHandler) Summary(c *gin.Context) {
	clientID, ok := paramUint(c, "client_id")
	if !ok {
		return
	}

	rows, err := h.custodyService.GetCustodySummary(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client_id": clientID, "custody": rows})
}

// @Summary Record Return
// @Description Append a cylinder return for the client; rejects returns exceeding pending custody
// @Tags Custody
// @Accept json
// @Produce json
// @Param client_id path int true "Client ID"
// @Param return body services.RecordReturnInput true "Return payload (raw capacity)"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients/{client_id}/returns [post]
func (h *CustodyHandler) CreateReturn(c *gin.Context) {
	clientID, ok := paramUint(c, "client_id")
	if !ok {
		return
	}

	var input services.RecordReturnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ret, err := h.custodyService.RecordReturn(c.Request.Context(), clientID, input, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"return": ret})
}

// adjustmentRequest wraps a return payload with its client for the
// admin-only adjustment route.
type adjustmentRequest struct {
	ClientID uint `json:"client_id" binding:"required"`
	services.RecordReturnInput
}

// @Summary Record Adjustment
// @Description Append a privileged compensating ledger entry; quantity may be negative
// @Tags Custody
// @Accept json
// @Produce json
// @Param adjustment body adjustmentRequest true "Adjustment payload"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /returns/adjustments [post]
func (h *CustodyHandler) CreateAdjustment(c *gin.Context) {
	var req adjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ret, err := h.custodyService.RecordAdjustment(c.Request.Context(), req.ClientID, req.RecordReturnInput, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"return": ret})
}
