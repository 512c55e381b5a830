package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rajputgas/agency-api/internal/middleware"
	"github.com/rajputgas/agency-api/internal/models"
	"github.com/rajputgas/agency-api/internal/services"
)

type ClientHandler struct {
	clientService *services.ClientService
}

func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// @Summary List Clients
// @Description Get all clients, optionally filtered by a search term
// @Tags Clients
// @Produce json
// @Param search query string false "Match against name, phone or company"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) Index(c *gin.Context) {
	clients, err := h.clientService.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ClientResponse, 0, len(clients))
	for _, cl := range clients {
		responses = append(responses, cl.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"clients": responses})
}

// @Summary Get Client
// @Description Get one client by id
// @Tags Clients
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients/{client_id} [get]
func (h *ClientHandler) Show(c *gin.Context) {
	clientID, ok := paramUint(c, "client_id")
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client.ToResponse()})
}

// @Summary Create Client
// @Description Register a client with optional legacy seeds (carried-over balance and outstanding cylinders)
// @Tags Clients
// @Accept json
// @Produce json
// @Param client body services.CreateClientInput true "Client payload"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var input services.CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), input, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client": client.ToResponse()})
}
