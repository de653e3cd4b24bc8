package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// clientHandler handles HTTP requests related to clients.
type clientHandler struct {
	clientService portssvc.ClientSvcFacade
}

func newClientHandler(cs portssvc.ClientSvcFacade) *clientHandler {
	return &clientHandler{clientService: cs}
}

// registerClientRoutes registers client routes on a tenant scoped group.
func registerClientRoutes(rg *gin.RouterGroup, clientService portssvc.ClientSvcFacade) {
	h := newClientHandler(clientService)

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("", h.listClients)
		clients.GET("/search", h.searchClients)
		clients.GET("/:id", h.getClient)
		clients.PUT("/:id", h.updateClient)
		clients.DELETE("/:id", h.deleteClient)
	}
}

// createClient godoc
// @Summary Create a client
// @Description Creates a client in the current scope. Name and email must be unique within the scope.
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} dto.ClientResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the organization"
// @Failure 409 {object} dto.ErrorResponse "Duplicate client"
// @Security BearerAuth
// @Router /clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), scope, req)
	if err != nil {
		respondError(c, logger, err, "create client")
		return
	}
	logger.Info("Client created", slog.String("client_id", client.ClientID))
	c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

// listClients godoc
// @Summary List clients
// @Tags clients
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset"
// @Success 200 {object} dto.ListClientsResponse
// @Security BearerAuth
// @Router /clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListClientsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	clients, err := h.clientService.ListClients(c.Request.Context(), scope, params)
	if err != nil {
		respondError(c, logger, err, "list clients")
		return
	}
	c.JSON(http.StatusOK, dto.ToListClientsResponse(clients))
}

// searchClients godoc
// @Summary Search clients
// @Description Case-insensitive match on name, email or company.
// @Tags clients
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   q query string true "Search text"
// @Param   limit query int false "Maximum results" default(10)
// @Success 200 {object} dto.ListClientsResponse
// @Security BearerAuth
// @Router /clients/search [get]
func (h *clientHandler) searchClients(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	clients, err := h.clientService.SearchClients(c.Request.Context(), scope, c.Query("q"), limit)
	if err != nil {
		respondError(c, logger, err, "search clients")
		return
	}
	c.JSON(http.StatusOK, dto.ToListClientsResponse(clients))
}

// getClient godoc
// @Summary Get a client
// @Tags clients
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Client ID"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	client, err := h.clientService.GetClient(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "get client")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// updateClient godoc
// @Summary Update a client
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Client ID"
// @Param   client body dto.UpdateClientRequest true "Fields to change"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate client"
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *clientHandler) updateClient(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), scope, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "update client")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// deleteClient godoc
// @Summary Delete a client
// @Description Fails with 409 while invoices or contracts reference the client.
// @Tags clients
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Client ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Failure 409 {object} dto.ErrorResponse "Client is referenced"
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *clientHandler) deleteClient(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	clientID := c.Param("id")
	if err := h.clientService.DeleteClient(c.Request.Context(), scope, clientID); err != nil {
		respondError(c, logger, err, "delete client")
		return
	}
	logger.Info("Client deleted", slog.String("client_id", clientID))
	c.Status(http.StatusNoContent)
}
