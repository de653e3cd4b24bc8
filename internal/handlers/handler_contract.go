package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/gin-gonic/gin"
)

// contractHandler handles HTTP requests related to contracts.
type contractHandler struct {
	contractService portssvc.ContractSvcFacade
	links           *links.Builder
}

func newContractHandler(cs portssvc.ContractSvcFacade, linkBuilder *links.Builder) *contractHandler {
	return &contractHandler{contractService: cs, links: linkBuilder}
}

// registerContractRoutes registers contract routes on a tenant scoped group.
func registerContractRoutes(rg *gin.RouterGroup, contractService portssvc.ContractSvcFacade, linkBuilder *links.Builder) {
	h := newContractHandler(contractService, linkBuilder)

	contracts := rg.Group("/contracts")
	{
		contracts.POST("", h.createContract)
		contracts.GET("", h.listContracts)
		contracts.GET("/:id", h.getContract)
		contracts.PUT("/:id", h.updateContract)
		contracts.DELETE("/:id", h.deleteContract)
		contracts.POST("/:id/send-for-signature", h.sendForSignature)
		contracts.POST("/:id/sign", h.signContract)
		contracts.POST("/:id/approve", h.approveContract)
		contracts.POST("/:id/cancel", h.cancelContract)
		contracts.POST("/:id/renew", h.renewContract)
		contracts.PATCH("/:id/renewal-settings", h.updateRenewalSettings)
	}
}

func (h *contractHandler) toResponse(c *domain.Contract) dto.ContractResponse {
	return dto.ToContractResponse(c, h.links.PublicContractURL)
}

// createContract godoc
// @Summary Create a contract
// @Description The contract type may be any supported synonym; it is stored canonically and echoed back as given.
// @Tags contracts
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   contract body dto.CreateContractRequest true "Contract details"
// @Success 201 {object} dto.ContractResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or unsupported contract type"
// @Security BearerAuth
// @Router /contracts [post]
func (h *contractHandler) createContract(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if _, normErr := domain.NormalizeContractType(req.ContractType); req.ContractType != "" && normErr != nil {
			respondError(c, logger, normErr, "create contract")
			return
		}
		badRequest(c, logger, err)
		return
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), scope, req)
	if err != nil {
		respondError(c, logger, err, "create contract")
		return
	}
	logger.Info("Contract created", slog.String("contract_id", contract.ContractID))
	c.JSON(http.StatusCreated, h.toResponse(contract))
}

// listContracts godoc
// @Summary List contracts
// @Tags contracts
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   status query string false "Status filter"
// @Param   contractType query string false "Contract type filter, any synonym"
// @Param   clientId query string false "Client filter"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListContractsResponse
// @Security BearerAuth
// @Router /contracts [get]
func (h *contractHandler) listContracts(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListContractsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	contracts, next, err := h.contractService.ListContracts(c.Request.Context(), scope, params)
	if err != nil {
		respondError(c, logger, err, "list contracts")
		return
	}
	resp := dto.ListContractsResponse{Contracts: make([]dto.ContractResponse, len(contracts)), NextToken: next}
	for i := range contracts {
		resp.Contracts[i] = h.toResponse(&contracts[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getContract godoc
// @Summary Get a contract
// @Tags contracts
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Contract ID"
// @Success 200 {object} dto.ContractResponse
// @Failure 404 {object} dto.ErrorResponse "Contract not found"
// @Security BearerAuth
// @Router /contracts/{id} [get]
func (h *contractHandler) getContract(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	contract, err := h.contractService.GetContract(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "get contract")
		return
	}
	c.JSON(http.StatusOK, h.toResponse(contract))
}

// updateContract godoc
// @Summary Update a contract
// @Description A status change must be allowed by the contract transition table.
// @Tags contracts
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Contract ID"
// @Param   contract body dto.UpdateContractRequest true "Fields to change"
// @Success 200 {object} dto.ContractResponse
// @Failure 404 {object} dto.ErrorResponse "Contract not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /contracts/{id} [put]
func (h *contractHandler) updateContract(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if req.ContractType != nil {
			if _, normErr := domain.NormalizeContractType(*req.ContractType); normErr != nil {
				respondError(c, logger, normErr, "update contract")
				return
			}
		}
		badRequest(c, logger, err)
		return
	}

	contract, err := h.contractService.UpdateContract(c.Request.Context(), scope, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "update contract")
		return
	}
	c.JSON(http.StatusOK, h.toResponse(contract))
}

// deleteContract godoc
// @Summary Delete a contract
// @Description Only draft and cancelled contracts can be deleted.
// @Tags contracts
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Contract ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Contract not found"
// @Failure 409 {object} dto.ErrorResponse "Contract cannot be deleted in its status"
// @Security BearerAuth
// @Router /contracts/{id} [delete]
func (h *contractHandler) deleteContract(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	contractID := c.Param("id")
	if err := h.contractService.DeleteContract(c.Request.Context(), scope, contractID); err != nil {
		respondError(c, logger, err, "delete contract")
		return
	}
	logger.Info("Contract deleted", slog.String("contract_id", contractID))
	c.Status(http.StatusNoContent)
}

// sendForSignature godoc
// @Summary Send a contract for signature
// @Description DRAFT to PENDING_SIGNATURE; issues the public link.
// @Tags contracts
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Contract ID"
// @Success 200 {object} dto.ContractResponse
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /contracts/{id}/send-for-signature [post]
func (h *contractHandler) sendForSignature(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	contract, err := h.contractService.SendForSignature(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "send contract for signature")
		return
	}
	c.JSON(http.StatusOK, h.toResponse(contract))
}

// signContract godoc
// @Summary Mark a contract signed
// @Tags contracts
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Contract ID"
// @Success 200 {object} dto.ContractResponse
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /contracts/{id}/sign [post]
func (h *contractHandler) signContract(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	contract, err := h.contractService.SignContract(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "sign contract")
		return
	}
	c.JSON(http.StatusOK, h.toResponse(contract))
}

// approveContract godoc
// @Summary Approve a contract
// @Description Activates a draft or signed contract and records the approver.
// @Tags contracts
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Contract ID"
// @Success 200 {object} dto.ContractResponse
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /contracts/{id}/approve [post]
func (h *contractHandler) approveContract(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	contract, err := h.contractService.ApproveContract(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "approve contract")
		return
	}
	c.JSON(http.StatusOK, h.toResponse(contract))
}

// cancelContract godoc
// @Summary Cancel a contract
// @Tags contracts
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Contract ID"
// @Param   request body dto.CancelContractRequest false "Cancellation reason"
// @Success 200 {object} dto.ContractResponse
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /contracts/{id}/cancel [post]
func (h *contractHandler) cancelContract(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CancelContractRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, logger, err)
			return
		}
	}

	contract, err := h.contractService.CancelContract(c.Request.Context(), scope, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, logger, err, "cancel contract")
		return
	}
	c.JSON(http.StatusOK, h.toResponse(contract))
}

// renewContract godoc
// @Summary Renew a contract
// @Description Creates the successor from the renewal terms and expires the original.
// @Tags contracts
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Contract ID"
// @Success 201 {object} dto.RenewContractResponse
// @Failure 409 {object} dto.ErrorResponse "Already renewed or not renewable"
// @Security BearerAuth
// @Router /contracts/{id}/renew [post]
func (h *contractHandler) renewContract(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	renewed, previous, err := h.contractService.RenewContract(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "renew contract")
		return
	}
	logger.Info("Contract renewed", slog.String("contract_id", previous.ContractID), slog.String("renewed_to_id", renewed.ContractID))
	c.JSON(http.StatusCreated, dto.RenewContractResponse{
		Renewed:  h.toResponse(renewed),
		Previous: h.toResponse(previous),
	})
}

// updateRenewalSettings godoc
// @Summary Update renewal settings
// @Tags contracts
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Contract ID"
// @Param   settings body dto.RenewalSettingsRequest true "Renewal settings"
// @Success 200 {object} dto.ContractResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid renewal terms"
// @Security BearerAuth
// @Router /contracts/{id}/renewal-settings [patch]
func (h *contractHandler) updateRenewalSettings(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.RenewalSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	contract, err := h.contractService.UpdateRenewalSettings(c.Request.Context(), scope, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "update renewal settings")
		return
	}
	c.JSON(http.StatusOK, h.toResponse(contract))
}
