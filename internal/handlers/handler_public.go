package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// publicHandler serves share-link views. No authentication; responses are redacted.
type publicHandler struct {
	publicService portssvc.PublicViewSvc
}

func newPublicHandler(ps portssvc.PublicViewSvc) *publicHandler {
	return &publicHandler{publicService: ps}
}

// registerPublicRoutes registers unauthenticated share-link routes behind the given middleware.
func registerPublicRoutes(r *gin.Engine, publicService portssvc.PublicViewSvc, limit gin.HandlerFunc) {
	h := newPublicHandler(publicService)

	public := r.Group("/public", limit)
	{
		public.GET("/invoice/:token", h.getInvoice)
		public.GET("/contract/:token", h.getContract)
		public.POST("/send-invoice-copy", h.sendInvoiceCopy)
	}
}

// getInvoice godoc
// @Summary View a shared invoice
// @Description Returns a redacted invoice for a public view token. Tokens of draft invoices are not served.
// @Tags public
// @Produce  json
// @Param   token path string true "Public view token"
// @Success 200 {object} dto.PublicInvoiceResponse
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /public/invoice/{token} [get]
func (h *publicHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	inv, client, err := h.publicService.GetPublicInvoice(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, logger, err, "get invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToPublicInvoiceResponse(inv, client))
}

// getContract godoc
// @Summary View a shared contract
// @Tags public
// @Produce  json
// @Param   token path string true "Public view token"
// @Success 200 {object} dto.PublicContractResponse
// @Failure 404 {object} dto.ErrorResponse "Contract not found"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /public/contract/{token} [get]
func (h *publicHandler) getContract(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	contract, client, err := h.publicService.GetPublicContract(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, logger, err, "get contract")
		return
	}
	c.JSON(http.StatusOK, dto.ToPublicContractResponse(contract, client))
}

// sendInvoiceCopy godoc
// @Summary Email a copy of a shared invoice
// @Tags public
// @Accept  json
// @Produce  json
// @Param   request body dto.SendInvoiceCopyRequest true "Token and recipient"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} dto.ErrorResponse "Invalid email"
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Failure 502 {object} dto.ErrorResponse "Email could not be sent"
// @Router /public/send-invoice-copy [post]
func (h *publicHandler) sendInvoiceCopy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SendInvoiceCopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	if err := h.publicService.SendInvoiceCopy(c.Request.Context(), req.Token, req.Email); err != nil {
		respondError(c, logger, err, "send invoice copy")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}
