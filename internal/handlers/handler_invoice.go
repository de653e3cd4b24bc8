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

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	links          *links.Builder
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade, linkBuilder *links.Builder) *invoiceHandler {
	return &invoiceHandler{invoiceService: is, links: linkBuilder}
}

// registerInvoiceRoutes registers invoice routes on a tenant scoped group.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, linkBuilder *links.Builder) {
	h := newInvoiceHandler(invoiceService, linkBuilder)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.PUT("/:id", h.updateInvoice)
		invoices.DELETE("/:id", h.deleteInvoice)
		invoices.POST("/:id/send", h.sendInvoice)
		invoices.POST("/:id/cancel", h.cancelInvoice)
		invoices.POST("/:id/payments", h.recordPayment)
		invoices.GET("/:id/payments", h.listPayments)
		invoices.POST("/:id/pdf", h.uploadPDF)
		invoices.GET("/:id/pdf", h.getPDFLink)
	}
}

// createInvoice godoc
// @Summary Create an invoice
// @Description Creates a draft invoice. The client may be referenced by id or given inline, in which case
// @Description it is found or created in the same transaction.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   invoice body dto.InvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate invoice number"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	in, err := req.Resolve()
	if err != nil {
		respondError(c, logger, err, "create invoice")
		return
	}

	inv, err := h.invoiceService.CreateInvoice(c.Request.Context(), scope, in)
	if err != nil {
		respondError(c, logger, err, "create invoice")
		return
	}
	logger.Info("Invoice created", slog.String("invoice_id", inv.InvoiceID))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(inv, h.links.PublicInvoiceURL))
}

// listInvoices godoc
// @Summary List invoices
// @Description Newest first, cursor paginated.
// @Tags invoices
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   status query string false "Status filter"
// @Param   clientId query string false "Client filter"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	invoices, next, err := h.invoiceService.ListInvoices(c.Request.Context(), scope, params)
	if err != nil {
		respondError(c, logger, err, "list invoices")
		return
	}
	resp := dto.ListInvoicesResponse{Invoices: make([]dto.InvoiceResponse, len(invoices)), NextToken: next}
	for i := range invoices {
		resp.Invoices[i] = dto.ToInvoiceResponse(&invoices[i], h.links.PublicInvoiceURL)
	}
	c.JSON(http.StatusOK, resp)
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.GetInvoice(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "get invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv, h.links.PublicInvoiceURL))
}

// updateInvoice godoc
// @Summary Update a draft invoice
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Invoice ID"
// @Param   invoice body dto.InvoiceRequest true "Fields to change"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Failure 409 {object} dto.ErrorResponse "Invoice is no longer a draft"
// @Security BearerAuth
// @Router /invoices/{id} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	in, err := req.Resolve()
	if err != nil {
		respondError(c, logger, err, "update invoice")
		return
	}

	inv, err := h.invoiceService.UpdateInvoice(c.Request.Context(), scope, c.Param("id"), in)
	if err != nil {
		respondError(c, logger, err, "update invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv, h.links.PublicInvoiceURL))
}

// deleteInvoice godoc
// @Summary Delete an invoice
// @Description Only draft and cancelled invoices can be deleted.
// @Tags invoices
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Invoice ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Failure 409 {object} dto.ErrorResponse "Invoice cannot be deleted in its status"
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	invoiceID := c.Param("id")
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), scope, invoiceID); err != nil {
		respondError(c, logger, err, "delete invoice")
		return
	}
	logger.Info("Invoice deleted", slog.String("invoice_id", invoiceID))
	c.Status(http.StatusNoContent)
}

// sendInvoice godoc
// @Summary Send an invoice
// @Description Issues the public link if needed, marks the invoice SENT and emails the recipient.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Invoice ID"
// @Param   request body dto.SendInvoiceRequest false "Recipient override"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /invoices/{id}/send [post]
func (h *invoiceHandler) sendInvoice(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.SendInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, logger, err)
			return
		}
	}

	inv, err := h.invoiceService.SendInvoice(c.Request.Context(), scope, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "send invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv, h.links.PublicInvoiceURL))
}

// cancelInvoice godoc
// @Summary Cancel an invoice
// @Tags invoices
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /invoices/{id}/cancel [post]
func (h *invoiceHandler) cancelInvoice(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.CancelInvoice(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "cancel invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv, h.links.PublicInvoiceURL))
}

// recordPayment godoc
// @Summary Record a payment
// @Description The invoice becomes PAID once the amount paid reaches the total.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Invoice ID"
// @Param   payment body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount"
// @Failure 409 {object} dto.ErrorResponse "Invoice is not payable"
// @Security BearerAuth
// @Router /invoices/{id}/payments [post]
func (h *invoiceHandler) recordPayment(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	_, payment, err := h.invoiceService.RecordPayment(c.Request.Context(), scope, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "record payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPaymentResponses([]domain.Payment{*payment})[0])
}

// listPayments godoc
// @Summary List payments of an invoice
// @Tags invoices
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Invoice ID"
// @Success 200 {array} dto.PaymentResponse
// @Security BearerAuth
// @Router /invoices/{id}/payments [get]
func (h *invoiceHandler) listPayments(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	payments, err := h.invoiceService.ListPayments(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponses(payments))
}

// uploadPDF godoc
// @Summary Upload the invoice PDF
// @Tags invoices
// @Accept  multipart/form-data
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Invoice ID"
// @Param   file formData file true "PDF document"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Failure 502 {object} dto.ErrorResponse "Storage failure"
// @Security BearerAuth
// @Router /invoices/{id}/pdf [post]
func (h *invoiceHandler) uploadPDF(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	file, contentType, ok := openUpload(c, logger)
	if !ok {
		return
	}
	defer file.Close()

	inv, err := h.invoiceService.UploadInvoicePDF(c.Request.Context(), scope, c.Param("id"), file, contentType)
	if err != nil {
		respondError(c, logger, err, "upload invoice PDF")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv, h.links.PublicInvoiceURL))
}

// getPDFLink godoc
// @Summary Get a link to the invoice PDF
// @Description action=view returns an inline streaming URL; action=download an attachment URL.
// @Tags invoices
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Invoice ID"
// @Param   action query string false "view or download" default(view)
// @Success 200 {object} dto.FileLinkResponse
// @Failure 404 {object} dto.ErrorResponse "No PDF stored"
// @Security BearerAuth
// @Router /invoices/{id}/pdf [get]
func (h *invoiceHandler) getPDFLink(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	link, err := h.invoiceService.GetInvoicePDFLink(c.Request.Context(), scope, c.Param("id"), c.Query("action"))
	if err != nil {
		respondError(c, logger, err, "get invoice PDF")
		return
	}
	c.JSON(http.StatusOK, link)
}
