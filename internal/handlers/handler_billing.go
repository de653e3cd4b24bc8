package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/finorn_backend/internal/adapters/billing"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const maxWebhookBytes = 1 << 20

type billingHandler struct {
	billingService portssvc.BillingSvcFacade
}

func newBillingHandler(bs portssvc.BillingSvcFacade) *billingHandler {
	return &billingHandler{billingService: bs}
}

// registerBillingRoutes registers the tenant scoped subscription routes.
func registerBillingRoutes(rg *gin.RouterGroup, billingService portssvc.BillingSvcFacade) {
	h := newBillingHandler(billingService)

	b := rg.Group("/billing")
	{
		b.GET("/subscription", h.getSubscription)
		b.POST("/checkout", h.createCheckout)
	}
}

// registerBillingWebhookRoutes registers the provider callback. It is authenticated by signature only.
func registerBillingWebhookRoutes(r *gin.Engine, billingService portssvc.BillingSvcFacade) {
	h := newBillingHandler(billingService)
	r.POST("/webhooks/billing", h.receiveWebhook)
}

// getSubscription godoc
// @Summary Get the current subscription
// @Description Scopes without a subscription report the free plan.
// @Tags billing
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Success 200 {object} dto.SubscriptionResponse
// @Security BearerAuth
// @Router /billing/subscription [get]
func (h *billingHandler) getSubscription(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	sub, err := h.billingService.GetSubscription(c.Request.Context(), scope)
	if err != nil {
		respondError(c, logger, err, "get subscription")
		return
	}
	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub))
}

// createCheckout godoc
// @Summary Start a hosted checkout
// @Tags billing
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   request body dto.CheckoutRequest true "Plan"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown plan"
// @Failure 502 {object} dto.ErrorResponse "Checkout provider failure"
// @Security BearerAuth
// @Router /billing/checkout [post]
func (h *billingHandler) createCheckout(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	url, err := h.billingService.CreateCheckout(c.Request.Context(), scope, req.Plan)
	if err != nil {
		respondError(c, logger, err, "create checkout")
		return
	}
	c.JSON(http.StatusOK, dto.CheckoutResponse{URL: url})
}

// receiveWebhook godoc
// @Summary Receive a billing provider event
// @Description The raw body is verified against the signature header before it is parsed. Replayed events are acknowledged without effect.
// @Tags billing
// @Accept  json
// @Produce  json
// @Param   X-Finorn-Signature header string true "t=<unix>,v1=<hex hmac>"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} dto.ErrorResponse "Invalid signature or payload"
// @Router /webhooks/billing [post]
func (h *billingHandler) receiveWebhook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Could not read request body"})
		return
	}

	applied, err := h.billingService.HandleWebhook(c.Request.Context(), payload, c.GetHeader(billing.SignatureHeader))
	if err != nil {
		respondError(c, logger, err, "process webhook")
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true, "applied": applied})
}
