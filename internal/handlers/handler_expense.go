package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es}
}

// registerExpenseRoutes registers expense routes on a tenant scoped group.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:id", h.getExpense)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)
		expenses.POST("/:id/approval", h.decideExpense)
		expenses.POST("/:id/receipt", h.uploadReceipt)
		expenses.GET("/:id/receipt", h.getReceiptLink)
	}
}

// createExpense godoc
// @Summary Record an expense
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), scope, req)
	if err != nil {
		respondError(c, logger, err, "create expense")
		return
	}
	logger.Info("Expense created", slog.String("expense_id", expense.ExpenseID))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// listExpenses godoc
// @Summary List expenses
// @Tags expenses
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   category query string false "Category filter"
// @Param   approvalStatus query string false "pending, approved or rejected"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListExpensesResponse
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), scope, params)
	if err != nil {
		respondError(c, logger, err, "list expenses")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExpensesResponse(expenses))
}

// getExpense godoc
// @Summary Get an expense
// @Tags expenses
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} dto.ErrorResponse "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	expense, err := h.expenseService.GetExpense(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "get expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// updateExpense godoc
// @Summary Update an expense
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Expense ID"
// @Param   expense body dto.UpdateExpenseRequest true "Fields to change"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} dto.ErrorResponse "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), scope, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "update expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// deleteExpense godoc
// @Summary Delete an expense
// @Tags expenses
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Expense ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	expenseID := c.Param("id")
	if err := h.expenseService.DeleteExpense(c.Request.Context(), scope, expenseID); err != nil {
		respondError(c, logger, err, "delete expense")
		return
	}
	logger.Info("Expense deleted", slog.String("expense_id", expenseID))
	c.Status(http.StatusNoContent)
}

// decideExpense godoc
// @Summary Approve or reject an expense
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Expense ID"
// @Param   decision body dto.ExpenseApprovalRequest true "Decision"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 403 {object} dto.ErrorResponse "Caller may not approve expenses"
// @Failure 409 {object} dto.ErrorResponse "Expense already decided"
// @Security BearerAuth
// @Router /expenses/{id}/approval [post]
func (h *expenseHandler) decideExpense(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.ExpenseApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	expense, err := h.expenseService.DecideExpense(c.Request.Context(), scope, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "decide expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// uploadReceipt godoc
// @Summary Upload an expense receipt
// @Tags expenses
// @Accept  multipart/form-data
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Expense ID"
// @Param   file formData file true "Receipt image or PDF"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Security BearerAuth
// @Router /expenses/{id}/receipt [post]
func (h *expenseHandler) uploadReceipt(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	file, contentType, ok := openUpload(c, logger)
	if !ok {
		return
	}
	defer file.Close()

	expense, err := h.expenseService.UploadReceipt(c.Request.Context(), scope, c.Param("id"), file, contentType)
	if err != nil {
		respondError(c, logger, err, "upload receipt")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// getReceiptLink godoc
// @Summary Get a link to the expense receipt
// @Tags expenses
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Expense ID"
// @Param   action query string false "view or download" default(view)
// @Success 200 {object} dto.FileLinkResponse
// @Failure 404 {object} dto.ErrorResponse "No receipt stored"
// @Security BearerAuth
// @Router /expenses/{id}/receipt [get]
func (h *expenseHandler) getReceiptLink(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	link, err := h.expenseService.GetReceiptLink(c.Request.Context(), scope, c.Param("id"), c.Query("action"))
	if err != nil {
		respondError(c, logger, err, "get receipt")
		return
	}
	c.JSON(http.StatusOK, link)
}
