package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type exportHandler struct {
	exportService portssvc.ExportSvc
}

func registerExportRoutes(rg *gin.RouterGroup, exportService portssvc.ExportSvc) {
	h := &exportHandler{exportService: exportService}

	rg.GET("/invoices/export", h.exportInvoices)
	rg.GET("/expenses/export", h.exportExpenses)
}

func (h *exportHandler) send(c *gin.Context, name string, export func(c *gin.Context, scope domain.Scope) ([]byte, error)) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	data, err := export(c, scope)
	if err != nil {
		respondError(c, logger, err, "export "+name)
		return
	}
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// exportInvoices godoc
// @Summary Export invoices as a spreadsheet
// @Tags invoices
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /invoices/export [get]
func (h *exportHandler) exportInvoices(c *gin.Context) {
	h.send(c, "invoices", func(c *gin.Context, scope domain.Scope) ([]byte, error) {
		return h.exportService.ExportInvoices(c.Request.Context(), scope)
	})
}

// exportExpenses godoc
// @Summary Export expenses as a spreadsheet
// @Tags expenses
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /expenses/export [get]
func (h *exportHandler) exportExpenses(c *gin.Context) {
	h.send(c, "expenses", func(c *gin.Context, scope domain.Scope) ([]byte, error) {
		return h.exportService.ExportExpenses(c.Request.Context(), scope)
	})
}
