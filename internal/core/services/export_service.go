package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/xuri/excelize/v2"
)

const (
	exportPageSize = 100
	dateLayout     = "2006-01-02"
)

// exportService implements the ExportSvc interface with excelize workbooks.
type exportService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceReader
	expenseRepo portsrepo.ExpenseRepositoryFacade
}

func NewExportService(base BaseService, invoiceRepo portsrepo.InvoiceReader, expenseRepo portsrepo.ExpenseRepositoryFacade) portssvc.ExportSvc {
	return &exportService{
		BaseService: base,
		invoiceRepo: invoiceRepo,
		expenseRepo: expenseRepo,
	}
}

var _ portssvc.ExportSvc = (*exportService)(nil)

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// writeSheet renders header and rows into a single-sheet workbook.
func writeSheet(sheet string, header []any, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *exportService) ExportInvoices(ctx context.Context, scope domain.Scope) ([]byte, error) {
	var rows [][]any
	filter := portsrepo.InvoiceFilter{Limit: exportPageSize}
	for {
		page, next, err := s.invoiceRepo.ListInvoices(ctx, scope, filter)
		if err != nil {
			s.LogError(ctx, err, "Failed to list invoices for export")
			return nil, err
		}
		for i := range page {
			inv := &page[i]
			rows = append(rows, []any{
				inv.InvoiceNumber,
				string(inv.Status),
				inv.IssueDate.Format(dateLayout),
				formatDate(inv.DueDate),
				inv.Currency,
				inv.SubTotal.StringFixed(2),
				inv.TaxAmount.StringFixed(2),
				inv.TotalAmount.StringFixed(2),
				inv.AmountPaid.StringFixed(2),
			})
		}
		if next == nil {
			break
		}
		filter.NextToken = next
	}

	header := []any{"Invoice Number", "Status", "Issue Date", "Due Date", "Currency", "Subtotal", "Tax", "Total", "Paid"}
	out, err := writeSheet("Invoices", header, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice export: %w", err)
	}
	s.Track(scope, "invoices_exported", map[string]any{"rows": len(rows)})
	return out, nil
}

func (s *exportService) ExportExpenses(ctx context.Context, scope domain.Scope) ([]byte, error) {
	var rows [][]any
	filter := portsrepo.ExpenseFilter{Limit: exportPageSize}
	for {
		page, err := s.expenseRepo.ListExpenses(ctx, scope, filter)
		if err != nil {
			s.LogError(ctx, err, "Failed to list expenses for export")
			return nil, err
		}
		for i := range page {
			e := &page[i]
			approval := ""
			if e.ApprovalStatus != nil {
				approval = string(*e.ApprovalStatus)
			}
			rows = append(rows, []any{
				e.ExpenseDate.Format(dateLayout),
				e.Category,
				e.Vendor,
				e.Description,
				e.Currency,
				e.Amount.StringFixed(2),
				approval,
			})
		}
		if len(page) < filter.Limit {
			break
		}
		filter.Offset += len(page)
	}

	header := []any{"Date", "Category", "Vendor", "Description", "Currency", "Amount", "Approval"}
	out, err := writeSheet("Expenses", header, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to render expense export: %w", err)
	}
	s.Track(scope, "expenses_exported", map[string]any{"rows": len(rows)})
	return out, nil
}
