package pgsql

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	placeholderRe = regexp.MustCompile(`\$(\d+)`)
	assignmentRe  = regexp.MustCompile(`(\w+)\s*=\s*\$(\d+)`)
)

// columnValues indexes a model's fields by their db tag, including embedded structs.
func columnValues(t *testing.T, model any) map[string]any {
	t.Helper()
	out := map[string]any{}
	var walk func(v reflect.Value)
	walk = func(v reflect.Value) {
		typ := v.Type()
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if field.Anonymous {
				walk(v.Field(i))
				continue
			}
			if tag := field.Tag.Get("db"); tag != "" {
				out[tag] = v.Field(i).Interface()
			}
		}
	}
	walk(reflect.ValueOf(model))
	return out
}

// setAssignments returns column -> placeholder position for the SET clause of an UPDATE.
func setAssignments(t *testing.T, query string) map[string]int {
	t.Helper()
	upper := strings.ToUpper(query)
	start := strings.Index(upper, "SET ")
	end := strings.Index(upper, "WHERE ")
	require.True(t, start >= 0 && end > start, "query has no SET ... WHERE: %s", query)

	out := map[string]int{}
	for _, m := range assignmentRe.FindAllStringSubmatch(query[start+len("SET "):end], -1) {
		pos, err := strconv.Atoi(m[2])
		require.NoError(t, err)
		out[m[1]] = pos
	}
	return out
}

func maxPlaceholder(query string) int {
	highest := 0
	for _, m := range placeholderRe.FindAllStringSubmatch(query, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

func draftInvoiceModel() models.Invoice {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 30)
	orgID := "org-1"
	return models.Invoice{
		InvoiceID:          "inv-1",
		InvoiceNumber:      "INV-NEW",
		UserID:             "user-1",
		OrganizationID:     &orgID,
		ClientID:           "client-2",
		Status:             string(domain.InvoiceDraft),
		IssueDate:          now,
		DueDate:            &due,
		Currency:           "EUR",
		SubTotal:           decimal.RequireFromString("100"),
		TaxRate:            decimal.RequireFromString("10"),
		TaxAmount:          decimal.RequireFromString("10"),
		TotalAmount:        decimal.RequireFromString("110"),
		Notes:              "net 30",
		PaymentInformation: []byte(`{"iban":"DE00"}`),
		AuditFields: models.AuditFields{
			CreatedAt:     now.Add(-time.Hour),
			CreatedBy:     "user-1",
			LastUpdatedAt: now,
			LastUpdatedBy: "user-9",
		},
	}
}

func TestDraftInvoiceUpdate_ColumnsMatchArgs(t *testing.T) {
	m := draftInvoiceModel()
	scope := domain.OrganizationScope("user-9", "org-1", domain.RoleMember)

	query, args := draftInvoiceUpdate(m, scope)

	require.Equal(t, len(args), maxPlaceholder(query), "every placeholder needs exactly one argument")

	values := columnValues(t, m)
	assignments := setAssignments(t, query)
	for column, pos := range assignments {
		want, ok := values[column]
		require.True(t, ok, "column %s is not a models.Invoice field", column)
		assert.Equal(t, want, args[pos-1], "column %s is bound to the wrong argument", column)
	}

	editable := []string{
		"invoice_number", "client_id", "issue_date", "due_date", "currency",
		"sub_total", "tax_rate", "tax_amount", "total_amount", "notes",
		"payment_information", "last_updated_at", "last_updated_by",
	}
	for _, column := range editable {
		assert.Contains(t, assignments, column, "draft update must write %s", column)
	}
	for _, column := range []string{"status", "public_view_token", "user_id", "organization_id", "created_at", "created_by"} {
		assert.NotContains(t, assignments, column, "draft update must not write %s", column)
	}
}

func TestDraftInvoiceUpdate_ScopedAndGuarded(t *testing.T) {
	m := draftInvoiceModel()

	t.Run("organization", func(t *testing.T) {
		query, args := draftInvoiceUpdate(m, domain.OrganizationScope("user-9", "org-1", domain.RoleMember))
		assert.Contains(t, query, "i.invoice_id = $14")
		assert.Contains(t, query, "i.organization_id = $15")
		assert.Contains(t, query, "i.status = 'DRAFT'")
		assert.Equal(t, "inv-1", args[13])
		assert.Equal(t, "org-1", args[14])
	})

	t.Run("individual", func(t *testing.T) {
		query, args := draftInvoiceUpdate(m, domain.IndividualScope("user-1"))
		assert.Contains(t, query, "(i.organization_id IS NULL AND i.user_id = $15)")
		assert.Equal(t, "user-1", args[14])
	})
}
