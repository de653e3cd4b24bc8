package mapping

import (
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/models"
)

func ToModelExpense(d domain.Expense) models.Expense {
	var status *string
	if d.ApprovalStatus != nil {
		s := string(*d.ApprovalStatus)
		status = &s
	}
	return models.Expense{
		ExpenseID:      d.ExpenseID,
		UserID:         d.UserID,
		OrganizationID: d.OrganizationID,
		Category:       d.Category,
		Description:    d.Description,
		Vendor:         d.Vendor,
		Amount:         d.Amount,
		Currency:       d.Currency,
		ExpenseDate:    d.ExpenseDate,
		ReceiptKey:     d.ReceiptKey,
		ApprovalStatus: status,
		ApprovedBy:     d.ApprovedBy,
		ApprovedAt:     d.ApprovedAt,
		ApprovalNote:   d.ApprovalNote,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainExpense(m models.Expense) domain.Expense {
	var status *domain.ExpenseApprovalStatus
	if m.ApprovalStatus != nil {
		s := domain.ExpenseApprovalStatus(*m.ApprovalStatus)
		status = &s
	}
	return domain.Expense{
		ExpenseID:      m.ExpenseID,
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Category:       m.Category,
		Description:    m.Description,
		Vendor:         m.Vendor,
		Amount:         m.Amount,
		Currency:       m.Currency,
		ExpenseDate:    m.ExpenseDate,
		ReceiptKey:     m.ReceiptKey,
		ApprovalStatus: status,
		ApprovedBy:     m.ApprovedBy,
		ApprovedAt:     m.ApprovedAt,
		ApprovalNote:   m.ApprovalNote,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpense(m)
	}
	return ds
}
