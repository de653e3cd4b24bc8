package mapping

import (
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/models"
)

// ToModelInvoice converts the invoice row. The payment information blob is validated on the way in.
func ToModelInvoice(d domain.Invoice) (models.Invoice, error) {
	paymentInfo, err := domain.EncodePaymentInformation(d.PaymentInformation)
	if err != nil {
		return models.Invoice{}, err
	}
	return models.Invoice{
		InvoiceID:          d.InvoiceID,
		InvoiceNumber:      d.InvoiceNumber,
		UserID:             d.UserID,
		OrganizationID:     d.OrganizationID,
		ClientID:           d.ClientID,
		Status:             string(d.Status),
		IssueDate:          d.IssueDate,
		DueDate:            d.DueDate,
		Currency:           d.Currency,
		SubTotal:           d.SubTotal,
		TaxRate:            d.TaxRate,
		TaxAmount:          d.TaxAmount,
		TotalAmount:        d.TotalAmount,
		AmountPaid:         d.AmountPaid,
		Notes:              d.Notes,
		PublicViewToken:    d.PublicViewToken,
		PDFKey:             d.PDFKey,
		PaymentInformation: paymentInfo,
		EmailSentAt:        d.EmailSentAt,
		EmailSentTo:        d.EmailSentTo,
		PaidAt:             d.PaidAt,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}, nil
}

func ToDomainInvoice(m models.Invoice) (domain.Invoice, error) {
	paymentInfo, err := domain.DecodePaymentInformation(m.PaymentInformation)
	if err != nil {
		return domain.Invoice{}, err
	}
	return domain.Invoice{
		InvoiceID:          m.InvoiceID,
		InvoiceNumber:      m.InvoiceNumber,
		UserID:             m.UserID,
		OrganizationID:     m.OrganizationID,
		ClientID:           m.ClientID,
		Status:             domain.InvoiceStatus(m.Status),
		IssueDate:          m.IssueDate,
		DueDate:            m.DueDate,
		Currency:           m.Currency,
		SubTotal:           m.SubTotal,
		TaxRate:            m.TaxRate,
		TaxAmount:          m.TaxAmount,
		TotalAmount:        m.TotalAmount,
		AmountPaid:         m.AmountPaid,
		Notes:              m.Notes,
		PublicViewToken:    m.PublicViewToken,
		PDFKey:             m.PDFKey,
		PaymentInformation: paymentInfo,
		EmailSentAt:        m.EmailSentAt,
		EmailSentTo:        m.EmailSentTo,
		PaidAt:             m.PaidAt,
		LineItems:          []domain.LineItem{},
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}, nil
}

func ToModelLineItem(d domain.LineItem) models.LineItem {
	return models.LineItem{
		LineItemID:  d.LineItemID,
		InvoiceID:   d.InvoiceID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		Amount:      d.Amount,
		Position:    d.Position,
	}
}

func ToDomainLineItem(m models.LineItem) domain.LineItem {
	return domain.LineItem{
		LineItemID:  m.LineItemID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Amount:      m.Amount,
		Position:    m.Position,
	}
}

func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:      m.PaymentID,
		InvoiceID:      m.InvoiceID,
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Amount:         m.Amount,
		Method:         m.Method,
		Reference:      m.Reference,
		PaidAt:         m.PaidAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	ds := make([]domain.Payment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}
