package mapping

import (
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/models"
)

func ToModelClient(d domain.Client) models.Client {
	return models.Client{
		ClientID:       d.ClientID,
		UserID:         d.UserID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		Company:        d.Company,
		Address:        d.Address,
		TaxID:          d.TaxID,
		Notes:          d.Notes,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:       m.ClientID,
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		Company:        m.Company,
		Address:        m.Address,
		TaxID:          m.TaxID,
		Notes:          m.Notes,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainClientSlice(ms []models.Client) []domain.Client {
	ds := make([]domain.Client, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainClient(m)
	}
	return ds
}
