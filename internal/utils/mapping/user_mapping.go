package mapping

import (
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/models"
)

func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:        d.UserID,
		Name:          d.Name,
		Email:         d.Email,
		AccountType:   string(d.AccountType),
		PasswordHash:  d.PasswordHash,
		GoogleSubject: d.GoogleSubject,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:        m.UserID,
		Name:          m.Name,
		Email:         m.Email,
		AccountType:   domain.AccountType(m.AccountType),
		PasswordHash:  m.PasswordHash,
		GoogleSubject: m.GoogleSubject,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainOrganization(m models.Organization) domain.Organization {
	return domain.Organization{
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainOrganizationSlice(ms []models.Organization) []domain.Organization {
	ds := make([]domain.Organization, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOrganization(m)
	}
	return ds
}

func ToDomainOrganizationUser(m models.OrganizationUser) domain.OrganizationUser {
	return domain.OrganizationUser{
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Role:           domain.OrganizationRole(m.Role),
		JoinedAt:       m.JoinedAt,
	}
}
