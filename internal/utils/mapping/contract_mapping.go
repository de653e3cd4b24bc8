package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/models"
)

func ToModelContract(d domain.Contract) (models.Contract, error) {
	metadata, err := json.Marshal(d.Metadata)
	if err != nil {
		return models.Contract{}, fmt.Errorf("encode contract metadata: %w", err)
	}
	terms, err := json.Marshal(d.RenewalTerms)
	if err != nil {
		return models.Contract{}, fmt.Errorf("encode renewal terms: %w", err)
	}
	sent := make([]int32, len(d.NotificationsSent))
	for i, day := range d.NotificationsSent {
		sent[i] = int32(day)
	}
	return models.Contract{
		ContractID:         d.ContractID,
		UserID:             d.UserID,
		OrganizationID:     d.OrganizationID,
		ClientID:           d.ClientID,
		Title:              d.Title,
		Description:        d.Description,
		ContractType:       string(d.ContractType),
		Metadata:           metadata,
		Status:             string(d.Status),
		Value:              d.Value,
		Currency:           d.Currency,
		StartDate:          d.StartDate,
		EndDate:            d.EndDate,
		AutoRenew:          d.AutoRenew,
		RenewalTerms:       terms,
		NotificationsSent:  sent,
		ApprovedBy:         d.ApprovedBy,
		ApprovedAt:         d.ApprovedAt,
		SignedAt:           d.SignedAt,
		CancelledAt:        d.CancelledAt,
		CancellationReason: d.CancellationReason,
		PublicViewToken:    d.PublicViewToken,
		RenewedFromID:      d.RenewedFromID,
		RenewedToID:        d.RenewedToID,
		RenewalCount:       d.RenewalCount,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}, nil
}

func ToDomainContract(m models.Contract) (domain.Contract, error) {
	var metadata domain.ContractMetadata
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return domain.Contract{}, fmt.Errorf("decode contract metadata: %w", err)
		}
	}
	var terms domain.RenewalTerms
	if len(m.RenewalTerms) > 0 {
		if err := json.Unmarshal(m.RenewalTerms, &terms); err != nil {
			return domain.Contract{}, fmt.Errorf("decode renewal terms: %w", err)
		}
	}
	sent := make([]int, len(m.NotificationsSent))
	for i, day := range m.NotificationsSent {
		sent[i] = int(day)
	}
	return domain.Contract{
		ContractID:         m.ContractID,
		UserID:             m.UserID,
		OrganizationID:     m.OrganizationID,
		ClientID:           m.ClientID,
		Title:              m.Title,
		Description:        m.Description,
		ContractType:       domain.ContractType(m.ContractType),
		Metadata:           metadata,
		Status:             domain.ContractStatus(m.Status),
		Value:              m.Value,
		Currency:           m.Currency,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		AutoRenew:          m.AutoRenew,
		RenewalTerms:       terms,
		NotificationsSent:  sent,
		ApprovedBy:         m.ApprovedBy,
		ApprovedAt:         m.ApprovedAt,
		SignedAt:           m.SignedAt,
		CancelledAt:        m.CancelledAt,
		CancellationReason: m.CancellationReason,
		PublicViewToken:    m.PublicViewToken,
		RenewedFromID:      m.RenewedFromID,
		RenewedToID:        m.RenewedToID,
		RenewalCount:       m.RenewalCount,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}, nil
}

func ToDomainContractSlice(ms []models.Contract) ([]domain.Contract, error) {
	ds := make([]domain.Contract, len(ms))
	for i, m := range ms {
		d, err := ToDomainContract(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
