package domain_test

import (
	"testing"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeContractType(t *testing.T) {
	tests := []struct {
		input string
		want  domain.ContractType
	}{
		{"independent_contractor", domain.ContractTypeFreelance},
		{"Independent Contractor", domain.ContractTypeFreelance},
		{"independent-contractor", domain.ContractTypeFreelance},
		{"white_label", domain.ContractTypeLicense},
		{"MSA", domain.ContractTypeService},
		{"non-disclosure agreement", domain.ContractTypeNDA},
		{"saas", domain.ContractTypeSubscription},
		{"other", domain.ContractTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := domain.NormalizeContractType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeContractType_Unsupported(t *testing.T) {
	_, err := domain.NormalizeContractType("time_travel")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedContractType)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	details, ok := appErr.Details.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details["validTypes"], "independent_contractor")
}

func TestContractTypeCatalogSize(t *testing.T) {
	assert.Len(t, domain.CanonicalContractTypes(), 20)
	assert.GreaterOrEqual(t, len(domain.ContractTypeKeys()), 70)
	for _, ct := range domain.CanonicalContractTypes() {
		got, err := domain.NormalizeContractType(string(ct))
		require.NoError(t, err)
		assert.Equal(t, ct, got, "canonical types map to themselves")
	}
}

func TestContractSetType_KeepsOriginalLabel(t *testing.T) {
	var c domain.Contract
	require.NoError(t, c.SetType("independent_contractor"))
	assert.Equal(t, domain.ContractTypeFreelance, c.ContractType)
	assert.Equal(t, "independent_contractor", c.Metadata.OriginalContractType)
	assert.Equal(t, "independent_contractor", c.DisplayType())

	c.Metadata.OriginalContractType = ""
	assert.Equal(t, "freelance", c.DisplayType())
}
