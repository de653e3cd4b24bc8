package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

var paymentInfoValidate = validator.New()

// PaymentInformation tells the client how to pay. It is stored as a validated JSON column.
type PaymentInformation struct {
	Method        string `json:"method" validate:"omitempty,oneof=bank_transfer card paypal cash check other"`
	BankName      string `json:"bankName,omitempty" validate:"max=120"`
	AccountName   string `json:"accountName,omitempty" validate:"max=120"`
	AccountNumber string `json:"accountNumber,omitempty" validate:"max=64"`
	RoutingNumber string `json:"routingNumber,omitempty" validate:"max=64"`
	IBAN          string `json:"iban,omitempty" validate:"omitempty,min=15,max=34,alphanum"`
	SWIFT         string `json:"swift,omitempty" validate:"omitempty,min=8,max=11,alphanum"`
	PaymentLink   string `json:"paymentLink,omitempty" validate:"omitempty,url"`
	Terms         string `json:"terms,omitempty" validate:"max=500"`
	Notes         string `json:"notes,omitempty" validate:"max=1000"`
}

// Validate checks the structure against its schema tags.
func (p *PaymentInformation) Validate() error {
	if err := paymentInfoValidate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return apperrors.NewValidationErrorWithDetails("Invalid payment information", map[string]any{"fields": fields})
		}
		return apperrors.NewValidationFailedError("Invalid payment information")
	}
	return nil
}

// EncodePaymentInformation validates and serializes p for storage. A nil value encodes to nil.
func EncodePaymentInformation(p *PaymentInformation) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(p)
}

// DecodePaymentInformation parses a stored column. Empty input decodes to nil.
func DecodePaymentInformation(raw []byte) (*PaymentInformation, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var p PaymentInformation
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode payment information: %w", err)
	}
	return &p, nil
}
