package domain

import (
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	ContractDraft            ContractStatus = "DRAFT"
	ContractPendingSignature ContractStatus = "PENDING_SIGNATURE"
	ContractSigned           ContractStatus = "SIGNED"
	ContractActive           ContractStatus = "ACTIVE"
	ContractExpired          ContractStatus = "EXPIRED"
	ContractCancelled        ContractStatus = "CANCELLED"
)

// EXPIRED -> ACTIVE is only reachable through renewal, see ValidateManualContractTransition.
var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractDraft:            {ContractPendingSignature, ContractActive, ContractCancelled},
	ContractPendingSignature: {ContractSigned, ContractCancelled},
	ContractSigned:           {ContractActive, ContractCancelled},
	ContractActive:           {ContractExpired, ContractCancelled},
	ContractExpired:          {ContractActive},
	ContractCancelled:        {},
}

// AllContractStatuses lists every contract status.
func AllContractStatuses() []ContractStatus {
	return []ContractStatus{
		ContractDraft, ContractPendingSignature, ContractSigned,
		ContractActive, ContractExpired, ContractCancelled,
	}
}

// IsValid reports whether s is a known contract status.
func (s ContractStatus) IsValid() bool {
	_, ok := contractTransitions[s]
	return ok
}

// CanTransitionContract reports whether from -> to is in the transition table.
func CanTransitionContract(from, to ContractStatus) bool {
	return slices.Contains(contractTransitions[from], to)
}

// ValidateContractTransition returns an InvalidStatusTransition error for pairs outside the table.
func ValidateContractTransition(from, to ContractStatus) error {
	if !CanTransitionContract(from, to) {
		return apperrors.NewInvalidTransitionError("contract", string(from), string(to))
	}
	return nil
}

// ValidateManualContractTransition is ValidateContractTransition for direct status edits,
// which may not reactivate an expired contract.
func ValidateManualContractTransition(from, to ContractStatus) error {
	if from == ContractExpired && to == ContractActive {
		err := apperrors.NewInvalidTransitionError("contract", string(from), string(to))
		err.Message = "Expired contracts can only be reactivated by renewal"
		return err
	}
	return ValidateContractTransition(from, to)
}

const (
	DefaultRenewalDurationDays = 365
	MaxRenewalDurationDays     = 3650
	ExpiryLookaheadDays        = 30
)

// DefaultNotificationDays are the days-before-expiry on which reminders go out.
func DefaultNotificationDays() []int {
	return []int{30, 15, 7}
}

// RenewalTerms controls how a contract renews and when expiry reminders are sent.
type RenewalTerms struct {
	Duration         int             `json:"duration"`
	PriceAdjustment  decimal.Decimal `json:"priceAdjustment"`
	NotificationDays []int           `json:"notificationDays"`
}

// WithDefaults fills unset fields.
func (t RenewalTerms) WithDefaults() RenewalTerms {
	if t.Duration <= 0 {
		t.Duration = DefaultRenewalDurationDays
	}
	if len(t.NotificationDays) == 0 {
		t.NotificationDays = DefaultNotificationDays()
	}
	return t
}

// Validate checks ranges and normalizes NotificationDays to a descending set.
func (t *RenewalTerms) Validate() error {
	if t.Duration <= 0 || t.Duration > MaxRenewalDurationDays {
		return apperrors.NewValidationFailedError("Renewal duration must be between 1 and 3650 days")
	}
	if t.PriceAdjustment.LessThan(decimal.NewFromInt(-100)) {
		return apperrors.NewValidationFailedError("Price adjustment cannot be below -100 percent")
	}
	seen := make(map[int]struct{}, len(t.NotificationDays))
	days := make([]int, 0, len(t.NotificationDays))
	for _, d := range t.NotificationDays {
		if d <= 0 || d > ExpiryLookaheadDays {
			return apperrors.NewValidationFailedError("Notification days must be between 1 and 30")
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(days)))
	t.NotificationDays = days
	return nil
}

// ContractMetadata holds display-only data that is not queried.
type ContractMetadata struct {
	OriginalContractType string            `json:"originalContractType,omitempty"`
	Custom               map[string]string `json:"custom,omitempty"`
}

// Contract is an agreement with a client that may be signed, activated, renewed and expired.
type Contract struct {
	ContractID         string           `json:"contractID"`
	UserID             string           `json:"userId"`
	OrganizationID     *string          `json:"organizationId,omitempty"`
	ClientID           *string          `json:"clientId,omitempty"`
	Title              string           `json:"title"`
	Description        string           `json:"description,omitempty"`
	ContractType       ContractType     `json:"contractType"`
	Metadata           ContractMetadata `json:"metadata"`
	Status             ContractStatus   `json:"status"`
	Value              decimal.Decimal  `json:"value"`
	Currency           string           `json:"currency"`
	StartDate          time.Time        `json:"startDate"`
	EndDate            *time.Time       `json:"endDate,omitempty"`
	AutoRenew          bool             `json:"autoRenew"`
	RenewalTerms       RenewalTerms     `json:"renewalTerms"`
	NotificationsSent  []int            `json:"notificationsSent"`
	ApprovedBy         *string          `json:"approvedBy,omitempty"`
	ApprovedAt         *time.Time       `json:"approvedAt,omitempty"`
	SignedAt           *time.Time       `json:"signedAt,omitempty"`
	CancelledAt        *time.Time       `json:"cancelledAt,omitempty"`
	CancellationReason *string          `json:"cancellationReason,omitempty"`
	PublicViewToken    *string          `json:"publicViewToken,omitempty"`
	RenewedFromID      *string          `json:"renewedFromId,omitempty"`
	RenewedToID        *string          `json:"renewedToId,omitempty"`
	RenewalCount       int              `json:"renewalCount"`
	AuditFields
}

// DisplayType is the label the user originally asked for, falling back to the canonical type.
func (c *Contract) DisplayType() string {
	if c.Metadata.OriginalContractType != "" {
		return c.Metadata.OriginalContractType
	}
	return string(c.ContractType)
}

// SetType normalizes input and keeps the original label for display.
func (c *Contract) SetType(input string) error {
	ct, err := NormalizeContractType(input)
	if err != nil {
		return err
	}
	c.ContractType = ct
	c.Metadata.OriginalContractType = input
	return nil
}

// HasSentNotification reports whether the reminder for daysToExpiry was already recorded.
func (c *Contract) HasSentNotification(daysToExpiry int) bool {
	return slices.Contains(c.NotificationsSent, daysToExpiry)
}

// IsNotificationDay reports whether daysToExpiry is one of the configured reminder days.
func (c *Contract) IsNotificationDay(daysToExpiry int) bool {
	return slices.Contains(c.RenewalTerms.WithDefaults().NotificationDays, daysToExpiry)
}

// CanRenew checks that the contract is renewable and has not been renewed before.
func (c *Contract) CanRenew() error {
	if c.RenewedToID != nil {
		return apperrors.NewConflictError("Contract has already been renewed")
	}
	if c.Status != ContractActive && c.Status != ContractExpired {
		return apperrors.NewInvalidTransitionError("contract", string(c.Status), string(ContractExpired))
	}
	return nil
}

// Renew builds the successor contract. The successor starts where this one ends (or now
// when open-ended), runs for the renewal duration, and has its value adjusted by
// PriceAdjustment percent. Approval, signature and reminder bookkeeping are reset.
func (c *Contract) Renew(newID, actorID string, now time.Time) (Contract, error) {
	if err := c.CanRenew(); err != nil {
		return Contract{}, err
	}
	terms := c.RenewalTerms.WithDefaults()
	start := now
	if c.EndDate != nil {
		start = *c.EndDate
	}
	end := start.AddDate(0, 0, terms.Duration)
	factor := decimal.NewFromInt(1).Add(terms.PriceAdjustment.Div(decimal.NewFromInt(100)))

	next := *c
	next.ContractID = newID
	next.Status = ContractActive
	next.StartDate = start
	next.EndDate = &end
	next.Value = c.Value.Mul(factor).Round(2)
	next.RenewalTerms = terms
	next.RenewalTerms.NotificationDays = slices.Clone(terms.NotificationDays)
	next.Metadata.Custom = maps.Clone(c.Metadata.Custom)
	next.NotificationsSent = []int{}
	next.ApprovedBy = nil
	next.ApprovedAt = nil
	next.SignedAt = nil
	next.CancelledAt = nil
	next.CancellationReason = nil
	next.PublicViewToken = nil
	prevID := c.ContractID
	next.RenewedFromID = &prevID
	next.RenewedToID = nil
	next.RenewalCount = c.RenewalCount + 1
	next.AuditFields = NewAuditFields(actorID, now)
	return next, nil
}

// DaysUntil counts whole calendar days (UTC) from now until end. Past dates are negative.
func DaysUntil(end, now time.Time) int {
	e := end.UTC()
	n := now.UTC()
	eDay := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	nDay := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	return int(eDay.Sub(nDay).Hours() / 24)
}
