package billing

import (
	"context"
	"net/url"
	"testing"
	"time"

	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type WebhookVerifierTestSuite struct {
	suite.Suite
	verifier *HMACVerifier
	now      time.Time
	payload  []byte
}

func (s *WebhookVerifierTestSuite) SetupTest() {
	s.verifier = NewHMACVerifier("whsec_test", 0)
	s.now = time.Unix(1_700_000_000, 0)
	s.payload = []byte(`{"id":"evt_1","type":"invoice.paid"}`)
}

func TestWebhookVerifierTestSuite(t *testing.T) {
	suite.Run(t, new(WebhookVerifierTestSuite))
}

// --- Test Cases ---

func (s *WebhookVerifierTestSuite) TestVerify_ValidSignature() {
	header := s.verifier.Sign(s.payload, s.now)
	s.NoError(s.verifier.Verify(s.payload, header, s.now.Add(time.Minute)))
}

func (s *WebhookVerifierTestSuite) TestVerify_AcceptsAnyMatchingV1() {
	valid := s.verifier.Sign(s.payload, s.now)
	header := valid + ",v1=deadbeef"
	s.NoError(s.verifier.Verify(s.payload, header, s.now))
}

func (s *WebhookVerifierTestSuite) TestVerify_TamperedPayload() {
	header := s.verifier.Sign(s.payload, s.now)
	err := s.verifier.Verify([]byte(`{"id":"evt_1","type":"subscription.updated"}`), header, s.now)
	s.ErrorIs(err, ErrSignatureInvalid)
}

func (s *WebhookVerifierTestSuite) TestVerify_WrongSecret() {
	header := NewHMACVerifier("other", 0).Sign(s.payload, s.now)
	s.ErrorIs(s.verifier.Verify(s.payload, header, s.now), ErrSignatureInvalid)
}

func (s *WebhookVerifierTestSuite) TestVerify_StaleTimestamp() {
	header := s.verifier.Sign(s.payload, s.now)
	s.ErrorIs(s.verifier.Verify(s.payload, header, s.now.Add(6*time.Minute)), ErrStaleTimestamp)
	s.ErrorIs(s.verifier.Verify(s.payload, header, s.now.Add(-6*time.Minute)), ErrStaleTimestamp)
}

func (s *WebhookVerifierTestSuite) TestVerify_MalformedHeaders() {
	s.ErrorIs(s.verifier.Verify(s.payload, "", s.now), ErrMissingSignature)
	s.ErrorIs(s.verifier.Verify(s.payload, "garbage", s.now), ErrMalformedHeader)
	s.ErrorIs(s.verifier.Verify(s.payload, "t=abc,v1=00", s.now), ErrMalformedHeader)
	s.ErrorIs(s.verifier.Verify(s.payload, "t=1700000000", s.now), ErrMalformedHeader)
	s.ErrorIs(s.verifier.Verify(s.payload, "t=1700000000,v1=zz", s.now), ErrMalformedHeader)
}

func TestHostedCheckout_CreateCheckoutURL(t *testing.T) {
	c, err := NewHostedCheckout("https://pay.example.com/checkout", "whsec_test")
	require.NoError(t, err)

	orgID := "org-1"
	raw, err := c.CreateCheckoutURL(context.Background(), portssvc.CheckoutSession{
		CustomerRef:    "org-org-1",
		UserID:         "user-1",
		OrganizationID: &orgID,
		Plan:           "pro",
		SuccessURL:     "https://app.finorn.test/billing?status=success",
		CancelURL:      "https://app.finorn.test/billing?status=cancelled",
	})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "pay.example.com", u.Host)
	assert.Equal(t, "/checkout", u.Path)
	q := u.Query()
	assert.Equal(t, "pro", q.Get("plan"))
	assert.Equal(t, "org-1", q.Get("organization_id"))
	assert.Equal(t, "https://app.finorn.test/billing?status=success", q.Get("success_url"))
	assert.Len(t, q.Get("sig"), 64)
}

func TestHostedCheckout_Validation(t *testing.T) {
	_, err := NewHostedCheckout("ftp://pay.example.com", "secret")
	assert.Error(t, err)

	_, err = NewHostedCheckout("https://pay.example.com", "")
	assert.Error(t, err)

	c, err := NewHostedCheckout("https://pay.example.com", "secret")
	require.NoError(t, err)
	_, err = c.CreateCheckoutURL(context.Background(), portssvc.CheckoutSession{Plan: "pro"})
	assert.Error(t, err)
}
