package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"

	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
)

// HostedCheckout sends customers to the provider's hosted checkout page. The session
// parameters travel in the query string, signed with the webhook secret so the provider
// can reject tampered links.
type HostedCheckout struct {
	baseURL *url.URL
	secret  []byte
}

var _ portssvc.CheckoutProvider = (*HostedCheckout)(nil)

func NewHostedCheckout(baseURL, secret string) (*HostedCheckout, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid BILLING_CHECKOUT_URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, errors.New("BILLING_CHECKOUT_URL must be an http(s) URL")
	}
	if secret == "" {
		return nil, errors.New("BILLING_WEBHOOK_SECRET is required for checkout")
	}
	return &HostedCheckout{baseURL: u, secret: []byte(secret)}, nil
}

func (c *HostedCheckout) CreateCheckoutURL(ctx context.Context, session portssvc.CheckoutSession) (string, error) {
	if session.CustomerRef == "" || session.Plan == "" {
		return "", errors.New("checkout session requires a customer reference and plan")
	}

	q := url.Values{}
	q.Set("customer_ref", session.CustomerRef)
	q.Set("user_id", session.UserID)
	if session.OrganizationID != nil {
		q.Set("organization_id", *session.OrganizationID)
	}
	q.Set("plan", session.Plan)
	q.Set("success_url", session.SuccessURL)
	q.Set("cancel_url", session.CancelURL)

	// Encode sorts by key, so the signed string is stable.
	encoded := q.Encode()
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(encoded))

	u := *c.baseURL
	u.RawQuery = encoded + "&sig=" + hex.EncodeToString(h.Sum(nil))
	return u.String(), nil
}
