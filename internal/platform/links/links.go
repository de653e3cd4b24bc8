// Package links builds every outbound URL from the configured base URLs.
package links

import (
	"net/url"
	"strings"
)

// Builder formats links against CLIENT_ORIGIN (the web app) and APP_URL (this API).
type Builder struct {
	clientOrigin string
	appURL       string
}

func NewBuilder(clientOrigin, appURL string) *Builder {
	return &Builder{
		clientOrigin: strings.TrimRight(clientOrigin, "/"),
		appURL:       strings.TrimRight(appURL, "/"),
	}
}

func join(base string, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return base + "/" + strings.Join(escaped, "/")
}

// PublicInvoiceURL is the share link for a sent invoice.
func (b *Builder) PublicInvoiceURL(token string) string {
	return join(b.clientOrigin, "public", "invoice", token)
}

// PublicContractURL is the share link for a contract awaiting signature.
func (b *Builder) PublicContractURL(token string) string {
	return join(b.clientOrigin, "public", "contract", token)
}

// OAuthCallbackURL is the redirect URL registered with Google.
func (b *Builder) OAuthCallbackURL() string {
	return join(b.appURL, "auth", "google", "callback")
}

// OAuthCompleteURL is where the browser lands after a Google sign-in.
func (b *Builder) OAuthCompleteURL(accessToken string) string {
	return join(b.clientOrigin, "auth", "complete") + "#" + url.Values{"token": {accessToken}}.Encode()
}

// BillingReturnURL is the checkout success or cancel page.
func (b *Builder) BillingReturnURL(outcome string) string {
	return join(b.clientOrigin, "settings", "billing") + "?" + url.Values{"checkout": {outcome}}.Encode()
}

// InvitationURL points a new member at the organization they were added to.
func (b *Builder) InvitationURL(organizationID string) string {
	return join(b.clientOrigin, "organizations", organizationID) + "?" + url.Values{"invited": {"1"}}.Encode()
}

// DocumentURL is the authenticated dashboard page for an entity, used in emails.
func (b *Builder) DocumentURL(kind, id string) string {
	return join(b.clientOrigin, kind, id)
}
