package domain

import (
	"fmt"
	"regexp"
	"time"
)

// NotificationType is one entry of the fixed notification catalog.
type NotificationType string

const (
	NotificationInvoiceCreated           NotificationType = "INVOICE_CREATED"
	NotificationInvoiceSent              NotificationType = "INVOICE_SENT"
	NotificationInvoicePaid              NotificationType = "INVOICE_PAID"
	NotificationInvoiceOverdue           NotificationType = "INVOICE_OVERDUE"
	NotificationInvoiceCancelled         NotificationType = "INVOICE_CANCELLED"
	NotificationContractCreated          NotificationType = "CONTRACT_CREATED"
	NotificationContractSentForSignature NotificationType = "CONTRACT_SENT_FOR_SIGNATURE"
	NotificationContractSigned           NotificationType = "CONTRACT_SIGNED"
	NotificationContractApproved         NotificationType = "CONTRACT_APPROVED"
	NotificationContractCancelled        NotificationType = "CONTRACT_CANCELLED"
	NotificationContractRenewed          NotificationType = "CONTRACT_RENEWED"
	NotificationContractExpiring         NotificationType = "CONTRACT_EXPIRING"
	NotificationContractExpired          NotificationType = "CONTRACT_EXPIRED"
	NotificationExpenseCreated           NotificationType = "EXPENSE_CREATED"
	NotificationExpenseApproved          NotificationType = "EXPENSE_APPROVED"
	NotificationExpenseRejected          NotificationType = "EXPENSE_REJECTED"
	NotificationPaymentReceived          NotificationType = "PAYMENT_RECEIVED"
	NotificationClientCreated            NotificationType = "CLIENT_CREATED"
	NotificationSubscriptionUpdated      NotificationType = "SUBSCRIPTION_UPDATED"
)

// NotificationChannel is a delivery route for a notification.
type NotificationChannel string

const (
	ChannelInApp NotificationChannel = "in_app"
	ChannelEmail NotificationChannel = "email"
)

// NotificationTemplate is the title/message pair bound to a type.
type NotificationTemplate struct {
	Title   string
	Message string
}

var notificationCatalog = map[NotificationType]NotificationTemplate{
	NotificationInvoiceCreated:           {"Invoice created", "Invoice {invoiceNumber} for {amount} {currency} was created."},
	NotificationInvoiceSent:              {"Invoice sent", "Invoice {invoiceNumber} was sent to {email}."},
	NotificationInvoicePaid:              {"Invoice paid", "Invoice {invoiceNumber} has been paid in full."},
	NotificationInvoiceOverdue:           {"Invoice overdue", "Invoice {invoiceNumber} is past its due date."},
	NotificationInvoiceCancelled:         {"Invoice cancelled", "Invoice {invoiceNumber} was cancelled."},
	NotificationContractCreated:          {"Contract created", "Contract \"{title}\" was created."},
	NotificationContractSentForSignature: {"Contract sent for signature", "Contract \"{title}\" is awaiting signature."},
	NotificationContractSigned:           {"Contract signed", "Contract \"{title}\" was signed."},
	NotificationContractApproved:         {"Contract approved", "Contract \"{title}\" was approved and is now active."},
	NotificationContractCancelled:        {"Contract cancelled", "Contract \"{title}\" was cancelled."},
	NotificationContractRenewed:          {"Contract renewed", "Contract \"{title}\" was renewed until {endDate}."},
	NotificationContractExpiring:         {"Contract expiring soon", "Contract \"{title}\" expires in {daysToExpiry} days."},
	NotificationContractExpired:          {"Contract expired", "Contract \"{title}\" has expired."},
	NotificationExpenseCreated:           {"Expense recorded", "An expense of {amount} {currency} for {category} was recorded."},
	NotificationExpenseApproved:          {"Expense approved", "Your expense of {amount} {currency} was approved."},
	NotificationExpenseRejected:          {"Expense rejected", "Your expense of {amount} {currency} was rejected."},
	NotificationPaymentReceived:          {"Payment received", "A payment of {amount} {currency} was received for invoice {invoiceNumber}."},
	NotificationClientCreated:            {"Client added", "{name} was added to your clients."},
	NotificationSubscriptionUpdated:      {"Subscription updated", "Your subscription is now on the {plan} plan ({status})."},
}

// IsValid reports whether t is in the catalog.
func (t NotificationType) IsValid() bool {
	_, ok := notificationCatalog[t]
	return ok
}

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// RenderTemplate substitutes {placeholder} tokens from data. Unknown placeholders are kept verbatim.
func RenderTemplate(template string, data map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		key := token[1 : len(token)-1]
		v, ok := data[key]
		if !ok || v == nil {
			return token
		}
		return fmt.Sprint(v)
	})
}

// RenderNotification produces the title and message for t.
func RenderNotification(t NotificationType, data map[string]any) (string, string, error) {
	tpl, ok := notificationCatalog[t]
	if !ok {
		return "", "", fmt.Errorf("unknown notification type %q", t)
	}
	return RenderTemplate(tpl.Title, data), RenderTemplate(tpl.Message, data), nil
}

// Notification is an append-only record created by lifecycle events.
type Notification struct {
	NotificationID string                `json:"notificationID"`
	UserID         string                `json:"userId"`
	OrganizationID *string               `json:"organizationId,omitempty"`
	Type           NotificationType      `json:"type"`
	Title          string                `json:"title"`
	Message        string                `json:"message"`
	Data           map[string]any        `json:"data,omitempty"`
	Channels       []NotificationChannel `json:"channels"`
	ReadAt         *time.Time            `json:"readAt,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
}
