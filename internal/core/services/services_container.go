package services

import (
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/platform/config"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
)

// Collaborators are the external systems services talk to. Any of them may be nil when
// the corresponding integration is not configured.
type Collaborators struct {
	Storage         portssvc.FileStorage
	Mailer          portssvc.Mailer
	Locker          portssvc.Locker
	Checkout        portssvc.CheckoutProvider
	WebhookVerifier portssvc.WebhookVerifier
	Tracker         portssvc.EventTracker
	Google          GoogleIdentityProvider
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, collab Collaborators) *portssvc.ServiceContainer {
	linkBuilder := links.NewBuilder(cfg.ClientOrigin, cfg.AppURL)

	// Notifications first since every other service reports through them
	notifications := NewNotificationService(repos.NotificationRepo, repos.UserRepo, collab.Mailer)
	base := BaseService{Notifier: notifications, Tracker: collab.Tracker}

	container := &portssvc.ServiceContainer{
		Notification: notifications,
	}
	container.Auth = NewAuthService(cfg, repos.UserRepo, repos.OrganizationRepo, collab.Google)
	container.Organization = NewOrganizationService(repos.OrganizationRepo, repos.UserRepo, collab.Mailer, linkBuilder)
	container.Tenancy = NewTenancyService(repos.UserRepo, repos.OrganizationRepo)
	container.Client = NewClientService(base, repos.ClientRepo, cfg.DefaultPhoneRegion)
	container.Invoice = NewInvoiceService(base, InvoiceServiceDeps{
		InvoiceRepo:  repos.InvoiceRepo,
		ClientRepo:   repos.ClientRepo,
		Storage:      collab.Storage,
		Mailer:       collab.Mailer,
		Links:        linkBuilder,
		SignedURLTTL: cfg.SignedURLTTL,
	})
	container.Contract = NewContractService(base, repos.ContractRepo, repos.ClientRepo, collab.Mailer, linkBuilder)
	container.Expense = NewExpenseService(base, repos.ExpenseRepo, collab.Storage, cfg.SignedURLTTL)
	container.PublicView = NewPublicViewService(base, repos.InvoiceRepo, repos.ContractRepo, repos.ClientRepo, collab.Mailer, linkBuilder)
	container.Sweep = NewSweepService(base, repos.ContractRepo, repos.InvoiceRepo, collab.Locker)
	container.Billing = NewBillingService(base, repos.BillingRepo, collab.Checkout, collab.WebhookVerifier, linkBuilder)
	container.Export = NewExportService(base, repos.InvoiceRepo, repos.ExpenseRepo)

	return container
}
