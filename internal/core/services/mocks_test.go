package services_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Repository mocks ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) LinkGoogleSubject(ctx context.Context, userID, subject string) error {
	args := m.Called(ctx, userID, subject)
	return args.Error(0)
}

type MockOrganizationRepository struct {
	mock.Mock
}

var _ portsrepo.OrganizationRepositoryFacade = (*MockOrganizationRepository)(nil)

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) SaveOrganizationWithOwner(ctx context.Context, org domain.Organization, owner domain.OrganizationUser) error {
	args := m.Called(ctx, org, owner)
	return args.Error(0)
}

func (m *MockOrganizationRepository) AddMember(ctx context.Context, membership domain.OrganizationUser) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockOrganizationRepository) FindMembership(ctx context.Context, userID, organizationID string) (*domain.OrganizationUser, error) {
	args := m.Called(ctx, userID, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrganizationUser), args.Error(1)
}

type MockClientRepository struct {
	mock.Mock
}

var _ portsrepo.ClientRepositoryFacade = (*MockClientRepository)(nil)

func (m *MockClientRepository) FindClientByID(ctx context.Context, scope domain.Scope, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, scope, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) ListClients(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.Client, error) {
	args := m.Called(ctx, scope, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepository) SearchClients(ctx context.Context, scope domain.Scope, query string, limit int) ([]domain.Client, error) {
	args := m.Called(ctx, scope, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepository) CreateClientIfUnique(ctx context.Context, scope domain.Scope, client domain.Client) error {
	args := m.Called(ctx, scope, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateClient(ctx context.Context, scope domain.Scope, client domain.Client) error {
	args := m.Called(ctx, scope, client)
	return args.Error(0)
}

func (m *MockClientRepository) DeleteClient(ctx context.Context, scope domain.Scope, clientID string) error {
	args := m.Called(ctx, scope, clientID)
	return args.Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, scope domain.Scope, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, scope, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceByPublicToken(ctx context.Context, token string) (*domain.Invoice, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, scope domain.Scope, filter portsrepo.InvoiceFilter) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, scope, filter)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), next, args.Error(2)
}

func (m *MockInvoiceRepository) ListPayments(ctx context.Context, scope domain.Scope, invoiceID string) ([]domain.Payment, error) {
	args := m.Called(ctx, scope, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockInvoiceRepository) CreateInvoice(ctx context.Context, scope domain.Scope, invoice *domain.Invoice, newClient *domain.Client) error {
	args := m.Called(ctx, scope, invoice, newClient)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, scope domain.Scope, invoice domain.Invoice) error {
	args := m.Called(ctx, scope, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveInvoiceState(ctx context.Context, scope domain.Scope, invoice domain.Invoice, expected domain.InvoiceStatus) error {
	args := m.Called(ctx, scope, invoice, expected)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, scope domain.Scope, invoiceID string) error {
	args := m.Called(ctx, scope, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SetInvoicePDF(ctx context.Context, scope domain.Scope, invoiceID string, key string) error {
	args := m.Called(ctx, scope, invoiceID, key)
	return args.Error(0)
}

func (m *MockInvoiceRepository) RecordPayment(ctx context.Context, scope domain.Scope, payment domain.Payment, invoice domain.Invoice) error {
	args := m.Called(ctx, scope, payment, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkOverdueInvoices(ctx context.Context, now time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

type MockContractRepository struct {
	mock.Mock
}

var _ portsrepo.ContractRepositoryFacade = (*MockContractRepository)(nil)

func (m *MockContractRepository) FindContractByID(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error) {
	args := m.Called(ctx, scope, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) FindContractByPublicToken(ctx context.Context, token string) (*domain.Contract, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) ListContracts(ctx context.Context, scope domain.Scope, filter portsrepo.ContractFilter) ([]domain.Contract, *string, error) {
	args := m.Called(ctx, scope, filter)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Contract), next, args.Error(2)
}

func (m *MockContractRepository) SaveContract(ctx context.Context, contract domain.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) UpdateContract(ctx context.Context, scope domain.Scope, contract domain.Contract, expected domain.ContractStatus) error {
	args := m.Called(ctx, scope, contract, expected)
	return args.Error(0)
}

func (m *MockContractRepository) DeleteContract(ctx context.Context, scope domain.Scope, contractID string) error {
	args := m.Called(ctx, scope, contractID)
	return args.Error(0)
}

func (m *MockContractRepository) RenewContract(ctx context.Context, predecessor domain.Contract, successor domain.Contract) error {
	args := m.Called(ctx, predecessor, successor)
	return args.Error(0)
}

func (m *MockContractRepository) ListActiveContractsEndingBefore(ctx context.Context, cutoff time.Time) ([]domain.Contract, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

func (m *MockContractRepository) ClaimExpiryNotification(ctx context.Context, contractID string, day int) (bool, error) {
	args := m.Called(ctx, contractID, day)
	return args.Bool(0), args.Error(1)
}

func (m *MockContractRepository) ExpireContract(ctx context.Context, contractID string, now time.Time) (bool, error) {
	args := m.Called(ctx, contractID, now)
	return args.Bool(0), args.Error(1)
}

type MockExpenseRepository struct {
	mock.Mock
}

var _ portsrepo.ExpenseRepositoryFacade = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, scope domain.Scope, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, scope, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, scope domain.Scope, filter portsrepo.ExpenseFilter) ([]domain.Expense, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, scope domain.Scope, expense domain.Expense) error {
	args := m.Called(ctx, scope, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteExpense(ctx context.Context, scope domain.Scope, expenseID string) error {
	args := m.Called(ctx, scope, expenseID)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

var _ portsrepo.NotificationRepositoryFacade = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListNotifications(ctx context.Context, scope domain.Scope, unreadOnly bool, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, scope, unreadOnly, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkNotificationRead(ctx context.Context, scope domain.Scope, notificationID string, at time.Time) error {
	args := m.Called(ctx, scope, notificationID, at)
	return args.Error(0)
}

type MockBillingRepository struct {
	mock.Mock
}

var _ portsrepo.BillingRepositoryFacade = (*MockBillingRepository)(nil)

func (m *MockBillingRepository) FindSubscription(ctx context.Context, scope domain.Scope) (*domain.Subscription, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockBillingRepository) ApplySubscriptionEvent(ctx context.Context, eventID string, subscription domain.Subscription) (bool, error) {
	args := m.Called(ctx, eventID, subscription)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillingRepository) ApplyInvoicePaidEvent(ctx context.Context, eventID, invoiceID, paymentID string, amount decimal.Decimal) (bool, error) {
	args := m.Called(ctx, eventID, invoiceID, paymentID, amount)
	return args.Bool(0), args.Error(1)
}

// --- Collaborator mocks ---

type MockNotifier struct {
	mock.Mock
}

var _ portssvc.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) Notify(ctx context.Context, params portssvc.NotifyParams) (*domain.Notification, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

var _ portssvc.Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, msg portssvc.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

var _ portssvc.FileStorage = (*MockFileStorage)(nil)

func (m *MockFileStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (*portssvc.StoredObject, error) {
	args := m.Called(ctx, key, body, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.StoredObject), args.Error(1)
}

func (m *MockFileStorage) PresignedURL(ctx context.Context, key string, ttl time.Duration, filename string) (string, error) {
	args := m.Called(ctx, key, ttl, filename)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) StreamingURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type MockLocker struct {
	mock.Mock
}

var _ portssvc.Locker = (*MockLocker)(nil)

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (portssvc.Lock, error) {
	args := m.Called(ctx, key, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(portssvc.Lock), args.Error(1)
}

type MockLock struct {
	mock.Mock
}

func (m *MockLock) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockWebhookVerifier struct {
	mock.Mock
}

var _ portssvc.WebhookVerifier = (*MockWebhookVerifier)(nil)

func (m *MockWebhookVerifier) Verify(payload []byte, signatureHeader string, now time.Time) error {
	args := m.Called(payload, signatureHeader, now)
	return args.Error(0)
}

type MockCheckoutProvider struct {
	mock.Mock
}

var _ portssvc.CheckoutProvider = (*MockCheckoutProvider)(nil)

func (m *MockCheckoutProvider) CreateCheckoutURL(ctx context.Context, session portssvc.CheckoutSession) (string, error) {
	args := m.Called(ctx, session)
	return args.String(0), args.Error(1)
}
