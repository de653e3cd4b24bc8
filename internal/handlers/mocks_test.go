package handlers_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock TenancySvc ---
type MockTenancyService struct {
	mock.Mock
}

var _ portssvc.TenancySvc = (*MockTenancyService)(nil)

func (m *MockTenancyService) ResolveScope(ctx context.Context, userID string, organizationID string) (domain.Scope, error) {
	args := m.Called(ctx, userID, organizationID)
	return args.Get(0).(domain.Scope), args.Error(1)
}

// --- Mock ClientService ---
type MockClientService struct {
	mock.Mock
}

var _ portssvc.ClientSvcFacade = (*MockClientService)(nil)

func (m *MockClientService) GetClient(ctx context.Context, scope domain.Scope, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, scope, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientService) ListClients(ctx context.Context, scope domain.Scope, params dto.ListClientsParams) ([]domain.Client, error) {
	args := m.Called(ctx, scope, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}
func (m *MockClientService) SearchClients(ctx context.Context, scope domain.Scope, query string, limit int) ([]domain.Client, error) {
	args := m.Called(ctx, scope, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}
func (m *MockClientService) CreateClient(ctx context.Context, scope domain.Scope, req dto.CreateClientRequest) (*domain.Client, error) {
	args := m.Called(ctx, scope, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientService) UpdateClient(ctx context.Context, scope domain.Scope, clientID string, req dto.UpdateClientRequest) (*domain.Client, error) {
	args := m.Called(ctx, scope, clientID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientService) DeleteClient(ctx context.Context, scope domain.Scope, clientID string) error {
	args := m.Called(ctx, scope, clientID)
	return args.Error(0)
}

// --- Mock ContractService ---
type MockContractService struct {
	mock.Mock
}

var _ portssvc.ContractSvcFacade = (*MockContractService)(nil)

func (m *MockContractService) contract(args mock.Arguments) (*domain.Contract, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractService) GetContract(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error) {
	return m.contract(m.Called(ctx, scope, contractID))
}
func (m *MockContractService) ListContracts(ctx context.Context, scope domain.Scope, params dto.ListContractsParams) ([]domain.Contract, *string, error) {
	args := m.Called(ctx, scope, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Contract), next, args.Error(2)
}
func (m *MockContractService) CreateContract(ctx context.Context, scope domain.Scope, req dto.CreateContractRequest) (*domain.Contract, error) {
	return m.contract(m.Called(ctx, scope, req))
}
func (m *MockContractService) UpdateContract(ctx context.Context, scope domain.Scope, contractID string, req dto.UpdateContractRequest) (*domain.Contract, error) {
	return m.contract(m.Called(ctx, scope, contractID, req))
}
func (m *MockContractService) DeleteContract(ctx context.Context, scope domain.Scope, contractID string) error {
	return m.Called(ctx, scope, contractID).Error(0)
}
func (m *MockContractService) UpdateRenewalSettings(ctx context.Context, scope domain.Scope, contractID string, req dto.RenewalSettingsRequest) (*domain.Contract, error) {
	return m.contract(m.Called(ctx, scope, contractID, req))
}
func (m *MockContractService) SendForSignature(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error) {
	return m.contract(m.Called(ctx, scope, contractID))
}
func (m *MockContractService) SignContract(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error) {
	return m.contract(m.Called(ctx, scope, contractID))
}
func (m *MockContractService) ApproveContract(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error) {
	return m.contract(m.Called(ctx, scope, contractID))
}
func (m *MockContractService) CancelContract(ctx context.Context, scope domain.Scope, contractID string, reason string) (*domain.Contract, error) {
	return m.contract(m.Called(ctx, scope, contractID, reason))
}
func (m *MockContractService) RenewContract(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, *domain.Contract, error) {
	args := m.Called(ctx, scope, contractID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Contract), args.Get(1).(*domain.Contract), args.Error(2)
}

// --- Mock PublicViewSvc ---
type MockPublicViewService struct {
	mock.Mock
}

var _ portssvc.PublicViewSvc = (*MockPublicViewService)(nil)

func (m *MockPublicViewService) GetPublicInvoice(ctx context.Context, token string) (*domain.Invoice, *domain.Client, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var client *domain.Client
	if args.Get(1) != nil {
		client = args.Get(1).(*domain.Client)
	}
	return args.Get(0).(*domain.Invoice), client, args.Error(2)
}
func (m *MockPublicViewService) GetPublicContract(ctx context.Context, token string) (*domain.Contract, *domain.Client, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var client *domain.Client
	if args.Get(1) != nil {
		client = args.Get(1).(*domain.Client)
	}
	return args.Get(0).(*domain.Contract), client, args.Error(2)
}
func (m *MockPublicViewService) SendInvoiceCopy(ctx context.Context, token string, email string) error {
	return m.Called(ctx, token, email).Error(0)
}

// --- Mock BillingSvcFacade ---
type MockBillingService struct {
	mock.Mock
}

var _ portssvc.BillingSvcFacade = (*MockBillingService)(nil)

func (m *MockBillingService) GetSubscription(ctx context.Context, scope domain.Scope) (*domain.Subscription, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}
func (m *MockBillingService) CreateCheckout(ctx context.Context, scope domain.Scope, plan string) (string, error) {
	args := m.Called(ctx, scope, plan)
	return args.String(0), args.Error(1)
}
func (m *MockBillingService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (bool, error) {
	args := m.Called(ctx, payload, signatureHeader)
	return args.Bool(0), args.Error(1)
}

// --- Mock ExpirySweepSvc ---
type MockSweepService struct {
	mock.Mock
}

var _ portssvc.ExpirySweepSvc = (*MockSweepService)(nil)

func (m *MockSweepService) RunSweep(ctx context.Context, now time.Time) (*dto.SweepResult, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SweepResult), args.Error(1)
}

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

func (m *MockInvoiceService) invoiceResult(args mock.Arguments) (*domain.Invoice, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, scope domain.Scope, invoiceID string) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, scope, invoiceID))
}
func (m *MockInvoiceService) ListInvoices(ctx context.Context, scope domain.Scope, params dto.ListInvoicesParams) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, scope, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), next, args.Error(2)
}
func (m *MockInvoiceService) ListPayments(ctx context.Context, scope domain.Scope, invoiceID string) ([]domain.Payment, error) {
	args := m.Called(ctx, scope, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockInvoiceService) CreateInvoice(ctx context.Context, scope domain.Scope, in dto.InvoiceInput) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, scope, in))
}
func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, scope domain.Scope, invoiceID string, in dto.InvoiceInput) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, scope, invoiceID, in))
}
func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, scope domain.Scope, invoiceID string) error {
	return m.Called(ctx, scope, invoiceID).Error(0)
}
func (m *MockInvoiceService) SendInvoice(ctx context.Context, scope domain.Scope, invoiceID string, req dto.SendInvoiceRequest) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, scope, invoiceID, req))
}
func (m *MockInvoiceService) CancelInvoice(ctx context.Context, scope domain.Scope, invoiceID string) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, scope, invoiceID))
}
func (m *MockInvoiceService) RecordPayment(ctx context.Context, scope domain.Scope, invoiceID string, req dto.RecordPaymentRequest) (*domain.Invoice, *domain.Payment, error) {
	args := m.Called(ctx, scope, invoiceID, req)
	var payment *domain.Payment
	if args.Get(1) != nil {
		payment = args.Get(1).(*domain.Payment)
	}
	if args.Get(0) == nil {
		return nil, payment, args.Error(2)
	}
	return args.Get(0).(*domain.Invoice), payment, args.Error(2)
}
func (m *MockInvoiceService) UploadInvoicePDF(ctx context.Context, scope domain.Scope, invoiceID string, body io.Reader, contentType string) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, scope, invoiceID, body, contentType))
}
func (m *MockInvoiceService) GetInvoicePDFLink(ctx context.Context, scope domain.Scope, invoiceID string, action string) (*dto.FileLinkResponse, error) {
	args := m.Called(ctx, scope, invoiceID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FileLinkResponse), args.Error(1)
}
