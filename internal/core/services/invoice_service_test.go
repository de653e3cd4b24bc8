package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/core/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockClientRepo  *MockClientRepository
	mockStorage     *MockFileStorage
	mockMailer      *MockMailer
	mockNotifier    *MockNotifier
	service         portssvc.InvoiceSvcFacade
	scope           domain.Scope
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockStorage = new(MockFileStorage)
	suite.mockMailer = new(MockMailer)
	suite.mockNotifier = new(MockNotifier)
	suite.mockNotifier.On("Notify", mock.Anything, mock.Anything).Return(&domain.Notification{}, nil).Maybe()

	suite.service = services.NewInvoiceService(services.BaseService{Notifier: suite.mockNotifier}, services.InvoiceServiceDeps{
		InvoiceRepo:  suite.mockInvoiceRepo,
		ClientRepo:   suite.mockClientRepo,
		Storage:      suite.mockStorage,
		Mailer:       suite.mockMailer,
		Links:        links.NewBuilder("https://app.finorn.test", "https://api.finorn.test"),
		SignedURLTTL: 15 * time.Minute,
	})
	suite.scope = domain.OrganizationScope("user-1", "org-1", domain.RoleMember)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sentInvoice(total string) *domain.Invoice {
	orgID := "org-1"
	return &domain.Invoice{
		InvoiceID:      "inv-1",
		InvoiceNumber:  "INV-20260101-ABC123",
		UserID:         "user-1",
		OrganizationID: &orgID,
		ClientID:       "client-1",
		Status:         domain.InvoiceSent,
		Currency:       "USD",
		TotalAmount:    dec(total),
		AmountPaid:     decimal.Zero,
	}
}

// --- CreateInvoice ---

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_ComputesTotals() {
	ctx := context.Background()
	clientID := "client-1"
	taxRate := dec("10")
	in := dto.InvoiceInput{
		ClientID: &clientID,
		TaxRate:  &taxRate,
		Items: []domain.LineItem{
			{Description: "Design", Quantity: dec("2"), UnitPrice: dec("100")},
			{Description: "Hosting", Quantity: dec("1"), UnitPrice: dec("50.50")},
		},
		HasItems: true,
	}
	suite.mockClientRepo.On("FindClientByID", ctx, suite.scope, clientID).Return(&domain.Client{ClientID: clientID}, nil).Once()
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, suite.scope, mock.AnythingOfType("*domain.Invoice"), (*domain.Client)(nil)).Return(nil).Once()

	inv, err := suite.service.CreateInvoice(ctx, suite.scope, in)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceDraft, inv.Status)
	suite.Equal("USD", inv.Currency)
	suite.True(dec("250.50").Equal(inv.SubTotal), "subtotal was %s", inv.SubTotal)
	suite.True(dec("25.05").Equal(inv.TaxAmount), "tax was %s", inv.TaxAmount)
	suite.True(dec("275.55").Equal(inv.TotalAmount), "total was %s", inv.TotalAmount)
	suite.True(strings.HasPrefix(inv.InvoiceNumber, "INV-"))
	suite.Equal(clientID, inv.ClientID)
	suite.Len(inv.LineItems, 2)
	suite.Equal(inv.InvoiceID, inv.LineItems[1].InvoiceID)
	suite.Equal(1, inv.LineItems[1].Position)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_WithNewClient() {
	ctx := context.Background()
	in := dto.InvoiceInput{
		NewClient: &domain.Client{Name: " Walk-in Customer ", Email: strPtr("WALKIN@example.com")},
	}
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, suite.scope, mock.AnythingOfType("*domain.Invoice"),
		mock.MatchedBy(func(c *domain.Client) bool {
			return c != nil && c.Name == "Walk-in Customer" && *c.Email == "walkin@example.com" &&
				c.OrganizationID != nil && *c.OrganizationID == "org-1"
		})).
		Run(func(args mock.Arguments) {
			args.Get(2).(*domain.Invoice).ClientID = args.Get(3).(*domain.Client).ClientID
		}).
		Return(nil).Once()

	inv, err := suite.service.CreateInvoice(ctx, suite.scope, in)

	suite.Require().NoError(err)
	suite.NotEmpty(inv.ClientID)
	suite.True(inv.TotalAmount.IsZero())
	suite.mockClientRepo.AssertNotCalled(suite.T(), "FindClientByID")
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RequiresClient() {
	_, err := suite.service.CreateInvoice(context.Background(), suite.scope, dto.InvoiceInput{})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoice")
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_UnknownClient() {
	ctx := context.Background()
	clientID := "missing"
	suite.mockClientRepo.On("FindClientByID", ctx, suite.scope, clientID).Return(nil, apperrors.NewNotFoundError("Client not found")).Once()

	_, err := suite.service.CreateInvoice(ctx, suite.scope, dto.InvoiceInput{ClientID: &clientID})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_NegativeQuantity() {
	clientID := "client-1"
	in := dto.InvoiceInput{
		ClientID: &clientID,
		Items:    []domain.LineItem{{Description: "Refund", Quantity: dec("-1"), UnitPrice: dec("10")}},
		HasItems: true,
	}

	_, err := suite.service.CreateInvoice(context.Background(), suite.scope, in)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DueBeforeIssue() {
	clientID := "client-1"
	issue := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, -1)

	_, err := suite.service.CreateInvoice(context.Background(), suite.scope, dto.InvoiceInput{
		ClientID: &clientID, IssueDate: &issue, DueDate: &due,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- UpdateInvoice / DeleteInvoice ---

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_OnlyDrafts() {
	ctx := context.Background()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "inv-1").Return(sentInvoice("100"), nil).Once()

	_, err := suite.service.UpdateInvoice(ctx, suite.scope, "inv-1", dto.InvoiceInput{Notes: strPtr("late edit")})

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoice")
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_ReplacesItems() {
	ctx := context.Background()
	draft := sentInvoice("0")
	draft.Status = domain.InvoiceDraft
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "inv-1").Return(draft, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoice", ctx, suite.scope, mock.MatchedBy(func(inv domain.Invoice) bool {
		return len(inv.LineItems) == 1 && inv.TotalAmount.Equal(dec("30"))
	})).Return(nil).Once()

	inv, err := suite.service.UpdateInvoice(ctx, suite.scope, "inv-1", dto.InvoiceInput{
		Items:    []domain.LineItem{{Description: "Hours", Quantity: dec("3"), UnitPrice: dec("10")}},
		HasItems: true,
	})

	suite.Require().NoError(err)
	suite.True(dec("30").Equal(inv.TotalAmount))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_PersistsInvoiceNumber() {
	ctx := context.Background()
	draft := sentInvoice("0")
	draft.Status = domain.InvoiceDraft
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "inv-1").Return(draft, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoice", ctx, suite.scope, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.InvoiceID == "inv-1" && inv.InvoiceNumber == "INV-NEW"
	})).Return(nil).Once()

	inv, err := suite.service.UpdateInvoice(ctx, suite.scope, "inv-1", dto.InvoiceInput{InvoiceNumber: strPtr("  INV-NEW ")})

	suite.Require().NoError(err)
	suite.Equal("INV-NEW", inv.InvoiceNumber)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_DuplicateNumberIsConflict() {
	ctx := context.Background()
	draft := sentInvoice("0")
	draft.Status = domain.InvoiceDraft
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "inv-1").Return(draft, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoice", ctx, suite.scope, mock.Anything).
		Return(apperrors.NewConflictError("An invoice with this number already exists")).Once()

	_, err := suite.service.UpdateInvoice(ctx, suite.scope, "inv-1", dto.InvoiceInput{InvoiceNumber: strPtr("INV-TAKEN")})

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(409, apperrors.HTTPStatus(err))
}

func (suite *InvoiceServiceTestSuite) TestDeleteInvoice_SentIsConflict() {
	ctx := context.Background()
	admin := domain.OrganizationScope("user-1", "org-1", domain.RoleAdmin)
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, admin, "inv-1").Return(sentInvoice("100"), nil).Once()

	err := suite.service.DeleteInvoice(ctx, admin, "inv-1")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "DeleteInvoice")
}

func (suite *InvoiceServiceTestSuite) TestDeleteInvoice_RemovesPDF() {
	ctx := context.Background()
	admin := domain.OrganizationScope("user-1", "org-1", domain.RoleAdmin)
	draft := sentInvoice("0")
	draft.Status = domain.InvoiceDraft
	draft.PDFKey = strPtr("invoices/org-org-1/inv-1/old.pdf")
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, admin, "inv-1").Return(draft, nil).Once()
	suite.mockInvoiceRepo.On("DeleteInvoice", ctx, admin, "inv-1").Return(nil).Once()
	suite.mockStorage.On("Delete", ctx, "invoices/org-org-1/inv-1/old.pdf").Return(assert.AnError).Once()

	err := suite.service.DeleteInvoice(ctx, admin, "inv-1")

	// Storage cleanup failures do not fail the delete.
	suite.Require().NoError(err)
	suite.mockStorage.AssertExpectations(suite.T())
}

// --- SendInvoice ---

func (suite *InvoiceServiceTestSuite) TestSendInvoice_DraftBecomesSent() {
	ctx := context.Background()
	draft := sentInvoice("120")
	draft.Status = domain.InvoiceDraft
	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.scope, "inv-1").Return(draft, nil).Once()
	suite.mockClientRepo.On("FindClientByID", mock.Anything, suite.scope, "client-1").
		Return(&domain.Client{ClientID: "client-1", Email: strPtr("ap@acme.com")}, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoiceState", mock.Anything, suite.scope, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Status == domain.InvoiceSent && inv.PublicViewToken != nil && len(*inv.PublicViewToken) == 64 &&
			inv.EmailSentTo != nil && *inv.EmailSentTo == "ap@acme.com"
	}), domain.InvoiceDraft).Return(nil).Once()
	suite.mockMailer.On("Send", mock.Anything, mock.MatchedBy(func(msg portssvc.EmailMessage) bool {
		return msg.To[0] == "ap@acme.com" && strings.Contains(msg.Text, "https://app.finorn.test/public/invoice/")
	})).Return(nil).Once()

	inv, err := suite.service.SendInvoice(ctx, suite.scope, "inv-1", dto.SendInvoiceRequest{})

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceSent, inv.Status)
	suite.Require().NotNil(inv.PublicViewToken)
	suite.NotNil(inv.EmailSentAt)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockMailer.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_MailFailureIsNotFatal() {
	ctx := context.Background()
	draft := sentInvoice("120")
	draft.Status = domain.InvoiceDraft
	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.scope, "inv-1").Return(draft, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoiceState", mock.Anything, suite.scope, mock.AnythingOfType("domain.Invoice"), domain.InvoiceDraft).Return(nil).Once()
	suite.mockMailer.On("Send", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	inv, err := suite.service.SendInvoice(ctx, suite.scope, "inv-1", dto.SendInvoiceRequest{Email: strPtr("Other@Example.com")})

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceSent, inv.Status)
	suite.Equal("other@example.com", *inv.EmailSentTo)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "FindClientByID")
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_ResendKeepsStatusAndToken() {
	ctx := context.Background()
	overdue := sentInvoice("120")
	overdue.Status = domain.InvoiceOverdue
	overdue.PublicViewToken = strPtr("existing-token")
	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.scope, "inv-1").Return(overdue, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoiceState", mock.Anything, suite.scope, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Status == domain.InvoiceOverdue && *inv.PublicViewToken == "existing-token"
	}), domain.InvoiceOverdue).Return(nil).Once()
	suite.mockMailer.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	inv, err := suite.service.SendInvoice(ctx, suite.scope, "inv-1", dto.SendInvoiceRequest{Email: strPtr("ap@acme.com")})

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceOverdue, inv.Status)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_ZeroTotal() {
	ctx := context.Background()
	draft := sentInvoice("0")
	draft.Status = domain.InvoiceDraft
	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.scope, "inv-1").Return(draft, nil).Once()

	_, err := suite.service.SendInvoice(ctx, suite.scope, "inv-1", dto.SendInvoiceRequest{})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoiceState")
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_CancelledIsInvalidTransition() {
	ctx := context.Background()
	cancelled := sentInvoice("50")
	cancelled.Status = domain.InvoiceCancelled
	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.scope, "inv-1").Return(cancelled, nil).Once()

	_, err := suite.service.SendInvoice(ctx, suite.scope, "inv-1", dto.SendInvoiceRequest{})

	suite.ErrorIs(err, apperrors.ErrInvalidStatusTransition)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_ClientWithoutEmail() {
	ctx := context.Background()
	draft := sentInvoice("50")
	draft.Status = domain.InvoiceDraft
	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.scope, "inv-1").Return(draft, nil).Once()
	suite.mockClientRepo.On("FindClientByID", mock.Anything, suite.scope, "client-1").Return(&domain.Client{ClientID: "client-1"}, nil).Once()

	_, err := suite.service.SendInvoice(ctx, suite.scope, "inv-1", dto.SendInvoiceRequest{})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- RecordPayment ---

func (suite *InvoiceServiceTestSuite) TestRecordPayment_FullPaymentMarksPaid() {
	ctx := context.Background()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "inv-1").Return(sentInvoice("100"), nil).Once()
	suite.mockInvoiceRepo.On("RecordPayment", ctx, suite.scope, mock.AnythingOfType("domain.Payment"),
		mock.MatchedBy(func(inv domain.Invoice) bool { return inv.Status == domain.InvoicePaid })).Return(nil).Once()

	inv, payment, err := suite.service.RecordPayment(ctx, suite.scope, "inv-1", dto.RecordPaymentRequest{
		Amount: dec("100"), Method: "bank_transfer",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, inv.Status)
	suite.NotNil(inv.PaidAt)
	suite.True(dec("100").Equal(payment.Amount))
	suite.mockNotifier.AssertCalled(suite.T(), "Notify", ctx, mock.MatchedBy(func(p portssvc.NotifyParams) bool {
		return p.Type == domain.NotificationInvoicePaid
	}))
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_PartialKeepsStatus() {
	ctx := context.Background()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "inv-1").Return(sentInvoice("100"), nil).Once()
	suite.mockInvoiceRepo.On("RecordPayment", ctx, suite.scope, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	inv, _, err := suite.service.RecordPayment(ctx, suite.scope, "inv-1", dto.RecordPaymentRequest{Amount: dec("40"), Method: "card"})

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceSent, inv.Status)
	suite.True(dec("60").Equal(inv.OutstandingAmount()))
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_ExceedsOutstanding() {
	ctx := context.Background()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "inv-1").Return(sentInvoice("100"), nil).Once()

	_, _, err := suite.service.RecordPayment(ctx, suite.scope, "inv-1", dto.RecordPaymentRequest{Amount: dec("100.01"), Method: "card"})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "RecordPayment")
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_DraftIsInvalidTransition() {
	ctx := context.Background()
	draft := sentInvoice("100")
	draft.Status = domain.InvoiceDraft
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "inv-1").Return(draft, nil).Once()

	_, _, err := suite.service.RecordPayment(ctx, suite.scope, "inv-1", dto.RecordPaymentRequest{Amount: dec("10"), Method: "card"})

	suite.ErrorIs(err, apperrors.ErrInvalidStatusTransition)
}

// --- Documents ---

func (suite *InvoiceServiceTestSuite) TestGetInvoicePDFLink_View() {
	ctx := context.Background()
	inv := sentInvoice("100")
	inv.PDFKey = strPtr("invoices/org-org-1/inv-1/doc.pdf")
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "inv-1").Return(inv, nil).Once()
	suite.mockStorage.On("Exists", ctx, *inv.PDFKey).Return(true, nil).Once()
	suite.mockStorage.On("StreamingURL", ctx, *inv.PDFKey, 15*time.Minute).Return("https://signed.example/view", nil).Once()

	link, err := suite.service.GetInvoicePDFLink(ctx, suite.scope, "inv-1", "")

	suite.Require().NoError(err)
	suite.Equal("https://signed.example/view", link.URL)
	suite.Equal("inline", link.Disposition)
	suite.Equal(900, link.ExpiresIn)
}

func (suite *InvoiceServiceTestSuite) TestGetInvoicePDFLink_Download() {
	ctx := context.Background()
	inv := sentInvoice("100")
	inv.PDFKey = strPtr("invoices/org-org-1/inv-1/doc.pdf")
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "inv-1").Return(inv, nil).Once()
	suite.mockStorage.On("Exists", ctx, *inv.PDFKey).Return(true, nil).Once()
	suite.mockStorage.On("PresignedURL", ctx, *inv.PDFKey, 15*time.Minute, "INV-20260101-ABC123.pdf").Return("https://signed.example/dl", nil).Once()

	link, err := suite.service.GetInvoicePDFLink(ctx, suite.scope, "inv-1", "download")

	suite.Require().NoError(err)
	suite.Equal("attachment", link.Disposition)
}

func (suite *InvoiceServiceTestSuite) TestGetInvoicePDFLink_StoredURLIsRejected() {
	ctx := context.Background()
	inv := sentInvoice("100")
	inv.PDFKey = strPtr("https://storage.googleapis.com/bucket/invoices/doc.pdf")
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "inv-1").Return(inv, nil).Once()

	_, err := suite.service.GetInvoicePDFLink(ctx, suite.scope, "inv-1", "view")

	suite.Require().Error(err)
	suite.Equal(500, apperrors.HTTPStatus(err))
	suite.mockStorage.AssertNotCalled(suite.T(), "Exists")
}

func (suite *InvoiceServiceTestSuite) TestGetInvoicePDFLink_Errors() {
	ctx := context.Background()

	noPDF := sentInvoice("100")
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "no-pdf").Return(noPDF, nil).Once()
	_, err := suite.service.GetInvoicePDFLink(ctx, suite.scope, "no-pdf", "view")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	missing := sentInvoice("100")
	missing.PDFKey = strPtr("invoices/org-org-1/inv-1/gone.pdf")
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "missing").Return(missing, nil).Once()
	suite.mockStorage.On("Exists", ctx, *missing.PDFKey).Return(false, nil).Once()
	_, err = suite.service.GetInvoicePDFLink(ctx, suite.scope, "missing", "view")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	badAction := sentInvoice("100")
	badAction.PDFKey = strPtr("invoices/org-org-1/inv-1/doc.pdf")
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "bad-action").Return(badAction, nil).Once()
	_, err = suite.service.GetInvoicePDFLink(ctx, suite.scope, "bad-action", "print")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestUploadInvoicePDF_ReplacesPreviousObject() {
	ctx := context.Background()
	inv := sentInvoice("100")
	inv.PDFKey = strPtr("invoices/org-org-1/inv-1/old.pdf")
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.scope, "inv-1").Return(inv, nil).Once()
	suite.mockStorage.On("Upload", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "invoices/org-org-1/inv-1/") && strings.HasSuffix(key, ".pdf")
	}), mock.Anything, "application/pdf").
		Return(&portssvc.StoredObject{Key: "invoices/org-org-1/inv-1/new.pdf", Location: "gs://bucket/invoices/org-org-1/inv-1/new.pdf"}, nil).Once()
	suite.mockInvoiceRepo.On("SetInvoicePDF", ctx, suite.scope, "inv-1", "invoices/org-org-1/inv-1/new.pdf").Return(nil).Once()
	suite.mockStorage.On("Delete", ctx, "invoices/org-org-1/inv-1/old.pdf").Return(nil).Once()

	updated, err := suite.service.UploadInvoicePDF(ctx, suite.scope, "inv-1", strings.NewReader("%PDF-1.7"), "application/pdf; charset=binary")

	suite.Require().NoError(err)
	suite.Equal("invoices/org-org-1/inv-1/new.pdf", *updated.PDFKey)
	suite.mockStorage.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestUploadInvoicePDF_RejectsOtherTypes() {
	_, err := suite.service.UploadInvoicePDF(context.Background(), suite.scope, "inv-1", strings.NewReader("x"), "image/png")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStorage.AssertNotCalled(suite.T(), "Upload")
}
