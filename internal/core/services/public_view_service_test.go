package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/core/services"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PublicViewServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo  *MockInvoiceRepository
	mockContractRepo *MockContractRepository
	mockClientRepo   *MockClientRepository
	mockMailer       *MockMailer
	service          portssvc.PublicViewSvc
}

func (suite *PublicViewServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockContractRepo = new(MockContractRepository)
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockMailer = new(MockMailer)
	suite.service = services.NewPublicViewService(
		services.BaseService{},
		suite.mockInvoiceRepo,
		suite.mockContractRepo,
		suite.mockClientRepo,
		suite.mockMailer,
		links.NewBuilder("https://app.finorn.test", "https://api.finorn.test"),
	)
}

func TestPublicViewServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PublicViewServiceTestSuite))
}

func sharedInvoice() *domain.Invoice {
	inv := sentInvoice("100")
	inv.PublicViewToken = strPtr("tok-123")
	return inv
}

// --- Test Cases ---

func (suite *PublicViewServiceTestSuite) TestGetPublicInvoice_LoadsClientFromOwnerScope() {
	client := &domain.Client{ClientID: "client-1", Name: "Acme"}
	suite.mockInvoiceRepo.On("FindInvoiceByPublicToken", mock.Anything, "tok-123").Return(sharedInvoice(), nil).Once()
	suite.mockClientRepo.On("FindClientByID", mock.Anything, domain.OrganizationScope("user-1", "org-1", ""), "client-1").Return(client, nil).Once()

	inv, gotClient, err := suite.service.GetPublicInvoice(context.Background(), "tok-123")

	suite.Require().NoError(err)
	suite.Equal("inv-1", inv.InvoiceID)
	suite.Equal("Acme", gotClient.Name)
}

func (suite *PublicViewServiceTestSuite) TestGetPublicInvoice_UnknownToken() {
	suite.mockInvoiceRepo.On("FindInvoiceByPublicToken", mock.Anything, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.GetPublicInvoice(context.Background(), "nope")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal("Invoice not found or link has expired", appErr.Message)
}

func (suite *PublicViewServiceTestSuite) TestGetPublicInvoice_BlankToken() {
	_, _, err := suite.service.GetPublicInvoice(context.Background(), "  ")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "FindInvoiceByPublicToken")
}

func (suite *PublicViewServiceTestSuite) TestGetPublicContract_MissingClientStillShown() {
	contract := activeContract()
	contract.ClientID = strPtr("client-gone")
	suite.mockContractRepo.On("FindContractByPublicToken", mock.Anything, "ctok").Return(contract, nil).Once()
	suite.mockClientRepo.On("FindClientByID", mock.Anything, mock.Anything, "client-gone").Return(nil, apperrors.ErrNotFound).Once()

	got, client, err := suite.service.GetPublicContract(context.Background(), "ctok")

	suite.Require().NoError(err)
	suite.Equal("contract-1", got.ContractID)
	suite.Nil(client)
}

func (suite *PublicViewServiceTestSuite) TestSendInvoiceCopy_InvalidEmail() {
	err := suite.service.SendInvoiceCopy(context.Background(), "tok-123", "not-an-email")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "FindInvoiceByPublicToken")
}

func (suite *PublicViewServiceTestSuite) TestSendInvoiceCopy_Sends() {
	suite.mockInvoiceRepo.On("FindInvoiceByPublicToken", mock.Anything, "tok-123").Return(sharedInvoice(), nil).Once()
	suite.mockMailer.On("Send", mock.Anything, mock.MatchedBy(func(msg portssvc.EmailMessage) bool {
		return msg.To[0] == "cfo@acme.com" && msg.Data["url"] == "https://app.finorn.test/public/invoice/tok-123"
	})).Return(nil).Once()

	err := suite.service.SendInvoiceCopy(context.Background(), "tok-123", " CFO@acme.com ")

	suite.Require().NoError(err)
	suite.mockMailer.AssertExpectations(suite.T())
}

func (suite *PublicViewServiceTestSuite) TestSendInvoiceCopy_MailFailureIsReported() {
	suite.mockInvoiceRepo.On("FindInvoiceByPublicToken", mock.Anything, "tok-123").Return(sharedInvoice(), nil).Once()
	suite.mockMailer.On("Send", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	err := suite.service.SendInvoiceCopy(context.Background(), "tok-123", "cfo@acme.com")

	suite.ErrorIs(err, apperrors.ErrDependency)
	suite.Equal(502, apperrors.HTTPStatus(err))
}
