package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/handlers"
	"github.com/SscSPs/finorn_backend/internal/platform/config"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testUserID     = "user-1"
	testOrgID      = "org-1"
	testCronSecret = "cron-secret"
)

// --- Test Suite ---
type RouterTestSuite struct {
	suite.Suite
	router       *gin.Engine
	jwtSecret    string
	mockTenancy  *MockTenancyService
	mockClient   *MockClientService
	mockContract *MockContractService
	mockInvoice  *MockInvoiceService
	mockPublic   *MockPublicViewService
	mockBilling  *MockBillingService
	mockSweep    *MockSweepService
}

func (suite *RouterTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "finorn-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockTenancy = new(MockTenancyService)
	suite.mockClient = new(MockClientService)
	suite.mockContract = new(MockContractService)
	suite.mockInvoice = new(MockInvoiceService)
	suite.mockPublic = new(MockPublicViewService)
	suite.mockBilling = new(MockBillingService)
	suite.mockSweep = new(MockSweepService)

	cfg := &config.Config{
		IsProduction:    true,
		JWTSecret:       suite.jwtSecret,
		ClientOrigin:    "http://localhost:3000",
		AppURL:          "http://localhost:8080",
		CronSecret:      testCronSecret,
		PublicRateLimit: "1000-M",
	}
	container := &portssvc.ServiceContainer{
		Tenancy:    suite.mockTenancy,
		Client:     suite.mockClient,
		Contract:   suite.mockContract,
		Invoice:    suite.mockInvoice,
		PublicView: suite.mockPublic,
		Billing:    suite.mockBilling,
		Sweep:      suite.mockSweep,
	}

	suite.router = gin.New()
	err := handlers.RegisterRoutes(suite.router, cfg, container, links.NewBuilder(cfg.ClientOrigin, cfg.AppURL), nil)
	suite.Require().NoError(err)
}

func (suite *RouterTestSuite) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RouterTestSuite) authed(extra map[string]string) map[string]string {
	h := map[string]string{"Authorization": "Bearer " + suite.generateTestToken(testUserID)}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

// --- Test Cases ---

func (suite *RouterTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *RouterTestSuite) TestScopedRoute_RequiresToken() {
	w := suite.do(http.MethodGet, "/api/v1/clients", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTenancy.AssertNotCalled(suite.T(), "ResolveScope", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RouterTestSuite) TestScopedRoute_MissingOrganizationHeader() {
	suite.mockTenancy.On("ResolveScope", mock.Anything, testUserID, "").
		Return(domain.Scope{}, apperrors.ErrMissingOrganizationContext).Once()

	w := suite.do(http.MethodGet, "/api/v1/clients", "", suite.authed(nil))

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Organization ID is required for business accounts", resp.Error)
	suite.mockClient.AssertNotCalled(suite.T(), "ListClients", mock.Anything, mock.Anything, mock.Anything)
	suite.mockTenancy.AssertExpectations(suite.T())
}

func (suite *RouterTestSuite) TestScopedRoute_NotAMember() {
	suite.mockTenancy.On("ResolveScope", mock.Anything, testUserID, testOrgID).
		Return(domain.Scope{}, apperrors.ErrNotOrganizationMember).Once()

	w := suite.do(http.MethodGet, "/api/v1/clients", "", suite.authed(map[string]string{"x-organization-id": testOrgID}))

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockClient.AssertNotCalled(suite.T(), "ListClients", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RouterTestSuite) TestListClients_OrganizationScope() {
	scope := domain.OrganizationScope(testUserID, testOrgID, domain.RoleMember)
	suite.mockTenancy.On("ResolveScope", mock.Anything, testUserID, testOrgID).Return(scope, nil).Once()
	suite.mockClient.On("ListClients", mock.Anything, scope, dto.ListClientsParams{}).
		Return([]domain.Client{{ClientID: "c-1", UserID: testUserID, Name: "Acme"}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/clients", "", suite.authed(map[string]string{"x-organization-id": testOrgID}))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListClientsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Clients, 1)
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *RouterTestSuite) TestCreateContract_SynonymEchoed() {
	scope := domain.IndividualScope(testUserID)
	suite.mockTenancy.On("ResolveScope", mock.Anything, testUserID, "").Return(scope, nil).Once()
	created := &domain.Contract{
		ContractID:   "k-1",
		UserID:       testUserID,
		Title:        "Support",
		ContractType: domain.ContractTypeService,
		Metadata:     domain.ContractMetadata{OriginalContractType: "MSA"},
		Status:       domain.ContractDraft,
		Value:        decimal.NewFromInt(1000),
		Currency:     "USD",
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	suite.mockContract.On("CreateContract", mock.Anything, scope, mock.MatchedBy(func(req dto.CreateContractRequest) bool {
		return req.ContractType == "MSA" && req.Title == "Support"
	})).Return(created, nil).Once()

	body := `{"title":"Support","contractType":"MSA","value":"1000","currency":"USD","startDate":"2026-01-01T00:00:00Z"}`
	w := suite.do(http.MethodPost, "/api/v1/contracts", body, suite.authed(nil))

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.ContractResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("MSA", resp.Type)
	suite.Equal(domain.ContractTypeService, resp.ContractType)
	suite.mockContract.AssertExpectations(suite.T())
}

func (suite *RouterTestSuite) TestCreateContract_UnsupportedTypeListsValidTypes() {
	scope := domain.IndividualScope(testUserID)
	suite.mockTenancy.On("ResolveScope", mock.Anything, testUserID, "").Return(scope, nil).Once()

	body := `{"title":"Odd","contractType":"widget","startDate":"2026-01-01T00:00:00Z"}`
	w := suite.do(http.MethodPost, "/api/v1/contracts", body, suite.authed(nil))

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp struct {
		Error   string `json:"error"`
		Details struct {
			ValidTypes []string `json:"validTypes"`
		} `json:"details"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Contains(resp.Error, "widget")
	suite.Contains(resp.Details.ValidTypes, "msa")
	suite.mockContract.AssertNotCalled(suite.T(), "CreateContract", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RouterTestSuite) TestCancelContract_EmptyBody() {
	scope := domain.IndividualScope(testUserID)
	suite.mockTenancy.On("ResolveScope", mock.Anything, testUserID, "").Return(scope, nil).Once()
	suite.mockContract.On("CancelContract", mock.Anything, scope, "k-1", "").
		Return(&domain.Contract{ContractID: "k-1", UserID: testUserID, Status: domain.ContractCancelled}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/contracts/k-1/cancel", "", suite.authed(nil))

	suite.Equal(http.StatusOK, w.Code)
	suite.mockContract.AssertExpectations(suite.T())
}

func (suite *RouterTestSuite) TestRenewContract_AlreadyRenewed() {
	scope := domain.IndividualScope(testUserID)
	suite.mockTenancy.On("ResolveScope", mock.Anything, testUserID, "").Return(scope, nil).Once()
	suite.mockContract.On("RenewContract", mock.Anything, scope, "k-1").
		Return(nil, nil, apperrors.NewConflictError("Contract has already been renewed")).Once()

	w := suite.do(http.MethodPost, "/api/v1/contracts/k-1/renew", "", suite.authed(nil))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *RouterTestSuite) TestUpdateInvoice_NumberRoundTrip() {
	scope := domain.IndividualScope(testUserID)
	suite.mockTenancy.On("ResolveScope", mock.Anything, testUserID, "").Return(scope, nil).Twice()
	updated := &domain.Invoice{
		InvoiceID:     "inv-1",
		InvoiceNumber: "INV-NEW",
		UserID:        testUserID,
		ClientID:      "client-1",
		Status:        domain.InvoiceDraft,
		Currency:      "USD",
	}
	suite.mockInvoice.On("UpdateInvoice", mock.Anything, scope, "inv-1", mock.MatchedBy(func(in dto.InvoiceInput) bool {
		return in.InvoiceNumber != nil && *in.InvoiceNumber == "INV-NEW"
	})).Return(updated, nil).Once()
	suite.mockInvoice.On("GetInvoice", mock.Anything, scope, "inv-1").Return(updated, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/invoices/inv-1", `{"invoiceNumber":"INV-NEW"}`, suite.authed(nil))
	suite.Require().Equal(http.StatusOK, w.Code)
	var put dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &put))

	w = suite.do(http.MethodGet, "/api/v1/invoices/inv-1", "", suite.authed(nil))
	suite.Require().Equal(http.StatusOK, w.Code)
	var get dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &get))

	suite.Equal("INV-NEW", put.InvoiceNumber)
	suite.Equal(put.InvoiceNumber, get.InvoiceNumber)
	suite.mockInvoice.AssertExpectations(suite.T())
}

func (suite *RouterTestSuite) TestUpdateInvoice_DuplicateNumber() {
	scope := domain.IndividualScope(testUserID)
	suite.mockTenancy.On("ResolveScope", mock.Anything, testUserID, "").Return(scope, nil).Once()
	suite.mockInvoice.On("UpdateInvoice", mock.Anything, scope, "inv-1", mock.Anything).
		Return(nil, apperrors.NewConflictError("An invoice with this number already exists")).Once()

	w := suite.do(http.MethodPut, "/api/v1/invoices/inv-1", `{"invoiceNumber":"INV-TAKEN"}`, suite.authed(nil))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *RouterTestSuite) TestPublicInvoice_IsRedacted() {
	token := "tok-abcdef0123456789"
	org := testOrgID
	email := "billing@acme.test"
	inv := &domain.Invoice{
		InvoiceID:       "inv-1",
		InvoiceNumber:   "INV-0001",
		UserID:          testUserID,
		OrganizationID:  &org,
		ClientID:        "c-1",
		Status:          domain.InvoiceSent,
		Currency:        "USD",
		TotalAmount:     decimal.NewFromInt(100),
		PublicViewToken: &token,
	}
	client := &domain.Client{ClientID: "c-1", UserID: testUserID, OrganizationID: &org, Name: "Acme", Email: &email}
	suite.mockPublic.On("GetPublicInvoice", mock.Anything, token).Return(inv, client, nil).Once()

	w := suite.do(http.MethodGet, "/public/invoice/"+token, "", nil)

	suite.Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	suite.Contains(body, "INV-0001")
	suite.Contains(body, "Acme")
	for _, leaked := range []string{token, testUserID, testOrgID, "userId", "organizationId", "publicViewToken", "inv-1"} {
		suite.NotContains(body, leaked)
	}
}

func (suite *RouterTestSuite) TestPublicContract_NotFound() {
	suite.mockPublic.On("GetPublicContract", mock.Anything, "missing").
		Return(nil, nil, apperrors.NewNotFoundError("Contract not found")).Once()

	w := suite.do(http.MethodGet, "/public/contract/missing", "", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *RouterTestSuite) TestSendInvoiceCopy_DeliveryFailure() {
	suite.mockPublic.On("SendInvoiceCopy", mock.Anything, "tok", "a@b.test").
		Return(apperrors.NewDependencyError("Failed to send email", nil)).Once()

	w := suite.do(http.MethodPost, "/public/send-invoice-copy", `{"token":"tok","email":"a@b.test"}`, nil)

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *RouterTestSuite) TestBillingWebhook_PassesRawBodyAndHeader() {
	payload := `{"id":"evt_1","type":"subscription.updated","data":{}}`
	suite.mockBilling.On("HandleWebhook", mock.Anything, []byte(payload), "t=1,v1=abc").Return(true, nil).Once()

	w := suite.do(http.MethodPost, "/webhooks/billing", payload, map[string]string{"X-Finorn-Signature": "t=1,v1=abc"})

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"received":true,"applied":true}`, w.Body.String())
}

func (suite *RouterTestSuite) TestBillingWebhook_InvalidSignature() {
	suite.mockBilling.On("HandleWebhook", mock.Anything, mock.Anything, "").
		Return(false, apperrors.NewAppError(http.StatusBadRequest, "Invalid webhook signature", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodPost, "/webhooks/billing", `{"id":"evt_1"}`, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *RouterTestSuite) TestContractSweep_RequiresCronSecret() {
	w := suite.do(http.MethodPost, "/internal/jobs/contract-sweep", "", map[string]string{"X-Cron-Secret": "wrong"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockSweep.AssertNotCalled(suite.T(), "RunSweep", mock.Anything, mock.Anything)
}

func (suite *RouterTestSuite) TestContractSweep_Runs() {
	suite.mockSweep.On("RunSweep", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(&dto.SweepResult{Scanned: 3, Renewed: 1, Expired: 1}, nil).Once()

	w := suite.do(http.MethodPost, "/internal/jobs/contract-sweep", "", map[string]string{"X-Cron-Secret": testCronSecret})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SweepResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(3, resp.Scanned)
	suite.mockSweep.AssertExpectations(suite.T())
}
