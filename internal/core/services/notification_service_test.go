package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/core/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	mockNotificationRepo *MockNotificationRepository
	mockUserRepo         *MockUserRepository
	mockMailer           *MockMailer
	service              portssvc.NotificationSvcFacade
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.mockNotificationRepo = new(MockNotificationRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockMailer = new(MockMailer)
	suite.service = services.NewNotificationService(suite.mockNotificationRepo, suite.mockUserRepo, suite.mockMailer)
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}

// --- Test Cases ---

func (suite *NotificationServiceTestSuite) TestNotify_InAppRendersTemplate() {
	ctx := context.Background()
	orgID := "org-1"
	suite.mockNotificationRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == "user-1" &&
			n.Title == "Invoice paid" &&
			n.Message == "Invoice INV-1 has been paid in full." &&
			n.OrganizationID != nil && *n.OrganizationID == "org-1"
	})).Return(nil).Once()

	notification, err := suite.service.Notify(ctx, portssvc.NotifyParams{
		UserID:         "user-1",
		OrganizationID: &orgID,
		Type:           domain.NotificationInvoicePaid,
		Data:           map[string]any{"invoiceNumber": "INV-1"},
	})

	suite.Require().NoError(err)
	suite.Equal([]domain.NotificationChannel{domain.ChannelInApp}, notification.Channels)
	suite.NotEmpty(notification.NotificationID)
	suite.mockMailer.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything)
	suite.mockNotificationRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestNotify_EmailChannelSendsToRecipient() {
	ctx := context.Background()
	suite.mockNotificationRepo.On("SaveNotification", ctx, mock.Anything).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(&domain.User{UserID: "user-1", Email: "ada@example.com"}, nil).Once()
	suite.mockMailer.On("Send", ctx, mock.MatchedBy(func(msg portssvc.EmailMessage) bool {
		return len(msg.To) == 1 && msg.To[0] == "ada@example.com" &&
			msg.Subject == "Contract expiring soon" &&
			msg.Text == "Contract \"Retainer\" expires in 7 days."
	})).Return(nil).Once()

	_, err := suite.service.Notify(ctx, portssvc.NotifyParams{
		UserID:   "user-1",
		Type:     domain.NotificationContractExpiring,
		Data:     map[string]any{"title": "Retainer", "daysToExpiry": 7},
		Channels: []domain.NotificationChannel{domain.ChannelInApp, domain.ChannelEmail},
	})

	suite.Require().NoError(err)
	suite.mockMailer.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestNotify_EmailOnlySkipsInAppRecord() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(&domain.User{UserID: "user-1", Email: "ada@example.com"}, nil).Once()
	suite.mockMailer.On("Send", ctx, mock.Anything).Return(errors.New("smtp down")).Once()

	notification, err := suite.service.Notify(ctx, portssvc.NotifyParams{
		UserID:   "user-1",
		Type:     domain.NotificationInvoiceOverdue,
		Data:     map[string]any{"invoiceNumber": "INV-2"},
		Channels: []domain.NotificationChannel{domain.ChannelEmail},
	})

	suite.Error(err)
	suite.NotNil(notification)
	suite.mockNotificationRepo.AssertNotCalled(suite.T(), "SaveNotification", mock.Anything, mock.Anything)
}

func (suite *NotificationServiceTestSuite) TestNotify_UnknownType() {
	_, err := suite.service.Notify(context.Background(), portssvc.NotifyParams{
		UserID: "user-1",
		Type:   domain.NotificationType("NOPE"),
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockNotificationRepo.AssertNotCalled(suite.T(), "SaveNotification", mock.Anything, mock.Anything)
}

func (suite *NotificationServiceTestSuite) TestNotify_MissingRecipient() {
	_, err := suite.service.Notify(context.Background(), portssvc.NotifyParams{
		Type: domain.NotificationInvoicePaid,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *NotificationServiceTestSuite) TestListNotifications_DefaultLimit() {
	ctx := context.Background()
	scope := domain.IndividualScope("user-1")
	suite.mockNotificationRepo.On("ListNotifications", ctx, scope, true, 50).Return(nil, nil).Once()

	notifications, err := suite.service.ListNotifications(ctx, scope, dto.ListNotificationsParams{Unread: true})

	suite.Require().NoError(err)
	suite.NotNil(notifications)
	suite.Empty(notifications)
	suite.mockNotificationRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestMarkRead_PropagatesNotFound() {
	ctx := context.Background()
	scope := domain.IndividualScope("user-1")
	suite.mockNotificationRepo.On("MarkNotificationRead", ctx, scope, "n-1", mock.AnythingOfType("time.Time")).
		Return(apperrors.NewNotFoundError("Notification not found")).Once()

	err := suite.service.MarkRead(ctx, scope, "n-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *NotificationServiceTestSuite) TestMarkRead_Success() {
	ctx := context.Background()
	scope := domain.OrganizationScope("user-1", "org-1", domain.RoleMember)
	before := time.Now().UTC().Add(-time.Second)
	suite.mockNotificationRepo.On("MarkNotificationRead", ctx, scope, "n-1", mock.MatchedBy(func(at time.Time) bool {
		return at.After(before)
	})).Return(nil).Once()

	suite.Require().NoError(suite.service.MarkRead(ctx, scope, "n-1"))
	suite.mockNotificationRepo.AssertExpectations(suite.T())
}
