package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/core/services"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OrganizationServiceTestSuite struct {
	suite.Suite
	mockOrgRepo  *MockOrganizationRepository
	mockUserRepo *MockUserRepository
	mockMailer   *MockMailer
	service      portssvc.OrganizationSvcFacade
}

func (suite *OrganizationServiceTestSuite) SetupTest() {
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockMailer = new(MockMailer)
	suite.service = services.NewOrganizationService(
		suite.mockOrgRepo,
		suite.mockUserRepo,
		suite.mockMailer,
		links.NewBuilder("https://app.finorn.test", "https://api.finorn.test"),
	)
}

func TestOrganizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceTestSuite))
}

func (suite *OrganizationServiceTestSuite) membership(role domain.OrganizationRole) *domain.OrganizationUser {
	return &domain.OrganizationUser{OrganizationID: "org-1", UserID: "user-1", Role: role}
}

// --- Test Cases ---

func (suite *OrganizationServiceTestSuite) TestCreateOrganization_CreatorBecomesOwner() {
	ctx := context.Background()
	suite.mockOrgRepo.On("SaveOrganizationWithOwner", ctx,
		mock.MatchedBy(func(org domain.Organization) bool { return org.Name == "Acme" && org.CreatedBy == "user-1" }),
		mock.MatchedBy(func(owner domain.OrganizationUser) bool { return owner.UserID == "user-1" && owner.Role == domain.RoleOwner }),
	).Return(nil).Once()

	org, err := suite.service.CreateOrganization(ctx, "user-1", "  Acme ")

	suite.Require().NoError(err)
	suite.Equal("Acme", org.Name)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func (suite *OrganizationServiceTestSuite) TestCreateOrganization_BlankName() {
	_, err := suite.service.CreateOrganization(context.Background(), "user-1", "   ")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrgRepo.AssertNotCalled(suite.T(), "SaveOrganizationWithOwner", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrganizationServiceTestSuite) TestListUserOrganizations_EmptyIsNotNil() {
	ctx := context.Background()
	suite.mockOrgRepo.On("ListOrganizationsByUserID", ctx, "user-1").Return(nil, nil).Once()

	orgs, err := suite.service.ListUserOrganizations(ctx, "user-1")

	suite.Require().NoError(err)
	suite.NotNil(orgs)
}

func (suite *OrganizationServiceTestSuite) TestAddMember_CallerNotMember() {
	ctx := context.Background()
	suite.mockOrgRepo.On("FindMembership", ctx, "user-1", "org-1").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AddMember(ctx, "user-1", "org-1", "bob@example.com", domain.RoleMember)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByEmail", mock.Anything, mock.Anything)
}

func (suite *OrganizationServiceTestSuite) TestAddMember_PlainMemberCannotInvite() {
	ctx := context.Background()
	suite.mockOrgRepo.On("FindMembership", ctx, "user-1", "org-1").Return(suite.membership(domain.RoleMember), nil).Once()

	_, err := suite.service.AddMember(ctx, "user-1", "org-1", "bob@example.com", domain.RoleMember)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *OrganizationServiceTestSuite) TestAddMember_AdminCannotAddOwner() {
	ctx := context.Background()
	suite.mockOrgRepo.On("FindMembership", ctx, "user-1", "org-1").Return(suite.membership(domain.RoleAdmin), nil).Once()

	_, err := suite.service.AddMember(ctx, "user-1", "org-1", "bob@example.com", domain.RoleOwner)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockOrgRepo.AssertNotCalled(suite.T(), "AddMember", mock.Anything, mock.Anything)
}

func (suite *OrganizationServiceTestSuite) TestAddMember_InvalidRole() {
	_, err := suite.service.AddMember(context.Background(), "user-1", "org-1", "bob@example.com", domain.OrganizationRole("GUEST"))

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrgRepo.AssertNotCalled(suite.T(), "FindMembership", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrganizationServiceTestSuite) TestAddMember_TargetMustBeBusinessAccount() {
	ctx := context.Background()
	suite.mockOrgRepo.On("FindMembership", ctx, "user-1", "org-1").Return(suite.membership(domain.RoleOwner), nil).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "bob@example.com").
		Return(&domain.User{UserID: "user-2", Email: "bob@example.com", AccountType: domain.AccountTypeIndividual}, nil).Once()

	_, err := suite.service.AddMember(ctx, "user-1", "org-1", "Bob@Example.com", domain.RoleMember)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *OrganizationServiceTestSuite) TestAddMember_UnknownEmail() {
	ctx := context.Background()
	suite.mockOrgRepo.On("FindMembership", ctx, "user-1", "org-1").Return(suite.membership(domain.RoleAdmin), nil).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AddMember(ctx, "user-1", "org-1", "ghost@example.com", domain.RoleMember)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *OrganizationServiceTestSuite) TestAddMember_SuccessSendsInvitation() {
	ctx := context.Background()
	suite.mockOrgRepo.On("FindMembership", ctx, "user-1", "org-1").Return(suite.membership(domain.RoleOwner), nil).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "bob@example.com").
		Return(&domain.User{UserID: "user-2", Email: "bob@example.com", AccountType: domain.AccountTypeBusiness}, nil).Once()
	suite.mockOrgRepo.On("AddMember", ctx, mock.MatchedBy(func(m domain.OrganizationUser) bool {
		return m.UserID == "user-2" && m.OrganizationID == "org-1" && m.Role == domain.RoleOwner
	})).Return(nil).Once()
	suite.mockMailer.On("Send", ctx, mock.MatchedBy(func(msg portssvc.EmailMessage) bool {
		return msg.To[0] == "bob@example.com" && msg.Template == "organization_invitation"
	})).Return(errors.New("queue unavailable")).Once()

	// An invitation email failure does not undo the membership.
	membership, err := suite.service.AddMember(ctx, "user-1", "org-1", "bob@example.com", domain.RoleOwner)

	suite.Require().NoError(err)
	suite.Equal("user-2", membership.UserID)
	suite.mockOrgRepo.AssertExpectations(suite.T())
	suite.mockMailer.AssertExpectations(suite.T())
}
