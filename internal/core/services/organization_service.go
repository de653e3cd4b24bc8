package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/google/uuid"
)

// organizationService implements the OrganizationSvcFacade interface
type organizationService struct {
	BaseService
	orgRepo  portsrepo.OrganizationRepositoryFacade
	userRepo portsrepo.UserReader
	mailer   portssvc.Mailer
	links    *links.Builder
}

func NewOrganizationService(
	orgRepo portsrepo.OrganizationRepositoryFacade,
	userRepo portsrepo.UserReader,
	mailer portssvc.Mailer,
	linkBuilder *links.Builder,
) portssvc.OrganizationSvcFacade {
	return &organizationService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
		mailer:   mailer,
		links:    linkBuilder,
	}
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

func (s *organizationService) CreateOrganization(ctx context.Context, userID, name string) (*domain.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("Organization name is required")
	}

	now := time.Now().UTC()
	org := domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           name,
		AuditFields:    domain.NewAuditFields(userID, now),
	}
	owner := domain.OrganizationUser{
		OrganizationID: org.OrganizationID,
		UserID:         userID,
		Role:           domain.RoleOwner,
		JoinedAt:       now,
	}
	if err := s.orgRepo.SaveOrganizationWithOwner(ctx, org, owner); err != nil {
		s.LogError(ctx, err, "Failed to save organization", slog.String("organization_id", org.OrganizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Organization created successfully",
		slog.String("organization_id", org.OrganizationID),
		slog.String("creator_id", userID))
	return &org, nil
}

func (s *organizationService) ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	orgs, err := s.orgRepo.ListOrganizationsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list organizations for user", slog.String("user_id", userID))
		return nil, err
	}
	if orgs == nil {
		return []domain.Organization{}, nil
	}
	return orgs, nil
}

func (s *organizationService) AddMember(ctx context.Context, requestingUserID, organizationID, email string, role domain.OrganizationRole) (*domain.OrganizationUser, error) {
	if !role.IsValid() {
		return nil, apperrors.NewValidationFailedError("role must be OWNER, ADMIN or MEMBER")
	}

	caller, err := s.orgRepo.FindMembership(ctx, requestingUserID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotOrganizationMember
		}
		s.LogError(ctx, err, "Failed to find caller membership", slog.String("organization_id", organizationID))
		return nil, err
	}
	if !caller.Role.Satisfies(domain.RoleAdmin) {
		return nil, apperrors.NewForbiddenError("Only organization owners and admins can add members")
	}
	if role == domain.RoleOwner && caller.Role != domain.RoleOwner {
		return nil, apperrors.NewForbiddenError("Only organization owners can add owners")
	}

	target, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("No user with this email exists")
		}
		return nil, err
	}
	if target.AccountType != domain.AccountTypeBusiness {
		return nil, apperrors.NewValidationFailedError("Only business accounts can join organizations")
	}

	membership := domain.OrganizationUser{
		OrganizationID: organizationID,
		UserID:         target.UserID,
		Role:           role,
		JoinedAt:       time.Now().UTC(),
	}
	if err := s.orgRepo.AddMember(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add member",
			slog.String("organization_id", organizationID),
			slog.String("target_user_id", target.UserID))
		return nil, err
	}

	if s.mailer != nil {
		msg := portssvc.EmailMessage{
			To:       []string{target.Email},
			Subject:  "You have been added to an organization on Finorn",
			Text:     "You now have access to an organization on Finorn: " + s.links.InvitationURL(organizationID),
			Template: "organization_invitation",
			Data: map[string]any{
				"organizationId": organizationID,
				"role":           string(role),
				"url":            s.links.InvitationURL(organizationID),
			},
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.LogWarn(ctx, err, "Failed to send invitation email", slog.String("target_user_id", target.UserID))
		}
	}

	s.LogInfo(ctx, "Member added to organization",
		slog.String("organization_id", organizationID),
		slog.String("target_user_id", target.UserID),
		slog.String("role", string(role)))
	return &membership, nil
}
