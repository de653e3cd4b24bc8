package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
)

type tenancyService struct {
	BaseService
	userRepo portsrepo.UserReader
	orgRepo  portsrepo.OrganizationMembershipManager
}

func NewTenancyService(userRepo portsrepo.UserReader, orgRepo portsrepo.OrganizationMembershipManager) portssvc.TenancySvc {
	return &tenancyService{userRepo: userRepo, orgRepo: orgRepo}
}

var _ portssvc.TenancySvc = (*tenancyService)(nil)

func (s *tenancyService) ResolveScope(ctx context.Context, userID string, organizationID string) (domain.Scope, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Scope{}, apperrors.NewAppError(401, "Unauthorized", apperrors.ErrUnauthorized)
		}
		s.LogError(ctx, err, "Failed to load user for tenancy resolution", slog.String("user_id", userID))
		return domain.Scope{}, err
	}

	if user.AccountType != domain.AccountTypeBusiness {
		return domain.IndividualScope(user.UserID), nil
	}

	if organizationID == "" {
		return domain.Scope{}, apperrors.ErrMissingOrganizationContext
	}

	membership, err := s.orgRepo.FindMembership(ctx, user.UserID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a member of organization",
				slog.String("user_id", userID),
				slog.String("organization_id", organizationID))
			return domain.Scope{}, apperrors.ErrNotOrganizationMember
		}
		s.LogError(ctx, err, "Failed to find organization membership",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID))
		return domain.Scope{}, err
	}

	return domain.OrganizationScope(user.UserID, membership.OrganizationID, membership.Role), nil
}
