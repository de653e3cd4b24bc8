package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/platform/config"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/SscSPs/finorn_backend/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// GoogleIdentity is the verified identity returned by a Google sign-in.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// GoogleIdentityProvider runs the OAuth code exchange and ID token validation.
type GoogleIdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleIdentity, error)
}

var errInvalidCredentials = apperrors.NewAppError(http.StatusUnauthorized, "Invalid email or password", apperrors.ErrUnauthorized)

// authService implements the AuthSvcFacade.
type authService struct {
	BaseService
	cfg      *config.Config
	userRepo portsrepo.UserRepositoryFacade
	orgRepo  portsrepo.OrganizationWriter
	google   GoogleIdentityProvider
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade, orgRepo portsrepo.OrganizationWriter, google GoogleIdentityProvider) portssvc.AuthSvcFacade {
	return &authService{
		cfg:      cfg,
		userRepo: userRepo,
		orgRepo:  orgRepo,
		google:   google,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, *domain.Organization, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !domain.IsValidEmail(email) {
		return nil, nil, apperrors.NewValidationFailedError("Invalid email format")
	}
	if !req.AccountType.IsValid() {
		return nil, nil, apperrors.NewValidationFailedError("accountType must be individual or business")
	}
	orgName := strings.TrimSpace(req.OrganizationName)
	if req.AccountType == domain.AccountTypeBusiness && orgName == "" {
		return nil, nil, apperrors.NewValidationFailedError("organizationName is required for business accounts")
	}

	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewConflictError("An account with this email already exists")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for existing user")
		return nil, nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		AccountType:  req.AccountType,
		PasswordHash: &hash,
		AuditFields:  domain.NewAuditFields(userID, now),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("user_id", userID))
		return nil, nil, err
	}

	var org *domain.Organization
	if user.AccountType == domain.AccountTypeBusiness {
		org = &domain.Organization{
			OrganizationID: uuid.NewString(),
			Name:           orgName,
			AuditFields:    domain.NewAuditFields(userID, now),
		}
		owner := domain.OrganizationUser{
			OrganizationID: org.OrganizationID,
			UserID:         userID,
			Role:           domain.RoleOwner,
			JoinedAt:       now,
		}
		if err := s.orgRepo.SaveOrganizationWithOwner(ctx, *org, owner); err != nil {
			s.LogError(ctx, err, "Failed to create organization for new business account", slog.String("user_id", userID))
			return nil, nil, err
		}
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", userID), slog.String("account_type", string(user.AccountType)))
	return &user, org, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.RejectPasswordSlowly(password)
			return nil, errInvalidCredentials
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, err
	}
	if user.PasswordHash == nil {
		utils.RejectPasswordSlowly(password)
		return nil, errInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, *user.PasswordHash) {
		return nil, errInvalidCredentials
	}
	return user, nil
}

// IssueAccessToken creates a new JWT access token for the given user.
func (s *authService) IssueAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiry := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, err
	}
	return token, expiry, nil
}

func (s *authService) GoogleLoginURL(ctx context.Context) (string, string, error) {
	if s.google == nil {
		return "", "", apperrors.NewAppError(http.StatusServiceUnavailable, "Google sign-in is not configured", apperrors.ErrDependency)
	}
	// 16 bytes -> 32 char hex string
	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state string for OAuth: %w", err)
	}
	return s.google.AuthCodeURL(state), state, nil
}

func (s *authService) CompleteGoogleLogin(ctx context.Context, code string) (*domain.User, error) {
	if s.google == nil {
		return nil, apperrors.NewAppError(http.StatusServiceUnavailable, "Google sign-in is not configured", apperrors.ErrDependency)
	}
	identity, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.LogWarn(ctx, err, "Google sign-in failed")
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "Google sign-in failed", apperrors.ErrUnauthorized)
	}
	if !identity.EmailVerified || identity.Email == "" {
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "Google account email is not verified", apperrors.ErrUnauthorized)
	}

	email := strings.ToLower(identity.Email)
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.GoogleSubject == nil {
			if err := s.userRepo.LinkGoogleSubject(ctx, user.UserID, identity.Subject); err != nil {
				s.LogError(ctx, err, "Failed to link Google account", slog.String("user_id", user.UserID))
				return nil, err
			}
			user.GoogleSubject = &identity.Subject
		} else if *user.GoogleSubject != identity.Subject {
			return nil, apperrors.NewAppError(http.StatusUnauthorized, "This email is linked to a different Google account", apperrors.ErrUnauthorized)
		}
		return user, nil
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		s.LogError(ctx, err, "Failed to look up user for Google sign-in")
		return nil, err
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	name := identity.Name
	if name == "" {
		name = email
	}
	newUser := domain.User{
		UserID:        userID,
		Name:          name,
		Email:         email,
		AccountType:   domain.AccountTypeIndividual,
		GoogleSubject: &identity.Subject,
		AuditFields:   domain.NewAuditFields(userID, now),
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		s.LogError(ctx, err, "Failed to save Google user", slog.String("user_id", userID))
		return nil, err
	}
	s.LogInfo(ctx, "User registered via Google", slog.String("user_id", userID))
	return &newUser, nil
}

// googleOAuthProvider implements GoogleIdentityProvider with golang.org/x/oauth2 and idtoken.
type googleOAuthProvider struct {
	clientID     string
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthProvider returns nil when Google sign-in is not configured.
func NewGoogleOAuthProvider(cfg *config.Config, linkBuilder *links.Builder) GoogleIdentityProvider {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil
	}
	return &googleOAuthProvider{
		clientID: cfg.GoogleClientID,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  linkBuilder.OAuthCallbackURL(),
			Scopes:       []string{"openid", "https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *googleOAuthProvider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *googleOAuthProvider) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("google token response has no id_token")
	}
	payload, err := idtoken.Validate(ctx, rawIDToken, p.clientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}

	identity := &GoogleIdentity{Subject: payload.Subject}
	if v, ok := payload.Claims["email"].(string); ok {
		identity.Email = v
	}
	if v, ok := payload.Claims["email_verified"].(bool); ok {
		identity.EmailVerified = v
	}
	if v, ok := payload.Claims["name"].(string); ok {
		identity.Name = v
	}
	return identity, nil
}
