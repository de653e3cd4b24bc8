package services

import (
	"context"
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/dto"
)

// AuthSvcFacade covers password and Google sign-in plus access token issuance.
type AuthSvcFacade interface {
	// Register creates a user. Business accounts also get their first organization, owned by the user.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, *domain.Organization, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	IssueAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GoogleLoginURL returns the consent URL and the state value the callback must echo.
	GoogleLoginURL(ctx context.Context) (string, string, error)
	// CompleteGoogleLogin exchanges the code, validates the ID token and finds or creates the user.
	CompleteGoogleLogin(ctx context.Context, code string) (*domain.User, error)
}
