package repositories

import (
	"context"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// UserReader defines read operations for users
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserWriter defines write operations for users
type UserWriter interface {
	SaveUser(ctx context.Context, user domain.User) error
	// LinkGoogleSubject attaches a Google account to an existing user.
	LinkGoogleSubject(ctx context.Context, userID, subject string) error
}

// UserRepositoryFacade combines all user repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
