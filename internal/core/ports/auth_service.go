package ports

import (
	"context"

	"github.com/sistemabancario/banking-system/internal/core/domain"
)

// RegisterInput carries the data needed to create a new user.
type RegisterInput struct {
	Name     string
	Document string
	Phone    string
	Email    string
	Password string
}

// ProfileInput carries optional profile changes; nil fields are untouched.
type ProfileInput struct {
	Name  *string
	Phone *string
	Email *string
}

// AuthService implements registration, the guarded login, and the
// credential/profile maintenance operations.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login returns a signed session token and the user on success. Failed
	// attempts advance the per-user lockout counter as a side effect.
	Login(ctx context.Context, document, password string) (string, *domain.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	UpdateProfile(ctx context.Context, userID string, changes ProfileInput) (*domain.User, error)
}
