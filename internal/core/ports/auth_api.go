package ports

import (
	"context"

	"github.com/digitalgoods/storefront/internal/core/domain"
)

// SignUpInput carries the customer registration form.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateProfileInput carries a partial profile update; nil fields are left
// untouched by the server.
type UpdateProfileInput struct {
	Name        *string
	Description *string
}

// AuthAPI is the customer-session half of the REST collaborator.
//
// Probe* variants behave exactly like their plain counterparts but do not emit
// failure diagnostics; they back session checks where 401 is the expected
// outcome.
type AuthAPI interface {
	SignUp(ctx context.Context, in SignUpInput) (*domain.RegularUser, error)
	SignIn(ctx context.Context, email, password string) (*domain.RegularUser, error)
	Profile(ctx context.Context) (*domain.RegularUser, error)
	ProbeProfile(ctx context.Context) (*domain.RegularUser, error)
	UpdateProfile(ctx context.Context, in UpdateProfileInput) (*domain.RegularUser, error)
	Logout(ctx context.Context) error
}

// AdminAPI is the back-office-session half of the REST collaborator.
type AdminAPI interface {
	SignIn(ctx context.Context, username, password string) (*domain.AdminUser, error)
	Profile(ctx context.Context) (*domain.AdminUser, error)
	ProbeProfile(ctx context.Context) (*domain.AdminUser, error)
	Logout(ctx context.Context) error
	ListUsers(ctx context.Context) ([]domain.RegularUser, error)
}
