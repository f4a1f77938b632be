package ports

import (
	"context"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/pkg/notify"
)

// SessionService is what the presentation layer sees of the session store.
type SessionService interface {
	Bootstrap(ctx context.Context) domain.SessionState
	State() domain.SessionState
	Ready() <-chan struct{}
	Subscribe(fn func(domain.SessionState)) *notify.Subscription

	Login(ctx context.Context, email, password string) error
	LoginAdmin(ctx context.Context, username, password string) error
	Signup(ctx context.Context, email, password, name string) error
	UpdateProfile(ctx context.Context, in UpdateProfileInput) error
	// Logout ends the given identity; an empty kind means "admin if present,
	// else user". It never fails from the caller's point of view.
	Logout(ctx context.Context, kind domain.IdentityKind)
}

// CartService performs cart mutations and announces them.
type CartService interface {
	Get(ctx context.Context) (*domain.Cart, error)
	AddItem(ctx context.Context, productID string, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, itemID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, itemID string) (*domain.Cart, error)
	Clear(ctx context.Context) (*domain.Cart, error)
	Checkout(ctx context.Context) (*domain.Order, error)
	Orders(ctx context.Context) ([]domain.Order, error)
}
