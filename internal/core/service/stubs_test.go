package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
)

var errUnauthorized = &domain.APIError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"}

// stubAuthAPI answers from fields; nil funcs fall back to 401 / success.
type stubAuthAPI struct {
	mu      sync.Mutex
	calls   []string
	profile *domain.RegularUser

	signUpErr  error
	signInErr  error
	probeFn    func(ctx context.Context) (*domain.RegularUser, error)
	profileErr error
	updateFn   func(in ports.UpdateProfileInput) (*domain.RegularUser, error)
	logoutErr  error
}

func (s *stubAuthAPI) record(name string) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()
}

func (s *stubAuthAPI) called(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (s *stubAuthAPI) SignUp(_ context.Context, in ports.SignUpInput) (*domain.RegularUser, error) {
	s.record("signup")
	if s.signUpErr != nil {
		return nil, s.signUpErr
	}
	return &domain.RegularUser{ID: "u1", Email: in.Email, Name: in.Name}, nil
}

func (s *stubAuthAPI) SignIn(_ context.Context, email, _ string) (*domain.RegularUser, error) {
	s.record("signin")
	if s.signInErr != nil {
		return nil, s.signInErr
	}
	return &domain.RegularUser{ID: "u1", Email: email}, nil
}

func (s *stubAuthAPI) Profile(context.Context) (*domain.RegularUser, error) {
	s.record("profile")
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	if s.profile == nil {
		return nil, errUnauthorized
	}
	u := *s.profile
	return &u, nil
}

func (s *stubAuthAPI) ProbeProfile(ctx context.Context) (*domain.RegularUser, error) {
	s.record("probe")
	if s.probeFn != nil {
		return s.probeFn(ctx)
	}
	return nil, errUnauthorized
}

func (s *stubAuthAPI) UpdateProfile(_ context.Context, in ports.UpdateProfileInput) (*domain.RegularUser, error) {
	s.record("update")
	return s.updateFn(in)
}

func (s *stubAuthAPI) Logout(context.Context) error {
	s.record("logout")
	return s.logoutErr
}

type stubAdminAPI struct {
	mu    sync.Mutex
	calls []string

	signInErr error
	probeFn   func(ctx context.Context) (*domain.AdminUser, error)
	logoutErr error
	users     []domain.RegularUser
	usersErr  error
}

func (s *stubAdminAPI) record(name string) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()
}

func (s *stubAdminAPI) called(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (s *stubAdminAPI) SignIn(_ context.Context, username, _ string) (*domain.AdminUser, error) {
	s.record("signin")
	if s.signInErr != nil {
		return nil, s.signInErr
	}
	return &domain.AdminUser{ID: "a1", Username: username, Name: "Operator"}, nil
}

func (s *stubAdminAPI) Profile(ctx context.Context) (*domain.AdminUser, error) {
	s.record("profile")
	return s.ProbeProfile(ctx)
}

func (s *stubAdminAPI) ProbeProfile(ctx context.Context) (*domain.AdminUser, error) {
	s.record("probe")
	if s.probeFn != nil {
		return s.probeFn(ctx)
	}
	return nil, errUnauthorized
}

func (s *stubAdminAPI) Logout(context.Context) error {
	s.record("logout")
	return s.logoutErr
}

func (s *stubAdminAPI) ListUsers(context.Context) ([]domain.RegularUser, error) {
	s.record("users")
	return s.users, s.usersErr
}

// stubCartAPI keeps a server-side cart in memory.
type stubCartAPI struct {
	mu    sync.Mutex
	total int
	err   error
	gets  int
}

func (s *stubCartAPI) snapshot() (*domain.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Cart{Items: []domain.CartItem{}, TotalItems: s.total}, nil
}

func (s *stubCartAPI) Get(context.Context) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	return s.snapshot()
}

func (s *stubCartAPI) AddItem(_ context.Context, _ string, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.total += quantity
	}
	return s.snapshot()
}

func (s *stubCartAPI) UpdateItem(_ context.Context, _ string, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.total = quantity
	}
	return s.snapshot()
}

func (s *stubCartAPI) RemoveItem(context.Context, string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.total = 0
	}
	return s.snapshot()
}

func (s *stubCartAPI) Clear(context.Context) (*domain.Cart, error) {
	return s.RemoveItem(context.Background(), "")
}

func (s *stubCartAPI) setTotal(n int) {
	s.mu.Lock()
	s.total = n
	s.mu.Unlock()
}

type stubOrderAPI struct {
	cart *stubCartAPI
	err  error
}

func (s *stubOrderAPI) List(context.Context) ([]domain.Order, error) {
	return []domain.Order{}, s.err
}

func (s *stubOrderAPI) Checkout(context.Context) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.cart.setTotal(0)
	return &domain.Order{ID: "o1", Status: domain.OrderProcessing}, nil
}
