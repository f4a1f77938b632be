package restapi

import (
	"context"
	"net/http"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
)

// AdminClient implements ports.AdminAPI.
type AdminClient struct {
	c *Client
}

var _ ports.AdminAPI = (*AdminClient)(nil)

type adminSignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminEnvelope struct {
	Admin *domain.AdminUser `json:"admin"`
}

func (a *AdminClient) SignIn(ctx context.Context, username, password string) (*domain.AdminUser, error) {
	var resp adminEnvelope
	err := a.c.do(ctx, call{
		method: http.MethodPost,
		route:  "/admin/signin",
		path:   "/admin/signin",
		body:   adminSignInRequest{Username: username, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Admin, nil
}

func (a *AdminClient) Profile(ctx context.Context) (*domain.AdminUser, error) {
	return a.profile(ctx, false)
}

// ProbeProfile is Profile without failure diagnostics.
func (a *AdminClient) ProbeProfile(ctx context.Context) (*domain.AdminUser, error) {
	return a.profile(ctx, true)
}

func (a *AdminClient) profile(ctx context.Context, silent bool) (*domain.AdminUser, error) {
	var admin domain.AdminUser
	err := a.c.do(ctx, call{
		method: http.MethodGet,
		route:  "/admin/me",
		path:   "/admin/me",
		silent: silent,
	}, &admin)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (a *AdminClient) Logout(ctx context.Context) error {
	var resp messageResponse
	return a.c.do(ctx, call{
		method: http.MethodPost,
		route:  "/admin/logout",
		path:   "/admin/logout",
	}, &resp)
}

func (a *AdminClient) ListUsers(ctx context.Context) ([]domain.RegularUser, error) {
	var users []domain.RegularUser
	err := a.c.do(ctx, call{
		method: http.MethodGet,
		route:  "/admin/users",
		path:   "/admin/users",
	}, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}
