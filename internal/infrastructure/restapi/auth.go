package restapi

import (
	"context"
	"net/http"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
)

// AuthClient implements ports.AuthAPI.
type AuthClient struct {
	c *Client
}

var _ ports.AuthAPI = (*AuthClient)(nil)

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type userEnvelope struct {
	User *domain.RegularUser `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (a *AuthClient) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.RegularUser, error) {
	var resp userEnvelope
	err := a.c.do(ctx, call{
		method: http.MethodPost,
		route:  "/auth/signup",
		path:   "/auth/signup",
		body:   signUpRequest{Email: in.Email, Password: in.Password, Name: in.Name},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*domain.RegularUser, error) {
	var resp userEnvelope
	err := a.c.do(ctx, call{
		method: http.MethodPost,
		route:  "/auth/signin",
		path:   "/auth/signin",
		body:   signInRequest{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (a *AuthClient) Profile(ctx context.Context) (*domain.RegularUser, error) {
	return a.profile(ctx, false)
}

// ProbeProfile is Profile without failure diagnostics.
func (a *AuthClient) ProbeProfile(ctx context.Context) (*domain.RegularUser, error) {
	return a.profile(ctx, true)
}

func (a *AuthClient) profile(ctx context.Context, silent bool) (*domain.RegularUser, error) {
	var user domain.RegularUser
	err := a.c.do(ctx, call{
		method: http.MethodGet,
		route:  "/auth/me",
		path:   "/auth/me",
		silent: silent,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AuthClient) UpdateProfile(ctx context.Context, in ports.UpdateProfileInput) (*domain.RegularUser, error) {
	var user domain.RegularUser
	err := a.c.do(ctx, call{
		method: http.MethodPatch,
		route:  "/auth/profile",
		path:   "/auth/profile",
		body:   updateProfileRequest{Name: in.Name, Description: in.Description},
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AuthClient) Logout(ctx context.Context) error {
	var resp messageResponse
	return a.c.do(ctx, call{
		method: http.MethodPost,
		route:  "/auth/logout",
		path:   "/auth/logout",
	}, &resp)
}
