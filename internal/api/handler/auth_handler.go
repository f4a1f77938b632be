package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitalgoods/storefront/internal/core/ports"
)

// AuthHandler serves the customer session: sign-up, sign-in, profile and
// logout, plus the session snapshot shared with the admin pages.
type AuthHandler struct {
	session ports.SessionService
}

func NewAuthHandler(session ports.SessionService) *AuthHandler {
	return &AuthHandler{session: session}
}

// Session returns both identity slots.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionResponse(h.session.State()))
}

// SignUp registers a customer and signs them in.
//
// @Summary      Register a new customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Registration form"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return invalidInput(err)
	}

	if err := h.session.Signup(c.Request().Context(), req.Email, req.Password, req.Name); err != nil {
		return authFailure(err)
	}
	return c.JSON(http.StatusCreated, toSessionResponse(h.session.State()))
}

// SignIn authenticates a customer.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return invalidInput(err)
	}

	if err := h.session.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return authFailure(err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.session.State()))
}

// UpdateProfile changes the signed-in customer's name or description.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return invalidInput(err)
	}

	in := ports.UpdateProfileInput{Name: req.Name, Description: req.Description}
	if err := h.session.UpdateProfile(c.Request().Context(), in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.session.State()))
}

// Logout ends one identity. The body is optional; without a kind the admin
// identity is ended when present, otherwise the customer one. It always
// succeeds.
//
// @Summary      Sign out
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      logoutRequest  false  "Identity to end"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return invalidInput(err)
		}
	}

	h.session.Logout(c.Request().Context(), req.Kind)
	return c.JSON(http.StatusOK, toSessionResponse(h.session.State()))
}
