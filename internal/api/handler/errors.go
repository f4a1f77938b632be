package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/digitalgoods/storefront/internal/core/domain"
)

// Copy shown by the customer sign-in and sign-up forms.
const (
	msgInvalidCredentials = "Invalid email or password. Please try again."
	msgAccountExists      = "An account with this email already exists."
	msgPasswordTooShort   = "Password must be at least 6 characters long."
	msgInvalidEmail       = "Please enter a valid email address."
	msgAdminCredentials   = "Invalid credentials. Please try again."
)

// authFailure turns an API rejection of a customer auth form into the copy
// the form shows. Errors it does not recognise are returned unchanged for the
// central error handler.
func authFailure(err error) error {
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Kind() {
	case domain.KindUnauthorized:
		return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidCredentials).SetInternal(err)
	case domain.KindConflict:
		return echo.NewHTTPError(http.StatusConflict, msgAccountExists).SetInternal(err)
	case domain.KindBadRequest:
		msg := strings.ToLower(apiErr.Message)
		switch {
		case strings.Contains(msg, "password"):
			return echo.NewHTTPError(http.StatusBadRequest, msgPasswordTooShort).SetInternal(err)
		case strings.Contains(msg, "email"):
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidEmail).SetInternal(err)
		}
	}
	return err
}

// adminAuthFailure keeps the server's message when there is one.
func adminAuthFailure(err error) error {
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind() != domain.KindUnauthorized {
		return err
	}
	msg := apiErr.Message
	if msg == "" || msg == domain.DefaultErrorMessage {
		msg = msgAdminCredentials
	}
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(err)
}

// invalidInput is the 400 answered when binding or validation fails before
// any upstream call.
func invalidInput(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
