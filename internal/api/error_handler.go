package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/digitalgoods/storefront/internal/core/domain"
)

const (
	msgServerError    = "Server error. Please try again later."
	msgAPIUnreachable = "The storefront service is unreachable. Please try again later."
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Relays storefront API rejections with their status and message.
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, copy chosen by handlers).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Rejections from the storefront API keep their status.
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind() {
		case domain.KindNetwork:
			log.Error().Err(apiErr.Cause).Str("path", c.Path()).Msg("storefront api unreachable")
			return http.StatusBadGateway, msgAPIUnreachable
		case domain.KindServerError:
			return apiErr.StatusCode, msgServerError
		}
		if apiErr.StatusCode == 0 {
			return http.StatusBadGateway, apiErr.Message
		}
		return apiErr.StatusCode, apiErr.Message
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidOrderStatus),
		errors.Is(err, domain.ErrInvalidIdentityKind):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
