package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitalgoods/storefront/internal/core/domain"
)

// ctxKeySession matches the key the guard middleware stores its session
// snapshot under.
const ctxKeySession = "session"

// ctxSession returns the snapshot injected by the guard middleware. Handlers
// behind a guard rely on it being present; a missing one means the route was
// wired without its guard.
func ctxSession(c echo.Context) (domain.SessionState, error) {
	st, ok := c.Get(ctxKeySession).(domain.SessionState)
	if !ok {
		return domain.SessionState{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return st, nil
}
