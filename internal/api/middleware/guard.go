package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/metrics"
)

// SessionKey is the context key under which guards store the session snapshot
// they decided on.
const SessionKey = "session"

// retryAfterSeconds is advertised while the boot probes are in flight.
const retryAfterSeconds = "1"

// SessionSource is the read side of the session store.
type SessionSource interface {
	State() domain.SessionState
}

// AdminGuard gates back-office routes. While the session is still being
// restored it answers 503 without deciding anything; without an admin
// identity it redirects to signInPath.
func AdminGuard(session SessionSource, signInPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := session.State()
			decision := domain.DecideAdminAccess(st)
			metrics.GuardDecisionsTotal.WithLabelValues("admin", decision.String()).Inc()

			switch decision {
			case domain.AccessPending:
				return loading(c)
			case domain.AccessRedirect:
				return c.Redirect(http.StatusSeeOther, signInPath)
			}

			c.Set(SessionKey, st)
			return next(c)
		}
	}
}

// RequireUser gates customer-only routes (cart, orders, profile). API callers
// get a 401 rather than a redirect.
func RequireUser(session SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := session.State()
			decision := domain.DecideUserAccess(st)
			metrics.GuardDecisionsTotal.WithLabelValues("user", decision.String()).Inc()

			switch decision {
			case domain.AccessPending:
				return loading(c)
			case domain.AccessRedirect:
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "sign in required"})
			}

			c.Set(SessionKey, st)
			return next(c)
		}
	}
}

func loading(c echo.Context) error {
	c.Response().Header().Set("Retry-After", retryAfterSeconds)
	return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
}
