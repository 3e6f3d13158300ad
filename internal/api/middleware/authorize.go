package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/orderfood/ordering-system/internal/api/metrics"
	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
	"github.com/orderfood/ordering-system/internal/session"
)

// userContextKey is where Authorize stashes the resolved user for handlers.
const userContextKey = "current_user"

// Authorize runs every request through the route guard. The guard validates
// the session, resolves the user record, and decides between allowing the
// request and redirecting (to login, or to the user's own dashboard). The
// resolved user, when any, is injected into the echo context.
// Paths listed in skip (exact match) bypass the guard entirely; used for
// operational endpoints like /health and /metrics.
func Authorize(authorizer ports.Authorizer, skip ...string) echo.MiddlewareFunc {
	skipSet := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipSet[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := skipSet[c.Request().URL.Path]; ok {
				return next(c)
			}
			token := session.TokenFromRequest(c.Request())

			decision := authorizer.Authorize(c.Request().Context(), c.Request().URL.Path, token)
			metrics.AuthzDecisionsTotal.WithLabelValues(decisionLabel(decision)).Inc()

			if decision.User != nil {
				c.Set(userContextKey, decision.User)
			}
			if !decision.Allow {
				return c.Redirect(http.StatusFound, decision.RedirectTo)
			}
			return next(c)
		}
	}
}

// UserFromContext returns the user resolved by the Authorize middleware, or
// nil when the request carried no session (public routes).
func UserFromContext(c echo.Context) *domain.User {
	user, _ := c.Get(userContextKey).(*domain.User)
	return user
}

func decisionLabel(d ports.Decision) string {
	switch {
	case d.Allow:
		return "allow"
	case strings.HasPrefix(d.RedirectTo, "/login?error="):
		return "inactive_redirect"
	case strings.HasPrefix(d.RedirectTo, "/login"):
		return "login_redirect"
	default:
		return "dashboard_redirect"
	}
}
