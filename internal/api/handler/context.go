package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orderfood/ordering-system/internal/api/middleware"
	"github.com/orderfood/ordering-system/internal/core/domain"
)

// currentUser extracts the user resolved by the Authorize middleware and
// performs a fast-fail check before any service call: on protected routes a
// missing user means the middleware chain was miswired, so reject rather
// than proceed anonymously.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.UserFromContext(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated user")
	}
	return user, nil
}
