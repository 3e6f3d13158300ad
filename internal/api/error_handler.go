package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orderfood/ordering-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusForbidden, "account is inactive"
	case errors.Is(err, domain.ErrReconcileCreate), errors.Is(err, domain.ErrReconcileUpdate):
		// The credential verified but the user record could not be written.
		// No session was issued; nothing for the user to retry.
		return http.StatusInternalServerError, "could not prepare your account, contact an administrator"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "invalid role"
	case errors.Is(err, domain.ErrCompanyNotFound):
		return http.StatusNotFound, "company not found"
	case errors.Is(err, domain.ErrCompanyExists):
		return http.StatusConflict, "company already exists"
	case errors.Is(err, domain.ErrMenuNotFound):
		return http.StatusNotFound, "menu not found"
	case errors.Is(err, domain.ErrMenuExists):
		return http.StatusConflict, "a menu already exists for that date"
	case errors.Is(err, domain.ErrMenuNotPublished):
		return http.StatusConflict, "menu is not published"
	case errors.Is(err, domain.ErrDishNotFound):
		return http.StatusNotFound, "dish not found"
	case errors.Is(err, domain.ErrDishUnavailable):
		return http.StatusConflict, "dish is out of stock"
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "order not found"
	case errors.Is(err, domain.ErrOrderLocked):
		return http.StatusConflict, "order can no longer be edited"
	case errors.Is(err, domain.ErrEmptyOrder):
		return http.StatusBadRequest, "order has no items"
	case errors.Is(err, domain.ErrNoCompany):
		return http.StatusUnprocessableEntity, "user has no company assigned"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
