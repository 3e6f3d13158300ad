package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orderfood/ordering-system/internal/core/domain"
)

// DashboardHandler serves the per-role dashboard roots and the public
// landing page. The dashboards are API-shaped: each returns the signed-in
// user and their canonical dashboard route; the frontends render from there.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

type dashboardResponse struct {
	User      *domain.User `json:"user"`
	Dashboard string       `json:"dashboard"`
}

// Landing handles GET / — the public landing page. A signed-in active user
// never reaches it; the route guard bounces them to their dashboard.
func (h *DashboardHandler) Landing(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "ordering-system",
		"login":   "/login",
	})
}

// Home handles the root of each role dashboard (GET /admin, /editor,
// /employee, /kitchen).
//
// @Summary      Dashboard root
// @Tags         dashboards
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
func (h *DashboardHandler) Home(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		User:      user,
		Dashboard: domain.DashboardPath(user.Role),
	})
}
