package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/orderfood/ordering-system/internal/core/ports"
)

// ProfileHandler serves the employee's own profile. It deliberately holds
// the restricted store: profile reads and writes are scoped to the caller's
// own row at the type level.
type ProfileHandler struct {
	users ports.RestrictedUserStore
}

func NewProfileHandler(users ports.RestrictedUserStore) *ProfileHandler {
	return &ProfileHandler{users: users}
}

type updateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Phone    string `json:"phone"`
}

// Get handles GET /employee/profile.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /employee/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.users.FindOwn(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PUT /employee/profile.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /employee/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.UpdateOwnProfile(c.Request().Context(), caller.ID, req.FullName, req.Phone, time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
