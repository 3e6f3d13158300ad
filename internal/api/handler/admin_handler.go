package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orderfood/ordering-system/internal/core/ports"
)

// AdminHandler serves user and company management under /admin.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type createUserRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	FullName  string `json:"full_name"  validate:"required,min=2"`
	Phone     string `json:"phone"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"       validate:"required,oneof=employee kitchen menu_editor admin"`
	IsActive  *bool  `json:"is_active"`
}

type updateUserRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	CompanyID *string `json:"company_id,omitempty"`
	Role      *string `json:"role,omitempty"      validate:"omitempty,oneof=employee kitchen menu_editor admin"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

type createCompanyRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

type setCompanyActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// ListUsers handles GET /admin/users.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      401  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /admin/users. The row is created unlinked; the
// user's first sign-in reconciles it to their provider identity.
//
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User fields"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	user, err := h.service.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Email:     req.Email,
		FullName:  req.FullName,
		Phone:     req.Phone,
		CompanyID: req.CompanyID,
		Role:      req.Role,
		IsActive:  active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PATCH /admin/users/:id.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.UpdateUser(c.Request().Context(), c.Param("id"), ports.UserUpdate{
		FullName:  req.FullName,
		Phone:     req.Phone,
		CompanyID: req.CompanyID,
		Role:      req.Role,
		IsActive:  req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ListCompanies handles GET /admin/companies.
//
// @Summary      List companies
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.Company
// @Router       /admin/companies [get]
func (h *AdminHandler) ListCompanies(c echo.Context) error {
	companies, err := h.service.ListCompanies(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companies)
}

// CreateCompany handles POST /admin/companies.
//
// @Summary      Create a company
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      createCompanyRequest  true  "Company fields"
// @Success      201   {object}  domain.Company
// @Failure      409   {object}  map[string]string
// @Router       /admin/companies [post]
func (h *AdminHandler) CreateCompany(c echo.Context) error {
	var req createCompanyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	company, err := h.service.CreateCompany(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, company)
}

// SetCompanyActive handles PATCH /admin/companies/:id/active.
//
// @Summary      Activate or deactivate a company
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Company id"
// @Param        body  body      setCompanyActiveRequest  true  "Active flag"
// @Success      200   {object}  domain.Company
// @Failure      404   {object}  map[string]string
// @Router       /admin/companies/{id}/active [patch]
func (h *AdminHandler) SetCompanyActive(c echo.Context) error {
	var req setCompanyActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	company, err := h.service.SetCompanyActive(c.Request().Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}
