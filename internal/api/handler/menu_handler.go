package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

// MenuHandler serves menu creation and editing under /editor and the
// published-menu read under /employee.
type MenuHandler struct {
	service ports.MenuService
}

func NewMenuHandler(service ports.MenuService) *MenuHandler {
	return &MenuHandler{service: service}
}

// CreateMenu handles POST /editor/menus.
//
// @Summary      Open a menu for a date
// @Tags         menus
// @Accept       json
// @Produce      json
// @Param        body  body      createMenuRequest  true  "Menu date"
// @Success      201   {object}  domain.Menu
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /editor/menus [post]
func (h *MenuHandler) CreateMenu(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createMenuRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	menu, err := h.service.CreateMenu(c.Request().Context(), ports.CreateMenuInput{
		MenuDate:  req.MenuDate,
		CreatedBy: caller.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, menu)
}

// AddDish handles POST /editor/menus/:id/dishes.
//
// @Summary      Add a dish to a menu
// @Tags         menus
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Menu id"
// @Param        body  body      addDishRequest  true  "Dish fields"
// @Success      201   {object}  domain.Dish
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /editor/menus/{id}/dishes [post]
func (h *MenuHandler) AddDish(c echo.Context) error {
	var req addDishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dish, err := h.service.AddDish(c.Request().Context(), ports.AddDishInput{
		MenuID:          c.Param("id"),
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		ImageURL:        req.ImageURL,
		Category:        domain.DishCategory(req.Category),
		InitialQuantity: req.InitialQuantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dish)
}

// Publish handles POST /editor/menus/:id/publish. Publishing is idempotent.
//
// @Summary      Publish a menu
// @Tags         menus
// @Produce      json
// @Param        id  path      string  true  "Menu id"
// @Success      200  {object}  domain.Menu
// @Failure      404  {object}  errorResponse
// @Router       /editor/menus/{id}/publish [post]
func (h *MenuHandler) Publish(c echo.Context) error {
	menu, err := h.service.PublishMenu(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menu)
}

// Get handles GET /editor/menus/:id — the editor view, published or not.
//
// @Summary      Get a menu with its dishes
// @Tags         menus
// @Produce      json
// @Param        id  path      string  true  "Menu id"
// @Success      200  {object}  menuResponse
// @Failure      404  {object}  errorResponse
// @Router       /editor/menus/{id} [get]
func (h *MenuHandler) Get(c echo.Context) error {
	menu, err := h.service.GetMenu(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMenuResponse(menu))
}

// Published handles GET /employee/menu — the published menu for a date
// (today when the date query param is absent).
//
// @Summary      Get the published menu for a date
// @Tags         menus
// @Produce      json
// @Param        date  query     string  false  "Menu date (YYYY-MM-DD), defaults to today"
// @Success      200   {object}  menuResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /employee/menu [get]
func (h *MenuHandler) Published(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	menu, err := h.service.PublishedMenu(c.Request().Context(), date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMenuResponse(menu))
}
