package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/orderfood/ordering-system/internal/api/metrics"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

// OrderHandler serves employee order placement and listing.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type orderItemRequest struct {
	DishID   string `json:"dish_id"  validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type placeOrderRequest struct {
	Date  string             `json:"date"  validate:"omitempty,datetime=2006-01-02"`
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Place handles POST /employee/orders — places an order against the day's
// published menu.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      placeOrderRequest  true  "Order lines"
// @Success      201   {object}  domain.Order
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /employee/orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date := req.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	items := make([]ports.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.OrderItemInput{DishID: it.DishID, Quantity: it.Quantity})
	}

	order, err := h.service.PlaceOrder(c.Request().Context(), ports.PlaceOrderInput{
		UserID:    caller.ID,
		CompanyID: caller.CompanyID,
		Date:      date,
		Items:     items,
	})
	if err != nil {
		return err
	}

	metrics.OrdersPlacedTotal.Inc()
	return c.JSON(http.StatusCreated, order)
}

// ListOwn handles GET /employee/orders — the caller's own order history,
// newest first.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  errorResponse
// @Router       /employee/orders [get]
func (h *OrderHandler) ListOwn(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListOwnOrders(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}
