package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/orderfood/ordering-system/internal/core/ports"
)

// EventDispatcher is the interface the handler uses to enqueue order events.
type EventDispatcher interface {
	Enqueue(event ports.OrderEventInput)
	EnqueueBatch(events []ports.OrderEventInput)
}

// KitchenHandler serves the kitchen board and status-event ingestion.
type KitchenHandler struct {
	orders     ports.OrderService
	dispatcher EventDispatcher
}

func NewKitchenHandler(orders ports.OrderService, dispatcher EventDispatcher) *KitchenHandler {
	return &KitchenHandler{orders: orders, dispatcher: dispatcher}
}

type orderEventRequest struct {
	OrderCode string    `json:"order_code" validate:"required"`
	Status    string    `json:"status"     validate:"required,oneof=confirmed preparing ready delivered cancelled"`
	Timestamp time.Time `json:"timestamp"  validate:"required"`
	Source    string    `json:"source"     validate:"required"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// Board handles GET /kitchen/orders — all orders for a date, newest first.
//
// @Summary      Kitchen board for a date
// @Tags         kitchen
// @Produce      json
// @Param        date  query     string  false  "Date (YYYY-MM-DD), defaults to today"
// @Success      200   {array}   domain.Order
// @Failure      400   {object}  errorResponse
// @Router       /kitchen/orders [get]
func (h *KitchenHandler) Board(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	orders, err := h.orders.KitchenBoard(c.Request().Context(), date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// ReceiveEvent handles POST /kitchen/orders/events — enqueues a single
// status event, returns 202.
//
// @Summary      Ingest a single order status event
// @Tags         kitchen
// @Accept       json
// @Produce      json
// @Param        body  body      orderEventRequest  true  "Order status event"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /kitchen/orders/events [post]
func (h *KitchenHandler) ReceiveEvent(c echo.Context) error {
	var req orderEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	h.dispatcher.Enqueue(toEventInput(req))
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "event accepted"})
}

// ReceiveEventBatch handles POST /kitchen/orders/events/batch — enqueues a
// batch of status events, returns 202.
//
// @Summary      Ingest a batch of order status events
// @Tags         kitchen
// @Accept       json
// @Produce      json
// @Param        body  body      []orderEventRequest  true  "Array of order status events"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /kitchen/orders/events/batch [post]
func (h *KitchenHandler) ReceiveEventBatch(c echo.Context) error {
	var reqs []orderEventRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.OrderEventInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("event[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toEventInput(req))
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "events accepted",
		Count:   len(inputs),
	})
}

// toEventInput maps the HTTP request to the service DTO.
func toEventInput(r orderEventRequest) ports.OrderEventInput {
	return ports.OrderEventInput{
		OrderCode: r.OrderCode,
		Status:    r.Status,
		Timestamp: r.Timestamp,
		Source:    r.Source,
	}
}
