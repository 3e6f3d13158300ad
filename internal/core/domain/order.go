package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of an order on the kitchen board.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// orderTransitions defines the allowed state machine transitions.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderDelivered},
}

var ErrInvalidTransition = errors.New("invalid order status transition")
var ErrDuplicateEvent = errors.New("order event already processed")
var ErrOrderNotFound = errors.New("order not found")
var ErrOrderLocked = errors.New("order can no longer be edited")
var ErrEmptyOrder = errors.New("order has no items")
var ErrNoCompany = errors.New("user has no company assigned")

// CanTransitionTo reports whether a transition from the current status to
// next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a dish line on an order. PriceAtOrder captures the dish price
// at the moment the order was placed.
type OrderItem struct {
	DishID       string  `json:"dish_id" bson:"dish_id"`
	DishName     string  `json:"dish_name" bson:"dish_name"`
	Quantity     int     `json:"quantity" bson:"quantity"`
	PriceAtOrder float64 `json:"price_at_order" bson:"price_at_order"`
}

// StatusHistoryEntry records a single status transition on an order.
type StatusHistoryEntry struct {
	Status    OrderStatus `json:"status" bson:"status"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
	Source    string      `json:"source,omitempty" bson:"source,omitempty"`
}

// Order is an employee's order against a published daily menu.
type Order struct {
	ID            string               `json:"id" bson:"_id,omitempty"`
	OrderCode     string               `json:"order_code" bson:"order_code"`
	UserID        string               `json:"user_id" bson:"user_id"`
	MenuID        string               `json:"menu_id" bson:"menu_id"`
	CompanyID     string               `json:"company_id" bson:"company_id"`
	Status        OrderStatus          `json:"status" bson:"status"`
	Items         []OrderItem          `json:"items" bson:"items"`
	TotalAmount   float64              `json:"total_amount" bson:"total_amount"`
	CanEdit       bool                 `json:"can_edit" bson:"can_edit"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
	DeliveredAt   *time.Time           `json:"delivered_at,omitempty" bson:"delivered_at,omitempty"`
	StatusHistory []StatusHistoryEntry `json:"status_history" bson:"status_history"`
}
