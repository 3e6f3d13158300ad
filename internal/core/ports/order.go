package ports

import (
	"context"
	"time"

	"github.com/orderfood/ordering-system/internal/core/domain"
)

// OrderItemInput is one dish line in a new order.
type OrderItemInput struct {
	DishID   string
	Quantity int
}

// PlaceOrderInput carries everything needed to place an order against the
// day's published menu.
type PlaceOrderInput struct {
	UserID    string
	CompanyID string
	Date      string // YYYY-MM-DD, the menu date ordered against
	Items     []OrderItemInput
}

// OrderService defines the employee and kitchen order operations.
type OrderService interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	ListOwnOrders(ctx context.Context, userID string) ([]*domain.Order, error)
	// KitchenBoard returns all orders created on the given date, newest first.
	KitchenBoard(ctx context.Context, date string) ([]*domain.Order, error)
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByCode(ctx context.Context, orderCode string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*domain.Order, error)
	// UpdateStatus atomically sets the order's new status and appends a
	// history entry. Delivered orders also get delivered_at stamped.
	UpdateStatus(ctx context.Context, orderCode string, status domain.OrderStatus, ts time.Time, source string) error
}

// OrderEventInput is the DTO passed from the transport layer to the kitchen
// event pipeline.
type OrderEventInput struct {
	OrderCode string
	Status    string
	Timestamp time.Time
	Source    string
}

// OrderEventService processes incoming kitchen order-status events.
// Process returns domain.ErrDuplicateEvent for an already-applied event.
type OrderEventService interface {
	Process(ctx context.Context, event OrderEventInput) error
}
