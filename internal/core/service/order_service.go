package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

type orderService struct {
	orders ports.OrderRepository
	menus  ports.MenuRepository
	log    zerolog.Logger
}

// NewOrderService returns an OrderService implementation.
func NewOrderService(orders ports.OrderRepository, menus ports.MenuRepository, log zerolog.Logger) ports.OrderService {
	return &orderService{orders: orders, menus: menus, log: log}
}

// PlaceOrder places an employee's order against the published menu for the
// given date. Stock is decremented per dish; the dish price at order time is
// captured on each line.
func (s *orderService) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	if input.CompanyID == "" {
		return nil, domain.ErrNoCompany
	}
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	menu, err := s.menus.FindMenuByDate(ctx, input.Date)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	if !menu.IsPublished {
		return nil, domain.ErrMenuNotPublished
	}

	now := time.Now().UTC()
	items := make([]domain.OrderItem, 0, len(input.Items))
	total := 0.0

	// Resolve and validate every line before touching stock; a bad line must
	// not leave earlier decrements behind.
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("place order: %w: quantity must be positive", domain.ErrEmptyOrder)
		}
		dish, err := s.menus.FindDishByID(ctx, line.DishID)
		if err != nil {
			return nil, fmt.Errorf("place order: %w", err)
		}
		if dish.MenuID != menu.ID {
			return nil, fmt.Errorf("place order: %w: dish not on today's menu", domain.ErrDishNotFound)
		}
		items = append(items, domain.OrderItem{
			DishID:       dish.ID,
			DishName:     dish.Name,
			Quantity:     line.Quantity,
			PriceAtOrder: dish.Price,
		})
		total += dish.Price * float64(line.Quantity)
	}

	// Take stock line by line; if a line runs out mid-order, give back what
	// was already taken.
	for i, item := range items {
		if err := s.menus.DecrementDishStock(ctx, item.DishID, item.Quantity); err != nil {
			s.releaseStock(ctx, items[:i])
			return nil, fmt.Errorf("place order: %w", err)
		}
	}

	order := &domain.Order{
		ID:          uuid.NewString(),
		OrderCode:   generateOrderCode(),
		UserID:      input.UserID,
		MenuID:      menu.ID,
		CompanyID:   input.CompanyID,
		Status:      domain.OrderPending,
		Items:       items,
		TotalAmount: total,
		CanEdit:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: domain.OrderPending, Timestamp: now},
		},
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.releaseStock(ctx, items)
		s.log.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create order")
		return nil, err
	}

	s.log.Info().
		Str("order_code", order.OrderCode).
		Str("user_id", input.UserID).
		Str("company_id", input.CompanyID).
		Float64("total", total).
		Msg("order placed")

	return order, nil
}

// releaseStock returns stock taken for an order that was never created.
// Restore failures are logged; there is no further fallback.
func (s *orderService) releaseStock(ctx context.Context, items []domain.OrderItem) {
	for _, item := range items {
		if err := s.menus.RestoreDishStock(ctx, item.DishID, item.Quantity); err != nil {
			s.log.Error().Err(err).
				Str("dish_id", item.DishID).
				Int("quantity", item.Quantity).
				Msg("failed to restore dish stock")
		}
	}
}

func (s *orderService) ListOwnOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// KitchenBoard returns all orders created on the given date.
func (s *orderService) KitchenBoard(ctx context.Context, date string) ([]*domain.Order, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("kitchen board: invalid date %q: %w", date, err)
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return s.orders.ListCreatedBetween(ctx, from, from.AddDate(0, 0, 1))
}

// generateOrderCode returns a unique order code in the format ORD-XXXXXXXX.
func generateOrderCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("ORD-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("ORD-%08X", b)
}
