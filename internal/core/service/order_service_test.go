package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

func publishedMenuFixture() *stubMenuRepo {
	repo := newStubMenuRepo()
	now := time.Now().UTC()
	repo.addMenu(&domain.Menu{ID: "m1", MenuDate: "2026-09-01", IsPublished: true, PublishedAt: &now})
	repo.dishes["d1"] = &domain.Dish{ID: "d1", MenuID: "m1", Name: "Pollo con mole", Price: 95, AvailableQuantity: 10}
	repo.dishes["d2"] = &domain.Dish{ID: "d2", MenuID: "m1", Name: "Agua de jamaica", Price: 20, AvailableQuantity: 50}
	return repo
}

func placeInput(items ...ports.OrderItemInput) ports.PlaceOrderInput {
	return ports.PlaceOrderInput{
		UserID:    "u1",
		CompanyID: "c1",
		Date:      "2026-09-01",
		Items:     items,
	}
}

func TestOrderService_PlaceOrder(t *testing.T) {
	menus := publishedMenuFixture()
	orders := newStubOrderRepo()
	svc := NewOrderService(orders, menus, zerolog.Nop())

	order, err := svc.PlaceOrder(context.Background(), placeInput(
		ports.OrderItemInput{DishID: "d1", Quantity: 2},
		ports.OrderItemInput{DishID: "d2", Quantity: 1},
	))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if order.Status != domain.OrderPending {
		t.Errorf("status = %s, want pending", order.Status)
	}
	if !order.CanEdit {
		t.Errorf("fresh order must be editable")
	}
	if order.TotalAmount != 2*95+20 {
		t.Errorf("total = %v, want 210", order.TotalAmount)
	}
	if len(order.StatusHistory) != 1 || order.StatusHistory[0].Status != domain.OrderPending {
		t.Errorf("history must be seeded with the pending entry")
	}
	if order.Items[0].PriceAtOrder != 95 {
		t.Errorf("line must capture the dish price at order time")
	}
	if menus.dishes["d1"].AvailableQuantity != 8 {
		t.Errorf("stock not decremented: %d", menus.dishes["d1"].AvailableQuantity)
	}
	if matched, _ := regexp.MatchString(`^ORD-[0-9A-F]{8}$`, order.OrderCode); !matched {
		t.Errorf("order code %q does not match ORD-XXXXXXXX", order.OrderCode)
	}
}

func TestOrderService_PlaceOrder_RequiresCompany(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), publishedMenuFixture(), zerolog.Nop())

	in := placeInput(ports.OrderItemInput{DishID: "d1", Quantity: 1})
	in.CompanyID = ""
	if _, err := svc.PlaceOrder(context.Background(), in); !errors.Is(err, domain.ErrNoCompany) {
		t.Fatalf("expected ErrNoCompany, got: %v", err)
	}
}

func TestOrderService_PlaceOrder_RequiresItems(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), publishedMenuFixture(), zerolog.Nop())

	if _, err := svc.PlaceOrder(context.Background(), placeInput()); !errors.Is(err, domain.ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got: %v", err)
	}
}

func TestOrderService_PlaceOrder_RequiresPublishedMenu(t *testing.T) {
	menus := newStubMenuRepo()
	menus.addMenu(&domain.Menu{ID: "m1", MenuDate: "2026-09-01"}) // unpublished
	svc := NewOrderService(newStubOrderRepo(), menus, zerolog.Nop())

	if _, err := svc.PlaceOrder(context.Background(), placeInput(ports.OrderItemInput{DishID: "d1", Quantity: 1})); !errors.Is(err, domain.ErrMenuNotPublished) {
		t.Fatalf("expected ErrMenuNotPublished, got: %v", err)
	}
}

func TestOrderService_PlaceOrder_RejectsDishFromAnotherMenu(t *testing.T) {
	menus := publishedMenuFixture()
	menus.dishes["dx"] = &domain.Dish{ID: "dx", MenuID: "other-menu", Price: 10, AvailableQuantity: 5}
	svc := NewOrderService(newStubOrderRepo(), menus, zerolog.Nop())

	_, err := svc.PlaceOrder(context.Background(), placeInput(
		ports.OrderItemInput{DishID: "d1", Quantity: 2},
		ports.OrderItemInput{DishID: "dx", Quantity: 1},
	))
	if !errors.Is(err, domain.ErrDishNotFound) {
		t.Fatalf("expected ErrDishNotFound for off-menu dish, got: %v", err)
	}
	if len(menus.decrements) != 0 {
		t.Errorf("rejected order must not touch stock, got decrements: %v", menus.decrements)
	}
}

func TestOrderService_PlaceOrder_FailedLineRestoresEarlierStock(t *testing.T) {
	menus := publishedMenuFixture()
	menus.noStock["d2"] = true
	orders := newStubOrderRepo()
	svc := NewOrderService(orders, menus, zerolog.Nop())

	_, err := svc.PlaceOrder(context.Background(), placeInput(
		ports.OrderItemInput{DishID: "d1", Quantity: 3},
		ports.OrderItemInput{DishID: "d2", Quantity: 1},
	))
	if !errors.Is(err, domain.ErrDishUnavailable) {
		t.Fatalf("expected ErrDishUnavailable, got: %v", err)
	}
	if len(orders.created) != 0 {
		t.Fatalf("failed order must not be created")
	}
	if got := menus.dishes["d1"].AvailableQuantity; got != 10 {
		t.Errorf("d1 availability = %d after failed order, want 10", got)
	}
	if len(menus.restores) != 1 || menus.restores[0] != "d1" {
		t.Errorf("expected d1's decrement to be given back, got restores: %v", menus.restores)
	}
}

func TestOrderService_PlaceOrder_CreateFailureRestoresStock(t *testing.T) {
	menus := publishedMenuFixture()
	orders := newStubOrderRepo()
	orders.createErr = errors.New("write failed")
	svc := NewOrderService(orders, menus, zerolog.Nop())

	_, err := svc.PlaceOrder(context.Background(), placeInput(
		ports.OrderItemInput{DishID: "d1", Quantity: 2},
		ports.OrderItemInput{DishID: "d2", Quantity: 1},
	))
	if err == nil {
		t.Fatal("expected create failure to surface")
	}
	if menus.dishes["d1"].AvailableQuantity != 10 || menus.dishes["d2"].AvailableQuantity != 50 {
		t.Errorf("stock must be fully restored, got d1=%d d2=%d",
			menus.dishes["d1"].AvailableQuantity, menus.dishes["d2"].AvailableQuantity)
	}
}

func TestOrderService_PlaceOrder_OutOfStock(t *testing.T) {
	menus := publishedMenuFixture()
	menus.noStock["d1"] = true
	svc := NewOrderService(newStubOrderRepo(), menus, zerolog.Nop())

	if _, err := svc.PlaceOrder(context.Background(), placeInput(ports.OrderItemInput{DishID: "d1", Quantity: 1})); !errors.Is(err, domain.ErrDishUnavailable) {
		t.Fatalf("expected ErrDishUnavailable, got: %v", err)
	}
}

func TestOrderService_KitchenBoard(t *testing.T) {
	menus := publishedMenuFixture()
	orders := newStubOrderRepo()
	orders.byCode["ORD-1"] = &domain.Order{OrderCode: "ORD-1", CreatedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	orders.byCode["ORD-2"] = &domain.Order{OrderCode: "ORD-2", CreatedAt: time.Date(2026, 9, 2, 0, 30, 0, 0, time.UTC)}
	svc := NewOrderService(orders, menus, zerolog.Nop())

	board, err := svc.KitchenBoard(context.Background(), "2026-09-01")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(board) != 1 || board[0].OrderCode != "ORD-1" {
		t.Errorf("board must contain only that day's orders, got %d", len(board))
	}

	if _, err := svc.KitchenBoard(context.Background(), "yesterday"); err == nil {
		t.Errorf("expected error for malformed date")
	}
}
