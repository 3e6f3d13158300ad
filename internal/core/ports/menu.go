package ports

import (
	"context"
	"time"

	"github.com/orderfood/ordering-system/internal/core/domain"
)

// CreateMenuInput carries the data needed to open a menu for a date.
type CreateMenuInput struct {
	MenuDate  string // YYYY-MM-DD
	CreatedBy string
}

// AddDishInput carries the data needed to add a dish to an unpublished menu.
type AddDishInput struct {
	MenuID          string
	Name            string
	Description     string
	Price           float64
	ImageURL        string
	Category        domain.DishCategory
	InitialQuantity int
}

// MenuWithDishes is the full menu view returned to editors and employees.
type MenuWithDishes struct {
	Menu   *domain.Menu
	Dishes []*domain.Dish
}

// MenuService defines the menu-editor and employee-facing menu operations.
type MenuService interface {
	CreateMenu(ctx context.Context, input CreateMenuInput) (*domain.Menu, error)
	AddDish(ctx context.Context, input AddDishInput) (*domain.Dish, error)
	PublishMenu(ctx context.Context, menuID string) (*domain.Menu, error)
	GetMenu(ctx context.Context, menuID string) (*MenuWithDishes, error)
	// PublishedMenu returns the published menu for a date, or
	// domain.ErrMenuNotPublished / domain.ErrMenuNotFound.
	PublishedMenu(ctx context.Context, date string) (*MenuWithDishes, error)
}

// MenuRepository defines persistence operations for menus and dishes.
type MenuRepository interface {
	CreateMenu(ctx context.Context, m *domain.Menu) error
	FindMenuByID(ctx context.Context, id string) (*domain.Menu, error)
	FindMenuByDate(ctx context.Context, date string) (*domain.Menu, error)
	Publish(ctx context.Context, id string, at time.Time) error
	InsertDish(ctx context.Context, d *domain.Dish) error
	FindDishByID(ctx context.Context, id string) (*domain.Dish, error)
	ListDishes(ctx context.Context, menuID string) ([]*domain.Dish, error)
	// DecrementDishStock atomically decrements available_quantity by qty,
	// returning domain.ErrDishUnavailable when stock is insufficient.
	DecrementDishStock(ctx context.Context, dishID string, qty int) error
	// RestoreDishStock atomically returns qty units of stock, compensating a
	// decrement whose order was never created.
	RestoreDishStock(ctx context.Context, dishID string, qty int) error
}
