package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

type menuService struct {
	repo ports.MenuRepository
	log  zerolog.Logger
}

// NewMenuService returns a MenuService implementation.
func NewMenuService(repo ports.MenuRepository, log zerolog.Logger) ports.MenuService {
	return &menuService{repo: repo, log: log}
}

// CreateMenu opens a new, unpublished menu for a date. One menu per date.
func (s *menuService) CreateMenu(ctx context.Context, input ports.CreateMenuInput) (*domain.Menu, error) {
	if _, err := time.Parse("2006-01-02", input.MenuDate); err != nil {
		return nil, fmt.Errorf("create menu: invalid date %q: %w", input.MenuDate, err)
	}

	if existing, err := s.repo.FindMenuByDate(ctx, input.MenuDate); err == nil && existing != nil {
		return nil, domain.ErrMenuExists
	}

	now := time.Now().UTC()
	menu := &domain.Menu{
		ID:        uuid.NewString(),
		MenuDate:  input.MenuDate,
		CreatedBy: input.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateMenu(ctx, menu); err != nil {
		return nil, fmt.Errorf("create menu: %w", err)
	}

	s.log.Info().Str("menu_id", menu.ID).Str("menu_date", menu.MenuDate).Msg("menu created")
	return menu, nil
}

// AddDish adds a dish to an existing menu with its full stock available.
func (s *menuService) AddDish(ctx context.Context, input ports.AddDishInput) (*domain.Dish, error) {
	if !domain.ValidCategory(input.Category) {
		return nil, fmt.Errorf("add dish: unknown category %q", input.Category)
	}

	if _, err := s.repo.FindMenuByID(ctx, input.MenuID); err != nil {
		return nil, fmt.Errorf("add dish: %w", err)
	}

	now := time.Now().UTC()
	dish := &domain.Dish{
		ID:                uuid.NewString(),
		MenuID:            input.MenuID,
		Name:              input.Name,
		Description:       input.Description,
		Price:             input.Price,
		ImageURL:          input.ImageURL,
		Category:          input.Category,
		InitialQuantity:   input.InitialQuantity,
		AvailableQuantity: input.InitialQuantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.InsertDish(ctx, dish); err != nil {
		return nil, fmt.Errorf("add dish: %w", err)
	}
	return dish, nil
}

// PublishMenu makes a menu visible to employees. Publishing twice is a no-op.
func (s *menuService) PublishMenu(ctx context.Context, menuID string) (*domain.Menu, error) {
	menu, err := s.repo.FindMenuByID(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("publish menu: %w", err)
	}
	if menu.IsPublished {
		return menu, nil
	}

	now := time.Now().UTC()
	if err := s.repo.Publish(ctx, menuID, now); err != nil {
		return nil, fmt.Errorf("publish menu: %w", err)
	}

	menu.IsPublished = true
	menu.PublishedAt = &now
	menu.UpdatedAt = now

	s.log.Info().Str("menu_id", menuID).Str("menu_date", menu.MenuDate).Msg("menu published")
	return menu, nil
}

func (s *menuService) GetMenu(ctx context.Context, menuID string) (*ports.MenuWithDishes, error) {
	menu, err := s.repo.FindMenuByID(ctx, menuID)
	if err != nil {
		return nil, err
	}
	dishes, err := s.repo.ListDishes(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("get menu: list dishes: %w", err)
	}
	return &ports.MenuWithDishes{Menu: menu, Dishes: dishes}, nil
}

// PublishedMenu returns the published menu for a date; unpublished menus are
// invisible to employees.
func (s *menuService) PublishedMenu(ctx context.Context, date string) (*ports.MenuWithDishes, error) {
	menu, err := s.repo.FindMenuByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if !menu.IsPublished {
		return nil, domain.ErrMenuNotPublished
	}
	dishes, err := s.repo.ListDishes(ctx, menu.ID)
	if err != nil {
		return nil, fmt.Errorf("published menu: list dishes: %w", err)
	}
	return &ports.MenuWithDishes{Menu: menu, Dishes: dishes}, nil
}
