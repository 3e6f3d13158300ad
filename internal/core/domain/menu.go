package domain

import (
	"errors"
	"time"
)

// DishCategory classifies a dish on the daily menu.
type DishCategory string

const (
	CategoryDish    DishCategory = "dish"
	CategoryDrink   DishCategory = "drink"
	CategoryDessert DishCategory = "dessert"
)

var ErrMenuNotFound = errors.New("menu not found")
var ErrMenuExists = errors.New("menu already exists for that date")
var ErrMenuNotPublished = errors.New("menu is not published")
var ErrDishNotFound = errors.New("dish not found")
var ErrDishUnavailable = errors.New("dish is out of stock")

// ValidCategory reports whether c is a known dish category.
func ValidCategory(c DishCategory) bool {
	switch c {
	case CategoryDish, CategoryDrink, CategoryDessert:
		return true
	}
	return false
}

// Menu is the set of dishes offered on a given date. Employees only see
// published menus.
type Menu struct {
	ID          string     `json:"id"`
	MenuDate    string     `json:"menu_date"` // YYYY-MM-DD
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Dish is a single orderable item on a menu. AvailableQuantity is decremented
// as orders are placed and never goes below zero.
type Dish struct {
	ID                string       `json:"id"`
	MenuID            string       `json:"menu_id"`
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	Price             float64      `json:"price"`
	ImageURL          string       `json:"image_url,omitempty"`
	Category          DishCategory `json:"category"`
	InitialQuantity   int          `json:"initial_quantity"`
	AvailableQuantity int          `json:"available_quantity"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}
