package handler

import (
	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type createMenuRequest struct {
	MenuDate string `json:"menu_date" validate:"required,datetime=2006-01-02"`
}

type addDishRequest struct {
	Name            string  `json:"name"             validate:"required,min=2"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"            validate:"required,gt=0"`
	ImageURL        string  `json:"image_url"        validate:"omitempty,url"`
	Category        string  `json:"category"         validate:"required,oneof=dish drink dessert"`
	InitialQuantity int     `json:"initial_quantity" validate:"required,gt=0"`
}

type menuResponse struct {
	Menu   *domain.Menu   `json:"menu"`
	Dishes []*domain.Dish `json:"dishes"`
}

func toMenuResponse(m *ports.MenuWithDishes) menuResponse {
	dishes := m.Dishes
	if dishes == nil {
		dishes = []*domain.Dish{}
	}
	return menuResponse{Menu: m.Menu, Dishes: dishes}
}
