package domain

import (
	"errors"
	"time"
)

var ErrCompanyNotFound = errors.New("company not found")
var ErrCompanyExists = errors.New("company already exists")

// Company is a subscribed business whose employees order from the daily menu.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
