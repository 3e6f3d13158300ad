package ports

import (
	"context"

	"github.com/orderfood/ordering-system/internal/core/domain"
)

// CreateUserInput carries the fields for an admin-created user. The row is
// created unlinked; its id is reconciled to the auth provider's id on the
// user's first sign-in.
type CreateUserInput struct {
	Email     string
	FullName  string
	Phone     string
	CompanyID string
	Role      string
	IsActive  bool
}

// AdminService defines the admin-facing user and company management
// operations.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, upd UserUpdate) (*domain.User, error)

	ListCompanies(ctx context.Context) ([]*domain.Company, error)
	CreateCompany(ctx context.Context, name string) (*domain.Company, error)
	SetCompanyActive(ctx context.Context, id string, active bool) (*domain.Company, error)
}

// CompanyRepository defines persistence operations for companies.
type CompanyRepository interface {
	Create(ctx context.Context, c *domain.Company) error
	FindByID(ctx context.Context, id string) (*domain.Company, error)
	FindByName(ctx context.Context, name string) (*domain.Company, error)
	List(ctx context.Context) ([]*domain.Company, error)
	SetActive(ctx context.Context, id string, active bool) error
}
