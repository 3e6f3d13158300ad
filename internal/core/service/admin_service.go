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

type adminService struct {
	users     ports.ElevatedUserStore
	companies ports.CompanyRepository
	log       zerolog.Logger
}

// NewAdminService returns an AdminService implementation. Admin user
// operations run on the elevated store: they touch rows the admin does not
// own.
func NewAdminService(users ports.ElevatedUserStore, companies ports.CompanyRepository, log zerolog.Logger) ports.AdminService {
	return &adminService{users: users, companies: companies, log: log}
}

func (s *adminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// CreateUser pre-seeds a user row. The row's id is a placeholder until the
// person signs in for the first time and reconciliation relinks it to their
// external identity.
func (s *adminService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if !domain.ValidRole(input.Role) {
		return nil, domain.ErrInvalidRole
	}
	if input.CompanyID != "" {
		if _, err := s.companies.FindByID(ctx, input.CompanyID); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.NewString(),
		Email:     input.Email,
		FullName:  input.FullName,
		Phone:     input.Phone,
		CompanyID: input.CompanyID,
		Role:      input.Role,
		IsActive:  input.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("email", user.Email).Str("role", user.Role).Msg("user pre-seeded by admin")
	return user, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	if upd.Role != nil && !domain.ValidRole(*upd.Role) {
		return nil, domain.ErrInvalidRole
	}
	if upd.CompanyID != nil && *upd.CompanyID != "" {
		if _, err := s.companies.FindByID(ctx, *upd.CompanyID); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return s.users.Update(ctx, id, upd, time.Now().UTC())
}

func (s *adminService) ListCompanies(ctx context.Context) ([]*domain.Company, error) {
	return s.companies.List(ctx)
}

func (s *adminService) CreateCompany(ctx context.Context, name string) (*domain.Company, error) {
	if existing, err := s.companies.FindByName(ctx, name); err == nil && existing != nil {
		return nil, domain.ErrCompanyExists
	}

	company := &domain.Company{
		ID:        uuid.NewString(),
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}

	s.log.Info().Str("company_id", company.ID).Str("name", name).Msg("company created")
	return company, nil
}

func (s *adminService) SetCompanyActive(ctx context.Context, id string, active bool) (*domain.Company, error) {
	if err := s.companies.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.companies.FindByID(ctx, id)
}
