package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubCompanyRepo struct {
	byID   map[string]*domain.Company
	byName map[string]*domain.Company
}

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{byID: map[string]*domain.Company{}, byName: map[string]*domain.Company{}}
}

func (r *stubCompanyRepo) Create(_ context.Context, c *domain.Company) error {
	r.byID[c.ID] = c
	r.byName[c.Name] = c
	return nil
}

func (r *stubCompanyRepo) FindByID(_ context.Context, id string) (*domain.Company, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCompanyNotFound
}

func (r *stubCompanyRepo) FindByName(_ context.Context, name string) (*domain.Company, error) {
	if c, ok := r.byName[name]; ok {
		return c, nil
	}
	return nil, domain.ErrCompanyNotFound
}

func (r *stubCompanyRepo) List(_ context.Context) ([]*domain.Company, error) {
	out := make([]*domain.Company, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubCompanyRepo) SetActive(_ context.Context, id string, active bool) error {
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrCompanyNotFound
	}
	c.IsActive = active
	return nil
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAdminService_CreateUser(t *testing.T) {
	users := newStubUserStore()
	companies := newStubCompanyRepo()
	companies.byID["c1"] = &domain.Company{ID: "c1", Name: "Acme", IsActive: true}
	svc := NewAdminService(users, companies, zerolog.Nop())

	user, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Email:     "ana.garcia@acme.com",
		FullName:  "Ana García",
		CompanyID: "c1",
		Role:      domain.RoleMenuEditor,
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user.ID == "" {
		t.Errorf("pre-seeded user must get a placeholder id")
	}
	if len(users.inserted) != 1 {
		t.Errorf("expected one insert")
	}
}

func TestAdminService_CreateUser_RejectsUnknownRole(t *testing.T) {
	svc := NewAdminService(newStubUserStore(), newStubCompanyRepo(), zerolog.Nop())

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{Email: "x@acme.com", Role: "superuser"})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got: %v", err)
	}
}

func TestAdminService_CreateUser_RejectsUnknownCompany(t *testing.T) {
	svc := NewAdminService(newStubUserStore(), newStubCompanyRepo(), zerolog.Nop())

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{Email: "x@acme.com", Role: domain.RoleEmployee, CompanyID: "missing"})
	if !errors.Is(err, domain.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got: %v", err)
	}
}

func TestAdminService_UpdateUser(t *testing.T) {
	users := newStubUserStore()
	users.add(&domain.User{ID: "u1", Email: "x@acme.com", Role: domain.RoleEmployee, IsActive: true})
	svc := NewAdminService(users, newStubCompanyRepo(), zerolog.Nop())

	role := domain.RoleKitchen
	inactive := false
	user, err := svc.UpdateUser(context.Background(), "u1", ports.UserUpdate{Role: &role, IsActive: &inactive})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user.Role != domain.RoleKitchen || user.IsActive {
		t.Errorf("update not applied: role=%s active=%v", user.Role, user.IsActive)
	}

	bad := "superuser"
	if _, err := svc.UpdateUser(context.Background(), "u1", ports.UserUpdate{Role: &bad}); !errors.Is(err, domain.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got: %v", err)
	}
}

func TestAdminService_CreateCompany_UniqueName(t *testing.T) {
	svc := NewAdminService(newStubUserStore(), newStubCompanyRepo(), zerolog.Nop())

	company, err := svc.CreateCompany(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !company.IsActive {
		t.Errorf("new company must start active")
	}

	if _, err := svc.CreateCompany(context.Background(), "Acme"); !errors.Is(err, domain.ErrCompanyExists) {
		t.Fatalf("expected ErrCompanyExists, got: %v", err)
	}
}

func TestAdminService_SetCompanyActive(t *testing.T) {
	companies := newStubCompanyRepo()
	companies.byID["c1"] = &domain.Company{ID: "c1", Name: "Acme", IsActive: true, CreatedAt: time.Now()}
	svc := NewAdminService(newStubUserStore(), companies, zerolog.Nop())

	company, err := svc.SetCompanyActive(context.Background(), "c1", false)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if company.IsActive {
		t.Errorf("company must be deactivated")
	}

	if _, err := svc.SetCompanyActive(context.Background(), "missing", true); !errors.Is(err, domain.ErrCompanyNotFound) {
		t.Errorf("expected ErrCompanyNotFound, got: %v", err)
	}
}
