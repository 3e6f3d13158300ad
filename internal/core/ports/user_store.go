package ports

import (
	"context"
	"time"

	"github.com/orderfood/ordering-system/internal/core/domain"
)

// UserUpdate carries the fields an admin may change on a user. Nil means
// leave the field untouched.
type UserUpdate struct {
	FullName  *string
	Phone     *string
	CompanyID *string
	Role      *string
	IsActive  *bool
}

// ElevatedUserStore is the privileged data-access capability over the users
// relation. It bypasses per-row ownership restrictions and must only be used
// for identity bootstrap (reconciliation), the authorizer's role/active-flag
// read, and admin operations. The choice of capability is deliberately
// visible at the type level.
type ElevatedUserStore interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) error
	// Relink rewrites the row's id to newID, keyed by email. It is an
	// idempotent upsert: concurrent relink attempts for the same email are
	// safe, last write wins on id. The write must be committed before the
	// call returns.
	Relink(ctx context.Context, email, newID string, at time.Time) error
	// SetFullName refreshes the profile name supplied by the auth provider
	// on an OAuth callback.
	SetFullName(ctx context.Context, id, fullName string, at time.Time) error
	Update(ctx context.Context, id string, upd UserUpdate, at time.Time) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// RestrictedUserStore is the ordinary, row-level-restricted capability: every
// operation is scoped to the calling user's own row.
type RestrictedUserStore interface {
	FindOwn(ctx context.Context, callerID string) (*domain.User, error)
	UpdateOwnProfile(ctx context.Context, callerID, fullName, phone string, at time.Time) (*domain.User, error)
}
