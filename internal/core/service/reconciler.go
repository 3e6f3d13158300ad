package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

// ViewCache abstracts the cache of identity-dependent views (Redis). A
// successful reconciliation must bust it so no page keeps rendering a stale
// identity.
type ViewCache interface {
	InvalidateIdentityViews(ctx context.Context) error
}

// IdentityReconciler links external identities to internal user rows. All of
// its writes go through the elevated store: a brand-new or not-yet-relinked
// row is not owned by the acting credential, so the ordinary row-level policy
// cannot authorize them.
type IdentityReconciler struct {
	users ports.ElevatedUserStore
	cache ViewCache
	log   zerolog.Logger
}

func NewIdentityReconciler(users ports.ElevatedUserStore, cache ViewCache, log zerolog.Logger) *IdentityReconciler {
	return &IdentityReconciler{users: users, cache: cache, log: log}
}

// Reconcile finds or creates the internal user record for an external
// identity. Lookup order: by id, then by email (relinking the row's id to the
// external id when they differ), then create with defaults. The relink write
// is committed before the user is returned.
func (s *IdentityReconciler) Reconcile(ctx context.Context, identity domain.ExternalIdentity, event domain.CredentialEvent) (*domain.User, error) {
	now := time.Now().UTC()

	// 1. Already linked: the row's id matches the external id.
	user, err := s.users.FindByID(ctx, identity.ExternalID)
	switch {
	case err == nil:
		if event == domain.EventOAuthCallback {
			// The provider may carry fresher profile data on this path.
			name := identity.DisplayName
			if name == "" {
				name = user.FullName
			}
			if err := s.users.SetFullName(ctx, user.ID, name, now); err != nil {
				s.log.Error().Err(err).Str("user_id", user.ID).Msg("profile refresh failed")
				return nil, domain.ErrReconcileUpdate
			}
			user.FullName = name
			user.UpdatedAt = now
		}
		s.invalidateViews(ctx)
		return user, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("reconcile: find by id: %w", err)
	}

	// 2. Known email with a different id: a pre-seeded or legacy row not yet
	// linked to a real credential. Rewrite its id to the external id.
	user, err = s.users.FindByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		if user.ID != identity.ExternalID {
			if err := s.users.Relink(ctx, identity.Email, identity.ExternalID, now); err != nil {
				s.log.Error().Err(err).
					Str("email", identity.Email).
					Str("external_id", identity.ExternalID).
					Msg("identity relink failed")
				return nil, domain.ErrReconcileUpdate
			}
			s.log.Info().
				Str("email", identity.Email).
				Str("old_id", user.ID).
				Str("new_id", identity.ExternalID).
				Msg("user row relinked to external identity")
			user.ID = identity.ExternalID
			user.UpdatedAt = now
		}
		s.invalidateViews(ctx)
		return user, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("reconcile: find by email: %w", err)
	}

	// 3. First sign-in ever: create the row with defaults. Role and company
	// stay at their defaults until an admin assigns them.
	fullName := identity.DisplayName
	if fullName == "" {
		fullName = domain.FullNameFromEmail(identity.Email)
	}
	user = &domain.User{
		ID:        identity.ExternalID,
		Email:     identity.Email,
		FullName:  fullName,
		Phone:     identity.Phone,
		Role:      domain.RoleEmployee,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		s.log.Error().Err(err).
			Str("email", identity.Email).
			Str("external_id", identity.ExternalID).
			Msg("user creation failed")
		return nil, domain.ErrReconcileCreate
	}

	s.log.Info().
		Str("email", identity.Email).
		Str("user_id", user.ID).
		Str("event", string(event)).
		Msg("user created on first sign-in")

	s.invalidateViews(ctx)
	return user, nil
}

// invalidateViews busts cached identity-dependent views. Failures are logged
// only: the reconciliation itself already succeeded.
func (s *IdentityReconciler) invalidateViews(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateIdentityViews(ctx); err != nil {
		s.log.Warn().Err(err).Msg("identity view cache invalidation failed")
	}
}
