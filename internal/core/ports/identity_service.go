package ports

import (
	"context"

	"github.com/orderfood/ordering-system/internal/core/domain"
)

// IdentityService finds or creates the internal user record backing an
// external identity. Both the password sign-in path and the OAuth callback
// path converge on this single operation.
type IdentityService interface {
	Reconcile(ctx context.Context, identity domain.ExternalIdentity, event domain.CredentialEvent) (*domain.User, error)
}
