package ports

import (
	"context"
	"time"

	"github.com/orderfood/ordering-system/internal/core/domain"
)

// ProviderSession is the result of a successful credential exchange: the
// verified identity plus the opaque session token the client will present on
// subsequent requests.
type ProviderSession struct {
	Identity  domain.ExternalIdentity
	Token     string
	ExpiresAt time.Time
}

// AuthProvider is the contract consumed from the external authentication
// service. Session validity is delegated entirely to the provider; the core
// never inspects or signs tokens itself.
type AuthProvider interface {
	// ValidateSession verifies the token against the provider and returns
	// the authenticated identity. A missing, invalid, or expired session
	// returns (nil, nil): logged-out is a normal outcome, not an error.
	ValidateSession(ctx context.Context, token string) (*domain.ExternalIdentity, error)

	// PasswordSignIn exchanges email+password credentials for a session.
	// Bad credentials return domain.ErrInvalidCredentials.
	PasswordSignIn(ctx context.Context, email, password string) (*ProviderSession, error)

	// ExchangeOAuthCode exchanges an OAuth authorization code for a session.
	ExchangeOAuthCode(ctx context.Context, code, verifier string) (*ProviderSession, error)

	// SignOut invalidates the session token at the provider.
	SignOut(ctx context.Context, token string) error
}
