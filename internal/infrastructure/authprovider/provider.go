// Package authprovider contains the implementations of the auth-provider
// port: a Local provider that verifies credentials and issues session tokens
// itself, and a Remote provider that delegates everything to a hosted
// authentication service. Both produce the same ExternalIdentity shape; the
// rest of the system never knows which one is wired.
package authprovider

import (
	"context"

	"github.com/orderfood/ordering-system/internal/core/domain"
)

// OAuthExchanger verifies an OAuth authorization code against the identity
// provider and returns the asserted identity. Implemented by the google
// subpackage.
type OAuthExchanger interface {
	// AuthCodeURL returns the provider consent URL for the given state and
	// PKCE challenge.
	AuthCodeURL(state, codeChallenge string) string

	// Exchange swaps the authorization code for a verified identity.
	Exchange(ctx context.Context, code, codeVerifier string) (*domain.ExternalIdentity, error)
}
