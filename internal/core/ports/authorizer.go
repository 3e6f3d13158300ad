package ports

import (
	"context"

	"github.com/orderfood/ordering-system/internal/core/domain"
)

// Decision is the outcome of authorizing one request. Exactly one of Allow or
// RedirectTo is meaningful: when Allow is false, RedirectTo carries one of the
// three permitted redirect shapes (login with return path, login with the
// inactive-account error, or the user's own dashboard).
type Decision struct {
	Allow      bool
	RedirectTo string
	// User is the resolved active user, set whenever one was established
	// during authorization (including the landing-page redirect case).
	User *domain.User
}

// Authorizer decides access for an inbound request given the requested path
// and whatever session token arrived with it.
type Authorizer interface {
	Authorize(ctx context.Context, path, token string) Decision
}
