package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

// DefaultRouteRoles is the route-prefix to allowed-roles table. Admin is
// allowed everywhere.
func DefaultRouteRoles() map[string][]string {
	return map[string][]string{
		"/admin":    {domain.RoleAdmin},
		"/editor":   {domain.RoleMenuEditor, domain.RoleAdmin},
		"/employee": {domain.RoleEmployee, domain.RoleAdmin},
		"/kitchen":  {domain.RoleKitchen, domain.RoleAdmin},
	}
}

// publicPrefixes is the set of routes reachable without a session. The
// landing page is matched exactly, everything else by prefix.
var publicPrefixes = []string{"/login", "/auth/callback", "/auth/google"}

type routeRule struct {
	prefix string
	roles  map[string]struct{}
}

// Authorizer decides per-request access: it validates the session against the
// auth provider, resolves the internal user through the elevated store (the
// role/active read must not depend on row ownership), and applies the
// longest-prefix route table.
type Authorizer struct {
	provider ports.AuthProvider
	users    ports.ElevatedUserStore
	rules    []routeRule
	log      zerolog.Logger
}

// NewAuthorizer builds an Authorizer from a prefix→roles table. The table's
// prefixes need not be disjoint; the longest matching prefix wins.
func NewAuthorizer(provider ports.AuthProvider, users ports.ElevatedUserStore, routeRoles map[string][]string, log zerolog.Logger) *Authorizer {
	rules := make([]routeRule, 0, len(routeRoles))
	for prefix, roles := range routeRoles {
		set := make(map[string]struct{}, len(roles))
		for _, r := range roles {
			set[r] = struct{}{}
		}
		rules = append(rules, routeRule{prefix: prefix, roles: set})
	}
	return &Authorizer{provider: provider, users: users, rules: rules, log: log}
}

// Authorize implements ports.Authorizer.
func (a *Authorizer) Authorize(ctx context.Context, path, token string) ports.Decision {
	if isPublic(path) {
		// An already-authenticated, active visitor is bounced from the
		// landing page to their own dashboard.
		if path == "/" {
			if user := a.resolveUser(ctx, token); user != nil && user.IsActive {
				return ports.Decision{RedirectTo: domain.DashboardPath(user.Role), User: user}
			}
		}
		return ports.Decision{Allow: true}
	}

	identity := a.validate(ctx, token)
	if identity == nil {
		return ports.Decision{RedirectTo: loginRedirect(path)}
	}

	user, err := a.users.FindByID(ctx, identity.ExternalID)
	if err != nil {
		// A credential without a backing row is treated as unauthenticated,
		// whether the row is missing or unreadable.
		if !errors.Is(err, domain.ErrUserNotFound) {
			a.log.Error().Err(err).Str("external_id", identity.ExternalID).Msg("user lookup failed during authorization")
		}
		return ports.Decision{RedirectTo: loginRedirect(path)}
	}

	if !user.IsActive {
		return ports.Decision{RedirectTo: "/login?error=account_inactive"}
	}

	if rule, ok := a.longestMatch(path); ok {
		if _, allowed := rule.roles[user.Role]; !allowed {
			return ports.Decision{RedirectTo: domain.DashboardPath(user.Role), User: user}
		}
	}

	return ports.Decision{Allow: true, User: user}
}

// validate asks the provider to verify the token. Provider failures are
// logged and collapse to "no session"; raw provider errors never reach the
// redirect decision.
func (a *Authorizer) validate(ctx context.Context, token string) *domain.ExternalIdentity {
	if token == "" {
		return nil
	}
	identity, err := a.provider.ValidateSession(ctx, token)
	if err != nil {
		a.log.Warn().Err(err).Msg("session validation failed")
		return nil
	}
	return identity
}

// resolveUser returns the active user behind a token, or nil.
func (a *Authorizer) resolveUser(ctx context.Context, token string) *domain.User {
	identity := a.validate(ctx, token)
	if identity == nil {
		return nil
	}
	user, err := a.users.FindByID(ctx, identity.ExternalID)
	if err != nil {
		return nil
	}
	return user
}

// longestMatch returns the rule with the longest prefix matching path.
func (a *Authorizer) longestMatch(path string) (routeRule, bool) {
	var best routeRule
	found := false
	for _, rule := range a.rules {
		if strings.HasPrefix(path, rule.prefix) && (!found || len(rule.prefix) > len(best.prefix)) {
			best = rule
			found = true
		}
	}
	return best, found
}

func isPublic(path string) bool {
	if path == "/" {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// loginRedirect embeds the originally requested path so the login flow can
// return the user there after success.
func loginRedirect(path string) string {
	return "/login?redirect=" + url.QueryEscape(path)
}
