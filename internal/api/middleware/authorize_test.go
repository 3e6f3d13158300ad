package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
	"github.com/orderfood/ordering-system/internal/session"
)

// stubAuthorizer returns a canned decision and records what it was asked.
type stubAuthorizer struct {
	decision ports.Decision
	paths    []string
	tokens   []string
}

func (a *stubAuthorizer) Authorize(_ context.Context, path, token string) ports.Decision {
	a.paths = append(a.paths, path)
	a.tokens = append(a.tokens, token)
	return a.decision
}

func runRequest(t *testing.T, authz ports.Authorizer, req *http.Request, skip ...string) (*httptest.ResponseRecorder, *domain.User) {
	t.Helper()
	e := echo.New()
	var seen *domain.User
	e.GET("/*", func(c echo.Context) error {
		seen = UserFromContext(c)
		return c.NoContent(http.StatusOK)
	}, Authorize(authz, skip...))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthorize_AllowPassesAndInjectsUser(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleEmployee, IsActive: true}
	authz := &stubAuthorizer{decision: ports.Decision{Allow: true, User: user}}

	req := httptest.NewRequest(http.MethodGet, "/employee/orders", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tok"})

	rec, seen := runRequest(t, authz, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen == nil || seen.ID != "u1" {
		t.Errorf("handler did not receive the resolved user: %+v", seen)
	}
	if len(authz.tokens) != 1 || authz.tokens[0] != "tok" {
		t.Errorf("guard called with tokens %v, want the cookie token", authz.tokens)
	}
	if authz.paths[0] != "/employee/orders" {
		t.Errorf("guard called with path %q", authz.paths[0])
	}
}

func TestAuthorize_RedirectShortCircuits(t *testing.T) {
	authz := &stubAuthorizer{decision: ports.Decision{RedirectTo: "/login?redirect=%2Femployee"}}

	req := httptest.NewRequest(http.MethodGet, "/employee", nil)
	rec, seen := runRequest(t, authz, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login?redirect=%2Femployee" {
		t.Errorf("Location = %q", loc)
	}
	if seen != nil {
		t.Errorf("handler must not run on redirect")
	}
}

func TestAuthorize_BearerHeaderFallback(t *testing.T) {
	authz := &stubAuthorizer{decision: ports.Decision{Allow: true}}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer header-tok")

	runRequest(t, authz, req)
	if len(authz.tokens) != 1 || authz.tokens[0] != "header-tok" {
		t.Errorf("guard called with tokens %v, want bearer token", authz.tokens)
	}
}

func TestAuthorize_SkippedPathsBypassGuard(t *testing.T) {
	authz := &stubAuthorizer{decision: ports.Decision{RedirectTo: "/login?redirect=%2Fhealth"}}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec, _ := runRequest(t, authz, req, "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (guard bypassed)", rec.Code)
	}
	if len(authz.paths) != 0 {
		t.Errorf("authorizer must not be consulted for skipped paths")
	}
}
