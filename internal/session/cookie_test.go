package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenFromRequest_CookieWinsOverHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-tok"})
	req.Header.Set("Authorization", "Bearer header-tok")

	if got := TokenFromRequest(req); got != "cookie-tok" {
		t.Errorf("token = %q, want cookie to win", got)
	}
}

func TestTokenFromRequest_BearerFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer header-tok")

	if got := TokenFromRequest(req); got != "header-tok" {
		t.Errorf("token = %q, want bearer fallback (case-insensitive scheme)", got)
	}
}

func TestTokenFromRequest_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := TokenFromRequest(req); got != "" {
		t.Errorf("token = %q, want empty", got)
	}

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if got := TokenFromRequest(req); got != "" {
		t.Errorf("token = %q, non-bearer schemes must be ignored", got)
	}
}

func TestSetAndClearCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetCookie(rec, "tok", time.Now().Add(time.Hour), CookieOptions{Secure: true})

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || c.Value != "tok" {
		t.Errorf("cookie = %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly || !c.Secure || c.Path != "/" {
		t.Errorf("cookie attributes: HttpOnly=%v Secure=%v Path=%q", c.HttpOnly, c.Secure, c.Path)
	}

	rec = httptest.NewRecorder()
	ClearCookie(rec, CookieOptions{})
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Errorf("clear must set MaxAge=-1, got: %+v", cleared)
	}
}
