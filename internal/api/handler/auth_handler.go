package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orderfood/ordering-system/internal/api/metrics"
	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
	"github.com/orderfood/ordering-system/internal/session"
)

// OAuthStarter builds the consent URL that begins the OAuth flow. Both the
// direct Google integration and the hosted provider satisfy it.
type OAuthStarter interface {
	AuthCodeURL(state, codeChallenge string) string
}

// AuthHandler owns the sign-in surface: password login, the Google OAuth
// flow, and logout. Every successful credential exchange runs through the
// identity reconciler before a session cookie is issued.
type AuthHandler struct {
	provider   ports.AuthProvider
	identity   ports.IdentityService
	oauth      OAuthStarter
	cookieOpts session.CookieOptions
	log        zerolog.Logger
}

func NewAuthHandler(provider ports.AuthProvider, identity ports.IdentityService, oauth OAuthStarter, cookieOpts session.CookieOptions, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		provider:   provider,
		identity:   identity,
		oauth:      oauth,
		cookieOpts: cookieOpts,
		log:        log,
	}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User      *domain.User `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Login handles POST /login — verifies credentials, reconciles the identity,
// and issues the session cookie.
//
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	sess, err := h.provider.PasswordSignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("password", "invalid").Inc()
		}
		return err
	}

	user, err := h.identity.Reconcile(ctx, sess.Identity, domain.EventPasswordSignIn)
	if err != nil {
		metrics.ReconciliationsTotal.WithLabelValues("failed").Inc()
		metrics.LoginsTotal.WithLabelValues("password", "reconcile_failed").Inc()
		return err
	}
	metrics.ReconciliationsTotal.WithLabelValues("success").Inc()

	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("password", "inactive").Inc()
		// Do not leave a live provider session behind for a disabled account.
		if err := h.provider.SignOut(ctx, sess.Token); err != nil {
			h.log.Warn().Err(err).Str("user_id", user.ID).Msg("sign-out of inactive account failed")
		}
		return domain.ErrAccountInactive
	}

	session.SetCookie(c.Response(), sess.Token, sess.ExpiresAt, h.cookieOpts)
	metrics.LoginsTotal.WithLabelValues("password", "success").Inc()

	h.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("password sign-in")
	return c.JSON(http.StatusOK, loginResponse{User: user, ExpiresAt: sess.ExpiresAt})
}

// GoogleStart handles GET /auth/google — sets the state and PKCE cookies and
// redirects the browser to the provider's consent page.
//
// @Summary      Begin Google OAuth sign-in
// @Tags         auth
// @Success      302
// @Failure      404  {object}  map[string]string
// @Router       /auth/google [get]
func (h *AuthHandler) GoogleStart(c echo.Context) error {
	if h.oauth == nil {
		return echo.NewHTTPError(http.StatusNotFound, "oauth sign-in not configured")
	}

	// State and PKCE cookies follow the session cookie's Secure setting so
	// they survive plain-HTTP development setups.
	state := generateState(c, h.cookieOpts.Secure)
	_, challenge := generatePKCE(c, h.cookieOpts.Secure)

	return c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(state, challenge))
}

// Callback handles GET /auth/callback — completes the OAuth flow. On any
// failure the browser is bounced back to the login page; errors never render
// as JSON on this endpoint.
//
// @Summary      OAuth callback
// @Tags         auth
// @Param        code   query  string  true   "Authorization code"
// @Param        state  query  string  true   "CSRF state"
// @Success      302
// @Router       /auth/callback [get]
func (h *AuthHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()

	if errCode := c.QueryParam("error"); errCode != "" {
		h.log.Warn().Str("provider_error", errCode).Msg("oauth callback returned an error")
		metrics.LoginsTotal.WithLabelValues("oauth", "invalid").Inc()
		return c.Redirect(http.StatusFound, "/login?error=oauth_failed")
	}
	if !validateState(c) {
		metrics.LoginsTotal.WithLabelValues("oauth", "invalid").Inc()
		return c.Redirect(http.StatusFound, "/login?error=oauth_failed")
	}
	code := c.QueryParam("code")
	if code == "" {
		metrics.LoginsTotal.WithLabelValues("oauth", "invalid").Inc()
		return c.Redirect(http.StatusFound, "/login?error=oauth_failed")
	}

	sess, err := h.provider.ExchangeOAuthCode(ctx, code, getPKCEVerifier(c))
	if err != nil {
		h.log.Error().Err(err).Msg("oauth code exchange failed")
		metrics.LoginsTotal.WithLabelValues("oauth", "invalid").Inc()
		return c.Redirect(http.StatusFound, "/login?error=oauth_failed")
	}

	user, err := h.identity.Reconcile(ctx, sess.Identity, domain.EventOAuthCallback)
	if err != nil {
		metrics.ReconciliationsTotal.WithLabelValues("failed").Inc()
		metrics.LoginsTotal.WithLabelValues("oauth", "reconcile_failed").Inc()
		return c.Redirect(http.StatusFound, "/login?error=account_setup_failed")
	}
	metrics.ReconciliationsTotal.WithLabelValues("success").Inc()

	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("oauth", "inactive").Inc()
		if err := h.provider.SignOut(ctx, sess.Token); err != nil {
			h.log.Warn().Err(err).Str("user_id", user.ID).Msg("sign-out of inactive account failed")
		}
		return c.Redirect(http.StatusFound, "/login?error=account_inactive")
	}

	session.SetCookie(c.Response(), sess.Token, sess.ExpiresAt, h.cookieOpts)
	metrics.LoginsTotal.WithLabelValues("oauth", "success").Inc()

	h.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("oauth sign-in")
	// The landing route redirects a signed-in user to their dashboard.
	return c.Redirect(http.StatusFound, "/")
}

// Logout handles POST /logout — revokes the provider session and clears the
// cookie. Always succeeds from the client's point of view.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := session.TokenFromRequest(c.Request()); token != "" {
		if err := h.provider.SignOut(c.Request().Context(), token); err != nil {
			h.log.Warn().Err(err).Msg("provider sign-out failed")
		}
	}
	session.ClearCookie(c.Response(), h.cookieOpts)
	return c.JSON(http.StatusOK, map[string]string{"message": "signed out"})
}

// Me handles GET /me — returns the authenticated user's own record.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
