package authprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

const defaultHTTPTimeout = 10 * time.Second

// RemoteConfig captures the settings for the hosted auth service.
type RemoteConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Remote delegates the whole auth-provider contract to a hosted
// authentication service over HTTP. Every validation is a fresh round-trip to
// the service; nothing is decoded or trusted locally.
type Remote struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRemote(cfg RemoteConfig) *Remote {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Remote{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// remoteUser is the provider's user representation.
type remoteUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Metadata struct {
		FullName string `json:"full_name"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
	} `json:"user_metadata"`
}

func (u *remoteUser) identity() domain.ExternalIdentity {
	name := u.Metadata.FullName
	if name == "" {
		name = u.Metadata.Name
	}
	return domain.ExternalIdentity{
		ExternalID:  u.ID,
		Email:       u.Email,
		DisplayName: name,
		Phone:       u.Metadata.Phone,
	}
}

type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	ExpiresIn   int64      `json:"expires_in"`
	User        remoteUser `json:"user"`
}

func (p *Remote) PasswordSignIn(ctx context.Context, email, password string) (*ports.ProviderSession, error) {
	body := map[string]string{"email": email, "password": password}
	status, data, err := p.post(ctx, "/token?grant_type=password", "", body)
	if err != nil {
		return nil, fmt.Errorf("provider password sign-in: %w", err)
	}
	switch {
	case status == http.StatusOK:
		return parseTokenResponse(data)
	case status == http.StatusBadRequest || status == http.StatusUnauthorized:
		return nil, domain.ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("provider password sign-in: unexpected status %d", status)
	}
}

func (p *Remote) ExchangeOAuthCode(ctx context.Context, code, verifier string) (*ports.ProviderSession, error) {
	body := map[string]string{"auth_code": code, "code_verifier": verifier}
	status, data, err := p.post(ctx, "/token?grant_type=pkce", "", body)
	if err != nil {
		return nil, fmt.Errorf("provider code exchange: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("provider code exchange: unexpected status %d", status)
	}
	return parseTokenResponse(data)
}

// ValidateSession asks the provider to verify the token and return the
// identity it belongs to. 401 and 403 are the normal "no session" outcomes.
func (p *Remote) ValidateSession(ctx context.Context, token string) (*domain.ExternalIdentity, error) {
	if token == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("provider validate session: %w", err)
	}
	p.setHeaders(req, token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider validate session: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var user remoteUser
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			return nil, fmt.Errorf("provider validate session: decode: %w", err)
		}
		if user.ID == "" {
			return nil, nil
		}
		identity := user.identity()
		return &identity, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, nil
	default:
		return nil, fmt.Errorf("provider validate session: unexpected status %d", resp.StatusCode)
	}
}

// AuthCodeURL builds the hosted consent URL for the provider-managed OAuth
// flow, carrying the CSRF state and PKCE challenge through to the provider.
func (p *Remote) AuthCodeURL(state, codeChallenge string) string {
	q := url.Values{}
	q.Set("provider", "google")
	q.Set("state", state)
	q.Set("code_challenge", codeChallenge)
	q.Set("code_challenge_method", "s256")
	return p.baseURL + "/authorize?" + q.Encode()
}

func (p *Remote) SignOut(ctx context.Context, token string) error {
	status, _, err := p.post(ctx, "/logout", token, nil)
	if err != nil {
		return fmt.Errorf("provider sign-out: %w", err)
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		return fmt.Errorf("provider sign-out: unexpected status %d", status)
	}
	return nil
}

func (p *Remote) post(ctx context.Context, path, token string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	p.setHeaders(req, token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

func (p *Remote) setHeaders(req *http.Request, token string) {
	req.Header.Set("apikey", p.apiKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func parseTokenResponse(data []byte) (*ports.ProviderSession, error) {
	var tr tokenResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("provider token response: decode: %w", err)
	}
	if tr.AccessToken == "" || tr.User.ID == "" {
		return nil, fmt.Errorf("provider token response: missing access token or user")
	}
	return &ports.ProviderSession{
		Identity:  tr.User.identity(),
		Token:     tr.AccessToken,
		ExpiresAt: time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}
