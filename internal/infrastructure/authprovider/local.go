package authprovider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

// Credential is a password credential held by the local provider. ID is the
// provider-side identity id (the externalId the reconciler links against).
type Credential struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	Phone        string
}

// CredentialStore abstracts credential persistence for the local provider.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*Credential, error)
}

// RevocationStore tracks signed-out session tokens until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Local is the self-hosted auth provider: bcrypt password verification
// against stored credentials and HS256 session tokens. Validation is
// provider-side by construction, including a revocation check, so callers
// still never trust an unverified client-side claim.
type Local struct {
	creds    CredentialStore
	revoked  RevocationStore
	oauth    OAuthExchanger
	secret   string
	tokenTTL time.Duration
}

// NewLocal builds a Local provider. oauth may be nil when no OAuth identity
// provider is configured.
func NewLocal(creds CredentialStore, revoked RevocationStore, oauth OAuthExchanger, secret string, tokenTTL time.Duration) *Local {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Local{creds: creds, revoked: revoked, oauth: oauth, secret: secret, tokenTTL: tokenTTL}
}

func (p *Local) PasswordSignIn(ctx context.Context, email, password string) (*ports.ProviderSession, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	cred, err := p.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("password sign-in: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return p.issueSession(domain.ExternalIdentity{
		ExternalID:  cred.ID,
		Email:       cred.Email,
		DisplayName: cred.DisplayName,
		Phone:       cred.Phone,
	})
}

func (p *Local) ExchangeOAuthCode(ctx context.Context, code, verifier string) (*ports.ProviderSession, error) {
	if p.oauth == nil {
		return nil, errors.New("oauth identity provider not configured")
	}
	identity, err := p.oauth.Exchange(ctx, code, verifier)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange: %w", err)
	}
	return p.issueSession(*identity)
}

// ValidateSession verifies the token signature, expiry, and revocation state,
// and returns the identity baked into it. Invalid or revoked tokens return
// (nil, nil): logged-out is not an error.
func (p *Local) ValidateSession(ctx context.Context, token string) (*domain.ExternalIdentity, error) {
	claims, ok := p.parse(token)
	if !ok {
		return nil, nil
	}

	tokenID, _ := claims["jti"].(string)
	if tokenID != "" && p.revoked != nil {
		revoked, err := p.revoked.IsRevoked(ctx, tokenID)
		if err != nil {
			return nil, fmt.Errorf("validate session: revocation check: %w", err)
		}
		if revoked {
			return nil, nil
		}
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return nil, nil
	}
	name, _ := claims["name"].(string)
	phone, _ := claims["phone"].(string)

	return &domain.ExternalIdentity{
		ExternalID:  sub,
		Email:       email,
		DisplayName: name,
		Phone:       phone,
	}, nil
}

// SignOut revokes the token until its natural expiry.
func (p *Local) SignOut(ctx context.Context, token string) error {
	claims, ok := p.parse(token)
	if !ok {
		return nil // already invalid, nothing to revoke
	}
	tokenID, _ := claims["jti"].(string)
	if tokenID == "" || p.revoked == nil {
		return nil
	}

	until := time.Now().Add(p.tokenTTL)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		until = exp.Time
	}
	return p.revoked.Revoke(ctx, tokenID, until)
}

func (p *Local) issueSession(identity domain.ExternalIdentity) (*ports.ProviderSession, error) {
	expiresAt := time.Now().Add(p.tokenTTL)
	claims := jwt.MapClaims{
		"sub":   identity.ExternalID,
		"email": identity.Email,
		"name":  identity.DisplayName,
		"phone": identity.Phone,
		"jti":   uuid.NewString(),
		"exp":   expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(p.secret))
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return &ports.ProviderSession{Identity: identity, Token: signed, ExpiresAt: expiresAt}, nil
}

func (p *Local) parse(token string) (jwt.MapClaims, bool) {
	if token == "" {
		return nil, false
	}
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(p.secret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, false
	}
	return claims, true
}
