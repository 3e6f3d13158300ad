package domain

// CredentialEvent identifies how an external identity was obtained. The
// reconciliation algorithm is shared between both entry points; only the
// profile-refresh behavior differs.
type CredentialEvent string

const (
	EventPasswordSignIn CredentialEvent = "password_sign_in"
	EventOAuthCallback  CredentialEvent = "oauth_callback"
)

// ExternalIdentity is the identity asserted by the auth provider after
// credential verification. It is ephemeral: passed through to the
// reconciler, never persisted as-is.
type ExternalIdentity struct {
	ExternalID  string
	Email       string
	DisplayName string
	Phone       string
}
