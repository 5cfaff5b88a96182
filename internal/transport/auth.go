package transport

import "net/http"

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {
	// No authentication applied
}

// BearerAuth implements Bearer token authentication with a static token.
// The Atlassian Organization API and Keycloak admin API both use it.
type BearerAuth struct {
	Token string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request) {
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}
}

// TokenSourceAuth implements Bearer authentication with a refreshing token
// source, for flows where the token expires (Keycloak password grant).
type TokenSourceAuth struct {
	// Token returns the current bearer token, refreshing if needed.
	Token func() (string, error)
}

// Apply implements the Authenticator interface for TokenSourceAuth.
// A token source failure leaves the request unauthenticated; the remote
// rejects it with a status the caller maps to an APIError.
func (a *TokenSourceAuth) Apply(req *http.Request) {
	if a.Token == nil {
		return
	}
	if token, err := a.Token(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
