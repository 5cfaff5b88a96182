// Package keycloak implements the Keycloak admin API client used for
// per-realm user exports. Authentication uses the password grant against
// the master realm with the admin-cli client.
package keycloak

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"


	"github.com/opsforge/usersync/internal/transport"
	"github.com/opsforge/usersync/pkg/errors"
	"github.com/opsforge/usersync/pkg/logging"
)

// SourceName identifies this client in logs and errors.
const SourceName = "keycloak"

// Config carries the admin credentials and the realms to export.
type Config struct {
	ServerURL string
	Username  string
	Password  string
	Realms    []string
}

// Client talks to the Keycloak admin API.
type Client struct {
	cfg  Config
	http *transport.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

// New creates a client, validating configuration.
func New(cfg Config) (*Client, error) {
	if cfg.ServerURL == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, &errors.AuthenticationError{
			Source:  SourceName,
			Method:  "password",
			Message: "missing Keycloak configuration (server URL, admin username or password)",
		}
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")

	c := &Client{cfg: cfg}
	c.http = transport.New(SourceName, &transport.TokenSourceAuth{Token: c.accessToken})
	return c, nil
}

// Name returns the source system name.
func (c *Client) Name() string {
	return SourceName
}

// tokenResponse is the OpenID Connect token endpoint payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a cached admin token, re-authenticating against the
// master realm when the cached one is near expiry.
func (c *Client) accessToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expires) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {"admin-cli"},
		"username":   {c.cfg.Username},
		"password":   {c.cfg.Password},
	}

	// Token requests go out unauthenticated.
	tokenClient := transport.New(SourceName, &transport.NoAuth{})
	endpoint := c.cfg.ServerURL + "/realms/master/protocol/openid-connect/token"

	var tok tokenResponse
	if err := tokenClient.PostForm(context.Background(), endpoint, form, &tok); err != nil {
		return "", &errors.AuthenticationError{
			Source:  SourceName,
			Method:  "password",
			Message: "token request failed",
			Err:     err,
		}
	}

	c.token = tok.AccessToken
	// Refresh a little early rather than ride out the full lifetime.
	c.expires = time.Now().Add(time.Duration(tok.ExpiresIn-10) * time.Second)
	return c.token, nil
}

// User is one Keycloak user entry. The realm export keeps the Keycloak
// shape rather than forcing it into a directory record; realm exports feed
// CSV files, not the reconciliation pipeline.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Enabled   bool   `json:"enabled"`
}

// RealmUsers lists all users of the given realm.
func (c *Client) RealmUsers(ctx context.Context, realm string) ([]User, error) {
	var users []User
	endpoint := fmt.Sprintf("%s/admin/realms/%s/users?max=-1", c.cfg.ServerURL, url.PathEscape(realm))
	if err := c.http.GetJSON(ctx, endpoint, &users); err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Debug().Str("realm", realm).Int("users", len(users)).Msg("fetched realm users")
	return users, nil
}

// Realms returns the configured realm names with blanks dropped.
func (c *Client) Realms() []string {
	realms := make([]string, 0, len(c.cfg.Realms))
	for _, realm := range c.cfg.Realms {
		if realm = strings.TrimSpace(realm); realm != "" {
			realms = append(realms, realm)
		}
	}
	return realms
}
