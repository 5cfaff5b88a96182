package keycloak

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New(Config{ServerURL: "http://kc.local"})
	assert.Error(t, err, "admin credentials are required")

	c, err := New(Config{ServerURL: "http://kc.local/", Username: "admin", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "http://kc.local", c.cfg.ServerURL, "trailing slash is trimmed")
}

func TestRealms(t *testing.T) {
	c, err := New(Config{
		ServerURL: "http://kc.local",
		Username:  "admin",
		Password:  "pw",
		Realms:    []string{"staff", " ", "", "customers "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"staff", "customers"}, c.Realms())
}

func TestRealmUsers(t *testing.T) {
	var tokenRequests atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/realms/master/protocol/openid-connect/token":
			tokenRequests.Add(1)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "password", r.PostForm.Get("grant_type"))
			assert.Equal(t, "admin-cli", r.PostForm.Get("client_id"))
			assert.Equal(t, "admin", r.PostForm.Get("username"))
			fmt.Fprint(w, `{"access_token":"kc-token","expires_in":300}`)

		case "/admin/realms/staff/users":
			assert.Equal(t, "Bearer kc-token", r.Header.Get("Authorization"))
			assert.Equal(t, "-1", r.URL.Query().Get("max"))
			fmt.Fprint(w, `[
				{"id":"u1","username":"alice","email":"alice@example.com","firstName":"Alice","lastName":"Liddell","enabled":true},
				{"id":"u2","username":"bob","enabled":false}
			]`)

		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := New(Config{ServerURL: srv.URL, Username: "admin", Password: "pw"})
	require.NoError(t, err)

	users, err := c.RealmUsers(context.Background(), "staff")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.True(t, users[0].Enabled)
	assert.False(t, users[1].Enabled)

	// The token is cached across calls within its lifetime.
	_, err = c.RealmUsers(context.Background(), "staff")
	require.NoError(t, err)
	assert.Equal(t, int32(1), tokenRequests.Load())
}

func TestRealmUsersTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_grant", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(Config{ServerURL: srv.URL, Username: "admin", Password: "wrong"})
	require.NoError(t, err)

	// The token source fails silently at the auth layer; the unauthenticated
	// request is then rejected by the server.
	_, err = c.RealmUsers(context.Background(), "staff")
	require.Error(t, err)
}
