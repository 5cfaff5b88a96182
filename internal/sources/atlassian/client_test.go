package atlassian

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsforge/usersync/pkg/directory"
	"github.com/opsforge/usersync/pkg/errors"
)

func TestNewValidation(t *testing.T) {
	t.Run("missing org id", func(t *testing.T) {
		_, err := New(Config{APIKey: "key"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrAPIKeyRequired))
		assert.Contains(t, err.Error(), "ATLASSIAN_ORG_ID")
	})

	t.Run("missing api key", func(t *testing.T) {
		_, err := New(Config{OrgID: "org"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ATLASSIAN_ORG_API_KEY")
	})

	t.Run("default base url", func(t *testing.T) {
		c, err := New(Config{OrgID: "org", APIKey: "key"})
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, c.cfg.BaseURL)
	})
}

// newTestServer serves a two-page user listing plus per-account profiles.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		switch {
		case strings.HasSuffix(r.URL.Path, "/orgs/test-org/users"):
			if r.URL.Query().Get("cursor") == "2" {
				fmt.Fprint(w, `{"data":[
					{"account_id":"acc-2","account_status":"inactive","account_type":"app","name":"CI Bot","email":"bot@example.com"}
				],"links":{}}`)
				return
			}
			fmt.Fprintf(w, `{"data":[
				{"account_id":"acc-1","account_status":"active","account_type":"atlassian","name":"Alice","email":"Alice@Example.com"}
			],"links":{"next":"%s/admin/v1/orgs/test-org/users?cursor=2"}}`, srv.URL)

		case r.URL.Path == "/users/acc-1/manage/profile":
			fmt.Fprint(w, `{"account":{"extended_profile":{"job_title":"Engineer","department":null,"location":"Vienna"}}}`)

		case r.URL.Path == "/users/acc-2/manage/profile":
			http.Error(w, "forbidden", http.StatusForbidden)

		default:
			http.NotFound(w, r)
		}
	}))
	return srv
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Config{OrgID: "test-org", APIKey: "test-key", BaseURL: baseURL})
	require.NoError(t, err)
	return c
}

func TestFetchUsers(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	records, err := newTestClient(t, srv.URL).FetchUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2, "pagination must follow the next link")

	alice := records[0]
	assert.Equal(t, directory.SourcePrimary, alice.Source)
	assert.Equal(t, "acc-1", alice.AccountID)
	assert.Equal(t, "alice@example.com", alice.IdentityKey)
	assert.Equal(t, directory.AccountKindUser, alice.Kind)
	assert.True(t, alice.Active)
	require.NotNil(t, alice.Profile)
	assert.Equal(t, "Engineer", alice.Profile.JobTitle)
	assert.Empty(t, alice.Profile.Department)
	assert.Equal(t, "Vienna", alice.Profile.Location)

	// The profile lookup for the bot failed; the record survives without
	// profile fields.
	bot := records[1]
	assert.Equal(t, "acc-2", bot.AccountID)
	assert.Equal(t, directory.AccountKindService, bot.Kind)
	assert.False(t, bot.Active)
	assert.Nil(t, bot.Profile)
}

func TestFetchUsersListingFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).FetchUsers(context.Background())
	require.Error(t, err)
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestUpdateProfile(t *testing.T) {
	var body map[string]map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/users/acc-1/manage/profile", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.UpdateProfile(context.Background(), "acc-1", map[string]string{"department": "Platform"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"department": "Platform"}, body["extended_profile"])

	t.Run("empty fields is a no-op", func(t *testing.T) {
		require.NoError(t, c.UpdateProfile(context.Background(), "acc-1", nil))
	})
}

func TestUpdateDisplayName(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).UpdateDisplayName(context.Background(), "acc-1", "Alice Liddell")
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", body["name"])
}
