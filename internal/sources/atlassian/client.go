// Package atlassian implements the Atlassian Organization API client: the
// primary-source fetcher and the write surface the update executor drives.
// Requires an Organization API key with Org Admin permissions.
package atlassian

import (
	"context"
	"fmt"

	"github.com/opsforge/usersync/internal/transport"
	"github.com/opsforge/usersync/pkg/directory"
	"github.com/opsforge/usersync/pkg/errors"
	"github.com/opsforge/usersync/pkg/logging"
)

// SourceName identifies this client in logs and errors.
const SourceName = "atlassian"

// DefaultBaseURL is the Atlassian admin API root.
const DefaultBaseURL = "https://api.atlassian.com"

// Config carries the credentials and endpoints for one organization.
// It is passed in explicitly at construction; the client holds no global
// state.
type Config struct {
	OrgID   string
	APIKey  string
	BaseURL string // defaults to DefaultBaseURL
}

// Client talks to the Atlassian Organization API.
type Client struct {
	cfg  Config
	http *transport.Client
}

// New creates a client, validating that credentials are present.
func New(cfg Config) (*Client, error) {
	if cfg.OrgID == "" {
		return nil, &errors.AuthenticationError{
			Source:  SourceName,
			Method:  "api_key",
			Message: "ATLASSIAN_ORG_ID is not set",
		}
	}
	if cfg.APIKey == "" {
		return nil, &errors.AuthenticationError{
			Source:  SourceName,
			Method:  "api_key",
			Message: "ATLASSIAN_ORG_API_KEY is not set",
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		cfg:  cfg,
		http: transport.New(SourceName, &transport.BearerAuth{Token: cfg.APIKey}),
	}, nil
}

// Name returns the source system name.
func (c *Client) Name() string {
	return SourceName
}

// orgUser is the wire shape of one organization directory entry.
type orgUser struct {
	AccountID     string `json:"account_id"`
	AccountStatus string `json:"account_status"`
	AccountType   string `json:"account_type"`
	Name          string `json:"name"`
	Email         string `json:"email"`
}

// userPage is one page of the organization user listing.
type userPage struct {
	Data  []orgUser `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// profileResponse wraps the managed-profile endpoint's payload.
type profileResponse struct {
	Account struct {
		ExtendedProfile struct {
			JobTitle   *string `json:"job_title"`
			Department *string `json:"department"`
			Location   *string `json:"location"`
		} `json:"extended_profile"`
	} `json:"account"`
}

// FetchUsers lists all organization users via link-based pagination and
// enriches each with its extended profile. A failure of the listing itself
// is fatal; a failed profile lookup leaves that record without profile
// fields, mirroring how the directory omits unset profiles.
func (c *Client) FetchUsers(ctx context.Context) ([]directory.UserRecord, error) {
	raws, err := c.listUsers(ctx)
	if err != nil {
		return nil, err
	}

	log := logging.Ctx(ctx)
	records := make([]directory.UserRecord, 0, len(raws))
	for i, u := range raws {
		raw := directory.RawRecord{
			AccountID:   u.AccountID,
			Email:       u.Email,
			DisplayName: u.Name,
			AccountType: u.AccountType,
			Active:      u.AccountStatus == "active",
		}

		if u.AccountID != "" {
			if profile, err := c.fetchProfile(ctx, u.AccountID); err != nil {
				log.Debug().Err(err).Str("account_id", u.AccountID).Msg("profile lookup failed")
			} else {
				raw.JobTitle = profile.Account.ExtendedProfile.JobTitle
				raw.Department = profile.Account.ExtendedProfile.Department
				raw.Location = profile.Account.ExtendedProfile.Location
			}
		}

		records = append(records, directory.Normalize(directory.SourcePrimary, raw))

		if (i+1)%10 == 0 {
			log.Debug().Int("processed", i+1).Int("total", len(raws)).Msg("fetching profiles")
		}
	}

	return records, nil
}

// listUsers pages through /admin/v1/orgs/{orgId}/users.
func (c *Client) listUsers(ctx context.Context) ([]orgUser, error) {
	var all []orgUser

	url := fmt.Sprintf("%s/admin/v1/orgs/%s/users", c.cfg.BaseURL, c.cfg.OrgID)
	for url != "" {
		var page userPage
		if err := c.http.GetJSON(ctx, url, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		logging.Ctx(ctx).Debug().Int("page", len(page.Data)).Int("total", len(all)).Msg("fetched organization users")
		url = page.Links.Next
	}

	return all, nil
}

// fetchProfile retrieves the extended profile for one account.
func (c *Client) fetchProfile(ctx context.Context, accountID string) (*profileResponse, error) {
	var profile profileResponse
	url := fmt.Sprintf("%s/users/%s/manage/profile", c.cfg.BaseURL, accountID)
	if err := c.http.GetJSON(ctx, url, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile patches extended-profile fields for an account.
// The payload is the flat structure the profile API documents.
func (c *Client) UpdateProfile(ctx context.Context, accountID string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	payload := map[string]any{"extended_profile": fields}
	url := fmt.Sprintf("%s/users/%s/manage/profile", c.cfg.BaseURL, accountID)
	return c.http.PatchJSON(ctx, url, payload, nil)
}

// UpdateDisplayName patches the display name for an account. The field is
// often owned by the user or an SSO provider, so callers treat failures
// here as expected.
func (c *Client) UpdateDisplayName(ctx context.Context, accountID, name string) error {
	payload := map[string]any{"name": name}
	url := fmt.Sprintf("%s/users/%s/manage/profile", c.cfg.BaseURL, accountID)
	return c.http.PatchJSON(ctx, url, payload, nil)
}
