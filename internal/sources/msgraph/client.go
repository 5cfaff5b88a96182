// Package msgraph implements the Microsoft Graph client: the
// secondary-source fetcher. Authentication uses the OAuth2 client
// credentials flow against the tenant's token endpoint; the token is
// acquired and refreshed by the oauth2 transport.
package msgraph

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/opsforge/usersync/internal/transport"
	"github.com/opsforge/usersync/pkg/directory"
	"github.com/opsforge/usersync/pkg/errors"
	"github.com/opsforge/usersync/pkg/logging"
)

// SourceName identifies this client in logs and errors.
const SourceName = "msgraph"

// DefaultBaseURL is the Graph API root.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// selectFields are the only user attributes the pipeline needs.
const selectFields = "id,userPrincipalName,displayName,mail,jobTitle,department,officeLocation,accountEnabled,userType"

// Config carries the app-registration credentials for one tenant.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	BaseURL      string // defaults to DefaultBaseURL
	TokenURL     string // defaults to the tenant's login.microsoftonline.com endpoint
	ActiveOnly   bool   // drop disabled accounts at the boundary
}

// Client talks to the Microsoft Graph API.
type Client struct {
	cfg  Config
	http *transport.Client
}

// New creates a client, validating that credentials are present.
func New(ctx context.Context, cfg Config) (*Client, error) {
	for name, value := range map[string]string{
		"M365_TENANT_ID":     cfg.TenantID,
		"M365_CLIENT_ID":     cfg.ClientID,
		"M365_CLIENT_SECRET": cfg.ClientSecret,
	} {
		if value == "" {
			return nil, &errors.AuthenticationError{
				Source:  SourceName,
				Method:  "client_credentials",
				Message: name + " is not set",
			}
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID)
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}

	return &Client{
		cfg:  cfg,
		http: transport.New(SourceName, &transport.NoAuth{}).WithHTTPClient(creds.Client(ctx)),
	}, nil
}

// Name returns the source system name.
func (c *Client) Name() string {
	return SourceName
}

// graphUser is the wire shape of one Graph directory entry.
type graphUser struct {
	ID                string  `json:"id"`
	UserPrincipalName string  `json:"userPrincipalName"`
	DisplayName       string  `json:"displayName"`
	Mail              string  `json:"mail"`
	JobTitle          *string `json:"jobTitle"`
	Department        *string `json:"department"`
	OfficeLocation    *string `json:"officeLocation"`
	AccountEnabled    bool    `json:"accountEnabled"`
	UserType          string  `json:"userType"`
}

// userPage is one page of the /users listing.
type userPage struct {
	Value    []graphUser `json:"value"`
	NextLink string      `json:"@odata.nextLink"`
}

// FetchUsers pages through /users via @odata.nextLink and normalizes each
// entry. With ActiveOnly set, disabled accounts are dropped before
// normalization.
func (c *Client) FetchUsers(ctx context.Context) ([]directory.UserRecord, error) {
	var records []directory.UserRecord

	endpoint := fmt.Sprintf("%s/users?$select=%s&$top=999", c.cfg.BaseURL, url.QueryEscape(selectFields))
	for endpoint != "" {
		var page userPage
		if err := c.http.GetJSON(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, u := range page.Value {
			if c.cfg.ActiveOnly && !u.AccountEnabled {
				continue
			}
			records = append(records, directory.Normalize(directory.SourceSecondary, directory.RawRecord{
				AccountID:   u.ID,
				Email:       u.Mail,
				DisplayName: u.DisplayName,
				AccountType: u.UserType,
				Active:      u.AccountEnabled,
				JobTitle:    u.JobTitle,
				Department:  u.Department,
				Location:    u.OfficeLocation,
			}))
		}

		logging.Ctx(ctx).Debug().Int("page", len(page.Value)).Int("total", len(records)).Msg("fetched graph users")
		endpoint = page.NextLink
	}

	return records, nil
}
