// Package transport provides the authenticated HTTP client shared by the
// identity-source clients.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opsforge/usersync/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = 30 * time.Second

// Client provides HTTP client functionality with authentication.
type Client struct {
	source string // source system name used in errors
	http   *http.Client
	auth   Authenticator
}

// New creates a transport client for the named source system.
func New(source string, auth Authenticator) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		source: source,
		http:   &http.Client{Timeout: DefaultHTTPTimeout},
		auth:   auth,
	}
}

// WithHTTPClient replaces the underlying http.Client. Used by the Graph
// client to plug in the oauth2 client-credentials transport.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.http = hc
	}
	return c
}

// Do performs an HTTP request with authentication and common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.auth.Apply(req)

	req.Header.Set("Accept", "application/json")
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		if req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{
			Source:   c.source,
			Endpoint: req.URL.String(),
			Message:  "request failed",
			Err:      err,
		}
	}
	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.WrapAPI(c.source, 0, err)
	}
	return c.doJSON(req, out)
}

// PatchJSON performs a PATCH request with a JSON body. Responses with no
// body (204) are accepted; when out is non-nil and a body is present it is
// decoded into out.
func (c *Client) PatchJSON(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.WrapParse("json", "", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.WrapAPI(c.source, 0, err)
	}
	return c.doJSON(req, out)
}

// PostForm performs a form-encoded POST and decodes the JSON response.
// Used for OAuth token endpoints.
func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.WrapAPI(c.source, 0, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.doJSON(req, out)
}

// doJSON executes the request and maps non-2xx statuses to APIErrors
// carrying a snippet of the response body.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		// Drain any remaining body to allow connection reuse
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &errors.APIError{
			Source:     c.source,
			StatusCode: resp.StatusCode,
			Endpoint:   req.URL.String(),
			Message:    strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapParse("json", req.URL.String(), err)
	}
	return nil
}
