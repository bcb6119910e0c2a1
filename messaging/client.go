// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/bureau-foundation/presence-monitor/lib/netutil"
	"github.com/bureau-foundation/presence-monitor/lib/secret"
)

// accessTokenParameter is the query parameter carrying the access token
// on r0 client-server API requests.
const accessTokenParameter = "access_token"

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// HomeserverURL is the base URL of the Matrix homeserver (e.g., "https://matrix.example.org").
	HomeserverURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	// It should not carry a Timeout shorter than the long-poll timeout.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is an unauthenticated Matrix client.
// It holds the homeserver URL and HTTP transport, shared across Sessions.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new unauthenticated Matrix client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.HomeserverURL == "" {
		return nil, fmt.Errorf("messaging: HomeserverURL is required")
	}

	parsed, err := url.Parse(config.HomeserverURL)
	if err != nil {
		return nil, fmt.Errorf("messaging: invalid HomeserverURL %q: %w", config.HomeserverURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("messaging: HomeserverURL %q must be absolute", config.HomeserverURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.HomeserverURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BaseURL returns the homeserver URL with any trailing slash removed.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SessionFromToken creates a Session from an access token string. The
// token is copied into mmap-backed memory. This does NOT validate the
// token; the first API call fails if it is invalid.
//
// The caller must call Close on the returned Session when done.
func (c *Client) SessionFromToken(accessToken string) (*Session, error) {
	tokenBuffer, err := secret.NewFromString(accessToken)
	if err != nil {
		return nil, fmt.Errorf("messaging: protecting access token: %w", err)
	}
	return c.SessionFromBuffer(tokenBuffer), nil
}

// SessionFromBuffer creates a Session that takes ownership of an
// already-protected access token. Session.Close closes the buffer.
func (c *Client) SessionFromBuffer(accessToken *secret.Buffer) *Session {
	return &Session{
		client:      c,
		accessToken: accessToken,
	}
}

// doRequest performs a GET against the homeserver and returns the
// response body. On 2xx, returns the body. On 4xx/5xx, returns a
// *MatrixError, or a plain error carrying the body when the server did
// not answer with Matrix error JSON. accessToken may be nil for
// unauthenticated endpoints.
func (c *Client) doRequest(ctx context.Context, path string, accessToken *secret.Buffer, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	if accessToken != nil {
		query.Set(accessTokenParameter, accessToken.String())
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		err = netutil.RedactURLError(err, accessTokenParameter)
		return nil, fmt.Errorf("messaging: failed to create request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		err = netutil.RedactURLError(err, accessTokenParameter)
		return nil, fmt.Errorf("messaging: request to GET %s failed: %w", path, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("messaging: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// All Matrix error responses use the same JSON shape.
	var matrixErr MatrixError
	if jsonErr := json.Unmarshal(responseBody, &matrixErr); jsonErr != nil || matrixErr.Code == "" {
		return nil, fmt.Errorf("messaging: unexpected %d response from GET %s: %s",
			response.StatusCode, path, string(responseBody))
	}
	matrixErr.StatusCode = response.StatusCode

	return nil, &matrixErr
}
