// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultHTTPTimeout is the default timeout for token endpoint requests.
const DefaultHTTPTimeout = 30 * time.Second

// Client talks to the provider's authorization and token endpoints.
type Client struct {
	endpoint   oauth2.Endpoint
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(endpoint oauth2.Endpoint, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthCodeURL builds the consent page URL. Offline access and a forced
// consent prompt are always requested so the provider issues a refresh token.
// scope is passed through as-is.
func (c *Client) AuthCodeURL(clientID, redirectURI, scope, state string, opts ...oauth2.AuthCodeOption) string {
	cfg := &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Endpoint:    c.endpoint,
	}
	options := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
	}
	if scope != "" {
		options = append(options, oauth2.SetAuthURLParam("scope", scope))
	}
	options = append(options, opts...)
	return cfg.AuthCodeURL(state, options...)
}

// ExchangeCode trades an authorization code for tokens. codeVerifier is the
// PKCE verifier and is omitted from the request when empty.
func (c *Client) ExchangeCode(ctx context.Context, clientID, clientSecret, code, redirectURI, codeVerifier string) (*TokenRecord, error) {
	data := url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {redirectURI},
	}
	if codeVerifier != "" {
		data.Set("code_verifier", codeVerifier)
	}
	return c.doTokenRequest(ctx, "token exchange", data)
}

// Refresh obtains a new access token. The returned record carries whatever
// the provider sent; backfilling an omitted refresh token is the caller's job.
func (c *Client) Refresh(ctx context.Context, clientID, clientSecret, refreshToken string) (*TokenRecord, error) {
	data := url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	return c.doTokenRequest(ctx, "refresh", data)
}

func (c *Client) doTokenRequest(ctx context.Context, op string, data url.Values) (*TokenRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, NewAuthErrorWithCause(ErrConfig, "failed to create "+op+" request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewAuthErrorWithCause(ErrCancelled, op+" request cancelled", ctx.Err())
		}
		return nil, NewAuthErrorWithCause(ErrNetwork, op+" request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewAuthErrorWithCause(ErrNetwork, "failed to read "+op+" response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("Token endpoint rejected request",
			"operation", op,
			"status", resp.StatusCode,
			"body", string(body))
		return nil, NewProviderError(op+" rejected by provider", resp.StatusCode, string(body))
	}

	return decodeTokenRecord(body)
}

func decodeTokenRecord(body []byte) (*TokenRecord, error) {
	var token TokenRecord
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, NewAuthErrorWithCause(ErrDecode, "failed to decode token response", err)
	}
	if token.AccessToken == "" {
		return nil, NewAuthError(ErrDecode, "token response missing access_token")
	}
	if token.TokenType == "" {
		return nil, NewAuthError(ErrDecode, "token response missing token_type")
	}

	// a zero lifetime is valid, an absent one is not
	var lifetime struct {
		ExpiresIn *int64 `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &lifetime); err != nil || lifetime.ExpiresIn == nil {
		return nil, NewAuthError(ErrDecode, "token response missing expires_in")
	}
	return &token, nil
}
