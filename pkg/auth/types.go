package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// TokenRecord is the decoded token endpoint response.
type TokenRecord struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
}

// HasRefreshToken reports whether the provider (or a backfill) supplied a refresh token.
func (t *TokenRecord) HasRefreshToken() bool {
	return t.RefreshToken != ""
}

// OAuth2Token converts the record for use with golang.org/x/oauth2 transports.
// issuedAt is the time the token endpoint answered.
func (t *TokenRecord) OAuth2Token(issuedAt time.Time) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    t.ExpiresIn,
	}
	if t.ExpiresIn > 0 {
		token.Expiry = issuedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	if t.IDToken != "" {
		token = token.WithExtra(map[string]interface{}{
			"id_token": t.IDToken,
		})
	}
	return token
}

type callbackResult struct {
	Result *CallbackResult
	Error  error
}

// CallbackResult holds the query parameters captured from the provider redirect.
type CallbackResult struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// IsError returns true if the provider redirected back with an error.
func (r *CallbackResult) IsError() bool {
	return r.Error != ""
}
