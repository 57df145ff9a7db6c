// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Identity is the subset of ID token claims shown to the user.
type Identity struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// IdentityScopes are appended to the requested scope when the caller wants an
// ID token back from the provider.
var IdentityScopes = []string{oidc.ScopeOpenID, "email"}

// Discover resolves the authorization and token endpoints from an OIDC
// issuer's discovery document.
func Discover(ctx context.Context, issuer string, httpClient *http.Client) (oauth2.Endpoint, error) {
	provider, err := newProvider(ctx, issuer, httpClient)
	if err != nil {
		return oauth2.Endpoint{}, err
	}
	return provider.Endpoint(), nil
}

// VerifyIDToken checks the ID token's signature, issuer and audience and
// returns the identity claims it carries.
func VerifyIDToken(ctx context.Context, issuer, clientID, rawIDToken string, httpClient *http.Client) (*Identity, error) {
	provider, err := newProvider(ctx, issuer, httpClient)
	if err != nil {
		return nil, err
	}

	idToken, err := provider.Verifier(&oidc.Config{ClientID: clientID}).Verify(oidcContext(ctx, httpClient), rawIDToken)
	if err != nil {
		return nil, NewAuthErrorWithCause(ErrDecode, "failed to verify id_token", err)
	}

	var identity Identity
	if err := idToken.Claims(&identity); err != nil {
		return nil, NewAuthErrorWithCause(ErrDecode, "failed to decode id_token claims", err)
	}
	return &identity, nil
}

func newProvider(ctx context.Context, issuer string, httpClient *http.Client) (*oidc.Provider, error) {
	provider, err := oidc.NewProvider(oidcContext(ctx, httpClient), issuer)
	if err != nil {
		return nil, NewAuthErrorWithCause(ErrNetwork, "failed to discover OIDC provider "+issuer, err)
	}
	return provider, nil
}

func oidcContext(ctx context.Context, httpClient *http.Client) context.Context {
	if httpClient == nil {
		return ctx
	}
	return oidc.ClientContext(ctx, httpClient)
}

// AddIdentityScopes appends the IdentityScopes missing from the space
// separated scope.
func AddIdentityScopes(scope string) string {
	fields := strings.Fields(scope)
	for _, s := range IdentityScopes {
		if !slices.Contains(fields, s) {
			fields = append(fields, s)
		}
	}
	return strings.Join(fields, " ")
}
