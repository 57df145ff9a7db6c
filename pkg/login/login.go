// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package login

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/huh"
	"github.com/kusaridev/tasklink/api/configuration"
	"github.com/kusaridev/tasklink/pkg/auth"
	"github.com/kusaridev/tasklink/pkg/constants"
	"golang.org/x/oauth2"
)

// package-level hooks replaced in tests
var (
	openBrowser = auth.OpenBrowser
	newStore    = func(cfg *configuration.Config) auth.CredentialStore {
		return auth.NewKeyringStore(cfg.KeyringService, cfg.KeyringAccount)
	}
	confirm    = confirmPrompt
	httpClient = &http.Client{Timeout: auth.DefaultHTTPTimeout}
)

// Endpoint returns the provider endpoints for cfg. When an issuer is
// configured they are read from its discovery document.
func Endpoint(ctx context.Context, cfg *configuration.Config) (oauth2.Endpoint, error) {
	if cfg.Issuer != "" {
		return auth.Discover(ctx, cfg.Issuer, httpClient)
	}
	return staticEndpoint(cfg), nil
}

func staticEndpoint(cfg *configuration.Config) oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   cfg.AuthURL,
		TokenURL:  cfg.TokenURL,
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

// NewSession wires the token client, the keyring store and the browser
// launcher into a session coordinator.
func NewSession(ctx context.Context, cfg *configuration.Config, logger *slog.Logger, opts ...auth.SessionOption) (*auth.Session, error) {
	endpoint, err := Endpoint(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := auth.NewClient(endpoint, auth.WithHTTPClient(httpClient), auth.WithLogger(logger))
	opts = append([]auth.SessionOption{
		auth.WithBrowser(openBrowser),
		auth.WithSessionLogger(logger),
	}, opts...)
	return auth.NewSession(client, newStore(cfg), opts...), nil
}

// Login runs the interactive browser sign-in. scope overrides the configured
// scope when non-empty; identity adds the OpenID scopes so that auth status
// can show the signed-in account.
func Login(ctx context.Context, w io.Writer, cfg *configuration.Config, scope string, identity bool, logger *slog.Logger) error {
	if scope == "" {
		scope = cfg.Scope
	}
	if identity {
		scope = auth.AddIdentityScopes(scope)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = os.Stderr
	s.Prefix = "Waiting for sign-in to complete in your browser... "

	session, err := NewSession(ctx, cfg, logger,
		auth.WithAuthURLHandler(func(authURL string) {
			fmt.Fprintln(w, "Opening your browser to sign in. If it does not open, visit:")
			fmt.Fprintf(w, "\n  %s\n\n", authURL)
		}),
		auth.WithStateObserver(func(state auth.State) {
			switch state {
			case auth.StateAwaitingRedirect:
				s.Start()
			case auth.StateCodeReceived, auth.StateFailed:
				s.Stop()
			}
		}),
	)
	if err != nil {
		return Explain("sign-in", err)
	}

	token, err := session.Start(ctx, cfg.ClientID, cfg.ClientSecret, scope)
	s.Stop()
	if err != nil {
		return Explain("sign-in", err)
	}

	fmt.Fprintln(w, "Successfully signed in!")
	if !token.HasRefreshToken() {
		fmt.Fprintln(w, "The provider did not issue a refresh token, you will need to sign in again next time.")
	}
	if id := identify(ctx, cfg, token, logger); id != nil {
		fmt.Fprintf(w, "Signed in as: %s\n", id.Email)
	}
	return nil
}

// Token restores the stored session and returns a fresh access token.
func Token(ctx context.Context, cfg *configuration.Config, logger *slog.Logger) (*auth.TokenRecord, error) {
	session, err := NewSession(ctx, cfg, logger)
	if err != nil {
		return nil, Explain("session restore", err)
	}
	token, err := session.Restore(ctx, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		return nil, Explain("session restore", err)
	}
	return token, nil
}

// Status reports whether a stored session can be restored.
func Status(ctx context.Context, w io.Writer, cfg *configuration.Config, logger *slog.Logger) error {
	token, err := Token(ctx, cfg, logger)
	if err != nil {
		if auth.IsCode(err, auth.ErrStoreNotFound) {
			fmt.Fprintln(w, "Not signed in. To sign in, run: tasklink auth login")
			return nil
		}
		return err
	}

	fmt.Fprintln(w, "Signed in.")
	if token.ExpiresIn > 0 {
		fmt.Fprintf(w, " Access token valid for: %s\n", time.Duration(token.ExpiresIn)*time.Second)
	}
	if token.Scope != "" {
		fmt.Fprintf(w, " Scope: %s\n", token.Scope)
	}
	if id := identify(ctx, cfg, token, logger); id != nil {
		fmt.Fprintf(w, " Account: %s\n", id.Email)
	}
	return nil
}

// Logout removes the stored refresh token after asking for confirmation,
// unless assumeYes is set.
func Logout(w io.Writer, cfg *configuration.Config, assumeYes bool, logger *slog.Logger) error {
	if !assumeYes {
		ok, err := confirm("Remove the stored sign-in from this machine?")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			fmt.Fprintln(w, "Sign-out cancelled.")
			return nil
		}
	}

	// signing out never talks to the provider, so skip discovery
	client := auth.NewClient(staticEndpoint(cfg), auth.WithLogger(logger))
	session := auth.NewSession(client, newStore(cfg), auth.WithSessionLogger(logger))
	if err := session.SignOut(); err != nil {
		return Explain("sign-out", err)
	}

	fmt.Fprintln(w, "Signed out.")
	return nil
}

// Explain prefixes err with the failed action and what the user should do
// next.
func Explain(action string, err error) error {
	return fmt.Errorf("%s failed, %s: %w", action, auth.Category(err), err)
}

// identify verifies the ID token, when the provider sent one, and returns
// the account it names. Failures are logged and yield nil.
func identify(ctx context.Context, cfg *configuration.Config, token *auth.TokenRecord, logger *slog.Logger) *auth.Identity {
	if token.IDToken == "" {
		return nil
	}
	issuer := cfg.Issuer
	if issuer == "" {
		if cfg.AuthURL != constants.DefaultAuthURL {
			return nil
		}
		issuer = constants.GoogleIssuer
	}

	id, err := auth.VerifyIDToken(ctx, issuer, cfg.ClientID, token.IDToken, httpClient)
	if err != nil {
		logger.Debug("Could not verify id_token", "error", err)
		return nil
	}
	return id
}

func confirmPrompt(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}
