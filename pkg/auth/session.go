// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/kusaridev/tasklink/pkg/port"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// DefaultScope is requested when the caller does not name a scope.
const DefaultScope = "https://www.googleapis.com/auth/tasks"

// State is a step of a sign-in or restore flow.
type State int

const (
	StateIdle State = iota
	StateListenerBound
	StateBrowserLaunched
	StateAwaitingRedirect
	StateCodeReceived
	StateExchanging
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListenerBound:
		return "listener_bound"
	case StateBrowserLaunched:
		return "browser_launched"
	case StateAwaitingRedirect:
		return "awaiting_redirect"
	case StateCodeReceived:
		return "code_received"
	case StateExchanging:
		return "exchanging"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session coordinates sign-in, silent restore and sign-out for the single
// account of this installation.
type Session struct {
	client      *Client
	store       CredentialStore
	logger      *slog.Logger
	openBrowser func(url string) error
	allocate    func() (net.Listener, int, error)
	observe     func(State)
	onAuthURL   func(url string)

	// concurrent Start or Restore calls share the in-flight flow
	mu       sync.Mutex
	inflight map[string]*flight
	nextID   uint64
	flights  singleflight.Group
}

// flight is one running Start or Restore and the callers waiting on it. The
// flow runs on its own context, cancelled once every waiter has left.
type flight struct {
	key     string
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithBrowser replaces the system browser launcher.
func WithBrowser(open func(url string) error) SessionOption {
	return func(s *Session) {
		s.openBrowser = open
	}
}

// WithPortAllocator replaces the loopback listener allocation.
func WithPortAllocator(allocate func() (net.Listener, int, error)) SessionOption {
	return func(s *Session) {
		s.allocate = allocate
	}
}

// WithStateObserver registers a callback invoked on every state transition.
func WithStateObserver(observe func(State)) SessionOption {
	return func(s *Session) {
		s.observe = observe
	}
}

// WithAuthURLHandler registers a callback that receives the authorization
// URL just before the browser is launched.
func WithAuthURLHandler(handle func(url string)) SessionOption {
	return func(s *Session) {
		s.onAuthURL = handle
	}
}

// WithSessionLogger sets a custom logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

func NewSession(client *Client, store CredentialStore, opts ...SessionOption) *Session {
	s := &Session{
		client:      client,
		store:       store,
		logger:      slog.Default(),
		openBrowser: OpenBrowser,
		allocate:    port.Allocate,
		inflight:    make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// pendingFlow is the state owned by one Start call.
type pendingFlow struct {
	listener    net.Listener
	port        int
	redirectURI string
	scope       string
}

func (f *pendingFlow) release() {
	_ = f.listener.Close()
}

// Start runs the interactive loopback sign-in. It blocks until the browser
// redirect arrives, ctx is cancelled, or a step fails.
func (s *Session) Start(ctx context.Context, clientID, clientSecret, scope string) (*TokenRecord, error) {
	if scope == "" {
		scope = DefaultScope
	}
	return s.join(ctx, "start\x00"+clientID+"\x00"+scope, func(flowCtx context.Context) (*TokenRecord, error) {
		return s.start(flowCtx, clientID, clientSecret, scope)
	})
}

func (s *Session) start(ctx context.Context, clientID, clientSecret, scope string) (token *TokenRecord, err error) {
	s.transition(StateIdle)
	defer func() {
		if err != nil {
			s.transition(StateFailed)
			s.logger.Debug("Sign-in failed", "code", CodeOf(err).String())
		}
	}()

	ln, listenPort, err := s.allocate()
	if err != nil {
		return nil, NewAuthErrorWithCause(ErrBind, "failed to bind redirect listener", err)
	}
	flow := &pendingFlow{
		listener:    ln,
		port:        listenPort,
		redirectURI: port.RedirectURI(listenPort),
		scope:       scope,
	}
	defer flow.release()
	s.transition(StateListenerBound)

	// Generate and use state to prevent CSRF attacks
	state, err := generateRandomString(32)
	if err != nil {
		return nil, NewAuthErrorWithCause(ErrUnknown, "failed to generate state", err)
	}
	// use PKCE to protect the auth code exchange
	codeVerifier := oauth2.GenerateVerifier()

	authURL := s.client.AuthCodeURL(clientID, flow.redirectURI, flow.scope, state, oauth2.S256ChallengeOption(codeVerifier))
	if s.onAuthURL != nil {
		s.onAuthURL(authURL)
	}
	if err := s.openBrowser(authURL); err != nil {
		return nil, NewAuthErrorWithCause(ErrBrowserLaunch, "failed to open system browser", err)
	}
	s.transition(StateBrowserLaunched)

	s.transition(StateAwaitingRedirect)
	result, err := AcceptCallback(ctx, flow.listener)
	if err != nil {
		return nil, err
	}
	if result.State != state {
		return nil, NewAuthError(ErrStateMismatch, "state parameter in callback does not match the request")
	}
	s.transition(StateCodeReceived)

	s.transition(StateExchanging)
	token, err = s.client.ExchangeCode(ctx, clientID, clientSecret, result.Code, flow.redirectURI, codeVerifier)
	if err != nil {
		return nil, err
	}

	if token.HasRefreshToken() {
		s.persist(token.RefreshToken)
	} else {
		s.logger.Warn("Provider returned no refresh token, the session will not survive a restart")
	}

	s.transition(StateAuthenticated)
	return token, nil
}

// Restore exchanges the stored refresh token for a new access token. When
// nothing is stored it fails with ErrStoreNotFound so the caller can fall
// back to Start.
func (s *Session) Restore(ctx context.Context, clientID, clientSecret string) (*TokenRecord, error) {
	return s.join(ctx, "restore\x00"+clientID, func(flowCtx context.Context) (*TokenRecord, error) {
		return s.restore(flowCtx, clientID, clientSecret)
	})
}

func (s *Session) restore(ctx context.Context, clientID, clientSecret string) (token *TokenRecord, err error) {
	s.transition(StateIdle)
	defer func() {
		if err != nil {
			s.transition(StateFailed)
		}
	}()

	refreshToken, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	s.transition(StateExchanging)
	token, err = s.client.Refresh(ctx, clientID, clientSecret, refreshToken)
	if err != nil {
		return nil, err
	}

	switch {
	case !token.HasRefreshToken():
		// providers usually omit refresh_token on refresh
		token.RefreshToken = refreshToken
	case token.RefreshToken != refreshToken:
		s.persist(token.RefreshToken)
	}

	s.transition(StateAuthenticated)
	return token, nil
}

// join runs flow, or attaches to the identical flow already running, and waits
// for its result or for ctx to end. A caller whose ctx ends gets ErrCancelled
// without affecting the other waiters; the flow itself is cancelled only when
// the last waiter leaves.
func (s *Session) join(ctx context.Context, key string, flow func(context.Context) (*TokenRecord, error)) (*TokenRecord, error) {
	s.mu.Lock()
	if s.inflight == nil {
		s.inflight = make(map[string]*flight)
	}
	f, ok := s.inflight[key]
	if !ok {
		s.nextID++
		flowCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{
			key:    key + "\x00" + strconv.FormatUint(s.nextID, 10),
			ctx:    flowCtx,
			cancel: cancel,
		}
		s.inflight[key] = f
	}
	f.waiters++
	// f is only removed from inflight under mu, so its call is still running
	// and DoChan attaches to it rather than starting a second one
	ch := s.flights.DoChan(f.key, func() (interface{}, error) {
		defer s.finish(key, f)
		return flow(f.ctx)
	})
	s.mu.Unlock()

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*TokenRecord), nil
	case <-ctx.Done():
		s.leave(key, f)
		return nil, NewAuthErrorWithCause(ErrCancelled, "sign-in cancelled by caller", ctx.Err())
	}
}

func (s *Session) finish(key string, f *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[key] == f {
		delete(s.inflight, key)
	}
	f.cancel()
}

// leave drops one waiter. The last waiter to leave abandons the flow, which
// closes its redirect listener.
func (s *Session) leave(key string, f *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	if s.inflight[key] == f {
		delete(s.inflight, key)
	}
	f.cancel()
}

// SignOut removes the stored refresh token. Signing out when nothing is
// stored succeeds.
func (s *Session) SignOut() error {
	if err := s.store.Delete(); err != nil && !IsCode(err, ErrStoreNotFound) {
		return err
	}
	return nil
}

// persist saves the refresh token. A failure is logged and swallowed: the
// in-memory session is still valid for this run.
func (s *Session) persist(refreshToken string) {
	if err := s.store.Save(refreshToken); err != nil {
		s.logger.Warn("Failed to persist refresh token, sign-in will not be remembered", "error", err)
	}
}

func (s *Session) transition(state State) {
	s.logger.Debug("Session state", "state", state.String())
	if s.observe != nil {
		s.observe(state)
	}
}

func generateRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
