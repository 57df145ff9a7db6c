// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

// Package mcpserver exposes the sign-in session and the task listing as MCP
// tools so an agent host can drive them over stdio.
package mcpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/kusaridev/tasklink/api/configuration"
	"github.com/kusaridev/tasklink/pkg/auth"
	"github.com/kusaridev/tasklink/pkg/login"
	"github.com/kusaridev/tasklink/pkg/tasks"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverName = "tasklink"

// SessionFactory builds the session coordinator used by the tools.
type SessionFactory func(ctx context.Context) (*auth.Session, error)

// Server holds the signed-in state shared by every tool call.
type Server struct {
	cfg        *configuration.Config
	logger     *slog.Logger
	version    string
	httpClient *http.Client
	sessions   SessionFactory

	mu      sync.Mutex
	session *auth.Session
	token   *auth.TokenRecord
}

// Option configures a Server.
type Option func(*Server)

// WithSessionFactory replaces the keyring and browser backed session.
func WithSessionFactory(factory SessionFactory) Option {
	return func(s *Server) {
		s.sessions = factory
	}
}

// WithHTTPClient sets the client used for Tasks API requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Server) {
		s.httpClient = httpClient
	}
}

// WithLogger sets a custom logger. It must not write to stdout.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

func New(cfg *configuration.Config, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  slog.Default(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessions == nil {
		s.sessions = func(ctx context.Context) (*auth.Session, error) {
			return login.NewSession(ctx, s.cfg, s.logger, auth.WithAuthURLHandler(func(authURL string) {
				s.logger.Info("Waiting for sign-in in the browser", "url", authURL)
			}))
		}
	}
	return s
}

// Run serves the tools on stdin/stdout until ctx is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, &mcp.StdioTransport{})
}

// Serve serves the tools on the given transport.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer().Run(ctx, transport)
}

func (s *Server) mcpServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: s.version}, nil)
	mcp.AddTool(server, signInTool(), s.signIn)
	mcp.AddTool(server, restoreSessionTool(), s.restoreSession)
	mcp.AddTool(server, signOutTool(), s.signOut)
	mcp.AddTool(server, listTasksTool(), s.listTasks)
	return server
}

// currentSession returns the shared coordinator, building it on first use so
// concurrent tool calls are collapsed onto one flow.
func (s *Server) currentSession(ctx context.Context) (*auth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		return s.session, nil
	}
	session, err := s.sessions(ctx)
	if err != nil {
		return nil, err
	}
	s.session = session
	return session, nil
}

func (s *Server) setToken(token *auth.TokenRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Server) cachedToken() *auth.TokenRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Server) restore(ctx context.Context) (*auth.TokenRecord, error) {
	session, err := s.currentSession(ctx)
	if err != nil {
		return nil, err
	}
	token, err := session.Restore(ctx, s.cfg.ClientID, s.cfg.ClientSecret)
	if err != nil {
		return nil, err
	}
	s.setToken(token)
	return token, nil
}

// fetchTasks lists tasks with the cached access token. An expired token is
// refreshed once.
func (s *Server) fetchTasks(ctx context.Context, in ListTasksInput) ([]tasks.ListResult, error) {
	token := s.cachedToken()
	refreshed := false
	if token == nil {
		var err error
		if token, err = s.restore(ctx); err != nil {
			return nil, err
		}
		refreshed = true
	}

	for {
		results, err := s.listWith(ctx, token, in)
		var apiErr *tasks.APIError
		if err == nil || refreshed || !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
			return results, err
		}

		s.logger.Debug("Access token rejected, restoring session")
		if token, err = s.restore(ctx); err != nil {
			return nil, err
		}
		refreshed = true
	}
}

func (s *Server) listWith(ctx context.Context, token *auth.TokenRecord, in ListTasksInput) ([]tasks.ListResult, error) {
	return tasks.NewClient(ctx, s.cfg.TasksURL, token, s.httpClient).Fetch(ctx, in.ListID, in.All)
}

// toolError is reported to the MCP client as a tool error result.
func toolError(action string, err error) error {
	return login.Explain(action, err)
}
