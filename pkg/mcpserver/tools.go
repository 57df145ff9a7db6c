// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"

	"github.com/kusaridev/tasklink/pkg/auth"
	"github.com/kusaridev/tasklink/pkg/tasks"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SignInInput is the input of the sign_in tool.
type SignInInput struct {
	Scope    string `json:"scope,omitempty" jsonschema:"space separated OAuth scopes, defaults to the configured scope"`
	Identity bool   `json:"identity,omitempty" jsonschema:"also request the openid and email scopes"`
}

// SessionResult describes the session after sign_in or restore_session.
type SessionResult struct {
	Authenticated   bool   `json:"authenticated" jsonschema:"whether an access token is held"`
	Scope           string `json:"scope,omitempty" jsonschema:"scopes granted by the provider"`
	ExpiresIn       int64  `json:"expires_in,omitempty" jsonschema:"access token lifetime in seconds"`
	HasRefreshToken bool   `json:"has_refresh_token" jsonschema:"whether the session survives a restart"`
}

// EmptyInput is the input of tools without arguments.
type EmptyInput struct{}

// SignOutResult is the output of the sign_out tool.
type SignOutResult struct {
	SignedOut bool `json:"signed_out" jsonschema:"always true on success"`
}

// ListTasksInput is the input of the list_tasks tool.
type ListTasksInput struct {
	ListID string `json:"list_id,omitempty" jsonschema:"task list id, defaults to @default"`
	All    bool   `json:"all,omitempty" jsonschema:"list the tasks of every task list"`
}

// ListTasksResult is the output of the list_tasks tool.
type ListTasksResult struct {
	Lists []tasks.ListResult `json:"lists" jsonschema:"task lists with their tasks"`
}

func signInTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sign_in",
		Description: "Opens the system browser to sign in to Google Tasks and stores the refresh token",
	}
}

func restoreSessionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "restore_session",
		Description: "Restores the session from the stored refresh token without user interaction",
	}
}

func signOutTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sign_out",
		Description: "Forgets the stored refresh token and the in-memory session",
	}
}

func listTasksTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_tasks",
		Description: "Lists Google Tasks of the default list, a named list or every list",
	}
}

func (s *Server) signIn(ctx context.Context, _ *mcp.CallToolRequest, in SignInInput) (*mcp.CallToolResult, SessionResult, error) {
	scope := in.Scope
	if scope == "" {
		scope = s.cfg.Scope
	}
	if in.Identity {
		scope = auth.AddIdentityScopes(scope)
	}

	session, err := s.currentSession(ctx)
	if err != nil {
		return nil, SessionResult{}, toolError("sign-in", err)
	}
	token, err := session.Start(ctx, s.cfg.ClientID, s.cfg.ClientSecret, scope)
	if err != nil {
		return nil, SessionResult{}, toolError("sign-in", err)
	}
	s.setToken(token)
	return nil, sessionResult(token), nil
}

func (s *Server) restoreSession(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, SessionResult, error) {
	token, err := s.restore(ctx)
	if err != nil {
		return nil, SessionResult{}, toolError("session restore", err)
	}
	return nil, sessionResult(token), nil
}

func (s *Server) signOut(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, SignOutResult, error) {
	session, err := s.currentSession(ctx)
	if err != nil {
		return nil, SignOutResult{}, toolError("sign-out", err)
	}
	if err := session.SignOut(); err != nil {
		return nil, SignOutResult{}, toolError("sign-out", err)
	}
	s.setToken(nil)
	return nil, SignOutResult{SignedOut: true}, nil
}

func (s *Server) listTasks(ctx context.Context, _ *mcp.CallToolRequest, in ListTasksInput) (*mcp.CallToolResult, ListTasksResult, error) {
	results, err := s.fetchTasks(ctx, in)
	if err != nil {
		return nil, ListTasksResult{}, toolError("list tasks", err)
	}
	if results == nil {
		results = []tasks.ListResult{}
	}
	for i := range results {
		if results[i].Tasks == nil {
			results[i].Tasks = []tasks.Task{}
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: tasks.RenderMarkdown(results)}},
	}, ListTasksResult{Lists: results}, nil
}

func sessionResult(token *auth.TokenRecord) SessionResult {
	return SessionResult{
		Authenticated:   true,
		Scope:           token.Scope,
		ExpiresIn:       token.ExpiresIn,
		HasRefreshToken: token.HasRefreshToken(),
	}
}
