// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kusaridev/tasklink/pkg/auth"
	urlBuilder "github.com/kusaridev/tasklink/pkg/url"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultList is the task list Google creates for every account.
	DefaultList = "@default"
	// MaxResults is the page size requested from the Tasks API.
	MaxResults = 100
	// maxConcurrentLists bounds the fan-out of ListAll.
	maxConcurrentLists = 4
)

// Task is one entry of a task list.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Notes     string `json:"notes,omitempty"`
	Status    string `json:"status"`
	Due       string `json:"due,omitempty"`
	Completed string `json:"completed,omitempty"`
	Updated   string `json:"updated,omitempty"`
	Parent    string `json:"parent,omitempty"`
}

// Done reports whether the task has been marked completed.
func (t Task) Done() bool {
	return t.Status == "completed"
}

// TaskList is the metadata of one task list.
type TaskList struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Updated string `json:"updated,omitempty"`
}

// ListResult pairs a task list with its tasks.
type ListResult struct {
	List  TaskList `json:"list"`
	Tasks []Task   `json:"tasks"`
}

// APIError is a non-2xx response from the Tasks API. Status and Body are
// reported exactly as received.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tasks API returned status %d: %s", e.Status, e.Body)
}

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

// Client performs authenticated requests against the Google Tasks API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client that sends the token's access token as a bearer
// credential. base may be nil to use http.DefaultClient.
func NewClient(ctx context.Context, baseURL string, token *auth.TokenRecord, base *http.Client) *Client {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	})
	return &Client{
		baseURL:    baseURL,
		httpClient: oauth2.NewClient(ctx, source),
	}
}

// ListTasks returns up to MaxResults tasks of the given list. An empty
// listID selects DefaultList.
func (c *Client) ListTasks(ctx context.Context, listID string) ([]Task, error) {
	if listID == "" {
		listID = DefaultList
	}

	var resp itemsResponse[Task]
	if err := c.get(ctx, &resp, "lists", listID, "tasks"); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Lists returns the user's task lists.
func (c *Client) Lists(ctx context.Context) ([]TaskList, error) {
	var resp itemsResponse[TaskList]
	if err := c.get(ctx, &resp, "users", "@me", "lists"); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ListAll fetches every task list and its tasks. Lists are fetched
// concurrently and returned in the order the API listed them. The first
// failure cancels the remaining requests.
func (c *Client) ListAll(ctx context.Context) ([]ListResult, error) {
	lists, err := c.Lists(ctx)
	if err != nil {
		return nil, err
	}

	// each goroutine writes only its own index
	results := make([]ListResult, len(lists))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLists)
	for i, list := range lists {
		g.Go(func() error {
			items, err := c.ListTasks(gctx, list.ID)
			if err != nil {
				return fmt.Errorf("failed to list tasks of %q: %w", list.Title, err)
			}
			results[i] = ListResult{List: list, Tasks: items}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Fetch returns every list when all is set, otherwise the tasks of listID
// wrapped in a single ListResult.
func (c *Client) Fetch(ctx context.Context, listID string, all bool) ([]ListResult, error) {
	if all {
		return c.ListAll(ctx)
	}
	if listID == "" {
		listID = DefaultList
	}
	items, err := c.ListTasks(ctx, listID)
	if err != nil {
		return nil, err
	}
	return []ListResult{{List: TaskList{ID: listID}, Tasks: items}}, nil
}

func (c *Client) get(ctx context.Context, out any, pathSegments ...string) error {
	query := url.Values{"maxResults": {strconv.Itoa(MaxResults)}}
	endpoint, err := urlBuilder.BuildWithQuery(c.baseURL, query, pathSegments...)
	if err != nil {
		return fmt.Errorf("failed to build endpoint url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call tasks API: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
