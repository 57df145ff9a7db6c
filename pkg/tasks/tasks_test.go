package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kusaridev/tasklink/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToken = &auth.TokenRecord{AccessToken: "access-123", TokenType: "Bearer", ExpiresIn: 3599}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(context.Background(), server.URL+"/tasks/v1/", testToken, server.Client())
}

func Test_ListTasks_DefaultList(t *testing.T) {
	var gotPath, gotAuth, gotMax string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotMax = r.URL.Query().Get("maxResults")
		_, _ = fmt.Fprint(w, `{"items":[{"id":"t1","title":"Buy milk","status":"needsAction"},{"id":"t2","title":"File taxes","status":"completed"}]}`)
	})

	items, err := client.ListTasks(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "/tasks/v1/lists/@default/tasks", gotPath)
	assert.Equal(t, "Bearer access-123", gotAuth)
	assert.Equal(t, "100", gotMax)
	require.Len(t, items, 2)
	assert.Equal(t, "Buy milk", items[0].Title)
	assert.False(t, items[0].Done())
	assert.True(t, items[1].Done())
}

func Test_ListTasks_NamedList(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = fmt.Fprint(w, `{}`)
	})

	items, err := client.ListTasks(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, "/tasks/v1/lists/abc/tasks", gotPath)
	assert.Empty(t, items)
}

func Test_ListTasks_ErrorVerbatim(t *testing.T) {
	body := `{"error":{"code":401,"message":"Request had invalid authentication credentials."}}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, body)
	})

	_, err := client.ListTasks(context.Background(), "")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, body, apiErr.Body)
}

func Test_ListTasks_BadJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"items":`)
	})

	_, err := client.ListTasks(context.Background(), "")

	assert.ErrorContains(t, err, "failed to unmarshal response")
}

func Test_Lists(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = fmt.Fprint(w, `{"items":[{"id":"l1","title":"Groceries"}]}`)
	})

	lists, err := client.Lists(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/tasks/v1/users/@me/lists", gotPath)
	assert.Equal(t, []TaskList{{ID: "l1", Title: "Groceries"}}, lists)
}

func Test_ListAll(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/tasks/v1/users/@me/lists":
			_, _ = fmt.Fprint(w, `{"items":[{"id":"l1","title":"Work"},{"id":"l2","title":"Home"},{"id":"l3","title":"Empty"}]}`)
		case "/tasks/v1/lists/l1/tasks":
			_, _ = fmt.Fprint(w, `{"items":[{"id":"a","title":"Review PR","status":"needsAction"}]}`)
		case "/tasks/v1/lists/l2/tasks":
			_, _ = fmt.Fprint(w, `{"items":[{"id":"b","title":"Water plants","status":"completed"}]}`)
		default:
			_, _ = fmt.Fprint(w, `{}`)
		}
	})

	results, err := client.ListAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(4), calls.Load())
	require.Len(t, results, 3)
	assert.Equal(t, "Work", results[0].List.Title)
	assert.Equal(t, "Review PR", results[0].Tasks[0].Title)
	assert.Equal(t, "Home", results[1].List.Title)
	assert.Empty(t, results[2].Tasks)
}

func Test_ListAll_OneListFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/tasks/v1/users/@me/lists":
			_, _ = fmt.Fprint(w, `{"items":[{"id":"l1","title":"Work"},{"id":"l2","title":"Home"}]}`)
		case strings.Contains(r.URL.Path, "l2"):
			w.WriteHeader(http.StatusForbidden)
			_, _ = fmt.Fprint(w, "denied")
		default:
			_, _ = fmt.Fprint(w, `{}`)
		}
	})

	_, err := client.ListAll(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Contains(t, err.Error(), `"Home"`)
}

func Test_ListAll_ListsFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	results, err := client.ListAll(context.Background())

	assert.Nil(t, results)
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}

func Test_Get_BadBaseURL(t *testing.T) {
	client := NewClient(context.Background(), "*****", testToken, nil)

	_, err := client.ListTasks(context.Background(), "")

	assert.ErrorContains(t, err, "failed to build endpoint url")
}

func Test_Fetch(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/tasks/v1/users/@me/lists" {
			_, _ = fmt.Fprint(w, `{"items":[]}`)
			return
		}
		_, _ = fmt.Fprint(w, `{"items":[{"id":"a","title":"One"}]}`)
	})

	single, err := client.Fetch(context.Background(), "", false)
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, DefaultList, single[0].List.ID)
	assert.Equal(t, "One", single[0].Tasks[0].Title)

	all, err := client.Fetch(context.Background(), "ignored", true)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, []string{"/tasks/v1/lists/@default/tasks", "/tasks/v1/users/@me/lists"}, paths)
}
