package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.well-known/openid-configuration":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"issuer":                                server.URL,
				"authorization_endpoint":                server.URL + "/o/oauth2/v2/auth",
				"token_endpoint":                        server.URL + "/token",
				"jwks_uri":                              server.URL + "/certs",
				"id_token_signing_alg_values_supported": []string{"RS256"},
			})
		case "/certs":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"keys":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func Test_Discover(t *testing.T) {
	server := newDiscoveryServer(t)

	endpoint, err := Discover(context.Background(), server.URL, server.Client())

	require.NoError(t, err)
	assert.Equal(t, server.URL+"/o/oauth2/v2/auth", endpoint.AuthURL)
	assert.Equal(t, server.URL+"/token", endpoint.TokenURL)
}

func Test_Discover_Unreachable(t *testing.T) {
	server := newDiscoveryServer(t)
	issuer := server.URL + "/missing"

	_, err := Discover(context.Background(), issuer, server.Client())

	assert.True(t, IsCode(err, ErrNetwork))
}

func Test_VerifyIDToken_Malformed(t *testing.T) {
	server := newDiscoveryServer(t)

	_, err := VerifyIDToken(context.Background(), server.URL, "cid", "not-a-jwt", server.Client())

	assert.True(t, IsCode(err, ErrDecode))
}

func Test_AddIdentityScopes(t *testing.T) {
	tests := []struct {
		name  string
		scope string
		want  string
	}{
		{name: "empty", scope: "", want: "openid email"},
		{name: "tasks", scope: DefaultScope, want: DefaultScope + " openid email"},
		{name: "already present", scope: "email openid", want: "email openid"},
		{name: "partial", scope: "openid  " + DefaultScope, want: "openid " + DefaultScope + " email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddIdentityScopes(tt.scope))
		})
	}
}
