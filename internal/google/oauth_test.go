package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/teemow/mailgate/internal/config"
	"github.com/teemow/mailgate/internal/logging"
	"github.com/teemow/mailgate/internal/session"
)

func testGoogleConfig() config.Google {
	return config.Google{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:12000/auth/callback",
	}
}

func TestAuthorizationRequest_NotConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Google
	}{
		{name: "missing client id", cfg: config.Google{ClientSecret: "secret"}},
		{name: "missing client secret", cfg: config.Google{ClientID: "id"}},
		{name: "missing both", cfg: config.Google{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewAuthClient(tt.cfg, logging.New(false))

			_, _, err := client.AuthorizationRequest()
			assert.ErrorIs(t, err, ErrNotConfigured)
		})
	}
}

func TestAuthorizationRequest(t *testing.T) {
	client := NewAuthClient(testGoogleConfig(), logging.New(false))

	authURL, state, err := client.AuthorizationRequest()
	require.NoError(t, err)
	require.NotEmpty(t, state)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:12000/auth/callback", q.Get("redirect_uri"))
	assert.Equal(t, state, q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "true", q.Get("include_granted_scopes"))
	assert.Contains(t, q.Get("scope"), "gmail.modify")
}

func TestAuthorizationRequest_StateIsRandom(t *testing.T) {
	client := NewAuthClient(testGoogleConfig(), logging.New(false))

	_, first, err := client.AuthorizationRequest()
	require.NoError(t, err)
	_, second, err := client.AuthorizationRequest()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestExchange(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "good-code", r.PostForm.Get("code"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "provider-access-token",
			"refresh_token": "provider-refresh-token",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
	defer ts.Close()

	client := NewAuthClient(testGoogleConfig(), logging.New(false),
		WithEndpoint(oauth2.Endpoint{AuthURL: ts.URL + "/auth", TokenURL: ts.URL}))

	cred, err := client.Exchange(context.Background(), "good-code")
	require.NoError(t, err)

	assert.Equal(t, "provider-access-token", cred.AccessToken)
	assert.Equal(t, "provider-refresh-token", cred.RefreshToken)
	assert.Equal(t, ts.URL, cred.TokenEndpoint)
	assert.Equal(t, "client-id", cred.ClientID)
	assert.Equal(t, "client-secret", cred.ClientSecret)
	assert.Equal(t, DefaultOAuthScopes, cred.Scopes)
	assert.False(t, cred.Expiry.IsZero())
}

func TestExchange_Rejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer ts.Close()

	client := NewAuthClient(testGoogleConfig(), logging.New(false),
		WithEndpoint(oauth2.Endpoint{AuthURL: ts.URL + "/auth", TokenURL: ts.URL}))

	_, err := client.Exchange(context.Background(), "used-code")

	var exchangeErr *ExchangeError
	assert.ErrorAs(t, err, &exchangeErr)
}

func TestExchange_NotConfigured(t *testing.T) {
	client := NewAuthClient(config.Google{}, logging.New(false))

	_, err := client.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func testProviderCredential() *session.ProviderCredential {
	return &session.ProviderCredential{
		AccessToken:  "provider-access-token",
		RefreshToken: "provider-refresh-token",
	}
}

func TestFetchIdentity(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/profile")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"emailAddress":  "user@example.com",
			"messagesTotal": 42,
		})
	}))
	defer ts.Close()

	client := NewAuthClient(testGoogleConfig(), logging.New(false),
		WithAPIOptions(option.WithEndpoint(ts.URL)))

	identity, err := client.FetchIdentity(context.Background(), testProviderCredential())
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", identity)
}

func TestFetchIdentity_NoEmail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := NewAuthClient(testGoogleConfig(), logging.New(false),
		WithAPIOptions(option.WithEndpoint(ts.URL)))

	_, err := client.FetchIdentity(context.Background(), testProviderCredential())
	assert.Error(t, err)
}
