package graph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTokenEndpoint(t *testing.T, hits *int, expiresIn int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "https://graph.microsoft.com/.default", r.PostForm.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-abc","expires_in":` + strconv.Itoa(expiresIn) + `,"token_type":"Bearer"}`))
	}))
}

func newTestTokenSource(serverURL string) *ClientCredentialsTokenSource {
	s := NewClientCredentialsTokenSource("tenant", "client-id", "client-secret", "https://graph.microsoft.com/.default")
	s.tokenURL = serverURL
	return s
}

// ==========================
// Token Acquisition Tests
// ==========================

func TestToken_FetchAndCache(t *testing.T) {
	hits := 0
	srv := newTokenEndpoint(t, &hits, 3600)
	defer srv.Close()

	s := newTestTokenSource(srv.URL)

	tok, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)
	assert.Equal(t, 1, hits)

	// Second call is served from cache.
	tok, err = s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)
	assert.Equal(t, 1, hits)
}

func TestToken_RefetchWhenNearExpiry(t *testing.T) {
	hits := 0
	srv := newTokenEndpoint(t, &hits, 3600)
	defer srv.Close()

	s := newTestTokenSource(srv.URL)

	_, err := s.Token(context.Background())
	require.NoError(t, err)

	// Force the cached token inside the renewal window.
	s.mu.Lock()
	s.tokenExpiry = time.Now().Add(10 * time.Second)
	s.mu.Unlock()

	_, err = s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestToken_EndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer srv.Close()

	s := newTestTokenSource(srv.URL)

	_, err := s.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestStaticTokenSource(t *testing.T) {
	tok, err := StaticTokenSource("fixed").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed", tok)
}

// failingTokenSource always fails token acquisition.
type failingTokenSource struct {
	err error
}

func (f failingTokenSource) Token(ctx context.Context) (string, error) {
	return "", f.err
}
