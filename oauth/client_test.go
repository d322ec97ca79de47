package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationHeaderCachesToken(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "market", user)
		assert.Equal(t, "s3cret", pass)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "tok-1", "token_type": "Bearer", "expires_in": 3600}`)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{TokenURL: srv.URL, ClientID: "market", ClientSecret: "s3cret"})

	h, err := c.AuthorizationHeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", h)

	_, err = c.AuthorizationHeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestTokenErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid_client"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{TokenURL: srv.URL, ClientID: "x", ClientSecret: "y"})
	_, err := c.AuthorizationHeader(context.Background())
	assert.ErrorContains(t, err, "fetch market feed token")
}
