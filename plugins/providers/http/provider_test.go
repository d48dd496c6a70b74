package http_test

import (
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/log"
	"github.com/raystack/guardian/plugins/providers"
	httpprovider "github.com/raystack/guardian/plugins/providers/http"
)

func testGrant() domain.Grant {
	return domain.Grant{
		ID:        "grant-1",
		AccountID: "user@example.com",
		Role:      "viewer",
		Resource: &domain.Resource{
			ID:   "resource-1",
			Type: "dataset",
			URN:  "res-urn",
		},
	}
}

func newProvider(t *testing.T, url string) *httpprovider.Provider {
	t.Helper()
	p, err := httpprovider.NewFromConfig(&httpprovider.ClientConfig{URL: url}, log.NewNoop())
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	t.Run("should decode a map config", func(t *testing.T) {
		p, err := httpprovider.New(map[string]interface{}{
			"url": "http://localhost:8080",
			"auth": map[string]interface{}{
				"type":     "basic",
				"username": "user",
				"password": "pass",
			},
		}, log.NewNoop())

		require.NoError(t, err)
		assert.Equal(t, httpprovider.ProviderType, p.GetType())
	})

	t.Run("should reject a config without a url", func(t *testing.T) {
		_, err := httpprovider.New(map[string]interface{}{}, log.NewNoop())

		assert.Error(t, err)
	})

	t.Run("should reject an unknown auth type", func(t *testing.T) {
		_, err := httpprovider.New(map[string]interface{}{
			"url": "http://localhost:8080",
			"auth": map[string]interface{}{
				"type": "kerberos",
			},
		}, log.NewNoop())

		assert.Error(t, err)
	})
}

func TestProvider_ValidateAppeal(t *testing.T) {
	t.Run("should return error if the appeal has no resource", func(t *testing.T) {
		p := newProvider(t, "http://localhost:8080")

		err := p.ValidateAppeal(context.Background(), &domain.Appeal{Role: "viewer"})

		assert.ErrorIs(t, err, providers.ErrInvalidResourceType)
	})

	t.Run("should return error if the appeal has no role", func(t *testing.T) {
		p := newProvider(t, "http://localhost:8080")

		err := p.ValidateAppeal(context.Background(), &domain.Appeal{Resource: &domain.Resource{}})

		assert.ErrorIs(t, err, providers.ErrInvalidRole)
	})

	t.Run("should post the appeal to the validation endpoint", func(t *testing.T) {
		var gotPath string
		var gotPayload map[string]interface{}
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
			w.WriteHeader(stdhttp.StatusOK)
		}))
		defer server.Close()
		p := newProvider(t, server.URL)

		err := p.ValidateAppeal(context.Background(), &domain.Appeal{
			AccountID: "user@example.com",
			Role:      "viewer",
			Resource:  &domain.Resource{ID: "resource-1"},
		})

		require.NoError(t, err)
		assert.Equal(t, "/appeals/validate", gotPath)
		assert.Equal(t, "validate", gotPayload["action"])
		assert.Equal(t, "user@example.com", gotPayload["account_id"])
	})
}

func TestProvider_GrantAccess(t *testing.T) {
	t.Run("should post the grant to the access endpoint", func(t *testing.T) {
		var gotPath string
		var gotPayload map[string]interface{}
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
			w.WriteHeader(stdhttp.StatusOK)
		}))
		defer server.Close()
		p := newProvider(t, server.URL)

		err := p.GrantAccess(context.Background(), testGrant())

		require.NoError(t, err)
		assert.Equal(t, "/access", gotPath)
		assert.Equal(t, "grant", gotPayload["action"])
		assert.Equal(t, "viewer", gotPayload["role"])
	})

	t.Run("should fail at the configured timeout when the remote hangs", func(t *testing.T) {
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			// drain the body so the server notices the client disconnect and
			// cancels the request context; otherwise server.Close hangs
			io.Copy(io.Discard, r.Body)
			<-r.Context().Done()
		}))
		defer server.Close()
		p, err := httpprovider.NewFromConfig(&httpprovider.ClientConfig{
			URL:     server.URL,
			Timeout: 1,
		}, log.NewNoop())
		require.NoError(t, err)

		start := time.Now()
		err = p.GrantAccess(context.Background(), testGrant())

		require.Error(t, err)
		assert.Less(t, time.Since(start), 3*time.Second)
	})

	t.Run("should return a permanent error on a 4xx response", func(t *testing.T) {
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.WriteHeader(stdhttp.StatusUnprocessableEntity)
		}))
		defer server.Close()
		p := newProvider(t, server.URL)

		err := p.GrantAccess(context.Background(), testGrant())

		require.Error(t, err)
		assert.True(t, providers.IsPermanent(err))
	})

	t.Run("should return a retryable error on a 5xx response", func(t *testing.T) {
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.WriteHeader(stdhttp.StatusBadGateway)
		}))
		defer server.Close()
		p := newProvider(t, server.URL)

		err := p.GrantAccess(context.Background(), testGrant())

		require.Error(t, err)
		assert.False(t, providers.IsPermanent(err))
	})
}

func TestProvider_RevokeAccess(t *testing.T) {
	t.Run("should post the revocation to the revoke endpoint", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			gotPath = r.URL.Path
			w.WriteHeader(stdhttp.StatusNoContent)
		}))
		defer server.Close()
		p := newProvider(t, server.URL)

		err := p.RevokeAccess(context.Background(), testGrant())

		require.NoError(t, err)
		assert.Equal(t, "/access/revoke", gotPath)
	})
}

func TestProvider_Auth(t *testing.T) {
	t.Run("should send basic credentials", func(t *testing.T) {
		var gotUser, gotPass string
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			gotUser, gotPass, _ = r.BasicAuth()
			w.WriteHeader(stdhttp.StatusOK)
		}))
		defer server.Close()
		p, err := httpprovider.NewFromConfig(&httpprovider.ClientConfig{
			URL:  server.URL,
			Auth: &httpprovider.AuthConfig{Type: "basic", Username: "user", Password: "pass"},
		}, log.NewNoop())
		require.NoError(t, err)

		require.NoError(t, p.GrantAccess(context.Background(), testGrant()))
		assert.Equal(t, "user", gotUser)
		assert.Equal(t, "pass", gotPass)
	})

	t.Run("should send a bearer token", func(t *testing.T) {
		var gotAuthorization string
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			gotAuthorization = r.Header.Get("Authorization")
			w.WriteHeader(stdhttp.StatusOK)
		}))
		defer server.Close()
		p, err := httpprovider.NewFromConfig(&httpprovider.ClientConfig{
			URL:  server.URL,
			Auth: &httpprovider.AuthConfig{Type: "bearer", Token: "token123"},
		}, log.NewNoop())
		require.NoError(t, err)

		require.NoError(t, p.GrantAccess(context.Background(), testGrant()))
		assert.Equal(t, "Bearer token123", gotAuthorization)
	})

	t.Run("should send an api key in the query", func(t *testing.T) {
		var gotKey string
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			gotKey = r.URL.Query().Get("api_key")
			w.WriteHeader(stdhttp.StatusOK)
		}))
		defer server.Close()
		p, err := httpprovider.NewFromConfig(&httpprovider.ClientConfig{
			URL:  server.URL,
			Auth: &httpprovider.AuthConfig{Type: "api_key", In: "query", Key: "api_key", Value: "secret"},
		}, log.NewNoop())
		require.NoError(t, err)

		require.NoError(t, p.GrantAccess(context.Background(), testGrant()))
		assert.Equal(t, "secret", gotKey)
	})
}
