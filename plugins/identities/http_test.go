package identities_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/plugins/identities"
)

func TestNewHTTPClient(t *testing.T) {
	t.Run("should reject a config without a url", func(t *testing.T) {
		_, err := identities.NewHTTPClient(&identities.HTTPClientConfig{})

		assert.Error(t, err)
	})

	t.Run("should reject an incomplete basic auth config", func(t *testing.T) {
		_, err := identities.NewHTTPClient(&identities.HTTPClientConfig{
			URL:  "http://localhost:8080/users/{user_id}",
			Auth: &identities.HTTPAuthConfig{Type: "basic", Username: "user"},
		})

		assert.Error(t, err)
	})
}

func TestHTTPClient_GetUser(t *testing.T) {
	t.Run("should substitute the user id wildcard into the url", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			json.NewEncoder(w).Encode(map[string]interface{}{"email": "user@example.com"})
		}))
		defer server.Close()

		client, err := identities.NewHTTPClient(&identities.HTTPClientConfig{
			URL: server.URL + "/users/{user_id}",
		})
		require.NoError(t, err)

		user, err := client.GetUser("user@example.com")

		require.NoError(t, err)
		assert.Equal(t, "/users/user@example.com", gotPath)
		assert.Equal(t, map[string]interface{}{"email": "user@example.com"}, user)
	})

	t.Run("should serve repeated lookups from the cache", func(t *testing.T) {
		var hits int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			json.NewEncoder(w).Encode(map[string]interface{}{"email": "user@example.com"})
		}))
		defer server.Close()

		client, err := identities.NewHTTPClient(&identities.HTTPClientConfig{
			URL: server.URL + "/users/{user_id}",
		})
		require.NoError(t, err)

		_, err = client.GetUser("user@example.com")
		require.NoError(t, err)
		_, err = client.GetUser("user@example.com")
		require.NoError(t, err)

		assert.Equal(t, 1, hits)
	})

	t.Run("should return an error on a failed response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client, err := identities.NewHTTPClient(&identities.HTTPClientConfig{
			URL: server.URL + "/users/{user_id}",
		})
		require.NoError(t, err)

		_, err = client.GetUser("missing@example.com")

		assert.ErrorIs(t, err, identities.ErrFailedRequest)
	})
}

func TestStaticClient_GetUser(t *testing.T) {
	client, err := identities.NewStaticClient(&identities.StaticClientConfig{
		Users: map[string]map[string]interface{}{
			"user@example.com": {"manager_email": "manager@example.com"},
		},
	})
	require.NoError(t, err)

	t.Run("should return the configured attributes", func(t *testing.T) {
		user, err := client.GetUser("user@example.com")

		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"manager_email": "manager@example.com"}, user)
	})

	t.Run("should return an error for an unknown user", func(t *testing.T) {
		_, err := client.GetUser("stranger@example.com")

		assert.Error(t, err)
	})
}

func TestManager(t *testing.T) {
	manager := identities.NewManager()

	t.Run("should parse an http iam config", func(t *testing.T) {
		config, err := manager.ParseConfig(&domain.IAMConfig{
			Provider: domain.IAMProviderTypeHTTP,
			Config: map[string]interface{}{
				"url": "http://localhost:8080/users/{user_id}",
			},
		})

		require.NoError(t, err)
		assert.IsType(t, &identities.HTTPClientConfig{}, config)
	})

	t.Run("should parse a static iam config", func(t *testing.T) {
		config, err := manager.ParseConfig(&domain.IAMConfig{
			Provider: domain.IAMProviderTypeStatic,
			Config: map[string]interface{}{
				"users": map[string]interface{}{
					"user@example.com": map[string]interface{}{"team": "infra"},
				},
			},
		})

		require.NoError(t, err)
		assert.IsType(t, &identities.StaticClientConfig{}, config)
	})

	t.Run("should return an error for an unknown provider", func(t *testing.T) {
		_, err := manager.ParseConfig(&domain.IAMConfig{Provider: "ldap"})

		assert.ErrorIs(t, err, identities.ErrUnknownProviderType)
	})

	t.Run("should build the matching client from a parsed config", func(t *testing.T) {
		client, err := manager.GetClient(&identities.StaticClientConfig{
			Users: map[string]map[string]interface{}{
				"user@example.com": {"team": "infra"},
			},
		})

		require.NoError(t, err)
		assert.IsType(t, &identities.StaticClient{}, client)
	})

	t.Run("should reject an unrecognized config type", func(t *testing.T) {
		_, err := manager.GetClient("not a config")

		assert.ErrorIs(t, err, identities.ErrInvalidConfig)
	})
}
