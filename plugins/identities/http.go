package identities

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mcuadros/go-defaults"
	"github.com/patrickmn/go-cache"
)

var ErrFailedRequest = errors.New("request failed")

const UserIDWildcard = "{user_id}"

type HTTPAuthConfig struct {
	Type string `mapstructure:"type" json:"type" yaml:"type" validate:"required,oneof=basic api_key bearer"`

	// basic auth
	Username string `mapstructure:"username,omitempty" json:"username,omitempty" yaml:"username,omitempty" validate:"required_if=Type basic"`
	Password string `mapstructure:"password,omitempty" json:"password,omitempty" yaml:"password,omitempty" validate:"required_if=Type basic"`

	// api key
	In    string `mapstructure:"in,omitempty" json:"in,omitempty" yaml:"in,omitempty" validate:"required_if=Type api_key,omitempty,oneof=query header"`
	Key   string `mapstructure:"key,omitempty" json:"key,omitempty" yaml:"key,omitempty" validate:"required_if=Type api_key"`
	Value string `mapstructure:"value,omitempty" json:"value,omitempty" yaml:"value,omitempty" validate:"required_if=Type api_key"`

	// bearer
	Token string `mapstructure:"token,omitempty" json:"token,omitempty" yaml:"token,omitempty" validate:"required_if=Type bearer"`
}

// HTTPClientConfig is the configuration required by the http identity client.
// The URL may contain a {user_id} wildcard which is substituted per lookup.
type HTTPClientConfig struct {
	URL     string            `mapstructure:"url" json:"url" yaml:"url" validate:"required,url"`
	Headers map[string]string `mapstructure:"headers,omitempty" json:"headers,omitempty" yaml:"headers,omitempty"`
	Auth    *HTTPAuthConfig   `mapstructure:"auth,omitempty" json:"auth,omitempty" yaml:"auth,omitempty" validate:"omitempty,dive"`

	// CacheTTLInSeconds bounds how long resolved user attributes are reused
	// before hitting the remote service again
	CacheTTLInSeconds int `mapstructure:"cache_ttl_in_seconds,omitempty" json:"cache_ttl_in_seconds,omitempty" yaml:"cache_ttl_in_seconds,omitempty" default:"300"`

	HTTPClient *http.Client `mapstructure:"-" json:"-" yaml:"-"`
}

// HTTPClient fetches user attributes from an external identity service.
type HTTPClient struct {
	httpClient *http.Client
	config     *HTTPClientConfig

	userCache *cache.Cache
}

func NewHTTPClient(config *HTTPClientConfig) (*HTTPClient, error) {
	defaults.SetDefaults(config)
	if err := validator.New().Struct(config); err != nil {
		return nil, err
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	cacheTTL := time.Duration(config.CacheTTLInSeconds) * time.Second
	return &HTTPClient{
		httpClient: httpClient,
		config:     config,
		userCache:  cache.New(cacheTTL, 2*cacheTTL),
	}, nil
}

// GetUser fetches user details from the external service. Results are cached
// for the configured TTL.
func (c *HTTPClient) GetUser(userID string) (interface{}, error) {
	if user, found := c.userCache.Get(userID); found {
		return user, nil
	}

	req, err := c.createRequest(userID)
	if err != nil {
		return nil, err
	}

	var res interface{}
	if err := c.sendRequest(req, &res); err != nil {
		return nil, err
	}

	c.userCache.SetDefault(userID, res)
	return res, nil
}

func (c *HTTPClient) createRequest(userID string) (*http.Request, error) {
	url := strings.Replace(c.config.URL, UserIDWildcard, userID, -1)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	for k, v := range c.config.Headers {
		if strings.Contains(v, UserIDWildcard) {
			req.Header.Set(k, strings.Replace(v, UserIDWildcard, userID, -1))
		} else {
			req.Header.Set(k, v)
		}
	}
	c.setAuth(req)

	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *HTTPClient) sendRequest(req *http.Request, v interface{}) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return json.NewDecoder(res.Body).Decode(v)
	}

	return fmt.Errorf("%w: %s", ErrFailedRequest, res.Status)
}

func (c *HTTPClient) setAuth(req *http.Request) {
	if c.config.Auth != nil {
		switch c.config.Auth.Type {
		case "basic":
			req.SetBasicAuth(c.config.Auth.Username, c.config.Auth.Password)
		case "api_key":
			switch c.config.Auth.In {
			case "query":
				q := req.URL.Query()
				q.Add(c.config.Auth.Key, c.config.Auth.Value)
				req.URL.RawQuery = q.Encode()
			case "header":
				req.Header.Add(c.config.Auth.Key, c.config.Auth.Value)
			default:
			}
		case "bearer":
			req.Header.Add("Authorization", "Bearer "+c.config.Auth.Token)
		default:
		}
	}
}
