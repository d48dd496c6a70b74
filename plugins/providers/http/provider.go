package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/log"
	"github.com/raystack/guardian/plugins/providers"
)

const ProviderType = "http"

type requestPayload struct {
	Action     string            `json:"action"`
	AccountID  string            `json:"account_id"`
	Role       string            `json:"role"`
	Resource   *domain.Resource  `json:"resource,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// Provider forwards access mutations to a remote service over HTTP. Grant and
// revoke are delivered as JSON POSTs and rely on the remote side being
// idempotent.
type Provider struct {
	typeName string
	config   *ClientConfig
	client   *http.Client
	logger   log.Logger
}

func New(config map[string]interface{}, logger log.Logger) (*Provider, error) {
	var clientConfig ClientConfig
	if err := mapstructure.Decode(config, &clientConfig); err != nil {
		return nil, fmt.Errorf("decoding client config: %w", err)
	}
	return NewFromConfig(&clientConfig, logger)
}

func NewFromConfig(clientConfig *ClientConfig, logger log.Logger) (*Provider, error) {
	if err := clientConfig.Validate(); err != nil {
		return nil, fmt.Errorf("validating client config: %w", err)
	}

	httpClient := clientConfig.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(clientConfig.Timeout) * time.Second}
	}

	return &Provider{
		typeName: ProviderType,
		config:   clientConfig,
		client:   httpClient,
		logger:   logger,
	}, nil
}

func (p *Provider) GetType() string {
	return p.typeName
}

func (p *Provider) ValidateAppeal(ctx context.Context, a *domain.Appeal) error {
	if a.Resource == nil {
		return providers.ErrInvalidResourceType
	}
	if a.Role == "" {
		return providers.ErrInvalidRole
	}
	return p.post(ctx, "/appeals/validate", &requestPayload{
		Action:    "validate",
		AccountID: a.AccountID,
		Role:      a.Role,
		Resource:  a.Resource,
	})
}

func (p *Provider) GrantAccess(ctx context.Context, g domain.Grant) error {
	return p.post(ctx, "/access", &requestPayload{
		Action:    "grant",
		AccountID: g.AccountID,
		Role:      g.Role,
		Resource:  g.Resource,
	})
}

func (p *Provider) RevokeAccess(ctx context.Context, g domain.Grant) error {
	return p.post(ctx, "/access/revoke", &requestPayload{
		Action:    "revoke",
		AccountID: g.AccountID,
		Role:      g.Role,
		Resource:  g.Resource,
	})
}

func (p *Provider) post(ctx context.Context, path string, payload *requestPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.URL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range p.config.Headers {
		req.Header.Set(k, v)
	}
	if err := p.applyAuth(req); err != nil {
		return err
	}

	res, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request to %q: %w", path, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return nil
	case res.StatusCode >= 400 && res.StatusCode < 500:
		// client errors won't resolve on retry
		return providers.NewPermanentError(fmt.Errorf("%s returned %d", path, res.StatusCode))
	default:
		return fmt.Errorf("%s returned %d", path, res.StatusCode)
	}
}

func (p *Provider) applyAuth(req *http.Request) error {
	if p.config.Auth == nil {
		return nil
	}
	switch p.config.Auth.Type {
	case "basic":
		req.SetBasicAuth(p.config.Auth.Username, p.config.Auth.Password)
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+p.config.Auth.Token)
	case "api_key":
		switch p.config.Auth.In {
		case "query":
			q := req.URL.Query()
			q.Set(p.config.Auth.Key, p.config.Auth.Value)
			req.URL.RawQuery = q.Encode()
		default:
			req.Header.Set(p.config.Auth.Key, p.config.Auth.Value)
		}
	default:
		return fmt.Errorf("invalid auth type: %q", p.config.Auth.Type)
	}
	return nil
}
