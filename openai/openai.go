// Package openai holds the public configuration surface for the OpenAI
// provider: API credentials, endpoint overrides, retry policy, and the model
// refs that bind a model name to a configured client.
package openai

import (
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

const ProviderName = "openai"

type Config struct {
	APIKey     string
	BaseURL    string
	APIPrefix  string
	Headers    map[string]string
	HTTPClient *http.Client

	// Logger receives debug traces for requests and stream frames. It is
	// injected here once at setup; nothing deeper reaches for a global.
	Logger *slog.Logger

	// MaxRetries defaults to 0: transport failures surface to the caller
	// rather than being silently retried.
	MaxRetries int
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: normalizeConfig(cfg)}
}

var defaultClient atomic.Pointer[Client]

func init() {
	defaultClient.Store(NewClient(Config{}))
}

// Configure replaces the process-wide default client.
func Configure(cfg Config) {
	defaultClient.Store(NewClient(cfg))
}

func Chat(modelName string) ModelRef {
	return defaultClient.Load().Chat(modelName)
}

func (c *Client) Chat(modelName string) ModelRef {
	return ModelRef{
		modelName: modelName,
		client:    c,
	}
}

type ModelRef struct {
	modelName string
	client    *Client
}

func (m ModelRef) Provider() string { return ProviderName }
func (m ModelRef) Name() string     { return m.modelName }

func (m ModelRef) Client() *Client { return m.client }

func (c *Client) Config() Config { return c.cfg }

func normalizeConfig(cfg Config) Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/v1"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.MinBackoff == 0 {
		cfg.MinBackoff = 250 * time.Millisecond
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	return cfg
}
