package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/bitop-dev/chat/internal/httpx"
	"github.com/bitop-dev/chat/internal/provider"
	"github.com/bitop-dev/chat/internal/sse"
	publicopenai "github.com/bitop-dev/chat/openai"
)

// ProviderName is the registry name for this provider.
const ProviderName = "openai"

const providerName = ProviderName

type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) Send(ctx context.Context, req provider.Request) (provider.Completion, error) {
	cfg, err := configFrom(req.ProviderData)
	if err != nil {
		return provider.Completion{}, &provider.Error{Provider: providerName, Code: "config_error", Message: err.Error(), Cause: err}
	}

	resp, perr := p.post(ctx, cfg, req, false)
	if perr != nil {
		return provider.Completion{}, perr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return provider.Completion{}, errorFromResponse(resp)
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return provider.Completion{}, &provider.Error{Provider: providerName, Code: "decode_error", Message: err.Error(), Cause: err}
	}
	return processResponse(out)
}

func (p *Provider) Stream(ctx context.Context, req provider.Request) (provider.Stream, error) {
	cfg, err := configFrom(req.ProviderData)
	if err != nil {
		return nil, &provider.Error{Provider: providerName, Code: "config_error", Message: err.Error(), Cause: err}
	}

	resp, perr := p.post(ctx, cfg, req, true)
	if perr != nil {
		return nil, perr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, errorFromResponse(resp)
	}

	return newStream(resp, cfg.Logger), nil
}

func (p *Provider) post(ctx context.Context, cfg publicopenai.Config, req provider.Request, stream bool) (*http.Response, *provider.Error) {
	payload, err := buildRequest(req, stream)
	if err != nil {
		return nil, &provider.Error{Provider: providerName, Code: "request_error", Message: err.Error(), Cause: err}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &provider.Error{Provider: providerName, Code: "marshal_error", Message: err.Error(), Cause: err}
	}

	u, err := endpointURL(cfg)
	if err != nil {
		return nil, &provider.Error{Provider: providerName, Code: "url_error", Message: err.Error(), Cause: err}
	}

	h := make(http.Header)
	h.Set("Authorization", "Bearer "+cfg.APIKey)
	if stream {
		h.Set("Accept", "text/event-stream")
	}
	for k, v := range cfg.Headers {
		h.Set(k, v)
	}

	cfg.Logger.Debug("sending chat completion request",
		slog.String("model", req.Model), slog.Bool("stream", stream))

	resp, err := httpx.PostJSON(ctx, cfg.HTTPClient, u, body, h, httpx.RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		MinBackoff: cfg.MinBackoff,
		MaxBackoff: cfg.MaxBackoff,
	})
	if err != nil {
		code, retryable := classifyNetworkErr(err)
		return nil, &provider.Error{Provider: providerName, Code: code, Message: err.Error(), Retryable: retryable, Cause: err}
	}
	return resp, nil
}

func configFrom(providerData any) (publicopenai.Config, error) {
	c, ok := providerData.(*publicopenai.Client)
	if !ok || c == nil {
		return publicopenai.Config{}, fmt.Errorf("openai provider requires a client-bound model ref")
	}
	cfg := c.Config()
	if cfg.APIKey == "" {
		return publicopenai.Config{}, fmt.Errorf("openai API key is required")
	}
	return cfg, nil
}

func endpointURL(cfg publicopenai.Config) (string, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	prefix := strings.TrimRight(cfg.APIPrefix, "/")
	u, err := url.Parse(base + prefix + "/chat/completions")
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// errorFromResponse maps a non-2xx response to a provider error, preferring
// the provider's own error envelope when the body carries one.
func errorFromResponse(resp *http.Response) *provider.Error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var er errorResponse
	if json.Unmarshal(b, &er) == nil && er.Error.Message != "" {
		return &provider.Error{
			Provider:          providerName,
			Code:              stringifyCode(er.Error.Code, er.Error.Type, resp.StatusCode),
			Status:            resp.StatusCode,
			Message:           er.Error.Message,
			Retryable:         httpx.RetryableStatus(resp.StatusCode),
			ProviderErrorJSON: string(b),
		}
	}
	return &provider.Error{
		Provider:  providerName,
		Code:      codeFromStatus(resp.StatusCode),
		Status:    resp.StatusCode,
		Message:   strings.TrimSpace(string(b)),
		Retryable: httpx.RetryableStatus(resp.StatusCode),
	}
}

func codeFromStatus(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "invalid_request"
	case status == http.StatusUnauthorized:
		return "authentication_failed"
	case status == http.StatusForbidden:
		return "access_denied"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusTooManyRequests:
		return "rate_limit_exceeded"
	case status >= 500:
		return "internal_error"
	default:
		return "invalid_request"
	}
}

func stringifyCode(code any, errType string, status int) string {
	if v, ok := code.(string); ok && v != "" {
		return v
	}
	if errType != "" {
		return errType
	}
	return codeFromStatus(status)
}

func classifyNetworkErr(err error) (code string, retryable bool) {
	if err == nil {
		return "network_error", false
	}
	if errors.Is(err, context.Canceled) {
		return "canceled", false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout", true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return "timeout", true
	}
	return "network_error", true
}

var _ provider.Provider = (*Provider)(nil)

// stream drives the push-event transport, handing each raw frame to the
// decoder. All decoding happens synchronously inside Next, on the caller's
// goroutine.
type stream struct {
	httpResp *http.Response
	frames   *sse.Reader
	dec      *streamDecoder
	log      *slog.Logger

	cur  provider.StreamEvent
	err  error
	done bool
}

func newStream(httpResp *http.Response, log *slog.Logger) *stream {
	return &stream{
		httpResp: httpResp,
		frames:   sse.NewReader(httpResp.Body),
		dec:      newStreamDecoder(),
		log:      log,
	}
}

func (s *stream) Next() bool {
	if s.err != nil || s.done {
		return false
	}

	for s.frames.Next() {
		raw := s.frames.Frame()
		s.log.Debug("received stream frame", slog.String("frame", raw))

		ev, err := s.dec.DecodeFrame(raw)
		if err != nil {
			s.err = &provider.Error{Provider: providerName, Code: "decode_error", Message: err.Error(), Cause: err}
			return false
		}
		if ev != nil {
			s.cur = *ev
			return true
		}
		if s.dec.Finished() {
			s.done = true
			return false
		}
	}

	if err := s.frames.Err(); err != nil {
		code, retryable := classifyNetworkErr(err)
		s.err = &provider.Error{Provider: providerName, Code: code, Message: err.Error(), Retryable: retryable, Cause: err}
	}
	s.done = true
	return false
}

func (s *stream) Event() provider.StreamEvent { return s.cur }

func (s *stream) Err() error { return s.err }

func (s *stream) Close() error {
	if s.httpResp != nil && s.httpResp.Body != nil {
		return s.httpResp.Body.Close()
	}
	return nil
}

var _ provider.Stream = (*stream)(nil)
