package provider

import (
	"context"
	"fmt"
	"sync"
)

type Provider interface {
	// Send performs a single non-streaming chat completion.
	Send(ctx context.Context, req Request) (Completion, error)
	// Stream opens a streaming chat completion. The returned Stream is owned
	// by the caller and must be closed.
	Stream(ctx context.Context, req Request) (Stream, error)
}

type Request struct {
	Model string

	Messages []Message
	Tools    []ToolDefinition

	// ToolResults, when non-empty, are folded into the message list after
	// Messages: an assistant tool-call message followed by a tool result
	// message per pair.
	ToolResults []ToolExchange

	// ProviderData may carry provider-specific wiring (e.g. a client handle).
	// Providers must treat unknown types as an error.
	ProviderData any

	MaxTokens     *int
	Temperature   *float32
	StopSequences []string
	ToolChoice    string

	// Options carries provider-specific key/value options. Providers parse the
	// keys they know; a known key with an unparsable value is a setup error.
	Options map[string]string
}

// Completion is a fully assembled non-streaming reply.
type Completion struct {
	Content   []ContentPart
	ToolCalls []ToolCall
	Metadata  Metadata
}

// Stream yields decoded stream events one at a time. Next returning false
// with a nil Err means the provider signalled end of stream.
type Stream interface {
	Next() bool
	Event() StreamEvent
	Err() error
	Close() error
}

type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: map[string]Provider{}}
}

func (r *Registry) Register(name string, p Provider) error {
	if name == "" {
		return fmt.Errorf("provider name is required")
	}
	if p == nil {
		return fmt.Errorf("provider %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %q already registered", name)
	}

	r.providers[name] = p
	return nil
}

func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

var defaultRegistry = NewRegistry()

func Register(name string, p Provider) error {
	return defaultRegistry.Register(name, p)
}

func Get(name string) (Provider, bool) {
	return defaultRegistry.Get(name)
}
