package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/bitop-dev/chat/internal/provider"
)

type testModel struct {
	provider string
	name     string
}

func (m testModel) Provider() string { return m.provider }
func (m testModel) Name() string     { return m.name }

type fakeProvider struct {
	mu sync.Mutex

	requests []provider.Request

	send   func(call int, req provider.Request) (provider.Completion, error)
	stream func(call int, req provider.Request) (provider.Stream, error)
}

func (p *fakeProvider) Send(ctx context.Context, req provider.Request) (provider.Completion, error) {
	_ = ctx
	p.mu.Lock()
	p.requests = append(p.requests, req)
	call := len(p.requests) - 1
	fn := p.send
	p.mu.Unlock()
	if fn == nil {
		return provider.Completion{}, fmt.Errorf("fakeProvider.Send not configured")
	}
	return fn(call, req)
}

func (p *fakeProvider) Stream(ctx context.Context, req provider.Request) (provider.Stream, error) {
	_ = ctx
	p.mu.Lock()
	p.requests = append(p.requests, req)
	call := len(p.requests) - 1
	fn := p.stream
	p.mu.Unlock()
	if fn == nil {
		return nil, fmt.Errorf("fakeProvider.Stream not configured")
	}
	return fn(call, req)
}

func (p *fakeProvider) Requests() []provider.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]provider.Request, len(p.requests))
	copy(out, p.requests)
	return out
}

func registerFakeProvider(t *testing.T, fp provider.Provider) string {
	t.Helper()
	name := "fake_" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	if err := provider.Register(name, fp); err != nil {
		t.Fatalf("register provider: %v", err)
	}
	return name
}

// fakeStream replays a fixed script of events, optionally ending in an
// error. Close may race with Next, as it does on a real transport, so all
// state sits behind a mutex.
type fakeStream struct {
	events []provider.StreamEvent
	err    error

	mu     sync.Mutex
	pos    int
	closed bool
}

func (s *fakeStream) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.pos >= len(s.events) {
		return false
	}
	s.pos++
	return true
}

func (s *fakeStream) Event() provider.StreamEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[s.pos-1]
}

func (s *fakeStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.events) {
		return s.err
	}
	return nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
