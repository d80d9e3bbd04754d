package chat

import (
	"context"
	"fmt"

	internalopenai "github.com/bitop-dev/chat/internal/openai"
	"github.com/bitop-dev/chat/internal/provider"
)

func init() {
	if err := provider.Register(internalopenai.ProviderName, internalopenai.New()); err != nil {
		panic(err)
	}
}

// Send performs a single non-streaming chat call. The outcome is always a
// ChatEvent; failures arrive as Err rather than a Go error so callers handle
// one shape.
func Send(ctx context.Context, messages []Message, cfg Config) ChatEvent {
	return send(ctx, messages, nil, cfg)
}

// Continue resumes a conversation after the caller executed the tool calls
// the model requested. The exchanges are folded into the message list after
// messages, then a normal non-streaming call is made.
func Continue(ctx context.Context, messages []Message, results []ToolExchange, cfg Config) ChatEvent {
	return send(ctx, messages, results, cfg)
}

func send(ctx context.Context, messages []Message, results []ToolExchange, cfg Config) ChatEvent {
	p, name, err := providerForModel(cfg.Model)
	if err != nil {
		return errorEvent(setupError(name, err.Error()))
	}

	preq, err := toProviderRequest(messages, results, cfg)
	if err != nil {
		return errorEvent(setupError(name, err.Error()))
	}

	completion, err := p.Send(ctx, preq)
	if err != nil {
		return errorEvent(asChatError(name, err))
	}
	return eventFromCompletion(completion)
}

// Stream opens a streaming chat call. Stream never returns a Go error: setup
// failures produce a ChatStream whose first GetNext yields a single Error
// event, so stream consumption has one code path.
func Stream(ctx context.Context, messages []Message, cfg Config) *ChatStream {
	p, name, err := providerForModel(cfg.Model)
	if err != nil {
		return failedChatStream(setupError(name, err.Error()))
	}

	preq, err := toProviderRequest(messages, nil, cfg)
	if err != nil {
		return failedChatStream(setupError(name, err.Error()))
	}

	src, err := p.Stream(ctx, preq)
	if err != nil {
		return failedChatStream(asChatError(name, err))
	}
	return newChatStream(src)
}

func providerForModel(m ModelRef) (provider.Provider, string, error) {
	if m == nil {
		return nil, "", fmt.Errorf("model is required")
	}
	name := m.Provider()
	if name == "" {
		return nil, "", fmt.Errorf("model provider is required")
	}
	p, ok := provider.Get(name)
	if !ok {
		return nil, name, fmt.Errorf("unknown provider %q", name)
	}
	return p, name, nil
}
