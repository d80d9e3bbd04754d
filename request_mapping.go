package chat

import (
	"fmt"

	"github.com/bitop-dev/chat/internal/provider"
	"github.com/bitop-dev/chat/openai"
)

func toProviderRequest(messages []Message, results []ToolExchange, cfg Config) (provider.Request, error) {
	if cfg.Model == nil {
		return provider.Request{}, fmt.Errorf("model is required")
	}
	if cfg.Model.Name() == "" {
		return provider.Request{}, fmt.Errorf("model name is required")
	}

	msgs, err := toProviderMessages(messages)
	if err != nil {
		return provider.Request{}, err
	}

	tools, err := toProviderTools(cfg.Tools)
	if err != nil {
		return provider.Request{}, err
	}

	var providerData any
	if c, ok := openAIClientFromModel(cfg.Model); ok {
		providerData = c
	}

	return provider.Request{
		Model:         cfg.Model.Name(),
		Messages:      msgs,
		Tools:         tools,
		ToolResults:   toProviderExchanges(results),
		ProviderData:  providerData,
		MaxTokens:     cfg.MaxTokens,
		Temperature:   cfg.Temperature,
		StopSequences: append([]string(nil), cfg.StopSequences...),
		ToolChoice:    cfg.ToolChoice,
		Options:       cloneStringMap(cfg.ProviderOptions),
	}, nil
}

type openAIClientModel interface {
	Client() *openai.Client
}

func openAIClientFromModel(m ModelRef) (*openai.Client, bool) {
	v, ok := m.(openAIClientModel)
	if !ok || v.Client() == nil {
		return nil, false
	}
	return v.Client(), true
}

func toProviderTools(tools []ToolDefinition) ([]provider.ToolDefinition, error) {
	if len(tools) == 0 {
		return nil, nil
	}
	out := make([]provider.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		if t.Name == "" {
			return nil, fmt.Errorf("tool name is required")
		}
		out = append(out, provider.ToolDefinition{
			Name:             t.Name,
			Description:      t.Description,
			ParametersSchema: t.ParametersSchema,
		})
	}
	return out, nil
}

func toProviderExchanges(results []ToolExchange) []provider.ToolExchange {
	if len(results) == 0 {
		return nil
	}
	out := make([]provider.ToolExchange, 0, len(results))
	for _, ex := range results {
		out = append(out, provider.ToolExchange{
			Call: provider.ToolCall{
				ID:            ex.Call.ID,
				Name:          ex.Call.Name,
				ArgumentsJSON: ex.Call.ArgumentsJSON,
			},
			Result: provider.ToolResult{
				ID:            ex.Result.ID,
				Name:          ex.Result.Name,
				ResultJSON:    ex.Result.ResultJSON,
				ErrorMessage:  ex.Result.ErrorMessage,
				IsError:       ex.Result.IsError,
				ExecutionTime: ex.Result.ExecutionTime,
			},
		})
	}
	return out
}

func toProviderMessages(msgs []Message) ([]provider.Message, error) {
	if len(msgs) == 0 {
		return nil, nil
	}
	out := make([]provider.Message, 0, len(msgs))
	for _, m := range msgs {
		pm, err := toProviderMessage(m)
		if err != nil {
			return nil, err
		}
		out = append(out, pm)
	}
	return out, nil
}

func toProviderMessage(m Message) (provider.Message, error) {
	pr, err := toProviderRole(m.Role)
	if err != nil {
		return provider.Message{}, err
	}
	content, err := toProviderContentParts(m.Content)
	if err != nil {
		return provider.Message{}, err
	}
	return provider.Message{
		Role:       pr,
		Content:    content,
		Name:       m.Name,
		ToolCallID: m.ToolCallID,
	}, nil
}

func toProviderRole(r Role) (provider.Role, error) {
	switch r {
	case RoleSystem:
		return provider.RoleSystem, nil
	case RoleUser:
		return provider.RoleUser, nil
	case RoleAssistant:
		return provider.RoleAssistant, nil
	case RoleTool:
		return provider.RoleTool, nil
	default:
		return "", fmt.Errorf("unknown role %q", r)
	}
}

func toProviderContentParts(parts []ContentPart) ([]provider.ContentPart, error) {
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]provider.ContentPart, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case TextPart:
			out = append(out, provider.TextPart{Text: v.Text})
		case ImagePart:
			out = append(out, provider.ImagePart{
				URL:       v.URL,
				Bytes:     append([]byte(nil), v.Bytes...),
				MediaType: v.MediaType,
				Detail:    provider.ImageDetail(v.Detail),
			})
		default:
			return nil, fmt.Errorf("unknown content part type %T", p)
		}
	}
	return out, nil
}

func cloneStringMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
