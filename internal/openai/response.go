package openai

import (
	"github.com/bitop-dev/chat/internal/provider"
)

// processResponse maps a non-streaming completion body onto the provider
// contract. Only the first choice is considered; a response with no choices
// at all is an internal error.
func processResponse(resp chatCompletionResponse) (provider.Completion, error) {
	if len(resp.Choices) == 0 {
		return provider.Completion{}, &provider.Error{
			Provider: providerName,
			Code:     "internal_error",
			Message:  "no choices in response",
		}
	}
	c := resp.Choices[0]

	var content []provider.ContentPart
	if c.Message.Content != nil && *c.Message.Content != "" {
		content = append(content, provider.TextPart{Text: *c.Message.Content})
	}

	toolCalls := make([]provider.ToolCall, 0, len(c.Message.ToolCalls))
	for _, tc := range c.Message.ToolCalls {
		toolCalls = append(toolCalls, provider.ToolCall{
			ID:            tc.ID,
			Name:          tc.Function.Name,
			ArgumentsJSON: tc.Function.Arguments,
		})
	}

	meta := provider.Metadata{
		FinishReason: provider.FinishReason(c.FinishReason),
		ProviderID:   resp.ID,
		Created:      createdTime(resp.Created),
	}
	if resp.Usage != nil {
		meta.Usage = &provider.Usage{
			PromptTokens:     intPtr(resp.Usage.PromptTokens),
			CompletionTokens: intPtr(resp.Usage.CompletionTokens),
			TotalTokens:      intPtr(resp.Usage.TotalTokens),
		}
	}

	return provider.Completion{
		Content:   content,
		ToolCalls: toolCalls,
		Metadata:  meta,
	}, nil
}
