package chat

import "github.com/bitop-dev/chat/internal/provider"

func eventFromCompletion(c provider.Completion) ChatEvent {
	if len(c.Content) == 0 && len(c.ToolCalls) > 0 {
		return ChatEvent{ToolRequest: fromProviderToolCalls(c.ToolCalls)}
	}
	return ChatEvent{Message: &CompleteResponse{
		ID:        c.Metadata.ProviderID,
		Content:   fromProviderContentParts(c.Content),
		ToolCalls: fromProviderToolCalls(c.ToolCalls),
		Metadata:  fromProviderMetadata(c.Metadata),
	}}
}

func fromProviderContentParts(parts []provider.ContentPart) []ContentPart {
	if len(parts) == 0 {
		return nil
	}
	out := make([]ContentPart, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case provider.TextPart:
			out = append(out, TextPart{Text: v.Text})
		case provider.ImagePart:
			out = append(out, ImagePart{
				URL:       v.URL,
				Bytes:     append([]byte(nil), v.Bytes...),
				MediaType: v.MediaType,
				Detail:    ImageDetail(v.Detail),
			})
		}
	}
	return out
}

func fromProviderToolCalls(calls []provider.ToolCall) []ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]ToolCall, 0, len(calls))
	for _, c := range calls {
		out = append(out, ToolCall{ID: c.ID, Name: c.Name, ArgumentsJSON: c.ArgumentsJSON})
	}
	return out
}

func fromProviderMetadata(m provider.Metadata) ResponseMetadata {
	return ResponseMetadata{
		FinishReason:         FinishReason(m.FinishReason),
		Usage:                fromProviderUsage(m.Usage),
		ProviderID:           m.ProviderID,
		Created:              m.Created,
		ProviderMetadataJSON: m.ProviderMetadataJSON,
	}
}

func fromProviderUsage(u *provider.Usage) *Usage {
	if u == nil {
		return nil
	}
	return &Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}
