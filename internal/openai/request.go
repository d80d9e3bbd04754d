package openai

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bitop-dev/chat/internal/provider"
	"github.com/bitop-dev/chat/internal/schema"
)

func buildRequest(req provider.Request, stream bool) (chatCompletionRequest, error) {
	msgs := make([]chatMessage, 0, len(req.Messages)+2*len(req.ToolResults))
	for _, m := range req.Messages {
		cm, err := toChatMessage(m)
		if err != nil {
			return chatCompletionRequest{}, err
		}
		msgs = append(msgs, cm)
	}
	msgs = append(msgs, toolResultsToMessages(req.ToolResults)...)

	var tools []tool
	if len(req.Tools) > 0 {
		tools = make([]tool, 0, len(req.Tools))
		for _, t := range req.Tools {
			wt, err := toTool(t)
			if err != nil {
				return chatCompletionRequest{}, err
			}
			tools = append(tools, wt)
		}
	}

	out := chatCompletionRequest{
		Model:               req.Model,
		Messages:            msgs,
		Tools:               tools,
		ToolChoice:          req.ToolChoice,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         req.Temperature,
		Stop:                append([]string(nil), req.StopSequences...),
		Stream:              stream,
	}
	if stream {
		// The usage trailer arrives as the last data frame only when asked for.
		out.StreamOptions = &streamOptions{IncludeUsage: true}
	}

	if err := applyOptions(&out, req.Options); err != nil {
		return chatCompletionRequest{}, err
	}
	return out, nil
}

// applyOptions maps provider key/value options onto typed request fields. A
// known key with an unparsable value is a setup error; unknown keys are
// ignored.
func applyOptions(out *chatCompletionRequest, options map[string]string) error {
	for key, value := range options {
		var err error
		switch key {
		case "frequency_penalty":
			out.FrequencyPenalty, err = parseFloat32(value)
		case "presence_penalty":
			out.PresencePenalty, err = parseFloat32(value)
		case "top_p":
			out.TopP, err = parseFloat32(value)
		case "n":
			out.N, err = parseInt(value)
		case "seed":
			out.Seed, err = parseInt(value)
		case "top_logprobs":
			out.TopLogprobs, err = parseInt(value)
		case "user_id":
			out.User = value
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("option %q: invalid value %q", key, value)
		}
	}
	return nil
}

func parseFloat32(v string) (*float32, error) {
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return nil, err
	}
	f32 := float32(f)
	return &f32, nil
}

func parseInt(v string) (*int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func toTool(t provider.ToolDefinition) (tool, error) {
	if t.Name == "" {
		return tool{}, fmt.Errorf("tool name is required")
	}
	if err := schema.Check(t.ParametersSchema); err != nil {
		return tool{}, fmt.Errorf("tool %q parameters: %w", t.Name, err)
	}
	return tool{
		Type: "function",
		Function: toolFunction{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  json.RawMessage(t.ParametersSchema),
		},
	}, nil
}

func toChatMessage(m provider.Message) (chatMessage, error) {
	role := string(m.Role)
	if role == "" {
		return chatMessage{}, fmt.Errorf("message role is required")
	}

	content, err := contentFromParts(m.Content)
	if err != nil {
		return chatMessage{}, err
	}

	cm := chatMessage{
		Role:    role,
		Content: content,
		Name:    m.Name,
	}

	if m.Role == provider.RoleTool {
		// A tool message built from the generic list must carry the call id it
		// answers; results routed through ToolResults get it automatically.
		if m.ToolCallID == "" {
			return chatMessage{}, fmt.Errorf("tool message missing ToolCallID; route tool results through the tool-results path")
		}
		cm.ToolCallID = m.ToolCallID
	}
	return cm, nil
}

// contentFromParts renders message content: a plain string while the message
// is text-only, a content-part list once an image is present.
func contentFromParts(parts []provider.ContentPart) (any, error) {
	hasImage := false
	for _, p := range parts {
		if _, ok := p.(provider.ImagePart); ok {
			hasImage = true
			break
		}
	}

	if !hasImage {
		var text string
		for _, p := range parts {
			t, ok := p.(provider.TextPart)
			if !ok {
				return nil, fmt.Errorf("unsupported content part %T", p)
			}
			text += t.Text
		}
		if text == "" {
			return nil, nil
		}
		return text, nil
	}

	out := make([]contentPart, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case provider.TextPart:
			out = append(out, contentPart{Type: "text", Text: v.Text})
		case provider.ImagePart:
			u, err := imageURLFromPart(v)
			if err != nil {
				return nil, err
			}
			out = append(out, contentPart{Type: "image_url", ImageURL: u})
		default:
			return nil, fmt.Errorf("unsupported content part %T", p)
		}
	}
	return out, nil
}

func imageURLFromPart(p provider.ImagePart) (*imageURL, error) {
	u := &imageURL{Detail: string(p.Detail)}
	switch {
	case p.URL != "":
		u.URL = p.URL
	case len(p.Bytes) > 0:
		if p.MediaType == "" {
			return nil, fmt.Errorf("inline image requires a media type")
		}
		u.URL = "data:" + p.MediaType + ";base64," + base64.StdEncoding.EncodeToString(p.Bytes)
	default:
		return nil, fmt.Errorf("image part requires a URL or inline bytes")
	}
	return u, nil
}

// toolResultsToMessages expands (call, result) pairs into the wire form the
// provider expects: an assistant message proposing the call, then a tool
// message answering it.
func toolResultsToMessages(results []provider.ToolExchange) []chatMessage {
	if len(results) == 0 {
		return nil
	}
	msgs := make([]chatMessage, 0, 2*len(results))
	for _, ex := range results {
		msgs = append(msgs, chatMessage{
			Role: string(provider.RoleAssistant),
			ToolCalls: []toolCall{{
				ID:   ex.Call.ID,
				Type: "function",
				Function: toolCallFn{
					Name:      ex.Call.Name,
					Arguments: ex.Call.ArgumentsJSON,
				},
			}},
		})

		content := ex.Result.ResultJSON
		if ex.Result.IsError {
			content = ex.Result.ErrorMessage
		}
		msgs = append(msgs, chatMessage{
			Role:       string(provider.RoleTool),
			Content:    content,
			ToolCallID: ex.Call.ID,
		})
	}
	return msgs
}
