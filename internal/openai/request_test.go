package openai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/bitop-dev/chat/internal/provider"
)

func TestBuildRequest_TextOnlyContentIsString(t *testing.T) {
	req := provider.Request{
		Model: "gpt-4o-mini",
		Messages: []provider.Message{
			{Role: provider.RoleUser, Content: []provider.ContentPart{
				provider.TextPart{Text: "hello "},
				provider.TextPart{Text: "world"},
			}},
		},
	}

	payload, err := buildRequest(req, false)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := payload.Messages[0].Content.(string); !ok || got != "hello world" {
		t.Fatalf("content=%#v", payload.Messages[0].Content)
	}
	if payload.Stream || payload.StreamOptions != nil {
		t.Fatalf("non-streaming request got stream fields: %+v", payload)
	}
}

func TestBuildRequest_ImageContentBecomesPartList(t *testing.T) {
	req := provider.Request{
		Model: "gpt-4o-mini",
		Messages: []provider.Message{
			{Role: provider.RoleUser, Content: []provider.ContentPart{
				provider.TextPart{Text: "what is this?"},
				provider.ImagePart{URL: "https://example.com/cat.png", Detail: provider.ImageDetailLow},
			}},
		},
	}

	payload, err := buildRequest(req, false)
	if err != nil {
		t.Fatal(err)
	}
	parts, ok := payload.Messages[0].Content.([]contentPart)
	if !ok || len(parts) != 2 {
		t.Fatalf("content=%#v", payload.Messages[0].Content)
	}
	if parts[1].Type != "image_url" || parts[1].ImageURL.URL != "https://example.com/cat.png" {
		t.Fatalf("image part=%#v", parts[1])
	}
	if parts[1].ImageURL.Detail != "low" {
		t.Fatalf("detail=%q", parts[1].ImageURL.Detail)
	}
}

func TestBuildRequest_InlineImageBecomesDataURL(t *testing.T) {
	req := provider.Request{
		Model: "gpt-4o-mini",
		Messages: []provider.Message{
			{Role: provider.RoleUser, Content: []provider.ContentPart{
				provider.ImagePart{Bytes: []byte{1, 2, 3}, MediaType: "image/png"},
			}},
		},
	}

	payload, err := buildRequest(req, false)
	if err != nil {
		t.Fatal(err)
	}
	parts := payload.Messages[0].Content.([]contentPart)
	if !strings.HasPrefix(parts[0].ImageURL.URL, "data:image/png;base64,") {
		t.Fatalf("url=%q", parts[0].ImageURL.URL)
	}
}

func TestBuildRequest_StreamingSetsUsageOption(t *testing.T) {
	req := provider.Request{
		Model: "gpt-4o-mini",
		Messages: []provider.Message{
			{Role: provider.RoleUser, Content: []provider.ContentPart{provider.TextPart{Text: "hi"}}},
		},
	}

	payload, err := buildRequest(req, true)
	if err != nil {
		t.Fatal(err)
	}
	if !payload.Stream {
		t.Fatal("stream flag not set")
	}
	if payload.StreamOptions == nil || !payload.StreamOptions.IncludeUsage {
		t.Fatalf("stream options=%#v", payload.StreamOptions)
	}
}

func TestBuildRequest_OptionsMapToTypedFields(t *testing.T) {
	req := provider.Request{
		Model: "gpt-4o-mini",
		Messages: []provider.Message{
			{Role: provider.RoleUser, Content: []provider.ContentPart{provider.TextPart{Text: "hi"}}},
		},
		Options: map[string]string{
			"top_p":             "0.9",
			"seed":              "42",
			"frequency_penalty": "0.5",
			"user_id":           "u-123",
			"unknown_option":    "ignored",
		},
	}

	payload, err := buildRequest(req, false)
	if err != nil {
		t.Fatal(err)
	}
	if payload.TopP == nil || *payload.TopP != 0.9 {
		t.Fatalf("top_p=%v", payload.TopP)
	}
	if payload.Seed == nil || *payload.Seed != 42 {
		t.Fatalf("seed=%v", payload.Seed)
	}
	if payload.FrequencyPenalty == nil || *payload.FrequencyPenalty != 0.5 {
		t.Fatalf("frequency_penalty=%v", payload.FrequencyPenalty)
	}
	if payload.User != "u-123" {
		t.Fatalf("user=%q", payload.User)
	}
}

func TestBuildRequest_BadOptionValueFails(t *testing.T) {
	req := provider.Request{
		Model: "gpt-4o-mini",
		Messages: []provider.Message{
			{Role: provider.RoleUser, Content: []provider.ContentPart{provider.TextPart{Text: "hi"}}},
		},
		Options: map[string]string{"seed": "not-a-number"},
	}

	if _, err := buildRequest(req, false); err == nil {
		t.Fatal("expected error for unparsable option value")
	}
}

func TestBuildRequest_BadToolSchemaFailsWithToolName(t *testing.T) {
	req := provider.Request{
		Model: "gpt-4o-mini",
		Messages: []provider.Message{
			{Role: provider.RoleUser, Content: []provider.ContentPart{provider.TextPart{Text: "hi"}}},
		},
		Tools: []provider.ToolDefinition{
			{Name: "broken", ParametersSchema: "{not json"},
		},
	}

	_, err := buildRequest(req, false)
	if err == nil {
		t.Fatal("expected error for invalid schema")
	}
	if !strings.Contains(err.Error(), `"broken"`) {
		t.Fatalf("error does not name the tool: %v", err)
	}
}

func TestBuildRequest_ToolMessageRequiresCallID(t *testing.T) {
	req := provider.Request{
		Model: "gpt-4o-mini",
		Messages: []provider.Message{
			{Role: provider.RoleTool, Content: []provider.ContentPart{provider.TextPart{Text: `{"ok":true}`}}},
		},
	}

	if _, err := buildRequest(req, false); err == nil {
		t.Fatal("expected error for tool message without ToolCallID")
	}
}

func TestBuildRequest_ToolResultsFoldIntoMessagePairs(t *testing.T) {
	req := provider.Request{
		Model: "gpt-4o-mini",
		Messages: []provider.Message{
			{Role: provider.RoleUser, Content: []provider.ContentPart{provider.TextPart{Text: "weather?"}}},
		},
		ToolResults: []provider.ToolExchange{
			{
				Call:   provider.ToolCall{ID: "call_1", Name: "get_weather", ArgumentsJSON: `{"city":"Lisbon"}`},
				Result: provider.ToolResult{ID: "call_1", Name: "get_weather", ResultJSON: `{"temp":24}`},
			},
			{
				Call:   provider.ToolCall{ID: "call_2", Name: "get_weather", ArgumentsJSON: `{"city":"Atlantis"}`},
				Result: provider.ToolResult{ID: "call_2", Name: "get_weather", ErrorMessage: "no such city", IsError: true},
			},
		},
	}

	payload, err := buildRequest(req, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(payload.Messages) != 5 {
		t.Fatalf("messages=%d", len(payload.Messages))
	}

	first := payload.Messages[1]
	if first.Role != "assistant" || len(first.ToolCalls) != 1 || first.ToolCalls[0].ID != "call_1" {
		t.Fatalf("assistant tool-call message=%#v", first)
	}
	second := payload.Messages[2]
	if second.Role != "tool" || second.ToolCallID != "call_1" || second.Content != `{"temp":24}` {
		t.Fatalf("tool result message=%#v", second)
	}
	failed := payload.Messages[4]
	if failed.Content != "no such city" {
		t.Fatalf("error result content=%#v", failed.Content)
	}
}

func TestBuildRequest_WirePayloadShape(t *testing.T) {
	maxTokens := 128
	temp := float32(0.2)
	req := provider.Request{
		Model: "gpt-4o-mini",
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: []provider.ContentPart{provider.TextPart{Text: "be brief"}}},
			{Role: provider.RoleUser, Content: []provider.ContentPart{provider.TextPart{Text: "hi"}}},
		},
		MaxTokens:     &maxTokens,
		Temperature:   &temp,
		StopSequences: []string{"END"},
		ToolChoice:    "auto",
	}

	payload, err := buildRequest(req, false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["model"] != "gpt-4o-mini" {
		t.Fatalf("model=%v", decoded["model"])
	}
	if decoded["max_completion_tokens"] != float64(128) {
		t.Fatalf("max_completion_tokens=%v", decoded["max_completion_tokens"])
	}
	if decoded["tool_choice"] != "auto" {
		t.Fatalf("tool_choice=%v", decoded["tool_choice"])
	}
	if _, present := decoded["stream"]; present {
		t.Fatal("stream field marshaled for non-streaming request")
	}
}
