package openai

import (
	"errors"
	"testing"

	"github.com/bitop-dev/chat/internal/provider"
)

func strPtr(s string) *string { return &s }

func TestProcessResponse_TextReply(t *testing.T) {
	resp := chatCompletionResponse{
		ID:      "chatcmpl-1",
		Created: 1700000000,
		Choices: []responseChoice{
			{Message: responseMessage{Role: "assistant", Content: strPtr("hello")}, FinishReason: "stop"},
		},
		Usage: &usagePayload{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5},
	}

	out, err := processResponse(resp)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Content) != 1 {
		t.Fatalf("content=%#v", out.Content)
	}
	if tp := out.Content[0].(provider.TextPart); tp.Text != "hello" {
		t.Fatalf("text=%q", tp.Text)
	}
	if out.Metadata.FinishReason != provider.FinishStop {
		t.Fatalf("finish=%q", out.Metadata.FinishReason)
	}
	if out.Metadata.Usage == nil || *out.Metadata.Usage.TotalTokens != 5 {
		t.Fatalf("usage=%#v", out.Metadata.Usage)
	}
	if out.Metadata.ProviderID != "chatcmpl-1" {
		t.Fatalf("provider id=%q", out.Metadata.ProviderID)
	}
}

func TestProcessResponse_ToolCallsOnly(t *testing.T) {
	resp := chatCompletionResponse{
		Choices: []responseChoice{
			{
				Message: responseMessage{
					Role: "assistant",
					ToolCalls: []toolCall{
						{ID: "call_1", Type: "function", Function: toolCallFn{Name: "f", Arguments: `{"a":1}`}},
					},
				},
				FinishReason: "tool_calls",
			},
		},
	}

	out, err := processResponse(resp)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Content) != 0 {
		t.Fatalf("content=%#v", out.Content)
	}
	if len(out.ToolCalls) != 1 || out.ToolCalls[0].Name != "f" {
		t.Fatalf("tool calls=%#v", out.ToolCalls)
	}
	if out.Metadata.FinishReason != provider.FinishToolCalls {
		t.Fatalf("finish=%q", out.Metadata.FinishReason)
	}
}

func TestProcessResponse_NoChoicesIsInternalError(t *testing.T) {
	_, err := processResponse(chatCompletionResponse{ID: "chatcmpl-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	var pe *provider.Error
	if !errors.As(err, &pe) || pe.Code != "internal_error" {
		t.Fatalf("err=%v", err)
	}
}

func TestProcessResponse_FirstChoiceOnly(t *testing.T) {
	resp := chatCompletionResponse{
		Choices: []responseChoice{
			{Message: responseMessage{Content: strPtr("first")}, FinishReason: "stop"},
			{Message: responseMessage{Content: strPtr("second")}, FinishReason: "stop"},
		},
	}

	out, err := processResponse(resp)
	if err != nil {
		t.Fatal(err)
	}
	if tp := out.Content[0].(provider.TextPart); tp.Text != "first" {
		t.Fatalf("text=%q", tp.Text)
	}
}
