package provider

import "time"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

type Message struct {
	Role    Role
	Content []ContentPart
	Name    string

	// ToolCallID associates a tool result message (role=tool) with the prior
	// tool call it answers.
	ToolCallID string
}

type ContentPart interface {
	isContentPart()
}

type TextPart struct{ Text string }

func (TextPart) isContentPart() {}

type ImageDetail string

const (
	ImageDetailAuto ImageDetail = "auto"
	ImageDetailLow  ImageDetail = "low"
	ImageDetailHigh ImageDetail = "high"
)

// ImagePart references an image either by URL or by inline bytes. Providers
// encode inline bytes as required by their wire format.
type ImagePart struct {
	URL       string
	Bytes     []byte
	MediaType string
	Detail    ImageDetail
}

func (ImagePart) isContentPart() {}

type ToolDefinition struct {
	Name        string
	Description string
	// ParametersSchema is the raw JSON schema text for the tool's arguments.
	ParametersSchema string
}

// ToolCall carries arguments as a JSON-encoded string; mid-stream the string
// may be an incomplete JSON prefix.
type ToolCall struct {
	ID            string
	Name          string
	ArgumentsJSON string
}

type ToolResult struct {
	ID   string
	Name string

	// Exactly one of ResultJSON (success) or ErrorMessage (failure) is set.
	ResultJSON   string
	ErrorMessage string
	IsError      bool

	ExecutionTime time.Duration
}

type ToolExchange struct {
	Call   ToolCall
	Result ToolResult
}

type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishToolCalls     FinishReason = "tool_calls"
	FinishContentFilter FinishReason = "content_filter"
)

type Usage struct {
	PromptTokens     *int
	CompletionTokens *int
	TotalTokens      *int
}

type Metadata struct {
	// FinishReason is empty when the provider never reported one.
	FinishReason FinishReason
	Usage        *Usage
	ProviderID   string
	Created      time.Time
	// ProviderMetadataJSON carries opaque provider-specific metadata.
	ProviderMetadataJSON string
}

// Delta is one incremental piece of a streaming reply. Tool calls are
// snapshots: each carries the full argument text accumulated so far for its
// position, so consumers never need to reassemble fragments themselves.
type Delta struct {
	Content   []ContentPart
	ToolCalls []ToolCall
}

// StreamEvent is either a Delta or a terminal Finish. Stream errors travel
// through Stream.Err, not through events.
type StreamEvent struct {
	Delta  *Delta
	Finish *Metadata
}
