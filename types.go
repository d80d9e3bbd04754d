package chat

import "time"

// ModelRef identifies a model on a specific provider. Provider packages
// return concrete refs bound to their configured client.
type ModelRef interface {
	Provider() string
	Name() string
}

// Config carries everything about a chat call other than the conversation
// itself.
type Config struct {
	Model ModelRef

	Temperature   *float32
	MaxTokens     *int
	StopSequences []string

	Tools []ToolDefinition
	// ToolChoice is the provider's tool-choice policy ("auto", "none",
	// "required", ...). Empty leaves the provider default in place.
	ToolChoice string

	// ProviderOptions are provider-specific key/value options (e.g. "seed",
	// "top_p"). A known key with an unparsable value fails the call before
	// any network traffic.
	ProviderOptions map[string]string
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn of the conversation. Messages are treated as immutable
// once constructed.
type Message struct {
	Role    Role
	Content []ContentPart
	Name    string

	// ToolCallID is required for role=tool messages so the provider can
	// correlate the result with the call that produced it.
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

// ImagePart is a multimodal image input: either a remote URL or inline bytes
// with a mime type.
type ImagePart struct {
	URL       string
	Bytes     []byte
	MediaType string
	Detail    ImageDetail
}

func (ImagePart) isContentPart() {}

func System(text string) Message {
	return Message{Role: RoleSystem, Content: []ContentPart{TextPart{Text: text}}}
}

func User(text string) Message {
	return Message{Role: RoleUser, Content: []ContentPart{TextPart{Text: text}}}
}

func Assistant(text string) Message {
	return Message{Role: RoleAssistant, Content: []ContentPart{TextPart{Text: text}}}
}

func ImageURL(url string) ImagePart { return ImagePart{URL: url} }

func ImageBytes(mediaType string, b []byte) ImagePart {
	return ImagePart{MediaType: mediaType, Bytes: b}
}

type ToolDefinition struct {
	Name        string
	Description string
	// ParametersSchema is JSON-schema text describing the tool's arguments.
	// It must be valid JSON; calls with an unparsable schema fail before any
	// network traffic, naming the offending tool.
	ParametersSchema string
}

// ToolCall carries arguments as the raw JSON string the model produced. The
// string may be an incomplete prefix while a stream is still in flight.
type ToolCall struct {
	ID            string
	Name          string
	ArgumentsJSON string
}

// ToolResult is the outcome of executing one tool call: either a JSON result
// or an error message.
type ToolResult struct {
	ID   string
	Name string

	ResultJSON   string
	ErrorMessage string
	IsError      bool

	ExecutionTime time.Duration
}

// ToolExchange pairs a tool call with its result for the Continue entry
// point.
type ToolExchange struct {
	Call   ToolCall
	Result ToolResult
}

func SuccessResult(callID, name, resultJSON string) ToolResult {
	return ToolResult{ID: callID, Name: name, ResultJSON: resultJSON}
}

func ErrorResult(callID, name, message string) ToolResult {
	return ToolResult{ID: callID, Name: name, ErrorMessage: message, IsError: true}
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

// ResponseMetadata describes how and why a reply ended. FinishReason is empty
// when the provider never reported one.
type ResponseMetadata struct {
	FinishReason FinishReason
	Usage        *Usage
	ProviderID   string
	Created      time.Time
	// ProviderMetadataJSON carries opaque provider-specific metadata.
	ProviderMetadataJSON string
}
