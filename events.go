package chat

// CompleteResponse is a fully assembled assistant reply from a non-streaming
// call.
type CompleteResponse struct {
	ID        string
	Content   []ContentPart
	ToolCalls []ToolCall
	Metadata  ResponseMetadata
}

// ChatEvent is the terminal outcome of a non-streaming call. Exactly one
// field is set: Message for a normal reply, ToolRequest when the model
// produced only tool calls and no text, Err otherwise.
type ChatEvent struct {
	Message     *CompleteResponse
	ToolRequest []ToolCall
	Err         *Error
}

// StreamDelta is one incremental piece of a streaming reply. Tool calls are
// snapshots: each carries the complete argument text accumulated so far for
// its position, so reading only the latest delta per call id is enough.
type StreamDelta struct {
	Content   []ContentPart
	ToolCalls []ToolCall
}

// StreamEvent is one decoded streaming event: zero or more Deltas, then
// exactly one terminal Finish or Err.
type StreamEvent struct {
	Delta  *StreamDelta
	Finish *ResponseMetadata
	Err    *Error
}

func errorEvent(err *Error) ChatEvent { return ChatEvent{Err: err} }
