package chat

import "fmt"

// ResumePrompt rebuilds a conversation after a stream was cut off, so a fresh
// call can continue the interrupted reply. It is pure: the same inputs always
// produce the same messages, and the originals are carried over verbatim.
//
// The partial deltas are flattened in order; tool-call snapshots are rendered
// as inline <tool-call/> markers so the model can see what it already emitted.
func ResumePrompt(original []Message, partial []StreamDelta) []Message {
	out := make([]Message, 0, len(original)+3)

	out = append(out, System(
		"You were asked the same question previously, but the response was interrupted before completion. "+
			"Please continue your response from where you left off. "+
			"Do not include the part of the response that was already seen."))
	out = append(out, User("Here is the original question:"))
	out = append(out, original...)

	seen := []ContentPart{TextPart{Text: "Here is the partial response that was successfully received:"}}
	for _, d := range partial {
		seen = append(seen, d.Content...)
		for _, tc := range d.ToolCalls {
			seen = append(seen, TextPart{Text: fmt.Sprintf(
				`<tool-call id="%s" name="%s" arguments="%s"/>`, tc.ID, tc.Name, tc.ArgumentsJSON)})
		}
	}
	out = append(out, Message{Role: RoleUser, Content: seen})

	return out
}
