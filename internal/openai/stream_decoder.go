package openai

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bitop-dev/chat/internal/provider"
)

const (
	dataMarker   = "data: "
	doneSentinel = "data: [DONE]"
)

// jsonFragment reassembles one tool call's JSON arguments across frames. The
// id and name are fixed by the frame that first introduces the position; only
// the argument buffer grows afterwards.
type jsonFragment struct {
	id   string
	name string
	args strings.Builder
}

// streamDecoder turns raw push-event frames into stream events. It owns all
// per-stream state: the finished flag (which only ever goes false to true),
// the latest finish reason, and the tool-call fragment table keyed by the
// position of each call within the assistant's tool-call list.
type streamDecoder struct {
	finished     bool
	finishReason provider.FinishReason
	fragments    map[int]*jsonFragment
}

func newStreamDecoder() *streamDecoder {
	return &streamDecoder{fragments: map[int]*jsonFragment{}}
}

func (d *streamDecoder) Finished() bool { return d.finished }

// DecodeFrame consumes one raw frame and produces at most one stream event.
// Frames that are not data frames (comments, keep-alives, unknown fields) are
// ignored. The "[DONE]" sentinel moves the decoder to its terminal state and
// yields nothing. A data frame whose payload is not valid JSON is fatal for
// the stream: chunk boundaries cannot be recovered mid-parse.
func (d *streamDecoder) DecodeFrame(raw string) (*provider.StreamEvent, error) {
	if strings.HasPrefix(raw, doneSentinel) {
		d.finished = true
		return nil, nil
	}
	if !strings.HasPrefix(raw, dataMarker) {
		return nil, nil
	}

	payload := raw[len(dataMarker):]
	var chunk chatCompletionChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return nil, fmt.Errorf("parse stream chunk: %w", err)
	}

	if chunk.Error != nil && chunk.Error.Message != "" {
		return nil, fmt.Errorf("provider stream error: %s", chunk.Error.Message)
	}

	if len(chunk.Choices) > 0 {
		// Single-reply contract: only the first choice is decoded.
		c := chunk.Choices[0]

		if c.FinishReason != nil && *c.FinishReason != "" {
			// Recorded, not emitted; a later frame's reason wins.
			d.finishReason = provider.FinishReason(*c.FinishReason)
		}

		if c.Delta.Content != nil {
			return &provider.StreamEvent{Delta: &provider.Delta{
				Content: []provider.ContentPart{provider.TextPart{Text: *c.Delta.Content}},
			}}, nil
		}

		if len(c.Delta.ToolCalls) > 0 {
			if ev := d.mergeToolCalls(c.Delta.ToolCalls); ev != nil {
				return ev, nil
			}
		}
	}

	if chunk.Usage != nil {
		return &provider.StreamEvent{Finish: &provider.Metadata{
			FinishReason: d.finishReason,
			Usage: &provider.Usage{
				PromptTokens:     intPtr(chunk.Usage.PromptTokens),
				CompletionTokens: intPtr(chunk.Usage.CompletionTokens),
				TotalTokens:      intPtr(chunk.Usage.TotalTokens),
			},
			ProviderID: chunk.ID,
			Created:    createdTime(chunk.Created),
		}}, nil
	}

	// Heartbeat chunk (e.g. role-only delta); nothing to surface.
	return nil, nil
}

// mergeToolCalls folds positional fragments into the fragment table and
// returns a delta carrying full-argument snapshots for every position whose
// id and name are already known. Positions still missing either are skipped;
// they re-emit complete once the identifying frame arrives.
func (d *streamDecoder) mergeToolCalls(calls []toolCallDelta) *provider.StreamEvent {
	out := make([]provider.ToolCall, 0, len(calls))
	for _, tc := range calls {
		idx := 0
		if tc.Index != nil {
			idx = *tc.Index
		}

		frag, ok := d.fragments[idx]
		if !ok {
			frag = &jsonFragment{id: tc.ID, name: tc.Function.Name}
			d.fragments[idx] = frag
		}
		if tc.Function.Arguments != "" {
			frag.args.WriteString(tc.Function.Arguments)
		}

		if frag.id != "" && frag.name != "" {
			out = append(out, provider.ToolCall{
				ID:            frag.id,
				Name:          frag.name,
				ArgumentsJSON: frag.args.String(),
			})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return &provider.StreamEvent{Delta: &provider.Delta{ToolCalls: out}}
}

func intPtr(v int) *int { return &v }

func createdTime(created int64) time.Time {
	if created <= 0 {
		return time.Time{}
	}
	return time.Unix(created, 0).UTC()
}
