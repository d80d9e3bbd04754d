package chat

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/bitop-dev/chat/internal/provider"
)

// ChatStream is one streaming chat session. It wraps either a live provider
// stream or a setup failure captured at construction time; either way the
// consumer drives it the same way.
type ChatStream struct {
	id  string
	src provider.Stream

	failure *Error

	mu       sync.Mutex
	finished bool

	// done is closed by Close and releases the Events goroutine when the
	// consumer stops receiving mid-stream.
	done      chan struct{}
	closeOnce sync.Once
}

func newChatStream(src provider.Stream) *ChatStream {
	return &ChatStream{id: newStreamID(), src: src, done: make(chan struct{})}
}

func failedChatStream(err *Error) *ChatStream {
	return &ChatStream{id: newStreamID(), failure: err, done: make(chan struct{})}
}

// ID is the session id, a ULID minted at construction. It appears in logs
// and is stable for the life of the stream.
func (s *ChatStream) ID() string { return s.id }

func (s *ChatStream) isFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

func (s *ChatStream) markFinished() {
	s.mu.Lock()
	s.finished = true
	s.mu.Unlock()
}

// GetNext blocks until the next batch of events is available and returns it.
// All decoding happens synchronously on the caller's goroutine. An empty
// slice means the stream ended; callers must stop calling after that.
// Transport and decode failures arrive as a single terminal Error event.
func (s *ChatStream) GetNext() []StreamEvent {
	if s.isFinished() {
		return nil
	}

	if s.failure != nil {
		s.markFinished()
		return []StreamEvent{{Err: s.failure}}
	}

	if s.src.Next() {
		return []StreamEvent{fromProviderStreamEvent(s.src.Event())}
	}

	s.markFinished()
	if err := s.src.Err(); err != nil {
		return []StreamEvent{{Err: asChatError("", err)}}
	}
	return nil
}

// Events drains the stream into a channel, for consumers that prefer select
// over polling. The channel closes when the stream ends, or when Close
// releases a sender whose consumer stopped receiving.
func (s *ChatStream) Events() <-chan StreamEvent {
	ch := make(chan StreamEvent)
	go func() {
		defer close(ch)
		for {
			events := s.GetNext()
			if len(events) == 0 {
				return
			}
			for _, ev := range events {
				select {
				case ch <- ev:
				case <-s.done:
					return
				}
			}
		}
	}()
	return ch
}

// Close releases the underlying transport and unblocks any Events goroutine.
// Safe to call on a failed stream and safe to call more than once.
func (s *ChatStream) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	s.markFinished()
	if s.src != nil {
		return s.src.Close()
	}
	return nil
}

func fromProviderStreamEvent(ev provider.StreamEvent) StreamEvent {
	if ev.Finish != nil {
		m := fromProviderMetadata(*ev.Finish)
		return StreamEvent{Finish: &m}
	}
	if ev.Delta != nil {
		return StreamEvent{Delta: &StreamDelta{
			Content:   fromProviderContentParts(ev.Delta.Content),
			ToolCalls: fromProviderToolCalls(ev.Delta.ToolCalls),
		}}
	}
	return StreamEvent{}
}

func newStreamID() string {
	t := time.Now().UTC()
	id, err := ulid.New(ulid.Timestamp(t), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}
