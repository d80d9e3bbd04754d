package sse

import (
	"strings"
	"testing"
)

func collect(t *testing.T, input string) []string {
	t.Helper()
	r := NewReader(strings.NewReader(input))
	var frames []string
	for r.Next() {
		frames = append(frames, r.Frame())
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	return frames
}

func TestReader_SplitsOnBlankLines(t *testing.T) {
	frames := collect(t, "data: one\n\ndata: two\n\n")
	if len(frames) != 2 || frames[0] != "data: one" || frames[1] != "data: two" {
		t.Fatalf("frames=%#v", frames)
	}
}

func TestReader_JoinsMultiLineFrames(t *testing.T) {
	frames := collect(t, "event: ping\ndata: {}\n\n")
	if len(frames) != 1 || frames[0] != "event: ping\ndata: {}" {
		t.Fatalf("frames=%#v", frames)
	}
}

func TestReader_KeepsFieldPrefixes(t *testing.T) {
	frames := collect(t, "data: [DONE]\n\n")
	if len(frames) != 1 || frames[0] != "data: [DONE]" {
		t.Fatalf("frames=%#v", frames)
	}
}

func TestReader_HandlesCRLF(t *testing.T) {
	frames := collect(t, "data: one\r\n\r\ndata: two\r\n\r\n")
	if len(frames) != 2 || frames[0] != "data: one" || frames[1] != "data: two" {
		t.Fatalf("frames=%#v", frames)
	}
}

func TestReader_SkipsLeadingBlankLines(t *testing.T) {
	frames := collect(t, "\n\ndata: one\n\n")
	if len(frames) != 1 || frames[0] != "data: one" {
		t.Fatalf("frames=%#v", frames)
	}
}

func TestReader_FinalFrameWithoutTrailingBlank(t *testing.T) {
	frames := collect(t, "data: one\n\ndata: two")
	if len(frames) != 2 || frames[1] != "data: two" {
		t.Fatalf("frames=%#v", frames)
	}
}

func TestReader_EmptyInput(t *testing.T) {
	frames := collect(t, "")
	if len(frames) != 0 {
		t.Fatalf("frames=%#v", frames)
	}
}
