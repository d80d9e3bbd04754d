// Package sse provides line framing for Server-Sent Event streams. It only
// reassembles raw frames; interpreting field prefixes, the end-of-stream
// sentinel, and payload JSON is the stream decoder's job.
package sse

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// Reader splits an SSE byte stream into raw frames on blank-line boundaries.
// A frame is the verbatim text of one event block (field prefixes intact,
// lines joined with '\n').
type Reader struct {
	r   *bufio.Reader
	buf bytes.Buffer
	err error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next advances to the next frame. It returns false on EOF or error. After a
// successful Next, Frame returns the raw frame text.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	r.buf.Reset()

	for {
		line, err := r.r.ReadString('\n')
		if err != nil {
			if err == io.EOF && (r.buf.Len() > 0 || line != "") {
				r.buf.WriteString(strings.TrimRight(line, "\r\n"))
				r.err = io.EOF
				return true
			}
			r.err = err
			return false
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if r.buf.Len() == 0 {
				// Leading blank line; keep scanning.
				continue
			}
			return true
		}

		if r.buf.Len() > 0 {
			r.buf.WriteByte('\n')
		}
		r.buf.WriteString(line)
	}
}

func (r *Reader) Frame() string {
	if r == nil {
		return ""
	}
	return r.buf.String()
}

func (r *Reader) Err() error {
	if r == nil {
		return nil
	}
	if r.err == io.EOF {
		return nil
	}
	return r.err
}
