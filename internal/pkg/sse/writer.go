// Package sse writes server-sent-event frames for the streaming chat
// endpoint. Each frame is one JSON object wrapped as "data: <json>\n\n".
package sse

import (
	"bufio"
	"encoding/json"
	"fmt"
)

// Response headers committed when a stream starts. Committing them is the
// caller's job: they must be deferred until the first chunk so pre-stream
// failures can still return a plain JSON error.
const (
	HeaderContentType  = "text/event-stream"
	HeaderCacheControl = "no-cache"
	HeaderConnection   = "keep-alive"
)

type State int

const (
	StateNotStarted State = iota
	StateStreaming
	StateClosed
)

// Writer is the wire-side half of a relay turn. It enforces the frame
// contract: any number of delta frames, then exactly one terminal frame
// (done or error). Writes after close are no-ops, never panics.
type Writer struct {
	w     *bufio.Writer
	state State
}

func NewWriter(w *bufio.Writer) *Writer {
	return &Writer{w: w, state: StateNotStarted}
}

func (s *Writer) State() State {
	return s.state
}

type deltaFrame struct {
	Delta string `json:"delta"`
}

type doneFrame struct {
	Done bool `json:"done"`
}

type errorFrame struct {
	Error string `json:"error"`
}

// WriteDelta forwards one incremental chunk. The first call moves the writer
// into the streaming state.
func (s *Writer) WriteDelta(text string) error {
	if s.state == StateClosed {
		return nil
	}
	s.state = StateStreaming
	return s.writeFrame(deltaFrame{Delta: text})
}

// WriteDone emits the successful terminal frame and closes the writer.
func (s *Writer) WriteDone() error {
	if s.state == StateClosed {
		return nil
	}
	err := s.writeFrame(doneFrame{Done: true})
	s.state = StateClosed
	return err
}

// WriteError emits the failure terminal frame and closes the writer. The
// message must already be client-safe; raw provider errors never pass
// through here.
func (s *Writer) WriteError(message string) error {
	if s.state == StateClosed {
		return nil
	}
	err := s.writeFrame(errorFrame{Error: message})
	s.state = StateClosed
	return err
}

func (s *Writer) writeFrame(payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", raw); err != nil {
		return err
	}
	return s.w.Flush()
}
