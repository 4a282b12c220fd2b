package screen

import (
	"iter"
	"sync/atomic"

	tea "charm.land/bubbletea/v2"
)

// Stream pulls a text stream one chunk per command so every chunk is a
// separate message on the update loop. Messages from a stream are
// broadcast to every open screen; each screen compares Stream against the
// one it owns.
type Stream struct {
	next      func() (string, error, bool)
	stop      func()
	abandoned atomic.Bool
}

// StreamChunkMsg carries one chunk.
type StreamChunkMsg struct {
	Stream *Stream
	Text   string
}

// StreamEndMsg reports the end of a stream. Err is nil on success.
type StreamEndMsg struct {
	Stream *Stream
	Err    error
}

// NewStream wraps seq. Nothing is read until Next runs.
func NewStream(seq iter.Seq2[string, error]) *Stream {
	next, stop := iter.Pull2(seq)
	return &Stream{next: next, stop: stop}
}

// Next returns a command that waits for the following chunk.
func (s *Stream) Next() tea.Cmd {
	return func() tea.Msg {
		text, err, ok := s.next()
		if s.abandoned.Load() {
			s.stop()
			return nil
		}
		if !ok {
			return StreamEndMsg{Stream: s}
		}
		if err != nil {
			s.stop()
			return StreamEndMsg{Stream: s, Err: err}
		}
		return StreamChunkMsg{Stream: s, Text: text}
	}
}

// Abandon marks the stream as no longer wanted. The pending command stops
// it once its chunk arrives.
func (s *Stream) Abandon() {
	if s != nil {
		s.abandoned.Store(true)
	}
}

// Release stops an abandoned stream whose chunk was already delivered. It
// is called by screens that receive a chunk they do not own.
func (s *Stream) Release() {
	if s != nil && s.abandoned.Load() {
		s.stop()
	}
}
