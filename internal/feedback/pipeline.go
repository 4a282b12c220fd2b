// Package feedback drives a streamed AI analysis from request to rendered
// sections. A Pipeline is a small state machine fed one chunk at a time;
// Parse splits the finished (or partial) text into typed sections.
package feedback

import (
	"context"
	"errors"
	"iter"
	"strings"
	"unicode"
)

// SuccessMarker is the sentinel an analysis opens with when the submitted
// code solves the active task.
const SuccessMarker = "[TASK_SUCCESS]"

// DefaultErrorMessage is shown when a failure carries no message.
const DefaultErrorMessage = "An unknown error occurred."

var (
	// ErrBusy is returned by Start while an analysis is loading or streaming.
	ErrBusy = errors.New("feedback: analysis already in progress")

	// ErrNotAccepting is returned when a chunk or completion arrives in a
	// state that cannot take it.
	ErrNotAccepting = errors.New("feedback: pipeline is not accepting chunks")
)

// State is the lifecycle position of a Pipeline.
type State int

const (
	Idle State = iota
	Loading
	Streaming
	Complete
	Errored
)

var stateNames = [...]string{"idle", "loading", "streaming", "complete", "error"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Mode selects the analysis prompt.
type Mode string

const (
	ModeAnalyze  Mode = "analyze"
	ModeRefactor Mode = "refactor"
)

// ParseMode accepts "analyze", "refactor" and the alias "enhance".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "analyze", "":
		return ModeAnalyze, true
	case "refactor", "enhance":
		return ModeRefactor, true
	}
	return "", false
}

// Outcome is the result of a completed analysis.
type Outcome struct {
	Mode       Mode
	Text       string // display text, marker stripped
	TaskSolved bool
}

// Pipeline accumulates a streamed response. The zero value is Idle and
// ready for Start.
type Pipeline struct {
	state    State
	mode     Mode
	withTask bool

	buf     strings.Builder
	display string
	err     error
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State { return p.state }

// Mode returns the mode of the current or last analysis.
func (p *Pipeline) Mode() Mode { return p.mode }

// Busy reports whether an analysis is loading or streaming.
func (p *Pipeline) Busy() bool {
	return p.state == Loading || p.state == Streaming
}

// Start begins a new analysis. withTask records whether a roadmap task is
// active, which is the only case where the success marker counts.
func (p *Pipeline) Start(mode Mode, withTask bool) error {
	if p.Busy() {
		return ErrBusy
	}
	p.state = Loading
	p.mode = mode
	p.withTask = withTask
	p.buf.Reset()
	p.display = ""
	p.err = nil
	return nil
}

// Append adds a chunk and recomputes the display text.
func (p *Pipeline) Append(chunk string) error {
	switch p.state {
	case Loading:
		p.state = Streaming
	case Streaming:
	default:
		return ErrNotAccepting
	}
	p.buf.WriteString(chunk)
	p.display = displayText(p.buf.String())
	return nil
}

// Finish completes the analysis and evaluates the success marker over the
// full text.
func (p *Pipeline) Finish() (Outcome, error) {
	if !p.Busy() {
		return Outcome{}, ErrNotAccepting
	}
	full := p.buf.String()
	p.state = Complete
	p.display = displayText(full)
	return Outcome{
		Mode:       p.mode,
		Text:       p.display,
		TaskSolved: p.withTask && hasMarker(full),
	}, nil
}

// Fail moves a busy pipeline to Errored. The partial display is kept.
func (p *Pipeline) Fail(err error) {
	if !p.Busy() {
		return
	}
	if err == nil {
		err = errors.New(DefaultErrorMessage)
	}
	p.state = Errored
	p.err = err
}

// Err returns the failure, if any.
func (p *Pipeline) Err() error { return p.err }

// Message returns a single human-readable error line.
func (p *Pipeline) Message() string {
	if p.err == nil || strings.TrimSpace(p.err.Error()) == "" {
		return DefaultErrorMessage
	}
	return p.err.Error()
}

// Display returns the text to render, marker stripped.
func (p *Pipeline) Display() string { return p.display }

// Reset returns the pipeline to Idle, dropping any text.
func (p *Pipeline) Reset() {
	*p = Pipeline{}
}

// Run consumes stream to completion, calling render after every chunk.
// The pipeline must already be started. Cancelling ctx fails the
// pipeline with ctx's error.
func (p *Pipeline) Run(ctx context.Context, stream iter.Seq2[string, error], render func(display string)) (Outcome, error) {
	if p.state != Loading {
		return Outcome{}, ErrNotAccepting
	}
	for chunk, err := range stream {
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			p.Fail(err)
			return Outcome{}, err
		}
		if err := p.Append(chunk); err != nil {
			return Outcome{}, err
		}
		if render != nil {
			render(p.display)
		}
	}
	return p.Finish()
}

func hasMarker(text string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(text, unicode.IsSpace), SuccessMarker)
}

// displayText strips a leading success marker. Leading whitespace and a
// partial marker are held back as "", so the display only ever grows.
func displayText(text string) string {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	if trimmed == "" || (len(trimmed) < len(SuccessMarker) && strings.HasPrefix(SuccessMarker, trimmed)) {
		return ""
	}
	if !strings.HasPrefix(trimmed, SuccessMarker) {
		return text
	}
	return strings.TrimLeftFunc(trimmed[len(SuccessMarker):], unicode.IsSpace)
}
