package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/codetutor/codetutor/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner     Provider
	eventRepo store.EventRepo
	logger    *log.Logger
}

// WithLogging wraps a Provider with event logging. A nil logger writes
// warnings to stderr.
func WithLogging(p Provider, repo store.EventRepo, logger *log.Logger) Provider {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &LoggingProvider{inner: p, eventRepo: repo, logger: logger.WithPrefix("llm")}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	data := l.event(ctx, req, start, err)
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = resp.Text()
	}
	l.record(ctx, data)

	return resp, err
}

// Stream passes chunks through and records one event when the stream ends,
// including when the consumer stops early.
func (l *LoggingProvider) Stream(ctx context.Context, req Request) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		start := time.Now()
		var (
			body    strings.Builder
			usage   Usage
			model   string
			lastErr error
		)

		defer func() {
			data := l.event(ctx, req, start, lastErr)
			data.ResponseBody = body.String()
			data.InputTokens = usage.InputTokens
			data.OutputTokens = usage.OutputTokens
			if model != "" {
				data.Model = model
			}
			l.record(ctx, data)
		}()

		for c, err := range l.inner.Stream(ctx, req) {
			if err != nil {
				lastErr = err
				yield(Chunk{}, err)
				return
			}
			body.WriteString(c.Text)
			if c.Usage != nil {
				usage = *c.Usage
			}
			if c.Model != "" {
				model = c.Model
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) event(ctx context.Context, req Request, start time.Time, err error) store.LLMRequestEventData {
	data := store.LLMRequestEventData{
		Provider:    l.inner.ModelID(),
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	return data
}

// record stores the event without failing the request. The write uses a
// fresh context so a cancelled request is still logged.
func (l *LoggingProvider) record(ctx context.Context, data store.LLMRequestEventData) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := l.eventRepo.AppendLLMRequest(ctx, data); err != nil {
		l.logger.Warn("failed to log LLM request event", "purpose", data.Purpose, "err", err)
	}
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
