package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/codetutor/codetutor/internal/store"
)

func TestMockStream_Chunks(t *testing.T) {
	mock := NewMockProvider(MockResponse{Chunks: []string{"### ", "Summary", "\nok"}, Usage: Usage{OutputTokens: 3}})

	var texts []string
	var usage *Usage
	for c, err := range mock.Stream(context.Background(), Request{}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Text != "" {
			texts = append(texts, c.Text)
		}
		if c.Usage != nil {
			usage = c.Usage
		}
	}
	if strings.Join(texts, "|") != "### |Summary|\nok" {
		t.Errorf("texts = %q", texts)
	}
	if usage == nil || usage.OutputTokens != 3 {
		t.Errorf("usage = %+v", usage)
	}
}

func TestMockStream_ErrorAfterChunks(t *testing.T) {
	boom := errors.New("boom")
	mock := NewMockProvider(MockResponse{Chunks: []string{"a", "b"}, Err: boom})

	text, err := Collect(mock.Stream(context.Background(), Request{}))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if text != "ab" {
		t.Errorf("partial text = %q", text)
	}
}

func TestTexts_DropsUsageChunks(t *testing.T) {
	mock := NewMockProvider(MockResponse{Chunks: []string{"x", "y"}})
	var got []string
	for s, err := range Texts(mock.Stream(context.Background(), Request{})) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, s)
	}
	if len(got) != 2 {
		t.Errorf("got %q, want two text chunks", got)
	}
}

func TestRetryStream_RetriesBeforeFirstChunk(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Chunks: []string{"hello"}},
	)
	p := WithRetry(mock, retryConfig())

	text, err := Collect(p.Stream(context.Background(), Request{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello" || mock.CallCount() != 2 {
		t.Errorf("text=%q calls=%d", text, mock.CallCount())
	}
}

func TestRetryStream_InterruptedNotRetried(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Chunks: []string{"partial"}, Err: &ErrProviderUnavailable{Err: errors.New("reset")}},
		MockResponse{Chunks: []string{"never"}},
	)
	p := WithRetry(mock, retryConfig())

	text, err := Collect(p.Stream(context.Background(), Request{}))
	var interrupted *ErrStreamInterrupted
	if !errors.As(err, &interrupted) {
		t.Fatalf("expected ErrStreamInterrupted, got %T: %v", err, err)
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Error("interrupted error should wrap the cause")
	}
	if text != "partial" || mock.CallCount() != 1 {
		t.Errorf("text=%q calls=%d", text, mock.CallCount())
	}
}

func TestRetryStream_GivesUp(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{}},
		MockResponse{Err: &ErrRateLimit{}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	_, err := Collect(WithRetry(mock, retryConfig()).Stream(context.Background(), Request{}))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) || mock.CallCount() != 3 {
		t.Fatalf("err=%v calls=%d", err, mock.CallCount())
	}
}

func TestRetryStream_ConsumerStopsEarly(t *testing.T) {
	mock := NewMockProvider(MockResponse{Chunks: []string{"a", "b", "c"}})
	n := 0
	for range WithRetry(mock, retryConfig()).Stream(context.Background(), Request{}) {
		n++
		break
	}
	if n != 1 || mock.CallCount() != 1 {
		t.Errorf("n=%d calls=%d", n, mock.CallCount())
	}
}

type fakeEventRepo struct {
	store.EventRepo
	mu     sync.Mutex
	events []store.LLMRequestEventData
}

func (f *fakeEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, data)
	return nil
}

func TestLoggingStream_RecordsOneEvent(t *testing.T) {
	repo := &fakeEventRepo{}
	mock := NewMockProvider(MockResponse{Chunks: []string{"foo", "bar"}, Usage: Usage{InputTokens: 9, OutputTokens: 2}})
	p := WithLogging(mock, repo, nil)

	ctx := WithPurpose(context.Background(), PurposeAnalyze)
	if _, err := Collect(p.Stream(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "code"}}})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("events = %d, want 1", len(repo.events))
	}
	e := repo.events[0]
	if e.Purpose != PurposeAnalyze || !e.Success || e.ResponseBody != "foobar" {
		t.Errorf("event = %+v", e)
	}
	if e.InputTokens != 9 || e.OutputTokens != 2 {
		t.Errorf("tokens = %d/%d", e.InputTokens, e.OutputTokens)
	}
	if !strings.Contains(e.RequestBody, "[system]\nsys") || !strings.Contains(e.RequestBody, "[user]\ncode") {
		t.Errorf("request body = %q", e.RequestBody)
	}
}

func TestLoggingStream_RecordsFailure(t *testing.T) {
	repo := &fakeEventRepo{}
	mock := NewMockProvider(MockResponse{Err: errors.New("nope")})

	_, err := Collect(WithLogging(mock, repo, nil).Stream(context.Background(), Request{}))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(repo.events) != 1 || repo.events[0].Success || repo.events[0].ErrorMessage != "nope" {
		t.Errorf("events = %+v", repo.events)
	}
}

func TestLoggingGenerate_Records(t *testing.T) {
	repo := &fakeEventRepo{}
	mock := NewMockProvider(MockResponse{Content: []byte(`{"output":"1","isSuccess":true}`), Usage: Usage{InputTokens: 4}})

	ctx := WithPurpose(context.Background(), PurposePredict)
	if _, err := WithLogging(mock, repo, nil).Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.events) != 1 || repo.events[0].Purpose != PurposePredict || repo.events[0].InputTokens != 4 {
		t.Errorf("events = %+v", repo.events)
	}
}

func sse(w http.ResponseWriter, frames ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	for _, f := range frames {
		fmt.Fprint(w, f)
	}
	if fl, ok := w.(http.Flusher); ok {
		fl.Flush()
	}
}

func TestOpenAIProvider_Stream(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		sse(w,
			`data: {"id":"c1","object":"chat.completion.chunk","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"delta":{"role":"assistant","content":"Hel"}}]}`+"\n\n",
			`data: {"id":"c1","object":"chat.completion.chunk","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"delta":{"content":"lo"},"finish_reason":"stop"}]}`+"\n\n",
			`data: {"id":"c1","object":"chat.completion.chunk","created":1,"model":"gpt-4o-mini","choices":[],"usage":{"prompt_tokens":11,"completion_tokens":2,"total_tokens":13}}`+"\n\n",
			"data: [DONE]\n\n",
		)
	})

	var text strings.Builder
	var usage *Usage
	for c, err := range p.Stream(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text.WriteString(c.Text)
		if c.Usage != nil {
			usage = c.Usage
		}
	}
	if text.String() != "Hello" {
		t.Errorf("text = %q", text.String())
	}
	if usage == nil || usage.InputTokens != 11 || usage.OutputTokens != 2 {
		t.Errorf("usage = %+v", usage)
	}
}

func TestOpenAIProvider_StreamRateLimit(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"slow down","type":"rate_limit_error"}}`)
	})

	_, err := Collect(p.Stream(context.Background(), Request{}))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T: %v", err, err)
	}
}

func TestAnthropicProvider_Stream(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		sse(w,
			"event: message_start\n"+`data: {"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-haiku-4-5-20251001","stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":12,"output_tokens":1}}}`+"\n\n",
			"event: content_block_start\n"+`data: {"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`+"\n\n",
			"event: content_block_delta\n"+`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Looks "}}`+"\n\n",
			"event: content_block_delta\n"+`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"good"}}`+"\n\n",
			"event: content_block_stop\n"+`data: {"type":"content_block_stop","index":0}`+"\n\n",
			"event: message_delta\n"+`data: {"type":"message_delta","delta":{"stop_reason":"end_turn","stop_sequence":null},"usage":{"output_tokens":7}}`+"\n\n",
			"event: message_stop\n"+`data: {"type":"message_stop"}`+"\n\n",
		)
	})

	var text strings.Builder
	var usage *Usage
	for c, err := range p.Stream(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text.WriteString(c.Text)
		if c.Usage != nil {
			usage = c.Usage
		}
	}
	if text.String() != "Looks good" {
		t.Errorf("text = %q", text.String())
	}
	if usage == nil || usage.OutputTokens != 7 {
		t.Errorf("usage = %+v", usage)
	}
}
