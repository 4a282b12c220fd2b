package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

// prediction is a well-formed execution prediction body.
var prediction = json.RawMessage(`{"output":"1","error":"","isSuccess":true}`)

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503 from upstream")}}
}

func invalid() MockResponse {
	return MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`{"output":`), Err: errors.New("truncated JSON")}}
}

func TestRetry_Generate(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   error // matched with errors.As when non-nil
		wantCalls int
	}{
		{
			name:      "first attempt succeeds",
			responses: []MockResponse{{Content: prediction}},
			wantCalls: 1,
		},
		{
			name:      "transient failure then success",
			responses: []MockResponse{unavailable(), {Content: prediction}},
			wantCalls: 2,
		},
		{
			name:      "rate limit honours retry-after",
			responses: []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}, {Content: prediction}},
			wantCalls: 2,
		},
		{
			name:      "gives up after max attempts",
			responses: []MockResponse{unavailable(), unavailable(), unavailable()},
			wantErr:   &ErrProviderUnavailable{},
			wantCalls: 3,
		},
		{
			name:      "max tokens is final",
			responses: []MockResponse{{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{"output":"1`)}}},
			wantErr:   &ErrMaxTokensExceeded{},
			wantCalls: 1,
		},
		{
			name:      "invalid response retried once",
			responses: []MockResponse{invalid(), invalid(), {Content: prediction}},
			wantErr:   &ErrInvalidResponse{},
			wantCalls: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, retryConfig())

			ctx := WithPurpose(context.Background(), PurposePredict)
			resp, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "print(1)"}}})
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(resp.Content) != string(prediction) {
					t.Errorf("content = %s", resp.Content)
				}
			case *ErrProviderUnavailable:
				if !errors.As(err, &want) {
					t.Errorf("err = %T, want %T", err, tt.wantErr)
				}
			case *ErrMaxTokensExceeded:
				if !errors.As(err, &want) {
					t.Errorf("err = %T, want %T", err, tt.wantErr)
				}
			case *ErrInvalidResponse:
				if !errors.As(err, &want) {
					t.Errorf("err = %T, want %T", err, tt.wantErr)
				}
			}
			if mock.CallCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_CancelledContextStopsWaiting(t *testing.T) {
	mock := NewMockProvider(unavailable(), unavailable(), MockResponse{Content: prediction})
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig())
	if p.ModelID() != "mock" {
		t.Fatalf("ModelID() = %q, want mock", p.ModelID())
	}
}
