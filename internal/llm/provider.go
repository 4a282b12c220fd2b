package llm

import (
	"context"
	"encoding/json"
	"iter"
	"strings"
)

// Provider is the core abstraction for LLM interaction.
type Provider interface {
	// Generate sends a prompt to the LLM and returns the whole response.
	// The request's Schema field, when set, instructs the provider to return
	// JSON conforming to that schema. The response Content will be the
	// validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Stream sends a prompt and yields text as it arrives. Schema is
	// ignored. A failed stream yields one final error and stops.
	Stream(ctx context.Context, req Request) iter.Seq2[Chunk, error]

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history. Single-shot tutor calls carry
	// one user message; chat carries the whole transcript.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When set, the provider uses its native structured output mechanism.
	// When nil, the response Content is raw text.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (deterministic) when not set.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema (used as the schema name for OpenAI).
	// Kebab-case, e.g. "execution-prediction".
	Name string

	// Description is a human-readable description of what this schema
	// represents. Sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output. With a Schema it is the validated
	// JSON object; without one it is the raw text.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Text returns Content as a plain string.
func (r *Response) Text() string {
	return string(r.Content)
}

// Chunk is one piece of a streamed response. Providers may send a last
// chunk with empty Text that only carries Usage.
type Chunk struct {
	Text  string
	Usage *Usage
	Model string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Texts adapts a chunk stream to a plain text stream, dropping
// usage-only chunks.
func Texts(chunks iter.Seq2[Chunk, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for c, err := range chunks {
			if err != nil {
				yield("", err)
				return
			}
			if c.Text == "" {
				continue
			}
			if !yield(c.Text, nil) {
				return
			}
		}
	}
}

// Collect drains a stream into a single string.
func Collect(chunks iter.Seq2[Chunk, error]) (string, error) {
	var b strings.Builder
	for c, err := range chunks {
		if err != nil {
			return b.String(), err
		}
		b.WriteString(c.Text)
	}
	return b.String(), nil
}
