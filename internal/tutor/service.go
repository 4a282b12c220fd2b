// Package tutor turns learner code into AI requests: streamed analysis and
// refactoring, predicted program output, and the in-app assistant chat.
package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"github.com/google/uuid"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/feedback"
	"github.com/codetutor/codetutor/internal/lang"
	"github.com/codetutor/codetutor/internal/llm"
)

// AnalyzeInput is everything an analysis request needs.
type AnalyzeInput struct {
	Code       string
	Language   lang.Language
	Difficulty lang.Difficulty
	Task       *curriculum.Task
	Mode       feedback.Mode
}

// Service issues tutor requests against an LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config
	limiter  *Limiter
}

// NewService creates a tutor service. limiter may be nil.
func NewService(provider llm.Provider, cfg Config, limiter *Limiter) *Service {
	return &Service{provider: provider, cfg: cfg, limiter: limiter}
}

// Remaining reports today's remaining request budget, or -1 when unlimited.
func (s *Service) Remaining(ctx context.Context) int {
	return s.limiter.Remaining(ctx)
}

// Analyze streams feedback for the input. Text arrives as the model
// produces it; a failure is yielded once as the final element.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := s.limiter.Take(ctx); err != nil {
			yield("", err)
			return
		}

		system := buildAnalyzeSystemPrompt(in.Language, in.Difficulty, in.Task)
		purpose := llm.PurposeAnalyze
		if in.Mode == feedback.ModeRefactor {
			system = buildRefactorSystemPrompt(in.Language, in.Difficulty, in.Task)
			purpose = llm.PurposeRefactor
		}

		req := llm.Request{
			System: system,
			Messages: []llm.Message{
				{Role: llm.RoleUser, Content: buildCodeUserMessage(in.Code, in.Language)},
			},
			MaxTokens:   s.cfg.AnalyzeMaxTokens,
			Temperature: s.cfg.Temperature,
		}

		for text, err := range llm.Texts(s.provider.Stream(llm.WithPurpose(ctx, purpose), req)) {
			if err != nil {
				yield("", fmt.Errorf("analysis stream: %w", err))
				return
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// Predictable reports whether Predict can handle l.
func Predictable(l lang.Language) bool {
	return l == lang.Python || l == lang.JavaScript
}

// NoOutputMessage is shown for a clean run that prints nothing.
const NoOutputMessage = "Code executed successfully with no output."

// Execution is a predicted program run. Exactly one of Output and Error
// is meaningful.
type Execution struct {
	Output     string
	Error      string
	TaskSolved bool
}

// Failed reports whether the run produced an error.
func (e Execution) Failed() bool { return e.Error != "" }

type predictionOutput struct {
	Output    string `json:"output"`
	Error     string `json:"error"`
	IsSuccess bool   `json:"isSuccess"`
}

// Predict asks the model what the program would print. Unsupported
// languages and model-reported failures come back as an Execution with
// Error set; the error return is reserved for request failures.
func (s *Service) Predict(ctx context.Context, code string, l lang.Language, task *curriculum.Task) (Execution, error) {
	if !Predictable(l) {
		return Execution{Error: fmt.Sprintf("Execution for %s is not supported.", l)}, nil
	}
	if err := s.limiter.Take(ctx); err != nil {
		return Execution{}, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposePredict)
	req := llm.Request{
		System: predictSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPredictUserMessage(code, l, task)},
		},
		Schema:    PredictionSchema,
		MaxTokens: s.cfg.PredictMaxTokens,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return Execution{}, fmt.Errorf("predict output: %w", err)
	}

	var out predictionOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Execution{}, fmt.Errorf("parse prediction: %w", err)
	}
	return interpret(out, task != nil), nil
}

func interpret(out predictionOutput, withTask bool) Execution {
	ex := Execution{TaskSolved: withTask && out.IsSuccess}
	switch {
	case strings.TrimSpace(out.Error) != "":
		ex.Error = strings.TrimSpace(out.Error)
	case isErrorText(out.Output):
		ex.Error = out.Output
	case out.Output == "":
		ex.Output = NoOutputMessage
	default:
		ex.Output = out.Output
	}
	if ex.Failed() {
		ex.TaskSolved = false
	}
	return ex
}

func isErrorText(s string) bool {
	return strings.Contains(strings.ToLower(s), "error") || strings.Contains(s, "cannot be run")
}

// UnexpectedErrorMessage formats a failed prediction request for display.
func UnexpectedErrorMessage(err error) string {
	return fmt.Sprintf("An unexpected error occurred while analyzing the code: %v", err)
}

// Chat greeting and fallback reply.
const (
	Greeting       = "Hi! I'm Liki, the AI Assistant. Ask me anything about this app!"
	FailureMessage = "Sorry, I'm having trouble connecting. Please try again later."
)

// ChatMessage is one transcript entry.
type ChatMessage struct {
	ID      string   `json:"id"`
	Role    llm.Role `json:"role"`
	Content string   `json:"content"`
}

// NewChatMessage creates a transcript entry with a fresh id.
func NewChatMessage(role llm.Role, content string) ChatMessage {
	return ChatMessage{ID: uuid.NewString(), Role: role, Content: content}
}

// GreetingMessage is the assistant's opening line.
func GreetingMessage() ChatMessage {
	return NewChatMessage(llm.RoleAssistant, Greeting)
}

// Chat streams the assistant's reply to the transcript. Leading assistant
// turns (the greeting) are not sent.
func (s *Service) Chat(ctx context.Context, history []ChatMessage) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		msgs := make([]llm.Message, 0, len(history))
		for _, m := range history {
			if len(msgs) == 0 && m.Role != llm.RoleUser {
				continue
			}
			if strings.TrimSpace(m.Content) == "" {
				continue
			}
			msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
		}
		if len(msgs) == 0 {
			yield("", fmt.Errorf("chat: no user message"))
			return
		}

		req := llm.Request{
			System:      ChatSystemPrompt,
			Messages:    msgs,
			MaxTokens:   s.cfg.ChatMaxTokens,
			Temperature: s.cfg.Temperature,
		}
		for text, err := range llm.Texts(s.provider.Stream(llm.WithPurpose(ctx, llm.PurposeChat), req)) {
			if err != nil {
				yield("", fmt.Errorf("chat stream: %w", err))
				return
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}
