// Package agent runs the booking assistant's conversation loop: it sends the
// history to the completion service, executes requested tool calls and
// returns the final reply for one user turn.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/safartravel/safar/plugin/llm"
)

// DefaultMaxSteps caps completion calls per user turn.
const DefaultMaxSteps = 5

// Fixed replies returned instead of model output.
const (
	ServiceUnavailableReply = "متاسفانه در حال حاضر امکان برقراری ارتباط با سیستم وجود ندارد. لطفا کمی بعد دوباره تلاش کنید."
	ClarificationReply      = "متاسفانه نتوانستم درخواست شما را متوجه شوم. آیا میتوانید واضح تر توضیح دهید؟ (I could not understand your request. Can you explain more clearly?)"
	MaxStepsReply           = "Sorry, I reached the maximum number of internal steps. Could you please simplify your request?"

	// FailureReply is for front-ends when Process returns an error.
	FailureReply = "An unexpected error occurred while processing your request. Please try again."
)

// ErrToolFailed wraps a tool that failed outside its result contract. The
// turn is rolled back when it is returned.
var ErrToolFailed = errors.New("tool execution failed")

// Turn outcomes reported to the Observer.
const (
	OutcomeReply          = "reply"
	OutcomeServiceFailure = "service_failure"
	OutcomeClarification  = "clarification"
	OutcomeMaxSteps       = "max_steps"
	OutcomeToolFailure    = "tool_failure"
)

// Observer receives loop events, e.g. for metrics.
type Observer interface {
	CompletionDone(elapsed time.Duration, err error)
	ToolDone(tool string, status string)
	TurnDone(outcome string)
}

type noopObserver struct{}

func (noopObserver) CompletionDone(time.Duration, error) {}
func (noopObserver) ToolDone(string, string)             {}
func (noopObserver) TurnDone(string)                     {}

// Agent owns one conversation. Turns are serialized.
type Agent struct {
	mu       sync.Mutex
	model    llm.Model
	registry *Registry
	history  *History
	maxSteps int
	logger   *slog.Logger
	observer Observer
}

type Option func(*Agent)

// WithMaxSteps sets the per-turn completion budget. Values below 1 keep the default.
func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxSteps = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func WithObserver(o Observer) Option {
	return func(a *Agent) {
		if o != nil {
			a.observer = o
		}
	}
}

func New(model llm.Model, registry *Registry, systemPrompt string, opts ...Option) *Agent {
	a := &Agent{
		model:    model,
		registry: registry,
		history:  NewHistory(systemPrompt),
		maxSteps: DefaultMaxSteps,
		logger:   slog.Default(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Process runs one user turn and returns the reply to show. A non-nil error
// is only returned for ErrToolFailed; service failures, degenerate replies
// and budget exhaustion come back as fixed replies.
func (a *Agent) Process(ctx context.Context, input string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	mark := a.history.Len()
	a.history.AppendUser(input)
	defs := a.registry.Definitions()
	a.logger.Info("[AGENT PROMPT]", "input", input, "history", mark)

	for step := 1; step <= a.maxSteps; step++ {
		start := time.Now()
		msg, err := a.model.Generate(ctx, llm.Request{
			Messages:   a.history.Messages(),
			Tools:      defs,
			ToolChoice: llm.ToolChoiceAuto,
		})
		a.observer.CompletionDone(time.Since(start), err)
		if err != nil {
			a.logger.Error("completion failed", "step", step, "err", err)
			a.history.RollbackTo(mark)
			a.observer.TurnDone(OutcomeServiceFailure)
			return ServiceUnavailableReply, nil
		}

		// Whitespace-only text is treated as no answer.
		if strings.TrimSpace(msg.Content) != "" {
			a.history.AppendAssistant(msg.Content)
			a.logger.Info("[AGENT FINISH]", "step", step, "answer", msg.Content)
			a.observer.TurnDone(OutcomeReply)
			return msg.Content, nil
		}

		if len(msg.ToolCalls) == 0 {
			a.logger.Warn("completion had neither content nor tool calls", "step", step)
			a.history.RollbackTo(mark)
			a.observer.TurnDone(OutcomeClarification)
			return ClarificationReply, nil
		}

		a.history.AppendToolCalls(msg.ToolCalls)
		for _, call := range msg.ToolCalls {
			result, err := a.registry.Dispatch(ctx, call)
			if err != nil {
				a.logger.Error("tool failed", "tool", call.Name, "err", err)
				a.observer.ToolDone(call.Name, "failed")
				a.history.RollbackTo(mark)
				a.observer.TurnDone(OutcomeToolFailure)
				return "", fmt.Errorf("%w: %s: %w", ErrToolFailed, call.Name, err)
			}
			a.observer.ToolDone(call.Name, string(result.Status))
			a.history.AppendToolResult(call.ID, call.Name, result.JSON())
		}
	}

	a.logger.Warn("step budget exhausted", "max_steps", a.maxSteps)
	a.observer.TurnDone(OutcomeMaxSteps)
	return MaxStepsReply, nil
}

// Messages returns a copy of the conversation so far.
func (a *Agent) Messages() []llm.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.history.Messages()
}
