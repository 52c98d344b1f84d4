package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/safartravel/safar/plugin/llm"
	"github.com/safartravel/safar/server/tools"
)

// Registry is the fixed, ordered set of tools offered to the model.
type Registry struct {
	tools  []tools.Tool
	byName map[string]tools.Tool
	defs   []llm.ToolDefinition
	logger *slog.Logger
}

// NewRegistry indexes ts by name. Names must be unique and non-empty.
func NewRegistry(logger *slog.Logger, ts ...tools.Tool) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{byName: make(map[string]tools.Tool, len(ts)), logger: logger}
	for _, t := range ts {
		if t == nil || t.Name() == "" {
			return nil, fmt.Errorf("tool name is empty")
		}
		if _, dup := r.byName[t.Name()]; dup {
			return nil, fmt.Errorf("tool %q registered twice", t.Name())
		}
		r.byName[t.Name()] = t
		r.tools = append(r.tools, t)
		r.defs = append(r.defs, tools.Definition(t))
	}
	return r, nil
}

func (r *Registry) Tools() []tools.Tool {
	out := make([]tools.Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Definitions returns the schemas in registration order.
func (r *Registry) Definitions() []llm.ToolDefinition {
	out := make([]llm.ToolDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

func (r *Registry) Lookup(name string) (tools.Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Dispatch runs one tool call. Unknown tools and undecodable arguments are
// reported as error results. A non-nil error means the tool itself failed.
func (r *Registry) Dispatch(ctx context.Context, call llm.ToolCall) (result tools.Result, err error) {
	r.logger.Info("[AGENT TOOL CALL]", "tool", call.Name, "id", call.ID, "input", call.Arguments)

	t, ok := r.byName[call.Name]
	if !ok {
		r.logger.Warn("[AGENT TOOL CALL] unknown tool", "tool", call.Name)
		return tools.Errorf("Unknown function: %s", call.Name), nil
	}
	args, err := tools.DecodeArgs(call.Arguments)
	if err != nil {
		r.logger.Warn("[AGENT TOOL CALL] bad arguments", "tool", call.Name, "err", err)
		return tools.Errorf("Error decoding JSON arguments for %s", call.Name), nil
	}

	defer func() {
		if p := recover(); p != nil {
			result, err = tools.Result{}, fmt.Errorf("tool %s panicked: %v", call.Name, p)
		}
	}()
	result, err = t.Invoke(ctx, args)
	if err != nil {
		return tools.Result{}, err
	}
	r.logger.Info("[AGENT TOOL RESULT]", "tool", call.Name, "status", result.Status, "message", result.Message)
	return result, nil
}
