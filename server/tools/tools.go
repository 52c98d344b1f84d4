// Package tools holds the backend tools the booking assistant can call.
// Every tool satisfies langchaingo's tools.Tool so it can be driven with a
// raw JSON argument string, and additionally exposes its JSON schema and a
// structured Invoke used by the agent registry and the MCP surface.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/tools"

	"github.com/safartravel/safar/plugin/llm"
	"github.com/safartravel/safar/store"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusInfo    Status = "info"
)

// ErrNotObject is returned by DecodeArgs when the argument text is valid
// JSON but not an object, or not JSON at all.
var ErrNotObject = errors.New("arguments must be a JSON object")

// Result is the structured outcome of a tool call. It is serialized to JSON
// and handed back to the model as the tool message content.
type Result struct {
	Status           Status        `json:"status"`
	Message          string        `json:"message,omitempty"`
	Details          *store.Ticket `json:"details,omitempty"`
	Data             any           `json:"data,omitempty"`
	TicketID         string        `json:"ticket_id,omitempty"`
	RefundAmountIRR  *int64        `json:"refund_amount_irr,omitempty"`
	PenaltyAmountIRR *int64        `json:"penalty_amount_irr,omitempty"`
	RelevantPolicy   string        `json:"relevant_policy,omitempty"`
}

func Errorf(format string, a ...any) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf(format, a...)}
}

func Info(message string) Result {
	return Result{Status: StatusInfo, Message: message}
}

// JSON renders the result the way it is stored in the conversation history.
// Non-ASCII text is kept as-is so Persian content stays readable to the model.
func (r Result) JSON() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Sprintf(`{"status":"error","message":%q}`, err.Error())
	}
	return strings.TrimRight(buf.String(), "\n")
}

// Args are the decoded arguments of one call.
type Args map[string]any

// DecodeArgs parses the argument text produced by the model. Empty text is
// an empty object.
func DecodeArgs(raw string) (Args, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Args{}, nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrNotObject)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return Args(obj), nil
}

// String returns the argument as trimmed text. Numbers and booleans are
// formatted, anything else reads as empty.
func (a Args) String(key string) string {
	switch v := a[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Tool is a callable backend capability.
type Tool interface {
	tools.Tool
	// Parameters is the JSON schema of the argument object.
	Parameters() map[string]any
	Invoke(ctx context.Context, args Args) (Result, error)
}

// Definition describes t to the completion service.
func Definition(t Tool) llm.ToolDefinition {
	return llm.ToolDefinition{Name: t.Name(), Description: t.Description(), Parameters: t.Parameters()}
}

// callJSON implements tools.Tool.Call on top of Invoke.
func callJSON(ctx context.Context, t Tool, input string) (string, error) {
	args, err := DecodeArgs(input)
	if err != nil {
		return Errorf("Error decoding JSON arguments for %s", t.Name()).JSON(), nil
	}
	result, err := t.Invoke(ctx, args)
	if err != nil {
		return "", err
	}
	return result.JSON(), nil
}

func buildParameters(properties map[string]any, required ...string) map[string]any {
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func stringProperty(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}
