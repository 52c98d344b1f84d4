// Package llmtest provides deterministic completion models for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/safartravel/safar/plugin/llm"
)

// Response configures one completion in a scripted sequence.
type Response struct {
	Message llm.Message
	Err     error
}

// ScriptedModel replays responses in order and records every request.
type ScriptedModel struct {
	mu        sync.Mutex
	index     int
	responses []Response
	requests  []llm.Request
}

var _ llm.Model = (*ScriptedModel)(nil)

func NewScriptedModel(responses ...Response) *ScriptedModel {
	cloned := make([]Response, len(responses))
	copy(cloned, responses)
	return &ScriptedModel{responses: cloned}
}

func (m *ScriptedModel) Generate(_ context.Context, request llm.Request) (llm.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	request.Messages = llm.CloneMessages(request.Messages)
	m.requests = append(m.requests, request)

	if m.index >= len(m.responses) {
		return llm.Message{}, fmt.Errorf("script exhausted at step %d", m.index+1)
	}
	current := m.responses[m.index]
	m.index++
	if current.Err != nil {
		return llm.Message{}, current.Err
	}
	msg := llm.CloneMessage(current.Message)
	if msg.Role == "" {
		msg.Role = llm.RoleAssistant
	}
	return msg, nil
}

// Requests returns the requests received so far.
func (m *ScriptedModel) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Text is a final-answer response.
func Text(content string) Response {
	return Response{Message: llm.Message{Role: llm.RoleAssistant, Content: content}}
}

// Calls is a response requesting the given tool calls.
func Calls(calls ...llm.ToolCall) Response {
	return Response{Message: llm.Message{Role: llm.RoleAssistant, ToolCalls: calls}}
}

// Fail is a response that reports a service failure.
func Fail(err error) Response {
	return Response{Err: err}
}
