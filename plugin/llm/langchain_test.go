package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type stubLLM struct {
	messages []llms.MessageContent
	options  llms.CallOptions
	resp     *llms.ContentResponse
	err      error
}

func (s *stubLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	s.messages = messages
	for _, opt := range options {
		opt(&s.options)
	}
	return s.resp, s.err
}

func (s *stubLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, s, prompt, options...)
}

func TestLangchainModel_ConvertsHistoryAndTools(t *testing.T) {
	t.Parallel()

	stub := &stubLLM{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		ToolCalls: []llms.ToolCall{{
			ID:           "call_2",
			Type:         "function",
			FunctionCall: &llms.FunctionCall{Name: "cancel_ticket", Arguments: `{"ticket_id":"SF-TESH-ABC123"}`},
		}},
	}}}}
	model := NewLangchainModel(stub)

	got, err := model.Generate(context.Background(), Request{
		Messages: []Message{
			{Role: RoleSystem, Content: "system"},
			{Role: RoleUser, Content: "cancel my ticket"},
			{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "call_1", Name: "get_ticket_info", Arguments: `{}`}}},
			{Role: RoleTool, ToolCallID: "call_1", Name: "get_ticket_info", Content: `{"status":"success"}`},
		},
		Tools:      []ToolDefinition{{Name: "cancel_ticket", Description: "Cancel", Parameters: map[string]any{"type": "object"}}},
		ToolChoice: ToolChoiceAuto,
	})
	require.NoError(t, err)

	assert.Equal(t, Message{
		Role:      RoleAssistant,
		ToolCalls: []ToolCall{{ID: "call_2", Name: "cancel_ticket", Arguments: `{"ticket_id":"SF-TESH-ABC123"}`}},
	}, got)

	require.Len(t, stub.messages, 4)
	assert.Equal(t, llms.ChatMessageTypeSystem, stub.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, stub.messages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, stub.messages[2].Role)
	require.Len(t, stub.messages[2].Parts, 1)
	call, ok := stub.messages[2].Parts[0].(llms.ToolCall)
	require.True(t, ok)
	assert.Equal(t, "call_1", call.ID)
	assert.Equal(t, "get_ticket_info", call.FunctionCall.Name)
	assert.Equal(t, llms.ChatMessageTypeTool, stub.messages[3].Role)
	resp, ok := stub.messages[3].Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "call_1", resp.ToolCallID)
	assert.Equal(t, "get_ticket_info", resp.Name)

	require.Len(t, stub.options.Tools, 1)
	assert.Equal(t, "cancel_ticket", stub.options.Tools[0].Function.Name)
	assert.Equal(t, "auto", stub.options.ToolChoice)
	assert.False(t, stub.options.JSONMode)
}

func TestLangchainModel_JSONModeAndTemperature(t *testing.T) {
	t.Parallel()

	stub := &stubLLM{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: `{"status":"success"}`}}}}
	temperature := 0.7
	got, err := NewLangchainModel(stub).Generate(context.Background(), Request{
		Messages:    []Message{{Role: RoleUser, Content: "beach"}},
		JSONMode:    true,
		Temperature: &temperature,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"status":"success"}`, got.Content)
	assert.True(t, stub.options.JSONMode)
	assert.InDelta(t, 0.7, stub.options.Temperature, 1e-9)
	assert.Empty(t, stub.options.Tools)
}

func TestLangchainModel_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewLangchainModel(&stubLLM{err: errors.New("401 unauthorized")}).
		Generate(context.Background(), Request{})
	require.ErrorContains(t, err, "401 unauthorized")

	got, err := NewLangchainModel(&stubLLM{resp: &llms.ContentResponse{}}).
		Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, Message{Role: RoleAssistant}, got)
}

func TestNewOpenAI_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewOpenAI(Config{Model: "gpt"})
	require.Error(t, err)
	_, err = NewOpenAI(Config{APIKey: "key"})
	require.Error(t, err)
}

func TestNewOpenAI_ToolCallRoundTrip(t *testing.T) {
	t.Parallel()

	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-5.2",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "get_ticket_info", "arguments": "{\"ticket_id\":\"SF-TESH-ABC123\"}"}
					}]
				}
			}],
			"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
		}`)
	}))
	defer srv.Close()

	model, err := NewOpenAI(Config{APIKey: "test-key", BaseURL: srv.URL + "/", Model: "gpt-5.2"})
	require.NoError(t, err)

	got, err := model.Generate(context.Background(), Request{
		Messages:   []Message{{Role: RoleUser, Content: "ticket SF-TESH-ABC123"}},
		Tools:      []ToolDefinition{{Name: "get_ticket_info", Description: "Info", Parameters: map[string]any{"type": "object"}}},
		ToolChoice: ToolChoiceAuto,
	})
	require.NoError(t, err)
	require.Len(t, got.ToolCalls, 1)
	assert.Equal(t, ToolCall{ID: "call_1", Name: "get_ticket_info", Arguments: `{"ticket_id":"SF-TESH-ABC123"}`}, got.ToolCalls[0])
	assert.Empty(t, got.Content)

	assert.Equal(t, "gpt-5.2", received["model"])
	tools, ok := received["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, tools, 1)
}

func TestNewOpenAI_ServiceFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	model, err := NewOpenAI(Config{APIKey: "bad", BaseURL: srv.URL, Model: "gpt-5.2"})
	require.NoError(t, err)
	_, err = model.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.Error(t, err)
}
