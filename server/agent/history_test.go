package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safartravel/safar/plugin/llm"
)

func TestHistory(t *testing.T) {
	t.Parallel()

	h := NewHistory("system prompt")
	require.Equal(t, 1, h.Len())

	h.AppendUser("cancel SF-TESH-ABC123")
	h.AppendToolCalls([]llm.ToolCall{{ID: "call_1", Name: "cancel_ticket", Arguments: `{"ticket_id":"SF-TESH-ABC123"}`}})
	h.AppendToolResult("call_1", "cancel_ticket", `{"status":"success"}`)
	h.AppendAssistant("done")

	assert.Equal(t, []llm.Message{
		{Role: llm.RoleSystem, Content: "system prompt"},
		{Role: llm.RoleUser, Content: "cancel SF-TESH-ABC123"},
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "call_1", Name: "cancel_ticket", Arguments: `{"ticket_id":"SF-TESH-ABC123"}`}}},
		{Role: llm.RoleTool, ToolCallID: "call_1", Name: "cancel_ticket", Content: `{"status":"success"}`},
		{Role: llm.RoleAssistant, Content: "done"},
	}, h.Messages())

	h.RollbackLast()
	assert.Equal(t, 4, h.Len())
	h.RollbackTo(2)
	assert.Equal(t, 2, h.Len())
	h.RollbackTo(10)
	assert.Equal(t, 2, h.Len())
}

func TestHistory_SystemMessageSurvivesRollback(t *testing.T) {
	t.Parallel()

	h := NewHistory("system prompt")
	h.AppendUser("hi")
	h.RollbackTo(0)
	require.Equal(t, 1, h.Len())
	h.RollbackLast()
	require.Equal(t, 1, h.Len())
	assert.Equal(t, llm.RoleSystem, h.Messages()[0].Role)
}

func TestHistory_MessagesIsACopy(t *testing.T) {
	t.Parallel()

	h := NewHistory("system prompt")
	h.AppendToolCalls([]llm.ToolCall{{ID: "call_1", Name: "get_ticket_info"}})
	msgs := h.Messages()
	msgs[1].ToolCalls[0].ID = "changed"
	msgs[0].Content = "changed"

	again := h.Messages()
	assert.Equal(t, "call_1", again[1].ToolCalls[0].ID)
	assert.Equal(t, "system prompt", again[0].Content)
}
