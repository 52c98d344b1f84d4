package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safartravel/safar/plugin/llm/llmtest"
	"github.com/safartravel/safar/server/agent"
	"github.com/safartravel/safar/server/booking"
	"github.com/safartravel/safar/server/tools"
	"github.com/safartravel/safar/store"
	"github.com/safartravel/safar/store/db/memory"
)

func newTestRegistry(t *testing.T) *agent.Registry {
	t.Helper()
	svc := booking.NewService(store.New(memory.NewDB()))
	registry, err := agent.NewRegistry(nil, tools.DefaultSet(tools.Dependencies{Booking: svc, Model: llmtest.NewScriptedModel()})...)
	require.NoError(t, err)
	return registry
}

func rpc(t *testing.T, handle func(context.Context, json.RawMessage) any, body string) map[string]any {
	t.Helper()
	resp := handle(context.Background(), json.RawMessage(body))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestServer_ListAndCallTools(t *testing.T) {
	t.Parallel()

	s, err := NewServer(newTestRegistry(t), "test", nil)
	require.NoError(t, err)
	handle := func(ctx context.Context, msg json.RawMessage) any { return s.HandleMessage(ctx, msg) }

	rpc(t, handle, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)

	list := rpc(t, handle, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	result := list["result"].(map[string]any)
	var names []string
	for _, tool := range result["tools"].([]any) {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{"book_ticket", "cancel_ticket", "get_ticket_info", "lookup_policy", "search_destinations"}, names)

	call := rpc(t, handle, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_ticket_info","arguments":{"ticket_id":"SF-NONE-000000"}}}`)
	content := call["result"].(map[string]any)["content"].([]any)
	require.Len(t, content, 1)
	text := content[0].(map[string]any)["text"].(string)
	assert.JSONEq(t, `{"status":"error","message":"Ticket ID 'SF-NONE-000000' not found. Please check the ID."}`, text)
}
