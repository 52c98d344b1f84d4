package agent

import "github.com/safartravel/safar/plugin/llm"

// History is the ordered conversation of one session. The first entry is
// always the system message and is never removed. History is not safe for
// concurrent use; Agent serializes access to it.
type History struct {
	messages []llm.Message
}

func NewHistory(systemPrompt string) *History {
	return &History{messages: []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}}
}

func (h *History) AppendUser(content string) {
	h.messages = append(h.messages, llm.Message{Role: llm.RoleUser, Content: content})
}

func (h *History) AppendAssistant(content string) {
	h.messages = append(h.messages, llm.Message{Role: llm.RoleAssistant, Content: content})
}

// AppendToolCalls records the assistant turn that requested calls. Call ids
// are kept so each tool result can be matched to its request.
func (h *History) AppendToolCalls(calls []llm.ToolCall) {
	cp := make([]llm.ToolCall, len(calls))
	copy(cp, calls)
	h.messages = append(h.messages, llm.Message{Role: llm.RoleAssistant, ToolCalls: cp})
}

func (h *History) AppendToolResult(callID, name, content string) {
	h.messages = append(h.messages, llm.Message{
		Role:       llm.RoleTool,
		ToolCallID: callID,
		Name:       name,
		Content:    content,
	})
}

// RollbackLast removes the most recent entry, leaving the system message.
func (h *History) RollbackLast() {
	if len(h.messages) > 1 {
		h.messages = h.messages[:len(h.messages)-1]
	}
}

// RollbackTo truncates history to mark entries, as returned by Len.
func (h *History) RollbackTo(mark int) {
	mark = max(mark, 1)
	if mark < len(h.messages) {
		clear(h.messages[mark:])
		h.messages = h.messages[:mark]
	}
}

func (h *History) Len() int {
	return len(h.messages)
}

// Messages returns a copy of the conversation.
func (h *History) Messages() []llm.Message {
	return llm.CloneMessages(h.messages)
}
