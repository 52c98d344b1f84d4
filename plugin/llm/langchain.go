package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// LangchainModel adapts a langchaingo model to Model.
type LangchainModel struct {
	llm llms.Model
}

var _ Model = (*LangchainModel)(nil)

func NewLangchainModel(model llms.Model) *LangchainModel {
	return &LangchainModel{llm: model}
}

func (m *LangchainModel) Generate(ctx context.Context, request Request) (Message, error) {
	var options []llms.CallOption
	if len(request.Tools) > 0 {
		options = append(options, llms.WithTools(toLangchainTools(request.Tools)))
		if request.ToolChoice != "" {
			options = append(options, llms.WithToolChoice(string(request.ToolChoice)))
		}
	}
	if request.JSONMode {
		options = append(options, llms.WithJSONMode())
	}
	if request.Temperature != nil {
		options = append(options, llms.WithTemperature(*request.Temperature))
	}

	resp, err := m.llm.GenerateContent(ctx, toMessageContents(request.Messages), options...)
	if err != nil {
		return Message{}, fmt.Errorf("generate content: %w", err)
	}
	// No choices is reported as an empty assistant message so callers can
	// treat it like any other degenerate reply.
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return Message{Role: RoleAssistant}, nil
	}

	choice := resp.Choices[0]
	msg := Message{Role: RoleAssistant, Content: choice.Content}
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		msg.ToolCalls = append(msg.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.FunctionCall.Name,
			Arguments: tc.FunctionCall.Arguments,
		})
	}
	return msg, nil
}

func toLangchainTools(defs []ToolDefinition) []llms.Tool {
	out := make([]llms.Tool, 0, len(defs))
	for _, def := range defs {
		out = append(out, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	return out
}

func toMessageContents(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, m.Content))
		case RoleUser:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))
		case RoleAssistant:
			mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if m.Content != "" {
				mc.Parts = append(mc.Parts, llms.TextContent{Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
			out = append(out, mc)
		case RoleTool:
			out = append(out, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: m.ToolCallID,
					Name:       m.Name,
					Content:    m.Content,
				}},
			})
		}
	}
	return out
}
