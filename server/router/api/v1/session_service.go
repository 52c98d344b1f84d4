package v1

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/yuin/goldmark"

	"github.com/safartravel/safar/plugin/llm"
	"github.com/safartravel/safar/server/agent"
	"github.com/safartravel/safar/server/prompt"
)

type chatRequest struct {
	Content string `json:"content"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	// HTML is Reply rendered from Markdown.
	HTML string `json:"html"`
}

type sessionResponse struct {
	UID       string `json:"uid"`
	Welcome   string `json:"welcome"`
	CreatedTs int64  `json:"createdTs"`
}

type messageResponse struct {
	Role       string         `json:"role"`
	Content    string         `json:"content,omitempty"`
	ToolName   string         `json:"toolName,omitempty"`
	ToolCallID string         `json:"toolCallId,omitempty"`
	ToolCalls  []llm.ToolCall `json:"toolCalls,omitempty"`
}

func (s *APIV1Service) registerSessionRoutes(g *echo.Group) {
	g.POST("/sessions", s.createSession)
	g.DELETE("/sessions/:uid", s.deleteSession)
	g.GET("/sessions/:uid/messages", s.listSessionMessages)
	g.POST("/sessions/:uid/chat", s.handleChat)
}

func (s *APIV1Service) createSession(c *echo.Context) error {
	sess := s.Sessions.Create(owner(c))
	return c.JSON(http.StatusCreated, sessionResponse{
		UID:       sess.UID,
		Welcome:   prompt.Welcome(s.AppName),
		CreatedTs: sess.CreatedAt.Unix(),
	})
}

func (s *APIV1Service) deleteSession(c *echo.Context) error {
	if err := s.Sessions.Delete(c.Param("uid"), owner(c)); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *APIV1Service) listSessionMessages(c *echo.Context) error {
	sess, err := s.Sessions.Get(c.Param("uid"), owner(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	msgs := sess.Agent.Messages()
	resp := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == llm.RoleSystem {
			continue
		}
		resp = append(resp, messageResponse{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolName:   m.Name,
			ToolCallID: m.ToolCallID,
			ToolCalls:  m.ToolCalls,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) handleChat(c *echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content required")
	}
	sess, err := s.Sessions.Get(c.Param("uid"), owner(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	reply, err := sess.Agent.Process(c.Request().Context(), req.Content)
	if err != nil {
		// The turn was rolled back; the conversation can continue.
		s.Logger.Error("chat turn failed", "session", sess.UID, "err", err, "tool_failure", errors.Is(err, agent.ErrToolFailed))
		reply = agent.FailureReply
	}
	return c.JSON(http.StatusOK, chatResponse{Reply: reply, HTML: renderMarkdown(reply)})
}

func renderMarkdown(text string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return ""
	}
	return buf.String()
}
