// Package mcp exposes the assistant's tools to MCP clients.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/safartravel/safar/plugin/llm"
	"github.com/safartravel/safar/server/agent"
)

const serverName = "safar-travel"

// NewServer registers every tool of registry on a new MCP server. Calls go
// through registry.Dispatch, so unknown arguments and tool-level errors are
// reported the same way as in chat.
func NewServer(registry *agent.Registry, version string, logger *slog.Logger) (*server.MCPServer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := server.NewMCPServer(serverName, version, server.WithToolCapabilities(false))
	for _, def := range registry.Definitions() {
		schema, err := json.Marshal(def.Parameters)
		if err != nil {
			return nil, fmt.Errorf("marshal schema for %s: %w", def.Name, err)
		}
		tool := mcp.NewToolWithRawSchema(def.Name, def.Description, schema)
		s.AddTool(tool, dispatchHandler(registry, def.Name, logger))
	}
	return s, nil
}

func dispatchHandler(registry *agent.Registry, name string, logger *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := request.GetArguments()
		if raw == nil {
			raw = map[string]any{}
		}
		args, err := json.Marshal(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error decoding JSON arguments for %s", name)), nil
		}
		result, err := registry.Dispatch(ctx, llm.ToolCall{ID: "mcp", Name: name, Arguments: string(args)})
		if err != nil {
			logger.Error("mcp tool call failed", "tool", name, "err", err)
			return mcp.NewToolResultError(fmt.Sprintf("%s failed", name)), nil
		}
		return mcp.NewToolResultText(result.JSON()), nil
	}
}

// ServeStdio serves s over in/out until ctx is done or in is closed.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s).Listen(ctx, in, out)
}
