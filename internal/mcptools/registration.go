// Package mcptools exposes the mdstat views as MCP tools.
package mcptools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Registration pairs an MCP tool definition with its handler function.
type Registration struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// RegisterAll adds every Registration in the provided slice to the given MCP
// server.
func RegisterAll(s *server.MCPServer, registrations []Registration) {
	for _, r := range registrations {
		s.AddTool(r.Tool, r.Handler)
	}
}

// NewServer builds an MCP server with the mdstat tools registered.
func NewServer(q ViewQuerier, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"mdstat-exporter",
		version,
		server.WithToolCapabilities(false),
	)
	RegisterAll(s, MDStatTools(q))
	return s
}

// JSONResult marshals v as indented JSON into a text tool result.
func JSONResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error marshaling result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// ErrorResult returns an mcp.CallToolResult that describes an error condition.
func ErrorResult(msg string) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf("error: %s", msg))
}
