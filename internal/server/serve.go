package server

import (
	"context"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Serve runs the MCP protocol on stdin/stdout until ctx is canceled or
// stdin reaches EOF. Nothing but protocol frames may be written to
// stdout; all logging in this process goes to stderr.
func (s *implServer) Serve(ctx context.Context) error {
	s.logger.Info(ctx, "SmartCut MCP server ready: %d tools, targets: %s", len(s.tools), s.gate)
	stdio := mcpserver.NewStdioServer(s.mcp)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}
