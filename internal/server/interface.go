// Package server exposes the editing pipeline as MCP tools over stdio.
// The advertised tool list follows the capability gate: read-only tools
// are always present, draft and media tools only when their target is
// enabled, and smart_cut whenever any mutation is allowed. Handlers
// stay thin; the pipeline re-checks the gate before touching anything,
// so a client that somehow calls an unregistered tool still gets a
// permission error instead of an edit.
package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

type Server interface {
	// Serve runs the stdio transport until ctx is canceled or stdin
	// closes. stdout carries only protocol traffic; logs go to stderr.
	Serve(ctx context.Context) error

	// Tools lists the registered tools in registration order.
	Tools() []mcp.Tool
}
