// Package mcp exposes the catalog as Model Context Protocol tools over stdio or HTTP.
package mcp

import (
	"github.com/lukman83/vitrine/internal/catalog"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "vitrine"
	serverVersion = "1.0.0"
)

// NewServer creates the MCP server with all tools registered.
func NewServer(svc *catalog.Service, opts Options) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	registerTools(s, svc, opts)
	return s
}

// Serve starts the MCP stdio server.
func Serve(svc *catalog.Service, opts Options) error {
	return server.ServeStdio(NewServer(svc, opts))
}
