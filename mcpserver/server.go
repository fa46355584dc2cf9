// Package mcpserver exposes the completion engine as Model Context
// Protocol tools over stdio:
//   - java_complete: ranked completion proposals at an offset
//   - java_select: the declarations a name at an offset resolves to
//   - java_completion_context: how the engine reads a position
//
// Every tool takes the path of a Java file and a byte offset. An optional
// source argument replaces the file's contents on disk, so that unsaved
// text can be completed.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/sai-complete/java/codebase"
)

const (
	ServerName    = "sai"
	ServerVersion = "0.1.0"
)

var log = commonlog.GetLogger("sai.mcp")

// Server wraps the MCP server with the codebase it answers for.
type Server struct {
	mcp      *server.MCPServer
	codebase *codebase.Codebase
}

func NewServer(c *codebase.Codebase) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		codebase: c,
	}
	s.registerTools()
	return s
}

// Serve answers requests on stdio until the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	log.Infof("serving %s on stdio", s.codebase.RootDir())
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(completeTool(), s.handleComplete)
	s.mcp.AddTool(selectTool(), s.handleSelect)
	s.mcp.AddTool(contextTool(), s.handleContext)
}
