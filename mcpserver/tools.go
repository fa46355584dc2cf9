package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dhamidi/sai-complete/java/complete"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602
	ErrorCodeInternalError = -32603
	ErrorCodeFileNotFound  = -32001
)

// position is the file, text and offset a tool call refers to.
type position struct {
	path   string
	src    []byte
	offset int
	args   map[string]interface{}
}

func (s *Server) position(request mcp.CallToolRequest) (*position, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.codebase.RootDir(), path)
	}
	offset := getIntDefault(args, "offset", -1)
	if offset < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "offset parameter is required", map[string]interface{}{
			"param":  "offset",
			"reason": "missing or negative",
		})
	}

	var src []byte
	if text, ok := args["source"].(string); ok {
		src = []byte(text)
	} else {
		content, err := s.codebase.Content(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil, newMCPError(ErrorCodeFileNotFound, "file not found", map[string]interface{}{
				"path": path,
			})
		}
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "cannot read file", map[string]interface{}{
				"error": err.Error(),
			})
		}
		src = content
	}
	return &position{path: path, src: src, offset: offset, args: args}, nil
}

func (s *Server) handleComplete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pos, err := s.position(request)
	if err != nil {
		return nil, err
	}
	rc := s.codebase.ResolutionContext(pos.path)
	extended := getBoolDefault(pos.args, "extended", rc.Options.ExtendedContext)
	limit := getIntDefault(pos.args, "limit", 50)

	proposals, err := complete.CodeComplete(ctx, rc, pos.src, pos.offset)
	if err != nil {
		return nil, engineError(err)
	}
	log.Debugf("java_complete %s@%d: %d proposals", pos.path, pos.offset, len(proposals))
	if len(proposals) == 0 {
		return mcp.NewToolResultText("no proposals"), nil
	}
	if limit > 0 && len(proposals) > limit {
		proposals = proposals[:limit]
	}
	return mcp.NewToolResultText(complete.Format(proposals, extended)), nil
}

func (s *Server) handleSelect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pos, err := s.position(request)
	if err != nil {
		return nil, err
	}
	length := getIntDefault(pos.args, "length", 0)

	elements, err := complete.CodeSelect(ctx, s.codebase.ResolutionContext(pos.path), pos.src, pos.offset, length)
	if err != nil {
		return nil, engineError(err)
	}
	if len(elements) == 0 {
		return mcp.NewToolResultText("no declaration found"), nil
	}
	out := complete.FormatElements(elements)
	for _, e := range elements {
		if e.Path != "" && e.Offset >= 0 {
			out += fmt.Sprintf("\n%s declared at %s:%d", e.Name, e.Path, e.Offset)
		}
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pos, err := s.position(request)
	if err != nil {
		return nil, err
	}
	c, err := complete.Inspect(ctx, s.codebase.ResolutionContext(pos.path), pos.src, pos.offset)
	if err != nil {
		return nil, engineError(err)
	}
	return mcp.NewToolResultText(c.String()), nil
}

func engineError(err error) error {
	return newMCPError(ErrorCodeInternalError, "request failed", map[string]interface{}{
		"error":    err.Error(),
		"canceled": errors.Is(err, complete.ErrCanceled),
	})
}

// Helper functions

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError is returned to the client as a tool call error.
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}
