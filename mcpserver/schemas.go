package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func positionProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Path of the Java file, absolute or relative to the project root",
		},
		"offset": map[string]interface{}{
			"type":        "integer",
			"description": "Byte offset of the cursor in the file",
			"minimum":     0,
		},
		"source": map[string]interface{}{
			"type":        "string",
			"description": "Text to use instead of the file's contents on disk",
		},
	}
}

func completeTool() mcp.Tool {
	props := positionProperties()
	props["extended"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Include replacement ranges and required proposals",
		"default":     false,
	}
	props["limit"] = map[string]interface{}{
		"type":        "integer",
		"description": "Maximum number of proposals to return, 0 for all",
		"default":     50,
		"minimum":     0,
	}
	return mcp.Tool{
		Name:        "java_complete",
		Description: "Complete Java code at a position, returning proposals best first",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"path", "offset"},
		},
	}
}

func selectTool() mcp.Tool {
	props := positionProperties()
	props["length"] = map[string]interface{}{
		"type":        "integer",
		"description": "Length of the selection in bytes",
		"default":     0,
		"minimum":     0,
	}
	return mcp.Tool{
		Name:        "java_select",
		Description: "Resolve the Java name at a position to its declarations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"path", "offset"},
		},
	}
}

func contextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "java_completion_context",
		Description: "Describe the completion context at a position: token, replace range, kind and expected types",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: positionProperties(),
			Required:   []string{"path", "offset"},
		},
	}
}
