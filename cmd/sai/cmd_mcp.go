package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sai-complete/mcpserver"
)

func newMCPCmd() *cobra.Command {
	var flags workspaceFlags

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the Model Context Protocol server on stdio",
		Long: `Serve the java_complete, java_select and java_completion_context tools
over MCP on stdio for the project at --root.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			c, err := flags.open(ctx)
			if err != nil {
				return err
			}
			defer c.Close()
			return mcpserver.NewServer(c).Serve(ctx)
		},
	}

	flags.register(cmd)

	return cmd
}
