package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newContextCmd() *cobra.Command {
	var flags positionFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "context <file>",
		Short: "Describe how the completion engine reads an offset",
		Long: `Print the completion token, its replace range, the completion kind and
location, the expected types and the enclosing type at a byte offset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := flags.target(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()
			c, err := flags.open(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			info, err := c.Inspect(ctx, path, flags.offset)
			if err != nil {
				return fmt.Errorf("context: %w", err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Fprintln(out, info.String())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the context as JSON")

	return cmd
}
