package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sai-complete/java/complete"
)

func newCompleteCmd() *cobra.Command {
	var flags positionFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "complete <file>",
		Short: "Print completion proposals at an offset, best first",
		Long: `Print the completion proposals at a byte offset of a Java file, one per line:

  name[KIND]{completion, declaringType, signature, name, parameterNames, relevance}

With --extended each line also carries the replace range, and proposals
that must be applied together with it follow indented.

Examples:
  sai complete src/p/A.java --offset 120
  sai complete src/p/A.java:120 --compliance 8`,
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

			proposals, err := c.Complete(ctx, path, flags.offset)
			if err != nil {
				return fmt.Errorf("complete: %w", err)
			}
			if limit > 0 && len(proposals) > limit {
				proposals = proposals[:limit]
			}
			if len(proposals) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), complete.Format(proposals, c.Options().ExtendedContext))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.extended, "extended", false, "print replace ranges and required proposals")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most this many proposals")

	return cmd
}
