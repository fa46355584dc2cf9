package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sai-complete/java/complete"
)

func newSelectCmd() *cobra.Command {
	var flags positionFlags
	var length int

	cmd := &cobra.Command{
		Use:   "select <file>",
		Short: "Print the declarations the name at an offset resolves to",
		Long: `Resolve the identifier at a byte offset, or the selection starting there,
and print what it refers to:

  name[KIND]{declaringType, signature}

Nothing is printed when the name cannot be resolved. An unqualified call
matched by several static imports prints every candidate.`,
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

			elements, err := c.Select(ctx, path, flags.offset, length)
			if err != nil {
				return fmt.Errorf("select: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(elements) > 0 {
				fmt.Fprintln(out, complete.FormatElements(elements))
			}
			for _, e := range elements {
				if e.Path != "" && e.Offset >= 0 {
					fmt.Fprintf(out, "  declared at %s:%d\n", e.Path, e.Offset)
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&length, "length", "l", 0, "length of the selection in bytes")

	return cmd
}
