package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dhamidi/sai-complete/java/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includePositions bool
	var offset int

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .java file and dump the recovered syntax tree",
		Long: `Parse a Java file the way the completion engine does and print the tree.
Nodes the parser inserted to recover from errors are marked synthetic.

With --offset the file is parsed for completion at that byte offset and
the completion node is printed after the tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}

			var opts []parser.Option
			if offset >= 0 {
				opts = append(opts, parser.WithCursor(offset))
			}
			res := parser.Parse(data, opts...)
			out := cmd.OutOrStdout()

			switch outputFormat {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res.Root); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "tree":
				if includePositions {
					fmt.Fprint(out, res.Root.StringWithPositions())
				} else {
					fmt.Fprint(out, res.Root.String())
				}
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if offset < 0 {
				return nil
			}
			c := res.Completion
			switch {
			case c != nil:
				fmt.Fprintf(out, "completion kind=%s location=%s token=%q prefix=%q replace=[%d, %d]\n",
					c.Kind, c.Location, c.Token, c.Prefix, c.Replace.Start.Offset, c.Replace.End.Offset)
				fmt.Fprintf(out, "completion node:\n%s", c.Node.StringWithPositions())
				if c.Qualifier != nil {
					fmt.Fprintf(out, "qualifier:\n%s", c.Qualifier.StringWithPositions())
				}
			case res.InComment:
				fmt.Fprintln(out, "completion suppressed: offset is inside a comment or literal")
			default:
				fmt.Fprintln(out, "no completion node")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")
	cmd.Flags().BoolVar(&includePositions, "positions", true, "include byte ranges in tree output")
	cmd.Flags().IntVarP(&offset, "offset", "o", -1, "parse for completion at this byte offset")

	return cmd
}
