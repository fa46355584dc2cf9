package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newClasspathCmd() *cobra.Command {
	var flags workspaceFlags
	var packages []string

	cmd := &cobra.Command{
		Use:   "classpath [entries...]",
		Short: "List the packages and types completion can see",
		Long: `List every package known to completion together with its number of
top-level types: the project's sources, the classpath and the built-in
core library.

Entries given as arguments replace the configured classpath.

Examples:
  sai classpath                      # use .sai.yaml or lib/*.jar
  sai classpath build/classes a.jar  # explicit entries
  sai classpath -p java.util         # types of one package`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				flags.classpath = args
			}
			c, err := flags.open(context.Background())
			if err != nil {
				return err
			}
			defer c.Close()

			oracle := c.Oracle()
			out := cmd.OutOrStdout()
			if len(packages) > 0 {
				for _, pkg := range packages {
					for _, name := range oracle.TypeNames(pkg) {
						fmt.Fprintln(out, name)
					}
				}
				return nil
			}
			for _, pkg := range oracle.Packages() {
				name := pkg
				if name == "" {
					name = "(default package)"
				}
				fmt.Fprintf(out, "%s\t%d\n", name, len(oracle.TypeNames(pkg)))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVarP(&packages, "package", "p", nil, "list the types of these packages")

	return cmd
}
