package main

import (
	"fmt"

	"github.com/dhamidi/sai-complete/project"
	"github.com/spf13/cobra"
)

func newProjectCmd() *cobra.Command {
	var flags workspaceFlags

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Show the detected project layout and completion settings",
		Long: `Display the project structure, the classpath and source roots completion
uses, and the effective options after .sai.yaml and flags are applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			proj, err := project.Detect(cfg.Dir)
			if err != nil {
				return err
			}
			opts, err := cfg.CompletionOptions()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project:    %s\n", proj.ID)
			fmt.Fprintf(out, "Root:       %s\n", proj.RootDir)
			fmt.Fprintf(out, "Compliance: %s\n", opts.ComplianceString())
			fmt.Fprintf(out, "\nModules:\n")
			for _, mod := range proj.Modules {
				fmt.Fprintf(out, "  %s\n", mod.FullName())
				fmt.Fprintf(out, "    src: %s\n", mod.SrcDir)
			}
			fmt.Fprintf(out, "\nSource roots:\n")
			for _, dir := range cfg.SourceRoots(proj) {
				fmt.Fprintf(out, "  %s\n", dir)
			}
			fmt.Fprintf(out, "\nClasspath:\n")
			for _, entry := range cfg.ClasspathEntries(proj) {
				fmt.Fprintf(out, "  %s\n", entry)
			}
			fmt.Fprintf(out, "\nOptions:\n")
			fmt.Fprintf(out, "  caseSensitive:    %t\n", opts.CaseSensitive)
			fmt.Fprintf(out, "  camelCase:        %t\n", opts.CamelCase)
			fmt.Fprintf(out, "  deprecationCheck: %t\n", opts.DeprecationCheck)
			fmt.Fprintf(out, "  extendedContext:  %t\n", opts.ExtendedContext)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
