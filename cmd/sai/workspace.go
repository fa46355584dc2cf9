package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sai-complete/java/codebase"
	"github.com/dhamidi/sai-complete/project"
)

// workspaceFlags select the project a command runs against. Flags that
// are set override .sai.yaml.
type workspaceFlags struct {
	root       string
	classpath  []string
	sources    []string
	compliance string
	extended   bool
}

func (w *workspaceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.root, "root", ".", "project root directory")
	cmd.Flags().StringSliceVar(&w.classpath, "classpath", nil, "directories and jar files to load classes from")
	cmd.Flags().StringSliceVar(&w.sources, "sources", nil, "source roots to model types from")
	cmd.Flags().StringVar(&w.compliance, "compliance", "", "Java language level, e.g. 8, 17 or 21")
}

func (w *workspaceFlags) config() (*project.Config, error) {
	root, err := filepath.Abs(w.root)
	if err != nil {
		return nil, err
	}
	cfg, err := project.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	if len(w.classpath) > 0 {
		cfg.Classpath = w.classpath
	}
	if len(w.sources) > 0 {
		cfg.Sources = w.sources
	}
	if w.compliance != "" {
		if _, err := project.ParseCompliance(w.compliance); err != nil {
			return nil, err
		}
		cfg.Compliance = w.compliance
	}
	if w.extended {
		extended := true
		cfg.Options.ExtendedContext = &extended
	}
	return cfg, nil
}

func (w *workspaceFlags) open(ctx context.Context) (*codebase.Codebase, error) {
	cfg, err := w.config()
	if err != nil {
		return nil, err
	}
	return codebase.OpenConfig(ctx, cfg)
}

// positionFlags name a file and an offset into it.
type positionFlags struct {
	workspaceFlags
	offset int
}

func (p *positionFlags) register(cmd *cobra.Command) {
	p.workspaceFlags.register(cmd)
	cmd.Flags().IntVarP(&p.offset, "offset", "o", -1, "byte offset of the cursor")
}

// target resolves the file argument and checks the offset. An offset may
// also be given as file:offset.
func (p *positionFlags) target(arg string) (string, error) {
	path := arg
	if p.offset < 0 {
		if i := strings.LastIndex(arg, ":"); i > 0 {
			if n, err := strconv.Atoi(arg[i+1:]); err == nil {
				path, p.offset = arg[:i], n
			}
		}
	}
	if p.offset < 0 {
		return "", fmt.Errorf("missing --offset")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", err
	}
	return abs, nil
}
