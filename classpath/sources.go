package classpath

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dhamidi/sai-complete/java"
	"golang.org/x/sync/errgroup"
)

// FindSources returns the .java files below the given roots. Hidden
// directories are skipped.
func FindSources(roots ...string) ([]string, error) {
	var out []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(p) == ".java" {
				out = append(out, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning source root %s: %w", root, err)
		}
	}
	return out, nil
}

// LoadSources parses the Java files below roots concurrently and models
// their types against base. Files that cannot be read fail the load;
// syntax errors do not.
func LoadSources(ctx context.Context, base Oracle, roots ...string) (*Index, error) {
	paths, err := FindSources(roots...)
	if err != nil {
		return nil, err
	}
	files := make([]*java.SourceFile, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("reading %s: %w", p, err)
			}
			files[i] = java.ParseSourceFile(p, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := NewIndex(modelSources(files, base)...)
	log.Infof("loaded %d source files with %d classes", len(files), idx.Len())
	return idx, nil
}
