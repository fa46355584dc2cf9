// Package codebase keeps the state a long-running server needs for one
// project and answers completion requests against it.
package codebase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dhamidi/sai-complete/classpath"
	"github.com/dhamidi/sai-complete/java"
	"github.com/dhamidi/sai-complete/java/complete"
	"github.com/dhamidi/sai-complete/project"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("sai.codebase")

// Codebase is a project's configuration, the types of its classpath and
// sources, and the text of the documents an editor has open.
type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	opts    project.Options
	set     *classpath.Set
	// byFile records the classes each source file contributed to the
	// source index, so that a new version of the file can replace them.
	byFile      map[string][]string
	files       map[string]*FileInfo
	sourceRoots []string
}

// FileInfo is an open document.
type FileInfo struct {
	Path    string
	Content []byte
	Version int32
}

// Open loads the project rooted at rootDir: its .sai.yaml, its classpath
// and its source roots.
func Open(ctx context.Context, rootDir string) (*Codebase, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("open codebase: %w", err)
	}
	cfg, err := project.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	return OpenConfig(ctx, cfg)
}

// OpenConfig loads the project described by cfg. Settings cfg leaves
// empty fall back to the layout detected below cfg.Dir.
func OpenConfig(ctx context.Context, cfg *project.Config) (*Codebase, error) {
	opts, err := cfg.CompletionOptions()
	if err != nil {
		return nil, err
	}
	proj, err := project.Detect(cfg.Dir)
	if err != nil {
		return nil, err
	}
	set, err := classpath.Load(ctx, cfg.ClasspathEntries(proj), cfg.SourceRoots(proj))
	if err != nil {
		return nil, fmt.Errorf("open codebase: %w", err)
	}
	c := New(cfg.Dir, opts, set)
	c.sourceRoots = cfg.SourceRoots(proj)
	log.Infof("opened %s: compliance %s, %d source classes", cfg.Dir, opts.ComplianceString(), set.Sources.Len())
	return c, nil
}

// New wraps an already loaded type universe. A nil set means the built-in
// core library only.
func New(rootDir string, opts project.Options, set *classpath.Set) *Codebase {
	if set == nil {
		set = &classpath.Set{}
	}
	if set.Sources == nil {
		set.Sources = classpath.NewIndex()
	}
	c := &Codebase{
		rootDir: rootDir,
		opts:    opts,
		set:     set,
		byFile:  make(map[string][]string),
		files:   make(map[string]*FileInfo),
	}
	for _, cls := range set.Sources.All() {
		if cls.SourceFile != "" {
			c.byFile[cls.SourceFile] = append(c.byFile[cls.SourceFile], cls.Name)
		}
	}
	return c
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) Options() project.Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts
}

// SetOptions replaces the completion options used for later requests.
func (c *Codebase) SetOptions(opts project.Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts = opts
}

func (c *Codebase) Oracle() classpath.Oracle {
	return c.set.Oracle()
}

// SourceRoots returns the directories whose .java files feed the source
// index.
func (c *Codebase) SourceRoots() []string {
	return c.sourceRoots
}

func (c *Codebase) Close() error {
	return c.set.Close()
}

// UpdateFile records the editor's text of path and remodels its types.
func (c *Codebase) UpdateFile(path string, content []byte, version int32) {
	c.mu.Lock()
	c.files[path] = &FileInfo{Path: path, Content: content, Version: version}
	c.mu.Unlock()
	c.reindex(path, content)
}

// CloseFile forgets the editor's text of path. The types it declared stay
// indexed from the last version seen.
func (c *Codebase) CloseFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

// ScanFile reindexes path from disk unless an editor holds it open.
func (c *Codebase) ScanFile(path string) error {
	if c.GetFile(path) != nil {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}
	c.reindex(path, content)
	return nil
}

// RemoveFile drops the types path declared.
func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set.Sources.Remove(c.byFile[path]...)
	delete(c.byFile, path)
}

func (c *Codebase) reindex(path string, content []byte) {
	sf := java.ParseSourceFile(path, content)
	models := sf.ClassModels(c.set.Oracle())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.set.Sources.Remove(c.byFile[path]...)
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	c.set.Sources.Add(models...)
	c.byFile[path] = names
	log.Debugf("indexed %s: %d classes", path, len(models))
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Content returns the open text of path, or its contents on disk.
func (c *Codebase) Content(path string) ([]byte, error) {
	if f := c.GetFile(path); f != nil {
		return f.Content, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return content, nil
}

func (c *Codebase) FindClass(name string) *java.ClassModel {
	return c.set.Oracle().FindClass(name)
}

// ResolutionContext returns what the engine needs to answer a request for
// path.
func (c *Codebase) ResolutionContext(path string) complete.ResolutionContext {
	return complete.ResolutionContext{
		Oracle:  c.set.Oracle(),
		Options: c.Options(),
		Path:    path,
	}
}

func (c *Codebase) Complete(ctx context.Context, path string, offset int) ([]*complete.Proposal, error) {
	src, err := c.Content(path)
	if err != nil {
		return nil, err
	}
	return complete.CodeComplete(ctx, c.ResolutionContext(path), src, offset)
}

func (c *Codebase) Select(ctx context.Context, path string, offset, length int) ([]*complete.Element, error) {
	src, err := c.Content(path)
	if err != nil {
		return nil, err
	}
	return complete.CodeSelect(ctx, c.ResolutionContext(path), src, offset, length)
}

func (c *Codebase) Inspect(ctx context.Context, path string, offset int) (*complete.Context, error) {
	src, err := c.Content(path)
	if err != nil {
		return nil, err
	}
	return complete.Inspect(ctx, c.ResolutionContext(path), src, offset)
}
