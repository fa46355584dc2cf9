package classpath

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/sai-complete/java"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// DefaultCacheSize bounds the number of decoded class files kept by an
// Archive.
const DefaultCacheSize = 8192

// location is where the bytes of one class file live: a plain file, or an
// entry of an opened jar.
type location struct {
	path string
	jar  *zip.File
}

func (l location) open() (io.ReadCloser, error) {
	if l.jar != nil {
		return l.jar.Open()
	}
	return os.Open(l.path)
}

// Archive is an Oracle over compiled classes in directories and jar files.
// Entry names are indexed up front; class files are decoded on first use
// and kept in an LRU cache.
type Archive struct {
	classes  map[string]location
	packages map[string][]string
	jars     []*zip.ReadCloser
	cache    *lru.Cache[string, *java.ClassModel]

	mu     sync.Mutex
	failed map[string]error
}

type scanned struct {
	names []string
	locs  []location
	jar   *zip.ReadCloser
}

// OpenArchive indexes the given classpath entries concurrently. Earlier
// entries shadow later ones, as on a JVM classpath.
func OpenArchive(ctx context.Context, entries []string, cacheSize int) (*Archive, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *java.ClassModel](cacheSize)
	if err != nil {
		return nil, err
	}

	results := make([]scanned, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, entry := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := scanEntry(entry)
			if err != nil {
				return fmt.Errorf("classpath entry %s: %w", entry, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, r := range results {
			if r.jar != nil {
				r.jar.Close()
			}
		}
		return nil, err
	}

	a := &Archive{
		classes:  make(map[string]location),
		packages: make(map[string][]string),
		cache:    cache,
		failed:   make(map[string]error),
	}
	for _, r := range results {
		if r.jar != nil {
			a.jars = append(a.jars, r.jar)
		}
		for i, name := range r.names {
			if _, dup := a.classes[name]; dup {
				continue
			}
			a.classes[name] = r.locs[i]
			if !strings.Contains(name, "$") {
				pkg, _ := java.SplitName(name)
				a.packages[pkg] = append(a.packages[pkg], name)
			}
		}
	}
	for _, names := range a.packages {
		sort.Strings(names)
	}
	log.Infof("indexed %d classes from %d classpath entries", len(a.classes), len(entries))
	return a, nil
}

func scanEntry(entry string) (scanned, error) {
	info, err := os.Stat(entry)
	if err != nil {
		return scanned{}, err
	}
	if info.IsDir() {
		return scanDir(entry)
	}
	switch strings.ToLower(filepath.Ext(entry)) {
	case ".jar", ".zip":
		return scanJar(entry)
	case ".class":
		return scanned{}, errors.New("expected a directory or jar file")
	}
	return scanned{}, errors.New("unsupported classpath entry")
}

func scanDir(root string) (scanned, error) {
	var res scanned
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if name, ok := classNameOf(filepath.ToSlash(rel)); ok {
			res.names = append(res.names, name)
			res.locs = append(res.locs, location{path: p})
		}
		return nil
	})
	return res, err
}

func scanJar(path string) (scanned, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return scanned{}, err
	}
	res := scanned{jar: r}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if name, ok := classNameOf(f.Name); ok {
			res.names = append(res.names, name)
			res.locs = append(res.locs, location{path: path + "!" + f.Name, jar: f})
		}
	}
	return res, nil
}

// classNameOf maps an entry path such as java/util/Map$Entry.class to its
// binary class name.
func classNameOf(entry string) (string, bool) {
	if !strings.HasSuffix(entry, ".class") || strings.HasPrefix(entry, "META-INF/") {
		return "", false
	}
	name := strings.TrimSuffix(entry, ".class")
	base := name[strings.LastIndexByte(name, '/')+1:]
	if base == "module-info" || base == "package-info" {
		return "", false
	}
	return strings.ReplaceAll(name, "/", "."), true
}

func (a *Archive) FindClass(name string) *java.ClassModel {
	if c, ok := a.cache.Get(name); ok {
		return c
	}
	loc, ok := a.classes[name]
	if !ok {
		return nil
	}
	a.mu.Lock()
	if _, bad := a.failed[name]; bad {
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()

	c, err := a.decode(loc)
	if err != nil {
		log.Warningf("decoding %s: %s", loc.path, err)
		a.mu.Lock()
		a.failed[name] = err
		a.mu.Unlock()
		return nil
	}
	c.SourceFile = loc.path
	a.cache.Add(name, c)
	return c
}

func (a *Archive) decode(loc location) (*java.ClassModel, error) {
	rc, err := loc.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return java.ClassModelFromReader(rc)
}

func (a *Archive) Packages() []string {
	out := make([]string, 0, len(a.packages))
	for pkg := range a.packages {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}

func (a *Archive) TypeNames(pkg string) []string {
	return append([]string(nil), a.packages[pkg]...)
}

// Len returns the number of indexed class files.
func (a *Archive) Len() int { return len(a.classes) }

// Close releases the opened jar files.
func (a *Archive) Close() error {
	var first error
	for _, j := range a.jars {
		if err := j.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.jars = nil
	return first
}
