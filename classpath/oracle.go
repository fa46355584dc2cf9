// Package classpath answers type lookups for the completion engine: the
// built-in core library, project sources and compiled classes from
// directories and jar files.
package classpath

import (
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/sai-complete/java"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("sai.classpath")

// Oracle is a synchronous, side-effect free view of the types available to
// a compilation unit.
type Oracle interface {
	// FindClass returns the class with the given binary name, or nil.
	FindClass(name string) *java.ClassModel
	// Packages lists every package that contains at least one type, sorted.
	Packages() []string
	// TypeNames lists the binary names of the top-level types of pkg,
	// sorted.
	TypeNames(pkg string) []string
}

// Index is an in-memory Oracle over a set of class models. It is safe for
// concurrent use.
type Index struct {
	mu       sync.RWMutex
	classes  map[string]*java.ClassModel
	packages map[string]map[string]bool
}

func NewIndex(models ...*java.ClassModel) *Index {
	x := &Index{
		classes:  make(map[string]*java.ClassModel, len(models)),
		packages: make(map[string]map[string]bool),
	}
	x.Add(models...)
	return x
}

// Add publishes models, replacing earlier models with the same name.
func (x *Index) Add(models ...*java.ClassModel) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, c := range models {
		if c == nil || c.IsLocal {
			continue
		}
		x.classes[c.Name] = c
		if c.IsTopLevel() {
			names := x.packages[c.Package]
			if names == nil {
				names = make(map[string]bool)
				x.packages[c.Package] = names
			}
			names[c.Name] = true
		}
	}
}

// Remove drops the named classes.
func (x *Index) Remove(names ...string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, name := range names {
		c := x.classes[name]
		if c == nil {
			continue
		}
		delete(x.classes, name)
		if pkg := x.packages[c.Package]; pkg != nil {
			delete(pkg, name)
			if len(pkg) == 0 {
				delete(x.packages, c.Package)
			}
		}
	}
}

func (x *Index) FindClass(name string) *java.ClassModel {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.classes[name]
}

func (x *Index) Packages() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]string, 0, len(x.packages))
	for pkg := range x.packages {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}

func (x *Index) TypeNames(pkg string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	names := x.packages[pkg]
	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of classes in the index, member types included.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.classes)
}

// All returns every class in the index ordered by name.
func (x *Index) All() []*java.ClassModel {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]*java.ClassModel, 0, len(x.classes))
	for _, c := range x.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type composite []Oracle

// Composite layers oracles: lookups are answered by the first oracle that
// knows a class, so earlier oracles shadow later ones. Nil oracles are
// skipped.
func Composite(oracles ...Oracle) Oracle {
	var c composite
	for _, o := range oracles {
		if o == nil {
			continue
		}
		if inner, ok := o.(composite); ok {
			c = append(c, inner...)
			continue
		}
		c = append(c, o)
	}
	return c
}

func (c composite) FindClass(name string) *java.ClassModel {
	for _, o := range c {
		if m := o.FindClass(name); m != nil {
			return m
		}
	}
	return nil
}

func (c composite) Packages() []string {
	var lists [][]string
	for _, o := range c {
		lists = append(lists, o.Packages())
	}
	return mergeSorted(lists)
}

func (c composite) TypeNames(pkg string) []string {
	var lists [][]string
	for _, o := range c {
		lists = append(lists, o.TypeNames(pkg))
	}
	return mergeSorted(lists)
}

func mergeSorted(lists [][]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lists {
		for _, s := range l {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}

// SubPackages returns the direct sub-package names of parent known to o,
// e.g. "util" for parent "java". An empty parent yields the first segment
// of every package.
func SubPackages(o Oracle, parent string) []string {
	prefix := parent
	if prefix != "" {
		prefix += "."
	}
	seen := make(map[string]bool)
	var out []string
	for _, pkg := range o.Packages() {
		if !strings.HasPrefix(pkg, prefix) || len(pkg) == len(prefix) {
			continue
		}
		seg := pkg[len(prefix):]
		if i := strings.IndexByte(seg, '.'); i >= 0 {
			seg = seg[:i]
		}
		if !seen[seg] {
			seen[seg] = true
			out = append(out, seg)
		}
	}
	sort.Strings(out)
	return out
}

// PackageExists reports whether pkg or one of its sub-packages holds types.
func PackageExists(o Oracle, pkg string) bool {
	for _, p := range o.Packages() {
		if p == pkg || strings.HasPrefix(p, pkg+".") {
			return true
		}
	}
	return false
}
