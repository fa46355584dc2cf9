package classpath

import (
	"embed"
	"path"
	"sort"
	"sync"

	"github.com/dhamidi/sai-complete/java"
)

// The core library is a set of declaration-only sources, one file per
// package, covering the parts of java.base that completion most often
// needs when no JDK is on the classpath.
//
//go:embed jdk/*.java
var jdkSources embed.FS

var (
	builtinOnce  sync.Once
	builtinIndex *Index
)

// Builtin returns the index of the embedded core library. It is built once
// and shared; callers must not add to it.
func Builtin() *Index {
	builtinOnce.Do(func() {
		entries, err := jdkSources.ReadDir("jdk")
		if err != nil {
			panic(err)
		}
		var files []*java.SourceFile
		for _, e := range entries {
			name := path.Join("jdk", e.Name())
			src, err := jdkSources.ReadFile(name)
			if err != nil {
				panic(err)
			}
			files = append(files, java.ParseSourceFile(name, src))
		}
		builtinIndex = NewIndex(modelSources(files, nil)...)
		log.Debugf("built-in library: %d classes", builtinIndex.Len())
	})
	return builtinIndex
}

// modelSources builds models for files in two rounds: the first round
// publishes every declaration so that the second can resolve references
// between files regardless of their order.
func modelSources(files []*java.SourceFile, base Oracle) []*java.ClassModel {
	var first []*java.ClassModel
	for _, f := range files {
		first = append(first, f.ClassModels(finderOf(base))...)
	}
	draft := Composite(NewIndex(first...), base)
	var out []*java.ClassModel
	for _, f := range files {
		out = append(out, f.ClassModels(draft)...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type emptyFinder struct{}

func (emptyFinder) FindClass(string) *java.ClassModel { return nil }

func finderOf(o Oracle) java.ClassFinder {
	if o == nil {
		return emptyFinder{}
	}
	return o
}
