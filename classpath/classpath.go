package classpath

import (
	"context"
)

// Set is the type universe of a project: its own sources, compiled classes
// from the classpath and the built-in core library, in that lookup order.
type Set struct {
	Sources *Index
	Archive *Archive
}

// Load indexes the classpath entries and models the sources below
// sourceRoots. Either list may be empty.
func Load(ctx context.Context, entries, sourceRoots []string) (*Set, error) {
	s := &Set{}
	if len(entries) > 0 {
		a, err := OpenArchive(ctx, entries, DefaultCacheSize)
		if err != nil {
			return nil, err
		}
		s.Archive = a
	}
	if len(sourceRoots) > 0 {
		idx, err := LoadSources(ctx, s.libraries(), sourceRoots...)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Sources = idx
	}
	return s, nil
}

func (s *Set) libraries() Oracle {
	if s.Archive == nil {
		return Builtin()
	}
	return Composite(s.Archive, Builtin())
}

// Oracle returns the lookup view of s.
func (s *Set) Oracle() Oracle {
	if s == nil {
		return Builtin()
	}
	if s.Sources == nil {
		return s.libraries()
	}
	return Composite(s.Sources, s.libraries())
}

func (s *Set) Close() error {
	if s == nil || s.Archive == nil {
		return nil
	}
	return s.Archive.Close()
}
