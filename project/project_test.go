package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestDetectModuleLayout(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "src", "shop", "core", "module-info.java"))
	touch(t, filepath.Join(root, "src", "shop", "web", "module-info.java"))
	touch(t, filepath.Join(root, "src", "shop", "docs", "README"))
	touch(t, filepath.Join(root, "lib", "b.jar"))
	touch(t, filepath.Join(root, "lib", "a.jar"))
	touch(t, filepath.Join(root, "lib", "notes.txt"))

	p, err := Detect(root)
	require.NoError(t, err)
	assert.Equal(t, "shop", p.ID)
	require.Len(t, p.Modules, 2)
	assert.Equal(t, "shop.core", p.Modules[0].FullName())
	assert.Equal(t, []string{
		filepath.Join(root, "src", "shop", "core"),
		filepath.Join(root, "src", "shop", "web"),
	}, p.SourceRoots())
	assert.Equal(t, []string{filepath.Join(root, "lib", "a.jar"), filepath.Join(root, "lib", "b.jar")}, p.Libraries())
}

func TestDetectFallbacks(t *testing.T) {
	maven := t.TempDir()
	touch(t, filepath.Join(maven, "src", "main", "java", "App.java"))
	p, err := Detect(maven)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(maven, "src", "main", "java")}, p.SourceRoots())

	plain := t.TempDir()
	p, err = Detect(plain)
	require.NoError(t, err)
	assert.Equal(t, []string{plain}, p.SourceRoots())
	assert.Empty(t, p.Libraries())

	_, err = Detect(filepath.Join(plain, "missing"))
	assert.Error(t, err)
}
