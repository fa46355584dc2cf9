package codebase

import (
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherFollowsNewDirectories(t *testing.T) {
	c, root := openProject(t)
	src := filepath.Join(root, "src")
	fw, err := NewFileWatcher(c, src)
	require.NoError(t, err)
	defer fw.w.Close()

	dir := filepath.Join(src, "q")
	writeFile(t, filepath.Join(dir, "Extra.java"), "package q;\npublic class Extra {}\n")
	fw.handle(fsnotify.Event{Name: dir, Op: fsnotify.Create})
	assert.Contains(t, fw.w.WatchList(), dir)

	file := filepath.Join(dir, "Extra.java")
	fw.handle(fsnotify.Event{Name: file, Op: fsnotify.Write})
	require.NotNil(t, c.FindClass("q.Extra"))

	fw.handle(fsnotify.Event{Name: file, Op: fsnotify.Remove})
	assert.Nil(t, c.FindClass("q.Extra"))
}

func TestWatcherSurvivesFailedWatch(t *testing.T) {
	c, root := openProject(t)
	fw, err := NewFileWatcher(c, filepath.Join(root, "src"))
	require.NoError(t, err)
	require.NoError(t, fw.w.Close())

	dir := filepath.Join(root, "src", "late")
	writeFile(t, filepath.Join(dir, "Late.java"), "package late;\npublic class Late {}\n")
	assert.NotPanics(t, func() {
		fw.handle(fsnotify.Event{Name: dir, Op: fsnotify.Create})
	})
	assert.NotContains(t, fw.w.WatchList(), dir)
}
