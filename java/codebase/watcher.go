package codebase

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher keeps a codebase's source index in step with the .java
// files on disk.
type FileWatcher struct {
	codebase *Codebase
	w        *fsnotify.Watcher
	done     chan struct{}
}

// NewFileWatcher watches every directory below roots. Directories created
// later are picked up as they appear.
func NewFileWatcher(c *Codebase, roots ...string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &FileWatcher{codebase: c, w: w, done: make(chan struct{})}
	for _, root := range roots {
		if err := fw.addTree(root); err != nil {
			w.Close()
			return nil, err
		}
	}
	return fw, nil
}

func (fw *FileWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.w.Add(path)
	})
}

func (fw *FileWatcher) Start() {
	go fw.run()
}

// Stop ends the watch and waits for the event loop to exit.
func (fw *FileWatcher) Stop() error {
	err := fw.w.Close()
	<-fw.done
	return err
}

func (fw *FileWatcher) run() {
	defer close(fw.done)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			fw.handle(ev)
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			log.Warningf("watch: %s", err)
		}
	}
}

func (fw *FileWatcher) handle(ev fsnotify.Event) {
	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if filepath.Ext(ev.Name) == ".java" {
			fw.codebase.RemoveFile(ev.Name)
		}
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		info, err := os.Stat(ev.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			if ev.Op&fsnotify.Create != 0 {
				if err := fw.addTree(ev.Name); err != nil {
					log.Warningf("watch %s: %s", ev.Name, err)
				}
			}
			return
		}
		if filepath.Ext(ev.Name) != ".java" {
			return
		}
		if err := fw.codebase.ScanFile(ev.Name); err != nil {
			log.Warningf("%s", err)
		}
	}
}
