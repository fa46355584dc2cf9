package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Project is the on-disk layout of a Java project: where its sources and
// libraries live.
type Project struct {
	ID      string
	RootDir string
	SrcDir  string
	LibDir  string
	Modules []*Module
}

// Module is a source root inside a project.
type Module struct {
	Name       string
	SrcDir     string
	ModuleInfo string
	Project    *Project
}

// Detect inspects rootDir and guesses its layout. It recognizes, in order,
// src/<project>/<module>/module-info.java, Maven and Gradle style
// src/main/java and a plain src directory; anything else is treated as a
// single source root at rootDir.
func Detect(rootDir string) (*Project, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("detect project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("detect project: %s is not a directory", rootDir)
	}

	srcDir := filepath.Join(rootDir, "src")
	proj := &Project{
		ID:      filepath.Base(rootDir),
		RootDir: rootDir,
		SrcDir:  srcDir,
		LibDir:  filepath.Join(rootDir, "lib"),
	}

	if entries, err := os.ReadDir(srcDir); err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			modules := scanModules(filepath.Join(srcDir, entry.Name()))
			if len(modules) == 0 {
				continue
			}
			proj.ID = entry.Name()
			proj.Modules = modules
			for _, m := range modules {
				m.Project = proj
			}
			return proj, nil
		}
	}

	for _, dir := range []string{filepath.Join(srcDir, "main", "java"), srcDir, rootDir} {
		if isDir(dir) {
			proj.SrcDir = dir
			proj.Modules = []*Module{{Name: proj.ID, SrcDir: dir, Project: proj}}
			break
		}
	}
	return proj, nil
}

func scanModules(projectDir string) []*Module {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil
	}
	var modules []*Module
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		moduleDir := filepath.Join(projectDir, entry.Name())
		moduleInfo := filepath.Join(moduleDir, "module-info.java")
		if _, err := os.Stat(moduleInfo); err != nil {
			continue
		}
		modules = append(modules, &Module{
			Name:       entry.Name(),
			SrcDir:     moduleDir,
			ModuleInfo: moduleInfo,
		})
	}
	return modules
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SourceRoots returns the source directory of every module.
func (p *Project) SourceRoots() []string {
	var out []string
	for _, m := range p.Modules {
		out = append(out, m.SrcDir)
	}
	return out
}

// Libraries returns the jar files in the project's lib directory, sorted.
func (p *Project) Libraries() []string {
	entries, err := os.ReadDir(p.LibDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jar") {
			out = append(out, filepath.Join(p.LibDir, e.Name()))
		}
	}
	sort.Strings(out)
	return out
}

// FullName returns the qualified module name, e.g. "myproject.core".
func (m *Module) FullName() string {
	if m.Project == nil || m.Name == m.Project.ID {
		return m.Name
	}
	return m.Project.ID + "." + m.Name
}
