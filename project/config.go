package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the per-project configuration file.
const ConfigFile = ".sai.yaml"

// Config is the contents of .sai.yaml.
type Config struct {
	Compliance string        `yaml:"compliance"`
	Classpath  []string      `yaml:"classpath"`
	Sources    []string      `yaml:"sources"`
	Options    ConfigOptions `yaml:"options"`

	// Dir is the directory relative paths are resolved against.
	Dir string `yaml:"-"`
}

type ConfigOptions struct {
	CaseSensitive    *bool `yaml:"caseSensitive"`
	CamelCase        *bool `yaml:"camelCase"`
	DeprecationCheck *bool `yaml:"deprecationCheck"`
	ExtendedContext  *bool `yaml:"extendedContext"`
}

// LoadConfig reads .sai.yaml from dir. A missing file yields an empty
// configuration rooted at dir.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{Dir: dir}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseConfig(dir, data)
}

// ParseConfig decodes YAML configuration for a project rooted at dir.
func ParseConfig(dir string, data []byte) (*Config, error) {
	cfg := &Config{Dir: dir}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigFile, err)
	}
	if cfg.Compliance != "" {
		if _, err := ParseCompliance(cfg.Compliance); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// CompletionOptions merges the configured options over the defaults.
func (c *Config) CompletionOptions() (Options, error) {
	opts := DefaultOptions()
	if c.Compliance != "" {
		v, err := ParseCompliance(c.Compliance)
		if err != nil {
			return opts, err
		}
		opts.Compliance = v
	}
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&opts.CaseSensitive, c.Options.CaseSensitive)
	set(&opts.CamelCase, c.Options.CamelCase)
	set(&opts.DeprecationCheck, c.Options.DeprecationCheck)
	set(&opts.ExtendedContext, c.Options.ExtendedContext)
	return opts, nil
}

// ClasspathEntries returns the configured classpath with relative entries
// resolved against the project directory. Without configuration the jars
// of the detected project's lib directory are used.
func (c *Config) ClasspathEntries(p *Project) []string {
	if len(c.Classpath) == 0 && p != nil {
		return p.Libraries()
	}
	return c.abs(c.Classpath)
}

// SourceRoots returns the configured source roots, falling back to the
// detected project layout.
func (c *Config) SourceRoots(p *Project) []string {
	if len(c.Sources) == 0 && p != nil {
		return p.SourceRoots()
	}
	return c.abs(c.Sources)
}

func (c *Config) abs(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(c.Dir, p)
		}
		out = append(out, p)
	}
	return out
}
