// Package config loads the gobra.yaml project file.
//
// A missing file is not an error; Default applies. The GOBRA_CONFIG
// environment variable names a file to use instead of the one in the
// project root.
//
//	extensions: [".gobra", ".go"]
//	exclude:
//	  - "vendor/**"
//	  - "**/*_gen.gobra"
//	max_errors: 10
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/gobra/parser"
)

const (
	FileName  = "gobra.yaml"
	EnvConfig = "GOBRA_CONFIG"
)

type Config struct {
	Extensions []string `yaml:"extensions"`
	Exclude    []string `yaml:"exclude"`
	MaxErrors  int      `yaml:"max_errors"`

	// Path is the file the configuration was read from, empty for Default.
	Path string `yaml:"-"`

	matchers []excludeMatcher
}

func Default() *Config {
	return &Config{Extensions: []string{".gobra"}}
}

// Load reads the configuration for the current directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads rootDir/gobra.yaml, or the file named by GOBRA_CONFIG.
func LoadFrom(rootDir string) (*Config, error) {
	path := os.Getenv(EnvConfig)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(rootDir, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes a configuration document and fills in defaults for
// omitted fields.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Extensions = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = Default().Extensions
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			cfg.Extensions[i] = "." + ext
		}
	}
	if cfg.MaxErrors < 0 {
		return nil, fmt.Errorf("max_errors must not be negative, got %d", cfg.MaxErrors)
	}
	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) compile() error {
	c.matchers = c.matchers[:0]
	for _, pattern := range c.Exclude {
		m, err := compileExclude(pattern)
		if err != nil {
			return fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		c.matchers = append(c.matchers, m)
	}
	return nil
}

// Excluded reports whether a path relative to the project root matches one
// of the exclude patterns.
func (c *Config) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, m := range c.matchers {
		if m.Match(rel) {
			return true
		}
	}
	return false
}

func (c *Config) HasExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range c.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ParserOptions returns the parser options for a file under this
// configuration.
func (c *Config) ParserOptions(file string) []parser.Option {
	opts := []parser.Option{parser.WithFile(file)}
	if c.MaxErrors > 0 {
		opts = append(opts, parser.WithMaxErrors(c.MaxErrors))
	}
	return opts
}
