// Package codebase keeps the parse results of a workspace of Gobra files
// and serves them over the Language Server Protocol.
package codebase

import (
	"bytes"
	"errors"
	"os"
	"sort"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/gobra/config"
	"github.com/dhamidi/gobra/parser"
	"github.com/dhamidi/gobra/project"
)

var log = commonlog.GetLogger("gobra.codebase")

type Codebase struct {
	mu       sync.RWMutex
	rootDir  string
	cfg      *config.Config
	files    map[string]*FileInfo
	listener func(*FileInfo)
}

type FileInfo struct {
	Path    string
	Content []byte
	AST     *parser.Node // nil when the file has syntax errors
	Errors  parser.ErrorList
	Removed bool
}

func New(rootDir string, cfg *config.Config) *Codebase {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Codebase{
		rootDir: rootDir,
		cfg:     cfg,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) Config() *config.Config {
	return c.cfg
}

// OnUpdate registers fn to be called after a file was parsed or removed.
// fn runs without the codebase lock held.
func (c *Codebase) OnUpdate(fn func(*FileInfo)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = fn
}

// ScanAll parses every source file of the project. Files that cannot be
// read are logged and skipped.
func (c *Codebase) ScanAll() error {
	paths, err := project.SourceFiles(c.rootDir, c.cfg)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := c.ScanFile(path); err != nil {
			log.Warningf("scan %s: %s", path, err)
		}
	}
	log.Infof("scanned %d files in %s", len(paths), c.rootDir)
	return nil
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

func (c *Codebase) UpdateFile(path string, content []byte) error {
	c.mu.Lock()
	info, err := c.updateFileLocked(path, content)
	listener := c.listener
	c.mu.Unlock()

	if err == nil && listener != nil {
		listener(info)
	}
	return err
}

func (c *Codebase) updateFileLocked(path string, content []byte) (*FileInfo, error) {
	p := parser.ParseSourceFile(bytes.NewReader(content), c.cfg.ParserOptions(path)...)
	ast, err := p.Finish()

	info := &FileInfo{
		Path:    path,
		Content: content,
		AST:     ast,
	}
	if err != nil {
		var list parser.ErrorList
		if !errors.As(err, &list) {
			return nil, err
		}
		info.Errors = list
		log.Debugf("%s: %d syntax errors", path, len(list))
	}

	c.files[path] = info
	return info, nil
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	info, ok := c.files[path]
	delete(c.files, path)
	listener := c.listener
	c.mu.Unlock()

	if ok && listener != nil {
		removed := *info
		removed.Removed = true
		removed.Errors = nil
		listener(&removed)
	}
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the paths of all known files in sorted order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ErrorCount returns the number of syntax errors across all files.
func (c *Codebase) ErrorCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, f := range c.files {
		n += len(f.Errors)
	}
	return n
}
