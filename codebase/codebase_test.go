package codebase

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/gobra/config"
)

const validSource = `package list

type List struct {
	head *node
}

pred (l *List) mem() {
	acc(l)
}

ghost const Max, Min = 10, 0

requires l.mem()
func (l *List) Push(v int) {
	unfold l.mem()
	fold l.mem()
}

ghost
pure func size(l *List) int {
	return 0
}
`

const brokenSource = "package p\n\nfunc f() { x := }\n\nfunc g() { y := }\n"

type recorder struct {
	mu    sync.Mutex
	files []*FileInfo
}

func (r *recorder) record(f *FileInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, f)
}

func TestUpdateFile(t *testing.T) {
	c := New(t.TempDir(), nil)
	var rec recorder
	c.OnUpdate(rec.record)

	require.NoError(t, c.UpdateFile("list.gobra", []byte(validSource)))
	require.NoError(t, c.UpdateFile("broken.gobra", []byte(brokenSource)))

	list := c.GetFile("list.gobra")
	require.NotNil(t, list)
	assert.NotNil(t, list.AST)
	assert.Empty(t, list.Errors)

	broken := c.GetFile("broken.gobra")
	require.NotNil(t, broken)
	assert.Nil(t, broken.AST)
	assert.Len(t, broken.Errors, 2)

	assert.Equal(t, 2, c.ErrorCount())
	assert.Equal(t, []string{"broken.gobra", "list.gobra"}, c.Paths())
	require.Len(t, rec.files, 2)
	assert.Equal(t, "broken.gobra", rec.files[1].Path)

	c.RemoveFile("broken.gobra")
	assert.Nil(t, c.GetFile("broken.gobra"))
	assert.Equal(t, 0, c.ErrorCount())
	require.Len(t, rec.files, 3)
	assert.True(t, rec.files[2].Removed)
	assert.Empty(t, rec.files[2].Diagnostics())
}

func TestDiagnostics(t *testing.T) {
	c := New(".", nil)
	require.NoError(t, c.UpdateFile("broken.gobra", []byte(brokenSource)))

	diags := c.GetFile("broken.gobra").Diagnostics()
	require.Len(t, diags, 2)

	d := diags[0]
	assert.Equal(t, 3, d.Start.Line)
	assert.Equal(t, 17, d.Start.Column)
	assert.Equal(t, 3, d.End.Line)
	assert.Equal(t, 18, d.End.Column)
	assert.Contains(t, d.Message, "got }")
	assert.NotContains(t, d.Message, "broken.gobra:3:17")
	assert.Equal(t, 5, diags[1].Start.Line)
}

func TestDiagnosticsAtEndOfInput(t *testing.T) {
	c := New(".", nil)
	require.NoError(t, c.UpdateFile("open.gobra", []byte("package p\n\nfunc f() {\n")))

	diags := c.GetFile("open.gobra").Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diags[0].Start, diags[0].End)
}

func TestMaxErrorsFromConfig(t *testing.T) {
	cfg, err := config.Parse([]byte("max_errors: 1\n"))
	require.NoError(t, err)

	c := New(".", cfg)
	require.NoError(t, c.UpdateFile("broken.gobra", []byte(brokenSource)))
	assert.Len(t, c.GetFile("broken.gobra").Errors, 1)
}

func TestSymbols(t *testing.T) {
	c := New(".", nil)
	require.NoError(t, c.UpdateFile("list.gobra", []byte(validSource)))

	type sym struct {
		Name  string
		Kind  SymbolKind
		Ghost bool
	}
	var got []sym
	for _, s := range c.GetFile("list.gobra").Symbols() {
		got = append(got, sym{s.Name, s.Kind, s.Ghost})
	}
	assert.Equal(t, []sym{
		{"List", SymbolType, false},
		{"mem", SymbolPredicate, false},
		{"Max", SymbolConstant, true},
		{"Min", SymbolConstant, true},
		{"Push", SymbolMethod, false},
		{"size", SymbolFunction, true},
	}, got)

	require.NoError(t, c.UpdateFile("broken.gobra", []byte(brokenSource)))
	assert.Empty(t, c.GetFile("broken.gobra").Symbols())
}

func TestScanAllAndWatcher(t *testing.T) {
	root := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	a := write("a.gobra", "package a\n")
	b := write("sub/b.gobra", brokenSource)
	write("notes.txt", "not gobra")
	write(".hidden/c.gobra", "package c\n")

	c := New(root, nil)
	require.NoError(t, c.ScanAll())
	assert.Equal(t, []string{a, b}, c.Paths())

	w := NewFileWatcher(New(root, nil), time.Hour)
	assert.Equal(t, 2, w.scan())
	assert.Equal(t, 0, w.scan())

	write("sub/b.gobra", "package b\n")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(b, later, later))
	assert.Equal(t, 1, w.scan())
	assert.Equal(t, 0, w.codebase.ErrorCount())

	require.NoError(t, os.Remove(a))
	assert.Equal(t, 1, w.scan())
	assert.Equal(t, []string{b}, w.codebase.Paths())
}

func TestDiagnosticsParams(t *testing.T) {
	c := New(".", nil)
	require.NoError(t, c.UpdateFile("/work/broken.gobra", []byte(brokenSource)))

	params := diagnosticsParams(c.GetFile("/work/broken.gobra"))
	assert.Equal(t, "file:///work/broken.gobra", params.URI)
	require.Len(t, params.Diagnostics, 2)

	d := params.Diagnostics[0]
	assert.Equal(t, protocol.Position{Line: 2, Character: 16}, d.Range.Start)
	assert.Equal(t, protocol.Position{Line: 2, Character: 17}, d.Range.End)
	require.NotNil(t, d.Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)

	require.NoError(t, c.UpdateFile("/work/broken.gobra", []byte("package p\n")))
	params = diagnosticsParams(c.GetFile("/work/broken.gobra"))
	assert.NotNil(t, params.Diagnostics)
	assert.Empty(t, params.Diagnostics)
}

func TestURIs(t *testing.T) {
	path, err := uriToPath("file:///home/user/my%20list.gobra")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/my list.gobra", path)

	assert.Equal(t, "file:///home/user/my%20list.gobra", pathToURI("/home/user/my list.gobra"))

	path, err = uriToPath("untitled:1")
	require.NoError(t, err)
	assert.Equal(t, "untitled:1", path)
}
