package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/gobra/config"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestScan(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"main.gobra":           "package main\n\nimport \"example.com/app/list\"\nimport (\n\t\"example.com/app/util\"\n\tfmt \"fmt\"\n)\n",
		"list/list.gobra":      "package list\n\nimport \"example.com/app/util\"\n",
		"list/pred.gobra":      "package list\n\npred P(x *int) { acc(x) }\n",
		"util/util.gobra":      "package util\n",
		"util/broken.gobra":    "package util\n\nfunc f( {\n",
		"vendor/dep/dep.gobra": "package dep\n",
		".git/x.gobra":         "package git\n",
		"README.md":            "# app\n",
	})
	cfg, err := config.Parse([]byte(`exclude: ["vendor/**"]`))
	require.NoError(t, err)

	proj, err := Scan(root, cfg)
	require.NoError(t, err)
	require.Len(t, proj.Packages, 3)

	main := proj.Package(".")
	require.NotNil(t, main)
	assert.Equal(t, "main", main.Name)
	assert.Equal(t, []string{"example.com/app/list", "example.com/app/util", "fmt"}, main.Imports)

	list := proj.Package("list")
	require.NotNil(t, list)
	assert.Equal(t, "list", list.Name)
	assert.Len(t, list.Files, 2)

	util := proj.Package("util")
	require.NotNil(t, util)
	assert.Equal(t, "util", util.Name)
	assert.Len(t, util.Files, 2)

	assert.Nil(t, proj.Package("vendor/dep"))
}

func TestPackagesInOrder(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"main.gobra":      "package main\n\nimport \"example.com/app/list\"\n",
		"list/list.gobra": "package list\n\nimport \"example.com/app/util\"\n",
		"util/util.gobra": "package util\n",
	})

	proj, err := Scan(root, config.Default())
	require.NoError(t, err)

	var dirs []string
	for _, pkg := range proj.PackagesInOrder() {
		dirs = append(dirs, pkg.Dir)
	}
	assert.Equal(t, []string{"util", "list", "."}, dirs)
}
