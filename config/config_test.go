package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
extensions: [gobra, ".go"]
exclude:
  - "vendor/**"
  - "**/*_gen.gobra"
max_errors: 3
`))
	require.NoError(t, err)
	assert.Equal(t, []string{".gobra", ".go"}, cfg.Extensions)
	assert.Equal(t, 3, cfg.MaxErrors)
	assert.Len(t, cfg.ParserOptions("a.gobra"), 2)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("max_errors: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{".gobra"}, cfg.Extensions)
	assert.Len(t, cfg.ParserOptions("a.gobra"), 1)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   string
	}{
		{"bad yaml", "extensions: [", "parse config"},
		{"negative max errors", "max_errors: -1", "max_errors must not be negative"},
		{"bad pattern", "exclude: [\"[\"]", "exclude pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestExcluded(t *testing.T) {
	cfg, err := Parse([]byte(`exclude: ["vendor/**", "**/*_gen.gobra", "tmp/*.gobra"]`))
	require.NoError(t, err)

	tests := []struct {
		path     string
		excluded bool
	}{
		{"vendor/a.gobra", true},
		{"vendor/x/y/a.gobra", true},
		{"pkg/list_gen.gobra", true},
		{"pkg/list.gobra", false},
		{"tmp/a.gobra", true},
		{"tmp/sub/a.gobra", false},
		{filepath.Join("vendor", "b.gobra"), true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.excluded, cfg.Excluded(tt.path))
		})
	}
}

func TestHasExtension(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.HasExtension("list.gobra"))
	assert.True(t, cfg.HasExtension("dir/list.gobra"))
	assert.False(t, cfg.HasExtension("list.go"))
	assert.False(t, cfg.HasExtension("gobra"))
}

func TestLoadFrom(t *testing.T) {
	t.Setenv(EnvConfig, "")

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadFrom(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Default().Extensions, cfg.Extensions)
		assert.Empty(t, cfg.Path)
	})

	t.Run("project file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, FileName)
		require.NoError(t, os.WriteFile(path, []byte("max_errors: 5\n"), 0o644))

		cfg, err := LoadFrom(dir)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.MaxErrors)
		assert.Equal(t, path, cfg.Path)
	})

	t.Run("environment override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "other.yaml")
		require.NoError(t, os.WriteFile(path, []byte("extensions: [\".vpr\"]\n"), 0o644))
		t.Setenv(EnvConfig, path)

		cfg, err := LoadFrom(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, []string{".vpr"}, cfg.Extensions)
	})

	t.Run("missing override", func(t *testing.T) {
		t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := LoadFrom(t.TempDir())
		assert.ErrorContains(t, err, "read config")
	})
}
