package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileExclude(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		match   bool
	}{
		{"*.gobra", "list.gobra", true},
		{"*.gobra", "gen/list.gobra", false},
		{"**.gobra", "gen/list.gobra", true},
		{"gen/**", "gen/a/b.gobra", true},
		{"gen/*", "gen/a/b.gobra", false},
		{"{a,b}/*.gobra", "b/x.gobra", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			m, err := compileExclude(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.match, m.Match(tt.path))
		})
	}

	_, err := compileExclude("[")
	assert.Error(t, err)
}
