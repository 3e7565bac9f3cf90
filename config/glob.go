package config

import "github.com/gobwas/glob"

// excludeMatcher matches slash-separated paths relative to the project
// root. "*" stays within one directory and "**" crosses directories.
type excludeMatcher struct {
	glob.Glob
}

func compileExclude(pattern string) (excludeMatcher, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return excludeMatcher{}, err
	}
	return excludeMatcher{g}, nil
}
