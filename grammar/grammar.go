// Package grammar holds the reference EBNF grammar of Gobra and a scanner
// driven by its lexical productions.
package grammar

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"golang.org/x/exp/ebnf"
)

// Start is the production from which every other production is reachable.
const Start = "Gobra"

const FileName = "gobra.ebnf"

//go:embed gobra.ebnf
var source []byte

// Source returns the text of the reference grammar.
func Source() []byte {
	return source
}

// Parse reads a grammar written in the notation of the Go specification.
func Parse(filename string, r io.Reader) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// Check parses a grammar and verifies it from start. An empty start only
// checks the syntax.
func Check(filename string, r io.Reader, start string) (ebnf.Grammar, error) {
	g, err := Parse(filename, r)
	if err != nil {
		return nil, err
	}
	if start == "" {
		return g, nil
	}
	if err := ebnf.Verify(g, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

var (
	loadOnce sync.Once
	loaded   ebnf.Grammar
	loadErr  error
)

// Load parses and verifies the reference grammar. The result is shared.
func Load() (ebnf.Grammar, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Check(FileName, bytes.NewReader(source), Start)
	})
	return loaded, loadErr
}

// Errors splits an error returned by Parse, Check or Load into the
// individual grammar errors.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() != reflect.Slice {
			continue
		}
		errs := make([]error, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if item, ok := v.Index(i).Interface().(error); ok {
				errs = append(errs, item)
			}
		}
		return errs
	}
	return []error{err}
}
