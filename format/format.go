// Package format renders parse trees and syntax errors for the gobra CLI.
package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/gobra/parser"
)

// Encoder writes a parse tree to an underlying writer.
type Encoder interface {
	Encode(node *parser.Node) error
	MarshalText(node *parser.Node) ([]byte, error)
}

// ForName returns the encoder selected by the --format flag.
func ForName(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "sexpr", "":
		return NewSExprEncoder(w), nil
	case "tree":
		return NewTreeEncoder(w, false), nil
	case "tree+pos":
		return NewTreeEncoder(w, true), nil
	case "json":
		return NewASTJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s (valid: sexpr, tree, tree+pos, json)", name)
}

func write(w io.Writer, text []byte, err error) error {
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
