package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gobra/grammar"
	"github.com/dhamidi/gobra/parser"
)

// readInput reads the file named by args[0], or standard input when there
// is no argument or it is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "<stdin>", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return data, args[0], nil
}

var entryNames = map[string]parser.Entry{
	"file":       parser.EntrySourceFile,
	"source":     parser.EntrySourceFile,
	"expr":       parser.EntryExpression,
	"expression": parser.EntryExpression,
	"stmt":       parser.EntryStatement,
	"statement":  parser.EntryStatement,
	"type":       parser.EntryType,
}

func parseEntry(name string) (parser.Entry, error) {
	if entry, ok := entryNames[name]; ok {
		return entry, nil
	}
	return 0, fmt.Errorf("unknown entry: %s (valid: file, expr, stmt, type)", name)
}

// tokenize lexes data with the selected lexer. The result includes
// whitespace and comments.
func tokenize(data []byte, file, lexer string) ([]parser.Token, error) {
	switch lexer {
	case "builtin", "":
		l := parser.NewLexer(data, file)
		var toks []parser.Token
		for {
			tok := l.NextToken()
			toks = append(toks, tok)
			if tok.Kind == parser.TokenEOF {
				return toks, nil
			}
		}
	case "grammar":
		lx, err := grammar.DefaultLexicon()
		if err != nil {
			return nil, err
		}
		return lx.NewScanner(data, file).Tokenize(), nil
	}
	return nil, fmt.Errorf("unknown lexer: %s (valid: builtin, grammar)", lexer)
}

func newParser(entry parser.Entry, data []byte, file, lexer string, opts ...parser.Option) (*parser.Parser, error) {
	opts = append([]parser.Option{parser.WithFile(file)}, opts...)
	if lexer == "builtin" || lexer == "" {
		return parser.New(entry, bytes.NewReader(data), opts...), nil
	}
	toks, err := tokenize(data, file, lexer)
	if err != nil {
		return nil, err
	}
	return parser.FromTokens(entry, toks, opts...), nil
}

// printSyntaxErrors writes one line per syntax error and returns how many
// it wrote. Other errors are written as they are.
func printSyntaxErrors(w io.Writer, err error) int {
	var errs parser.ErrorList
	if !errors.As(err, &errs) {
		fmt.Fprintln(w, err)
		return 1
	}
	for _, e := range errs {
		fmt.Fprintln(w, e)
	}
	return len(errs)
}
