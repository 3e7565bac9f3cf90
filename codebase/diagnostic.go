package codebase

import (
	"strings"

	"github.com/dhamidi/gobra/parser"
)

// Diagnostic is a syntax error located by 1-based line and column.
type Diagnostic struct {
	Start   parser.Position
	End     parser.Position
	Message string
}

// Diagnostics converts the syntax errors of a file. The range covers the
// offending token; an error at end of input has an empty range.
func (f *FileInfo) Diagnostics() []Diagnostic {
	diags := make([]Diagnostic, 0, len(f.Errors))
	for _, e := range f.Errors {
		end := e.Got.Span.End
		if e.Got.Kind == parser.TokenEOF || end.Line == 0 {
			end = e.Pos
		}
		diags = append(diags, Diagnostic{
			Start:   e.Pos,
			End:     end,
			Message: message(e),
		})
	}
	return diags
}

// message is the error text without the leading position.
func message(e *parser.SyntaxError) string {
	return strings.TrimPrefix(e.Error(), e.Pos.String()+": ")
}
