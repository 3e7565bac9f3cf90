package parser

import (
	"fmt"
	"strings"
)

type ErrorKind int

const (
	// ErrUnexpectedToken means no alternative of the current rule accepts
	// the next token.
	ErrUnexpectedToken ErrorKind = iota
	// ErrUnmatchedDelimiter means an opening bracket met end of input or a
	// closer of another kind.
	ErrUnmatchedDelimiter
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrUnmatchedDelimiter:
		return "unmatched delimiter"
	}
	return "Unknown"
}

type SyntaxError struct {
	Kind     ErrorKind
	Pos      Position
	Got      Token
	Expected []TokenKind
	Opener   *Token
	Message  string
}

func (e *SyntaxError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Pos.String())
	sb.WriteString(": ")
	if e.Message != "" {
		sb.WriteString(e.Message)
	} else {
		sb.WriteString(e.Kind.String())
	}
	fmt.Fprintf(&sb, ", got %s", e.Got)
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, kind := range e.Expected {
			names[i] = kind.String()
		}
		fmt.Fprintf(&sb, ", expected %s", strings.Join(names, " or "))
	}
	if e.Opener != nil {
		fmt.Fprintf(&sb, " (opened at %s)", e.Opener.Span.Start)
	}
	return sb.String()
}

// ErrorList collects the syntax errors of one parse in source order.
type ErrorList []*SyntaxError

func (l *ErrorList) Add(err *SyntaxError) {
	*l = append(*l, err)
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns nil for an empty list and the list itself otherwise.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// bailout carries a syntax error up to the nearest try or entry point.
type bailout struct {
	err *SyntaxError
}
