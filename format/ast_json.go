package format

import (
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/dhamidi/gobra/parser"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	return write(e.w, append(text, '\n'), err)
}

func (e *ASTJSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(node), "", "  ")
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Flags    []string       `json:"flags,omitempty"`
	Span     *astJSONSpan   `json:"span,omitempty"`
	Tokens   [2]int         `json:"tokens"`
	Token    string         `json:"token,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func nodeToJSON(n *parser.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind:   n.Kind.String(),
		Tokens: [2]int{n.Range.Start, n.Range.End},
	}

	if n.Flags != 0 {
		jn.Flags = strings.Split(n.Flags.String(), ",")
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		jn.Span = &astJSONSpan{
			Start: astJSONPosition{Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   astJSONPosition{Line: n.Span.End.Line, Column: n.Span.End.Column},
		}
	}

	if n.Token != nil {
		jn.Token = n.Token.Literal
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*astJSONNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = nodeToJSON(child)
		}
	}

	return jn
}

// ErrorsJSON renders syntax errors as a JSON array, one object per error.
func ErrorsJSON(errs parser.ErrorList) ([]byte, error) {
	out := make([]astJSONError, 0, len(errs))
	for _, e := range errs {
		je := astJSONError{
			Kind:    e.Kind.String(),
			File:    e.Pos.File,
			Line:    e.Pos.Line,
			Column:  e.Pos.Column,
			Message: e.Error(),
			Got:     e.Got.Literal,
		}
		for _, exp := range e.Expected {
			je.Expected = append(je.Expected, exp.String())
		}
		if e.Opener != nil {
			je.Opener = &astJSONPosition{Line: e.Opener.Span.Start.Line, Column: e.Opener.Span.Start.Column}
		}
		out = append(out, je)
	}
	return json.MarshalIndent(out, "", "  ")
}

type astJSONError struct {
	Kind     string           `json:"kind"`
	File     string           `json:"file,omitempty"`
	Line     int              `json:"line"`
	Column   int              `json:"column"`
	Message  string           `json:"message"`
	Got      string           `json:"got,omitempty"`
	Expected []string         `json:"expected,omitempty"`
	Opener   *astJSONPosition `json:"opener,omitempty"`
}
