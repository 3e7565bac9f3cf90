package format

import (
	"io"

	"github.com/dhamidi/gobra/parser"
)

// TreeEncoder prints one node per line, indented by depth.
type TreeEncoder struct {
	w         io.Writer
	positions bool
}

func NewTreeEncoder(w io.Writer, positions bool) *TreeEncoder {
	return &TreeEncoder{w: w, positions: positions}
}

func (e *TreeEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	return write(e.w, text, err)
}

func (e *TreeEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	if e.positions {
		return []byte(node.StringWithPositions()), nil
	}
	return []byte(node.String()), nil
}

// SExprEncoder prints the whole tree on a single line.
type SExprEncoder struct {
	w io.Writer
}

func NewSExprEncoder(w io.Writer) *SExprEncoder {
	return &SExprEncoder{w: w}
}

func (e *SExprEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	return write(e.w, text, err)
}

func (e *SExprEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return []byte(node.SExpr() + "\n"), nil
}
