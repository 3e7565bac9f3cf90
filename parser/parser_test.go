package parser

import (
	"errors"
	"strings"
	"testing"
)

const listSource = `package list

import (
	"fmt"
	m "math"
)

type List struct {
	head *node
	ghost size int
}

pred (l *List) mem() {
	acc(l) && acc(l.head)
}

requires l.mem()
ensures l.mem()
decreases
func (l *List) Push(v int) {
	unfold l.mem()
	l.head = &node{v, l.head}
	fold l.mem()
}

ghost
requires n >= 0
decreases n
pure func fib(n int) int {
	return n <= 1 ? n : fib(n-1) + fib(n-2)
}

func main() {
	fmt.Println(m.Pi)
}
`

func parseFile(t *testing.T, src string) (*Node, *Parser) {
	t.Helper()
	p := ParseSourceFile(strings.NewReader(src), WithFile("test.gobra"))
	node, err := p.Finish()
	if err != nil {
		t.Fatalf("ParseSourceFile: %v", err)
	}
	return node, p
}

func TestParseSourceFile(t *testing.T) {
	root, _ := parseFile(t, listSource)

	if root.Kind != KindSourceFile {
		t.Fatalf("root kind = %v, want %v", root.Kind, KindSourceFile)
	}

	var kinds []NodeKind
	for _, child := range root.Children {
		kinds = append(kinds, child.Kind)
	}
	expected := []NodeKind{
		KindPackageClause,
		KindImportDecl,
		KindTypeDecl,
		KindMPredicate,
		KindMethodDecl,
		KindGhostMember,
		KindFuncDecl,
	}
	if len(kinds) != len(expected) {
		t.Fatalf("got %v, want %v", kinds, expected)
	}
	for i := range kinds {
		if kinds[i] != expected[i] {
			t.Errorf("member %d: got %v, want %v", i, kinds[i], expected[i])
		}
	}

	imports := root.Children[1].ChildrenOfKind(KindImportSpec)
	if len(imports) != 2 {
		t.Errorf("got %d import specs, want 2", len(imports))
	}

	push := root.Children[4]
	spec := push.FirstChildOfKind(KindSpecification)
	if spec == nil {
		t.Fatal("Push has no specification")
	}
	if got, want := spec.SExpr(), "(Specification (Requires (Call (Selector l mem) (Args))) (Ensures (Call (Selector l mem) (Args))) (Decreases))"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	fib := root.Children[5].FirstChildOfKind(KindFuncDecl)
	if fib == nil {
		t.Fatal("ghost member has no function")
	}
	if !root.Children[5].Flags.Has(FlagGhost) {
		t.Error("ghost member should carry the ghost flag")
	}
	if !fib.Flags.Has(FlagPure) {
		t.Error("fib should be pure")
	}
}

func TestParseDeclarations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "function without body",
			input:    "package p\nfunc f(x int) int",
			expected: "(FuncDecl f (Signature (Parameters (Parameter (IdentList x) (TypeName int))) (Result (TypeName int))))",
		},
		{
			name:     "trusted on its own line",
			input:    "package p\ntrusted\nfunc f()",
			expected: "(FuncDecl[trusted] (Specification) f (Signature (Parameters)))",
		},
		{
			name:     "type alias",
			input:    "package p\ntype A = B",
			expected: "(TypeDecl (TypeSpec[alias] A (TypeName B)))",
		},
		{
			name:     "grouped vars",
			input:    "package p\nvar (\n\ta int\n\tb, c = 1, 2\n)",
			expected: "(VarDecl (VarSpec (IdentList a) (TypeName int)) (VarSpec (IdentList b c) (ExprList 1 2)))",
		},
		{
			name:     "grouped consts with iota",
			input:    "package p\nconst (\n\tA = iota\n\tB\n)",
			expected: "(ConstDecl (ConstSpec (IdentList A) (ExprList iota)) (ConstSpec (IdentList B)))",
		},
		{
			name:     "function predicate",
			input:    "package p\npred P(x *int) { acc(x) }",
			expected: "(FPredicate P (Parameters (Parameter (IdentList x) (PointerType (TypeName int)))) (PredicateBody (Access x)))",
		},
		{
			name:     "abstract predicate",
			input:    "package p\npred Q()",
			expected: "(FPredicate Q (Parameters))",
		},
		{
			name:  "implementation proof",
			input: "package p\n*T implements I {\n\tpred mem := (*T).inv\n\t(x *T) M() { return }\n}",
			expected: "(ImplementationProof (PointerType (TypeName T)) (TypeName I) " +
				"(PredicateAlias mem (Selector (ParenExpr (Unary * T)) inv)) " +
				"(MethodProof (Receiver x (PointerType (TypeName T))) M (Signature (Parameters)) (Body (ReturnStmt))))",
		},
		{
			name:     "body with share",
			input:    "package p\nfunc f(x int) {\n\tshare x\n}",
			expected: "(FuncDecl f (Signature (Parameters (Parameter (IdentList x) (TypeName int)))) (Body (Share (IdentList x))))",
		},
		{
			name:     "addressable receiver",
			input:    "package p\nfunc (r@ T) M() {}",
			expected: "(MethodDecl (Receiver (Ident[addressable] r) (TypeName T)) M (Signature (Parameters)) (Body))",
		},
		{
			name:     "ghost parameters",
			input:    "package p\nfunc f(ghost n int) (ghost r int)",
			expected: "(FuncDecl f (Signature (Parameters (Parameter[ghost] (IdentList n) (TypeName int))) (Result (Parameters (Parameter[ghost] (IdentList r) (TypeName int))))))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _ := parseFile(t, tt.input)
			if len(root.Children) != 2 {
				t.Fatalf("got %d members, want 2: %s", len(root.Children), root.SExpr())
			}
			if got := root.Children[1].SExpr(); got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestParseFileHeader(t *testing.T) {
	src := "initEnsures x > 0\npackage p\nimportRequires true\nimport (\n\timportRequires acc(m.X)\n\tm \"math\"\n)\n"
	root, _ := parseFile(t, src)
	expected := "(SourceFile (InitEnsures (Binary > x 0)) (PackageClause p) (ImportRequires true) " +
		"(ImportDecl (ImportSpec (ImportRequires (Access (Selector m X))) m \"math\")))"
	if got := root.SExpr(); got != expected {
		t.Errorf("got %s, want %s", got, expected)
	}
}

// stripGhost removes specifications, ghost members and ghost statements
// from a tree, leaving the ordinary program.
func stripGhost(n *Node) *Node {
	out := *n
	out.Flags &^= FlagPure | FlagTrusted | FlagOpaque
	out.Children = nil
	for _, child := range n.Children {
		switch child.Kind {
		case KindGhostMember, KindFPredicate, KindMPredicate, KindImplementationProof,
			KindSpecification, KindLoopSpec,
			KindGhostStmt, KindProofStmt, KindFoldStmt, KindOutlineStmt, KindPackageStmt, KindApplyStmt:
			continue
		}
		out.Children = append(out.Children, stripGhost(child))
	}
	return &out
}

func TestGhostSeparation(t *testing.T) {
	withGhost := `package p

ghost
requires n >= 0
pure func fib(n int) int {
	return n
}

pred P(x *int) {
	acc(x)
}

requires acc(x)
ensures acc(x)
func inc(x *int) {
	unfold P(x)
	*x = *x + 1
	assert *x > 0
	ghost y := 1
	invariant 0 <= i
	for i := 0; i < 3; i++ {
	}
	fold P(x)
}
`
	plain := `package p

func inc(x *int) {
	*x = *x + 1
	for i := 0; i < 3; i++ {
	}
}
`
	a, _ := parseFile(t, withGhost)
	b, _ := parseFile(t, plain)
	if got, want := stripGhost(a).SExpr(), b.SExpr(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		entry     Entry
		input     string
		kind      ErrorKind
		got       TokenKind
		line, col int
	}{
		{
			name:  "unmatched bracket",
			entry: EntryExpression,
			input: "(a]",
			kind:  ErrUnmatchedDelimiter,
			got:   TokenRBracket,
			line:  1, col: 3,
		},
		{
			name:  "unterminated block",
			entry: EntrySourceFile,
			input: "package p\n\nfunc f() {\n\tx := 1\n",
			kind:  ErrUnmatchedDelimiter,
			got:   TokenEOF,
			line:  5, col: 1,
		},
		{
			name:  "unknown leading token",
			entry: EntryStatement,
			input: ")",
			kind:  ErrUnexpectedToken,
			got:   TokenRParen,
			line:  1, col: 1,
		},
		{
			name:  "member expected",
			entry: EntrySourceFile,
			input: "package p\n\n+ x\n",
			kind:  ErrUnexpectedToken,
			got:   TokenPlus,
			line:  3, col: 1,
		},
		{
			name:  "missing operand",
			entry: EntryExpression,
			input: "a + * ",
			kind:  ErrUnexpectedToken,
			got:   TokenEOF,
			line:  1, col: 7,
		},
		{
			name:  "unfinished parenthesized operand",
			entry: EntryExpression,
			input: "(a +",
			kind:  ErrUnexpectedToken,
			got:   TokenEOF,
			line:  1, col: 5,
		},
		{
			name:  "missing operand in parens",
			entry: EntryExpression,
			input: "(a + )",
			kind:  ErrUnexpectedToken,
			got:   TokenRParen,
			line:  1, col: 6,
		},
		{
			name:  "trailing tokens",
			entry: EntryExpression,
			input: "a b",
			kind:  ErrUnexpectedToken,
			got:   TokenIdent,
			line:  1, col: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := Tokenize([]byte(tt.input), "")
			node, err := FromTokens(tt.entry, toks).Finish()
			if err == nil {
				t.Fatalf("expected error, got %s", node.SExpr())
			}
			if node != nil {
				t.Errorf("failed parse returned a tree: %s", node.SExpr())
			}
			var list ErrorList
			if !errors.As(err, &list) {
				t.Fatalf("error %T is not an ErrorList", err)
			}
			first := list[0]
			if first.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", first.Kind, tt.kind)
			}
			if first.Got.Kind != tt.got {
				t.Errorf("got token %v, want %v", first.Got.Kind, tt.got)
			}
			if first.Pos.Line != tt.line || first.Pos.Column != tt.col {
				t.Errorf("position = %d:%d, want %d:%d", first.Pos.Line, first.Pos.Column, tt.line, tt.col)
			}
		})
	}
}

func TestUnmatchedDelimiterOpener(t *testing.T) {
	_, err := ParseExpression(strings.NewReader("f(a, [b)")).Finish()
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("expected ErrorList, got %v", err)
	}
	e := list[0]
	if e.Opener == nil {
		t.Fatal("missing opener")
	}
	if e.Opener.Kind != TokenLBracket {
		t.Errorf("opener = %v, want %v", e.Opener.Kind, TokenLBracket)
	}
	if e.Opener.Span.Start.Column != 6 {
		t.Errorf("opener column = %d, want 6", e.Opener.Span.Start.Column)
	}
	if !strings.Contains(e.Error(), "opened at") {
		t.Errorf("message %q does not mention the opener", e.Error())
	}
}

func TestMultipleErrors(t *testing.T) {
	src := "package p\n\nfunc f() { x := }\n\nfunc g() { y := }\n\nfunc h() {}\n"
	_, err := ParseSourceFile(strings.NewReader(src)).Finish()
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("expected ErrorList, got %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(list), err)
	}
	if list[0].Pos.Line != 3 || list[1].Pos.Line != 5 {
		t.Errorf("error lines = %d, %d, want 3, 5", list[0].Pos.Line, list[1].Pos.Line)
	}

	_, err = ParseSourceFile(strings.NewReader(src), WithMaxErrors(1)).Finish()
	if !errors.As(err, &list) {
		t.Fatalf("expected ErrorList, got %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d errors with limit 1, want 1", len(list))
	}
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		entry    Entry
		input    string
		complete bool
	}{
		{EntryExpression, "1 + 2", true},
		{EntryExpression, "1 +", false},
		{EntryExpression, "f(", false},
		{EntryExpression, "(a]", true},
		{EntryExpression, "(a +", false},
		{EntryExpression, "(a + )", true},
		{EntryExpression, "f((a +", false},
		{EntryExpression, "seq[1 ..", false},
		{EntryStatement, "x := (a +", false},
		{EntryExpression, "", false},
		{EntryStatement, "if x {", false},
		{EntryStatement, "if x { y++ }", true},
		{EntryStatement, ")", true},
		{EntrySourceFile, "package p\nfunc f() {", false},
		{EntrySourceFile, "package p\nfunc f() {}", true},
	}

	for _, tt := range tests {
		t.Run(tt.entry.String()+"/"+tt.input, func(t *testing.T) {
			var p *Parser
			switch tt.entry {
			case EntryExpression:
				p = ParseExpression(strings.NewReader(tt.input))
			case EntryStatement:
				p = ParseStatement(strings.NewReader(tt.input))
			default:
				p = ParseSourceFile(strings.NewReader(tt.input))
			}
			if got := p.IsComplete(); got != tt.complete {
				t.Errorf("IsComplete() = %v, want %v", got, tt.complete)
			}
		})
	}
}

// checkRanges verifies that every child lies inside its parent and that
// siblings are ordered and never share a token.
func checkRanges(t *testing.T, n *Node) {
	t.Helper()
	prev := n.Range.Start
	for _, child := range n.Children {
		if child.Range.Start < prev || child.Range.End > n.Range.End || child.Range.Start > child.Range.End {
			t.Errorf("%v %v lies outside %v %v or overlaps a sibling", child.Kind, child.Range, n.Kind, n.Range)
		}
		prev = child.Range.End
		checkRanges(t, child)
	}
}

func TestTokenRanges(t *testing.T) {
	root, p := parseFile(t, listSource)
	toks := p.Tokens()
	if root.Range.Start != 0 || root.Range.End != len(toks)-1 {
		t.Errorf("root range = %v, want {0 %d}", root.Range, len(toks)-1)
	}
	if toks[len(toks)-1].Kind != TokenEOF {
		t.Errorf("last token = %v, want EOF", toks[len(toks)-1].Kind)
	}
	checkRanges(t, root)

	expr := parseExpr(t, "a.b[i].c(x) + 1")
	if expr.Range.Len() != 13 {
		t.Errorf("expression covers %d tokens, want 13", expr.Range.Len())
	}
	if want := (TokenInterval{Start: 0, End: 13}); expr.Range != want {
		t.Errorf("range = %v, want %v", expr.Range, want)
	}
	checkRanges(t, expr)
}

func TestFromTokens(t *testing.T) {
	src := "a.b[i].c(x)"
	toks := Tokenize([]byte(src), "")
	fromToks, err := FromTokens(EntryExpression, toks).Finish()
	if err != nil {
		t.Fatalf("FromTokens: %v", err)
	}
	direct := parseExpr(t, src)
	if fromToks.SExpr() != direct.SExpr() {
		t.Errorf("got %s, want %s", fromToks.SExpr(), direct.SExpr())
	}

	noEOF := []Token{{Kind: TokenIdent, Literal: "x"}}
	node, err := FromTokens(EntryExpression, noEOF).Finish()
	if err != nil {
		t.Fatalf("FromTokens without EOF: %v", err)
	}
	if node.SExpr() != "x" {
		t.Errorf("got %s, want x", node.SExpr())
	}
}

func TestComments(t *testing.T) {
	src := "package p // the package\n\n/* doc */\nfunc f() {}\n"
	p := ParseSourceFile(strings.NewReader(src), WithComments())
	if _, err := p.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if got := len(p.Comments()); got != 2 {
		t.Errorf("got %d comments, want 2", got)
	}

	p = ParseSourceFile(strings.NewReader(src))
	if _, err := p.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if got := len(p.Comments()); got != 0 {
		t.Errorf("got %d comments without WithComments, want 0", got)
	}
}

func TestNodeHelpers(t *testing.T) {
	node := parseExpr(t, "f(a, g(b))")

	var idents []string
	node.Walk(func(n *Node) bool {
		if n.Kind == KindIdent {
			idents = append(idents, n.TokenLiteral())
		}
		return true
	})
	if got := strings.Join(idents, ","); got != "f,a,g,b" {
		t.Errorf("got %s, want f,a,g,b", got)
	}

	if node.Child(5) != nil {
		t.Error("Child out of range should be nil")
	}
	if args := node.FirstChildOfKind(KindArguments); args == nil || len(args.Children) != 2 {
		t.Error("expected two arguments")
	}

	tree := node.String()
	if !strings.HasPrefix(tree, "Call\n  Ident f\n  Args\n") {
		t.Errorf("unexpected tree rendering:\n%s", tree)
	}
}
