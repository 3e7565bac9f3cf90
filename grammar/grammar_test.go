package grammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/gobra/parser"
)

func TestReferenceGrammar(t *testing.T) {
	g, err := Load()
	if err != nil {
		for _, e := range Errors(err) {
			t.Error(e)
		}
		t.FailNow()
	}
	for _, name := range []string{"SourceFile", "Expression", "Statement", "Type", "Specification", "identifier"} {
		if g[name] == nil {
			t.Errorf("missing production %s", name)
		}
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		input string
		start string
		err   string
	}{
		{"valid", `A = "a" { B } . B = "b" .`, "A", ""},
		{"syntax only", `A = "a" . C = "c" .`, "", ""},
		{"unreachable", `A = "a" . C = "c" .`, "A", "unreachable"},
		{"missing", `A = B .`, "A", "missing production"},
		{"syntax error", `A = "a"`, "A", "parse grammar"},
		{"no start", `A = "a" .`, "S", "no start production"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Check("test.ebnf", strings.NewReader(tt.input), tt.start)
			if tt.err == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.err) {
				t.Fatalf("got %v, want error containing %q", err, tt.err)
			}
			if len(Errors(err)) == 0 {
				t.Error("Errors returned nothing")
			}
		})
	}
}

func TestErrors(t *testing.T) {
	if got := Errors(nil); got != nil {
		t.Errorf("Errors(nil) = %v", got)
	}
	plain := errors.New("plain")
	if got := Errors(plain); len(got) != 1 || got[0] != plain {
		t.Errorf("Errors(plain) = %v", got)
	}
}

func TestLexiconOperators(t *testing.T) {
	lx, err := DefaultLexicon()
	if err != nil {
		t.Fatal(err)
	}
	ops := lx.Operators()
	if ops[0] != "#lhs" {
		t.Errorf("longest operator = %q, want %q", ops[0], "#lhs")
	}
	have := make(map[string]bool)
	for i, op := range ops {
		have[op] = true
		if i > 0 && len(op) > len(ops[i-1]) {
			t.Errorf("operators not sorted by length at %q", op)
		}
	}
	for _, op := range []string{"!<", "!>", "&^=", "==>", "--*", "::", "...", "..", "@", "?", "#", ";"} {
		if !have[op] {
			t.Errorf("missing operator %q", op)
		}
	}
}

const scanSource = "package list\n\nimport \"fmt\"\n\n" +
	"// List is a linked list.\n" +
	"type List struct {\n\thead *node /* first */\n\tghost size int\n}\n\n" +
	"pred (l *List) mem() {\n\tacc(l) && acc(l.head, 1/2)\n}\n\n" +
	"requires l.mem() && n >= 0\n" +
	"ensures forall i int :: {s[i]} 0 <= i && i < len(s) ==> s[i] != nil\n" +
	"func (l *List) Push(v int, s seq[int]) (r int) {\n" +
	"\tx@ := 0x1F + 3.14 + .5 + 1e9 + 2i\n" +
	"\ts = s[1..5] ++ seq[int]{1, 2}\n" +
	"\tc := 'a'; t := \"a\\\"b\\n\"; u := `raw\nstring`\n" +
	"\tm := p!<x, _!>\n" +
	"\tfmt.Println(#lhs, x # s, old(v)) /* two\nlines */ x &^= 3\n" +
	"\treturn\n}"

func lexAll(src string) []parser.Token {
	l := parser.NewLexer([]byte(src), "scan.gobra")
	var toks []parser.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == parser.TokenEOF {
			return toks
		}
	}
}

func TestScannerMatchesLexer(t *testing.T) {
	lx, err := DefaultLexicon()
	if err != nil {
		t.Fatal(err)
	}

	tests := []string{
		"",
		"x\n",
		"a +\nb",
		"p!<x!>\n",
		"requires\nfunc",
		"x /* a\nb */ y",
		"x // trailing\ny",
		"1..5",
		scanSource,
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			want := lexAll(src)
			got := lx.NewScanner([]byte(src), "scan.gobra").Tokenize()
			if len(got) != len(want) {
				t.Fatalf("got %d tokens, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
			}
			for i := range want {
				g, w := got[i], want[i]
				if g.Kind != w.Kind || g.Literal != w.Literal || g.Implicit != w.Implicit {
					t.Fatalf("token %d: got %v %q, want %v %q", i, g.Kind, g.Literal, w.Kind, w.Literal)
				}
				if g.Span != w.Span {
					t.Errorf("token %d %q: span %v-%v, want %v-%v", i, w.Literal, g.Span.Start, g.Span.End, w.Span.Start, w.Span.End)
				}
			}
		})
	}
}

func TestScannerErrorToken(t *testing.T) {
	lx, err := DefaultLexicon()
	if err != nil {
		t.Fatal(err)
	}
	toks := lx.NewScanner([]byte("a $ b"), "").Tokenize()
	if toks[2].Kind != parser.TokenError || toks[2].Literal != "$" {
		t.Errorf("got %v %q, want error token $", toks[2].Kind, toks[2].Literal)
	}
}

func TestScannerFeedsParser(t *testing.T) {
	lx, err := DefaultLexicon()
	if err != nil {
		t.Fatal(err)
	}
	src := "package list\n\n" +
		"requires acc(l)\n" +
		"ensures res >= 0\n" +
		"func (l *List) Len() (res int) {\n" +
		"\tinvariant 0 <= i\n" +
		"\tfor i := 0; i < n; i++ { res += i }\n" +
		"\treturn\n}\n"

	want, err := parser.ParseSourceFile(strings.NewReader(src)).Finish()
	if err != nil {
		t.Fatal(err)
	}
	toks := lx.NewScanner([]byte(src), "").Tokenize()
	got, err := parser.FromTokens(parser.EntrySourceFile, toks).Finish()
	if err != nil {
		t.Fatal(err)
	}
	if got.SExpr() != want.SExpr() {
		t.Errorf("got %s\nwant %s", got.SExpr(), want.SExpr())
	}
}
