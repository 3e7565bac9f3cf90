package parser

import "testing"

func lexKinds(input string) []TokenKind {
	var got []TokenKind
	for _, tok := range Tokenize([]byte(input), "test.gobra") {
		got = append(got, tok.Kind)
	}
	return got
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"package", []TokenKind{TokenPackage, TokenEOF}},
		{"x", []TokenKind{TokenIdent, TokenSemicolon, TokenEOF}},
		{"123", []TokenKind{TokenIntLiteral, TokenSemicolon, TokenEOF}},
		{"0x1F", []TokenKind{TokenIntLiteral, TokenSemicolon, TokenEOF}},
		{"3.14", []TokenKind{TokenFloatLiteral, TokenSemicolon, TokenEOF}},
		{".5", []TokenKind{TokenFloatLiteral, TokenSemicolon, TokenEOF}},
		{"1e9", []TokenKind{TokenFloatLiteral, TokenSemicolon, TokenEOF}},
		{"2i", []TokenKind{TokenImagLiteral, TokenSemicolon, TokenEOF}},
		{"1..5", []TokenKind{TokenIntLiteral, TokenDotDot, TokenIntLiteral, TokenSemicolon, TokenEOF}},
		{`"hello"`, []TokenKind{TokenStringLiteral, TokenSemicolon, TokenEOF}},
		{"`raw`", []TokenKind{TokenRawStringLiteral, TokenSemicolon, TokenEOF}},
		{"'a'", []TokenKind{TokenCharLiteral, TokenSemicolon, TokenEOF}},
		{"// comment\nfunc", []TokenKind{TokenFunc, TokenEOF}},
		{"/* block */ func", []TokenKind{TokenFunc, TokenEOF}},
		{"+ - * / %", []TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent, TokenEOF}},
		{"== != < <= > >=", []TokenKind{TokenEQ, TokenNE, TokenLT, TokenLE, TokenGT, TokenGE, TokenEOF}},
		{"=== !==", []TokenKind{TokenGhostEQ, TokenGhostNE, TokenEOF}},
		{"&& || !", []TokenKind{TokenAnd, TokenOr, TokenNot, TokenEOF}},
		{"==> --*", []TokenKind{TokenImplies, TokenWand, TokenEOF}},
		{"& &^ &^= | ^", []TokenKind{TokenBitAnd, TokenAndNot, TokenAndNotAssign, TokenBitOr, TokenBitXor, TokenEOF}},
		{"<< >> <<= >>=", []TokenKind{TokenShl, TokenShr, TokenShlAssign, TokenShrAssign, TokenEOF}},
		{":= = += :: :", []TokenKind{TokenDefine, TokenAssign, TokenPlusAssign, TokenColonColon, TokenColon, TokenEOF}},
		{"<-", []TokenKind{TokenArrow, TokenEOF}},
		{"... .. .", []TokenKind{TokenEllipsis, TokenDotDot, TokenDot, TokenEOF}},
		{"!< !>", []TokenKind{TokenLPred, TokenRPred, TokenSemicolon, TokenEOF}},
		{"# #lhs", []TokenKind{TokenMulti, TokenLhs, TokenSemicolon, TokenEOF}},
		{"@ ?", []TokenKind{TokenAt, TokenQuestion, TokenEOF}},
		{"requires acc(x)", []TokenKind{TokenRequires, TokenAcc, TokenLParen, TokenIdent, TokenRParen, TokenSemicolon, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := lexKinds(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"func", TokenFunc},
		{"ghost", TokenGhost},
		{"requires", TokenRequires},
		{"ensures", TokenEnsures},
		{"invariant", TokenInvariant},
		{"forall", TokenForall},
		{"unfolding", TokenUnfolding},
		{"seq", TokenSeq},
		{"mset", TokenMset},
		{"dict", TokenDict},
		{"option", TokenOption},
		{"typeOf", TokenTypeOf},
		{"isComparable", TokenIsComparable},
		{"writePerm", TokenWritePerm},
		{"initEnsures", TokenInitEnsures},
		{"importRequires", TokenImportRequires},
		{"outline", TokenOutline},
		{"range", TokenRange},
		{"foo", TokenIdent},
		{"größe", TokenIdent},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.gobra")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("got %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("literal = %q, want %q", tok.Literal, tt.input)
			}
		})
	}
}

func TestLexerSemicolonInsertion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenKind
	}{
		{
			name:     "after identifier",
			input:    "a\nb",
			expected: []TokenKind{TokenIdent, TokenSemicolon, TokenIdent, TokenSemicolon, TokenEOF},
		},
		{
			name:     "not after operator",
			input:    "a +\nb",
			expected: []TokenKind{TokenIdent, TokenPlus, TokenIdent, TokenSemicolon, TokenEOF},
		},
		{
			name:     "not after comma",
			input:    "f(a,\nb)",
			expected: []TokenKind{TokenIdent, TokenLParen, TokenIdent, TokenComma, TokenIdent, TokenRParen, TokenSemicolon, TokenEOF},
		},
		{
			name:     "after closing brace",
			input:    "}\nx",
			expected: []TokenKind{TokenRBrace, TokenSemicolon, TokenIdent, TokenSemicolon, TokenEOF},
		},
		{
			name:     "after predicate closer",
			input:    "p!<x!>\n",
			expected: []TokenKind{TokenIdent, TokenLPred, TokenIdent, TokenRPred, TokenSemicolon, TokenEOF},
		},
		{
			name:     "after empty requires",
			input:    "requires\nfunc",
			expected: []TokenKind{TokenRequires, TokenSemicolon, TokenFunc, TokenEOF},
		},
		{
			name:     "after pure",
			input:    "pure\nfunc",
			expected: []TokenKind{TokenPure, TokenSemicolon, TokenFunc, TokenEOF},
		},
		{
			name:     "line comment",
			input:    "x // trailing\ny",
			expected: []TokenKind{TokenIdent, TokenSemicolon, TokenIdent, TokenSemicolon, TokenEOF},
		},
		{
			name:     "block comment spanning lines",
			input:    "x /* a\nb */ y",
			expected: []TokenKind{TokenIdent, TokenSemicolon, TokenIdent, TokenSemicolon, TokenEOF},
		},
		{
			name:     "block comment on one line",
			input:    "x /* a */ + y",
			expected: []TokenKind{TokenIdent, TokenPlus, TokenIdent, TokenSemicolon, TokenEOF},
		},
		{
			name:     "blank lines",
			input:    "x\n\n\ny",
			expected: []TokenKind{TokenIdent, TokenSemicolon, TokenIdent, TokenSemicolon, TokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexKinds(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerImplicitSemicolon(t *testing.T) {
	toks := Tokenize([]byte("x\n"), "test.gobra")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3", len(toks))
	}
	semi := toks[1]
	if !semi.Implicit {
		t.Error("semicolon should be implicit")
	}
	if semi.Literal != "\n" {
		t.Errorf("literal = %q, want %q", semi.Literal, "\n")
	}
	if semi.String() != "newline" {
		t.Errorf("String() = %q, want %q", semi.String(), "newline")
	}

	explicit := Tokenize([]byte("x;"), "test.gobra")[1]
	if explicit.Implicit {
		t.Error("explicit semicolon marked implicit")
	}
}

func TestLexerPositions(t *testing.T) {
	toks := Tokenize([]byte("a\n  bc"), "pos.gobra")
	bc := toks[2]
	if bc.Literal != "bc" {
		t.Fatalf("got %q, want %q", bc.Literal, "bc")
	}
	if bc.Span.Start.Line != 2 || bc.Span.Start.Column != 3 {
		t.Errorf("start = %s, want 2:3", bc.Span.Start)
	}
	if bc.Span.End.Column != 5 {
		t.Errorf("end column = %d, want 5", bc.Span.End.Column)
	}
	if bc.Span.Start.File != "pos.gobra" {
		t.Errorf("file = %q, want %q", bc.Span.Start.File, "pos.gobra")
	}
	if got := bc.Span.Start.String(); got != "pos.gobra:2:3" {
		t.Errorf("String() = %q, want %q", got, "pos.gobra:2:3")
	}
}

func TestLexerErrorToken(t *testing.T) {
	tests := []string{`"unterminated`, "`raw", "$"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			toks := Tokenize([]byte(input), "test.gobra")
			if toks[0].Kind != TokenError {
				t.Errorf("got %v, want %v", toks[0].Kind, TokenError)
			}
		})
	}
}
