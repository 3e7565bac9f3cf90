package grammar

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/gobra/parser"
)

// lexemes maps the lexical productions the scanner tries at every position
// to the token they produce. Earlier entries win ties.
var lexemes = []struct {
	name string
	kind parser.TokenKind
}{
	{"white_space", parser.TokenWhitespace},
	{"line_comment", parser.TokenLineComment},
	{"general_comment", parser.TokenComment},
	{"identifier", parser.TokenIdent},
	{"int_lit", parser.TokenIntLiteral},
	{"float_lit", parser.TokenFloatLiteral},
	{"imaginary_lit", parser.TokenImagLiteral},
	{"rune_lit", parser.TokenCharLiteral},
	{"interpreted_string_lit", parser.TokenStringLiteral},
	{"raw_string_lit", parser.TokenRawStringLiteral},
}

// builtins match the lexical productions whose right-hand side is empty
// and described in prose. Each returns the match length or -1.
var builtins = map[string]func(input []byte, offset int) int{
	"unicode_letter": runeMatcher(unicode.IsLetter),
	"unicode_digit":  runeMatcher(unicode.IsDigit),
	"line_char":      runeMatcher(func(r rune) bool { return r != '\n' }),
	"rune_char":      runeMatcher(func(r rune) bool { return r != '\n' && r != '\'' && r != '\\' }),
	"string_char":    runeMatcher(func(r rune) bool { return r != '\n' && r != '"' && r != '\\' }),
	"raw_char":       runeMatcher(func(r rune) bool { return r != '`' }),
	"comment_text": func(input []byte, offset int) int {
		n := strings.Index(string(input[offset:]), "*/")
		if n < 0 {
			return -1
		}
		return n
	},
}

func runeMatcher(accept func(rune) bool) func([]byte, int) int {
	return func(input []byte, offset int) int {
		if offset >= len(input) {
			return -1
		}
		r, size := utf8.DecodeRune(input[offset:])
		if r == utf8.RuneError && size <= 1 {
			return -1
		}
		if !accept(r) {
			return -1
		}
		return size
	}
}

// Lexicon is the lexical part of a grammar: the lexeme productions and the
// punctuation spelled out in its syntactic productions.
type Lexicon struct {
	grammar   ebnf.Grammar
	operators []string // longest first
}

// NewLexicon extracts the lexicon of g. Every production named in lexemes
// must be present.
func NewLexicon(g ebnf.Grammar) (*Lexicon, error) {
	for _, lx := range lexemes {
		if _, ok := g[lx.name]; !ok {
			return nil, fmt.Errorf("grammar has no production %s", lx.name)
		}
	}

	seen := make(map[string]bool)
	var walk func(ebnf.Expression)
	walk = func(expr ebnf.Expression) {
		switch e := expr.(type) {
		case *ebnf.Token:
			if _, ok := parser.LookupOperator(e.String); ok {
				seen[e.String] = true
			}
		case ebnf.Sequence:
			for _, item := range e {
				walk(item)
			}
		case ebnf.Alternative:
			for _, alt := range e {
				walk(alt)
			}
		case *ebnf.Repetition:
			walk(e.Body)
		case *ebnf.Option:
			walk(e.Body)
		case *ebnf.Group:
			walk(e.Body)
		}
	}
	for _, prod := range g {
		if prod.Expr != nil {
			walk(prod.Expr)
		}
	}

	lx := &Lexicon{grammar: g}
	for op := range seen {
		lx.operators = append(lx.operators, op)
	}
	sort.Slice(lx.operators, func(i, j int) bool {
		a, b := lx.operators[i], lx.operators[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return lx, nil
}

var (
	lexiconOnce       sync.Once
	defaultLexicon    *Lexicon
	defaultLexiconErr error
)

// DefaultLexicon returns the lexicon of the reference grammar.
func DefaultLexicon() (*Lexicon, error) {
	g, err := Load()
	if err != nil {
		return nil, err
	}
	lexiconOnce.Do(func() {
		defaultLexicon, defaultLexiconErr = NewLexicon(g)
	})
	return defaultLexicon, defaultLexiconErr
}

// Operators returns the punctuation tokens of the lexicon, longest first.
func (lx *Lexicon) Operators() []string {
	return lx.operators
}

type memoKey struct {
	name   string
	offset int
}

// Scanner tokenizes input by matching the lexical productions of a
// grammar, taking the longest match at each position. It inserts
// semicolons at line breaks the same way parser.Lexer does.
type Scanner struct {
	lexicon    *Lexicon
	input      []byte
	file       string
	pos        int
	line       int
	column     int
	insertSemi bool
	memo       map[memoKey]int  // match length, -1 for no match
	visiting   map[memoKey]bool // cycle detection
}

func (lx *Lexicon) NewScanner(input []byte, file string) *Scanner {
	return &Scanner{
		lexicon:  lx,
		input:    input,
		file:     file,
		line:     1,
		column:   1,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
}

func (s *Scanner) Position() parser.Position {
	return parser.Position{
		File:   s.file,
		Offset: s.pos,
		Line:   s.line,
		Column: s.column,
	}
}

func (s *Scanner) advance(n int) {
	end := s.pos + n
	for s.pos < end {
		r, size := utf8.DecodeRune(s.input[s.pos:])
		s.pos += size
		if r == '\n' {
			s.line++
			s.column = 1
		} else {
			s.column++
		}
	}
}

// NextToken returns the next token, including whitespace and comments.
// At end of input it returns an EOF token.
func (s *Scanner) NextToken() parser.Token {
	tok := s.next()
	switch tok.Kind {
	case parser.TokenWhitespace, parser.TokenComment, parser.TokenLineComment:
	default:
		s.insertSemi = !tok.Implicit && parser.InsertsSemicolon(tok.Kind)
	}
	return tok
}

func (s *Scanner) next() parser.Token {
	start := s.Position()

	if s.pos >= len(s.input) {
		if s.insertSemi {
			return implicitSemi(start, start)
		}
		return parser.Token{Kind: parser.TokenEOF, Span: parser.Span{Start: start, End: start}}
	}

	if s.insertSemi && s.input[s.pos] == '\n' {
		s.advance(1)
		return implicitSemi(start, s.Position())
	}

	kind, n := s.longestMatch(s.pos)
	if n <= 0 {
		_, size := utf8.DecodeRune(s.input[s.pos:])
		kind, n = parser.TokenError, size
	}

	if s.insertSemi {
		text := s.input[s.pos : s.pos+n]
		switch kind {
		case parser.TokenWhitespace:
			if i := strings.IndexByte(string(text), '\n'); i >= 0 {
				n = i
			}
		case parser.TokenComment:
			if strings.IndexByte(string(text), '\n') >= 0 {
				return implicitSemi(start, start)
			}
		}
	}

	s.advance(n)
	end := s.Position()
	lit := string(s.input[start.Offset:end.Offset])
	if kind == parser.TokenIdent {
		kind = parser.LookupKeyword(lit)
	}
	return parser.Token{
		Kind:    kind,
		Span:    parser.Span{Start: start, End: end},
		Literal: lit,
	}
}

func implicitSemi(start, end parser.Position) parser.Token {
	return parser.Token{
		Kind:     parser.TokenSemicolon,
		Span:     parser.Span{Start: start, End: end},
		Literal:  "\n",
		Implicit: true,
	}
}

// longestMatch tries every lexeme production and operator at offset.
func (s *Scanner) longestMatch(offset int) (parser.TokenKind, int) {
	bestKind, bestLen := parser.TokenError, 0
	for _, lx := range lexemes {
		if n := s.matchName(lx.name, offset); n > bestLen {
			bestKind, bestLen = lx.kind, n
		}
	}
	for _, op := range s.lexicon.operators {
		if len(op) <= bestLen {
			break
		}
		if strings.HasPrefix(string(s.input[offset:]), op) {
			kind, _ := parser.LookupOperator(op)
			bestKind, bestLen = kind, len(op)
			break
		}
	}
	return bestKind, bestLen
}

// match attempts to match an expression at the given offset and returns
// the match length, or -1 if it does not match.
func (s *Scanner) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		if strings.HasPrefix(string(s.input[offset:]), e.String) {
			return len(e.String)
		}
		return -1

	case *ebnf.Range:
		if offset >= len(s.input) || len(e.Begin.String) != 1 || len(e.End.String) != 1 {
			return -1
		}
		ch := s.input[offset]
		if ch >= e.Begin.String[0] && ch <= e.End.String[0] {
			return 1
		}
		return -1

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := s.match(item, offset+total)
			if n < 0 {
				return -1
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := -1
		for _, alt := range e {
			if n := s.match(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := s.match(e.Body, offset+total)
			if n <= 0 {
				break
			}
			total += n
		}
		return total

	case *ebnf.Option:
		if n := s.match(e.Body, offset); n > 0 {
			return n
		}
		return 0

	case *ebnf.Group:
		return s.match(e.Body, offset)

	case *ebnf.Name:
		return s.matchName(e.String, offset)
	}
	return -1
}

// matchName matches a named production with memoization and cycle
// detection.
func (s *Scanner) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}

	if result, ok := s.memo[key]; ok {
		return result
	}

	// Left recursion at the same offset cannot make progress
	if s.visiting[key] {
		return -1
	}

	var result int
	prod := s.lexicon.grammar[name]
	switch {
	case prod == nil:
		result = -1
	case prod.Expr == nil:
		result = -1
		if fn, ok := builtins[name]; ok {
			result = fn(s.input, offset)
		}
	default:
		s.visiting[key] = true
		result = s.match(prod.Expr, offset)
		delete(s.visiting, key)
	}

	s.memo[key] = result
	return result
}

// Tokenize scans the whole input. The result includes whitespace and
// comments and ends with an EOF token; pass it to parser.FromTokens.
func (s *Scanner) Tokenize() []parser.Token {
	var tokens []parser.Token
	for {
		tok := s.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == parser.TokenEOF {
			return tokens
		}
	}
}
