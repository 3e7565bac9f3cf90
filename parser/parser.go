package parser

import "io"

const defaultMaxErrors = 10

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithMaxErrors bounds how many syntax errors the whole-file driver
// collects before giving up. Values below one mean one.
func WithMaxErrors(n int) Option {
	return func(p *Parser) {
		if n < 1 {
			n = 1
		}
		p.maxErrors = n
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

// Entry selects the rule a Parser starts from.
type Entry int

const (
	EntrySourceFile Entry = iota
	EntryExpression
	EntryStatement
	EntryType
)

var entryNames = map[Entry]string{
	EntrySourceFile: "SourceFile",
	EntryExpression: "Expression",
	EntryStatement:  "Statement",
	EntryType:       "Type",
}

func (e Entry) String() string {
	if name, ok := entryNames[e]; ok {
		return name
	}
	return "Unknown"
}

var entries = map[Entry]func(*Parser) *Node{
	EntryExpression: (*Parser).parseExpression,
	EntryStatement:  (*Parser).parseStatement,
	EntryType:       (*Parser).parseType,
}

type Parser struct {
	file            string
	maxErrors       int
	includeComments bool
	reader          io.Reader
	input           []byte
	pretokenized    bool
	tokens          []Token
	comments        []Token
	pos             int
	depth           int
	openers         []Token
	exprLev         int
	noIn            bool
	entry           Entry
	errors          ErrorList
	incomplete      bool
}

func newParser(entry Entry, r io.Reader, opts []Option) *Parser {
	p := &Parser{
		maxErrors: defaultMaxErrors,
		reader:    r,
		entry:     entry,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func ParseSourceFile(r io.Reader, opts ...Option) *Parser {
	return newParser(EntrySourceFile, r, opts)
}

func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(EntryExpression, r, opts)
}

func ParseStatement(r io.Reader, opts ...Option) *Parser {
	return newParser(EntryStatement, r, opts)
}

func ParseType(r io.Reader, opts ...Option) *Parser {
	return newParser(EntryType, r, opts)
}

// New returns a parser that starts from the given entry rule.
func New(entry Entry, r io.Reader, opts ...Option) *Parser {
	return newParser(entry, r, opts)
}

// FromTokens builds a parser over tokens produced by an external lexer.
// Whitespace and comment tokens are dropped and an EOF token is appended
// when missing.
func FromTokens(entry Entry, toks []Token, opts ...Option) *Parser {
	p := newParser(entry, nil, opts)
	p.pretokenized = true
	for _, tok := range toks {
		switch tok.Kind {
		case TokenWhitespace:
			continue
		case TokenComment, TokenLineComment:
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	if len(p.tokens) == 0 || p.tokens[len(p.tokens)-1].Kind != TokenEOF {
		var end Position
		if len(p.tokens) > 0 {
			end = p.tokens[len(p.tokens)-1].Span.End
		}
		p.tokens = append(p.tokens, Token{Kind: TokenEOF, Span: Span{Start: end, End: end}})
	}
	return p
}

func (p *Parser) Entry() Entry {
	return p.entry
}

// Tokens returns the token sequence the last parse ran over. Node ranges
// index into it.
func (p *Parser) Tokens() []Token {
	return p.tokens
}

func (p *Parser) Comments() []Token {
	return p.comments
}

func (p *Parser) readAll() error {
	if p.pretokenized || p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

func (p *Parser) prepare() {
	if !p.pretokenized {
		p.tokens = nil
		p.comments = nil
		p.tokenize()
	}
	p.pos = 0
	p.depth = 0
	p.openers = nil
	p.exprLev = 0
	p.noIn = false
	p.errors = nil
	p.incomplete = false
}

// IsComplete reports whether the input forms a whole unit for the entry
// rule, so that Finish would not be waiting on more input. Input that
// parses, or fails before its last token, is complete; "x +" and "f(" are
// not.
func (p *Parser) IsComplete() bool {
	if err := p.readAll(); err != nil {
		return false
	}
	if !p.pretokenized && len(p.input) == 0 {
		return false
	}
	p.prepare()
	p.run()
	return !p.incomplete
}

// Finish parses the input and returns the root node. Any syntax error
// yields a nil node together with an ErrorList.
func (p *Parser) Finish() (*Node, error) {
	if err := p.readAll(); err != nil {
		return nil, err
	}
	p.prepare()
	node := p.run()
	if err := p.errors.Err(); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) tokenize() {
	lexer := NewLexer(p.input, p.file)
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenWhitespace {
			continue
		}
		if tok.Kind == TokenComment || tok.Kind == TokenLineComment {
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

// run parses from the entry rule. Every entry rule must be followed by
// end of input; trailing line-break semicolons are allowed.
func (p *Parser) run() (node *Node) {
	if p.entry == EntrySourceFile {
		return p.parseSourceFile()
	}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			p.errors.Add(b.err)
			node = nil
		}
	}()
	parse, ok := entries[p.entry]
	if !ok {
		p.fail("unknown entry " + p.entry.String())
	}
	node = parse(p)
	for p.check(TokenSemicolon) && p.peek().Implicit {
		p.advance()
	}
	p.expect(TokenEOF)
	return node
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes a token of the given kind or fails the current rule.
func (p *Parser) expect(kind TokenKind) Token {
	tok := p.peek()
	if tok.Kind != kind {
		p.fail("", kind)
	}
	return p.advance()
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// accept consumes the next token if it has the given kind.
func (p *Parser) accept(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) fail(msg string, expected ...TokenKind) {
	tok := p.peek()
	if tok.Kind == TokenEOF {
		p.incomplete = true
	}
	panic(bailout{&SyntaxError{
		Kind:     ErrUnexpectedToken,
		Pos:      tok.Span.Start,
		Got:      tok,
		Expected: expected,
		Message:  msg,
	}})
}

// open consumes an opening delimiter and records it for EOS and for
// unmatched-delimiter reporting.
func (p *Parser) open(kind TokenKind) Token {
	tok := p.expect(kind)
	p.openers = append(p.openers, tok)
	p.depth++
	return tok
}

// close consumes the closer matching the innermost opener. Meeting end of
// input or a closer of another kind is an unmatched delimiter.
func (p *Parser) close(kind TokenKind) Token {
	tok := p.peek()
	if tok.Kind != kind {
		var opener *Token
		if n := len(p.openers); n > 0 {
			o := p.openers[n-1]
			opener = &o
		}
		if opener != nil && (tok.Kind == TokenEOF || isCloser(tok.Kind)) {
			if tok.Kind == TokenEOF {
				p.incomplete = true
			}
			panic(bailout{&SyntaxError{
				Kind:     ErrUnmatchedDelimiter,
				Pos:      tok.Span.Start,
				Got:      tok,
				Expected: []TokenKind{kind},
				Opener:   opener,
				Message:  "unmatched " + opener.Literal,
			}})
		}
		p.fail("", kind)
	}
	p.advance()
	p.openers = p.openers[:len(p.openers)-1]
	p.depth--
	return tok
}

// atEOS reports whether the next position terminates a statement or
// declaration: a semicolon, end of input, or a closing delimiter while
// inside brackets. It never consumes.
func (p *Parser) atEOS() bool {
	tok := p.peek()
	switch {
	case tok.Kind == TokenSemicolon, tok.Kind == TokenEOF:
		return true
	case isCloser(tok.Kind):
		return p.depth > 0
	}
	return false
}

func (p *Parser) eos() {
	if p.accept(TokenSemicolon) {
		return
	}
	if !p.atEOS() {
		p.fail("expected end of statement", TokenSemicolon)
	}
}

type parseState struct {
	pos        int
	depth      int
	openers    int
	exprLev    int
	noIn       bool
	incomplete bool
}

func (p *Parser) save() parseState {
	return parseState{
		pos:        p.pos,
		depth:      p.depth,
		openers:    len(p.openers),
		exprLev:    p.exprLev,
		noIn:       p.noIn,
		incomplete: p.incomplete,
	}
}

func (p *Parser) restore(s parseState) {
	p.pos = s.pos
	p.depth = s.depth
	p.openers = p.openers[:s.openers]
	p.exprLev = s.exprLev
	p.noIn = s.noIn
	p.incomplete = s.incomplete
}

// try runs fn speculatively. When fn fails with a syntax error the
// parser is restored to where it was and try returns false; nothing fn
// built escapes.
func (p *Parser) try(fn func()) bool {
	return p.attempt(fn) == nil
}

// attempt is try returning the syntax error fn failed with.
func (p *Parser) attempt(fn func()) (err *SyntaxError) {
	s := p.save()
	defer func() {
		if r := recover(); r != nil {
			b, isBailout := r.(bailout)
			if !isBailout {
				panic(r)
			}
			p.restore(s)
			err = b.err
		}
	}()
	fn()
	return nil
}

// either parses first, or second when first fails. When both fail, the
// error that got further is raised, and the input counts as incomplete
// if either alternative ran into end of input.
func (p *Parser) either(first, second func()) {
	err1 := p.attempt(first)
	if err1 == nil {
		return
	}
	err2 := p.attempt(second)
	if err2 == nil {
		return
	}
	if err1.Got.Kind == TokenEOF || err2.Got.Kind == TokenEOF {
		p.incomplete = true
	}
	panic(bailout{further(err1, err2)})
}

// further returns the error whose offending token comes later in the
// input, preferring a.
func further(a, b *SyntaxError) *SyntaxError {
	switch {
	case a.Got.Kind == TokenEOF:
		return a
	case b.Got.Kind == TokenEOF:
		return b
	case b.Pos.Offset > a.Pos.Offset:
		return b
	}
	return a
}

// nested runs fn with the expression level reset, as inside any pair of
// brackets: composite literals and the in operator are available again.
func (p *Parser) nested(fn func()) {
	lev, noIn := p.exprLev, p.noIn
	p.exprLev, p.noIn = 0, false
	fn()
	p.exprLev, p.noIn = lev, noIn
}

// controlClause runs fn with composite literals of named types disabled,
// so that the brace after an if, for or switch header opens the body.
func (p *Parser) controlClause(fn func()) {
	lev := p.exprLev
	p.exprLev = -1
	fn()
	p.exprLev = lev
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind:  kind,
		Span:  Span{Start: p.peek().Span.Start},
		Range: TokenInterval{Start: p.pos},
	}
}

// startNodeAt starts a node that begins where first begins, for
// left-recursive forms such as binary expressions and postfix suffixes.
func (p *Parser) startNodeAt(kind NodeKind, first *Node) *Node {
	n := &Node{
		Kind:  kind,
		Span:  Span{Start: first.Span.Start},
		Range: TokenInterval{Start: first.Range.Start},
	}
	n.AddChild(first)
	return n
}

func (p *Parser) finishNode(n *Node) *Node {
	n.Range.End = p.pos
	if p.pos > n.Range.Start && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else {
		n.Span.End = n.Span.Start
	}
	return n
}

// leaf consumes one token of the given kind into a childless node.
func (p *Parser) leaf(nodeKind NodeKind, tokKind TokenKind) *Node {
	node := p.startNode(nodeKind)
	tok := p.expect(tokKind)
	node.Token = &tok
	return p.finishNode(node)
}

// omitted marks an optional part that is absent, such as a missing slice
// bound. It covers no tokens.
func (p *Parser) omitted() *Node {
	return p.finishNode(p.startNode(KindEmpty))
}

func (p *Parser) parseIdent() *Node {
	return p.leaf(KindIdent, TokenIdent)
}
