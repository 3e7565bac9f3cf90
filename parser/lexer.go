package parser

import (
	"unicode"
	"unicode/utf8"
)

// semiTriggers lists the tokens after which a line break ends the
// statement, following Go's rule extended to the verification tokens
// that may close a line.
var semiTriggers = map[TokenKind]bool{
	TokenIdent:            true,
	TokenIntLiteral:       true,
	TokenFloatLiteral:     true,
	TokenImagLiteral:      true,
	TokenCharLiteral:      true,
	TokenStringLiteral:    true,
	TokenRawStringLiteral: true,
	TokenBreak:            true,
	TokenContinue:         true,
	TokenFallthrough:      true,
	TokenReturn:           true,
	TokenIncrement:        true,
	TokenDecrement:        true,
	TokenRParen:           true,
	TokenRBracket:         true,
	TokenRBrace:           true,
	TokenRPred:            true,
	TokenTrue:             true,
	TokenFalse:            true,
	TokenNil:              true,
	TokenWritePerm:        true,
	TokenNoPerm:           true,
	TokenLhs:              true,
	TokenRequires:         true,
	TokenPreserves:        true,
	TokenEnsures:          true,
	TokenDecreases:        true,
	TokenPure:             true,
	TokenTrusted:          true,
	TokenOpaque:           true,
}

// InsertsSemicolon reports whether a line break after a token of the
// given kind ends the statement.
func InsertsSemicolon(kind TokenKind) bool {
	return semiTriggers[kind]
}

type Lexer struct {
	input      []byte
	file       string
	pos        int
	line       int
	column     int
	insertSemi bool
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) peekRune() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) advanceRune() {
	_, size := utf8.DecodeRune(l.input[l.pos:])
	l.pos += size
	l.column++
}

// NextToken returns the next token, including whitespace and comments.
// A semicolon with Implicit set is produced in place of a line break
// that follows a token in semiTriggers.
func (l *Lexer) NextToken() Token {
	tok := l.next()
	switch tok.Kind {
	case TokenWhitespace, TokenComment, TokenLineComment:
	default:
		l.insertSemi = !tok.Implicit && semiTriggers[tok.Kind]
	}
	return tok
}

func (l *Lexer) next() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		if l.insertSemi {
			return l.implicitSemi(startPos)
		}
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if l.insertSemi {
		if ch == '\n' {
			l.advance()
			return Token{
				Kind:     TokenSemicolon,
				Span:     Span{Start: startPos, End: l.Position()},
				Literal:  "\n",
				Implicit: true,
			}
		}
		if ch == '/' && l.peekN(1) == '*' && l.blockCommentHasNewline() {
			return l.implicitSemi(startPos)
		}
	}

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
		return l.scanWhitespace(startPos)
	}

	if isLetter(l.peekRune()) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))) {
		return l.scanNumber(startPos)
	}

	switch ch {
	case '\'':
		return l.scanQuoted(startPos, '\'', TokenCharLiteral)
	case '"':
		return l.scanQuoted(startPos, '"', TokenStringLiteral)
	case '`':
		return l.scanRawString(startPos)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) implicitSemi(start Position) Token {
	return Token{
		Kind:     TokenSemicolon,
		Span:     Span{Start: start, End: start},
		Literal:  "\n",
		Implicit: true,
	}
}

func (l *Lexer) blockCommentHasNewline() bool {
	for i := l.pos + 2; i+1 < len(l.input); i++ {
		if l.input[i] == '*' && l.input[i+1] == '/' {
			return false
		}
		if l.input[i] == '\n' {
			return true
		}
	}
	return true
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || (ch == '\n' && !l.insertSemi) {
			l.advance()
		} else {
			break
		}
	}
	end := l.Position()
	return Token{
		Kind:    TokenWhitespace,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	end := l.Position()
	return Token{
		Kind:    TokenLineComment,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for {
		if l.pos >= len(l.input) {
			break
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	end := l.Position()
	return Token{
		Kind:    TokenComment,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for l.pos < len(l.input) {
		r := l.peekRune()
		if !isLetter(r) && !unicode.IsDigit(r) {
			break
		}
		if r < utf8.RuneSelf {
			l.advance()
		} else {
			l.advanceRune()
		}
	}
	end := l.Position()
	literal := string(l.input[start.Offset:end.Offset])
	return Token{
		Kind:    LookupKeyword(literal),
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	kind := TokenIntLiteral
	if l.peek() == '0' {
		switch l.peekN(1) {
		case 'x', 'X':
			l.advanceN(2)
			for isHexDigit(l.peek()) || l.peek() == '_' {
				l.advance()
			}
			if l.peek() == '.' && l.peekN(1) != '.' {
				kind = TokenFloatLiteral
				l.advance()
				for isHexDigit(l.peek()) || l.peek() == '_' {
					l.advance()
				}
			}
			if l.peek() == 'p' || l.peek() == 'P' {
				kind = TokenFloatLiteral
				l.scanExponent()
			}
			return l.finishNumber(start, kind)
		case 'b', 'B', 'o', 'O':
			l.advanceN(2)
			for isHexDigit(l.peek()) || l.peek() == '_' {
				l.advance()
			}
			return l.finishNumber(start, kind)
		}
	}

	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}

	// "1..5" is a range, not a float followed by ".5"
	if l.peek() == '.' && l.peekN(1) != '.' {
		kind = TokenFloatLiteral
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		kind = TokenFloatLiteral
		l.scanExponent()
	}

	return l.finishNumber(start, kind)
}

func (l *Lexer) scanExponent() {
	l.advance()
	if l.peek() == '+' || l.peek() == '-' {
		l.advance()
	}
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
}

func (l *Lexer) finishNumber(start Position, kind TokenKind) Token {
	if l.peek() == 'i' {
		kind = TokenImagLiteral
		l.advance()
	}
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) scanQuoted(start Position, quote byte, kind TokenKind) Token {
	l.advance()
	for l.peek() != 0 && l.peek() != quote && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() == quote {
		l.advance()
	} else {
		kind = TokenError
	}
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) scanRawString(start Position) Token {
	l.advance()
	kind := TokenRawStringLiteral
	for l.pos < len(l.input) && l.peek() != '`' {
		l.advance()
	}
	if l.peek() == '`' {
		l.advance()
	} else {
		kind = TokenError
	}
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '{':
		l.advance()
		return l.token(TokenLBrace, start)
	case '}':
		l.advance()
		return l.token(TokenRBrace, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case '@':
		l.advance()
		return l.token(TokenAt, start)
	case '?':
		l.advance()
		return l.token(TokenQuestion, start)

	case '#':
		if l.peekN(1) == 'l' && l.peekN(2) == 'h' && l.peekN(3) == 's' && !isLetterByte(l.peekN(4)) {
			l.advanceN(4)
			return l.token(TokenLhs, start)
		}
		l.advance()
		return l.token(TokenMulti, start)

	case '.':
		if l.peekN(1) == '.' {
			if l.peekN(2) == '.' {
				l.advanceN(3)
				return l.token(TokenEllipsis, start)
			}
			l.advanceN(2)
			return l.token(TokenDotDot, start)
		}
		l.advance()
		return l.token(TokenDot, start)

	case ':':
		if l.peekN(1) == ':' {
			l.advanceN(2)
			return l.token(TokenColonColon, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenDefine, start)
		}
		l.advance()
		return l.token(TokenColon, start)

	case '=':
		if l.peekN(1) == '=' {
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenGhostEQ, start)
			}
			if l.peekN(2) == '>' {
				l.advanceN(3)
				return l.token(TokenImplies, start)
			}
			l.advanceN(2)
			return l.token(TokenEQ, start)
		}
		l.advance()
		return l.token(TokenAssign, start)

	case '!':
		switch l.peekN(1) {
		case '=':
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenGhostNE, start)
			}
			l.advanceN(2)
			return l.token(TokenNE, start)
		case '<':
			l.advanceN(2)
			return l.token(TokenLPred, start)
		case '>':
			l.advanceN(2)
			return l.token(TokenRPred, start)
		}
		l.advance()
		return l.token(TokenNot, start)

	case '<':
		if l.peekN(1) == '<' {
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenShlAssign, start)
			}
			l.advanceN(2)
			return l.token(TokenShl, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenLE, start)
		}
		if l.peekN(1) == '-' {
			l.advanceN(2)
			return l.token(TokenArrow, start)
		}
		l.advance()
		return l.token(TokenLT, start)

	case '>':
		if l.peekN(1) == '>' {
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenShrAssign, start)
			}
			l.advanceN(2)
			return l.token(TokenShr, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenGE, start)
		}
		l.advance()
		return l.token(TokenGT, start)

	case '&':
		switch l.peekN(1) {
		case '&':
			l.advanceN(2)
			return l.token(TokenAnd, start)
		case '^':
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenAndNotAssign, start)
			}
			l.advanceN(2)
			return l.token(TokenAndNot, start)
		case '=':
			l.advanceN(2)
			return l.token(TokenAndAssign, start)
		}
		l.advance()
		return l.token(TokenBitAnd, start)

	case '|':
		if l.peekN(1) == '|' {
			l.advanceN(2)
			return l.token(TokenOr, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenOrAssign, start)
		}
		l.advance()
		return l.token(TokenBitOr, start)

	case '^':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenXorAssign, start)
		}
		l.advance()
		return l.token(TokenBitXor, start)

	case '+':
		if l.peekN(1) == '+' {
			l.advanceN(2)
			return l.token(TokenIncrement, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenPlusAssign, start)
		}
		l.advance()
		return l.token(TokenPlus, start)

	case '-':
		if l.peekN(1) == '-' {
			if l.peekN(2) == '*' {
				l.advanceN(3)
				return l.token(TokenWand, start)
			}
			l.advanceN(2)
			return l.token(TokenDecrement, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenMinusAssign, start)
		}
		l.advance()
		return l.token(TokenMinus, start)

	case '*':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenStarAssign, start)
		}
		l.advance()
		return l.token(TokenStar, start)

	case '/':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenSlashAssign, start)
		}
		l.advance()
		return l.token(TokenSlash, start)

	case '%':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenPercentAssign, start)
		}
		l.advance()
		return l.token(TokenPercent, start)
	}

	if ch >= utf8.RuneSelf {
		l.advanceRune()
	} else {
		l.advance()
	}
	end := l.Position()
	return Token{
		Kind:    TokenError,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

// Tokenize lexes src completely, dropping whitespace and comments. The
// returned slice always ends with an EOF token.
func Tokenize(src []byte, file string) []Token {
	l := NewLexer(src, file)
	var toks []Token
	for {
		tok := l.NextToken()
		switch tok.Kind {
		case TokenWhitespace, TokenComment, TokenLineComment:
			continue
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks
		}
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isLetter(r rune) bool {
	if r < utf8.RuneSelf {
		return isLetterByte(byte(r))
	}
	return unicode.IsLetter(r)
}

func isLetterByte(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}
