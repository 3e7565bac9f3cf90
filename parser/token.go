package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	s := fmt.Sprintf("%d:%d", p.Line, p.Column)
	if p.File != "" {
		s = p.File + ":" + s
	}
	return s
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenImagLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenRawStringLiteral

	// Go keywords
	TokenBreak
	TokenCase
	TokenChan
	TokenConst
	TokenContinue
	TokenDefault
	TokenDefer
	TokenElse
	TokenFallthrough
	TokenFor
	TokenFunc
	TokenGo
	TokenGoto
	TokenIf
	TokenImport
	TokenInterface
	TokenMap
	TokenPackage
	TokenRange
	TokenReturn
	TokenSelect
	TokenStruct
	TokenSwitch
	TokenType
	TokenVar

	// Verification keywords
	TokenTrue
	TokenFalse
	TokenNil
	TokenAssert
	TokenAssume
	TokenInhale
	TokenExhale
	TokenRefute
	TokenRequires
	TokenPreserves
	TokenEnsures
	TokenInvariant
	TokenDecreases
	TokenPure
	TokenTrusted
	TokenOpaque
	TokenImplements
	TokenAs
	TokenOld
	TokenBefore
	TokenLhs
	TokenForall
	TokenExists
	TokenAcc
	TokenFold
	TokenUnfold
	TokenUnfolding
	TokenLet
	TokenGhost
	TokenIn
	TokenSubset
	TokenUnion
	TokenIntersection
	TokenSetminus
	TokenApply
	TokenSeq
	TokenSet
	TokenMset
	TokenDict
	TokenOption
	TokenLen
	TokenCap
	TokenNew
	TokenMake
	TokenSome
	TokenNone
	TokenGet
	TokenDomain
	TokenAxiom
	TokenAdt
	TokenMatch
	TokenPred
	TokenTypeOf
	TokenIsComparable
	TokenShare
	TokenWritePerm
	TokenNoPerm
	TokenOutline
	TokenInitEnsures
	TokenImportRequires
	TokenProof
	TokenWith

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenLPred
	TokenRPred
	TokenSemicolon
	TokenComma
	TokenDot
	TokenDotDot
	TokenEllipsis
	TokenColon
	TokenColonColon
	TokenAt
	TokenQuestion

	TokenAssign
	TokenDefine
	TokenEQ
	TokenNE
	TokenGhostEQ
	TokenGhostNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenImplies
	TokenWand
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenAndNot
	TokenShl
	TokenShr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenMulti
	TokenIncrement
	TokenDecrement
	TokenArrow
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenAndNotAssign
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:              "EOF",
	TokenError:            "Error",
	TokenWhitespace:       "Whitespace",
	TokenComment:          "Comment",
	TokenLineComment:      "LineComment",
	TokenIdent:            "Identifier",
	TokenIntLiteral:       "IntLiteral",
	TokenFloatLiteral:     "FloatLiteral",
	TokenImagLiteral:      "ImagLiteral",
	TokenCharLiteral:      "CharLiteral",
	TokenStringLiteral:    "StringLiteral",
	TokenRawStringLiteral: "RawStringLiteral",
	TokenBreak:            "break",
	TokenCase:             "case",
	TokenChan:             "chan",
	TokenConst:            "const",
	TokenContinue:         "continue",
	TokenDefault:          "default",
	TokenDefer:            "defer",
	TokenElse:             "else",
	TokenFallthrough:      "fallthrough",
	TokenFor:              "for",
	TokenFunc:             "func",
	TokenGo:               "go",
	TokenGoto:             "goto",
	TokenIf:               "if",
	TokenImport:           "import",
	TokenInterface:        "interface",
	TokenMap:              "map",
	TokenPackage:          "package",
	TokenRange:            "range",
	TokenReturn:           "return",
	TokenSelect:           "select",
	TokenStruct:           "struct",
	TokenSwitch:           "switch",
	TokenType:             "type",
	TokenVar:              "var",
	TokenTrue:             "true",
	TokenFalse:            "false",
	TokenNil:              "nil",
	TokenAssert:           "assert",
	TokenAssume:           "assume",
	TokenInhale:           "inhale",
	TokenExhale:           "exhale",
	TokenRefute:           "refute",
	TokenRequires:         "requires",
	TokenPreserves:        "preserves",
	TokenEnsures:          "ensures",
	TokenInvariant:        "invariant",
	TokenDecreases:        "decreases",
	TokenPure:             "pure",
	TokenTrusted:          "trusted",
	TokenOpaque:           "opaque",
	TokenImplements:       "implements",
	TokenAs:               "as",
	TokenOld:              "old",
	TokenBefore:           "before",
	TokenLhs:              "#lhs",
	TokenForall:           "forall",
	TokenExists:           "exists",
	TokenAcc:              "acc",
	TokenFold:             "fold",
	TokenUnfold:           "unfold",
	TokenUnfolding:        "unfolding",
	TokenLet:              "let",
	TokenGhost:            "ghost",
	TokenIn:               "in",
	TokenSubset:           "subset",
	TokenUnion:            "union",
	TokenIntersection:     "intersection",
	TokenSetminus:         "setminus",
	TokenApply:            "apply",
	TokenSeq:              "seq",
	TokenSet:              "set",
	TokenMset:             "mset",
	TokenDict:             "dict",
	TokenOption:           "option",
	TokenLen:              "len",
	TokenCap:              "cap",
	TokenNew:              "new",
	TokenMake:             "make",
	TokenSome:             "some",
	TokenNone:             "none",
	TokenGet:              "get",
	TokenDomain:           "domain",
	TokenAxiom:            "axiom",
	TokenAdt:              "adt",
	TokenMatch:            "match",
	TokenPred:             "pred",
	TokenTypeOf:           "typeOf",
	TokenIsComparable:     "isComparable",
	TokenShare:            "share",
	TokenWritePerm:        "writePerm",
	TokenNoPerm:           "noPerm",
	TokenOutline:          "outline",
	TokenInitEnsures:      "initEnsures",
	TokenImportRequires:   "importRequires",
	TokenProof:            "proof",
	TokenWith:             "with",
	TokenLParen:           "(",
	TokenRParen:           ")",
	TokenLBrace:           "{",
	TokenRBrace:           "}",
	TokenLBracket:         "[",
	TokenRBracket:         "]",
	TokenLPred:            "!<",
	TokenRPred:            "!>",
	TokenSemicolon:        ";",
	TokenComma:            ",",
	TokenDot:              ".",
	TokenDotDot:           "..",
	TokenEllipsis:         "...",
	TokenColon:            ":",
	TokenColonColon:       "::",
	TokenAt:               "@",
	TokenQuestion:         "?",
	TokenAssign:           "=",
	TokenDefine:           ":=",
	TokenEQ:               "==",
	TokenNE:               "!=",
	TokenGhostEQ:          "===",
	TokenGhostNE:          "!==",
	TokenLT:               "<",
	TokenLE:               "<=",
	TokenGT:               ">",
	TokenGE:               ">=",
	TokenAnd:              "&&",
	TokenOr:               "||",
	TokenNot:              "!",
	TokenImplies:          "==>",
	TokenWand:             "--*",
	TokenBitAnd:           "&",
	TokenBitOr:            "|",
	TokenBitXor:           "^",
	TokenAndNot:           "&^",
	TokenShl:              "<<",
	TokenShr:              ">>",
	TokenPlus:             "+",
	TokenMinus:            "-",
	TokenStar:             "*",
	TokenSlash:            "/",
	TokenPercent:          "%",
	TokenMulti:            "#",
	TokenIncrement:        "++",
	TokenDecrement:        "--",
	TokenArrow:            "<-",
	TokenPlusAssign:       "+=",
	TokenMinusAssign:      "-=",
	TokenStarAssign:       "*=",
	TokenSlashAssign:      "/=",
	TokenPercentAssign:    "%=",
	TokenAndAssign:        "&=",
	TokenOrAssign:         "|=",
	TokenXorAssign:        "^=",
	TokenShlAssign:        "<<=",
	TokenShrAssign:        ">>=",
	TokenAndNotAssign:     "&^=",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is a lexical token. Implicit is set on semicolons the lexer
// inserted at a line break; their Literal is "\n".
type Token struct {
	Kind     TokenKind
	Span     Span
	Literal  string
	Implicit bool
}

func (t Token) String() string {
	switch {
	case t.Kind == TokenEOF:
		return "EOF"
	case t.Implicit:
		return "newline"
	case t.Literal != "":
		return t.Literal
	}
	return t.Kind.String()
}

var keywords = map[string]TokenKind{
	"break":          TokenBreak,
	"case":           TokenCase,
	"chan":           TokenChan,
	"const":          TokenConst,
	"continue":       TokenContinue,
	"default":        TokenDefault,
	"defer":          TokenDefer,
	"else":           TokenElse,
	"fallthrough":    TokenFallthrough,
	"for":            TokenFor,
	"func":           TokenFunc,
	"go":             TokenGo,
	"goto":           TokenGoto,
	"if":             TokenIf,
	"import":         TokenImport,
	"interface":      TokenInterface,
	"map":            TokenMap,
	"package":        TokenPackage,
	"range":          TokenRange,
	"return":         TokenReturn,
	"select":         TokenSelect,
	"struct":         TokenStruct,
	"switch":         TokenSwitch,
	"type":           TokenType,
	"var":            TokenVar,
	"true":           TokenTrue,
	"false":          TokenFalse,
	"nil":            TokenNil,
	"assert":         TokenAssert,
	"assume":         TokenAssume,
	"inhale":         TokenInhale,
	"exhale":         TokenExhale,
	"refute":         TokenRefute,
	"requires":       TokenRequires,
	"preserves":      TokenPreserves,
	"ensures":        TokenEnsures,
	"invariant":      TokenInvariant,
	"decreases":      TokenDecreases,
	"pure":           TokenPure,
	"trusted":        TokenTrusted,
	"opaque":         TokenOpaque,
	"implements":     TokenImplements,
	"as":             TokenAs,
	"old":            TokenOld,
	"before":         TokenBefore,
	"forall":         TokenForall,
	"exists":         TokenExists,
	"acc":            TokenAcc,
	"fold":           TokenFold,
	"unfold":         TokenUnfold,
	"unfolding":      TokenUnfolding,
	"let":            TokenLet,
	"ghost":          TokenGhost,
	"in":             TokenIn,
	"subset":         TokenSubset,
	"union":          TokenUnion,
	"intersection":   TokenIntersection,
	"setminus":       TokenSetminus,
	"apply":          TokenApply,
	"seq":            TokenSeq,
	"set":            TokenSet,
	"mset":           TokenMset,
	"dict":           TokenDict,
	"option":         TokenOption,
	"len":            TokenLen,
	"cap":            TokenCap,
	"new":            TokenNew,
	"make":           TokenMake,
	"some":           TokenSome,
	"none":           TokenNone,
	"get":            TokenGet,
	"domain":         TokenDomain,
	"axiom":          TokenAxiom,
	"adt":            TokenAdt,
	"match":          TokenMatch,
	"pred":           TokenPred,
	"typeOf":         TokenTypeOf,
	"isComparable":   TokenIsComparable,
	"share":          TokenShare,
	"writePerm":      TokenWritePerm,
	"noPerm":         TokenNoPerm,
	"outline":        TokenOutline,
	"initEnsures":    TokenInitEnsures,
	"importRequires": TokenImportRequires,
	"proof":          TokenProof,
	"with":           TokenWith,
}

var operators = func() map[string]TokenKind {
	m := make(map[string]TokenKind)
	for kind, name := range tokenKindNames {
		r, _ := utf8.DecodeRuneInString(name)
		if kind > TokenRawStringLiteral && !unicode.IsLetter(r) {
			m[name] = kind
		}
	}
	return m
}()

// LookupOperator returns the punctuation token spelled lit, such as "!<"
// or "#lhs".
func LookupOperator(lit string) (TokenKind, bool) {
	kind, ok := operators[lit]
	return kind, ok
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
