package parser

// Binding powers for binary operators; higher binds tighter.
const (
	precImplements = 0
	precTernary    = 1
	precImplies    = 2
	precOr         = 3
	precAnd        = 4
	precRel        = 5
	precMember     = 6
	precSetOp      = 7
	precAdd        = 8
	precMul        = 9
)

var binaryPrec = map[TokenKind]int{
	TokenStar:         precMul,
	TokenSlash:        precMul,
	TokenPercent:      precMul,
	TokenShl:          precMul,
	TokenShr:          precMul,
	TokenBitAnd:       precMul,
	TokenAndNot:       precMul,
	TokenPlus:         precAdd,
	TokenMinus:        precAdd,
	TokenBitOr:        precAdd,
	TokenBitXor:       precAdd,
	TokenIncrement:    precAdd,
	TokenWand:         precAdd,
	TokenUnion:        precSetOp,
	TokenIntersection: precSetOp,
	TokenSetminus:     precSetOp,
	TokenIn:           precMember,
	TokenMulti:        precMember,
	TokenSubset:       precMember,
	TokenEQ:           precRel,
	TokenNE:           precRel,
	TokenLT:           precRel,
	TokenLE:           precRel,
	TokenGT:           precRel,
	TokenGE:           precRel,
	TokenGhostEQ:      precRel,
	TokenGhostNE:      precRel,
	TokenAnd:          precAnd,
	TokenOr:           precOr,
	TokenImplies:      precImplies,
}

func isAssignOp(kind TokenKind) bool {
	switch kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign,
		TokenSlashAssign, TokenPercentAssign, TokenAndAssign, TokenOrAssign,
		TokenXorAssign, TokenShlAssign, TokenShrAssign, TokenAndNotAssign:
		return true
	}
	return false
}

func isRelOp(kind TokenKind) bool {
	prec, ok := binaryPrec[kind]
	return ok && prec == precRel
}

func isSetOp(kind TokenKind) bool {
	switch kind {
	case TokenUnion, TokenIntersection, TokenSetminus:
		return true
	}
	return false
}

func isMembershipOp(kind TokenKind) bool {
	switch kind {
	case TokenIn, TokenMulti, TokenSubset:
		return true
	}
	return false
}

// isSeqTypeKeyword reports the keywords that open a ghost collection type.
func isSeqTypeKeyword(kind TokenKind) bool {
	switch kind {
	case TokenSeq, TokenSet, TokenMset, TokenDict, TokenOption:
		return true
	}
	return false
}

func isLiteralStart(kind TokenKind) bool {
	switch kind {
	case TokenIntLiteral, TokenFloatLiteral, TokenImagLiteral, TokenCharLiteral,
		TokenStringLiteral, TokenRawStringLiteral, TokenTrue, TokenFalse, TokenNil:
		return true
	}
	return false
}

func isOpener(kind TokenKind) bool {
	switch kind {
	case TokenLParen, TokenLBracket, TokenLBrace, TokenLPred:
		return true
	}
	return false
}

func isCloser(kind TokenKind) bool {
	switch kind {
	case TokenRParen, TokenRBracket, TokenRBrace, TokenRPred:
		return true
	}
	return false
}

var closerFor = map[TokenKind]TokenKind{
	TokenLParen:   TokenRParen,
	TokenLBracket: TokenRBracket,
	TokenLBrace:   TokenRBrace,
	TokenLPred:    TokenRPred,
}

func isUnaryOp(kind TokenKind) bool {
	switch kind {
	case TokenPlus, TokenMinus, TokenNot, TokenBitXor, TokenStar, TokenBitAnd, TokenArrow:
		return true
	}
	return false
}

func isProofKeyword(kind TokenKind) bool {
	switch kind {
	case TokenAssert, TokenAssume, TokenInhale, TokenExhale, TokenRefute:
		return true
	}
	return false
}

// isSpecKeyword reports the tokens that may begin a specification.
func isSpecKeyword(kind TokenKind) bool {
	switch kind {
	case TokenRequires, TokenPreserves, TokenEnsures, TokenDecreases,
		TokenPure, TokenTrusted, TokenOpaque:
		return true
	}
	return false
}

// isTypeLitStart reports the tokens that can only begin a type literal.
func isTypeLitStart(kind TokenKind) bool {
	switch kind {
	case TokenLBracket, TokenStruct, TokenMap, TokenChan, TokenInterface,
		TokenPred, TokenDomain, TokenAdt:
		return true
	}
	return isSeqTypeKeyword(kind)
}

func isTypeStart(kind TokenKind) bool {
	switch kind {
	case TokenIdent, TokenStar, TokenFunc, TokenLParen, TokenArrow, TokenGhost:
		return true
	}
	return isTypeLitStart(kind)
}

// isExprStart reports whether kind can begin an operand or a prefix
// expression.
func isExprStart(kind TokenKind) bool {
	if isLiteralStart(kind) || isUnaryOp(kind) || isTypeLitStart(kind) || isSpecKeyword(kind) {
		return true
	}
	switch kind {
	case TokenIdent, TokenLParen, TokenFunc,
		TokenNew, TokenMake, TokenLen, TokenCap, TokenRange,
		TokenAcc, TokenTypeOf, TokenType, TokenIsComparable, TokenOld, TokenBefore,
		TokenSome, TokenNone, TokenGet, TokenWritePerm, TokenNoPerm, TokenMatch,
		TokenForall, TokenExists, TokenLet, TokenUnfolding:
		return true
	}
	return false
}

// isMemberStart reports the tokens that start a top-level member; the
// whole-file driver stops skipping when it reaches one at nesting zero.
func isMemberStart(kind TokenKind) bool {
	switch kind {
	case TokenFunc, TokenType, TokenVar, TokenConst, TokenImport, TokenPred, TokenGhost:
		return true
	}
	return isSpecKeyword(kind)
}
