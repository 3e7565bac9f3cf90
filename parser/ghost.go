package parser

// Spec holds the modifiers a specification attaches to the declaration
// it decorates.
type Spec struct {
	Pure    bool
	Trusted bool
	Opaque  bool
}

func (s Spec) Flags() Flag {
	var f Flag
	if s.Pure {
		f |= FlagPure
	}
	if s.Trusted {
		f |= FlagTrusted
	}
	if s.Opaque {
		f |= FlagOpaque
	}
	return f
}

// parseSpecification parses a sequence of requires, preserves, ensures
// and decreases clauses interleaved with the pure, trusted and opaque
// modifiers. Every clause ends with EOS; a modifier may also directly
// precede the declaration, as in "pure func f() int".
func (p *Parser) parseSpecification() (*Node, Spec) {
	node := p.startNode(KindSpecification)
	var spec Spec
	for {
		switch p.peek().Kind {
		case TokenRequires:
			node.AddChild(p.parseAssertionClause(KindRequires))
		case TokenPreserves:
			node.AddChild(p.parseAssertionClause(KindPreserves))
		case TokenEnsures:
			node.AddChild(p.parseAssertionClause(KindEnsures))
		case TokenDecreases:
			node.AddChild(p.parseDecreases())
		case TokenPure, TokenTrusted, TokenOpaque:
			switch p.advance().Kind {
			case TokenPure:
				spec.Pure = true
			case TokenTrusted:
				spec.Trusted = true
			case TokenOpaque:
				spec.Opaque = true
			}
			if !p.atEOS() {
				return p.finishNode(node), spec
			}
		default:
			return p.finishNode(node), spec
		}
		p.eos()
	}
}

// parseAssertionClause parses a clause keyword and its assertion, which
// may be empty.
func (p *Parser) parseAssertionClause(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	if !p.atEOS() {
		node.AddChild(p.parseExpression())
	}
	return p.finishNode(node)
}

// parseDecreases parses a termination measure "decreases [e, ...] [if c]".
func (p *Parser) parseDecreases() *Node {
	node := p.startNode(KindDecreases)
	p.expect(TokenDecreases)
	if !p.atEOS() && !p.check(TokenIf) {
		node.AddChild(p.parseExprList())
	}
	if p.check(TokenIf) {
		cond := p.startNode(KindDecreasesIf)
		p.advance()
		cond.AddChild(p.parseExpression())
		node.AddChild(p.finishNode(cond))
	}
	return p.finishNode(node)
}

// parseOutlineStmt parses "specification outline ( statements )".
func (p *Parser) parseOutlineStmt() *Node {
	node := p.startNode(KindOutlineStmt)
	spec, mods := p.parseSpecification()
	node.AddChild(spec)
	node.Flags |= mods.Flags()
	p.expect(TokenOutline)
	p.open(TokenLParen)
	p.nested(func() {
		p.parseStatementList(node, TokenRParen)
	})
	p.close(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseProofStmt() *Node {
	node := p.startNode(KindProofStmt)
	kw := p.advance()
	node.Token = &kw
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

func (p *Parser) parseFoldStmt() *Node {
	node := p.startNode(KindFoldStmt)
	kw := p.advance()
	node.Token = &kw
	node.AddChild(p.parsePrimaryExpr())
	return p.finishNode(node)
}

func (p *Parser) parseAccess() *Node {
	node := p.startNode(KindAccess)
	p.expect(TokenAcc)
	p.open(TokenLParen)
	p.nested(func() {
		node.AddChild(p.parseExpression())
		if p.accept(TokenComma) && !p.check(TokenRParen) {
			node.AddChild(p.parseExpression())
		}
	})
	p.close(TokenRParen)
	return p.finishNode(node)
}

// parseGhostCall parses the keyword forms applied to one parenthesized
// expression: typeOf, isComparable, before, some and get.
func (p *Parser) parseGhostCall(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	p.open(TokenLParen)
	p.nested(func() {
		node.AddChild(p.parseExpression())
	})
	p.close(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseTypeExpr() *Node {
	node := p.startNode(KindTypeExpr)
	p.expect(TokenType)
	p.open(TokenLBracket)
	p.nested(func() {
		node.AddChild(p.parseType())
	})
	p.close(TokenRBracket)
	return p.finishNode(node)
}

func (p *Parser) parseNone() *Node {
	node := p.startNode(KindNone)
	p.expect(TokenNone)
	p.open(TokenLBracket)
	p.nested(func() {
		node.AddChild(p.parseType())
	})
	p.close(TokenRBracket)
	return p.finishNode(node)
}

// parseOld parses "old(e)" and the labelled forms "old[l](e)" and
// "old[#lhs](e)".
func (p *Parser) parseOld() *Node {
	node := p.startNode(KindOld)
	p.expect(TokenOld)
	if p.check(TokenLBracket) {
		p.open(TokenLBracket)
		if p.check(TokenLhs) {
			node.AddChild(p.leaf(KindLhs, TokenLhs))
		} else {
			node.AddChild(p.parseIdent())
		}
		p.close(TokenRBracket)
	}
	p.open(TokenLParen)
	p.nested(func() {
		node.AddChild(p.parseExpression())
	})
	p.close(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseMatchStmt() *Node {
	node := p.startNode(KindMatchStmt)
	p.expect(TokenMatch)
	p.controlClause(func() {
		node.AddChild(p.parseExpression())
	})
	p.open(TokenLBrace)
	p.nested(func() {
		for !p.check(TokenRBrace) {
			if p.accept(TokenSemicolon) {
				continue
			}
			clause := p.startNode(KindMatchStmtClause)
			clause.AddChild(p.parseMatchCase())
			p.expect(TokenColon)
			p.parseStatementList(clause, TokenCase, TokenDefault, TokenRBrace)
			node.AddChild(p.finishNode(clause))
		}
	})
	p.close(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseMatchExpr() *Node {
	node := p.startNode(KindMatchExpr)
	p.expect(TokenMatch)
	p.controlClause(func() {
		node.AddChild(p.parseExpression())
	})
	p.open(TokenLBrace)
	p.nested(func() {
		for !p.check(TokenRBrace) {
			if p.accept(TokenSemicolon) {
				continue
			}
			clause := p.startNode(KindMatchExprClause)
			clause.AddChild(p.parseMatchCase())
			p.expect(TokenColon)
			clause.AddChild(p.parseExpression())
			node.AddChild(p.finishNode(clause))
			p.eos()
		}
	})
	p.close(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseMatchCase() *Node {
	if p.check(TokenDefault) {
		return p.leaf(KindDefault, TokenDefault)
	}
	if !p.accept(TokenCase) {
		p.fail("expected case or default", TokenCase, TokenDefault)
	}
	return p.parseMatchPattern()
}

// parseMatchPattern parses one of the three pattern shapes: a binder
// "?x", a composite "T{p1, p2}" or a value expression.
func (p *Parser) parseMatchPattern() *Node {
	if p.check(TokenQuestion) {
		node := p.startNode(KindPatternBind)
		p.advance()
		node.AddChild(p.parseIdent())
		return p.finishNode(node)
	}

	var node *Node
	if p.try(func() {
		typ := p.parseType()
		if !p.check(TokenLBrace) {
			p.fail("", TokenLBrace)
		}
		node = p.startNodeAt(KindPatternComposite, typ)
		p.open(TokenLBrace)
		p.nested(func() {
			for !p.check(TokenRBrace) {
				node.AddChild(p.parseMatchPattern())
				if !p.accept(TokenComma) {
					break
				}
			}
		})
		p.close(TokenRBrace)
		node = p.finishNode(node)
	}) {
		return node
	}

	node = p.startNode(KindPatternValue)
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

// parsePredicateDecl parses "pred p(x int) { body }" and the receiver
// form "pred (r *T) p() { body }". The body is optional.
func (p *Parser) parsePredicateDecl() *Node {
	node := p.startNode(KindFPredicate)
	p.expect(TokenPred)
	if p.check(TokenLParen) {
		node.Kind = KindMPredicate
		node.AddChild(p.parseReceiver())
	}
	node.AddChild(p.parseIdent())
	node.AddChild(p.parseParameters())
	if p.check(TokenLBrace) {
		body := p.startNode(KindPredicateBody)
		p.open(TokenLBrace)
		p.nested(func() {
			for p.accept(TokenSemicolon) {
			}
			body.AddChild(p.parseExpression())
			p.eos()
		})
		p.close(TokenRBrace)
		node.AddChild(p.finishNode(body))
	}
	return p.finishNode(node)
}

// parseImplementationProof parses
//
//	*T implements I {
//		pred mem := (*T).inv
//		(x *T) M(n int) int { ... }
//	}
func (p *Parser) parseImplementationProof() *Node {
	node := p.startNode(KindImplementationProof)
	node.AddChild(p.parseType())
	p.expect(TokenImplements)
	node.AddChild(p.parseType())
	if !p.check(TokenLBrace) {
		return p.finishNode(node)
	}

	p.open(TokenLBrace)
	p.nested(func() {
		for !p.check(TokenRBrace) {
			if p.accept(TokenSemicolon) {
				continue
			}
			if p.check(TokenPred) {
				alias := p.startNode(KindPredicateAlias)
				p.advance()
				alias.AddChild(p.parseIdent())
				p.expect(TokenDefine)
				alias.AddChild(p.parsePrimaryExpr())
				node.AddChild(p.finishNode(alias))
			} else {
				node.AddChild(p.parseMethodProof())
			}
			p.eos()
		}
	})
	p.close(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseMethodProof() *Node {
	node := p.startNode(KindMethodProof)
	if p.accept(TokenPure) {
		node.Flags |= FlagPure
	}
	node.AddChild(p.parseReceiver())
	node.AddChild(p.parseIdent())
	node.AddChild(p.parseSignature())
	if p.check(TokenLBrace) {
		node.AddChild(p.parseBody())
	}
	return p.finishNode(node)
}
