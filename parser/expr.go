package parser

func (p *Parser) parseExpression() *Node {
	return p.parseExprPrec(precImplements)
}

// binaryOp reports the binding power of the next token when it acts as a
// binary operator. "++" is concatenation only when an operand follows;
// otherwise it is the increment of an inc/dec statement.
func (p *Parser) binaryOp() (int, bool) {
	tok := p.peek()
	prec, ok := binaryPrec[tok.Kind]
	if !ok {
		return 0, false
	}
	switch tok.Kind {
	case TokenIncrement:
		if !isExprStart(p.peekN(1).Kind) {
			return 0, false
		}
	case TokenIn:
		if p.noIn {
			return 0, false
		}
	}
	return prec, true
}

// parseExprPrec is the precedence-climbing loop. It folds every binary
// operator binding at least as tight as minPrec into the left operand.
// Left-associative operators parse their right operand one level
// tighter; "==>" parses it at its own level. The ternary and the
// implements form have fixed levels below every binary operator.
func (p *Parser) parseExprPrec(minPrec int) *Node {
	x := p.parseUnary()
	for {
		if prec, ok := p.binaryOp(); ok && prec >= minPrec {
			node := p.startNodeAt(KindBinary, x)
			op := p.advance()
			node.Token = &op
			next := prec + 1
			if op.Kind == TokenImplies {
				next = prec
			}
			node.AddChild(p.parseExprPrec(next))
			x = p.finishNode(node)
			continue
		}

		switch {
		case p.check(TokenQuestion) && minPrec <= precTernary:
			node := p.startNodeAt(KindTernary, x)
			p.advance()
			node.AddChild(p.parseExprPrec(precImplements))
			p.expect(TokenColon)
			node.AddChild(p.parseExprPrec(precTernary))
			x = p.finishNode(node)
		case p.check(TokenImplements) && minPrec <= precImplements:
			node := p.startNodeAt(KindImplements, x)
			p.advance()
			node.AddChild(p.parseClosureSpecInstance())
			x = p.finishNode(node)
		default:
			return x
		}
	}
}

func (p *Parser) parseUnary() *Node {
	tok := p.peek()
	switch {
	case isUnaryOp(tok.Kind):
		node := p.startNode(KindUnary)
		op := p.advance()
		node.Token = &op
		node.AddChild(p.parseUnary())
		return p.finishNode(node)
	case tok.Kind == TokenForall || tok.Kind == TokenExists:
		return p.parseQuantifier()
	case tok.Kind == TokenLet:
		return p.parseLet()
	case tok.Kind == TokenUnfolding:
		return p.parseUnfolding()
	}
	return p.parsePrimaryExpr()
}

// parseQuantifier parses
//
//	forall x, y int, s seq[int] :: {trigger} {trigger} body
//
// The body extends as far right as possible.
func (p *Parser) parseQuantifier() *Node {
	node := p.startNode(KindQuantifier)
	tok := p.advance()
	node.Token = &tok

	for {
		node.AddChild(p.parseBoundVars())
		if !p.accept(TokenComma) || p.check(TokenColonColon) {
			break
		}
	}
	p.expect(TokenColonColon)

	for p.check(TokenLBrace) {
		node.AddChild(p.parseTrigger())
	}

	node.AddChild(p.parseExprPrec(precImplements))
	return p.finishNode(node)
}

func (p *Parser) parseBoundVars() *Node {
	node := p.startNode(KindBoundVars)
	node.AddChild(p.parseIdent())
	for p.accept(TokenComma) {
		node.AddChild(p.parseIdent())
	}
	node.AddChild(p.parseType())
	return p.finishNode(node)
}

func (p *Parser) parseTrigger() *Node {
	node := p.startNode(KindTrigger)
	p.open(TokenLBrace)
	p.nested(func() {
		node.AddChild(p.parseExpression())
		for p.accept(TokenComma) {
			node.AddChild(p.parseExpression())
		}
	})
	p.close(TokenRBrace)
	return p.finishNode(node)
}

// parseLet parses "let x := e in body". The in operator is unavailable at
// the top level of e; parenthesize to use it there.
func (p *Parser) parseLet() *Node {
	node := p.startNode(KindLet)
	p.expect(TokenLet)

	decl := p.startNode(KindShortVarDecl)
	decl.AddChild(p.parseMaybeAddressableIdentList())
	p.expect(TokenDefine)
	noIn := p.noIn
	p.noIn = true
	decl.AddChild(p.parseExprList())
	p.noIn = noIn
	node.AddChild(p.finishNode(decl))

	p.expect(TokenIn)
	node.AddChild(p.parseExprPrec(precImplements))
	return p.finishNode(node)
}

func (p *Parser) parseUnfolding() *Node {
	node := p.startNode(KindUnfolding)
	p.expect(TokenUnfolding)
	node.AddChild(p.parsePrimaryExpr())
	p.expect(TokenIn)
	node.AddChild(p.parseExprPrec(precImplements))
	return p.finishNode(node)
}

func (p *Parser) parseExprList() *Node {
	node := p.startNode(KindExprList)
	node.AddChild(p.parseExpression())
	for p.accept(TokenComma) {
		node.AddChild(p.parseExpression())
	}
	return p.finishNode(node)
}

func (p *Parser) parseIdentList() *Node {
	node := p.startNode(KindIdentList)
	node.AddChild(p.parseIdent())
	for p.accept(TokenComma) {
		node.AddChild(p.parseIdent())
	}
	return p.finishNode(node)
}

// parseMaybeAddressableIdentList parses identifiers that may carry the
// addressability marker, as in "x@, y := ...".
func (p *Parser) parseMaybeAddressableIdentList() *Node {
	node := p.startNode(KindIdentList)
	node.AddChild(p.parseMaybeAddressableIdent())
	for p.accept(TokenComma) {
		node.AddChild(p.parseMaybeAddressableIdent())
	}
	return p.finishNode(node)
}

func (p *Parser) parseMaybeAddressableIdent() *Node {
	node := p.startNode(KindIdent)
	tok := p.expect(TokenIdent)
	node.Token = &tok
	if p.accept(TokenAt) {
		node.Flags |= FlagAddressable
	}
	return p.finishNode(node)
}

// parseClosureSpecInstance parses "name", "pkg.name" or
// "name{k: v, ...}". The braced form is only taken where a composite
// literal would be.
func (p *Parser) parseClosureSpecInstance() *Node {
	node := p.startNode(KindClosureSpecInstance)
	name := p.parseIdent()
	if p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		sel := p.startNodeAt(KindSelector, name)
		p.advance()
		sel.AddChild(p.parseIdent())
		name = p.finishNode(sel)
	}
	node.AddChild(name)
	if p.check(TokenLBrace) && p.exprLev >= 0 {
		p.parseClosureSpecParams(node)
	}
	return p.finishNode(node)
}

func (p *Parser) parseClosureSpecParams(node *Node) {
	p.open(TokenLBrace)
	p.nested(func() {
		for !p.check(TokenRBrace) {
			param := p.startNode(KindClosureSpecParam)
			if p.check(TokenIdent) && p.peekN(1).Kind == TokenColon {
				param.AddChild(p.parseIdent())
				p.advance()
			}
			param.AddChild(p.parseExpression())
			node.AddChild(p.finishNode(param))
			if !p.accept(TokenComma) {
				break
			}
		}
	})
	p.close(TokenRBrace)
}
