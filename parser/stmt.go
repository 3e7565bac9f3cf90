package parser

func (p *Parser) parseStatement() *Node {
	tok := p.peek()
	switch {
	case isProofKeyword(tok.Kind):
		return p.parseProofStmt()
	case tok.Kind == TokenDecreases:
		var node *Node
		if p.try(func() { node = p.parseSpecForStmt() }) {
			return node
		}
		return p.parseOutlineStmt()
	case isSpecKeyword(tok.Kind):
		return p.parseOutlineStmt()
	}

	switch tok.Kind {
	case TokenGhost:
		node := p.startNode(KindGhostStmt)
		p.advance()
		node.AddChild(p.parseStatement())
		return p.finishNode(node)
	case TokenFold, TokenUnfold:
		return p.parseFoldStmt()
	case TokenMatch:
		return p.parseMatchStmt()
	case TokenInvariant:
		return p.parseSpecForStmt()
	case TokenPackage:
		return p.parsePackageStmt()
	case TokenApply:
		node := p.startNode(KindApplyStmt)
		p.advance()
		node.AddChild(p.parseExpression())
		return p.finishNode(node)
	case TokenConst, TokenType, TokenVar:
		return p.parseDecl()
	case TokenGo:
		node := p.startNode(KindGoStmt)
		p.advance()
		node.AddChild(p.parseExpression())
		return p.finishNode(node)
	case TokenDefer:
		return p.parseDeferStmt()
	case TokenReturn:
		node := p.startNode(KindReturnStmt)
		p.advance()
		if !p.atEOS() {
			node.AddChild(p.parseExprList())
		}
		return p.finishNode(node)
	case TokenBreak, TokenContinue:
		kind := KindBreakStmt
		if tok.Kind == TokenContinue {
			kind = KindContinueStmt
		}
		node := p.startNode(kind)
		p.advance()
		if p.check(TokenIdent) {
			node.AddChild(p.parseIdent())
		}
		return p.finishNode(node)
	case TokenGoto:
		node := p.startNode(KindGotoStmt)
		p.advance()
		node.AddChild(p.parseIdent())
		return p.finishNode(node)
	case TokenFallthrough:
		node := p.startNode(KindFallthroughStmt)
		p.advance()
		return p.finishNode(node)
	case TokenLBrace:
		return p.parseBlock()
	case TokenIf:
		return p.parseIfStmt()
	case TokenSwitch:
		return p.parseSwitchStmt()
	case TokenSelect:
		return p.parseSelectStmt()
	case TokenFor:
		return p.parseForStmt(nil)
	case TokenProof:
		return p.parseClosureImplProof()
	case TokenIdent:
		if p.peekN(1).Kind == TokenColon {
			return p.parseLabeledStmt()
		}
	}

	if !isExprStart(tok.Kind) {
		p.fail("expected statement")
	}
	return p.parseSimpleStmt(false)
}

func (p *Parser) parseLabeledStmt() *Node {
	node := p.startNode(KindLabeledStmt)
	node.AddChild(p.parseIdent())
	p.expect(TokenColon)
	if !p.atEOS() {
		node.AddChild(p.parseStatement())
	}
	return p.finishNode(node)
}

func (p *Parser) parseBlock() *Node {
	node := p.startNode(KindBlock)
	p.open(TokenLBrace)
	p.nested(func() {
		p.parseStatementList(node, TokenRBrace)
	})
	p.close(TokenRBrace)
	return p.finishNode(node)
}

// parseBody parses a function body, which may begin with the share
// clause "share x, y".
func (p *Parser) parseBody() *Node {
	node := p.startNode(KindBody)
	p.open(TokenLBrace)
	p.nested(func() {
		for p.accept(TokenSemicolon) {
		}
		if p.check(TokenShare) {
			share := p.startNode(KindShare)
			p.advance()
			share.AddChild(p.parseIdentList())
			node.AddChild(p.finishNode(share))
			p.eos()
		}
		p.parseStatementList(node, TokenRBrace)
	})
	p.close(TokenRBrace)
	return p.finishNode(node)
}

// parseStatementList adds statements to node until one of the stop
// tokens or end of input. Each statement must be followed by EOS; empty
// statements are skipped.
func (p *Parser) parseStatementList(node *Node, stop ...TokenKind) {
	for !p.check(TokenEOF) && !p.match(stop...) {
		if p.accept(TokenSemicolon) {
			continue
		}
		node.AddChild(p.parseStatement())
		if p.match(stop...) {
			break
		}
		p.eos()
	}
}

// parseSimpleStmt parses the statements that begin with an expression
// list. The list is parsed once and the token after it picks the shape.
// With rangeOk a range clause is accepted as well.
func (p *Parser) parseSimpleStmt(rangeOk bool) *Node {
	if rangeOk && p.check(TokenRange) {
		return p.parseRangeClause(nil, nil)
	}

	if p.check(TokenIdent) {
		var names *Node
		if p.try(func() {
			names = p.parseMaybeAddressableIdentList()
			if !p.check(TokenDefine) {
				p.fail("", TokenDefine)
			}
		}) {
			op := p.advance()
			if rangeOk && p.check(TokenRange) {
				return p.parseRangeClause(names, &op)
			}
			node := p.startNodeAt(KindShortVarDecl, names)
			node.Token = &op
			node.AddChild(p.parseExprList())
			return p.finishNode(node)
		}
	}

	lhs := p.parseExprList()
	tok := p.peek()
	switch {
	case isAssignOp(tok.Kind):
		op := p.advance()
		if rangeOk && op.Kind == TokenAssign && p.check(TokenRange) {
			return p.parseRangeClause(lhs, &op)
		}
		node := p.startNodeAt(KindAssignment, lhs)
		node.Token = &op
		node.AddChild(p.parseExprList())
		return p.finishNode(node)
	case tok.Kind == TokenDefine:
		p.fail("non-name on left side of :=")
	}

	if len(lhs.Children) > 1 {
		p.fail("expected assignment", TokenAssign, TokenDefine)
	}
	x := lhs.Children[0]

	switch tok.Kind {
	case TokenArrow:
		node := p.startNodeAt(KindSendStmt, x)
		p.advance()
		node.AddChild(p.parseExpression())
		return p.finishNode(node)
	case TokenIncrement, TokenDecrement:
		node := p.startNodeAt(KindIncDecStmt, x)
		op := p.advance()
		node.Token = &op
		return p.finishNode(node)
	}

	node := p.startNodeAt(KindExprStmt, x)
	return p.finishNode(node)
}

// parseRangeClause parses "range e [with i]"; lhs and op are the part
// before range when present.
func (p *Parser) parseRangeClause(lhs *Node, op *Token) *Node {
	var node *Node
	if lhs != nil {
		node = p.startNodeAt(KindRangeClause, lhs)
		node.Token = op
	} else {
		node = p.startNode(KindRangeClause)
	}
	p.expect(TokenRange)
	node.AddChild(p.parseExpression())
	if p.check(TokenWith) {
		with := p.startNode(KindIdent)
		p.advance()
		if p.check(TokenIdent) {
			tok := p.advance()
			with.Token = &tok
		}
		node.AddChild(p.finishNode(with))
	}
	return p.finishNode(node)
}

func (p *Parser) parseIfStmt() *Node {
	node := p.startNode(KindIfStmt)
	p.expect(TokenIf)
	p.controlClause(func() {
		var init *Node
		if !p.check(TokenSemicolon) || p.peek().Implicit {
			init = p.parseSimpleStmt(false)
		}
		if p.check(TokenSemicolon) && !p.peek().Implicit {
			p.advance()
			if init == nil {
				init = p.omitted()
			}
			node.AddChild(init)
			node.AddChild(p.parseExpression())
			return
		}
		node.AddChild(p.condition(init))
	})
	node.AddChild(p.parseBlock())
	if p.accept(TokenElse) {
		switch p.peek().Kind {
		case TokenIf:
			node.AddChild(p.parseIfStmt())
		case TokenLBrace:
			node.AddChild(p.parseBlock())
		default:
			p.fail("expected if statement or block", TokenIf, TokenLBrace)
		}
	}
	return p.finishNode(node)
}

// condition unwraps the expression of a header statement that must be a
// plain expression.
func (p *Parser) condition(s *Node) *Node {
	if s.Kind != KindExprStmt {
		p.fail("expected condition, found " + s.Kind.String())
	}
	return s.Children[0]
}

func (p *Parser) parseSwitchStmt() *Node {
	node := p.startNode(KindSwitchStmt)
	p.expect(TokenSwitch)

	var init, tag *Node
	p.controlClause(func() {
		if p.check(TokenLBrace) {
			return
		}
		if !p.check(TokenSemicolon) {
			tag = p.parseSimpleStmt(false)
		}
		if p.check(TokenSemicolon) && !p.peek().Implicit {
			p.advance()
			init, tag = tag, nil
			if init == nil {
				init = p.omitted()
			}
			if !p.check(TokenLBrace) {
				tag = p.parseSimpleStmt(false)
			}
		}
	})

	typeSwitch := isTypeSwitchGuard(tag)
	if typeSwitch {
		node.Kind = KindTypeSwitchStmt
	}
	node.AddChild(init)
	if tag != nil {
		if typeSwitch {
			node.AddChild(tag)
		} else {
			node.AddChild(p.condition(tag))
		}
	}

	p.open(TokenLBrace)
	p.nested(func() {
		for !p.check(TokenRBrace) {
			if p.accept(TokenSemicolon) {
				continue
			}
			node.AddChild(p.parseCaseClause(typeSwitch))
		}
	})
	p.close(TokenRBrace)
	return p.finishNode(node)
}

func isTypeSwitchGuard(s *Node) bool {
	if s == nil {
		return false
	}
	switch s.Kind {
	case KindExprStmt:
		return isTypeSwitchAssert(s.Children[0])
	case KindShortVarDecl:
		names, values := s.Children[0], s.Children[1]
		return len(names.Children) == 1 && len(values.Children) == 1 &&
			isTypeSwitchAssert(values.Children[0])
	}
	return false
}

func isTypeSwitchAssert(x *Node) bool {
	return x.Kind == KindTypeAssert && x.Children[1].Kind == KindTypeKeyword
}

func (p *Parser) parseCaseClause(typeSwitch bool) *Node {
	node := p.startNode(KindCaseClause)
	switch {
	case p.check(TokenDefault):
		node.AddChild(p.leaf(KindDefault, TokenDefault))
	case p.accept(TokenCase):
		if typeSwitch {
			node.AddChild(p.parseTypeList())
		} else {
			node.AddChild(p.parseExprList())
		}
	default:
		p.fail("expected case or default", TokenCase, TokenDefault)
	}
	p.expect(TokenColon)
	p.parseStatementList(node, TokenCase, TokenDefault, TokenRBrace)
	return p.finishNode(node)
}

// parseTypeList parses the types of a type switch case, where nil stands
// for the nil interface value.
func (p *Parser) parseTypeList() *Node {
	node := p.startNode(KindExprList)
	for {
		if p.check(TokenNil) {
			lit := p.startNode(KindBasicLit)
			tok := p.advance()
			lit.Token = &tok
			node.AddChild(p.finishNode(lit))
		} else {
			node.AddChild(p.parseType())
		}
		if !p.accept(TokenComma) {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseSelectStmt() *Node {
	node := p.startNode(KindSelectStmt)
	p.expect(TokenSelect)
	p.open(TokenLBrace)
	p.nested(func() {
		for !p.check(TokenRBrace) {
			if p.accept(TokenSemicolon) {
				continue
			}
			clause := p.startNode(KindCommClause)
			switch {
			case p.check(TokenDefault):
				clause.AddChild(p.leaf(KindDefault, TokenDefault))
			case p.accept(TokenCase):
				clause.AddChild(p.parseSimpleStmt(false))
			default:
				p.fail("expected case or default", TokenCase, TokenDefault)
			}
			p.expect(TokenColon)
			p.parseStatementList(clause, TokenCase, TokenDefault, TokenRBrace)
			node.AddChild(p.finishNode(clause))
		}
	})
	p.close(TokenRBrace)
	return p.finishNode(node)
}

// parseSpecForStmt parses loop invariants and a termination measure
// followed by the loop they annotate.
func (p *Parser) parseSpecForStmt() *Node {
	spec := p.startNode(KindLoopSpec)
	for p.check(TokenInvariant) {
		inv := p.startNode(KindInvariant)
		p.advance()
		inv.AddChild(p.parseExpression())
		spec.AddChild(p.finishNode(inv))
		p.eos()
	}
	if p.check(TokenDecreases) {
		spec.AddChild(p.parseDecreases())
		p.eos()
	}
	if !p.check(TokenFor) {
		p.fail("expected loop after loop specification", TokenFor)
	}
	return p.parseForStmt(p.finishNode(spec))
}

func (p *Parser) parseForStmt(spec *Node) *Node {
	var node *Node
	if spec != nil {
		node = p.startNodeAt(KindForStmt, spec)
	} else {
		node = p.startNode(KindForStmt)
	}
	p.expect(TokenFor)

	p.controlClause(func() {
		if p.check(TokenLBrace) {
			return
		}
		var init *Node
		if !p.check(TokenSemicolon) {
			init = p.parseSimpleStmt(true)
			if init.Kind == KindRangeClause {
				node.AddChild(init)
				return
			}
		}
		if !p.check(TokenSemicolon) || p.peek().Implicit {
			node.AddChild(p.condition(init))
			return
		}

		clause := p.startNode(KindForClause)
		if init != nil {
			clause = p.startNodeAt(KindForClause, init)
		} else {
			clause.AddChild(p.omitted())
		}
		p.expect(TokenSemicolon)
		if p.check(TokenSemicolon) {
			clause.AddChild(p.omitted())
		} else {
			clause.AddChild(p.parseExpression())
		}
		p.expect(TokenSemicolon)
		if p.check(TokenLBrace) {
			clause.AddChild(p.omitted())
		} else {
			clause.AddChild(p.parseSimpleStmt(false))
		}
		node.AddChild(p.finishNode(clause))
	})

	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseDeferStmt() *Node {
	node := p.startNode(KindDeferStmt)
	p.expect(TokenDefer)
	if p.match(TokenFold, TokenUnfold) {
		node.AddChild(p.parseFoldStmt())
	} else {
		node.AddChild(p.parseExpression())
	}
	return p.finishNode(node)
}

// parsePackageStmt parses "package e { ... }", a ghost statement that
// proves a package-level assertion.
func (p *Parser) parsePackageStmt() *Node {
	node := p.startNode(KindPackageStmt)
	p.expect(TokenPackage)
	p.controlClause(func() {
		node.AddChild(p.parseExpression())
	})
	if p.check(TokenLBrace) {
		node.AddChild(p.parseBlock())
	}
	return p.finishNode(node)
}

// parseClosureImplProof parses "proof f implements spec { ... }". The
// braced form of the specification instance is only taken when a block
// still follows it.
func (p *Parser) parseClosureImplProof() *Node {
	node := p.startNode(KindClosureImplProof)
	p.expect(TokenProof)
	p.controlClause(func() {
		node.AddChild(p.parseExprPrec(precTernary))
	})
	p.expect(TokenImplements)

	var inst *Node
	if !p.try(func() {
		inst = p.parseClosureSpecInstance()
		if !p.check(TokenLBrace) {
			p.fail("", TokenLBrace)
		}
	}) {
		p.controlClause(func() {
			inst = p.parseClosureSpecInstance()
		})
	}
	node.AddChild(inst)
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}
