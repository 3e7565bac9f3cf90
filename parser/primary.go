package parser

// parsePrimaryExpr parses an operand followed by any number of postfix
// suffixes, folding them left to right.
func (p *Parser) parsePrimaryExpr() *Node {
	x := p.parseOperand()
	for {
		switch p.peek().Kind {
		case TokenDot:
			if p.peekN(1).Kind == TokenLParen {
				x = p.parseTypeAssertion(x)
			} else {
				node := p.startNodeAt(KindSelector, x)
				p.advance()
				node.AddChild(p.parseIdent())
				x = p.finishNode(node)
			}
		case TokenLBracket:
			x = p.parseIndexSuffix(x)
		case TokenLParen:
			x = p.parseCall(x)
		case TokenLPred:
			x = p.parsePredConstruct(x)
		case TokenLBrace:
			if p.exprLev < 0 || !isTypeNameExpr(x) {
				return x
			}
			x = p.parseCompositeLit(typeNameFromExpr(x))
		default:
			return x
		}
	}
}

// isTypeNameExpr reports whether x could name a type: an identifier or a
// package-qualified identifier.
func isTypeNameExpr(x *Node) bool {
	switch x.Kind {
	case KindIdent:
		return true
	case KindSelector:
		return x.Children[0].Kind == KindIdent
	}
	return false
}

func typeNameFromExpr(x *Node) *Node {
	node := &Node{Kind: KindTypeName, Span: x.Span, Range: x.Range}
	if x.Kind == KindSelector {
		node.Children = append(node.Children, x.Children...)
	} else {
		node.AddChild(x)
	}
	return node
}

func (p *Parser) parseOperand() *Node {
	tok := p.peek()
	switch {
	case isLiteralStart(tok.Kind):
		node := p.startNode(KindBasicLit)
		lit := p.advance()
		node.Token = &lit
		return p.finishNode(node)
	case isSpecKeyword(tok.Kind):
		return p.parseFuncLit()
	case isSeqTypeKeyword(tok.Kind):
		return p.parseCollectionOperand()
	}

	switch tok.Kind {
	case TokenIdent:
		return p.parseIdent()
	case TokenLParen:
		return p.parseParenOperand()
	case TokenFunc:
		return p.parseFuncLit()
	case TokenLBracket:
		if p.peekN(1).Kind == TokenEllipsis {
			return p.parseTypeOperand(p.parseImplicitArrayType())
		}
		return p.parseTypeOperand(p.parseType())
	case TokenStruct, TokenMap, TokenChan, TokenInterface, TokenPred, TokenAdt:
		return p.parseTypeOperand(p.parseType())
	case TokenDomain:
		if p.peekN(1).Kind == TokenLParen {
			return p.parseBuiltinCall()
		}
		return p.parseTypeOperand(p.parseType())
	case TokenNew:
		return p.parseNew()
	case TokenMake:
		return p.parseMake()
	case TokenLen, TokenCap, TokenRange:
		return p.parseBuiltinCall()
	case TokenAcc:
		return p.parseAccess()
	case TokenTypeOf:
		return p.parseGhostCall(KindTypeOf)
	case TokenIsComparable:
		return p.parseGhostCall(KindIsComparable)
	case TokenBefore:
		return p.parseGhostCall(KindBefore)
	case TokenSome:
		return p.parseGhostCall(KindSome)
	case TokenGet:
		return p.parseGhostCall(KindGet)
	case TokenType:
		return p.parseTypeExpr()
	case TokenOld:
		return p.parseOld()
	case TokenNone:
		return p.parseNone()
	case TokenWritePerm, TokenNoPerm:
		node := p.startNode(KindPermission)
		perm := p.advance()
		node.Token = &perm
		return p.finishNode(node)
	case TokenMatch:
		return p.parseMatchExpr()
	}

	p.fail("expected operand",
		TokenIdent, TokenIntLiteral, TokenStringLiteral, TokenLParen, TokenFunc, TokenLBracket)
	return nil
}

// parseParenOperand parses "(e)" or, when the contents are not an
// expression, a parenthesized type that must be converted: "([]int)(x)".
func (p *Parser) parseParenOperand() *Node {
	var node *Node
	p.either(func() {
		node = p.startNode(KindParenExpr)
		p.open(TokenLParen)
		p.nested(func() {
			node.AddChild(p.parseExpression())
		})
		p.close(TokenRParen)
		node = p.finishNode(node)
	}, func() {
		node = p.parseTypeOperand(p.parseType())
	})
	return node
}

// parseTypeOperand continues an operand that began with a type: a
// composite literal, a conversion or a method expression.
func (p *Parser) parseTypeOperand(typ *Node) *Node {
	switch {
	case p.check(TokenLBrace):
		return p.parseCompositeLit(typ)
	case p.check(TokenLParen):
		node := p.startNodeAt(KindConversion, typ)
		p.open(TokenLParen)
		p.nested(func() {
			node.AddChild(p.parseExpression())
			p.accept(TokenComma)
		})
		p.close(TokenRParen)
		return p.finishNode(node)
	case p.check(TokenDot) && p.peekN(1).Kind == TokenIdent:
		node := p.startNodeAt(KindSelector, typ)
		p.advance()
		node.AddChild(p.parseIdent())
		return p.finishNode(node)
	}
	p.fail("expected composite literal or conversion", TokenLBrace, TokenLParen)
	return nil
}

func (p *Parser) parseCompositeLit(typ *Node) *Node {
	node := p.startNodeAt(KindCompositeLit, typ)
	node.AddChild(p.parseLiteralValue())
	return p.finishNode(node)
}

func (p *Parser) parseLiteralValue() *Node {
	node := p.startNode(KindLiteralValue)
	p.open(TokenLBrace)
	p.nested(func() {
		for !p.check(TokenRBrace) {
			node.AddChild(p.parseKeyedElement())
			if !p.accept(TokenComma) {
				break
			}
		}
	})
	p.close(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseKeyedElement() *Node {
	node := p.startNode(KindKeyedElement)
	node.AddChild(p.parseElement())
	if p.accept(TokenColon) {
		node.AddChild(p.parseElement())
	}
	return p.finishNode(node)
}

func (p *Parser) parseElement() *Node {
	if p.check(TokenLBrace) {
		return p.parseLiteralValue()
	}
	return p.parseExpression()
}

// parseCollectionOperand handles operands that begin with seq, set, mset,
// dict or option: conversions "seq(e)", ranges "seq[lo..hi]" and
// literals "seq[int]{1, 2}".
func (p *Parser) parseCollectionOperand() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenSeq, TokenSet, TokenMset:
		if p.peekN(1).Kind == TokenLParen {
			node := p.startNode(KindSConversion)
			kw := p.advance()
			node.Token = &kw
			p.open(TokenLParen)
			p.nested(func() {
				node.AddChild(p.parseExpression())
			})
			p.close(TokenRParen)
			return p.finishNode(node)
		}
		var node *Node
		p.either(func() {
			node = p.parseRangeExpr()
		}, func() {
			node = p.parseTypeOperand(p.parseType())
		})
		return node
	}
	return p.parseTypeOperand(p.parseType())
}

func (p *Parser) parseRangeExpr() *Node {
	node := p.startNode(KindRangeExpr)
	kw := p.advance()
	node.Token = &kw
	p.open(TokenLBracket)
	p.nested(func() {
		node.AddChild(p.parseExpression())
		p.expect(TokenDotDot)
		node.AddChild(p.parseExpression())
	})
	p.close(TokenRBracket)
	return p.finishNode(node)
}

func (p *Parser) parseTypeAssertion(x *Node) *Node {
	node := p.startNodeAt(KindTypeAssert, x)
	p.expect(TokenDot)
	p.open(TokenLParen)
	if p.check(TokenType) {
		node.AddChild(p.leaf(KindTypeKeyword, TokenType))
	} else {
		p.nested(func() {
			node.AddChild(p.parseType())
		})
	}
	p.close(TokenRParen)
	return p.finishNode(node)
}

// parseIndexSuffix parses the suffixes that open with a bracket. The
// token after the first expression decides: ":" makes a slice, "=" a
// sequence update, "]" an index.
func (p *Parser) parseIndexSuffix(x *Node) *Node {
	node := p.startNodeAt(KindIndex, x)
	p.open(TokenLBracket)
	p.nested(func() {
		var first *Node
		if p.check(TokenColon) {
			first = p.omitted()
		} else {
			first = p.parseExpression()
		}

		switch {
		case p.check(TokenColon):
			node.Kind = KindSlice
			node.AddChild(first)
			p.advance()
			if p.match(TokenColon, TokenRBracket) {
				node.AddChild(p.omitted())
			} else {
				node.AddChild(p.parseExpression())
			}
			if p.accept(TokenColon) {
				node.AddChild(p.parseExpression())
			}
		case p.check(TokenAssign):
			node.Kind = KindSeqUpdate
			node.AddChild(p.finishSeqUpdateClause(first))
			for p.accept(TokenComma) {
				if p.check(TokenRBracket) {
					break
				}
				node.AddChild(p.finishSeqUpdateClause(p.parseExpression()))
			}
		default:
			if first.Kind == KindEmpty {
				p.fail("expected index expression")
			}
			node.AddChild(first)
		}
	})
	p.close(TokenRBracket)
	return p.finishNode(node)
}

func (p *Parser) finishSeqUpdateClause(key *Node) *Node {
	node := p.startNodeAt(KindSeqUpdateClause, key)
	p.expect(TokenAssign)
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

// parseCall parses an argument list and an optional "as spec" that
// attaches a closure specification to the call.
func (p *Parser) parseCall(fun *Node) *Node {
	node := p.startNodeAt(KindCall, fun)
	node.AddChild(p.parseArguments(node))
	if p.accept(TokenAs) {
		node.AddChild(p.parseClosureSpecInstance())
	}
	return p.finishNode(node)
}

func (p *Parser) parseArguments(call *Node) *Node {
	node := p.startNode(KindArguments)
	p.open(TokenLParen)
	p.nested(func() {
		for !p.check(TokenRParen) {
			node.AddChild(p.parseExpression())
			if p.accept(TokenEllipsis) {
				call.Flags |= FlagVariadic
			}
			if !p.accept(TokenComma) {
				break
			}
		}
	})
	p.close(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parsePredConstruct(x *Node) *Node {
	node := p.startNodeAt(KindPredConstruct, x)
	args := p.startNode(KindArguments)
	p.open(TokenLPred)
	p.nested(func() {
		for !p.check(TokenRPred) {
			args.AddChild(p.parseExpression())
			if !p.accept(TokenComma) {
				break
			}
		}
	})
	p.close(TokenRPred)
	node.AddChild(p.finishNode(args))
	return p.finishNode(node)
}

// parseFuncLit parses a function literal, optionally preceded by a
// specification and optionally named: "requires x > 0 func f(x int) {...}".
// Without a body the operand is a function type and must be converted.
func (p *Parser) parseFuncLit() *Node {
	node := p.startNode(KindFuncLit)
	if !p.check(TokenFunc) {
		spec, mods := p.parseSpecification()
		node.AddChild(spec)
		node.Flags |= mods.Flags()
	}

	if len(node.Children) == 0 && p.peekN(1).Kind == TokenLParen {
		save := p.save()
		typ := p.startNode(KindFuncType)
		p.advance()
		typ.AddChild(p.parseSignature())
		if !p.check(TokenLBrace) {
			return p.parseTypeOperand(p.finishNode(typ))
		}
		p.restore(save)
	}

	p.expect(TokenFunc)
	if p.check(TokenIdent) {
		node.AddChild(p.parseIdent())
	}
	node.AddChild(p.parseSignature())
	node.AddChild(p.parseBody())
	return p.finishNode(node)
}

func (p *Parser) parseNew() *Node {
	node := p.startNode(KindNew)
	p.expect(TokenNew)
	p.open(TokenLParen)
	p.nested(func() {
		node.AddChild(p.parseType())
	})
	p.close(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseMake() *Node {
	node := p.startNode(KindMake)
	p.expect(TokenMake)
	p.open(TokenLParen)
	p.nested(func() {
		node.AddChild(p.parseType())
		for p.accept(TokenComma) {
			if p.check(TokenRParen) {
				break
			}
			node.AddChild(p.parseExpression())
		}
	})
	p.close(TokenRParen)
	return p.finishNode(node)
}

// parseBuiltinCall parses len, cap, range and domain applied to one
// expression.
func (p *Parser) parseBuiltinCall() *Node {
	node := p.startNode(KindBuiltinCall)
	kw := p.advance()
	node.Token = &kw
	p.open(TokenLParen)
	p.nested(func() {
		node.AddChild(p.parseExpression())
		p.accept(TokenComma)
	})
	p.close(TokenRParen)
	return p.finishNode(node)
}
