package parser

func (p *Parser) parseType() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenIdent:
		return p.parseTypeName()
	case TokenLParen:
		node := p.startNode(KindParenType)
		p.open(TokenLParen)
		p.nested(func() {
			node.AddChild(p.parseType())
		})
		p.close(TokenRParen)
		return p.finishNode(node)
	case TokenStar:
		node := p.startNode(KindPointerType)
		p.advance()
		node.AddChild(p.parseType())
		return p.finishNode(node)
	case TokenLBracket:
		return p.parseArrayOrSliceType()
	case TokenMap:
		return p.parseMapType()
	case TokenChan, TokenArrow:
		return p.parseChanType()
	case TokenFunc:
		node := p.startNode(KindFuncType)
		p.advance()
		node.AddChild(p.parseSignature())
		return p.finishNode(node)
	case TokenStruct:
		return p.parseStructType()
	case TokenInterface:
		return p.parseInterfaceType()
	case TokenPred:
		return p.parsePredType()
	case TokenSeq, TokenSet, TokenMset, TokenOption:
		node := p.startNode(KindCollectionType)
		kw := p.advance()
		node.Token = &kw
		p.open(TokenLBracket)
		p.nested(func() {
			node.AddChild(p.parseType())
		})
		p.close(TokenRBracket)
		return p.finishNode(node)
	case TokenDict:
		node := p.startNode(KindDictType)
		p.advance()
		p.open(TokenLBracket)
		p.nested(func() {
			node.AddChild(p.parseType())
		})
		p.close(TokenRBracket)
		node.AddChild(p.parseType())
		return p.finishNode(node)
	case TokenDomain:
		return p.parseDomainType()
	case TokenAdt:
		return p.parseAdtType()
	case TokenGhost:
		node := p.startNode(KindGhostSliceType)
		p.advance()
		p.open(TokenLBracket)
		p.close(TokenRBracket)
		node.AddChild(p.parseType())
		return p.finishNode(node)
	}
	p.fail("expected type",
		TokenIdent, TokenStar, TokenLBracket, TokenMap, TokenChan, TokenFunc, TokenStruct, TokenInterface)
	return nil
}

// parseTypeName parses "T" or "pkg.T".
func (p *Parser) parseTypeName() *Node {
	node := p.startNode(KindTypeName)
	node.AddChild(p.parseIdent())
	if p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		node.AddChild(p.parseIdent())
	}
	return p.finishNode(node)
}

func (p *Parser) parseArrayOrSliceType() *Node {
	node := p.startNode(KindSliceType)
	p.open(TokenLBracket)
	if !p.check(TokenRBracket) {
		node.Kind = KindArrayType
		p.nested(func() {
			node.AddChild(p.parseExpression())
		})
	}
	p.close(TokenRBracket)
	node.AddChild(p.parseType())
	return p.finishNode(node)
}

// parseImplicitArrayType parses "[...]T", which only appears as the type
// of a composite literal.
func (p *Parser) parseImplicitArrayType() *Node {
	node := p.startNode(KindImplicitArrayType)
	p.open(TokenLBracket)
	p.expect(TokenEllipsis)
	p.close(TokenRBracket)
	node.AddChild(p.parseType())
	return p.finishNode(node)
}

func (p *Parser) parseMapType() *Node {
	node := p.startNode(KindMapType)
	p.expect(TokenMap)
	p.open(TokenLBracket)
	p.nested(func() {
		node.AddChild(p.parseType())
	})
	p.close(TokenRBracket)
	node.AddChild(p.parseType())
	return p.finishNode(node)
}

func (p *Parser) parseChanType() *Node {
	node := p.startNode(KindChanType)
	if p.accept(TokenArrow) {
		p.expect(TokenChan)
		node.Flags |= FlagRecvOnly
	} else {
		p.expect(TokenChan)
		if p.accept(TokenArrow) {
			node.Flags |= FlagSendOnly
		}
	}
	node.AddChild(p.parseType())
	return p.finishNode(node)
}

func (p *Parser) parsePredType() *Node {
	node := p.startNode(KindPredType)
	p.expect(TokenPred)
	p.open(TokenLParen)
	p.nested(func() {
		for !p.check(TokenRParen) {
			node.AddChild(p.parseType())
			if !p.accept(TokenComma) {
				break
			}
		}
	})
	p.close(TokenRParen)
	return p.finishNode(node)
}

// parseSignature parses a parameter list and an optional result, which is
// either a second parameter list or a single type.
func (p *Parser) parseSignature() *Node {
	node := p.startNode(KindSignature)
	node.AddChild(p.parseParameters())
	if p.check(TokenLParen) {
		result := p.startNode(KindResult)
		result.AddChild(p.parseParameters())
		node.AddChild(p.finishNode(result))
	} else if isTypeStart(p.peek().Kind) && !p.check(TokenGhost) {
		result := p.startNode(KindResult)
		result.AddChild(p.parseType())
		node.AddChild(p.finishNode(result))
	}
	return p.finishNode(node)
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	p.open(TokenLParen)
	p.nested(func() {
		for !p.check(TokenRParen) {
			node.AddChild(p.parseParameter())
			if !p.accept(TokenComma) {
				break
			}
		}
	})
	p.close(TokenRParen)
	return p.finishNode(node)
}

// parseParameter parses "[ghost] [names] [...]T". Whether the leading
// identifiers are names or the type itself is decided by trying the named
// form first: in "(int, string)" no type follows the identifier list.
func (p *Parser) parseParameter() *Node {
	node := p.startNode(KindParameter)
	if p.accept(TokenGhost) {
		node.Flags |= FlagGhost
	}
	if p.check(TokenIdent) {
		var names *Node
		if p.try(func() {
			names = p.parseIdentList()
			if !p.check(TokenEllipsis) && !isTypeStart(p.peek().Kind) {
				p.fail("expected parameter type")
			}
		}) {
			node.AddChild(names)
		}
	}
	if p.accept(TokenEllipsis) {
		node.Flags |= FlagVariadic
	}
	node.AddChild(p.parseType())
	return p.finishNode(node)
}

// parseReceiver parses "(r *T)", "(r@ T)" or "(T)".
func (p *Parser) parseReceiver() *Node {
	node := p.startNode(KindReceiver)
	p.open(TokenLParen)
	p.nested(func() {
		if p.check(TokenIdent) {
			switch p.peekN(1).Kind {
			case TokenRParen, TokenDot, TokenComma:
			default:
				node.AddChild(p.parseMaybeAddressableIdent())
			}
		}
		node.AddChild(p.parseType())
		p.accept(TokenComma)
	})
	p.close(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseStructType() *Node {
	node := p.startNode(KindStructType)
	p.expect(TokenStruct)
	p.open(TokenLBrace)
	p.nested(func() {
		for !p.check(TokenRBrace) {
			if p.accept(TokenSemicolon) {
				continue
			}
			node.AddChild(p.parseFieldDecl())
			p.eos()
		}
	})
	p.close(TokenRBrace)
	return p.finishNode(node)
}

// parseFieldDecl parses "[ghost] a, b T [tag]" or an embedded field
// "[ghost] [*]pkg.T [tag]".
func (p *Parser) parseFieldDecl() *Node {
	node := p.startNode(KindFieldDecl)
	if p.accept(TokenGhost) {
		node.Flags |= FlagGhost
	}

	embedded := p.check(TokenStar)
	if p.check(TokenIdent) {
		switch p.peekN(1).Kind {
		case TokenDot, TokenSemicolon, TokenRBrace, TokenStringLiteral, TokenRawStringLiteral:
			embedded = true
		}
	}

	if embedded {
		node.Kind = KindEmbeddedField
		if p.check(TokenStar) {
			ptr := p.startNode(KindPointerType)
			p.advance()
			ptr.AddChild(p.parseTypeName())
			node.AddChild(p.finishNode(ptr))
		} else {
			node.AddChild(p.parseTypeName())
		}
	} else {
		node.AddChild(p.parseIdentList())
		node.AddChild(p.parseType())
	}

	if p.match(TokenStringLiteral, TokenRawStringLiteral) {
		tag := p.startNode(KindBasicLit)
		tok := p.advance()
		tag.Token = &tok
		node.AddChild(p.finishNode(tag))
	}
	return p.finishNode(node)
}

func (p *Parser) parseInterfaceType() *Node {
	node := p.startNode(KindInterfaceType)
	p.expect(TokenInterface)
	p.open(TokenLBrace)
	p.nested(func() {
		for !p.check(TokenRBrace) {
			if p.accept(TokenSemicolon) {
				continue
			}
			node.AddChild(p.parseInterfaceElem())
			p.eos()
		}
	})
	p.close(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseInterfaceElem() *Node {
	tok := p.peek()
	switch {
	case tok.Kind == TokenPred:
		node := p.startNode(KindPredicateSpec)
		p.advance()
		node.AddChild(p.parseIdent())
		node.AddChild(p.parseParameters())
		return p.finishNode(node)
	case tok.Kind == TokenGhost, isSpecKeyword(tok.Kind),
		tok.Kind == TokenIdent && p.peekN(1).Kind == TokenLParen:
		return p.parseMethodSpec()
	}
	node := p.startNode(KindEmbeddedType)
	node.AddChild(p.parseType())
	return p.finishNode(node)
}

// parseMethodSpec parses an interface method with its optional ghost
// marker and specification.
func (p *Parser) parseMethodSpec() *Node {
	node := p.startNode(KindMethodSpec)
	if p.accept(TokenGhost) {
		node.Flags |= FlagGhost
	}
	if isSpecKeyword(p.peek().Kind) {
		spec, mods := p.parseSpecification()
		node.AddChild(spec)
		node.Flags |= mods.Flags()
	}
	node.AddChild(p.parseIdent())
	node.AddChild(p.parseSignature())
	return p.finishNode(node)
}

// parseDomainType parses
//
//	domain {
//		func f(x int) int
//		axiom { forall x int :: f(x) > 0 }
//	}
func (p *Parser) parseDomainType() *Node {
	node := p.startNode(KindDomainType)
	p.expect(TokenDomain)
	p.open(TokenLBrace)
	p.nested(func() {
		for !p.check(TokenRBrace) {
			if p.accept(TokenSemicolon) {
				continue
			}
			switch p.peek().Kind {
			case TokenFunc:
				fn := p.startNode(KindDomainFunc)
				p.advance()
				fn.AddChild(p.parseIdent())
				fn.AddChild(p.parseSignature())
				node.AddChild(p.finishNode(fn))
			case TokenAxiom:
				ax := p.startNode(KindDomainAxiom)
				p.advance()
				p.open(TokenLBrace)
				ax.AddChild(p.parseExpression())
				p.eos()
				p.close(TokenRBrace)
				node.AddChild(p.finishNode(ax))
			default:
				p.fail("expected domain function or axiom", TokenFunc, TokenAxiom)
			}
			p.eos()
		}
	})
	p.close(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseAdtType() *Node {
	node := p.startNode(KindAdtType)
	p.expect(TokenAdt)
	p.open(TokenLBrace)
	p.nested(func() {
		for !p.check(TokenRBrace) {
			if p.accept(TokenSemicolon) {
				continue
			}
			clause := p.startNode(KindAdtClause)
			clause.AddChild(p.parseIdent())
			p.open(TokenLBrace)
			for !p.check(TokenRBrace) {
				if p.accept(TokenSemicolon) {
					continue
				}
				clause.AddChild(p.parseFieldDecl())
				p.eos()
			}
			p.close(TokenRBrace)
			node.AddChild(p.finishNode(clause))
			p.eos()
		}
	})
	p.close(TokenRBrace)
	return p.finishNode(node)
}
