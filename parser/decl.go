package parser

// parseSourceFile is the whole-file driver. Each top-level unit is parsed
// on its own; a syntax error is recorded, the tokens up to the next
// top-level terminator are skipped and parsing resumes, so that one run
// reports several independent errors. The returned tree is only
// meaningful when no error was recorded.
func (p *Parser) parseSourceFile() *Node {
	node := p.startNode(KindSourceFile)

	p.guarded(func() {
		for p.check(TokenInitEnsures) {
			post := p.startNode(KindInitEnsures)
			p.advance()
			post.AddChild(p.parseExpression())
			node.AddChild(p.finishNode(post))
			p.eos()
		}
		node.AddChild(p.parsePackageClause())
		p.eos()
	})

	for p.check(TokenImportRequires) && !p.tooManyErrors() {
		p.guarded(func() {
			node.AddChild(p.parseImportRequires())
			p.eos()
		})
	}

	for p.check(TokenImport) && !p.tooManyErrors() {
		p.guarded(func() {
			node.AddChild(p.parseImportDecl())
			p.eos()
		})
	}

	for !p.check(TokenEOF) && !p.tooManyErrors() {
		if p.accept(TokenSemicolon) {
			continue
		}
		p.guarded(func() {
			node.AddChild(p.parseMember())
			p.eos()
		})
	}

	return p.finishNode(node)
}

func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= p.maxErrors
}

// guarded runs the parse of one top-level unit. On a syntax error the
// error is recorded and the parser skips ahead to the next terminator
// outside any brackets.
func (p *Parser) guarded(fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b, isBailout := r.(bailout)
			if !isBailout {
				panic(r)
			}
			p.errors.Add(b.err)
			p.synchronize()
			ok = false
		}
	}()
	fn()
	return true
}

// synchronize skips tokens after an error until a semicolon at nesting
// zero, which it consumes, or a token that starts a new top-level member.
// The nesting starts from the bracket depth at the point of failure.
func (p *Parser) synchronize() {
	nest := p.depth
	p.depth = 0
	p.openers = p.openers[:0]
	p.exprLev = 0
	p.noIn = false

	for first := true; !p.check(TokenEOF); first = false {
		tok := p.peek()
		switch {
		case isOpener(tok.Kind):
			nest++
		case isCloser(tok.Kind):
			nest--
		case tok.Kind == TokenSemicolon && nest <= 0:
			p.advance()
			return
		case isMemberStart(tok.Kind) && nest <= 0 && !first:
			return
		}
		p.advance()
	}
}

func (p *Parser) parsePackageClause() *Node {
	node := p.startNode(KindPackageClause)
	p.expect(TokenPackage)
	node.AddChild(p.parseIdent())
	return p.finishNode(node)
}

func (p *Parser) parseImportRequires() *Node {
	node := p.startNode(KindImportRequires)
	p.expect(TokenImportRequires)
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

// parseImportDecl parses "import spec" or "import ( spec; ... )".
func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.expect(TokenImport)
	if !p.check(TokenLParen) {
		node.AddChild(p.parseImportSpec())
		return p.finishNode(node)
	}
	p.open(TokenLParen)
	p.nested(func() {
		for !p.check(TokenRParen) {
			if p.accept(TokenSemicolon) {
				continue
			}
			node.AddChild(p.parseImportSpec())
			p.eos()
		}
	})
	p.close(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseImportSpec() *Node {
	node := p.startNode(KindImportSpec)
	for p.check(TokenImportRequires) {
		node.AddChild(p.parseImportRequires())
		p.eos()
	}
	switch p.peek().Kind {
	case TokenIdent:
		node.AddChild(p.parseIdent())
	case TokenDot:
		node.AddChild(p.leaf(KindIdent, TokenDot))
	}
	path := p.startNode(KindBasicLit)
	if !p.match(TokenStringLiteral, TokenRawStringLiteral) {
		p.fail("expected import path", TokenStringLiteral)
	}
	tok := p.advance()
	path.Token = &tok
	node.AddChild(p.finishNode(path))
	return p.finishNode(node)
}

// parseMember dispatches on the first token of a top-level member.
func (p *Parser) parseMember() *Node {
	tok := p.peek()
	switch {
	case tok.Kind == TokenFunc, isSpecKeyword(tok.Kind):
		return p.parseSpecMember()
	case tok.Kind == TokenGhost:
		node := p.startNode(KindGhostMember)
		p.advance()
		node.Flags |= FlagGhost
		if p.match(TokenConst, TokenType, TokenVar) {
			node.AddChild(p.parseDecl())
		} else {
			node.AddChild(p.parseSpecMember())
		}
		return p.finishNode(node)
	case tok.Kind == TokenPred:
		return p.parsePredicateDecl()
	case tok.Kind == TokenConst, tok.Kind == TokenType, tok.Kind == TokenVar:
		return p.parseDecl()
	case tok.Kind == TokenImport:
		p.fail("imports must appear before other declarations")
	case !isTypeStart(tok.Kind):
		p.fail("expected declaration",
			TokenFunc, TokenType, TokenVar, TokenConst, TokenPred, TokenGhost)
	}
	return p.parseImplementationProof()
}

// parseSpecMember parses a function or method declaration with its
// leading specification. The modifiers the specification collects are
// handed to the declaration explicitly.
func (p *Parser) parseSpecMember() *Node {
	if p.check(TokenFunc) {
		return p.parseFuncDecl(nil, Spec{})
	}
	spec, mods := p.parseSpecification()
	if !p.check(TokenFunc) {
		p.fail("expected function declaration after specification", TokenFunc)
	}
	return p.parseFuncDecl(spec, mods)
}

func (p *Parser) parseFuncDecl(spec *Node, mods Spec) *Node {
	var node *Node
	if spec != nil {
		node = p.startNodeAt(KindFuncDecl, spec)
	} else {
		node = p.startNode(KindFuncDecl)
	}
	node.Flags |= mods.Flags()

	p.expect(TokenFunc)
	if p.check(TokenLParen) {
		node.Kind = KindMethodDecl
		node.AddChild(p.parseReceiver())
	}
	node.AddChild(p.parseIdent())
	node.AddChild(p.parseSignature())
	if p.check(TokenLBrace) {
		node.AddChild(p.parseBody())
	}
	return p.finishNode(node)
}

// parseDecl parses const, type and var declarations, either a single
// spec or a parenthesized group; the opening paren alone decides.
func (p *Parser) parseDecl() *Node {
	var kind NodeKind
	var spec func() *Node
	switch p.peek().Kind {
	case TokenConst:
		kind, spec = KindConstDecl, p.parseConstSpec
	case TokenType:
		kind, spec = KindTypeDecl, p.parseTypeSpec
	case TokenVar:
		kind, spec = KindVarDecl, p.parseVarSpec
	default:
		p.fail("expected declaration", TokenConst, TokenType, TokenVar)
	}

	node := p.startNode(kind)
	p.advance()
	if !p.check(TokenLParen) {
		node.AddChild(spec())
		return p.finishNode(node)
	}

	p.open(TokenLParen)
	p.nested(func() {
		for !p.check(TokenRParen) {
			if p.accept(TokenSemicolon) {
				continue
			}
			node.AddChild(spec())
			p.eos()
		}
	})
	p.close(TokenRParen)
	return p.finishNode(node)
}

// parseConstSpec parses "a, b [T] [= x, y]". Inside a group the type and
// values may both be omitted.
func (p *Parser) parseConstSpec() *Node {
	node := p.startNode(KindConstSpec)
	node.AddChild(p.parseIdentList())
	if !p.atEOS() && !p.check(TokenAssign) {
		node.AddChild(p.parseType())
	}
	if p.accept(TokenAssign) {
		node.AddChild(p.parseExprList())
	}
	return p.finishNode(node)
}

// parseTypeSpec parses "T U" or the alias form "T = U".
func (p *Parser) parseTypeSpec() *Node {
	node := p.startNode(KindTypeSpec)
	node.AddChild(p.parseIdent())
	if p.accept(TokenAssign) {
		node.Flags |= FlagAlias
	}
	node.AddChild(p.parseType())
	return p.finishNode(node)
}

// parseVarSpec parses "x@, y T [= a, b]" or "x, y = a, b".
func (p *Parser) parseVarSpec() *Node {
	node := p.startNode(KindVarSpec)
	node.AddChild(p.parseMaybeAddressableIdentList())
	if !p.check(TokenAssign) {
		node.AddChild(p.parseType())
	}
	if p.accept(TokenAssign) {
		node.AddChild(p.parseExprList())
	}
	return p.finishNode(node)
}
