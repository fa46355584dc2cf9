package parser

// parseType parses a primitive, class or array type. A missing type yields a
// synthetic error node without consuming input.
func (p *Parser) parseType() *Node {
	return p.parseTypeAs(CompletionTypeReference)
}

func (p *Parser) parseTypeAs(kind CompletionKind) *Node {
	if !p.enter() {
		return p.missing("nesting too deep")
	}
	defer p.leave()

	for p.check(TokenAt) {
		p.parseAnnotation()
	}

	var typ *Node
	tok := p.peek()
	switch {
	case isPrimitiveKind(tok.Kind) || tok.Kind == TokenVoid:
		p.advance()
		typ = &Node{Kind: KindPrimitiveType, Token: &tok, Span: tok.Span}
	case tok.Kind == TokenIdent:
		typ = p.parseClassType(kind)
	default:
		return p.missing("expected type")
	}
	return p.parseDims(typ)
}

// parseDims wraps typ in an ArrayType for each trailing "[]".
func (p *Parser) parseDims(typ *Node) *Node {
	dims := 0
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
		dims++
	}
	if dims == 0 {
		return typ
	}
	arr := &Node{Kind: KindArrayType, Span: typ.Span, Children: []*Node{typ}, Dims: dims}
	return p.finishNode(arr)
}

func (p *Parser) parseClassType(kind CompletionKind) *Node {
	node := p.startNode(KindClassType)
	ident := p.parseIdentifier()
	node.AddChild(ident)
	if c := p.complete(ident, kind, nil); c != nil {
		c.Filter = p.typeFilter
	}
	node.AddChild(p.parseOptionalTypeArguments())

	for p.check(TokenDot) && (p.peekN(1).Kind == TokenIdent || p.peekN(1).Kind == TokenAt) {
		p.advance()
		for p.check(TokenAt) {
			p.parseAnnotation()
		}
		qualifier := &Node{Kind: KindClassType, Span: node.Span, Children: append([]*Node(nil), node.Children...)}
		qualifier.Span.End = p.here()
		ident := p.parseIdentifier()
		node.AddChild(ident)
		if c := p.complete(ident, kind, qualifier); c != nil {
			c.Filter = p.typeFilter
		}
		node.AddChild(p.parseOptionalTypeArguments())
	}
	return p.finishNode(node)
}

func (p *Parser) parseOptionalTypeArguments() *Node {
	if p.check(TokenLT) {
		return p.parseTypeArguments()
	}
	return p.empty()
}

// parseTypeArguments parses "<...>", including the diamond "<>".
func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.expect(TokenLT)
	for !p.check(TokenGT) && !p.check(TokenEOF) {
		if p.check(TokenQuestion) {
			node.AddChild(p.parseWildcard())
		} else if p.startsType() {
			node.AddChild(p.parseType())
		} else {
			break
		}
		if p.expect(TokenComma) == nil {
			break
		}
	}
	if !p.expectGT() {
		node.Flags |= NodeUnclosed
	}
	return p.finishNode(node)
}

func (p *Parser) parseWildcard() *Node {
	node := p.startNode(KindWildcard)
	p.expect(TokenQuestion)
	if p.check(TokenExtends) || p.check(TokenSuper) {
		tok := p.advance()
		node.Token = &tok
		node.AddChild(p.parseType())
	} else {
		node.AddChild(p.empty())
	}
	return p.finishNode(node)
}

// expectGT consumes a closing ">" of a type argument list, splitting ">>",
// ">>>" and friends when type argument lists nest.
func (p *Parser) expectGT() bool {
	switch p.peek().Kind {
	case TokenGT:
		p.advance()
		return true
	case TokenShr:
		p.splitToken(TokenGT)
		return true
	case TokenUShr:
		p.splitToken(TokenShr)
		return true
	case TokenGE:
		p.splitToken(TokenAssign)
		return true
	case TokenShrAssign:
		p.splitToken(TokenGE)
		return true
	case TokenUShrAssign:
		p.splitToken(TokenShrAssign)
		return true
	}
	return false
}

// splitToken consumes the first character of the current token and leaves
// the remainder in its place.
func (p *Parser) splitToken(remainder TokenKind) {
	tok := p.tokens[p.pos]
	first := tok
	first.Kind = TokenGT
	first.Literal = ">"
	first.Span.End = Position{
		Offset: tok.Span.Start.Offset + 1,
		Line:   tok.Span.Start.Line,
		Column: tok.Span.Start.Column + 1,
	}
	rest := Token{
		Kind:    remainder,
		Literal: tok.Literal[1:],
		Span:    Span{Start: first.Span.End, End: tok.Span.End},
	}
	p.tokens[p.pos] = rest
	// Keep the consumed half addressable so here() reports its end.
	p.tokens = append(p.tokens, Token{})
	copy(p.tokens[p.pos+1:], p.tokens[p.pos:])
	p.tokens[p.pos] = first
	p.pos++
}

// skipTypeArguments skips a balanced "<...>" during lookahead.
func (p *Parser) skipTypeArguments() bool {
	if !p.check(TokenLT) {
		return false
	}
	p.advance()
	depth := 1
	for depth > 0 && !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenShr:
			depth -= 2
		case TokenUShr:
			depth -= 3
		case TokenSemicolon, TokenLBrace, TokenRBrace, TokenLParen, TokenRParen, TokenAssign:
			return false
		}
		p.advance()
	}
	return depth <= 0
}

// skipType skips a type during lookahead and reports whether one was there.
// The index of the type's last token is returned.
func (p *Parser) skipType() (int, bool) {
	for p.check(TokenAt) {
		p.parseAnnotation()
	}
	tok := p.peek()
	switch {
	case isPrimitiveKind(tok.Kind):
		p.advance()
	case tok.Kind == TokenIdent:
		p.advance()
		if p.check(TokenLT) && !p.skipTypeArguments() {
			return p.pos - 1, false
		}
		for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
			p.advance()
			p.advance()
			if p.check(TokenLT) && !p.skipTypeArguments() {
				return p.pos - 1, false
			}
		}
	default:
		return p.pos, false
	}
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
	}
	return p.pos - 1, true
}

// exprToType converts a name expression such as a.b.C into a ClassType, as
// needed for "C[]::new" and "C[].class".
func exprToType(expr *Node) *Node {
	var idents []*Node
	var collect func(n *Node) bool
	collect = func(n *Node) bool {
		switch n.Kind {
		case KindIdentifier:
			idents = append(idents, n)
			return true
		case KindFieldAccess:
			if !collect(n.Children[0]) {
				return false
			}
			idents = append(idents, n.Children[1])
			return true
		case KindClassType, KindPrimitiveType, KindArrayType:
			return false
		}
		return false
	}
	if expr.Kind.IsType() {
		return expr
	}
	if !collect(expr) {
		return expr
	}
	node := &Node{Kind: KindClassType, Span: expr.Span}
	for _, id := range idents {
		node.AddChild(id)
		node.AddChild(&Node{Kind: KindEmpty, Span: Span{Start: id.Span.End, End: id.Span.End}, Synthetic: true})
	}
	return node
}
