package parser

var binaryPrecedence = map[TokenKind]int{
	TokenOr:         1,
	TokenAnd:        2,
	TokenBitOr:      3,
	TokenBitXor:     4,
	TokenBitAnd:     5,
	TokenEQ:         6,
	TokenNE:         6,
	TokenLT:         7,
	TokenGT:         7,
	TokenLE:         7,
	TokenGE:         7,
	TokenInstanceof: 7,
	TokenShl:        8,
	TokenShr:        8,
	TokenUShr:       8,
	TokenPlus:       9,
	TokenMinus:      9,
	TokenStar:       10,
	TokenSlash:      10,
	TokenPercent:    10,
}

func isAssignOp(k TokenKind) bool {
	switch k {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign,
		TokenPercentAssign, TokenAndAssign, TokenOrAssign, TokenXorAssign,
		TokenShlAssign, TokenShrAssign, TokenUShrAssign:
		return true
	}
	return false
}

// atStatementKeyword reports whether the next token can only begin a
// statement or declaration, never an expression.
func (p *Parser) atStatementKeyword() bool {
	switch p.peek().Kind {
	case TokenReturn, TokenIf, TokenFor, TokenWhile, TokenDo, TokenTry, TokenThrow,
		TokenBreak, TokenContinue, TokenElse, TokenCase, TokenDefault, TokenCatch,
		TokenFinally, TokenClass, TokenInterface, TokenEnum, TokenImport, TokenPackage:
		return true
	}
	return false
}

func (p *Parser) parseExpression() *Node {
	if !p.enter() {
		return p.missing("nesting too deep")
	}
	defer p.leave()

	if p.isLambda() {
		return p.parseLambda()
	}
	lhs := p.parseTernary()
	if !isAssignOp(p.peek().Kind) {
		return lhs
	}
	tok := p.advance()
	node := &Node{Kind: KindAssignExpr, Token: &tok, Span: Span{Start: lhs.Span.Start}}
	node.AddChild(lhs)
	node.AddChild(p.parseExpressionOrInit())
	return p.finishNode(node)
}

func (p *Parser) parseExpressionOrInit() *Node {
	if p.check(TokenLBrace) {
		return p.parseArrayInit(p.parseVarInit)
	}
	return p.parseExpression()
}

func (p *Parser) parseTernary() *Node {
	cond := p.parseBinary(1)
	if !p.check(TokenQuestion) {
		return cond
	}
	p.advance()
	node := &Node{Kind: KindTernaryExpr, Span: Span{Start: cond.Span.Start}}
	node.AddChild(cond)
	node.AddChild(p.parseTernaryBranch())
	if p.expect(TokenColon) != nil {
		node.AddChild(p.parseTernaryBranch())
	} else {
		node.AddChild(p.missing("expected :"))
	}
	return p.finishNode(node)
}

func (p *Parser) parseTernaryBranch() *Node {
	if !p.enter() {
		return p.missing("nesting too deep")
	}
	defer p.leave()
	if p.isLambda() {
		return p.parseLambda()
	}
	return p.parseTernary()
}

func (p *Parser) parseBinary(minPrec int) *Node {
	left := p.parseUnary()
	for {
		tok := p.peek()
		prec, ok := binaryPrecedence[tok.Kind]
		if !ok || prec < minPrec {
			return left
		}
		if tok.Kind == TokenInstanceof {
			left = p.parseInstanceof(left)
			continue
		}
		p.advance()
		node := &Node{Kind: KindBinaryExpr, Token: &tok, Span: Span{Start: left.Span.Start}}
		node.AddChild(left)
		node.AddChild(p.parseBinary(prec + 1))
		left = p.finishNode(node)
	}
}

// parseInstanceof parses "x instanceof Type [name]" into
// [operand, Type, Identifier|Empty, components...]; record pattern components
// are Parameters.
func (p *Parser) parseInstanceof(operand *Node) *Node {
	node := &Node{Kind: KindInstanceofExpr, Span: Span{Start: operand.Span.Start}}
	p.advance()
	node.AddChild(operand)
	p.expect(TokenFinal)
	if p.isTypePattern() && p.speculate(func() bool { p.skipType(); return p.check(TokenLParen) }) {
		pattern := p.parsePattern()
		node.AddChild(pattern.Children[1])
		node.AddChild(pattern.Children[2])
		for _, c := range pattern.Children[3:] {
			node.AddChild(c)
		}
		return p.finishNode(node)
	}
	node.AddChild(p.parseType())
	if p.isIdentifierLike() {
		name := p.identNode(p.advance())
		p.complete(name, CompletionVariableName, nil)
		node.AddChild(name)
	} else {
		node.AddChild(p.empty())
	}
	return p.finishNode(node)
}

func (p *Parser) parseUnary() *Node {
	if !p.enter() {
		return p.missing("nesting too deep")
	}
	defer p.leave()

	tok := p.peek()
	switch tok.Kind {
	case TokenPlus, TokenMinus, TokenNot, TokenBitNot, TokenIncrement, TokenDecrement:
		p.advance()
		node := &Node{Kind: KindUnaryExpr, Token: &tok, Span: Span{Start: tok.Span.Start}}
		node.AddChild(p.parseUnary())
		return p.finishNode(node)
	case TokenLParen:
		if p.isCast() {
			return p.parseCast()
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

// isCast looks ahead for "(Type) operand", including intersection casts.
func (p *Parser) isCast() bool {
	return p.speculate(func() bool {
		p.advance()
		primitive := isPrimitiveKind(p.peek().Kind)
		if _, ok := p.skipType(); !ok {
			return false
		}
		for p.check(TokenBitAnd) {
			p.advance()
			if _, ok := p.skipType(); !ok {
				return false
			}
		}
		if !p.check(TokenRParen) {
			return false
		}
		p.advance()
		switch p.peek().Kind {
		case TokenIdent, TokenThis, TokenSuper, TokenNew, TokenSwitch,
			TokenLParen, TokenNot, TokenBitNot,
			TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral, TokenStringLiteral,
			TokenTextBlock, TokenTrue, TokenFalse, TokenNull:
			return true
		case TokenPlus, TokenMinus, TokenIncrement, TokenDecrement:
			return primitive
		}
		return isPrimitiveKind(p.peek().Kind)
	})
}

func (p *Parser) parseCast() *Node {
	node := p.startNode(KindCastExpr)
	p.advance()
	typ := p.parseType()
	if p.check(TokenBitAnd) {
		inter := &Node{Kind: KindIntersectionType, Span: typ.Span}
		inter.AddChild(typ)
		for p.expect(TokenBitAnd) != nil {
			inter.AddChild(p.parseType())
		}
		typ = p.finishNode(inter)
	}
	node.AddChild(typ)
	p.expect(TokenRParen)
	if p.isLambda() {
		node.AddChild(p.parseLambda())
	} else {
		node.AddChild(p.parseUnary())
	}
	return p.finishNode(node)
}

func (p *Parser) parsePostfix(expr *Node) *Node {
	for {
		switch p.peek().Kind {
		case TokenDot:
			expr = p.parseDotSuffix(expr)
		case TokenColonColon:
			expr = p.parseMethodRef(expr)
		case TokenLBracket:
			if p.peekN(1).Kind == TokenRBracket {
				typ := exprToType(expr)
				if !typ.Kind.IsType() {
					return expr
				}
				expr = p.parseDims(typ)
				continue
			}
			node := &Node{Kind: KindArrayAccess, Span: Span{Start: expr.Span.Start}}
			p.advance()
			node.AddChild(expr)
			node.AddChild(p.parseExpression())
			if p.expect(TokenRBracket) == nil {
				node.Flags |= NodeUnclosed
			}
			expr = p.finishNode(node)
		case TokenIncrement, TokenDecrement:
			tok := p.advance()
			node := &Node{Kind: KindPostfixExpr, Token: &tok, Span: Span{Start: expr.Span.Start}}
			node.AddChild(expr)
			expr = p.finishNode(node)
		default:
			return expr
		}
	}
}

func (p *Parser) parseDotSuffix(expr *Node) *Node {
	p.advance()
	switch p.peek().Kind {
	case TokenNew:
		return p.parseNew(expr)
	case TokenThis, TokenSuper:
		tok := p.advance()
		kind := KindThis
		if tok.Kind == TokenSuper {
			kind = KindSuper
		}
		node := &Node{Kind: kind, Token: &tok, Span: Span{Start: expr.Span.Start}}
		node.AddChild(exprToType(expr))
		return p.finishNode(node)
	case TokenClass:
		p.advance()
		node := &Node{Kind: KindClassLiteral, Span: Span{Start: expr.Span.Start}}
		node.AddChild(exprToType(expr))
		return p.finishNode(node)
	case TokenLT:
		p.parseTypeArguments()
	}

	ident := p.parseIdentifier()
	p.complete(ident, CompletionMemberReference, expr)
	if p.check(TokenLParen) {
		node := &Node{Kind: KindCallExpr, Span: Span{Start: expr.Span.Start}}
		node.AddChild(expr)
		node.AddChild(ident)
		node.AddChild(p.parseArguments())
		return p.finishNode(node)
	}
	node := &Node{Kind: KindFieldAccess, Span: Span{Start: expr.Span.Start}}
	node.AddChild(expr)
	node.AddChild(ident)
	return p.finishNode(node)
}

func (p *Parser) parseMethodRef(expr *Node) *Node {
	node := &Node{Kind: KindMethodRef, Span: Span{Start: expr.Span.Start}}
	p.advance()
	if p.check(TokenLT) {
		p.parseTypeArguments()
	}
	node.AddChild(expr)
	if p.check(TokenNew) {
		node.AddChild(p.identNode(p.advance()))
		return p.finishNode(node)
	}
	ident := p.parseIdentifier()
	p.complete(ident, CompletionMethodReferenceOperator, node.Children[0])
	node.AddChild(ident)
	return p.finishNode(node)
}

// parseArguments parses "(a, b)". Empty slots such as the middle of
// "f(a, , b)" become synthetic error nodes so that argument indexes stay
// aligned; an unclosed list stops where a statement obviously begins.
func (p *Parser) parseArguments() *Node {
	node := p.startNode(KindArguments)
	p.expect(TokenLParen)
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		if p.check(TokenComma) {
			node.AddChild(p.missing("expected argument"))
			p.advance()
			if p.check(TokenRParen) {
				node.AddChild(p.missing("expected argument"))
			}
			continue
		}
		if p.match(TokenSemicolon, TokenRBrace, TokenLBrace) || p.atMemberBoundary() || p.atStatementKeyword() {
			break
		}
		progress := p.mustProgress()
		node.AddChild(p.parseExpression())
		if !progress() || p.expect(TokenComma) == nil {
			break
		}
		if p.check(TokenRParen) {
			node.AddChild(p.missing("expected argument"))
		}
	}
	if p.expect(TokenRParen) == nil {
		node.Flags |= NodeUnclosed
	}
	return p.finishNode(node)
}

func (p *Parser) parsePrimary() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral, TokenStringLiteral,
		TokenTextBlock, TokenTrue, TokenFalse, TokenNull:
		p.advance()
		return &Node{Kind: KindLiteral, Token: &tok, Span: tok.Span}

	case TokenThis, TokenSuper:
		p.advance()
		if p.check(TokenLParen) {
			// Explicit constructor invocation.
			node := &Node{Kind: KindCallExpr, Span: tok.Span}
			node.AddChild(p.empty())
			node.AddChild(p.identNode(tok))
			node.AddChild(p.parseArguments())
			return p.finishNode(node)
		}
		kind := KindThis
		if tok.Kind == TokenSuper {
			kind = KindSuper
		}
		return &Node{Kind: kind, Token: &tok, Span: tok.Span}

	case TokenIdent:
		index := p.pos
		ident := p.identNode(p.advance())
		if c := p.complete(ident, CompletionNameReference, nil); c != nil && index == p.stmtStart {
			c.Location = LocationStatementStart
		}
		if p.check(TokenLParen) {
			node := &Node{Kind: KindCallExpr, Span: tok.Span}
			node.AddChild(p.empty())
			node.AddChild(ident)
			node.AddChild(p.parseArguments())
			return p.finishNode(node)
		}
		return ident

	case TokenLParen:
		node := p.startNode(KindParenExpr)
		p.advance()
		node.AddChild(p.parseExpression())
		if p.expect(TokenRParen) == nil {
			node.Flags |= NodeUnclosed
		}
		return p.finishNode(node)

	case TokenNew:
		return p.parseNew(nil)

	case TokenSwitch:
		return p.parseSwitch(KindSwitchExpr)

	case TokenVoid, TokenBoolean, TokenByte, TokenChar, TokenShort, TokenInt,
		TokenLong, TokenFloat, TokenDouble:
		return p.parseType()
	}
	return p.missing("expected expression")
}

// parseNew parses class instance and array creation. outer is the
// qualifying instance of "outer.new Inner()".
func (p *Parser) parseNew(outer *Node) *Node {
	node := p.startNode(KindNewExpr)
	if outer != nil {
		node.Span.Start = outer.Span.Start
	}
	p.advance()
	if p.check(TokenLT) {
		p.parseTypeArguments()
	}
	for p.check(TokenAt) {
		p.parseAnnotation()
	}

	var typ *Node
	if tok := p.peek(); isPrimitiveKind(tok.Kind) {
		p.advance()
		typ = &Node{Kind: KindPrimitiveType, Token: &tok, Span: tok.Span}
	} else {
		typ = p.parseClassType(CompletionAllocationType)
	}

	if p.check(TokenLBracket) {
		return p.parseArrayCreation(node, typ)
	}

	if outer != nil {
		node.AddChild(outer)
	} else {
		node.AddChild(p.empty())
	}
	node.AddChild(typ)

	if p.check(TokenLParen) {
		args := p.parseArguments()
		if len(args.Children) > 0 && p.completion != nil && p.completion.Prefix == "" &&
			args.Children[0].Synthetic && args.Children[0].Kind == KindIdentifier {
			p.retag(args.Children[0], CompletionConstructorArguments)
		}
		node.AddChild(args)
	} else {
		args := p.startNode(KindArguments)
		args.Synthetic = true
		args.Flags |= NodeUnclosed
		node.AddChild(p.finishNode(args))
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody(KindClassDecl))
	} else {
		node.AddChild(p.empty())
	}
	return p.finishNode(node)
}

func (p *Parser) parseArrayCreation(node, elem *Node) *Node {
	node.Kind = KindNewArrayExpr
	node.AddChild(elem)
	for p.check(TokenLBracket) {
		p.advance()
		if p.expect(TokenRBracket) != nil {
			node.Dims++
			continue
		}
		node.AddChild(p.parseExpression())
		p.expect(TokenRBracket)
		node.Dims++
	}
	if p.check(TokenLBrace) {
		node.AddChild(p.parseArrayInit(p.parseVarInit))
	} else {
		node.AddChild(p.empty())
	}
	return p.finishNode(node)
}

// isLambda looks ahead for "x ->" or a parenthesized parameter list followed
// by "->".
func (p *Parser) isLambda() bool {
	if p.noLambda {
		return false
	}
	if p.check(TokenIdent) && p.peekN(1).Kind == TokenArrow {
		return true
	}
	if !p.check(TokenLParen) {
		return false
	}
	return p.speculate(func() bool {
		p.advance()
		depth := 1
		for depth > 0 {
			switch p.peek().Kind {
			case TokenLParen:
				depth++
			case TokenRParen:
				depth--
			case TokenEOF, TokenSemicolon, TokenLBrace, TokenRBrace:
				return false
			}
			p.advance()
		}
		return p.check(TokenArrow)
	})
}

// parseLambda parses a lambda into [Parameters, body]. Inferred parameters
// have an Empty type slot. A missing body becomes a synthetic error node, so
// the parameters are still in scope while the body is being typed.
func (p *Parser) parseLambda() *Node {
	node := p.startNode(KindLambdaExpr)
	params := p.startNode(KindParameters)

	if p.check(TokenIdent) {
		params.AddChild(p.inferredParameter())
	} else {
		p.advance()
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			next := p.peekN(1).Kind
			switch {
			case p.isIdentifierLike() && (next == TokenComma || next == TokenRParen):
				params.AddChild(p.inferredParameter())
			case p.checkContextual("var") && next == TokenIdent:
				p.advance()
				params.AddChild(p.inferredParameter())
			default:
				params.AddChild(p.parseParameter())
			}
			if !progress() || p.expect(TokenComma) == nil {
				break
			}
		}
		p.expect(TokenRParen)
	}
	node.AddChild(p.finishNode(params))
	p.expect(TokenArrow)

	switch {
	case p.check(TokenLBrace):
		node.AddChild(p.parseBlock())
	case p.match(TokenSemicolon, TokenRParen, TokenRBrace, TokenComma, TokenEOF):
		node.AddChild(p.missing("expected lambda body"))
	default:
		node.AddChild(p.parseExpression())
	}
	return p.finishNode(node)
}

func (p *Parser) inferredParameter() *Node {
	param := p.startNode(KindParameter)
	mods := p.startNode(KindModifiers)
	mods.Synthetic = true
	param.AddChild(mods)
	param.AddChild(p.empty())
	name := p.identNode(p.advance())
	p.complete(name, CompletionVariableName, nil)
	param.AddChild(name)
	return p.finishNode(param)
}
