package parser

// parseBlock parses "{ statements }". A block whose closing brace is missing
// ends at EOF or where a class member obviously begins.
func (p *Parser) parseBlock() *Node {
	node := p.startNode(KindBlock)
	if p.expect(TokenLBrace) == nil {
		node.Flags |= NodeUnclosed
		node.Synthetic = true
		return p.finishNode(node)
	}
	p.parseStatements(node, TokenRBrace)
	if p.expect(TokenRBrace) == nil {
		node.Flags |= NodeUnclosed
	}
	return p.finishNode(node)
}

// parseStatements appends block statements to node until one of the stop
// tokens, EOF or a member boundary.
func (p *Parser) parseStatements(node *Node, stop ...TokenKind) {
	for !p.match(stop...) && !p.check(TokenEOF) && !p.atMemberBoundary() {
		progress := p.mustProgress()
		if stmt := p.parseBlockStatement(); stmt != nil {
			node.AddChild(stmt)
		}
		progress()
	}
}

func (p *Parser) parseBlockStatement() *Node {
	if !p.enter() {
		return p.missing("nesting too deep")
	}
	defer p.leave()

	saved := p.stmtStart
	p.stmtStart = p.pos
	defer func() { p.stmtStart = saved }()

	switch {
	case p.atLocalTypeDecl():
		node := p.startNode(KindLocalClassDecl)
		modifiers := p.parseModifiers()
		node.AddChild(p.parseTypeDeclRest(modifiers))
		return p.finishNode(node)
	case p.isLocalVarDecl():
		node := p.parseLocalVarDecl()
		p.expect(TokenSemicolon)
		return p.finishNode(node)
	}
	return p.parseStatement()
}

func (p *Parser) atLocalTypeDecl() bool {
	if p.atTypeDeclKeyword() {
		return true
	}
	switch p.peek().Kind {
	case TokenAbstract, TokenFinal, TokenStatic, TokenStrictfp:
		return p.speculate(func() bool {
			p.parseModifiers()
			return p.atTypeDeclKeyword()
		})
	}
	return false
}

// isLocalVarDecl looks ahead for "Type name". A completion token ending the
// type that is followed by a name on a later line is taken as an expression
// statement being typed, not a declaration.
func (p *Parser) isLocalVarDecl() bool {
	switch p.peek().Kind {
	case TokenFinal, TokenAt:
		return p.check(TokenFinal) || p.peekN(1).Kind != TokenInterface
	}
	if isPrimitiveKind(p.peek().Kind) {
		next := p.peekN(1).Kind
		return next == TokenIdent || next == TokenLBracket
	}
	if !p.isIdentifierLike() {
		return false
	}
	if p.checkContextual("var") && p.peekN(1).Kind == TokenIdent {
		return true
	}
	return p.speculate(func() bool {
		last, ok := p.skipType()
		if !ok || !p.isIdentifierLike() {
			return false
		}
		if p.tokens[last].Is(FlagCompletion) && !p.sameLine(last, p.pos) {
			return false
		}
		if p.atCompletion() {
			return true
		}
		switch p.peekN(1).Kind {
		case TokenAssign, TokenSemicolon, TokenComma, TokenLBracket, TokenColon, TokenEOF, TokenRBrace, TokenRParen:
			return true
		}
		return p.sameLine(last, p.pos)
	})
}

func (p *Parser) parseLocalVarDecl() *Node {
	node := p.startNode(KindLocalVarDecl)
	node.AddChild(p.parseModifiers())
	if p.checkContextual("var") && p.peekN(1).Kind == TokenIdent {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindPrimitiveType, Token: &tok, Span: tok.Span})
	} else {
		node.AddChild(p.parseType())
	}
	p.parseDeclarators(node)
	return p.finishNode(node)
}

func (p *Parser) parseStatement() *Node {
	if !p.enter() {
		return p.missing("nesting too deep")
	}
	defer p.leave()

	saved := p.stmtStart
	p.stmtStart = p.pos
	defer func() { p.stmtStart = saved }()

	tok := p.peek()
	switch tok.Kind {
	case TokenLBrace:
		return p.parseBlock()
	case TokenSemicolon:
		node := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(node)
	case TokenRBrace, TokenEOF:
		n := p.startNode(KindEmptyStmt)
		n.Synthetic = true
		return p.finishNode(n)
	case TokenIf:
		return p.parseIfStmt()
	case TokenFor:
		return p.parseForStmt()
	case TokenWhile:
		return p.parseWhileStmt()
	case TokenDo:
		return p.parseDoStmt()
	case TokenSwitch:
		return p.parseSwitch(KindSwitchStmt)
	case TokenReturn:
		return p.parseExprKeywordStmt(KindReturnStmt)
	case TokenThrow:
		return p.parseExprKeywordStmt(KindThrowStmt)
	case TokenBreak:
		return p.parseJumpStmt(KindBreakStmt)
	case TokenContinue:
		return p.parseJumpStmt(KindContinueStmt)
	case TokenTry:
		return p.parseTryStmt()
	case TokenSynchronized:
		return p.parseSynchronizedStmt()
	case TokenAssert:
		return p.parseAssertStmt()
	case TokenIdent:
		if p.checkContextual("yield") && p.isYield() {
			return p.parseExprKeywordStmt(KindYieldStmt)
		}
		if p.peekN(1).Kind == TokenColon && !p.atCompletion() {
			return p.parseLabeledStmt()
		}
	}
	return p.parseExprStmt()
}

func (p *Parser) isYield() bool {
	switch p.peekN(1).Kind {
	case TokenAssign, TokenDot, TokenLParen, TokenLBracket, TokenIncrement, TokenDecrement,
		TokenPlusAssign, TokenMinusAssign, TokenSemicolon:
		return false
	}
	return true
}

func (p *Parser) parseExprStmt() *Node {
	node := p.startNode(KindExprStmt)
	expr := p.parseExpression()
	node.AddChild(expr)
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseParenCondition() *Node {
	open := p.expect(TokenLParen)
	cond := p.parseExpression()
	if open != nil {
		p.expect(TokenRParen)
	}
	return cond
}

func (p *Parser) parseIfStmt() *Node {
	node := p.startNode(KindIfStmt)
	p.advance()
	node.AddChild(p.parseParenCondition())
	node.AddChild(p.parseStatement())
	if p.expect(TokenElse) != nil {
		node.AddChild(p.parseStatement())
	} else {
		node.AddChild(p.empty())
	}
	return p.finishNode(node)
}

func (p *Parser) parseWhileStmt() *Node {
	node := p.startNode(KindWhileStmt)
	p.advance()
	node.AddChild(p.parseParenCondition())
	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseDoStmt() *Node {
	node := p.startNode(KindDoStmt)
	p.advance()
	node.AddChild(p.parseStatement())
	if p.expect(TokenWhile) != nil {
		node.AddChild(p.parseParenCondition())
	} else {
		node.AddChild(p.missing("expected while"))
	}
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseForStmt() *Node {
	start := p.startNode(KindForStmt)
	p.advance()
	open := p.expect(TokenLParen)

	if open != nil && p.isEnhancedFor() {
		node := start
		node.Kind = KindEnhancedForStmt
		param := p.startNode(KindParameter)
		param.AddChild(p.parseModifiers())
		if p.checkContextual("var") && p.peekN(1).Kind == TokenIdent {
			tok := p.advance()
			param.AddChild(&Node{Kind: KindPrimitiveType, Token: &tok, Span: tok.Span})
		} else {
			param.AddChild(p.parseType())
		}
		name := p.parseIdentifier()
		p.complete(name, CompletionVariableName, nil)
		param.AddChild(name)
		node.AddChild(p.finishNode(param))
		p.expect(TokenColon)
		node.AddChild(p.parseExpression())
		p.expect(TokenRParen)
		node.AddChild(p.parseStatement())
		return p.finishNode(node)
	}

	node := start
	init := p.startNode(KindForInit)
	if !p.check(TokenSemicolon) {
		if p.isLocalVarDecl() {
			init.AddChild(p.parseLocalVarDecl())
		} else {
			p.parseExpressionList(init)
		}
	}
	node.AddChild(p.finishNode(init))
	p.expect(TokenSemicolon)

	if p.check(TokenSemicolon) || p.check(TokenRParen) {
		node.AddChild(p.empty())
	} else {
		node.AddChild(p.parseExpression())
	}
	p.expect(TokenSemicolon)

	update := p.startNode(KindForUpdate)
	if !p.check(TokenRParen) {
		p.parseExpressionList(update)
	}
	node.AddChild(p.finishNode(update))
	p.expect(TokenRParen)
	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseExpressionList(node *Node) {
	for {
		if p.match(TokenSemicolon, TokenRParen, TokenEOF, TokenRBrace) {
			return
		}
		node.AddChild(p.parseExpression())
		if p.expect(TokenComma) == nil {
			return
		}
	}
}

// isEnhancedFor looks ahead for "Type name :" after "for (".
func (p *Parser) isEnhancedFor() bool {
	return p.speculate(func() bool {
		p.parseModifiers()
		if p.checkContextual("var") {
			p.advance()
		} else if _, ok := p.skipType(); !ok {
			return false
		}
		if !p.isIdentifierLike() {
			return false
		}
		p.advance()
		return p.check(TokenColon)
	})
}

func (p *Parser) parseExprKeywordStmt(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	if p.match(TokenSemicolon, TokenRBrace, TokenEOF) {
		node.AddChild(p.empty())
	} else {
		node.AddChild(p.parseExpression())
	}
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseJumpStmt(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	if p.isIdentifierLike() && !p.atCompletion() {
		node.AddChild(p.identNode(p.advance()))
	} else {
		node.AddChild(p.empty())
	}
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseLabeledStmt() *Node {
	node := p.startNode(KindLabeledStmt)
	node.AddChild(p.identNode(p.advance()))
	p.expect(TokenColon)
	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseSynchronizedStmt() *Node {
	node := p.startNode(KindSynchronizedStmt)
	p.advance()
	node.AddChild(p.parseParenCondition())
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseAssertStmt() *Node {
	node := p.startNode(KindAssertStmt)
	p.advance()
	node.AddChild(p.parseExpression())
	if p.expect(TokenColon) != nil {
		node.AddChild(p.parseExpression())
	} else {
		node.AddChild(p.empty())
	}
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseTryStmt() *Node {
	node := p.startNode(KindTryStmt)
	p.advance()

	if p.check(TokenLParen) {
		res := p.startNode(KindResources)
		p.advance()
		for !p.check(TokenRParen) && !p.check(TokenEOF) && !p.check(TokenLBrace) {
			progress := p.mustProgress()
			if p.isLocalVarDecl() {
				res.AddChild(p.parseLocalVarDecl())
			} else {
				res.AddChild(p.parseExpression())
			}
			if !progress() || p.expect(TokenSemicolon) == nil {
				break
			}
		}
		if p.expect(TokenRParen) == nil {
			res.Flags |= NodeUnclosed
		}
		node.AddChild(p.finishNode(res))
	} else {
		node.AddChild(p.empty())
	}

	node.AddChild(p.parseBlock())

	for p.check(TokenCatch) {
		node.AddChild(p.parseCatchClause())
	}
	if p.check(TokenFinally) {
		fin := p.startNode(KindFinallyClause)
		p.advance()
		fin.AddChild(p.parseBlock())
		node.AddChild(p.finishNode(fin))
	} else {
		node.AddChild(p.empty())
	}
	return p.finishNode(node)
}

func (p *Parser) parseCatchClause() *Node {
	node := p.startNode(KindCatchClause)
	p.advance()
	open := p.expect(TokenLParen)

	param := p.startNode(KindParameter)
	param.AddChild(p.parseModifiers())
	typ := p.withFilter(TypeFilterException, p.parseType)
	if p.check(TokenBitOr) {
		union := &Node{Kind: KindUnionType, Span: typ.Span}
		union.AddChild(typ)
		for p.expect(TokenBitOr) != nil {
			union.AddChild(p.withFilter(TypeFilterException, p.parseType))
		}
		typ = p.finishNode(union)
	}
	param.AddChild(typ)
	name := p.parseIdentifier()
	p.complete(name, CompletionVariableName, nil)
	param.AddChild(name)
	node.AddChild(p.finishNode(param))

	if open != nil {
		p.expect(TokenRParen)
	}
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

// parseSwitch parses a switch statement or expression:
// [selector, SwitchCase...]. Statements before the first label are kept
// in a SwitchCase without labels.
func (p *Parser) parseSwitch(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	node.AddChild(p.parseParenCondition())

	if p.expect(TokenLBrace) == nil {
		node.Flags |= NodeUnclosed
		return p.finishNode(node)
	}
	for !p.check(TokenRBrace) && !p.check(TokenEOF) && !p.atMemberBoundary() {
		progress := p.mustProgress()
		node.AddChild(p.parseSwitchCase())
		progress()
	}
	if p.expect(TokenRBrace) == nil {
		node.Flags |= NodeUnclosed
	}
	return p.finishNode(node)
}

func (p *Parser) parseSwitchCase() *Node {
	node := p.startNode(KindSwitchCase)

	for p.check(TokenCase) || p.check(TokenDefault) {
		label := p.parseSwitchLabel()
		node.AddChild(label)
		if p.expect(TokenArrow) != nil {
			node.Flags |= NodeArrow
			break
		}
		p.expect(TokenColon)
	}

	if node.Has(NodeArrow) {
		switch {
		case p.check(TokenLBrace):
			node.AddChild(p.parseBlock())
		case p.check(TokenThrow):
			node.AddChild(p.parseStatement())
		default:
			node.AddChild(p.parseExprStmt())
		}
		return p.finishNode(node)
	}

	p.parseStatements(node, TokenCase, TokenDefault, TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseSwitchLabel() *Node {
	node := p.startNode(KindSwitchLabel)
	tok := p.advance()
	node.Token = &tok
	if tok.Kind == TokenDefault {
		return p.finishNode(node)
	}

	saved := p.noLambda
	p.noLambda = true
	defer func() { p.noLambda = saved }()

	for {
		if p.check(TokenDefault) {
			d := p.advance()
			node.AddChild(&Node{Kind: KindIdentifier, Token: &d, Span: d.Span})
		} else if p.isTypePattern() {
			node.AddChild(p.parsePattern())
		} else {
			expr := p.parseTernary()
			p.retag(expr, CompletionCaseLabel)
			node.AddChild(expr)
		}
		if p.checkContextual("when") {
			p.advance()
			node.AddChild(p.parseExpression())
		}
		if p.expect(TokenComma) == nil {
			break
		}
	}
	return p.finishNode(node)
}

// isTypePattern looks ahead for "Type name" or a record pattern "Type(".
func (p *Parser) isTypePattern() bool {
	return p.speculate(func() bool {
		p.parseModifiers()
		last, ok := p.skipType()
		if !ok {
			return false
		}
		if p.tokens[last].Is(FlagCompletion) {
			return false
		}
		return p.isIdentifierLike() || p.check(TokenLParen)
	})
}

// parsePattern parses a type pattern into a Parameter. Record patterns are
// parsed with their components as nested Parameters after the name slot.
func (p *Parser) parsePattern() *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers())
	node.AddChild(p.parseType())
	if p.check(TokenLParen) {
		p.advance()
		var components []*Node
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			components = append(components, p.parsePattern())
			if !progress() || p.expect(TokenComma) == nil {
				break
			}
		}
		p.expect(TokenRParen)
		if p.isIdentifierLike() {
			node.AddChild(p.identNode(p.advance()))
		} else {
			node.AddChild(p.empty())
		}
		for _, c := range components {
			node.AddChild(c)
		}
		return p.finishNode(node)
	}
	node.AddChild(p.parseIdentifier())
	return p.finishNode(node)
}
