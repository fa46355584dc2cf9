package parser

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)

	if p.check(TokenPackage) || p.isAnnotatedPackage() {
		node.AddChild(p.parsePackageDecl())
	} else {
		node.AddChild(p.empty())
	}

	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		switch {
		case p.check(TokenSemicolon):
			p.advance()
		case p.check(TokenImport):
			node.AddChild(p.parseImportDecl())
		default:
			node.AddChild(p.parseTypeDecl())
		}
		progress()
	}

	return p.finishNode(node)
}

func (p *Parser) isAnnotatedPackage() bool {
	if !p.check(TokenAt) || p.peekN(1).Kind == TokenInterface {
		return false
	}
	return p.speculate(func() bool {
		for p.check(TokenAt) {
			p.parseAnnotation()
		}
		return p.check(TokenPackage)
	})
}

func (p *Parser) parsePackageDecl() *Node {
	node := p.startNode(KindPackageDecl)
	for p.check(TokenAt) {
		p.parseAnnotation()
	}
	p.expect(TokenPackage)
	node.AddChild(p.parseQualifiedName(CompletionImport))
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.expect(TokenImport)
	if tok := p.expect(TokenStatic); tok != nil {
		node.Token = tok
	}
	node.AddChild(p.parseQualifiedName(CompletionImport))
	if p.check(TokenDot) && p.peekN(1).Kind == TokenStar {
		p.advance()
		p.advance()
		node.Flags |= NodeWildcard
	}
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

// parseQualifiedName parses a dotted name. A completion token in it is
// recorded with the given kind and the name parsed so far as qualifier.
func (p *Parser) parseQualifiedName(kind CompletionKind) *Node {
	node := p.startNode(KindQualifiedName)
	ident := p.parseIdentifier()
	node.AddChild(ident)
	p.complete(ident, kind, nil)
	for p.check(TokenDot) && p.peekN(1).Kind != TokenStar {
		p.advance()
		qualifier := &Node{Kind: KindQualifiedName, Span: node.Span, Children: append([]*Node(nil), node.Children...)}
		qualifier.Span.End = p.here()
		ident := p.parseIdentifier()
		node.AddChild(ident)
		p.complete(ident, kind, qualifier)
	}
	return p.finishNode(node)
}

func (p *Parser) atTypeDeclKeyword() bool {
	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum:
		return true
	case TokenAt:
		return p.peekN(1).Kind == TokenInterface
	case TokenIdent:
		return p.checkContextual("record") && p.peekN(1).Kind == TokenIdent
	}
	return false
}

func (p *Parser) parseTypeDecl() *Node {
	start := p.startNode(KindError)
	modifiers := p.parseModifiers()

	if p.atTypeDeclKeyword() {
		return p.parseTypeDeclRest(modifiers)
	}

	if p.atCompletion() {
		ident := p.identNode(p.advance())
		if c := p.complete(ident, CompletionKeywordContext, nil); c != nil {
			c.Location = LocationTopLevel
		}
		start.Error = &Error{Message: "expected type declaration"}
		start.AddChild(modifiers)
		start.AddChild(ident)
		return p.finishNode(start)
	}

	if len(modifiers.Children) > 0 || modifiers.Flags != 0 {
		start.Error = &Error{Message: "expected type declaration"}
		start.AddChild(modifiers)
		return p.finishNode(start)
	}
	return p.errorNode("expected type declaration", TokenClass, TokenInterface, TokenEnum, TokenAt, TokenImport)
}

func (p *Parser) parseTypeDeclRest(modifiers *Node) *Node {
	if !p.enter() {
		return p.missing("nesting too deep")
	}
	defer p.leave()

	switch {
	case p.check(TokenClass):
		return p.parseClassDecl(modifiers, KindClassDecl)
	case p.check(TokenInterface):
		return p.parseClassDecl(modifiers, KindInterfaceDecl)
	case p.check(TokenEnum):
		return p.parseClassDecl(modifiers, KindEnumDecl)
	case p.check(TokenAt):
		p.advance()
		return p.parseClassDecl(modifiers, KindAnnotationDecl)
	default:
		return p.parseClassDecl(modifiers, KindRecordDecl)
	}
}

var modifierFlags = map[TokenKind]NodeFlags{
	TokenPublic:       NodePublic,
	TokenPrivate:      NodePrivate,
	TokenProtected:    NodeProtected,
	TokenStatic:       NodeStatic,
	TokenFinal:        NodeFinal,
	TokenAbstract:     NodeAbstract,
	TokenSynchronized: NodeSynchronized,
	TokenNative:       NodeNative,
	TokenTransient:    NodeTransient,
	TokenVolatile:     NodeVolatile,
	TokenStrictfp:     NodeStrictfp,
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)
	for {
		tok := p.peek()
		if flag, ok := modifierFlags[tok.Kind]; ok {
			// "synchronized (" starts a statement, not a modifier.
			if tok.Kind == TokenSynchronized && p.peekN(1).Kind == TokenLParen {
				break
			}
			p.advance()
			node.Flags |= flag
			continue
		}
		if tok.Kind == TokenDefault && p.peekN(1).Kind != TokenColon && p.peekN(1).Kind != TokenArrow {
			p.advance()
			node.Flags |= NodeDefault
			continue
		}
		if p.checkContextual("sealed") && p.isModifierFollower(1) {
			p.advance()
			node.Flags |= NodeSealed
			continue
		}
		if p.checkContextual("non") && p.peekN(1).Kind == TokenMinus && p.peekN(2).Literal == "sealed" {
			p.advance()
			p.advance()
			p.advance()
			node.Flags |= NodeNonSealed
			continue
		}
		if tok.Kind == TokenAt && p.peekN(1).Kind != TokenInterface {
			ann := p.parseAnnotation()
			if name := QualifiedName(ann.Child(0)); name == "Deprecated" || name == "java.lang.Deprecated" {
				node.Flags |= NodeDeprecated
			}
			node.AddChild(ann)
			continue
		}
		break
	}
	return p.finishNode(node)
}

func (p *Parser) isModifierFollower(n int) bool {
	switch p.peekN(n).Kind {
	case TokenClass, TokenInterface, TokenAbstract, TokenPublic, TokenPrivate,
		TokenProtected, TokenStatic, TokenFinal, TokenStrictfp, TokenAt:
		return true
	}
	return false
}

// parseAnnotation parses "@Name", "@Name(value)" or "@Name(k = v, ...)".
func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.expect(TokenAt)
	node.AddChild(p.parseQualifiedName(CompletionAnnotation))

	if !p.check(TokenLParen) {
		node.AddChild(p.empty())
		return p.finishNode(node)
	}

	args := p.startNode(KindArguments)
	p.advance()
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.isIdentifierLike() && (p.peekN(1).Kind == TokenAssign || p.atCompletion() && p.isAttributeNameEnd(1)) {
			pair := p.startNode(KindAssignExpr)
			ident := p.identNode(p.advance())
			p.complete(ident, CompletionAnnotationAttribute, node)
			pair.AddChild(ident)
			if tok := p.expect(TokenAssign); tok != nil {
				pair.Token = tok
				pair.AddChild(p.parseAnnotationValue())
			} else {
				pair.AddChild(p.empty())
			}
			args.AddChild(p.finishNode(pair))
		} else {
			args.AddChild(p.parseAnnotationValue())
		}
		if !progress() || p.expect(TokenComma) == nil {
			break
		}
	}
	if p.expect(TokenRParen) == nil {
		args.Flags |= NodeUnclosed
	}
	node.AddChild(p.finishNode(args))
	return p.finishNode(node)
}

func (p *Parser) isAttributeNameEnd(n int) bool {
	switch p.peekN(n).Kind {
	case TokenAssign, TokenRParen, TokenComma, TokenEOF:
		return true
	}
	return false
}

func (p *Parser) parseAnnotationValue() *Node {
	switch {
	case p.check(TokenAt):
		return p.parseAnnotation()
	case p.check(TokenLBrace):
		return p.parseArrayInit(p.parseAnnotationValue)
	}
	if p.isLambda() {
		return p.parseLambda()
	}
	return p.parseTernary()
}

// parseClassDecl parses every class-like declaration into the shared layout
// [Modifiers, Identifier, TypeParameters|Empty, ExtendsClause|Parameters|Empty,
// ImplementsClause|Empty, ClassBody].
func (p *Parser) parseClassDecl(modifiers *Node, kind NodeKind) *Node {
	node := &Node{Kind: kind, Span: Span{Start: modifiers.Span.Start}}
	if len(modifiers.Children) == 0 && modifiers.Flags == 0 {
		node.Span.Start = p.peek().Span.Start
		if kind == KindAnnotationDecl {
			node.Span.Start = p.tokens[p.pos-1].Span.Start
		}
	}
	p.advance()
	node.AddChild(modifiers)
	node.AddChild(p.parseIdentifier())

	if kind != KindEnumDecl && p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	} else {
		node.AddChild(p.empty())
	}

	var extends, implements, header, stray *Node
	if kind == KindRecordDecl && p.check(TokenLParen) {
		header = p.parseParameters()
	}

	for !p.check(TokenLBrace) && !p.check(TokenEOF) && !p.atMemberBoundary() {
		progress := p.mustProgress()
		switch {
		case p.check(TokenExtends):
			filter := TypeFilterClass
			if kind == KindInterfaceDecl {
				filter = TypeFilterInterface
			}
			extends = p.parseTypeList(KindExtendsClause, filter)
		case p.check(TokenImplements):
			implements = p.parseTypeList(KindImplementsClause, TypeFilterInterface)
		case p.checkContextual("permits"):
			p.parseTypeList(KindImplementsClause, TypeFilterAny)
		case p.atCompletion():
			ident := p.identNode(p.advance())
			p.complete(ident, CompletionKeywordContext, node)
			stray = &Node{Kind: KindError, Span: ident.Span, Error: &Error{Message: "expected extends or implements"}}
			stray.AddChild(ident)
		}
		if !progress() {
			break
		}
	}

	// A word being typed in the header stays in the tree, in the first
	// clause slot that is still free.
	if stray != nil {
		switch {
		case implements == nil:
			implements = stray
		case extends == nil && header == nil:
			extends = stray
		default:
			implements.AddChild(stray)
			implements.Span.End = stray.Span.End
		}
	}

	switch {
	case header != nil:
		node.AddChild(header)
	case extends != nil:
		node.AddChild(extends)
	default:
		node.AddChild(p.empty())
	}
	if implements != nil {
		node.AddChild(implements)
	} else {
		node.AddChild(p.empty())
	}
	node.AddChild(p.parseClassBody(kind))
	return p.finishNode(node)
}

func (p *Parser) parseTypeList(kind NodeKind, filter TypeFilter) *Node {
	node := p.startNode(kind)
	p.advance()
	for {
		node.AddChild(p.withFilter(filter, p.parseType))
		if p.expect(TokenComma) == nil {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeParameters() *Node {
	node := p.startNode(KindTypeParameters)
	p.expect(TokenLT)
	for p.isIdentifierLike() || p.check(TokenAt) {
		tp := p.startNode(KindTypeParameter)
		for p.check(TokenAt) {
			p.parseAnnotation()
		}
		tp.AddChild(p.parseIdentifier())
		if p.expect(TokenExtends) != nil {
			tp.AddChild(p.parseType())
			for p.expect(TokenBitAnd) != nil {
				tp.AddChild(p.parseType())
			}
		}
		node.AddChild(p.finishNode(tp))
		if p.expect(TokenComma) == nil {
			break
		}
	}
	if !p.expectGT() {
		node.Flags |= NodeUnclosed
	}
	return p.finishNode(node)
}

func (p *Parser) parseClassBody(declKind NodeKind) *Node {
	node := p.startNode(KindClassBody)
	if p.expect(TokenLBrace) == nil {
		node.Flags |= NodeUnclosed
		node.Synthetic = true
		return p.finishNode(node)
	}

	if declKind == KindEnumDecl {
		p.parseEnumConstants(node)
	}

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		node.AddChild(p.parseClassMember(declKind))
		progress()
	}
	if p.expect(TokenRBrace) == nil {
		node.Flags |= NodeUnclosed
	}
	return p.finishNode(node)
}

func (p *Parser) parseEnumConstants(body *Node) {
	for {
		if !p.isIdentifierLike() && !p.check(TokenAt) {
			break
		}
		if p.isIdentifierLike() && p.isEnumMemberAhead() {
			break
		}
		node := p.startNode(KindEnumConstant)
		node.AddChild(p.parseModifiers())
		node.AddChild(p.parseIdentifier())
		if p.check(TokenLParen) {
			node.AddChild(p.parseArguments())
		} else {
			node.AddChild(p.empty())
		}
		if p.check(TokenLBrace) {
			node.AddChild(p.parseClassBody(KindClassDecl))
		} else {
			node.AddChild(p.empty())
		}
		body.AddChild(p.finishNode(node))
		if p.expect(TokenComma) == nil {
			break
		}
	}
	p.expect(TokenSemicolon)
}

// isEnumMemberAhead tells a member declaration such as "Foo bar;" apart
// from a constant list when the constants are missing.
func (p *Parser) isEnumMemberAhead() bool {
	next := p.peekN(1).Kind
	return next == TokenIdent || next == TokenLT || next == TokenDot || next == TokenLBracket
}

func (p *Parser) parseClassMember(declKind NodeKind) *Node {
	if !p.enter() {
		return p.missing("nesting too deep")
	}
	defer p.leave()

	modifiers := p.parseModifiers()

	switch {
	case p.check(TokenLBrace):
		node := &Node{Kind: KindInitializer, Span: Span{Start: modifiers.Span.Start}}
		if len(modifiers.Children) == 0 && modifiers.Flags == 0 {
			node.Span.Start = p.peek().Span.Start
		}
		node.AddChild(modifiers)
		node.AddChild(p.parseBlock())
		return p.finishNode(node)
	case p.atTypeDeclKeyword():
		return p.parseTypeDeclRest(modifiers)
	case p.atCompletion() && p.isPotentialMethodDeclaration():
		return p.parsePotentialMethodDeclaration(modifiers)
	}

	var typeParams *Node
	if p.check(TokenLT) {
		typeParams = p.parseTypeParameters()
	} else {
		typeParams = p.empty()
	}

	// Constructor: Name "(" or a compact record constructor "Name {".
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseConstructor(modifiers, typeParams)
	}
	if declKind == KindRecordDecl && p.isIdentifierLike() && p.peekN(1).Kind == TokenLBrace {
		return p.parseConstructor(modifiers, typeParams)
	}

	if !p.startsType() {
		if len(modifiers.Children) == 0 && modifiers.Flags == 0 {
			return p.errorNode("expected member declaration")
		}
		n := p.missing("expected member declaration")
		n.AddChild(modifiers)
		return n
	}

	typ := p.parseType()

	if p.atCompletion() {
		// A name being typed after a type: a method name after void or
		// before "(", otherwise a field name.
		if typ.Kind == KindPrimitiveType && typ.TokenLiteral() == "void" || p.peekN(1).Kind == TokenLParen {
			return p.parseMethod(modifiers, typeParams, typ, declKind)
		}
		return p.parseField(modifiers, typ)
	}
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseMethod(modifiers, typeParams, typ, declKind)
	}
	return p.parseField(modifiers, typ)
}

func (p *Parser) startsType() bool {
	tok := p.peek()
	return tok.Kind == TokenIdent || tok.Kind == TokenVoid || isPrimitiveKind(tok.Kind) || tok.Kind == TokenAt
}

// isPotentialMethodDeclaration decides whether a completion token at member
// start is a lone word rather than the type of a declaration that follows.
func (p *Parser) isPotentialMethodDeclaration() bool {
	if !p.sameLine(p.pos, p.pos+1) {
		return true
	}
	switch p.peekN(1).Kind {
	case TokenIdent, TokenLT, TokenDot, TokenLBracket:
		return false
	}
	return true
}

func (p *Parser) parsePotentialMethodDeclaration(modifiers *Node) *Node {
	node := &Node{Kind: KindFieldDecl, Span: Span{Start: modifiers.Span.Start}, Synthetic: true}
	if len(modifiers.Children) == 0 && modifiers.Flags == 0 {
		node.Span.Start = p.peek().Span.Start
	}
	node.AddChild(modifiers)
	typ := p.startNode(KindClassType)
	ident := p.identNode(p.advance())
	if c := p.complete(ident, CompletionPotentialMethodDeclaration, nil); c != nil {
		c.Location = LocationMemberStart
	}
	typ.AddChild(ident)
	typ.AddChild(p.empty())
	node.AddChild(p.finishNode(typ))
	return p.finishNode(node)
}

func (p *Parser) parseConstructor(modifiers, typeParams *Node) *Node {
	node := &Node{Kind: KindConstructorDecl, Span: Span{Start: modifiers.Span.Start}}
	if len(modifiers.Children) == 0 && modifiers.Flags == 0 {
		node.Span.Start = p.peek().Span.Start
	}
	node.AddChild(modifiers)
	node.AddChild(typeParams)
	node.AddChild(p.parseIdentifier())
	if p.check(TokenLParen) {
		node.AddChild(p.parseParameters())
	} else {
		params := p.startNode(KindParameters)
		params.Synthetic = true
		node.AddChild(p.finishNode(params))
	}
	if p.check(TokenThrows) {
		node.AddChild(p.parseTypeList(KindThrowsList, TypeFilterException))
	} else {
		node.AddChild(p.empty())
	}
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseMethod(modifiers, typeParams, returnType *Node, declKind NodeKind) *Node {
	node := &Node{Kind: KindMethodDecl, Span: Span{Start: modifiers.Span.Start}}
	if len(modifiers.Children) == 0 && modifiers.Flags == 0 {
		node.Span.Start = returnType.Span.Start
		if typeParams.Kind != KindEmpty {
			node.Span.Start = typeParams.Span.Start
		}
	}
	node.AddChild(modifiers)
	node.AddChild(typeParams)
	node.AddChild(returnType)
	name := p.parseIdentifier()
	if c := p.complete(name, CompletionPotentialMethodDeclaration, nil); c != nil {
		c.Location = LocationMemberStart
	}
	node.AddChild(name)

	if p.check(TokenLParen) {
		node.AddChild(p.parseParameters())
	} else {
		params := p.startNode(KindParameters)
		params.Synthetic = true
		params.Flags |= NodeUnclosed
		node.AddChild(p.finishNode(params))
	}
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
	}
	if p.check(TokenThrows) {
		node.AddChild(p.parseTypeList(KindThrowsList, TypeFilterException))
	} else {
		node.AddChild(p.empty())
	}
	if declKind == KindAnnotationDecl && p.expect(TokenDefault) != nil {
		p.parseAnnotationValue()
	}

	switch {
	case p.check(TokenLBrace):
		node.AddChild(p.parseBlock())
	default:
		p.expect(TokenSemicolon)
		node.AddChild(p.empty())
	}
	return p.finishNode(node)
}

func (p *Parser) parseField(modifiers, typ *Node) *Node {
	node := &Node{Kind: KindFieldDecl, Span: Span{Start: modifiers.Span.Start}}
	if len(modifiers.Children) == 0 && modifiers.Flags == 0 {
		node.Span.Start = typ.Span.Start
	}
	node.AddChild(modifiers)
	node.AddChild(typ)
	p.parseDeclarators(node)
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

// parseDeclarators parses "a = 1, b[] = {}" into VarDeclarator children.
func (p *Parser) parseDeclarators(node *Node) {
	for {
		decl := p.startNode(KindVarDeclarator)
		name := p.parseIdentifier()
		p.complete(name, CompletionVariableName, nil)
		decl.AddChild(name)
		for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
			p.advance()
			p.advance()
			decl.Dims++
		}
		if p.expect(TokenAssign) != nil {
			decl.AddChild(p.parseVarInit())
		} else {
			decl.AddChild(p.empty())
		}
		node.AddChild(p.finishNode(decl))
		if p.expect(TokenComma) == nil {
			return
		}
	}
}

func (p *Parser) parseVarInit() *Node {
	if p.check(TokenLBrace) {
		return p.parseArrayInit(p.parseVarInit)
	}
	return p.parseExpression()
}

func (p *Parser) parseArrayInit(element func() *Node) *Node {
	node := p.startNode(KindArrayInit)
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) && !p.check(TokenSemicolon) {
		progress := p.mustProgress()
		node.AddChild(element())
		if p.expect(TokenComma) == nil {
			progress()
			break
		}
		progress()
	}
	if p.expect(TokenRBrace) == nil {
		node.Flags |= NodeUnclosed
	}
	return p.finishNode(node)
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		if !p.startsParameter() {
			break
		}
		progress := p.mustProgress()
		if p.check(TokenThis) || (p.isIdentifierLike() && p.peekN(1).Kind == TokenDot && p.peekN(2).Kind == TokenThis) {
			// Receiver parameter; it declares nothing.
			for !p.match(TokenComma, TokenRParen, TokenEOF) {
				p.advance()
			}
		} else {
			node.AddChild(p.parseParameter())
		}
		if p.expect(TokenComma) == nil {
			progress()
			break
		}
		progress()
	}
	if p.expect(TokenRParen) == nil {
		node.Flags |= NodeUnclosed
	}
	return p.finishNode(node)
}

func (p *Parser) startsParameter() bool {
	switch p.peek().Kind {
	case TokenIdent, TokenFinal, TokenAt, TokenThis:
		return true
	}
	return isPrimitiveKind(p.peek().Kind)
}

func (p *Parser) parseParameter() *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers())
	typ := p.parseType()
	if p.check(TokenEllipsis) {
		p.advance()
		node.Flags |= NodeVarargs
		typ = &Node{Kind: KindArrayType, Span: typ.Span, Children: []*Node{typ}, Dims: 1}
	}
	node.AddChild(typ)
	name := p.parseIdentifier()
	p.complete(name, CompletionVariableName, nil)
	node.AddChild(name)
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
		node.Dims++
	}
	return p.finishNode(node)
}
