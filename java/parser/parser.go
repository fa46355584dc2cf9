package parser

const (
	defaultMaxDepth = 500
	// Each token may be revisited by a bounded number of loop iterations
	// before the parser gives up and jumps to the end of input.
	stepsPerToken = 64
)

type Option func(*Parser)

// WithCursor places the completion cursor at a byte offset. The token under
// the cursor, or a zero-width identifier inserted there, is tracked through
// the parse and reported in Result.Completion.
func WithCursor(offset int) Option {
	return func(p *Parser) {
		p.cursor = offset
	}
}

// WithMaxDepth bounds the recursion depth of the parser.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// Result is the outcome of a parse. Root is never nil.
type Result struct {
	Root       *Node
	Completion *CompletionNode
	Tokens     []Token
	Comments   []Token
	// InComment is set when the cursor falls inside a comment or literal and
	// no completion token was planted.
	InComment bool
}

type Parser struct {
	input    []byte
	tokens   []Token
	comments []Token
	pos      int

	cursor     int
	completion *CompletionNode
	prefix     string
	replace    Span
	suppressed bool

	speculating int
	depth       int
	maxDepth    int
	steps       int
	maxSteps    int

	// stmtStart is the token index at which the statement being parsed
	// began, or -1 outside statements.
	stmtStart int
	// typeFilter applies to type completions while parsing extends,
	// implements, throws and catch clauses.
	typeFilter TypeFilter
	// noLambda disables "x -> y" parsing in case labels.
	noLambda bool
}

// Parse parses a Java compilation unit. It never fails: malformed input
// yields a tree with Error nodes and synthetic placeholders.
func Parse(src []byte, opts ...Option) *Result {
	p := &Parser{
		input:     src,
		cursor:    -1,
		maxDepth:  defaultMaxDepth,
		stmtStart: -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.tokens, p.comments = Tokenize(src)
	p.prepareCompletion()
	p.maxSteps = stepsPerToken*len(p.tokens) + 1024

	root := p.parseCompilationUnit()
	return &Result{
		Root:       root,
		Completion: p.completion,
		Tokens:     p.tokens,
		Comments:   p.comments,
		InComment:  p.suppressed,
	}
}

// ParseExpression parses a single expression, used for evaluating snippets
// such as annotation defaults.
func ParseExpression(src []byte) *Node {
	p := &Parser{
		input:     src,
		cursor:    -1,
		maxDepth:  defaultMaxDepth,
		stmtStart: -1,
	}
	p.tokens, p.comments = Tokenize(src)
	p.maxSteps = stepsPerToken*len(p.tokens) + 1024
	return p.parseExpression()
}

// prepareCompletion marks the token under the cursor. An identifier or
// keyword touching the cursor becomes the completion token; otherwise a
// zero-width identifier is inserted at the cursor. Cursors inside comments
// or literals plant nothing.
func (p *Parser) prepareCompletion() {
	c := p.cursor
	if c < 0 || c > len(p.input) {
		return
	}
	for _, cm := range p.comments {
		start, end := cm.Span.Start.Offset, cm.Span.End.Offset
		if start < c && c < end {
			p.suppressed = true
			return
		}
		if c == end && start < c && (cm.Kind == TokenLineComment || cm.Is(FlagMalformed)) {
			p.suppressed = true
			return
		}
	}

	insertAt := len(p.tokens) - 1
	for i, tok := range p.tokens {
		if tok.Kind == TokenEOF {
			insertAt = i
			break
		}
		start, end := tok.Span.Start.Offset, tok.Span.End.Offset
		if start > c {
			insertAt = i
			break
		}
		if c > end {
			continue
		}
		if isWordToken(tok.Kind) {
			p.plant(i, c)
			return
		}
		if isLiteralToken(tok.Kind) && start < c {
			p.suppressed = true
			return
		}
		if start == c {
			insertAt = i
			break
		}
	}

	pos := positionAt(p.input, c)
	tok := Token{
		Kind:  TokenIdent,
		Span:  Span{Start: pos, End: pos},
		Flags: FlagCompletion | FlagSynthetic,
	}
	p.tokens = append(p.tokens, Token{})
	copy(p.tokens[insertAt+1:], p.tokens[insertAt:])
	p.tokens[insertAt] = tok
	p.replace = tok.Span
}

func (p *Parser) plant(i, cursor int) {
	tok := &p.tokens[i]
	tok.Kind = TokenIdent
	tok.Flags |= FlagCompletion
	p.prefix = tok.Literal[:cursor-tok.Span.Start.Offset]
	p.replace = tok.Span
}

func isWordToken(k TokenKind) bool {
	return k == TokenIdent || k.IsKeyword()
}

func isLiteralToken(k TokenKind) bool {
	switch k {
	case TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral, TokenStringLiteral, TokenTextBlock:
		return true
	}
	return false
}

func positionAt(src []byte, offset int) Position {
	pos := Position{Line: 1, Column: 1}
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	pos.Offset = offset
	return pos
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) && tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

func (p *Parser) isIdentifierLike() bool {
	return p.check(TokenIdent)
}

func (p *Parser) checkContextual(word string) bool {
	tok := p.peek()
	return tok.Kind == TokenIdent && tok.Literal == word && !tok.Is(FlagCompletion)
}

func (p *Parser) atCompletion() bool {
	return p.peek().Is(FlagCompletion)
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end: when nothing was consumed it skips one token and reports
// false. It also enforces the global step budget.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	p.steps++
	if p.steps > p.maxSteps {
		p.pos = len(p.tokens) - 1
	}
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) enter() bool {
	if p.depth >= p.maxDepth {
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() {
	p.depth--
}

// here is the position right after the last consumed token.
func (p *Parser) here() Position {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	end := p.here()
	if end.Offset < n.Span.Start.Offset {
		end = n.Span.Start
	}
	n.Span.End = end
	return n
}

func (p *Parser) empty() *Node {
	pos := p.here()
	return &Node{Kind: KindEmpty, Span: Span{Start: pos, End: pos}, Synthetic: true}
}

// missing returns a zero-width error node without consuming input.
func (p *Parser) missing(msg string) *Node {
	pos := p.here()
	tok := p.peek()
	return &Node{
		Kind:      KindError,
		Span:      Span{Start: pos, End: pos},
		Synthetic: true,
		Error:     &Error{Message: msg, Got: &tok},
	}
}

// errorNode consumes the offending token and then skips ahead to one of the
// recovery tokens.
func (p *Parser) errorNode(msg string, recoverTo ...TokenKind) *Node {
	tok := p.peek()
	node := &Node{
		Kind:  KindError,
		Span:  tok.Span,
		Error: &Error{Message: msg, Got: &tok},
	}
	p.recoverTo(recoverTo)
	return p.finishNode(node)
}

func (p *Parser) recoverTo(kinds []TokenKind) {
	if !p.check(TokenEOF) {
		p.advance()
	}
	if len(kinds) == 0 {
		return
	}
	for !p.check(TokenEOF) {
		if p.match(kinds...) || p.atMemberBoundary() {
			return
		}
		p.advance()
	}
}

// atMemberBoundary reports whether the next token can only start a class
// member. Unclosed blocks end there so that the remaining members of the
// enclosing type still parse as members.
func (p *Parser) atMemberBoundary() bool {
	switch p.peek().Kind {
	case TokenPublic, TokenPrivate, TokenProtected:
		return true
	}
	return false
}

func (p *Parser) identNode(tok Token) *Node {
	return &Node{
		Kind:      KindIdentifier,
		Token:     &tok,
		Span:      tok.Span,
		Synthetic: tok.Is(FlagSynthetic),
	}
}

// parseIdentifier consumes an identifier or returns a synthetic one with an
// empty name.
func (p *Parser) parseIdentifier() *Node {
	if p.isIdentifierLike() {
		return p.identNode(p.advance())
	}
	pos := p.here()
	return &Node{
		Kind:      KindIdentifier,
		Token:     &Token{Kind: TokenIdent, Span: Span{Start: pos, End: pos}},
		Span:      Span{Start: pos, End: pos},
		Synthetic: true,
	}
}

// complete records n as the completion node when it holds the completion
// token. It is a no-op while speculating or once a node was recorded.
func (p *Parser) complete(n *Node, kind CompletionKind, qualifier *Node) *CompletionNode {
	if n == nil || n.Token == nil || !n.Token.Is(FlagCompletion) {
		return nil
	}
	if p.speculating > 0 || p.completion != nil {
		return nil
	}
	p.completion = &CompletionNode{
		Node:      n,
		Kind:      kind,
		Prefix:    p.prefix,
		Token:     n.Token.Literal,
		Replace:   p.replace,
		Qualifier: qualifier,
	}
	return p.completion
}

// retag changes the kind of a recorded completion when n turned out to be
// the completion node in a more specific context.
func (p *Parser) retag(n *Node, kind CompletionKind) bool {
	if p.completion == nil || n == nil || p.completion.Node != n {
		return false
	}
	p.completion.Kind = kind
	return true
}

// speculate runs fn with completion recording disabled and restores the
// token position afterwards.
func (p *Parser) speculate(fn func() bool) bool {
	save := p.pos
	saveDepth := p.depth
	p.speculating++
	result := fn()
	p.speculating--
	p.pos = save
	p.depth = saveDepth
	return result
}

func (p *Parser) withFilter(f TypeFilter, fn func() *Node) *Node {
	saved := p.typeFilter
	p.typeFilter = f
	n := fn()
	p.typeFilter = saved
	return n
}

// sameLine reports whether token index j starts on the line token i ends on.
func (p *Parser) sameLine(i, j int) bool {
	if i < 0 || j >= len(p.tokens) || i >= len(p.tokens) {
		return false
	}
	return p.tokens[i].Span.End.Line == p.tokens[j].Span.Start.Line
}
