package scope

import (
	"strconv"

	"github.com/dhamidi/sai-complete/java/parser"
)

// Builder creates the scopes enclosing a cursor.
type Builder struct {
	// Package is the package of the compilation unit, used to name
	// top-level types.
	Package string
	// Exclude is a name node that must not produce a binding, typically the
	// name being completed in a declaration.
	Exclude *parser.Node

	tree   *Tree
	offset int
	root   *parser.Node
	class  string
}

// Build walks path, the chain of nodes from the compilation unit down to
// the node at offset, and returns the scope tree with the innermost scope.
func (b *Builder) Build(path []*parser.Node, offset int) (*Tree, ID) {
	b.tree = &Tree{}
	b.offset = offset
	if len(path) > 0 {
		b.root = path[0]
	}
	cur := b.tree.add(KindUnit, None, b.root)
	for i, n := range path {
		var next *parser.Node
		if i+1 < len(path) {
			next = path[i+1]
		}
		switch {
		case n.Kind.IsTypeDecl():
			b.class = b.typeName(path[:i], n, b.class)
			cur = b.typeScope(cur, n, b.class, i)
		case n.Kind == parser.KindLocalClassDecl:
			// The declaration itself is the next path element.
		case n.Kind == parser.KindClassBody && i > 0 && isAnonymousHost(path[i-1]):
			b.class = b.anonymousName(path[:i], path[i-1], b.class)
			cur = b.tree.add(KindAnonymous, cur, path[i-1])
			b.tree.Scopes[cur].ClassName = b.class
		default:
			cur = b.enter(cur, n, next)
		}
	}
	return b.tree, cur
}

func isAnonymousHost(n *parser.Node) bool {
	return n.Kind == parser.KindNewExpr || n.Kind == parser.KindEnumConstant
}

func (b *Builder) typeScope(parent ID, decl *parser.Node, className string, depth int) ID {
	id := b.tree.add(KindType, parent, decl)
	s := &b.tree.Scopes[id]
	s.ClassName = className
	s.Static = depth <= 1 || decl.Child(0).Has(parser.NodeStatic) || decl.Kind != parser.KindClassDecl
	if params := decl.Child(2); params != nil && params.Kind == parser.KindTypeParameters {
		for _, tp := range params.Children {
			b.bind(id, Binding{Name: tp.Name(), Kind: BindingTypeParameter, Node: tp}, tp.NameNode())
		}
	}
	return id
}

// typeName derives the binary name of decl from the enclosing path.
func (b *Builder) typeName(path []*parser.Node, decl *parser.Node, outer string) string {
	name := decl.Name()
	if outer == "" {
		if b.Package == "" {
			return name
		}
		return b.Package + "." + name
	}
	if len(path) > 0 && path[len(path)-1].Kind == parser.KindLocalClassDecl {
		return outer + "$1" + name
	}
	return outer + "$" + name
}

// anonymousName numbers anonymous classes by their position among the
// anonymous classes of the enclosing named type.
func (b *Builder) anonymousName(path []*parser.Node, host *parser.Node, outer string) string {
	var owner *parser.Node
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].Kind.IsTypeDecl() {
			owner = path[i]
			break
		}
	}
	n := 1
	if owner != nil {
		parser.Walk(owner, func(c *parser.Node) bool {
			if c == host {
				return false
			}
			if isAnonymousHost(c) && c.Child(3) != nil && c.Child(3).Kind == parser.KindClassBody &&
				c.Span.Start.Offset < host.Span.Start.Offset {
				n++
			}
			return c.Span.Start.Offset < host.Span.Start.Offset
		})
	}
	return AnonymousName(outer, n)
}

// AnonymousName returns the binary name of the n-th anonymous class of
// outer.
func AnonymousName(outer string, n int) string {
	return outer + "$" + strconv.Itoa(n)
}

// enter opens the scope for n when n introduces names visible from next.
func (b *Builder) enter(cur ID, n, next *parser.Node) ID {
	switch n.Kind {
	case parser.KindMethodDecl, parser.KindConstructorDecl:
		id := b.tree.add(KindMethod, cur, n)
		b.tree.Scopes[id].Static = n.Child(0).Has(parser.NodeStatic)
		if tps := n.Child(1); tps != nil {
			for _, tp := range tps.Children {
				b.bind(id, Binding{Name: tp.Name(), Kind: BindingTypeParameter, Node: tp}, tp.NameNode())
			}
		}
		body := n.Children[len(n.Children)-1]
		if next != nil && next == body {
			params := n.Child(4)
			if n.Kind == parser.KindConstructorDecl {
				params = n.Child(3)
			}
			b.bindParameters(id, params)
		}
		return id
	case parser.KindInitializer:
		id := b.tree.add(KindInitializer, cur, n)
		b.tree.Scopes[id].Static = n.Child(0).Has(parser.NodeStatic)
		return id
	case parser.KindFieldDecl:
		id := b.tree.add(KindInitializer, cur, n)
		b.tree.Scopes[id].Static = n.Child(0).Has(parser.NodeStatic)
		return id
	case parser.KindLambdaExpr:
		id := b.tree.add(KindLambda, cur, n)
		if next != nil && next == n.Child(1) {
			for i, p := range n.Child(0).Children {
				b.bind(id, Binding{
					Name:     p.Name(),
					Kind:     BindingParameter,
					Node:     p,
					TypeNode: p.Child(1),
					Dims:     p.Dims,
					Lambda:   n,
					Index:    i,
					Final:    p.Child(0).Has(parser.NodeFinal),
				}, p.NameNode())
			}
		}
		return id
	case parser.KindBlock:
		id := b.tree.add(KindBlock, cur, n)
		b.bindStatements(id, n.Children)
		return id
	case parser.KindSwitchStmt, parser.KindSwitchExpr:
		// Locals of earlier colon cases stay in scope in later ones.
		id := b.tree.add(KindBlock, cur, n)
		for _, c := range n.Children[1:] {
			if c == next || c.Span.Start.Offset >= b.offset || c.Has(parser.NodeArrow) {
				continue
			}
			b.bindStatements(id, caseStatements(c))
		}
		return id
	case parser.KindSwitchCase:
		id := b.tree.add(KindBlock, cur, n)
		for _, c := range n.Children {
			if c.Kind != parser.KindSwitchLabel {
				continue
			}
			for _, l := range c.Children {
				if l.Kind == parser.KindParameter && next != c {
					b.bindPattern(id, l)
				}
			}
		}
		b.bindStatements(id, caseStatements(n))
		return id
	case parser.KindForStmt:
		id := b.tree.add(KindBlock, cur, n)
		if init := n.Child(0); init != nil {
			b.bindStatements(id, init.Children)
		}
		return id
	case parser.KindForInit:
		return cur
	case parser.KindEnhancedForStmt:
		id := b.tree.add(KindBlock, cur, n)
		if next != nil && next == n.Child(2) {
			p := n.Child(0)
			b.bind(id, Binding{
				Name:     p.Name(),
				Kind:     BindingLocal,
				Node:     p,
				TypeNode: p.Child(1),
				Dims:     p.Dims,
				Iterable: n.Child(1),
				Final:    p.Child(0).Has(parser.NodeFinal),
			}, p.NameNode())
		}
		return id
	case parser.KindCatchClause:
		id := b.tree.add(KindBlock, cur, n)
		if next != nil && next == n.Child(1) {
			p := n.Child(0)
			b.bind(id, Binding{Name: p.Name(), Kind: BindingParameter, Node: p, TypeNode: p.Child(1)}, p.NameNode())
		}
		return id
	case parser.KindTryStmt:
		id := b.tree.add(KindBlock, cur, n)
		if res := n.Child(0); res != nil && next != nil && next == n.Child(1) {
			b.bindStatements(id, res.Children)
		}
		return id
	case parser.KindResources:
		id := b.tree.add(KindBlock, cur, n)
		b.bindStatements(id, n.Children)
		return id
	case parser.KindIfStmt:
		if next == nil {
			return cur
		}
		var patterns []*parser.Node
		switch next {
		case n.Child(1):
			patterns = whenTrue(n.Child(0))
		case n.Child(2):
			patterns = whenFalse(n.Child(0))
		}
		return b.patternScope(cur, n, patterns)
	case parser.KindWhileStmt:
		if next != nil && next == n.Child(1) {
			return b.patternScope(cur, n, whenTrue(n.Child(0)))
		}
	case parser.KindForUpdate:
		return cur
	case parser.KindTernaryExpr:
		switch {
		case next == nil:
		case next == n.Child(1):
			return b.patternScope(cur, n, whenTrue(n.Child(0)))
		case next == n.Child(2):
			return b.patternScope(cur, n, whenFalse(n.Child(0)))
		}
	case parser.KindBinaryExpr:
		if next != nil && next == n.Child(1) {
			switch n.TokenLiteral() {
			case "&&":
				return b.patternScope(cur, n, whenTrue(n.Child(0)))
			case "||":
				return b.patternScope(cur, n, whenFalse(n.Child(0)))
			}
		}
	}
	return cur
}

func caseStatements(c *parser.Node) []*parser.Node {
	for i, s := range c.Children {
		if s.Kind != parser.KindSwitchLabel {
			return c.Children[i:]
		}
	}
	return nil
}

func (b *Builder) patternScope(cur ID, n *parser.Node, patterns []*parser.Node) ID {
	if len(patterns) == 0 {
		return cur
	}
	id := b.tree.add(KindBlock, cur, n)
	for _, p := range patterns {
		b.bindPattern(id, p)
	}
	return id
}

// bindPattern binds the names introduced by an instanceof expression or a
// pattern Parameter, including nested record components.
func (b *Builder) bindPattern(id ID, p *parser.Node) {
	if p == nil {
		return
	}
	if name := p.Child(2); name != nil && name.Kind == parser.KindIdentifier {
		b.bind(id, Binding{Name: name.TokenLiteral(), Kind: BindingLocal, Node: p, TypeNode: p.Child(1)}, name)
	}
	for _, c := range p.Children[min(3, len(p.Children)):] {
		if c.Kind == parser.KindParameter {
			b.bindPattern(id, c)
		}
	}
}

// whenTrue collects the patterns whose bindings are definitely matched when
// cond evaluates to true.
func whenTrue(cond *parser.Node) []*parser.Node {
	if cond == nil {
		return nil
	}
	switch cond.Kind {
	case parser.KindInstanceofExpr:
		return []*parser.Node{cond}
	case parser.KindParenExpr:
		return whenTrue(cond.Child(0))
	case parser.KindUnaryExpr:
		if cond.TokenLiteral() == "!" {
			return whenFalse(cond.Child(0))
		}
	case parser.KindBinaryExpr:
		if cond.TokenLiteral() == "&&" {
			return append(whenTrue(cond.Child(0)), whenTrue(cond.Child(1))...)
		}
	}
	return nil
}

func whenFalse(cond *parser.Node) []*parser.Node {
	if cond == nil {
		return nil
	}
	switch cond.Kind {
	case parser.KindParenExpr:
		return whenFalse(cond.Child(0))
	case parser.KindUnaryExpr:
		if cond.TokenLiteral() == "!" {
			return whenTrue(cond.Child(0))
		}
	case parser.KindBinaryExpr:
		if cond.TokenLiteral() == "||" {
			return append(whenFalse(cond.Child(0)), whenFalse(cond.Child(1))...)
		}
	}
	return nil
}

func (b *Builder) bindParameters(id ID, params *parser.Node) {
	if params == nil {
		return
	}
	for _, p := range params.Children {
		if p.Kind != parser.KindParameter {
			continue
		}
		b.bind(id, Binding{
			Name:     p.Name(),
			Kind:     BindingParameter,
			Node:     p,
			TypeNode: p.Child(1),
			Dims:     p.Dims,
			Final:    p.Child(0).Has(parser.NodeFinal),
		}, p.NameNode())
	}
}

// bindStatements binds the locals declared by statements that precede the
// cursor. A declarator whose span holds the cursor is still being written
// and declares nothing yet.
func (b *Builder) bindStatements(id ID, stmts []*parser.Node) {
	for _, s := range stmts {
		if s.Span.Start.Offset >= b.offset {
			break
		}
		switch s.Kind {
		case parser.KindLocalVarDecl:
			typ := s.Child(1)
			final := s.Child(0).Has(parser.NodeFinal)
			for _, d := range s.Children[2:] {
				if d.Kind != parser.KindVarDeclarator || d.Span.Contains(b.offset) {
					continue
				}
				name := d.NameNode()
				if name == nil || name.Span.End.Offset > b.offset {
					continue
				}
				b.bind(id, Binding{
					Name:     name.TokenLiteral(),
					Kind:     BindingLocal,
					Node:     d,
					TypeNode: typ,
					Dims:     d.Dims,
					Init:     d.Child(1),
					Final:    final,
				}, name)
			}
		case parser.KindLocalClassDecl:
			decl := s.Child(0)
			if decl == nil || decl.Span.Contains(b.offset) {
				continue
			}
			b.bind(id, Binding{Name: decl.Name(), Kind: BindingType, Node: decl, ClassName: b.class + "$1" + decl.Name()}, decl.NameNode())
		case parser.KindIfStmt:
			// if (!(o instanceof T t)) return; makes t visible afterwards.
			if s.Span.End.Offset <= b.offset && s.Child(2) == nil && !completesNormally(s.Child(1)) {
				for _, p := range whenFalse(s.Child(0)) {
					b.bindPattern(id, p)
				}
			}
		}
	}
}

func completesNormally(stmt *parser.Node) bool {
	if stmt == nil {
		return true
	}
	switch stmt.Kind {
	case parser.KindReturnStmt, parser.KindThrowStmt, parser.KindBreakStmt, parser.KindContinueStmt:
		return false
	case parser.KindBlock:
		if len(stmt.Children) == 0 {
			return true
		}
		return completesNormally(stmt.Children[len(stmt.Children)-1])
	}
	return true
}

func (b *Builder) bind(id ID, binding Binding, name *parser.Node) {
	if binding.Name == "" || name == nil || name == b.Exclude || name.Synthetic {
		return
	}
	binding.Offset = name.Span.Start.Offset
	s := &b.tree.Scopes[id]
	s.Bindings = append(s.Bindings, binding)
}
