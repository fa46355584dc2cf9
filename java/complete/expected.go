package complete

import (
	"github.com/dhamidi/sai-complete/java"
	"github.com/dhamidi/sai-complete/java/parser"
	"github.com/dhamidi/sai-complete/java/scope"
)

// expectedFor returns the types the context of expression n requires, the
// most likely first. It is empty when the context places no constraint.
func (ty *typer) expectedFor(n *parser.Node) []*java.Type {
	if n == nil {
		return nil
	}
	cache := len(ty.frames) == 0
	if ts, ok := ty.expected[n]; ok && cache {
		return ts
	}
	if ty.waiting[n] || ty.depth >= maxTypingDepth {
		return nil
	}
	ty.waiting[n] = true
	ty.depth++
	var out []*java.Type
	for _, t := range ty.contextTypes(n) {
		if t.IsUnknown() || t.IsVoid() || t.Kind == java.TypeNull || t.Kind == java.TypeVariable {
			continue
		}
		if !containsType(out, t) {
			out = append(out, t)
		}
	}
	ty.depth--
	delete(ty.waiting, n)
	if cache {
		ty.expected[n] = out
	}
	return out
}

func containsType(ts []*java.Type, t *java.Type) bool {
	for _, u := range ts {
		if u.Equal(t) {
			return true
		}
	}
	return false
}

func (ty *typer) contextTypes(n *parser.Node) []*java.Type {
	u := ty.u
	p := u.parent(n)
	if p == nil {
		return nil
	}
	switch p.Kind {
	case parser.KindVarDeclarator:
		if p.Child(1) != n {
			return nil
		}
		decl := u.parent(p)
		if decl == nil {
			return nil
		}
		t := u.resolver.Resolve(decl.Child(1))
		return []*java.Type{java.ArrayOfDims(t, p.Dims)}

	case parser.KindAssignExpr:
		if p.Child(1) != n {
			return nil
		}
		if args := u.parent(p); args != nil && args.Kind == parser.KindArguments {
			if an := u.parent(args); an != nil && an.Kind == parser.KindAnnotation {
				return ty.attributeTypes(an, p.Child(0).TokenLiteral())
			}
		}
		return []*java.Type{ty.typeOf(p.Child(0))}

	case parser.KindReturnStmt:
		return ty.returnTypes(p)

	case parser.KindArguments:
		gp := u.parent(p)
		if gp == nil {
			return nil
		}
		k := indexOf(p.Children, n)
		switch gp.Kind {
		case parser.KindCallExpr, parser.KindNewExpr, parser.KindEnumConstant:
			return ty.argumentTypes(gp, k)
		case parser.KindAnnotation:
			return ty.attributeTypes(gp, "value")
		}

	case parser.KindAnnotation:
		if p.Child(1) == n {
			return ty.attributeTypes(p, "value")
		}

	case parser.KindCastExpr:
		if p.Child(1) == n {
			return []*java.Type{u.resolver.Resolve(p.Child(0))}
		}

	case parser.KindLambdaExpr:
		if p.Child(1) == n {
			return ty.lambdaResults(p)
		}

	case parser.KindParenExpr:
		return ty.expectedFor(p)

	case parser.KindTernaryExpr:
		if p.Child(0) == n {
			return []*java.Type{java.Boolean}
		}
		return ty.expectedFor(p)

	case parser.KindIfStmt, parser.KindWhileStmt:
		if p.Child(0) == n {
			return []*java.Type{java.Boolean}
		}
	case parser.KindDoStmt:
		if p.Child(1) == n {
			return []*java.Type{java.Boolean}
		}
	case parser.KindForStmt:
		if p.Child(1) == n {
			return []*java.Type{java.Boolean}
		}
	case parser.KindAssertStmt:
		if p.Child(0) == n {
			return []*java.Type{java.Boolean}
		}
		return []*java.Type{java.String}

	case parser.KindUnaryExpr:
		if p.TokenLiteral() == "!" {
			return []*java.Type{java.Boolean}
		}

	case parser.KindBinaryExpr:
		switch p.TokenLiteral() {
		case "&&", "||":
			return []*java.Type{java.Boolean}
		case "==", "!=", "<", ">", "<=", ">=":
			other := p.Child(0)
			if other == n {
				other = p.Child(1)
			}
			if t := ty.typeOf(other); !t.IsUnknown() {
				return []*java.Type{t}
			}
		}

	case parser.KindSwitchLabel:
		if sw := u.parent(u.parent(p)); sw != nil {
			return []*java.Type{ty.typeOf(sw.Child(0))}
		}

	case parser.KindArrayAccess:
		if p.Child(1) == n {
			return []*java.Type{java.Int}
		}

	case parser.KindNewArrayExpr:
		if n.Kind == parser.KindArrayInit {
			return []*java.Type{java.ArrayOfDims(u.resolver.Resolve(p.Child(0)), p.Dims)}
		}
		if p.Child(0) != n {
			return []*java.Type{java.Int}
		}

	case parser.KindArrayInit:
		var out []*java.Type
		for _, t := range ty.expectedFor(p) {
			if t.IsArray() {
				out = append(out, t.Elem)
			}
		}
		return out

	case parser.KindYieldStmt:
		if sw := ty.enclosingSwitchExpr(p); sw != nil {
			return ty.expectedFor(sw)
		}

	case parser.KindExprStmt:
		if c := u.parent(p); c != nil && c.Kind == parser.KindSwitchCase && c.Has(parser.NodeArrow) {
			if sw := u.parent(c); sw != nil && sw.Kind == parser.KindSwitchExpr {
				return ty.expectedFor(sw)
			}
		}

	case parser.KindThrowStmt:
		return []*java.Type{java.ClassType("java.lang.Throwable")}
	}
	return nil
}

func indexOf(nodes []*parser.Node, n *parser.Node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}

func (ty *typer) enclosingSwitchExpr(n *parser.Node) *parser.Node {
	for p := ty.u.parent(n); p != nil; p = ty.u.parent(p) {
		switch p.Kind {
		case parser.KindSwitchExpr:
			return p
		case parser.KindLambdaExpr, parser.KindClassBody, parser.KindMethodDecl:
			return nil
		}
	}
	return nil
}

// returnTypes finds the result type required of a return statement: the
// declared return type of the method or the function type of the lambda.
func (ty *typer) returnTypes(ret *parser.Node) []*java.Type {
	for p := ty.u.parent(ret); p != nil; p = ty.u.parent(p) {
		switch p.Kind {
		case parser.KindMethodDecl:
			return []*java.Type{ty.u.resolver.Resolve(p.Child(2))}
		case parser.KindLambdaExpr:
			return ty.lambdaResults(p)
		case parser.KindClassBody, parser.KindConstructorDecl, parser.KindInitializer:
			return nil
		}
	}
	return nil
}

// lambdaResults returns the result types of the function types a lambda
// may be checked against.
func (ty *typer) lambdaResults(l *parser.Node) []*java.Type {
	arity := len(lambdaParams(l))
	var out []*java.Type
	for _, target := range ty.expectedFor(l) {
		sam := java.FunctionalMethod(ty.u.f, target)
		if sam == nil || len(sam.Params) != arity {
			continue
		}
		out = append(out, sam.Return)
	}
	return out
}

// attributeTypes returns the type of an annotation attribute, and its
// element type for array-valued attributes, which accept a single element.
func (ty *typer) attributeTypes(annotation *parser.Node, attr string) []*java.Type {
	c := ty.u.resolver.ResolveQualified(parser.QualifiedName(annotation.Child(0)))
	if c == nil {
		return nil
	}
	for _, m := range c.MethodsNamed(attr) {
		if len(m.Parameters) > 0 {
			continue
		}
		if m.ReturnType.IsArray() {
			return []*java.Type{m.ReturnType.Elem, m.ReturnType}
		}
		return []*java.Type{m.ReturnType}
	}
	return nil
}

// argumentTypes returns the parameter types at position k of every
// overload the call may still resolve to, given the arguments before k.
// Type variables of generic methods are substituted as far as the other
// arguments determine them.
func (ty *typer) argumentTypes(call *parser.Node, k int) []*java.Type {
	if k < 0 {
		return nil
	}
	var cands []*java.Method
	switch call.Kind {
	case parser.KindNewExpr:
		t := ty.allocated(call)
		if isDiamond(call.Child(1)) {
			if c := ty.u.f.FindClass(t.Name); c != nil {
				t = c.Type()
			}
		}
		cands = java.ConstructorsOf(ty.u.f, t)
	case parser.KindEnumConstant:
		if t := ty.enumOf(call); t != nil {
			cands = java.ConstructorsOf(ty.u.f, t)
		}
	default:
		cands = ty.methodCandidates(call)
	}
	args := arguments(call)
	var out []*java.Type
	for _, m := range cands {
		if !reaches(m, k) || !ty.priorArgsFit(m, args[:k], len(args)) {
			continue
		}
		formal := paramAt(m, k, len(args))
		if vars := typeVarSet(m.TypeParameters); len(vars) > 0 {
			env := make(map[string]*java.Type)
			ty.inferFromArgs(m, args, k, vars, env)
			formal = java.Subst(formal, env)
		}
		out = append(out, formal)
	}
	return out
}

// enumOf returns the type of the enum declaring constant, or nil when its
// declaration has no scope around the position.
func (ty *typer) enumOf(constant *parser.Node) *java.Type {
	decl := ty.u.parent(ty.u.parent(constant))
	if decl == nil || decl.Kind != parser.KindEnumDecl {
		return nil
	}
	for _, s := range ty.u.tree.Scopes {
		if s.Kind == scope.KindType && s.Node == decl {
			return java.ClassType(s.ClassName)
		}
	}
	return nil
}

// reaches reports whether m has a parameter at position k.
func reaches(m *java.Method, k int) bool {
	return k < len(m.Params) || m.IsVarargs && len(m.Params) > 0
}

func (ty *typer) priorArgsFit(m *java.Method, prior []*parser.Node, n int) bool {
	for j, a := range prior {
		if isPoly(a) {
			continue
		}
		at := ty.typeOf(a)
		if at.IsUnknown() {
			continue
		}
		formal := loose(paramAt(m, j, n))
		if at.Kind == java.TypeNull {
			if formal.IsPrimitive() {
				return false
			}
			continue
		}
		if !java.IsAssignable(ty.u.f, at, formal) {
			return false
		}
	}
	return true
}
