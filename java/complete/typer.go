package complete

import (
	"strings"

	"github.com/dhamidi/sai-complete/java"
	"github.com/dhamidi/sai-complete/java/parser"
	"github.com/dhamidi/sai-complete/java/scope"
)

// value is what an expression denotes: a value of some type, a type used
// as a qualifier, or a package.
type value struct {
	Type *java.Type
	// Static is set when the expression names a type.
	Static bool
	// Package is set when the expression names a package.
	Package string
	// Super marks a super receiver.
	Super bool
}

var unknown = value{Type: java.Unknown}

func typed(t *java.Type) value {
	if t == nil {
		t = java.Unknown
	}
	return value{Type: t}
}

func (v value) known() bool {
	return v.Package != "" || !v.Type.IsUnknown()
}

const maxTypingDepth = 64

// typer computes static types of expressions in the unit. Results are
// approximate: what cannot be typed is java.Unknown, never an error.
type typer struct {
	u *unit

	vars     map[*scope.Binding]*java.Type
	exprs    map[*parser.Node]value
	expected map[*parser.Node][]*java.Type
	busy     map[*parser.Node]bool
	waiting  map[*parser.Node]bool

	// frames hold lambda parameters and locals typed outside the scope
	// chain of the position, innermost last.
	frames []map[string]*java.Type
	depth  int
	steps  int
}

func newTyper(u *unit) *typer {
	return &typer{
		u:        u,
		vars:     make(map[*scope.Binding]*java.Type),
		exprs:    make(map[*parser.Node]value),
		expected: make(map[*parser.Node][]*java.Type),
		busy:     make(map[*parser.Node]bool),
		waiting:  make(map[*parser.Node]bool),
	}
}

func (ty *typer) typeOf(n *parser.Node) *java.Type {
	v := ty.resolve(n)
	if v.Static || v.Package != "" {
		return java.Unknown
	}
	return v.Type
}

func (ty *typer) resolve(n *parser.Node) value {
	if n == nil || n.Kind == parser.KindEmpty || n.Kind == parser.KindError {
		return unknown
	}
	cache := len(ty.frames) == 0
	if v, ok := ty.exprs[n]; ok && cache {
		return v
	}
	if ty.busy[n] || ty.depth >= maxTypingDepth {
		return unknown
	}
	if ty.steps++; ty.steps%64 == 0 {
		poll(ty.u.ctx)
	}
	ty.busy[n] = true
	ty.depth++
	v := ty.resolveExpr(n)
	ty.depth--
	delete(ty.busy, n)
	if v.Type == nil {
		v.Type = java.Unknown
	}
	if cache {
		ty.exprs[n] = v
	}
	return v
}

func (ty *typer) resolveExpr(n *parser.Node) value {
	f := ty.u.f
	switch n.Kind {
	case parser.KindLiteral:
		return typed(literalType(n.Token))
	case parser.KindIdentifier:
		return ty.resolveName(n)
	case parser.KindFieldAccess:
		return ty.resolveSelect(n)
	case parser.KindCallExpr:
		return typed(ty.callType(n))
	case parser.KindNewExpr:
		return typed(ty.newType(n))
	case parser.KindNewArrayExpr:
		return typed(java.ArrayOfDims(ty.u.resolver.Resolve(n.Child(0)), n.Dims))
	case parser.KindArrayAccess:
		if t := ty.typeOf(n.Child(0)); t.IsArray() {
			return typed(t.Elem)
		}
	case parser.KindCastExpr:
		return typed(ty.u.resolver.Resolve(n.Child(0)))
	case parser.KindParenExpr:
		return typed(ty.typeOf(n.Child(0)))
	case parser.KindAssignExpr, parser.KindPostfixExpr:
		return typed(ty.typeOf(n.Child(0)))
	case parser.KindTernaryExpr:
		return typed(ty.conditionalType(n))
	case parser.KindBinaryExpr:
		return typed(ty.binaryType(n))
	case parser.KindUnaryExpr:
		return typed(ty.unaryType(n))
	case parser.KindInstanceofExpr:
		return typed(java.Boolean)
	case parser.KindThis:
		return ty.thisValue(n)
	case parser.KindSuper:
		return ty.superValue(n)
	case parser.KindClassLiteral:
		t := ty.u.resolver.Resolve(n.Child(0))
		if t.IsVoid() {
			t = java.ClassType("java.lang.Void")
		}
		return typed(java.ClassType("java.lang.Class", java.Box(t)))
	case parser.KindLambdaExpr, parser.KindMethodRef:
		for _, t := range ty.expectedFor(n) {
			if java.FunctionalMethod(f, t) != nil {
				return typed(t)
			}
		}
	case parser.KindSwitchExpr:
		return typed(ty.switchType(n))
	case parser.KindClassType, parser.KindPrimitiveType, parser.KindArrayType:
		if t := ty.u.resolver.Resolve(n); !t.IsUnknown() {
			return value{Type: t, Static: true}
		}
	}
	return unknown
}

func literalType(tok *parser.Token) *java.Type {
	if tok == nil {
		return java.Unknown
	}
	switch tok.Kind {
	case parser.TokenIntLiteral:
		if strings.HasSuffix(tok.Literal, "l") || strings.HasSuffix(tok.Literal, "L") {
			return java.Long
		}
		return java.Int
	case parser.TokenFloatLiteral:
		if strings.HasSuffix(tok.Literal, "f") || strings.HasSuffix(tok.Literal, "F") {
			return java.Float
		}
		return java.Double
	case parser.TokenCharLiteral:
		return java.Char
	case parser.TokenStringLiteral, parser.TokenTextBlock:
		return java.String
	case parser.TokenTrue, parser.TokenFalse:
		return java.Boolean
	case parser.TokenNull:
		return java.Null
	}
	return java.Unknown
}

// resolveName resolves a simple name: a variable, a field of an enclosing
// class, a statically imported field, a type or a package.
func (ty *typer) resolveName(n *parser.Node) value {
	name := n.TokenLiteral()
	if name == "" {
		return unknown
	}
	for i := len(ty.frames) - 1; i >= 0; i-- {
		if t, ok := ty.frames[i][name]; ok {
			return typed(t)
		}
	}
	if b, _ := ty.u.tree.Lookup(ty.u.at, name, false); b != nil {
		return typed(ty.bindingType(b))
	}
	for _, s := range ty.u.tree.Classes(ty.u.at) {
		c := ty.u.classModel(s)
		if c == nil {
			continue
		}
		for _, fd := range java.FieldsOf(ty.u.f, c.Type()) {
			if fd.Name == name {
				return typed(fd.Type)
			}
		}
	}
	for _, fd := range ty.staticImportFields() {
		if fd.Name == name {
			return typed(fd.Type)
		}
	}
	if c := ty.u.resolver.ResolveClass(name); c != nil {
		return value{Type: c.RawType(), Static: true}
	}
	if ty.u.isPackage(name) {
		return value{Package: name}
	}
	return unknown
}

func (ty *typer) resolveSelect(n *parser.Node) value {
	left := ty.resolve(n.Child(0))
	name := n.Child(1).TokenLiteral()
	if name == "" {
		return unknown
	}
	if left.Package != "" {
		full := left.Package + "." + name
		if c := ty.u.f.FindClass(full); c != nil {
			return value{Type: c.RawType(), Static: true}
		}
		if ty.u.isPackage(full) {
			return value{Package: full}
		}
		return unknown
	}
	if left.Type.IsUnknown() {
		return unknown
	}
	for _, fd := range java.FieldsOf(ty.u.f, left.Type) {
		if fd.Name == name && (!left.Static || fd.IsStatic) {
			return typed(fd.Type)
		}
	}
	if left.Static {
		for _, mc := range java.MemberTypesOf(ty.u.f, left.Type) {
			if mc.SimpleName == name {
				return value{Type: mc.RawType(), Static: true}
			}
		}
	}
	return unknown
}

// staticImport pairs a class named by a static import with the imported
// member name, empty for on-demand imports.
type staticImport struct {
	Class  *java.ClassModel
	Member string
}

func (ty *typer) staticImports() []staticImport {
	var out []staticImport
	for _, imp := range ty.u.file.Imports {
		if !imp.Static {
			continue
		}
		if imp.Wildcard {
			if c := ty.u.resolver.ResolveQualified(imp.Name); c != nil {
				out = append(out, staticImport{Class: c})
			}
			continue
		}
		dot := strings.LastIndexByte(imp.Name, '.')
		if dot < 0 {
			continue
		}
		if c := ty.u.resolver.ResolveQualified(imp.Name[:dot]); c != nil {
			out = append(out, staticImport{Class: c, Member: imp.Name[dot+1:]})
		}
	}
	return out
}

func (ty *typer) staticImportFields() []*java.Field {
	var out []*java.Field
	for _, si := range ty.staticImports() {
		for _, fd := range java.FieldsOf(ty.u.f, si.Class.RawType()) {
			if fd.IsStatic && (si.Member == "" || si.Member == fd.Name) {
				out = append(out, fd)
			}
		}
	}
	return out
}

func (ty *typer) staticImportMethods() []*java.Method {
	var out []*java.Method
	for _, si := range ty.staticImports() {
		for _, m := range java.MethodsOf(ty.u.f, si.Class.RawType()) {
			if m.IsStatic && (si.Member == "" || si.Member == m.Name) {
				out = append(out, m)
			}
		}
	}
	return out
}

// bindingType returns the type of a local variable or parameter, inferring
// it from context for var declarations and implicitly typed lambda
// parameters.
func (ty *typer) bindingType(b *scope.Binding) *java.Type {
	if t, ok := ty.vars[b]; ok {
		return t
	}
	ty.vars[b] = java.Unknown
	t := ty.inferBinding(b)
	if t == nil {
		t = java.Unknown
	}
	ty.vars[b] = t
	return t
}

func (ty *typer) inferBinding(b *scope.Binding) *java.Type {
	if !b.Inferred() {
		return java.ArrayOfDims(ty.u.resolver.Resolve(b.TypeNode), b.Dims)
	}
	switch {
	case b.Lambda != nil:
		return ty.lambdaParamType(b.Lambda, b.Index)
	case b.Iterable != nil:
		return ty.elementType(ty.typeOf(b.Iterable))
	case b.Init != nil:
		if t := ty.typeOf(b.Init); t.Kind != java.TypeNull {
			return t
		}
	}
	return java.Unknown
}

// elementType returns the type an enhanced for loop over t yields.
func (ty *typer) elementType(t *java.Type) *java.Type {
	if t.IsArray() {
		return t.Elem
	}
	it := java.AsSuper(ty.u.f, t, "java.lang.Iterable")
	if it == nil {
		return java.Unknown
	}
	if len(it.Args) == 1 {
		return it.Args[0].Upper()
	}
	return java.Object
}

func lambdaParams(l *parser.Node) []*parser.Node {
	return l.Child(0).ChildrenOfKind(parser.KindParameter)
}

// lambdaParamType types the index-th parameter of an implicitly typed
// lambda from the functional interface its context expects.
func (ty *typer) lambdaParamType(l *parser.Node, index int) *java.Type {
	arity := len(lambdaParams(l))
	for _, target := range ty.expectedFor(l) {
		sam := java.FunctionalMethod(ty.u.f, target)
		if sam != nil && len(sam.Params) == arity && index < arity {
			return sam.Params[index]
		}
	}
	return java.Unknown
}

func arguments(call *parser.Node) []*parser.Node {
	if args := call.Child(2); args != nil && args.Kind == parser.KindArguments {
		return args.Children
	}
	return nil
}

func isPoly(n *parser.Node) bool {
	return n.Kind == parser.KindLambdaExpr || n.Kind == parser.KindMethodRef
}

func methodsNamed(ms []*java.Method, name string) []*java.Method {
	var out []*java.Method
	for _, m := range ms {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

func typeVarSet(tps []java.TypeParameterModel) map[string]bool {
	if len(tps) == 0 {
		return nil
	}
	vars := make(map[string]bool, len(tps))
	for _, tp := range tps {
		vars[tp.Name] = true
	}
	return vars
}

// fill binds the type parameters left open by inference to their erased
// bounds.
func fill(env map[string]*java.Type, tps []java.TypeParameterModel) {
	for _, tp := range tps {
		if t, ok := env[tp.Name]; !ok || t.IsUnknown() {
			env[tp.Name] = tp.Var().Erasure()
		}
	}
}

func arityFits(m *java.Method, n int) bool {
	if m.IsVarargs {
		return n >= len(m.Params)-1
	}
	return n == len(m.Params)
}

// paramAt returns the formal type of argument i of n. Arguments in the
// variable arity position get the element type.
func paramAt(m *java.Method, i, n int) *java.Type {
	k := len(m.Params)
	if k == 0 {
		return java.Unknown
	}
	if m.IsVarargs && i >= k-1 {
		if last := m.Params[k-1]; last.IsArray() {
			return last.Elem
		}
		return m.Params[k-1]
	}
	if i < k {
		return m.Params[i]
	}
	return java.Unknown
}

// loose replaces a method type variable by its erased bound for
// applicability checks.
func loose(t *java.Type) *java.Type {
	if t != nil && t.Kind == java.TypeVariable {
		return t.Erasure()
	}
	return t
}

// methodCandidates lists the methods a call may invoke by name and
// receiver, before overload resolution.
func (ty *typer) methodCandidates(call *parser.Node) []*java.Method {
	name := call.Child(1).TokenLiteral()
	recv := call.Child(0)
	if recv == nil {
		switch name {
		case "this", "super":
			c := ty.u.enclosingClass()
			if c == nil {
				return nil
			}
			t := c.Type()
			if name == "super" {
				t = superOf(c)
			}
			return java.ConstructorsOf(ty.u.f, t)
		}
		return ty.implicitMethods(name)
	}
	v := ty.resolve(recv)
	if v.Package != "" || v.Type.IsUnknown() {
		return nil
	}
	return methodsNamed(java.MethodsOf(ty.u.f, v.Type), name)
}

// implicitMethods finds the methods an unqualified call may invoke: those
// of the innermost enclosing class that has a method of that name, then
// static imports.
func (ty *typer) implicitMethods(name string) []*java.Method {
	for _, s := range ty.u.tree.Classes(ty.u.at) {
		c := ty.u.classModel(s)
		if c == nil {
			continue
		}
		if ms := methodsNamed(java.MethodsOf(ty.u.f, c.Type()), name); len(ms) > 0 {
			return ms
		}
	}
	return methodsNamed(ty.staticImportMethods(), name)
}

func superOf(c *java.ClassModel) *java.Type {
	if c.SuperClass != nil {
		return c.SuperClass
	}
	return java.Object
}

// pick chooses the overload a call most likely invokes. Arguments whose
// type is unknown, including the one being completed, do not count
// against a candidate.
func (ty *typer) pick(cands []*java.Method, args []*parser.Node) *java.Method {
	var best *java.Method
	bestScore := -1
	for _, m := range cands {
		if !arityFits(m, len(args)) {
			continue
		}
		if score, ok := ty.applicability(m, args); ok && score > bestScore {
			best, bestScore = m, score
		}
	}
	if best != nil {
		return best
	}
	for _, m := range cands {
		if arityFits(m, len(args)) {
			return m
		}
	}
	if len(cands) > 0 {
		return cands[0]
	}
	return nil
}

func (ty *typer) applicability(m *java.Method, args []*parser.Node) (int, bool) {
	f := ty.u.f
	score := 0
	if !m.IsVarargs {
		score++
	}
	for i, a := range args {
		formal := paramAt(m, i, len(args))
		switch a.Kind {
		case parser.KindLambdaExpr:
			sam := java.FunctionalMethod(f, formal.Ground())
			if sam == nil || len(sam.Params) != len(lambdaParams(a)) {
				return 0, false
			}
			score += 2
			continue
		case parser.KindMethodRef:
			if java.FunctionalMethod(f, formal.Ground()) == nil {
				return 0, false
			}
			score++
			continue
		}
		at := ty.typeOf(a)
		if at.IsUnknown() {
			continue
		}
		if at.Kind == java.TypeNull {
			if formal.IsPrimitive() {
				return 0, false
			}
			continue
		}
		target := loose(formal)
		switch {
		case at.Erasure().Equal(target.Erasure()):
			score += 3
		case java.IsAssignable(f, at, target):
			score += 2
		case m.IsVarargs && i == len(m.Params)-1 && java.IsAssignable(f, at, m.Params[i]):
			score++
		default:
			return 0, false
		}
	}
	return score, true
}

// call resolves the method invoked by a call expression together with the
// type arguments inferred for it.
func (ty *typer) call(n *parser.Node) (*java.Method, map[string]*java.Type) {
	args := arguments(n)
	m := ty.pick(ty.methodCandidates(n), args)
	if m == nil {
		return nil, nil
	}
	return m, ty.inferCall(m, args, n)
}

func (ty *typer) callType(n *parser.Node) *java.Type {
	m, env := ty.call(n)
	if m == nil {
		return java.Unknown
	}
	if m.IsConstructor() {
		return java.Void
	}
	if m.Name == "getClass" && len(m.Params) == 0 {
		recv := ty.typeOf(n.Child(0))
		if n.Child(0) == nil {
			if c := ty.u.enclosingClass(); c != nil {
				recv = c.RawType()
			}
		}
		if !recv.IsUnknown() {
			return java.ClassType("java.lang.Class", java.WildcardType(java.WildcardExtends, recv.Erasure()))
		}
	}
	return java.Subst(m.Return, env)
}

// inferCall infers the type arguments of a generic method call: from the
// argument types first, then from lambda and method reference arguments,
// then from the type the context expects.
func (ty *typer) inferCall(m *java.Method, args []*parser.Node, call *parser.Node) map[string]*java.Type {
	vars := typeVarSet(m.TypeParameters)
	if len(vars) == 0 {
		return nil
	}
	env := make(map[string]*java.Type)
	ty.inferFromArgs(m, args, -1, vars, env)
	for i, a := range args {
		if isPoly(a) {
			ty.inferFunctional(paramAt(m, i, len(args)), a, vars, env)
		}
	}
	if len(env) < len(vars) {
		if exp := ty.expectedFor(call); len(exp) > 0 {
			java.Infer(ty.u.f, m.Return, exp[0], vars, env)
		}
	}
	fill(env, m.TypeParameters)
	return env
}

func (ty *typer) inferFromArgs(m *java.Method, args []*parser.Node, skip int, vars map[string]bool, env map[string]*java.Type) {
	for i, a := range args {
		if i == skip || isPoly(a) {
			continue
		}
		at := ty.typeOf(a)
		if at.IsUnknown() {
			continue
		}
		formal := paramAt(m, i, len(args))
		if m.IsVarargs && i == len(m.Params)-1 && len(args) == len(m.Params) && at.IsArray() {
			formal = m.Params[i]
		}
		java.Infer(ty.u.f, formal, at, vars, env)
	}
}

// inferFunctional infers from a lambda or method reference argument whose
// function type returns one of vars.
func (ty *typer) inferFunctional(formal *java.Type, arg *parser.Node, vars map[string]bool, env map[string]*java.Type) {
	sam := java.FunctionalMethod(ty.u.f, java.Subst(formal, env))
	if sam == nil || !java.Mentions(sam.Return, vars) {
		return
	}
	var rt *java.Type
	switch arg.Kind {
	case parser.KindLambdaExpr:
		rt = ty.lambdaReturn(arg, sam.Params)
	case parser.KindMethodRef:
		rt = ty.methodRefReturn(arg, sam.Params)
	}
	if rt.IsUnknown() || rt.IsVoid() {
		return
	}
	java.Infer(ty.u.f, sam.Return, rt, vars, env)
}

// lambdaReturn types the body of a lambda whose parameters have the given
// types.
func (ty *typer) lambdaReturn(l *parser.Node, params []*java.Type) *java.Type {
	frame := make(map[string]*java.Type)
	for i, p := range lambdaParams(l) {
		name := p.Name()
		if name == "" {
			continue
		}
		switch tn := p.Child(1); {
		case tn != nil:
			frame[name] = ty.u.resolver.Resolve(tn)
		case i < len(params):
			frame[name] = params[i]
		default:
			frame[name] = java.Unknown
		}
	}
	ty.frames = append(ty.frames, frame)
	defer func() { ty.frames = ty.frames[:len(ty.frames)-1] }()

	body := l.Child(1)
	if body == nil || body.IsError() {
		return java.Unknown
	}
	if body.Kind != parser.KindBlock {
		return ty.typeOf(body)
	}
	return ty.blockReturn(body, frame)
}

// blockReturn types the first return statement of a lambda block body,
// declaring the block's locals in frame as it goes.
func (ty *typer) blockReturn(block *parser.Node, frame map[string]*java.Type) *java.Type {
	for _, st := range block.Children {
		if st.Kind == parser.KindLocalVarDecl {
			ty.declareLocals(st, frame)
			continue
		}
		var ret *parser.Node
		parser.Walk(st, func(n *parser.Node) bool {
			if ret != nil || n.Kind == parser.KindLambdaExpr || n.Kind == parser.KindClassBody {
				return false
			}
			if n.Kind == parser.KindReturnStmt {
				ret = n
				return false
			}
			return true
		})
		if ret != nil {
			if e := ret.Child(0); e != nil {
				return ty.typeOf(e)
			}
			return java.Void
		}
	}
	return java.Void
}

func (ty *typer) declareLocals(decl *parser.Node, frame map[string]*java.Type) {
	typ := decl.Child(1)
	inferred := typ == nil || typ.Kind == parser.KindPrimitiveType && typ.TokenLiteral() == "var"
	for _, d := range decl.ChildrenOfKind(parser.KindVarDeclarator) {
		name := d.Name()
		if name == "" {
			continue
		}
		if inferred {
			frame[name] = ty.typeOf(d.Child(1))
		} else {
			frame[name] = java.ArrayOfDims(ty.u.resolver.Resolve(typ), d.Dims)
		}
	}
}

// methodRefReturn types what a method reference returns when applied to
// arguments of the given types.
func (ty *typer) methodRefReturn(ref *parser.Node, params []*java.Type) *java.Type {
	v := ty.resolve(ref.Child(0))
	name := ref.Child(1).TokenLiteral()
	if !v.known() || v.Package != "" {
		return java.Unknown
	}
	if name == "new" {
		if v.Static {
			return v.Type
		}
		return java.Unknown
	}
	m := ty.methodRefTarget(v, name, params)
	if m == nil {
		return java.Unknown
	}
	ret := m.Return
	if vars := typeVarSet(m.TypeParameters); len(vars) > 0 {
		args := params
		if v.Static && !m.IsStatic && len(args) > 0 {
			args = args[1:]
		}
		env := make(map[string]*java.Type)
		for i, p := range m.Params {
			if i < len(args) {
				java.Infer(ty.u.f, p, args[i], vars, env)
			}
		}
		fill(env, m.TypeParameters)
		ret = java.Subst(ret, env)
	}
	return ret
}

// methodRefTarget picks the method a reference names. A type receiver
// refers either to a static method taking all function arguments or to an
// instance method invoked on the first.
func (ty *typer) methodRefTarget(v value, name string, params []*java.Type) *java.Method {
	ms := methodsNamed(java.MethodsOf(ty.u.f, v.Type), name)
	n := len(params)
	if v.Static {
		for _, m := range ms {
			if m.IsStatic && arityFits(m, n) {
				return m
			}
		}
		for _, m := range ms {
			if !m.IsStatic && arityFits(m, n-1) {
				return m
			}
		}
	} else {
		for _, m := range ms {
			if arityFits(m, n) {
				return m
			}
		}
	}
	if len(ms) > 0 {
		return ms[0]
	}
	return nil
}

func isDiamond(ct *parser.Node) bool {
	if ct == nil || ct.Kind != parser.KindClassType || len(ct.Children) == 0 {
		return false
	}
	last := ct.Children[len(ct.Children)-1]
	return last.Kind == parser.KindTypeArguments && len(last.Children) == 0
}

// allocated returns the class type a new expression names, without
// diamond inference.
func (ty *typer) allocated(n *parser.Node) *java.Type {
	typ := n.Child(1)
	if outer := n.Child(0); outer != nil {
		ot := ty.typeOf(outer)
		name := parser.QualifiedName(typ)
		for _, mc := range java.MemberTypesOf(ty.u.f, ot) {
			if mc.SimpleName == name {
				return mc.RawType()
			}
		}
		return java.Unknown
	}
	return ty.u.resolver.Resolve(typ)
}

func (ty *typer) newType(n *parser.Node) *java.Type {
	t := ty.allocated(n)
	if t.IsUnknown() || !isDiamond(n.Child(1)) {
		return t
	}
	c := ty.u.f.FindClass(t.Name)
	if c == nil || len(c.TypeParameters) == 0 {
		return t
	}
	vars := typeVarSet(c.TypeParameters)
	env := make(map[string]*java.Type)
	self := c.Type()
	args := arguments(n)
	if ctor := ty.pick(java.ConstructorsOf(ty.u.f, self), args); ctor != nil {
		ty.inferFromArgs(ctor, args, -1, vars, env)
	}
	for _, e := range ty.expectedFor(n) {
		if sup := java.AsSuper(ty.u.f, self, e.Name); sup != nil {
			java.Infer(ty.u.f, sup, e, vars, env)
			break
		}
	}
	fill(env, c.TypeParameters)
	return java.Subst(self, env)
}

func (ty *typer) thisValue(n *parser.Node) value {
	if q := n.Child(0); q != nil {
		if c := ty.u.f.FindClass(ty.u.resolver.Resolve(q).Name); c != nil {
			return typed(c.Type())
		}
		return unknown
	}
	if c := ty.u.enclosingClass(); c != nil {
		return typed(c.Type())
	}
	return unknown
}

func (ty *typer) superValue(n *parser.Node) value {
	if q := n.Child(0); q != nil {
		t := ty.u.resolver.Resolve(q)
		c := ty.u.f.FindClass(t.Name)
		switch {
		case c == nil:
			return unknown
		case c.IsInterface():
			return value{Type: t, Super: true}
		}
		return value{Type: superOf(c), Super: true}
	}
	if c := ty.u.enclosingClass(); c != nil {
		return value{Type: superOf(c), Super: true}
	}
	return unknown
}

func (ty *typer) conditionalType(n *parser.Node) *java.Type {
	a, b := ty.typeOf(n.Child(1)), ty.typeOf(n.Child(2))
	switch {
	case a.IsUnknown() || a.Kind == java.TypeNull:
		if b.Kind == java.TypeNull {
			return java.Unknown
		}
		return java.Box(b)
	case b.IsUnknown() || b.Kind == java.TypeNull:
		return java.Box(a)
	case a.Equal(b):
		return a
	}
	if p := java.BinaryPromotion(a, b); !p.IsUnknown() && (a.IsPrimitive() || b.IsPrimitive()) {
		return p
	}
	if java.IsAssignable(ty.u.f, b, a) {
		return a
	}
	if java.IsAssignable(ty.u.f, a, b) {
		return b
	}
	return java.Object
}

func (ty *typer) binaryType(n *parser.Node) *java.Type {
	switch op := n.TokenLiteral(); op {
	case "&&", "||", "==", "!=", "<", ">", "<=", ">=":
		return java.Boolean
	case "+":
		l, r := ty.typeOf(n.Child(0)), ty.typeOf(n.Child(1))
		if l.Is(java.String.Name) || r.Is(java.String.Name) {
			return java.String
		}
		return java.BinaryPromotion(l, r)
	case "<<", ">>", ">>>":
		return unaryPromotion(ty.typeOf(n.Child(0)))
	case "&", "|", "^":
		l, r := ty.typeOf(n.Child(0)), ty.typeOf(n.Child(1))
		if isBoolean(l) && isBoolean(r) {
			return java.Boolean
		}
		return java.BinaryPromotion(l, r)
	default:
		return java.BinaryPromotion(ty.typeOf(n.Child(0)), ty.typeOf(n.Child(1)))
	}
}

func (ty *typer) unaryType(n *parser.Node) *java.Type {
	operand := ty.typeOf(n.Child(0))
	switch n.TokenLiteral() {
	case "!":
		return java.Boolean
	case "++", "--":
		return operand
	}
	return unaryPromotion(operand)
}

func isBoolean(t *java.Type) bool {
	return t.Equal(java.Boolean) || t.Is("java.lang.Boolean")
}

func unaryPromotion(t *java.Type) *java.Type {
	if u := java.Unbox(t); u != nil {
		t = u
	}
	if !t.IsNumeric() {
		return java.Unknown
	}
	switch t.Name {
	case "byte", "short", "char":
		return java.Int
	}
	return t
}

// switchType types a switch expression by its first typed result.
func (ty *typer) switchType(n *parser.Node) *java.Type {
	for _, c := range n.ChildrenOfKind(parser.KindSwitchCase) {
		for _, st := range caseBody(c) {
			if st.Kind == parser.KindExprStmt && c.Has(parser.NodeArrow) {
				if t := ty.typeOf(st.Child(0)); !t.IsUnknown() {
					return t
				}
				continue
			}
			var found *java.Type
			parser.Walk(st, func(x *parser.Node) bool {
				if found != nil || x.Kind == parser.KindSwitchExpr || x.Kind == parser.KindLambdaExpr || x.Kind == parser.KindClassBody {
					return false
				}
				if x.Kind == parser.KindYieldStmt {
					if t := ty.typeOf(x.Child(0)); !t.IsUnknown() {
						found = t
					}
					return false
				}
				return true
			})
			if found != nil {
				return found
			}
		}
	}
	return java.Unknown
}

// caseBody returns the statements of a switch case after its labels.
func caseBody(c *parser.Node) []*parser.Node {
	for i, child := range c.Children {
		if child.Kind != parser.KindSwitchLabel {
			return c.Children[i:]
		}
	}
	return nil
}
