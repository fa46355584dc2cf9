package complete

import (
	"context"
	"strings"

	"github.com/dhamidi/sai-complete/java"
	"github.com/dhamidi/sai-complete/java/parser"
	"github.com/dhamidi/sai-complete/java/scope"
)

// CodeSelect resolves the name at offset to the declarations it refers
// to. A call whose overloads cannot be told apart, as with the same name
// imported statically from two classes, yields each of them. Names that
// do not resolve yield an empty list.
func CodeSelect(ctx context.Context, rc ResolutionContext, src []byte, offset, length int) (out []*Element, err error) {
	if err := checkCanceled(ctx); err != nil {
		return nil, err
	}
	offset = clamp(offset, len(src))
	// A selection may start on whitespace before the name.
	for length > 0 && offset < len(src) && !isIdentByte(src[offset]) {
		offset++
		length--
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = []*Element{}, recovered("select", offset, r)
			if err != nil {
				out = nil
			}
		}
	}()

	u := analyze(ctx, rc, src, offset, false)
	s := &selector{u: u, ty: u.ty}
	out = s.selectAt()
	if out == nil {
		out = []*Element{}
	}
	log.Debugf("select: %d elements at %d", len(out), offset)
	return out, nil
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b >= 0x80
}

type selector struct {
	u  *unit
	ty *typer
}

func (s *selector) selectAt() []*Element {
	if len(s.u.path) == 0 {
		return nil
	}
	n := s.u.path[len(s.u.path)-1]
	switch n.Kind {
	case parser.KindIdentifier:
	case parser.KindThis, parser.KindSuper:
		if v := s.ty.resolve(n); !v.Type.IsUnknown() {
			if c := s.u.f.FindClass(v.Type.Name); c != nil {
				return []*Element{s.u.classElement(c)}
			}
		}
		return nil
	default:
		return nil
	}
	name := n.TokenLiteral()
	if name == "" {
		return nil
	}
	p := s.u.parent(n)
	if p == nil {
		return nil
	}
	if p.NameNode() == n {
		if e := s.declaration(p); e != nil {
			return []*Element{e}
		}
	}
	switch p.Kind {
	case parser.KindCallExpr:
		if p.Child(1) == n {
			return s.call(p)
		}
	case parser.KindFieldAccess:
		if p.Child(1) == n {
			return s.selection(p)
		}
	case parser.KindMethodRef:
		if p.Child(1) == n {
			return s.methodRef(p)
		}
	case parser.KindClassType, parser.KindQualifiedName:
		return s.qualifiedName(p, n)
	case parser.KindAssignExpr:
		if gp := s.u.parent(s.u.parent(p)); gp != nil && gp.Kind == parser.KindAnnotation && p.Child(0) == n {
			return s.annotationAttribute(gp, name)
		}
	}
	return s.simpleName(name)
}

// declaration returns the element declared by decl, whose name is under
// the cursor.
func (s *selector) declaration(decl *parser.Node) *Element {
	u := s.u
	at := decl.NameNode().Span.Start.Offset
	switch {
	case decl.Kind.IsTypeDecl():
		for _, sc := range u.tree.Classes(u.at) {
			if sc.Node == decl {
				if c := u.classModel(sc); c != nil {
					return u.classElement(c)
				}
			}
		}
		for _, d := range u.file.TypeDecls() {
			if d.Node == decl {
				if c := u.f.FindClass(d.Name); c != nil {
					return u.classElement(c)
				}
			}
		}
	case decl.Kind == parser.KindMethodDecl, decl.Kind == parser.KindConstructorDecl:
		cls := u.enclosingClass()
		if cls == nil {
			return nil
		}
		ms := java.MethodsOf(u.f, cls.Type())
		if decl.Kind == parser.KindConstructorDecl {
			ms = java.ConstructorsOf(u.f, cls.Type())
		}
		for _, m := range ms {
			if m.Owner == cls && m.Offset == at {
				return u.methodElement(m)
			}
		}
	case decl.Kind == parser.KindEnumConstant:
		if cls := u.enclosingClass(); cls != nil {
			return s.fieldOf(cls, decl.Name())
		}
	case decl.Kind == parser.KindVarDeclarator:
		if holder := u.parent(decl); holder != nil && holder.Kind == parser.KindFieldDecl {
			if cls := u.enclosingClass(); cls != nil {
				return s.fieldOf(cls, decl.Name())
			}
			return nil
		}
		return s.local(decl, at)
	case decl.Kind == parser.KindParameter:
		return s.local(decl, at)
	case decl.Kind == parser.KindTypeParameter:
		return &Element{
			Kind:      ElementTypeParameter,
			Name:      decl.Name(),
			Signature: java.TypeVar(decl.Name(), nil).Signature(),
			Path:      u.rc.Path,
			Offset:    at,
		}
	}
	return nil
}

func (s *selector) fieldOf(cls *java.ClassModel, name string) *Element {
	for _, fd := range java.FieldsOf(s.u.f, cls.Type()) {
		if fd.Name == name && fd.Owner == cls {
			return s.u.fieldElement(fd)
		}
	}
	return nil
}

// local returns the element of a local variable or parameter declared by
// decl. Declarations after the position are not in scope, so their type
// comes from the declaration itself.
func (s *selector) local(decl *parser.Node, at int) *Element {
	for _, vb := range s.u.tree.Visible(s.u.at) {
		if vb.Offset == at && vb.Kind.IsVariable() {
			return s.u.bindingElement(vb.Binding, s.ty.bindingType(vb.Binding))
		}
	}
	b := &scope.Binding{Name: decl.Name(), Kind: scope.BindingLocal, Node: decl, Offset: at}
	var t *java.Type
	switch decl.Kind {
	case parser.KindParameter:
		b.Kind = scope.BindingParameter
		t = s.u.resolver.Resolve(decl.Child(1))
	case parser.KindVarDeclarator:
		holder := s.u.parent(decl)
		if holder != nil && holder.Child(1) != nil && !(holder.Child(1).Kind == parser.KindPrimitiveType && holder.Child(1).TokenLiteral() == "var") {
			t = s.u.resolver.Resolve(holder.Child(1))
			if decl.Dims > 0 && !t.IsUnknown() {
				t = java.ArrayOfDims(t, decl.Dims)
			}
		} else {
			t = s.ty.typeOf(decl.Child(1))
		}
	}
	if t == nil {
		t = java.Unknown
	}
	return s.u.bindingElement(b, t)
}

// call resolves the method a call invokes. When overload resolution
// cannot separate candidates from different classes all of them are
// returned.
func (s *selector) call(call *parser.Node) []*Element {
	cands := s.ty.methodCandidates(call)
	if len(cands) == 0 {
		return nil
	}
	args := arguments(call)
	var best []*java.Method
	bestScore := -1
	for _, m := range cands {
		if !arityFits(m, len(args)) {
			continue
		}
		score, ok := s.ty.applicability(m, args)
		switch {
		case !ok:
		case score > bestScore:
			best, bestScore = []*java.Method{m}, score
		case score == bestScore:
			best = append(best, m)
		}
	}
	if len(best) > 1 && call.Child(0) == nil && distinctOwners(best) {
		out := make([]*Element, len(best))
		for i, m := range best {
			out[i] = s.u.methodElement(m)
		}
		return out
	}
	if m := s.ty.pick(cands, args); m != nil {
		return []*Element{s.u.methodElement(m)}
	}
	return nil
}

func distinctOwners(ms []*java.Method) bool {
	for _, m := range ms[1:] {
		if m.Owner != ms[0].Owner {
			return true
		}
	}
	return false
}

// selection resolves the name after "qualifier.".
func (s *selector) selection(n *parser.Node) []*Element {
	left := s.ty.resolve(n.Child(0))
	name := n.Child(1).TokenLiteral()
	switch {
	case left.Package != "":
		full := left.Package + "." + name
		if c := s.u.f.FindClass(full); c != nil {
			return []*Element{s.u.classElement(c)}
		}
		if s.u.isPackage(full) {
			return []*Element{packageElement(full)}
		}
		return nil
	case left.Type.IsUnknown():
		return nil
	}
	if left.Type.IsArray() && name == "length" {
		return []*Element{{Kind: ElementField, Name: "length", Signature: java.Int.Signature(), Offset: -1, Type: java.Int}}
	}
	for _, fd := range java.FieldsOf(s.u.f, left.Type) {
		if fd.Name == name && (!left.Static || fd.IsStatic) {
			return []*Element{s.u.fieldElement(fd)}
		}
	}
	if left.Static {
		for _, mc := range java.MemberTypesOf(s.u.f, left.Type) {
			if mc.SimpleName == name {
				return []*Element{s.u.classElement(mc)}
			}
		}
	}
	return nil
}

func (s *selector) methodRef(ref *parser.Node) []*Element {
	v := s.ty.resolve(ref.Child(0))
	name := ref.Child(1).TokenLiteral()
	if v.Package != "" || v.Type.IsUnknown() {
		return nil
	}
	if name == "new" {
		if c := s.u.f.FindClass(v.Type.Name); c != nil {
			if ctors := java.ConstructorsOf(s.u.f, c.Type()); len(ctors) > 0 {
				return []*Element{s.u.methodElement(ctors[0])}
			}
			return []*Element{s.u.classElement(c)}
		}
		return nil
	}
	var params []*java.Type
	for _, t := range s.ty.expectedFor(ref) {
		if sam := java.FunctionalMethod(s.u.f, t); sam != nil {
			params = sam.Params
			break
		}
	}
	if m := s.ty.methodRefTarget(v, name, params); m != nil {
		return []*Element{s.u.methodElement(m)}
	}
	if ms := methodsNamed(java.MethodsOf(s.u.f, v.Type), name); len(ms) > 0 {
		return []*Element{s.u.methodElement(ms[0])}
	}
	return nil
}

// qualifiedName resolves the segment id of a dotted type or package name,
// looking only at the segments up to and including id.
func (s *selector) qualifiedName(qn, id *parser.Node) []*Element {
	var parts []string
	for _, c := range qn.Children {
		if c.Kind != parser.KindIdentifier {
			continue
		}
		parts = append(parts, c.TokenLiteral())
		if c == id {
			break
		}
	}
	name := strings.Join(parts, ".")
	if c := s.u.resolver.ResolveQualified(name); c != nil {
		return []*Element{s.u.classElement(c)}
	}
	if len(parts) == 1 {
		if b, _ := s.u.tree.Lookup(s.u.at, name, true); b != nil && b.Kind == scope.BindingTypeParameter {
			return []*Element{s.u.typeParameterElement(b)}
		}
	}
	if s.u.isPackage(name) {
		return []*Element{packageElement(name)}
	}
	return nil
}

func (s *selector) annotationAttribute(an *parser.Node, name string) []*Element {
	cls := s.u.resolver.ResolveQualified(parser.QualifiedName(an.Child(0)))
	if cls == nil {
		return nil
	}
	for _, m := range java.MethodsOf(s.u.f, cls.Type()) {
		if m.Name == name && len(m.Params) == 0 {
			return []*Element{s.u.methodElement(m)}
		}
	}
	return nil
}

// simpleName resolves a name in expression position the way the language
// does: variables, then fields of enclosing classes, then static imports,
// then types, then packages.
func (s *selector) simpleName(name string) []*Element {
	u := s.u
	if b, _ := u.tree.Lookup(u.at, name, false); b != nil {
		return []*Element{u.bindingElement(b, s.ty.bindingType(b))}
	}
	for _, e := range (&collector{u: u, ty: s.ty}).enclosingClasses() {
		for _, fd := range java.FieldsOf(u.f, e.class.Type()) {
			if fd.Name == name {
				return []*Element{u.fieldElement(fd)}
			}
		}
	}
	var imported []*Element
	for _, fd := range s.ty.staticImportFields() {
		if fd.Name == name {
			imported = append(imported, u.fieldElement(fd))
		}
	}
	if len(imported) > 0 {
		return imported
	}
	if b, _ := u.tree.Lookup(u.at, name, true); b != nil {
		switch b.Kind {
		case scope.BindingTypeParameter:
			return []*Element{u.typeParameterElement(b)}
		case scope.BindingType:
			if c := u.localClass(b); c != nil {
				return []*Element{u.classElement(c)}
			}
		}
	}
	if c := u.resolver.ResolveClass(name); c != nil {
		return []*Element{u.classElement(c)}
	}
	if u.isPackage(name) {
		return []*Element{packageElement(name)}
	}
	return nil
}
