package complete

import (
	"github.com/dhamidi/sai-complete/java"
	"github.com/dhamidi/sai-complete/java/parser"
)

// members proposes what can follow "qualifier." in an expression: the
// types and sub-packages of a package, the static members of a type, or
// the members of a value's type. An unresolved qualifier yields nothing.
func (c *collector) members() {
	v := c.ty.resolve(c.c.Qualifier)
	switch {
	case v.Package != "":
		c.packageMembers(v.Package)
	case v.Type.IsUnknown():
		log.Debugf("member completion: unresolved qualifier at %d", c.u.offset)
	case v.Static:
		c.staticMembers(v.Type)
	default:
		c.instanceMembers(v)
	}
}

func (c *collector) packageMembers(pkg string) {
	for _, name := range c.u.f.TypeNames(pkg) {
		if m := c.u.f.FindClass(name); m != nil && c.u.typeAccessible(m) && c.r.matches(m.SimpleName) {
			c.addType(m, typeModeName, false)
		}
	}
	c.packages(pkg)
}

func (c *collector) staticMembers(t *java.Type) {
	for _, fd := range java.FieldsOf(c.u.f, t) {
		if fd.IsStatic && c.u.accessible(fd.Owner, fd.Visibility) && c.r.matches(fd.Name) {
			c.addField(fd, true, fd.Depth)
		}
	}
	for _, m := range java.MethodsOf(c.u.f, t) {
		if m.IsStatic && c.u.accessible(m.Owner, m.Visibility) && c.r.matches(m.Name) {
			c.addMethod(m, true, m.Depth)
		}
	}
	for _, mc := range java.MemberTypesOf(c.u.f, t) {
		if c.u.typeAccessible(mc) && c.r.matches(mc.SimpleName) {
			c.addType(mc, typeModeName, false)
		}
	}
	c.keyword("class")
	if c.isEnclosing(t.Name) {
		c.keyword("this")
		c.keyword("super")
	}
}

func (c *collector) isEnclosing(name string) bool {
	for _, s := range c.u.tree.Classes(c.u.at) {
		if s.ClassName == name {
			return !c.u.tree.InStaticContext(c.u.at)
		}
	}
	return false
}

func (c *collector) instanceMembers(v value) {
	t := v.Type
	if t.IsPrimitive() {
		return
	}
	if t.Kind == java.TypeVariable || t.Kind == java.TypeWildcard {
		t = t.Upper()
	}
	if t.IsArray() && c.r.matches("length") {
		c.add(&Proposal{
			Kind:       ProposalField,
			Name:       "length",
			Completion: "length",
			Signature:  java.Int.Signature(),
			Relevance:  c.r.base() + c.r.caseRelevance("length") + c.r.expectedRelevance(java.Int) + relNonStatic + relNonRestricted,
		})
	}
	for _, fd := range java.FieldsOf(c.u.f, t) {
		if c.u.accessible(fd.Owner, fd.Visibility) && c.r.matches(fd.Name) {
			c.addField(fd, false, fd.Depth)
		}
	}
	for _, m := range java.MethodsOf(c.u.f, t) {
		if v.Super && m.IsAbstract {
			continue
		}
		if c.u.accessible(m.Owner, m.Visibility) && c.r.matches(m.Name) {
			c.addMethod(m, false, m.Depth)
		}
	}
}

// methodRefs proposes the methods a "qualifier::" reference can name. With
// a known functional target only methods of a fitting arity are kept.
func (c *collector) methodRefs() {
	v := c.ty.resolve(c.c.Qualifier)
	if v.Package != "" || v.Type.IsUnknown() {
		return
	}
	t := v.Type
	if t.Kind == java.TypeVariable {
		t = t.Upper()
	}
	var sam *java.Method
	if ref := c.u.parent(c.c.Node); ref != nil && ref.Kind == parser.KindMethodRef {
		for _, e := range c.ty.expectedFor(ref) {
			if sam = java.FunctionalMethod(c.u.f, e); sam != nil {
				break
			}
		}
	}
	seen := make(map[string]bool)
	for _, m := range java.MethodsOf(c.u.f, t) {
		if !c.u.accessible(m.Owner, m.Visibility) || !c.r.matches(m.Name) {
			continue
		}
		if !v.Static && m.IsStatic || sam != nil && !c.refFits(m, v.Static, sam) || seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		ret := m.Return
		rel := c.r.base() + c.r.caseRelevance(m.Name) + c.r.qualification(false) + c.r.restriction(m.IsDeprecated)
		if sam != nil && !sam.Return.IsVoid() && !ret.IsVoid() {
			rel += relExpectedType
		}
		c.add(&Proposal{
			Kind:                 ProposalMethodNameReference,
			Name:                 m.Name,
			Completion:           m.Name,
			DeclarationSignature: ownerSignature(m.Owner),
			Signature:            m.Signature(),
			ParameterNames:       m.ParameterNames(),
			Relevance:            rel,
			Deprecated:           m.IsDeprecated,
			Depth:                m.Depth,
			Element:              c.u.methodElement(m),
		})
	}
	if v.Static && c.r.matches("new") {
		if cls := c.u.f.FindClass(t.Name); cls != nil && !cls.IsAbstract && !cls.IsInterface() {
			c.keyword("new")
		}
	}
}

// refFits reports whether m can implement the function type sam when named
// by a reference with a type or value receiver.
func (c *collector) refFits(m *java.Method, static bool, sam *java.Method) bool {
	n := len(sam.Params)
	fits := arityFits(m, n)
	if static {
		fits = m.IsStatic && arityFits(m, n) || !m.IsStatic && n > 0 && arityFits(m, n-1)
	}
	if !fits {
		return false
	}
	if !sam.Return.IsVoid() && m.Return.IsVoid() {
		return false
	}
	return true
}

// constructors proposes the constructors of the type of "new Type(" and,
// for abstract classes and interfaces, an anonymous class body for each.
func (c *collector) constructors() {
	args := c.u.parent(c.c.Node)
	if args == nil {
		return
	}
	nx := c.u.parent(args)
	if nx == nil || nx.Kind != parser.KindNewExpr {
		return
	}
	t := c.ty.allocated(nx)
	cls := c.u.f.FindClass(t.Name)
	if cls == nil {
		return
	}
	ctors := java.ConstructorsOf(c.u.f, cls.Type())
	if len(ctors) == 0 {
		// Interfaces and classes without declared constructors get the
		// default one.
		ctors = []*java.Method{{
			MethodModel: &java.MethodModel{Name: "<init>", Visibility: java.VisibilityPublic},
			Owner:       cls,
			OwnerType:   cls.Type(),
			Return:      java.Void,
		}}
	}
	abstract := cls.IsAbstract || cls.IsInterface()
	rel := c.r.base() + relCase + relConstructor + c.r.qualification(false) + c.r.restriction(cls.IsDeprecated)
	for _, m := range ctors {
		if !c.u.accessible(cls, m.Visibility) && !(abstract && m.Visibility == java.VisibilityProtected) {
			continue
		}
		c.add(&Proposal{
			Kind:                 ProposalConstructorInvocation,
			Name:                 cls.SimpleName,
			Completion:           ")",
			DeclarationSignature: ownerSignature(cls),
			Signature:            m.Signature(),
			ParameterNames:       m.ParameterNames(),
			Relevance:            rel,
			Deprecated:           m.IsDeprecated,
			Element:              c.u.methodElement(m),
		})
		if !abstract {
			continue
		}
		c.add(&Proposal{
			Kind:                 ProposalAnonymousClass,
			Name:                 cls.SimpleName,
			Completion:           ") {}",
			DeclarationSignature: ownerSignature(cls),
			Signature:            m.Signature(),
			ParameterNames:       m.ParameterNames(),
			Relevance:            rel,
			Deprecated:           m.IsDeprecated,
			Element:              c.u.methodElement(m),
		})
	}
}
