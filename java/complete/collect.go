package complete

import (
	"github.com/dhamidi/sai-complete/java"
	"github.com/dhamidi/sai-complete/java/parser"
	"github.com/dhamidi/sai-complete/java/scope"
)

// collector gathers the proposals of one completion request.
type collector struct {
	u  *unit
	ty *typer
	c  *parser.CompletionNode
	r  *ranker

	out     []*Proposal
	n       int
	replace Range
}

func newCollector(u *unit) *collector {
	c := u.res.Completion
	col := &collector{
		u:  u,
		ty: u.ty,
		c:  c,
		replace: Range{
			Start: c.Replace.Start.Offset,
			End:   c.Replace.End.Offset,
		},
	}
	col.r = &ranker{
		f:      u.f,
		opts:   u.rc.Options,
		prefix: c.Prefix,
	}
	switch c.Kind {
	case parser.CompletionMemberReference, parser.CompletionMethodReferenceOperator:
		col.r.qualified = true
	case parser.CompletionTypeReference, parser.CompletionAllocationType, parser.CompletionAnnotation, parser.CompletionImport:
		col.r.qualified = c.Qualifier != nil
	}
	if v := col.valueNode(); v != nil {
		col.r.expected = u.ty.expectedFor(v)
	}
	return col
}

// valueNode returns the expression whose value the completed name
// becomes: the selection or call it names, or the name itself.
func (c *collector) valueNode() *parser.Node {
	n := c.c.Node
	p := c.u.parent(n)
	if p == nil {
		return n
	}
	switch p.Kind {
	case parser.KindFieldAccess, parser.KindCallExpr, parser.KindMethodRef:
		if p.Child(1) == n {
			return p
		}
	case parser.KindClassType:
		if gp := c.u.parent(p); gp != nil && gp.Kind == parser.KindNewExpr && gp.Child(1) == p {
			return gp
		}
		return nil
	case parser.KindQualifiedName:
		return nil
	}
	return n
}

func (c *collector) add(p *Proposal) {
	p.Replace = c.replace
	p.Token = c.replace
	c.out = append(c.out, p)
	if c.n++; c.n%128 == 0 {
		poll(c.u.ctx)
	}
}

func (c *collector) collect() {
	switch c.c.Kind {
	case parser.CompletionNameReference:
		c.names()
	case parser.CompletionMemberReference:
		c.members()
	case parser.CompletionMethodReferenceOperator:
		c.methodRefs()
	case parser.CompletionTypeReference:
		if c.c.Qualifier != nil {
			c.qualifiedTypes(parser.QualifiedName(c.c.Qualifier), typeModeReference)
			return
		}
		c.types(typeModeReference)
		if c.c.Filter == parser.TypeFilterAny {
			c.primitiveKeywords()
		}
	case parser.CompletionAllocationType:
		if c.c.Qualifier != nil {
			c.qualifiedTypes(parser.QualifiedName(c.c.Qualifier), typeModeAllocation)
			return
		}
		c.types(typeModeAllocation)
	case parser.CompletionConstructorArguments:
		c.constructors()
		c.names()
	case parser.CompletionAnnotation:
		if c.c.Qualifier != nil {
			c.qualifiedTypes(parser.QualifiedName(c.c.Qualifier), typeModeAnnotation)
			return
		}
		c.types(typeModeAnnotation)
	case parser.CompletionAnnotationAttribute:
		c.annotationAttributes()
	case parser.CompletionKeywordContext:
		c.keywords()
	case parser.CompletionPotentialMethodDeclaration:
		c.overrides()
		if p := c.u.parent(c.c.Node); p == nil || p.Kind != parser.KindMethodDecl {
			c.types(typeModeReference)
			c.keywords()
		}
	case parser.CompletionVariableName:
		c.variableNames()
	case parser.CompletionCaseLabel:
		c.caseLabels()
	case parser.CompletionImport:
		c.imports()
	}
}

// names proposes what a simple name in expression position can refer to.
func (c *collector) names() {
	seen := make(map[string]bool)
	c.locals(seen)
	c.fields(seen)
	c.methods()
	c.types(typeModeName)
	if c.c.Prefix != "" {
		c.packages("")
	}
	c.qualifiedEnumConstants(seen)
	c.keywords()
}

func (c *collector) locals(seen map[string]bool) {
	for _, vb := range c.u.tree.Visible(c.u.at) {
		switch vb.Kind {
		case scope.BindingLocal, scope.BindingParameter:
		default:
			continue
		}
		seen[vb.Name] = true
		if !c.r.matches(vb.Name) {
			continue
		}
		t := c.ty.bindingType(vb.Binding)
		c.add(&Proposal{
			Kind:       ProposalLocalVariable,
			Name:       vb.Name,
			Completion: vb.Name,
			Signature:  t.Signature(),
			Relevance:  c.r.base() + c.r.caseRelevance(vb.Name) + c.r.expectedRelevance(t) + c.r.qualification(false) + relNonRestricted,
			Depth:      vb.Depth,
			Element:    c.u.bindingElement(vb.Binding, t),
		})
	}
}

// enclosing is a class around the position together with whether code at
// the position lacks an instance of it.
type enclosing struct {
	class  *java.ClassModel
	static bool
	depth  int
}

// enclosingClasses lists the classes around the position, innermost first.
func (c *collector) enclosingClasses() []enclosing {
	var out []enclosing
	static := false
	for _, s := range c.u.tree.Chain(c.u.at) {
		switch s.Kind {
		case scope.KindMethod, scope.KindInitializer:
			if s.Static {
				static = true
			}
		case scope.KindType, scope.KindAnonymous:
			if m := c.u.classModel(s); m != nil {
				out = append(out, enclosing{class: m, static: static, depth: len(out)})
			}
			if s.Static {
				static = true
			}
		}
	}
	return out
}

func (c *collector) fields(seen map[string]bool) {
	for _, e := range c.enclosingClasses() {
		for _, fd := range java.FieldsOf(c.u.f, e.class.Type()) {
			if seen[fd.Name] {
				continue
			}
			seen[fd.Name] = true
			if e.static && !fd.IsStatic || !c.u.accessible(fd.Owner, fd.Visibility) || !c.r.matches(fd.Name) {
				continue
			}
			c.addField(fd, false, e.depth*16+fd.Depth)
		}
	}
	for _, fd := range c.ty.staticImportFields() {
		if seen[fd.Name] || !c.r.matches(fd.Name) {
			continue
		}
		seen[fd.Name] = true
		c.addField(fd, false, 1<<10)
	}
}

func (c *collector) addField(fd *java.Field, receiverIsType bool, depth int) {
	rel := c.r.base() + c.r.caseRelevance(fd.Name) + c.r.expectedRelevance(fd.Type) +
		c.r.qualification(false) + c.r.staticRelevance(fd.IsStatic, receiverIsType) + c.r.restriction(fd.IsDeprecated)
	if fd.IsEnumConstant && c.expectsOwner(fd.Owner) {
		rel += relEnumConstant
	}
	c.add(&Proposal{
		Kind:                 ProposalField,
		Name:                 fd.Name,
		Completion:           fd.Name,
		DeclarationSignature: ownerSignature(fd.Owner),
		Signature:            fd.Type.Signature(),
		Relevance:            rel,
		Deprecated:           fd.IsDeprecated,
		Depth:                depth,
		Element:              c.u.fieldElement(fd),
	})
}

func (c *collector) expectsOwner(owner *java.ClassModel) bool {
	return owner != nil && c.r.expectsEnum(owner)
}

func ownerSignature(c *java.ClassModel) string {
	if c == nil {
		return ""
	}
	return c.RawType().Signature()
}

func (c *collector) methods() {
	seen := make(map[string]bool)
	for _, e := range c.enclosingClasses() {
		for _, m := range java.MethodsOf(c.u.f, e.class.Type()) {
			key := m.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			if e.static && !m.IsStatic || !c.u.accessible(m.Owner, m.Visibility) || !c.r.matches(m.Name) {
				continue
			}
			c.addMethod(m, false, e.depth*16+m.Depth)
		}
	}
	for _, m := range c.ty.staticImportMethods() {
		if key := m.Key(); !seen[key] && c.r.matches(m.Name) {
			seen[key] = true
			c.addMethod(m, false, 1<<10)
		}
	}
}

func (c *collector) addMethod(m *java.Method, receiverIsType bool, depth int) {
	rel := c.r.base() + c.r.caseRelevance(m.Name) + c.r.expectedRelevance(m.Return) + c.r.voidRelevance(m.Return) +
		c.r.qualification(false) + c.r.staticRelevance(m.IsStatic, receiverIsType) + c.r.restriction(m.IsDeprecated)
	c.add(&Proposal{
		Kind:                 ProposalMethod,
		Name:                 m.Name,
		Completion:           m.Name + "()",
		DeclarationSignature: ownerSignature(m.Owner),
		Signature:            m.Signature(),
		ParameterNames:       m.ParameterNames(),
		Relevance:            rel,
		Deprecated:           m.IsDeprecated,
		Depth:                depth,
		Element:              c.u.methodElement(m),
	})
}

// qualifiedEnumConstants proposes the constants of expected enum types that
// are not reachable by simple name, qualified with the enum's name.
func (c *collector) qualifiedEnumConstants(seen map[string]bool) {
	done := make(map[string]bool)
	for _, e := range c.r.expected {
		if !e.IsClass() || done[e.Name] {
			continue
		}
		done[e.Name] = true
		enum := c.u.f.FindClass(e.Name)
		if enum == nil || !enum.IsEnum() || !c.u.typeAccessible(enum) {
			continue
		}
		qualifier := c.typeReference(enum)
		for _, fd := range enum.EnumConstants() {
			if seen[fd.Name] || !c.r.matches(fd.Name) {
				continue
			}
			t := enum.RawType()
			rel := c.r.base() + c.r.caseRelevance(fd.Name) + relEnumConstant + c.r.expectedRelevance(t) +
				c.r.qualification(true) + c.r.restriction(fd.IsDeprecated)
			required := &Proposal{
				Kind:                 ProposalType,
				Name:                 enum.SimpleName,
				Completion:           qualifier,
				DeclarationSignature: enum.Package,
				Signature:            t.Signature(),
				Relevance:            rel,
				Replace:              Range{Start: c.replace.Start, End: c.replace.Start},
				Token:                Range{Start: c.replace.Start, End: c.replace.Start},
			}
			p := &Proposal{
				Kind:                 ProposalField,
				Name:                 fd.Name,
				Completion:           qualifier + "." + fd.Name,
				DeclarationSignature: t.Signature(),
				Signature:            t.Signature(),
				Relevance:            rel,
				Deprecated:           fd.IsDeprecated,
				Depth:                1 << 11,
				Required:             []*Proposal{required},
				Element: c.u.fieldElement(&java.Field{
					FieldModel: fd,
					Owner:      enum,
					OwnerType:  t,
					Type:       t,
				}),
			}
			c.add(p)
		}
	}
}

// typeReference returns the shortest name that refers to class m from the
// position.
func (c *collector) typeReference(m *java.ClassModel) string {
	if found := c.u.resolver.ResolveClass(m.SimpleName); found != nil && found.Name == m.Name {
		return m.SimpleName
	}
	if m.Outer != "" {
		if outer := c.u.f.FindClass(m.Outer); outer != nil {
			return c.typeReference(outer) + "." + m.SimpleName
		}
	}
	return m.SourceName()
}
