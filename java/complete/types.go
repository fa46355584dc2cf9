package complete

import (
	"github.com/dhamidi/sai-complete/classpath"
	"github.com/dhamidi/sai-complete/java"
	"github.com/dhamidi/sai-complete/java/parser"
	"github.com/dhamidi/sai-complete/java/scope"
)

// typeMode selects which types a position accepts.
type typeMode int

const (
	// typeModeName is a simple name in expression position.
	typeModeName typeMode = iota
	// typeModeReference is a type in a declaration, cast or header; the
	// completion's filter narrows it further.
	typeModeReference
	typeModeAllocation
	typeModeAnnotation
)

// keep reports whether class m can appear in a position of mode.
func (c *collector) keep(m *java.ClassModel, mode typeMode) bool {
	switch mode {
	case typeModeAnnotation:
		return m.Kind == java.ClassKindAnnotation
	case typeModeAllocation:
		return m.Kind != java.ClassKindAnnotation && m.Kind != java.ClassKindEnum
	case typeModeReference:
		switch c.c.Filter {
		case parser.TypeFilterClass:
			return m.Kind == java.ClassKindClass && !m.IsFinal
		case parser.TypeFilterInterface:
			return m.Kind == java.ClassKindInterface
		case parser.TypeFilterException:
			return java.IsSubclass(c.u.f, m.Name, "java.lang.Throwable")
		}
	}
	return true
}

func (c *collector) filterRelevance(m *java.ClassModel, mode typeMode) int {
	switch mode {
	case typeModeAnnotation:
		return relAnnotation
	case typeModeReference:
		switch c.c.Filter {
		case parser.TypeFilterClass:
			return relClass
		case parser.TypeFilterInterface:
			return relInterface
		case parser.TypeFilterException:
			return relException
		}
	}
	return 0
}

// types proposes the types visible by simple name from the position and,
// once a prefix is typed, every accessible type of the class path.
func (c *collector) types(mode typeMode) {
	seen := make(map[string]bool)
	consider := func(m *java.ClassModel) {
		if m == nil || seen[m.Name] {
			return
		}
		seen[m.Name] = true
		if !c.r.matches(m.SimpleName) || !c.u.typeAccessible(m) || !c.keep(m, mode) {
			return
		}
		ref := c.typeReference(m)
		c.addTypeAs(m, mode, ref, ref != m.SimpleName)
	}

	for _, vb := range c.u.tree.Visible(c.u.at) {
		switch vb.Kind {
		case scope.BindingType:
			consider(c.u.localClass(vb.Binding))
		case scope.BindingTypeParameter:
			if mode != typeModeAllocation && mode != typeModeAnnotation && c.r.matches(vb.Name) {
				c.addTypeParameter(vb.Binding)
			}
		}
	}
	for _, e := range c.enclosingClasses() {
		consider(e.class)
		for _, mc := range java.MemberTypesOf(c.u.f, e.class.Type()) {
			consider(mc)
		}
	}
	for _, d := range c.u.file.TypeDecls() {
		consider(c.u.f.FindClass(d.Name))
	}
	for _, imp := range c.u.file.Imports {
		if !imp.Static && !imp.Wildcard {
			consider(c.u.resolver.ResolveQualified(imp.Name))
		}
	}
	for _, name := range c.u.f.TypeNames(c.u.file.Package) {
		consider(c.u.f.FindClass(name))
	}
	for _, name := range c.u.f.TypeNames("java.lang") {
		consider(c.u.f.FindClass(name))
	}
	for _, imp := range c.u.file.Imports {
		if imp.Static || !imp.Wildcard {
			continue
		}
		if outer := c.u.resolver.ResolveQualified(imp.Name); outer != nil {
			for _, mc := range java.MemberTypesOf(c.u.f, outer.RawType()) {
				consider(mc)
			}
			continue
		}
		for _, name := range c.u.f.TypeNames(imp.Name) {
			consider(c.u.f.FindClass(name))
		}
	}
	if c.c.Prefix == "" {
		return
	}
	for _, pkg := range c.u.f.Packages() {
		for _, name := range c.u.f.TypeNames(pkg) {
			if _, simple := java.SplitName(name); c.r.matches(simple) {
				consider(c.u.f.FindClass(name))
			}
		}
	}
}

// addType proposes m under its simple name, for positions already
// qualified by its package or outer class.
func (c *collector) addType(m *java.ClassModel, mode typeMode, prefixRequired bool) {
	c.addTypeAs(m, mode, m.SimpleName, prefixRequired)
}

func (c *collector) addTypeAs(m *java.ClassModel, mode typeMode, completion string, prefixRequired bool) {
	rel := c.r.base() + c.r.caseRelevance(m.SimpleName) + c.r.typeRelevance(m) + c.filterRelevance(m, mode) +
		c.r.qualification(prefixRequired) + c.r.restriction(m.IsDeprecated)
	c.add(&Proposal{
		Kind:                 ProposalType,
		Name:                 m.SimpleName,
		Completion:           completion,
		DeclarationSignature: m.Package,
		Signature:            m.RawType().Signature(),
		Relevance:            rel,
		Deprecated:           m.IsDeprecated,
		Element:              c.u.classElement(m),
	})
}

func (c *collector) addTypeParameter(b *scope.Binding) {
	t := java.TypeVar(b.Name, nil)
	c.add(&Proposal{
		Kind:       ProposalType,
		Name:       b.Name,
		Completion: b.Name,
		Signature:  t.Signature(),
		Relevance:  c.r.base() + c.r.caseRelevance(b.Name) + c.r.qualification(false) + relNonRestricted,
		Element:    c.u.typeParameterElement(b),
	})
}

// packages proposes the direct sub-packages of parent, or the first
// segments of all packages when parent is empty.
func (c *collector) packages(parent string) {
	for _, seg := range classpath.SubPackages(c.u.f, parent) {
		if !c.r.matches(seg) {
			continue
		}
		full := seg
		if parent != "" {
			full = parent + "." + seg
		}
		c.add(&Proposal{
			Kind:                 ProposalPackage,
			Name:                 full,
			Completion:           seg,
			DeclarationSignature: full,
			Relevance:            c.r.base() + c.r.caseRelevance(seg) + c.r.qualification(false) + relNonRestricted,
			Element:              packageElement(full),
		})
	}
}

// qualifiedTypes proposes what follows "qualifier." in a type position: the
// member types of a class, or the types and sub-packages of a package.
func (c *collector) qualifiedTypes(qualifier string, mode typeMode) {
	if qualifier == "" {
		return
	}
	if outer := c.u.resolver.ResolveQualified(qualifier); outer != nil {
		for _, mc := range java.MemberTypesOf(c.u.f, outer.RawType()) {
			if c.r.matches(mc.SimpleName) && c.u.typeAccessible(mc) && (c.keep(mc, mode) || len(mc.MemberTypes) > 0) {
				c.addType(mc, mode, false)
			}
		}
		return
	}
	if !c.u.isPackage(qualifier) {
		return
	}
	for _, name := range c.u.f.TypeNames(qualifier) {
		m := c.u.f.FindClass(name)
		if m != nil && c.r.matches(m.SimpleName) && c.u.typeAccessible(m) && (c.keep(m, mode) || len(m.MemberTypes) > 0) {
			c.addType(m, mode, false)
		}
	}
	c.packages(qualifier)
}

// imports proposes the segments of an import or package declaration.
func (c *collector) imports() {
	decl := c.u.parent(c.u.parent(c.c.Node))
	if c.c.Qualifier == nil {
		c.packages("")
		return
	}
	qualifier := parser.QualifiedName(c.c.Qualifier)
	if decl != nil && decl.Kind == parser.KindPackageDecl {
		c.packages(qualifier)
		return
	}
	static := decl != nil && decl.Kind == parser.KindImportDecl && decl.Token != nil
	m := c.u.f.FindClass(qualifier)
	if m == nil && !c.u.isPackage(qualifier) {
		m = c.u.resolver.ResolveQualified(qualifier)
	}
	if m != nil {
		for _, mc := range java.MemberTypesOf(c.u.f, m.RawType()) {
			if c.r.matches(mc.SimpleName) && c.u.typeAccessible(mc) {
				c.addType(mc, typeModeName, false)
			}
		}
		if static {
			c.staticImportables(m)
		}
		return
	}
	for _, name := range c.u.f.TypeNames(qualifier) {
		if m := c.u.f.FindClass(name); m != nil && c.r.matches(m.SimpleName) && c.u.typeAccessible(m) {
			c.addType(m, typeModeName, false)
		}
	}
	c.packages(qualifier)
}

// staticImportables proposes the static members of m by name, each name
// once.
func (c *collector) staticImportables(m *java.ClassModel) {
	seen := make(map[string]bool)
	for _, fd := range java.FieldsOf(c.u.f, m.RawType()) {
		if fd.IsStatic && c.u.accessible(fd.Owner, fd.Visibility) && c.r.matches(fd.Name) {
			c.addField(fd, true, fd.Depth)
		}
	}
	for _, mt := range java.MethodsOf(c.u.f, m.RawType()) {
		if !mt.IsStatic || seen[mt.Name] || !c.u.accessible(mt.Owner, mt.Visibility) || !c.r.matches(mt.Name) {
			continue
		}
		seen[mt.Name] = true
		c.add(&Proposal{
			Kind:                 ProposalMethod,
			Name:                 mt.Name,
			Completion:           mt.Name,
			DeclarationSignature: ownerSignature(mt.Owner),
			Signature:            mt.Signature(),
			ParameterNames:       mt.ParameterNames(),
			Relevance:            c.r.base() + c.r.caseRelevance(mt.Name) + c.r.restriction(mt.IsDeprecated),
			Deprecated:           mt.IsDeprecated,
			Depth:                mt.Depth,
			Element:              c.u.methodElement(mt),
		})
	}
}
