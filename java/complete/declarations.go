package complete

import (
	"strings"
	"unicode"

	"github.com/dhamidi/sai-complete/java"
	"github.com/dhamidi/sai-complete/java/parser"
)

// overrides proposes declarations of the inherited methods the enclosing
// class can still override.
func (c *collector) overrides() {
	cls := c.u.enclosingClass()
	if cls == nil {
		return
	}
	at := c.c.Node.Span.Start.Offset
	declared := make(map[string]bool)
	for i := range cls.Methods {
		m := &cls.Methods[i]
		if m.Offset == at || m.IsConstructor() {
			continue
		}
		declared[java.MethodSignature(erasures(m.ParameterTypes()), nil)+m.Name] = true
	}

	var supers []*java.Type
	if cls.SuperClass != nil {
		supers = append(supers, cls.SuperClass)
	} else if cls.Name != java.Object.Name {
		supers = append(supers, java.Object)
	}
	supers = append(supers, cls.Interfaces...)

	seen := make(map[string]bool)
	for _, st := range supers {
		for _, m := range java.MethodsOf(c.u.f, st) {
			key := m.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			if m.IsStatic || m.IsFinal || m.Visibility == java.VisibilityPrivate || m.IsSynthetic {
				continue
			}
			if declared[java.MethodSignature(erasures(m.ParameterTypes()), nil)+m.Name] {
				continue
			}
			if !c.u.accessible(m.Owner, m.Visibility) || !c.r.matches(m.Name) {
				continue
			}
			rel := c.r.base() + c.r.caseRelevance(m.Name) + relMethodOverride + c.r.restriction(m.IsDeprecated)
			if m.IsAbstract {
				rel += relAbstractMethod
			}
			c.add(&Proposal{
				Kind:                 ProposalMethodDeclaration,
				Name:                 m.Name,
				Completion:           overrideText(m),
				DeclarationSignature: ownerSignature(m.Owner),
				Signature:            m.Signature(),
				ParameterNames:       m.ParameterNames(),
				Relevance:            rel,
				Deprecated:           m.IsDeprecated,
				Depth:                m.Depth + 1,
				Element:              c.u.methodElement(m),
			})
		}
	}
}

func erasures(ts []*java.Type) []*java.Type {
	out := make([]*java.Type, len(ts))
	for i, t := range ts {
		out[i] = t.Erasure()
	}
	return out
}

// overrideText renders the header of a method overriding m, with an empty
// body.
func overrideText(m *java.Method) string {
	var sb strings.Builder
	switch {
	case m.Visibility == java.VisibilityPublic, m.Owner != nil && m.Owner.IsInterface():
		sb.WriteString("public ")
	case m.Visibility == java.VisibilityProtected:
		sb.WriteString("protected ")
	}
	sb.WriteString(m.Return.Display())
	sb.WriteByte(' ')
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	names := m.ParameterNames()
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if m.IsVarargs && i == len(m.Params)-1 && p.IsArray() {
			sb.WriteString(p.Elem.Display() + "...")
		} else {
			sb.WriteString(p.Display())
		}
		sb.WriteByte(' ')
		sb.WriteString(names[i])
	}
	sb.WriteString(") {}")
	return sb.String()
}

// declaredType returns the type node of the declaration whose name is
// being completed.
func (c *collector) declaredType() *parser.Node {
	n := c.c.Node
	p := c.u.parent(n)
	if p == nil {
		return nil
	}
	switch p.Kind {
	case parser.KindVarDeclarator:
		if decl := c.u.parent(p); decl != nil {
			return decl.Child(1)
		}
		return nil
	case parser.KindParameter, parser.KindInstanceofExpr:
		return p.Child(1)
	}
	if k := indexOf(p.Children, n); k > 0 {
		return p.Children[k-1]
	}
	return nil
}

// variableNames proposes names for a variable from its declared type, e.g.
// arrayList and list for ArrayList<String>.
func (c *collector) variableNames() {
	typ := c.declaredType()
	if typ == nil || typ.Kind == parser.KindPrimitiveType && typ.TokenLiteral() == "var" || !typ.Kind.IsType() {
		return
	}
	t := c.u.resolver.Resolve(typ)
	if t.IsUnknown() {
		// Unresolved types still suggest names from their spelling.
		t = java.ClassType(parser.QualifiedName(typ))
		if t.Name == "" {
			return
		}
	}
	names := nameSuggestions(t)
	for i, name := range names {
		if b, _ := c.u.tree.Lookup(c.u.at, name, false); b != nil && b.Node != c.u.parent(c.c.Node) {
			continue
		}
		if !c.r.matches(name) {
			continue
		}
		rel := c.r.base() + c.r.caseRelevance(name) + relNonRestricted
		switch i {
		case 0:
			rel += relNameFirstPrefix
		case len(names) - 1:
			rel += relNameFirstSuffix
		default:
			rel += relNameSuffix
		}
		c.add(&Proposal{
			Kind:       ProposalVariableDeclaration,
			Name:       name,
			Completion: name,
			Signature:  t.Signature(),
			Relevance:  rel,
		})
	}
}

var reservedNames = map[string]string{
	"class": "clazz", "interface": "iface", "enum": "enumValue", "default": "defaultValue",
	"package": "pkg", "new": "newValue", "switch": "switchValue", "case": "caseValue",
	"int": "i", "char": "c", "boolean": "b", "byte": "b", "long": "l", "short": "s",
	"float": "f", "double": "d", "do": "doValue", "if": "ifValue", "for": "forValue",
}

// nameSuggestions derives variable names from t, longest first.
func nameSuggestions(t *java.Type) []string {
	dims := 0
	for t.IsArray() {
		t = t.Elem
		dims++
	}
	var base string
	switch {
	case t.IsPrimitive():
		base = t.Name[:1]
	case t.Kind == java.TypeVariable:
		base = strings.ToLower(t.Name)
	default:
		base = t.SimpleName()
	}
	hs := words(base)
	var out []string
	seen := make(map[string]bool)
	for i := range hs {
		name := lowerFirst(strings.Join(hs[i:], ""))
		if dims > 0 {
			name = plural(name)
		}
		if r, ok := reservedNames[name]; ok {
			name = r
		}
		if name == "" || seen[name] || !unicode.IsLetter(rune(name[0])) && name[0] != '_' {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// words splits a type name into humps, keeping acronyms together:
// URLConnection is URL and Connection.
func words(s string) []string {
	var out []string
	for _, h := range humps(s) {
		if n := len(out); n > 0 && len(h) == 1 && isUpper(h) && isUpper(out[n-1]) {
			out[n-1] += h
			continue
		}
		out = append(out, h)
	}
	return out
}

func isUpper(s string) bool {
	return strings.ToUpper(s) == s && strings.ToLower(s) != s
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	// Leading acronyms are lowered as a whole: URLConnection -> urlConnection.
	n := 0
	for n < len(s) && unicode.IsUpper(rune(s[n])) {
		n++
	}
	switch {
	case n == 0:
		return s
	case n == 1 || n == len(s):
		return strings.ToLower(s[:n]) + s[n:]
	}
	return strings.ToLower(s[:n-1]) + s[n-1:]
}

func plural(s string) string {
	switch {
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"), strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"):
		return s + "es"
	case strings.HasSuffix(s, "y") && len(s) > 1 && !strings.ContainsRune("aeiou", rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	}
	return s + "s"
}

// annotationAttributes proposes the attributes of the annotation being
// written that are not given yet.
func (c *collector) annotationAttributes() {
	an := c.c.Qualifier
	if an == nil || an.Kind != parser.KindAnnotation {
		return
	}
	cls := c.u.resolver.ResolveQualified(parser.QualifiedName(an.Child(0)))
	if cls == nil || cls.Kind != java.ClassKindAnnotation {
		return
	}
	given := make(map[string]bool)
	if args := an.Child(1); args != nil && args.Kind == parser.KindArguments {
		for _, a := range args.Children {
			if a.Kind == parser.KindAssignExpr && a.Child(0) != c.c.Node {
				given[a.Child(0).TokenLiteral()] = true
			}
		}
	}
	for i := range cls.Methods {
		m := &cls.Methods[i]
		if m.IsStatic || len(m.Parameters) > 0 || m.IsConstructor() || given[m.Name] || !c.r.matches(m.Name) {
			continue
		}
		c.add(&Proposal{
			Kind:                 ProposalAnnotationAttribute,
			Name:                 m.Name,
			Completion:           m.Name,
			DeclarationSignature: ownerSignature(cls),
			Signature:            m.ReturnType.Signature(),
			Relevance:            c.r.base() + c.r.caseRelevance(m.Name) + c.r.qualification(false) + c.r.restriction(m.IsDeprecated),
			Deprecated:           m.IsDeprecated,
			Element: c.u.methodElement(&java.Method{
				MethodModel: m,
				Owner:       cls,
				OwnerType:   cls.RawType(),
				Return:      m.ReturnType,
			}),
		})
	}
}

// caseLabels proposes the constants of an enum selector, unqualified and
// without those other labels already name. Other selectors complete like
// any expression.
func (c *collector) caseLabels() {
	var enum *java.ClassModel
	for _, e := range c.r.expected {
		if m := c.u.f.FindClass(e.Name); e.IsClass() && m != nil && m.IsEnum() {
			enum = m
			break
		}
	}
	if enum == nil {
		c.names()
		return
	}
	used := c.usedLabels()
	t := enum.RawType()
	for _, fd := range enum.EnumConstants() {
		if used[fd.Name] || !c.r.matches(fd.Name) {
			continue
		}
		c.add(&Proposal{
			Kind:                 ProposalField,
			Name:                 fd.Name,
			Completion:           fd.Name,
			DeclarationSignature: t.Signature(),
			Signature:            t.Signature(),
			Relevance: c.r.base() + c.r.caseRelevance(fd.Name) + relEnumConstant + c.r.expectedRelevance(t) +
				c.r.qualification(false) + c.r.restriction(fd.IsDeprecated),
			Deprecated: fd.IsDeprecated,
			Element: c.u.fieldElement(&java.Field{
				FieldModel: fd,
				Owner:      enum,
				OwnerType:  t,
				Type:       t,
			}),
		})
	}
}

func (c *collector) usedLabels() map[string]bool {
	used := make(map[string]bool)
	label := c.u.parent(c.c.Node)
	if label == nil || label.Kind != parser.KindSwitchLabel {
		return used
	}
	sw := c.u.parent(c.u.parent(label))
	if sw == nil {
		return used
	}
	for _, sc := range sw.ChildrenOfKind(parser.KindSwitchCase) {
		for _, l := range sc.ChildrenOfKind(parser.KindSwitchLabel) {
			for _, e := range l.Children {
				if e != c.c.Node && e.Kind == parser.KindIdentifier {
					used[e.TokenLiteral()] = true
				}
			}
		}
	}
	return used
}
