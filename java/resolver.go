package java

import (
	"strings"

	"github.com/dhamidi/sai-complete/java/parser"
)

type Import struct {
	// Name is the imported name: a type, a package for on-demand imports, or
	// Type.member for static imports.
	Name     string
	Static   bool
	Wildcard bool
}

// ImportsOf returns the import declarations of a compilation unit.
func ImportsOf(cu *parser.Node) []Import {
	var out []Import
	for _, child := range cu.Children {
		if child.Kind != parser.KindImportDecl {
			continue
		}
		name := parser.QualifiedName(child.Child(0))
		if name == "" {
			continue
		}
		out = append(out, Import{
			Name:     name,
			Static:   child.Token != nil,
			Wildcard: child.Has(parser.NodeWildcard),
		})
	}
	return out
}

// PackageOf returns the package declared by a compilation unit.
func PackageOf(cu *parser.Node) string {
	if pkg := cu.Child(0); pkg != nil && pkg.Kind == parser.KindPackageDecl {
		return parser.QualifiedName(pkg.Child(0))
	}
	return ""
}

// TypeResolver resolves type names written in source to types, following
// the scoping of a compilation unit: type variables, member types of the
// enclosing classes, single-type imports, the current package, on-demand
// imports and java.lang, in that order.
type TypeResolver struct {
	Finder  ClassFinder
	Package string
	Imports []Import
	// Enclosing lists the binary names of the classes around the reference,
	// innermost first.
	Enclosing []string
	// TypeVars maps the type variables in scope to their declarations.
	TypeVars map[string]*Type
	// Local, when set, is consulted first for simple names so that local
	// classes shadow everything else.
	Local func(name string) *ClassModel
}

// With returns a copy of r for a scope nested in the class named outer with
// additional type variables.
func (r *TypeResolver) With(outer string, vars []TypeParameterModel) *TypeResolver {
	nr := *r
	if outer != "" {
		nr.Enclosing = append([]string{outer}, r.Enclosing...)
	}
	if len(vars) > 0 {
		nr.TypeVars = make(map[string]*Type, len(r.TypeVars)+len(vars))
		for k, v := range r.TypeVars {
			nr.TypeVars[k] = v
		}
		for _, tp := range vars {
			nr.TypeVars[tp.Name] = tp.Var()
		}
	}
	return &nr
}

// ResolveClass resolves a simple class name.
func (r *TypeResolver) ResolveClass(name string) *ClassModel {
	if name == "" {
		return nil
	}
	if r.Local != nil {
		if c := r.Local(name); c != nil {
			return c
		}
	}
	for _, outer := range r.Enclosing {
		oc := r.Finder.FindClass(outer)
		if oc == nil {
			continue
		}
		if oc.SimpleName == name {
			return oc
		}
		for _, mc := range MemberTypesOf(r.Finder, oc.RawType()) {
			if mc.SimpleName == name {
				return mc
			}
		}
	}
	for _, imp := range r.Imports {
		if imp.Wildcard || imp.Static {
			continue
		}
		if imp.Name == name || strings.HasSuffix(imp.Name, "."+name) {
			if c := r.resolveCanonical(imp.Name); c != nil {
				return c
			}
		}
	}
	if c := r.Finder.FindClass(qualify(r.Package, name)); c != nil {
		return c
	}
	for _, imp := range r.Imports {
		if !imp.Wildcard {
			continue
		}
		if c := r.Finder.FindClass(imp.Name + "." + name); c != nil {
			return c
		}
		if outer := r.resolveCanonical(imp.Name); outer != nil {
			if c := r.Finder.FindClass(outer.Name + "$" + name); c != nil {
				return c
			}
		}
	}
	if c := r.Finder.FindClass("java.lang." + name); c != nil {
		return c
	}
	return nil
}

// ResolveQualified resolves a dotted name that may start with a package, a
// class or an enclosing member type.
func (r *TypeResolver) ResolveQualified(name string) *ClassModel {
	parts := strings.Split(name, ".")
	if c := r.ResolveClass(parts[0]); c != nil && len(parts) == 1 {
		return c
	} else if c != nil {
		if nested := r.nested(c, parts[1:]); nested != nil {
			return nested
		}
	}
	return r.resolveCanonical(name)
}

// resolveCanonical resolves a fully qualified name such as java.util.Map.Entry.
func (r *TypeResolver) resolveCanonical(name string) *ClassModel {
	parts := strings.Split(name, ".")
	for i := 1; i < len(parts); i++ {
		pkg := strings.Join(parts[:i], ".")
		c := r.Finder.FindClass(pkg + "." + parts[i])
		if c == nil {
			continue
		}
		if i == len(parts)-1 {
			return c
		}
		if nested := r.nested(c, parts[i+1:]); nested != nil {
			return nested
		}
	}
	return nil
}

func (r *TypeResolver) nested(c *ClassModel, rest []string) *ClassModel {
	for _, part := range rest {
		var next *ClassModel
		for _, mc := range MemberTypesOf(r.Finder, c.RawType()) {
			if mc.SimpleName == part {
				next = mc
				break
			}
		}
		if next == nil {
			return nil
		}
		c = next
	}
	return c
}

// ResolveName resolves a simple type name including type variables and
// primitives.
func (r *TypeResolver) ResolveName(name string) *Type {
	if IsPrimitiveName(name) {
		return Primitive(name)
	}
	if name == "void" {
		return Void
	}
	if v, ok := r.TypeVars[name]; ok {
		return v
	}
	if c := r.ResolveClass(name); c != nil {
		return c.RawType()
	}
	return Unknown
}

// Resolve converts a syntactic type into a Type. Names that cannot be
// resolved yield Unknown.
func (r *TypeResolver) Resolve(n *parser.Node) *Type {
	if n == nil {
		return Unknown
	}
	switch n.Kind {
	case parser.KindPrimitiveType:
		name := n.TokenLiteral()
		if name == "var" {
			return Unknown
		}
		return r.ResolveName(name)
	case parser.KindArrayType:
		return ArrayOfDims(r.Resolve(n.Child(0)), n.Dims)
	case parser.KindClassType:
		return r.resolveClassType(n)
	case parser.KindWildcard:
		bound := n.Child(0)
		switch n.TokenLiteral() {
		case "extends":
			return WildcardType(WildcardExtends, r.Resolve(bound))
		case "super":
			return WildcardType(WildcardSuper, r.Resolve(bound))
		}
		return WildcardType(WildcardUnbounded, nil)
	case parser.KindIntersectionType:
		return r.Resolve(n.Child(0))
	case parser.KindUnionType:
		return r.lub(n.Children)
	}
	return Unknown
}

func (r *TypeResolver) resolveClassType(n *parser.Node) *Type {
	var idents []string
	var args []*parser.Node
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindIdentifier:
			idents = append(idents, c.TokenLiteral())
			args = append(args, nil)
		case parser.KindTypeArguments:
			args[len(args)-1] = c
		}
	}
	if len(idents) == 0 || idents[len(idents)-1] == "" {
		return Unknown
	}
	if len(idents) == 1 {
		if v, ok := r.TypeVars[idents[0]]; ok {
			return v
		}
	}
	c := r.ResolveQualified(strings.Join(idents, "."))
	if c == nil {
		return Unknown
	}
	t := c.RawType()
	if last := args[len(args)-1]; last != nil {
		for _, a := range last.Children {
			t.Args = append(t.Args, r.Resolve(a))
		}
		if len(t.Args) == 0 {
			// Diamond: arguments are inferred from the target type.
			return t
		}
	}
	return t
}

// lub approximates the least upper bound of the alternatives of a union
// type by the nearest common superclass.
func (r *TypeResolver) lub(alts []*parser.Node) *Type {
	var types []*Type
	for _, a := range alts {
		t := r.Resolve(a)
		if t.IsUnknown() {
			continue
		}
		types = append(types, t)
	}
	if len(types) == 0 {
		return Unknown
	}
	for _, cand := range Hierarchy(r.Finder, types[0]) {
		ok := true
		for _, t := range types[1:] {
			if !IsSubtype(r.Finder, t, cand) {
				ok = false
				break
			}
		}
		if ok {
			return cand
		}
	}
	return Object
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
