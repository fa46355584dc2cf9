package java

import (
	"sort"
	"strings"

	"github.com/dhamidi/sai-complete/java/parser"
)

// javadocFinder matches Javadoc comments to the declarations that follow
// them.
type javadocFinder struct {
	comments []parser.Token // only /** comments, sorted by start offset
	used     map[int]bool
}

func newJavadocFinder(comments []parser.Token) *javadocFinder {
	var javadocs []parser.Token
	for _, c := range comments {
		if c.Kind == parser.TokenComment && strings.HasPrefix(c.Literal, "/**") {
			javadocs = append(javadocs, c)
		}
	}
	sort.Slice(javadocs, func(i, j int) bool {
		return javadocs[i].Span.Start.Offset < javadocs[j].Span.Start.Offset
	})
	return &javadocFinder{comments: javadocs, used: make(map[int]bool)}
}

// FindForNode returns the cleaned Javadoc comment closest before node. Each
// comment is matched at most once.
func (jf *javadocFinder) FindForNode(node *parser.Node) string {
	if jf == nil || len(jf.comments) == 0 || node == nil {
		return ""
	}
	start := node.Span.Start.Offset
	i := sort.Search(len(jf.comments), func(i int) bool {
		return jf.comments[i].Span.End.Offset > start
	}) - 1
	if i < 0 || jf.used[i] {
		return ""
	}
	// Declaration spans include their annotations, so the comment must end
	// on the line before or on the same line.
	if node.Span.Start.Line-jf.comments[i].Span.End.Line > 1 {
		return ""
	}
	jf.used[i] = true
	return CleanJavadoc(jf.comments[i].Literal)
}

// CleanJavadoc strips the comment delimiters and leading asterisks.
func CleanJavadoc(raw string) string {
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimSuffix(raw, "*/")
	lines := strings.Split(raw, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		out = append(out, strings.TrimPrefix(line, " "))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// SourceFile is a parsed compilation unit together with the scoping
// information needed to resolve names in it.
type SourceFile struct {
	Path    string
	Package string
	Imports []Import
	Root    *parser.Node

	comments []parser.Token
}

// ParseSourceFile parses src and wraps the result.
func ParseSourceFile(path string, src []byte) *SourceFile {
	res := parser.Parse(src)
	sf := NewSourceFile(path, res.Root)
	sf.comments = res.Comments
	return sf
}

// NewSourceFile wraps an already parsed compilation unit.
func NewSourceFile(path string, root *parser.Node) *SourceFile {
	return &SourceFile{
		Path:    path,
		Package: PackageOf(root),
		Imports: ImportsOf(root),
		Root:    root,
	}
}

// WithComments attaches the comment tokens of the parse so declarations
// pick up their Javadoc.
func (sf *SourceFile) WithComments(comments []parser.Token) *SourceFile {
	sf.comments = comments
	return sf
}

// Resolver returns a type resolver for the top level of the file.
func (sf *SourceFile) Resolver(f ClassFinder) *TypeResolver {
	return &TypeResolver{Finder: f, Package: sf.Package, Imports: sf.Imports}
}

// TypeDecl is a class-like declaration found in a compilation unit.
type TypeDecl struct {
	Name  string
	Outer string
	Node  *parser.Node
}

// TypeDecls lists the top-level and member type declarations of the file
// in source order, outer classes before the classes they contain. Local
// and anonymous classes are not included.
func (sf *SourceFile) TypeDecls() []TypeDecl {
	var out []TypeDecl
	var visit func(n *parser.Node, outer string)
	visit = func(n *parser.Node, outer string) {
		name := n.Name()
		if name == "" {
			return
		}
		binary := qualify(sf.Package, name)
		if outer != "" {
			binary = outer + "$" + name
		}
		out = append(out, TypeDecl{Name: binary, Outer: outer, Node: n})
		for _, m := range bodyOf(n).Children {
			if m.Kind.IsTypeDecl() {
				visit(m, binary)
			}
		}
	}
	for _, child := range sf.Root.Children {
		if child.Kind.IsTypeDecl() {
			visit(child, "")
		}
	}
	return out
}

// overlayFinder serves models under construction ahead of a base finder.
type overlayFinder struct {
	models map[string]*ClassModel
	base   ClassFinder
}

func (o *overlayFinder) FindClass(name string) *ClassModel {
	if c, ok := o.models[name]; ok {
		return c
	}
	if o.base == nil {
		return nil
	}
	return o.base.FindClass(name)
}

// ClassModels builds models for all top-level and member types of the
// file. Names are resolved against f, with the file's own types taking
// precedence.
func (sf *SourceFile) ClassModels(f ClassFinder) []*ClassModel {
	decls := sf.TypeDecls()
	overlay := &overlayFinder{models: make(map[string]*ClassModel, len(decls)), base: f}
	jf := newJavadocFinder(sf.comments)

	models := make([]*ClassModel, len(decls))
	for i, d := range decls {
		c := skeleton(d.Node, d.Name, sf.Package, d.Outer)
		c.SourceFile = sf.Path
		c.Doc = jf.FindForNode(d.Node)
		if d.Outer != "" {
			outer := overlay.models[d.Outer]
			outer.MemberTypes = append(outer.MemberTypes, c.Name)
			if outer.IsInterface() {
				c.Visibility = VisibilityPublic
				c.IsStatic = true
			}
		}
		overlay.models[c.Name] = c
		models[i] = c
	}

	resolvers := make(map[string]*TypeResolver, len(decls))
	base := sf.Resolver(overlay)
	for i, d := range decls {
		r := base
		if d.Outer != "" {
			r = resolvers[d.Outer]
		}
		r = r.With(d.Name, nil)
		resolvers[d.Name] = resolveHeader(models[i], d.Node, r)
	}
	for i, d := range decls {
		resolveMembers(models[i], d.Node, resolvers[d.Name], jf)
	}
	return models
}

// ClassModelFromDecl builds the model of a single type declaration, such as
// a local class, using r for names. Member types are not modeled.
func ClassModelFromDecl(decl *parser.Node, binaryName string, r *TypeResolver) *ClassModel {
	c := skeleton(decl, binaryName, r.Package, "")
	c.IsLocal = true
	local := r.With("", nil)
	prev := r.Local
	local.Local = func(name string) *ClassModel {
		if name == c.SimpleName {
			return c
		}
		if prev != nil {
			return prev(name)
		}
		return nil
	}
	local.Finder = &overlayFinder{models: map[string]*ClassModel{c.Name: c}, base: r.Finder}
	local = resolveHeader(c, decl, local.With(c.Name, nil))
	resolveMembers(c, decl, local, nil)
	return c
}

// AnonymousClassModel builds the model of an anonymous class body extending
// or implementing super.
func AnonymousClassModel(binaryName string, super *Type, superIsInterface bool, body *parser.Node, r *TypeResolver) *ClassModel {
	c := &ClassModel{
		Name:       binaryName,
		Package:    r.Package,
		Kind:       ClassKindClass,
		Visibility: VisibilityPackage,
		IsFinal:    true,
		IsLocal:    true,
		Offset:     -1,
	}
	if body != nil {
		c.Offset = body.Span.Start.Offset
	}
	if superIsInterface {
		c.SuperClass = Object
		c.Interfaces = []*Type{super}
	} else {
		c.SuperClass = super
	}
	if body != nil {
		local := r.With("", nil)
		local.Finder = &overlayFinder{models: map[string]*ClassModel{c.Name: c}, base: r.Finder}
		addBodyMembers(c, body, local.With(c.Name, nil), nil)
	}
	return c
}

func bodyOf(decl *parser.Node) *parser.Node {
	if decl == nil || len(decl.Children) == 0 {
		return &parser.Node{Kind: parser.KindClassBody}
	}
	body := decl.Children[len(decl.Children)-1]
	if body.Kind != parser.KindClassBody {
		return &parser.Node{Kind: parser.KindClassBody}
	}
	return body
}

func classKindOf(k parser.NodeKind) ClassKind {
	switch k {
	case parser.KindInterfaceDecl:
		return ClassKindInterface
	case parser.KindEnumDecl:
		return ClassKindEnum
	case parser.KindRecordDecl:
		return ClassKindRecord
	case parser.KindAnnotationDecl:
		return ClassKindAnnotation
	}
	return ClassKindClass
}

func visibilityOf(mods *parser.Node, def Visibility) Visibility {
	switch {
	case mods.Has(parser.NodePublic):
		return VisibilityPublic
	case mods.Has(parser.NodeProtected):
		return VisibilityProtected
	case mods.Has(parser.NodePrivate):
		return VisibilityPrivate
	}
	return def
}

func offsetOf(n *parser.Node) int {
	if id := n.NameNode(); id != nil {
		return id.Span.Start.Offset
	}
	if n == nil {
		return -1
	}
	return n.Span.Start.Offset
}

// skeleton fills in everything about a declaration that does not need name
// resolution.
func skeleton(decl *parser.Node, binary, pkg, outer string) *ClassModel {
	mods := decl.Child(0)
	kind := classKindOf(decl.Kind)
	c := &ClassModel{
		Name:         binary,
		SimpleName:   decl.Name(),
		Package:      pkg,
		Outer:        outer,
		Kind:         kind,
		Visibility:   visibilityOf(mods, VisibilityPackage),
		IsFinal:      mods.Has(parser.NodeFinal),
		IsAbstract:   mods.Has(parser.NodeAbstract),
		IsStatic:     mods.Has(parser.NodeStatic),
		IsSealed:     mods.Has(parser.NodeSealed),
		IsDeprecated: mods.Has(parser.NodeDeprecated),
		Offset:       offsetOf(decl),
	}
	switch kind {
	case ClassKindInterface, ClassKindAnnotation:
		c.IsAbstract = true
		if outer != "" {
			c.IsStatic = true
		}
	case ClassKindEnum, ClassKindRecord:
		c.IsFinal = true
		if outer != "" {
			c.IsStatic = true
		}
	}
	return c
}

func typeParameterNames(n *parser.Node) []TypeParameterModel {
	if n == nil {
		return nil
	}
	var out []TypeParameterModel
	for _, tp := range n.Children {
		if tp.Kind != parser.KindTypeParameter || tp.Name() == "" {
			continue
		}
		out = append(out, TypeParameterModel{Name: tp.Name()})
	}
	return out
}

// typeParameters resolves the bounds of declared type parameters. Names
// are bound before bounds are resolved so bounds may refer to any of them.
func typeParameters(n *parser.Node, r *TypeResolver) ([]TypeParameterModel, *TypeResolver) {
	tps := typeParameterNames(n)
	if len(tps) == 0 {
		return nil, r
	}
	r = r.With("", tps)
	i := 0
	for _, tp := range n.Children {
		if tp.Kind != parser.KindTypeParameter || tp.Name() == "" {
			continue
		}
		for _, b := range tp.Children[1:] {
			if bt := r.Resolve(b); !bt.IsUnknown() {
				tps[i].Bounds = append(tps[i].Bounds, bt)
			}
		}
		i++
	}
	return tps, r.With("", tps)
}

// resolveHeader resolves type parameters and supertypes, returning the
// resolver for the class body.
func resolveHeader(c *ClassModel, decl *parser.Node, r *TypeResolver) *TypeResolver {
	tps, r := typeParameters(decl.Child(2), r)
	c.TypeParameters = tps

	switch c.Kind {
	case ClassKindEnum:
		c.SuperClass = ClassType("java.lang.Enum", c.RawType())
	case ClassKindRecord:
		c.SuperClass = ClassType("java.lang.Record")
	case ClassKindAnnotation:
		c.Interfaces = []*Type{ClassType("java.lang.annotation.Annotation")}
	case ClassKindClass:
		if c.Name != Object.Name {
			c.SuperClass = Object
		}
	}

	if ext := decl.Child(3); ext != nil && ext.Kind == parser.KindExtendsClause {
		for _, n := range ext.Children {
			if n.Kind == parser.KindError {
				continue
			}
			t := r.Resolve(n)
			if t.IsUnknown() {
				continue
			}
			if c.Kind == ClassKindInterface {
				c.Interfaces = append(c.Interfaces, t)
			} else {
				c.SuperClass = t
			}
		}
	}
	if impl := decl.Child(4); impl != nil && impl.Kind == parser.KindImplementsClause {
		for _, n := range impl.Children {
			if n.Kind == parser.KindError {
				continue
			}
			if t := r.Resolve(n); !t.IsUnknown() {
				c.Interfaces = append(c.Interfaces, t)
			}
		}
	}
	return r
}

func resolveMembers(c *ClassModel, decl *parser.Node, r *TypeResolver, jf *javadocFinder) {
	if c.Kind == ClassKindRecord {
		addRecordComponents(c, decl.Child(3), r)
	}
	addBodyMembers(c, bodyOf(decl), r, jf)

	switch c.Kind {
	case ClassKindEnum:
		self := c.RawType()
		c.Methods = append(c.Methods,
			MethodModel{Name: "values", ReturnType: ArrayOf(self), Visibility: VisibilityPublic, IsStatic: true, Offset: -1},
			MethodModel{Name: "valueOf", Parameters: []ParameterModel{{Name: "name", Type: String}}, ReturnType: self, Visibility: VisibilityPublic, IsStatic: true, Offset: -1},
		)
	case ClassKindRecord:
		addRecordImplicits(c)
	}
}

func addRecordComponents(c *ClassModel, header *parser.Node, r *TypeResolver) {
	if header == nil || header.Kind != parser.KindParameters {
		return
	}
	for _, p := range header.Children {
		if p.Kind != parser.KindParameter || p.Name() == "" {
			continue
		}
		c.Fields = append(c.Fields, FieldModel{
			Name:       p.Name(),
			Type:       parameterType(p, r),
			Visibility: VisibilityPrivate,
			IsFinal:    true,
			Offset:     offsetOf(p),
		})
	}
}

// addRecordImplicits adds the accessors and canonical constructor that a
// record declares implicitly, unless written out.
func addRecordImplicits(c *ClassModel) {
	var params []ParameterModel
	for _, f := range c.Fields {
		if f.IsStatic {
			continue
		}
		params = append(params, ParameterModel{Name: f.Name, Type: f.Type})
		if len(c.MethodsNamed(f.Name)) == 0 {
			c.Methods = append(c.Methods, MethodModel{
				Name:       f.Name,
				ReturnType: f.Type,
				Visibility: VisibilityPublic,
				Offset:     f.Offset,
			})
		}
	}
	for i := range c.Methods {
		m := &c.Methods[i]
		// A compact constructor takes the components as parameters.
		if m.IsConstructor() && m.Parameters == nil && m.IsSynthetic {
			m.Parameters = params
			m.IsSynthetic = false
			return
		}
	}
	for _, m := range c.Constructors() {
		if len(m.Parameters) == len(params) {
			return
		}
	}
	c.Methods = append(c.Methods, MethodModel{
		Name:       "<init>",
		Parameters: params,
		ReturnType: Void,
		Visibility: VisibilityPublic,
		Offset:     c.Offset,
	})
}

func addBodyMembers(c *ClassModel, body *parser.Node, r *TypeResolver, jf *javadocFinder) {
	iface := c.IsInterface()
	for _, m := range body.Children {
		switch m.Kind {
		case parser.KindEnumConstant:
			if m.Name() == "" {
				continue
			}
			c.Fields = append(c.Fields, FieldModel{
				Name:           m.Name(),
				Type:           c.RawType(),
				Visibility:     VisibilityPublic,
				IsStatic:       true,
				IsFinal:        true,
				IsEnumConstant: true,
				IsDeprecated:   m.Child(0).Has(parser.NodeDeprecated),
				Doc:            jf.FindForNode(m),
				Offset:         offsetOf(m),
			})
		case parser.KindFieldDecl:
			c.Fields = append(c.Fields, fieldModels(m, r, iface, jf)...)
		case parser.KindMethodDecl:
			if m.Name() == "" {
				continue
			}
			c.Methods = append(c.Methods, methodModel(m, r, c, jf))
		case parser.KindConstructorDecl:
			c.Methods = append(c.Methods, constructorModel(m, r, c, jf))
		}
	}
}

func fieldModels(decl *parser.Node, r *TypeResolver, iface bool, jf *javadocFinder) []FieldModel {
	mods := decl.Child(0)
	typ := r.Resolve(decl.Child(1))
	doc := jf.FindForNode(decl)
	var out []FieldModel
	for _, d := range decl.Children[2:] {
		if d.Kind != parser.KindVarDeclarator || d.Name() == "" {
			continue
		}
		f := FieldModel{
			Name:         d.Name(),
			Type:         ArrayOfDims(typ, d.Dims),
			Visibility:   visibilityOf(mods, VisibilityPackage),
			IsStatic:     mods.Has(parser.NodeStatic),
			IsFinal:      mods.Has(parser.NodeFinal),
			IsDeprecated: mods.Has(parser.NodeDeprecated),
			Doc:          doc,
			Offset:       offsetOf(d),
		}
		if iface {
			f.Visibility = VisibilityPublic
			f.IsStatic = true
			f.IsFinal = true
		}
		out = append(out, f)
	}
	return out
}

func parameterType(p *parser.Node, r *TypeResolver) *Type {
	t := r.Resolve(p.Child(1))
	return ArrayOfDims(t, p.Dims)
}

func parameters(n *parser.Node, r *TypeResolver) ([]ParameterModel, bool) {
	if n == nil {
		return nil, false
	}
	var out []ParameterModel
	varargs := false
	for _, p := range n.Children {
		if p.Kind != parser.KindParameter {
			continue
		}
		// Receiver parameters (Foo this) are not real parameters.
		if id := p.Child(2); id != nil && id.TokenLiteral() == "this" {
			continue
		}
		out = append(out, ParameterModel{Name: p.Name(), Type: parameterType(p, r)})
		varargs = p.Has(parser.NodeVarargs)
	}
	return out, varargs
}

func exceptions(n *parser.Node, r *TypeResolver) []*Type {
	if n == nil {
		return nil
	}
	var out []*Type
	for _, t := range n.Children {
		if et := r.Resolve(t); !et.IsUnknown() {
			out = append(out, et)
		}
	}
	return out
}

func methodModel(decl *parser.Node, r *TypeResolver, c *ClassModel, jf *javadocFinder) MethodModel {
	mods := decl.Child(0)
	tps, r := typeParameters(decl.Child(1), r)
	params, varargs := parameters(decl.Child(4), r)
	m := MethodModel{
		Name:           decl.Name(),
		TypeParameters: tps,
		Parameters:     params,
		ReturnType:     r.Resolve(decl.Child(2)),
		Exceptions:     exceptions(decl.Child(5), r),
		Visibility:     visibilityOf(mods, VisibilityPackage),
		IsStatic:       mods.Has(parser.NodeStatic),
		IsFinal:        mods.Has(parser.NodeFinal),
		IsAbstract:     mods.Has(parser.NodeAbstract),
		IsDefault:      mods.Has(parser.NodeDefault),
		IsVarargs:      varargs,
		IsDeprecated:   mods.Has(parser.NodeDeprecated),
		Doc:            jf.FindForNode(decl),
		Offset:         offsetOf(decl),
	}
	if c.IsInterface() {
		if m.Visibility != VisibilityPrivate {
			m.Visibility = VisibilityPublic
		}
		if !m.IsStatic && !m.IsDefault && m.Visibility != VisibilityPrivate && decl.Child(6) == nil {
			m.IsAbstract = true
		}
	}
	return m
}

func constructorModel(decl *parser.Node, r *TypeResolver, c *ClassModel, jf *javadocFinder) MethodModel {
	mods := decl.Child(0)
	tps, r := typeParameters(decl.Child(1), r)
	paramsNode := decl.Child(3)
	params, varargs := parameters(paramsNode, r)
	def := VisibilityPackage
	if c.IsEnum() {
		def = VisibilityPrivate
	}
	return MethodModel{
		Name:           "<init>",
		TypeParameters: tps,
		Parameters:     params,
		ReturnType:     Void,
		Exceptions:     exceptions(decl.Child(4), r),
		Visibility:     visibilityOf(mods, def),
		IsVarargs:      varargs,
		IsDeprecated:   mods.Has(parser.NodeDeprecated),
		// Marks a compact record constructor until its parameters are known.
		IsSynthetic: c.Kind == ClassKindRecord && paramsNode != nil && paramsNode.Synthetic,
		Doc:         jf.FindForNode(decl),
		Offset:      offsetOf(decl),
	}
}
