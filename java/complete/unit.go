package complete

import (
	"context"
	"strings"
	"sync"

	"github.com/dhamidi/sai-complete/classpath"
	"github.com/dhamidi/sai-complete/java"
	"github.com/dhamidi/sai-complete/java/parser"
	"github.com/dhamidi/sai-complete/java/scope"
)

// overlay serves the class models of the request ahead of the class path:
// the file's own types and the local and anonymous classes around the
// cursor.
type overlay struct {
	classpath.Oracle

	mu    sync.Mutex
	local map[string]*java.ClassModel
}

func (o *overlay) FindClass(name string) *java.ClassModel {
	o.mu.Lock()
	c, ok := o.local[name]
	o.mu.Unlock()
	if ok {
		return c
	}
	return o.Oracle.FindClass(name)
}

func (o *overlay) has(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.local[name] != nil
}

func (o *overlay) add(c *java.ClassModel) {
	o.mu.Lock()
	o.local[c.Name] = c
	o.mu.Unlock()
}

// unit is the analysis of one request: the parse, the scopes around the
// position and the class models needed to type expressions there.
type unit struct {
	ctx    context.Context
	rc     ResolutionContext
	src    []byte
	offset int

	res  *parser.Result
	file *java.SourceFile
	f    *overlay

	// path runs from the compilation unit to the node at offset.
	path []*parser.Node
	tree *scope.Tree
	at   scope.ID

	resolver *java.TypeResolver
	ty       *typer

	parents  map[*parser.Node]*parser.Node
	packages map[string]bool
	building map[string]bool
}

// analyze parses src and builds the scopes around offset. With a cursor the
// parse plants a completion token and the path leads to it; without one the
// path leads to the identifier at offset.
func analyze(ctx context.Context, rc ResolutionContext, src []byte, offset int, cursor bool) *unit {
	u := &unit{
		ctx:      ctx,
		rc:       rc,
		src:      src,
		offset:   offset,
		building: make(map[string]bool),
	}
	if cursor {
		u.res = parser.Parse(src, parser.WithCursor(offset))
	} else {
		u.res = parser.Parse(src)
	}
	poll(ctx)

	u.file = java.NewSourceFile(rc.Path, u.res.Root).WithComments(u.res.Comments)
	base := rc.oracle()
	models := u.file.ClassModels(base)
	u.f = &overlay{
		Oracle: classpath.Composite(classpath.NewIndex(models...), base),
		local:  make(map[string]*java.ClassModel),
	}

	var exclude *parser.Node
	if c := u.res.Completion; c != nil {
		u.path = parser.PathTo(u.res.Root, c.Node)
		exclude = c.Node
	}
	if u.path == nil {
		u.path = parser.IdentifierAt(u.res.Root, offset)
	}
	b := &scope.Builder{Package: u.file.Package, Exclude: exclude}
	u.tree, u.at = b.Build(u.path, offset)
	poll(ctx)

	classes := u.tree.Classes(u.at)
	for i := len(classes) - 1; i >= 0; i-- {
		u.classModel(classes[i])
	}
	u.resolver = u.resolverAt(u.at)
	u.ty = newTyper(u)
	return u
}

// classModel returns the model of a type or anonymous class scope,
// building and registering local and anonymous classes on first use.
func (u *unit) classModel(s *scope.Scope) *java.ClassModel {
	if s == nil || s.ClassName == "" {
		return nil
	}
	if c := u.f.FindClass(s.ClassName); c != nil {
		return c
	}
	if u.building[s.ClassName] {
		return nil
	}
	u.building[s.ClassName] = true
	defer delete(u.building, s.ClassName)

	r := u.resolverAt(s.Parent)
	var c *java.ClassModel
	switch s.Kind {
	case scope.KindType:
		c = java.ClassModelFromDecl(s.Node, s.ClassName, r)
	case scope.KindAnonymous:
		c = u.anonymousModel(s, r)
	}
	if c != nil {
		u.f.add(c)
	}
	return c
}

func (u *unit) anonymousModel(s *scope.Scope, r *java.TypeResolver) *java.ClassModel {
	host := s.Node
	var super *java.Type
	var body *parser.Node
	switch host.Kind {
	case parser.KindNewExpr:
		super = r.Resolve(host.Child(1))
		body = host.Child(3)
	case parser.KindEnumConstant:
		if outer := u.tree.Classes(s.Parent); len(outer) > 0 {
			super = java.ClassType(outer[0].ClassName)
		}
		body = host.Child(3)
	}
	if super.IsUnknown() {
		super = java.Object
	}
	iface := false
	if c := u.f.FindClass(super.Name); c != nil {
		iface = c.IsInterface()
	}
	return java.AnonymousClassModel(s.ClassName, super, iface, body, r)
}

// localClass returns the model of a local class binding.
func (u *unit) localClass(b *scope.Binding) *java.ClassModel {
	if c := u.f.FindClass(b.ClassName); c != nil {
		return c
	}
	if u.building[b.ClassName] {
		return nil
	}
	u.building[b.ClassName] = true
	defer delete(u.building, b.ClassName)
	c := java.ClassModelFromDecl(b.Node, b.ClassName, u.resolverAt(u.at))
	u.f.add(c)
	return c
}

// resolverAt returns a type resolver for names written in scope id.
func (u *unit) resolverAt(id scope.ID) *java.TypeResolver {
	r := u.file.Resolver(u.f)
	for _, s := range u.tree.Classes(id) {
		r.Enclosing = append(r.Enclosing, s.ClassName)
	}

	chain := u.tree.Chain(id)
	var params []*scope.Binding
	for i := len(chain) - 1; i >= 0; i-- {
		for j := range chain[i].Bindings {
			if b := &chain[i].Bindings[j]; b.Kind == scope.BindingTypeParameter {
				params = append(params, b)
			}
		}
	}
	if len(params) > 0 {
		r.TypeVars = make(map[string]*java.Type, len(params))
		for _, b := range params {
			r.TypeVars[b.Name] = java.TypeVar(b.Name, nil)
		}
		for _, b := range params {
			if bound := b.Node.Child(1); bound != nil {
				r.TypeVars[b.Name] = java.TypeVar(b.Name, r.Resolve(bound))
			}
		}
	}

	r.Local = func(name string) *java.ClassModel {
		b, _ := u.tree.Lookup(id, name, true)
		if b == nil || b.Kind != scope.BindingType {
			return nil
		}
		return u.localClass(b)
	}
	return r
}

// parent returns the syntactic parent of n.
func (u *unit) parent(n *parser.Node) *parser.Node {
	if u.parents == nil {
		u.parents = make(map[*parser.Node]*parser.Node)
		parser.Walk(u.res.Root, func(c *parser.Node) bool {
			for _, child := range c.Children {
				u.parents[child] = c
			}
			return true
		})
	}
	return u.parents[n]
}

// isPackage reports whether name is a package or a prefix of one.
func (u *unit) isPackage(name string) bool {
	if u.packages == nil {
		u.packages = make(map[string]bool)
		for _, pkg := range u.f.Packages() {
			for {
				u.packages[pkg] = true
				dot := strings.LastIndexByte(pkg, '.')
				if dot < 0 {
					break
				}
				pkg = pkg[:dot]
			}
		}
	}
	return u.packages[name]
}

// enclosingClass returns the model of the innermost class around the
// position.
func (u *unit) enclosingClass() *java.ClassModel {
	for _, s := range u.tree.Classes(u.at) {
		if c := u.classModel(s); c != nil {
			return c
		}
	}
	return nil
}

// accessible reports whether a member with visibility v declared in owner
// can be referenced from the position.
func (u *unit) accessible(owner *java.ClassModel, v java.Visibility) bool {
	if owner == nil {
		return true
	}
	switch v {
	case java.VisibilityPublic:
		return true
	case java.VisibilityPrivate:
		top := topLevel(owner.Name)
		for _, s := range u.tree.Classes(u.at) {
			if topLevel(s.ClassName) == top {
				return true
			}
		}
		return false
	case java.VisibilityProtected:
		if owner.Package == u.file.Package {
			return true
		}
		for _, s := range u.tree.Classes(u.at) {
			if java.IsSubclass(u.f, s.ClassName, owner.Name) {
				return true
			}
		}
		return false
	}
	return owner.Package == u.file.Package
}

// typeAccessible reports whether class c can be named from the position.
func (u *unit) typeAccessible(c *java.ClassModel) bool {
	if c.IsLocal && !u.f.has(c.Name) {
		return false
	}
	if c.Outer != "" {
		if outer := u.f.FindClass(c.Outer); outer != nil && !u.typeAccessible(outer) {
			return false
		}
	}
	return u.accessible(c, c.Visibility)
}

func topLevel(binary string) string {
	if i := strings.IndexByte(binary, '$'); i >= 0 {
		return binary[:i]
	}
	return binary
}
