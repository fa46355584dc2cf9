// Package scope builds the chain of lexical scopes that enclose a cursor
// position in a parsed compilation unit.
//
// Scopes live in an arena owned by a Tree and refer to their parent by
// index. Only constructs on the path from the compilation unit to the
// cursor get a scope, so every binding in a Tree lexically encloses the
// cursor.
package scope

import (
	"github.com/dhamidi/sai-complete/java/parser"
)

// ID indexes a scope in its Tree.
type ID int

// None is the parent of the root scope.
const None ID = -1

type Kind int

const (
	KindUnit Kind = iota
	KindType
	KindAnonymous
	KindMethod
	// KindInitializer covers initializer blocks and field initializers.
	KindInitializer
	KindLambda
	KindBlock
)

var kindNames = [...]string{
	KindUnit:        "unit",
	KindType:        "type",
	KindAnonymous:   "anonymous-class",
	KindMethod:      "method",
	KindInitializer: "initializer",
	KindLambda:      "lambda",
	KindBlock:       "block",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

type BindingKind int

const (
	BindingLocal BindingKind = iota
	BindingParameter
	BindingField
	BindingMethod
	BindingType
	BindingTypeParameter
)

var bindingKindNames = [...]string{
	BindingLocal:         "local",
	BindingParameter:     "parameter",
	BindingField:         "field",
	BindingMethod:        "method",
	BindingType:          "type",
	BindingTypeParameter: "type-parameter",
}

func (k BindingKind) String() string {
	if int(k) < len(bindingKindNames) {
		return bindingKindNames[k]
	}
	return "unknown"
}

// IsVariable reports whether bindings of kind k live in the variable
// namespace.
func (k BindingKind) IsVariable() bool {
	return k == BindingLocal || k == BindingParameter || k == BindingField
}

// Binding is a name declared in a scope. Types are not resolved here:
// TypeNode holds the declared syntactic type, or is nil when the type has
// to be inferred from context.
type Binding struct {
	Name string
	Kind BindingKind
	// Node is the declaring node: a VarDeclarator, Parameter,
	// InstanceofExpr, TypeParameter or type declaration.
	Node     *parser.Node
	TypeNode *parser.Node
	// Dims counts C-style array brackets after the name.
	Dims int
	// Init is the initializer of a local variable.
	Init *parser.Node
	// Iterable is the expression an enhanced for loop variable ranges over.
	Iterable *parser.Node
	// Lambda and Index locate a lambda parameter.
	Lambda *parser.Node
	Index  int
	// ClassName is the binary name of a local class.
	ClassName string
	Final     bool
	// Offset is the start of the declared name.
	Offset int
}

// Inferred reports whether the binding's type must come from context.
func (b *Binding) Inferred() bool {
	return b.TypeNode == nil || b.TypeNode.Kind == parser.KindPrimitiveType && b.TypeNode.TokenLiteral() == "var"
}

type Scope struct {
	ID     ID
	Parent ID
	Kind   Kind
	// Node opened the scope.
	Node     *parser.Node
	Bindings []Binding
	// ClassName is the binary name of the class of a type or anonymous
	// class scope.
	ClassName string
	// Static marks a scope without an enclosing instance: static methods
	// and initializers, and types that are static or top-level.
	Static bool
}

// Tree is the arena of scopes built for one request.
type Tree struct {
	Scopes []Scope
}

func (t *Tree) add(kind Kind, parent ID, node *parser.Node) ID {
	id := ID(len(t.Scopes))
	t.Scopes = append(t.Scopes, Scope{ID: id, Parent: parent, Kind: kind, Node: node})
	return id
}

// Scope returns the scope with the given id, or nil.
func (t *Tree) Scope(id ID) *Scope {
	if id < 0 || int(id) >= len(t.Scopes) {
		return nil
	}
	return &t.Scopes[id]
}

// Chain returns the scopes from id outward to the root.
func (t *Tree) Chain(id ID) []*Scope {
	var out []*Scope
	for s := t.Scope(id); s != nil; s = t.Scope(s.Parent) {
		out = append(out, s)
		if len(out) > len(t.Scopes) {
			break
		}
	}
	return out
}

// Lookup finds the innermost binding of name in the variable namespace, or
// in the type namespace when types is set.
func (t *Tree) Lookup(id ID, name string, types bool) (*Binding, *Scope) {
	for _, s := range t.Chain(id) {
		for i := len(s.Bindings) - 1; i >= 0; i-- {
			b := &s.Bindings[i]
			if b.Name == name && b.Kind.IsVariable() != types {
				return b, s
			}
		}
	}
	return nil, nil
}

// Visible returns the bindings visible from id, innermost scope first and
// in declaration order within a scope. A name shadowed by an inner binding
// of the same namespace is reported once.
func (t *Tree) Visible(id ID) []VisibleBinding {
	var out []VisibleBinding
	seen := make(map[string]bool)
	for depth, s := range t.Chain(id) {
		start := len(out)
		for i := len(s.Bindings) - 1; i >= 0; i-- {
			b := &s.Bindings[i]
			key := b.Name
			if !b.Kind.IsVariable() {
				key = "type:" + key
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, VisibleBinding{Binding: b, Scope: s, Depth: depth})
		}
		reverse(out[start:])
	}
	return out
}

// VisibleBinding is a binding together with the scope declaring it and the
// distance of that scope from the query scope.
type VisibleBinding struct {
	*Binding
	Scope *Scope
	Depth int
}

func reverse(s []VisibleBinding) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Classes returns the type and anonymous class scopes from id outward.
func (t *Tree) Classes(id ID) []*Scope {
	var out []*Scope
	for _, s := range t.Chain(id) {
		if s.Kind == KindType || s.Kind == KindAnonymous {
			out = append(out, s)
		}
	}
	return out
}

// InStaticContext reports whether code at id has no enclosing instance of
// its innermost class.
func (t *Tree) InStaticContext(id ID) bool {
	for _, s := range t.Chain(id) {
		switch s.Kind {
		case KindType, KindAnonymous:
			return false
		case KindMethod, KindInitializer:
			if s.Static {
				return true
			}
		}
	}
	return false
}

// Enclosing returns the innermost scope of one of the given kinds.
func (t *Tree) Enclosing(id ID, kinds ...Kind) *Scope {
	for _, s := range t.Chain(id) {
		for _, k := range kinds {
			if s.Kind == k {
				return s
			}
		}
	}
	return nil
}
