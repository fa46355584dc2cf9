package java

import (
	"strings"
)

type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypePrimitive
	TypeVoid
	TypeNull
	TypeClass
	TypeArray
	TypeVariable
	TypeWildcard
)

type WildcardKind int

const (
	WildcardUnbounded WildcardKind = iota
	WildcardExtends
	WildcardSuper
)

// Type is a Java type. Values are treated as immutable once built; helpers
// that change a type return a copy.
//
// Class types are named by their binary name with '.' package separators and
// '$' between nested classes, e.g. java.util.Map$Entry.
type Type struct {
	Kind TypeKind
	// Name is the primitive keyword, the binary class name or the type
	// variable name.
	Name string
	// Args are the type arguments of a parameterized class type.
	Args []*Type
	// Elem is the component type of an array.
	Elem *Type
	// Bound is the wildcard bound, or the first upper bound of a type
	// variable when known.
	Bound    *Type
	Wildcard WildcardKind
}

var (
	Unknown = &Type{Kind: TypeUnknown}
	Void    = &Type{Kind: TypeVoid, Name: "void"}
	Null    = &Type{Kind: TypeNull, Name: "null"}

	Boolean = Primitive("boolean")
	Byte    = Primitive("byte")
	Char    = Primitive("char")
	Short   = Primitive("short")
	Int     = Primitive("int")
	Long    = Primitive("long")
	Float   = Primitive("float")
	Double  = Primitive("double")

	Object = ClassType("java.lang.Object")
	String = ClassType("java.lang.String")
)

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

// IsPrimitiveName reports whether name is a primitive type keyword.
func IsPrimitiveName(name string) bool {
	return primitiveNames[name]
}

func Primitive(name string) *Type {
	return &Type{Kind: TypePrimitive, Name: name}
}

func ClassType(name string, args ...*Type) *Type {
	return &Type{Kind: TypeClass, Name: name, Args: args}
}

func ArrayOf(elem *Type) *Type {
	return &Type{Kind: TypeArray, Elem: elem}
}

// ArrayOfDims wraps elem in dims array levels.
func ArrayOfDims(elem *Type, dims int) *Type {
	for i := 0; i < dims; i++ {
		elem = ArrayOf(elem)
	}
	return elem
}

func TypeVar(name string, bound *Type) *Type {
	return &Type{Kind: TypeVariable, Name: name, Bound: bound}
}

func WildcardType(kind WildcardKind, bound *Type) *Type {
	return &Type{Kind: TypeWildcard, Wildcard: kind, Bound: bound}
}

func (t *Type) IsUnknown() bool { return t == nil || t.Kind == TypeUnknown }
func (t *Type) IsPrimitive() bool {
	return t != nil && t.Kind == TypePrimitive
}
func (t *Type) IsVoid() bool  { return t != nil && t.Kind == TypeVoid }
func (t *Type) IsArray() bool { return t != nil && t.Kind == TypeArray }
func (t *Type) IsClass() bool { return t != nil && t.Kind == TypeClass }

// IsReference reports whether values of t are object references.
func (t *Type) IsReference() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeClass, TypeArray, TypeVariable, TypeNull:
		return true
	}
	return false
}

func (t *Type) IsNumeric() bool {
	if !t.IsPrimitive() {
		return false
	}
	return t.Name != "boolean"
}

// Is reports whether t is the class type with the given binary name,
// ignoring type arguments.
func (t *Type) Is(name string) bool {
	return t != nil && t.Kind == TypeClass && t.Name == name
}

// Dims returns the number of array dimensions of t.
func (t *Type) Dims() int {
	n := 0
	for t != nil && t.Kind == TypeArray {
		n++
		t = t.Elem
	}
	return n
}

// Leaf returns the innermost component type of an array type, or t itself.
func (t *Type) Leaf() *Type {
	for t != nil && t.Kind == TypeArray {
		t = t.Elem
	}
	return t
}

// Erasure drops type arguments and replaces type variables by their bound.
func (t *Type) Erasure() *Type {
	if t == nil {
		return Unknown
	}
	switch t.Kind {
	case TypeClass:
		if len(t.Args) == 0 {
			return t
		}
		return ClassType(t.Name)
	case TypeArray:
		return ArrayOf(t.Elem.Erasure())
	case TypeVariable:
		if t.Bound != nil && t.Bound.Kind != TypeVariable {
			return t.Bound.Erasure()
		}
		return Object
	case TypeWildcard:
		if t.Wildcard == WildcardExtends && t.Bound != nil {
			return t.Bound.Erasure()
		}
		return Object
	}
	return t
}

// Upper returns the type a value of t can be used as: wildcards and type
// variables are replaced by their upper bound.
func (t *Type) Upper() *Type {
	if t == nil {
		return Unknown
	}
	switch t.Kind {
	case TypeWildcard:
		if t.Wildcard == WildcardExtends && t.Bound != nil {
			return t.Bound.Upper()
		}
		return Object
	case TypeVariable:
		if t.Bound != nil {
			return t.Bound.Upper()
		}
		return Object
	}
	return t
}

// Ground replaces wildcard type arguments by their bounds, giving the
// function type a lambda is checked against.
func (t *Type) Ground() *Type {
	if t == nil || t.Kind != TypeClass || len(t.Args) == 0 {
		return t
	}
	out := &Type{Kind: TypeClass, Name: t.Name, Args: make([]*Type, len(t.Args))}
	for i, a := range t.Args {
		if a != nil && a.Kind == TypeWildcard {
			if a.Bound != nil {
				out.Args[i] = a.Bound
			} else {
				out.Args[i] = Object
			}
			continue
		}
		out.Args[i] = a
	}
	return out
}

func (t *Type) Equal(u *Type) bool {
	if t == u {
		return true
	}
	if t == nil || u == nil || t.Kind != u.Kind || t.Name != u.Name || t.Wildcard != u.Wildcard {
		return false
	}
	if len(t.Args) != len(u.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(u.Args[i]) {
			return false
		}
	}
	switch t.Kind {
	case TypeArray:
		return t.Elem.Equal(u.Elem)
	case TypeWildcard:
		return t.Bound.Equal(u.Bound)
	}
	return true
}

// SplitName splits a binary class name into its package and simple name.
func SplitName(binary string) (pkg, simple string) {
	dot := strings.LastIndex(binary, ".")
	if dot >= 0 {
		pkg = binary[:dot]
	}
	simple = binary[dot+1:]
	if dollar := strings.LastIndex(simple, "$"); dollar >= 0 {
		simple = simple[dollar+1:]
	}
	return pkg, simple
}

// SourceName converts a binary name to the dotted name used in source.
func SourceName(binary string) string {
	return strings.ReplaceAll(binary, "$", ".")
}

// SimpleName returns the unqualified name of a class or type variable.
func (t *Type) SimpleName() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case TypeClass:
		_, simple := SplitName(t.Name)
		return simple
	case TypeArray:
		return t.Elem.SimpleName() + "[]"
	}
	return t.String()
}

// String renders t with fully qualified source names.
func (t *Type) String() string {
	var sb strings.Builder
	t.write(&sb, true)
	return sb.String()
}

// Display renders t with simple names, as shown to users.
func (t *Type) Display() string {
	var sb strings.Builder
	t.write(&sb, false)
	return sb.String()
}

func (t *Type) write(sb *strings.Builder, qualified bool) {
	if t == nil {
		sb.WriteString("?")
		return
	}
	switch t.Kind {
	case TypeUnknown:
		sb.WriteString("<unknown>")
	case TypePrimitive, TypeVoid, TypeNull, TypeVariable:
		sb.WriteString(t.Name)
	case TypeClass:
		if qualified {
			sb.WriteString(SourceName(t.Name))
		} else {
			_, simple := SplitName(t.Name)
			sb.WriteString(simple)
		}
		if len(t.Args) > 0 {
			sb.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				a.write(sb, qualified)
			}
			sb.WriteByte('>')
		}
	case TypeArray:
		t.Elem.write(sb, qualified)
		sb.WriteString("[]")
	case TypeWildcard:
		sb.WriteByte('?')
		switch t.Wildcard {
		case WildcardExtends:
			sb.WriteString(" extends ")
			t.Bound.write(sb, qualified)
		case WildcardSuper:
			sb.WriteString(" super ")
			t.Bound.write(sb, qualified)
		}
	}
}

// Subst replaces type variables named in env. Variables not in env are kept.
func Subst(t *Type, env map[string]*Type) *Type {
	if t == nil || len(env) == 0 {
		return t
	}
	switch t.Kind {
	case TypeVariable:
		if r, ok := env[t.Name]; ok && r != nil {
			return r
		}
		return t
	case TypeClass:
		if len(t.Args) == 0 {
			return t
		}
		out := &Type{Kind: TypeClass, Name: t.Name, Args: make([]*Type, len(t.Args))}
		for i, a := range t.Args {
			out.Args[i] = Subst(a, env)
		}
		return out
	case TypeArray:
		return ArrayOf(Subst(t.Elem, env))
	case TypeWildcard:
		if t.Bound == nil {
			return t
		}
		return WildcardType(t.Wildcard, Subst(t.Bound, env))
	}
	return t
}

// Mentions reports whether any of the named type variables occur in t.
func Mentions(t *Type, vars map[string]bool) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeVariable:
		return vars[t.Name]
	case TypeClass:
		for _, a := range t.Args {
			if Mentions(a, vars) {
				return true
			}
		}
	case TypeArray:
		return Mentions(t.Elem, vars)
	case TypeWildcard:
		return Mentions(t.Bound, vars)
	}
	return false
}

var boxes = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
}

// Box returns the wrapper class of a primitive type, or t itself.
func Box(t *Type) *Type {
	if t.IsPrimitive() {
		return ClassType(boxes[t.Name])
	}
	return t
}

// Unbox returns the primitive type of a wrapper class, or nil.
func Unbox(t *Type) *Type {
	if !t.IsClass() {
		return nil
	}
	for prim, box := range boxes {
		if box == t.Name {
			return Primitive(prim)
		}
	}
	return nil
}

var numericRank = map[string]int{
	"byte": 1, "short": 2, "char": 2, "int": 3, "long": 4, "float": 5, "double": 6,
}

// PrimitiveWidens reports whether from converts to to by identity or a
// widening primitive conversion.
func PrimitiveWidens(from, to *Type) bool {
	if !from.IsPrimitive() || !to.IsPrimitive() {
		return false
	}
	if from.Name == to.Name {
		return true
	}
	if from.Name == "boolean" || to.Name == "boolean" {
		return false
	}
	if to.Name == "char" {
		return false
	}
	if from.Name == "char" {
		return numericRank[to.Name] >= numericRank["int"]
	}
	return numericRank[from.Name] < numericRank[to.Name]
}

// BinaryPromotion returns the result type of a numeric binary operator.
func BinaryPromotion(a, b *Type) *Type {
	if u := Unbox(a); u != nil {
		a = u
	}
	if u := Unbox(b); u != nil {
		b = u
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return Unknown
	}
	for _, name := range []string{"double", "float", "long"} {
		if a.Name == name || b.Name == name {
			return Primitive(name)
		}
	}
	return Int
}
