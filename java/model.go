package java

import "strconv"

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
)

// ClassModel describes a class-like type as seen by the completion engine.
// Models come from class files, from source or from the built-in core
// library and are immutable once published to a ClassFinder.
type ClassModel struct {
	// Name is the binary name, e.g. java.util.Map$Entry.
	Name       string
	SimpleName string
	Package    string
	// Outer is the binary name of the enclosing class of a member type.
	Outer string

	Kind         ClassKind
	Visibility   Visibility
	IsFinal      bool
	IsAbstract   bool
	IsStatic     bool
	IsSealed     bool
	IsDeprecated bool
	// IsLocal marks local and anonymous classes, which have no usable name
	// outside their declaring block.
	IsLocal bool

	TypeParameters []TypeParameterModel
	// SuperClass is nil for java.lang.Object and interfaces.
	SuperClass  *Type
	Interfaces  []*Type
	Fields      []FieldModel
	Methods     []MethodModel
	MemberTypes []string

	// Doc is the cleaned text of the declaration's Javadoc comment.
	Doc string
	// SourceFile is the path of the declaring file when known.
	SourceFile string
	// Offset is the byte offset of the declaration name in SourceFile, or -1.
	Offset int
}

type TypeParameterModel struct {
	Name   string
	Bounds []*Type
}

type FieldModel struct {
	Name           string
	Type           *Type
	Visibility     Visibility
	IsStatic       bool
	IsFinal        bool
	IsEnumConstant bool
	IsDeprecated   bool
	Doc            string
	Offset         int
}

type MethodModel struct {
	// Name is "<init>" for constructors.
	Name           string
	TypeParameters []TypeParameterModel
	Parameters     []ParameterModel
	ReturnType     *Type
	Exceptions     []*Type
	Visibility     Visibility
	IsStatic       bool
	IsFinal        bool
	IsAbstract     bool
	IsDefault      bool
	IsVarargs      bool
	IsDeprecated   bool
	IsSynthetic    bool
	Doc            string
	Offset         int
}

type ParameterModel struct {
	Name string
	Type *Type
}

func (c *ClassModel) IsInterface() bool {
	return c.Kind == ClassKindInterface || c.Kind == ClassKindAnnotation
}

func (c *ClassModel) IsEnum() bool { return c.Kind == ClassKindEnum }

// IsTopLevel reports whether c is not nested in another class.
func (c *ClassModel) IsTopLevel() bool { return c.Outer == "" }

// Type returns the generic self type of c: the class applied to its own
// type variables.
func (c *ClassModel) Type() *Type {
	t := ClassType(c.Name)
	for _, tp := range c.TypeParameters {
		t.Args = append(t.Args, tp.Var())
	}
	return t
}

// RawType returns c without type arguments.
func (c *ClassModel) RawType() *Type {
	return ClassType(c.Name)
}

// SourceName returns the dotted name used to refer to c in source.
func (c *ClassModel) SourceName() string {
	return SourceName(c.Name)
}

// QualifiedDisplayName returns the name of c relative to its package, e.g.
// Map.Entry.
func (c *ClassModel) QualifiedDisplayName() string {
	name := c.Name
	if c.Package != "" {
		name = name[len(c.Package)+1:]
	}
	return SourceName(name)
}

func (c *ClassModel) Field(name string) *FieldModel {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

func (c *ClassModel) MethodsNamed(name string) []*MethodModel {
	var out []*MethodModel
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			out = append(out, &c.Methods[i])
		}
	}
	return out
}

func (c *ClassModel) Constructors() []*MethodModel {
	return c.MethodsNamed("<init>")
}

// EnumConstants returns the enum constants of c in declaration order.
func (c *ClassModel) EnumConstants() []*FieldModel {
	var out []*FieldModel
	for i := range c.Fields {
		if c.Fields[i].IsEnumConstant {
			out = append(out, &c.Fields[i])
		}
	}
	return out
}

// Var returns the type variable declared by tp.
func (tp TypeParameterModel) Var() *Type {
	var bound *Type
	if len(tp.Bounds) > 0 {
		bound = tp.Bounds[0]
	}
	return TypeVar(tp.Name, bound)
}

func (m *MethodModel) IsConstructor() bool { return m.Name == "<init>" }

// ParameterTypes returns the declared parameter types.
func (m *MethodModel) ParameterTypes() []*Type {
	out := make([]*Type, len(m.Parameters))
	for i, p := range m.Parameters {
		out[i] = p.Type
	}
	return out
}

// ParameterNames returns the parameter names, synthesizing argN for
// parameters whose names are unknown.
func (m *MethodModel) ParameterNames() []string {
	out := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		if p.Name == "" {
			out[i] = "arg" + strconv.Itoa(i)
		} else {
			out[i] = p.Name
		}
	}
	return out
}
