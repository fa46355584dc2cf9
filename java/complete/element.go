package complete

import (
	"fmt"
	"strings"

	"github.com/dhamidi/sai-complete/java"
	"github.com/dhamidi/sai-complete/java/scope"
)

type ElementKind int

const (
	ElementLocal ElementKind = iota
	ElementParameter
	ElementField
	ElementMethod
	ElementConstructor
	ElementType
	ElementTypeParameter
	ElementPackage
)

var elementKindNames = [...]string{
	ElementLocal:         "LOCAL_VARIABLE",
	ElementParameter:     "PARAMETER",
	ElementField:         "FIELD",
	ElementMethod:        "METHOD",
	ElementConstructor:   "CONSTRUCTOR",
	ElementType:          "TYPE",
	ElementTypeParameter: "TYPE_PARAMETER",
	ElementPackage:       "PACKAGE",
}

func (k ElementKind) String() string {
	if int(k) < len(elementKindNames) {
		return elementKindNames[k]
	}
	return "UNKNOWN"
}

// Element is a declaration a name resolves to.
type Element struct {
	Kind ElementKind `json:"kind"`
	Name string      `json:"name"`
	// Declaring is the binary name of the declaring class of a member, or
	// of the class itself for a type. It is empty for locals and packages.
	Declaring string `json:"declaring,omitempty"`
	// Signature is the type signature of a variable or type, or the method
	// signature of a method.
	Signature      string   `json:"signature,omitempty"`
	ParameterNames []string `json:"parameterNames,omitempty"`
	Static         bool     `json:"static,omitempty"`
	Deprecated     bool     `json:"deprecated,omitempty"`
	Doc            string   `json:"doc,omitempty"`
	// Path and Offset locate the declaration when it comes from source.
	// Offset is -1 when unknown.
	Path   string `json:"path,omitempty"`
	Offset int    `json:"offset"`

	Type *java.Type `json:"-"`
}

// String renders e as name[KIND]{declaringTypeSignature, signature}.
func (e *Element) String() string {
	decl := ""
	if e.Declaring != "" {
		decl = java.ClassType(e.Declaring).Signature()
	}
	s := fmt.Sprintf("%s[%s]{%s, %s", e.Name, e.Kind, orNull(decl), orNull(e.Signature))
	if len(e.ParameterNames) > 0 {
		s += ", (" + strings.Join(e.ParameterNames, ", ") + ")"
	}
	return s + "}"
}

// FormatElements renders elements one per line.
func FormatElements(es []*Element) string {
	lines := make([]string, len(es))
	for i, e := range es {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

func (u *unit) bindingElement(b *scope.Binding, t *java.Type) *Element {
	e := &Element{
		Kind:      ElementLocal,
		Name:      b.Name,
		Signature: t.Signature(),
		Path:      u.rc.Path,
		Offset:    b.Offset,
		Type:      t,
	}
	if b.Kind == scope.BindingParameter {
		e.Kind = ElementParameter
	}
	return e
}

func (u *unit) fieldElement(fd *java.Field) *Element {
	e := &Element{
		Kind:       ElementField,
		Name:       fd.Name,
		Signature:  fd.Type.Signature(),
		Static:     fd.IsStatic,
		Deprecated: fd.IsDeprecated,
		Doc:        fd.Doc,
		Offset:     -1,
		Type:       fd.Type,
	}
	if fd.Owner != nil {
		e.Declaring = fd.Owner.Name
		e.Path, e.Offset = u.sourceOf(fd.Owner, fd.Offset)
	}
	return e
}

func (u *unit) methodElement(m *java.Method) *Element {
	e := &Element{
		Kind:           ElementMethod,
		Name:           m.Name,
		Signature:      m.Signature(),
		ParameterNames: m.ParameterNames(),
		Static:         m.IsStatic,
		Deprecated:     m.IsDeprecated,
		Doc:            m.Doc,
		Offset:         -1,
		Type:           m.Return,
	}
	if m.Owner != nil {
		e.Declaring = m.Owner.Name
		e.Path, e.Offset = u.sourceOf(m.Owner, m.Offset)
		if m.IsConstructor() {
			e.Kind = ElementConstructor
			e.Name = m.Owner.SimpleName
		}
	}
	return e
}

func (u *unit) classElement(c *java.ClassModel) *Element {
	e := &Element{
		Kind:       ElementType,
		Name:       c.SimpleName,
		Declaring:  c.Name,
		Signature:  c.RawType().Signature(),
		Static:     c.IsStatic,
		Deprecated: c.IsDeprecated,
		Doc:        c.Doc,
		Type:       c.RawType(),
	}
	e.Path, e.Offset = u.sourceOf(c, c.Offset)
	return e
}

func (u *unit) typeParameterElement(b *scope.Binding) *Element {
	return &Element{
		Kind:      ElementTypeParameter,
		Name:      b.Name,
		Signature: java.TypeVar(b.Name, nil).Signature(),
		Path:      u.rc.Path,
		Offset:    b.Offset,
	}
}

func packageElement(name string) *Element {
	return &Element{Kind: ElementPackage, Name: name, Offset: -1}
}

// sourceOf locates a declaration of class c. Local and anonymous classes
// of the request belong to the file being edited.
func (u *unit) sourceOf(c *java.ClassModel, offset int) (string, int) {
	switch {
	case c.SourceFile != "":
		return c.SourceFile, offset
	case u.f.has(c.Name):
		return u.rc.Path, offset
	}
	return "", -1
}
