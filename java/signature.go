package java

import (
	"fmt"
	"strings"
)

var primitiveCodes = map[string]byte{
	"boolean": 'Z', "byte": 'B', "char": 'C', "short": 'S',
	"int": 'I', "long": 'J', "float": 'F', "double": 'D', "void": 'V',
}

var codePrimitives = map[byte]string{
	'Z': "boolean", 'B': "byte", 'C': "char", 'S': "short",
	'I': "int", 'J': "long", 'F': "float", 'D': "double",
}

// Signature renders t in the dotted signature form used by completion
// proposals, e.g. Ljava.util.List<Ljava.lang.String;>;. Unknown types render
// as the empty string.
func (t *Type) Signature() string {
	var sb strings.Builder
	t.writeSignature(&sb)
	return sb.String()
}

func (t *Type) writeSignature(sb *strings.Builder) {
	if t == nil {
		return
	}
	switch t.Kind {
	case TypePrimitive, TypeVoid:
		sb.WriteByte(primitiveCodes[t.Name])
	case TypeClass:
		sb.WriteByte('L')
		sb.WriteString(t.Name)
		if len(t.Args) > 0 {
			sb.WriteByte('<')
			for _, a := range t.Args {
				a.writeSignature(sb)
			}
			sb.WriteByte('>')
		}
		sb.WriteByte(';')
	case TypeArray:
		sb.WriteByte('[')
		t.Elem.writeSignature(sb)
	case TypeVariable:
		sb.WriteByte('T')
		sb.WriteString(t.Name)
		sb.WriteByte(';')
	case TypeWildcard:
		switch t.Wildcard {
		case WildcardExtends:
			sb.WriteByte('+')
			t.Bound.writeSignature(sb)
		case WildcardSuper:
			sb.WriteByte('-')
			t.Bound.writeSignature(sb)
		default:
			sb.WriteByte('*')
		}
	case TypeNull:
		sb.WriteString("N")
	}
}

// MethodSignature renders "(params)return" in signature form.
func MethodSignature(params []*Type, ret *Type) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range params {
		p.writeSignature(&sb)
	}
	sb.WriteByte(')')
	if ret == nil {
		ret = Void
	}
	ret.writeSignature(&sb)
	return sb.String()
}

// ParsedMethodSignature is a decoded generic method signature.
type ParsedMethodSignature struct {
	TypeParameters []TypeParameterModel
	Params         []*Type
	Return         *Type
	Throws         []*Type
}

// ParsedClassSignature is a decoded generic class signature.
type ParsedClassSignature struct {
	TypeParameters []TypeParameterModel
	SuperClass     *Type
	Interfaces     []*Type
}

type sigReader struct {
	s   string
	pos int
}

func (r *sigReader) peek() byte {
	if r.pos >= len(r.s) {
		return 0
	}
	return r.s[r.pos]
}

func (r *sigReader) next() byte {
	c := r.peek()
	if r.pos < len(r.s) {
		r.pos++
	}
	return c
}

func (r *sigReader) expect(c byte) error {
	if r.next() != c {
		return fmt.Errorf("signature %q: expected %q at %d", r.s, c, r.pos-1)
	}
	return nil
}

// ParseSignature parses a field type signature in either JVM form
// (Ljava/util/List<TE;>;) or dotted form (Ljava.util.List<TE;>;).
func ParseSignature(sig string) (*Type, error) {
	r := &sigReader{s: sig}
	t, err := r.readType()
	if err != nil {
		return nil, err
	}
	if r.pos != len(sig) {
		return nil, fmt.Errorf("signature %q: trailing input at %d", sig, r.pos)
	}
	return t, nil
}

// ParseMethodSignature parses a method descriptor or generic method
// signature.
func ParseMethodSignature(sig string) (*ParsedMethodSignature, error) {
	r := &sigReader{s: sig}
	out := &ParsedMethodSignature{}
	if r.peek() == '<' {
		tps, err := r.readTypeParameters()
		if err != nil {
			return nil, err
		}
		out.TypeParameters = tps
	}
	if err := r.expect('('); err != nil {
		return nil, err
	}
	for r.peek() != ')' {
		if r.peek() == 0 {
			return nil, fmt.Errorf("signature %q: unterminated parameters", sig)
		}
		t, err := r.readType()
		if err != nil {
			return nil, err
		}
		out.Params = append(out.Params, t)
	}
	r.next()
	ret, err := r.readType()
	if err != nil {
		return nil, err
	}
	out.Return = ret
	for r.peek() == '^' {
		r.next()
		t, err := r.readType()
		if err != nil {
			return nil, err
		}
		out.Throws = append(out.Throws, t)
	}
	return out, nil
}

// ParseClassSignature parses the Signature attribute of a class.
func ParseClassSignature(sig string) (*ParsedClassSignature, error) {
	r := &sigReader{s: sig}
	out := &ParsedClassSignature{}
	if r.peek() == '<' {
		tps, err := r.readTypeParameters()
		if err != nil {
			return nil, err
		}
		out.TypeParameters = tps
	}
	super, err := r.readType()
	if err != nil {
		return nil, err
	}
	out.SuperClass = super
	for r.pos < len(r.s) {
		t, err := r.readType()
		if err != nil {
			return nil, err
		}
		out.Interfaces = append(out.Interfaces, t)
	}
	return out, nil
}

func (r *sigReader) readTypeParameters() ([]TypeParameterModel, error) {
	r.next()
	var out []TypeParameterModel
	for r.peek() != '>' {
		if r.peek() == 0 {
			return nil, fmt.Errorf("signature %q: unterminated type parameters", r.s)
		}
		start := r.pos
		for r.peek() != ':' && r.peek() != 0 {
			r.next()
		}
		tp := TypeParameterModel{Name: r.s[start:r.pos]}
		for r.peek() == ':' {
			r.next()
			if r.peek() == ':' {
				// Empty class bound before an interface bound.
				continue
			}
			t, err := r.readType()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, t)
		}
		out = append(out, tp)
	}
	r.next()
	return out, nil
}

func (r *sigReader) readType() (*Type, error) {
	c := r.next()
	switch c {
	case 'V':
		return Void, nil
	case '[':
		elem, err := r.readType()
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem), nil
	case 'T':
		start := r.pos
		for r.peek() != ';' && r.peek() != 0 {
			r.next()
		}
		name := r.s[start:r.pos]
		if err := r.expect(';'); err != nil {
			return nil, err
		}
		return TypeVar(name, nil), nil
	case 'L':
		return r.readClassType()
	case '*':
		return WildcardType(WildcardUnbounded, nil), nil
	case '+', '-':
		bound, err := r.readType()
		if err != nil {
			return nil, err
		}
		kind := WildcardExtends
		if c == '-' {
			kind = WildcardSuper
		}
		return WildcardType(kind, bound), nil
	}
	if name, ok := codePrimitives[c]; ok {
		return Primitive(name), nil
	}
	return nil, fmt.Errorf("signature %q: unexpected %q at %d", r.s, c, r.pos-1)
}

func (r *sigReader) readClassType() (*Type, error) {
	var name strings.Builder
	var args []*Type
	for {
		c := r.peek()
		switch c {
		case 0:
			return nil, fmt.Errorf("signature %q: unterminated class type", r.s)
		case ';':
			r.next()
			return ClassType(name.String(), args...), nil
		case '<':
			r.next()
			args = nil
			for r.peek() != '>' {
				if r.peek() == 0 {
					return nil, fmt.Errorf("signature %q: unterminated type arguments", r.s)
				}
				a, err := r.readType()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
			}
			r.next()
			// A '.' after type arguments selects an inner class.
			if r.peek() == '.' {
				r.next()
				name.WriteByte('$')
				args = nil
			}
		case '/':
			r.next()
			name.WriteByte('.')
		default:
			r.next()
			name.WriteByte(c)
		}
	}
}
