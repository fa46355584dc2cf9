package java

// ClassFinder looks up class models by binary name. Implementations must be
// safe for concurrent use.
type ClassFinder interface {
	FindClass(name string) *ClassModel
}

// Env returns the substitution that binds the type parameters of c to the
// type arguments of t. A raw t binds every parameter to its erased bound.
func Env(c *ClassModel, t *Type) map[string]*Type {
	if c == nil || len(c.TypeParameters) == 0 {
		return nil
	}
	env := make(map[string]*Type, len(c.TypeParameters))
	for i, tp := range c.TypeParameters {
		if t != nil && i < len(t.Args) && len(t.Args) == len(c.TypeParameters) {
			env[tp.Name] = t.Args[i]
			continue
		}
		env[tp.Name] = tp.Var().Erasure()
	}
	return env
}

// Supertypes returns the direct supertypes of t with its type arguments
// substituted. Interfaces list java.lang.Object last.
func Supertypes(f ClassFinder, t *Type) []*Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case TypeVariable:
		if t.Bound != nil {
			return []*Type{t.Bound}
		}
		return []*Type{Object}
	case TypeWildcard:
		return []*Type{t.Upper()}
	case TypeArray:
		return []*Type{Object, ClassType("java.lang.Cloneable"), ClassType("java.io.Serializable")}
	case TypeClass:
	default:
		return nil
	}
	if t.Name == Object.Name {
		return nil
	}
	c := f.FindClass(t.Name)
	if c == nil {
		return nil
	}
	env := Env(c, t)
	var out []*Type
	if c.SuperClass != nil {
		out = append(out, Subst(c.SuperClass, env))
	}
	for _, iface := range c.Interfaces {
		out = append(out, Subst(iface, env))
	}
	if c.SuperClass == nil {
		out = append(out, Object)
	}
	return out
}

// Hierarchy returns t followed by all of its supertypes: first the
// superclass chain, then superinterfaces breadth-first, then
// java.lang.Object. Each class appears once, parameterized as reached first.
func Hierarchy(f ClassFinder, t *Type) []*Type {
	if t == nil || t.IsUnknown() {
		return nil
	}
	start := t
	switch t.Kind {
	case TypeVariable, TypeWildcard:
		start = t.Upper()
	case TypeArray:
		return []*Type{t, ClassType("java.lang.Cloneable"), ClassType("java.io.Serializable"), Object}
	case TypeClass:
	default:
		return nil
	}
	if !start.IsClass() {
		return nil
	}

	seen := map[string]bool{Object.Name: true}
	var chain []*Type
	for cur := start; cur != nil && !seen[cur.Name]; {
		seen[cur.Name] = true
		chain = append(chain, cur)
		var next *Type
		for _, s := range Supertypes(f, cur) {
			if c := f.FindClass(s.Name); s.IsClass() && c != nil && !c.IsInterface() {
				next = s
				break
			}
		}
		cur = next
	}

	out := append([]*Type(nil), chain...)
	queue := append([]*Type(nil), chain...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, s := range Supertypes(f, cur) {
			if !s.IsClass() || seen[s.Name] {
				continue
			}
			seen[s.Name] = true
			out = append(out, s)
			queue = append(queue, s)
		}
	}
	if start.Name != Object.Name {
		out = append(out, Object)
	} else if len(out) == 0 {
		out = append(out, Object)
	}
	return out
}

// AsSuper finds the parameterization of the class named name among the
// supertypes of t, or nil.
func AsSuper(f ClassFinder, t *Type, name string) *Type {
	for _, s := range Hierarchy(f, t) {
		if s.Is(name) {
			return s
		}
	}
	return nil
}

// IsSubclass reports whether the class sub is name or inherits from it.
func IsSubclass(f ClassFinder, sub, name string) bool {
	return AsSuper(f, ClassType(sub), name) != nil
}

// IsSubtype reports whether s is a subtype of t. Type arguments are compared
// leniently: raw types and unresolved type variables match anything.
func IsSubtype(f ClassFinder, s, t *Type) bool {
	if s.IsUnknown() || t.IsUnknown() {
		return false
	}
	if s.Equal(t) {
		return true
	}
	if s.Kind == TypeNull {
		return t.IsReference()
	}
	if s.IsPrimitive() || t.IsPrimitive() || s.IsVoid() || t.IsVoid() {
		return false
	}
	if t.Is(Object.Name) {
		return true
	}
	switch t.Kind {
	case TypeArray:
		if !s.IsArray() {
			return false
		}
		if s.Elem.IsPrimitive() || t.Elem.IsPrimitive() {
			return s.Elem.Equal(t.Elem)
		}
		return IsSubtype(f, s.Elem, t.Elem)
	case TypeVariable:
		return s.Kind == TypeVariable && s.Name == t.Name
	case TypeWildcard:
		return IsSubtype(f, s, t.Upper())
	}
	if s.Kind == TypeWildcard || s.Kind == TypeVariable {
		return IsSubtype(f, s.Upper(), t)
	}
	sup := AsSuper(f, s, t.Name)
	if sup == nil {
		return false
	}
	if len(t.Args) == 0 || len(sup.Args) != len(t.Args) || isRaw(f, s) {
		return true
	}
	for i := range t.Args {
		if !contains(f, t.Args[i], sup.Args[i]) {
			return false
		}
	}
	return true
}

// isRaw reports whether t is a generic class used without arguments.
func isRaw(f ClassFinder, t *Type) bool {
	if !t.IsClass() || len(t.Args) > 0 {
		return false
	}
	c := f.FindClass(t.Name)
	return c != nil && len(c.TypeParameters) > 0
}

// contains reports whether type argument a contains b.
func contains(f ClassFinder, a, b *Type) bool {
	if a == nil || b == nil {
		return true
	}
	if a.Kind == TypeVariable || b.Kind == TypeVariable {
		return true
	}
	if a.Kind == TypeWildcard {
		switch a.Wildcard {
		case WildcardExtends:
			return IsSubtype(f, b.Upper(), a.Bound)
		case WildcardSuper:
			if b.Kind == TypeWildcard {
				return b.Wildcard == WildcardSuper && IsSubtype(f, a.Bound, b.Bound)
			}
			return IsSubtype(f, a.Bound, b)
		}
		return true
	}
	return a.Erasure().Equal(b.Erasure()) && (len(a.Args) == 0 || len(b.Args) == 0 || a.Equal(b) || IsSubtype(f, b, a) && IsSubtype(f, a, b))
}

// IsAssignable reports whether a value of type from can be assigned to a
// variable of type to, allowing widening and boxing conversions.
func IsAssignable(f ClassFinder, from, to *Type) bool {
	if from.IsUnknown() || to.IsUnknown() || from.IsVoid() || to.IsVoid() {
		return false
	}
	if from.IsPrimitive() && to.IsPrimitive() {
		return PrimitiveWidens(from, to)
	}
	if from.IsPrimitive() {
		return IsSubtype(f, Box(from), to)
	}
	if to.IsPrimitive() {
		u := Unbox(from)
		return u != nil && PrimitiveWidens(u, to)
	}
	return IsSubtype(f, from, to)
}

// Method is a method as seen through a parameterized receiver type.
type Method struct {
	*MethodModel
	Owner *ClassModel
	// OwnerType is the parameterization of Owner reached from the receiver.
	OwnerType *Type
	Params    []*Type
	Return    *Type
	// Depth is the position of Owner in the receiver's hierarchy, 0 for the
	// receiver itself.
	Depth int
}

// Field is a field as seen through a parameterized receiver type.
type Field struct {
	*FieldModel
	Owner     *ClassModel
	OwnerType *Type
	Type      *Type
	Depth     int
}

// Signature returns the method's signature after substitution.
func (m *Method) Signature() string {
	ret := m.Return
	if m.IsConstructor() {
		ret = Void
	}
	return MethodSignature(m.Params, ret)
}

// Key identifies override-equivalent methods.
func (m *Method) Key() string {
	key := m.Name + "("
	for i, p := range m.Params {
		if i > 0 {
			key += ","
		}
		key += p.Erasure().String()
	}
	return key + ")"
}

func bindMethod(c *ClassModel, ct *Type, m *MethodModel, depth int) *Method {
	env := Env(c, ct)
	if len(env) > 0 && len(m.TypeParameters) > 0 {
		// Method type parameters shadow class type parameters.
		shadowed := make(map[string]*Type, len(env))
		for k, v := range env {
			shadowed[k] = v
		}
		for _, tp := range m.TypeParameters {
			delete(shadowed, tp.Name)
		}
		env = shadowed
	}
	bm := &Method{MethodModel: m, Owner: c, OwnerType: ct, Depth: depth}
	bm.Params = make([]*Type, len(m.Parameters))
	for i, p := range m.Parameters {
		bm.Params[i] = Subst(p.Type, env)
	}
	bm.Return = Subst(m.ReturnType, env)
	if bm.Return == nil {
		bm.Return = Void
	}
	return bm
}

// MethodsOf returns the methods that are members of t, own and inherited.
// Overridden methods and private or static interface methods of supertypes
// are left out, so each method appears once with its most specific
// declaration. Constructors are not members.
func MethodsOf(f ClassFinder, t *Type) []*Method {
	var out []*Method
	seen := make(map[string]bool)
	for depth, st := range Hierarchy(f, t) {
		c := f.FindClass(st.Name)
		if c == nil {
			continue
		}
		for i := range c.Methods {
			m := &c.Methods[i]
			if m.IsConstructor() || m.IsSynthetic {
				continue
			}
			if depth > 0 && (m.Visibility == VisibilityPrivate || m.IsStatic && c.IsInterface()) {
				continue
			}
			bm := bindMethod(c, st, m, depth)
			key := bm.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, bm)
		}
	}
	if t.IsArray() {
		out = append([]*Method{{
			MethodModel: &MethodModel{Name: "clone", Visibility: VisibilityPublic, Offset: -1},
			OwnerType:   t,
			Return:      t,
		}}, out...)
	}
	return out
}

// ConstructorsOf returns the constructors of class type t.
func ConstructorsOf(f ClassFinder, t *Type) []*Method {
	if !t.IsClass() {
		return nil
	}
	c := f.FindClass(t.Name)
	if c == nil {
		return nil
	}
	var out []*Method
	for _, m := range c.Constructors() {
		out = append(out, bindMethod(c, t, m, 0))
	}
	if len(out) == 0 && !c.IsInterface() {
		def := &MethodModel{Name: "<init>", Visibility: c.Visibility, ReturnType: Void, Offset: -1}
		out = append(out, bindMethod(c, t, def, 0))
	}
	return out
}

// FieldsOf returns the fields that are members of t, own and inherited,
// dropping hidden fields.
func FieldsOf(f ClassFinder, t *Type) []*Field {
	if t.IsArray() {
		return []*Field{{
			FieldModel: &FieldModel{Name: "length", Type: Int, Visibility: VisibilityPublic, IsFinal: true, Offset: -1},
			OwnerType:  t,
			Type:       Int,
		}}
	}
	var out []*Field
	seen := make(map[string]bool)
	for depth, st := range Hierarchy(f, t) {
		c := f.FindClass(st.Name)
		if c == nil {
			continue
		}
		env := Env(c, st)
		for i := range c.Fields {
			fm := &c.Fields[i]
			if seen[fm.Name] || depth > 0 && fm.Visibility == VisibilityPrivate {
				continue
			}
			seen[fm.Name] = true
			out = append(out, &Field{FieldModel: fm, Owner: c, OwnerType: st, Type: Subst(fm.Type, env), Depth: depth})
		}
	}
	return out
}

// MemberTypesOf returns the member classes of t and its supertypes, the
// innermost declaration winning for each simple name.
func MemberTypesOf(f ClassFinder, t *Type) []*ClassModel {
	var out []*ClassModel
	seen := make(map[string]bool)
	for depth, st := range Hierarchy(f, t) {
		c := f.FindClass(st.Name)
		if c == nil {
			continue
		}
		for _, name := range c.MemberTypes {
			mc := f.FindClass(name)
			if mc == nil || seen[mc.SimpleName] || depth > 0 && mc.Visibility == VisibilityPrivate {
				continue
			}
			seen[mc.SimpleName] = true
			out = append(out, mc)
		}
	}
	return out
}

func isObjectMethod(m *Method) bool {
	switch m.Name {
	case "equals":
		return len(m.Params) == 1 && m.Params[0].Erasure().Is(Object.Name)
	case "hashCode", "toString":
		return len(m.Params) == 0
	}
	return false
}

// FunctionalMethod returns the single abstract method of the functional
// interface t, with wildcard arguments replaced by their bounds. It returns
// nil when t is not a functional interface.
func FunctionalMethod(f ClassFinder, t *Type) *Method {
	if !t.IsClass() {
		return nil
	}
	c := f.FindClass(t.Name)
	if c == nil || !c.IsInterface() || c.Kind == ClassKindAnnotation {
		return nil
	}
	var found *Method
	for _, m := range MethodsOf(f, t.Ground()) {
		if !m.IsAbstract || m.IsStatic || m.IsDefault || isObjectMethod(m) || m.Owner.Name == Object.Name {
			continue
		}
		if found != nil {
			return nil
		}
		found = m
	}
	return found
}

// Infer binds the type variables in vars by matching the formal type
// against the actual type. The first binding found for a variable is kept.
func Infer(f ClassFinder, formal, actual *Type, vars map[string]bool, env map[string]*Type) {
	if formal == nil || actual.IsUnknown() {
		return
	}
	switch formal.Kind {
	case TypeVariable:
		if !vars[formal.Name] || actual.Kind == TypeNull || actual.IsVoid() {
			return
		}
		if actual.Kind == TypeWildcard {
			actual = actual.Upper()
		}
		if cur, ok := env[formal.Name]; ok && !cur.IsUnknown() {
			return
		}
		env[formal.Name] = Box(actual)
	case TypeWildcard:
		if formal.Bound != nil {
			Infer(f, formal.Bound, actual, vars, env)
		}
	case TypeArray:
		if actual.IsArray() {
			Infer(f, formal.Elem, actual.Elem, vars, env)
		}
	case TypeClass:
		if len(formal.Args) == 0 {
			return
		}
		a := Box(actual.Upper())
		sup := AsSuper(f, a, formal.Name)
		if sup == nil || len(sup.Args) != len(formal.Args) {
			return
		}
		for i, fa := range formal.Args {
			aa := sup.Args[i]
			if aa.Kind == TypeWildcard && aa.Bound != nil {
				aa = aa.Bound
			}
			Infer(f, fa, aa, vars, env)
		}
	}
}
