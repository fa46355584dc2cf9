package java

import (
	"strings"
	"testing"
)

func typeNames(types []*Type) string {
	var names []string
	for _, t := range types {
		names = append(names, t.String())
	}
	return strings.Join(names, " ")
}

func TestHierarchyOrder(t *testing.T) {
	f := coreFinder(t)
	got := typeNames(Hierarchy(f, ClassType("java.util.ArrayList", String)))
	want := "java.util.ArrayList<java.lang.String> java.util.AbstractList<java.lang.String> " +
		"java.util.List<java.lang.String> java.util.Collection<java.lang.String> " +
		"java.lang.Iterable<java.lang.String> java.lang.Object"
	if got != want {
		t.Errorf("Hierarchy =\n  %s\nwant\n  %s", got, want)
	}
}

func TestHierarchyOfInterfaceEndsWithObject(t *testing.T) {
	f := coreFinder(t)
	h := Hierarchy(f, ClassType("java.util.List", String))
	if last := h[len(h)-1]; !last.Is(Object.Name) {
		t.Errorf("last supertype = %s, want java.lang.Object", last)
	}
}

func TestIsSubtype(t *testing.T) {
	f := coreFinder(t)
	tests := []struct {
		s, t *Type
		want bool
	}{
		{ClassType("java.util.ArrayList", String), ClassType("java.util.List", String), true},
		{ClassType("java.util.ArrayList", String), ClassType("java.util.List", ClassType("java.lang.Integer")), false},
		{ClassType("java.util.ArrayList"), ClassType("java.util.List", String), true},
		{ClassType("java.util.ArrayList", String), ClassType("java.util.Collection", WildcardType(WildcardExtends, ClassType("java.lang.CharSequence"))), true},
		{String, ClassType("java.lang.Comparable", String), true},
		{ClassType("java.lang.Integer"), ClassType("java.lang.Number"), true},
		{ClassType("java.lang.Number"), ClassType("java.lang.Integer"), false},
		{Null, String, true},
		{Int, Object, false},
		{ArrayOf(String), ArrayOf(Object), true},
		{ArrayOf(Int), ArrayOf(Long), false},
		{Unknown, Object, false},
	}
	for _, tt := range tests {
		if got := IsSubtype(f, tt.s, tt.t); got != tt.want {
			t.Errorf("IsSubtype(%s, %s) = %v, want %v", tt.s, tt.t, got, tt.want)
		}
	}
}

func TestIsAssignable(t *testing.T) {
	f := coreFinder(t)
	tests := []struct {
		from, to *Type
		want     bool
	}{
		{Int, Long, true},
		{Long, Int, false},
		{Char, Int, true},
		{Int, ClassType("java.lang.Integer"), true},
		{Int, ClassType("java.lang.Number"), true},
		{ClassType("java.lang.Integer"), Long, true},
		{Boolean, Int, false},
		{Void, Object, false},
	}
	for _, tt := range tests {
		if got := IsAssignable(f, tt.from, tt.to); got != tt.want {
			t.Errorf("IsAssignable(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestMethodsOfSubstitutesAndDeduplicates(t *testing.T) {
	f := coreFinder(t)
	methods := MethodsOf(f, ClassType("java.util.ArrayList", String))

	counts := map[string]int{}
	byKey := map[string]*Method{}
	for _, m := range methods {
		counts[m.Key()]++
		byKey[m.Key()] = m
	}
	for key, n := range counts {
		if n > 1 {
			t.Errorf("%s appears %d times", key, n)
		}
	}

	get := byKey["get(int)"]
	if get == nil {
		t.Fatal("get(int) missing")
	}
	if get.Owner.Name != "java.util.ArrayList" || !get.Return.Equal(String) {
		t.Errorf("get(int) = %s returning %s, want ArrayList's returning String", get.Owner.Name, get.Return)
	}
	if add := byKey["add(java.lang.String)"]; add == nil || add.Owner.Name != "java.util.AbstractList" {
		t.Errorf("add should come from AbstractList, got %+v", add)
	} else if !add.Params[0].Equal(String) {
		t.Errorf("add param = %s, want String", add.Params[0])
	}
	if byKey["check()"] != nil {
		t.Error("private supertype method check() leaked")
	}
	if byKey["grow()"] == nil {
		t.Error("own private method grow() missing")
	}
	if byKey["of(java.lang.Object[])"] != nil {
		t.Error("static interface method List.of leaked into ArrayList")
	}
	if byKey["hashCode()"] == nil {
		t.Error("Object methods missing")
	}
}

func TestMethodsOfArray(t *testing.T) {
	f := coreFinder(t)
	arr := ArrayOf(String)
	methods := MethodsOf(f, arr)
	if len(methods) == 0 || methods[0].Name != "clone" || !methods[0].Return.Equal(arr) {
		t.Fatalf("first array method should be clone returning %s", arr)
	}
	fields := FieldsOf(f, arr)
	if len(fields) != 1 || fields[0].Name != "length" || !fields[0].Type.Equal(Int) {
		t.Errorf("array fields = %+v", fields)
	}
}

func TestConstructorsOf(t *testing.T) {
	f := coreFinder(t, `package p; public class Plain {}`)
	if got := ConstructorsOf(f, ClassType("java.util.ArrayList", String)); len(got) != 2 {
		t.Errorf("ArrayList constructors = %d, want 2", len(got))
	}
	plain := ConstructorsOf(f, ClassType("p.Plain"))
	if len(plain) != 1 || len(plain[0].Params) != 0 {
		t.Errorf("Plain should have a default constructor, got %+v", plain)
	}
	if got := ConstructorsOf(f, ClassType("java.lang.Runnable")); len(got) != 0 {
		t.Errorf("interfaces have no constructors, got %d", len(got))
	}
}

func TestFieldsOfInherited(t *testing.T) {
	f := coreFinder(t)
	fields := FieldsOf(f, ClassType("java.util.ArrayList"))
	if len(fields) != 1 || fields[0].Name != "modCount" || fields[0].Depth != 1 {
		t.Errorf("fields = %+v", fields)
	}
}

func TestFunctionalMethod(t *testing.T) {
	f := coreFinder(t)
	tests := []struct {
		typ    *Type
		name   string
		params string
		ret    string
	}{
		{ClassType("java.lang.Runnable"), "run", "", "void"},
		{ClassType("java.util.function.Function", String, ClassType("java.lang.Integer")), "apply", "java.lang.String", "java.lang.Integer"},
		{ClassType("java.util.function.Function", WildcardType(WildcardSuper, String), WildcardType(WildcardExtends, ClassType("java.lang.Number"))), "apply", "java.lang.String", "java.lang.Number"},
		{ClassType("java.lang.Comparable", String), "compareTo", "java.lang.String", "int"},
	}
	for _, tt := range tests {
		m := FunctionalMethod(f, tt.typ)
		if m == nil {
			t.Errorf("FunctionalMethod(%s) = nil", tt.typ)
			continue
		}
		if m.Name != tt.name || typeNames(m.Params) != tt.params || m.Return.String() != tt.ret {
			t.Errorf("FunctionalMethod(%s) = %s(%s) %s", tt.typ, m.Name, typeNames(m.Params), m.Return)
		}
	}
	for _, typ := range []*Type{ClassType("java.util.List", String), String, ClassType("java.util.Collection")} {
		if m := FunctionalMethod(f, typ); m != nil {
			t.Errorf("FunctionalMethod(%s) = %s, want nil", typ, m.Name)
		}
	}
}

func TestInfer(t *testing.T) {
	f := coreFinder(t)
	vars := map[string]bool{"T": true}

	env := map[string]*Type{}
	Infer(f, ClassType("java.util.List", TypeVar("T", nil)), ClassType("java.util.ArrayList", String), vars, env)
	if !env["T"].Equal(String) {
		t.Errorf("T = %v, want String", env["T"])
	}

	env = map[string]*Type{}
	Infer(f, ArrayOf(TypeVar("T", nil)), ArrayOf(Int), vars, env)
	if !env["T"].Is("java.lang.Integer") {
		t.Errorf("T from int[] = %v, want Integer", env["T"])
	}

	env = map[string]*Type{"T": Object}
	Infer(f, TypeVar("T", nil), String, vars, env)
	if !env["T"].Equal(Object) {
		t.Errorf("first binding should win, got %v", env["T"])
	}
}

func TestMemberTypesOf(t *testing.T) {
	f := coreFinder(t)
	members := MemberTypesOf(f, ClassType("java.util.Map"))
	if len(members) != 1 || members[0].Name != "java.util.Map$Entry" {
		t.Errorf("member types = %+v", members)
	}
}
