package java

import (
	"testing"

	"github.com/dhamidi/sai-complete/java/parser"
)

func findModel(t *testing.T, f mapFinder, name string) *ClassModel {
	t.Helper()
	c := f.FindClass(name)
	if c == nil {
		t.Fatalf("class %s not modeled", name)
	}
	return c
}

func TestClassModelsHeader(t *testing.T) {
	f := coreFinder(t, `package com.example;

import java.util.*;

/** A box of things. */
public abstract class Box<T extends Comparable<T>> extends AbstractList<T> implements Runnable {
    public static class Inner {}
    interface Callback { void done(); }
}`)
	box := findModel(t, f, "com.example.Box")

	if box.Kind != ClassKindClass || !box.IsAbstract || box.Visibility != VisibilityPublic {
		t.Errorf("unexpected flags: %+v", box)
	}
	if box.Doc != "A box of things." {
		t.Errorf("Doc = %q", box.Doc)
	}
	if len(box.TypeParameters) != 1 || box.TypeParameters[0].Name != "T" {
		t.Fatalf("type parameters = %+v", box.TypeParameters)
	}
	if got := box.TypeParameters[0].Bounds[0].String(); got != "java.lang.Comparable<T>" {
		t.Errorf("bound = %s", got)
	}
	if got := box.SuperClass.String(); got != "java.util.AbstractList<T>" {
		t.Errorf("super = %s", got)
	}
	if len(box.Interfaces) != 1 || !box.Interfaces[0].Is("java.lang.Runnable") {
		t.Errorf("interfaces = %v", box.Interfaces)
	}
	if len(box.MemberTypes) != 2 || box.MemberTypes[0] != "com.example.Box$Inner" {
		t.Errorf("member types = %v", box.MemberTypes)
	}

	inner := findModel(t, f, "com.example.Box$Inner")
	if inner.Outer != "com.example.Box" || !inner.IsStatic || inner.SimpleName != "Inner" {
		t.Errorf("inner = %+v", inner)
	}
	cb := findModel(t, f, "com.example.Box$Callback")
	if !cb.IsInterface() || !cb.IsStatic || cb.SuperClass != nil {
		t.Errorf("callback = %+v", cb)
	}
	if m := cb.MethodsNamed("done"); len(m) != 1 || !m[0].IsAbstract || m[0].Visibility != VisibilityPublic {
		t.Errorf("interface method modifiers = %+v", m)
	}
}

func TestClassModelsMembers(t *testing.T) {
	f := coreFinder(t, `package p;

import java.util.List;

class Members {
    private int count, values[];
    protected List<String> names;
    @Deprecated static final String LABEL = "x";

    Members(int count) throws java.io.IOException {}

    public <R> R map(java.util.function.Function<? super String, R> fn, String... rest) { return null; }

    void raw(int a[]) {}
}`)
	c := findModel(t, f, "p.Members")

	if fld := c.Field("values"); fld == nil || !fld.Type.Equal(ArrayOf(Int)) || fld.Visibility != VisibilityPrivate {
		t.Errorf("values = %+v", fld)
	}
	if fld := c.Field("names"); fld == nil || fld.Type.String() != "java.util.List<java.lang.String>" {
		t.Errorf("names = %+v", fld)
	}
	if fld := c.Field("LABEL"); fld == nil || !fld.IsStatic || !fld.IsFinal || !fld.IsDeprecated {
		t.Errorf("LABEL = %+v", fld)
	}

	ctors := c.Constructors()
	if len(ctors) != 1 || ctors[0].Parameters[0].Name != "count" || ctors[0].Visibility != VisibilityPackage {
		t.Fatalf("constructors = %+v", ctors)
	}
	if len(ctors[0].Exceptions) != 0 {
		// java.io.IOException is not in the test class path.
		t.Errorf("unresolved exceptions should be dropped, got %v", ctors[0].Exceptions)
	}

	m := c.MethodsNamed("map")
	if len(m) != 1 {
		t.Fatalf("map methods = %d", len(m))
	}
	if !m[0].IsVarargs || len(m[0].TypeParameters) != 1 {
		t.Errorf("map = %+v", m[0])
	}
	if got := MethodSignature(m[0].ParameterTypes(), m[0].ReturnType); got != "(Ljava.util.function.Function<-Ljava.lang.String;TR;>;[Ljava.lang.String;)TR;" {
		t.Errorf("map signature = %s", got)
	}
	if got := c.MethodsNamed("raw")[0].Parameters[0].Type; !got.Equal(ArrayOf(Int)) {
		t.Errorf("raw param = %s", got)
	}
}

func TestClassModelsEnum(t *testing.T) {
	f := coreFinder(t, `package p;
public enum Color {
    RED, GREEN("g"), @Deprecated BLUE;
    Color() {}
    Color(String code) {}
    public String code() { return null; }
}`)
	c := findModel(t, f, "p.Color")
	if c.Kind != ClassKindEnum || !c.IsFinal {
		t.Errorf("kind = %s final = %v", c.Kind, c.IsFinal)
	}
	if got := c.SuperClass.String(); got != "java.lang.Enum<p.Color>" {
		t.Errorf("super = %s", got)
	}
	consts := c.EnumConstants()
	if len(consts) != 3 || consts[0].Name != "RED" || !consts[2].IsDeprecated {
		t.Errorf("constants = %+v", consts)
	}
	if v := c.MethodsNamed("values"); len(v) != 1 || !v[0].IsStatic || !v[0].ReturnType.Equal(ArrayOf(ClassType("p.Color"))) {
		t.Errorf("values = %+v", v)
	}
	if v := c.MethodsNamed("valueOf"); len(v) != 1 || !v[0].Parameters[0].Type.Equal(String) {
		t.Errorf("valueOf = %+v", v)
	}
	for _, ctor := range c.Constructors() {
		if ctor.Visibility != VisibilityPrivate {
			t.Errorf("enum constructors are private, got %s", ctor.Visibility)
		}
	}
	// Inherited from Enum.
	if names := methodNames(MethodsOf(f, c.RawType())); !names["ordinal"] || !names["code"] {
		t.Errorf("methods = %v", names)
	}
}

func methodNames(methods []*Method) map[string]bool {
	out := map[string]bool{}
	for _, m := range methods {
		out[m.Name] = true
	}
	return out
}

func TestClassModelsRecord(t *testing.T) {
	f := coreFinder(t, `package p;
public record Point(int x, int y) implements Runnable {
    public int x() { return x; }
    public void run() {}
}`)
	c := findModel(t, f, "p.Point")
	if c.Kind != ClassKindRecord || !c.SuperClass.Is("java.lang.Record") {
		t.Errorf("kind = %s super = %s", c.Kind, c.SuperClass)
	}
	if fld := c.Field("y"); fld == nil || fld.Visibility != VisibilityPrivate || !fld.IsFinal {
		t.Errorf("y = %+v", fld)
	}
	if len(c.MethodsNamed("x")) != 1 || len(c.MethodsNamed("y")) != 1 {
		t.Errorf("accessors: x=%d y=%d", len(c.MethodsNamed("x")), len(c.MethodsNamed("y")))
	}
	ctors := c.Constructors()
	if len(ctors) != 1 || len(ctors[0].Parameters) != 2 || ctors[0].Parameters[1].Name != "y" {
		t.Errorf("canonical constructor = %+v", ctors)
	}
}

func TestClassModelsCompactConstructor(t *testing.T) {
	f := coreFinder(t, `package p;
record Range(int lo, int hi) {
    Range {
        if (lo > hi) throw new IllegalArgumentException();
    }
}`)
	ctors := findModel(t, f, "p.Range").Constructors()
	if len(ctors) != 1 || len(ctors[0].Parameters) != 2 || ctors[0].IsSynthetic {
		t.Errorf("constructors = %+v", ctors)
	}
}

func TestClassModelsAnnotation(t *testing.T) {
	f := coreFinder(t, `package p;
public @interface Marker {
    String value() default "";
    int priority();
}`)
	c := findModel(t, f, "p.Marker")
	if c.Kind != ClassKindAnnotation || !c.IsInterface() {
		t.Errorf("kind = %s", c.Kind)
	}
	if len(c.Interfaces) != 1 || !c.Interfaces[0].Is("java.lang.annotation.Annotation") {
		t.Errorf("interfaces = %v", c.Interfaces)
	}
	if m := c.MethodsNamed("priority"); len(m) != 1 || !m[0].IsAbstract || !m[0].ReturnType.Equal(Int) {
		t.Errorf("priority = %+v", m)
	}
}

func TestClassModelsInterfaceFields(t *testing.T) {
	f := coreFinder(t, `package p;
interface Limits {
    int MAX = 10;
    default int max() { return MAX; }
    static Limits create() { return null; }
    private void helper() {}
}`)
	c := findModel(t, f, "p.Limits")
	if fld := c.Field("MAX"); fld == nil || !fld.IsStatic || !fld.IsFinal || fld.Visibility != VisibilityPublic {
		t.Errorf("MAX = %+v", fld)
	}
	if m := c.MethodsNamed("max")[0]; !m.IsDefault || m.IsAbstract {
		t.Errorf("max = %+v", m)
	}
	if m := c.MethodsNamed("create")[0]; !m.IsStatic || m.IsAbstract {
		t.Errorf("create = %+v", m)
	}
	if m := c.MethodsNamed("helper")[0]; m.Visibility != VisibilityPrivate || m.IsAbstract {
		t.Errorf("helper = %+v", m)
	}
}

func TestClassModelsNestedResolution(t *testing.T) {
	f := coreFinder(t, `package p;
import java.util.Map;
class Outer {
    class Node { Node next; Outer owner; }
    Map.Entry<String, Node> entry;
    Node head;
}`)
	outer := findModel(t, f, "p.Outer")
	if got := outer.Field("head").Type.String(); got != "p.Outer.Node" {
		t.Errorf("head = %s", got)
	}
	if got := outer.Field("entry").Type.String(); got != "java.util.Map.Entry<java.lang.String, p.Outer.Node>" {
		t.Errorf("entry = %s", got)
	}
	node := findModel(t, f, "p.Outer$Node")
	if got := node.Field("next").Type.Signature(); got != "Lp.Outer$Node;" {
		t.Errorf("next = %s", got)
	}
	if node.IsStatic {
		t.Error("inner class should not be static")
	}
}

func TestClassModelsMalformed(t *testing.T) {
	sf := ParseSourceFile("Broken.java", []byte(`package p;
class Broken {
    void m( {
    int x = ;
    class
}`))
	models := sf.ClassModels(mapFinder{})
	if len(models) == 0 || models[0].Name != "p.Broken" {
		t.Fatalf("models = %+v", models)
	}
	if models[0].SourceFile != "Broken.java" {
		t.Errorf("SourceFile = %q", models[0].SourceFile)
	}
}

func TestClassModelFromDeclLocal(t *testing.T) {
	f := coreFinder(t)
	res := parser.Parse([]byte(`package p;
class Host {
    void m() {
        class Helper extends java.util.ArrayList<String> {
            Helper self() { return this; }
        }
    }
}`))
	var decl *parser.Node
	parser.Walk(res.Root, func(n *parser.Node) bool {
		if n.Kind == parser.KindClassDecl && n.Name() == "Helper" {
			decl = n
			return false
		}
		return true
	})
	if decl == nil {
		t.Fatal("local class not found")
	}
	sf := NewSourceFile("", res.Root)
	c := ClassModelFromDecl(decl, "p.Host$1Helper", sf.Resolver(f))
	if !c.IsLocal || c.SimpleName != "Helper" {
		t.Errorf("model = %+v", c)
	}
	if got := c.SuperClass.String(); got != "java.util.ArrayList<java.lang.String>" {
		t.Errorf("super = %s", got)
	}
	if got := c.MethodsNamed("self")[0].ReturnType.Signature(); got != "Lp.Host$1Helper;" {
		t.Errorf("self returns %s", got)
	}
}

func TestImportsOf(t *testing.T) {
	res := parser.Parse([]byte(`package a.b;
import java.util.List;
import java.util.*;
import static java.lang.Math.max;
import static java.util.concurrent.TimeUnit.*;
class X {}`))
	if got := PackageOf(res.Root); got != "a.b" {
		t.Errorf("PackageOf = %q", got)
	}
	want := []Import{
		{Name: "java.util.List"},
		{Name: "java.util", Wildcard: true},
		{Name: "java.lang.Math.max", Static: true},
		{Name: "java.util.concurrent.TimeUnit", Static: true, Wildcard: true},
	}
	got := ImportsOf(res.Root)
	if len(got) != len(want) {
		t.Fatalf("ImportsOf = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("import %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCleanJavadoc(t *testing.T) {
	got := CleanJavadoc("/**\n * Returns the value.\n *\n * @return the value\n */")
	if want := "Returns the value.\n\n@return the value"; got != want {
		t.Errorf("CleanJavadoc = %q, want %q", got, want)
	}
}
