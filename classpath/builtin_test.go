package classpath

import (
	"testing"

	"github.com/dhamidi/sai-complete/java"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinCoreTypes(t *testing.T) {
	b := Builtin()
	for _, name := range []string{
		"java.lang.Object", "java.lang.String", "java.lang.System", "java.io.PrintStream",
		"java.util.List", "java.util.Map$Entry", "java.util.function.Function",
		"java.util.stream.Stream", "java.util.concurrent.TimeUnit", "java.util.concurrent.Callable",
	} {
		assert.NotNil(t, b.FindClass(name), name)
	}
	assert.Same(t, b, Builtin())
}

func TestBuiltinResolvesAcrossPackages(t *testing.T) {
	b := Builtin()

	out := b.FindClass("java.lang.System").Field("out")
	require.NotNil(t, out)
	assert.Equal(t, "java.io.PrintStream", out.Type.String())
	assert.True(t, out.IsStatic)
	assert.NotEmpty(t, out.Doc)

	methods := java.MethodsOf(b, java.ClassType("java.util.ArrayList", java.String))
	var stream *java.Method
	for _, m := range methods {
		if m.Name == "stream" {
			stream = m
		}
	}
	require.NotNil(t, stream, "stream() should be inherited from Collection")
	assert.Equal(t, "java.util.stream.Stream<java.lang.String>", stream.Return.String())
}

func TestBuiltinTimeUnit(t *testing.T) {
	tu := Builtin().FindClass("java.util.concurrent.TimeUnit")
	require.NotNil(t, tu)
	assert.True(t, tu.IsEnum())
	var names []string
	for _, f := range tu.EnumConstants() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"NANOSECONDS", "MICROSECONDS", "MILLISECONDS", "SECONDS", "MINUTES", "HOURS", "DAYS"}, names)
}

func TestBuiltinConstructorsHaveNoReturnType(t *testing.T) {
	ctors := java.ConstructorsOf(Builtin(), java.ClassType("java.util.ArrayList", java.String))
	require.Len(t, ctors, 3)
	assert.Equal(t, "(I)V", ctors[0].Signature())
}

func TestBuiltinFunctionalInterfaces(t *testing.T) {
	b := Builtin()
	tests := []struct {
		typ  *java.Type
		name string
	}{
		{java.ClassType("java.util.function.Predicate", java.String), "test"},
		{java.ClassType("java.util.function.UnaryOperator", java.String), "apply"},
		{java.ClassType("java.util.Comparator", java.String), "compare"},
		{java.ClassType("java.util.concurrent.Callable", java.String), "call"},
		{java.ClassType("java.lang.Runnable"), "run"},
	}
	for _, tt := range tests {
		m := java.FunctionalMethod(b, tt.typ)
		if assert.NotNil(t, m, tt.typ.String()) {
			assert.Equal(t, tt.name, m.Name)
		}
	}
}
