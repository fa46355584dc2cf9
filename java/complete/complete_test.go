package complete

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/sai-complete/classpath"
	"github.com/dhamidi/sai-complete/java"
	"github.com/dhamidi/sai-complete/project"
)

// cursor removes the "|" marker from src and returns its offset.
func cursor(t *testing.T, src string) ([]byte, int) {
	t.Helper()
	offset := strings.Index(src, "|")
	require.GreaterOrEqual(t, offset, 0, "source needs a | cursor marker")
	return []byte(src[:offset] + src[offset+1:]), offset
}

func testContext() ResolutionContext {
	return ResolutionContext{
		Oracle:  classpath.Builtin(),
		Options: project.DefaultOptions(),
		Path:    "A.java",
	}
}

func completeAt(t *testing.T, rc ResolutionContext, src string) []*Proposal {
	t.Helper()
	text, offset := cursor(t, src)
	ps, err := CodeComplete(context.Background(), rc, text, offset)
	require.NoError(t, err)
	require.NotNil(t, ps)
	return ps
}

func find(ps []*Proposal, kind ProposalKind, name string) *Proposal {
	for _, p := range ps {
		if p.Kind == kind && p.Name == name {
			return p
		}
	}
	return nil
}

func names(ps []*Proposal) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

// minimalOracle knows only Object and String, so no library type matches
// ordinary prefixes.
func minimalOracle(t *testing.T) classpath.Oracle {
	t.Helper()
	sf := java.ParseSourceFile("lang.java", []byte(`package java.lang;
public class Object {
    public Object() {}
    public String toString();
    public boolean equals(Object o);
    public int hashCode();
}
public final class String {
    public int length();
}
`))
	return classpath.NewIndex(sf.ClassModels(classpath.NewIndex())...)
}

func TestUnknownNameInNestedLambda(t *testing.T) {
	rc := testContext()
	rc.Oracle = minimalOracle(t)
	src := `interface I { void run(); }
class A {
    void m() {
        I i = () -> { I j = () -> { sys| }; };
    }
}`
	ps := completeAt(t, rc, src)
	assert.Empty(t, ps)

	text, offset := cursor(t, src)
	c, err := Inspect(context.Background(), rc, text, offset)
	require.NoError(t, err)
	start := strings.Index(string(text), "sys")
	assert.Equal(t, Range{Start: start, End: start + 3}, c.Replace)
	assert.Equal(t, "sys", c.Token)
	assert.Equal(t, "STATEMENT_START", c.Location)
}

func TestCompletionIsDeterministic(t *testing.T) {
	src := `import java.util.*;
class A {
    List<String> items;
    void m(Map<String, Integer> counts) {
        String name = "";
        items.stream().filter(s -> s.isEmpty()).|
    }
}`
	first := Format(completeAt(t, testContext(), src), true)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Format(completeAt(t, testContext(), src), true))
	}
	assert.NotEmpty(t, first)
}

func TestInnerBindingShadowsField(t *testing.T) {
	ps := completeAt(t, testContext(), `class A {
    int value;
    void m(String value) {
        valu|
    }
}`)
	var found []*Proposal
	for _, p := range ps {
		if p.Name == "value" {
			found = append(found, p)
		}
	}
	require.Len(t, found, 1)
	assert.Equal(t, ProposalLocalVariable, found[0].Kind)
	assert.Equal(t, "Ljava.lang.String;", found[0].Signature)
}

func TestExactExpectedTypeRanksHigher(t *testing.T) {
	ps := completeAt(t, testContext(), `class A {
    void m() {
        int count = 1;
        String name = "";
        String s = |
    }
}`)
	name := find(ps, ProposalLocalVariable, "name")
	count := find(ps, ProposalLocalVariable, "count")
	require.NotNil(t, name)
	require.NotNil(t, count)
	assert.Greater(t, name.Relevance, count.Relevance)
	assert.Less(t, indexOfProposal(ps, name), indexOfProposal(ps, count))
}

func indexOfProposal(ps []*Proposal, p *Proposal) int {
	for i, q := range ps {
		if q == p {
			return i
		}
	}
	return -1
}

const timeUnitSource = `import java.util.concurrent.Callable;
import java.util.concurrent.TimeUnit;
class A {
    void foo(int delay, TimeUnit unit, Callable<String> task) {}
    void m() {
        %s
    }
}`

func TestQualifiedEnumConstantFromOverload(t *testing.T) {
	ps := completeAt(t, testContext(), strings.Replace(timeUnitSource, "%s", "foo(5, SE|);", 1))
	require.NotEmpty(t, ps)
	top := ps[0]
	assert.Equal(t, ProposalField, top.Kind)
	assert.Equal(t, "SECONDS", top.Name)
	assert.Equal(t, "TimeUnit.SECONDS", top.Completion)
	assert.Equal(t, "Ljava.util.concurrent.TimeUnit;", top.Signature)
	assert.Equal(t, 84, top.Relevance)
	require.Len(t, top.Required, 1)
	assert.Equal(t, ProposalType, top.Required[0].Kind)
	assert.Equal(t, top.Replace.Start, top.Required[0].Replace.Start)
	assert.Equal(t, top.Replace.Start, top.Required[0].Replace.End)
}

func TestQualifiedEnumConstantWithEmptySlot(t *testing.T) {
	ps := completeAt(t, testContext(), strings.Replace(timeUnitSource, "%s", "foo(5, |, null);", 1))
	var seconds *Proposal
	for _, p := range ps {
		if p.Completion == "TimeUnit.SECONDS" {
			seconds = p
		}
	}
	require.NotNil(t, seconds, "proposals:\n%s", Format(ps, false))
	assert.Equal(t, 84, seconds.Relevance)
	for _, p := range ps {
		if p.Kind == ProposalLocalVariable {
			assert.Greater(t, seconds.Relevance, p.Relevance)
		}
	}
}

func TestMethodReferenceKeepsStreamElementType(t *testing.T) {
	ps := completeAt(t, testContext(), `import java.util.List;
class A {
    void m(List<String> list) {
        list.stream().map(String::toUpperCase).|
    }
}`)
	got := names(ps)
	assert.Contains(t, got, "map")
	assert.Contains(t, got, "filter")
	assert.Contains(t, got, "sorted")

	filter := find(ps, ProposalMethod, "filter")
	require.NotNil(t, filter)
	assert.Contains(t, filter.Signature, "Ljava.lang.String;")
	assert.Equal(t, "Ljava.util.stream.Stream;", filter.DeclarationSignature)
}

func TestConstructorAndAnonymousClass(t *testing.T) {
	ps := completeAt(t, testContext(), `abstract class AbstractType {
    AbstractType(int size) {}
    abstract void run();
}
class A {
    void m() {
        Object o = new AbstractType(|
    }
}`)
	ctor := find(ps, ProposalConstructorInvocation, "AbstractType")
	anon := find(ps, ProposalAnonymousClass, "AbstractType")
	require.NotNil(t, ctor)
	require.NotNil(t, anon)
	assert.Equal(t, "(I)V", ctor.Signature)
	assert.Equal(t, ctor.Signature, anon.Signature)
	assert.Equal(t, ctor.Relevance, anon.Relevance)
	assert.Equal(t, []string{"size"}, ctor.ParameterNames)
}

func TestConcreteClassHasNoAnonymousProposal(t *testing.T) {
	ps := completeAt(t, testContext(), `class A {
    void m() {
        Object o = new StringBuilder(|
    }
}`)
	assert.NotNil(t, find(ps, ProposalConstructorInvocation, "StringBuilder"))
	assert.Nil(t, find(ps, ProposalAnonymousClass, "StringBuilder"))
}

func TestSelectThenCompleteIsIndependent(t *testing.T) {
	src := `class A {
    void m(String text) {
        text.len|
    }
}`
	alone := Format(completeAt(t, testContext(), src), true)

	text, offset := cursor(t, src)
	_, err := CodeSelect(context.Background(), testContext(), text, offset-1, 0)
	require.NoError(t, err)
	assert.Equal(t, alone, Format(completeAt(t, testContext(), src), true))
	assert.Contains(t, alone, "length[METHOD_REF]")
}

func TestCompletionIsTotal(t *testing.T) {
	sources := []string{
		"",
		"c",
		"(",
		"class",
		"class A { void m() { I i = () -> { I j = () -> { try { } catch ( } }; }",
		"class A { void m() { foo(x -> y -> z -> { return (((; }) } }",
		"}}}{{{ new new new ::: -> ->",
		"class A extends A { A a = a.a.a.a(); }",
		"interface I extends J {} interface J extends I {} class A implements I { void m() { this. } }",
		"class A<T extends T> { T t; void m() { t. } }",
		"@interface X { X value(); } @X(@X(@X( class A {}",
		"switch (x) { case -> yield yield; }",
		"import static java.util.Collections.*; class A { void m() { sort(emptyList(), (a, b) -> a. ) } }",
	}
	for _, src := range sources {
		for offset := 0; offset <= len(src); offset++ {
			ps, err := CodeComplete(context.Background(), testContext(), []byte(src), offset)
			require.NoError(t, err, "source %q offset %d", src, offset)
			require.NotNil(t, ps, "source %q offset %d", src, offset)
			_, err = CodeSelect(context.Background(), testContext(), []byte(src), offset, 0)
			require.NoError(t, err, "source %q offset %d", src, offset)
		}
	}
}

func TestOffsetOutOfRangeIsClamped(t *testing.T) {
	ps, err := CodeComplete(context.Background(), testContext(), []byte("class A {}"), 500)
	require.NoError(t, err)
	assert.NotNil(t, ps)
	ps, err = CodeComplete(context.Background(), testContext(), []byte("class A {}"), -3)
	require.NoError(t, err)
	assert.NotNil(t, ps)
}

func TestCanceledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	text, offset := cursor(t, "class A { void m() { Str| } }")

	ps, err := CodeComplete(ctx, testContext(), text, offset)
	assert.Nil(t, ps)
	assert.ErrorIs(t, err, ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)

	es, err := CodeSelect(ctx, testContext(), text, offset, 0)
	assert.Nil(t, es)
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestCascadedIncompleteCalls(t *testing.T) {
	ps := completeAt(t, testContext(), `class A {
    String name() { return ""; }
    void m() {
        System.out.println(name().substring(name().|
    }
}`)
	assert.NotNil(t, find(ps, ProposalMethod, "length"))
	assert.NotNil(t, find(ps, ProposalMethod, "toUpperCase"))
}

func TestMemberCompletion(t *testing.T) {
	t.Run("static members of a type", func(t *testing.T) {
		ps := completeAt(t, testContext(), `class A { void m() { Integer.| } }`)
		assert.NotNil(t, find(ps, ProposalField, "MAX_VALUE"))
		assert.NotNil(t, find(ps, ProposalKeyword, "class"))
		assert.Nil(t, find(ps, ProposalMethod, "intValue"))
	})
	t.Run("array length", func(t *testing.T) {
		ps := completeAt(t, testContext(), `class A { void m(String[] args) { int n = args.le| } }`)
		length := find(ps, ProposalField, "length")
		require.NotNil(t, length)
		assert.Equal(t, "I", length.Signature)
	})
	t.Run("package members", func(t *testing.T) {
		ps := completeAt(t, testContext(), `class A { void m() { java.util.Arr| } }`)
		assert.NotNil(t, find(ps, ProposalType, "ArrayList"))
	})
	t.Run("unresolved receiver", func(t *testing.T) {
		ps := completeAt(t, testContext(), `class A { void m() { nothing.| } }`)
		assert.Empty(t, ps)
	})
	t.Run("instance members prefer non-static", func(t *testing.T) {
		ps := completeAt(t, testContext(), `class A { void m(String s) { s.| } }`)
		length := find(ps, ProposalMethod, "length")
		valueOf := find(ps, ProposalMethod, "valueOf")
		require.NotNil(t, length)
		if valueOf != nil {
			assert.Greater(t, length.Relevance, valueOf.Relevance)
		}
	})
}

func TestMethodReferenceProposals(t *testing.T) {
	ps := completeAt(t, testContext(), `import java.util.List;
class A {
    void m(List<String> list) {
        list.stream().map(String::toU|)
    }
}`)
	upper := find(ps, ProposalMethodNameReference, "toUpperCase")
	require.NotNil(t, upper)
	assert.Equal(t, "toUpperCase", upper.Completion)
	got := names(ps)
	assert.Equal(t, len(got), len(uniq(got)), "each method name is proposed once")
}

func uniq(ss []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func TestTypeCompletion(t *testing.T) {
	t.Run("declaration type", func(t *testing.T) {
		ps := completeAt(t, testContext(), `import java.util.List;
class A { void m() { Lis| items; } }`)
		list := find(ps, ProposalType, "List")
		require.NotNil(t, list)
		assert.Equal(t, "List", list.Completion)
		assert.Equal(t, "java.util", list.DeclarationSignature)
	})
	t.Run("not imported type is qualified", func(t *testing.T) {
		ps := completeAt(t, testContext(), `class A { void m() { ArrayLi| items; } }`)
		list := find(ps, ProposalType, "ArrayList")
		require.NotNil(t, list)
		assert.Equal(t, "java.util.ArrayList", list.Completion)
	})
	t.Run("exception filter", func(t *testing.T) {
		ps := completeAt(t, testContext(), `class A { void m() throws Ill| {} }`)
		assert.NotNil(t, find(ps, ProposalType, "IllegalArgumentException"))
		assert.NotNil(t, find(ps, ProposalType, "IllegalStateException"))
	})
	t.Run("annotation", func(t *testing.T) {
		ps := completeAt(t, testContext(), `class A { @Overr| void m() {} }`)
		require.NotEmpty(t, ps)
		assert.Equal(t, "Override", ps[0].Name)
	})
	t.Run("allocation", func(t *testing.T) {
		ps := completeAt(t, testContext(), `import java.util.*;
class A { void m() { List<String> l = new ArrayL| } }`)
		assert.NotNil(t, find(ps, ProposalType, "ArrayList"))
	})
	t.Run("import", func(t *testing.T) {
		ps := completeAt(t, testContext(), `import java.util.concurrent.Tim|`)
		assert.NotNil(t, find(ps, ProposalType, "TimeUnit"))
	})
	t.Run("import package", func(t *testing.T) {
		ps := completeAt(t, testContext(), `import java.ut|`)
		pkg := find(ps, ProposalPackage, "java.util")
		require.NotNil(t, pkg)
		assert.Equal(t, "util", pkg.Completion)
	})
}

func TestDeclarationProposals(t *testing.T) {
	t.Run("override", func(t *testing.T) {
		ps := completeAt(t, testContext(), `class A {
    toStr|
}`)
		p := find(ps, ProposalMethodDeclaration, "toString")
		require.NotNil(t, p)
		assert.Equal(t, "public String toString() {}", p.Completion)
		assert.Equal(t, "Ljava.lang.Object;", p.DeclarationSignature)
	})
	t.Run("abstract method ranks first", func(t *testing.T) {
		ps := completeAt(t, testContext(), `abstract class Base {
    abstract void run();
    void rest() {}
}
class A extends Base {
    r|
}`)
		run := find(ps, ProposalMethodDeclaration, "run")
		rest := find(ps, ProposalMethodDeclaration, "rest")
		require.NotNil(t, run)
		require.NotNil(t, rest)
		assert.Greater(t, run.Relevance, rest.Relevance)
	})
	t.Run("already declared methods are skipped", func(t *testing.T) {
		ps := completeAt(t, testContext(), `class A {
    public String toString() { return ""; }
    toStr|
}`)
		assert.Nil(t, find(ps, ProposalMethodDeclaration, "toString"))
	})
	t.Run("variable names", func(t *testing.T) {
		ps := completeAt(t, testContext(), `import java.util.ArrayList;
class A { void m() { ArrayList<String> | } }`)
		assert.NotNil(t, find(ps, ProposalVariableDeclaration, "arrayList"))
		assert.NotNil(t, find(ps, ProposalVariableDeclaration, "list"))
	})
	t.Run("variable names skip bound names", func(t *testing.T) {
		ps := completeAt(t, testContext(), `import java.util.ArrayList;
class A { void m(int list) { ArrayList<String> | } }`)
		assert.NotNil(t, find(ps, ProposalVariableDeclaration, "arrayList"))
		assert.Nil(t, find(ps, ProposalVariableDeclaration, "list"))
	})
	t.Run("annotation attributes", func(t *testing.T) {
		ps := completeAt(t, testContext(), `@SuppressWarnings(val|) class A {}`)
		value := find(ps, ProposalAnnotationAttribute, "value")
		require.NotNil(t, value)
		assert.Equal(t, "Ljava.lang.SuppressWarnings;", value.DeclarationSignature)
	})
	t.Run("case labels", func(t *testing.T) {
		ps := completeAt(t, testContext(), `import java.util.concurrent.TimeUnit;
class A {
    void m(TimeUnit unit) {
        switch (unit) {
        case SECONDS: break;
        case |: break;
        }
    }
}`)
		assert.NotNil(t, find(ps, ProposalField, "MINUTES"))
		assert.Nil(t, find(ps, ProposalField, "SECONDS"))
		for _, p := range ps {
			assert.NotContains(t, p.Completion, ".")
		}
	})
}

func TestNameSuggestions(t *testing.T) {
	tests := []struct {
		typ  *java.Type
		want []string
	}{
		{java.ClassType("java.util.ArrayList", java.String), []string{"arrayList", "list"}},
		{java.ClassType("java.net.URLConnection"), []string{"urlConnection", "connection"}},
		{java.ClassType("java.lang.Class"), []string{"clazz"}},
		{java.ArrayOf(java.String), []string{"strings"}},
		{java.Int, []string{"i"}},
		{java.ClassType("java.util.Map$Entry"), []string{"entry"}},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, nameSuggestions(tt.typ))
		})
	}
}

func TestLambdaInAnnotationArgument(t *testing.T) {
	for _, src := range []string{
		`@interface Ann { Class<?> value(); }
class A { @Ann(xval -> xv|) void m() {} }`,
		`@interface Ann { Class<?> value(); }
@Ann(xval -> xv|) class A {}`,
	} {
		ps := completeAt(t, testContext(), src)
		assert.NotNil(t, find(ps, ProposalLocalVariable, "xval"), "proposals: %v", names(ps))
	}
}

func TestLambdaInEnumConstantArgument(t *testing.T) {
	head := `import java.util.function.Function;
enum E {
    X(`
	tail := `);
    E(Function<String, Integer> f) {}
}`

	ps := completeAt(t, testContext(), head+`sval -> sv|`+tail)
	sval := find(ps, ProposalLocalVariable, "sval")
	require.NotNil(t, sval, "proposals: %v", names(ps))
	assert.Equal(t, "Ljava.lang.String;", sval.Signature)

	ps = completeAt(t, testContext(), head+`sval -> sval.len|`+tail)
	assert.NotNil(t, find(ps, ProposalMethod, "length"), "proposals: %v", names(ps))
}

func TestClassHeaderKeywords(t *testing.T) {
	tests := []struct {
		src     string
		want    []string
		notWant []string
	}{
		{`class A ext| {}`, []string{"extends"}, nil},
		{`class A imp| {}`, []string{"implements"}, nil},
		{`class A extends Object imp| {}`, []string{"implements"}, nil},
		{`class A extends Object ex| {}`, nil, []string{"extends"}},
		{`class A implements Runnable ext| {}`, []string{"extends"}, nil},
		{`class A implements Runnable im| {}`, nil, []string{"implements"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := keywordNames(completeAt(t, testContext(), tt.src))
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, got, w)
			}
		})
	}
}

func TestNoMatchesIsEmptyNotNil(t *testing.T) {
	text, offset := cursor(t, `class A { void m() { zzqxw| } }`)
	ps, err := CodeComplete(context.Background(), testContext(), text, offset)
	require.NoError(t, err)
	assert.NotNil(t, ps)
	assert.Empty(t, ps)
}
