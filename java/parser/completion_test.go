package parser

import (
	"strings"
	"testing"
)

// parseAtBar parses src with the cursor at the "|" marker, which is removed.
func parseAtBar(t *testing.T, src string) *Result {
	t.Helper()
	cursor := strings.Index(src, "|")
	if cursor < 0 {
		t.Fatalf("no cursor marker in %q", src)
	}
	return Parse([]byte(src[:cursor]+src[cursor+1:]), WithCursor(cursor))
}

func TestCompletionKinds(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		kind      CompletionKind
		prefix    string
		location  Location
		qualifier string
	}{
		{"statement start", "class A { void m() { sys| } }", CompletionNameReference, "sys", LocationStatementStart, ""},
		{"argument", "class A { void m() { foo(a, b|) } }", CompletionNameReference, "b", LocationUnknown, ""},
		{"member after dot", "class A { void m() { s.| } }", CompletionMemberReference, "", LocationUnknown, "s"},
		{"member with prefix", "class A { void m() { s.len| } }", CompletionMemberReference, "len", LocationUnknown, "s"},
		{"member of chain", "class A { void m() { a.b().c| } }", CompletionMemberReference, "c", LocationUnknown, ""},
		{"method reference", "class A { void m() { run(String::toU|) } }", CompletionMethodReferenceOperator, "toU", LocationUnknown, "String"},
		{"local type", "class A { void m() { Str| s; } }", CompletionTypeReference, "Str", LocationUnknown, ""},
		{"field type", "class A { private Li| items; }", CompletionTypeReference, "Li", LocationUnknown, ""},
		{"parameter type", "class A { void m(Str| s) {} }", CompletionTypeReference, "Str", LocationUnknown, ""},
		{"allocation", "class A { void m() { Object o = new Arr| } }", CompletionAllocationType, "Arr", LocationUnknown, ""},
		{"constructor arguments", "class A { void m() { Object o = new Thread(|); } }", CompletionConstructorArguments, "", LocationUnknown, ""},
		{"annotation", "class A { @Overr| void m() {} }", CompletionAnnotation, "Overr", LocationUnknown, ""},
		{"annotation attribute", "@SuppressWarnings(val|) class A {}", CompletionAnnotationAttribute, "val", LocationUnknown, ""},
		{"member start", "class A {\n  pu|\n}", CompletionPotentialMethodDeclaration, "pu", LocationMemberStart, ""},
		{"member start after modifier", "class A {\n  public toStr|\n}", CompletionPotentialMethodDeclaration, "toStr", LocationMemberStart, ""},
		{"method name", "class A { public String toStr|() {} }", CompletionPotentialMethodDeclaration, "toStr", LocationMemberStart, ""},
		{"local variable name", "class A { void m() { String na| } }", CompletionVariableName, "na", LocationUnknown, ""},
		{"field name", "class A { String na| }", CompletionVariableName, "na", LocationUnknown, ""},
		{"case label", "class A { void m(E e) { switch (e) { case SE| } } }", CompletionCaseLabel, "SE", LocationUnknown, ""},
		{"case label arrow", "class A { void m(E e) { switch (e) { case | -> {} } } }", CompletionCaseLabel, "", LocationUnknown, ""},
		{"import", "import java.ut|", CompletionImport, "ut", LocationUnknown, "java"},
		{"top level", "pub|", CompletionKeywordContext, "pub", LocationTopLevel, ""},
		{"class header", "class A ext| {}", CompletionKeywordContext, "ext", LocationUnknown, ""},
		{"extends type", "class A extends Ba| {}", CompletionTypeReference, "Ba", LocationUnknown, ""},
		{"throws type", "class A { void m() throws IOEx| {} }", CompletionTypeReference, "IOEx", LocationUnknown, ""},
		{"keyword prefix", "class A { void m() { ret| } }", CompletionNameReference, "ret", LocationStatementStart, ""},
		{"cursor in middle", "class A { void m() { sys|tem } }", CompletionNameReference, "sys", LocationStatementStart, ""},
		{"lambda body", "class A { void m() { run(x -> x.| ) } }", CompletionMemberReference, "", LocationUnknown, "x"},
		{"return expression", "class A { int m() { return co| } }", CompletionNameReference, "co", LocationUnknown, ""},
		{"type on previous line", "class A { void m() { list.|\n String s = \"\"; } }", CompletionMemberReference, "", LocationUnknown, "list"},
		{"if condition", "class A { void m() { if (fl|) {} } }", CompletionNameReference, "fl", LocationUnknown, ""},
		{"then branch", "class A { void m() { if (x) fo| } }", CompletionNameReference, "fo", LocationStatementStart, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parseAtBar(t, tt.src)
			c := res.Completion
			if c == nil {
				t.Fatalf("no completion node\n%s", res.Root)
			}
			if c.Kind != tt.kind {
				t.Errorf("kind = %v, want %v\n%s", c.Kind, tt.kind, res.Root)
			}
			if c.Prefix != tt.prefix {
				t.Errorf("prefix = %q, want %q", c.Prefix, tt.prefix)
			}
			if c.Location != tt.location {
				t.Errorf("location = %v, want %v", c.Location, tt.location)
			}
			if tt.qualifier != "" {
				if got := QualifiedName(c.Qualifier); got != tt.qualifier {
					t.Errorf("qualifier = %q, want %q", got, tt.qualifier)
				}
			}
			if PathTo(res.Root, c.Node) == nil {
				t.Errorf("completion node is not part of the tree")
			}
		})
	}
}

func TestCompletionFilters(t *testing.T) {
	tests := []struct {
		src    string
		filter TypeFilter
	}{
		{"class A extends Ba| {}", TypeFilterClass},
		{"class A implements Ru| {}", TypeFilterInterface},
		{"interface A extends Ru| {}", TypeFilterInterface},
		{"class A { void m() throws IOEx| {} }", TypeFilterException},
		{"class A { void m() { try {} catch (IOEx| e) {} } }", TypeFilterException},
		{"class A { Str| s; }", TypeFilterAny},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res := parseAtBar(t, tt.src)
			if res.Completion == nil {
				t.Fatal("no completion node")
			}
			if res.Completion.Filter != tt.filter {
				t.Errorf("filter = %v, want %v", res.Completion.Filter, tt.filter)
			}
		})
	}
}

func TestCompletionReplaceRange(t *testing.T) {
	src := "class A { void m() { sys|tem } }"
	res := parseAtBar(t, src)
	c := res.Completion
	if c == nil {
		t.Fatal("no completion node")
	}
	start := strings.Index(strings.Replace(src, "|", "", 1), "system")
	if c.Replace.Start.Offset != start || c.Replace.End.Offset != start+len("system") {
		t.Errorf("replace = %d-%d, want %d-%d", c.Replace.Start.Offset, c.Replace.End.Offset, start, start+6)
	}
	if c.Token != "system" {
		t.Errorf("token = %q", c.Token)
	}
}

func TestCompletionSuppressed(t *testing.T) {
	tests := []string{
		"class A { // com|ment\n }",
		"class A { /* com|ment */ }",
		"class A { String s = \"ab|c\"; }",
		"class A { int x = 12|3; }",
		"class A { char c = 'a|'; }",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			res := parseAtBar(t, src)
			if res.Completion != nil {
				t.Errorf("unexpected completion %v", res.Completion.Kind)
			}
			if !res.InComment {
				t.Errorf("InComment should be set")
			}
		})
	}
}

func TestCompletionLambdaParametersKept(t *testing.T) {
	res := parseAtBar(t, "class A { void m() { foo(sys -> { bar(x -> x.|")
	c := res.Completion
	if c == nil || c.Kind != CompletionMemberReference {
		t.Fatalf("completion = %+v", c)
	}
	path := PathTo(res.Root, c.Node)
	lambdas := 0
	for _, n := range path {
		if n.Kind == KindLambdaExpr {
			lambdas++
		}
	}
	if lambdas != 2 {
		t.Errorf("lambdas on path = %d, want 2", lambdas)
	}
}

func TestCompletionEmptySlotArgument(t *testing.T) {
	res := parseAtBar(t, "class A { void m() { foo(5, |, null); } }")
	c := res.Completion
	if c == nil {
		t.Fatal("no completion")
	}
	path := PathTo(res.Root, c.Node)
	args := path[len(path)-2]
	if args.Kind != KindArguments || len(args.Children) != 3 || args.Children[1] != c.Node {
		t.Errorf("completion should be the second of three arguments:\n%s", res.Root)
	}
}

func TestCompletionLambdaInAnnotation(t *testing.T) {
	tests := []string{
		"class A { @Ann(xval -> xv|) void m() {} }",
		"@Ann(xval -> xv|) class A {}",
		"class A { @Ann(value = (xval, y) -> xv|) void m() {} }",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			res := parseAtBar(t, src)
			c := res.Completion
			if c == nil || c.Kind != CompletionNameReference || c.Prefix != "xv" {
				t.Fatalf("completion = %+v", c)
			}
			var lambda *Node
			for _, n := range PathTo(res.Root, c.Node) {
				if n.Kind == KindLambdaExpr {
					lambda = n
				}
			}
			if lambda == nil {
				t.Fatalf("no lambda on the completion path:\n%s", res.Root)
			}
			if got := lambda.Child(0).Children[0].Name(); got != "xval" {
				t.Errorf("first lambda parameter = %q, want xval", got)
			}
		})
	}
}

func TestCompletionInClassHeader(t *testing.T) {
	tests := []struct {
		src  string
		slot int
	}{
		{"class A ext| {}", 4},
		{"class A extends B ext| {}", 4},
		{"class A implements B ext| {}", 3},
		{"class A extends B implements C ext| {}", 4},
		{"record R(int x) imp| {}", 4},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res := parseAtBar(t, tt.src)
			c := res.Completion
			if c == nil || c.Kind != CompletionKeywordContext {
				t.Fatalf("completion = %+v", c)
			}
			path := PathTo(res.Root, c.Node)
			if path == nil {
				t.Fatalf("completion node is not part of the tree:\n%s", res.Root)
			}
			decl := c.Qualifier
			if decl == nil || !decl.Kind.IsTypeDecl() {
				t.Fatalf("qualifier = %v", decl)
			}
			if slot := decl.Child(tt.slot); slot == nil || indexOfNode(path, slot) < 0 {
				t.Errorf("completion node should be under child %d:\n%s", tt.slot, res.Root)
			}
		})
	}
}

func indexOfNode(path []*Node, n *Node) int {
	for i, p := range path {
		if p == n {
			return i
		}
	}
	return -1
}
