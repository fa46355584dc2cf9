package java

import "testing"

func TestTypeSignature(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		want string
	}{
		{"primitive", Int, "I"},
		{"void", Void, "V"},
		{"class", String, "Ljava.lang.String;"},
		{"nested", ClassType("java.util.Map$Entry"), "Ljava.util.Map$Entry;"},
		{"parameterized", ClassType("java.util.List", String), "Ljava.util.List<Ljava.lang.String;>;"},
		{"array", ArrayOfDims(Int, 2), "[[I"},
		{"type variable", TypeVar("T", nil), "TT;"},
		{"unbounded wildcard", ClassType("java.util.List", WildcardType(WildcardUnbounded, nil)), "Ljava.util.List<*>;"},
		{"extends wildcard", WildcardType(WildcardExtends, Object), "+Ljava.lang.Object;"},
		{"super wildcard", WildcardType(WildcardSuper, TypeVar("E", nil)), "-TE;"},
		{"unknown", Unknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Signature(); got != tt.want {
				t.Errorf("Signature() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMethodSignature(t *testing.T) {
	got := MethodSignature([]*Type{Long, ClassType("java.util.concurrent.TimeUnit")}, Void)
	if want := "(JLjava.util.concurrent.TimeUnit;)V"; got != want {
		t.Errorf("MethodSignature = %q, want %q", got, want)
	}
	if got := MethodSignature(nil, nil); got != "()V" {
		t.Errorf("MethodSignature(nil, nil) = %q", got)
	}
}

func TestParseSignature(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{"Ljava/util/List<TE;>;", "java.util.List<E>"},
		{"Ljava.util.Map<Ljava.lang.String;+Ljava.lang.Number;>;", "java.util.Map<java.lang.String, ? extends java.lang.Number>"},
		{"[Ljava/lang/String;", "java.lang.String[]"},
		{"Lp/Outer<TT;>.Inner;", "p.Outer.Inner"},
		{"Z", "boolean"},
		{"-TT;", "? super T"},
	}
	for _, tt := range tests {
		typ, err := ParseSignature(tt.sig)
		if err != nil {
			t.Errorf("ParseSignature(%q): %v", tt.sig, err)
			continue
		}
		if got := typ.String(); got != tt.want {
			t.Errorf("ParseSignature(%q) = %s, want %s", tt.sig, got, tt.want)
		}
	}
}

func TestParseSignatureErrors(t *testing.T) {
	for _, sig := range []string{"", "Ljava/lang/String", "Q", "Ljava/util/List<TE;", "II"} {
		if _, err := ParseSignature(sig); err == nil {
			t.Errorf("ParseSignature(%q) succeeded, want error", sig)
		}
	}
}

func TestParseMethodSignature(t *testing.T) {
	sig, err := ParseMethodSignature("<R:Ljava/lang/Object;>(Ljava/util/function/Function<-TT;+TR;>;)Ljava/util/stream/Stream<TR;>;^Ljava/io/IOException;")
	if err != nil {
		t.Fatal(err)
	}
	if len(sig.TypeParameters) != 1 || sig.TypeParameters[0].Name != "R" {
		t.Fatalf("type parameters = %+v", sig.TypeParameters)
	}
	if got := sig.Params[0].String(); got != "java.util.function.Function<? super T, ? extends R>" {
		t.Errorf("param = %s", got)
	}
	if got := sig.Return.String(); got != "java.util.stream.Stream<R>" {
		t.Errorf("return = %s", got)
	}
	if len(sig.Throws) != 1 || !sig.Throws[0].Is("java.io.IOException") {
		t.Errorf("throws = %v", sig.Throws)
	}
}

func TestParseClassSignature(t *testing.T) {
	sig, err := ParseClassSignature("<K:Ljava/lang/Object;V::Ljava/lang/Comparable<TV;>;>Ljava/util/AbstractMap<TK;TV;>;Ljava/util/Map<TK;TV;>;")
	if err != nil {
		t.Fatal(err)
	}
	if len(sig.TypeParameters) != 2 {
		t.Fatalf("type parameters = %+v", sig.TypeParameters)
	}
	if b := sig.TypeParameters[1].Bounds; len(b) != 1 || !b[0].Is("java.lang.Comparable") {
		t.Errorf("bounds of V = %v", b)
	}
	if got := sig.SuperClass.String(); got != "java.util.AbstractMap<K, V>" {
		t.Errorf("super = %s", got)
	}
	if len(sig.Interfaces) != 1 || !sig.Interfaces[0].Is("java.util.Map") {
		t.Errorf("interfaces = %v", sig.Interfaces)
	}
}

func TestSignatureRoundTrip(t *testing.T) {
	for _, sig := range []string{
		"Ljava.util.List<Ljava.lang.String;>;",
		"[[I",
		"Ljava.util.Map<TK;-Ljava.lang.Integer;>;",
		"Ljava.util.Map$Entry<**>;",
	} {
		typ, err := ParseSignature(sig)
		if err != nil {
			t.Fatalf("ParseSignature(%q): %v", sig, err)
		}
		if got := typ.Signature(); got != sig {
			t.Errorf("round trip of %q gave %q", sig, got)
		}
	}
}
