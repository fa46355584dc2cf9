package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// classBuilder assembles class files in memory.
type classBuilder struct {
	pool  bytes.Buffer
	count uint16
	utf8  map[string]uint16
}

func newClassBuilder() *classBuilder {
	return &classBuilder{count: 1, utf8: make(map[string]uint16)}
}

func (b *classBuilder) u2(buf *bytes.Buffer, v uint16) {
	binary.Write(buf, binary.BigEndian, v)
}

func (b *classBuilder) u4(buf *bytes.Buffer, v uint32) {
	binary.Write(buf, binary.BigEndian, v)
}

func (b *classBuilder) Utf8(s string) uint16 {
	if idx, ok := b.utf8[s]; ok {
		return idx
	}
	b.pool.WriteByte(byte(ConstantUtf8))
	b.u2(&b.pool, uint16(len(s)))
	b.pool.WriteString(s)
	idx := b.count
	b.count++
	b.utf8[s] = idx
	return idx
}

func (b *classBuilder) Class(name string) uint16 {
	nameIdx := b.Utf8(name)
	b.pool.WriteByte(byte(ConstantClass))
	b.u2(&b.pool, nameIdx)
	idx := b.count
	b.count++
	return idx
}

func (b *classBuilder) Long(v int64) uint16 {
	b.pool.WriteByte(byte(ConstantLong))
	b.u4(&b.pool, uint32(v>>32))
	b.u4(&b.pool, uint32(v))
	idx := b.count
	b.count += 2
	return idx
}

// Raw appends an entry the reader only skips, such as a Methodref.
func (b *classBuilder) Raw(tag ConstantTag, payload ...byte) uint16 {
	b.pool.WriteByte(byte(tag))
	b.pool.Write(payload)
	idx := b.count
	b.count++
	return idx
}

type testAttr struct {
	name string
	info []byte
}

type testMember struct {
	flags      AccessFlags
	name, desc string
	attrs      []testAttr
}

func (b *classBuilder) attr(name string, info []byte) testAttr {
	b.Utf8(name)
	return testAttr{name: name, info: info}
}

func (b *classBuilder) SignatureAttr(sig string) testAttr {
	var buf bytes.Buffer
	b.u2(&buf, b.Utf8(sig))
	return b.attr("Signature", buf.Bytes())
}

func (b *classBuilder) Build(flags AccessFlags, this, super string, ifaces []string, fields, methods []testMember, attrs []testAttr) []byte {
	thisIdx := b.Class(this)
	var superIdx uint16
	if super != "" {
		superIdx = b.Class(super)
	}
	var ifaceIdx []uint16
	for _, i := range ifaces {
		ifaceIdx = append(ifaceIdx, b.Class(i))
	}
	for _, m := range append(append([]testMember(nil), fields...), methods...) {
		b.Utf8(m.name)
		b.Utf8(m.desc)
	}

	var out bytes.Buffer
	b.u4(&out, Magic)
	b.u2(&out, 0)
	b.u2(&out, 65)
	b.u2(&out, b.count)
	out.Write(b.pool.Bytes())
	b.u2(&out, uint16(flags))
	b.u2(&out, thisIdx)
	b.u2(&out, superIdx)
	b.u2(&out, uint16(len(ifaceIdx)))
	for _, i := range ifaceIdx {
		b.u2(&out, i)
	}
	writeAttrs := func(attrs []testAttr) {
		b.u2(&out, uint16(len(attrs)))
		for _, a := range attrs {
			b.u2(&out, b.utf8[a.name])
			b.u4(&out, uint32(len(a.info)))
			out.Write(a.info)
		}
	}
	for _, group := range [][]testMember{fields, methods} {
		b.u2(&out, uint16(len(group)))
		for _, m := range group {
			b.u2(&out, uint16(m.flags))
			b.u2(&out, b.utf8[m.name])
			b.u2(&out, b.utf8[m.desc])
			writeAttrs(m.attrs)
		}
	}
	writeAttrs(attrs)
	return out.Bytes()
}

func buildSample(t *testing.T) *ClassFile {
	t.Helper()
	b := newClassBuilder()
	b.Long(42)
	b.Raw(ConstantMethodref, 0, 1, 0, 2)
	b.Raw(ConstantMethodHandle, 5, 0, 3)

	var params bytes.Buffer
	params.WriteByte(2)
	b.u2(&params, b.Utf8("key"))
	b.u2(&params, 0)
	b.u2(&params, b.Utf8("value"))
	b.u2(&params, uint16(AccFinal))

	var exc bytes.Buffer
	b.u2(&exc, 1)
	b.u2(&exc, b.Class("java/io/IOException"))

	var inner bytes.Buffer
	b.u2(&inner, 1)
	b.u2(&inner, b.Class("p/Box$Entry"))
	b.u2(&inner, b.Class("p/Box"))
	b.u2(&inner, b.Utf8("Entry"))
	b.u2(&inner, uint16(AccPublic|AccStatic))

	fields := []testMember{{
		flags: AccPrivate,
		name:  "items",
		desc:  "Ljava/util/List;",
		attrs: []testAttr{b.SignatureAttr("Ljava/util/List<TT;>;")},
	}}
	methods := []testMember{
		{
			flags: AccPublic,
			name:  "put",
			desc:  "(Ljava/lang/String;Ljava/lang/Object;)V",
			attrs: []testAttr{
				b.SignatureAttr("(Ljava/lang/String;TT;)V"),
				b.attr("MethodParameters", params.Bytes()),
				b.attr("Exceptions", exc.Bytes()),
				b.attr("Deprecated", nil),
				b.attr("Code", []byte{0, 1, 2, 3, 4}),
			},
		},
		{flags: AccPublic | AccStatic | AccVarargs, name: "of", desc: "([Ljava/lang/Object;)Lp/Box;"},
	}
	data := b.Build(AccPublic|AccSuper, "p/Box", "java/lang/Object", []string{"java/lang/Iterable"},
		fields, methods, []testAttr{
			b.SignatureAttr("<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Iterable<TT;>;"),
			b.attr("InnerClasses", inner.Bytes()),
		})

	cf, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cf
}

func TestParseClassFile(t *testing.T) {
	cf := buildSample(t)

	t.Run("names", func(t *testing.T) {
		if cf.Name != "p/Box" {
			t.Errorf("Name = %q, want %q", cf.Name, "p/Box")
		}
		if cf.SuperName != "java/lang/Object" {
			t.Errorf("SuperName = %q", cf.SuperName)
		}
		if len(cf.Interfaces) != 1 || cf.Interfaces[0] != "java/lang/Iterable" {
			t.Errorf("Interfaces = %v", cf.Interfaces)
		}
		if got := SourceName("java/util/Map$Entry"); got != "java.util.Map$Entry" {
			t.Errorf("SourceName = %q", got)
		}
	})

	t.Run("class signature", func(t *testing.T) {
		want := "<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Iterable<TT;>;"
		if cf.GenericSignature != want {
			t.Errorf("GenericSignature = %q, want %q", cf.GenericSignature, want)
		}
	})

	t.Run("kind", func(t *testing.T) {
		if cf.IsInterface() || cf.IsEnum() || cf.IsAnnotation() || cf.IsRecord() {
			t.Error("expected a plain class")
		}
		if !cf.AccessFlags.IsPublic() {
			t.Error("expected public")
		}
	})

	t.Run("field signature", func(t *testing.T) {
		if len(cf.Fields) != 1 {
			t.Fatalf("expected 1 field, got %d", len(cf.Fields))
		}
		f := &cf.Fields[0]
		if got := f.Signature(); got != "Ljava/util/List<TT;>;" {
			t.Errorf("Signature() = %q", got)
		}
		if f.Deprecated {
			t.Error("field should not be deprecated")
		}
	})

	t.Run("method attributes", func(t *testing.T) {
		put := &cf.Methods[0]
		if got := put.Signature(); got != "(Ljava/lang/String;TT;)V" {
			t.Errorf("Signature() = %q", got)
		}
		if put.Erased() {
			t.Error("put has a generic signature")
		}
		names := put.ParameterNames()
		if len(names) != 2 || names[0] != "key" || names[1] != "value" {
			t.Errorf("ParameterNames() = %v", names)
		}
		if len(put.Exceptions) != 1 || put.Exceptions[0] != "java/io/IOException" {
			t.Errorf("Exceptions = %v", put.Exceptions)
		}
		if !put.Deprecated {
			t.Error("put should be deprecated")
		}
	})

	t.Run("descriptor fallback", func(t *testing.T) {
		of := &cf.Methods[1]
		if got := of.Signature(); got != "([Ljava/lang/Object;)Lp/Box;" {
			t.Errorf("Signature() = %q", got)
		}
		if !of.Erased() {
			t.Error("of has no generic signature")
		}
		if of.ParameterNames() != nil {
			t.Error("expected no parameter names")
		}
		if !of.AccessFlags.IsVarargs() || !of.AccessFlags.IsStatic() {
			t.Error("expected static varargs")
		}
	})

	t.Run("inner classes", func(t *testing.T) {
		if len(cf.InnerClasses) != 1 {
			t.Fatalf("expected 1 inner class entry, got %d", len(cf.InnerClasses))
		}
		want := InnerClass{Name: "p/Box$Entry", Outer: "p/Box", SimpleName: "Entry", AccessFlags: AccPublic | AccStatic}
		if cf.InnerClasses[0] != want {
			t.Errorf("InnerClasses[0] = %+v, want %+v", cf.InnerClasses[0], want)
		}
	})
}

func TestParseRecord(t *testing.T) {
	b := newClassBuilder()
	data := b.Build(AccPublic|AccFinal, "p/Point", "java/lang/Record", nil, nil, nil,
		[]testAttr{b.attr("Record", []byte{0, 0})})
	cf, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !cf.IsRecord() || !cf.Record {
		t.Error("expected a record")
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	_, err := Parse(bytes.NewReader([]byte{0xCA, 0xFE, 0xBA, 0xBF, 0, 0, 0, 0}))
	if err == nil {
		t.Fatal("expected an error for bad magic")
	}
}

func TestParseRejectsUnknownConstant(t *testing.T) {
	b := newClassBuilder()
	b.Raw(ConstantTag(2), 0, 0)
	if _, err := Decode(b.Build(AccPublic, "p/A", "java/lang/Object", nil, nil, nil, nil)); err == nil {
		t.Fatal("expected an error for constant tag 2")
	}
}

func TestParseTruncated(t *testing.T) {
	b := newClassBuilder()
	data := b.Build(AccPublic, "p/A", "java/lang/Object", nil, nil, nil, nil)
	for _, n := range []int{0, 4, 10, len(data) - 1} {
		if _, err := Decode(data[:n]); err == nil {
			t.Errorf("expected an error when truncated to %d bytes", n)
		}
	}
}

func TestMalformedAttributeIsIgnored(t *testing.T) {
	b := newClassBuilder()
	data := b.Build(AccPublic, "p/A", "java/lang/Object", nil, nil, nil,
		[]testAttr{b.attr("InnerClasses", []byte{0, 3, 0})})
	cf, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cf.InnerClasses != nil {
		t.Errorf("InnerClasses = %v, want nil", cf.InnerClasses)
	}
}

func TestConstantPoolLookups(t *testing.T) {
	cp := ConstantPool{
		{},
		{tag: ConstantUtf8, text: "java/lang/String"},
		{tag: ConstantClass, index: 1},
		{tag: ConstantLong},
		{},
	}
	if got := cp.Utf8(1); got != "java/lang/String" {
		t.Errorf("Utf8(1) = %q", got)
	}
	if got := cp.ClassName(2); got != "java/lang/String" {
		t.Errorf("ClassName(2) = %q", got)
	}
	for _, idx := range []uint16{0, 3, 4, 100} {
		if cp.Utf8(idx) != "" || cp.ClassName(idx) != "" {
			t.Errorf("index %d should yield empty strings", idx)
		}
	}
	if cp.ClassName(1) != "" {
		t.Error("ClassName on a Utf8 entry should be empty")
	}
	if cp.Tag(3) != ConstantLong || cp.Tag(100) != 0 {
		t.Error("unexpected tags")
	}
}

func TestDecodeModifiedUtf8(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("abc"), "abc"},
		{[]byte{0xC0, 0x80}, "\x00"},
		{[]byte{0xC3, 0xA9}, "é"},
		{[]byte{0xE2, 0x82, 0xAC}, "€"},
		{[]byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}, "😀"},
		{[]byte{0xC3}, "\u00c3"},
	}
	for _, tt := range tests {
		if got := decodeModifiedUtf8(tt.in); got != tt.want {
			t.Errorf("decodeModifiedUtf8(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
