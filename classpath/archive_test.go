package classpath

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classBytes assembles a minimal public class extending Object.
func classBytes(internalName string) []byte {
	var buf bytes.Buffer
	w := func(v any) { binary.Write(&buf, binary.BigEndian, v) }
	utf8 := func(s string) {
		w(uint8(1))
		w(uint16(len(s)))
		buf.WriteString(s)
	}
	w(uint32(0xCAFEBABE))
	w(uint16(0))
	w(uint16(52))
	w(uint16(5))
	utf8(internalName)
	w(uint8(7))
	w(uint16(1))
	utf8("java/lang/Object")
	w(uint8(7))
	w(uint16(3))
	w(uint16(0x0021))
	w(uint16(2))
	w(uint16(4))
	w(uint16(0)) // interfaces
	w(uint16(0)) // fields
	w(uint16(0)) // methods
	w(uint16(0)) // attributes
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func writeJar(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestArchiveDirectoryAndJar(t *testing.T) {
	dir := t.TempDir()
	classes := filepath.Join(dir, "classes")
	writeFile(t, filepath.Join(classes, "com", "acme", "Widget.class"), classBytes("com/acme/Widget"))
	writeFile(t, filepath.Join(classes, "com", "acme", "Widget$Part.class"), classBytes("com/acme/Widget$Part"))
	writeFile(t, filepath.Join(classes, "module-info.class"), []byte("ignored"))

	jar := filepath.Join(dir, "lib.jar")
	writeJar(t, jar, map[string][]byte{
		"org/lib/Tool.class":          classBytes("org/lib/Tool"),
		"com/acme/Widget.class":       classBytes("com/acme/Widget"),
		"org/lib/Broken.class":        []byte("not a class"),
		"META-INF/versions/9/X.class": classBytes("X"),
	})

	a, err := OpenArchive(context.Background(), []string{classes, jar}, 16)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"com.acme", "org.lib"}, a.Packages())
	assert.Equal(t, []string{"com.acme.Widget"}, a.TypeNames("com.acme"))
	assert.Equal(t, []string{"org.lib.Broken", "org.lib.Tool"}, a.TypeNames("org.lib"))

	w := a.FindClass("com.acme.Widget")
	require.NotNil(t, w)
	assert.Equal(t, "Widget", w.SimpleName)
	assert.Equal(t, "java.lang.Object", w.SuperClass.String())
	assert.Equal(t, filepath.Join(classes, "com", "acme", "Widget.class"), w.SourceFile, "the directory comes first on the classpath")
	assert.Same(t, w, a.FindClass("com.acme.Widget"))

	tool := a.FindClass("org.lib.Tool")
	require.NotNil(t, tool)
	assert.Equal(t, jar+"!org/lib/Tool.class", tool.SourceFile)

	assert.Nil(t, a.FindClass("org.lib.Broken"))
	assert.Nil(t, a.FindClass("org.lib.Broken"))
	assert.Nil(t, a.FindClass("org.lib.Missing"))
}

func TestArchiveMissingEntry(t *testing.T) {
	_, err := OpenArchive(context.Background(), []string{filepath.Join(t.TempDir(), "nope.jar")}, 0)
	assert.Error(t, err)
}

func TestClassNameOf(t *testing.T) {
	tests := []struct {
		entry string
		want  string
		ok    bool
	}{
		{"java/util/Map$Entry.class", "java.util.Map$Entry", true},
		{"Top.class", "Top", true},
		{"java/util/package-info.class", "", false},
		{"module-info.class", "", false},
		{"META-INF/MANIFEST.MF", "", false},
		{"java/util/List.java", "", false},
	}
	for _, tt := range tests {
		got, ok := classNameOf(tt.entry)
		assert.Equal(t, tt.ok, ok, tt.entry)
		assert.Equal(t, tt.want, got, tt.entry)
	}
}
