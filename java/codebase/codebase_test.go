package codebase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const utilSource = `package p;

public class Util {
    public static int twice(int x) { return x * 2; }
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func openProject(t *testing.T) (*Codebase, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "p", "Util.java"), utilSource)
	c, err := Open(context.Background(), root)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, root
}

func TestOpenIndexesSources(t *testing.T) {
	c, root := openProject(t)
	cls := c.FindClass("p.Util")
	require.NotNil(t, cls)
	assert.Equal(t, filepath.Join(c.RootDir(), "src", "p", "Util.java"), cls.SourceFile)
	assert.Equal(t, []string{filepath.Join(root, "src")}, c.SourceRoots())
}

func TestUpdateFileReplacesDeclarations(t *testing.T) {
	c, _ := openProject(t)
	path := filepath.Join(c.RootDir(), "src", "p", "Util.java")

	c.UpdateFile(path, []byte("package p; public class Helper {}"), 2)
	assert.Nil(t, c.FindClass("p.Util"))
	assert.NotNil(t, c.FindClass("p.Helper"))
	assert.Equal(t, int32(2), c.GetFile(path).Version)

	c.CloseFile(path)
	assert.Nil(t, c.GetFile(path))
	assert.NotNil(t, c.FindClass("p.Helper"), "closing keeps the last indexed version")

	c.RemoveFile(path)
	assert.Nil(t, c.FindClass("p.Helper"))
}

func TestCompleteUsesOpenText(t *testing.T) {
	c, _ := openProject(t)
	path := filepath.Join(c.RootDir(), "src", "p", "A.java")
	src := "package p; class A { void m() { Util.tw } }"
	c.UpdateFile(path, []byte(src), 1)

	ps, err := c.Complete(context.Background(), path, strings.Index(src, "tw")+2)
	require.NoError(t, err)
	require.NotEmpty(t, ps)
	assert.Equal(t, "twice", ps[0].Name)
}

func TestLSPCompletion(t *testing.T) {
	c, _ := openProject(t)
	ls := newLSPServerFor(c)
	path := filepath.Join(c.RootDir(), "src", "p", "A.java")
	uri := pathToURI(path)
	src := "package p;\nclass A {\n  void m() { Util.tw }\n}\n"
	require.NoError(t, ls.textDocumentDidOpen(&glsp.Context{}, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "java", Version: 1, Text: src},
	}))

	result, err := ls.textDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 2, Character: 20},
		},
	})
	require.NoError(t, err)
	list, ok := result.(*protocol.CompletionList)
	require.True(t, ok, "got %T", result)
	require.NotEmpty(t, list.Items)

	item := list.Items[0]
	assert.Equal(t, "twice", item.Label)
	assert.Equal(t, protocol.CompletionItemKindMethod, *item.Kind)
	assert.Equal(t, "00000", *item.SortText)
	edit, ok := item.TextEdit.(protocol.TextEdit)
	require.True(t, ok)
	assert.Equal(t, protocol.Position{Line: 2, Character: 18}, edit.Range.Start)
	assert.Equal(t, protocol.Position{Line: 2, Character: 20}, edit.Range.End)
}

func TestLSPDefinitionAndHover(t *testing.T) {
	c, _ := openProject(t)
	ls := newLSPServerFor(c)
	path := filepath.Join(c.RootDir(), "src", "p", "A.java")
	uri := pathToURI(path)
	src := "package p;\nclass A {\n  int n = Util.twice(1);\n}\n"
	c.UpdateFile(path, []byte(src), 1)
	at := protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: 2, Character: 16},
	}

	result, err := ls.textDocumentDefinition(&glsp.Context{}, &protocol.DefinitionParams{TextDocumentPositionParams: at})
	require.NoError(t, err)
	loc, ok := result.(protocol.Location)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, pathToURI(filepath.Join(c.RootDir(), "src", "p", "Util.java")), loc.URI)
	assert.Equal(t, protocol.Position{Line: 3, Character: 22}, loc.Range.Start)

	hover, err := ls.textDocumentHover(&glsp.Context{}, &protocol.HoverParams{TextDocumentPositionParams: at})
	require.NoError(t, err)
	require.NotNil(t, hover)
	mc, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Contains(t, mc.Value, "twice[METHOD]{Lp.Util;, (I)I, (x)}")
}

func TestLSPHoverOnNothing(t *testing.T) {
	c, _ := openProject(t)
	ls := newLSPServerFor(c)
	path := filepath.Join(c.RootDir(), "src", "p", "A.java")
	c.UpdateFile(path, []byte("package p;\nclass A {}\n"), 1)

	hover, err := ls.textDocumentHover(&glsp.Context{}, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI(path)},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, hover)
}

func TestPositions(t *testing.T) {
	content := []byte("ab\né\U0001F600x\n")
	tests := []struct {
		pos    protocol.Position
		offset int
	}{
		{protocol.Position{Line: 0, Character: 0}, 0},
		{protocol.Position{Line: 0, Character: 2}, 2},
		{protocol.Position{Line: 1, Character: 1}, 5},
		{protocol.Position{Line: 1, Character: 3}, 9},
		{protocol.Position{Line: 1, Character: 4}, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.offset, offsetAt(content, tt.pos), "offsetAt(%v)", tt.pos)
		assert.Equal(t, tt.pos, positionAt(content, tt.offset), "positionAt(%d)", tt.offset)
	}
	assert.Equal(t, 2, offsetAt(content, protocol.Position{Line: 0, Character: 40}), "clamped to the line end")
}

func TestURIRoundTrip(t *testing.T) {
	path, err := uriToPath(pathToURI("/tmp/a b/A.java"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a b/A.java", path)
}
