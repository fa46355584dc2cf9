package codebase

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dhamidi/sai-complete/java/complete"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "sai"

type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
		TextDocumentDefinition: ls.textDocumentDefinition,
		TextDocumentHover:      ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

// newLSPServerFor serves an already opened codebase.
func newLSPServerFor(c *Codebase) *LSPServer {
	ls := NewLSPServer("test")
	ls.codebase = c
	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	c, err := Open(context.Background(), rootDir)
	if err != nil {
		return nil, err
	}
	ls.codebase = c

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{".", "@", ":"},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	w, err := NewFileWatcher(ls.codebase, ls.codebase.SourceRoots()...)
	if err != nil {
		log.Warningf("file watcher disabled: %s", err)
		return nil
	}
	ls.watcher = w
	w.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
	}
	if ls.codebase != nil {
		return ls.codebase.Close()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text), params.TextDocument.Version)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text), params.TextDocument.Version)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.CloseFile(path)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		version := int32(0)
		if f := ls.codebase.GetFile(path); f != nil {
			version = f.Version
		}
		ls.codebase.UpdateFile(path, []byte(*params.Text), version)
	} else {
		ls.codebase.ScanFile(path)
	}
	return nil
}

// document returns the path and text of uri and the byte offset of pos.
func (ls *LSPServer) document(uri protocol.DocumentUri, pos protocol.Position) (string, []byte, int, error) {
	path, err := uriToPath(uri)
	if err != nil {
		return "", nil, 0, err
	}
	content, err := ls.codebase.Content(path)
	if err != nil {
		return "", nil, 0, err
	}
	return path, content, offsetAt(content, pos), nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, content, offset, err := ls.document(params.TextDocument.URI, params.Position)
	if err != nil {
		return nil, nil
	}

	proposals, err := ls.codebase.Complete(context.Background(), path, offset)
	if err != nil {
		return nil, err
	}

	items := make([]protocol.CompletionItem, 0, len(proposals))
	for i, p := range proposals {
		items = append(items, completionItem(content, i, p))
	}
	return &protocol.CompletionList{Items: items}, nil
}

func completionItem(content []byte, rank int, p *complete.Proposal) protocol.CompletionItem {
	kind := toProtocolKind(p.Kind)
	detail := proposalDetail(p)
	sortText := fmt.Sprintf("%05d", rank)
	item := protocol.CompletionItem{
		Label:    p.Name,
		Kind:     &kind,
		Detail:   &detail,
		SortText: &sortText,
		TextEdit: protocol.TextEdit{
			Range:   rangeOf(content, p.Replace.Start, p.Replace.End),
			NewText: p.Completion,
		},
	}
	if p.Kind != complete.ProposalPackage && p.Kind != complete.ProposalType {
		filter := p.Name
		item.FilterText = &filter
	}
	if p.Deprecated {
		item.Tags = []protocol.CompletionItemTag{protocol.CompletionItemTagDeprecated}
	}
	if p.Element != nil && p.Element.Doc != "" {
		item.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: p.Element.Doc}
	}
	return item
}

func proposalDetail(p *complete.Proposal) string {
	switch {
	case p.Signature == "" && p.DeclarationSignature == "":
		return p.Kind.String()
	case p.DeclarationSignature == "":
		return p.Signature
	}
	return p.DeclarationSignature + " " + p.Signature
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	path, _, offset, err := ls.document(params.TextDocument.URI, params.Position)
	if err != nil {
		return nil, nil
	}
	elements, err := ls.codebase.Select(context.Background(), path, offset, 0)
	if err != nil {
		return nil, err
	}
	var locations []protocol.Location
	for _, e := range elements {
		if loc, ok := ls.location(e); ok {
			locations = append(locations, loc)
		}
	}
	switch len(locations) {
	case 0:
		return nil, nil
	case 1:
		return locations[0], nil
	}
	return locations, nil
}

// location places an element declared in a file on disk.
func (ls *LSPServer) location(e *complete.Element) (protocol.Location, bool) {
	if e.Path == "" || e.Offset < 0 || !filepath.IsAbs(e.Path) {
		return protocol.Location{}, false
	}
	content, err := ls.codebase.Content(e.Path)
	if err != nil {
		return protocol.Location{}, false
	}
	end := e.Offset + len(e.Name)
	if end > len(content) {
		end = e.Offset
	}
	return protocol.Location{
		URI:   pathToURI(e.Path),
		Range: rangeOf(content, e.Offset, end),
	}, true
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, _, offset, err := ls.document(params.TextDocument.URI, params.Position)
	if err != nil {
		return nil, nil
	}
	elements, err := ls.codebase.Select(context.Background(), path, offset, 0)
	if err != nil || len(elements) == 0 {
		return nil, err
	}
	var sb strings.Builder
	for i, e := range elements {
		if i > 0 {
			sb.WriteString("\n\n---\n\n")
		}
		sb.WriteString("```\n")
		sb.WriteString(e.String())
		sb.WriteString("\n```")
		if e.Doc != "" {
			sb.WriteString("\n\n")
			sb.WriteString(e.Doc)
		}
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: sb.String()},
	}, nil
}

func toProtocolKind(kind complete.ProposalKind) protocol.CompletionItemKind {
	switch kind {
	case complete.ProposalKeyword:
		return protocol.CompletionItemKindKeyword
	case complete.ProposalLocalVariable, complete.ProposalVariableDeclaration:
		return protocol.CompletionItemKindVariable
	case complete.ProposalField:
		return protocol.CompletionItemKindField
	case complete.ProposalMethod, complete.ProposalMethodDeclaration, complete.ProposalMethodNameReference:
		return protocol.CompletionItemKindMethod
	case complete.ProposalConstructorInvocation, complete.ProposalAnonymousClass:
		return protocol.CompletionItemKindConstructor
	case complete.ProposalType:
		return protocol.CompletionItemKindClass
	case complete.ProposalPackage:
		return protocol.CompletionItemKindModule
	case complete.ProposalAnnotationAttribute:
		return protocol.CompletionItemKindProperty
	default:
		return protocol.CompletionItemKindText
	}
}

// offsetAt converts an LSP position, counted in UTF-16 code units, to a
// byte offset into content.
func offsetAt(content []byte, pos protocol.Position) int {
	line := 0
	i := 0
	for i < len(content) && line < int(pos.Line) {
		if content[i] == '\n' {
			line++
		}
		i++
	}
	units := 0
	for i < len(content) && content[i] != '\n' && units < int(pos.Character) {
		r, size := utf8.DecodeRune(content[i:])
		units += utf16.RuneLen(r)
		if units > int(pos.Character) {
			break
		}
		i += size
	}
	return i
}

// positionAt converts a byte offset into content to an LSP position.
func positionAt(content []byte, offset int) protocol.Position {
	if offset > len(content) {
		offset = len(content)
	}
	var line, char protocol.UInteger
	for i := 0; i < offset; {
		r, size := utf8.DecodeRune(content[i:])
		if r == '\n' {
			line++
			char = 0
		} else {
			char += protocol.UInteger(utf16.RuneLen(r))
		}
		i += size
	}
	return protocol.Position{Line: line, Character: char}
}

func rangeOf(content []byte, start, end int) protocol.Range {
	return protocol.Range{Start: positionAt(content, start), End: positionAt(content, end)}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
