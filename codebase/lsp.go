package codebase

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/gobra/config"
	"github.com/dhamidi/gobra/parser"
)

const lsName = "gobra"

var lspLog = commonlog.GetLogger("gobra.lsp")

type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string

	// PollInterval is how often the workspace is checked for changes on
	// disk. Zero disables the watcher.
	PollInterval time.Duration

	notifyMu sync.Mutex
	notify   glsp.NotifyFunc
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version:      version,
		PollInterval: 2 * time.Second,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

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

	cfg, err := config.LoadFrom(rootDir)
	if err != nil {
		lspLog.Errorf("%s; using defaults", err)
		cfg = config.Default()
	}
	ls.codebase = New(rootDir, cfg)
	ls.codebase.OnUpdate(ls.publish)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
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
	ls.notifyMu.Lock()
	ls.notify = ctx.Notify
	ls.notifyMu.Unlock()

	if ls.PollInterval > 0 {
		ls.watcher = NewFileWatcher(ls.codebase, ls.PollInterval)
		ls.watcher.Start()
		return nil
	}
	if err := ls.codebase.ScanAll(); err != nil {
		lspLog.Errorf("scan workspace: %s", err)
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
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
	return ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			return ls.codebase.UpdateFile(path, []byte(textChange.Text))
		}
	}
	return nil
}

// textDocumentDidClose drops unsaved edits by rereading the file from
// disk. A file that no longer exists is forgotten.
func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if err := ls.codebase.ScanFile(path); err != nil {
		ls.codebase.RemoveFile(path)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		return ls.codebase.UpdateFile(path, []byte(*params.Text))
	}
	return ls.codebase.ScanFile(path)
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.codebase.GetFile(path)
	if file == nil {
		return nil, nil
	}

	var symbols []protocol.DocumentSymbol
	for _, s := range file.Symbols() {
		detail := s.Kind.String()
		if s.Ghost {
			detail = "ghost " + detail
		}
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           s.Name,
			Detail:         &detail,
			Kind:           toProtocolSymbolKind(s.Kind),
			Range:          toProtocolRange(s.Span.Start, s.Span.End),
			SelectionRange: toProtocolRange(s.Ident.Start, s.Ident.End),
		})
	}
	return symbols, nil
}

// publish sends the diagnostics of a file to the client. Updates before
// the client finished initializing are dropped; the initial scan resends
// them.
func (ls *LSPServer) publish(file *FileInfo) {
	ls.notifyMu.Lock()
	notify := ls.notify
	ls.notifyMu.Unlock()
	if notify == nil {
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, diagnosticsParams(file))
}

func diagnosticsParams(file *FileInfo) protocol.PublishDiagnosticsParams {
	source := lsName
	severity := protocol.DiagnosticSeverityError

	diagnostics := []protocol.Diagnostic{}
	for _, d := range file.Diagnostics() {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toProtocolRange(d.Start, d.End),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return protocol.PublishDiagnosticsParams{
		URI:         pathToURI(file.Path),
		Diagnostics: diagnostics,
	}
}

func toProtocolRange(start, end parser.Position) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(start),
		End:   toProtocolPosition(end),
	}
}

// toProtocolPosition converts a 1-based position to the 0-based form of
// the protocol.
func toProtocolPosition(pos parser.Position) protocol.Position {
	line, col := pos.Line-1, pos.Column-1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(col),
	}
}

func toProtocolSymbolKind(kind SymbolKind) protocol.SymbolKind {
	switch kind {
	case SymbolFunction, SymbolPredicate:
		return protocol.SymbolKindFunction
	case SymbolMethod:
		return protocol.SymbolKindMethod
	case SymbolType:
		return protocol.SymbolKindStruct
	case SymbolConstant:
		return protocol.SymbolKindConstant
	default:
		return protocol.SymbolKindVariable
	}
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
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
