// Package lsp exposes the incremental optimizer through an editor-facing
// language-server loop: a client sends one linking-unit snapshot per
// "document", and the handler calls through to an Orchestrator and
// reports the optimized result back as a diagnostic-free notification,
// or as diagnostics when the update fails an invariant.
//
// This is not a Move frontend: there is no grammar here, and a
// "document" is a JSON encoding of a linking unit rather than source
// text. That mirrors the original handler's shape (content/ast maps
// guarded by one mutex, Initialize/Initialized/Shutdown passthroughs,
// diagnostics pushed back over a notification) with the parse step
// replaced by the unit decode in wire.go.
package lsp

import (
	"context"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"optlink/internal/ir"
	"optlink/internal/orchestrator"
)

// optimizedNotification is the custom method this handler pushes the
// optimized linking unit back on after a successful update.
const optimizedNotification = "optlink/optimized"

// Handler implements the glsp protocol.Handler function set this server
// advertises. One Handler serves every "document" a client opens against
// a single underlying Orchestrator: every snapshot is a run against the
// same incrementally maintained hierarchy.
type Handler struct {
	mu sync.RWMutex
	units map[string]*ir.LinkingUnit

	orch *orchestrator.Orchestrator
	log commonlog.Logger
}

// NewHandler returns a Handler driving orch.
func NewHandler(orch *orchestrator.Orchestrator) *Handler {
	return &Handler{
		units: make(map[string]*ir.LinkingUnit),
		orch: orch,
		log: commonlog.GetLogger("optlink.lsp"),
	}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	h.log.Info("initialize")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change: ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name: "optlink",
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	h.log.Info("initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	h.log.Info("shutdown")
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.applyUnit(ctx, params.TextDocument.URI, []byte(params.TextDocument.Text))
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return fmt.Errorf("optlink/lsp: expected a full-document change event")
	}
	return h.applyUnit(ctx, params.TextDocument.URI, []byte(change.Text))
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	h.mu.Lock()
	delete(h.units, string(params.TextDocument.URI))
	h.mu.Unlock()
	return nil
}

// applyUnit decodes raw as a linking-unit snapshot, runs it through the
// orchestrator, and reports back either the optimized unit or a
// diagnostic describing why the run failed.
func (h *Handler) applyUnit(ctx *glsp.Context, uri protocol.URI, raw []byte) error {
	unit, err := ParseLinkingUnit(raw, string(uri))
	if err != nil {
		sendDiagnostics(ctx, uri, decodeDiagnostic(err))
		return nil
	}

	optimized, err := h.runUpdate(uri, unit)
	if err != nil {
		sendDiagnostics(ctx, uri, updateDiagnostic(err))
		return nil
	}

	h.mu.Lock()
	h.units[string(uri)] = optimized
	h.mu.Unlock()

	sendDiagnostics(ctx, uri, nil)
	body, err := RenderLinkingUnit(optimized)
	if err != nil {
		return fmt.Errorf("optlink/lsp: render optimized unit: %w", err)
	}
	ctx.Notify(optimizedNotification, rawNotification{URI: uri, Unit: body})
	return nil
}

// runUpdate calls the orchestrator, recovering a fatal invariant
// violation into an error so one bad
// snapshot cannot take the whole server process down.
func (h *Handler) runUpdate(uri protocol.URI, unit *ir.LinkingUnit) (optimized *ir.LinkingUnit, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("optlink: %v", r)
		}
	}()
	return h.orch.Update(context.Background(), unit, h.log)
}

type rawNotification struct {
	URI protocol.URI `json:"uri"`
	Unit []byte `json:"unit"`
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
