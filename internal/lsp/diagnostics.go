package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// decodeDiagnostic reports a malformed linking-unit snapshot: the
// equivalent of the original handler's parse-error diagnostic, just
// against the JSON unit encoding instead of Move source text.
func decodeDiagnostic(err error) []protocol.Diagnostic {
	return []protocol.Diagnostic{zeroPositionDiagnostic("optlink-decode", err.Error())}
}

// updateDiagnostic reports an orchestrator run that failed, whether by
// a fatal invariant violation or a propagated context error.
func updateDiagnostic(err error) []protocol.Diagnostic {
	return []protocol.Diagnostic{zeroPositionDiagnostic("optlink-update", err.Error())}
}

// zeroPositionDiagnostic is the best this boundary can do for a
// location: a linking unit carries no source spans, so every diagnostic
// anchors to the top of the document.
func zeroPositionDiagnostic(source, message string) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 1},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString(source),
		Message:  message,
	}
}

func sendDiagnostics(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
