package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"optlink/internal/lsp"
	"optlink/internal/optcore"
	"optlink/internal/orchestrator"
)

const lsName = "optlink"

var version = "0.0.1"

func main() {
	commonlog.Configure(1, nil)

	orch := orchestrator.New(optcore.New())
	h := lsp.NewHandler(orch)

	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("starting optlink LSP server, version", version)
	if err := s.RunStdio(); err != nil {
		log.Println("optlink LSP server error:", err)
		os.Exit(1)
	}
}
