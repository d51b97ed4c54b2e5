package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"optlink/internal/ir"
	"optlink/internal/lsp"
	"optlink/internal/optcore"
	"optlink/internal/orchestrator"
)

func main() {
	commonlog.Configure(1, nil)
	logger := commonlog.GetLogger("optlink.cli")

	if len(os.Args) < 2 {
		fmt.Println("Usage: optlink-cli <unit.json>")
		os.Exit(1)
	}

	path := os.Args[1]
	raw, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	unit, err := lsp.ParseLinkingUnit(raw, path)
	if err != nil {
		color.Red("❌ %s: %s", path, err)
		os.Exit(1)
	}

	orch := orchestrator.New(optcore.New())
	optimized, err := runOnce(orch, unit, logger)
	if err != nil {
		color.Red("❌ %s: %s", path, err)
		os.Exit(1)
	}

	out, err := lsp.RenderLinkingUnit(optimized)
	if err != nil {
		color.Red("failed to render result: %s", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	color.Green("✅ %s: %d classes optimized", path, len(optimized.Classes))
}

// runOnce drives one Update call, recovering a fatal invariant violation
// (those panic rather than return an error) into a plain error so the
// CLI can report it instead of crashing.
func runOnce(orch *orchestrator.Orchestrator, unit *ir.LinkingUnit, logger commonlog.Logger) (result *ir.LinkingUnit, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return orch.Update(context.Background(), unit, logger)
}
