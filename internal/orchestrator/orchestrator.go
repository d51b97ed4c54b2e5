// Package orchestrator implements the pass orchestrator: the `Update`
// entry point that runs UPDATE PASS (mutate the hierarchy, tag affected
// methods) followed by PROCESS PASS (optimize tagged methods in
// parallel), and rebuilds the linking unit from the result.
//
// Orchestrator is the one long-lived mutable value a caller keeps across
// runs: it owns the hierarchy.Model and the method.Scheduler, and
// nothing about a run's state survives outside this struct.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"

	"optlink/internal/hierarchy"
	"optlink/internal/ir"
	"optlink/internal/method"
	"optlink/internal/optapi"
)

// Orchestrator is not re-entrant: Update acquires runMu for its whole
// duration, releasing it on every exit path. log is only valid for the
// duration of the Update call currently holding runMu — it is set at
// the top of Update and cleared in a defer, never touched outside that
// window.
type Orchestrator struct {
	runMu sync.Mutex

	model *hierarchy.Model
	scheduler *method.Scheduler
	core optapi.Core
	log commonlog.Logger
}

// New returns an orchestrator with an empty model — the first Update
// call against it runs in batch mode.
func New(core optapi.Core) *Orchestrator {
	return &Orchestrator{
		model: hierarchy.NewModel(),
		scheduler: method.NewScheduler(),
		core: core,
	}
}

// Update takes and returns a LinkingUnit, running UPDATE PASS then
// PROCESS PASS. logger is acquired for the duration of this one run and
// cleared on every exit path, including panics recovered by the caller.
func (o *Orchestrator) Update(ctx context.Context, unit *ir.LinkingUnit, logger commonlog.Logger) (*ir.LinkingUnit, error) {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	o.log = logger
	defer func() { o.log = nil }()

	batch := o.model.IsBatch()
	o.log.Infof("update: %d classes, batch=%v", len(unit.Classes), batch)

	if err := o.updatePass(ctx, unit, batch); err != nil {
		return nil, fmt.Errorf("optlink: update pass: %w", err)
	}

	if err := o.processPass(ctx); err != nil {
		return nil, fmt.Errorf("optlink: process pass: %w", err)
	}

	return o.rebuild(unit), nil
}
