package orchestrator

import (
	"context"

	"optlink/internal/method"
	"optlink/internal/parallel"
)

// processPass drains the scheduled-methods queue and optimizes each one
// in parallel.
func (o *Orchestrator) processPass(ctx context.Context) error {
	scheduled := o.scheduler.Drain()
	o.log.Infof("process pass: %d methods scheduled", len(scheduled))

	return parallel.ForEach(ctx, scheduled, func(_ context.Context, m *method.Impl) error {
		hooks := &runHooks{orch: o, asker: m}
		return m.Process(o.core, hooks)
	})
}
