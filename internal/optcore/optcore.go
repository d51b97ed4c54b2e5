// Package optcore is the concrete OptimizerCore: a pure-ish transform
// (thisType, MethodDef) -> MethodDef driven entirely through
// optapi.Hooks, never touching hierarchy internals. Its pass pipeline
// (named passes run in sequence to a fixpoint) follows the same shape
// as an SSA-level optimization pipeline, retargeted to this package's
// generic ir.Tree instead of an instruction-level IR.
package optcore

import (
	"optlink/internal/ir"
	"optlink/internal/optapi"
)

// Pass is one named rewrite over a method body.
type Pass interface {
	Name() string
	Apply(thisType string, body *ir.Tree, hooks optapi.Hooks) (*ir.Tree, bool)
}

// Core runs a fixed pipeline of passes to a fixpoint, capped to bound
// pathological oscillation between passes.
type Core struct {
	passes []Pass
	maxRound int
}

var _ optapi.Core = (*Core)(nil)

// New returns the default pipeline: devirtualization, constant folding,
// dead-store elimination, forwarder inlining, in that order.
func New() *Core {
	return &Core{
		passes: []Pass{
			devirtualize{},
			constantFold{},
			deadStoreElim{},
			forwarderInline{},
		},
		maxRound: 8,
	}
}

// Optimize implements optapi.Core.
func (c *Core) Optimize(thisType string, original *ir.Tree, hints ir.OptimizerHints, hooks optapi.Hooks) (*ir.Tree, ir.OptimizerHints, error) {
	body := original
	for round := 0; round < c.maxRound; round++ {
		changedAny := false
		for _, p := range c.passes {
			next, changed := p.Apply(thisType, body, hooks)
			if changed {
				body = next
				changedAny = true
			}
		}
		if !changedAny {
			break
		}
	}
	return body, hints, nil
}

func cloneTree(t *ir.Tree) *ir.Tree {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Children != nil {
		cp.Children = make([]*ir.Tree, len(t.Children))
		for i, c := range t.Children {
			cp.Children[i] = cloneTree(c)
		}
	}
	return &cp
}
