package optcore

import (
	"optlink/internal/ir"
	"optlink/internal/optapi"
)

// forwarderInline replaces a static call to a method flagged is_forwarder
// with that method's original (not yet optimized) body,
// fetched through GetMethodBody so the inlining method is registered as
// a body-asker and re-tagged if the forwarder's body later changes.
type forwarderInline struct{}

func (forwarderInline) Name() string { return "forwarder-inline" }

func (forwarderInline) Apply(_ string, body *ir.Tree, hooks optapi.Hooks) (*ir.Tree, bool) {
	changed := false
	out := rewriteTree(body, func(t *ir.Tree) *ir.Tree {
		if t.Kind != ir.NStaticCall {
			return t
		}
		ref, ok := hooks.StaticCall(t.ClassName, t.CallNamespace, t.Name)
		if !ok || !ref.Attributes().IsForwarder {
			return t
		}
		forwarderBody, ok := hooks.GetMethodBody(ref)
		if !ok || forwarderBody == nil {
			return t
		}
		changed = true
		return cloneTree(forwarderBody)
	})
	return out, changed
}
