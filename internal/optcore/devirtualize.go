package optcore

import (
	"optlink/internal/ir"
	"optlink/internal/optapi"
)

// devirtualize rewrites a dynamic (virtual) call into a direct call
// whenever hooks.DynamicCall resolves to exactly one possible target —
// the single-instantiated-subclass case that makes dependency tracking
// on dynamic calls pay off.
type devirtualize struct{}

func (devirtualize) Name() string { return "devirtualize" }

func (p devirtualize) Apply(thisType string, body *ir.Tree, hooks optapi.Hooks) (*ir.Tree, bool) {
	changed := false
	out := rewriteTree(body, func(t *ir.Tree) *ir.Tree {
		if t.Kind != ir.NDynamicCall {
			return t
		}
		targets := hooks.DynamicCall(t.ClassName, t.Name)
		if len(targets) != 1 {
			return t
		}
		direct := cloneTree(t)
		direct.Kind = ir.NStaticCall
		direct.CallNamespace = ir.PublicInstance
		direct.Name = targets[0].EncodedName()
		changed = true
		return direct
	})
	return out, changed
}

// rewriteTree applies f bottom-up over t, rebuilding any node whose
// children were rewritten and then offering the result to f itself.
func rewriteTree(t *ir.Tree, f func(*ir.Tree) *ir.Tree) *ir.Tree {
	if t == nil {
		return nil
	}
	if len(t.Children) == 0 {
		return f(t)
	}
	newChildren := make([]*ir.Tree, len(t.Children))
	childChanged := false
	for i, c := range t.Children {
		rc := rewriteTree(c, f)
		if rc != c {
			childChanged = true
		}
		newChildren[i] = rc
	}
	cur := t
	if childChanged {
		cur = cloneTree(t)
		cur.Children = newChildren
	}
	return f(cur)
}
