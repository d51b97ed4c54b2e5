package optcore

import (
	"optlink/internal/ir"
	"optlink/internal/optapi"
)

// deadStoreElim drops an NLocalSet whose local is never read again
// before being overwritten or the block ends. No aliasing in this IR, so
// the liveness check is exact rather than conservative.
type deadStoreElim struct{}

func (deadStoreElim) Name() string { return "dead-store-elim" }

func (deadStoreElim) Apply(_ string, body *ir.Tree, _ optapi.Hooks) (*ir.Tree, bool) {
	changed := false
	out := rewriteTree(body, func(t *ir.Tree) *ir.Tree {
		if t.Kind != ir.NBlock {
			return t
		}
		stmts := t.Children
		keep := make([]bool, len(stmts))
		for i := range stmts {
			keep[i] = true
		}
		for i, stmt := range stmts {
			if stmt.Kind != ir.NLocalSet {
				continue
			}
			if !localReadBeforeNextSet(stmts[i+1:], stmt.Name) {
				keep[i] = false
			}
		}
		allKept := true
		for _, k := range keep {
			if !k {
				allKept = false
				break
			}
		}
		if allKept {
			return t
		}
		changed = true
		newStmts := make([]*ir.Tree, 0, len(stmts))
		for i, stmt := range stmts {
			if keep[i] {
				newStmts = append(newStmts, stmt)
			}
		}
		cp := cloneTree(t)
		cp.Children = newStmts
		return cp
	})
	return out, changed
}

// localReadBeforeNextSet reports whether name is read anywhere in rest
// before a subsequent NLocalSet to the same name shadows it.
func localReadBeforeNextSet(rest []*ir.Tree, name string) bool {
	for _, stmt := range rest {
		if treeReads(stmt, name) {
			return true
		}
		if stmt.Kind == ir.NLocalSet && stmt.Name == name {
			return false
		}
	}
	return false
}

func treeReads(t *ir.Tree, name string) bool {
	if t == nil {
		return false
	}
	if t.Kind == ir.NVarRef && t.Name == name {
		return true
	}
	for _, c := range t.Children {
		if treeReads(c, name) {
			return true
		}
	}
	return false
}
