package orchestrator

import (
	"context"

	"optlink/internal/hierarchy"
	"optlink/internal/invariant"
	"optlink/internal/ir"
	"optlink/internal/parallel"
)

// updatePass walks unit through the four reconciliation steps:
// refreshing ancestor lists, reconciling static-like namespaces, walking
// the retained class tree for deletions and changes, and inserting new
// classes.
func (o *Orchestrator) updatePass(ctx context.Context, unit *ir.LinkingUnit, batch bool) error {
	newClasses := make(map[string]*ir.LinkedClass, len(unit.Classes))
	for _, lc := range unit.Classes {
		newClasses[lc.EncodedName] = lc
	}

	// Step A: refresh ancestor lists. No caller notification here —
	// ancestors are observed on demand (AncestorsOf).
	for _, lc := range unit.Classes {
		o.model.InterfaceType(lc.EncodedName).SetAncestors(lc.Ancestors)
	}

	// Step B: static-like namespaces.
	o.updateStaticNamespaces(unit, newClasses, batch)

	// Step C: class deletions and retained-class changes (incremental
	// only).
	if !batch {
		if obj := o.model.Object(); obj != nil {
			if _, ok := newClasses[obj.EncodedName]; !ok {
				invariant.ObjectDeleted(o.log)
			}
			o.walkRetained(obj, newClasses, nil)
		}
	}

	// Step D: class additions.
	return o.walkAdditions(ctx, unit, newClasses, batch)
}

// updateStaticNamespaces reconciles every class or interface's
// static-like namespace array against unit, deleting arrays for names
// no longer present and tagging static callers of any name that changed
// in an array that already existed.
func (o *Orchestrator) updateStaticNamespaces(unit *ir.LinkingUnit, newClasses map[string]*ir.LinkedClass, batch bool) {
	if !batch {
		for _, name := range o.model.StaticNamespaceNames() {
			if _, ok := newClasses[name]; ok {
				continue
			}
			arr, ok := o.model.StaticNamespaces(name)
			if !ok {
				continue
			}
			for _, ns := range arr {
				ns.MarkAllDeleted()
			}
			o.model.DeleteStaticNamespaces(name)
		}
	}

	for _, lc := range unit.Classes {
		arr, existed := o.model.StaticNamespaces(lc.EncodedName)
		if !existed {
			fresh := hierarchy.NewNamespaceArray(lc.EncodedName, o.scheduler)
			o.model.SetStaticNamespaces(lc.EncodedName, fresh)
			arr = &fresh
		}
		isInterface := lc.Kind.IsInterfaceLike()
		intf := o.model.InterfaceType(lc.EncodedName)
		for _, ns := range arr {
			_, changed, _ := ns.Update(lc, isInterface)
			if !existed {
				continue
			}
			for _, name := range changed {
				intf.TagStaticCallersOf(int(ns.Namespace), name)
			}
		}
	}
}

// walkRetained is the depth-first walk that keeps or deletes each class
// node, processing the change set for every node kept.
func (o *Orchestrator) walkRetained(c *hierarchy.Class, newClasses map[string]*ir.LinkedClass, parentChanges map[string]struct{}) {
	lc := newClasses[c.EncodedName]
	propagated := o.processClassChange(c, lc, parentChanges)

	for _, child := range c.Subclasses() {
		childLC, ok := newClasses[child.EncodedName]
		sameParent := ok && childLC.HasSuperClass && childLC.SuperClass == c.EncodedName
		if sameParent {
			o.walkRetained(child, newClasses, propagated)
			continue
		}
		o.deleteSubtree(child)
		c.RemoveSubclass(child.EncodedName)
	}
}

// deleteSubtree tags every method in c and its descendants as deleted,
// removes them from the class table, and runs "no-longer-instantiated"
// bookkeeping for any that were instantiated.
func (o *Orchestrator) deleteSubtree(c *hierarchy.Class) {
	for _, child := range c.Subclasses() {
		o.deleteSubtree(child)
	}
	c.MarkAllDeleted()
	if c.IsInstantiated() {
		for _, it := range c.Interfaces() {
			it.RemoveInstantiatedSubclass(c)
		}
		c.SetInstantiated(false)
	}
	o.model.DeleteClass(c.EncodedName)
}

// walkAdditions inserts every brand-new class named in unit, grouped by
// immediate superclass and inserted depth-first from each existing
// parent, root buckets running in parallel against their distinct
// existing parents.
func (o *Orchestrator) walkAdditions(ctx context.Context, unit *ir.LinkingUnit, newClasses map[string]*ir.LinkedClass, batch bool) error {
	childrenOf := make(map[string][]*ir.LinkedClass)
	var newRoots []*ir.LinkedClass

	for _, lc := range unit.Classes {
		if lc.Kind.IsInterfaceLike() {
			continue
		}
		if _, exists := o.model.Class(lc.EncodedName); exists {
			continue
		}
		if !lc.HasSuperClass {
			newRoots = append(newRoots, lc)
			continue
		}
		childrenOf[lc.SuperClass] = append(childrenOf[lc.SuperClass], lc)
	}

	if len(newRoots) > 0 && !batch {
		for _, lc := range newRoots {
			invariant.RootWithoutSuperclass(o.log, lc.EncodedName)
		}
	}
	for _, lc := range newRoots {
		c := o.addClass(lc, nil)
		if o.model.Object() == nil {
			o.model.SetObject(c)
		}
	}

	var roots []*hierarchy.Class
	for parentName, kids := range childrenOf {
		if p, ok := o.model.Class(parentName); ok {
			roots = append(roots, p)
			continue
		}
		if _, willCreate := newClasses[parentName]; willCreate {
			continue
		}
		invariant.UnknownParent(o.log, kids[0].EncodedName, parentName)
	}

	return parallel.ForEach(ctx, roots, func(_ context.Context, root *hierarchy.Class) error {
		o.insertChildren(root, childrenOf)
		return nil
	})
}

// addClass allocates and registers a brand-new class node, then runs its
// change-set processing with an empty inherited change set.
func (o *Orchestrator) addClass(lc *ir.LinkedClass, super *hierarchy.Class) *hierarchy.Class {
	c := hierarchy.NewClass(lc.EncodedName, lc.Kind, super, o.scheduler)
	o.model.RegisterClass(c)
	if super != nil {
		super.AddSubclass(c)
	}
	o.processClassChange(c, lc, nil)
	return c
}

func (o *Orchestrator) insertChildren(parent *hierarchy.Class, childrenOf map[string][]*ir.LinkedClass) {
	for _, lc := range childrenOf[parent.EncodedName] {
		child := o.addClass(lc, parent)
		o.insertChildren(child, childrenOf)
	}
}
