package orchestrator

import (
	"optlink/internal/hierarchy"
	"optlink/internal/invariant"
	"optlink/internal/ir"
)

// processClassChange reconciles one class node's own container against
// its freshly linked definition, transitions its instantiation/interface
// state, tags whatever that invalidates, and returns the change set to
// propagate to its subclasses.
func (o *Orchestrator) processClassChange(c *hierarchy.Class, lc *ir.LinkedClass, parentChanges map[string]struct{}) map[string]struct{} {
	// Step 1-2: reconcile own container, compute the local change set.
	added, changed, deleted := c.UpdateOwnContainer(lc)
	methodsChangedHere := make(map[string]struct{}, len(added)+len(changed)+len(deleted))
	for _, n := range added {
		methodsChangedHere[n] = struct{}{}
	}
	for _, n := range changed {
		methodsChangedHere[n] = struct{}{}
	}
	for _, n := range deleted {
		methodsChangedHere[n] = struct{}{}
	}

	// Step 3: propagate parent changes minus locally-overridden names,
	// plus this level's own changes.
	localNames := c.OwnMethodNames()
	propagated := make(map[string]struct{}, len(parentChanges)+len(methodsChangedHere))
	for n := range parentChanges {
		if _, overridden := localNames[n]; !overridden {
			propagated[n] = struct{}{}
		}
	}
	for n := range methodsChangedHere {
		propagated[n] = struct{}{}
	}

	// Step 4: interface set transition.
	oldInterfaces := c.Interfaces()
	newInterfaces := make(map[string]*hierarchy.InterfaceType, len(lc.Ancestors))
	for _, name := range lc.Ancestors {
		newInterfaces[name] = o.model.InterfaceType(name)
	}
	c.SetInterfaces(newInterfaces)

	// Step 5: instantiation state transition.
	was := c.IsInstantiated()
	now := lc.HasInstances
	switch {
	case was && !now:
		invariant.InstantiationRegression(o.log, c.EncodedName)

	case !was && now:
		allNames := allMethodNames(c)
		for _, it := range newInterfaces {
			it.AddInstantiatedSubclass(c)
		}
		for _, it := range newInterfaces {
			for name := range allNames {
				it.TagDynamicCallersOf(name)
			}
		}

	case was && now:
		for name, it := range newInterfaces {
			if _, stillPresent := oldInterfaces[name]; stillPresent {
				for name := range propagated {
					it.TagDynamicCallersOf(name)
				}
			}
		}
		if !sameInterfaceSet(oldInterfaces, newInterfaces) {
			allNames := allMethodNames(c)
			for name, it := range symmetricDifference(oldInterfaces, newInterfaces) {
				_ = name
				for mname := range allNames {
					it.TagDynamicCallersOf(mname)
				}
			}
		}
	}
	c.SetInstantiated(now)

	// Step 6: tag static callers of this class's own interface type for
	// every propagated name.
	ownIntf := o.model.InterfaceType(c.EncodedName)
	for name := range propagated {
		ownIntf.TagStaticCallersOf(int(ir.PublicInstance), name)
	}

	// Step 7: module accessor elidability and record inlineability. A
	// change in either tags the static callers of this class's
	// constructors.
	elidableChanged := false
	if lc.Kind == ir.KindModuleClass {
		ctorBody, hasCtorBody := o.resolveCtorBody(c.EncodedName)
		elidable := hierarchy.IsElidableModuleAccessor(c.EncodedName, ctorBody, hasCtorBody, o.resolveCtorBody)
		elidableChanged = elidable != c.HasElidableModuleAccessor()
		c.SetHasElidableModuleAccessor(elidable)
	}
	rec, inlineable := hierarchy.DeriveInlineableRecord(c.EncodedName, lc.OptimizerHints.RecordInlineable, c.ReverseParentChain())
	if c.SetInlineableState(inlineable, rec) || elidableChanged {
		if arr, ok := o.model.StaticNamespaces(c.EncodedName); ok {
			ctorNS := arr[ir.Constructor]
			for name := range ctorNS.AllMethods() {
				ownIntf.TagStaticCallersOf(int(ir.Constructor), name)
			}
		}
	}

	return propagated
}

// resolveCtorBody looks up className's init___ constructor body, used by
// elidability analysis for mixin/delegation checks.
func (o *Orchestrator) resolveCtorBody(className string) (*ir.Tree, bool) {
	arr, ok := o.model.StaticNamespaces(className)
	if !ok {
		return nil, false
	}
	ctor, ok := arr[ir.Constructor].LookupMethod("init___")
	if !ok {
		return nil, false
	}
	return ctor.Body()
}

func allMethodNames(c *hierarchy.Class) map[string]struct{} {
	merged := c.AllMethods()
	out := make(map[string]struct{}, len(merged))
	for name := range merged {
		out[name] = struct{}{}
	}
	return out
}

func sameInterfaceSet(a, b map[string]*hierarchy.InterfaceType) bool {
	if len(a) != len(b) {
		return false
	}
	for name := range a {
		if _, ok := b[name]; !ok {
			return false
		}
	}
	return true
}

// symmetricDifference returns the interface types present in exactly
// one of a, b.
func symmetricDifference(a, b map[string]*hierarchy.InterfaceType) map[string]*hierarchy.InterfaceType {
	out := make(map[string]*hierarchy.InterfaceType)
	for name, it := range a {
		if _, ok := b[name]; !ok {
			out[name] = it
		}
	}
	for name, it := range b {
		if _, ok := a[name]; !ok {
			out[name] = it
		}
	}
	return out
}
