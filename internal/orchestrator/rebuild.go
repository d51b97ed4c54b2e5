package orchestrator

import (
	"optlink/internal/ir"
)

// rebuild substitutes the optimized method bodies back into unit's
// linked classes: public-instance
// methods come from the owning Class's container, everything else from
// the matching static-like namespace slot.
func (o *Orchestrator) rebuild(unit *ir.LinkingUnit) *ir.LinkingUnit {
	newClasses := make([]*ir.LinkedClass, len(unit.Classes))
	for i, lc := range unit.Classes {
		isInterface := lc.Kind.IsInterfaceLike()
		methods := make([]ir.Versioned[ir.MethodDef], 0, len(lc.Methods))
		for _, v := range lc.Methods {
			name := v.Value.EncodedName
			ns := v.Value.Flags.Namespace

			var (
				impl interface{ OutputVersioned(ir.MethodFlags) ir.Versioned[ir.MethodDef] }
				found bool
			)
			if ns == ir.PublicInstance && !isInterface {
				if c, ok := o.model.Class(lc.EncodedName); ok {
					impl, found = c.LocalMethod(name)
				}
			} else if arr, ok := o.model.StaticNamespaces(lc.EncodedName); ok {
				impl, found = arr[ns].LookupMethod(name)
			}

			if !found {
				methods = append(methods, v)
				continue
			}
			methods = append(methods, impl.OutputVersioned(v.Value.Flags))
		}
		newClasses[i] = lc.Optimized(methods)
	}
	return &ir.LinkingUnit{CoreSpec: unit.CoreSpec, Classes: newClasses, ModuleInitializers: unit.ModuleInitializers}
}
