package orchestrator

import (
	"optlink/internal/ir"
	"optlink/internal/method"
	"optlink/internal/optapi"
)

// runHooks is the optapi.Hooks implementation handed to OptimizerCore
// for exactly one method's optimization: every call both
// answers a query and registers asker as a dependent of whatever
// answered it.
type runHooks struct {
	orch *Orchestrator
	asker *method.Impl
}

var _ optapi.Hooks = (*runHooks)(nil)

func (h *runHooks) GetMethodBody(target optapi.MethodRef) (*ir.Tree, bool) {
	impl, ok := target.(*method.Impl)
	if !ok {
		return target.Body()
	}
	body, has := impl.Body()
	impl.RegisterBodyAsker(h.asker)
	return body, has
}

func (h *runHooks) DynamicCall(interfaceName, methodName string) []optapi.MethodRef {
	it, ok := h.orch.model.LookupInterfaceType(interfaceName)
	if !ok {
		return nil
	}
	it.RegisterDynamicCaller(methodName, h.asker)

	var out []optapi.MethodRef
	for _, c := range it.InstantiatedSubclasses() {
		if m, ok := c.LookupMethod(methodName); ok {
			out = append(out, m)
		}
	}
	return out
}

func (h *runHooks) StaticCall(className string, namespace ir.Namespace, methodName string) (optapi.MethodRef, bool) {
	it := h.orch.model.InterfaceType(className)
	it.RegisterStaticCaller(int(namespace), methodName, h.asker)

	if namespace == ir.PublicInstance {
		c, ok := h.orch.model.Class(className)
		if !ok {
			return nil, false
		}
		return c.LookupMethod(methodName)
	}
	arr, ok := h.orch.model.StaticNamespaces(className)
	if !ok {
		return nil, false
	}
	return arr[namespace].LookupMethod(methodName)
}

func (h *runHooks) AncestorsOf(interfaceName string) []string {
	it := h.orch.model.InterfaceType(interfaceName)
	return it.Ancestors(h.asker)
}

func (h *runHooks) HasElidableModuleAccessor(className string) bool {
	c, ok := h.orch.model.Class(className)
	if !ok {
		return false
	}
	return c.HasElidableModuleAccessor()
}

func (h *runHooks) TryNewInlineableClass(className string) (ir.InlineableRecord, bool) {
	c, ok := h.orch.model.Class(className)
	if !ok {
		return ir.InlineableRecord{}, false
	}
	return c.InlineableState()
}
