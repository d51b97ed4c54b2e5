// Package optapi is the boundary between the dependency-tracking core and
// the intra-method optimizer. Neither side of this boundary imports the other's
// concrete types: Core only sees Hooks and MethodRef, and the core's
// method/hierarchy packages only see Core and Hooks. This is what keeps
// internal/method free of an import on internal/hierarchy.
package optapi

import "optlink/internal/ir"

// MethodRef is the read-only view of a method implementation that Hooks
// results are expressed in terms of — enough for OptimizerCore to get a
// body and an encoded name, never enough to mutate hierarchy state
// directly.
type MethodRef interface {
	EncodedName() string
	Body() (*ir.Tree, bool)
	Attributes() ir.MethodAttributes
}

// Hooks is exposed to OptimizerCore during one method's optimization.
// Every call is also a subscription: the core registers the currently-
// optimizing method as a dependent of whatever record answered the
// query, so a later invalidation of that record tags the method again.
type Hooks interface {
	// GetMethodBody returns target's current original body and registers
	// the asker as a body-asker of target.
	GetMethodBody(target MethodRef) (*ir.Tree, bool)

	// DynamicCall resolves a virtual call on an instance method name
	// against an interface type's instantiated subclasses, registering
	// the asker as a dynamic caller on (interfaceName, methodName).
	DynamicCall(interfaceName, methodName string) []MethodRef

	// StaticCall resolves a statically-bound call, registering the asker
	// as a static caller on (className, namespace, methodName).
	StaticCall(className string, namespace ir.Namespace, methodName string) (MethodRef, bool)

	// AncestorsOf returns an interface type's ancestor list, registering
	// the asker as an ancestor-asker of it.
	AncestorsOf(interfaceName string) []string

	// HasElidableModuleAccessor and TryNewInlineableClass are side-table
	// reads with no subscription of their own: any change to either
	// already tags the class's constructors' static callers.
	HasElidableModuleAccessor(className string) bool
	TryNewInlineableClass(className string) (ir.InlineableRecord, bool)
}

// Core is the pure-function collaborator: (thisType, body) -> optimized
// body, plus the attribute recomputation that goes with it.
type Core interface {
	Optimize(thisType string, original *ir.Tree, hints ir.OptimizerHints, hooks Hooks) (optimized *ir.Tree, newHints ir.OptimizerHints, err error)
}
