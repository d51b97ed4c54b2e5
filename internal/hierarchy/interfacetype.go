// Package hierarchy holds the class tree, the static-like namespace
// index, and the interface-type index: the three structures grouped
// together as "the data model" because they are mutated in lock step by
// UPDATE PASS and read together by PROCESS PASS.
package hierarchy

import (
	"sync"

	"optlink/internal/method"
)

// InterfaceType is the concurrency-safe per-encoded-name record: one
// exists for every linked class or interface, holding its ancestor
// list, its instantiated concrete subclasses, and the caller-dependency
// tables that make incremental invalidation possible.
//
// Ancestors and the instantiated-subclass set are only ever mutated
// during UPDATE PASS and only ever read during PROCESS
// PASS — phase separation is the ordering discipline, not a lock on
// those two fields. The caller/asker tables, by contrast, are mutated
// from both phases (tagging in UPDATE PASS, registration in PROCESS
// PASS) and are guarded by mu throughout.
type InterfaceType struct {
	EncodedName string

	// ancestors and instantiatedSubclass: UPDATE-PASS-write,
	// PROCESS-PASS-read only; see doc comment above.
	ancestors []string
	instantiatedSubclass map[*Class]struct{}

	mu sync.Mutex
	ancestorAskers map[*method.Impl]struct{}
	dynamicCallers map[string]map[*method.Impl]struct{} // method name -> callers
	staticCallers map[staticCallerKey]map[*method.Impl]struct{} // (namespace, method name) -> callers
}

type staticCallerKey struct {
	Namespace int
	Method string
}

// NewInterfaceType creates an empty interface-type record for name.
func NewInterfaceType(name string) *InterfaceType {
	return &InterfaceType{
		EncodedName: name,
		instantiatedSubclass: make(map[*Class]struct{}),
		dynamicCallers: make(map[string]map[*method.Impl]struct{}),
		staticCallers: make(map[staticCallerKey]map[*method.Impl]struct{}),
	}
}

// SetAncestors overwrites the ancestor list. UPDATE PASS only: no caller notification happens here, ancestors are
// observed on demand via AncestorsOf.
func (t *InterfaceType) SetAncestors(ancestors []string) {
	t.ancestors = ancestors
}

// Ancestors returns the current ancestor list and registers asker as an
// ancestor-asker; the registration is swept when asker is tagged or
// deleted. SetAncestors does not tag ancestor-askers.
func (t *InterfaceType) Ancestors(asker *method.Impl) []string {
	out := t.ancestors
	t.mu.Lock()
	if t.ancestorAskers == nil {
		t.ancestorAskers = make(map[*method.Impl]struct{})
	}
	t.ancestorAskers[asker] = struct{}{}
	t.mu.Unlock()
	asker.AddDependency(&ancestorAskerDep{t: t})
	return out
}

// AncestorsRaw returns the ancestor list without registering a
// dependency — used internally by UPDATE PASS's own bookkeeping.
func (t *InterfaceType) AncestorsRaw() []string { return t.ancestors }

// AddInstantiatedSubclass and RemoveInstantiatedSubclass maintain the
// instantiation mirror invariant. UPDATE PASS
// only.
func (t *InterfaceType) AddInstantiatedSubclass(c *Class) {
	t.instantiatedSubclass[c] = struct{}{}
}

func (t *InterfaceType) RemoveInstantiatedSubclass(c *Class) {
	delete(t.instantiatedSubclass, c)
}

// InstantiatedSubclasses returns the current instantiated-subclass set.
// PROCESS PASS only (read-side of the phase-separation discipline).
func (t *InterfaceType) InstantiatedSubclasses() []*Class {
	out := make([]*Class, 0, len(t.instantiatedSubclass))
	for c := range t.instantiatedSubclass {
		out = append(out, c)
	}
	return out
}

// RegisterDynamicCaller records that asker performed a virtual call on
// methodName against this interface type, and registers the matching
// dependency on asker.
func (t *InterfaceType) RegisterDynamicCaller(methodName string, asker *method.Impl) {
	t.mu.Lock()
	set := t.dynamicCallers[methodName]
	if set == nil {
		set = make(map[*method.Impl]struct{})
		t.dynamicCallers[methodName] = set
	}
	set[asker] = struct{}{}
	t.mu.Unlock()
	asker.AddDependency(&dynamicCallerDep{t: t, name: methodName})
}

// RegisterStaticCaller records that asker performed a statically-bound
// call on (namespace, methodName) against this interface type.
func (t *InterfaceType) RegisterStaticCaller(ns int, methodName string, asker *method.Impl) {
	key := staticCallerKey{Namespace: ns, Method: methodName}
	t.mu.Lock()
	set := t.staticCallers[key]
	if set == nil {
		set = make(map[*method.Impl]struct{})
		t.staticCallers[key] = set
	}
	set[asker] = struct{}{}
	t.mu.Unlock()
	asker.AddDependency(&staticCallerDep{t: t, key: key})
}

// TagDynamicCallersOf tags every method currently registered as a
// dynamic caller on methodName. UPDATE PASS only.
func (t *InterfaceType) TagDynamicCallersOf(methodName string) {
	t.mu.Lock()
	set := t.dynamicCallers[methodName]
	callers := make([]*method.Impl, 0, len(set))
	for c := range set {
		callers = append(callers, c)
	}
	t.mu.Unlock()
	for _, c := range callers {
		c.Tag()
	}
}

// TagStaticCallersOf tags every method currently registered as a static
// caller on (namespace, methodName). UPDATE PASS only.
func (t *InterfaceType) TagStaticCallersOf(ns int, methodName string) {
	key := staticCallerKey{Namespace: ns, Method: methodName}
	t.mu.Lock()
	set := t.staticCallers[key]
	callers := make([]*method.Impl, 0, len(set))
	for c := range set {
		callers = append(callers, c)
	}
	t.mu.Unlock()
	for _, c := range callers {
		c.Tag()
	}
}

// --- method.Dependency implementations, kept private to this file ---

type ancestorAskerDep struct{ t *InterfaceType }

func (d *ancestorAskerDep) Unregister(self *method.Impl) {
	d.t.mu.Lock()
	delete(d.t.ancestorAskers, self)
	d.t.mu.Unlock()
}

type dynamicCallerDep struct {
	t *InterfaceType
	name string
}

func (d *dynamicCallerDep) Unregister(self *method.Impl) {
	d.t.mu.Lock()
	if set := d.t.dynamicCallers[d.name]; set != nil {
		delete(set, self)
	}
	d.t.mu.Unlock()
}

type staticCallerDep struct {
	t *InterfaceType
	key staticCallerKey
}

func (d *staticCallerDep) Unregister(self *method.Impl) {
	d.t.mu.Lock()
	if set := d.t.staticCallers[d.key]; set != nil {
		delete(set, self)
	}
	d.t.mu.Unlock()
}
