package hierarchy

import (
	"sync"

	"optlink/internal/ir"
)

// Model is the orchestrator's retained state across runs: the class
// table (forest rooted at Object), the static-like namespace index, and
// the interface-type index.
//
// Model itself only provides arena CRUD; the tree-walk algorithms that
// decide what to add/change/delete live in the orchestrator package,
// which is the thing actually described as owning this state.
type Model struct {
	mu sync.RWMutex

	object *Class
	classes map[string]*Class
	interfaceTypes map[string]*InterfaceType
	staticNamespace map[string]*[ir.Count]*StaticLikeNamespace
}

// NewModel returns an empty model: no Object class yet, which is exactly
// the "first run" signal the orchestrator uses to enter batch mode.
func NewModel() *Model {
	return &Model{
		classes: make(map[string]*Class),
		interfaceTypes: make(map[string]*InterfaceType),
		staticNamespace: make(map[string]*[ir.Count]*StaticLikeNamespace),
	}
}

// IsBatch reports whether this is the first run against this model.
func (m *Model) IsBatch() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.object == nil
}

func (m *Model) Object() *Class {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.object
}

func (m *Model) SetObject(c *Class) {
	m.mu.Lock()
	m.object = c
	m.mu.Unlock()
}

func (m *Model) Class(name string) (*Class, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.classes[name]
	return c, ok
}

func (m *Model) RegisterClass(c *Class) {
	m.mu.Lock()
	m.classes[c.EncodedName] = c
	m.mu.Unlock()
}

func (m *Model) DeleteClass(name string) {
	m.mu.Lock()
	delete(m.classes, name)
	m.mu.Unlock()
}

// InterfaceType returns the record for name, creating it if absent — one
// is expected to exist for every linked class or interface.
func (m *Model) InterfaceType(name string) *InterfaceType {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.interfaceTypes[name]
	if !ok {
		t = NewInterfaceType(name)
		m.interfaceTypes[name] = t
	}
	return t
}

// LookupInterfaceType returns the record for name only if it already
// exists, without creating one.
func (m *Model) LookupInterfaceType(name string) (*InterfaceType, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.interfaceTypes[name]
	return t, ok
}

func (m *Model) StaticNamespaces(name string) (*[ir.Count]*StaticLikeNamespace, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	arr, ok := m.staticNamespace[name]
	return arr, ok
}

func (m *Model) SetStaticNamespaces(name string, arr [ir.Count]*StaticLikeNamespace) {
	m.mu.Lock()
	m.staticNamespace[name] = &arr
	m.mu.Unlock()
}

func (m *Model) DeleteStaticNamespaces(name string) {
	m.mu.Lock()
	delete(m.staticNamespace, name)
	m.mu.Unlock()
}

// StaticNamespaceNames returns every encoded name that currently has a
// static-like namespace array allocated — the "retained" set the
// deletion/update reconciliation checks the freshly linked classes
// against.
func (m *Model) StaticNamespaceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.staticNamespace))
	for name := range m.staticNamespace {
		out = append(out, name)
	}
	return out
}

// ClassNames returns every currently-registered class's encoded name.
func (m *Model) ClassNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.classes))
	for name := range m.classes {
		out = append(out, name)
	}
	return out
}
