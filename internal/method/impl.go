// Package method implements the per-method optimization unit: the
// object that owns a method's current body, its version bookkeeping, its
// tag bit, and the set of dependency records it has subscribed to.
package method

import (
	"fmt"
	"sync"

	"optlink/internal/ir"
	"optlink/internal/optapi"
)

// Impl is owned by exactly one method container (a hierarchy.Class's
// public-instance slot, or a hierarchy.StaticLikeNamespace). It is never
// copied; all access goes through its exported methods, which are safe
// for concurrent use.
type Impl struct {
	OwnerClass string
	Name string
	OwnerIsStatic bool // true if owned by a StaticLikeNamespace rather than a Class

	mu sync.Mutex
	hasInVersion bool
	inVersion string
	hasOriginal bool
	original *ir.Tree
	hash ir.TreeHash
	hasHash bool
	hints ir.OptimizerHints
	lastOutVersion int64
	optimized *ir.Tree
	hasOptimized bool
	tagged bool
	deleted bool
	deps []Dependency
	bodyAskers map[*Impl]struct{}
	scheduler *Scheduler
}

// New creates a fresh, untagged, unoptimized method implementation for a
// just-added method. Callers (container update_with) still need to call
// UpdateWith once with the initial definition. scheduler may be nil in
// tests that never exercise Tag.
func New(ownerClass, name string, ownerIsStatic bool, scheduler *Scheduler) *Impl {
	return &Impl{OwnerClass: ownerClass, Name: name, OwnerIsStatic: ownerIsStatic, scheduler: scheduler}
}

var _ optapi.MethodRef = (*Impl)(nil)

// EncodedName/Body/Attributes implement optapi.MethodRef.
func (m *Impl) EncodedName() string { return m.Name }

func (m *Impl) Body() (*ir.Tree, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.original, m.hasOriginal
}

func (m *Impl) Attributes() ir.MethodAttributes {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hints.Attributes()
}

// Deleted reports whether this method has been removed from its
// container.
func (m *Impl) Deleted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleted
}

// UpdateWith applies a newly-linked, versioned method definition.
// Returns whether the method's exposed attributes changed — the signal
// walk_for_changes propagates to subclasses and static-caller tagging.
func (m *Impl) UpdateWith(v ir.Versioned[ir.MethodDef]) bool {
	m.mu.Lock()
	if m.deleted {
		m.mu.Unlock()
		panic(fmt.Sprintf("optlink: method %s.%s updated after being deleted", m.OwnerClass, m.Name))
	}

	if v.HasVersion && m.hasInVersion && v.Version == m.inVersion {
		m.mu.Unlock()
		return false
	}

	bodyChanged := !m.hasOriginal || v.Value.HasHash != m.hasHash || v.Value.Hash != m.hash

	if !bodyChanged {
		m.hasInVersion = v.HasVersion
		m.inVersion = v.Version
		m.mu.Unlock()
		return false
	}

	oldAttrs := m.hints.Attributes()

	m.hasInVersion = v.HasVersion
	m.inVersion = v.Version
	m.hasOriginal = v.Value.HasBody
	m.original = v.Value.Body
	m.hash = v.Value.Hash
	m.hasHash = v.Value.HasHash
	m.hints = v.Value.OptimizerHints
	newAttrs := m.hints.Attributes()
	m.mu.Unlock()

	m.tagBodyAskers()
	m.Tag()

	return newAttrs != oldAttrs
}

// tagBodyAskers notifies every method that asked for this method's body
// during its last optimization — called only when the body itself
// actually changed.
func (m *Impl) tagBodyAskers() {
	m.mu.Lock()
	askers := make([]*Impl, 0, len(m.bodyAskers))
	for a := range m.bodyAskers {
		askers = append(askers, a)
	}
	m.mu.Unlock()

	for _, a := range askers {
		a.Tag()
	}
}

// RegisterBodyAsker records that asker consulted m's body during its
// current optimization, and registers the corresponding dependency on
// asker so a later tag/delete of asker sweeps it back out.
func (m *Impl) RegisterBodyAsker(asker *Impl) {
	m.mu.Lock()
	if m.bodyAskers == nil {
		m.bodyAskers = make(map[*Impl]struct{})
	}
	m.bodyAskers[asker] = struct{}{}
	m.mu.Unlock()

	asker.AddDependency(&bodyAskerDep{target: m})
}

// AddDependency records that m has subscribed to some other record (an
// interface type's caller table, or another method's body-asker table).
func (m *Impl) AddDependency(d Dependency) {
	m.mu.Lock()
	m.deps = append(m.deps, d)
	m.mu.Unlock()
}

// protectTag is the exclusive clear->set transition both Tag and Delete
// race on; the winner (first caller to observe tagged==false) performs
// the one-shot dependency sweep.
func (m *Impl) protectTag() (won bool, deps []Dependency) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tagged {
		return false, nil
	}
	m.tagged = true
	deps = m.deps
	m.deps = nil
	return true, deps
}

// Tag transitions the method to tagged at most once; the winner
// unregisters from every dependency record it had subscribed to, adds
// itself to the PROCESS PASS queue, and returns true.
func (m *Impl) Tag() (scheduled bool) {
	won, deps := m.protectTag()
	if !won {
		return false
	}
	for _, d := range deps {
		d.Unregister(m)
	}
	m.scheduler.add(m)
	return true
}

// Delete marks the method removed from its container. Precondition: not
// already deleted. If the tag transition is still available, Delete performs the
// same dependency sweep Tag does, but does not schedule the method for
// optimization.
func (m *Impl) Delete() {
	m.mu.Lock()
	if m.deleted {
		m.mu.Unlock()
		panic(fmt.Sprintf("optlink: method %s.%s deleted twice", m.OwnerClass, m.Name))
	}
	m.deleted = true
	m.mu.Unlock()

	won, deps := m.protectTag()
	if won {
		for _, d := range deps {
			d.Unregister(m)
		}
	}
}

// Process runs the intra-method optimizer on this method's current body
// (PROCESS PASS only). No-op if the method was deleted in this run. On
// success it bumps the output version and resets the tag bit so a future
// run can re-tag and re-schedule it.
func (m *Impl) Process(core optapi.Core, hooks optapi.Hooks) error {
	m.mu.Lock()
	if m.deleted {
		m.mu.Unlock()
		return nil
	}
	thisType := m.OwnerClass
	body := m.original
	hints := m.hints
	m.mu.Unlock()

	optimized, newHints, err := core.Optimize(thisType, body, hints, hooks)
	if err != nil {
		return fmt.Errorf("optlink: optimizing %s.%s: %w", thisType, m.Name, err)
	}

	m.mu.Lock()
	m.optimized = optimized
	m.hasOptimized = true
	m.lastOutVersion++
	m.hints = newHints
	m.tagged = false
	m.mu.Unlock()
	return nil
}

// OutputVersioned returns the current optimized method as a versioned
// definition, suitable for substitution back into the linked class the
// orchestrator rebuilds.
func (m *Impl) OutputVersioned(flags ir.MethodFlags) ir.Versioned[ir.MethodDef] {
	m.mu.Lock()
	defer m.mu.Unlock()

	body := m.optimized
	hasBody := m.hasOptimized
	if !hasBody {
		body, hasBody = m.original, m.hasOriginal
	}

	return ir.Versioned[ir.MethodDef]{
		Value: ir.MethodDef{
			EncodedName: m.Name,
			Flags: flags,
			Hash: m.hash,
			HasHash: m.hasHash,
			OptimizerHints: m.hints,
			Body: body,
			HasBody: hasBody,
		},
		Version: fmt.Sprintf("%d", m.lastOutVersion),
		HasVersion: true,
	}
}
