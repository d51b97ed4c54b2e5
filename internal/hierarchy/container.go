package hierarchy

import (
	"sync"

	"optlink/internal/ir"
	"optlink/internal/method"
)

// container is the shared method-container surface both a Class's
// public-instance slot and a StaticLikeNamespace are built from.
type container struct {
	ownerClass string
	isStatic bool
	scheduler *method.Scheduler

	mu sync.RWMutex
	methods map[string]*method.Impl
}

func newContainer(ownerClass string, isStatic bool, scheduler *method.Scheduler) container {
	return container{ownerClass: ownerClass, isStatic: isStatic, scheduler: scheduler, methods: make(map[string]*method.Impl)}
}

// lookupLocal returns the method directly owned by this container,
// without walking up a superclass chain.
func (c *container) lookupLocal(name string) (*method.Impl, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.methods[name]
	return m, ok
}

// all returns every method currently in the container.
func (c *container) all() map[string]*method.Impl {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*method.Impl, len(c.methods))
	for k, v := range c.methods {
		out[k] = v
	}
	return out
}

// update reconciles the container against the methods in newDefs that
// pass keep, returning the (added, changed, deleted) name sets. keep
// filters newDefs to the namespace this container is responsible for
// (e.g. only PublicInstance methods for a Class's own container).
func (c *container) update(newDefs []ir.Versioned[ir.MethodDef], keep func(ir.MethodFlags) bool) (added, changed, deleted []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]struct{}, len(newDefs))
	for _, v := range newDefs {
		if !keep(v.Value.Flags) {
			continue
		}
		name := v.Value.EncodedName
		seen[name] = struct{}{}

		m, exists := c.methods[name]
		if !exists {
			m = method.New(c.ownerClass, name, c.isStatic, c.scheduler)
			c.methods[name] = m
			m.UpdateWith(v)
			added = append(added, name)
			continue
		}
		if m.UpdateWith(v) {
			changed = append(changed, name)
		}
	}

	for name, m := range c.methods {
		if _, ok := seen[name]; !ok {
			m.Delete()
			delete(c.methods, name)
			deleted = append(deleted, name)
		}
	}

	return added, changed, deleted
}

// markAllDeleted deletes every method in the container without
// reconciling against a new definition set — used when an entire class
// or static-like namespace set is removed.
func (c *container) markAllDeleted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, m := range c.methods {
		m.Delete()
		delete(c.methods, name)
	}
}
