package hierarchy

import (
	"sync"

	"optlink/internal/ir"
	"optlink/internal/method"
)

// Class represents one concrete or abstract class in the single tree
// rooted at Object. Interfaces never get a Class — only their
// InterfaceType record and static-like namespace.
type Class struct {
	container // public-instance methods only

	EncodedName string
	Kind ir.ClassKind
	Super *Class // nil only for Object

	// parentChain runs this -> ... -> Object; computed once at
	// construction since a Class's immediate superclass never changes
	// during its lifetime.
	parentChain []*Class

	subMu sync.RWMutex
	subclasses map[string]*Class

	mu sync.RWMutex
	interfaces map[string]*InterfaceType
	isInstantiated bool
	isModuleClass bool
	hasElidableModuleAccessor bool
	fields []ir.FieldDef
	isInlineable bool
	inlineableRecord ir.InlineableRecord
}

// NewClass allocates a class node under super (nil only for Object).
// scheduler is the run-owning orchestrator's method.Scheduler.
func NewClass(name string, kind ir.ClassKind, super *Class, scheduler *method.Scheduler) *Class {
	c := &Class{
		container: newContainer(name, false, scheduler),
		EncodedName: name,
		Kind: kind,
		Super: super,
		subclasses: make(map[string]*Class),
		interfaces: make(map[string]*InterfaceType),
	}
	if super == nil {
		c.parentChain = []*Class{c}
	} else {
		c.parentChain = append([]*Class{c}, super.parentChain...)
	}
	return c
}

// ParentChain returns this -> ... -> Object.
func (c *Class) ParentChain() []*Class { return c.parentChain }

// ReverseParentChain returns Object -> ... -> this.
func (c *Class) ReverseParentChain() []*Class {
	out := make([]*Class, len(c.parentChain))
	for i, cl := range c.parentChain {
		out[len(out)-1-i] = cl
	}
	return out
}

// AddSubclass/RemoveSubclass/Subclasses implement the mutable,
// concurrently-iterable direct-subclass set.
func (c *Class) AddSubclass(child *Class) {
	c.subMu.Lock()
	c.subclasses[child.EncodedName] = child
	c.subMu.Unlock()
}

func (c *Class) RemoveSubclass(name string) {
	c.subMu.Lock()
	delete(c.subclasses, name)
	c.subMu.Unlock()
}

func (c *Class) Subclasses() []*Class {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	out := make([]*Class, 0, len(c.subclasses))
	for _, s := range c.subclasses {
		out = append(out, s)
	}
	return out
}

func (c *Class) Subclass(name string) (*Class, bool) {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	s, ok := c.subclasses[name]
	return s, ok
}

// LookupMethod walks this container then recurses to the superclass,
// tail-style.
func (c *Class) LookupMethod(name string) (*method.Impl, bool) {
	for cur := c; cur != nil; cur = cur.Super {
		if m, ok := cur.lookupLocal(name); ok {
			return m, true
		}
	}
	return nil, false
}

// LocalMethod looks up name in this class's own public-instance
// container only, without walking to the superclass.
func (c *Class) LocalMethod(name string) (*method.Impl, bool) {
	return c.lookupLocal(name)
}

// OwnMethodNames returns the names currently in this class's own
// public-instance container — the "locally overriding names" used to
// trim what a child inherits from its parent's change set.
func (c *Class) OwnMethodNames() map[string]struct{} {
	all := c.all()
	out := make(map[string]struct{}, len(all))
	for name := range all {
		out[name] = struct{}{}
	}
	return out
}

// MarkAllDeleted deletes every method in this class's own public-
// instance container.
func (c *Class) MarkAllDeleted() {
	c.markAllDeleted()
}

// AllMethods returns the merged map of every method visible on an
// instance of c: parent methods overridden by children as the walk
// proceeds root to leaf. Deliberately uncached — it is only consulted on
// instantiation-state transitions.
func (c *Class) AllMethods() map[string]*method.Impl {
	out := make(map[string]*method.Impl)
	for _, cl := range c.ReverseParentChain() {
		for name, m := range cl.all() {
			out[name] = m
		}
	}
	return out
}

// UpdateOwnContainer reconciles c's own public-instance container
// against linked's methods, and also refreshes the
// owning class's module-class flag and field list.
func (c *Class) UpdateOwnContainer(linked *ir.LinkedClass) (added, changed, deleted []string) {
	c.SetIsModuleClass(linked.Kind == ir.KindModuleClass)
	c.SetFields(linked.Fields)
	return c.container.update(linked.Methods, func(f ir.MethodFlags) bool {
		return f.Namespace == ir.PublicInstance
	})
}

// --- mutex-guarded scalar/slice state ---

func (c *Class) SetInterfaces(types map[string]*InterfaceType) (old map[string]*InterfaceType) {
	c.mu.Lock()
	old = c.interfaces
	c.interfaces = types
	c.mu.Unlock()
	return old
}

func (c *Class) Interfaces() map[string]*InterfaceType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*InterfaceType, len(c.interfaces))
	for k, v := range c.interfaces {
		out[k] = v
	}
	return out
}

func (c *Class) IsInstantiated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isInstantiated
}

func (c *Class) SetInstantiated(v bool) {
	c.mu.Lock()
	c.isInstantiated = v
	c.mu.Unlock()
}

func (c *Class) IsModuleClass() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isModuleClass
}

func (c *Class) SetIsModuleClass(v bool) {
	c.mu.Lock()
	c.isModuleClass = v
	c.mu.Unlock()
}

func (c *Class) HasElidableModuleAccessor() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasElidableModuleAccessor
}

func (c *Class) SetHasElidableModuleAccessor(v bool) {
	c.mu.Lock()
	c.hasElidableModuleAccessor = v
	c.mu.Unlock()
}

func (c *Class) Fields() []ir.FieldDef {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fields
}

func (c *Class) SetFields(f []ir.FieldDef) {
	c.mu.Lock()
	c.fields = f
	c.mu.Unlock()
}

// InlineableState returns whether c is record-inlineable and, if so,
// the synthesized zero-value record.
func (c *Class) InlineableState() (bool, ir.InlineableRecord) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isInlineable, c.inlineableRecord
}

// SetInlineableState updates the inlineable record, reporting whether it
// changed.
func (c *Class) SetInlineableState(inlineable bool, rec ir.InlineableRecord) (changed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed = c.isInlineable != inlineable || !inlineableRecordEqual(c.inlineableRecord, rec)
	c.isInlineable = inlineable
	c.inlineableRecord = rec
	return changed
}

func inlineableRecordEqual(a, b ir.InlineableRecord) bool {
	if a.ClassName != b.ClassName || len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i] != b.Fields[i] {
			return false
		}
	}
	return true
}
