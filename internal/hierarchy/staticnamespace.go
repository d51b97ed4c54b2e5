package hierarchy

import (
	"optlink/internal/ir"
	"optlink/internal/method"
)

// StaticLikeNamespace is one of the non-instance method containers every
// linked class or interface allocates: constructors, private statics,
// public statics, and — interfaces only — public instance defaults and
// private instance methods.
//
// Every class allocates all ir.Count slots uniformly, including the
// PublicInstance slot of a non-interface
// class, which simply never receives any linked methods (the owning
// Class's own container holds those instead) — update() on that slot
// against a namespace predicate that never matches is how that emptiness
// falls out naturally, rather than needing a special case.
type StaticLikeNamespace struct {
	container
	ClassName string
	Namespace ir.Namespace
}

func newStaticLikeNamespace(className string, ns ir.Namespace, scheduler *method.Scheduler) *StaticLikeNamespace {
	return &StaticLikeNamespace{
		container: newContainer(className, true, scheduler),
		ClassName: className,
		Namespace: ns,
	}
}

// NewNamespaceArray allocates the dense Count-sized array of static-like
// namespaces for a newly-linked class or interface.
func NewNamespaceArray(className string, scheduler *method.Scheduler) [ir.Count]*StaticLikeNamespace {
	var arr [ir.Count]*StaticLikeNamespace
	for i := 0; i < ir.Count; i++ {
		arr[i] = newStaticLikeNamespace(className, ir.Namespace(i), scheduler)
	}
	return arr
}

// Update reconciles this namespace's container against linked's methods,
// keeping only those flagged for this namespace. The non-interface
// PublicInstance slot is never interface-kind, so isInterface gates
// whether PublicInstance methods are accepted here at all.
func (s *StaticLikeNamespace) Update(linked *ir.LinkedClass, isInterface bool) (added, changed, deleted []string) {
	ns := s.Namespace
	return s.container.update(linked.Methods, func(f ir.MethodFlags) bool {
		if f.Namespace != ns {
			return false
		}
		if ns == ir.PublicInstance && !isInterface {
			// Owned by the Class itself, never by the static-like index.
			return false
		}
		return true
	})
}

// LookupMethod is a direct, non-recursive map lookup — static-like
// namespaces never walk a superclass chain.
func (s *StaticLikeNamespace) LookupMethod(name string) (*method.Impl, bool) {
	return s.lookupLocal(name)
}

// AllMethods returns every method currently in this namespace.
func (s *StaticLikeNamespace) AllMethods() map[string]*method.Impl {
	return s.all()
}

// MarkAllDeleted deletes every method in this namespace.
func (s *StaticLikeNamespace) MarkAllDeleted() {
	s.markAllDeleted()
}
