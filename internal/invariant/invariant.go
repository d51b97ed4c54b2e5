// Package invariant reports the programmer-error class of failure:
// broken invariants that can only mean a bug in the orchestrator or one
// of its callers, never a recoverable runtime condition. Every violation
// is logged at Error through the run's logger handle (see
// internal/orchestrator) immediately before panicking, so a panic
// recovered upstream by the linker's own driver still leaves a trail.
package invariant

import (
	"fmt"

	"github.com/tliron/commonlog"
)

// Violation is the payload of a fatal assertion failure.
type Violation struct {
	ID string // short invariant identifier, e.g. "object-deleted"
	Subject string // the encoded name at fault, if any
	Message string
}

func (v *Violation) Error() string {
	if v.Subject == "" {
		return fmt.Sprintf("optlink: invariant %s: %s", v.ID, v.Message)
	}
	return fmt.Sprintf("optlink: invariant %s on %q: %s", v.ID, v.Subject, v.Message)
}

// Fail logs v at Error on log (if non-nil) and panics with it. Callers
// never recover from this within the package — these are treated as
// fatal.
func Fail(log commonlog.Logger, v *Violation) {
	if log != nil {
		log.Error(v.Error())
	}
	panic(v)
}

// ObjectDeleted reports the one invariant named explicitly: "the Object
// class is never deleted."
func ObjectDeleted(log commonlog.Logger) {
	Fail(log, &Violation{ID: "object-deleted", Message: "the Object class must never be deleted"})
}

// UnknownParent reports a non-root class inserted with an unknown parent
// in incremental mode.
func UnknownParent(log commonlog.Logger, className, parentName string) {
	Fail(log, &Violation{ID: "unknown-parent", Subject: className, Message: fmt.Sprintf("immediate superclass %q is not registered", parentName)})
}

// InstantiationRegression reports a previously-instantiated class
// becoming non-instantiated outside the deletion pass.
func InstantiationRegression(log commonlog.Logger, className string) {
	Fail(log, &Violation{ID: "instantiation-regression", Subject: className, Message: "class was instantiated and is no longer, outside the deletion pass"})
}

// RootWithoutSuperclass reports a second "no superclass" class appearing
// outside batch mode (only Object may have no superclass, and only on
// the first run).
func RootWithoutSuperclass(log commonlog.Logger, className string) {
	Fail(log, &Violation{ID: "root-outside-batch", Subject: className, Message: "a class with no superclass may only appear in batch mode"})
}
