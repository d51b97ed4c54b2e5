package method

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optlink/internal/ir"
	"optlink/internal/optapi"
)

// identityCore returns the body unchanged — enough to exercise Process's
// bookkeeping without depending on internal/optcore.
type identityCore struct{}

func (identityCore) Optimize(_ string, original *ir.Tree, hints ir.OptimizerHints, _ optapi.Hooks) (*ir.Tree, ir.OptimizerHints, error) {
	return original, hints, nil
}

type noopHooks struct{}

func (noopHooks) GetMethodBody(optapi.MethodRef) (*ir.Tree, bool) { return nil, false }
func (noopHooks) DynamicCall(string, string) []optapi.MethodRef   { return nil }
func (noopHooks) StaticCall(string, ir.Namespace, string) (optapi.MethodRef, bool) {
	return nil, false
}
func (noopHooks) AncestorsOf(string) []string                                { return nil }
func (noopHooks) HasElidableModuleAccessor(string) bool                      { return false }
func (noopHooks) TryNewInlineableClass(string) (ir.InlineableRecord, bool)    { return ir.InlineableRecord{}, false }

func versioned(hash string, version string) ir.Versioned[ir.MethodDef] {
	return ir.Versioned[ir.MethodDef]{
		Value: ir.MethodDef{
			EncodedName: "f",
			Flags:       ir.MethodFlags{Namespace: ir.PublicInstance},
			Hash:        ir.TreeHash(hash),
			HasHash:     true,
			Body:        ir.Skip,
			HasBody:     true,
		},
		Version:    version,
		HasVersion: version != "",
	}
}

func TestUpdateWith_NewMethodSchedulesForOptimization(t *testing.T) {
	sched := NewScheduler()
	m := New("C", "f", false, sched)

	m.UpdateWith(versioned("h1", "1"))

	scheduled := sched.Drain()
	require.Len(t, scheduled, 1)
	assert.Same(t, m, scheduled[0])
}

func TestUpdateWith_SameVersionIsNoOp(t *testing.T) {
	sched := NewScheduler()
	m := New("C", "f", false, sched)
	m.UpdateWith(versioned("h1", "1"))
	sched.Drain()

	changed := m.UpdateWith(versioned("h1", "1"))
	assert.False(t, changed)
	assert.Empty(t, sched.Drain())
}

func TestUpdateWith_SameHashDifferentVersionIsNoOp(t *testing.T) {
	sched := NewScheduler()
	m := New("C", "f", false, sched)
	m.UpdateWith(versioned("h1", "1"))
	sched.Drain()

	changed := m.UpdateWith(versioned("h1", "2"))
	assert.False(t, changed)
	assert.Empty(t, sched.Drain())
}

func TestUpdateWith_ChangedHashReschedulesAfterProcess(t *testing.T) {
	sched := NewScheduler()
	m := New("C", "f", false, sched)
	m.UpdateWith(versioned("h1", "1"))
	sched.Drain()

	require.NoError(t, m.Process(identityCore{}, noopHooks{}))

	m.UpdateWith(versioned("h2", "2"))
	scheduled := sched.Drain()
	require.Len(t, scheduled, 1)
	assert.Same(t, m, scheduled[0])
}

func TestDelete_TwiceFails(t *testing.T) {
	m := New("C", "f", false, NewScheduler())
	m.Delete()
	assert.Panics(t, func() { m.Delete() })
}

func TestUpdateWith_AfterDeleteFails(t *testing.T) {
	m := New("C", "f", false, NewScheduler())
	m.Delete()
	assert.Panics(t, func() { m.UpdateWith(versioned("h1", "1")) })
}

func TestOutputVersioned_FallsBackToOriginalBeforeProcess(t *testing.T) {
	sched := NewScheduler()
	m := New("C", "f", false, sched)
	m.UpdateWith(versioned("h1", "1"))

	out := m.OutputVersioned(ir.MethodFlags{Namespace: ir.PublicInstance})
	assert.True(t, out.HasVersion)
	assert.Equal(t, "0", out.Version)
	assert.Same(t, ir.Skip, out.Value.Body)
}

func TestProcess_NoopOnDeletedMethod(t *testing.T) {
	m := New("C", "f", false, NewScheduler())
	m.UpdateWith(versioned("h1", "1"))
	m.Delete()
	assert.NoError(t, m.Process(identityCore{}, noopHooks{}))
}
