package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optlink/internal/ir"
	"optlink/internal/method"
)

func mkMethodDef(name string, hash string) ir.Versioned[ir.MethodDef] {
	return ir.Versioned[ir.MethodDef]{
		Value: ir.MethodDef{
			EncodedName: name,
			Flags:       ir.MethodFlags{Namespace: ir.PublicInstance},
			Hash:        ir.TreeHash(hash),
			HasHash:     true,
			Body:        ir.Skip,
			HasBody:     true,
		},
	}
}

func TestUpdateOwnContainer_AddedChangedDeleted(t *testing.T) {
	sched := method.NewScheduler()
	object := NewClass("Object", ir.KindClass, nil, sched)
	a := NewClass("A", ir.KindClass, object, sched)

	added, changed, deleted := a.UpdateOwnContainer(&ir.LinkedClass{
		EncodedName: "A",
		Methods:     []ir.Versioned[ir.MethodDef]{mkMethodDef("f()", "h1"), mkMethodDef("g()", "h1")},
	})
	assert.ElementsMatch(t, []string{"f()", "g()"}, added)
	assert.Empty(t, changed)
	assert.Empty(t, deleted)

	// changed lists only methods whose exposed attributes changed, so the
	// new f() carries a different hint as well as a new hash.
	fEdited := mkMethodDef("f()", "h2")
	fEdited.Value.OptimizerHints.Inlineable = true
	added, changed, deleted = a.UpdateOwnContainer(&ir.LinkedClass{
		EncodedName: "A",
		Methods:     []ir.Versioned[ir.MethodDef]{fEdited},
	})
	assert.Empty(t, added)
	assert.Equal(t, []string{"f()"}, changed)
	assert.Equal(t, []string{"g()"}, deleted)

	_, ok := a.LocalMethod("g()")
	assert.False(t, ok)
	impl, ok := a.LocalMethod("f()")
	require.True(t, ok)
	assert.False(t, impl.Deleted())
}

func TestUpdateOwnContainer_SetsModuleClassFlagAndFields(t *testing.T) {
	sched := method.NewScheduler()
	object := NewClass("Object", ir.KindClass, nil, sched)
	m := NewClass("M", ir.KindClass, object, sched)

	m.UpdateOwnContainer(&ir.LinkedClass{
		EncodedName: "M",
		Kind:        ir.KindModuleClass,
		Fields:      []ir.FieldDef{{Name: "x", Type: "int"}},
	})
	assert.True(t, m.IsModuleClass())
	assert.Equal(t, []ir.FieldDef{{Name: "x", Type: "int"}}, m.Fields())
}

func TestAllMethods_ChildOverridesParent(t *testing.T) {
	sched := method.NewScheduler()
	object := NewClass("Object", ir.KindClass, nil, sched)
	a := NewClass("A", ir.KindClass, object, sched)
	a.UpdateOwnContainer(&ir.LinkedClass{EncodedName: "A", Methods: []ir.Versioned[ir.MethodDef]{
		mkMethodDef("f()", "ha1"), mkMethodDef("g()", "ha1"),
	}})
	b := NewClass("B", ir.KindClass, a, sched)
	b.UpdateOwnContainer(&ir.LinkedClass{EncodedName: "B", Methods: []ir.Versioned[ir.MethodDef]{
		mkMethodDef("g()", "hb1"),
	}})

	all := b.AllMethods()
	require.Contains(t, all, "f()")
	require.Contains(t, all, "g()")
	assert.Equal(t, "A", all["f()"].OwnerClass)
	assert.Equal(t, "B", all["g()"].OwnerClass)
}

func TestMarkAllDeleted_DeletesEveryLocalMethod(t *testing.T) {
	sched := method.NewScheduler()
	object := NewClass("Object", ir.KindClass, nil, sched)
	a := NewClass("A", ir.KindClass, object, sched)
	a.UpdateOwnContainer(&ir.LinkedClass{EncodedName: "A", Methods: []ir.Versioned[ir.MethodDef]{
		mkMethodDef("f()", "h1"),
	}})
	impl, ok := a.LocalMethod("f()")
	require.True(t, ok)

	a.MarkAllDeleted()
	assert.True(t, impl.Deleted())
	_, ok = a.LocalMethod("f()")
	assert.False(t, ok)
}

func TestSubclasses_AddRemoveLookup(t *testing.T) {
	sched := method.NewScheduler()
	object := NewClass("Object", ir.KindClass, nil, sched)
	a := NewClass("A", ir.KindClass, object, sched)
	object.AddSubclass(a)

	got, ok := object.Subclass("A")
	assert.True(t, ok)
	assert.Same(t, a, got)

	object.RemoveSubclass("A")
	_, ok = object.Subclass("A")
	assert.False(t, ok)
}

func TestSetInlineableState_ReportsChange(t *testing.T) {
	sched := method.NewScheduler()
	a := NewClass("A", ir.KindClass, nil, sched)

	changed := a.SetInlineableState(true, ir.InlineableRecord{ClassName: "A"})
	assert.True(t, changed)

	changed = a.SetInlineableState(true, ir.InlineableRecord{ClassName: "A"})
	assert.False(t, changed)

	changed = a.SetInlineableState(true, ir.InlineableRecord{ClassName: "A", Fields: []ir.FieldValue{{Field: ir.FieldDef{Name: "x"}, Zero: int64(0)}}})
	assert.True(t, changed)
}
