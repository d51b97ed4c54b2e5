package optcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optlink/internal/ir"
	"optlink/internal/optapi"
)

// fakeMethodRef is a minimal optapi.MethodRef for pass-level tests that
// never need to go through internal/method.
type fakeMethodRef struct {
	name  string
	body  *ir.Tree
	attrs ir.MethodAttributes
}

func (f *fakeMethodRef) EncodedName() string              { return f.name }
func (f *fakeMethodRef) Body() (*ir.Tree, bool)            { return f.body, f.body != nil }
func (f *fakeMethodRef) Attributes() ir.MethodAttributes   { return f.attrs }

type fakeHooks struct {
	dynamicTargets map[string][]optapi.MethodRef
	staticTargets  map[string]optapi.MethodRef
}

func (h *fakeHooks) GetMethodBody(target optapi.MethodRef) (*ir.Tree, bool) { return target.Body() }

func (h *fakeHooks) DynamicCall(interfaceName, methodName string) []optapi.MethodRef {
	return h.dynamicTargets[interfaceName+"."+methodName]
}

func (h *fakeHooks) StaticCall(className string, _ ir.Namespace, methodName string) (optapi.MethodRef, bool) {
	ref, ok := h.staticTargets[className+"."+methodName]
	return ref, ok
}

func (h *fakeHooks) AncestorsOf(string) []string { return nil }

func (h *fakeHooks) HasElidableModuleAccessor(string) bool { return false }

func (h *fakeHooks) TryNewInlineableClass(string) (ir.InlineableRecord, bool) {
	return ir.InlineableRecord{}, false
}

func TestDevirtualize_SingleTargetRewritesToStaticCall(t *testing.T) {
	target := &fakeMethodRef{name: "m()"}
	hooks := &fakeHooks{dynamicTargets: map[string][]optapi.MethodRef{"I.m()": {target}}}

	call := &ir.Tree{Kind: ir.NDynamicCall, ClassName: "I", Name: "m()", Children: []*ir.Tree{{Kind: ir.NVarRef, Name: "recv"}}}
	out, changed := devirtualize{}.Apply("C", call, hooks)

	require.True(t, changed)
	assert.Equal(t, ir.NStaticCall, out.Kind)
	assert.Equal(t, ir.PublicInstance, out.CallNamespace)
	assert.Equal(t, "m()", out.Name)
}

func TestDevirtualize_MultipleTargetsLeavesDynamicCall(t *testing.T) {
	hooks := &fakeHooks{dynamicTargets: map[string][]optapi.MethodRef{
		"I.m()": {&fakeMethodRef{name: "m()"}, &fakeMethodRef{name: "m()"}},
	}}
	call := &ir.Tree{Kind: ir.NDynamicCall, ClassName: "I", Name: "m()"}
	out, changed := devirtualize{}.Apply("C", call, hooks)
	assert.False(t, changed)
	assert.Equal(t, ir.NDynamicCall, out.Kind)
}

func TestConstantFold_FoldsLiteralArithmetic(t *testing.T) {
	expr := &ir.Tree{Kind: ir.NBinOp, Name: "+", Children: []*ir.Tree{
		{Kind: ir.NLiteral, Literal: int64(2)},
		{Kind: ir.NLiteral, Literal: int64(3)},
	}}
	out, changed := constantFold{}.Apply("C", expr, &fakeHooks{})
	require.True(t, changed)
	assert.Equal(t, ir.NLiteral, out.Kind)
	assert.Equal(t, int64(5), out.Literal)
}

func TestConstantFold_LeavesNonLiteralOperandsAlone(t *testing.T) {
	expr := &ir.Tree{Kind: ir.NBinOp, Name: "+", Children: []*ir.Tree{
		{Kind: ir.NVarRef, Name: "x"},
		{Kind: ir.NLiteral, Literal: int64(3)},
	}}
	out, changed := constantFold{}.Apply("C", expr, &fakeHooks{})
	assert.False(t, changed)
	assert.Equal(t, ir.NBinOp, out.Kind)
}

func TestDeadStoreElim_RemovesUnreadLocal(t *testing.T) {
	block := &ir.Tree{Kind: ir.NBlock, Children: []*ir.Tree{
		{Kind: ir.NLocalSet, Name: "tmp", Children: []*ir.Tree{{Kind: ir.NLiteral, Literal: int64(1)}}},
		{Kind: ir.NReturn, Children: []*ir.Tree{{Kind: ir.NLiteral, Literal: int64(2)}}},
	}}
	out, changed := deadStoreElim{}.Apply("C", block, &fakeHooks{})
	require.True(t, changed)
	assert.Len(t, out.Children, 1)
	assert.Equal(t, ir.NReturn, out.Children[0].Kind)
}

func TestDeadStoreElim_KeepsLocalThatIsRead(t *testing.T) {
	block := &ir.Tree{Kind: ir.NBlock, Children: []*ir.Tree{
		{Kind: ir.NLocalSet, Name: "tmp", Children: []*ir.Tree{{Kind: ir.NLiteral, Literal: int64(1)}}},
		{Kind: ir.NReturn, Children: []*ir.Tree{{Kind: ir.NVarRef, Name: "tmp"}}},
	}}
	out, changed := deadStoreElim{}.Apply("C", block, &fakeHooks{})
	assert.False(t, changed)
	assert.Len(t, out.Children, 2)
}

func TestForwarderInline_InlinesForwarderBody(t *testing.T) {
	forwarderBody := &ir.Tree{Kind: ir.NLiteral, Literal: int64(42)}
	ref := &fakeMethodRef{name: "g()", body: forwarderBody, attrs: ir.MethodAttributes{IsForwarder: true}}
	hooks := &fakeHooks{staticTargets: map[string]optapi.MethodRef{"C.g()": ref}}

	call := &ir.Tree{Kind: ir.NStaticCall, ClassName: "C", Name: "g()", CallNamespace: ir.PublicInstance}
	out, changed := forwarderInline{}.Apply("C", call, hooks)
	require.True(t, changed)
	assert.Equal(t, ir.NLiteral, out.Kind)
	assert.Equal(t, int64(42), out.Literal)
}

func TestForwarderInline_LeavesNonForwarderCallAlone(t *testing.T) {
	ref := &fakeMethodRef{name: "g()", body: ir.Skip, attrs: ir.MethodAttributes{IsForwarder: false}}
	hooks := &fakeHooks{staticTargets: map[string]optapi.MethodRef{"C.g()": ref}}

	call := &ir.Tree{Kind: ir.NStaticCall, ClassName: "C", Name: "g()", CallNamespace: ir.PublicInstance}
	out, changed := forwarderInline{}.Apply("C", call, hooks)
	assert.False(t, changed)
	assert.Equal(t, ir.NStaticCall, out.Kind)
}

func TestCore_OptimizeRunsPipelineToFixpoint(t *testing.T) {
	core := New()
	body := &ir.Tree{Kind: ir.NBlock, Children: []*ir.Tree{
		{Kind: ir.NLocalSet, Name: "tmp", Children: []*ir.Tree{
			{Kind: ir.NBinOp, Name: "+", Children: []*ir.Tree{
				{Kind: ir.NLiteral, Literal: int64(1)},
				{Kind: ir.NLiteral, Literal: int64(1)},
			}},
		}},
		{Kind: ir.NReturn, Children: []*ir.Tree{{Kind: ir.NLiteral, Literal: int64(0)}}},
	}}

	out, _, err := core.Optimize("C", body, ir.OptimizerHints{}, &fakeHooks{})
	require.NoError(t, err)
	// The dead local-set folds its RHS, then dead-store elimination drops
	// it entirely since "tmp" is never read.
	require.Len(t, out.Children, 1)
	assert.Equal(t, ir.NReturn, out.Children[0].Kind)
}
