package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"optlink/internal/ir"
)

func noResolve(string) (*ir.Tree, bool) { return nil, false }

func TestIsElidableModuleAccessor_AllowListed(t *testing.T) {
	assert.True(t, IsElidableModuleAccessor("s_Predef$", nil, false, noResolve))
}

func TestIsElidableModuleAccessor_NoBody(t *testing.T) {
	assert.False(t, IsElidableModuleAccessor("M", nil, false, noResolve))
}

func TestIsElidableModuleAccessor_StoreModuleIsElidable(t *testing.T) {
	body := &ir.Tree{Kind: ir.NStoreModule, Children: []*ir.Tree{{Kind: ir.NThis}}}
	assert.True(t, IsElidableModuleAccessor("M", body, true, noResolve))
}

func TestIsElidableModuleAccessor_UnknownCallIsNotElidable(t *testing.T) {
	body := &ir.Tree{Kind: ir.NStaticCall, ClassName: "Other", Name: "doSomething", CallNamespace: ir.PublicInstance}
	assert.False(t, IsElidableModuleAccessor("M", body, true, noResolve))
}

func TestIsElidableModuleAccessor_MixinSkipConstructor(t *testing.T) {
	resolve := func(className string) (*ir.Tree, bool) {
		if className == "Mixin" {
			return ir.Skip, true
		}
		return nil, false
	}
	body := &ir.Tree{Kind: ir.NStaticCall, ClassName: "Mixin", CallNamespace: ir.Constructor}
	assert.True(t, IsElidableModuleAccessor("M", body, true, resolve))
}

func TestIsElidableModuleAccessor_DelegatesToElidableSuperConstructor(t *testing.T) {
	superBody := &ir.Tree{Kind: ir.NStoreModule, Children: []*ir.Tree{{Kind: ir.NThis}}}
	resolve := func(className string) (*ir.Tree, bool) {
		if className == "Super" {
			return superBody, true
		}
		return nil, false
	}
	body := &ir.Tree{
		Kind:          ir.NStaticCall,
		ClassName:     "Super",
		CallNamespace: ir.Constructor,
		Children:      []*ir.Tree{{Kind: ir.NVarRef, Name: "arg0"}},
	}
	assert.True(t, IsElidableModuleAccessor("M", body, true, resolve))
}

func TestIsElidableModuleAccessor_DelegationWithSideEffectfulArgIsNotElidable(t *testing.T) {
	superBody := &ir.Tree{Kind: ir.NStoreModule}
	resolve := func(className string) (*ir.Tree, bool) {
		return superBody, true
	}
	body := &ir.Tree{
		Kind:          ir.NStaticCall,
		ClassName:     "Super",
		CallNamespace: ir.Constructor,
		Children:      []*ir.Tree{{Kind: ir.NFieldGet, Name: "side"}},
	}
	assert.False(t, IsElidableModuleAccessor("M", body, true, resolve))
}

func TestIsElidableModuleAccessor_BlockOfTrivialStatements(t *testing.T) {
	body := &ir.Tree{
		Kind: ir.NBlock,
		Children: []*ir.Tree{
			{Kind: ir.NSkip},
			{Kind: ir.NFieldAssign, Name: "f", Children: []*ir.Tree{{Kind: ir.NLiteral, Literal: int64(0)}}},
			{Kind: ir.NStoreModule, Children: []*ir.Tree{{Kind: ir.NThis}}},
		},
	}
	assert.True(t, IsElidableModuleAccessor("M", body, true, noResolve))
}
