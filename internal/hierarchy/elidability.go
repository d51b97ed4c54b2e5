package hierarchy

import "optlink/internal/ir"

// moduleAccessorAllowList is the ad-hoc singleton allow-list naming
// classes whose module accessor is always elidable regardless of what
// their constructor body looks like.
var moduleAccessorAllowList = map[string]struct{}{
	"s_Predef$": {},
}

// CtorResolver looks up another class's init___ constructor body, needed
// to check mixin-constructor-is-Skip and same/super-class delegation.
type CtorResolver func(className string) (*ir.Tree, bool)

// IsElidableModuleAccessor reports whether className's module accessor
// can be elided: either it is on the allow-list, or its constructor body
// is elidable — a trivially side-effect-free leaf, a field assignment of
// such a leaf, a StoreModule, a block made only of elidable statements,
// a call to a mixin constructor whose body is Skip, or a delegation with
// side-effect-free arguments to another constructor that is itself
// elidable.
func IsElidableModuleAccessor(className string, ctorBody *ir.Tree, hasCtorBody bool, resolve CtorResolver) bool {
	if _, allowed := moduleAccessorAllowList[className]; allowed {
		return true
	}
	if !hasCtorBody {
		return false
	}
	return isElidableTree(ctorBody, resolve)
}

func isElidableTree(t *ir.Tree, resolve CtorResolver) bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case ir.NBlock:
		for _, stmt := range t.Children {
			if !isElidableTree(stmt, resolve) {
				return false
			}
		}
		return true

	case ir.NFieldAssign:
		if len(t.Children) != 1 {
			return false
		}
		return isTriviallySideEffectFree(t.Children[0])

	case ir.NStoreModule:
		return true

	case ir.NSkip, ir.NLiteral, ir.NVarRef, ir.NThis:
		return true

	case ir.NStaticCall:
		if t.CallNamespace != ir.Constructor {
			return false
		}
		// Mixin constructor: elidable only if its own original body is
		// exactly Skip.
		if mixinBody, ok := resolve(t.ClassName); ok {
			if mixinBody != nil && mixinBody.Kind == ir.NSkip {
				return true
			}
		}
		// Delegation to another (super- or same-class) constructor:
		// elidable if all arguments are trivially side-effect-free and
		// the delegate's own body is itself elidable.
		for _, arg := range t.Children {
			if !isTriviallySideEffectFree(arg) {
				return false
			}
		}
		delegateBody, ok := resolve(t.ClassName)
		if !ok {
			return false
		}
		return isElidableTree(delegateBody, resolve)

	default:
		return false
	}
}

func isTriviallySideEffectFree(t *ir.Tree) bool {
	return ir.IsSideEffectFreeLeaf(t)
}
