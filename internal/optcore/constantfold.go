package optcore

import (
	"optlink/internal/ir"
	"optlink/internal/optapi"
)

// constantFold evaluates NBinOp nodes whose operands are both literals,
// replacing the node with its computed NLiteral.
type constantFold struct{}

func (constantFold) Name() string { return "constant-fold" }

func (constantFold) Apply(_ string, body *ir.Tree, _ optapi.Hooks) (*ir.Tree, bool) {
	changed := false
	out := rewriteTree(body, func(t *ir.Tree) *ir.Tree {
		if t.Kind != ir.NBinOp || len(t.Children) != 2 {
			return t
		}
		left, lok := t.Children[0].Literal, t.Children[0].Kind == ir.NLiteral
		right, rok := t.Children[1].Literal, t.Children[1].Kind == ir.NLiteral
		if !lok || !rok {
			return t
		}
		result, ok := computeBinOp(t.Name, left, right)
		if !ok {
			return t
		}
		changed = true
		return &ir.Tree{Kind: ir.NLiteral, Literal: result}
	})
	return out, changed
}

func computeBinOp(op string, left, right any) (any, bool) {
	if li, lok := left.(int64); lok {
		if ri, rok := right.(int64); rok {
			switch op {
			case "+":
				return li + ri, true
			case "-":
				return li - ri, true
			case "*":
				return li * ri, true
			case "/":
				if ri != 0 {
					return li / ri, true
				}
				return nil, false
			case "==":
				return li == ri, true
			case "!=":
				return li != ri, true
			case "<":
				return li < ri, true
			case "<=":
				return li <= ri, true
			case ">":
				return li > ri, true
			case ">=":
				return li >= ri, true
			}
			return nil, false
		}
	}
	if lb, lok := left.(bool); lok {
		if rb, rok := right.(bool); rok {
			switch op {
			case "&&":
				return lb && rb, true
			case "||":
				return lb || rb, true
			case "==":
				return lb == rb, true
			case "!=":
				return lb != rb, true
			}
		}
	}
	return nil, false
}
