package hierarchy

import "optlink/internal/ir"

// DeriveInlineableRecord derives a class's zero-record: when hintsRecordInlineable
// is set, the synthesized record has one zero-initialized field per
// non-static field across the entire parent chain, root-to-leaf (using
// the reverse parent chain, so a subclass's own fields always sort after
// its ancestors').
func DeriveInlineableRecord(className string, hintsRecordInlineable bool, reverseParentChain []*Class) (ir.InlineableRecord, bool) {
	if !hintsRecordInlineable {
		return ir.InlineableRecord{}, false
	}

	rec := ir.InlineableRecord{ClassName: className}
	for _, cl := range reverseParentChain {
		for _, f := range cl.Fields() {
			if f.IsStatic {
				continue
			}
			rec.Fields = append(rec.Fields, ir.FieldValue{Field: f, Zero: ir.ZeroValueFor(f.Type)})
		}
	}
	return rec, true
}
