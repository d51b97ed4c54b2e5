package ir

// Versioned wraps a value with an optional stable version string. Two
// versioned inputs with identical (non-empty) versions are treated as
// equal without inspecting Value — this is the fast path update_with
// uses to skip work entirely on an unchanged run.
type Versioned[T any] struct {
	Value T
	Version string
	HasVersion bool
}

// MethodAttributes are the attributes exposed to the intra-method
// optimizer: inlineable and
// is_forwarder. A change in either, as reported by update_with, is what
// propagates through walk_for_changes as a "method-attribute change".
type MethodAttributes struct {
	Inlineable bool
	IsForwarder bool
}

// OptimizerHints is the hint payload attached to a linked method
// definition; MethodAttributes are derived from it (today, 1:1, but kept
// distinct because the source linker may grow hints this core doesn't
// interpret into attributes).
type OptimizerHints struct {
	Inlineable bool
	IsForwarder bool
}

func (h OptimizerHints) Attributes() MethodAttributes {
	return MethodAttributes{Inlineable: h.Inlineable, IsForwarder: h.IsForwarder}
}

// MethodFlags carries the namespace placement and constructor-ness of a
// linked method.
type MethodFlags struct {
	Namespace Namespace
	IsConstructor bool
}

// MethodDef is the input shape of one linked method.
type MethodDef struct {
	EncodedName string
	Flags MethodFlags
	Hash TreeHash
	HasHash bool
	OptimizerHints OptimizerHints
	Body *Tree
	HasBody bool
}

// FieldDef describes one field of a linked class.
type FieldDef struct {
	Name string
	Type string
	IsStatic bool
}

// InlineableRecord is the zero-valued record synthesized for a
// record-inlineable class: one zero-initialized field per
// non-static field across the entire parent chain, root-to-leaf.
type InlineableRecord struct {
	ClassName string
	Fields []FieldValue
}

// FieldValue pairs a field with its zero value, as produced by
// ZeroValueFor.
type FieldValue struct {
	Field FieldDef
	Zero any
}

// ZeroValueFor returns the zero value for a field's declared type. The
// type names recognized here are the handful the linker's core spec
// actually emits; anything else zero-values to nil, which is itself a
// legitimate "no known zero value" answer for reference types.
func ZeroValueFor(fieldType string) any {
	switch fieldType {
	case "int", "i32", "i64":
		return int64(0)
	case "float", "f64":
		return float64(0)
	case "bool":
		return false
	case "string":
		return ""
	default:
		return nil
	}
}
