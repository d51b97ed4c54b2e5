package lsp

import (
	"encoding/json"
	"fmt"

	"optlink/internal/ir"
)

// unitWire is the JSON shape an editor's notification body carries for
// one linking-unit snapshot. There is no source-text grammar on this
// side of the boundary: the
// "document" an open/change notification edits is this encoding of a
// ir.LinkingUnit, the same shape the core linker would produce.
type unitWire struct {
	ModuleInitializers []string `json:"moduleInitializers"`
	Classes []classWire `json:"classes"`
	RequiredSymbols []symbolWire `json:"requiredSymbols,omitempty"`
}

// symbolWire carries one ir.Symbol the rendered unit reports as always
// reachable regardless of whether any rendered method body references
// it. It is output-only: ParseLinkingUnit ignores it on the way in,
// since the required set is fixed by this core rather than supplied by
// a caller.
type symbolWire struct {
	ClassName string `json:"className"`
	MethodName string `json:"methodName,omitempty"`
}

type classWire struct {
	EncodedName string `json:"encodedName"`
	Kind string `json:"kind"`
	SuperClass string `json:"superClass,omitempty"`
	HasSuperClass bool `json:"hasSuperClass"`
	Ancestors []string `json:"ancestors,omitempty"`
	HasInstances bool `json:"hasInstances"`
	Fields []fieldWire `json:"fields,omitempty"`
	Methods []methodWire `json:"methods,omitempty"`
	RecordInlineable bool `json:"recordInlineable"`
}

type fieldWire struct {
	Name string `json:"name"`
	Type string `json:"type"`
	IsStatic bool `json:"isStatic"`
}

type methodWire struct {
	EncodedName string `json:"encodedName"`
	Namespace string `json:"namespace"`
	IsConstructor bool `json:"isConstructor"`
	Version string `json:"version,omitempty"`
	HasVersion bool `json:"hasVersion"`
	Hash string `json:"hash,omitempty"`
	HasHash bool `json:"hasHash"`
	Inlineable bool `json:"inlineable"`
	IsForwarder bool `json:"isForwarder"`
	Body *treeWire `json:"body,omitempty"`
	HasBody bool `json:"hasBody"`
}

// treeWire mirrors ir.Tree field-for-field; Literal is carried as a raw
// JSON value since a method body's literal payload is untyped on the
// wire the same way it is in ir.Tree.
type treeWire struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
	ClassName string `json:"className,omitempty"`
	CallNamespace string `json:"callNamespace,omitempty"`
	Literal interface{} `json:"literal,omitempty"`
	Children []*treeWire `json:"children,omitempty"`
}

var classKindNames = map[ir.ClassKind]string{
	ir.KindClass: "class",
	ir.KindHijackedClass: "hijacked-class",
	ir.KindInterface: "interface",
	ir.KindModuleClass: "module-class",
	ir.KindOther: "other",
}

var classKindValues = map[string]ir.ClassKind{
	"class": ir.KindClass,
	"hijacked-class": ir.KindHijackedClass,
	"interface": ir.KindInterface,
	"module-class": ir.KindModuleClass,
	"other": ir.KindOther,
}

var namespaceValues = map[string]ir.Namespace{
	"public-static": ir.PublicStatic,
	"private-static": ir.PrivateStatic,
	"constructor": ir.Constructor,
	"static-constructor": ir.StaticConstructor,
	"public-instance": ir.PublicInstance,
	"private-instance": ir.PrivateInstance,
}

var nodeKindNames = map[ir.NodeKind]string{
	ir.NSkip: "skip",
	ir.NBlock: "block",
	ir.NLiteral: "literal",
	ir.NVarRef: "var-ref",
	ir.NThis: "this",
	ir.NFieldAssign: "field-assign",
	ir.NFieldGet: "field-get",
	ir.NStoreModule: "store-module",
	ir.NStaticCall: "static-call",
	ir.NDynamicCall: "dynamic-call",
	ir.NReturn: "return",
	ir.NBinOp: "bin-op",
	ir.NLocalSet: "local-set",
}

var nodeKindValues = func() map[string]ir.NodeKind {
	out := make(map[string]ir.NodeKind, len(nodeKindNames))
	for k, v := range nodeKindNames {
		out[v] = k
	}
	return out
}()

// ParseLinkingUnit decodes raw into a ir.LinkingUnit. coreSpec is
// attached unmodified as the unit's opaque CoreSpec.
func ParseLinkingUnit(raw []byte, coreSpec any) (*ir.LinkingUnit, error) {
	var w unitWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode linking unit: %w", err)
	}

	classes := make([]*ir.LinkedClass, len(w.Classes))
	for i, c := range w.Classes {
		lc, err := c.toIR()
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", c.EncodedName, err)
		}
		classes[i] = lc
	}

	return &ir.LinkingUnit{
		CoreSpec: ir.CoreSpec{Data: coreSpec},
		Classes: classes,
		ModuleInitializers: w.ModuleInitializers,
	}, nil
}

func (c classWire) toIR() (*ir.LinkedClass, error) {
	kind, ok := classKindValues[c.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown class kind %q", c.Kind)
	}

	fields := make([]ir.FieldDef, len(c.Fields))
	for i, f := range c.Fields {
		fields[i] = ir.FieldDef{Name: f.Name, Type: f.Type, IsStatic: f.IsStatic}
	}

	methods := make([]ir.Versioned[ir.MethodDef], len(c.Methods))
	for i, m := range c.Methods {
		md, err := m.toIR()
		if err != nil {
			return nil, fmt.Errorf("method %q: %w", m.EncodedName, err)
		}
		methods[i] = ir.Versioned[ir.MethodDef]{Value: md, Version: m.Version, HasVersion: m.HasVersion}
	}

	return &ir.LinkedClass{
		EncodedName: c.EncodedName,
		Kind: kind,
		SuperClass: c.SuperClass,
		HasSuperClass: c.HasSuperClass,
		Ancestors: c.Ancestors,
		HasInstances: c.HasInstances,
		Fields: fields,
		Methods: methods,
		OptimizerHints: ir.ClassOptimizerHints{RecordInlineable: c.RecordInlineable},
	}, nil
}

func (m methodWire) toIR() (ir.MethodDef, error) {
	ns, ok := namespaceValues[m.Namespace]
	if !ok {
		return ir.MethodDef{}, fmt.Errorf("unknown namespace %q", m.Namespace)
	}
	var body *ir.Tree
	if m.HasBody && m.Body != nil {
		var err error
		body, err = m.Body.toIR()
		if err != nil {
			return ir.MethodDef{}, err
		}
	}
	return ir.MethodDef{
		EncodedName: m.EncodedName,
		Flags: ir.MethodFlags{Namespace: ns, IsConstructor: m.IsConstructor},
		Hash: ir.TreeHash(m.Hash),
		HasHash: m.HasHash,
		OptimizerHints: ir.OptimizerHints{
			Inlineable: m.Inlineable,
			IsForwarder: m.IsForwarder,
		},
		Body: body,
		HasBody: m.HasBody,
	}, nil
}

func (t *treeWire) toIR() (*ir.Tree, error) {
	if t == nil {
		return nil, nil
	}
	kind, ok := nodeKindValues[t.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown node kind %q", t.Kind)
	}
	children := make([]*ir.Tree, 0, len(t.Children))
	for _, c := range t.Children {
		ct, err := c.toIR()
		if err != nil {
			return nil, err
		}
		children = append(children, ct)
	}
	var callNS ir.Namespace
	if t.CallNamespace != "" {
		ns, ok := namespaceValues[t.CallNamespace]
		if !ok {
			return nil, fmt.Errorf("unknown call namespace %q", t.CallNamespace)
		}
		callNS = ns
	}
	return &ir.Tree{
		Kind: kind,
		Name: t.Name,
		ClassName: t.ClassName,
		CallNamespace: callNS,
		Literal: t.Literal,
		Children: children,
	}, nil
}

// RenderLinkingUnit encodes unit back to the wire shape, used to report
// the optimized result to the client over a custom notification.
func RenderLinkingUnit(unit *ir.LinkingUnit) ([]byte, error) {
	w := unitWire{
		ModuleInitializers: unit.ModuleInitializers,
		Classes: make([]classWire, len(unit.Classes)),
	}
	for i, lc := range unit.Classes {
		w.Classes[i] = fromIRClass(lc)
	}
	required := ir.RequiredSymbols()
	w.RequiredSymbols = make([]symbolWire, len(required))
	for i, s := range required {
		w.RequiredSymbols[i] = symbolWire{ClassName: s.ClassName, MethodName: s.MethodName}
	}
	return json.MarshalIndent(w, "", " ")
}

func fromIRClass(lc *ir.LinkedClass) classWire {
	fields := make([]fieldWire, len(lc.Fields))
	for i, f := range lc.Fields {
		fields[i] = fieldWire{Name: f.Name, Type: f.Type, IsStatic: f.IsStatic}
	}
	methods := make([]methodWire, len(lc.Methods))
	for i, v := range lc.Methods {
		methods[i] = fromIRMethod(v)
	}
	return classWire{
		EncodedName: lc.EncodedName,
		Kind: classKindNames[lc.Kind],
		SuperClass: lc.SuperClass,
		HasSuperClass: lc.HasSuperClass,
		Ancestors: lc.Ancestors,
		HasInstances: lc.HasInstances,
		Fields: fields,
		Methods: methods,
		RecordInlineable: lc.OptimizerHints.RecordInlineable,
	}
}

func fromIRMethod(v ir.Versioned[ir.MethodDef]) methodWire {
	m := v.Value
	return methodWire{
		EncodedName: m.EncodedName,
		Namespace: m.Flags.Namespace.String(),
		IsConstructor: m.Flags.IsConstructor,
		Version: v.Version,
		HasVersion: v.HasVersion,
		Hash: string(m.Hash),
		HasHash: m.HasHash,
		Inlineable: m.OptimizerHints.Inlineable,
		IsForwarder: m.OptimizerHints.IsForwarder,
		Body: fromIRTree(m.Body),
		HasBody: m.HasBody,
	}
}

func fromIRTree(t *ir.Tree) *treeWire {
	if t == nil {
		return nil
	}
	children := make([]*treeWire, 0, len(t.Children))
	for _, c := range t.Children {
		children = append(children, fromIRTree(c))
	}
	var callNS string
	if t.Kind == ir.NStaticCall {
		callNS = t.CallNamespace.String()
	}
	return &treeWire{
		Kind: nodeKindNames[t.Kind],
		Name: t.Name,
		ClassName: t.ClassName,
		CallNamespace: callNS,
		Literal: t.Literal,
		Children: children,
	}
}
