package debugentry

import "strings"

// The facts types below are the upstream interface: the shape in which the
// compiler front end reports what it knows about each class and each
// compiled method body. They are plain data; all resolution against shared
// tables happens during ingestion.

// TypeFacts describes one class or interface.
type TypeFacts struct {
	TypeName   string
	Kind       TypeKind // KindInstance or KindInterface
	FileName   string
	FilePath   string
	CachePath  string
	Size       int
	SuperName  string // "" for root types
	Interfaces []string
	Fields     []FieldFacts
	Methods    []MethodFacts
}

// FieldFacts describes one declared field.
type FieldFacts struct {
	Name      string
	TypeName  string
	Size      int
	Offset    int
	Modifiers int
	FileName  string // may differ from the class file for substituted fields
	FilePath  string
}

// MethodFacts describes one method signature.
type MethodFacts struct {
	Name           string
	ValueType      string // return type name
	ParamTypes     []string
	ParamNames     []string // parallel to ParamTypes
	ParamSignature string   // derived from ParamTypes when ""
	Modifiers      int
	FileName       string // may differ from the class file for substitutions
	FilePath       string
	CachePath      string
	IsDeoptTarget  bool
}

// signature returns the canonical parameter signature, deriving it from the
// parameter type list when the producer did not spell one out.
func (m MethodFacts) signature() string {
	if m.ParamSignature != "" {
		return canonicalizeSignature(m.ParamSignature)
	}
	parts := make([]string, len(m.ParamTypes))
	for i, t := range m.ParamTypes {
		parts[i] = Canonicalize(t)
	}
	return strings.Join(parts, ", ")
}

// InlineFacts describes one inlined call site nested in a compiled body.
type InlineFacts struct {
	ClassName  string // class declaring the inlined callee
	Method     MethodFacts
	SymbolName string
	FileName   string // "" when the inlined code reuses the primary's file
	FilePath   string
	Lo, Hi     uint64
	Line       int
}

// CompilationFacts describes one compiled method body: its primary address
// range, frame metadata, and the inlined ranges nested inside it.
// Compilations must be reported in ascending address order, with every
// deopt-target compilation of a class after all of its normal ones.
type CompilationFacts struct {
	ClassName        string
	Method           MethodFacts
	SymbolName       string
	Lo, Hi           uint64
	Line             int
	FrameSize        int
	FrameSizeChanges []FrameSizeChange
	Inlines          []InlineFacts
}

// Provider is the type-description source driving one ingestion pass.
type Provider interface {
	// TypeInfo yields the per-class facts, every referenced type included.
	TypeInfo() []TypeFacts
	// CodeInfo yields the compiled bodies in emission (address) order.
	CodeInfo() []CompilationFacts
}
