package debugentry

import "strings"

// TypeKind classifies a TypeEntry for the writer's tag selection.
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindInstance
	KindInterface
	KindArray
)

func (k TypeKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindInstance:
		return "instance"
	case KindInterface:
		return "interface"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// TypeEntry is the common view of every registered type. Entries are owned
// by the Registry and immutable once registered under their canonical name;
// looking the name up again always returns the same instance.
type TypeEntry interface {
	TypeName() string
	Size() int
	Kind() TypeKind
}

type typeEntryBase struct {
	typeName string
	size     int
}

func (t *typeEntryBase) TypeName() string { return t.typeName }
func (t *typeEntryBase) Size() int        { return t.size }

// PrimitiveTypeEntry describes a builtin value type with a fixed byte size.
type PrimitiveTypeEntry struct {
	typeEntryBase
}

func (t *PrimitiveTypeEntry) Kind() TypeKind { return KindPrimitive }

// ArrayTypeEntry describes an array type. The element type is recorded by
// name and resolved through the Registry when the writer needs it.
type ArrayTypeEntry struct {
	typeEntryBase
	elementName string
}

func (t *ArrayTypeEntry) Kind() TypeKind { return KindArray }

// ElementTypeName returns the canonical name of the element type.
func (t *ArrayTypeEntry) ElementTypeName() string { return t.elementName }

// primitiveSizes maps builtin type names to their value sizes in bytes.
var primitiveSizes = map[string]int{
	"void":    0,
	"boolean": 1,
	"byte":    1,
	"char":    2,
	"short":   2,
	"int":     4,
	"float":   4,
	"long":    8,
	"double":  8,
}

// Canonicalize maps a raw type-name spelling to the single normalized
// spelling used as a lookup key across the whole registry. Internal '/'
// package separators become '.', surrounding space is trimmed, and array
// suffixes collapse to a bare "[]" so "int [ ]" and "int[]" share one key.
// The function is idempotent.
func Canonicalize(typeName string) string {
	s := strings.TrimSpace(typeName)
	s = strings.ReplaceAll(s, "/", ".")
	if !strings.ContainsAny(s, " \t[") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case ' ', '\t':
			// drop interior spacing, as in "int [ ]"
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// canonicalizeSignature normalizes a comma-separated parameter signature so
// signature matching is insensitive to spelling differences of the
// component type names.
func canonicalizeSignature(paramSignature string) string {
	if paramSignature == "" {
		return ""
	}
	parts := strings.Split(paramSignature, ",")
	for i, p := range parts {
		parts[i] = Canonicalize(p)
	}
	return strings.Join(parts, ", ")
}
