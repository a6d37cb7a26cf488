package debugentry

import "strings"

// Member modifier bits, matching the class-file encoding the front end
// reports.
const (
	ModPublic       = 0x0001
	ModPrivate      = 0x0002
	ModProtected    = 0x0004
	ModStatic       = 0x0008
	ModFinal        = 0x0010
	ModSynchronized = 0x0020
	ModVolatile     = 0x0040
	ModTransient    = 0x0080
	ModNative       = 0x0100
	ModAbstract     = 0x0400
)

// MethodEntry describes one method declared by a class: its signature, the
// file it originates from and whether it is a deopt-target variant. Owned
// by the ClassEntry it was discovered on.
type MethodEntry struct {
	fileEntry      *FileEntry
	methodName     string
	ownerType      *ClassEntry
	valueType      TypeEntry
	paramTypes     []TypeEntry
	paramNames     []string
	paramSignature string
	modifiers      int
	isDeoptTarget  bool
}

func (m *MethodEntry) Name() string            { return m.methodName }
func (m *MethodEntry) OwnerType() *ClassEntry  { return m.ownerType }
func (m *MethodEntry) ValueType() TypeEntry    { return m.valueType }
func (m *MethodEntry) ParamTypes() []TypeEntry { return m.paramTypes }
func (m *MethodEntry) ParamNames() []string    { return m.paramNames }
func (m *MethodEntry) ParamSignature() string  { return m.paramSignature }
func (m *MethodEntry) Modifiers() int          { return m.modifiers }
func (m *MethodEntry) IsDeoptTarget() bool     { return m.isDeoptTarget }

// FileEntry returns the file the method originates from, or nil. The
// method file may differ from the owning class file when the method is a
// substitution.
func (m *MethodEntry) FileEntry() *FileEntry { return m.fileEntry }

// match reports whether this entry has the given name, parameter signature
// and return type. Signature and return type are compared canonicalized.
func (m *MethodEntry) match(methodName, paramSignature, returnTypeName string) bool {
	return m.methodName == methodName &&
		m.paramSignature == canonicalizeSignature(paramSignature) &&
		m.valueType.TypeName() == Canonicalize(returnTypeName)
}

// memberModifiers renders modifier bits the way they read in source, for
// trace output only.
func memberModifiers(modifiers int) string {
	var parts []string
	if modifiers&ModPublic != 0 {
		parts = append(parts, "public")
	}
	if modifiers&ModProtected != 0 {
		parts = append(parts, "protected")
	}
	if modifiers&ModPrivate != 0 {
		parts = append(parts, "private")
	}
	if modifiers&ModStatic != 0 {
		parts = append(parts, "static")
	}
	if modifiers&ModAbstract != 0 {
		parts = append(parts, "abstract")
	}
	if modifiers&ModFinal != 0 {
		parts = append(parts, "final")
	}
	if modifiers&ModSynchronized != 0 {
		parts = append(parts, "synchronized")
	}
	if modifiers&ModNative != 0 {
		parts = append(parts, "native")
	}
	return strings.Join(parts, " ")
}

// formatParams renders "type name, type name" pairs for trace output.
func formatParams(paramTypes, paramNames []string) string {
	if len(paramNames) == 0 {
		return ""
	}
	var b strings.Builder
	for i := range paramNames {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(paramTypes[i])
		if paramNames[i] != "" {
			b.WriteByte(' ')
			b.WriteString(paramNames[i])
		}
	}
	return b.String()
}
