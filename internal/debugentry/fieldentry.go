package debugentry

// FieldEntry describes one declared field of a structured type.
type FieldEntry struct {
	fieldName string
	valueType TypeEntry
	size      int
	offset    int
	modifiers int
	fileEntry *FileEntry
}

func (f *FieldEntry) Name() string         { return f.fieldName }
func (f *FieldEntry) ValueType() TypeEntry { return f.valueType }
func (f *FieldEntry) Size() int            { return f.size }
func (f *FieldEntry) Offset() int          { return f.offset }
func (f *FieldEntry) Modifiers() int       { return f.modifiers }

// FileEntry returns the file the field was declared in, or nil. The field
// file may differ from the owning class file when the declaration comes
// from a substitution source.
func (f *FieldEntry) FileEntry() *FileEntry { return f.fileEntry }

// structureTypeEntry carries the field list shared by every structured
// type. ClassEntry builds on it and layers the per-class local file index
// on top of the plain field ingestion done here.
type structureTypeEntry struct {
	typeEntryBase
	fields []*FieldEntry
}

// Fields returns the declared fields in discovery order.
func (s *structureTypeEntry) Fields() []*FieldEntry { return s.fields }

// addField resolves the field's value type and file through the registry
// and appends a new FieldEntry.
func (s *structureTypeEntry) addField(reg *Registry, facts FieldFacts) *FieldEntry {
	valueType := reg.LookupType(Canonicalize(facts.TypeName))
	fileEntry := reg.EnsureFileEntry(facts.FileName, facts.FilePath, "")
	field := &FieldEntry{
		fieldName: reg.UniqueString(facts.Name),
		valueType: valueType,
		size:      facts.Size,
		offset:    facts.Offset,
		modifiers: facts.Modifiers,
		fileEntry: fileEntry,
	}
	s.fields = append(s.fields, field)
	return field
}
