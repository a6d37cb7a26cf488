package debugentry

import (
	"fmt"
	"sync"
)

// ClassEntry tracks the debug info associated with one compiled class: its
// super/interface links, declared fields and methods, the primary and
// inlined code ranges compiled for it, and the per-class 1-based file and
// directory index the line-table writer consumes directly as on-disk
// numbers. Position 0 is reserved to mean "no file" / "no dir".
//
// Population is single-writer: one ingestion goroutine per ClassEntry, no
// mutation after the pass completes. The one cross-entry write, the
// implementor back-link on interface entries, has its own lock.
type ClassEntry struct {
	structureTypeEntry
	kind       TypeKind
	superClass *ClassEntry
	interfaces []*ClassEntry
	fileEntry  *FileEntry
	methods    []*MethodEntry

	// primaryEntries and primaryIndex stay consistent: a range is a key in
	// one iff its entry is in the other. Append order is the producer's
	// ascending address order; no sorting happens here.
	primaryEntries []*PrimaryEntry
	primaryIndex   map[*Range]*PrimaryEntry

	localFiles      []*FileEntry
	localFilesIndex map[*FileEntry]int
	localDirs       []*DirEntry
	localDirsIndex  map[*DirEntry]int

	includesDeoptTarget bool
	installed           bool

	implMu       sync.Mutex
	implementors []*ClassEntry
}

func newClassEntry(className string, fileEntry *FileEntry, size int, kind TypeKind) *ClassEntry {
	c := &ClassEntry{
		kind:            kind,
		fileEntry:       fileEntry,
		primaryIndex:    make(map[*Range]*PrimaryEntry),
		localFilesIndex: make(map[*FileEntry]int),
		localDirsIndex:  make(map[*DirEntry]int),
	}
	c.typeName = className
	c.size = size
	// The class's own file and dir always get the lowest indices, which the
	// writer relies on as a fast path.
	if fileEntry != nil {
		c.indexLocalFileEntry(fileEntry)
	}
	return c
}

// NewClassEntry builds a standalone instance-kind class entry. Classes that
// take part in cross-class resolution are created through the Registry
// instead.
func NewClassEntry(className string, fileEntry *FileEntry, size int) *ClassEntry {
	return newClassEntry(Canonicalize(className), fileEntry, size, KindInstance)
}

func (c *ClassEntry) Kind() TypeKind { return c.kind }

// IngestTypeInfo wires the class against its type facts: resolves the super
// class and interfaces by canonical name, ingests fields and methods.
// Called once per class after every class has been installed in the
// registry.
func (c *ClassEntry) IngestTypeInfo(reg *Registry, facts TypeFacts) error {
	if Canonicalize(facts.TypeName) != c.typeName {
		return contractErrf("type facts for %s applied to class %s", facts.TypeName, c.typeName)
	}
	superName := facts.SuperName
	if superName != "" {
		superName = Canonicalize(superName)
	}
	reg.Tracef("typename %s adding super %s", c.typeName, superName)
	if superName != "" {
		super, err := reg.LookupClassEntry(superName)
		if err != nil {
			return err
		}
		c.superClass = super
	}
	for _, interfaceName := range facts.Interfaces {
		if err := c.processInterface(reg, interfaceName); err != nil {
			return err
		}
	}
	for _, fieldFacts := range facts.Fields {
		c.processField(reg, fieldFacts)
	}
	for _, methodFacts := range facts.Methods {
		if _, err := c.processMethod(reg, methodFacts); err != nil {
			return err
		}
	}
	return nil
}

func (c *ClassEntry) processInterface(reg *Registry, interfaceName string) error {
	reg.Tracef("typename %s adding interface %s", c.typeName, interfaceName)
	entry, err := reg.LookupClassEntry(Canonicalize(interfaceName))
	if err != nil {
		return err
	}
	if entry.kind != KindInterface {
		return contractErrf("class %s implements %s which is not an interface", c.typeName, entry.typeName)
	}
	c.interfaces = append(c.interfaces, entry)
	entry.addImplementor(c)
	return nil
}

// addImplementor records the back-link on an interface entry. Implementing
// classes may be populated concurrently, so this one write is serialized.
func (c *ClassEntry) addImplementor(implementor *ClassEntry) {
	c.implMu.Lock()
	c.implementors = append(c.implementors, implementor)
	c.implMu.Unlock()
}

// processField ingests one field and interns its file, if it has one, into
// the local tables.
func (c *ClassEntry) processField(reg *Registry, facts FieldFacts) *FieldEntry {
	field := c.addField(reg, facts)
	if field.fileEntry != nil {
		c.indexLocalFileEntry(field.fileEntry)
	}
	return field
}

// processMethod resolves the method's signature types and file and appends
// a new MethodEntry. The method's file is not interned locally here; that
// happens when a range referencing the method is indexed.
func (c *ClassEntry) processMethod(reg *Registry, facts MethodFacts) (*MethodEntry, error) {
	methodName := reg.UniqueString(facts.Name)
	resultTypeName := Canonicalize(facts.ValueType)
	if len(facts.ParamTypes) != len(facts.ParamNames) {
		return nil, contractErrf("method %s.%s has %d param types but %d param names",
			c.typeName, methodName, len(facts.ParamTypes), len(facts.ParamNames))
	}
	reg.Tracef("typename %s adding %s method %s %s(%s)",
		c.typeName, memberModifiers(facts.Modifiers), resultTypeName, methodName,
		formatParams(facts.ParamTypes, facts.ParamNames))
	resultType := reg.LookupType(resultTypeName)
	paramTypes := make([]TypeEntry, len(facts.ParamTypes))
	for i, paramTypeName := range facts.ParamTypes {
		paramTypes[i] = reg.LookupType(Canonicalize(paramTypeName))
	}
	paramNames := make([]string, len(facts.ParamNames))
	copy(paramNames, facts.ParamNames)
	// n.b. the method file may differ from the owning class file when the
	// method is a substitution
	methodFile := reg.EnsureFileEntry(facts.FileName, facts.FilePath, facts.CachePath)
	method := &MethodEntry{
		fileEntry:      methodFile,
		methodName:     methodName,
		ownerType:      c,
		valueType:      resultType,
		paramTypes:     paramTypes,
		paramNames:     paramNames,
		paramSignature: facts.signature(),
		modifiers:      facts.Modifiers,
		isDeoptTarget:  facts.IsDeoptTarget,
	}
	c.methods = append(c.methods, method)
	return method, nil
}

// EnsureMethodEntry returns the existing entry matching the facts' (name,
// parameter signature, return type) triple, creating one only when no
// method matches. Ingesting the same method twice never duplicates it.
func (c *ClassEntry) EnsureMethodEntry(reg *Registry, facts MethodFacts) (*MethodEntry, error) {
	methodName := reg.UniqueString(facts.Name)
	// TODO improve data structure to avoid loops...
	for _, method := range c.methods {
		if method.match(methodName, facts.signature(), facts.ValueType) {
			return method, nil
		}
	}
	return c.processMethod(reg, facts)
}

// IndexPrimary registers one compiled method body's range together with its
// frame metadata. Indexing an already-known range is a no-op. Callers must
// supply primaries in ascending address order, with every deopt-target
// range after all normal ranges of the class.
func (c *ClassEntry) IndexPrimary(primary *Range, frameSizeInfos []FrameSizeChange, frameSize int) error {
	if _, ok := c.primaryIndex[primary]; ok {
		return nil
	}
	if primary.fileEntry == nil {
		return contractErrf("primary range %s in class %s has no file entry", primary, c.typeName)
	}
	if !primary.IsDeoptTarget() && c.includesDeoptTarget {
		// deopt targets must form a trailing block of the primary list
		return contractErrf("class %s: non-deopt range %s arrived after a deopt-target range", c.typeName, primary)
	}
	entry := newPrimaryEntry(primary, frameSizeInfos, frameSize, c)
	c.primaryEntries = append(c.primaryEntries, entry)
	c.primaryIndex[primary] = entry
	if primary.IsDeoptTarget() {
		c.includesDeoptTarget = true
	}
	c.indexLocalFileEntry(primary.fileEntry)
	return nil
}

// IndexSubRange attaches an inlined range to its already-indexed primary.
func (c *ClassEntry) IndexSubRange(subrange *Range) error {
	primary := subrange.Primary()
	if primary == nil {
		return contractErrf("sub-range %s has no primary range", subrange)
	}
	entry, ok := c.primaryIndex[primary]
	if !ok {
		return contractErrf("sub-range %s indexed before its primary %s", subrange, primary)
	}
	if entry.classEntry != c {
		return contractErrf("sub-range %s primary belongs to class %s, not %s", subrange, entry.classEntry.typeName, c.typeName)
	}
	entry.addSubRange(subrange)
	if subrange.fileEntry != nil {
		c.indexLocalFileEntry(subrange.fileEntry)
	}
	return nil
}

func (c *ClassEntry) indexLocalFileEntry(localFile *FileEntry) {
	if _, ok := c.localFilesIndex[localFile]; ok {
		return
	}
	c.localFiles = append(c.localFiles, localFile)
	c.localFilesIndex[localFile] = len(c.localFiles)
	dir := localFile.dirEntry
	if dir != nil {
		if _, ok := c.localDirsIndex[dir]; !ok {
			c.localDirs = append(c.localDirs, dir)
			c.localDirsIndex[dir] = len(c.localDirs)
		}
	}
}

// LocalFileIndex returns the 1-based position of file in the class's local
// file table. The file must have been interned by an earlier ingestion
// step; querying an unknown file is a producer bug and panics.
func (c *ClassEntry) LocalFileIndex(file *FileEntry) int {
	idx, ok := c.localFilesIndex[file]
	if !ok {
		panic(fmt.Sprintf("debugentry: file %s was never indexed in class %s", file.fullName, c.typeName))
	}
	return idx
}

// LocalDirIndex returns the 1-based position of dir in the class's local
// dir table, or 0 for a nil dir. Querying a dir that was never interned is
// a producer bug and panics.
func (c *ClassEntry) LocalDirIndex(dir *DirEntry) int {
	if dir == nil {
		return 0
	}
	idx, ok := c.localDirsIndex[dir]
	if !ok {
		panic(fmt.Sprintf("debugentry: dir %s was never indexed in class %s", dir.path, c.typeName))
	}
	return idx
}

// MakePrimaryRange builds the primary Range for one compiled body,
// attributing it to a file in priority order: the method's own file, then
// the file of any declared method matching the signature, then the class's
// own file. The result is not indexed here; IndexPrimary runs once frame
// information is also available.
func (c *ClassEntry) MakePrimaryRange(methodName, symbolName, paramSignature, returnTypeName string, st *StringTable, method *MethodEntry, lo, hi uint64, primaryLine int) *Range {
	fileToUse := method.fileEntry
	if fileToUse == nil {
		for _, candidate := range c.methods {
			if candidate.match(methodName, paramSignature, returnTypeName) {
				fileToUse = candidate.fileEntry
				break
			}
		}
		if fileToUse == nil {
			// last chance is the class's own file, which may itself be nil
			fileToUse = c.fileEntry
		}
	}
	return newRange(symbolName, st, method, fileToUse, lo, hi, primaryLine, nil)
}

// IsPrimary reports whether any code was compiled for this class.
func (c *ClassEntry) IsPrimary() bool { return len(c.primaryEntries) != 0 }

func (c *ClassEntry) SuperClass() *ClassEntry      { return c.superClass }
func (c *ClassEntry) Interfaces() []*ClassEntry    { return c.interfaces }
func (c *ClassEntry) Methods() []*MethodEntry      { return c.methods }
func (c *ClassEntry) PrimaryEntries() []*PrimaryEntry { return c.primaryEntries }
func (c *ClassEntry) LocalFiles() []*FileEntry     { return c.localFiles }
func (c *ClassEntry) LocalDirs() []*DirEntry       { return c.localDirs }
func (c *ClassEntry) IncludesDeoptTarget() bool    { return c.includesDeoptTarget }

// Implementors returns the classes recorded as implementing this interface
// entry. Empty for instance-kind entries.
func (c *ClassEntry) Implementors() []*ClassEntry {
	c.implMu.Lock()
	defer c.implMu.Unlock()
	out := make([]*ClassEntry, len(c.implementors))
	copy(out, c.implementors)
	return out
}

// FileEntry returns the class's own declaration file, or nil.
func (c *ClassEntry) FileEntry() *FileEntry { return c.fileEntry }

func (c *ClassEntry) FileName() string {
	if c.fileEntry != nil {
		return c.fileEntry.fileName
	}
	return ""
}

func (c *ClassEntry) FullFileName() string {
	if c.fileEntry != nil {
		return c.fileEntry.fullName
	}
	return ""
}

func (c *ClassEntry) DirName() string {
	if c.fileEntry != nil {
		return c.fileEntry.PathName()
	}
	return ""
}

func (c *ClassEntry) CachePath() string {
	if c.fileEntry != nil {
		return c.fileEntry.cachePath
	}
	return ""
}
