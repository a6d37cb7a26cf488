package debugentry

import (
	"fmt"
	"path"
	"strings"
	"sync"

	semver "github.com/Masterminds/semver/v3"
)

// supportedProducers is the range of front-end versions whose fact streams
// this index accepts.
const supportedProducers = ">= 1.0.0"

// Options configures a Registry for one generation run.
type Options struct {
	// ProducerVersion is the semantic version reported by the compiler
	// front end producing the facts. Validated against supportedProducers
	// when non-empty.
	ProducerVersion string
	// Tracef receives ingestion trace lines. Nil discards them.
	Tracef func(format string, args ...any)
}

// Registry owns every entity shared across classes during one debug-info
// generation run: the canonical string table and the process-wide type,
// class, file and directory tables. Cross-class references (super classes,
// interfaces, method value types) resolve through it by canonical name, so
// cross-entry links never carry ownership. Built once per run, handed to
// the writer, then discarded.
//
// Interning is mutex-guarded so independent per-class ingestion goroutines
// may share one Registry.
type Registry struct {
	tracef   func(format string, args ...any)
	producer *semver.Version
	strings  *StringTable

	mu        sync.Mutex
	types     map[string]TypeEntry
	classes   []*ClassEntry
	files     map[fileKey]*FileEntry
	fileOrder []*FileEntry
	dirs      map[string]*DirEntry
	dirOrder  []*DirEntry
}

type fileKey struct {
	path string
	name string
}

// NewRegistry builds an empty registry, validating the producer version
// when one is supplied.
func NewRegistry(opts Options) (*Registry, error) {
	r := &Registry{
		tracef:  opts.Tracef,
		strings: NewStringTable(),
		types:   make(map[string]TypeEntry),
		files:   make(map[fileKey]*FileEntry),
		dirs:    make(map[string]*DirEntry),
	}
	if r.tracef == nil {
		r.tracef = func(string, ...any) {}
	}
	if opts.ProducerVersion != "" {
		constraint, err := semver.NewConstraint(supportedProducers)
		if err != nil {
			return nil, fmt.Errorf("bad producer constraint %q: %w", supportedProducers, err)
		}
		version, err := semver.NewVersion(opts.ProducerVersion)
		if err != nil {
			return nil, fmt.Errorf("invalid producer version %q: %w", opts.ProducerVersion, err)
		}
		if !constraint.Check(version) {
			return nil, fmt.Errorf("unsupported producer version %s, need %s", version, supportedProducers)
		}
		r.producer = version
	}
	return r, nil
}

// Producer returns the validated front-end version, or nil when none was
// supplied.
func (r *Registry) Producer() *semver.Version { return r.producer }

// Tracef logs one ingestion trace line through the configured hook.
func (r *Registry) Tracef(format string, args ...any) {
	r.tracef(format, args...)
}

// UniqueString returns the canonical handle for s.
func (r *Registry) UniqueString(s string) string { return r.strings.Unique(s) }

// StringTable exposes the canonical string table for the writer.
func (r *Registry) StringTable() *StringTable { return r.strings }

// LookupType returns the one TypeEntry registered under the canonical
// spelling of typeName, creating it on first reference. Unknown names
// become array entries when spelled with an "[]" suffix, primitive entries
// when they name a builtin, and placeholder class entries otherwise,
// filled in if the class is installed later. Repeated lookups always
// return the same instance.
func (r *Registry) LookupType(typeName string) TypeEntry {
	name := Canonicalize(typeName)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookupTypeLocked(name)
}

func (r *Registry) lookupTypeLocked(name string) TypeEntry {
	if entry, ok := r.types[name]; ok {
		return entry
	}
	var entry TypeEntry
	switch {
	case strings.HasSuffix(name, "[]"):
		arr := &ArrayTypeEntry{elementName: strings.TrimSuffix(name, "[]")}
		arr.typeName = name
		entry = arr
	default:
		if size, ok := primitiveSizes[name]; ok {
			prim := &PrimitiveTypeEntry{}
			prim.typeName = name
			prim.size = size
			entry = prim
		} else {
			class := newClassEntry(name, nil, 0, KindInstance)
			r.classes = append(r.classes, class)
			entry = class
		}
	}
	r.types[name] = entry
	return entry
}

// LookupClassEntry resolves typeName to a class entry. A name registered as
// a primitive or array type cannot stand in a class position; that is a
// producer bug.
func (r *Registry) LookupClassEntry(typeName string) (*ClassEntry, error) {
	entry := r.LookupType(typeName)
	class, ok := entry.(*ClassEntry)
	if !ok {
		return nil, contractErrf("type %s is a %s entry, not a class", entry.TypeName(), entry.Kind())
	}
	return class, nil
}

// InstallClass registers the class entry for className with its declaration
// file, size and kind. Installing an already-installed name returns the
// existing entry when the kind agrees. A placeholder created by an earlier
// by-name lookup is filled in rather than replaced, so every prior
// reference stays valid.
func (r *Registry) InstallClass(className string, fileEntry *FileEntry, size int, kind TypeKind) (*ClassEntry, error) {
	if kind != KindInstance && kind != KindInterface {
		return nil, contractErrf("class %s installed with kind %s", className, kind)
	}
	name := Canonicalize(className)
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.types[name]
	if !ok {
		class := newClassEntry(name, fileEntry, size, kind)
		class.installed = true
		r.types[name] = class
		r.classes = append(r.classes, class)
		return class, nil
	}
	class, ok := entry.(*ClassEntry)
	if !ok {
		return nil, contractErrf("class %s already registered as a %s entry", name, entry.Kind())
	}
	if class.installed {
		if class.kind != kind {
			return nil, contractErrf("class %s installed twice with kinds %s and %s", name, class.kind, kind)
		}
		return class, nil
	}
	class.kind = kind
	class.size = size
	if fileEntry != nil {
		if len(class.localFiles) > 0 {
			return nil, contractErrf("class %s referenced files before it was installed", name)
		}
		class.fileEntry = fileEntry
		class.indexLocalFileEntry(fileEntry)
	}
	class.installed = true
	return class, nil
}

// EnsureFileEntry interns the (filePath, fileName) pair, returning the
// shared FileEntry, or nil when fileName is empty. The cache path sticks
// from the first interning.
func (r *Registry) EnsureFileEntry(fileName, filePath, cachePath string) *FileEntry {
	if fileName == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fileKey{path: filePath, name: fileName}
	if file, ok := r.files[key]; ok {
		return file
	}
	file := &FileEntry{
		fileName:  fileName,
		fullName:  path.Join(filePath, fileName),
		dirEntry:  r.ensureDirLocked(filePath),
		cachePath: cachePath,
	}
	r.files[key] = file
	r.fileOrder = append(r.fileOrder, file)
	return file
}

// EnsureDirEntry interns dirPath, returning the shared DirEntry, or nil for
// an empty path.
func (r *Registry) EnsureDirEntry(dirPath string) *DirEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureDirLocked(dirPath)
}

func (r *Registry) ensureDirLocked(dirPath string) *DirEntry {
	if dirPath == "" {
		return nil
	}
	if dir, ok := r.dirs[dirPath]; ok {
		return dir
	}
	dir := &DirEntry{path: dirPath}
	r.dirs[dirPath] = dir
	r.dirOrder = append(r.dirOrder, dir)
	return dir
}

// Classes returns every class entry in creation order.
func (r *Registry) Classes() []*ClassEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ClassEntry, len(r.classes))
	copy(out, r.classes)
	return out
}

// Files returns the global file table in interning order.
func (r *Registry) Files() []*FileEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*FileEntry, len(r.fileOrder))
	copy(out, r.fileOrder)
	return out
}

// Dirs returns the global dir table in interning order.
func (r *Registry) Dirs() []*DirEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*DirEntry, len(r.dirOrder))
	copy(out, r.dirOrder)
	return out
}

// InstallDebugInfo runs one full ingestion pass over the provider's facts.
// Classes are installed first so by-name references resolve with the right
// kinds, then wired, then the compiled ranges are indexed in the order the
// provider reports them. The first contract violation aborts the pass.
func (r *Registry) InstallDebugInfo(provider Provider) error {
	typeFacts := provider.TypeInfo()
	entries := make([]*ClassEntry, len(typeFacts))
	for i, facts := range typeFacts {
		fileEntry := r.EnsureFileEntry(facts.FileName, facts.FilePath, facts.CachePath)
		class, err := r.InstallClass(facts.TypeName, fileEntry, facts.Size, facts.Kind)
		if err != nil {
			return err
		}
		entries[i] = class
	}
	for i, facts := range typeFacts {
		if err := entries[i].IngestTypeInfo(r, facts); err != nil {
			return err
		}
	}
	for _, compilation := range provider.CodeInfo() {
		if err := r.installCompilation(compilation); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) installCompilation(facts CompilationFacts) error {
	class, err := r.LookupClassEntry(facts.ClassName)
	if err != nil {
		return err
	}
	method, err := class.EnsureMethodEntry(r, facts.Method)
	if err != nil {
		return err
	}
	methodName := r.UniqueString(facts.Method.Name)
	primary := class.MakePrimaryRange(methodName, facts.SymbolName, facts.Method.signature(),
		facts.Method.ValueType, r.strings, method, facts.Lo, facts.Hi, facts.Line)
	if err := class.IndexPrimary(primary, facts.FrameSizeChanges, facts.FrameSize); err != nil {
		return err
	}
	for _, inline := range facts.Inlines {
		calleeClass, err := r.LookupClassEntry(inline.ClassName)
		if err != nil {
			return err
		}
		calleeMethod, err := calleeClass.EnsureMethodEntry(r, inline.Method)
		if err != nil {
			return err
		}
		inlineFile := r.EnsureFileEntry(inline.FileName, inline.FilePath, "")
		subrange := NewSubRange(inline.SymbolName, r.strings, calleeMethod, inlineFile,
			inline.Lo, inline.Hi, inline.Line, primary)
		if err := class.IndexSubRange(subrange); err != nil {
			return err
		}
	}
	return nil
}
