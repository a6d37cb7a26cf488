package debugentry

import "fmt"

// FrameSizeChangeType says which way the stack frame moved at an offset.
type FrameSizeChangeType int

const (
	FrameExtend FrameSizeChangeType = iota
	FrameContract
)

func (t FrameSizeChangeType) String() string {
	if t == FrameExtend {
		return "extend"
	}
	return "contract"
}

// FrameSizeChange records a stack-frame adjustment at a code offset within
// a compiled method, reported by the front end alongside each primary
// range.
type FrameSizeChange struct {
	Offset int
	Change FrameSizeChangeType
}

// Range is an address interval [lo, hi) attributed to a method, source file
// and starting line. A primary range covers one fully compiled method body;
// a sub-range covers inlined code nested inside a primary and points back
// at it. Identity is pointer identity: the same compiled interval is
// represented by one Range for the whole pass.
type Range struct {
	symbolName string
	method     *MethodEntry
	fileEntry  *FileEntry
	lo, hi     uint64
	line       int
	primary    *Range
}

func newRange(symbolName string, st *StringTable, method *MethodEntry, fileEntry *FileEntry, lo, hi uint64, line int, primary *Range) *Range {
	return &Range{
		symbolName: st.Unique(symbolName),
		method:     method,
		fileEntry:  fileEntry,
		lo:         lo,
		hi:         hi,
		line:       line,
		primary:    primary,
	}
}

// NewSubRange builds an inlined range nested inside primary. fileEntry may
// be nil when the inlined code reuses the primary's file.
func NewSubRange(symbolName string, st *StringTable, method *MethodEntry, fileEntry *FileEntry, lo, hi uint64, line int, primary *Range) *Range {
	return newRange(symbolName, st, method, fileEntry, lo, hi, line, primary)
}

func (r *Range) SymbolName() string   { return r.symbolName }
func (r *Range) Method() *MethodEntry { return r.method }
func (r *Range) Lo() uint64           { return r.lo }
func (r *Range) Hi() uint64           { return r.hi }
func (r *Range) Line() int            { return r.line }

// FileEntry returns the file the range is attributed to, or nil.
func (r *Range) FileEntry() *FileEntry { return r.fileEntry }

// Primary returns the enclosing primary range, or nil if this range is
// itself primary.
func (r *Range) Primary() *Range { return r.primary }

// IsPrimary reports whether this range covers a top-level compiled method
// body.
func (r *Range) IsPrimary() bool { return r.primary == nil }

// IsDeoptTarget reports whether the range belongs to a deopt-target
// compiled variant of its method.
func (r *Range) IsDeoptTarget() bool {
	return r.method != nil && r.method.isDeoptTarget
}

func (r *Range) String() string {
	name := r.symbolName
	if r.method != nil {
		name = r.method.methodName
	}
	return fmt.Sprintf("%s [0x%x, 0x%x) line %d", name, r.lo, r.hi, r.line)
}

// PrimaryEntry owns one indexed primary range together with the frame
// metadata of its compiled method and the sub-ranges inlined into it.
// Sub-ranges accumulate, in arrival order, after the primary is indexed.
type PrimaryEntry struct {
	primary        *Range
	classEntry     *ClassEntry
	frameSizeInfos []FrameSizeChange
	frameSize      int
	subRanges      []*Range
}

func newPrimaryEntry(primary *Range, frameSizeInfos []FrameSizeChange, frameSize int, classEntry *ClassEntry) *PrimaryEntry {
	return &PrimaryEntry{
		primary:        primary,
		classEntry:     classEntry,
		frameSizeInfos: frameSizeInfos,
		frameSize:      frameSize,
	}
}

func (p *PrimaryEntry) Primary() *Range                  { return p.primary }
func (p *PrimaryEntry) ClassEntry() *ClassEntry          { return p.classEntry }
func (p *PrimaryEntry) FrameSize() int                   { return p.frameSize }
func (p *PrimaryEntry) FrameSizeInfos() []FrameSizeChange { return p.frameSizeInfos }

// SubRanges returns the inlined ranges in arrival order.
func (p *PrimaryEntry) SubRanges() []*Range { return p.subRanges }

func (p *PrimaryEntry) addSubRange(subrange *Range) {
	p.subRanges = append(p.subRanges, subrange)
}
