// Command graal-debugdump ingests a JSON description of per-class debug
// facts and compiled code ranges, runs the debug-info indexing pass, and
// prints the resulting per-class file, directory, method and range tables.
// It is a developer aid for inspecting the index the section writer would
// consume.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/DavidAlphaFox/graal/internal/debugentry"
)

type inputDoc struct {
	Producer     string           `json:"producer"`
	Types        []typeDoc        `json:"types"`
	Compilations []compilationDoc `json:"compilations"`
}

type typeDoc struct {
	Name       string      `json:"name"`
	Kind       string      `json:"kind"` // "instance" or "interface"
	File       string      `json:"file"`
	Path       string      `json:"path"`
	CachePath  string      `json:"cache_path"`
	Size       int         `json:"size"`
	Super      string      `json:"super"`
	Interfaces []string    `json:"interfaces"`
	Fields     []fieldDoc  `json:"fields"`
	Methods    []methodDoc `json:"methods"`
}

type fieldDoc struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Size      int    `json:"size"`
	Offset    int    `json:"offset"`
	Modifiers int    `json:"modifiers"`
	File      string `json:"file"`
	Path      string `json:"path"`
}

type methodDoc struct {
	Name        string   `json:"name"`
	Returns     string   `json:"returns"`
	ParamTypes  []string `json:"param_types"`
	ParamNames  []string `json:"param_names"`
	Modifiers   int      `json:"modifiers"`
	File        string   `json:"file"`
	Path        string   `json:"path"`
	DeoptTarget bool     `json:"deopt_target"`
}

type compilationDoc struct {
	Class            string         `json:"class"`
	Method           methodDoc      `json:"method"`
	Symbol           string         `json:"symbol"`
	Lo               uint64         `json:"lo"`
	Hi               uint64         `json:"hi"`
	Line             int            `json:"line"`
	FrameSize        int            `json:"frame_size"`
	FrameSizeChanges []frameSizeDoc `json:"frame_size_changes"`
	Inlines          []inlineDoc    `json:"inlines"`
}

type frameSizeDoc struct {
	Offset int    `json:"offset"`
	Change string `json:"change"` // "extend" or "contract"
}

type inlineDoc struct {
	Class  string    `json:"class"`
	Method methodDoc `json:"method"`
	Symbol string    `json:"symbol"`
	File   string    `json:"file"`
	Path   string    `json:"path"`
	Lo     uint64    `json:"lo"`
	Hi     uint64    `json:"hi"`
	Line   int       `json:"line"`
}

func main() {
	inputPath := flag.String("input", "", "facts JSON file (default stdin)")
	trace := flag.Bool("trace", false, "log ingestion trace lines to stderr")
	flag.Parse()

	var in io.Reader = os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			log.Fatalf("open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	var doc inputDoc
	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		log.Fatalf("decode input: %v", err)
	}

	reg, err := buildIndex(doc, *trace)
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}
	if err := dump(os.Stdout, reg); err != nil {
		log.Fatalf("dump: %v", err)
	}
}

func buildIndex(doc inputDoc, trace bool) (*debugentry.Registry, error) {
	opts := debugentry.Options{ProducerVersion: doc.Producer}
	if trace {
		opts.Tracef = log.Printf
	}
	reg, err := debugentry.NewRegistry(opts)
	if err != nil {
		return nil, err
	}
	provider, err := doc.provider()
	if err != nil {
		return nil, err
	}
	if err := reg.InstallDebugInfo(provider); err != nil {
		return nil, err
	}
	return reg, nil
}

// factsProvider adapts the decoded document to the ingestion interface.
type factsProvider struct {
	types        []debugentry.TypeFacts
	compilations []debugentry.CompilationFacts
}

func (p *factsProvider) TypeInfo() []debugentry.TypeFacts        { return p.types }
func (p *factsProvider) CodeInfo() []debugentry.CompilationFacts { return p.compilations }

func (d inputDoc) provider() (*factsProvider, error) {
	p := &factsProvider{}
	for _, t := range d.Types {
		kind, err := parseKind(t.Kind)
		if err != nil {
			return nil, err
		}
		p.types = append(p.types, debugentry.TypeFacts{
			TypeName:   t.Name,
			Kind:       kind,
			FileName:   t.File,
			FilePath:   t.Path,
			CachePath:  t.CachePath,
			Size:       t.Size,
			SuperName:  t.Super,
			Interfaces: t.Interfaces,
			Fields:     fieldFacts(t.Fields),
			Methods:    methodFactsList(t.Methods),
		})
	}
	for _, c := range d.Compilations {
		changes := make([]debugentry.FrameSizeChange, 0, len(c.FrameSizeChanges))
		for _, fs := range c.FrameSizeChanges {
			change, err := parseFrameChange(fs.Change)
			if err != nil {
				return nil, err
			}
			changes = append(changes, debugentry.FrameSizeChange{Offset: fs.Offset, Change: change})
		}
		comp := debugentry.CompilationFacts{
			ClassName:        c.Class,
			Method:           methodFacts(c.Method),
			SymbolName:       c.Symbol,
			Lo:               c.Lo,
			Hi:               c.Hi,
			Line:             c.Line,
			FrameSize:        c.FrameSize,
			FrameSizeChanges: changes,
		}
		for _, inl := range c.Inlines {
			comp.Inlines = append(comp.Inlines, debugentry.InlineFacts{
				ClassName:  inl.Class,
				Method:     methodFacts(inl.Method),
				SymbolName: inl.Symbol,
				FileName:   inl.File,
				FilePath:   inl.Path,
				Lo:         inl.Lo,
				Hi:         inl.Hi,
				Line:       inl.Line,
			})
		}
		p.compilations = append(p.compilations, comp)
	}
	return p, nil
}

func parseKind(s string) (debugentry.TypeKind, error) {
	switch s {
	case "", "instance":
		return debugentry.KindInstance, nil
	case "interface":
		return debugentry.KindInterface, nil
	default:
		return 0, fmt.Errorf("unknown type kind %q", s)
	}
}

func parseFrameChange(s string) (debugentry.FrameSizeChangeType, error) {
	switch s {
	case "extend":
		return debugentry.FrameExtend, nil
	case "contract":
		return debugentry.FrameContract, nil
	default:
		return 0, fmt.Errorf("unknown frame size change %q", s)
	}
}

func fieldFacts(docs []fieldDoc) []debugentry.FieldFacts {
	out := make([]debugentry.FieldFacts, 0, len(docs))
	for _, f := range docs {
		out = append(out, debugentry.FieldFacts{
			Name:      f.Name,
			TypeName:  f.Type,
			Size:      f.Size,
			Offset:    f.Offset,
			Modifiers: f.Modifiers,
			FileName:  f.File,
			FilePath:  f.Path,
		})
	}
	return out
}

func methodFactsList(docs []methodDoc) []debugentry.MethodFacts {
	out := make([]debugentry.MethodFacts, 0, len(docs))
	for _, m := range docs {
		out = append(out, methodFacts(m))
	}
	return out
}

func methodFacts(m methodDoc) debugentry.MethodFacts {
	return debugentry.MethodFacts{
		Name:          m.Name,
		ValueType:     m.Returns,
		ParamTypes:    m.ParamTypes,
		ParamNames:    m.ParamNames,
		Modifiers:     m.Modifiers,
		FileName:      m.File,
		FilePath:      m.Path,
		IsDeoptTarget: m.DeoptTarget,
	}
}

// dump prints the finished index in ingestion order, the same order the
// section writer would walk it.
func dump(w io.Writer, reg *debugentry.Registry) error {
	if v := reg.Producer(); v != nil {
		fmt.Fprintf(w, "producer %s\n", v)
	}
	for _, class := range reg.Classes() {
		fmt.Fprintf(w, "class %s kind %s size %d", class.TypeName(), class.Kind(), class.Size())
		if class.FullFileName() != "" {
			fmt.Fprintf(w, " file %s", class.FullFileName())
		}
		fmt.Fprintln(w)
		if super := class.SuperClass(); super != nil {
			fmt.Fprintf(w, "  super %s\n", super.TypeName())
		}
		for _, iface := range class.Interfaces() {
			fmt.Fprintf(w, "  implements %s\n", iface.TypeName())
		}
		for i, dir := range class.LocalDirs() {
			fmt.Fprintf(w, "  dir %d %s\n", i+1, dir.Path())
		}
		for i, file := range class.LocalFiles() {
			fmt.Fprintf(w, "  file %d %s dir %d\n", i+1, file.FileName(), class.LocalDirIndex(file.DirEntry()))
		}
		for _, field := range class.Fields() {
			fmt.Fprintf(w, "  field %s %s offset %d size %d\n",
				field.ValueType().TypeName(), field.Name(), field.Offset(), field.Size())
		}
		for _, method := range class.Methods() {
			fmt.Fprintf(w, "  method %s %s(%s)", method.ValueType().TypeName(), method.Name(), paramList(method))
			if method.IsDeoptTarget() {
				fmt.Fprint(w, " deopt")
			}
			fmt.Fprintln(w)
		}
		for _, entry := range class.PrimaryEntries() {
			primary := entry.Primary()
			fmt.Fprintf(w, "  range %s [0x%x,0x%x) line %d file %d frame %d\n",
				primary.SymbolName(), primary.Lo(), primary.Hi(), primary.Line(),
				class.LocalFileIndex(primary.FileEntry()), entry.FrameSize())
			for _, change := range entry.FrameSizeInfos() {
				fmt.Fprintf(w, "    frame %s at %d\n", change.Change, change.Offset)
			}
			for _, sub := range entry.SubRanges() {
				fileIdx := 0
				if sub.FileEntry() != nil {
					fileIdx = class.LocalFileIndex(sub.FileEntry())
				}
				fmt.Fprintf(w, "    inline %s [0x%x,0x%x) line %d file %d\n",
					sub.SymbolName(), sub.Lo(), sub.Hi(), sub.Line(), fileIdx)
			}
		}
		if class.IncludesDeoptTarget() {
			fmt.Fprintln(w, "  includes-deopt-target")
		}
	}
	return nil
}

func paramList(method *debugentry.MethodEntry) string {
	types := method.ParamTypes()
	names := method.ParamNames()
	out := ""
	for i := range types {
		if i > 0 {
			out += ", "
		}
		out += types[i].TypeName()
		if names[i] != "" {
			out += " " + names[i]
		}
	}
	return out
}
