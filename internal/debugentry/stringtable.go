// Package debugentry assembles the per-class debug information index that a
// binary-format writer serializes into line, file and type tables. The
// compiler front end feeds raw type, method and code-range facts into a
// Registry, which interns shared entities (types, files, directories,
// strings) and accumulates one ClassEntry per compiled class. The finished
// graph is handed, read-only, to the section writer.
package debugentry

import "sync"

// StringTable interns identifier strings so every repeated spelling is held
// exactly once. The writer assigns section offsets over the table contents
// in insertion order.
type StringTable struct {
	mu    sync.Mutex
	index map[string]string
	order []string
}

func NewStringTable() *StringTable {
	return &StringTable{index: make(map[string]string)}
}

// Unique returns the canonical copy of s, adding it on first sight.
// Safe for concurrent use.
func (st *StringTable) Unique(s string) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	if u, ok := st.index[s]; ok {
		return u
	}
	st.index[s] = s
	st.order = append(st.order, s)
	return s
}

// Len returns the number of distinct strings interned so far.
func (st *StringTable) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.order)
}

// Strings returns the interned strings in insertion order.
func (st *StringTable) Strings() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]string, len(st.order))
	copy(out, st.order)
	return out
}
