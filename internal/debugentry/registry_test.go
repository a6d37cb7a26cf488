package debugentry

import (
	"errors"
	"sync"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"java/lang/String", "java.lang.String"},
		{" java.lang.Object ", "java.lang.Object"},
		{"int [ ]", "int[]"},
		{"int[]", "int[]"},
		{"boolean", "boolean"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Canonicalize(c.in); got != c.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", c.in, got, c.want)
		}
		if got := Canonicalize(c.want); got != c.want {
			t.Errorf("Canonicalize not idempotent on %q", c.want)
		}
	}
}

func TestLookupTypeStableInstances(t *testing.T) {
	reg := newTestRegistry(t)
	intType := reg.LookupType("int")
	if intType.Kind() != KindPrimitive || intType.Size() != 4 {
		t.Fatalf("int = kind %s size %d, want primitive size 4", intType.Kind(), intType.Size())
	}
	if again := reg.LookupType("int"); again != intType {
		t.Fatalf("repeated lookup returned a different instance")
	}

	arr := reg.LookupType("java/lang/String[]")
	arrayType, ok := arr.(*ArrayTypeEntry)
	if !ok || arrayType.Kind() != KindArray {
		t.Fatalf("String[] = %T, want array entry", arr)
	}
	if arrayType.TypeName() != "java.lang.String[]" || arrayType.ElementTypeName() != "java.lang.String" {
		t.Fatalf("array entry = %s of %s", arrayType.TypeName(), arrayType.ElementTypeName())
	}

	unknown := reg.LookupType("com.example.Later")
	if unknown.Kind() != KindInstance {
		t.Fatalf("unknown name = kind %s, want placeholder instance", unknown.Kind())
	}
	if reg.LookupType("com/example/Later") != unknown {
		t.Fatalf("spellings of one canonical name resolved to different instances")
	}
}

func TestInstallClassFillsPlaceholder(t *testing.T) {
	reg := newTestRegistry(t)
	placeholder, err := reg.LookupClassEntry("com.example.Later")
	if err != nil {
		t.Fatalf("LookupClassEntry: %v", err)
	}
	file := reg.EnsureFileEntry("Later.java", "com/example", "")
	installed, err := reg.InstallClass("com.example.Later", file, 24, KindInterface)
	if err != nil {
		t.Fatalf("InstallClass: %v", err)
	}
	if installed != placeholder {
		t.Fatalf("install replaced the placeholder instead of filling it in")
	}
	if installed.Kind() != KindInterface || installed.Size() != 24 {
		t.Fatalf("filled entry = kind %s size %d", installed.Kind(), installed.Size())
	}
	if installed.LocalFileIndex(file) != 1 {
		t.Fatalf("class file not at local index 1")
	}

	// re-install with the same kind is a no-op, with another kind a bug
	if again, err := reg.InstallClass("com.example.Later", file, 24, KindInterface); err != nil || again != installed {
		t.Fatalf("idempotent re-install = (%v, %v)", again, err)
	}
	if _, err := reg.InstallClass("com.example.Later", file, 24, KindInstance); !errors.Is(err, ErrContract) {
		t.Fatalf("conflicting re-install = %v, want ErrContract", err)
	}
}

func TestLookupClassEntryRejectsNonClasses(t *testing.T) {
	reg := newTestRegistry(t)
	if _, err := reg.LookupClassEntry("int"); !errors.Is(err, ErrContract) {
		t.Fatalf("class lookup of a primitive = %v, want ErrContract", err)
	}
	if _, err := reg.LookupClassEntry("byte[]"); !errors.Is(err, ErrContract) {
		t.Fatalf("class lookup of an array = %v, want ErrContract", err)
	}
	if _, err := reg.InstallClass("Prim", nil, 4, KindPrimitive); !errors.Is(err, ErrContract) {
		t.Fatalf("install with primitive kind = %v, want ErrContract", err)
	}
}

func TestEnsureFileEntryInterning(t *testing.T) {
	reg := newTestRegistry(t)
	a := reg.EnsureFileEntry("Foo.java", "src", "cache/src/Foo.java")
	b := reg.EnsureFileEntry("Foo.java", "src", "ignored-second-cache-path")
	if a != b {
		t.Fatalf("same (dir, name) pair interned twice")
	}
	if a.CachePath() != "cache/src/Foo.java" {
		t.Fatalf("cache path = %q, want the first interning's value", a.CachePath())
	}
	if a.FullName() != "src/Foo.java" || a.PathName() != "src" {
		t.Fatalf("fullName/pathName = %q/%q", a.FullName(), a.PathName())
	}

	other := reg.EnsureFileEntry("Foo.java", "other", "")
	if other == a {
		t.Fatalf("same name in another dir shared an entry")
	}
	if reg.EnsureFileEntry("", "src", "") != nil {
		t.Fatalf("empty file name produced an entry")
	}

	pathless := reg.EnsureFileEntry("Gen.java", "", "")
	if pathless.DirEntry() != nil || pathless.FullName() != "Gen.java" {
		t.Fatalf("pathless file = dir %v fullName %q", pathless.DirEntry(), pathless.FullName())
	}

	if a.DirEntry() != reg.EnsureDirEntry("src") {
		t.Fatalf("file dir and interned dir differ")
	}
	if reg.EnsureDirEntry("") != nil {
		t.Fatalf("empty dir path produced an entry")
	}
	if got := len(reg.Files()); got != 3 {
		t.Fatalf("global file table = %d entries, want 3", got)
	}
	if got := len(reg.Dirs()); got != 2 {
		t.Fatalf("global dir table = %d entries, want 2", got)
	}
}

func TestConcurrentInterning(t *testing.T) {
	reg := newTestRegistry(t)
	var wg sync.WaitGroup
	results := make([]*FileEntry, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reg.UniqueString("shared")
			reg.LookupType("com.example.Shared")
			results[i] = reg.EnsureFileEntry("Shared.java", "src", "")
		}(i)
	}
	wg.Wait()
	for _, file := range results[1:] {
		if file != results[0] {
			t.Fatalf("concurrent interning produced distinct entries")
		}
	}
}

func TestProducerVersionGate(t *testing.T) {
	if _, err := NewRegistry(Options{ProducerVersion: "24.2.0"}); err != nil {
		t.Fatalf("supported producer rejected: %v", err)
	}
	reg, err := NewRegistry(Options{ProducerVersion: "1.0.0"})
	if err != nil {
		t.Fatalf("minimum producer rejected: %v", err)
	}
	if reg.Producer() == nil || reg.Producer().String() != "1.0.0" {
		t.Fatalf("producer = %v, want 1.0.0", reg.Producer())
	}
	if _, err := NewRegistry(Options{ProducerVersion: "0.9.3"}); err == nil {
		t.Fatalf("pre-1.0 producer accepted")
	}
	if _, err := NewRegistry(Options{ProducerVersion: "not-a-version"}); err == nil {
		t.Fatalf("unparseable producer accepted")
	}
	if reg, err := NewRegistry(Options{}); err != nil || reg.Producer() != nil {
		t.Fatalf("empty producer = (%v, %v), want accepted with no version", reg, err)
	}
}

func TestStringTableUnique(t *testing.T) {
	st := NewStringTable()
	a := st.Unique("hashCode")
	b := st.Unique("hashCode")
	if a != b || st.Len() != 1 {
		t.Fatalf("interning duplicated a string")
	}
	st.Unique("equals")
	if got := st.Strings(); len(got) != 2 || got[0] != "hashCode" || got[1] != "equals" {
		t.Fatalf("strings = %v, want insertion order", got)
	}
}

func TestTracefHook(t *testing.T) {
	var lines []string
	reg, err := NewRegistry(Options{Tracef: func(format string, args ...any) {
		lines = append(lines, format)
	}})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	class := mustInstall(t, reg, "Traced", nil, 8, KindInstance)
	if err := class.IngestTypeInfo(reg, TypeFacts{
		TypeName: "Traced",
		Kind:     KindInstance,
		Methods:  []MethodFacts{{Name: "m", ValueType: "void"}},
	}); err != nil {
		t.Fatalf("IngestTypeInfo: %v", err)
	}
	if len(lines) == 0 {
		t.Fatalf("trace hook never invoked")
	}
}
