package debugentry

// DirEntry records one source directory referenced from debug info. Entries
// are interned by the Registry; two references to the same path share one
// instance, so pointer equality is path equality.
type DirEntry struct {
	path string
}

// Path returns the directory path as supplied by the front end.
func (d *DirEntry) Path() string { return d.path }

// FileEntry records one source file referenced from debug info. Entries are
// interned by the Registry keyed on (directory, file name); two references
// to the same pair share one instance.
type FileEntry struct {
	fileName  string
	fullName  string
	dirEntry  *DirEntry
	cachePath string
}

// FileName returns the base name of the file.
func (f *FileEntry) FileName() string { return f.fileName }

// FullName returns the directory-qualified name.
func (f *FileEntry) FullName() string { return f.fullName }

// DirEntry returns the owning directory, or nil when the file was supplied
// without a path.
func (f *FileEntry) DirEntry() *DirEntry { return f.dirEntry }

// PathName returns the owning directory path, or "" when there is none.
func (f *FileEntry) PathName() string {
	if f.dirEntry == nil {
		return ""
	}
	return f.dirEntry.path
}

// CachePath returns the on-disk source cache location recorded when the
// entry was first interned, or "".
func (f *FileEntry) CachePath() string { return f.cachePath }
