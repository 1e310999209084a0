package fs

import (
	"os"
	"path/filepath"
	"time"
)

// ParentName is the display name of the synthetic parent entry.
const ParentName = ".."

// Entry represents a single file or directory on disk.
type Entry struct {
	Name      string
	FullPath  string
	IsDir     bool
	IsSymlink bool
	Size      int64
	Modified  time.Time // zero for the synthetic parent entry
	Mode      os.FileMode
}

// IsParent reports whether the entry is the synthetic ".." row.
func (e Entry) IsParent() bool {
	return e.Name == ParentName
}

// HasModTime reports whether a modification time is known for the entry.
func (e Entry) HasModTime() bool {
	return !e.Modified.IsZero()
}

// IsHidden reports whether the entry should be treated as hidden.
func (e Entry) IsHidden() bool {
	if e.IsParent() {
		return false
	}
	return IsHidden(e.FullPath, e.Name)
}

// ParentEntry builds the ".." row for dir, or false when dir is a root.
func ParentEntry(dir string) (Entry, bool) {
	clean := filepath.Clean(dir)
	parent := filepath.Dir(clean)
	if parent == clean {
		return Entry{}, false
	}
	return Entry{
		Name:     ParentName,
		FullPath: parent,
		IsDir:    true,
	}, true
}
