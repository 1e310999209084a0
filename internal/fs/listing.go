package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// ListingError reports a directory that could not be read.
type ListingError struct {
	Path string
	Err  error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("cannot read directory %s: %v", e.Path, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

// ReadDirectory lists dirPath with directories first, then files, each group
// sorted by name. A ".." entry leads the listing unless dirPath is a root.
func ReadDirectory(dirPath string, showHidden bool) ([]Entry, error) {
	dirPath = filepath.Clean(dirPath)

	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, &ListingError{Path: dirPath, Err: err}
	}

	entries := make([]Entry, 0, len(dirEntries)+1)
	for _, e := range dirEntries {
		rawName := e.Name()
		fullPath := filepath.Join(dirPath, rawName)
		if !showHidden && IsHidden(fullPath, rawName) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		isDir := e.IsDir()
		isSymlink := info.Mode()&os.ModeSymlink != 0
		if isSymlink {
			if target, err := os.Stat(fullPath); err == nil {
				isDir = target.IsDir()
			}
		}

		entries = append(entries, Entry{
			Name:      norm.NFC.String(rawName),
			FullPath:  fullPath,
			IsDir:     isDir,
			IsSymlink: isSymlink,
			Size:      info.Size(),
			Modified:  info.ModTime(),
			Mode:      info.Mode(),
		})
	}

	SortEntries(entries)

	if parent, ok := ParentEntry(dirPath); ok {
		entries = append([]Entry{parent}, entries...)
	}
	return entries, nil
}

// SortEntries orders directories before files and names ascending within each group.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
}

// EntryFromPath stats path and builds an Entry for it.
func EntryFromPath(path string) (Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Name:     norm.NFC.String(filepath.Base(path)),
		FullPath: path,
		IsDir:    info.IsDir(),
		Size:     info.Size(),
		Modified: info.ModTime(),
		Mode:     info.Mode(),
	}, nil
}
