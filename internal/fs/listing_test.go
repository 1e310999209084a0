package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadDirectory_OrderAndParent(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	for _, name := range []string{"zdir", "adir"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
	}

	entries, err := ReadDirectory(dir, false)
	if err != nil {
		t.Fatalf("ReadDirectory: %v", err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	want := []string{"..", "adir", "zdir", "a.txt", "b.txt"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}

	parent := entries[0]
	if !parent.IsParent() || parent.Size != 0 || parent.HasModTime() {
		t.Fatalf("unexpected parent entry: %+v", parent)
	}
	if parent.FullPath != filepath.Dir(dir) {
		t.Fatalf("parent path = %q, want %q", parent.FullPath, filepath.Dir(dir))
	}
}

func TestReadDirectory_ShowHidden(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := ReadDirectory(dir, true)
	if err != nil {
		t.Fatalf("ReadDirectory: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Name == ".env" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected .env in listing when hidden files are shown")
	}
}

func TestReadDirectory_MissingReturnsListingError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := ReadDirectory(missing, false)
	if err == nil {
		t.Fatalf("expected error for missing directory")
	}
	var listingErr *ListingError
	if !errors.As(err, &listingErr) {
		t.Fatalf("expected *ListingError, got %T", err)
	}
	if listingErr.Path != missing {
		t.Fatalf("error path = %q, want %q", listingErr.Path, missing)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestIsTextFileAndHeadLines(t *testing.T) {
	if !IsTextFile("notes.txt", []byte("hello\nworld\n")) {
		t.Fatalf("plain text should be detected as text")
	}
	if IsTextFile("image.png", []byte("hello")) {
		t.Fatalf("png extension should be treated as binary")
	}
	if IsTextFile("blob", []byte{0x00, 0x01, 0x02}) {
		t.Fatalf("NUL bytes should be treated as binary")
	}

	lines := HeadLines([]byte("\xEF\xBB\xBFone\r\ntwo\nthree\n"), 2)
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Fatalf("HeadLines = %q", lines)
	}
}
