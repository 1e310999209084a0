package apps

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeDesktop(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseDesktopFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDesktop(t, dir, "editor.desktop", `[Desktop Entry]
Type=Application
Name=Text Editor
Comment=Edit text files
Exec=gedit %U
Icon=accessories-text-editor
Categories=Utility;TextEditor;
Keywords=text;plain;
Terminal=false
`)

	app, ok := ParseDesktopFile(path)
	if !ok {
		t.Fatalf("expected entry to parse")
	}
	if app.Name != "Text Editor" || app.Description != "Edit text files" {
		t.Fatalf("unexpected app: %+v", app)
	}
	if !reflect.DeepEqual(app.Categories, []string{"Utility", "TextEditor"}) {
		t.Fatalf("categories = %q", app.Categories)
	}
	if !reflect.DeepEqual(app.Keywords, []string{"text", "plain"}) {
		t.Fatalf("keywords = %q", app.Keywords)
	}
	if app.Path != path {
		t.Fatalf("path = %q", app.Path)
	}
}

func TestParseDesktopFile_SkipsHiddenAndIncomplete(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"nodisplay.desktop": "[Desktop Entry]\nName=A\nExec=a\nNoDisplay=true\n",
		"hidden.desktop":    "[Desktop Entry]\nName=B\nExec=b\nHidden=true\n",
		"noexec.desktop":    "[Desktop Entry]\nName=C\n",
		"nosection.desktop": "[Other]\nName=D\nExec=d\n",
	}
	for name, body := range cases {
		path := writeDesktop(t, dir, name, body)
		if _, ok := ParseDesktopFile(path); ok {
			t.Errorf("%s should be skipped", name)
		}
	}
}

func TestDiscover_DedupAndSort(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeDesktop(t, first, "zed.desktop", "[Desktop Entry]\nName=zed\nExec=zed\n")
	writeDesktop(t, first, "alpha.desktop", "[Desktop Entry]\nName=Alpha\nExec=alpha --first\n")
	writeDesktop(t, second, "alpha2.desktop", "[Desktop Entry]\nName=Alpha\nExec=alpha --second\n")
	writeDesktop(t, second, "notes.txt", "not a desktop file")

	found := Discover([]string{first, second, filepath.Join(first, "missing")})
	if len(found) != 2 {
		t.Fatalf("expected 2 apps, got %+v", found)
	}
	if found[0].Name != "Alpha" || found[1].Name != "zed" {
		t.Fatalf("unexpected order: %s, %s", found[0].Name, found[1].Name)
	}
	if found[0].Exec != "alpha --first" {
		t.Fatalf("first directory should win, got %q", found[0].Exec)
	}
}

func TestCommandLine(t *testing.T) {
	tests := []struct {
		app  DesktopApp
		want []string
		err  error
	}{
		{DesktopApp{Exec: "firefox %u"}, []string{"firefox"}, nil},
		{DesktopApp{Exec: "code --new-window %F"}, []string{"code", "--new-window"}, nil},
		{DesktopApp{Exec: "htop", Terminal: true}, []string{"x-terminal-emulator", "-e", "htop"}, nil},
		{DesktopApp{Exec: "%f %U"}, nil, ErrEmptyExec},
	}
	for _, tt := range tests {
		got, err := tt.app.CommandLine()
		if !errors.Is(err, tt.err) {
			t.Errorf("CommandLine(%q) error = %v, want %v", tt.app.Exec, err, tt.err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("CommandLine(%q) = %q, want %q", tt.app.Exec, got, tt.want)
		}
	}
}
