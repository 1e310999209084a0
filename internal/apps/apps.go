// Package apps discovers installed desktop applications and starts them.
package apps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// ErrEmptyExec is returned when an application has nothing to run.
var ErrEmptyExec = errors.New("empty exec command")

const desktopSection = "Desktop Entry"

// DesktopApp is one launchable application.
type DesktopApp struct {
	Name        string
	Exec        string
	Icon        string
	Description string
	Categories  []string
	Keywords    []string
	Terminal    bool
	Path        string
}

// HasDescription reports whether the entry carries a Comment line.
func (a DesktopApp) HasDescription() bool {
	return a.Description != ""
}

// DefaultDirs lists the XDG, flatpak and snap application directories.
func DefaultDirs() []string {
	var dirs []string
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "applications"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".local", "share", "applications"),
			filepath.Join(home, ".local", "share", "flatpak", "exports", "share", "applications"),
		)
	}
	return append(dirs,
		"/usr/share/applications",
		"/usr/local/share/applications",
		"/var/lib/flatpak/exports/share/applications",
		"/var/lib/snapd/desktop/applications",
	)
}

// Discover parses every *.desktop file in dirs. Hidden and NoDisplay
// entries are skipped, the first entry seen for a name wins, and the result
// is sorted case-insensitively by name. Unreadable directories are ignored.
func Discover(dirs []string) []DesktopApp {
	var found []DesktopApp
	seen := make(map[string]struct{})

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".desktop" {
				continue
			}
			app, ok := ParseDesktopFile(filepath.Join(dir, e.Name()))
			if !ok {
				continue
			}
			if _, dup := seen[app.Name]; dup {
				continue
			}
			seen[app.Name] = struct{}{}
			found = append(found, app)
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return strings.ToLower(found[i].Name) < strings.ToLower(found[j].Name)
	})
	return found
}

// ParseDesktopFile reads a single desktop entry. It reports false for
// entries that are unreadable, hidden, or missing Name/Exec.
func ParseDesktopFile(path string) (DesktopApp, bool) {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, path)
	if err != nil {
		return DesktopApp{}, false
	}
	section, err := file.GetSection(desktopSection)
	if err != nil {
		return DesktopApp{}, false
	}

	if section.Key("NoDisplay").MustBool(false) || section.Key("Hidden").MustBool(false) {
		return DesktopApp{}, false
	}

	name := strings.TrimSpace(section.Key("Name").String())
	execLine := strings.TrimSpace(section.Key("Exec").String())
	if name == "" || execLine == "" {
		return DesktopApp{}, false
	}

	return DesktopApp{
		Name:        name,
		Exec:        execLine,
		Icon:        section.Key("Icon").String(),
		Description: strings.TrimSpace(section.Key("Comment").String()),
		Categories:  splitList(section.Key("Categories").String()),
		Keywords:    splitList(section.Key("Keywords").String()),
		Terminal:    section.Key("Terminal").MustBool(false),
		Path:        path,
	}, true
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var fieldCodes = []string{"%f", "%F", "%u", "%U", "%d", "%D", "%n", "%N", "%i", "%c", "%k"}

// CommandLine returns the program and arguments to start the app, with
// desktop field codes removed. Terminal apps run inside x-terminal-emulator.
func (a DesktopApp) CommandLine() ([]string, error) {
	cleaned := a.Exec
	for _, code := range fieldCodes {
		cleaned = strings.ReplaceAll(cleaned, code, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	parts := strings.Fields(cleaned)
	if len(parts) == 0 {
		return nil, ErrEmptyExec
	}
	if a.Terminal {
		return []string{"x-terminal-emulator", "-e", cleaned}, nil
	}
	return parts, nil
}

// Launch starts the app detached from the caller.
func (a DesktopApp) Launch() error {
	argv, err := a.CommandLine()
	if err != nil {
		return fmt.Errorf("launch %s: %w", a.Name, err)
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", a.Name, err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
