package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kk-code-lab/filecast/internal/apps"
	fsutil "github.com/kk-code-lab/filecast/internal/fs"
	"github.com/kk-code-lab/filecast/internal/history"
)

// Fixed scores for results that are not fuzzy ranked.
const (
	CommandScore     = 10
	GrepScore        = 30
	NameSearchScore  = 50
	RecencyBonus     = 10
	grepPreviewRunes = 80
)

// Kind tags which payload of a Result is populated.
type Kind int

const (
	KindFile Kind = iota
	KindRecentFile
	KindApplication
	KindCommand
	KindGrep
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindRecentFile:
		return "recent"
	case KindApplication:
		return "application"
	case KindCommand:
		return "command"
	case KindGrep:
		return "grep"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is one ranked row shown by the launcher. Kind selects the payload:
//
//	KindFile, KindRecentFile: Path
//	KindApplication:          App
//	KindCommand:              Command
//	KindGrep:                 Path, Line, Content
type Result struct {
	Name        string
	Description string
	Icon        string
	Score       uint
	Kind        Kind

	Path    string
	App     *apps.DesktopApp
	Command string
	Line    uint32
	Content string
}

// FileResult wraps a directory listing entry.
func FileResult(entry fsutil.Entry, score int) Result {
	return Result{
		Name:        entry.Name,
		Description: entry.FullPath,
		Icon:        IconFor(entry.Name, entry.IsDir),
		Score:       uint(score),
		Kind:        KindFile,
		Path:        entry.FullPath,
	}
}

// FoundPathResult wraps a path reported by the name-search tool.
func FoundPathResult(path string, isDir bool) Result {
	name := filepath.Base(path)
	return Result{
		Name:        name,
		Description: path,
		Icon:        IconFor(name, isDir),
		Score:       NameSearchScore,
		Kind:        KindFile,
		Path:        path,
	}
}

// RecentResult wraps a recently accessed path.
func RecentResult(recent history.RecentAccess, score int) Result {
	name := recent.Name()
	isDir := false
	if info, err := os.Stat(recent.Path); err == nil {
		isDir = info.IsDir()
	}
	return Result{
		Name:        name,
		Description: "Recent • " + recent.Path,
		Icon:        IconFor(name, isDir),
		Score:       uint(score),
		Kind:        KindRecentFile,
		Path:        recent.Path,
	}
}

// ApplicationResult wraps a desktop application.
func ApplicationResult(app apps.DesktopApp, score int) Result {
	desc := app.Description
	if desc == "" {
		desc = "Application"
	}
	appCopy := app
	return Result{
		Name:        app.Name,
		Description: desc,
		Icon:        IconApplication,
		Score:       uint(score),
		Kind:        KindApplication,
		App:         &appCopy,
	}
}

// CommandResult wraps a shell command typed after ':'.
func CommandResult(cmd string) Result {
	return Result{
		Name:        "Run: " + cmd,
		Description: "Execute shell command",
		Icon:        IconCommand,
		Score:       CommandScore,
		Kind:        KindCommand,
		Command:     cmd,
	}
}

// GrepResult wraps one content-search hit.
func GrepResult(path string, line uint32, content string) Result {
	return Result{
		Name:        fmt.Sprintf("%s:%d", filepath.Base(path), line),
		Description: truncateRunes(strings.TrimSpace(content), grepPreviewRunes),
		Icon:        IconGrep,
		Score:       GrepScore,
		Kind:        KindGrep,
		Path:        path,
		Line:        line,
		Content:     content,
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
