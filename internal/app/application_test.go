package app

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/filecast/internal/apps"
	"github.com/kk-code-lab/filecast/internal/config"
	"github.com/kk-code-lab/filecast/internal/history"
	"github.com/kk-code-lab/filecast/internal/search"
	statepkg "github.com/kk-code-lab/filecast/internal/state"
)

type fakeHistory struct {
	mu       sync.Mutex
	accessed []string
	commands []string
	launches []string
}

func (h *fakeHistory) LogAccess(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.accessed = append(h.accessed, path)
	return nil
}

func (h *fakeHistory) LogCommand(command, dir string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = append(h.commands, command+"@"+dir)
	return nil
}

func (h *fakeHistory) LogAppLaunch(name, desktopPath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.launches = append(h.launches, name)
	return nil
}

func (h *fakeHistory) Commands(limit int) ([]history.CommandRun, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []history.CommandRun
	for i := len(h.commands) - 1; i >= 0 && len(out) < limit; i-- {
		command, dir, _ := strings.Cut(h.commands[i], "@")
		out = append(out, history.CommandRun{Command: command, Dir: dir, RunCount: 1})
	}
	return out, nil
}

func (h *fakeHistory) Recent(limit int) ([]history.RecentAccess, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []history.RecentAccess
	for i := len(h.accessed) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, history.RecentAccess{Path: h.accessed[i], AccessCount: 1})
	}
	return out, nil
}

type recordedRun struct {
	dir  string
	argv []string
}

type fakeRunner struct {
	mu     sync.Mutex
	output string
	err    error
	runs   []recordedRun
}

func (r *fakeRunner) Run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, recordedRun{dir: dir, argv: append([]string{name}, args...)})
	return []byte(r.output), r.err
}

// newTestApp builds an Application on a simulation screen rooted at a
// temp dir holding docs/ and notes.txt. Directory loads are synchronous.
func newTestApp(t *testing.T) (*Application, *fakeHistory, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "docs"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	hist := &fakeHistory{}
	app, err := NewApplication(Options{
		Dir:      root,
		Settings: config.DefaultSettings(),
		Search:   config.DefaultSearchConfig(),
		History:  hist,
		AppDirs:  []string{},
		Screen:   screen,
		Runner:   &fakeRunner{},
	})
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	app.state.DirectoryLoader = nil
	app.openerCmd = []string{"opener"}
	app.editorCmd = []string{"editor"}
	return app, hist, root
}

func selectName(t *testing.T, app *Application, name string) {
	t.Helper()
	for i, f := range app.state.DisplayFiles() {
		if f.Name == name {
			app.state.SelectedIndex = i
			return
		}
	}
	t.Fatalf("%s not listed", name)
}

func nextAction(t *testing.T, app *Application) statepkg.Action {
	t.Helper()
	for {
		select {
		case action := <-app.actionCh:
			switch action.(type) {
			case statepkg.RecentsLoadedAction, statepkg.CommandHistoryLoadedAction:
				continue
			}
			return action
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for action")
			return nil
		}
	}
}

func TestNewApplicationLoadsStartingDirectory(t *testing.T) {
	app, _, root := newTestApp(t)

	if app.CurrentPath() != filepath.Clean(root) {
		t.Fatalf("CurrentPath = %q, want %q", app.CurrentPath(), root)
	}
	var names []string
	for _, f := range app.state.Files {
		names = append(names, f.Name)
	}
	want := []string{"..", "docs", "notes.txt"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("files = %v, want %v", names, want)
	}
}

func TestActivateSelectedFileOpensAndLogsAccess(t *testing.T) {
	app, hist, root := newTestApp(t)
	var started []string
	app.startDetached = func(argv []string) error {
		started = argv
		return nil
	}

	selectName(t, app, "notes.txt")
	app.handleAction(statepkg.ActivateSelectedAction{})

	path := filepath.Join(root, "notes.txt")
	if !reflect.DeepEqual(started, []string{"opener", path}) {
		t.Fatalf("opener argv = %v", started)
	}
	if len(hist.accessed) != 1 || hist.accessed[0] != path {
		t.Fatalf("accessed = %v", hist.accessed)
	}
	if app.state.CurrentPath != filepath.Clean(root) {
		t.Fatal("opening a file must not change directory")
	}
}

func TestActivateSelectedDirectoryEnters(t *testing.T) {
	app, _, root := newTestApp(t)
	app.startDetached = func([]string) error {
		t.Fatal("directories must not be handed to the opener")
		return nil
	}

	selectName(t, app, "docs")
	app.handleAction(statepkg.ActivateSelectedAction{})

	if want := filepath.Join(root, "docs"); app.state.CurrentPath != want {
		t.Fatalf("CurrentPath = %q, want %q", app.state.CurrentPath, want)
	}
}

func TestOpenWithoutOpenerReportsError(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.openerCmd = nil

	selectName(t, app, "notes.txt")
	app.handleAction(statepkg.ActivateSelectedAction{})

	if app.state.LastError == nil || !strings.Contains(app.state.LastError.Error(), "no opener") {
		t.Fatalf("LastError = %v", app.state.LastError)
	}
}

func TestLauncherActivateDirectoryResultChangesDirectory(t *testing.T) {
	app, hist, root := newTestApp(t)
	docs := filepath.Join(root, "docs")

	app.state.Mode = statepkg.ModeLauncher
	app.state.LauncherResults = []statepkg.Result{search.FoundPathResult(docs, true)}
	app.handleAction(statepkg.LauncherActivateAction{})

	if app.state.CurrentPath != docs {
		t.Fatalf("CurrentPath = %q, want %q", app.state.CurrentPath, docs)
	}
	if app.state.Mode != statepkg.ModeNormal {
		t.Fatalf("launcher should close, mode = %s", app.state.Mode)
	}
	if len(hist.accessed) != 1 || hist.accessed[0] != docs {
		t.Fatalf("accessed = %v", hist.accessed)
	}
}

func TestLauncherActivateApplicationLaunchesAndLogs(t *testing.T) {
	app, hist, _ := newTestApp(t)
	var launched string
	app.launchApp = func(a apps.DesktopApp) error {
		launched = a.Name
		return nil
	}

	desktop := apps.DesktopApp{Name: "Firefox", Exec: "firefox %u", Path: "/usr/share/applications/firefox.desktop"}
	app.state.Mode = statepkg.ModeLauncher
	app.state.LauncherResults = []statepkg.Result{search.ApplicationResult(desktop, 100)}
	app.handleAction(statepkg.LauncherActivateAction{})

	if launched != "Firefox" {
		t.Fatalf("launched = %q", launched)
	}
	if !reflect.DeepEqual(hist.launches, []string{"Firefox"}) {
		t.Fatalf("launches = %v", hist.launches)
	}
	if app.state.Mode != statepkg.ModeNormal {
		t.Fatalf("mode = %s", app.state.Mode)
	}
}

func TestLauncherActivateGrepOpensEditorAtLine(t *testing.T) {
	app, hist, root := newTestApp(t)
	var ran []string
	app.runInteractive = func(argv []string) error {
		ran = argv
		return nil
	}

	path := filepath.Join(root, "notes.txt")
	app.state.Mode = statepkg.ModeLauncher
	app.state.LauncherResults = []statepkg.Result{search.GrepResult(path, 12, "hello")}
	app.handleAction(statepkg.LauncherActivateAction{})

	if want := []string{"editor", "+12", path}; !reflect.DeepEqual(ran, want) {
		t.Fatalf("editor argv = %v, want %v", ran, want)
	}
	if len(hist.accessed) != 1 || hist.accessed[0] != path {
		t.Fatalf("accessed = %v", hist.accessed)
	}
}

func TestCommandExecuteRunsInCurrentDirectory(t *testing.T) {
	app, hist, root := newTestApp(t)
	runner := &fakeRunner{output: "total 2\nnotes.txt\n"}
	app.commandRunner = runner

	app.state.Mode = statepkg.ModeCommand
	app.state.CommandInput = `grep -n "two words" notes.txt`
	app.handleAction(statepkg.CommandExecuteAction{})

	finished, ok := nextAction(t, app).(statepkg.CommandFinishedAction)
	if !ok {
		t.Fatal("expected CommandFinishedAction")
	}
	app.handleAction(finished)

	if len(runner.runs) != 1 {
		t.Fatalf("runs = %v", runner.runs)
	}
	run := runner.runs[0]
	if run.dir != filepath.Clean(root) {
		t.Fatalf("ran in %q, want %q", run.dir, root)
	}
	if want := []string{"grep", "-n", "two words", "notes.txt"}; !reflect.DeepEqual(run.argv, want) {
		t.Fatalf("argv = %q, want %q", run.argv, want)
	}
	if len(hist.commands) != 1 {
		t.Fatalf("commands = %v", hist.commands)
	}
	preview := app.state.Preview
	if preview == nil || preview.Lines[0] != "Command executed successfully:" || preview.Lines[2] != "notes.txt" {
		t.Fatalf("preview = %+v", preview)
	}
	if app.state.StatusMessage != "Command 'grep' finished." {
		t.Fatalf("status = %q", app.state.StatusMessage)
	}
}

func TestLauncherActivateCommandResult(t *testing.T) {
	app, _, _ := newTestApp(t)
	runner := &fakeRunner{}
	app.commandRunner = runner

	app.state.Mode = statepkg.ModeLauncher
	app.state.LauncherResults = []statepkg.Result{search.CommandResult("make test")}
	app.handleAction(statepkg.LauncherActivateAction{})
	app.handleAction(nextAction(t, app))

	if len(runner.runs) != 1 || !reflect.DeepEqual(runner.runs[0].argv, []string{"make", "test"}) {
		t.Fatalf("runs = %v", runner.runs)
	}
	if app.state.Mode != statepkg.ModeNormal {
		t.Fatalf("mode = %s", app.state.Mode)
	}
}

func TestEmptyCommandIsIgnored(t *testing.T) {
	app, _, _ := newTestApp(t)
	runner := &fakeRunner{}
	app.commandRunner = runner

	app.state.Mode = statepkg.ModeCommand
	app.state.CommandInput = "   "
	app.handleAction(statepkg.CommandExecuteAction{})

	if app.state.Mode != statepkg.ModeNormal || len(runner.runs) != 0 {
		t.Fatalf("mode = %s, runs = %v", app.state.Mode, runner.runs)
	}
}

func TestKeyEventClearsLastError(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.state.LastError = os.ErrPermission

	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'j', 0))

	if app.state.LastError != nil {
		t.Fatalf("LastError = %v", app.state.LastError)
	}
}

func TestQuitActionStopsLoop(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.handleAction(statepkg.QuitAction{})
	if !app.shouldQuit {
		t.Fatal("QuitAction should stop the loop")
	}
}

func TestCloseWithoutBackgroundWorkers(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.state.Searcher = nil
	app.state.DirectoryLoader = nil

	for i := 0; i < 2; i++ {
		if err := app.Close(); err != nil {
			t.Fatalf("Close #%d: %v", i+1, err)
		}
	}
}

func TestExecutedCommandIsRecalledInPrompt(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.commandRunner = &fakeRunner{}

	app.state.Mode = statepkg.ModeCommand
	app.state.CommandInput = "make test"
	app.handleAction(statepkg.CommandExecuteAction{})
	loaded, ok := (<-app.actionCh).(statepkg.CommandHistoryLoadedAction)
	if !ok || len(loaded.Commands) != 1 {
		t.Fatalf("expected reloaded command history, got %+v", loaded)
	}
	app.handleAction(loaded)
	app.handleAction(nextAction(t, app))

	app.handleAction(statepkg.CommandStartAction{})
	app.handleAction(statepkg.CommandHistoryPrevAction{})
	if app.state.CommandInput != "make test" {
		t.Fatalf("recalled input = %q", app.state.CommandInput)
	}
}

func TestEmptyLauncherRecentDirectoryIsActivatable(t *testing.T) {
	app, hist, root := newTestApp(t)
	docs := filepath.Join(root, "docs")
	hist.accessed = []string{docs}
	app.loadRecents()
	app.processActions()

	app.handleAction(statepkg.LauncherStartAction{})
	res := app.state.SelectedResult()
	if res == nil || res.Kind != search.KindRecentFile || res.Path != docs {
		t.Fatalf("selected = %+v", res)
	}

	app.handleAction(statepkg.LauncherActivateAction{})
	if app.state.CurrentPath != docs || app.state.Mode != statepkg.ModeNormal {
		t.Fatalf("current = %q mode = %s", app.state.CurrentPath, app.state.Mode)
	}
}
