package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/kk-code-lab/filecast/internal/search"
	statepkg "github.com/kk-code-lab/filecast/internal/state"
)

// yankFlashDuration matches the status line highlight drawn by the renderer.
const yankFlashDuration = 150 * time.Millisecond

func actionName(action statepkg.Action) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", action), "state.")
}

func (app *Application) handleClipboard() bool {
	if !app.clipboardAvail || len(app.clipboardCmd) == 0 {
		app.state.StatusMessage = "No clipboard command available"
		return true
	}
	path := normalizeClipboardPath(app.state.CurrentFilePath(), runtime.GOOS)
	cmd := exec.Command(app.clipboardCmd[0], app.clipboardCmd[1:]...)
	cmd.Stdin = strings.NewReader(path)
	if err := cmd.Run(); err != nil {
		app.state.LastError = fmt.Errorf("copy path: %w", err)
		return true
	}
	app.state.LastYankTime = time.Now()
	app.state.StatusMessage = "Copied " + path
	return true
}

func normalizeClipboardPath(inputPath string, goos string) string {
	if strings.EqualFold(goos, "windows") {
		cleaned := filepath.Clean(inputPath)
		return strings.ReplaceAll(cleaned, "/", `\`)
	}
	return path.Clean(filepath.ToSlash(inputPath))
}

// handleActivateSelected enters directories through the reducer and hands
// files to the platform opener.
func (app *Application) handleActivateSelected() bool {
	file := app.state.CurrentFile()
	if file == nil {
		return true
	}
	if file.IsDir {
		app.reduce(statepkg.ActivateSelectedAction{})
		return true
	}
	app.openPath(file.FullPath)
	return true
}

// handleLauncherActivate runs the highlighted launcher result.
func (app *Application) handleLauncherActivate() bool {
	res := app.state.SelectedResult()
	if res == nil {
		return true
	}
	selected := *res

	switch selected.Kind {
	case search.KindFile, search.KindRecentFile:
		info, err := os.Stat(selected.Path)
		if err != nil {
			app.state.LastError = fmt.Errorf("open %s: %w", selected.Path, err)
			return true
		}
		app.logAccess(selected.Path)
		if info.IsDir() {
			app.reduce(statepkg.GoToPathAction{Path: selected.Path})
			return true
		}
		app.reduce(statepkg.LauncherCancelAction{})
		app.openPath(selected.Path)

	case search.KindApplication:
		if selected.App == nil {
			return true
		}
		app.reduce(statepkg.LauncherCancelAction{})
		if err := app.launchApp(*selected.App); err != nil {
			app.state.LastError = err
			return true
		}
		if app.history != nil {
			if err := app.history.LogAppLaunch(selected.App.Name, selected.App.Path); err != nil {
				app.logger.Warn("log app launch", "app", selected.App.Name, "err", err)
			}
		}
		app.state.StatusMessage = "Launched " + selected.App.Name

	case search.KindCommand:
		app.reduce(statepkg.LauncherCancelAction{})
		app.startCommand(selected.Command)

	case search.KindGrep:
		app.reduce(statepkg.LauncherCancelAction{})
		app.logAccess(selected.Path)
		if err := app.openInEditor(selected.Path, selected.Line); err != nil {
			app.state.LastError = err
		}
	}
	return true
}

func (app *Application) handleCommandExecute() bool {
	command := strings.TrimSpace(app.state.CommandInput)
	app.reduce(statepkg.CommandCancelAction{})
	if command == "" {
		return true
	}
	app.startCommand(command)
	return true
}

// startCommand runs command in the current directory off the event loop
// and reports the outcome with a CommandFinishedAction.
func (app *Application) startCommand(command string) {
	argv := splitCommandLine(command)
	if len(argv) == 0 {
		return
	}
	dir := app.state.CurrentPath
	if app.history != nil {
		if err := app.history.LogCommand(command, dir); err != nil {
			app.logger.Warn("log command", "command", command, "err", err)
		} else {
			app.loadCommandHistory()
		}
	}
	app.state.StatusMessage = fmt.Sprintf("Running '%s'...", argv[0])

	runner := app.commandRunner
	ctx := app.ctx
	logger := app.logger
	go func() {
		out, err := runner.Run(ctx, dir, argv[0], argv[1:]...)
		logger.Debug("command finished", "command", command, "dir", dir, "err", err)
		app.dispatch(statepkg.CommandFinishedAction{
			Command: command,
			Output:  string(out),
			Err:     err,
		})
	}()
}

// openPath hands path to the platform opener and records the access.
func (app *Application) openPath(path string) {
	if len(app.openerCmd) == 0 {
		app.state.LastError = fmt.Errorf("open %s: no opener available", filepath.Base(path))
		return
	}
	argv := append(append([]string{}, app.openerCmd...), path)
	if err := app.startDetached(argv); err != nil {
		app.state.LastError = fmt.Errorf("open %s: %w", filepath.Base(path), err)
		return
	}
	app.logAccess(path)
	app.state.StatusMessage = "Opened " + path
}

func (app *Application) logAccess(path string) {
	if app.history == nil || path == "" {
		return
	}
	if err := app.history.LogAccess(path); err != nil {
		app.logger.Warn("log access", "path", path, "err", err)
		return
	}
	app.loadRecents()
}

// openInEditor opens path in the terminal editor, jumping to line when
// it is known.
func (app *Application) openInEditor(path string, line uint32) error {
	if len(app.editorCmd) == 0 {
		return fmt.Errorf("no editor configured")
	}
	return app.runInteractive(editorArgs(app.editorCmd, path, line))
}

func editorArgs(editorCmd []string, path string, line uint32) []string {
	args := append([]string{}, editorCmd...)
	if line > 0 {
		args = append(args, "+"+strconv.FormatUint(uint64(line), 10))
	}
	return append(args, path)
}

// runInTerminal hands the terminal to argv until it exits.
func (app *Application) runInTerminal(argv []string) error {
	useTTY := runtime.GOOS != "windows"
	var tty *os.File
	if useTTY {
		var err error
		tty, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			useTTY = false
		} else {
			defer func() {
				_ = tty.Close()
			}()
		}
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if useTTY {
		cmd.Stdin = tty
		cmd.Stdout = tty
		cmd.Stderr = tty
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	runErr := cmd.Run()
	discardPendingInput()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	return runErr
}

// startDetached starts argv without waiting for it.
func startDetached(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// combinedRunner captures stdout and stderr together so command output
// reads as it would in a terminal.
type combinedRunner struct{}

func (combinedRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}
