//go:build windows

package app

import (
	"os"

	"golang.org/x/sys/windows"
)

// Windows has no job control, so suspending only reports that.
func (app *Application) suspendToShell() {
	app.state.StatusMessage = "Suspend is not supported on Windows"
}

func (app *Application) resumeAfterStop() bool {
	return false
}

func contSignals() []os.Signal {
	return nil
}

// discardPendingInput drops keys typed while a child program owned the console.
func discardPendingInput() {
	handle, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return
	}
	_ = windows.FlushConsoleInputBuffer(handle)
}
