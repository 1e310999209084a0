package app

import (
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/filecast/internal/apps"
	statepkg "github.com/kk-code-lab/filecast/internal/state"
)

// Run renders the UI and processes events until the user quits.
func (app *Application) Run() {
	defer app.screen.Fini()

	app.startSources()
	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	recents := time.NewTicker(recentsInterval)
	defer recents.Stop()

	const flashInterval = 50 * time.Millisecond
	var flashTimer *time.Timer
	var flashCh <-chan time.Time

	stopFlash := func() {
		if flashTimer == nil {
			return
		}
		if !flashTimer.Stop() {
			select {
			case <-flashTimer.C:
			default:
			}
		}
		flashCh = nil
	}
	startFlash := func() {
		if flashTimer == nil {
			flashTimer = time.NewTimer(flashInterval)
		} else {
			stopFlash()
			flashTimer.Reset(flashInterval)
		}
		flashCh = flashTimer.C
	}
	defer stopFlash()

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		if app.flashActive() {
			startFlash()
		} else {
			stopFlash()
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-recents.C:
			app.loadRecents()
		case <-flashCh:
			renderPending = true
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

// startSources loads recents and discovers applications in the background.
func (app *Application) startSources() {
	app.loadRecents()
	app.loadCommandHistory()
	dirs := app.appDirs
	dispatch := app.dispatch
	go func() {
		found := apps.Discover(dirs)
		dispatch(statepkg.AppsLoadedAction{Apps: found})
	}()
}

func (app *Application) loadRecents() {
	if app.history == nil {
		return
	}
	recent, err := app.history.Recent(app.recentLimit)
	if err != nil {
		app.logger.Warn("load recents", "err", err)
		return
	}
	app.dispatch(statepkg.RecentsLoadedAction{Recents: recent})
}

// loadCommandHistory feeds the ':' prompt with distinct past commands,
// newest first.
func (app *Application) loadCommandHistory() {
	if app.history == nil {
		return
	}
	runs, err := app.history.Commands(commandHistoryLimit)
	if err != nil {
		app.logger.Warn("load command history", "err", err)
		return
	}
	seen := make(map[string]bool, len(runs))
	commands := make([]string, 0, len(runs))
	for _, run := range runs {
		if seen[run.Command] {
			continue
		}
		seen[run.Command] = true
		commands = append(commands, run.Command)
	}
	app.dispatch(statepkg.CommandHistoryLoadedAction{Commands: commands})
}

// dispatch queues an action without blocking the caller.
func (app *Application) dispatch(action statepkg.Action) {
	select {
	case app.actionCh <- action:
	default:
		go func() { app.actionCh <- action }()
	}
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		app.state.LastError = nil
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for !app.shouldQuit {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
	return changed
}

func (app *Application) flashActive() bool {
	return !app.state.LastYankTime.IsZero() && time.Since(app.state.LastYankTime) < yankFlashDuration
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	return app.handleAppAction(action)
}

// handleAppAction runs side effects for actions that leave the process
// (opening, launching, running) and reduces everything else.
func (app *Application) handleAppAction(action statepkg.Action) bool {
	switch action.(type) {
	case statepkg.YankPathAction:
		return app.handleClipboard()
	case statepkg.ActivateSelectedAction:
		return app.handleActivateSelected()
	case statepkg.LauncherActivateAction:
		return app.handleLauncherActivate()
	case statepkg.CommandExecuteAction:
		return app.handleCommandExecute()
	}

	app.reduce(action)
	return true
}

func (app *Application) reduce(action statepkg.Action) {
	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
		app.logger.Debug("action failed", "action", actionName(action), "err", err)
	}
}
