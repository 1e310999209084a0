package input

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/filecast/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the event asked the application to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.emit(statepkg.ResizeAction{Width: w, Height: h})
		return true
	default:
		return true
	}
}

func (ih *InputHandler) emit(action statepkg.Action) {
	ih.actionChan <- action
}

func (ih *InputHandler) mode() statepkg.Mode {
	if ih.state == nil {
		return statepkg.ModeNormal
	}
	return ih.state.Mode
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.emit(statepkg.QuitAction{})
		return false
	}

	switch ih.mode() {
	case statepkg.ModeFilter:
		ih.filterKey(ev)
	case statepkg.ModeCommand:
		ih.commandKey(ev)
	case statepkg.ModeLauncher:
		ih.launcherKey(ev)
	default:
		return ih.normalKey(ev)
	}
	return true
}

func (ih *InputHandler) normalKey(ev *tcell.EventKey) bool {
	alt := ev.Modifiers()&tcell.ModAlt != 0

	switch ev.Key() {
	case tcell.KeyUp:
		ih.emit(statepkg.NavigateUpAction{})
	case tcell.KeyDown:
		ih.emit(statepkg.NavigateDownAction{})
	case tcell.KeyPgUp:
		ih.emit(statepkg.PageUpAction{})
	case tcell.KeyPgDn:
		ih.emit(statepkg.PageDownAction{})
	case tcell.KeyHome:
		ih.emit(statepkg.HomeAction{})
	case tcell.KeyEnd:
		ih.emit(statepkg.EndAction{})
	case tcell.KeyLeft:
		if alt {
			ih.emit(statepkg.HistoryBackAction{})
		} else {
			ih.emit(statepkg.GoUpAction{})
		}
	case tcell.KeyRight:
		if alt {
			ih.emit(statepkg.HistoryForwardAction{})
		} else {
			ih.emit(statepkg.ActivateSelectedAction{})
		}
	case tcell.KeyEnter:
		ih.emit(statepkg.ActivateSelectedAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.emit(statepkg.GoUpAction{})
	case tcell.KeyEscape:
		if ih.state != nil && ih.state.Filter.Active() {
			ih.emit(statepkg.FilterClearAction{})
		}
	case tcell.KeyCtrlZ:
		ih.emit(statepkg.SuspendAction{})
	case tcell.KeyCtrlSpace:
		ih.emit(statepkg.LauncherStartAction{})
	case tcell.KeyRune:
		return ih.normalRune(ev.Rune())
	}
	return true
}

func (ih *InputHandler) normalRune(r rune) bool {
	switch r {
	case 'q':
		ih.emit(statepkg.QuitAction{})
		return false
	case 'j':
		ih.emit(statepkg.NavigateDownAction{})
	case 'k':
		ih.emit(statepkg.NavigateUpAction{})
	case 'g':
		ih.emit(statepkg.HomeAction{})
	case 'G':
		ih.emit(statepkg.EndAction{})
	case 'l':
		ih.emit(statepkg.ActivateSelectedAction{})
	case 'h':
		ih.emit(statepkg.GoUpAction{})
	case '/':
		ih.emit(statepkg.FilterStartAction{})
	case ':':
		ih.emit(statepkg.CommandStartAction{})
	case 's', ' ':
		ih.emit(statepkg.LauncherStartAction{})
	case '.':
		ih.emit(statepkg.ToggleHiddenFilesAction{})
	case 'r', 'R':
		ih.emit(statepkg.RefreshAction{})
	case '[':
		ih.emit(statepkg.HistoryBackAction{})
	case ']':
		ih.emit(statepkg.HistoryForwardAction{})
	case 'y':
		ih.emit(statepkg.YankPathAction{})
	}
	return true
}

func (ih *InputHandler) filterKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.emit(statepkg.FilterClearAction{})
	case tcell.KeyEnter:
		ih.emit(statepkg.FilterAcceptAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.emit(statepkg.FilterBackspaceAction{})
	case tcell.KeyUp:
		ih.emit(statepkg.NavigateUpAction{})
	case tcell.KeyDown:
		ih.emit(statepkg.NavigateDownAction{})
	case tcell.KeyRune:
		ih.emit(statepkg.FilterCharAction{Char: ev.Rune()})
	}
}

func (ih *InputHandler) commandKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.emit(statepkg.CommandCancelAction{})
	case tcell.KeyEnter:
		ih.emit(statepkg.CommandExecuteAction{})
	case tcell.KeyTab:
		ih.emit(statepkg.CommandCompleteAction{})
	case tcell.KeyUp:
		ih.emit(statepkg.CommandHistoryPrevAction{})
	case tcell.KeyDown:
		ih.emit(statepkg.CommandHistoryNextAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.emit(statepkg.CommandBackspaceAction{})
	case tcell.KeyRune:
		ih.emit(statepkg.CommandCharAction{Char: ev.Rune()})
	}
}

func (ih *InputHandler) launcherKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.emit(statepkg.LauncherCancelAction{})
	case tcell.KeyEnter:
		ih.emit(statepkg.LauncherActivateAction{})
	case tcell.KeyUp, tcell.KeyCtrlP:
		ih.emit(statepkg.LauncherNavigateAction{Delta: -1})
	case tcell.KeyDown, tcell.KeyCtrlN:
		ih.emit(statepkg.LauncherNavigateAction{Delta: 1})
	case tcell.KeyPgUp:
		ih.emit(statepkg.LauncherNavigateAction{Delta: -ih.pageSize()})
	case tcell.KeyPgDn:
		ih.emit(statepkg.LauncherNavigateAction{Delta: ih.pageSize()})
	case tcell.KeyCtrlU:
		ih.emit(statepkg.LauncherClearQueryAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.emit(statepkg.LauncherBackspaceAction{})
	case tcell.KeyRune:
		ih.emit(statepkg.LauncherCharAction{Char: ev.Rune()})
	}
}

func (ih *InputHandler) pageSize() int {
	if ih.state == nil {
		return 10
	}
	return ih.state.ListHeight()
}
