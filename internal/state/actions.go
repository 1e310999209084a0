package state

import "github.com/kk-code-lab/filecast/internal/history"

// Action is the base interface for all state mutations
type Action interface{}

// ===== NAVIGATION ACTIONS =====

type NavigateUpAction struct{}
type NavigateDownAction struct{}
type PageUpAction struct{}
type PageDownAction struct{}
type HomeAction struct{}
type EndAction struct{}
type EnterDirectoryAction struct{}
type GoUpAction struct{}
type GoToPathAction struct {
	Path string
}
type HistoryBackAction struct{}
type HistoryForwardAction struct{}
type RefreshAction struct{}
type ToggleHiddenFilesAction struct{}

// ActivateSelectedAction opens the selected entry: directories are entered,
// files are handed to the platform opener by the application.
type ActivateSelectedAction struct{}

// ===== FILTER ACTIONS =====

type FilterStartAction struct{}
type FilterCharAction struct {
	Char rune
}
type FilterBackspaceAction struct{}
type FilterAcceptAction struct{}
type FilterClearAction struct{}

// ===== COMMAND ACTIONS =====

type CommandStartAction struct{}
type CommandCharAction struct {
	Char rune
}
type CommandBackspaceAction struct{}
type CommandCompleteAction struct{}
type CommandCancelAction struct{}

// CommandHistoryPrevAction and CommandHistoryNextAction step through
// CommandHistory, replacing the input line.
type CommandHistoryPrevAction struct{}
type CommandHistoryNextAction struct{}

// CommandHistoryLoadedAction replaces CommandHistory.
type CommandHistoryLoadedAction struct {
	Commands []string
}

// CommandExecuteAction runs CommandInput; handled by the application.
type CommandExecuteAction struct{}

// CommandFinishedAction reports the outcome of a command run.
type CommandFinishedAction struct {
	Command string
	Output  string
	Err     error
}

// ===== LAUNCHER ACTIONS =====

type LauncherStartAction struct {
	Query string
}
type LauncherCharAction struct {
	Char rune
}
type LauncherBackspaceAction struct{}
type LauncherClearQueryAction struct{}
type LauncherNavigateAction struct {
	Delta int
}
type LauncherCancelAction struct{}

// LauncherActivateAction runs the selected result; handled by the application.
type LauncherActivateAction struct{}

// LauncherResultsAction delivers the results of an async search.
type LauncherResultsAction struct {
	ID      int
	Results []Result
}

// ===== SOURCE ACTIONS =====

type RecentsLoadedAction struct {
	Recents []history.RecentAccess
}
type AppsLoadedAction struct {
	Apps []DesktopApp
}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

type StatusAction struct {
	Message string
}

type YankPathAction struct{}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}
type SuspendAction struct{}

// DirectoryLoadResultAction delivers an async directory read.
type DirectoryLoadResultAction DirectoryLoadResult
