package state

import (
	"os"
	"time"

	"github.com/kk-code-lab/filecast/internal/apps"
	"github.com/kk-code-lab/filecast/internal/config"
	fsutil "github.com/kk-code-lab/filecast/internal/fs"
	"github.com/kk-code-lab/filecast/internal/history"
	"github.com/kk-code-lab/filecast/internal/search"
)

// FileEntry mirrors fs.Entry so UI/state code can rely on a stable type.
type FileEntry = fsutil.Entry

// Result is one launcher row.
type Result = search.Result

// DesktopApp is one launchable application.
type DesktopApp = apps.DesktopApp

// Mode selects which input the key handler feeds.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeCommand
	ModeLauncher
)

func (m Mode) String() string {
	switch m {
	case ModeFilter:
		return "FILTER"
	case ModeCommand:
		return "COMMAND"
	case ModeLauncher:
		return "LAUNCH"
	default:
		return "NORMAL"
	}
}

// ===== STATE DEFINITIONS =====

// PreviewData is what the preview pane shows for the selection or for the
// output of the last command.
type PreviewData struct {
	Path     string
	Title    string
	Lines    []string
	IsDir    bool
	IsText   bool
	Size     int64
	Modified time.Time
	Mode     os.FileMode
}

// AppState is the single source of truth
type AppState struct {
	// Navigation & filesystem
	CurrentPath string
	Files       []FileEntry // current listing, ".." first when present
	Nav         *NavigationHistory
	ShowHidden  bool

	// Selection & viewport (indices into DisplayFiles)
	SelectedIndex int
	ScrollOffset  int

	Mode Mode

	// Filter mode
	FilterInput string // raw text typed after '/', may start with '@'
	Filter      DirectoryFilter

	// Command mode
	CommandInput   string
	Completion     TabCompletionCycler
	CommandHistory []string // previously run commands, newest first
	historyCursor  int      // 1-based position in CommandHistory while recalling; 0 when editing

	// Launcher
	LauncherQuery      string
	LauncherResults    []Result
	LauncherIndex      int
	LauncherScroll     int
	LauncherSearchID   int // id of the async search whose results are awaited; 0 when none
	LauncherInProgress bool

	// Search sources
	Recents      []history.RecentAccess
	Apps         []DesktopApp
	SearchConfig config.SearchConfig
	Aggregator   *search.Aggregator
	Searcher     *search.AsyncSearcher

	// Preview
	Preview *PreviewData

	// Dimensions
	ScreenWidth  int
	ScreenHeight int

	// Status line
	StatusMessage      string
	ClipboardAvailable bool
	LastYankTime       time.Time

	// Error state
	LastError error

	DirectoryLoader DirectoryLoader
	dirLoad         pendingLoad
	dirLoadSeq      int
	dispatchAction  func(Action)
}

// NewAppState builds the state for a session starting in cwd.
func NewAppState(cwd string) *AppState {
	return &AppState{
		CurrentPath:  cwd,
		Nav:          NewNavigationHistory(cwd),
		SearchConfig: config.DefaultSearchConfig(),
	}
}

// ===== HELPER METHODS =====

func (s *AppState) setDispatch(fn func(Action)) {
	s.dispatchAction = fn
}

func (s *AppState) getDispatch() func(Action) {
	return s.dispatchAction
}

// SetDispatch exposes the reducer dispatch hook to other packages.
func (s *AppState) SetDispatch(fn func(Action)) {
	s.setDispatch(fn)
}

// DirectoryLoading reports whether an async directory read is in flight.
func (s *AppState) DirectoryLoading() bool {
	return s.dirLoad.token != 0
}
