package app

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/filecast/internal/apps"
	"github.com/kk-code-lab/filecast/internal/config"
	"github.com/kk-code-lab/filecast/internal/history"
	"github.com/kk-code-lab/filecast/internal/logging"
	"github.com/kk-code-lab/filecast/internal/search"
	statepkg "github.com/kk-code-lab/filecast/internal/state"
	inputui "github.com/kk-code-lab/filecast/internal/ui/input"
	renderui "github.com/kk-code-lab/filecast/internal/ui/render"
)

// recentsInterval is how often recents are reloaded from the store while
// the UI runs.
const recentsInterval = 5 * time.Second

// commandHistoryLimit bounds the commands recalled in the ':' prompt.
const commandHistoryLimit = 50

// ActivityLog records opened paths, commands and app launches and serves
// the recent-access list and command history. *history.Store implements it.
type ActivityLog interface {
	LogAccess(path string) error
	LogCommand(command, dir string) error
	LogAppLaunch(name, desktopPath string) error
	Recent(limit int) ([]history.RecentAccess, error)
	Commands(limit int) ([]history.CommandRun, error)
}

// Options configures a new Application.
type Options struct {
	Dir      string
	Settings config.Settings
	Search   config.SearchConfig
	History  ActivityLog // nil disables recents
	Logger   *slog.Logger
	AppDirs  []string     // nil uses apps.DefaultDirs
	Screen   tcell.Screen // nil creates a terminal screen
	Runner   search.Runner
}

// Application represents the running app.
type Application struct {
	screen      tcell.Screen
	state       *statepkg.AppState
	reducer     *statepkg.StateReducer
	renderer    *renderui.Renderer
	input       *inputui.InputHandler
	actionCh    chan statepkg.Action
	shouldQuit  bool
	history     ActivityLog
	logger      *slog.Logger
	appDirs     []string
	recentLimit int

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	clipboardCmd   []string
	clipboardAvail bool
	editorCmd      []string
	openerCmd      []string

	// process hooks, replaced in tests
	commandRunner  search.Runner
	startDetached  func(argv []string) error
	runInteractive func(argv []string) error
	launchApp      func(apps.DesktopApp) error
}

// NewApplication prepares the screen, loads the starting directory and
// wires the search sources. Call Run to start the event loop.
func NewApplication(opts Options) (*Application, error) {
	screen := opts.Screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, err
		}
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	dir := opts.Dir
	if dir == "" {
		cwd, err := GetCwd()
		if err != nil {
			screen.Fini()
			return nil, err
		}
		dir = cwd
	}

	logger := logging.OrDiscard(opts.Logger)
	clipboardCmd, clipboardAvail := detectClipboard()
	editorCmd, _ := detectEditorCommand()
	openerCmd, _ := detectOpener()

	state := statepkg.NewAppState(dir)
	state.ShowHidden = opts.Settings.ShowHidden
	state.SearchConfig = opts.Search
	state.ClipboardAvailable = clipboardAvail
	state.Aggregator = search.NewAggregator(opts.Runner, logger)
	state.Searcher = search.NewAsyncSearcher(state.Aggregator)
	state.DirectoryLoader = statepkg.NewAsyncDirectoryLoader()
	w, h := screen.Size()
	state.ScreenWidth = w
	state.ScreenHeight = h

	actionCh := make(chan statepkg.Action, 10)
	state.SetDispatch(func(action statepkg.Action) {
		select {
		case actionCh <- action:
		default:
			go func() { actionCh <- action }()
		}
	})

	reducer := statepkg.NewStateReducer()
	if err := reducer.LoadInitialDirectory(state); err != nil {
		screen.Fini()
		return nil, err
	}

	recentLimit := opts.Settings.RecentLimit
	if recentLimit <= 0 {
		recentLimit = config.DefaultRecentLimit
	}
	appDirs := opts.AppDirs
	if appDirs == nil {
		appDirs = apps.DefaultDirs()
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		screen:         screen,
		state:          state,
		reducer:        reducer,
		renderer:       renderui.NewRenderer(screen),
		input:          inputui.NewInputHandler(actionCh),
		actionCh:       actionCh,
		history:        opts.History,
		logger:         logger,
		appDirs:        appDirs,
		recentLimit:    recentLimit,
		ctx:            ctx,
		cancel:         cancel,
		clipboardCmd:   clipboardCmd,
		clipboardAvail: clipboardAvail,
		editorCmd:      editorCmd,
		openerCmd:      openerCmd,
		commandRunner:  combinedRunner{},
		startDetached:  startDetached,
		launchApp:      apps.DesktopApp.Launch,
	}
	app.runInteractive = app.runInTerminal
	app.input.SetState(state)
	return app, nil
}

// Close cleans up resources. Calls after the first are no-ops.
func (app *Application) Close() error {
	app.closeOnce.Do(func() {
		app.cancel()
		if app.state.Searcher != nil {
			app.state.Searcher.Cancel()
		}
		if app.state.DirectoryLoader != nil {
			app.state.DirectoryLoader.Cancel()
		}
		app.screen.Fini()
	})
	return nil
}

// CurrentPath returns the directory shown when the loop ended.
func (app *Application) CurrentPath() string {
	return app.state.CurrentPath
}

// GetCwd returns current working directory.
func GetCwd() (string, error) {
	return os.Getwd()
}
