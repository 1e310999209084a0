package state

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	fsutil "github.com/kk-code-lab/filecast/internal/fs"
	"github.com/kk-code-lab/filecast/internal/search"
	"golang.org/x/text/unicode/norm"
)

// navigation describes how a directory change touches history and selection.
type navigation struct {
	push       bool
	restore    bool   // reuse the selection remembered for the target
	selectName string // select this entry once loaded
	status     string
	rollback   func(*NavigationHistory)
}

type pendingLoad struct {
	token int
	nav   navigation
}

// ===== REDUCER =====

// StateReducer applies actions to state
type StateReducer struct {
	selectionHistory map[string]int // path -> selected index
}

// NewStateReducer creates a new reducer
func NewStateReducer() *StateReducer {
	return &StateReducer{
		selectionHistory: make(map[string]int),
	}
}

func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	if state.Nav == nil {
		state.Nav = NewNavigationHistory(filepath.Clean(state.CurrentPath))
	}

	switch a := action.(type) {

	// ===== NAVIGATION =====

	case NavigateDownAction:
		return state, r.moveSelection(state, 1)

	case NavigateUpAction:
		return state, r.moveSelection(state, -1)

	case PageDownAction:
		return state, r.moveSelection(state, state.ListHeight())

	case PageUpAction:
		return state, r.moveSelection(state, -state.ListHeight())

	case HomeAction:
		return state, r.moveSelection(state, -len(state.DisplayFiles()))

	case EndAction:
		return state, r.moveSelection(state, len(state.DisplayFiles()))

	case EnterDirectoryAction, ActivateSelectedAction:
		file := state.CurrentFile()
		if file == nil || !file.IsDir {
			return state, nil
		}
		if file.IsParent() {
			return state, r.goUp(state)
		}
		r.rememberSelection(state)
		return state, r.changeDirectory(state, file.FullPath, navigation{push: true, restore: true})

	case GoUpAction:
		return state, r.goUp(state)

	case GoToPathAction:
		if a.Path == "" {
			return state, nil
		}
		r.closeLauncher(state)
		r.rememberSelection(state)
		return state, r.changeDirectory(state, a.Path, navigation{push: true, restore: true})

	case HistoryBackAction:
		path, ok := state.Nav.Back()
		if !ok {
			state.StatusMessage = "No earlier directory in history"
			return state, nil
		}
		r.rememberSelection(state)
		return state, r.changeDirectory(state, path, navigation{
			restore:  true,
			status:   "Navigated history to: " + path,
			rollback: func(h *NavigationHistory) { h.Forward() },
		})

	case HistoryForwardAction:
		path, ok := state.Nav.Forward()
		if !ok {
			state.StatusMessage = "No later directory in history"
			return state, nil
		}
		r.rememberSelection(state)
		return state, r.changeDirectory(state, path, navigation{
			restore:  true,
			status:   "Navigated history to: " + path,
			rollback: func(h *NavigationHistory) { h.Back() },
		})

	case RefreshAction:
		if err := r.refresh(state, false); err != nil {
			return state, err
		}
		state.StatusMessage = "Directory refreshed"
		return state, nil

	case ToggleHiddenFilesAction:
		state.ShowHidden = !state.ShowHidden
		if err := r.refresh(state, false); err != nil {
			state.ShowHidden = !state.ShowHidden
			return state, err
		}
		if state.ShowHidden {
			state.StatusMessage = "Hidden files: shown"
		} else {
			state.StatusMessage = "Hidden files: hidden"
		}
		return state, nil

	case DirectoryLoadResultAction:
		return state, r.applyLoadResult(state, DirectoryLoadResult(a))

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		state.updateScrollVisibility()
		state.updateLauncherScroll()
		return state, nil

	// ===== FILTER =====

	case FilterStartAction:
		state.Mode = ModeFilter
		state.FilterInput = ""
		r.applyFilter(state)
		return state, nil

	case FilterCharAction:
		if state.Mode != ModeFilter {
			return state, nil
		}
		state.FilterInput += string(a.Char)
		r.applyFilter(state)
		return state, nil

	case FilterBackspaceAction:
		if state.Mode != ModeFilter {
			return state, nil
		}
		state.FilterInput = trimLastRune(state.FilterInput)
		r.applyFilter(state)
		return state, nil

	case FilterAcceptAction:
		if pattern, ok := contentPattern(state.FilterInput); ok {
			state.Mode = ModeNormal
			state.FilterInput = ""
			r.applyFilter(state)
			if pattern != "" {
				r.openLauncher(state, "@"+pattern)
			}
			return state, nil
		}
		state.Mode = ModeNormal
		if state.Filter.Active() {
			state.StatusMessage = fmt.Sprintf("Filtered %d items", len(state.Filter.Visible()))
		}
		return state, nil

	case FilterClearAction:
		state.Mode = ModeNormal
		state.FilterInput = ""
		state.Filter.Clear()
		state.ScrollOffset = 0
		state.setSelection(0)
		r.generatePreview(state)
		return state, nil

	// ===== COMMAND =====

	case CommandStartAction:
		state.Mode = ModeCommand
		state.CommandInput = ""
		state.historyCursor = 0
		state.Completion.Invalidate()
		return state, nil

	case CommandCharAction:
		state.CommandInput += string(a.Char)
		state.historyCursor = 0
		state.Completion.Invalidate()
		return state, nil

	case CommandBackspaceAction:
		state.CommandInput = trimLastRune(state.CommandInput)
		state.historyCursor = 0
		state.Completion.Invalidate()
		return state, nil

	case CommandHistoryPrevAction:
		if state.Mode != ModeCommand || state.historyCursor >= len(state.CommandHistory) {
			return state, nil
		}
		state.historyCursor++
		state.CommandInput = state.CommandHistory[state.historyCursor-1]
		state.Completion.Invalidate()
		return state, nil

	case CommandHistoryNextAction:
		if state.Mode != ModeCommand || state.historyCursor == 0 {
			return state, nil
		}
		state.historyCursor--
		if state.historyCursor == 0 {
			state.CommandInput = ""
		} else {
			state.CommandInput = state.CommandHistory[state.historyCursor-1]
		}
		state.Completion.Invalidate()
		return state, nil

	case CommandHistoryLoadedAction:
		state.CommandHistory = a.Commands
		if state.historyCursor > len(state.CommandHistory) {
			state.historyCursor = 0
		}
		return state, nil

	case CommandCompleteAction:
		res, err := state.Completion.Complete(state.CommandInput, func() ([]FileEntry, error) {
			return fsutil.ReadDirectory(state.CurrentPath, state.ShowHidden)
		})
		if err != nil {
			return state, err
		}
		state.CommandInput = res.Buffer
		switch res.Count {
		case 0:
			state.StatusMessage = "No matches found"
		case 1:
			state.StatusMessage = "Completed"
		default:
			state.StatusMessage = fmt.Sprintf("Match %d/%d (Tab to cycle)", res.Index+1, res.Count)
		}
		return state, nil

	case CommandCancelAction:
		state.Mode = ModeNormal
		state.CommandInput = ""
		state.historyCursor = 0
		state.Completion.Invalidate()
		return state, nil

	case CommandFinishedAction:
		state.Mode = ModeNormal
		state.CommandInput = ""
		state.Completion.Invalidate()
		state.Preview = commandPreview(a.Command, a.Output, a.Err)
		name := commandName(a.Command)
		if a.Err != nil {
			state.StatusMessage = fmt.Sprintf("Failed to execute command '%s': %v", name, a.Err)
		} else {
			state.StatusMessage = fmt.Sprintf("Command '%s' finished.", name)
		}
		if err := r.refresh(state, true); err != nil {
			state.StatusMessage = fmt.Sprintf("Command finished, but refresh failed: %v", err)
		}
		return state, nil

	// ===== LAUNCHER =====

	case LauncherStartAction:
		r.openLauncher(state, a.Query)
		return state, nil

	case LauncherCharAction:
		if state.Mode != ModeLauncher {
			return state, nil
		}
		state.LauncherQuery += string(a.Char)
		r.runLauncherSearch(state)
		return state, nil

	case LauncherBackspaceAction:
		if state.Mode != ModeLauncher {
			return state, nil
		}
		state.LauncherQuery = trimLastRune(state.LauncherQuery)
		r.runLauncherSearch(state)
		return state, nil

	case LauncherClearQueryAction:
		if state.Mode != ModeLauncher {
			return state, nil
		}
		state.LauncherQuery = ""
		r.runLauncherSearch(state)
		return state, nil

	case LauncherNavigateAction:
		if len(state.LauncherResults) == 0 {
			return state, nil
		}
		idx := state.LauncherIndex + a.Delta
		if idx < 0 {
			idx = 0
		}
		if idx >= len(state.LauncherResults) {
			idx = len(state.LauncherResults) - 1
		}
		state.LauncherIndex = idx
		state.updateLauncherScroll()
		return state, nil

	case LauncherResultsAction:
		if a.ID == 0 || a.ID != state.LauncherSearchID || state.Mode != ModeLauncher {
			return state, nil
		}
		state.LauncherResults = a.Results
		state.LauncherInProgress = false
		state.LauncherIndex = 0
		state.LauncherScroll = 0
		if len(a.Results) == 0 {
			state.StatusMessage = "No results for " + state.LauncherQuery
		} else {
			state.StatusMessage = fmt.Sprintf("%d results", len(a.Results))
		}
		return state, nil

	case LauncherCancelAction:
		r.closeLauncher(state)
		return state, nil

	// ===== SOURCES =====

	case RecentsLoadedAction:
		state.Recents = a.Recents
		r.refreshFuzzyResults(state)
		return state, nil

	case AppsLoadedAction:
		state.Apps = a.Apps
		r.refreshFuzzyResults(state)
		return state, nil

	case StatusAction:
		state.StatusMessage = a.Message
		return state, nil
	}

	return state, nil
}

// ===== NAVIGATION HELPERS =====

func (r *StateReducer) moveSelection(state *AppState, delta int) error {
	if len(state.DisplayFiles()) == 0 {
		return nil
	}
	state.setSelection(state.SelectedIndex + delta)
	r.generatePreview(state)
	return nil
}

func (r *StateReducer) goUp(state *AppState) error {
	current := filepath.Clean(state.CurrentPath)
	parent := filepath.Dir(current)
	if parent == current {
		return nil
	}
	r.rememberSelection(state)
	return r.changeDirectory(state, parent, navigation{
		push:       true,
		selectName: norm.NFC.String(filepath.Base(current)),
	})
}

func (r *StateReducer) rememberSelection(state *AppState) {
	if state.Filter.Active() || state.CurrentPath == "" {
		return
	}
	r.selectionHistory[state.CurrentPath] = state.SelectedIndex
}

// changeDirectory loads path synchronously, or through the DirectoryLoader
// when one is wired together with a dispatcher.
func (r *StateReducer) changeDirectory(state *AppState, path string, nav navigation) error {
	dir := filepath.Clean(path)

	loader := state.DirectoryLoader
	dispatch := state.getDispatch()
	if loader == nil || dispatch == nil {
		entries, err := fsutil.ReadDirectory(dir, state.ShowHidden)
		if err != nil {
			nav.undo(state)
			return err
		}
		r.applyDirectory(state, dir, entries, nav)
		return nil
	}

	state.dirLoadSeq++
	token := state.dirLoadSeq
	state.dirLoad = pendingLoad{token: token, nav: nav}
	state.StatusMessage = "Loading " + dir
	loader.Load(DirectoryLoadRequest{
		Token:      token,
		Path:       dir,
		ShowHidden: state.ShowHidden,
		Deliver: func(res DirectoryLoadResult) {
			dispatch(DirectoryLoadResultAction(res))
		},
	})
	return nil
}

func (r *StateReducer) applyLoadResult(state *AppState, res DirectoryLoadResult) error {
	if res.Token == 0 || res.Token != state.dirLoad.token {
		return nil
	}
	nav := state.dirLoad.nav
	state.dirLoad = pendingLoad{}
	if res.Err != nil {
		nav.undo(state)
		state.StatusMessage = ""
		return res.Err
	}
	r.applyDirectory(state, res.Path, res.Entries, nav)
	return nil
}

func (nav navigation) undo(state *AppState) {
	if nav.rollback != nil && state.Nav != nil {
		nav.rollback(state.Nav)
	}
}

func (r *StateReducer) applyDirectory(state *AppState, dir string, entries []FileEntry, nav navigation) {
	state.CurrentPath = dir
	state.Files = entries
	if nav.push {
		if state.Nav == nil {
			state.Nav = NewNavigationHistory(dir)
		} else {
			state.Nav.Push(dir)
		}
	}

	state.Filter.Clear()
	state.FilterInput = ""
	if state.Mode == ModeFilter {
		state.Mode = ModeNormal
	}
	state.Completion.Invalidate()
	state.LastError = nil

	idx := 0
	if nav.selectName != "" {
		if found := indexByName(entries, nav.selectName); found >= 0 {
			idx = found
		}
	} else if nav.restore {
		if saved, ok := r.selectionHistory[dir]; ok {
			idx = saved
		}
	}
	state.ScrollOffset = 0
	state.setSelection(idx)
	state.centerScrollOnSelection()

	if nav.status != "" {
		state.StatusMessage = nav.status
	} else {
		state.StatusMessage = "Changed directory to: " + dir
	}
	r.generatePreview(state)
	r.refreshFuzzyResults(state)
}

// refresh re-reads the current directory. An active filter is re-run and
// resets the selection; otherwise the selected entry is kept by name.
func (r *StateReducer) refresh(state *AppState, keepPreview bool) error {
	entries, err := fsutil.ReadDirectory(state.CurrentPath, state.ShowHidden)
	if err != nil {
		return err
	}

	selected := ""
	if file := state.CurrentFile(); file != nil {
		selected = file.Name
	}

	state.Files = entries
	state.Completion.Invalidate()
	if state.Filter.Active() {
		state.Filter.Recompute(entries)
		state.ScrollOffset = 0
		state.setSelection(0)
	} else {
		idx := indexByName(entries, selected)
		if idx < 0 {
			idx = state.SelectedIndex
		}
		state.setSelection(idx)
	}

	if !keepPreview {
		r.generatePreview(state)
	}
	r.refreshFuzzyResults(state)
	return nil
}

// ===== FILTER HELPERS =====

// applyFilter feeds FilterInput to the DirectoryFilter. Input starting with
// '@' is a pending content search and leaves the listing unfiltered.
func (r *StateReducer) applyFilter(state *AppState) {
	if _, ok := contentPattern(state.FilterInput); ok {
		state.Filter.Clear()
	} else {
		state.Filter.Apply(state.FilterInput, state.Files)
	}
	state.ScrollOffset = 0
	state.setSelection(0)
	r.generatePreview(state)
}

func contentPattern(input string) (string, bool) {
	if !strings.HasPrefix(input, "@") {
		return "", false
	}
	return strings.TrimSpace(input[1:]), true
}

// ===== LAUNCHER HELPERS =====

func (r *StateReducer) openLauncher(state *AppState, query string) {
	state.Mode = ModeLauncher
	state.LauncherQuery = query
	r.runLauncherSearch(state)
}

func (r *StateReducer) closeLauncher(state *AppState) {
	if state.Searcher != nil {
		state.Searcher.Cancel()
	}
	if state.Mode == ModeLauncher {
		state.Mode = ModeNormal
	}
	state.LauncherQuery = ""
	state.LauncherResults = nil
	state.LauncherIndex = 0
	state.LauncherScroll = 0
	state.LauncherSearchID = 0
	state.LauncherInProgress = false
}

func (r *StateReducer) searchRequest(state *AppState) search.Request {
	return search.Request{
		Query:   state.LauncherQuery,
		Dir:     state.CurrentPath,
		Apps:    state.Apps,
		Recents: state.Recents,
		Listing: state.Files,
		Config:  state.SearchConfig,
	}
}

// runLauncherSearch evaluates LauncherQuery. Queries that spawn external
// tools go through the AsyncSearcher when one is wired; their results come
// back as a LauncherResultsAction carrying the search id.
func (r *StateReducer) runLauncherSearch(state *AppState) {
	state.LauncherIndex = 0
	state.LauncherScroll = 0
	req := r.searchRequest(state)

	dispatch := state.getDispatch()
	if search.IsExternal(req.Query) && state.Searcher != nil && dispatch != nil {
		state.LauncherResults = nil
		state.LauncherInProgress = true
		_, pattern := search.Classify(req.Query)
		state.StatusMessage = "Searching for '" + pattern + "'..."
		state.LauncherSearchID = state.Searcher.Start(req, func(id int, results []Result) {
			dispatch(LauncherResultsAction{ID: id, Results: results})
		})
		return
	}

	if state.Searcher != nil {
		state.Searcher.Cancel()
	}
	state.LauncherSearchID = 0
	state.LauncherInProgress = false
	state.LauncherResults = r.localResults(state, req)
}

// localResults evaluates queries that need no external tool. An empty
// query lists recents and applications to browse.
func (r *StateReducer) localResults(state *AppState, req search.Request) []Result {
	if req.Query == "" {
		return search.Suggestions(state.Recents, state.Apps)
	}
	return r.aggregator(state).Search(context.Background(), req)
}

// refreshFuzzyResults re-ranks an open fuzzy or empty query after a source
// changed, keeping the highlighted row where possible.
func (r *StateReducer) refreshFuzzyResults(state *AppState) {
	if state.Mode != ModeLauncher {
		return
	}
	if mode, _ := search.Classify(state.LauncherQuery); mode != search.ModeFuzzy && mode != search.ModeEmpty {
		return
	}
	prev := state.LauncherIndex
	state.LauncherResults = r.localResults(state, r.searchRequest(state))
	switch {
	case len(state.LauncherResults) == 0:
		state.LauncherIndex = 0
	case prev >= len(state.LauncherResults):
		state.LauncherIndex = len(state.LauncherResults) - 1
	default:
		state.LauncherIndex = prev
	}
	state.updateLauncherScroll()
}

func (r *StateReducer) aggregator(state *AppState) *search.Aggregator {
	if state.Aggregator == nil {
		state.Aggregator = search.NewAggregator(nil, nil)
	}
	return state.Aggregator
}

// ===== PREVIEW =====

func (r *StateReducer) generatePreview(state *AppState) {
	file := state.CurrentFile()
	if file == nil {
		state.Preview = nil
		return
	}
	if p := state.Preview; p != nil && p.Path == file.FullPath && p.Size == file.Size && p.Modified.Equal(file.Modified) && p.IsDir == file.IsDir {
		return
	}
	state.Preview = buildPreview(*file, state.ShowHidden)
}

// GeneratePreview exposes the preview-building helper to other packages (e.g., initial boot).
func (r *StateReducer) GeneratePreview(state *AppState) {
	r.generatePreview(state)
}

// LoadInitialDirectory reads state.CurrentPath synchronously without
// touching history.
func (r *StateReducer) LoadInitialDirectory(state *AppState) error {
	entries, err := fsutil.ReadDirectory(state.CurrentPath, state.ShowHidden)
	if err != nil {
		return err
	}
	r.applyDirectory(state, filepath.Clean(state.CurrentPath), entries, navigation{})
	state.StatusMessage = ""
	return nil
}

// ===== PRIVATE HELPERS =====

func indexByName(files []FileEntry, name string) int {
	if name == "" {
		return -1
	}
	for idx, file := range files {
		if file.Name == name {
			return idx
		}
	}
	return -1
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

func commandName(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return command
	}
	return fields[0]
}
