package state

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kk-code-lab/filecast/internal/search"
)

// stubRunner answers external tool invocations from a fixed table; unknown
// tools behave as if they were not installed.
type stubRunner map[string]string

func (s stubRunner) Run(_ context.Context, _, name string, _ ...string) ([]byte, error) {
	out, ok := s[name]
	if !ok {
		return nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return []byte(out), nil
}

// makeTree creates files under root; names ending in "/" become directories.
func makeTree(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(name, "/")))
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(name+"\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func newLoadedState(t *testing.T, dir string) (*AppState, *StateReducer) {
	t.Helper()
	state := NewAppState(dir)
	state.ScreenWidth = 80
	state.ScreenHeight = 24
	state.Aggregator = search.NewAggregator(stubRunner{}, nil)
	reducer := NewStateReducer()
	if err := reducer.LoadInitialDirectory(state); err != nil {
		t.Fatalf("load %s: %v", dir, err)
	}
	return state, reducer
}

func mustReduce(t *testing.T, r *StateReducer, state *AppState, actions ...Action) {
	t.Helper()
	for _, action := range actions {
		if _, err := r.Reduce(state, action); err != nil {
			t.Fatalf("%T: %v", action, err)
		}
	}
}

func selectByName(t *testing.T, state *AppState, name string) {
	t.Helper()
	idx := indexByName(state.DisplayFiles(), name)
	if idx < 0 {
		t.Fatalf("%s not in listing %v", name, names(state.DisplayFiles()))
	}
	state.setSelection(idx)
}

func typeRunes(text string, mk func(rune) Action) []Action {
	actions := make([]Action, 0, len(text))
	for _, ch := range text {
		actions = append(actions, mk(ch))
	}
	return actions
}

func newStubAggregator(runner stubRunner) *search.Aggregator {
	return search.NewAggregator(runner, nil)
}
