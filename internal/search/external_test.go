package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/kk-code-lab/filecast/internal/config"
)

type fakeCall struct {
	dir  string
	name string
	args []string
}

type fakeOutput struct {
	out []byte
	err error
}

type fakeRunner struct {
	outputs map[string]fakeOutput
	calls   []fakeCall
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, fakeCall{dir: dir, name: name, args: args})
	o, ok := f.outputs[name]
	if !ok {
		return nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return o.out, o.err
}

func (f *fakeRunner) called() []string {
	var names []string
	for _, c := range f.calls {
		names = append(names, c.name)
	}
	return names
}

func TestParseGrepLine(t *testing.T) {
	tests := []struct {
		line string
		want GrepMatch
		ok   bool
	}{
		{"src/main.c:42:return 0;", GrepMatch{"src/main.c", 42, "return 0;"}, true},
		{"a.txt:1:key: value", GrepMatch{"a.txt", 1, "key: value"}, true},
		{"a.txt:7:", GrepMatch{"a.txt", 7, ""}, true},
		{"src/main.c:notanumber:x", GrepMatch{}, false},
		{"src/main.c:-3:x", GrepMatch{}, false},
		{"no separators", GrepMatch{}, false},
		{"only:one", GrepMatch{}, false},
		{":12:empty path", GrepMatch{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseGrepLine(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseGrepLine(%q) = %+v, %v; want %+v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestContentSearch_UsesRipgrep(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{outputs: map[string]fakeOutput{
		"rg": {out: []byte("src/main.c:42:   return 0;\nbroken line\nsrc/util.c:x:y\n")},
	}}
	cfg := config.SearchConfig{ExcludeDirs: []string{"node_modules"}}

	results := NewInvoker(runner, nil).ContentSearch(context.Background(), dir, "return", cfg)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d: %+v", len(results), results)
	}
	r := results[0]
	if r.Kind != KindGrep || r.Line != 42 || r.Score != GrepScore {
		t.Fatalf("unexpected result %+v", r)
	}
	if r.Path != filepath.Join(dir, "src", "main.c") {
		t.Fatalf("path = %q", r.Path)
	}
	if r.Name != "main.c:42" || r.Description != "return 0;" {
		t.Fatalf("name/description = %q / %q", r.Name, r.Description)
	}

	call := runner.calls[0]
	if call.dir != dir {
		t.Fatalf("runner dir = %q, want %q", call.dir, dir)
	}
	joined := strings.Join(call.args, " ")
	for _, want := range []string{"-i", "-n", "--max-count 20", "--glob !node_modules/**"} {
		if !strings.Contains(joined, want) {
			t.Errorf("rg args %q missing %q", joined, want)
		}
	}
	if !slices.Equal(runner.called(), []string{"rg"}) {
		t.Fatalf("calls = %v", runner.called())
	}
}

func TestContentSearch_FallsBackToGrep(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]fakeOutput{
		"grep": {out: []byte("./notes.md:3:TODO write tests\n")},
	}}
	cfg := config.SearchConfig{ExcludeDirs: []string{".git", "target"}}

	results := NewInvoker(runner, nil).ContentSearch(context.Background(), "/work", "todo", cfg)

	if !slices.Equal(runner.called(), []string{"rg", "grep"}) {
		t.Fatalf("calls = %v", runner.called())
	}
	if len(results) != 1 || results[0].Path != filepath.Join("/work", "notes.md") {
		t.Fatalf("unexpected results %+v", results)
	}
	args := runner.calls[1].args
	for _, want := range []string{"--exclude-dir=.git", "--exclude-dir=target", "-r", "-n", "-i"} {
		if !slices.Contains(args, want) {
			t.Errorf("grep args %v missing %q", args, want)
		}
	}
}

func TestContentSearch_NonzeroExitKeepsPrimary(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]fakeOutput{
		"rg":   {err: &exec.ExitError{}},
		"grep": {out: []byte("a:1:b\n")},
	}}

	results := NewInvoker(runner, nil).ContentSearch(context.Background(), "/work", "zzz", config.SearchConfig{})

	if len(results) != 0 {
		t.Fatalf("expected no results, got %+v", results)
	}
	if !slices.Equal(runner.called(), []string{"rg"}) {
		t.Fatalf("calls = %v", runner.called())
	}
}

func TestContentSearch_CapsParsedResults(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 40; i++ {
		if i%2 == 0 {
			b.WriteString("garbage\n")
		}
		fmt.Fprintf(&b, "f.txt:%d:hit\n", i)
	}
	runner := &fakeRunner{outputs: map[string]fakeOutput{"rg": {out: []byte(b.String())}}}

	results := NewInvoker(runner, nil).ContentSearch(context.Background(), "/w", "hit", config.SearchConfig{})

	if len(results) != ExternalMaxResult {
		t.Fatalf("expected %d results, got %d", ExternalMaxResult, len(results))
	}
	if results[14].Line != 15 {
		t.Fatalf("last line = %d, want 15", results[14].Line)
	}
}

func TestContentSearch_SkipsOversizedLine(t *testing.T) {
	out := "a.js:1:" + strings.Repeat("x", 2*maxLineBytes) + "\nb.go:2:hit\r\nc.go:3:hit\n"
	runner := &fakeRunner{outputs: map[string]fakeOutput{"rg": {out: []byte(out)}}}

	results := NewInvoker(runner, nil).ContentSearch(context.Background(), "/w", "hit", config.SearchConfig{})

	if len(results) != 2 {
		t.Fatalf("expected 2 results after the long line, got %d", len(results))
	}
	if results[0].Path != filepath.Join("/w", "b.go") || results[0].Content != "hit" || results[1].Line != 3 {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestContentSearch_BothToolsMissing(t *testing.T) {
	runner := &fakeRunner{}
	results := NewInvoker(runner, nil).ContentSearch(context.Background(), "/w", "x", config.SearchConfig{})
	if results != nil {
		t.Fatalf("expected nil results, got %+v", results)
	}
	if !slices.Equal(runner.called(), []string{"rg", "grep"}) {
		t.Fatalf("calls = %v", runner.called())
	}
}

func TestNameSearch_DropsMissingPaths(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "report.pdf"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "reports"), 0o755); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{outputs: map[string]fakeOutput{
		"fd": {out: []byte("report.pdf\n  reports  \nghost.txt\n\n")},
	}}

	results := NewInvoker(runner, nil).NameSearch(context.Background(), dir, "report", config.SearchConfig{})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %+v", results)
	}
	if results[0].Icon != "📝" || results[1].Icon != IconDirectory {
		t.Fatalf("icons = %q, %q", results[0].Icon, results[1].Icon)
	}
	for _, r := range results {
		if r.Score != NameSearchScore || r.Kind != KindFile {
			t.Fatalf("unexpected result %+v", r)
		}
	}
}

func TestNameSearch_FallsBackToFind(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Makefile"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{outputs: map[string]fakeOutput{
		"find": {out: []byte("./Makefile\n")},
	}}
	cfg := config.SearchConfig{ExcludeDirs: []string{"vendor"}}

	results := NewInvoker(runner, nil).NameSearch(context.Background(), dir, "make", cfg)

	if len(results) != 1 || results[0].Path != filepath.Join(dir, "Makefile") {
		t.Fatalf("unexpected results %+v", results)
	}
	want := []string{".", "-maxdepth", "5", "-not", "-path", "*vendor*", "-iname", "*make*"}
	if got := runner.calls[1].args; !slices.Equal(got, want) {
		t.Fatalf("find args = %v, want %v", got, want)
	}
	fdArgs := strings.Join(runner.calls[0].args, " ")
	if !strings.Contains(fdArgs, "--exclude vendor") || !strings.Contains(fdArgs, "--max-results 20") {
		t.Fatalf("fd args = %q", fdArgs)
	}
}

func TestInvoker_NoFallbackAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &fakeRunner{outputs: map[string]fakeOutput{
		"rg": {err: errors.Join(context.Canceled)},
	}}

	results := NewInvoker(runner, nil).ContentSearch(ctx, "/w", "x", config.SearchConfig{})
	if results != nil || len(runner.calls) != 1 {
		t.Fatalf("results=%v calls=%v", results, runner.called())
	}
}
