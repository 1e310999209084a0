package search

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kk-code-lab/filecast/internal/config"
	"github.com/kk-code-lab/filecast/internal/logging"
)

// Bounds for external tool output.
const (
	ToolMatchLimit    = 20
	ExternalMaxResult = 15
	findMaxDepth      = 5
	maxLineBytes      = 1024 * 1024
)

// Runner spawns an external program in dir and returns its stdout.
// A non-nil error of type *exec.ExitError means the program ran and exited
// nonzero; stdout is still returned in that case.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()
	return stdout.Bytes(), err
}

// GrepMatch is one parsed path:line:content record.
type GrepMatch struct {
	Path    string
	Line    uint32
	Content string
}

// ParseGrepLine splits a grep-style output line on its first two colons.
// Lines without both separators, with an empty path or with a line number
// that is not an unsigned integer are rejected.
func ParseGrepLine(line string) (GrepMatch, bool) {
	path, rest, ok := strings.Cut(line, ":")
	if !ok || path == "" {
		return GrepMatch{}, false
	}
	num, content, ok := strings.Cut(rest, ":")
	if !ok {
		return GrepMatch{}, false
	}
	n, err := strconv.ParseUint(num, 10, 32)
	if err != nil {
		return GrepMatch{}, false
	}
	return GrepMatch{Path: path, Line: uint32(n), Content: content}, true
}

// Invoker drives the content-search (rg, then grep) and name-search
// (fd, then find) pipelines. Tool failures are logged, never returned.
type Invoker struct {
	runner Runner
	logger *slog.Logger
}

// NewInvoker returns an Invoker. A nil runner uses ExecRunner.
func NewInvoker(runner Runner, logger *slog.Logger) *Invoker {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Invoker{runner: runner, logger: logging.OrDiscard(logger)}
}

// ContentSearch looks for pattern inside files under dir.
func (iv *Invoker) ContentSearch(ctx context.Context, dir, pattern string, cfg config.SearchConfig) []Result {
	if pattern == "" {
		return nil
	}
	limit := strconv.Itoa(ToolMatchLimit)

	rgArgs := []string{"-n", "-i", "--no-heading", "--color", "never", "--max-count", limit}
	rgArgs = append(rgArgs, cfg.RipgrepExcludeArgs()...)
	rgArgs = append(rgArgs, "--", pattern, ".")

	grepArgs := []string{"-r", "-n", "-i", "-I", "-m", limit}
	grepArgs = append(grepArgs, cfg.GrepExcludeArgs()...)
	grepArgs = append(grepArgs, "--", pattern, ".")

	out, ok := iv.runWithFallback(ctx, dir, tool{"rg", rgArgs}, tool{"grep", grepArgs})
	if !ok {
		return nil
	}

	var results []Result
	scanLines(out, func(line string) bool {
		m, ok := ParseGrepLine(line)
		if !ok {
			return true
		}
		results = append(results, GrepResult(resolve(dir, m.Path), m.Line, m.Content))
		return len(results) < ExternalMaxResult
	})
	return results
}

// NameSearch looks for files or directories whose name matches pattern.
func (iv *Invoker) NameSearch(ctx context.Context, dir, pattern string, cfg config.SearchConfig) []Result {
	if pattern == "" {
		return nil
	}

	fdArgs := []string{"-i", "--color", "never", "--max-results", strconv.Itoa(ToolMatchLimit)}
	fdArgs = append(fdArgs, cfg.FdExcludeArgs()...)
	fdArgs = append(fdArgs, "--", pattern)

	findArgs := []string{".", "-maxdepth", strconv.Itoa(findMaxDepth)}
	findArgs = append(findArgs, cfg.FindExcludeArgs()...)
	findArgs = append(findArgs, "-iname", "*"+pattern+"*")

	out, ok := iv.runWithFallback(ctx, dir, tool{"fd", fdArgs}, tool{"find", findArgs})
	if !ok {
		return nil
	}

	var results []Result
	scanLines(out, func(line string) bool {
		line = strings.TrimSpace(line)
		if line == "" {
			return true
		}
		path := resolve(dir, line)
		info, err := os.Stat(path)
		if err != nil {
			return true
		}
		results = append(results, FoundPathResult(path, info.IsDir()))
		return len(results) < ExternalMaxResult
	})
	return results
}

type tool struct {
	name string
	args []string
}

// runWithFallback runs primary and switches to fallback only when primary
// could not be started. A nonzero exit keeps the primary's output.
func (iv *Invoker) runWithFallback(ctx context.Context, dir string, primary, fallback tool) ([]byte, bool) {
	out, err := iv.runner.Run(ctx, dir, primary.name, primary.args...)
	if err == nil || isExitError(err) {
		return out, true
	}
	if ctx.Err() != nil {
		return nil, false
	}
	iv.logger.Debug("search tool unavailable, falling back",
		"tool", primary.name,
		"fallback", fallback.name,
		"err", err)

	out, err = iv.runner.Run(ctx, dir, fallback.name, fallback.args...)
	if err == nil || isExitError(err) {
		return out, true
	}
	iv.logger.Warn("search tool failed", "tool", fallback.name, "err", err)
	return nil, false
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

// scanLines calls fn for each line of out until fn returns false. Lines
// longer than maxLineBytes are skipped whole; scanning resumes after them.
func scanLines(out []byte, fn func(line string) bool) {
	for len(out) > 0 {
		line, rest, _ := bytes.Cut(out, []byte{'\n'})
		out = rest
		if len(line) > maxLineBytes {
			continue
		}
		if !fn(string(bytes.TrimSuffix(line, []byte{'\r'}))) {
			return
		}
	}
}
