package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/kk-code-lab/filecast/internal/apps"
	"github.com/kk-code-lab/filecast/internal/config"
	fsutil "github.com/kk-code-lab/filecast/internal/fs"
	"github.com/kk-code-lab/filecast/internal/history"
)

// MaxResults is the display budget for one query.
const MaxResults = 20

// SuggestionLimit caps each source in the empty-query view.
const SuggestionLimit = 5

// descriptionThreshold: description matches above this are halved.
const descriptionThreshold = 30

// Mode is the branch a query dispatches to.
type Mode int

const (
	ModeEmpty Mode = iota
	ModeCommand
	ModeContent
	ModeName
	ModeFuzzy
)

// Classify picks the branch for query and returns the text that branch
// operates on (trimmed, prefix removed for the prefixed modes).
func Classify(query string) (Mode, string) {
	if query == "" {
		return ModeEmpty, ""
	}
	switch query[0] {
	case ':':
		return ModeCommand, strings.TrimSpace(query[1:])
	case '@':
		return ModeContent, strings.TrimSpace(query[1:])
	case '/':
		return ModeName, strings.TrimSpace(query[1:])
	}
	return ModeFuzzy, query
}

// IsExternal reports whether query would spawn an external tool.
func IsExternal(query string) bool {
	mode, rest := Classify(query)
	return (mode == ModeContent || mode == ModeName) && rest != ""
}

// Request carries a query and the sources it is evaluated against.
type Request struct {
	Query   string
	Dir     string
	Apps    []apps.DesktopApp
	Recents []history.RecentAccess
	Listing []fsutil.Entry
	Config  config.SearchConfig
}

// Aggregator dispatches a query to the fuzzy ranker or to the external
// tool pipelines.
type Aggregator struct {
	invoker *Invoker
}

// NewAggregator builds an Aggregator around runner (nil uses os/exec).
func NewAggregator(runner Runner, logger *slog.Logger) *Aggregator {
	return &Aggregator{invoker: NewInvoker(runner, logger)}
}

// Search evaluates req.Query against exactly one branch.
func (a *Aggregator) Search(ctx context.Context, req Request) []Result {
	mode, rest := Classify(req.Query)
	switch mode {
	case ModeCommand:
		if rest == "" {
			return nil
		}
		return []Result{CommandResult(rest)}
	case ModeContent:
		return a.invoker.ContentSearch(ctx, req.Dir, rest, req.Config)
	case ModeName:
		return a.invoker.NameSearch(ctx, req.Dir, rest, req.Config)
	case ModeFuzzy:
		return RankFuzzy(req.Query, req.Apps, req.Recents, req.Listing)
	}
	return nil
}

// RankFuzzy scores apps, recents and listing entries against query.
// Equal scores keep the source order apps, recents, listing.
func RankFuzzy(query string, desktopApps []apps.DesktopApp, recents []history.RecentAccess, listing []fsutil.Entry) []Result {
	var results []Result

	for _, app := range desktopApps {
		score := Score(query, app.Name)
		if score == 0 && app.HasDescription() {
			score = Score(query, app.Description)
			if score > descriptionThreshold {
				score /= 2
			}
		}
		if score > 0 {
			results = append(results, ApplicationResult(app, score))
		}
	}

	for _, recent := range recents {
		if score := Score(query, recent.Name()); score > 0 {
			results = append(results, RecentResult(recent, score+RecencyBonus))
		}
	}

	for _, entry := range listing {
		if entry.IsParent() {
			continue
		}
		if score := Score(query, entry.Name); score > 0 {
			results = append(results, FileResult(entry, score))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

// Suggestions lists what the launcher offers before anything is typed: the
// most recent accesses, then the first applications. It is separate from
// Search, which returns nothing for an empty query.
func Suggestions(recents []history.RecentAccess, desktopApps []apps.DesktopApp) []Result {
	var results []Result
	for i, recent := range recents {
		if i == SuggestionLimit {
			break
		}
		results = append(results, RecentResult(recent, 0))
	}
	for i, app := range desktopApps {
		if i == SuggestionLimit {
			break
		}
		results = append(results, ApplicationResult(app, 0))
	}
	return results
}
