package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kk-code-lab/filecast/internal/apps"
	"github.com/kk-code-lab/filecast/internal/config"
	fsutil "github.com/kk-code-lab/filecast/internal/fs"
	"github.com/kk-code-lab/filecast/internal/search"
)

// QueryOptions configures a one-shot search.
type QueryOptions struct {
	Dir      string
	Settings config.Settings
	Search   config.SearchConfig
	History  ActivityLog
	AppDirs  []string
	Runner   search.Runner
	Logger   *slog.Logger
}

// RunQuery evaluates query the way the launcher does and writes one
// tab-separated line per result: score, kind, name, description.
func RunQuery(ctx context.Context, w io.Writer, query string, opts QueryOptions) error {
	listing, err := fsutil.ReadDirectory(opts.Dir, opts.Settings.ShowHidden)
	if err != nil {
		return err
	}

	req := search.Request{
		Query:   query,
		Dir:     opts.Dir,
		Listing: listing,
		Config:  opts.Search,
	}
	if mode, _ := search.Classify(query); mode == search.ModeFuzzy {
		dirs := opts.AppDirs
		if dirs == nil {
			dirs = apps.DefaultDirs()
		}
		req.Apps = apps.Discover(dirs)
		if opts.History != nil {
			limit := opts.Settings.RecentLimit
			if limit <= 0 {
				limit = config.DefaultRecentLimit
			}
			recents, err := opts.History.Recent(limit)
			if err != nil {
				return fmt.Errorf("load recents: %w", err)
			}
			req.Recents = recents
		}
	}

	results := search.NewAggregator(opts.Runner, opts.Logger).Search(ctx, req)
	for _, res := range results {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", res.Score, res.Kind, res.Name, res.Description); err != nil {
			return err
		}
	}
	return nil
}
