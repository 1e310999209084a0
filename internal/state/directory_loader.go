package state

import (
	"context"
	"sync"

	fsutil "github.com/kk-code-lab/filecast/internal/fs"
)

// DirectoryLoader reads directories off the update loop. Only the latest
// request matters: Load supersedes whatever is still in flight.
type DirectoryLoader interface {
	Load(req DirectoryLoadRequest)
	Cancel()
}

// DirectoryLoadRequest describes a directory read to perform.
type DirectoryLoadRequest struct {
	Token      int
	Path       string
	ShowHidden bool
	Deliver    func(DirectoryLoadResult)
}

// DirectoryLoadResult is emitted once the read completes.
type DirectoryLoadResult struct {
	Token   int
	Path    string
	Entries []FileEntry
	Err     error
}

// NewAsyncDirectoryLoader returns the goroutine-backed loader.
func NewAsyncDirectoryLoader() DirectoryLoader {
	return &asyncDirectoryLoader{}
}

type asyncDirectoryLoader struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func (l *asyncDirectoryLoader) Load(req DirectoryLoadRequest) {
	if req.Path == "" || req.Deliver == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.cancel = cancel
	l.mu.Unlock()

	go func() {
		defer cancel()
		entries, err := fsutil.ReadDirectory(req.Path, req.ShowHidden)
		if ctx.Err() != nil {
			return
		}
		req.Deliver(DirectoryLoadResult{
			Token:   req.Token,
			Path:    req.Path,
			Entries: entries,
			Err:     err,
		})
	}()
}

func (l *asyncDirectoryLoader) Cancel() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()
}
