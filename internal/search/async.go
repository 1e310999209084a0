package search

import (
	"context"
	"sync"
)

// AsyncSearcher runs Aggregator queries off the update loop. Starting a
// new query cancels the previous one; results of a superseded query are
// never delivered.
type AsyncSearcher struct {
	agg *Aggregator

	mu     sync.Mutex
	cancel context.CancelFunc
	token  int
}

func NewAsyncSearcher(agg *Aggregator) *AsyncSearcher {
	return &AsyncSearcher{agg: agg}
}

// Start launches req and returns its search id. callback runs on the
// search goroutine with the same id once results are ready.
func (as *AsyncSearcher) Start(req Request, callback func(id int, results []Result)) int {
	ctx, cancel := context.WithCancel(context.Background())
	id := as.setCancel(cancel)

	go func() {
		defer as.clearCancel(id)
		defer cancel()

		results := as.agg.Search(ctx, req)
		if ctx.Err() != nil || !as.IsCurrent(id) {
			return
		}
		callback(id, results)
	}()
	return id
}

// Cancel stops the in-flight query, if any.
func (as *AsyncSearcher) Cancel() {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.cancel != nil {
		as.cancel()
		as.cancel = nil
	}
	as.token++
}

// IsCurrent reports whether id belongs to the latest query.
func (as *AsyncSearcher) IsCurrent(id int) bool {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.token == id
}

func (as *AsyncSearcher) setCancel(cancel context.CancelFunc) int {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.cancel != nil {
		as.cancel()
	}
	as.token++
	as.cancel = cancel
	return as.token
}

func (as *AsyncSearcher) clearCancel(id int) {
	as.mu.Lock()
	if as.token == id {
		as.cancel = nil
	}
	as.mu.Unlock()
}
