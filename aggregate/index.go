package aggregate

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/letmevibethatforyou/sitesearch/flags"
	"github.com/letmevibethatforyou/sitesearch/inmemory"
)

// Index keeps an in-memory searcher loaded with the documents for the
// current flag snapshot. Searches never wait on a rebuild: the searcher
// serves the previous snapshot until Replace swaps in the next one.
// Rebuilds run one at a time, so the served documents and Flags always
// come from the same snapshot.
type Index struct {
	agg      *Aggregator
	loader   *flags.Loader
	searcher *inmemory.Searcher
	logger   *slog.Logger

	mu    sync.Mutex
	built atomic.Pointer[flags.Flags]
}

// NewIndex returns an Index. Call Rebuild before serving searches.
func NewIndex(agg *Aggregator, loader *flags.Loader, searcher *inmemory.Searcher, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{agg: agg, loader: loader, searcher: searcher, logger: logger}
}

// Searcher returns the searcher kept up to date by the index.
func (i *Index) Searcher() *inmemory.Searcher { return i.searcher }

// Flags returns the flag snapshot the index was last built with, or the
// loader's current snapshot before the first build.
func (i *Index) Flags() flags.Flags {
	if f := i.built.Load(); f != nil {
		return *f
	}
	return i.loader.Current()
}

// Rebuild aggregates documents for the current flags and swaps them in.
// It returns the number of documents loaded.
func (i *Index) Rebuild(ctx context.Context) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.rebuild(ctx)
}

func (i *Index) rebuild(ctx context.Context) int {
	f := i.loader.Current()
	docs := i.agg.Documents(ctx, f)
	i.searcher.Replace(docs)
	i.built.Store(&f)
	i.logger.InfoContext(ctx, "search index rebuilt",
		"documents", len(docs),
		"blog_enabled", f.BlogEnabled,
	)
	return len(docs)
}

// Refresh fetches new flags and rebuilds. A failed fetch still rebuilds from
// the previous snapshot so catalog changes are picked up.
func (i *Index) Refresh(ctx context.Context) (flags.Flags, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	f, err := i.loader.Refresh(ctx)
	i.rebuild(ctx)
	return f, err
}

// Run refreshes every interval until ctx is done. A non-positive interval
// returns immediately.
func (i *Index) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Refresh already logs fetch failures.
			_, _ = i.Refresh(ctx)
		}
	}
}
