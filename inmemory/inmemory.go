package inmemory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/letmevibethatforyou/sitesearch"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Searcher implements the sitesearch.Searcher interface over an in-memory
// document snapshot. Replace swaps the snapshot atomically, so a search always
// runs against the last fully loaded document list and never waits on a
// reload in progress.
type Searcher struct {
	mu        sync.RWMutex
	documents []sitesearch.Document
	loadedAt  time.Time
	tracer    trace.Tracer
}

// New creates a new in-memory searcher holding docs.
// The searcher is safe for concurrent use.
func New(docs ...sitesearch.Document) *Searcher {
	s := &Searcher{
		tracer: otel.Tracer("sitesearch-inmemory"),
	}
	s.Replace(docs)
	return s
}

// Replace installs a new document snapshot. The slice is copied; later
// changes by the caller do not affect the searcher.
func (s *Searcher) Replace(docs []sitesearch.Document) {
	snapshot := slices.Clone(docs)
	if snapshot == nil {
		snapshot = []sitesearch.Document{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = snapshot
	s.loadedAt = time.Now()
}

// Documents returns a copy of the current snapshot in insertion order.
func (s *Searcher) Documents() []sitesearch.Document {
	return slices.Clone(s.snapshot())
}

// Size returns the number of documents in the current snapshot.
func (s *Searcher) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

// LoadedAt returns when the current snapshot was installed.
func (s *Searcher) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Clear removes all documents.
func (s *Searcher) Clear() {
	s.Replace(nil)
}

func (s *Searcher) snapshot() []sitesearch.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documents
}

// Search implements the sitesearch.Searcher interface.
func (s *Searcher) Search(ctx context.Context, query string, opts ...sitesearch.SearchOption) (*sitesearch.Results, error) {
	startTime := time.Now()

	select {
	case <-ctx.Done():
		return nil, sitesearch.ErrCanceled
	default:
	}

	cfg := sitesearch.NewSearchConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid search config")
	}

	_, span := s.tracer.Start(ctx, "inmemory.search",
		trace.WithAttributes(
			attribute.Int("sitesearch.query_length", len(query)),
			attribute.Int("sitesearch.filter_count", len(cfg.Filters)),
		),
	)
	defer span.End()

	// The snapshot is never mutated in place, so it can be read without the lock.
	docs := s.snapshot()

	candidates := docs
	if len(cfg.Filters) > 0 {
		candidates = make([]sitesearch.Document, 0, len(docs))
		for _, doc := range docs {
			if matchesFilters(doc, cfg.Filters) {
				candidates = append(candidates, doc)
			}
		}
	}

	// Rank everything first so Total reflects all matches, then truncate.
	matches := sitesearch.Rank(query, candidates, *cfg.Weights, len(candidates))
	total := len(matches)
	if len(matches) > cfg.Limit {
		matches = matches[:cfg.Limit]
	}

	results := &sitesearch.Results{
		Items: matches,
		Total: total,
		Query: query,
		Took:  time.Since(startTime).Milliseconds(),
	}
	for _, m := range matches {
		if m.Score > results.MaxScore {
			results.MaxScore = m.Score
		}
	}

	span.SetAttributes(attribute.Int("sitesearch.result_count", len(matches)))
	return results, nil
}
