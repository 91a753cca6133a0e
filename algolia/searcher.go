package algolia

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"
	"github.com/cockroachdb/errors"
	"github.com/letmevibethatforyou/sitesearch"
)

// DefaultCandidates is how many hits are fetched from Algolia before local
// ranking. It is Algolia's hitsPerPage ceiling and covers the whole site.
const DefaultCandidates = 1000

// searchIndex is the part of *search.Index the Searcher needs.
type searchIndex interface {
	Search(query string, opts ...interface{}) (search.QueryRes, error)
}

// Searcher implements the sitesearch.Searcher interface on top of an Algolia
// index. Algolia applies only the filters; text matching and scoring happen
// in sitesearch.Rank so results match the in-memory searcher for the same
// weights. Algolia's own matching requires every word and matches prefixes
// only, which would drop candidates Rank accepts.
type Searcher struct {
	openIndex  func() (searchIndex, error)
	candidates int
}

// NewSearcher creates a new Algolia searcher for the specified index.
func NewSearcher(client *Client, indexName string) *Searcher {
	return &Searcher{
		openIndex: func() (searchIndex, error) {
			return client.initIndex(indexName)
		},
		candidates: DefaultCandidates,
	}
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

	// An empty query matches nothing, even though Algolia would return
	// the whole index for it.
	if strings.TrimSpace(query) == "" {
		return &sitesearch.Results{Items: []sitesearch.ScoredDocument{}, Query: query}, nil
	}

	index, err := s.openIndex()
	if err != nil {
		return nil, errors.WithSecondaryError(
			sitesearch.ErrBackendUnavailable,
			errors.Wrapf(err, "failed to get Algolia client"),
		)
	}

	res, err := index.Search("", buildSearchParams(cfg, s.candidates)...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, sitesearch.ErrTimeout
		}
		if errors.Is(err, context.Canceled) {
			return nil, sitesearch.ErrCanceled
		}
		return nil, errors.WithSecondaryError(
			sitesearch.ErrBackendUnavailable,
			errors.Wrapf(err, "Algolia search failed"),
		)
	}

	docs := make([]sitesearch.Document, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if doc, ok := hitDocument(hit); ok {
			docs = append(docs, doc)
		}
	}

	matches := sitesearch.Rank(query, docs, *cfg.Weights, len(docs))
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
	return results, nil
}

// buildSearchParams converts a SearchConfig to Algolia search parameters.
// Weights are not sent; they apply during local ranking.
func buildSearchParams(cfg *sitesearch.SearchConfig, candidates int) []interface{} {
	if candidates < cfg.Limit {
		candidates = cfg.Limit
	}
	params := []interface{}{opt.HitsPerPage(candidates)}

	if len(cfg.Filters) > 0 {
		filterStrings := make([]string, 0, len(cfg.Filters))
		for _, expr := range cfg.Filters {
			if filterStr := convertExpressionToFilter(expr); filterStr != "" {
				filterStrings = append(filterStrings, filterStr)
			}
		}
		if len(filterStrings) > 0 {
			params = append(params, opt.Filters(strings.Join(filterStrings, " AND ")))
		}
	}

	return params
}

// hitDocument rebuilds a document from a hit produced by DocumentObject.
func hitDocument(hit map[string]interface{}) (sitesearch.Document, bool) {
	id, _ := hit["objectID"].(string)
	if id == "" {
		return sitesearch.Document{}, false
	}

	doc := sitesearch.Document{ID: id}
	doc.Kind = sitesearch.Kind(stringField(hit, "kind"))
	doc.Title = stringField(hit, "title")
	doc.Description = stringField(hit, "description")
	doc.URL = stringField(hit, "url")

	if raw, ok := hit["tags"].([]interface{}); ok {
		doc.Tags = make([]string, 0, len(raw))
		for _, t := range raw {
			if tag, ok := t.(string); ok {
				doc.Tags = append(doc.Tags, tag)
			}
		}
	}
	return doc, true
}

func stringField(hit map[string]interface{}, key string) string {
	v, _ := hit[key].(string)
	return v
}

// convertExpressionToFilter converts a sitesearch expression to an Algolia
// filter string. Unknown expressions convert to "" and are dropped.
func convertExpressionToFilter(expr sitesearch.Expression) string {
	switch e := expr.(type) {
	case sitesearch.AndExpr:
		return joinFilters(e.Exprs, " AND ")
	case sitesearch.OrExpr:
		return joinFilters(e.Exprs, " OR ")
	case sitesearch.NotExpr:
		inner := convertExpressionToFilter(e.Inner)
		if inner == "" {
			return ""
		}
		return "NOT (" + inner + ")"
	case sitesearch.KindExpr:
		return fmt.Sprintf("kind:%s", escapeValue(string(e.Kind)))
	case sitesearch.TagExpr:
		return fmt.Sprintf("_tags:%s", escapeValue(strings.ToLower(e.Tag)))
	default:
		return ""
	}
}

func joinFilters(exprs []sitesearch.Expression, sep string) string {
	filters := make([]string, 0, len(exprs))
	for _, e := range exprs {
		if filter := convertExpressionToFilter(e); filter != "" {
			filters = append(filters, "("+filter+")")
		}
	}
	return strings.Join(filters, sep)
}

// escapeValue quotes a filter value and escapes internal quotes.
func escapeValue(value string) string {
	escaped := strings.ReplaceAll(value, `"`, `\"`)
	return `"` + escaped + `"`
}
