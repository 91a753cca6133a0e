package sitesearch

// Results is the outcome of one query evaluation.
type Results struct {
	// Items are ordered by descending score, ties in document order.
	Items []ScoredDocument `json:"items"`

	// Total is the number of documents that matched before truncation.
	Total int `json:"total"`

	// Took is the time taken to execute the search in milliseconds.
	Took int64 `json:"took_ms"`

	// MaxScore is the highest score among Items.
	MaxScore int `json:"max_score"`

	// Query is the query string as submitted.
	Query string `json:"query"`
}

// Empty reports whether the search produced no items.
func (r *Results) Empty() bool {
	return r == nil || len(r.Items) == 0
}
