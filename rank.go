package sitesearch

import (
	"slices"
	"strings"
)

// Rank scores docs against query and returns the best matches, highest
// score first. Documents with equal scores keep their relative order from
// docs. Documents scoring zero are dropped and at most limit entries are
// returned; a non-positive limit means MaxResults.
//
// Rank is pure: it never fails and keeps no state between calls.
func Rank(query string, docs []Document, w Weights, limit int) []ScoredDocument {
	q := normalizeQuery(query)
	if q == "" {
		return []ScoredDocument{}
	}
	if limit <= 0 {
		limit = MaxResults
	}
	words := strings.Fields(q)

	scored := make([]ScoredDocument, 0, len(docs))
	for _, doc := range docs {
		if s := score(doc, q, words, w); s > 0 {
			scored = append(scored, ScoredDocument{Document: doc, Score: s})
		}
	}

	slices.SortStableFunc(scored, func(a, b ScoredDocument) int {
		return b.Score - a.Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// Score returns the score of a single document for query.
func Score(doc Document, query string, w Weights) int {
	q := normalizeQuery(query)
	if q == "" {
		return 0
	}
	return score(doc, q, strings.Fields(q), w)
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// score expects q already normalised and words split from it.
func score(doc Document, q string, words []string, w Weights) int {
	title := strings.ToLower(doc.Title)
	description := strings.ToLower(doc.Description)
	tags := strings.ToLower(strings.Join(doc.Tags, " "))

	total := 0

	if title == q {
		total += w.ExactTitle
	} else if strings.Contains(title, q) {
		total += w.TitleContains
	}
	for _, word := range words {
		if strings.Contains(title, word) {
			total += w.TitleWord
		}
		if strings.HasPrefix(title, word) {
			total += w.TitlePrefix
		}
	}

	if strings.Contains(description, q) {
		total += w.DescriptionContains
	}
	for _, word := range words {
		if strings.Contains(description, word) {
			total += w.DescriptionWord
		}
	}

	if strings.Contains(tags, q) {
		total += w.TagsContains
	}
	for _, word := range words {
		if strings.Contains(tags, word) {
			total += w.TagsWord
		}
	}

	return total
}
