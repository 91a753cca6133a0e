package sitesearch

import (
	"fmt"
	"reflect"
	"testing"
)

func doc(id, title, description string, tags ...string) Document {
	return Document{
		ID:          id,
		Kind:        KindPage,
		Title:       title,
		Description: description,
		Tags:        tags,
		URL:         "/" + id,
	}
}

func ids(items []ScoredDocument) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestRank_EmptyQuery(t *testing.T) {
	docs := []Document{
		doc("home", "Home", "Landing page", "home"),
		doc("about", "About", "Background", "about"),
	}

	tests := map[string]string{
		"empty":  "",
		"spaces": "   ",
		"tabs":   "\t\t",
		"mixed":  " \n\t ",
	}

	for name, query := range tests {
		t.Run(name, func(t *testing.T) {
			got := Rank(query, docs, DefaultWeights(), 0)
			if got == nil {
				t.Fatal("Expected empty slice, got nil")
			}
			if len(got) != 0 {
				t.Errorf("Expected no results for %q, got %v", query, ids(got))
			}
		})
	}
}

func TestScore(t *testing.T) {
	w := DefaultWeights()
	d := doc("projects", "Projects", "View my software engineering projects", "projects", "work", "code")

	tests := map[string]struct {
		query    string
		expected int
	}{
		"exact_title": {
			// exact 100 + word 50 + prefix 30 + description 40 + word 20 + tags 60 + word 30
			query:    "projects",
			expected: 330,
		},
		"exact_title_case_and_space": {
			query:    "  PROJECTS ",
			expected: 330,
		},
		"title_prefix": {
			// contains 80 + word 50 + prefix 30 + description 40 + word 20 + tags 60 + word 30
			query:    "proj",
			expected: 310,
		},
		"tag_only": {
			query:    "work",
			expected: 90,
		},
		"description_only": {
			query:    "engineering",
			expected: 60,
		},
		"two_words_split_fields": {
			// title word 50 + prefix 30, both words in description 20 + 20, "projects" tag 30
			query:    "projects software",
			expected: 50 + 30 + 20 + 20 + 30,
		},
		"no_match": {
			query:    "kubernetes",
			expected: 0,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := Score(d, tc.query, w)
			if got != tc.expected {
				t.Errorf("Expected score %d, got %d for query %q", tc.expected, got, tc.query)
			}
		})
	}
}

func TestRank_ScenarioTitlePrefix(t *testing.T) {
	docs := []Document{
		doc("projects", "Projects", "portfolio", "code"),
		doc("contact", "Contact", "reach out", "email"),
	}

	got := Rank("proj", docs, DefaultWeights(), 0)
	if len(got) != 1 {
		t.Fatalf("Expected 1 result, got %d (%v)", len(got), ids(got))
	}
	if got[0].ID != "projects" {
		t.Errorf("Expected projects, got %s", got[0].ID)
	}
	if got[0].Score <= 0 {
		t.Errorf("Expected positive score, got %d", got[0].Score)
	}
}

func TestRank_ScenarioTagOnly(t *testing.T) {
	docs := []Document{
		doc("some-project", "Some Project", "A thing I built", "react", "nextjs"),
	}

	got := Rank("React", docs, DefaultWeights(), 0)
	if len(got) != 1 {
		t.Fatalf("Expected tag match to be returned, got %v", ids(got))
	}
	// full query in tags 60 + word in tags 30
	if got[0].Score != 90 {
		t.Errorf("Expected score 90, got %d", got[0].Score)
	}
}

func TestRank_StableTies(t *testing.T) {
	docs := []Document{
		doc("b", "Go service", "x", "alpha"),
		doc("a", "Go tooling", "y", "beta"),
		doc("c", "Go library", "z", "gamma"),
	}

	got := Rank("go", docs, DefaultWeights(), 0)
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Expected input order %v for ties, got %v", want, ids(got))
	}
}

func TestRank_ExactTitleBeatsTagAndDescription(t *testing.T) {
	docs := []Document{
		doc("tagged", "Something else", "about deployment", "contact"),
		doc("described", "Another page", "contact me here", "misc"),
		doc("contact", "Contact", "Get in touch", "email"),
	}

	got := Rank("contact", docs, DefaultWeights(), 0)
	if len(got) != 3 {
		t.Fatalf("Expected 3 results, got %v", ids(got))
	}
	if got[0].ID != "contact" {
		t.Errorf("Expected exact title match first, got %v", ids(got))
	}
}

func TestRank_OrderingAndBounds(t *testing.T) {
	var docs []Document
	for i := 0; i < 20; i++ {
		tags := []string{"go"}
		if i%3 == 0 {
			tags = append(tags, "golang")
		}
		docs = append(docs, doc(fmt.Sprintf("d%02d", i), fmt.Sprintf("Doc %d", i), "go things", tags...))
	}

	queries := []string{"go", "golang", "doc", "doc 1", "things go", "zzz", "o"}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			got := Rank(q, docs, DefaultWeights(), 0)
			if len(got) > MaxResults {
				t.Fatalf("Expected at most %d results, got %d", MaxResults, len(got))
			}

			position := make(map[string]int, len(docs))
			for i, d := range docs {
				position[d.ID] = i
			}

			for i, item := range got {
				if item.Score <= 0 {
					t.Errorf("Expected positive score at %d, got %d", i, item.Score)
				}
				if i == 0 {
					continue
				}
				prev := got[i-1]
				if prev.Score < item.Score {
					t.Errorf("Expected descending scores, %s(%d) before %s(%d)", prev.ID, prev.Score, item.ID, item.Score)
				}
				if prev.Score == item.Score && position[prev.ID] > position[item.ID] {
					t.Errorf("Expected stable tie order, %s before %s", prev.ID, item.ID)
				}
			}
		})
	}
}

func TestRank_Idempotent(t *testing.T) {
	docs := []Document{
		doc("a", "React & Next.js", "Frontend framework expertise", "react", "nextjs", "frontend"),
		doc("b", "Backend Development", "Node.js, Python, Go, APIs", "backend", "go"),
		doc("c", "Cloud & DevOps", "AWS, Docker, Kubernetes", "cloud", "aws"),
	}

	first := Rank("go backend", docs, DefaultWeights(), 0)
	second := Rank("go backend", docs, DefaultWeights(), 0)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical output, got %v and %v", first, second)
	}
}

func TestRank_Limit(t *testing.T) {
	docs := []Document{
		doc("a", "Go one", "x"),
		doc("b", "Go two", "x"),
		doc("c", "Go three", "x"),
	}

	got := Rank("go", docs, DefaultWeights(), 2)
	if !reflect.DeepEqual(ids(got), []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v", ids(got))
	}
}

func TestRank_CustomWeights(t *testing.T) {
	docs := []Document{
		doc("title", "Kafka", "x"),
		doc("tag", "Pipeline", "x", "kafka"),
	}

	w := DefaultWeights()
	w.TagsContains = 500

	got := Rank("kafka", docs, w, 0)
	if len(got) != 2 || got[0].ID != "tag" {
		t.Errorf("Expected heavier tag weight to win, got %v", ids(got))
	}
}

func TestRank_EmptyDocuments(t *testing.T) {
	got := Rank("anything", nil, DefaultWeights(), 0)
	if len(got) != 0 {
		t.Errorf("Expected no results, got %v", ids(got))
	}
}

func TestWeights_Valid(t *testing.T) {
	if !DefaultWeights().Valid() {
		t.Error("Expected default weights to be valid")
	}
	w := DefaultWeights()
	w.DescriptionWord = -1
	if w.Valid() {
		t.Error("Expected negative weight to be invalid")
	}
}

func TestNewSearchConfig_Defaults(t *testing.T) {
	cfg := NewSearchConfig(KindIs(KindProject))
	if cfg.Limit != MaxResults {
		t.Errorf("Expected limit %d, got %d", MaxResults, cfg.Limit)
	}
	if cfg.Weights == nil || *cfg.Weights != DefaultWeights() {
		t.Errorf("Expected default weights, got %+v", cfg.Weights)
	}
	if len(cfg.Filters) != 1 {
		t.Errorf("Expected 1 filter, got %d", len(cfg.Filters))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}

	bad := NewSearchConfig(WithLimit(-1))
	if err := bad.Validate(); err == nil {
		t.Error("Expected negative limit to be rejected")
	}
}

func TestSearchConfig_ValidateFilters(t *testing.T) {
	tests := map[string]struct {
		filter   Expression
		expected error
	}{
		"kind":          {filter: KindIs(KindPost)},
		"nested":        {filter: And(Or(KindIs(KindPost), KindIs(KindPage)), Not(HasTag("draft")))},
		"empty and":     {filter: And()},
		"unknown kind":  {filter: KindIs("video"), expected: ErrInvalidExpression},
		"blank tag":     {filter: HasTag("  "), expected: ErrInvalidExpression},
		"empty or":      {filter: Or(), expected: ErrInvalidExpression},
		"nil not":       {filter: Not(nil), expected: ErrInvalidExpression},
		"nested nil":    {filter: And(KindIs(KindPost), nil), expected: ErrInvalidExpression},
		"deep bad kind": {filter: Not(Or(HasTag("go"), KindIs("Post"))), expected: ErrInvalidExpression},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := NewSearchConfig(tc.filter).Validate()
			if err != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, err)
			}
		})
	}
}
