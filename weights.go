package sitesearch

// MaxResults is the default number of ranked documents returned.
const MaxResults = 8

// Weights are the per-signal score contributions used by Rank.
// The defaults match the ordering of the site's existing search box.
type Weights struct {
	ExactTitle          int `json:"exact_title" koanf:"exact_title"`
	TitleContains       int `json:"title_contains" koanf:"title_contains"`
	TitleWord           int `json:"title_word" koanf:"title_word"`
	TitlePrefix         int `json:"title_prefix" koanf:"title_prefix"`
	DescriptionContains int `json:"description_contains" koanf:"description_contains"`
	DescriptionWord     int `json:"description_word" koanf:"description_word"`
	TagsContains        int `json:"tags_contains" koanf:"tags_contains"`
	TagsWord            int `json:"tags_word" koanf:"tags_word"`
}

// DefaultWeights returns the stock weights.
func DefaultWeights() Weights {
	return Weights{
		ExactTitle:          100,
		TitleContains:       80,
		TitleWord:           50,
		TitlePrefix:         30,
		DescriptionContains: 40,
		DescriptionWord:     20,
		TagsContains:        60,
		TagsWord:            30,
	}
}

// Valid reports whether every weight is non-negative, which keeps scores
// monotone: no signal may lower a score.
func (w Weights) Valid() bool {
	for _, v := range []int{
		w.ExactTitle, w.TitleContains, w.TitleWord, w.TitlePrefix,
		w.DescriptionContains, w.DescriptionWord, w.TagsContains, w.TagsWord,
	} {
		if v < 0 {
			return false
		}
	}
	return true
}
