package sitesearch

import "strings"

// SearchOption represents a search configuration option.
type SearchOption interface {
	Apply(*SearchConfig)
}

// SearchConfig holds all search configuration parameters.
type SearchConfig struct {
	// Limit caps the number of returned items. Zero means MaxResults.
	Limit int

	// Weights overrides the ranking weights. Nil means DefaultWeights.
	Weights *Weights

	// Filters restrict the documents considered before ranking.
	Filters []Expression
}

// NewSearchConfig applies opts over the defaults.
func NewSearchConfig(opts ...SearchOption) *SearchConfig {
	cfg := &SearchConfig{}
	for _, opt := range opts {
		opt.Apply(cfg)
	}
	if cfg.Limit == 0 {
		cfg.Limit = MaxResults
	}
	if cfg.Weights == nil {
		w := DefaultWeights()
		cfg.Weights = &w
	}
	return cfg
}

// Validate rejects configurations no searcher can honour.
func (c *SearchConfig) Validate() error {
	if c.Limit < 0 {
		return ErrInvalidOption
	}
	if c.Weights != nil && !c.Weights.Valid() {
		return ErrInvalidOption
	}
	for _, f := range c.Filters {
		if err := validateExpression(f); err != nil {
			return err
		}
	}
	return nil
}

// validateExpression rejects filters that cannot match consistently on every
// backend: nil expressions, empty ORs, unknown kinds and blank tags.
func validateExpression(expr Expression) error {
	switch e := expr.(type) {
	case nil:
		return ErrInvalidExpression
	case AndExpr:
		for _, inner := range e.Exprs {
			if err := validateExpression(inner); err != nil {
				return err
			}
		}
	case OrExpr:
		if len(e.Exprs) == 0 {
			return ErrInvalidExpression
		}
		for _, inner := range e.Exprs {
			if err := validateExpression(inner); err != nil {
				return err
			}
		}
	case NotExpr:
		return validateExpression(e.Inner)
	case KindExpr:
		if !e.Kind.Valid() {
			return ErrInvalidExpression
		}
	case TagExpr:
		if strings.TrimSpace(e.Tag) == "" {
			return ErrInvalidExpression
		}
	}
	return nil
}

// optionFunc is a function that implements SearchOption.
type optionFunc func(*SearchConfig)

// Apply implements the SearchOption interface for optionFunc.
func (f optionFunc) Apply(cfg *SearchConfig) {
	f(cfg)
}

// WithLimit sets the maximum number of results to return.
func WithLimit(n int) SearchOption {
	return optionFunc(func(cfg *SearchConfig) {
		cfg.Limit = n
	})
}

// WithWeights replaces the ranking weights for one search.
func WithWeights(w Weights) SearchOption {
	return optionFunc(func(cfg *SearchConfig) {
		cfg.Weights = &w
	})
}
