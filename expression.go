package sitesearch

// Expression represents a composable document filter.
// All Expressions are SearchOptions, but not all SearchOptions are Expressions.
type Expression interface {
	SearchOption
	// expr is a marker method to distinguish expressions from other options.
	expr()
}

// baseExpr provides the expr marker method for all expression types.
type baseExpr struct{}

func (baseExpr) expr() {}

// AndExpr matches when every inner expression matches.
type AndExpr struct {
	baseExpr
	Exprs []Expression
}

// Apply implements the SearchOption interface for AndExpr.
func (a AndExpr) Apply(cfg *SearchConfig) {
	cfg.Filters = append(cfg.Filters, a)
}

// And creates an AND expression combining multiple expressions.
func And(exprs ...Expression) Expression {
	return AndExpr{Exprs: exprs}
}

// OrExpr matches when any inner expression matches.
type OrExpr struct {
	baseExpr
	Exprs []Expression
}

// Apply implements the SearchOption interface for OrExpr.
func (o OrExpr) Apply(cfg *SearchConfig) {
	cfg.Filters = append(cfg.Filters, o)
}

// Or creates an OR expression combining multiple expressions.
func Or(exprs ...Expression) Expression {
	return OrExpr{Exprs: exprs}
}

// NotExpr negates an expression.
type NotExpr struct {
	baseExpr
	Inner Expression
}

// Apply implements the SearchOption interface for NotExpr.
func (n NotExpr) Apply(cfg *SearchConfig) {
	cfg.Filters = append(cfg.Filters, n)
}

// Not creates a NOT expression negating the given expression.
func Not(expr Expression) Expression {
	return NotExpr{Inner: expr}
}

// KindExpr matches documents of one kind.
type KindExpr struct {
	baseExpr
	Kind Kind
}

// Apply implements the SearchOption interface for KindExpr.
func (k KindExpr) Apply(cfg *SearchConfig) {
	cfg.Filters = append(cfg.Filters, k)
}

// KindIs restricts results to documents of the given kind.
func KindIs(kind Kind) Expression {
	return KindExpr{Kind: kind}
}

// TagExpr matches documents carrying a tag. Tags compare case-insensitively.
type TagExpr struct {
	baseExpr
	Tag string
}

// Apply implements the SearchOption interface for TagExpr.
func (t TagExpr) Apply(cfg *SearchConfig) {
	cfg.Filters = append(cfg.Filters, t)
}

// HasTag restricts results to documents carrying tag.
func HasTag(tag string) Expression {
	return TagExpr{Tag: tag}
}
