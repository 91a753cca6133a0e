package inmemory

import (
	"strings"

	"github.com/letmevibethatforyou/sitesearch"
)

// matchesFilters checks if a document matches all the filter expressions.
func matchesFilters(doc sitesearch.Document, filters []sitesearch.Expression) bool {
	for _, filter := range filters {
		if !evaluateExpression(doc, filter) {
			return false
		}
	}
	return true
}

// evaluateExpression evaluates a single expression against a document.
func evaluateExpression(doc sitesearch.Document, expr sitesearch.Expression) bool {
	switch e := expr.(type) {
	case sitesearch.AndExpr:
		for _, inner := range e.Exprs {
			if !evaluateExpression(doc, inner) {
				return false
			}
		}
		return true
	case sitesearch.OrExpr:
		for _, inner := range e.Exprs {
			if evaluateExpression(doc, inner) {
				return true
			}
		}
		return false
	case sitesearch.NotExpr:
		return !evaluateExpression(doc, e.Inner)
	case sitesearch.KindExpr:
		return doc.Kind == e.Kind
	case sitesearch.TagExpr:
		return hasTag(doc, e.Tag)
	default:
		// Unknown expression type, return true to not filter out
		return true
	}
}

func hasTag(doc sitesearch.Document, tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range doc.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}
