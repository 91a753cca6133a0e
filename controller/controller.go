// Package controller drives a search session from keyboard input: it owns the
// query text, the ranked results and the selected index, and turns Enter into
// a navigation request.
//
// A Controller has exactly one writer, the hosting UI, and is not safe for
// concurrent use.
package controller

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/letmevibethatforyou/sitesearch"
)

// State is the open/closed state of the session.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Key is a navigation key understood by HandleKey.
type Key int

const (
	KeyArrowDown Key = iota
	KeyArrowUp
	KeyEnter
	KeyEscape
)

// Navigator receives the URL of a committed selection.
type Navigator interface {
	Navigate(url string)
}

// NavigatorFunc is a function that implements the Navigator interface.
type NavigatorFunc func(url string)

// Navigate implements the Navigator interface for NavigatorFunc.
func (f NavigatorFunc) Navigate(url string) {
	f(url)
}

// suggestions are offered when a non-empty query matches nothing.
var suggestions = []string{"React", "projects", "blog"}

// Controller is the state machine behind the command palette.
type Controller struct {
	searcher sitesearch.Searcher
	nav      Navigator
	opts     []sitesearch.SearchOption

	state    State
	query    string
	results  []sitesearch.ScoredDocument
	selected int
}

// New returns a closed Controller that ranks with searcher and reports
// committed selections to nav. opts are passed to every search.
func New(searcher sitesearch.Searcher, nav Navigator, opts ...sitesearch.SearchOption) *Controller {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &Controller{
		searcher: searcher,
		nav:      nav,
		opts:     opts,
	}
}

// State reports whether the session is open.
func (c *Controller) State() State { return c.state }

// IsOpen is shorthand for State() == Open.
func (c *Controller) IsOpen() bool { return c.state == Open }

// Query returns the current query text.
func (c *Controller) Query() string { return c.query }

// Results returns the current ranked results.
func (c *Controller) Results() []sitesearch.ScoredDocument { return c.results }

// Selected returns the selected index. It is 0 when there are no results.
func (c *Controller) Selected() int { return c.selected }

// Selection returns the selected result, if any.
func (c *Controller) Selection() (sitesearch.ScoredDocument, bool) {
	if c.selected < 0 || c.selected >= len(c.results) {
		return sitesearch.ScoredDocument{}, false
	}
	return c.results[c.selected], true
}

// Open starts a fresh session.
func (c *Controller) Open() {
	c.reset()
	c.state = Open
}

// Close ends the session and discards its state.
func (c *Controller) Close() {
	c.reset()
	c.state = Closed
}

// Toggle opens a closed session and closes an open one.
func (c *Controller) Toggle() {
	if c.state == Open {
		c.Close()
		return
	}
	c.Open()
}

func (c *Controller) reset() {
	c.query = ""
	c.results = nil
	c.selected = 0
}

// SetQuery replaces the query text and re-ranks. It is ignored while closed.
// On a search error the results are cleared and the error returned.
func (c *Controller) SetQuery(ctx context.Context, query string) error {
	if c.state != Open {
		return nil
	}
	c.query = query
	return c.Reload(ctx)
}

// Reload re-ranks the current query, for instance after the document
// snapshot behind the searcher was replaced.
func (c *Controller) Reload(ctx context.Context) error {
	if c.state != Open {
		return nil
	}
	c.selected = 0
	c.results = nil

	if strings.TrimSpace(c.query) == "" {
		return nil
	}

	res, err := c.searcher.Search(ctx, c.query, c.opts...)
	if err != nil {
		return errors.Wrapf(err, "search %q", c.query)
	}
	c.results = res.Items
	return nil
}

// HandleKey applies a navigation key. It reports whether the key was consumed;
// keys are ignored while closed.
func (c *Controller) HandleKey(key Key) bool {
	if c.state != Open {
		return false
	}

	switch key {
	case KeyArrowDown:
		c.selected = min(c.selected+1, max(len(c.results)-1, 0))
	case KeyArrowUp:
		c.selected = max(c.selected-1, 0)
	case KeyEnter:
		doc, ok := c.Selection()
		if !ok {
			return true
		}
		c.Close()
		c.nav.Navigate(doc.URL)
	case KeyEscape:
		c.Close()
	default:
		return false
	}
	return true
}

// ShowsPrompt reports whether the session is open with an empty query.
func (c *Controller) ShowsPrompt() bool {
	return c.state == Open && strings.TrimSpace(c.query) == ""
}

// ShowsNoResults reports whether a non-empty query matched nothing.
func (c *Controller) ShowsNoResults() bool {
	return c.state == Open && strings.TrimSpace(c.query) != "" && len(c.results) == 0
}

// Suggestions returns example queries for the no-results message.
func (c *Controller) Suggestions() []string {
	out := make([]string, len(suggestions))
	copy(out, suggestions)
	return out
}
