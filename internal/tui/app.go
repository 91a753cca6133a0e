// Package tui is a terminal command palette over the site search.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/letmevibethatforyou/sitesearch"
	"github.com/letmevibethatforyou/sitesearch/controller"
	"github.com/letmevibethatforyou/sitesearch/prefs"
)

// navigation records the URL committed by the controller.
type navigation struct {
	url string
}

func (n *navigation) Navigate(url string) { n.url = url }

// Model is the palette's bubbletea model.
type Model struct {
	input textinput.Model
	ctrl  *controller.Controller
	nav   *navigation

	store  prefs.Store
	theme  prefs.Theme
	access prefs.Accessibility
	styles Styles

	ctx   context.Context
	width int
	err   error
}

// NewModel returns a palette over searcher. The theme and the high contrast
// switch are toggled in store. When open is set the palette starts open.
func NewModel(ctx context.Context, searcher sitesearch.Searcher, store prefs.Store, theme prefs.Theme, access prefs.Accessibility, open bool, opts ...sitesearch.SearchOption) Model {
	ti := textinput.New()
	ti.Placeholder = "Search pages, projects, posts and skills..."
	ti.Prompt = "› "
	ti.CharLimit = 100
	ti.Cursor.SetMode(cursorMode(access))

	nav := &navigation{}
	m := Model{
		input:  ti,
		ctrl:   controller.New(searcher, nav, opts...),
		nav:    nav,
		store:  store,
		theme:  theme,
		access: access,
		styles: NewStyles(theme, access),
		ctx:    ctx,
	}
	if open {
		m.ctrl.Open()
		m.input.Focus()
	}
	return m
}

// Navigated returns the URL chosen with enter, or "" if none was.
func (m Model) Navigated() string { return m.nav.url }

// Theme returns the active theme.
func (m Model) Theme() prefs.Theme { return m.theme }

// Accessibility returns the active accessibility settings.
func (m Model) Accessibility() prefs.Accessibility { return m.access }

// Controller exposes the session state.
func (m Model) Controller() *controller.Controller { return m.ctrl }

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.access.ReducedMotion {
		return nil
	}
	return textinput.Blink
}

func cursorMode(a prefs.Accessibility) cursor.Mode {
	if a.ReducedMotion {
		return cursor.CursorStatic
	}
	return cursor.CursorBlink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-8, 10)

	case ThemeChangedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.theme = msg.Theme
		m.styles = NewStyles(msg.Theme, m.access)

	case AccessibilityChangedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.access = msg.Settings
		m.styles = NewStyles(m.theme, m.access)
		return m, m.input.Cursor.SetMode(cursorMode(m.access))

	case ReloadMsg:
		m.err = m.ctrl.Reload(m.ctx)
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+k":
		m.ctrl.Toggle()
		m.input.Reset()
		m.err = nil
		if m.ctrl.IsOpen() {
			return m, m.input.Focus()
		}
		m.input.Blur()
		return m, nil
	case "ctrl+t":
		return m, m.toggleTheme
	case "ctrl+o":
		return m, m.toggleContrast
	}

	if !m.ctrl.IsOpen() {
		if msg.String() == "q" || msg.String() == "esc" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "down":
		m.ctrl.HandleKey(controller.KeyArrowDown)
		return m, nil
	case "up":
		m.ctrl.HandleKey(controller.KeyArrowUp)
		return m, nil
	case "esc":
		m.ctrl.HandleKey(controller.KeyEscape)
		m.input.Reset()
		m.input.Blur()
		return m, nil
	case "enter":
		m.ctrl.HandleKey(controller.KeyEnter)
		if m.nav.url != "" {
			return m, tea.Quit
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.err = m.ctrl.SetQuery(m.ctx, v)
	}
	return m, cmd
}

func (m Model) toggleTheme() tea.Msg {
	next, err := prefs.ToggleTheme(m.ctx, m.store, m.theme)
	return ThemeChangedMsg{Theme: next, Err: err}
}

func (m Model) toggleContrast() tea.Msg {
	next := m.access
	next.HighContrast = !next.HighContrast
	if err := prefs.SaveAccessibility(m.ctx, m.store, next); err != nil {
		return AccessibilityChangedMsg{Settings: m.access, Err: err}
	}
	return AccessibilityChangedMsg{Settings: next}
}

// View implements tea.Model
func (m Model) View() string {
	s := m.styles
	help := s.Help.Render("ctrl+k palette · ↑/↓ move · enter open · esc close · ctrl+t theme · ctrl+o contrast · ctrl+c quit")

	if !m.ctrl.IsOpen() {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Muted.Render("Press ctrl+k to search."),
			help,
		)
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Search"))
	b.WriteString("\n")
	b.WriteString(s.Input.Render(m.input.View()))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(s.Error.Render("Search failed: " + m.err.Error()))
	case m.ctrl.ShowsPrompt():
		b.WriteString(s.Muted.Render("Type to search pages, projects, posts and skills."))
	case m.ctrl.ShowsNoResults():
		b.WriteString(s.Muted.Render(fmt.Sprintf("No results for %q.", m.ctrl.Query())))
		b.WriteString("\n")
		b.WriteString(s.Help.Render("Try: " + strings.Join(m.ctrl.Suggestions(), ", ")))
	default:
		b.WriteString(m.renderResults())
	}

	frame := s.Frame
	if m.width > 4 {
		frame = frame.Width(m.width - 4)
	}
	return lipgloss.JoinVertical(lipgloss.Left, frame.Render(b.String()), help)
}

func (m Model) renderResults() string {
	s := m.styles
	lines := make([]string, 0, 2*len(m.ctrl.Results()))
	for i, r := range m.ctrl.Results() {
		badge := KindBadge(r.Kind)
		tag := "[" + badge.Label + "]"
		if !m.access.ScreenReader {
			tag = lipgloss.NewStyle().Foreground(badge.Color).Render(badge.Glyph + " " + badge.Label)
		}

		row := s.Item
		if i == m.ctrl.Selected() {
			row = s.Selected
		}
		lines = append(lines,
			row.Render(tag+"  "+r.Title),
			s.Description.Render(r.Description),
		)
	}
	return strings.Join(lines, "\n")
}
