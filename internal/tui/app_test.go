package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/letmevibethatforyou/sitesearch"
	"github.com/letmevibethatforyou/sitesearch/inmemory"
	"github.com/letmevibethatforyou/sitesearch/prefs"
)

func testModel(open bool) (Model, *prefs.Memory) {
	searcher := inmemory.New(
		sitesearch.Document{ID: "projects", Kind: sitesearch.KindPage, Title: "Projects", Description: "portfolio", Tags: []string{"code"}, URL: "/projects"},
		sitesearch.Document{ID: "contact", Kind: sitesearch.KindPage, Title: "Contact", Description: "reach out", Tags: []string{"email"}, URL: "/contact"},
		sitesearch.Document{ID: "project-gateway", Kind: sitesearch.KindProject, Title: "Projected Gateway", Description: "go service", URL: "/projects#gateway"},
	)
	store := prefs.NewMemory()
	return NewModel(context.Background(), searcher, store, prefs.ThemeDark, prefs.DefaultAccessibility(), open), store
}

func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func typeText(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTypingRanks(t *testing.T) {
	m, _ := testModel(true)
	m, _ = send(m, typeText("proj"))

	if m.Controller().Query() != "proj" {
		t.Fatalf("Expected query proj, got %q", m.Controller().Query())
	}
	results := m.Controller().Results()
	if len(results) != 2 || results[0].ID != "projects" {
		t.Errorf("Unexpected results %+v", results)
	}
	if !strings.Contains(m.View(), "Projects") {
		t.Error("Expected view to list Projects")
	}
}

func TestEnterNavigatesAndQuits(t *testing.T) {
	m, _ := testModel(true)
	m, _ = send(m, typeText("proj"), tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Navigated() != "/projects#gateway" {
		t.Errorf("Expected navigation to /projects#gateway, got %q", m.Navigated())
	}
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestEscapeAndToggle(t *testing.T) {
	m, _ := testModel(true)
	m, _ = send(m, typeText("proj"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.Controller().IsOpen() {
		t.Fatal("Expected escape to close the palette")
	}
	if !strings.Contains(m.View(), "ctrl+k") {
		t.Error("Expected closed view to mention ctrl+k")
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlK})
	if !m.Controller().IsOpen() || m.Controller().Query() != "" {
		t.Error("Expected ctrl+k to reopen with an empty query")
	}
	if !strings.Contains(m.View(), "Type to search") {
		t.Error("Expected prompt for an empty query")
	}
}

func TestNoResultsView(t *testing.T) {
	m, _ := testModel(true)
	m, _ = send(m, typeText("zzz"))

	view := m.View()
	if !strings.Contains(view, "No results") || !strings.Contains(view, "React, projects, blog") {
		t.Errorf("Expected no-results message with suggestions, got %q", view)
	}
}

func TestThemeToggle(t *testing.T) {
	m, store := testModel(false)
	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if cmd == nil {
		t.Fatal("Expected theme command")
	}

	msg := cmd()
	changed, ok := msg.(ThemeChangedMsg)
	if !ok || changed.Err != nil || changed.Theme != prefs.ThemeLight {
		t.Fatalf("Unexpected message %#v", msg)
	}
	m, _ = send(m, msg)
	if m.Theme() != prefs.ThemeLight {
		t.Errorf("Expected light theme, got %q", m.Theme())
	}

	stored, _ := prefs.LoadTheme(context.Background(), store, prefs.ThemeDark)
	if stored != prefs.ThemeLight {
		t.Errorf("Expected stored light theme, got %q", stored)
	}
}

func TestClosedQuitKeys(t *testing.T) {
	m, _ := testModel(false)
	_, cmd := send(m, typeText("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestKindBadge(t *testing.T) {
	tests := map[sitesearch.Kind]string{
		sitesearch.KindPage:    "Page",
		sitesearch.KindProject: "Project",
		sitesearch.KindPost:    "Post",
		sitesearch.KindSkill:   "Skill",
		"video":                "video",
	}
	for kind, want := range tests {
		if got := KindBadge(kind).Label; got != want {
			t.Errorf("KindBadge(%q) = %q, want %q", kind, got, want)
		}
	}
}

func TestContrastToggle(t *testing.T) {
	m, store := testModel(false)
	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if cmd == nil {
		t.Fatal("Expected contrast command")
	}

	msg := cmd()
	changed, ok := msg.(AccessibilityChangedMsg)
	if !ok || changed.Err != nil || !changed.Settings.HighContrast {
		t.Fatalf("Unexpected message %#v", msg)
	}
	m, _ = send(m, msg)
	if !m.Accessibility().HighContrast {
		t.Error("Expected high contrast to be active")
	}
	if m.styles.Frame.GetBorderStyle() != lipgloss.ThickBorder() {
		t.Error("Expected a thick frame in high contrast")
	}

	stored, err := prefs.LoadAccessibility(context.Background(), store)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !stored.HighContrast || !stored.FocusOutlines {
		t.Errorf("Expected stored high contrast with other settings kept, got %+v", stored)
	}
}

func TestAccessibilitySettings(t *testing.T) {
	searcher := inmemory.New(
		sitesearch.Document{ID: "projects", Kind: sitesearch.KindPage, Title: "Projects", Description: "portfolio", URL: "/projects"},
	)
	access := prefs.Accessibility{ReducedMotion: true, ScreenReader: true}
	m := NewModel(context.Background(), searcher, prefs.NewMemory(), prefs.ThemeDark, access, true)

	if m.Init() != nil {
		t.Error("Expected no blink command with reduced motion")
	}

	m, _ = send(m, typeText("proj"))
	view := m.View()
	if !strings.Contains(view, "[Page]") {
		t.Errorf("Expected text badge for screen readers, got %q", view)
	}
	if strings.Contains(view, KindBadge(sitesearch.KindPage).Glyph) {
		t.Errorf("Expected no glyphs for screen readers, got %q", view)
	}
}

func TestNewStyles(t *testing.T) {
	tests := map[string]struct {
		access    prefs.Accessibility
		thick     bool
		underline bool
	}{
		"defaults":       {access: prefs.DefaultAccessibility(), underline: true},
		"no outlines":    {access: prefs.Accessibility{}},
		"high contrast":  {access: prefs.Accessibility{HighContrast: true}, thick: true},
		"contrast+focus": {access: prefs.Accessibility{HighContrast: true, FocusOutlines: true}, thick: true, underline: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for _, theme := range []prefs.Theme{prefs.ThemeDark, prefs.ThemeLight} {
				s := NewStyles(theme, tc.access)
				if got := s.Frame.GetBorderStyle() == lipgloss.ThickBorder(); got != tc.thick {
					t.Errorf("%s: expected thick border %v, got %v", theme, tc.thick, got)
				}
				if got := s.Selected.GetUnderline(); got != tc.underline {
					t.Errorf("%s: expected underline %v, got %v", theme, tc.underline, got)
				}
			}
		})
	}
}
