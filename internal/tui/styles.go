package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/letmevibethatforyou/sitesearch"
	"github.com/letmevibethatforyou/sitesearch/prefs"
)

// Badge is how a document kind is presented in the result list.
type Badge struct {
	Label string
	Glyph string
	Color lipgloss.Color
}

var badges = map[sitesearch.Kind]Badge{
	sitesearch.KindPage:    {Label: "Page", Glyph: "◆", Color: lipgloss.Color("39")},
	sitesearch.KindProject: {Label: "Project", Glyph: "▣", Color: lipgloss.Color("76")},
	sitesearch.KindPost:    {Label: "Post", Glyph: "✎", Color: lipgloss.Color("212")},
	sitesearch.KindSkill:   {Label: "Skill", Glyph: "★", Color: lipgloss.Color("214")},
}

// KindBadge returns the presentation for k. Unknown kinds get a neutral badge.
func KindBadge(k sitesearch.Kind) Badge {
	if b, ok := badges[k]; ok {
		return b
	}
	return Badge{Label: string(k), Glyph: "•", Color: lipgloss.Color("240")}
}

// Styles is the set of styles for one theme.
type Styles struct {
	Frame       lipgloss.Style
	Title       lipgloss.Style
	Input       lipgloss.Style
	Item        lipgloss.Style
	Selected    lipgloss.Style
	Description lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Help        lipgloss.Style
}

// NewStyles returns the styles for theme t adjusted for the accessibility
// settings a.
func NewStyles(t prefs.Theme, a prefs.Accessibility) Styles {
	text, muted, accent, selFg := lipgloss.Color("252"), lipgloss.Color("240"), lipgloss.Color("39"), lipgloss.Color("0")
	if t == prefs.ThemeLight {
		text, muted, accent, selFg = lipgloss.Color("235"), lipgloss.Color("245"), lipgloss.Color("25"), lipgloss.Color("231")
	}
	border := lipgloss.RoundedBorder()
	if a.HighContrast {
		text, muted, accent, selFg = lipgloss.Color("231"), lipgloss.Color("252"), lipgloss.Color("226"), lipgloss.Color("16")
		if t == prefs.ThemeLight {
			text, muted, accent, selFg = lipgloss.Color("16"), lipgloss.Color("236"), lipgloss.Color("18"), lipgloss.Color("231")
		}
		border = lipgloss.ThickBorder()
	}

	selected := lipgloss.NewStyle().
		Background(accent).
		Foreground(selFg).
		Padding(0, 1)
	if a.FocusOutlines {
		selected = selected.Bold(true).Underline(true)
	}

	return Styles{
		Frame: lipgloss.NewStyle().
			BorderStyle(border).
			BorderForeground(accent).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		Input: lipgloss.NewStyle().
			Foreground(text),
		Item: lipgloss.NewStyle().
			Foreground(text).
			Padding(0, 1),
		Selected: selected,
		Description: lipgloss.NewStyle().
			Foreground(muted).
			PaddingLeft(4),
		Muted: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Help: lipgloss.NewStyle().
			Foreground(muted),
	}
}
