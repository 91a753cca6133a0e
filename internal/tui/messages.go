package tui

import "github.com/letmevibethatforyou/sitesearch/prefs"

// ThemeChangedMsg reports the result of a theme toggle.
type ThemeChangedMsg struct {
	Theme prefs.Theme
	Err   error
}

// ReloadMsg asks the palette to re-rank against a new document snapshot.
type ReloadMsg struct{}

// AccessibilityChangedMsg carries new accessibility settings, either from a
// toggle in the palette or from another writer of the preference store.
type AccessibilityChangedMsg struct {
	Settings prefs.Accessibility
	Err      error
}
