package prefs

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Keys used by the typed helpers.
const (
	ThemeKey         = "theme"
	AccessibilityKey = "accessibility-settings"
)

// Theme is the colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// LoadTheme returns the stored theme, or fallback when none or an unknown
// value is stored.
func LoadTheme(ctx context.Context, s Store, fallback Theme) (Theme, error) {
	v, ok, err := s.Get(ctx, ThemeKey)
	if err != nil {
		return fallback, errors.Wrap(err, "load theme")
	}
	if t := Theme(v); ok && (t == ThemeLight || t == ThemeDark) {
		return t, nil
	}
	return fallback, nil
}

// SaveTheme stores t.
func SaveTheme(ctx context.Context, s Store, t Theme) error {
	if t != ThemeLight && t != ThemeDark {
		return errors.Newf("unknown theme %q", t)
	}
	return errors.Wrap(s.Set(ctx, ThemeKey, string(t)), "save theme")
}

// ToggleTheme flips the stored theme and returns the new value.
func ToggleTheme(ctx context.Context, s Store, fallback Theme) (Theme, error) {
	current, err := LoadTheme(ctx, s, fallback)
	if err != nil {
		return current, err
	}
	next := current.Toggle()
	if err := SaveTheme(ctx, s, next); err != nil {
		return current, err
	}
	return next, nil
}

// Accessibility holds the accessibility panel switches.
type Accessibility struct {
	ReducedMotion      bool `json:"reducedMotion"`
	HighContrast       bool `json:"highContrast"`
	LargeText          bool `json:"largeText"`
	ScreenReader       bool `json:"screenReader"`
	KeyboardNavigation bool `json:"keyboardNavigation"`
	FocusOutlines      bool `json:"focusOutlines"`
}

// DefaultAccessibility returns the settings used before anything is saved.
func DefaultAccessibility() Accessibility {
	return Accessibility{
		KeyboardNavigation: true,
		FocusOutlines:      true,
	}
}

// LoadAccessibility returns the stored settings. Missing or corrupt data
// yields the defaults; fields absent from the stored JSON keep their default.
func LoadAccessibility(ctx context.Context, s Store) (Accessibility, error) {
	settings := DefaultAccessibility()
	v, ok, err := s.Get(ctx, AccessibilityKey)
	if err != nil {
		return settings, errors.Wrap(err, "load accessibility settings")
	}
	if !ok {
		return settings, nil
	}

	stored := settings
	if err := json.Unmarshal([]byte(v), &stored); err != nil {
		return DefaultAccessibility(), nil
	}
	return stored, nil
}

// SaveAccessibility stores a as JSON.
func SaveAccessibility(ctx context.Context, s Store, a Accessibility) error {
	data, err := json.Marshal(a)
	if err != nil {
		return errors.Wrap(err, "marshal accessibility settings")
	}
	return errors.Wrap(s.Set(ctx, AccessibilityKey, string(data)), "save accessibility settings")
}
