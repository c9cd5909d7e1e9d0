package todo

import (
	"fmt"
	"strings"
)

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Locale selects display labels and collation.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleKorean  Locale = "ko"
)

// ParseLocale accepts a locale code such as "en" or "ko-KR".
func ParseLocale(s string) (Locale, error) {
	code := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	switch Locale(code) {
	case LocaleEnglish, LocaleKorean:
		return Locale(code), nil
	}
	return "", fmt.Errorf("unknown locale %q", s)
}

// Settings is the flat preference map persisted alongside todos and lists.
type Settings struct {
	Theme               Theme     `json:"theme"`
	AccentColor         string    `json:"accentColor"`
	ShowCompletedCount  bool      `json:"showCompletedCount"`
	ShowDueDates        bool      `json:"showDueDates"`
	ShowPriority        bool      `json:"showPriority"`
	EnableNotifications bool      `json:"enableNotifications"`
	EnableSounds        bool      `json:"enableSounds"`
	Locale              Locale    `json:"locale"`
	SortBy              SortKey   `json:"sortBy"`
	SortOrder           SortOrder `json:"sortOrder"`
	Filter              Filter    `json:"filter"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Theme:               ThemeDark,
		AccentColor:         "#0078d4",
		ShowCompletedCount:  true,
		ShowDueDates:        true,
		ShowPriority:        true,
		EnableNotifications: true,
		EnableSounds:        true,
		Locale:              LocaleKorean,
		SortBy:              SortNewest,
		SortOrder:           OrderAsc,
		Filter:              FilterAll,
	}
}

// SettingsPatch updates settings. Nil fields are left unchanged.
type SettingsPatch struct {
	Theme               *Theme
	AccentColor         *string
	ShowCompletedCount  *bool
	ShowDueDates        *bool
	ShowPriority        *bool
	EnableNotifications *bool
	EnableSounds        *bool
	Locale              *Locale
	SortBy              *SortKey
	SortOrder           *SortOrder
	Filter              *Filter
}

func (s Settings) apply(p SettingsPatch) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.AccentColor != nil {
		s.AccentColor = *p.AccentColor
	}
	if p.ShowCompletedCount != nil {
		s.ShowCompletedCount = *p.ShowCompletedCount
	}
	if p.ShowDueDates != nil {
		s.ShowDueDates = *p.ShowDueDates
	}
	if p.ShowPriority != nil {
		s.ShowPriority = *p.ShowPriority
	}
	if p.EnableNotifications != nil {
		s.EnableNotifications = *p.EnableNotifications
	}
	if p.EnableSounds != nil {
		s.EnableSounds = *p.EnableSounds
	}
	if p.Locale != nil {
		s.Locale = *p.Locale
	}
	if p.SortBy != nil {
		s.SortBy = *p.SortBy
	}
	if p.SortOrder != nil {
		s.SortOrder = *p.SortOrder
	}
	if p.Filter != nil {
		s.Filter = *p.Filter
	}
	return s.normalize()
}

// normalize replaces unknown enum values with defaults.
func (s Settings) normalize() Settings {
	def := DefaultSettings()
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		s.Theme = def.Theme
	}
	if strings.TrimSpace(s.AccentColor) == "" {
		s.AccentColor = def.AccentColor
	}
	if s.Locale != LocaleEnglish && s.Locale != LocaleKorean {
		s.Locale = def.Locale
	}
	if k, err := ParseSortKey(string(s.SortBy)); err == nil {
		s.SortBy = k
	} else {
		s.SortBy = def.SortBy
	}
	if o, err := ParseSortOrder(string(s.SortOrder)); err == nil {
		s.SortOrder = o
	} else {
		s.SortOrder = def.SortOrder
	}
	if f, err := ParseFilter(string(s.Filter)); err == nil {
		s.Filter = f
	} else {
		s.Filter = def.Filter
	}
	return s
}
