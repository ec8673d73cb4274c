package document

import "github.com/jonathan/cv-generator/internal/types"

// styleSet maps logical block roles to theme style references. Styles are
// resolved by the renderer's stylesheet for the selected theme.
type styleSet struct {
	Name       string
	Subtitle   string
	Contact    string
	EntryTitle string
	Dates      string
	Body       string
	Tags       string
}

var themeStyles = map[types.Theme]styleSet{
	types.ThemeModern: {
		Name:       "modern-name",
		Subtitle:   "modern-subtitle",
		Contact:    "modern-contact",
		EntryTitle: "modern-entry-title",
		Dates:      "modern-dates",
		Body:       "modern-body",
		Tags:       "modern-tags",
	},
	types.ThemeClassic: {
		Name:       "classic-name",
		Subtitle:   "classic-subtitle",
		Contact:    "classic-contact",
		EntryTitle: "classic-entry-title",
		Dates:      "classic-dates",
		Body:       "classic-body",
		Tags:       "classic-tags",
	},
	types.ThemeCompact: {
		Name:       "compact-name",
		Subtitle:   "compact-subtitle",
		Contact:    "compact-contact",
		EntryTitle: "compact-entry-title",
		Dates:      "compact-dates",
		Body:       "compact-body",
		Tags:       "compact-tags",
	},
}

// Themes lists the supported theme selectors.
func Themes() []types.Theme {
	return []types.Theme{types.ThemeModern, types.ThemeClassic, types.ThemeCompact}
}

// ValidTheme reports whether the selector names a known theme.
func ValidTheme(theme types.Theme) bool {
	_, ok := themeStyles[theme]
	return ok
}
