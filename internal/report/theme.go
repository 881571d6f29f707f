package report

import "strings"

// Theme is the visual identity of a report.
type Theme struct {
	Name       string
	Title      string
	Kicker     string
	Accent     string
	AccentSoft string
	Ink        string
}

var (
	campaignTheme = Theme{
		Name:       "campaign",
		Title:      "Campaign Plan",
		Kicker:     "Marketing",
		Accent:     "#d9480f",
		AccentSoft: "#fff4e6",
		Ink:        "#212529",
	}
	pitchTheme = Theme{
		Name:       "pitch",
		Title:      "Pitch Review",
		Kicker:     "Fundraising",
		Accent:     "#5f3dc4",
		AccentSoft: "#f3f0ff",
		Ink:        "#212529",
	}
	journeyTheme = Theme{
		Name:       "journey",
		Title:      "Customer Journey",
		Kicker:     "Experience",
		Accent:     "#0b7285",
		AccentSoft: "#e3fafc",
		Ink:        "#212529",
	}
	defaultTheme = Theme{
		Name:       "default",
		Title:      "Agent Run Report",
		Kicker:     "Report",
		Accent:     "#1c7ed6",
		AccentSoft: "#e7f5ff",
		Ink:        "#212529",
	}
)

// themesByAgent maps known agent identifiers to their theme.
var themesByAgent = map[string]Theme{
	"campaign":         campaignTheme,
	"campaign-planner": campaignTheme,
	"marketing":        campaignTheme,
	"pitch":            pitchTheme,
	"pitch-deck":       pitchTheme,
	"journey":          journeyTheme,
	"customer-journey": journeyTheme,
}

// themeKeywords is checked in order when no exact match exists.
var themeKeywords = []struct {
	keyword string
	theme   Theme
}{
	{"campaign", campaignTheme},
	{"marketing", campaignTheme},
	{"pitch", pitchTheme},
	{"journey", journeyTheme},
}

// ThemeFor resolves the theme for an agent identifier.
func ThemeFor(agent string) Theme {
	id := strings.ToLower(strings.TrimSpace(agent))
	if t, ok := themesByAgent[id]; ok {
		return t
	}
	for _, k := range themeKeywords {
		if strings.Contains(id, k.keyword) {
			return k.theme
		}
	}
	return defaultTheme
}
