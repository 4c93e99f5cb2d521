package plotpage

import (
	"fmt"
	"strings"
)

// Theme is a page color theme.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ParseTheme accepts "light" and "dark", case-insensitive.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// ThemeConfig holds the page and chart colors of a theme.
type ThemeConfig struct {
	Background  string
	Surface     string
	Border      string
	TextPrimary string
	TextMuted   string
	Accent      string

	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string

	// EChartsTheme is the built-in echarts theme name; empty is the default.
	EChartsTheme string
}

// GetThemeConfig returns the configuration for theme. Unknown themes are light.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeDark {
		return darkTheme
	}

	return lightTheme
}

// Palette returns the series colors for theme, one per airline or code.
func Palette(theme Theme) []string {
	if theme == ThemeDark {
		return darkPalette
	}

	return lightPalette
}

// DivergingRdBu is the red to blue diverging scale used for treemap values.
var DivergingRdBu = []string{
	"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7",
	"#f7f7f7", "#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061",
}

// ColorScale returns the named scale, or nil when the name is unknown.
func ColorScale(name string) []string {
	if strings.EqualFold(name, "RdBu") {
		return DivergingRdBu
	}

	return nil
}

var lightTheme = ThemeConfig{
	Background:  "#f8fafc", // slate-50.
	Surface:     "#ffffff",
	Border:      "#e2e8f0", // slate-200.
	TextPrimary: "#0f172a", // slate-900.
	TextMuted:   "#64748b", // slate-500.
	Accent:      "#503a8d",

	ChartBackground: "transparent",
	ChartGrid:       "#e2e8f0",
	ChartAxis:       "#94a3b8", // slate-400.
	ChartText:       "#334155", // slate-700.
	ChartTextMuted:  "#64748b",
}

var darkTheme = ThemeConfig{
	Background:  "#020617", // slate-950.
	Surface:     "#0f172a", // slate-900.
	Border:      "#334155", // slate-700.
	TextPrimary: "#f8fafc",
	TextMuted:   "#94a3b8",
	Accent:      "#a78bfa", // violet-400.

	ChartBackground: "transparent",
	ChartGrid:       "#334155",
	ChartAxis:       "#475569", // slate-600.
	ChartText:       "#cbd5e1", // slate-300.
	ChartTextMuted:  "#94a3b8",
}

var lightPalette = []string{
	"#1d4ed8", "#b45309", "#15803d", "#b91c1c", "#7c3aed",
	"#0e7490", "#be185d", "#4d7c0f", "#c2410c", "#4338ca",
	"#0f766e", "#a16207", "#6d28d9", "#9f1239", "#1e40af",
}

var darkPalette = []string{
	"#60a5fa", "#fbbf24", "#4ade80", "#f87171", "#a78bfa",
	"#22d3ee", "#f472b6", "#a3e635", "#fb923c", "#818cf8",
	"#2dd4bf", "#facc15", "#c084fc", "#fb7185", "#93c5fd",
}
