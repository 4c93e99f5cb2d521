package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Chart dimensions.
const (
	chartWidth       = "100%"
	chartHeight      = "420px"
	emptyChartHeight = "200px"
	dataZoomEnd      = 100
)

// ChartOpts provides themed echarts options.
type ChartOpts struct {
	theme   Theme
	config  ThemeConfig
	palette []string
}

// NewChartOpts creates options for theme.
func NewChartOpts(theme Theme) *ChartOpts {
	return &ChartOpts{theme: theme, config: GetThemeConfig(theme), palette: Palette(theme)}
}

// DefaultChartOpts returns options for the light theme.
func DefaultChartOpts() *ChartOpts {
	return NewChartOpts(ThemeLight)
}

// Theme returns the theme the options were built for.
func (c *ChartOpts) Theme() Theme {
	return c.theme
}

// Init returns initialization options with the themed background.
func (c *ChartOpts) Init(width, height string) opts.Initialization {
	return opts.Initialization{
		Width:           width,
		Height:          height,
		BackgroundColor: c.config.ChartBackground,
		Theme:           c.config.EChartsTheme,
	}
}

// Title returns centered title options.
func (c *ChartOpts) Title(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: c.config.ChartText},
		SubtitleStyle: &opts.TextStyle{Color: c.config.ChartTextMuted},
	}
}

// Legend returns a scrollable top legend.
func (c *ChartOpts) Legend() opts.Legend {
	return opts.Legend{
		Show:      opts.Bool(true),
		Type:      "scroll",
		Top:       "0",
		Left:      "center",
		TextStyle: &opts.TextStyle{Color: c.config.ChartTextMuted},
	}
}

// XAxis returns category axis options.
func (c *ChartOpts) XAxis(name string) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: c.config.ChartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.config.ChartAxis}},
	}
}

// YAxis returns value axis options.
func (c *ChartOpts) YAxis(name string) opts.YAxis {
	return opts.YAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: c.config.ChartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.config.ChartAxis}},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: c.config.ChartGrid},
		},
	}
}

// Grid leaves room for the legend above the plot.
func (c *ChartOpts) Grid() opts.Grid {
	return opts.Grid{
		Top:          "18%",
		Bottom:       "15%",
		Left:         "4%",
		Right:        "4%",
		ContainLabel: opts.Bool(true),
	}
}

// DataZoom returns a slider plus mouse-wheel zoom.
func (c *ChartOpts) DataZoom() []opts.DataZoom {
	return []opts.DataZoom{
		{Type: "slider", Start: 0, End: dataZoomEnd},
		{Type: "inside"},
	}
}

// Tooltip returns tooltip options for trigger ("axis" or "item").
func (c *ChartOpts) Tooltip(trigger string) opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}
}

// SeriesColor returns the palette color of the i-th series.
func (c *ChartOpts) SeriesColor(i int) string {
	return c.palette[i%len(c.palette)]
}

// TextMutedColor returns the muted chart text color.
func (c *ChartOpts) TextMutedColor() string {
	return c.config.ChartTextMuted
}
