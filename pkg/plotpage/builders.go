package plotpage

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// missingPoint is the echarts marker for an absent data point.
const missingPoint = "-"

// noDataSubtitle is shown on charts whose table has no rows.
const noDataSubtitle = "No data for this selection"

// SeriesData represents a single value in a chart series.
// nil marks a missing point, drawn as a gap.
type SeriesData any

// BarSeries defines the properties and data for a single bar chart series.
type BarSeries struct {
	Name  string
	Data  []SeriesData
	Color string // Optional, uses theme if empty.
	Stack string // Optional, stack grouping.
}

// LineSeries defines the properties and data for a single line chart series.
type LineSeries struct {
	Name  string
	Data  []SeriesData
	Color string // Optional, uses theme if empty.
}

// PieSlice is one named sector.
type PieSlice struct {
	Name  string
	Value float64
}

// TreeNode is one rectangle of a treemap. Parent values are the sum of their children.
type TreeNode struct {
	Name     string
	Value    float64
	Children []TreeNode
}

func point(v SeriesData) any {
	if v == nil {
		return missingPoint
	}

	return v
}

// BuildBarChart constructs a fully configured go-echarts Bar chart using ChartOpts.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildBarChart(cOpts *ChartOpts, title string, labels []string, series []BarSeries, xLabel, yLabel string) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(cOpts.Title(title, "")),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithGridOpts(cOpts.Grid()),
		charts.WithXAxisOpts(cOpts.XAxis(xLabel)),
		charts.WithYAxisOpts(cOpts.YAxis(yLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	bar.SetXAxis(labels)

	for i, s := range series {
		barData := make([]opts.BarData, len(s.Data))
		for j, v := range s.Data {
			barData[j] = opts.BarData{Value: point(v)}
		}

		color := s.Color
		if color == "" {
			color = cOpts.SeriesColor(i)
		}

		seriesOpts := []charts.SeriesOpts{charts.WithItemStyleOpts(opts.ItemStyle{Color: color})}

		if s.Stack != "" {
			seriesOpts = append(seriesOpts, charts.WithBarChartOpts(opts.BarChart{Stack: s.Stack}))
		}

		bar.AddSeries(s.Name, barData, seriesOpts...)
	}

	return bar
}

// BuildLineChart constructs a fully configured go-echarts Line chart using ChartOpts.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildLineChart(cOpts *ChartOpts, title string, labels []string, series []LineSeries, xLabel, yLabel string) *charts.Line {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(cOpts.Title(title, "")),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithGridOpts(cOpts.Grid()),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithXAxisOpts(cOpts.XAxis(xLabel)),
		charts.WithYAxisOpts(cOpts.YAxis(yLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	line.SetXAxis(labels)

	for i, s := range series {
		lineData := make([]opts.LineData, len(s.Data))
		for j, v := range s.Data {
			lineData[j] = opts.LineData{Value: point(v)}
		}

		color := s.Color
		if color == "" {
			color = cOpts.SeriesColor(i)
		}

		line.AddSeries(s.Name, lineData,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
		)
	}

	return line
}

// BuildPieChart constructs a pie chart with one sector per slice, in slice order.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildPieChart(cOpts *ChartOpts, title, seriesName string, slices []PieSlice) *charts.Pie {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(cOpts.Title(title, "")),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Type:      "scroll",
			Orient:    "vertical",
			Left:      "left",
			Top:       "middle",
			TextStyle: &opts.TextStyle{Color: cOpts.TextMutedColor()},
		}),
	)

	data := make([]opts.PieData, len(slices))
	for i, s := range slices {
		data[i] = opts.PieData{
			Name:      s.Name,
			Value:     s.Value,
			ItemStyle: &opts.ItemStyle{Color: cOpts.SeriesColor(i)},
		}
	}

	pie.AddSeries(seriesName, data,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"35%", "65%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)

	return pie
}

// BuildTreeMap constructs a treemap whose leaves are colored along scale by value.
// Node values are rounded to whole numbers. If cOpts is nil, DefaultChartOpts() is used.
func BuildTreeMap(cOpts *ChartOpts, title, seriesName string, roots []TreeNode, scale []string) *charts.TreeMap {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	tm := charts.NewTreeMap()
	tm.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(cOpts.Title(title, "")),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	levels := []opts.TreeMapLevel{
		{Color: scale, ColorMappingBy: "value", ItemStyle: &opts.ItemStyle{BorderColor: "#fff"}},
		{ColorMappingBy: "value"},
	}

	tm.AddSeries(seriesName, treeMapNodes(roots),
		charts.WithTreeMapOpts(opts.TreeMapChart{
			Animation:      opts.Bool(true),
			Roam:           opts.Bool(false),
			ColorMappingBy: "value",
			Levels:         &levels,
			UpperLabel:     &opts.UpperLabel{Show: opts.Bool(true)},
			Top:            "40",
		}),
		charts.WithItemStyleOpts(opts.ItemStyle{BorderColor: "#fff"}),
	)

	return tm
}

func treeMapNodes(nodes []TreeNode) []opts.TreeMapNode {
	out := make([]opts.TreeMapNode, len(nodes))

	for i, n := range nodes {
		out[i] = opts.TreeMapNode{
			Name:  n.Name,
			Value: int(math.Round(n.Value)),
		}

		if len(n.Children) > 0 {
			out[i].Children = treeMapNodes(n.Children)
		}
	}

	return out
}

// BuildEmptyChart returns a titled placeholder for a table with no rows.
func BuildEmptyChart(cOpts *ChartOpts, title string) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, emptyChartHeight)),
		charts.WithTitleOpts(cOpts.Title(title, noDataSubtitle)),
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(false)}),
	)

	return bar
}
