package plotpage

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"

	"github.com/Sumatoshi-tech/flightboard/pkg/aggregate"
	"github.com/Sumatoshi-tech/flightboard/pkg/report"
)

// stackTotal groups every bar series into one stack.
const stackTotal = "total"

// SlotChart builds the chart for a slot. Empty slots return nil.
// Slots whose table has no rows get a titled placeholder.
func SlotChart(cOpts *ChartOpts, slot report.Slot) Renderable {
	if slot.Empty() || slot.Table == nil || slot.Chart == nil {
		return nil
	}

	table, cs := *slot.Table, *slot.Chart

	if table.Empty() {
		return BuildEmptyChart(cOpts, cs.Title)
	}

	switch cs.Shape {
	case report.ShapeBar:
		return barChart(cOpts, table, cs)
	case report.ShapeLine:
		return lineChart(cOpts, table, cs)
	case report.ShapePie:
		return pieChart(cOpts, table, cs)
	case report.ShapeTreemap:
		return treeMapChart(cOpts, table, cs)
	default:
		return BuildEmptyChart(cOpts, cs.Title)
	}
}

// Matrix is a table pivoted into category labels × series.
type Matrix struct {
	Labels []string
	Series []string
	// Cells[s][l] is the value of series s at label l.
	Cells [][]aggregate.Value
}

// Pivot spreads table rows over the x column and the color column.
// Labels sort numerically when every label is a number; series keep first
// appearance order. Without a color column there is a single series named
// after the value column. Combinations with no row are missing.
func Pivot(table aggregate.Table, x, color aggregate.Column) Matrix {
	xi := table.KeyIndex(x)
	ci := table.KeyIndex(color)

	var labels, series []string

	labelIdx := map[string]int{}
	seriesIdx := map[string]int{}

	type cell struct {
		label, series int
		value         aggregate.Value
	}

	cells := make([]cell, 0, table.Len())

	for _, row := range table.Rows {
		label := row.Key(xi)

		name := string(table.Value)
		if ci >= 0 {
			name = row.Key(ci)
		}

		li, ok := labelIdx[label]
		if !ok {
			li = len(labels)
			labelIdx[label] = li
			labels = append(labels, label)
		}

		si, ok := seriesIdx[name]
		if !ok {
			si = len(series)
			seriesIdx[name] = si
			series = append(series, name)
		}

		cells = append(cells, cell{label: li, series: si, value: row.Value})
	}

	order := sortedLabels(labels)
	pos := make([]int, len(labels))

	for newPos, oldPos := range order {
		pos[oldPos] = newPos
	}

	grid := Matrix{
		Labels: make([]string, len(labels)),
		Series: series,
		Cells:  make([][]aggregate.Value, len(series)),
	}

	for oldPos, label := range labels {
		grid.Labels[pos[oldPos]] = label
	}

	for s := range grid.Cells {
		grid.Cells[s] = make([]aggregate.Value, len(labels))
	}

	for _, c := range cells {
		grid.Cells[c.series][pos[c.label]] = c.value
	}

	return grid
}

// sortedLabels returns label indices in display order.
func sortedLabels(labels []string) []int {
	order := make([]int, len(labels))
	nums := make([]int, len(labels))
	numeric := true

	for i, l := range labels {
		order[i] = i

		n, err := strconv.Atoi(l)
		if err != nil {
			numeric = false
		}

		nums[i] = n
	}

	if numeric {
		slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(nums[a], nums[b]) })
	}

	return order
}

func seriesData(values []aggregate.Value) []SeriesData {
	data := make([]SeriesData, len(values))

	for i, v := range values {
		if v.Valid {
			data[i] = v.Float
		}
	}

	return data
}

func barChart(cOpts *ChartOpts, table aggregate.Table, cs report.ChartSpec) *charts.Bar {
	grid := Pivot(table, cs.X, cs.Color)
	series := make([]BarSeries, len(grid.Series))

	for i, name := range grid.Series {
		series[i] = BarSeries{Name: name, Data: seriesData(grid.Cells[i]), Stack: stackTotal}
	}

	return BuildBarChart(cOpts, cs.Title, grid.Labels, series, string(cs.X), string(cs.Y))
}

func lineChart(cOpts *ChartOpts, table aggregate.Table, cs report.ChartSpec) *charts.Line {
	grid := Pivot(table, cs.X, cs.Color)
	series := make([]LineSeries, len(grid.Series))

	for i, name := range grid.Series {
		series[i] = LineSeries{Name: name, Data: seriesData(grid.Cells[i])}
	}

	return BuildLineChart(cOpts, cs.Title, grid.Labels, series, string(cs.X), string(cs.Y))
}

// PieSlices sums the value of every row per names key, in first appearance order.
// Missing values do not contribute.
func PieSlices(table aggregate.Table, names aggregate.Column) []PieSlice {
	ni := table.KeyIndex(names)
	idx := map[string]int{}

	var slicesOut []PieSlice

	for _, row := range table.Rows {
		name := row.Key(ni)

		i, ok := idx[name]
		if !ok {
			i = len(slicesOut)
			idx[name] = i
			slicesOut = append(slicesOut, PieSlice{Name: name})
		}

		if row.Value.Valid {
			slicesOut[i].Value += row.Value.Float
		}
	}

	return slicesOut
}

func pieChart(cOpts *ChartOpts, table aggregate.Table, cs report.ChartSpec) *charts.Pie {
	return BuildPieChart(cOpts, cs.Title, string(cs.Y), PieSlices(table, cs.Names))
}

// TreeNodes nests table rows along path. Leaves carry the row value and every
// parent the sum of its children; siblings keep first appearance order.
func TreeNodes(table aggregate.Table, path []aggregate.Column) []TreeNode {
	indices := make([]int, len(path))
	for i, col := range path {
		indices[i] = table.KeyIndex(col)
	}

	var roots []TreeNode

	for _, row := range table.Rows {
		v := 0.0
		if row.Value.Valid {
			v = row.Value.Float
		}

		roots = insertPath(roots, row, indices, v)
	}

	return roots
}

func insertPath(nodes []TreeNode, row aggregate.Row, indices []int, v float64) []TreeNode {
	if len(indices) == 0 {
		return nodes
	}

	name := row.Key(indices[0])

	i := slices.IndexFunc(nodes, func(n TreeNode) bool { return n.Name == name })
	if i < 0 {
		nodes = append(nodes, TreeNode{Name: name})
		i = len(nodes) - 1
	}

	nodes[i].Value += v
	nodes[i].Children = insertPath(nodes[i].Children, row, indices[1:], v)

	return nodes
}

func treeMapChart(cOpts *ChartOpts, table aggregate.Table, cs report.ChartSpec) *charts.TreeMap {
	scale := ColorScale(cs.ColorScale)
	if scale == nil {
		scale = DivergingRdBu
	}

	return BuildTreeMap(cOpts, cs.Title, string(cs.Y), TreeNodes(table, cs.Path), scale)
}
