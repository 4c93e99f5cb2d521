package report

import (
	"slices"

	"github.com/Sumatoshi-tech/flightboard/pkg/aggregate"
	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
)

// SlotCount is the number of display positions every run fills.
const SlotCount = 5

// Shape is the chart form a slot asks the renderer for.
type Shape string

// Chart shapes.
const (
	ShapeBar     Shape = "bar"
	ShapeLine    Shape = "line"
	ShapePie     Shape = "pie"
	ShapeTreemap Shape = "treemap"
)

// ChartSpec declares how a renderer should draw a table.
// X is the category axis, Y the value axis and Color splits series.
// Pie charts use Names and Y; treemaps use Path and Y.
type ChartSpec struct {
	Shape      Shape              `json:"shape"                yaml:"shape"`
	Title      string             `json:"title"                yaml:"title"`
	X          aggregate.Column   `json:"x,omitempty"          yaml:"x,omitempty"`
	Y          aggregate.Column   `json:"y"                    yaml:"y"`
	Color      aggregate.Column   `json:"color,omitempty"      yaml:"color,omitempty"`
	Names      aggregate.Column   `json:"names,omitempty"      yaml:"names,omitempty"`
	Path       []aggregate.Column `json:"path,omitempty"       yaml:"path,omitempty"`
	ColorScale string             `json:"colorScale,omitempty" yaml:"colorScale,omitempty"`
}

// Panel binds one view to the chart that displays it.
type Panel struct {
	View  aggregate.View
	Chart ChartSpec
}

// Layout is the static view → slot table of a kind. A nil entry is an
// explicitly empty slot.
type Layout [SlotCount]*Panel

// View names.
const (
	ViewCancellationsByMonth    = "cancellationsByMonth"
	ViewAvgAirTimeByAirline     = "avgAirTimeByAirline"
	ViewDivertedLandings        = "divertedLandings"
	ViewFlightsByOriginState    = "flightsByOriginState"
	ViewFlightsByDestAndAirline = "flightsByDestAndAirline"
	ViewAvgCarrierDelay         = "avgCarrierDelay"
	ViewAvgWeatherDelay         = "avgWeatherDelay"
	ViewAvgNASDelay             = "avgNASDelay"
	ViewAvgSecurityDelay        = "avgSecurityDelay"
	ViewAvgLateAircraftDelay    = "avgLateAircraftDelay"
)

var monthAirline = []aggregate.Column{aggregate.ColMonth, aggregate.ColReportingAirline}

var performanceLayout = Layout{
	{
		View: aggregate.View{
			Name:    ViewCancellationsByMonth,
			Keys:    []aggregate.Column{aggregate.ColMonth, aggregate.ColCancellationCode},
			Value:   aggregate.ColFlights,
			Reducer: aggregate.Sum,
		},
		Chart: ChartSpec{
			Shape: ShapeBar,
			Title: "Monthly Flight Cancellation",
			X:     aggregate.ColMonth,
			Y:     aggregate.ColFlights,
			Color: aggregate.ColCancellationCode,
		},
	},
	{
		View: aggregate.View{
			Name:    ViewAvgAirTimeByAirline,
			Keys:    monthAirline,
			Value:   aggregate.ColAirTime,
			Reducer: aggregate.Mean,
		},
		Chart: ChartSpec{
			Shape: ShapeLine,
			Title: "Average monthly flight time (minutes) by airline",
			X:     aggregate.ColMonth,
			Y:     aggregate.ColAirTime,
			Color: aggregate.ColReportingAirline,
		},
	},
	{
		View: aggregate.View{
			Name:    ViewDivertedLandings,
			Keys:    []aggregate.Column{aggregate.ColReportingAirline},
			Value:   aggregate.ColFlights,
			Reducer: aggregate.Select,
			Where:   func(rec *flights.Record) bool { return rec.Diverted() },
		},
		Chart: ChartSpec{
			Shape: ShapePie,
			Title: "% of flights by reporting airline",
			Y:     aggregate.ColFlights,
			Names: aggregate.ColReportingAirline,
		},
	},
	{
		View: aggregate.View{
			Name:    ViewFlightsByDestAndAirline,
			Keys:    []aggregate.Column{aggregate.ColDestState, aggregate.ColReportingAirline},
			Value:   aggregate.ColFlights,
			Reducer: aggregate.Sum,
		},
		Chart: ChartSpec{
			Shape:      ShapeTreemap,
			Title:      "Flight count by airline to destination state",
			Y:          aggregate.ColFlights,
			Color:      aggregate.ColFlights,
			Path:       []aggregate.Column{aggregate.ColDestState, aggregate.ColReportingAirline},
			ColorScale: "RdBu",
		},
	},
	nil,
}

// performanceExtra are computed on every performance run but own no slot.
var performanceExtra = []aggregate.View{
	{
		Name:    ViewFlightsByOriginState,
		Keys:    []aggregate.Column{aggregate.ColOriginState},
		Value:   aggregate.ColFlights,
		Reducer: aggregate.Sum,
	},
}

var delayLayout = Layout{
	delayPanel(ViewAvgCarrierDelay, aggregate.ColCarrierDelay, "Average carrier delay time (minutes) by airline"),
	delayPanel(ViewAvgWeatherDelay, aggregate.ColWeatherDelay, "Average weather delay time (minutes) by airline"),
	delayPanel(ViewAvgNASDelay, aggregate.ColNASDelay, "Average NAS delay time (minutes) by airline"),
	delayPanel(ViewAvgSecurityDelay, aggregate.ColSecurityDelay, "Average security delay time (minutes) by airline"),
	delayPanel(ViewAvgLateAircraftDelay, aggregate.ColLateAircraftDelay,
		"Average late aircraft delay time (minutes) by airline"),
}

func delayPanel(name string, col aggregate.Column, title string) *Panel {
	return &Panel{
		View: aggregate.View{
			Name:    name,
			Keys:    monthAirline,
			Value:   col,
			Reducer: aggregate.Mean,
		},
		Chart: ChartSpec{
			Shape: ShapeLine,
			Title: title,
			X:     aggregate.ColMonth,
			Y:     col,
			Color: aggregate.ColReportingAirline,
		},
	}
}

// Layout returns a copy of the slot table of k. Unset or invalid kinds have
// an all-empty layout.
func (k Kind) Layout() Layout {
	switch k {
	case KindPerformance:
		return performanceLayout.clone()
	case KindDelay:
		return delayLayout.clone()
	default:
		return Layout{}
	}
}

// Extra returns a copy of the views a kind computes without assigning them a slot.
func (k Kind) Extra() []aggregate.View {
	if k != KindPerformance {
		return nil
	}

	views := make([]aggregate.View, len(performanceExtra))
	for i, view := range performanceExtra {
		views[i] = cloneView(view)
	}

	return views
}

func (l Layout) clone() Layout {
	var out Layout

	for i, panel := range l {
		if panel == nil {
			continue
		}

		chart := panel.Chart
		chart.Path = slices.Clone(panel.Chart.Path)

		out[i] = &Panel{View: cloneView(panel.View), Chart: chart}
	}

	return out
}

func cloneView(view aggregate.View) aggregate.View {
	view.Keys = slices.Clone(view.Keys)

	return view
}

// Views returns every view of k: slotted views in slot order, then extras.
func (k Kind) Views() []aggregate.View {
	panels := k.Layout().Panels()
	views := make([]aggregate.View, 0, len(panels))

	for _, panel := range panels {
		views = append(views, panel.View)
	}

	return append(views, k.Extra()...)
}
