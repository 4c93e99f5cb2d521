package plotpage

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/flightboard/pkg/report"
)

// Dashboard page defaults.
const (
	DefaultTitle     = "US Domestic Airline Flights Performance"
	noSelectionTitle = "Select a report type and a year to display the charts."
)

// slotWidths places slot 1 alone on the first row, then two per row.
var slotWidths = [report.SlotCount]Width{WidthFull, WidthHalf, WidthHalf, WidthHalf, WidthHalf}

// DashboardOptions configure a dashboard page.
type DashboardOptions struct {
	Title string
	Theme Theme
	// Action makes the selector an interactive form posting to this path.
	Action string
}

func (o DashboardOptions) title() string {
	if o.Title == "" {
		return DefaultTitle
	}

	return o.Title
}

// Dashboard lays the five slots of out onto a page. The selector echoes the
// selection of out.
func Dashboard(out report.Output, o DashboardOptions) *Page {
	page := NewPage(o.title(), description(out)).WithTheme(o.Theme)
	page.Selector = selector(out.Selection, o)

	cOpts := NewChartOpts(o.Theme)

	for i, slot := range out.Slots {
		page.Add(Section{Width: slotWidths[i], Chart: SlotChart(cOpts, slot)})
	}

	return page
}

// PlaceholderPage is the page shown before a selection is complete.
func PlaceholderPage(sel report.Selection, o DashboardOptions) *Page {
	page := NewPage(o.title(), "").WithTheme(o.Theme)
	page.Selector = selector(sel, o)
	page.Notice = noSelectionTitle

	return page
}

func description(out report.Output) string {
	return fmt.Sprintf("%s for %d, %s flight records",
		out.Selection.Kind.Label(), out.Selection.Year, humanize.Comma(int64(out.Records)))
}

// selector offers every selectable year, including years without records.
func selector(sel report.Selection, o DashboardOptions) *Selector {
	years := report.Years()

	s := &Selector{
		Action: o.Action,
		Kinds:  make([]Option, 0, len(report.Kinds())),
		Years:  make([]Option, 0, len(years)),
	}

	for _, k := range report.Kinds() {
		s.Kinds = append(s.Kinds, Option{Value: k.String(), Label: k.Label(), Selected: k == sel.Kind})
	}

	for _, y := range years {
		s.Years = append(s.Years, Option{Value: strconv.Itoa(y), Label: strconv.Itoa(y), Selected: y == sel.Year})
	}

	return s
}
