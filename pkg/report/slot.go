package report

import (
	"slices"

	"github.com/Sumatoshi-tech/flightboard/pkg/aggregate"
	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
)

// SlotKind tags a slot as carrying a chart or nothing.
type SlotKind string

// Slot kinds.
const (
	SlotChart SlotKind = "chart"
	SlotEmpty SlotKind = "empty"
)

// Slot is one display position. Table and Chart are set only for SlotChart.
type Slot struct {
	Kind  SlotKind         `json:"kind"            yaml:"kind"`
	Table *aggregate.Table `json:"table,omitempty" yaml:"table,omitempty"`
	Chart *ChartSpec       `json:"chart,omitempty" yaml:"chart,omitempty"`
}

// Empty reports whether the slot is the explicit empty marker.
func (s Slot) Empty() bool {
	return s.Kind != SlotChart
}

// Output is everything one pipeline run publishes.
type Output struct {
	Selection Selection         `json:"selection"       yaml:"selection"`
	Records   int               `json:"records"         yaml:"records"`
	Slots     [SlotCount]Slot   `json:"slots"           yaml:"slots"`
	Extra     []aggregate.Table `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Tables returns the tables of the non-empty slots in slot order.
func (o Output) Tables() []aggregate.Table {
	tables := make([]aggregate.Table, 0, SlotCount)

	for _, slot := range o.Slots {
		if slot.Table != nil {
			tables = append(tables, *slot.Table)
		}
	}

	return tables
}

// Table returns the computed table named view, slotted or extra.
func (o Output) Table(view string) (aggregate.Table, bool) {
	for _, t := range o.Tables() {
		if t.View == view {
			return t, true
		}
	}

	for _, t := range o.Extra {
		if t.View == view {
			return t, true
		}
	}

	return aggregate.Table{}, false
}

// MapSlots assigns one table per non-nil panel of layout. tables must be in
// the order returned by Layout.Panels. Unused positions get the empty marker.
func MapSlots(layout Layout, tables []aggregate.Table) [SlotCount]Slot {
	var slots [SlotCount]Slot

	next := 0

	for i, panel := range layout {
		if panel == nil || next >= len(tables) {
			slots[i] = Slot{Kind: SlotEmpty}

			continue
		}

		table := tables[next]
		chart := panel.Chart
		chart.Path = slices.Clone(panel.Chart.Path)
		next++

		slots[i] = Slot{Kind: SlotChart, Table: &table, Chart: &chart}
	}

	return slots
}

// Panels returns the non-nil panels of the layout in slot order.
func (l Layout) Panels() []*Panel {
	panels := make([]*Panel, 0, SlotCount)

	for _, panel := range l {
		if panel != nil {
			panels = append(panels, panel)
		}
	}

	return panels
}

// Build computes every view of kind over records (already filtered to the
// selected year) and maps them onto the slots.
func Build(sel Selection, records []flights.Record) Output {
	layout := sel.Kind.Layout()
	panels := layout.Panels()

	views := make([]aggregate.View, len(panels))
	for i, panel := range panels {
		views[i] = panel.View
	}

	return Output{
		Selection: sel,
		Records:   len(records),
		Slots:     MapSlots(layout, aggregate.ComputeAll(views, records)),
		Extra:     aggregate.ComputeAll(sel.Kind.Extra(), records),
	}
}

// Run filters ds to the selected year and builds the output.
// An incomplete selection returns ErrIncompleteSelection.
func Run(ds *flights.Dataset, sel Selection) (Output, error) {
	err := sel.Validate()
	if err != nil {
		return Output{}, err
	}

	return Build(sel, ds.FilterYear(sel.Year)), nil
}
