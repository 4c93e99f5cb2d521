package aggregate

import (
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
)

// Reducer selects how a group's values are combined.
type Reducer string

// Reducers.
const (
	// Sum adds every present value of the group.
	Sum Reducer = "sum"
	// Mean averages present values; a group with none is Missing.
	Mean Reducer = "mean"
	// Select passes filtered records through, one row per record, without grouping.
	Select Reducer = "select"
)

// Predicate restricts the records a view sees.
type Predicate func(rec *flights.Record) bool

// View is a named aggregate computation: group by Keys, reduce Value.
type View struct {
	Name    string
	Keys    []Column
	Value   Column
	Reducer Reducer
	Where   Predicate
}

// Row is one group (or one selected record) of a Table.
type Row struct {
	Keys  []string `json:"keys"  yaml:"keys"`
	Value Value    `json:"value" yaml:"value"`
}

// Key returns the row key at column index i.
func (r Row) Key(i int) string {
	if i < 0 || i >= len(r.Keys) {
		return ""
	}

	return r.Keys[i]
}

// Table is the ordered result of one View over a set of records.
type Table struct {
	View    string   `json:"view"    yaml:"view"`
	Keys    []Column `json:"keys"    yaml:"keys"`
	Value   Column   `json:"value"   yaml:"value"`
	Reducer Reducer  `json:"reducer" yaml:"reducer"`
	Rows    []Row    `json:"rows"    yaml:"rows"`
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// KeyIndex returns the position of col among the table keys, or -1.
func (t Table) KeyIndex(col Column) int {
	for i, k := range t.Keys {
		if k == col {
			return i
		}
	}

	return -1
}

// Lookup returns the value of the first row whose keys equal keys.
func (t Table) Lookup(keys ...string) (Value, bool) {
	for _, row := range t.Rows {
		if equalKeys(row.Keys, keys) {
			return row.Value, true
		}
	}

	return Missing(), false
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// keySep joins key tuples into map keys. It cannot occur in record codes.
const keySep = "\x1f"

type accumulator struct {
	keys  []string
	sum   float64
	count int
}

// Compute runs view over records. It is pure: the same input always yields
// the same table, and the table shares no memory with view.
// Group order follows first appearance in records.
// Empty input yields a table with no rows.
func Compute(view View, records []flights.Record) Table {
	table := Table{
		View:    view.Name,
		Keys:    slices.Clone(view.Keys),
		Value:   view.Value,
		Reducer: view.Reducer,
		Rows:    []Row{},
	}

	if view.Reducer == Select {
		table.Rows = selectRows(view, records)

		return table
	}

	groups := make(map[string]*accumulator)
	order := make([]*accumulator, 0)

	for i := range records {
		rec := &records[i]
		if view.Where != nil && !view.Where(rec) {
			continue
		}

		keys, ok := groupKeys(view.Keys, rec)
		if !ok {
			continue
		}

		id := strings.Join(keys, keySep)

		acc, seen := groups[id]
		if !seen {
			acc = &accumulator{keys: keys}
			groups[id] = acc
			order = append(order, acc)
		}

		v, present := view.Value.Measure(rec)
		if present {
			acc.sum += v
			acc.count++
		}
	}

	table.Rows = make([]Row, 0, len(order))

	for _, acc := range order {
		table.Rows = append(table.Rows, Row{Keys: acc.keys, Value: reduce(view.Reducer, acc)})
	}

	return table
}

func reduce(reducer Reducer, acc *accumulator) Value {
	switch reducer {
	case Mean:
		if acc.count == 0 {
			return Missing()
		}

		return Some(acc.sum / float64(acc.count))
	default:
		return Some(acc.sum)
	}
}

func selectRows(view View, records []flights.Record) []Row {
	rows := []Row{}

	for i := range records {
		rec := &records[i]
		if view.Where != nil && !view.Where(rec) {
			continue
		}

		keys := make([]string, len(view.Keys))
		for j, col := range view.Keys {
			keys[j], _ = col.Key(rec)
		}

		v, present := view.Value.Measure(rec)

		value := Missing()
		if present {
			value = Some(v)
		}

		rows = append(rows, Row{Keys: keys, Value: value})
	}

	return rows
}

func groupKeys(cols []Column, rec *flights.Record) ([]string, bool) {
	keys := make([]string, len(cols))

	for i, col := range cols {
		key, ok := col.Key(rec)
		if !ok {
			return nil, false
		}

		keys[i] = key
	}

	return keys, true
}

// ComputeAll runs every view over the same records, preserving view order.
func ComputeAll(views []View, records []flights.Record) []Table {
	tables := make([]Table, len(views))

	for i, view := range views {
		tables[i] = Compute(view, records)
	}

	return tables
}
