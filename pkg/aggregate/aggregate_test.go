package aggregate_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/flightboard/pkg/aggregate"
	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
)

var airTimeByAirline = aggregate.View{
	Name:    "avgAirTimeByAirline",
	Keys:    []aggregate.Column{aggregate.ColMonth, aggregate.ColReportingAirline},
	Value:   aggregate.ColAirTime,
	Reducer: aggregate.Mean,
}

var flightsByOrigin = aggregate.View{
	Name:    "flightsByOriginState",
	Keys:    []aggregate.Column{aggregate.ColOriginState},
	Value:   aggregate.ColFlights,
	Reducer: aggregate.Sum,
}

func TestCompute_MeanSkipsAbsentValues(t *testing.T) {
	t.Parallel()

	records := []flights.Record{
		{Year: 2016, Month: 1, ReportingAirline: "AA", OriginState: "TX", Flights: 10, AirTime: flights.Float(120)},
		{Year: 2016, Month: 1, ReportingAirline: "AA", OriginState: "TX", Flights: 5},
	}

	mean := aggregate.Compute(airTimeByAirline, records)
	got, ok := mean.Lookup("1", "AA")
	require.True(t, ok)
	require.True(t, got.Valid)
	assert.InDelta(t, 120.0, got.Float, 1e-9)

	sum := aggregate.Compute(flightsByOrigin, records)
	total, ok := sum.Lookup("TX")
	require.True(t, ok)
	assert.InDelta(t, 15.0, total.Float, 1e-9)
}

func TestCompute_MeanWithoutContributionsIsMissing(t *testing.T) {
	t.Parallel()

	records := []flights.Record{
		{Year: 2016, Month: 2, ReportingAirline: "DL", Flights: 1},
		{Year: 2016, Month: 2, ReportingAirline: "DL", Flights: 1},
	}

	table := aggregate.Compute(airTimeByAirline, records)
	require.Equal(t, 1, table.Len())

	got := table.Rows[0].Value
	assert.False(t, got.Valid)
	assert.True(t, math.IsNaN(got.Float64()))
	assert.Equal(t, "NaN", got.String())
}

func TestCompute_FirstAppearanceOrder(t *testing.T) {
	t.Parallel()

	records := []flights.Record{
		{Month: 1, OriginState: "NY", Flights: 1},
		{Month: 1, OriginState: "CA", Flights: 1},
		{Month: 1, OriginState: "NY", Flights: 1},
		{Month: 1, OriginState: "AK", Flights: 1},
	}

	table := aggregate.Compute(flightsByOrigin, records)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"NY"}, table.Rows[0].Keys)
	assert.Equal(t, []string{"CA"}, table.Rows[1].Keys)
	assert.Equal(t, []string{"AK"}, table.Rows[2].Keys)
	assert.InDelta(t, 2.0, table.Rows[0].Value.Float, 1e-9)
}

func TestCompute_AbsentKeyDropsRow(t *testing.T) {
	t.Parallel()

	view := aggregate.View{
		Name:    "cancellationsByMonth",
		Keys:    []aggregate.Column{aggregate.ColMonth, aggregate.ColCancellationCode},
		Value:   aggregate.ColFlights,
		Reducer: aggregate.Sum,
	}

	records := []flights.Record{
		{Month: 3, Flights: 1},
		{Month: 3, Flights: 1, CancellationCode: flights.String("A")},
		{Month: 3, Flights: 1, CancellationCode: flights.String("A")},
		{Month: 4, Flights: 1, CancellationCode: flights.String("B")},
	}

	table := aggregate.Compute(view, records)
	require.Equal(t, 2, table.Len())

	a, ok := table.Lookup("3", "A")
	require.True(t, ok)
	assert.InDelta(t, 2.0, a.Float, 1e-9)

	b, ok := table.Lookup("4", "B")
	require.True(t, ok)
	assert.InDelta(t, 1.0, b.Float, 1e-9)
}

func TestCompute_SelectPassesFilteredRecords(t *testing.T) {
	t.Parallel()

	view := aggregate.View{
		Name:    "divertedLandings",
		Keys:    []aggregate.Column{aggregate.ColReportingAirline},
		Value:   aggregate.ColFlights,
		Reducer: aggregate.Select,
		Where:   func(rec *flights.Record) bool { return rec.Diverted() },
	}

	records := []flights.Record{
		{ReportingAirline: "AA", Flights: 1, DivAirportLandings: 1},
		{ReportingAirline: "DL", Flights: 1},
		{ReportingAirline: "AA", Flights: 1, DivAirportLandings: 2},
	}

	table := aggregate.Compute(view, records)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "AA", table.Rows[0].Key(0))
	assert.Equal(t, "AA", table.Rows[1].Key(0))
	assert.Equal(t, aggregate.Select, table.Reducer)
}

func TestCompute_EmptyInput(t *testing.T) {
	t.Parallel()

	table := aggregate.Compute(flightsByOrigin, nil)
	assert.True(t, table.Empty())
	assert.NotNil(t, table.Rows)
	assert.Equal(t, "flightsByOriginState", table.View)
	assert.Equal(t, 0, table.KeyIndex(aggregate.ColOriginState))
	assert.Equal(t, -1, table.KeyIndex(aggregate.ColMonth))
}

func TestCompute_IsDeterministic(t *testing.T) {
	t.Parallel()

	records := []flights.Record{
		{Month: 1, ReportingAirline: "AA", AirTime: flights.Float(100)},
		{Month: 2, ReportingAirline: "UA", AirTime: flights.Float(90)},
		{Month: 1, ReportingAirline: "AA", AirTime: flights.Float(50)},
		{Month: 2, ReportingAirline: "B6"},
	}

	first := aggregate.Compute(airTimeByAirline, records)
	second := aggregate.Compute(airTimeByAirline, records)

	assert.Equal(t, first, second)
}

func TestComputeAll_PreservesViewOrder(t *testing.T) {
	t.Parallel()

	tables := aggregate.ComputeAll([]aggregate.View{flightsByOrigin, airTimeByAirline}, nil)
	require.Len(t, tables, 2)
	assert.Equal(t, "flightsByOriginState", tables[0].View)
	assert.Equal(t, "avgAirTimeByAirline", tables[1].View)
}

func TestValue_EncodesMissingAsNull(t *testing.T) {
	t.Parallel()

	row := aggregate.Row{Keys: []string{"1"}, Value: aggregate.Missing()}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"keys":["1"],"value":null}`, string(data))

	var decoded aggregate.Row
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.Value.Valid)

	out, err := yaml.Marshal(row)
	require.NoError(t, err)
	assert.Contains(t, string(out), "value: null")
}

func TestColumn_MeasureOfTextColumn(t *testing.T) {
	t.Parallel()

	rec := flights.Record{ReportingAirline: "AA"}

	_, ok := aggregate.ColReportingAirline.Measure(&rec)
	assert.False(t, ok)

	key, ok := aggregate.ColFlights.Key(&flights.Record{Flights: 2})
	require.True(t, ok)
	assert.Equal(t, "2", key)
}

func TestCompute_TableOwnsItsKeys(t *testing.T) {
	t.Parallel()

	view := aggregate.View{
		Name:    "flightsByOriginState",
		Keys:    []aggregate.Column{aggregate.ColOriginState},
		Value:   aggregate.ColFlights,
		Reducer: aggregate.Sum,
	}
	records := []flights.Record{{Year: 2016, Month: 1, OriginState: "TX", DestState: "CA", Flights: 2}}

	table := aggregate.Compute(view, records)
	table.Keys[0] = aggregate.ColDestState

	assert.Equal(t, []aggregate.Column{aggregate.ColOriginState}, view.Keys)

	again := aggregate.Compute(view, records)
	_, ok := again.Lookup("TX")
	assert.True(t, ok)
}
