package textreport_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
	"github.com/Sumatoshi-tech/flightboard/pkg/report"
	"github.com/Sumatoshi-tech/flightboard/pkg/textreport"
)

func performanceOutput(t *testing.T) report.Output {
	t.Helper()

	ds := flights.NewDataset([]flights.Record{
		{Year: 2016, Month: 1, ReportingAirline: "AA", OriginState: "TX", DestState: "CA", Flights: 1, AirTime: flights.Float(120)},
		{Year: 2016, Month: 1, ReportingAirline: "UA", OriginState: "IL", DestState: "CA", Flights: 1},
		{Year: 2016, Month: 2, ReportingAirline: "AA", OriginState: "TX", Flights: 1, CancellationCode: flights.String("A")},
	})

	out, err := report.Run(ds, report.Selection{Kind: report.KindPerformance, Year: 2016})
	require.NoError(t, err)

	return out
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]textreport.Format{
		"":      textreport.FormatText,
		"table": textreport.FormatText,
		"JSON":  textreport.FormatJSON,
		"yml":   textreport.FormatYAML,
	} {
		got, err := textreport.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := textreport.ParseFormat("xml")
	require.ErrorIs(t, err, textreport.ErrUnknownFormat)
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, textreport.WriteText(&buf, performanceOutput(t), textreport.Options{NoColor: true}))

	text := buf.String()
	assert.True(t, strings.HasPrefix(text, "Yearly Airline Performance Report 2016\n"))
	assert.Contains(t, text, "3 flight records")
	assert.Contains(t, text, "[1] Monthly Flight Cancellation")
	assert.Contains(t, text, "[2] Average monthly flight time (minutes) by airline")
	assert.Contains(t, text, "[5] empty")
	assert.Contains(t, text, "[+] flightsByOriginState")
	assert.Contains(t, text, "120.00")
	assert.Contains(t, text, "n/a")
	assert.NotContains(t, text, "\x1b[")
}

func TestWriteText_MaxRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, textreport.WriteText(&buf, performanceOutput(t), textreport.Options{MaxRows: 1, NoColor: true}))
	assert.Contains(t, buf.String(), "Showing 1 of 2 rows")
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, textreport.Write(&buf, performanceOutput(t), textreport.FormatJSON, textreport.Options{}))

	var decoded struct {
		Selection struct {
			Kind string `json:"kind"`
			Year int    `json:"year"`
		} `json:"selection"`
		Slots []struct {
			Kind string `json:"kind"`
		} `json:"slots"`
	}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "performance", decoded.Selection.Kind)
	assert.Equal(t, 2016, decoded.Selection.Year)
	require.Len(t, decoded.Slots, report.SlotCount)
	assert.Equal(t, "empty", decoded.Slots[4].Kind)
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, textreport.Write(&buf, performanceOutput(t), textreport.FormatYAML, textreport.Options{}))

	var decoded map[string]any

	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded["records"])
	assert.Contains(t, buf.String(), "value: null")
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := textreport.Write(&bytes.Buffer{}, report.Output{}, textreport.Format("xml"), textreport.Options{})
	require.ErrorIs(t, err, textreport.ErrUnknownFormat)
}
