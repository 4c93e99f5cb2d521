package load_test

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
	"github.com/Sumatoshi-tech/flightboard/pkg/flights/load"
)

const sampleCSV = `Year,Month,DayofMonth,Reporting_Airline,OriginState,DestState,Flights,AirTime,CancellationCode,DivAirportLandings,CarrierDelay,WeatherDelay,NASDelay,SecurityDelay,LateAircraftDelay
2016,1,4,AA,TX,CA,1.0,120.0,,0,,,,,
2016,1,5,AA,TX,NY,1.0,,A,0,,,,,
2019.0,7,1,DL,GA,FL,1.0,95.5,,1,15,0,3,0,22
`

const sampleJSON = `[
  {"Year": 2016, "Month": 1, "Reporting_Airline": "AA", "OriginState": "TX", "DestState": "CA",
   "Flights": 1, "AirTime": 120, "CancellationCode": null, "DivAirportLandings": 0},
  {"Year": 2019, "Month": 7, "Reporting_Airline": "DL", "Flights": 1, "CarrierDelay": 15}
]`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func compress(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer

	w := lz4.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := load.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, load.FormatAuto, f)

	f, err = load.ParseFormat("SQLite")
	require.NoError(t, err)
	assert.Equal(t, load.FormatSQLite, f)

	_, err = load.ParseFormat("parquet")
	require.ErrorIs(t, err, load.ErrUnknownFormat)
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]load.Format{
		"airline_data.csv":     load.FormatCSV,
		"airline_data.CSV.lz4": load.FormatCSV,
		"records.json.lz4":     load.FormatJSON,
		"flights.sqlite3":      load.FormatSQLite,
		"flights.db":           load.FormatSQLite,
	}

	for path, want := range tests {
		got, err := load.DetectFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := load.DetectFormat("flights.xlsx")
	require.ErrorIs(t, err, load.ErrUnknownFormat)
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	records, err := load.ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, 2016, first.Year)
	assert.Equal(t, "AA", first.ReportingAirline)
	require.NotNil(t, first.AirTime)
	assert.InDelta(t, 120.0, *first.AirTime, 1e-9)
	assert.Nil(t, first.CancellationCode)
	assert.Nil(t, first.CarrierDelay)

	assert.Nil(t, records[1].AirTime)
	require.NotNil(t, records[1].CancellationCode)
	assert.Equal(t, "A", *records[1].CancellationCode)

	third := records[2]
	assert.Equal(t, 2019, third.Year)
	assert.True(t, third.Diverted())
	require.NotNil(t, third.LateAircraftDelay)
	assert.InDelta(t, 22.0, *third.LateAircraftDelay, 1e-9)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	t.Parallel()

	_, err := load.ReadCSV(strings.NewReader("Year,Month,Flights\n2016,1,1\n"))
	require.ErrorIs(t, err, load.ErrMissingColumn)

	_, err = load.ReadCSV(strings.NewReader(""))
	require.ErrorIs(t, err, load.ErrMissingColumn)
}

func TestReadCSV_InvalidValue(t *testing.T) {
	t.Parallel()

	_, err := load.ReadCSV(strings.NewReader("Year,Month,Reporting_Airline,Flights,AirTime\n2016,1,AA,1,fast\n"))
	require.ErrorIs(t, err, load.ErrInvalidValue)
	assert.Contains(t, err.Error(), "line 2 column AirTime")
}

func TestReadCSV_RejectsInfiniteMeasure(t *testing.T) {
	t.Parallel()

	_, err := load.ReadCSV(strings.NewReader("Year,Month,Reporting_Airline,Flights,CarrierDelay\n2016,1,AA,1,Inf\n"))
	require.ErrorIs(t, err, load.ErrInvalidValue)
	assert.Contains(t, err.Error(), "line 2 column CarrierDelay")
}

func TestReadJSON(t *testing.T) {
	t.Parallel()

	records, err := load.ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Nil(t, records[0].CancellationCode)
	assert.Empty(t, records[1].OriginState)
	require.NotNil(t, records[1].CarrierDelay)
	assert.InDelta(t, 15.0, *records[1].CarrierDelay, 1e-9)
}

func TestReadJSON_SchemaViolation(t *testing.T) {
	t.Parallel()

	_, err := load.ReadJSON(strings.NewReader(`[{"Year": 2016, "Month": 13, "Flights": -1}]`))
	require.ErrorIs(t, err, load.ErrSchema)
	assert.Contains(t, err.Error(), "Reporting_Airline")
}

func TestOpen_CSVAndCompressedCSV(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	plain, err := load.Open(ctx, writeFile(t, "airline_data.csv", []byte(sampleCSV)), load.Options{Logger: quietLogger()})
	require.NoError(t, err)

	packed, err := load.Open(ctx,
		writeFile(t, "airline_data.csv.lz4", compress(t, []byte(sampleCSV))),
		load.Options{Logger: quietLogger()},
	)
	require.NoError(t, err)

	assert.Equal(t, plain.All(), packed.All())
	assert.Equal(t, []int{2016, 2019}, packed.Years())
}

func TestOpen_ExplicitFormatOverridesExtension(t *testing.T) {
	t.Parallel()

	ds, err := load.Open(context.Background(), writeFile(t, "records.txt", []byte(sampleJSON)),
		load.Options{Format: load.FormatJSON, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestOpen_RejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	data := "Year,Month,Reporting_Airline,Flights\n2016,0,AA,1\n"

	_, err := load.Open(context.Background(), writeFile(t, "bad.csv", []byte(data)), load.Options{Logger: quietLogger()})
	require.ErrorIs(t, err, flights.ErrInvalidMonth)
}

func TestOpen_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := load.Open(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), load.Options{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_LogsSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err := load.Open(context.Background(), writeFile(t, "airline_data.csv", []byte(sampleCSV)),
		load.Options{Logger: logger})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "msg=\"dataset loaded\"")
	assert.Contains(t, buf.String(), "records=3")
	assert.Contains(t, buf.String(), "format=csv")
}

func createSQLite(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flights.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE ontime (
		Year INTEGER, Month INTEGER, Reporting_Airline TEXT, OriginState TEXT, DestState TEXT,
		Flights REAL, AirTime REAL, CancellationCode TEXT, DivAirportLandings REAL,
		CarrierDelay REAL, WeatherDelay REAL, NASDelay REAL, SecurityDelay REAL, LateAircraftDelay REAL)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO ontime VALUES
		(2020, 3, 'WN', 'TX', 'CO', 1, 90, NULL, 0, 7, NULL, NULL, NULL, NULL),
		(2020, 4, 'WN', 'TX', NULL, 1, NULL, 'B', NULL, NULL, NULL, NULL, NULL, NULL)`)
	require.NoError(t, err)

	return path
}

func TestReadSQLite(t *testing.T) {
	t.Parallel()

	records, err := load.ReadSQLite(context.Background(), createSQLite(t), "ontime")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "WN", records[0].ReportingAirline)
	require.NotNil(t, records[0].CarrierDelay)
	assert.InDelta(t, 7.0, *records[0].CarrierDelay, 1e-9)
	assert.Nil(t, records[0].WeatherDelay)

	assert.Empty(t, records[1].DestState)
	assert.True(t, records[1].Cancelled())
	assert.Nil(t, records[1].AirTime)
}

func TestOpen_SQLite(t *testing.T) {
	t.Parallel()

	ds, err := load.Open(context.Background(), createSQLite(t),
		load.Options{Table: "ontime", Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, []int{2020}, ds.Years())

	_, err = load.ReadSQLite(context.Background(), createSQLite(t), "")
	require.ErrorIs(t, err, load.ErrEmptyTable)
}
