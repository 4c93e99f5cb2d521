package load

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
)

// errNonFinite marks a numeric cell holding an infinity.
var errNonFinite = errors.New("value is not finite")

// Column headers of the source dataset.
const (
	colYear               = "Year"
	colMonth              = "Month"
	colReportingAirline   = "Reporting_Airline"
	colOriginState        = "OriginState"
	colDestState          = "DestState"
	colFlights            = "Flights"
	colAirTime            = "AirTime"
	colCancellationCode   = "CancellationCode"
	colDivAirportLandings = "DivAirportLandings"
	colCarrierDelay       = "CarrierDelay"
	colWeatherDelay       = "WeatherDelay"
	colNASDelay           = "NASDelay"
	colSecurityDelay      = "SecurityDelay"
	colLateAircraftDelay  = "LateAircraftDelay"
)

// requiredColumns must appear in every tabular source. The others default to absent.
var requiredColumns = []string{colYear, colMonth, colReportingAirline, colFlights}

// row reads cells of one CSV line by header name.
type row struct {
	index  map[string]int
	cells  []string
	line   int
	errors []error
}

func (r *row) text(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.cells) {
		return ""
	}

	return strings.TrimSpace(r.cells[i])
}

func (r *row) fail(col, cell string, err error) {
	r.errors = append(r.errors, fmt.Errorf("line %d column %s: %w: %q (%w)", r.line, col, ErrInvalidValue, cell, err))
}

// integer parses integer cells, accepting "2016.0" as written by dataframe exports.
func (r *row) integer(col string) int {
	cell := r.text(col)

	n, err := strconv.Atoi(cell)
	if err == nil {
		return n
	}

	f, floatErr := strconv.ParseFloat(cell, 64)
	if floatErr != nil || f != math.Trunc(f) {
		r.fail(col, cell, err)

		return 0
	}

	return int(f)
}

func (r *row) float(col string) float64 {
	v := r.optFloat(col)
	if v == nil {
		return 0
	}

	return *v
}

func (r *row) optFloat(col string) *float64 {
	cell := r.text(col)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return nil
	}

	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		r.fail(col, cell, err)

		return nil
	}

	if math.IsInf(f, 0) {
		r.fail(col, cell, errNonFinite)

		return nil
	}

	return &f
}

// ReadCSV decodes a headered CSV stream. Empty cells are absent values;
// unknown columns are ignored.
func ReadCSV(r io.Reader) ([]flights.Record, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
		}

		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	records := make([]flights.Record, 0)

	for line := 2; ; line++ {
		cells, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return nil, fmt.Errorf("read csv: %w", readErr)
		}

		rec, parseErr := parseRow(&row{index: index, cells: cells, line: line})
		if parseErr != nil {
			return nil, parseErr
		}

		records = append(records, rec)
	}

	return records, nil
}

func parseRow(r *row) (flights.Record, error) {
	rec := flights.Record{
		Year:               r.integer(colYear),
		Month:              r.integer(colMonth),
		ReportingAirline:   r.text(colReportingAirline),
		OriginState:        r.text(colOriginState),
		DestState:          r.text(colDestState),
		Flights:            r.float(colFlights),
		AirTime:            r.optFloat(colAirTime),
		CancellationCode:   flights.String(r.text(colCancellationCode)),
		DivAirportLandings: r.float(colDivAirportLandings),
		CarrierDelay:       r.optFloat(colCarrierDelay),
		WeatherDelay:       r.optFloat(colWeatherDelay),
		NASDelay:           r.optFloat(colNASDelay),
		SecurityDelay:      r.optFloat(colSecurityDelay),
		LateAircraftDelay:  r.optFloat(colLateAircraftDelay),
	}

	if len(r.errors) > 0 {
		return flights.Record{}, errors.Join(r.errors...)
	}

	return rec, nil
}
