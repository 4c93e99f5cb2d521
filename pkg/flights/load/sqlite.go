package load

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
)

// ErrEmptyTable indicates a SQLite source without a table name.
var ErrEmptyTable = errors.New("sqlite table name is empty")

// sqliteColumns is the SELECT list, in scan order.
var sqliteColumns = []string{
	colYear, colMonth, colReportingAirline, colOriginState, colDestState,
	colFlights, colAirTime, colCancellationCode, colDivAirportLandings,
	colCarrierDelay, colWeatherDelay, colNASDelay, colSecurityDelay, colLateAircraftDelay,
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ReadSQLite reads every row of table from the database at path. NULL cells
// are absent values. The database must already exist.
func ReadSQLite(ctx context.Context, path, table string) ([]flights.Record, error) {
	if table == "" {
		return nil, ErrEmptyTable
	}

	_, statErr := os.Stat(path)
	if statErr != nil {
		return nil, fmt.Errorf("open sqlite: %w", statErr)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	cols := make([]string, len(sqliteColumns))
	for i, c := range sqliteColumns {
		cols[i] = quoteIdent(c)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), quoteIdent(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	records := make([]flights.Record, 0)

	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(records)+1, scanErr)
		}

		records = append(records, rec)
	}

	rowsErr := rows.Err()
	if rowsErr != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, rowsErr)
	}

	return records, nil
}

func scanRecord(rows *sql.Rows) (flights.Record, error) {
	var (
		rec                         flights.Record
		origin, dest, code          sql.NullString
		diverted                    sql.NullFloat64
		airTime, carrier, weather   sql.NullFloat64
		nas, security, lateAircraft sql.NullFloat64
	)

	err := rows.Scan(
		&rec.Year, &rec.Month, &rec.ReportingAirline, &origin, &dest,
		&rec.Flights, &airTime, &code, &diverted,
		&carrier, &weather, &nas, &security, &lateAircraft,
	)
	if err != nil {
		return flights.Record{}, fmt.Errorf("scan: %w", err)
	}

	rec.OriginState = origin.String
	rec.DestState = dest.String
	rec.CancellationCode = flights.String(code.String)
	rec.DivAirportLandings = diverted.Float64
	rec.AirTime = nullFloat(airTime)
	rec.CarrierDelay = nullFloat(carrier)
	rec.WeatherDelay = nullFloat(weather)
	rec.NASDelay = nullFloat(nas)
	rec.SecurityDelay = nullFloat(security)
	rec.LateAircraftDelay = nullFloat(lateAircraft)

	return rec, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}

	return flights.Float(v.Float64)
}
