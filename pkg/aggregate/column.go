// Package aggregate groups flight records by key columns and reduces one
// numeric column per group into an ordered Table.
package aggregate

import (
	"strconv"

	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
)

// Column names a field of flights.Record. Names follow the source dataset headers.
type Column string

// Record columns.
const (
	ColYear               Column = "Year"
	ColMonth              Column = "Month"
	ColReportingAirline   Column = "Reporting_Airline"
	ColOriginState        Column = "OriginState"
	ColDestState          Column = "DestState"
	ColFlights            Column = "Flights"
	ColAirTime            Column = "AirTime"
	ColCancellationCode   Column = "CancellationCode"
	ColDivAirportLandings Column = "DivAirportLandings"
	ColCarrierDelay       Column = "CarrierDelay"
	ColWeatherDelay       Column = "WeatherDelay"
	ColNASDelay           Column = "NASDelay"
	ColSecurityDelay      Column = "SecurityDelay"
	ColLateAircraftDelay  Column = "LateAircraftDelay"
)

// Key returns the grouping key of rec for this column.
// ok is false when the value is absent; such rows do not join any group.
func (c Column) Key(rec *flights.Record) (key string, ok bool) {
	switch c {
	case ColYear:
		return strconv.Itoa(rec.Year), true
	case ColMonth:
		return strconv.Itoa(rec.Month), true
	case ColReportingAirline:
		return rec.ReportingAirline, rec.ReportingAirline != ""
	case ColOriginState:
		return rec.OriginState, rec.OriginState != ""
	case ColDestState:
		return rec.DestState, rec.DestState != ""
	case ColCancellationCode:
		if !rec.Cancelled() {
			return "", false
		}

		return *rec.CancellationCode, true
	}

	v, ok := c.Measure(rec)
	if !ok {
		return "", false
	}

	return strconv.FormatFloat(v, 'f', -1, 64), true
}

// Measure returns the numeric value of rec for this column.
// ok is false when the value is absent or the column is not numeric.
func (c Column) Measure(rec *flights.Record) (value float64, ok bool) {
	switch c {
	case ColYear:
		return float64(rec.Year), true
	case ColMonth:
		return float64(rec.Month), true
	case ColFlights:
		return rec.Flights, true
	case ColDivAirportLandings:
		return rec.DivAirportLandings, true
	case ColAirTime:
		return deref(rec.AirTime)
	case ColCarrierDelay:
		return deref(rec.CarrierDelay)
	case ColWeatherDelay:
		return deref(rec.WeatherDelay)
	case ColNASDelay:
		return deref(rec.NASDelay)
	case ColSecurityDelay:
		return deref(rec.SecurityDelay)
	case ColLateAircraftDelay:
		return deref(rec.LateAircraftDelay)
	default:
		return 0, false
	}
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}

	return *p, true
}
