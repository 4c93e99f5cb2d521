// Package flights holds the flight-operations record model and the immutable
// in-memory dataset that report pipelines read from.
package flights

import (
	"errors"
	"fmt"
	"math"
)

// Month bounds.
const (
	MinMonth = 1
	MaxMonth = 12
)

// Sentinel validation errors.
var (
	// ErrInvalidMonth indicates a month outside 1..12.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	// ErrNegativeFlights indicates a negative flight count.
	ErrNegativeFlights = errors.New("flights must be non-negative")
	// ErrNonFinite indicates a NaN or infinite measure.
	ErrNonFinite = errors.New("measure must be finite")
)

// Record is one row of the flight-operations dataset.
//
// Optional measures are nil when the source value is absent: AirTime is absent
// for cancelled flights, CancellationCode is present only for cancelled flights,
// and delay causes are present only for delayed, completed flights.
type Record struct {
	Year               int      `json:"Year"`
	Month              int      `json:"Month"`
	ReportingAirline   string   `json:"Reporting_Airline"`
	OriginState        string   `json:"OriginState"`
	DestState          string   `json:"DestState"`
	Flights            float64  `json:"Flights"`
	AirTime            *float64 `json:"AirTime,omitempty"`
	CancellationCode   *string  `json:"CancellationCode,omitempty"`
	DivAirportLandings float64  `json:"DivAirportLandings"`
	CarrierDelay       *float64 `json:"CarrierDelay,omitempty"`
	WeatherDelay       *float64 `json:"WeatherDelay,omitempty"`
	NASDelay           *float64 `json:"NASDelay,omitempty"`
	SecurityDelay      *float64 `json:"SecurityDelay,omitempty"`
	LateAircraftDelay  *float64 `json:"LateAircraftDelay,omitempty"`
}

// Validate checks the record invariants the loaders guarantee to the core.
func (r *Record) Validate() error {
	if r.Month < MinMonth || r.Month > MaxMonth {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, r.Month)
	}

	if r.Flights < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeFlights, r.Flights)
	}

	measures := []struct {
		name  string
		value *float64
	}{
		{"Flights", &r.Flights},
		{"AirTime", r.AirTime},
		{"DivAirportLandings", &r.DivAirportLandings},
		{"CarrierDelay", r.CarrierDelay},
		{"WeatherDelay", r.WeatherDelay},
		{"NASDelay", r.NASDelay},
		{"SecurityDelay", r.SecurityDelay},
		{"LateAircraftDelay", r.LateAircraftDelay},
	}

	for _, m := range measures {
		if m.value != nil && (math.IsNaN(*m.value) || math.IsInf(*m.value, 0)) {
			return fmt.Errorf("%w: %s=%g", ErrNonFinite, m.name, *m.value)
		}
	}

	return nil
}

// Cancelled reports whether the record carries a cancellation code.
func (r *Record) Cancelled() bool {
	return r.CancellationCode != nil && *r.CancellationCode != ""
}

// Diverted reports whether the flight landed at a diversion airport.
func (r *Record) Diverted() bool {
	return r.DivAirportLandings != 0
}

// Float returns a pointer to v. Used to fill optional measures.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to s, or nil when s is empty.
func String(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
