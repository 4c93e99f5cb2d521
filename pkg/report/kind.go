// Package report maps a (report kind, year) selection onto the fixed set of
// aggregate views and the five ordered output slots of the dashboard.
package report

import (
	"errors"
	"fmt"
	"strings"
)

// Year bounds of the selectable range.
const (
	MinYear = 2005
	MaxYear = 2020
)

// Sentinel selection errors.
var (
	// ErrInvalidKind indicates an unknown report kind.
	ErrInvalidKind = errors.New("invalid report kind")
	// ErrInvalidYear indicates a year outside the selectable range.
	ErrInvalidYear = errors.New("invalid year")
)

// Kind is the report type. The zero value is "unset".
type Kind int

// Report kinds.
const (
	KindUnset Kind = iota
	// KindPerformance is the yearly airline performance report.
	KindPerformance
	// KindDelay is the yearly airline delay-cause report.
	KindDelay
)

// Kinds lists the selectable kinds in display order.
func Kinds() []Kind {
	return []Kind{KindPerformance, KindDelay}
}

// Valid reports whether k is a selectable kind.
func (k Kind) Valid() bool {
	return k == KindPerformance || k == KindDelay
}

// String returns the canonical lower-case name.
func (k Kind) String() string {
	switch k {
	case KindPerformance:
		return "performance"
	case KindDelay:
		return "delay"
	case KindUnset:
		return "unset"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Label returns the human-readable report name.
func (k Kind) Label() string {
	switch k {
	case KindPerformance:
		return "Yearly Airline Performance Report"
	case KindDelay:
		return "Yearly Airline Delay Report"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	if s := string(text); s == "" || s == KindUnset.String() {
		*k = KindUnset

		return nil
	}

	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

// ParseKind accepts "performance", "delay" and the dropdown values "OPT1", "OPT2".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "performance", "opt1":
		return KindPerformance, nil
	case "delay", "opt2":
		return KindDelay, nil
	default:
		return KindUnset, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// ValidYear reports whether year lies in the selectable range.
func ValidYear(year int) bool {
	return year >= MinYear && year <= MaxYear
}

// Years lists the selectable years in ascending order.
func Years() []int {
	years := make([]int, 0, MaxYear-MinYear+1)
	for y := MinYear; y <= MaxYear; y++ {
		years = append(years, y)
	}

	return years
}
