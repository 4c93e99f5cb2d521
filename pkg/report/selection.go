package report

import (
	"errors"
	"fmt"
)

// ErrIncompleteSelection indicates that the kind or the year is not set.
var ErrIncompleteSelection = errors.New("incomplete selection")

// Selection is the (kind, year) pair driving one pipeline run.
// The zero value has both fields unset. Year 0 means unset.
type Selection struct {
	Kind Kind `json:"kind" yaml:"kind"`
	Year int  `json:"year" yaml:"year"`
}

// Complete reports whether both fields hold selectable values.
func (s Selection) Complete() bool {
	return s.Kind.Valid() && ValidYear(s.Year)
}

// Validate returns nil for a complete selection. An unset field yields
// ErrIncompleteSelection; a set but out-of-range field yields ErrInvalidKind
// or ErrInvalidYear.
func (s Selection) Validate() error {
	if s.Kind == KindUnset || s.Year == 0 {
		return fmt.Errorf("%w: %s", ErrIncompleteSelection, s)
	}

	if !s.Kind.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidKind, s.Kind)
	}

	if !ValidYear(s.Year) {
		return fmt.Errorf("%w: %d not in %d..%d", ErrInvalidYear, s.Year, MinYear, MaxYear)
	}

	return nil
}

func (s Selection) String() string {
	year := "unset"
	if s.Year != 0 {
		year = fmt.Sprint(s.Year)
	}

	return fmt.Sprintf("kind=%s year=%s", s.Kind, year)
}
