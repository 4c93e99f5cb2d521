package aggregate

import (
	"encoding/json"
	"math"
	"strconv"
)

// Value is a reduced number that may be undefined.
// A mean over a group with no contributing values is undefined, not zero.
type Value struct {
	Float float64
	Valid bool
}

// Some returns a defined Value.
func Some(v float64) Value {
	return Value{Float: v, Valid: true}
}

// Missing returns the undefined Value.
func Missing() Value {
	return Value{}
}

// Float64 returns the value, or NaN when undefined.
func (v Value) Float64() float64 {
	if !v.Valid {
		return math.NaN()
	}

	return v.Float
}

// String formats the value; undefined values print as "NaN".
func (v Value) String() string {
	if !v.Valid {
		return "NaN"
	}

	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

// MarshalJSON encodes undefined values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(v.Float)
}

// UnmarshalJSON decodes null as an undefined value.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Missing()

		return nil
	}

	var f float64

	err := json.Unmarshal(data, &f)
	if err != nil {
		return err
	}

	*v = Some(f)

	return nil
}

// MarshalYAML encodes undefined values as null.
func (v Value) MarshalYAML() (any, error) {
	if !v.Valid {
		return nil, nil
	}

	return v.Float, nil
}
