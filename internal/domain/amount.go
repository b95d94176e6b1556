package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Amount is a numeric invoice value. Form input that fails numeric coercion
// becomes NaN and is forwarded to the backend rather than rejected locally;
// on the wire NaN is encoded as JSON null, which is what the backend's
// validators see and reject.
type Amount float64

// IsNaN reports whether the amount is the result of a failed coercion.
func (a Amount) IsNaN() bool {
	return math.IsNaN(float64(a))
}

// String formats the amount for display and for form edit buffers.
func (a Amount) String() string {
	return strconv.FormatFloat(float64(a), 'f', -1, 64)
}

// MarshalJSON encodes NaN and infinities as null; encoding/json would
// otherwise refuse to marshal them.
func (a Amount) MarshalJSON() ([]byte, error) {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON decodes a JSON number, mapping null back to NaN.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Amount(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}
