package roi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Optional is a caller-supplied value that may be absent. An absent value
// means "derive it from benchmarks"; a present zero is a real zero.
type Optional struct {
	value float64
	set   bool
}

// Some wraps a supplied value.
func Some(v float64) Optional {
	return Optional{value: v, set: true}
}

// None is the absent value.
func None() Optional {
	return Optional{}
}

// Get returns the value and whether it was supplied.
func (o Optional) Get() (float64, bool) {
	return o.value, o.set
}

// IsSet reports whether a value was supplied.
func (o Optional) IsSet() bool {
	return o.set
}

// OrElse returns the supplied value, or calls fallback when absent.
func (o Optional) OrElse(fallback func() float64) float64 {
	if o.set {
		return o.value
	}
	return fallback()
}

func (o Optional) String() string {
	if !o.set {
		return "none"
	}
	return fmt.Sprintf("%g", o.value)
}

// MarshalJSON encodes an absent value as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as absent and a number as present.
func (o *Optional) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
