package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// OptionalFloat is a float64 that may be absent.
//
// It keeps "missing" and "present but zero" apart across every pipeline
// stage. The zero value is absent and marshals to JSON null.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// Some returns a present OptionalFloat holding v.
func Some(v float64) OptionalFloat {
	return OptionalFloat{Value: v, Valid: true}
}

// Null is the absent OptionalFloat.
var Null = OptionalFloat{}

// Get returns the value and whether it is present.
func (o OptionalFloat) Get() (float64, bool) {
	return o.Value, o.Valid
}

// String renders the value the way the exporters need it: shortest decimal
// form, empty when absent.
func (o OptionalFloat) String() string {
	if !o.Valid {
		return ""
	}
	return strconv.FormatFloat(o.Value, 'f', -1, 64)
}

func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Null
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
