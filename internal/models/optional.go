package models

import (
	"bytes"
	"encoding/json"
)

// Optional records whether a document field was present and whether it
// was an explicit null. An absent Optional is dropped from JSON output
// (with the omitzero tag); a null one is written back as null.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a present, non-null Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns a present Optional holding an explicit null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Get returns the value and whether one is held
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set && !o.Null
}

func (o Optional[T]) IsZero() bool {
	return !o.Set
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON only runs for keys present in the document, so reaching it
// means the field is set.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var zero T
	o.Value = zero
	o.Set = true
	o.Null = bytes.Equal(bytes.TrimSpace(data), []byte("null"))
	if o.Null {
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
