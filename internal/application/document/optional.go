package document

import (
	"bytes"
	"encoding/json"
)

// Optional is a request field that distinguishes "absent" from "null".
// Set is false when the field was not in the payload; Value is nil when the
// payload carried null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a set Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a set Optional holding nothing
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON is only called for fields present in the payload
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON writes the value or null
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// IsNull reports whether the field was sent as null
func (o Optional[T]) IsNull() bool {
	return o.Set && o.Value == nil
}

// Apply returns the new value when the field was sent, else current
func (o Optional[T]) Apply(current *T) *T {
	if !o.Set {
		return current
	}
	return o.Value
}

// Or returns the value, or def when absent or null
func (o Optional[T]) Or(def T) T {
	if o.Value == nil {
		return def
	}
	return *o.Value
}

// Resolve returns current when absent, the zero value when null and the
// sent value otherwise
func (o Optional[T]) Resolve(current T) T {
	if !o.Set {
		return current
	}
	var zero T
	return o.Or(zero)
}
