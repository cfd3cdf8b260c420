//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package types

import (
	"encoding/json"
	"fmt"
)

// FieldValue represents a field value of the database. This is an empty
// interface, any valid Go type of values is accepted.
//
// The numeric, string, bool, []byte, time.Time, nil, slice and *MapValue Go
// types all map naturally onto database field types.
type FieldValue interface{}

// MapValue represents a row in a table, or a key used in the get and delete
// operations. This is the top-level structure used by the put operations.
//
// A MapValue may keep insertion order of the entries if it is created by the
// NewOrderedMapValue() function. Query results preserve the order of columns
// this way.
type MapValue struct {
	m map[string]interface{}

	// keys stores the insertion order of map entries for an ordered MapValue.
	// It is nil for an unordered MapValue.
	keys []string
}

// NewMapValue creates a MapValue using the specified map of values m.
// The created MapValue does not keep entry insertion order.
func NewMapValue(m map[string]interface{}) *MapValue {
	if m == nil {
		m = make(map[string]interface{})
	}
	return &MapValue{m: m}
}

// NewOrderedMapValue creates an empty MapValue that keeps entry insertion
// order.
func NewOrderedMapValue() *MapValue {
	return &MapValue{
		m:    make(map[string]interface{}),
		keys: make([]string, 0, 8),
	}
}

// NewMapValueFromJSON creates a MapValue from the specified JSON object
// string. It returns an error if jsonStr is not a valid JSON object.
func NewMapValueFromJSON(jsonStr string) (*MapValue, error) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &m); err != nil {
		return nil, err
	}
	return NewMapValue(m), nil
}

// ToMapValue is a convenience function that creates a MapValue that contains
// a single entry of the specified key k and value v.
func ToMapValue(k string, v interface{}) *MapValue {
	return NewMapValue(map[string]interface{}{k: v})
}

// Len returns the number of entries in the MapValue.
func (m *MapValue) Len() int {
	return len(m.m)
}

// IsOrdered reports whether the MapValue keeps entry insertion order.
func (m *MapValue) IsOrdered() bool {
	return m.keys != nil
}

// Map returns the underlying map of values.
func (m *MapValue) Map() map[string]interface{} {
	return m.m
}

// Put sets the value v for the key k. It returns the MapValue itself so that
// Put calls can be chained.
func (m *MapValue) Put(k string, v interface{}) *MapValue {
	if m.m == nil {
		m.m = make(map[string]interface{})
	}

	if _, exists := m.m[k]; !exists && m.keys != nil {
		m.keys = append(m.keys, k)
	}
	m.m[k] = v
	return m
}

// Get returns the value associated with the key k, and a bool flag that
// reports whether the key exists.
func (m *MapValue) Get(k string) (v interface{}, ok bool) {
	v, ok = m.m[k]
	return
}

// GetByIndex returns the key and value of the idx-th inserted entry, using
// zero-based indexing. It is only usable for an ordered MapValue.
func (m *MapValue) GetByIndex(idx int) (k string, v interface{}, ok bool) {
	if m.keys == nil || idx < 0 || idx >= len(m.keys) {
		return "", nil, false
	}

	k = m.keys[idx]
	v, ok = m.m[k]
	return
}

// Delete removes the entry associated with the key k, if present.
func (m *MapValue) Delete(k string) {
	if _, exists := m.m[k]; !exists {
		return
	}

	delete(m.m, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// GetString returns the string value associated with the key k, and a bool
// flag that reports whether the key exists and the value is a string.
func (m *MapValue) GetString(k string) (s string, ok bool) {
	v, ok := m.m[k]
	if !ok {
		return "", false
	}

	s, ok = v.(string)
	return
}

// GetInt returns the int value associated with the key k, and a bool flag
// that reports whether the key exists and the value is numeric.
func (m *MapValue) GetInt(k string) (i int, ok bool) {
	i64, ok := m.GetInt64(k)
	return int(i64), ok
}

// GetInt64 returns the int64 value associated with the key k, and a bool
// flag that reports whether the key exists and the value is numeric.
//
// JSON decoding represents numbers as float64; those values are accepted and
// truncated toward zero.
func (m *MapValue) GetInt64(k string) (i64 int64, ok bool) {
	v, ok := m.m[k]
	if !ok {
		return 0, false
	}

	switch v := v.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

// GetFloat64 returns the float64 value associated with the key k, and a bool
// flag that reports whether the key exists and the value is numeric.
func (m *MapValue) GetFloat64(k string) (f64 float64, ok bool) {
	v, ok := m.m[k]
	if !ok {
		return 0, false
	}

	switch v := v.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	default:
		return 0, false
	}
}

// MarshalJSON returns the JSON encoding of the MapValue.
// An ordered MapValue is encoded with its entries in insertion order.
//
// This implements the json.Marshaler interface.
func (m *MapValue) MarshalJSON() ([]byte, error) {
	if m.keys == nil {
		return json.Marshal(m.m)
	}

	buf := []byte{'{'}
	for i, k := range m.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.m[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	return append(buf, '}'), nil
}

// UnmarshalJSON parses the JSON-encoded data and stores the result in the
// MapValue. Entry insertion order is not preserved.
//
// This implements the json.Unmarshaler interface.
func (m *MapValue) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.m = raw
	m.keys = nil
	return nil
}

// String returns a JSON string representation of the MapValue.
func (m *MapValue) String() string {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Sprintf("MapValue(%v)", m.m)
	}
	return string(b)
}
