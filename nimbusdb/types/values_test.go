//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapValue(t *testing.T) {
	m := NewMapValue(map[string]interface{}{"id": 1, "name": "jane"})
	assert.Equal(t, 2, m.Len())
	assert.False(t, m.IsOrdered())

	v, ok := m.Get("id")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	s, ok := m.GetString("name")
	assert.True(t, ok)
	assert.Equal(t, "jane", s)

	_, ok = m.GetString("id")
	assert.False(t, ok, "GetString on an int value should report false")

	m.Delete("name")
	assert.Equal(t, 1, m.Len())
}

func TestOrderedMapValue(t *testing.T) {
	m := NewOrderedMapValue()
	m.Put("c", 3).Put("a", 1).Put("b", 2)
	require.True(t, m.IsOrdered())
	require.Equal(t, 3, m.Len())

	wantKeys := []string{"c", "a", "b"}
	for i, want := range wantKeys {
		k, _, ok := m.GetByIndex(i)
		require.True(t, ok)
		assert.Equal(t, want, k)
	}

	_, _, ok := m.GetByIndex(3)
	assert.False(t, ok)

	// insertion order must survive JSON encoding
	b, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"c":3,"a":1,"b":2}`, string(b))

	// overwriting an existing key must not duplicate it
	m.Put("a", 10)
	require.Equal(t, 3, m.Len())
	k, v, ok := m.GetByIndex(1)
	require.True(t, ok)
	assert.Equal(t, "a", k)
	assert.Equal(t, 10, v)

	m.Delete("c")
	k, _, ok = m.GetByIndex(0)
	require.True(t, ok)
	assert.Equal(t, "a", k)
}

func TestMapValueFromJSON(t *testing.T) {
	m, err := NewMapValueFromJSON(`{"id": 7, "score": 1.5, "tags": ["x"]}`)
	require.NoError(t, err)

	i, ok := m.GetInt("id")
	assert.True(t, ok)
	assert.Equal(t, 7, i)

	f, ok := m.GetFloat64("score")
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	_, err = NewMapValueFromJSON(`[1, 2, 3]`)
	assert.Error(t, err, "a JSON array is not a valid MapValue")
}

func TestNumericGetters(t *testing.T) {
	m := NewMapValue(map[string]interface{}{
		"i":   int(3),
		"i64": int64(9),
		"f":   2.75,
	})

	i64, ok := m.GetInt64("i")
	assert.True(t, ok)
	assert.Equal(t, int64(3), i64)

	i64, ok = m.GetInt64("f")
	assert.True(t, ok)
	assert.Equal(t, int64(2), i64, "float values truncate toward zero")

	f, ok := m.GetFloat64("i64")
	assert.True(t, ok)
	assert.Equal(t, 9.0, f)

	_, ok = m.GetInt64("missing")
	assert.False(t, ok)
}

func TestStates(t *testing.T) {
	assert.True(t, Active.IsTerminal())
	assert.True(t, Dropped.IsTerminal())
	assert.False(t, Creating.IsTerminal())
	assert.False(t, Dropping.IsTerminal())
	assert.False(t, Updating.IsTerminal())

	assert.Equal(t, "Dropped", Dropped.String())
	assert.Equal(t, "\"Active\"", Active.GoString())
	assert.Equal(t, "Complete", Complete.String())
	assert.Equal(t, "Eventual", Eventual.String())
}
