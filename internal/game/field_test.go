// SPDX-License-Identifier: MIT

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldKeys_Bijective(t *testing.T) {
	seen := make(map[string]Field)
	for _, f := range Fields() {
		key := f.Key()
		require.NotEmpty(t, key, "field %d has no key", f)
		if prev, dup := seen[key]; dup {
			t.Fatalf("key %q shared by %d and %d", key, prev, f)
		}
		seen[key] = f

		back, ok := FieldByKey(key)
		require.True(t, ok)
		assert.Equal(t, f, back)
	}
	assert.Len(t, seen, fieldCount)
}

func TestFields_DeclarationOrder(t *testing.T) {
	want := []string{"UUID", "exe", "name", "desc", "panel", "movieList", "imageList", "gameID", "lastMod"}
	var got []string
	for _, f := range Fields() {
		got = append(got, f.String())
	}
	assert.Equal(t, want, got)
}

func TestFieldByKey_Unknown(t *testing.T) {
	for _, key := range []string{"", "uuid", "Name", "gameId", "executable"} {
		_, ok := FieldByKey(key)
		assert.False(t, ok, "key %q", key)
	}
}

func TestField_Invalid(t *testing.T) {
	f := Field(42)
	assert.False(t, f.Valid())
	assert.Equal(t, "", f.Key())
	assert.Equal(t, "Field(42)", f.String())
}

func TestFieldSet(t *testing.T) {
	s := NewFieldSet(FieldLastMod, FieldName, FieldName)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(FieldName))
	assert.False(t, s.Has(FieldDesc))
	assert.Equal(t, []Field{FieldName, FieldLastMod}, s.Fields())
	assert.Equal(t, "[name,lastMod]", s.String())

	s = s.Remove(FieldName).Add(FieldUUID).Add(Field(99))
	assert.Equal(t, []Field{FieldUUID, FieldLastMod}, s.Fields())

	assert.Equal(t, fieldCount, AllFields().Len())
	assert.Equal(t, Fields(), AllFields().Fields())
	assert.Zero(t, FieldSet(0).Len())
}
