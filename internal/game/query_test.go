// SPDX-License-Identifier: MIT

package game

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_SkipsUnsetFields(t *testing.T) {
	r := (&Record{}).SetName("Foo")
	p := Query(r, NewFieldSet(FieldName, FieldDesc))
	require.Len(t, p, 1)
	assert.Equal(t, FieldName, p[0].Field)
	assert.Equal(t, "{name : Foo}", p.String())
	_, ok := p.Get(FieldDesc)
	assert.False(t, ok)
}

func TestQuery_RendersEveryField(t *testing.T) {
	r := fullRecord()
	p := Query(r, AllFields())
	require.Equal(t, fieldCount, len(p))

	want := "{UUID : " + r.UUID().String() +
		", exe : games/pong/pong.exe" +
		", name : Pong" +
		", desc : Two paddles" +
		", panel : games/pong/panel.png" +
		", movieList : [m1.mp4, m2.mp4]" +
		", imageList : [a.png, b.png, a.png]" +
		", gameID : 12" +
		", lastMod : 2018-04-01T03:30:00.5Z}"
	assert.Equal(t, want, p.String())
	assert.Equal(t, AllFields(), p.Fields())
}

func TestQuery_EmptySet(t *testing.T) {
	p := Query(fullRecord(), 0)
	assert.Empty(t, p)
	assert.Equal(t, "{}", p.String())
}

func TestProjection_MarshalJSON(t *testing.T) {
	r := New().SetGameID(5).SetName("Foo")
	p := Query(r, NewFieldSet(FieldGameID, FieldName, FieldUUID))
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"UUID":"`+r.UUID().String()+`","name":"Foo","gameID":"5"}`, string(data))
}

func TestParsePredicate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want FieldSet
	}{
		{"empty object forces UUID", `{}`, NewFieldSet(FieldUUID)},
		{"name selects name plus UUID", `{"name": true}`, NewFieldSet(FieldUUID, FieldName)},
		{"false excludes", `{"name": false, "desc": true}`, NewFieldSet(FieldUUID, FieldDesc)},
		// UUID is forced in unless the predicate sets it to false itself.
		{"explicit UUID false", `{"name": true, "UUID": false}`, NewFieldSet(FieldName)},
		{"explicit UUID true", `{"UUID": true}`, NewFieldSet(FieldUUID)},
		{"unknown keys ignored", `{"publisher": 3, "gameID": true}`, NewFieldSet(FieldUUID, FieldGameID)},
		{"all", `{"UUID":true,"exe":true,"name":true,"desc":true,"panel":true,"movieList":true,"imageList":true,"gameID":true,"lastMod":true}`, AllFields()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePredicate(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Fields(), got.Fields())
		})
	}
}

func TestParsePredicate_Invalid(t *testing.T) {
	for _, text := range []string{
		``,
		`{`,
		`[]`,
		`null`,
		`"name"`,
		`{"name": "true"}`,
		`{"name": 1}`,
		`{"UUID": null}`,
		`{"name": true} trailing`,
	} {
		_, err := ParsePredicate(text)
		assert.ErrorIs(t, err, ErrInvalidQuery, "text %q", text)
	}
}

func TestQueryJSON(t *testing.T) {
	id := uuid.MustParse(testUUID)
	r := (&Record{}).SetUUID(id).SetName("Foo").SetExe("foo.exe")

	p, err := QueryJSON(r, `{"name": true}`)
	require.NoError(t, err)
	assert.Equal(t, "{UUID : "+testUUID+", name : Foo}", p.String())

	p, err = QueryJSON(r, `{"name": true, "UUID": false}`)
	require.NoError(t, err)
	assert.Equal(t, "{name : Foo}", p.String())

	p, err = QueryJSON(r, `{"name": "yes"}`)
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Nil(t, p)
}

func TestQueryJSON_UnsetUUIDSkipped(t *testing.T) {
	p, err := QueryJSON((&Record{}).SetDesc("d"), `{"desc": true}`)
	require.NoError(t, err)
	assert.Equal(t, "{desc : d}", p.String())
}

func TestParseFieldList(t *testing.T) {
	set, err := ParseFieldList(" name, lastMod ,,UUID")
	require.NoError(t, err)
	assert.Equal(t, []Field{FieldUUID, FieldName, FieldLastMod}, set.Fields())

	set, err = ParseFieldList("")
	require.NoError(t, err)
	assert.Zero(t, set.Len())

	_, err = ParseFieldList("name,bogus")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}
