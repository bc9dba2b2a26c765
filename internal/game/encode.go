// SPDX-License-Identifier: MIT

package game

import (
	"bytes"
	"encoding/json"
)

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object that keeps its members in insertion order.
type Object struct {
	members []Member
}

// Members returns the members in order.
func (o *Object) Members() []Member { return o.members }

// Len returns the number of members.
func (o *Object) Len() int { return len(o.members) }

// Keys returns the member keys in order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	for _, m := range o.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

func (o *Object) append(key string, v any) {
	o.members = append(o.members, Member{Key: key, Value: v})
}

// MarshalJSON writes the members in order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode converts r to a JSON object in field declaration order.
//
// UUID and exe are always present and hold null when unset. All other
// fields are omitted when unset or empty.
func Encode(r *Record) *Object {
	obj := &Object{members: make([]Member, 0, fieldCount)}
	for i := range fieldTable {
		f := Field(i)
		if v, ok := fieldTable[f].encode(r); ok {
			obj.append(f.Key(), v)
		}
	}
	return obj
}

// EncodeJSON is Encode followed by compact serialisation.
func EncodeJSON(r *Record) ([]byte, error) {
	return json.Marshal(Encode(r))
}

// MarshalJSON implements json.Marshaler using Encode.
func (r *Record) MarshalJSON() ([]byte, error) {
	return EncodeJSON(r)
}
