// SPDX-License-Identifier: MIT

// Package game holds the in-memory game record together with its tolerant
// JSON decoder, canonical encoder and projection queries.
package game

import (
	"math/bits"
	"strconv"
	"strings"
)

// Field identifies one independently decodable attribute of a Record.
type Field uint8

// Declaration order is the canonical order for encoding and query output.
const (
	FieldUUID Field = iota
	FieldExe
	FieldName
	FieldDesc
	FieldPanel
	FieldMovieList
	FieldImageList
	FieldGameID
	FieldLastMod

	fieldCount int = iota
)

var fieldKeys = [fieldCount]string{
	FieldUUID:      "UUID",
	FieldExe:       "exe",
	FieldName:      "name",
	FieldDesc:      "desc",
	FieldPanel:     "panel",
	FieldMovieList: "movieList",
	FieldImageList: "imageList",
	FieldGameID:    "gameID",
	FieldLastMod:   "lastMod",
}

var fieldsByKey = func() map[string]Field {
	m := make(map[string]Field, fieldCount)
	for i, key := range fieldKeys {
		m[key] = Field(i)
	}
	return m
}()

// Key returns the external document key of f.
func (f Field) Key() string {
	if !f.Valid() {
		return ""
	}
	return fieldKeys[f]
}

// String returns the external document key of f.
func (f Field) String() string {
	if !f.Valid() {
		return "Field(" + strconv.Itoa(int(f)) + ")"
	}
	return fieldKeys[f]
}

// Valid reports whether f is one of the declared fields.
func (f Field) Valid() bool {
	return int(f) < fieldCount
}

// FieldByKey resolves an external document key. Keys are case sensitive.
func FieldByKey(key string) (Field, bool) {
	f, ok := fieldsByKey[key]
	return f, ok
}

// Fields returns every field in declaration order.
func Fields() []Field {
	out := make([]Field, fieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// FieldSet is a set of fields. The zero value is empty.
type FieldSet uint16

// NewFieldSet returns a set holding the given fields.
func NewFieldSet(fields ...Field) FieldSet {
	var s FieldSet
	for _, f := range fields {
		s = s.Add(f)
	}
	return s
}

// AllFields returns the set of every declared field.
func AllFields() FieldSet {
	return FieldSet(1<<fieldCount - 1)
}

// Add returns s with f included.
func (s FieldSet) Add(f Field) FieldSet {
	if !f.Valid() {
		return s
	}
	return s | 1<<f
}

// Remove returns s with f excluded.
func (s FieldSet) Remove(f Field) FieldSet {
	if !f.Valid() {
		return s
	}
	return s &^ (1 << f)
}

// Has reports whether f is in s.
func (s FieldSet) Has(f Field) bool {
	return f.Valid() && s&(1<<f) != 0
}

// Len returns the number of fields in s.
func (s FieldSet) Len() int {
	return bits.OnesCount16(uint16(s & AllFields()))
}

// Fields returns the members of s in declaration order.
func (s FieldSet) Fields() []Field {
	out := make([]Field, 0, s.Len())
	for i := 0; i < fieldCount; i++ {
		if s.Has(Field(i)) {
			out = append(out, Field(i))
		}
	}
	return out
}

func (s FieldSet) String() string {
	keys := make([]string, 0, s.Len())
	for _, f := range s.Fields() {
		keys = append(keys, f.Key())
	}
	return "[" + strings.Join(keys, ",") + "]"
}
