// SPDX-License-Identifier: MIT

package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuery marks a malformed projection request.
var ErrInvalidQuery = errors.New("invalid query")

// Projected is one rendered field of a projection.
type Projected struct {
	Field Field
	Key   string
	Text  string
}

// Projection is the display rendering of a subset of a record's fields, in
// field declaration order.
type Projection []Projected

// Get returns the rendered text for f.
func (p Projection) Get(f Field) (string, bool) {
	for _, pf := range p {
		if pf.Field == f {
			return pf.Text, true
		}
	}
	return "", false
}

// Fields returns the projected fields.
func (p Projection) Fields() FieldSet {
	var s FieldSet
	for _, pf := range p {
		s = s.Add(pf.Field)
	}
	return s
}

// String renders the projection as {key : value, ...}.
func (p Projection) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, pf := range p {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pf.Key)
		b.WriteString(" : ")
		b.WriteString(pf.Text)
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON renders the projection as an ordered object of strings.
func (p Projection) MarshalJSON() ([]byte, error) {
	obj := &Object{members: make([]Member, 0, len(p))}
	for _, pf := range p {
		obj.append(pf.Key, pf.Text)
	}
	return obj.MarshalJSON()
}

// Query renders the fields of set that are set on r. Unset or empty fields
// are skipped entirely.
func Query(r *Record, set FieldSet) Projection {
	out := make(Projection, 0, set.Len())
	for _, f := range set.Fields() {
		v, ok := r.Value(f)
		if !ok {
			continue
		}
		out = append(out, Projected{Field: f, Key: f.Key(), Text: renderValue(v)})
	}
	return out
}

// ParsePredicate parses a predicate object such as {"name": true}. A known
// key selects its field when true and excludes it when false; an absent key
// excludes it. UUID is always selected unless the request explicitly sets it
// to false. Unknown keys are ignored. A value that is not a boolean, or text
// that is not a JSON object, fails the whole request with ErrInvalidQuery.
func ParsePredicate(text string) (FieldSet, error) {
	v, err := ParseJSON([]byte(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return 0, fmt.Errorf("%w: predicate must be a JSON object, got %s", ErrInvalidQuery, JSONKind(v))
	}

	var set FieldSet
	uuidExcluded := false
	for _, f := range Fields() {
		raw, present := obj[f.Key()]
		if !present {
			continue
		}
		selected, ok := raw.(bool)
		if !ok {
			return 0, fmt.Errorf("%w: %q must be a boolean, got %s", ErrInvalidQuery, f.Key(), JSONKind(raw))
		}
		switch {
		case selected:
			set = set.Add(f)
		case f == FieldUUID:
			uuidExcluded = true
		}
	}
	if !uuidExcluded {
		set = set.Add(FieldUUID)
	}
	return set, nil
}

// QueryJSON parses a predicate object and projects r with it.
func QueryJSON(r *Record, text string) (Projection, error) {
	set, err := ParsePredicate(text)
	if err != nil {
		return nil, err
	}
	return Query(r, set), nil
}

// ParseFieldList parses a comma separated list of field keys such as
// "name,desc". Blank entries are ignored.
func ParseFieldList(list string) (FieldSet, error) {
	var set FieldSet
	for _, part := range strings.Split(list, ",") {
		key := strings.TrimSpace(part)
		if key == "" {
			continue
		}
		f, ok := FieldByKey(key)
		if !ok {
			return 0, fmt.Errorf("%w: unknown field %q", ErrInvalidQuery, key)
		}
		set = set.Add(f)
	}
	return set, nil
}
