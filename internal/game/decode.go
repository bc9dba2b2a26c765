// SPDX-License-Identifier: MIT

package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/google/uuid"
)

// ErrNotObject is returned when a document that must be a single JSON object
// is something else.
var ErrNotObject = errors.New("document is not a JSON object")

// Decode builds a Record from a generic JSON object, one field at a time.
// It never fails: problems are reported as diagnostics in field declaration
// order and the affected field is left unset. Numbers may be json.Number
// (see ParseJSON) or float64.
func Decode(obj map[string]any) (*Record, Diagnostics) {
	r := &Record{}
	var diags Diagnostics
	for i := range fieldTable {
		f := Field(i)
		sink := diagSink{field: f, out: &diags}
		v, ok := obj[f.Key()]
		if v == nil {
			// Encode writes null for an unset UUID or exe, so null reads
			// back as an absent key.
			ok = false
		}
		if !ok {
			if f == FieldUUID {
				sink.add(KindMissing, "missing required identifier")
			}
			continue
		}
		fieldTable[f].decode(r, v, sink)
	}
	return r, diags
}

// DecodeJSON parses data as a single JSON object and decodes it. The error is
// non-nil only when data is not a JSON object at all.
func DecodeJSON(data []byte) (*Record, Diagnostics, error) {
	v, err := ParseJSON(data)
	if err != nil {
		return nil, nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: got %s", ErrNotObject, JSONKind(v))
	}
	r, diags := Decode(obj)
	return r, diags, nil
}

// ParseJSON parses one JSON value, keeping numbers as json.Number so that
// integers can be told apart from fractions. Trailing data is an error.
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("parse JSON: trailing data after document")
	}
	return v, nil
}

// UnmarshalJSON decodes a record tolerantly, discarding diagnostics. Use
// Decode or DecodeJSON to inspect them.
func (r *Record) UnmarshalJSON(data []byte) error {
	decoded, _, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	*r = *decoded
	return nil
}

func decodeUUID(r *Record, v any, sink diagSink) {
	s, ok := v.(string)
	if !ok {
		sink.wrongType("UUID string", v)
		return
	}
	id, err := parseCanonicalUUID(s)
	if err != nil {
		sink.add(KindInvalid, "not a UUID: %q", s)
		return
	}
	r.SetUUID(id)
}

// parseCanonicalUUID accepts only the 8-4-4-4-12 hex form.
func parseCanonicalUUID(s string) (uuid.UUID, error) {
	if len(s) != 36 {
		return uuid.Nil, fmt.Errorf("invalid UUID length: %d", len(s))
	}
	return uuid.Parse(s)
}

func decodePath(set func(*Record, Path)) func(*Record, any, diagSink) {
	return func(r *Record, v any, sink diagSink) {
		s, ok := v.(string)
		if !ok {
			sink.wrongType("path string", v)
			return
		}
		p, err := ParsePath(s)
		switch {
		case errors.Is(err, ErrEmptyPath):
			sink.add(KindEmpty, "empty string")
			return
		case err != nil:
			sink.add(KindInvalid, "not a valid path: %q", s)
			return
		}
		set(r, p)
	}
}

func decodeText(set func(*Record, string)) func(*Record, any, diagSink) {
	return func(r *Record, v any, sink diagSink) {
		s, ok := v.(string)
		if !ok {
			sink.wrongType("string", v)
			return
		}
		if s != "" {
			set(r, s)
		}
	}
}

func decodePathList(set func(*Record, []Path)) func(*Record, any, diagSink) {
	return func(r *Record, v any, sink diagSink) {
		items, ok := v.([]any)
		if !ok {
			sink.wrongType("array of path strings", v)
			return
		}
		paths := make([]Path, 0, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				sink.element(i, "expected path string, got %s", JSONKind(item))
				continue
			}
			p, err := ParsePath(s)
			if err != nil {
				sink.element(i, "%v: %q", err, s)
				continue
			}
			paths = append(paths, p)
		}
		if len(paths) > 0 {
			set(r, paths)
		}
	}
}

func decodeGameID(r *Record, v any, sink diagSink) {
	var f float64
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			setGameID(r, n, sink)
			return
		}
		parsed, err := x.Float64()
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			sink.add(KindInvalid, "not an integer: %s", x)
			return
		}
		f = parsed
	case float64:
		f = x
	default:
		sink.wrongType("integer", v)
		return
	}
	if f != math.Trunc(f) {
		sink.add(KindInvalid, "not an integer: %v", f)
		return
	}
	switch {
	case f <= 0:
		sink.add(KindOutOfRange, "must be a positive, unique natural number, got %v", f)
	case f > math.MaxInt32:
		sink.add(KindOutOfRange, "exceeds %d, got %v", math.MaxInt32, f)
	default:
		setGameID(r, int64(f), sink)
	}
}

func setGameID(r *Record, id int64, sink diagSink) {
	if id <= 0 {
		sink.add(KindOutOfRange, "must be a positive, unique natural number, got %d", id)
		return
	}
	if id > math.MaxInt32 {
		sink.add(KindOutOfRange, "exceeds %d, got %d", math.MaxInt32, id)
		return
	}
	r.gameID = int(id)
}

func decodeLastMod(r *Record, v any, sink diagSink) {
	s, ok := v.(string)
	if !ok {
		sink.wrongType("timestamp string", v)
		return
	}
	t, err := ParseInstant(s)
	if err != nil {
		sink.add(KindInvalid, "not a valid timestamp: %q", s)
		return
	}
	if t.IsZero() {
		sink.add(KindOutOfRange, "zero instant cannot be stored: %q", s)
		return
	}
	r.lastMod = t
}
