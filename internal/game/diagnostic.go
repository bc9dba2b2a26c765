// SPDX-License-Identifier: MIT

package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// DiagnosticKind classifies a per-field decode problem.
type DiagnosticKind string

const (
	KindMissing    DiagnosticKind = "missing"      // required key absent
	KindWrongType  DiagnosticKind = "wrong_type"   // value has the wrong JSON shape
	KindEmpty      DiagnosticKind = "empty"        // string present but empty
	KindInvalid    DiagnosticKind = "invalid"      // right shape, unparsable content
	KindOutOfRange DiagnosticKind = "out_of_range" // parsed but outside the allowed range
	KindBadElement DiagnosticKind = "bad_element"  // one list element was skipped
)

// Diagnostic is a non-fatal note about one field of a decoded document.
type Diagnostic struct {
	Field  Field
	Kind   DiagnosticKind
	Index  int // list element index for KindBadElement, otherwise -1
	Detail string
}

func (d Diagnostic) String() string {
	if d.Index >= 0 {
		return d.Field.Key() + "[" + strconv.Itoa(d.Index) + "]: " + d.Detail
	}
	return d.Field.Key() + ": " + d.Detail
}

// Error lets a Diagnostic travel as an error value.
func (d Diagnostic) Error() string { return d.String() }

// Diagnostics is the ordered output of one decode.
type Diagnostics []Diagnostic

// Err joins the diagnostics into a single error, nil when there are none.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// ByField returns the diagnostics concerning f.
func (ds Diagnostics) ByField(f Field) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Field == f {
			out = append(out, d)
		}
	}
	return out
}

// Strings renders every diagnostic.
func (ds Diagnostics) Strings() []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}

type diagSink struct {
	field Field
	out   *Diagnostics
}

func (s diagSink) add(kind DiagnosticKind, format string, args ...any) {
	*s.out = append(*s.out, Diagnostic{
		Field:  s.field,
		Kind:   kind,
		Index:  -1,
		Detail: fmt.Sprintf(format, args...),
	})
}

func (s diagSink) element(i int, format string, args ...any) {
	*s.out = append(*s.out, Diagnostic{
		Field:  s.field,
		Kind:   KindBadElement,
		Index:  i,
		Detail: fmt.Sprintf(format, args...),
	})
}

func (s diagSink) wrongType(want string, got any) {
	s.add(KindWrongType, "wrong value: expected %s, got %s", want, JSONKind(got))
}

// JSONKind names the JSON shape of a value produced by encoding/json or
// ParseJSON.
func JSONKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
