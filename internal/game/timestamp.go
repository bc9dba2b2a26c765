// SPDX-License-Identifier: MIT

package game

import "time"

// FormatInstant renders t in the canonical lastMod form: RFC 3339 in UTC,
// fractional seconds only when non-zero.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseInstant parses an RFC 3339 instant and normalises it to UTC.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
