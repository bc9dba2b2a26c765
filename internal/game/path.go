// SPDX-License-Identifier: MIT

package game

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyPath is returned by ParsePath for the empty string.
	ErrEmptyPath = errors.New("path is empty")
	// ErrInvalidPath is returned by ParsePath for text no host path can hold.
	ErrInvalidPath = errors.New("not a valid path")
)

// Path is a path-like string referring to a game asset or executable.
// The text is kept exactly as written in the source document.
type Path string

// ParsePath validates s as a path. Separators are not normalised so the
// value round-trips through documents unchanged.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return "", ErrEmptyPath
	}
	if !utf8.ValidString(s) || strings.ContainsRune(s, 0) {
		return "", ErrInvalidPath
	}
	return Path(s), nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic("game: " + err.Error() + ": " + s)
	}
	return p
}

func (p Path) String() string { return string(p) }

// Base returns the last element of p.
func (p Path) Base() string { return filepath.Base(filepath.FromSlash(string(p))) }

// Ext returns the file name extension of p.
func (p Path) Ext() string { return filepath.Ext(string(p)) }

// ParsePaths converts strings to paths, stopping at the first invalid one.
func ParsePaths(ss ...string) ([]Path, error) {
	out := make([]Path, 0, len(ss))
	for _, s := range ss {
		p, err := ParsePath(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func formatPaths(ps []Path) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range ps {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(p))
	}
	b.WriteByte(']')
	return b.String()
}
