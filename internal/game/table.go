// SPDX-License-Identifier: MIT

package game

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// fieldSpec binds one Field to its accessor, decoder and encoder. Every
// operation in this package walks fieldTable in declaration order.
type fieldSpec struct {
	// get returns the value as exposed by Record.Value.
	get func(*Record) (any, bool)
	// decode is called only when the key is present in the source object.
	decode func(*Record, any, diagSink)
	// encode returns the JSON value and whether the key is emitted.
	encode func(*Record) (any, bool)
}

var fieldTable = [fieldCount]fieldSpec{
	FieldUUID: {
		get: func(r *Record) (any, bool) { return r.uuid, r.HasUUID() },
		decode: decodeUUID,
		encode: func(r *Record) (any, bool) {
			if !r.HasUUID() {
				return nil, true
			}
			return r.uuid.String(), true
		},
	},
	FieldExe: {
		get:    func(r *Record) (any, bool) { return r.Exe() },
		decode: decodePath(func(r *Record, p Path) { r.exe = p }),
		encode: func(r *Record) (any, bool) {
			if r.exe == "" {
				return nil, true
			}
			return string(r.exe), true
		},
	},
	FieldName: {
		get:    func(r *Record) (any, bool) { return r.Name() },
		decode: decodeText(func(r *Record, s string) { r.name = s }),
		encode: func(r *Record) (any, bool) { return r.Name() },
	},
	FieldDesc: {
		get:    func(r *Record) (any, bool) { return r.Desc() },
		decode: decodeText(func(r *Record, s string) { r.desc = s }),
		encode: func(r *Record) (any, bool) { return r.Desc() },
	},
	FieldPanel: {
		get:    func(r *Record) (any, bool) { return r.Panel() },
		decode: decodePath(func(r *Record, p Path) { r.panel = p }),
		encode: func(r *Record) (any, bool) { return string(r.panel), r.panel != "" },
	},
	FieldMovieList: {
		get:    func(r *Record) (any, bool) { return r.MovieList(), len(r.movieList) > 0 },
		decode: decodePathList(func(r *Record, ps []Path) { r.movieList = ps }),
		encode: func(r *Record) (any, bool) { return pathStrings(r.movieList), len(r.movieList) > 0 },
	},
	FieldImageList: {
		get:    func(r *Record) (any, bool) { return r.ImageList(), len(r.imageList) > 0 },
		decode: decodePathList(func(r *Record, ps []Path) { r.imageList = ps }),
		encode: func(r *Record) (any, bool) { return pathStrings(r.imageList), len(r.imageList) > 0 },
	},
	FieldGameID: {
		get:    func(r *Record) (any, bool) { return r.GameID() },
		decode: decodeGameID,
		encode: func(r *Record) (any, bool) { return r.GameID() },
	},
	FieldLastMod: {
		get:    func(r *Record) (any, bool) { return r.LastMod() },
		decode: decodeLastMod,
		encode: func(r *Record) (any, bool) {
			t, ok := r.LastMod()
			if !ok {
				return nil, false
			}
			return FormatInstant(t), true
		},
	},
}

// renderValue is the display form used by projections.
func renderValue(v any) string {
	switch x := v.(type) {
	case uuid.UUID:
		return x.String()
	case Path:
		return string(x)
	case string:
		return x
	case []Path:
		return formatPaths(x)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		return FormatInstant(x)
	default:
		return ""
	}
}

func pathStrings(ps []Path) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}
