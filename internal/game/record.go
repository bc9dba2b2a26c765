// SPDX-License-Identifier: MIT

package game

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Record is one game catalog entry.
//
// The UUID is the only identity of a record. Records built with New always
// carry one; records produced by Decode may lack it when the source document
// did not supply a valid value.
type Record struct {
	uuid      uuid.UUID
	hasUUID   bool
	exe       Path
	name      string
	desc      string
	panel     Path
	movieList []Path
	imageList []Path
	gameID    int
	lastMod   time.Time
}

// New returns a record for a new registration with a freshly generated UUID
// and every optional field unset.
func New() *Record {
	return &Record{uuid: uuid.New(), hasUUID: true}
}

// UUID returns the record identifier, uuid.Nil when unset. The nil UUID is
// also a valid identifier; use HasUUID to tell the two apart.
func (r *Record) UUID() uuid.UUID { return r.uuid }

// HasUUID reports whether the identifier is set.
func (r *Record) HasUUID() bool { return r.hasUUID }

// Exe returns the executable path.
func (r *Record) Exe() (Path, bool) { return r.exe, r.exe != "" }

// Name returns the display name.
func (r *Record) Name() (string, bool) { return r.name, r.name != "" }

// Desc returns the description.
func (r *Record) Desc() (string, bool) { return r.desc, r.desc != "" }

// Panel returns the panel image path.
func (r *Record) Panel() (Path, bool) { return r.panel, r.panel != "" }

// MovieList returns a copy of the movie paths in display order.
func (r *Record) MovieList() []Path { return slices.Clone(r.movieList) }

// ImageList returns a copy of the image paths in display order.
func (r *Record) ImageList() []Path { return slices.Clone(r.imageList) }

// GameID returns the numeric game ID. Values of zero or less read as unset.
func (r *Record) GameID() (int, bool) {
	if r.gameID <= 0 {
		return 0, false
	}
	return r.gameID, true
}

// LastMod returns the last modification instant.
func (r *Record) LastMod() (time.Time, bool) { return r.lastMod, !r.lastMod.IsZero() }

// SetUUID replaces the identifier. Changing it breaks any reference held by
// other documents, so it is meant for repair tooling only.
func (r *Record) SetUUID(id uuid.UUID) *Record {
	r.uuid = id
	r.hasUUID = true
	return r
}

func (r *Record) SetExe(p Path) *Record {
	r.exe = p
	return r
}

func (r *Record) SetName(name string) *Record {
	r.name = name
	return r
}

func (r *Record) SetDesc(desc string) *Record {
	r.desc = desc
	return r
}

func (r *Record) SetPanel(p Path) *Record {
	r.panel = p
	return r
}

// SetMovieList replaces the movie list with a copy of ps.
func (r *Record) SetMovieList(ps []Path) *Record {
	r.movieList = slices.Clone(ps)
	return r
}

// SetImageList replaces the image list with a copy of ps.
func (r *Record) SetImageList(ps []Path) *Record {
	r.imageList = slices.Clone(ps)
	return r
}

// SetGameID replaces the numeric game ID. Zero clears it.
func (r *Record) SetGameID(id int) *Record {
	r.gameID = id
	return r
}

// SetLastMod replaces the modification instant. The zero time clears it.
func (r *Record) SetLastMod(t time.Time) *Record {
	if t.IsZero() {
		r.lastMod = time.Time{}
		return r
	}
	r.lastMod = t.UTC()
	return r
}

// Touch stamps the record as modified at now, truncated to seconds.
func (r *Record) Touch(now time.Time) *Record {
	return r.SetLastMod(now.Truncate(time.Second))
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := *r
	c.movieList = slices.Clone(r.movieList)
	c.imageList = slices.Clone(r.imageList)
	return &c
}

// Value returns the value of f and whether it is set. Empty lists and
// non-positive game IDs read as unset.
func (r *Record) Value(f Field) (any, bool) {
	if !f.Valid() {
		return nil, false
	}
	return fieldTable[f].get(r)
}
