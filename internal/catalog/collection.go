// SPDX-License-Identifier: MIT

// Package catalog reads and writes game records as JSON documents held in a
// docstore: a collection is an array of records, a signature is a single
// record.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chrootRISCassembler/GameInfo/internal/docstore"
	"github.com/chrootRISCassembler/GameInfo/internal/game"
	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/chrootRISCassembler/GameInfo/internal/metrics"
	"github.com/chrootRISCassembler/GameInfo/internal/telemetry"
)

// Document forms, used as metric and span labels.
const (
	FormCollection = "collection"
	FormSignature  = "signature"
)

var (
	// ErrNotArray is returned when a collection document is not a JSON array.
	ErrNotArray = errors.New("document is not a JSON array")

	// ErrNotObject is returned when a signature document is not a JSON object.
	ErrNotObject = game.ErrNotObject
)

// Diagnostic is a decode diagnostic for the record at Position in a
// collection document. Position counts every array element, including
// skipped non-objects.
type Diagnostic struct {
	Position int
	game.Diagnostic
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%d] %s", d.Position, d.Diagnostic.String())
}

func (d Diagnostic) Error() string { return d.String() }

// Load decodes a collection document. Elements that are not JSON objects
// are skipped without a diagnostic; every object yields a record, however
// broken. The error is non-nil only when raw is not a JSON array.
func Load(raw []byte) ([]*game.Record, []Diagnostic, error) {
	v, err := game.ParseJSON(raw)
	if err != nil {
		return nil, nil, err
	}
	elems, ok := v.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: got %s", ErrNotArray, game.JSONKind(v))
	}

	records := make([]*game.Record, 0, len(elems))
	var diags []Diagnostic
	for i, elem := range elems {
		obj, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		r, ds := game.Decode(obj)
		records = append(records, r)
		for _, d := range ds {
			diags = append(diags, Diagnostic{Position: i, Diagnostic: d})
		}
	}
	return records, diags, nil
}

// Save encodes records as a JSON array in the given order, indented with two
// spaces. Records are neither sorted nor deduplicated.
func Save(records []*game.Record) ([]byte, error) {
	objs := make([]*game.Object, len(records))
	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("record %d is nil", i)
		}
		objs[i] = game.Encode(r)
	}
	data, err := json.MarshalIndent(objs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	return append(data, '\n'), nil
}

// Collection is a collection document at a location in a store.
type Collection struct {
	store    docstore.Store
	location string
}

// NewCollection binds a collection to location in store.
func NewCollection(store docstore.Store, location string) *Collection {
	return &Collection{store: store, location: location}
}

// Location returns the document location.
func (c *Collection) Location() string { return c.location }

// Store returns the backing store.
func (c *Collection) Store() docstore.Store { return c.store }

// Read loads the collection. Diagnostics are logged and counted; they are
// also returned for callers that report them.
func (c *Collection) Read(ctx context.Context) ([]*game.Record, []Diagnostic, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "catalog.read")
	defer span.End()

	raw, err := c.store.ReadText(ctx, c.location)
	if err != nil {
		err = fmt.Errorf("read catalog %s: %w", c.location, err)
		telemetry.RecordError(span, err)
		return nil, nil, err
	}
	records, diags, err := Load(raw)
	if err != nil {
		err = fmt.Errorf("load catalog %s: %w", c.location, err)
		telemetry.RecordError(span, err)
		return nil, nil, err
	}

	span.SetAttributes(telemetry.DecodeAttributes(FormCollection, len(records), len(diags))...)
	metrics.RecordLoaded(FormCollection, len(records))
	logger := gilog.WithComponentFromContext(ctx, "catalog")
	for _, d := range diags {
		reportDiagnostic(&logger, c.location, d.Position, d.Diagnostic)
	}
	logger.Debug().
		Str(gilog.FieldEvent, "catalog.read").
		Str(gilog.FieldLocation, c.location).
		Int(gilog.FieldRecords, len(records)).
		Int("diagnostics", len(diags)).
		Msg("catalog loaded")
	return records, diags, nil
}

// Write replaces the collection document with records.
func (c *Collection) Write(ctx context.Context, records []*game.Record) error {
	ctx, span := telemetry.Tracer().Start(ctx, "catalog.write")
	defer span.End()

	data, err := Save(records)
	if err == nil {
		err = c.store.WriteText(ctx, c.location, data)
	}
	if err != nil {
		err = fmt.Errorf("write catalog %s: %w", c.location, err)
		telemetry.RecordError(span, err)
		return err
	}
	span.SetAttributes(telemetry.DecodeAttributes(FormCollection, len(records), 0)...)

	logger := gilog.WithComponentFromContext(ctx, "catalog")
	logger.Debug().
		Str(gilog.FieldEvent, "catalog.write").
		Str(gilog.FieldLocation, c.location).
		Int(gilog.FieldRecords, len(records)).
		Msg("catalog written")
	return nil
}
