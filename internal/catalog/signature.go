// SPDX-License-Identifier: MIT

package catalog

import (
	"context"
	"fmt"

	"github.com/chrootRISCassembler/GameInfo/internal/docstore"
	"github.com/chrootRISCassembler/GameInfo/internal/game"
	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/chrootRISCassembler/GameInfo/internal/metrics"
	"github.com/chrootRISCassembler/GameInfo/internal/telemetry"
)

// ReadSignature decodes a signature document: exactly one JSON object
// describing one game. Anything else fails with no record.
func ReadSignature(raw []byte) (*game.Record, game.Diagnostics, error) {
	return game.DecodeJSON(raw)
}

// WriteSignature encodes r as a signature document.
func WriteSignature(r *game.Record) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("signature record is nil")
	}
	data, err := game.EncodeJSON(r)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Signature is a signature document at a location in a store.
type Signature struct {
	store    docstore.Store
	location string
}

// NewSignature binds a signature to location in store.
func NewSignature(store docstore.Store, location string) *Signature {
	return &Signature{store: store, location: location}
}

// Location returns the document location.
func (s *Signature) Location() string { return s.location }

// Read loads the signature record.
func (s *Signature) Read(ctx context.Context) (*game.Record, game.Diagnostics, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "signature.read")
	defer span.End()

	raw, err := s.store.ReadText(ctx, s.location)
	if err != nil {
		err = fmt.Errorf("read signature %s: %w", s.location, err)
		telemetry.RecordError(span, err)
		return nil, nil, err
	}
	r, diags, err := ReadSignature(raw)
	if err != nil {
		err = fmt.Errorf("load signature %s: %w", s.location, err)
		telemetry.RecordError(span, err)
		return nil, nil, err
	}

	span.SetAttributes(telemetry.DecodeAttributes(FormSignature, 1, len(diags))...)
	metrics.RecordLoaded(FormSignature, 1)
	logger := gilog.WithComponentFromContext(ctx, "catalog")
	for _, d := range diags {
		reportDiagnostic(&logger, s.location, -1, d)
	}
	return r, diags, nil
}

// Write replaces the signature document with r.
func (s *Signature) Write(ctx context.Context, r *game.Record) error {
	ctx, span := telemetry.Tracer().Start(ctx, "signature.write")
	defer span.End()

	data, err := WriteSignature(r)
	if err == nil {
		err = s.store.WriteText(ctx, s.location, data)
	}
	if err != nil {
		err = fmt.Errorf("write signature %s: %w", s.location, err)
		telemetry.RecordError(span, err)
		return err
	}
	return nil
}
