// SPDX-License-Identifier: MIT

package catalog

import (
	"github.com/chrootRISCassembler/GameInfo/internal/game"
	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/chrootRISCassembler/GameInfo/internal/metrics"
	"github.com/rs/zerolog"
)

// reportDiagnostic logs one decode diagnostic at warn and counts it. position
// is the record's place in a collection, or -1 for a signature.
func reportDiagnostic(logger *zerolog.Logger, location string, position int, d game.Diagnostic) {
	metrics.RecordDiagnostic(d.Field.Key(), string(d.Kind))

	ev := logger.Warn().
		Str(gilog.FieldEvent, "catalog.diagnostic").
		Str(gilog.FieldLocation, location).
		Str(gilog.FieldField, d.Field.Key()).
		Str(gilog.FieldKind, string(d.Kind))
	if position >= 0 {
		ev = ev.Int(gilog.FieldPosition, position)
	}
	if d.Index >= 0 {
		ev = ev.Int(gilog.FieldIndex, d.Index)
	}
	ev.Msg(d.Detail)
}
