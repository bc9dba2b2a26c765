// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldRequestID = "request_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"

	// Catalog fields
	FieldLocation = "location"
	FieldBackend  = "backend"
	FieldRecords  = "records"
	FieldUUID     = "uuid"

	// Diagnostic fields
	FieldField    = "field"
	FieldKind     = "kind"
	FieldIndex    = "index"
	FieldPosition = "position"
)
