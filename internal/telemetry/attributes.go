// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for catalog spans.
const (
	DocumentLocationKey = "document.location"
	DocumentFormKey     = "document.form"
	DocumentBytesKey    = "document.bytes"
	StoreBackendKey     = "store.backend"
	RecordCountKey      = "catalog.records"
	DiagnosticCountKey  = "catalog.diagnostics"
	QueryFormKey        = "query.form"
)

// DocumentAttributes describes a raw document read or write.
func DocumentAttributes(backend, location string, size int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(StoreBackendKey, backend),
		attribute.String(DocumentLocationKey, location),
		attribute.Int(DocumentBytesKey, size),
	}
}

// DecodeAttributes describes the outcome of decoding a document.
func DecodeAttributes(form string, records, diagnostics int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(DocumentFormKey, form),
		attribute.Int(RecordCountKey, records),
		attribute.Int(DiagnosticCountKey, diagnostics),
	}
}

// RecordError marks span as failed when err is non-nil.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
