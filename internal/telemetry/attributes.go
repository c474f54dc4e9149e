// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	// Video attributes
	VideoIDKey               = "video.id"
	VideoOpKey               = "video.op"
	VideoValidationErrorsKey = "video.validation_errors"
	VideoInvalidFieldsKey    = "video.invalid_fields"
	VideoCountKey            = "video.count"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// VideoAttributes describes an operation on one record. A non-positive id
// is omitted.
func VideoAttributes(op string, id int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(VideoOpKey, op)}
	if id > 0 {
		attrs = append(attrs, attribute.Int(VideoIDKey, id))
	}
	return attrs
}

// ValidationAttributes describes a rejected payload.
func ValidationAttributes(fields []string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(VideoValidationErrorsKey, len(fields)),
		attribute.StringSlice(VideoInvalidFieldsKey, fields),
	}
}

// Annotate sets attrs on the span carried by ctx, if it is recording.
func Annotate(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(attrs...)
}
