// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package logging

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SetupTracing installs an SDK tracer provider and the W3C trace context
// propagator as the OpenTelemetry globals. Spans then carry real trace and
// span ids, which the log handler attaches to records. No exporter is
// configured. The returned func shuts the provider down.
func SetupTracing() func(context.Context) error {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown
}
