// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package driverbase

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const traceParentHeader = "traceparent"

func nilLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func nilTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(driverNamespace)
}

// maybeAddTraceParent attaches an externally supplied W3C traceparent to ctx
// so spans started from it join the caller's trace. ctx is returned as is
// when traceParent is blank or already carries a valid span.
func maybeAddTraceParent(ctx context.Context, traceParent string) context.Context {
	if traceParent == "" || trace.SpanContextFromContext(ctx).IsValid() {
		return ctx
	}
	carrier := propagation.MapCarrier{traceParentHeader: traceParent}
	return propagation.TraceContext{}.Extract(ctx, carrier)
}

func getInitialSpanAttributes(driverInfo *DriverInfo) []attribute.KeyValue {
	if driverInfo == nil {
		return nil
	}
	return driverInfoAttributes(driverInfo)
}
