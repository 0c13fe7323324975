//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

// Package telemetry integrates OpenTelemetry metrics and tracing into the
// evaluator. Instruments are noop until Start is called, so instrumented code
// never has to check whether telemetry is configured.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Service identity reported with every export.
const (
	ServiceName      = "videoqa-eval"
	ServiceNamespace = "videoqa"
)

// Attribute keys used on evaluation metrics.
const (
	KeyModelName = "videoqa.model.name"
	KeyRank      = "videoqa.rank"
	KeyCorrect   = "videoqa.item.correct"
)

const meterName = "videoqa-eval"

var (
	// MeterProvider is the active meter provider.
	MeterProvider metric.MeterProvider = metricnoop.NewMeterProvider()
	// TracerProvider is the active tracer provider.
	TracerProvider trace.TracerProvider = tracenoop.NewTracerProvider()

	// Meter is the evaluation meter.
	Meter metric.Meter = MeterProvider.Meter(meterName)
	// Tracer is the evaluation tracer.
	Tracer trace.Tracer = TracerProvider.Tracer(meterName)

	// ItemCounter counts evaluated items.
	ItemCounter metric.Int64Counter = metricnoop.Int64Counter{}
	// InferenceDuration records per-item inference latency in seconds.
	InferenceDuration metric.Float64Histogram = metricnoop.Float64Histogram{}
	// TokenUsage records total tokens used per item.
	TokenUsage metric.Int64Histogram = metricnoop.Int64Histogram{}
)

// RecordItem records one evaluated item.
func RecordItem(ctx context.Context, modelName string, rank int, correct bool, duration time.Duration, totalTokens int) {
	attrs := metric.WithAttributes(
		attribute.String(KeyModelName, modelName),
		attribute.Int(KeyRank, rank),
		attribute.Bool(KeyCorrect, correct),
	)
	ItemCounter.Add(ctx, 1, attrs)
	InferenceDuration.Record(ctx, duration.Seconds(), attrs)
	if totalTokens > 0 {
		TokenUsage.Record(ctx, int64(totalTokens), attrs)
	}
}

// StartItemSpan opens a span for one item's inference.
func StartItemSpan(ctx context.Context, itemID string) (context.Context, trace.Span) {
	return Tracer.Start(ctx, "evaluate_item", trace.WithAttributes(
		attribute.String("videoqa.item.id", itemID),
	))
}
