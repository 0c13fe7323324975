//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Supported OTLP transport protocols.
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http"
)

type options struct {
	endpoint string
	protocol string
	rank     int
}

// Option configures telemetry startup.
type Option func(*options)

// WithEndpoint sets the OTLP endpoint (host:port). When unset, the standard
// OTEL_EXPORTER_OTLP_ENDPOINT environment variable and protocol defaults apply.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithProtocol selects "grpc" (default) or "http" transport.
func WithProtocol(protocol string) Option {
	return func(o *options) {
		o.protocol = protocol
	}
}

// WithRank tags exports with the worker's rank.
func WithRank(rank int) Option {
	return func(o *options) {
		o.rank = rank
	}
}

// Start initializes the meter and tracer providers and the evaluation
// instruments. The returned function flushes and shuts the providers down.
func Start(ctx context.Context, opt ...Option) (func(context.Context) error, error) {
	opts := &options{protocol: ProtocolGRPC}
	for _, o := range opt {
		o(opts)
	}
	if opts.endpoint == "" {
		opts.endpoint = defaultEndpoint(opts.protocol)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceNamespace(ServiceNamespace),
			semconv.ServiceInstanceID(fmt.Sprintf("rank-%d", opts.rank)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	meterProvider, err := newMeterProvider(ctx, res, opts)
	if err != nil {
		return nil, err
	}
	tracerProvider, err := newTracerProvider(ctx, res, opts)
	if err != nil {
		shutdownErr := meterProvider.Shutdown(ctx)
		return nil, errors.Join(err, shutdownErr)
	}

	MeterProvider = meterProvider
	TracerProvider = tracerProvider
	Meter = meterProvider.Meter(meterName)
	Tracer = tracerProvider.Tracer(meterName)
	if err := initInstruments(); err != nil {
		return nil, fmt.Errorf("init instruments: %w", err)
	}

	return func(ctx context.Context) error {
		return errors.Join(
			meterProvider.Shutdown(ctx),
			tracerProvider.Shutdown(ctx),
		)
	}, nil
}

func defaultEndpoint(protocol string) string {
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	if protocol == ProtocolHTTP {
		return "localhost:4318"
	}
	return "localhost:4317"
}

func newMeterProvider(ctx context.Context, res *resource.Resource, opts *options) (*sdkmetric.MeterProvider, error) {
	var exporter sdkmetric.Exporter
	var err error
	if opts.protocol == ProtocolHTTP {
		exporter, err = otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(opts.endpoint),
			otlpmetrichttp.WithInsecure())
	} else {
		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(opts.endpoint),
			otlpmetricgrpc.WithInsecure())
	}
	if err != nil {
		return nil, fmt.Errorf("create metrics exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	), nil
}

func newTracerProvider(ctx context.Context, res *resource.Resource, opts *options) (*sdktrace.TracerProvider, error) {
	var exporter sdktrace.SpanExporter
	var err error
	if opts.protocol == ProtocolHTTP {
		exporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(opts.endpoint),
			otlptracehttp.WithInsecure())
	} else {
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(opts.endpoint),
			otlptracegrpc.WithInsecure())
	}
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

func initInstruments() error {
	var err error
	if ItemCounter, err = Meter.Int64Counter(
		"videoqa.eval.items",
		metric.WithDescription("Total number of evaluated items"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create item counter: %w", err)
	}
	if InferenceDuration, err = Meter.Float64Histogram(
		"videoqa.eval.inference.duration",
		metric.WithDescription("Per-item inference latency"),
		metric.WithUnit("s"),
	); err != nil {
		return fmt.Errorf("create inference duration histogram: %w", err)
	}
	if TokenUsage, err = Meter.Int64Histogram(
		"videoqa.eval.tokens",
		metric.WithDescription("Total tokens used per item"),
		metric.WithUnit("{token}"),
	); err != nil {
		return fmt.Errorf("create token usage histogram: %w", err)
	}
	return nil
}
