//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package eval

// Generation limits applied to every item, matching the benchmark protocol.
const (
	maxNewTokens = 1000
	minNewTokens = 1
)

// options holds evaluator configuration.
type options struct {
	// NumFrames is the number of frames sampled per clip.
	NumFrames int
	// InputSize is the tile edge for dynamic preprocessing.
	InputSize int
	// Dynamic enables dynamic tiling of frames.
	Dynamic bool
	// UseThumbnail appends a thumbnail tile when tiling.
	UseThumbnail bool
	// MaxNum is the maximum number of tiles per frame.
	MaxNum int
	// ImageDetail is the detail hint attached to image parts.
	ImageDetail string
	// BatchSize is the inference batch size. Only 1 is supported.
	BatchSize int
	// NumWorkers sizes the intra-rank inference pool; 1 means serial.
	NumWorkers int
	// Temperature is the sampling temperature; 0 selects greedy decoding.
	Temperature float64
	// NumBeams is the beam-search width forwarded to the endpoint.
	NumBeams int
	// Seed seeds sampling on endpoints that support it.
	Seed int
	// AutoRetry keeps retrying frame loads up to the retry bound.
	AutoRetry bool
	// RaiseError fails the run on unreadable frames instead of substituting
	// a placeholder image.
	RaiseError bool
	// OutDir receives the metrics and outputs files.
	OutDir string
	// ProgressEvery controls shard progress logging.
	ProgressEvery int
	// OnProgress, when set, observes (done, total) after every item.
	OnProgress func(done, total int)
}

var defaultOptions = options{
	NumFrames:     16,
	InputSize:     448,
	MaxNum:        6,
	ImageDetail:   "auto",
	BatchSize:     1,
	NumWorkers:    1,
	NumBeams:      1,
	OutDir:        "results",
	ProgressEvery: 10,
}

// Option configures the evaluator.
type Option func(*options)

// WithNumFrames sets the number of frames sampled per clip.
func WithNumFrames(n int) Option {
	return func(o *options) { o.NumFrames = n }
}

// WithInputSize sets the tile edge for dynamic preprocessing.
func WithInputSize(size int) Option {
	return func(o *options) { o.InputSize = size }
}

// WithDynamic toggles dynamic tiling.
func WithDynamic(dynamic bool) Option {
	return func(o *options) { o.Dynamic = dynamic }
}

// WithUseThumbnail toggles the thumbnail tile.
func WithUseThumbnail(useThumbnail bool) Option {
	return func(o *options) { o.UseThumbnail = useThumbnail }
}

// WithMaxNum sets the maximum number of tiles per frame.
func WithMaxNum(n int) Option {
	return func(o *options) { o.MaxNum = n }
}

// WithImageDetail sets the detail hint attached to image parts.
func WithImageDetail(detail string) Option {
	return func(o *options) { o.ImageDetail = detail }
}

// WithBatchSize sets the inference batch size. Only 1 is supported.
func WithBatchSize(n int) Option {
	return func(o *options) { o.BatchSize = n }
}

// WithNumWorkers sizes the intra-rank inference pool.
func WithNumWorkers(n int) Option {
	return func(o *options) { o.NumWorkers = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *options) { o.Temperature = t }
}

// WithNumBeams sets the beam-search width.
func WithNumBeams(n int) Option {
	return func(o *options) { o.NumBeams = n }
}

// WithSeed sets the sampling seed.
func WithSeed(seed int) Option {
	return func(o *options) { o.Seed = seed }
}

// WithAutoRetry toggles bounded retry of frame loads.
func WithAutoRetry(autoRetry bool) Option {
	return func(o *options) { o.AutoRetry = autoRetry }
}

// WithRaiseError fails the run on unreadable frames.
func WithRaiseError(raiseError bool) Option {
	return func(o *options) { o.RaiseError = raiseError }
}

// WithOutDir sets the results directory.
func WithOutDir(dir string) Option {
	return func(o *options) { o.OutDir = dir }
}

// WithProgressEvery controls how often shard progress is logged.
func WithProgressEvery(n int) Option {
	return func(o *options) { o.ProgressEvery = n }
}

// WithOnProgress registers a progress observer.
func WithOnProgress(fn func(done, total int)) Option {
	return func(o *options) { o.OnProgress = fn }
}

func newOptions(opt ...Option) options {
	opts := defaultOptions
	for _, o := range opt {
		o(&opts)
	}
	return opts
}
