//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package eval

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"trpc.group/trpc-go/videoqa-eval/benchmark"
	"trpc.group/trpc-go/videoqa-eval/dist"
	"trpc.group/trpc-go/videoqa-eval/dist/shard"
	"trpc.group/trpc-go/videoqa-eval/log"
	"trpc.group/trpc-go/videoqa-eval/model"
	"trpc.group/trpc-go/videoqa-eval/telemetry"
	"trpc.group/trpc-go/videoqa-eval/video"
)

// Evaluator drives a distributed evaluation run over one benchmark split.
type Evaluator struct {
	ds        *benchmark.Dataset
	chatModel model.ChatModel
	group     *dist.Group
	loader    *video.Loader
	opts      options

	// now is a clock hook for result file naming.
	now func() time.Time
}

// Result is what a completed run produced on rank 0.
type Result struct {
	// Metrics are the benchmark scores.
	Metrics Metrics
	// MetricsPath is the written metrics file.
	MetricsPath string
	// OutputsPath is the written per-item outputs file.
	OutputsPath string
}

// New creates an evaluator. Only batch size 1 is supported, as in the
// benchmark's reference protocol.
func New(ds *benchmark.Dataset, chatModel model.ChatModel, group *dist.Group, opt ...Option) (*Evaluator, error) {
	if ds == nil {
		return nil, errors.New("dataset is nil")
	}
	if chatModel == nil {
		return nil, errors.New("chat model is nil")
	}
	if group == nil {
		return nil, errors.New("process group is nil")
	}
	opts := newOptions(opt...)
	if opts.BatchSize != 1 {
		return nil, fmt.Errorf("only batch size 1 is supported, got %d", opts.BatchSize)
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 1
	}
	return &Evaluator{
		ds:        ds,
		chatModel: chatModel,
		group:     group,
		loader:    video.NewLoader(),
		opts:      opts,
		now:       time.Now,
	}, nil
}

// Run evaluates this rank's shard, gathers all ranks' outputs, and on rank 0
// scores and persists the result. Non-zero ranks return a nil Result.
func (e *Evaluator) Run(ctx context.Context) (*Result, error) {
	sampler, err := shard.NewSampler(e.ds.Len(), e.group.WorldSize(), e.group.Rank())
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	log.Infof("rank %d/%d evaluating %d of %d items (model=%s, frames=%d, dynamic=%v)",
		e.group.Rank(), e.group.WorldSize(), sampler.Len(), e.ds.Len(),
		e.chatModel.Info().Name, e.opts.NumFrames, e.opts.Dynamic)

	outputs, err := e.runShard(ctx, sampler.Indices())
	if err != nil {
		return nil, fmt.Errorf("evaluate shard: %w", err)
	}

	if err := e.group.Barrier(ctx); err != nil {
		return nil, err
	}
	payload, err := EncodeOutputs(outputs)
	if err != nil {
		return nil, err
	}
	gathered, err := e.group.AllGather(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("gather outputs: %w", err)
	}

	var result *Result
	if e.group.Rank() == 0 {
		merged, err := MergeGathered(gathered)
		if err != nil {
			return nil, err
		}
		result, err = e.finalize(merged)
		if err != nil {
			return nil, err
		}
	}

	if err := e.group.Barrier(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// finalize scores merged outputs and writes the result files.
func (e *Evaluator) finalize(merged []Output) (*Result, error) {
	metrics := Score(merged)
	log.Infof("Accuracy_overall: %.4f (%d/%d)", metrics.AccuracyOverall, metrics.Correct, metrics.Total)

	now := e.now()
	metricsPath, err := WriteMetrics(e.opts.OutDir, metrics, now)
	if err != nil {
		return nil, fmt.Errorf("write metrics: %w", err)
	}
	outputsPath, err := WriteOutputs(e.opts.OutDir, merged, now)
	if err != nil {
		return nil, fmt.Errorf("write outputs: %w", err)
	}
	log.Infof("metrics saved to %s", metricsPath)
	return &Result{Metrics: metrics, MetricsPath: metricsPath, OutputsPath: outputsPath}, nil
}

// runShard evaluates the given dataset indices, preserving their order.
func (e *Evaluator) runShard(ctx context.Context, indices []int) ([]Output, error) {
	if e.opts.NumWorkers > 1 {
		return e.runShardParallel(ctx, indices)
	}
	outputs := make([]Output, len(indices))
	for pos, index := range indices {
		out, err := e.evaluateItem(ctx, index)
		if err != nil {
			return nil, err
		}
		outputs[pos] = out
		e.progress(pos+1, len(indices))
	}
	return outputs, nil
}

// progress logs shard progress and notifies the observer.
func (e *Evaluator) progress(done, total int) {
	if e.opts.OnProgress != nil {
		e.opts.OnProgress(done, total)
	}
	if e.opts.ProgressEvery > 0 && (done%e.opts.ProgressEvery == 0 || done == total) {
		log.Infof("rank %d progress: %d/%d", e.group.Rank(), done, total)
	}
}

// evaluateItem runs inference for one dataset index.
func (e *Evaluator) evaluateItem(ctx context.Context, index int) (Output, error) {
	sample, err := e.ds.Sample(index)
	if err != nil {
		return Output{}, fmt.Errorf("sample %d: %w", index, err)
	}
	prompt := benchmark.PromptForSample(sample)

	frames, err := e.loadFrames(sample)
	if err != nil {
		return Output{}, fmt.Errorf("load frames for %s: %w", sample.ID, err)
	}
	parts := make([]model.ContentPart, 0, len(frames)+1)
	parts = append(parts, model.NewTextContentPart(prompt))
	for _, frame := range frames {
		url, err := video.DataURL(frame)
		if err != nil {
			return Output{}, fmt.Errorf("encode frame for %s: %w", sample.ID, err)
		}
		parts = append(parts, model.NewImageContentPart(url, e.opts.ImageDetail))
	}

	req := &model.Request{
		Messages: []model.Message{model.NewUserMessageWithContentParts(parts)},
		GenerationConfig: model.GenerationConfig{
			MaxTokens:   model.IntPtr(maxNewTokens),
			MinTokens:   model.IntPtr(minNewTokens),
			Temperature: model.Float64Ptr(e.opts.Temperature),
			DoSample:    e.opts.Temperature > 0,
			NumBeams:    e.opts.NumBeams,
			Seed:        model.IntPtr(e.opts.Seed),
		},
	}

	itemCtx, span := telemetry.StartItemSpan(ctx, sample.ID)
	defer span.End()
	start := time.Now()
	resp, err := e.chatModel.Chat(itemCtx, req)
	if err != nil {
		return Output{}, fmt.Errorf("inference for %s: %w", sample.ID, err)
	}
	pred := resp.Text()

	totalTokens := 0
	if resp.Usage != nil {
		totalTokens = resp.Usage.TotalTokens
	}
	telemetry.RecordItem(itemCtx, e.chatModel.Info().Name, e.group.Rank(),
		CheckAnswer(pred, sample.Answer), time.Since(start), totalTokens)

	return Output{
		Question: prompt,
		Pred:     pred,
		GT:       sample.Answer,
		TaskType: sample.ID,
	}, nil
}

// loadFrames samples, loads, and preprocesses the frames of one sample.
func (e *Evaluator) loadFrames(sample benchmark.Sample) ([]image.Image, error) {
	paths, _, err := video.SampleFrames(sample.Video, video.Bound(sample.Bound), sample.Bound[1], e.opts.NumFrames)
	if err != nil {
		return nil, err
	}
	loadOpts := video.LoadOptions{AutoRetry: e.opts.AutoRetry, RaiseError: e.opts.RaiseError}
	var frames []image.Image
	for _, path := range paths {
		img, err := e.loader.Load(path, loadOpts)
		if err != nil {
			return nil, err
		}
		if e.opts.Dynamic {
			frames = append(frames, video.Tile(img, video.TileConfig{
				InputSize:    e.opts.InputSize,
				MinNum:       1,
				MaxNum:       e.opts.MaxNum,
				UseThumbnail: e.opts.UseThumbnail,
			})...)
		} else {
			frames = append(frames, img)
		}
	}
	return frames, nil
}
