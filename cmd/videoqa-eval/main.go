//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

// Command videoqa-eval is one evaluation worker. It joins the process group
// described by WORLD_SIZE/RANK/MASTER_ADDR/MASTER_PORT, evaluates its shard of
// the benchmark against an OpenAI-compatible endpoint, and on rank 0 writes
// the merged metrics and per-item outputs.
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"trpc.group/trpc-go/videoqa-eval/benchmark"
	"trpc.group/trpc-go/videoqa-eval/config"
	"trpc.group/trpc-go/videoqa-eval/dist"
	"trpc.group/trpc-go/videoqa-eval/eval"
	"trpc.group/trpc-go/videoqa-eval/eval/upload"
	"trpc.group/trpc-go/videoqa-eval/log"
	"trpc.group/trpc-go/videoqa-eval/model/openai"
	"trpc.group/trpc-go/videoqa-eval/server/progress"
	"trpc.group/trpc-go/videoqa-eval/telemetry"
)

var (
	dataDir      = flag.String("data-dir", "data/longvideobench", "Benchmark root containing the annotation file and videos/")
	annotation   = flag.String("annotation", "lvb_val.json", "Annotation file name inside the data dir")
	outDir       = flag.String("out-dir", "results", "Directory receiving metrics and outputs files")
	modelName    = flag.String("model", "internvl2-8b", "Served model name")
	apiBase      = flag.String("api-base", "", "OpenAI-compatible endpoint base URL (falls back to OPENAI_BASE_URL)")
	numFrames    = flag.Int("num-frames", 16, "Number of frames sampled per clip")
	batchSize    = flag.Int("batch-size", 1, "Inference batch size (only 1 is supported)")
	numWorkers   = flag.Int("num-workers", 1, "Concurrent inference requests per rank")
	numBeams     = flag.Int("num-beams", 1, "Beam-search width")
	temperature  = flag.Float64("temperature", 0, "Sampling temperature; 0 selects greedy decoding")
	seed         = flag.Int("seed", 0, "Sampling seed")
	dynamic      = flag.Bool("dynamic", false, "Enable dynamic tiling of frames")
	maxNum       = flag.Int("max-num", 6, "Maximum tiles per frame when tiling")
	inputSize    = flag.Int("input-size", 448, "Tile edge in pixels")
	useThumbnail = flag.Bool("use-thumbnail", false, "Append a thumbnail tile when tiling")
	autoRetry    = flag.Bool("auto-retry", false, "Keep retrying frame loads up to the retry bound")
	raiseError   = flag.Bool("raise-error", false, "Fail the run on unreadable frames instead of substituting a placeholder")
	logLevel     = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	statusAddr   = flag.String("status-addr", "", "Address for the progress endpoint; empty disables it")
	otlpEndpoint = flag.String("otlp-endpoint", "", "OTLP endpoint for metrics and traces; empty disables export")
	otlpProtocol = flag.String("otlp-protocol", "grpc", "OTLP protocol: grpc or http")
	cosBucketURL = flag.String("cos-bucket-url", "", "COS bucket URL for result upload from rank 0; empty disables it")
	cosPrefix    = flag.String("cos-prefix", "videoqa/results", "Object key prefix for uploaded result files")
	configFile   = flag.String("config", "", "Optional YAML config file; flags set on the command line win")
)

func main() {
	flag.Parse()
	if err := applyConfigFile(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.SetLevel(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	distCfg, err := dist.ParseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse distributed config: %v", err)
	}
	log.Infof("starting run %s: rank=%d local_rank=%d world=%d model=%s data=%s/%s",
		runID, distCfg.Rank, distCfg.LocalRank, distCfg.WorldSize, *modelName, *dataDir, *annotation)

	if *otlpEndpoint != "" {
		shutdown, err := telemetry.Start(ctx,
			telemetry.WithEndpoint(*otlpEndpoint),
			telemetry.WithProtocol(*otlpProtocol),
			telemetry.WithRank(distCfg.Rank),
		)
		if err != nil {
			log.Fatalf("start telemetry: %v", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Warnf("shutdown telemetry: %v", err)
			}
		}()
	}

	ds, err := benchmark.Load(*dataDir, *annotation)
	if err != nil {
		log.Fatalf("load benchmark: %v", err)
	}
	log.Infof("loaded %d items from %s", ds.Len(), *annotation)

	group, err := dist.Init(ctx, distCfg)
	if err != nil {
		log.Fatalf("init process group: %v", err)
	}
	defer group.Close()

	var modelOpts []openai.Option
	if *apiBase != "" {
		modelOpts = append(modelOpts, openai.WithBaseURL(*apiBase))
	}
	chatModel := openai.New(*modelName, modelOpts...)

	evalOpts := []eval.Option{
		eval.WithNumFrames(*numFrames),
		eval.WithBatchSize(*batchSize),
		eval.WithNumWorkers(*numWorkers),
		eval.WithNumBeams(*numBeams),
		eval.WithTemperature(*temperature),
		eval.WithSeed(*seed),
		eval.WithDynamic(*dynamic),
		eval.WithMaxNum(*maxNum),
		eval.WithInputSize(*inputSize),
		eval.WithUseThumbnail(*useThumbnail),
		eval.WithAutoRetry(*autoRetry),
		eval.WithRaiseError(*raiseError),
		eval.WithOutDir(*outDir),
	}
	if *statusAddr != "" {
		srv := progress.New(*statusAddr, progress.Snapshot{
			RunID:     runID,
			Model:     *modelName,
			Rank:      distCfg.Rank,
			WorldSize: distCfg.WorldSize,
		})
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warnf("shutdown progress server: %v", err)
			}
		}()
		evalOpts = append(evalOpts, eval.WithOnProgress(srv.Update))
	}

	evaluator, err := eval.New(ds, chatModel, group, evalOpts...)
	if err != nil {
		log.Fatalf("create evaluator: %v", err)
	}
	result, err := evaluator.Run(ctx)
	if err != nil {
		log.Fatalf("evaluation failed: %v", err)
	}

	if result != nil {
		log.Infof("run %s finished: Accuracy_overall=%.4f (%d/%d)",
			runID, result.Metrics.AccuracyOverall, result.Metrics.Correct, result.Metrics.Total)
		if *cosBucketURL != "" {
			uploadResults(ctx, result)
		}
	}
}

// uploadResults publishes the rank-0 result files to COS. Upload failures are
// logged but do not fail the run; the files are already on local disk.
func uploadResults(ctx context.Context, result *eval.Result) {
	svc, err := upload.NewService(*cosBucketURL, upload.WithPrefix(*cosPrefix))
	if err != nil {
		log.Errorf("create upload service: %v", err)
		return
	}
	for _, path := range []string{result.MetricsPath, result.OutputsPath} {
		key, err := svc.UploadFile(ctx, path)
		if err != nil {
			log.Errorf("upload %s: %v", path, err)
			continue
		}
		log.Infof("uploaded %s as %s", path, key)
	}
}

// applyConfigFile overlays values from the optional YAML config onto flags
// that were not set on the command line.
func applyConfigFile() error {
	if *configFile == "" {
		return nil
	}
	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	setString := func(name string, dst *string, val string) {
		if !set[name] && val != "" {
			*dst = val
		}
	}
	setInt := func(name string, dst *int, val int) {
		if !set[name] && val != 0 {
			*dst = val
		}
	}
	setBool := func(name string, dst *bool, val bool) {
		if !set[name] && val {
			*dst = val
		}
	}

	setString("data-dir", dataDir, cfg.DataDir)
	setString("annotation", annotation, cfg.Annotation)
	setString("out-dir", outDir, cfg.OutDir)
	setString("model", modelName, cfg.Model)
	setString("api-base", apiBase, cfg.APIBase)
	setInt("num-frames", numFrames, cfg.NumFrames)
	setInt("batch-size", batchSize, cfg.BatchSize)
	setInt("num-workers", numWorkers, cfg.NumWorkers)
	setInt("num-beams", numBeams, cfg.NumBeams)
	setInt("max-num", maxNum, cfg.MaxNum)
	setInt("input-size", inputSize, cfg.InputSize)
	setInt("seed", seed, cfg.Seed)
	setBool("dynamic", dynamic, cfg.Dynamic)
	setBool("use-thumbnail", useThumbnail, cfg.UseThumbnail)
	setBool("auto-retry", autoRetry, cfg.AutoRetry)
	setBool("raise-error", raiseError, cfg.RaiseError)
	setString("log-level", logLevel, cfg.LogLevel)
	setString("status-addr", statusAddr, cfg.StatusAddr)
	setString("otlp-endpoint", otlpEndpoint, cfg.OTLPEndpoint)
	setString("cos-bucket-url", cosBucketURL, cfg.COSBucketURL)
	setString("cos-prefix", cosPrefix, cfg.COSPrefix)
	if !set["temperature"] && cfg.Temperature != 0 {
		*temperature = cfg.Temperature
	}
	return nil
}
