//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

// Package config loads optional YAML run configuration for the worker CLI.
// Command-line flags take precedence over file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the worker's command-line flags.
type Config struct {
	// DataDir is the benchmark root containing the annotation file and videos/.
	DataDir string `yaml:"data_dir"`
	// Annotation is the annotation file name inside DataDir.
	Annotation string `yaml:"annotation"`
	// OutDir receives metrics and outputs files.
	OutDir string `yaml:"out_dir"`
	// Model is the served model name.
	Model string `yaml:"model"`
	// APIBase is the OpenAI-compatible endpoint base URL.
	APIBase string `yaml:"api_base"`
	// NumFrames is the number of sampled frames per clip.
	NumFrames int `yaml:"num_frames"`
	// BatchSize is the inference batch size (must stay 1).
	BatchSize int `yaml:"batch_size"`
	// NumWorkers sizes the intra-rank inference pool.
	NumWorkers int `yaml:"num_workers"`
	// NumBeams is the beam-search width.
	NumBeams int `yaml:"num_beams"`
	// Temperature is the sampling temperature.
	Temperature float64 `yaml:"temperature"`
	// Seed seeds sampling.
	Seed int `yaml:"seed"`
	// Dynamic enables dynamic tiling.
	Dynamic bool `yaml:"dynamic"`
	// MaxNum is the maximum tiles per frame.
	MaxNum int `yaml:"max_num"`
	// InputSize is the tile edge in pixels.
	InputSize int `yaml:"input_size"`
	// UseThumbnail appends a thumbnail tile when tiling.
	UseThumbnail bool `yaml:"use_thumbnail"`
	// AutoRetry keeps retrying frame loads up to the retry bound.
	AutoRetry bool `yaml:"auto_retry"`
	// RaiseError fails the run on unreadable frames.
	RaiseError bool `yaml:"raise_error"`
	// LogLevel is the log verbosity.
	LogLevel string `yaml:"log_level"`
	// StatusAddr, when set, serves the progress endpoint.
	StatusAddr string `yaml:"status_addr"`
	// OTLPEndpoint, when set, enables telemetry export.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	// COSBucketURL, when set, uploads result files from rank 0.
	COSBucketURL string `yaml:"cos_bucket_url"`
	// COSPrefix is the object key prefix for uploads.
	COSPrefix string `yaml:"cos_prefix"`
}

// Load reads a YAML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &cfg, nil
}
