//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

// Package video samples and preprocesses video frames for multimodal
// inference. Clips are represented as directories of pre-extracted frame
// images covering the clip uniformly; sampling picks a subset of those files.
package video

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// frameExtensions are the image files recognized inside a frame directory.
var frameExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Bound is a [start, end] time window in seconds.
type Bound [2]float64

// MiddleTimestamps splits [start, end] into n equal segments and returns the
// midpoint of each segment.
func MiddleTimestamps(bound Bound, n int) []float64 {
	start, end := bound[0], bound[1]
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	seg := (end - start) / float64(n)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = start + seg*(float64(i)+0.5)
	}
	return out
}

// ListFrames returns the sorted frame image paths of a clip directory.
func ListFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame dir: %w", err)
	}
	var frames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if frameExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			frames = append(frames, filepath.Join(dir, entry.Name()))
		}
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frame images in %s", dir)
	}
	sort.Strings(frames)
	return frames, nil
}

// SampleFrames picks numFrames frame files from the clip directory using
// middle sampling over the given time bound. The clip's extracted frames are
// assumed to cover [0, duration] uniformly, with duration = bound end of the
// full-clip bound recorded in the annotation.
func SampleFrames(dir string, bound Bound, duration float64, numFrames int) ([]string, []float64, error) {
	if numFrames <= 0 {
		return nil, nil, fmt.Errorf("num frames must be positive, got %d", numFrames)
	}
	frames, err := ListFrames(dir)
	if err != nil {
		return nil, nil, err
	}
	if duration <= 0 {
		duration = bound[1]
	}
	timestamps := MiddleTimestamps(bound, numFrames)
	paths := make([]string, numFrames)
	for i, ts := range timestamps {
		idx := 0
		if duration > 0 {
			idx = int(ts / duration * float64(len(frames)))
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(frames) {
			idx = len(frames) - 1
		}
		paths[i] = frames[idx]
	}
	return paths, timestamps, nil
}
