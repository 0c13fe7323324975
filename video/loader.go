//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package video

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	// Register the frame image decoders.
	_ "image/jpeg"
	_ "image/png"

	"trpc.group/trpc-go/videoqa-eval/log"
)

// defaultRetryNum bounds the load attempts for one image.
const defaultRetryNum = 10

// Placeholder dimensions for unreadable images.
const (
	placeholderWidth  = 800
	placeholderHeight = 600
)

// LoadOptions control the failure behavior of the loader.
type LoadOptions struct {
	// AutoRetry keeps retrying up to the retry bound instead of giving up on
	// the first failure.
	AutoRetry bool
	// RaiseError returns the load error instead of a placeholder image.
	RaiseError bool
}

// Loader reads frame images with a bounded retry.
type Loader struct {
	// RetryNum is the maximum number of attempts per image.
	RetryNum int
}

// NewLoader returns a loader with the default retry bound.
func NewLoader() *Loader {
	return &Loader{RetryNum: defaultRetryNum}
}

// Load reads and decodes one image file. On failure it retries when
// opts.AutoRetry is set; once attempts are exhausted it either returns the
// error (opts.RaiseError) or a white placeholder image.
func (l *Loader) Load(path string, opts LoadOptions) (image.Image, error) {
	retryNum := l.RetryNum
	if retryNum <= 0 {
		retryNum = 1
	}
	var lastErr error
	for attempt := 0; attempt < retryNum; attempt++ {
		img, err := decodeFile(path)
		if err == nil {
			return img, nil
		}
		lastErr = err
		log.Warnf("load image %s (attempt %d/%d): %v", path, attempt+1, retryNum, err)
		if !opts.AutoRetry {
			break
		}
	}
	if opts.RaiseError {
		return nil, fmt.Errorf("load image %s: %w", path, lastErr)
	}
	return Placeholder(), nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// Placeholder returns the white RGB image substituted for unreadable frames.
func Placeholder() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}
