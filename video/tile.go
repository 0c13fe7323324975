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
	"image"
)

// TileConfig controls dynamic tiling of a frame into model input patches.
type TileConfig struct {
	// InputSize is the square tile edge in pixels.
	InputSize int
	// MinNum is the minimum number of tiles.
	MinNum int
	// MaxNum is the maximum number of tiles.
	MaxNum int
	// UseThumbnail appends a full-frame thumbnail tile when the frame was
	// split into more than one tile.
	UseThumbnail bool
}

// DefaultTileConfig mirrors the common evaluation settings.
func DefaultTileConfig() TileConfig {
	return TileConfig{InputSize: 448, MinNum: 1, MaxNum: 6}
}

// ratio is a tiling grid of cols x rows unit squares.
type ratio struct {
	cols int
	rows int
}

// targetRatios enumerates the grids with minNum <= cols*rows <= maxNum,
// ordered by tile count.
func targetRatios(minNum, maxNum int) []ratio {
	var ratios []ratio
	for n := minNum; n <= maxNum; n++ {
		for cols := 1; cols <= n; cols++ {
			if n%cols != 0 {
				continue
			}
			rows := n / cols
			ratios = append(ratios, ratio{cols: cols, rows: rows})
		}
	}
	return ratios
}

// closestRatio picks the grid whose aspect ratio is closest to the frame's.
// On a near tie, a larger grid wins only when the frame has enough pixels to
// fill it at half resolution.
func closestRatio(width, height int, cfg TileConfig) ratio {
	aspect := float64(width) / float64(height)
	best := ratio{cols: 1, rows: 1}
	bestDiff := -1.0
	area := width * height
	for _, r := range targetRatios(cfg.MinNum, cfg.MaxNum) {
		target := float64(r.cols) / float64(r.rows)
		diff := aspect - target
		if diff < 0 {
			diff = -diff
		}
		switch {
		case bestDiff < 0 || diff < bestDiff:
			bestDiff = diff
			best = r
		case diff == bestDiff:
			if area > cfg.InputSize*cfg.InputSize*r.cols*r.rows/2 {
				best = r
			}
		}
	}
	return best
}

// Tile splits a frame into cfg.InputSize-square tiles following the closest
// aspect-ratio grid, optionally appending a thumbnail tile.
func Tile(img image.Image, cfg TileConfig) []image.Image {
	if cfg.InputSize <= 0 {
		cfg.InputSize = DefaultTileConfig().InputSize
	}
	if cfg.MinNum <= 0 {
		cfg.MinNum = 1
	}
	if cfg.MaxNum < cfg.MinNum {
		cfg.MaxNum = cfg.MinNum
	}
	bounds := img.Bounds()
	grid := closestRatio(bounds.Dx(), bounds.Dy(), cfg)

	resized := resizeNearest(img, cfg.InputSize*grid.cols, cfg.InputSize*grid.rows)
	tiles := make([]image.Image, 0, grid.cols*grid.rows+1)
	for row := 0; row < grid.rows; row++ {
		for col := 0; col < grid.cols; col++ {
			rect := image.Rect(
				col*cfg.InputSize,
				row*cfg.InputSize,
				(col+1)*cfg.InputSize,
				(row+1)*cfg.InputSize,
			)
			tiles = append(tiles, crop(resized, rect))
		}
	}
	if cfg.UseThumbnail && len(tiles) > 1 {
		tiles = append(tiles, resizeNearest(img, cfg.InputSize, cfg.InputSize))
	}
	return tiles
}

// resizeNearest scales img to width x height with nearest-neighbor sampling.
// Tiles feed a vision encoder that normalizes inputs anyway, so the cheap
// kernel is sufficient.
func resizeNearest(img image.Image, width, height int) *image.RGBA {
	src := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcY := src.Min.Y + y*src.Dy()/height
		for x := 0; x < width; x++ {
			srcX := src.Min.X + x*src.Dx()/width
			dst.Set(x, y, img.At(srcX, srcY))
		}
	}
	return dst
}

func crop(img *image.RGBA, rect image.Rectangle) image.Image {
	return img.SubImage(rect)
}
