//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package shard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSamplerModuloAssignment(t *testing.T) {
	s, err := NewSampler(10, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 9}, s.Indices())
	assert.Equal(t, 3, s.Len())
}

func TestNewSamplerValidation(t *testing.T) {
	tests := []struct {
		name              string
		size, world, rank int
	}{
		{name: "zero size", size: 0, world: 1, rank: 0},
		{name: "zero world", size: 1, world: 0, rank: 0},
		{name: "negative rank", size: 1, world: 1, rank: -1},
		{name: "rank >= world", size: 1, world: 2, rank: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSampler(tt.size, tt.world, tt.rank)
			assert.Error(t, err)
		})
	}
}

func TestModuloCoversEveryIndexExactlyOnce(t *testing.T) {
	const size, world = 103, 8
	seen := make(map[int]int)
	for rank := 0; rank < world; rank++ {
		s, err := NewSampler(size, world, rank)
		require.NoError(t, err)
		for _, i := range s.Indices() {
			seen[i]++
		}
	}
	require.Len(t, seen, size)
	for i := 0; i < size; i++ {
		assert.Equal(t, 1, seen[i], "index %d", i)
	}
}

func TestContiguousRangeRemainderToLowestRanks(t *testing.T) {
	// 10 indices over 4 ranks: sizes 3, 3, 2, 2.
	wantSizes := []int{3, 3, 2, 2}
	next := 0
	for rank, want := range wantSizes {
		r, err := ContiguousRange(10, 4, rank)
		require.NoError(t, err)
		assert.Equal(t, next, r.Begin, "rank %d begin", rank)
		assert.Equal(t, want, r.Len(), "rank %d size", rank)
		next = r.End
	}
	assert.Equal(t, 10, next)
}

func TestContiguousCoversEveryIndexExactlyOnce(t *testing.T) {
	for _, tc := range []struct{ total, world int }{
		{total: 1, world: 1},
		{total: 5, world: 8},
		{total: 64, world: 8},
		{total: 103, world: 7},
	} {
		seen := make(map[int]int)
		for rank := 0; rank < tc.world; rank++ {
			r, err := ContiguousRange(tc.total, tc.world, rank)
			require.NoError(t, err)
			for _, i := range r.Indices() {
				seen[i]++
			}
		}
		require.Len(t, seen, tc.total, "total=%d world=%d", tc.total, tc.world)
		for i := 0; i < tc.total; i++ {
			assert.Equal(t, 1, seen[i], "total=%d world=%d index=%d", tc.total, tc.world, i)
		}
	}
}

func TestSchemesDiffer(t *testing.T) {
	// The two schemes are intentionally different assignments.
	s, err := NewSampler(10, 4, 1)
	require.NoError(t, err)
	r, err := ContiguousRange(10, 4, 1)
	require.NoError(t, err)
	assert.NotEqual(t, s.Indices(), r.Indices())
}
