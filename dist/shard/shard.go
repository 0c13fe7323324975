//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

// Package shard assigns dataset indices to ranks of a distributed run.
//
// Two assignment schemes are provided and both are kept deliberately:
// the modulo scheme used by the inference sampler's constructor, and a
// contiguous near-equal scheme. They distribute different index sets to a
// given rank, but each covers [0, size) exactly once across all ranks.
package shard

import "fmt"

// Sampler selects the indices owned by one rank under the modulo scheme:
// rank r owns every index i with i % world == r.
type Sampler struct {
	size    int
	world   int
	rank    int
	indices []int
}

// NewSampler creates a sampler for the given dataset size and rank identity.
func NewSampler(size, world, rank int) (*Sampler, error) {
	if size <= 0 {
		return nil, fmt.Errorf("sampler size must be positive, got %d", size)
	}
	if world <= 0 {
		return nil, fmt.Errorf("world size must be positive, got %d", world)
	}
	if rank < 0 || rank >= world {
		return nil, fmt.Errorf("rank %d out of range [0, %d)", rank, world)
	}
	s := &Sampler{size: size, world: world, rank: rank}
	for i := rank; i < size; i += world {
		s.indices = append(s.indices, i)
	}
	return s, nil
}

// Indices returns the indices owned by this rank, in increasing order.
func (s *Sampler) Indices() []int {
	return s.indices
}

// Len returns the number of indices owned by this rank.
func (s *Sampler) Len() int {
	return len(s.indices)
}

// Range is a half-open index interval [Begin, End).
type Range struct {
	Begin int
	End   int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return r.End - r.Begin
}

// Indices materializes the range as a slice.
func (r Range) Indices() []int {
	out := make([]int, 0, r.Len())
	for i := r.Begin; i < r.End; i++ {
		out = append(out, i)
	}
	return out
}

// ContiguousRange partitions [0, total) into contiguous near-equal shards and
// returns the shard of the given rank. The remainder of total/world goes to
// the lowest-ranked shards, one extra index each.
func ContiguousRange(total, world, rank int) (Range, error) {
	if total < 0 {
		return Range{}, fmt.Errorf("total size must be non-negative, got %d", total)
	}
	if world <= 0 {
		return Range{}, fmt.Errorf("world size must be positive, got %d", world)
	}
	if rank < 0 || rank >= world {
		return Range{}, fmt.Errorf("rank %d out of range [0, %d)", rank, world)
	}
	shardSize := total / world
	left := total % world
	begin := shardSize*rank + min(rank, left)
	end := begin + shardSize
	if rank < left {
		end++
	}
	if end > total {
		end = total
	}
	return Range{Begin: begin, End: end}, nil
}
