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
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
)

// itemInferenceParam carries one pool task. Params are pooled to avoid
// per-item allocations on large shards.
type itemInferenceParam struct {
	pos     int
	index   int
	ctx     context.Context
	ev      *Evaluator
	outputs []Output
	errs    []error
	done    *atomic.Int64
	total   int
	wg      *sync.WaitGroup
}

func (p *itemInferenceParam) reset() {
	p.pos = 0
	p.index = 0
	p.ctx = nil
	p.ev = nil
	p.outputs = nil
	p.errs = nil
	p.done = nil
	p.total = 0
	p.wg = nil
}

var itemInferenceParamPool = &sync.Pool{
	New: func() any { return new(itemInferenceParam) },
}

func newItemInferencePool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*itemInferenceParam)
		if !ok {
			panic("item inference pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			itemInferenceParamPool.Put(param)
		}()
		out, err := param.ev.evaluateItem(param.ctx, param.index)
		if err != nil {
			param.errs[param.pos] = err
			return
		}
		param.outputs[param.pos] = out
		param.ev.progress(int(param.done.Add(1)), param.total)
	})
	if err != nil {
		return nil, fmt.Errorf("create item inference pool: %w", err)
	}
	return pool, nil
}

// runShardParallel evaluates the indices on an ants pool while keeping the
// outputs in submission order.
func (e *Evaluator) runShardParallel(ctx context.Context, indices []int) ([]Output, error) {
	pool, err := newItemInferencePool(e.opts.NumWorkers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	outputs := make([]Output, len(indices))
	errs := make([]error, len(indices))
	var done atomic.Int64
	var wg sync.WaitGroup
	for pos, index := range indices {
		wg.Add(1)
		param := itemInferenceParamPool.Get().(*itemInferenceParam)
		param.pos = pos
		param.index = index
		param.ctx = ctx
		param.ev = e
		param.outputs = outputs
		param.errs = errs
		param.done = &done
		param.total = len(indices)
		param.wg = &wg
		if err := pool.Invoke(param); err != nil {
			wg.Done()
			errs[pos] = fmt.Errorf("submit item %d: %w", index, err)
			param.reset()
			itemInferenceParamPool.Put(param)
		}
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return outputs, nil
}
