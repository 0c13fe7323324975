//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

// Package dist provides the process group used for distributed evaluation:
// rank identity from the environment plus barrier and all-gather collectives.
//
// The collectives run over a star topology: every non-zero rank keeps one TCP
// connection to rank 0, which gathers the per-rank payloads and broadcasts the
// combined result. Each collective carries a sequence number so that ranks
// cannot silently mix results of different collectives.
package dist

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"trpc.group/trpc-go/videoqa-eval/log"
)

const (
	opAllGather = "all_gather"

	dialRetryInterval = 200 * time.Millisecond
	defaultInitWait   = 60 * time.Second
)

// Group is a process group over which collectives run.
type Group struct {
	cfg *Config

	// Rank 0 only: connections to peers, indexed by rank (index 0 unused).
	peers []net.Conn
	// Non-zero ranks only: connection to rank 0.
	coordinator net.Conn
	listener    net.Listener

	seq uint64
}

// Init establishes the process group described by cfg. For a world of one no
// networking happens. Otherwise rank 0 listens for its peers and every other
// rank dials the coordinator, retrying until the context expires.
func Init(ctx context.Context, cfg *Config) (*Group, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	g := &Group{cfg: cfg}
	if cfg.Single() {
		return g, nil
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultInitWait)
		defer cancel()
	}
	if cfg.Rank == 0 {
		if err := g.accept(ctx); err != nil {
			g.Close()
			return nil, fmt.Errorf("accept peers: %w", err)
		}
	} else {
		if err := g.dial(ctx); err != nil {
			return nil, fmt.Errorf("dial coordinator: %w", err)
		}
	}
	log.Infof("process group ready: rank=%d world=%d", cfg.Rank, cfg.WorldSize)
	return g, nil
}

// Rank returns this worker's rank.
func (g *Group) Rank() int {
	return g.cfg.Rank
}

// WorldSize returns the total number of workers.
func (g *Group) WorldSize() int {
	return g.cfg.WorldSize
}

// accept waits for every non-zero rank to connect and identify itself.
func (g *Group) accept(ctx context.Context) error {
	addr := net.JoinHostPort("", strconv.Itoa(g.cfg.MasterPort))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	g.listener = listener
	if deadline, ok := ctx.Deadline(); ok {
		if tl, ok := listener.(*net.TCPListener); ok {
			_ = tl.SetDeadline(deadline)
		}
	}
	g.peers = make([]net.Conn, g.cfg.WorldSize)
	for connected := 0; connected < g.cfg.WorldSize-1; connected++ {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		hello, err := readFrame(ctx, conn)
		if err != nil {
			conn.Close()
			return fmt.Errorf("read hello: %w", err)
		}
		if hello.Rank <= 0 || hello.Rank >= g.cfg.WorldSize {
			conn.Close()
			return fmt.Errorf("hello from invalid rank %d", hello.Rank)
		}
		if g.peers[hello.Rank] != nil {
			conn.Close()
			return fmt.Errorf("duplicate hello from rank %d", hello.Rank)
		}
		g.peers[hello.Rank] = conn
		log.Debugf("rank %d connected (%d/%d)", hello.Rank, connected+1, g.cfg.WorldSize-1)
	}
	return nil
}

// dial connects to the rank-0 coordinator, retrying while it comes up.
func (g *Group) dial(ctx context.Context) error {
	addr := net.JoinHostPort(g.cfg.MasterAddr, strconv.Itoa(g.cfg.MasterPort))
	var lastErr error
	for {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
			}
			return ctx.Err()
		default:
		}
		d := net.Dialer{Timeout: dialRetryInterval}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			if err := writeFrame(ctx, conn, &frame{Rank: g.cfg.Rank}); err != nil {
				conn.Close()
				return fmt.Errorf("send hello: %w", err)
			}
			g.coordinator = conn
			return nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
		case <-time.After(dialRetryInterval):
		}
	}
}

// AllGather exchanges payloads so that every rank receives the payloads of all
// ranks, ordered by rank.
func (g *Group) AllGather(ctx context.Context, payload []byte) ([][]byte, error) {
	g.seq++
	if g.cfg.Single() {
		return [][]byte{payload}, nil
	}
	if g.cfg.Rank == 0 {
		return g.gatherAndBroadcast(ctx, payload)
	}
	return g.sendAndReceive(ctx, payload)
}

// Barrier blocks until every rank has reached it.
func (g *Group) Barrier(ctx context.Context) error {
	_, err := g.AllGather(ctx, nil)
	if err != nil {
		return fmt.Errorf("barrier: %w", err)
	}
	return nil
}

func (g *Group) gatherAndBroadcast(ctx context.Context, payload []byte) ([][]byte, error) {
	gathered := make([][]byte, g.cfg.WorldSize)
	gathered[0] = payload

	type result struct {
		rank int
		err  error
	}
	results := make(chan result, g.cfg.WorldSize-1)
	for rank := 1; rank < g.cfg.WorldSize; rank++ {
		go func(rank int) {
			f, err := readFrame(ctx, g.peers[rank])
			if err == nil {
				if f.Rank != rank || f.Seq != g.seq || f.Op != opAllGather {
					err = fmt.Errorf("unexpected frame from rank %d: rank=%d seq=%d op=%q (want seq=%d)",
						rank, f.Rank, f.Seq, f.Op, g.seq)
				} else {
					gathered[rank] = f.Payload
				}
			}
			results <- result{rank: rank, err: err}
		}(rank)
	}
	for i := 0; i < g.cfg.WorldSize-1; i++ {
		r := <-results
		if r.err != nil {
			return nil, fmt.Errorf("gather from rank %d: %w", r.rank, r.err)
		}
	}

	reply := &frame{Seq: g.seq, Rank: 0, Op: opAllGather, Gathered: gathered}
	for rank := 1; rank < g.cfg.WorldSize; rank++ {
		if err := writeFrame(ctx, g.peers[rank], reply); err != nil {
			return nil, fmt.Errorf("broadcast to rank %d: %w", rank, err)
		}
	}
	return gathered, nil
}

func (g *Group) sendAndReceive(ctx context.Context, payload []byte) ([][]byte, error) {
	msg := &frame{Seq: g.seq, Rank: g.cfg.Rank, Op: opAllGather, Payload: payload}
	if err := writeFrame(ctx, g.coordinator, msg); err != nil {
		return nil, fmt.Errorf("send to coordinator: %w", err)
	}
	reply, err := readFrame(ctx, g.coordinator)
	if err != nil {
		return nil, fmt.Errorf("receive from coordinator: %w", err)
	}
	if reply.Seq != g.seq || reply.Op != opAllGather {
		return nil, fmt.Errorf("unexpected reply: seq=%d op=%q (want seq=%d)", reply.Seq, reply.Op, g.seq)
	}
	if len(reply.Gathered) != g.cfg.WorldSize {
		return nil, fmt.Errorf("gathered %d payloads, want %d", len(reply.Gathered), g.cfg.WorldSize)
	}
	return reply.Gathered, nil
}

// Close tears down the group's connections.
func (g *Group) Close() error {
	var errs []error
	if g.coordinator != nil {
		errs = append(errs, g.coordinator.Close())
		g.coordinator = nil
	}
	for i, conn := range g.peers {
		if conn != nil {
			errs = append(errs, conn.Close())
			g.peers[i] = nil
		}
	}
	if g.listener != nil {
		errs = append(errs, g.listener.Close())
		g.listener = nil
	}
	return errors.Join(errs...)
}
