//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

// Command videoqa-launch starts np copies of a worker command on the local
// host, one per rank, with the distributed environment set for each. The
// first worker failure cancels the rest.
//
// Usage:
//
//	videoqa-launch -np 4 -- videoqa-eval -data-dir data/longvideobench
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"

	"trpc.group/trpc-go/videoqa-eval/dist"
	"trpc.group/trpc-go/videoqa-eval/log"
)

var (
	np         = flag.Int("np", 1, "Number of worker processes to launch")
	masterAddr = flag.String("master-addr", "127.0.0.1", "Host of the rank-0 coordinator")
	masterPort = flag.Int("master-port", dist.DefaultMasterPort, "TCP port of the rank-0 coordinator")
	logLevel   = flag.String("log-level", "info", "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()
	log.SetLevel(*logLevel)

	args := flag.Args()
	if len(args) == 0 {
		log.Fatalf("no worker command given; usage: videoqa-launch -np N -- <command> [args...]")
	}
	if *np <= 0 {
		log.Fatalf("np must be positive, got %d", *np)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Infof("launching %d x %s (master %s:%d)", *np, args[0], *masterAddr, *masterPort)

	var wg sync.WaitGroup
	var failed int32
	for rank := 0; rank < *np; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			if err := runWorker(ctx, rank, args); err != nil {
				if ctx.Err() == nil {
					log.Errorf("rank %d failed: %v", rank, err)
				}
				atomic.AddInt32(&failed, 1)
				// Take the remaining workers down with it.
				cancel()
			}
		}(rank)
	}
	wg.Wait()

	if n := atomic.LoadInt32(&failed); n > 0 {
		log.Errorf("%d of %d workers failed", n, *np)
		os.Exit(1)
	}
	log.Infof("all %d workers finished", *np)
}

// runWorker runs one rank's worker process to completion, relaying its output
// with a rank prefix.
func runWorker(ctx context.Context, rank int, args []string) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = append(os.Environ(),
		dist.WorldSizeEnvKey+"="+strconv.Itoa(*np),
		dist.RankEnvKey+"="+strconv.Itoa(rank),
		dist.LocalRankEnvKey+"="+strconv.Itoa(rank),
		dist.MasterAddrEnvKey+"="+*masterAddr,
		dist.MasterPortEnvKey+"="+strconv.Itoa(*masterPort),
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	var relay sync.WaitGroup
	relay.Add(2)
	go relayOutput(&relay, rank, stdout, os.Stdout)
	go relayOutput(&relay, rank, stderr, os.Stderr)
	relay.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("worker exited: %w", err)
	}
	return nil
}

func relayOutput(wg *sync.WaitGroup, rank int, r io.Reader, w io.Writer) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		fmt.Fprintf(w, "[rank %d] %s\n", rank, scanner.Text())
	}
}
