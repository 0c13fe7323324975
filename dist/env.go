//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package dist

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable keys carrying the distributed identity of a worker.
// They follow the convention of common training launchers.
const (
	WorldSizeEnvKey  = "WORLD_SIZE"
	RankEnvKey       = "RANK"
	LocalRankEnvKey  = "LOCAL_RANK"
	MasterAddrEnvKey = "MASTER_ADDR"
	MasterPortEnvKey = "MASTER_PORT"
)

// DefaultMasterPort is used when MASTER_PORT is unset.
const DefaultMasterPort = 29500

// Config describes one worker's place in the process group.
type Config struct {
	// WorldSize is the total number of worker processes.
	WorldSize int
	// Rank is this worker's ordinal in [0, WorldSize).
	Rank int
	// LocalRank is the worker's ordinal on its host. It exists for device
	// pinning parity with GPU launchers and is only logged here.
	LocalRank int
	// MasterAddr is the host of the rank-0 coordinator.
	MasterAddr string
	// MasterPort is the TCP port of the rank-0 coordinator.
	MasterPort int
}

// Single reports whether the config describes a single-process group.
func (c *Config) Single() bool {
	return c.WorldSize == 1
}

// Validate checks the config for internal consistency.
func (c *Config) Validate() error {
	if c.WorldSize <= 0 {
		return fmt.Errorf("world size must be positive, got %d", c.WorldSize)
	}
	if c.Rank < 0 || c.Rank >= c.WorldSize {
		return fmt.Errorf("rank %d out of range [0, %d)", c.Rank, c.WorldSize)
	}
	if c.WorldSize > 1 {
		if c.MasterAddr == "" {
			return fmt.Errorf("master addr is empty")
		}
		if c.MasterPort <= 0 || c.MasterPort > 65535 {
			return fmt.Errorf("master port %d out of range", c.MasterPort)
		}
	}
	return nil
}

// ParseConfigFromEnv builds a Config from the environment. When WORLD_SIZE is
// unset the worker runs as a single-process group.
func ParseConfigFromEnv() (*Config, error) {
	if _, ok := os.LookupEnv(WorldSizeEnvKey); !ok {
		return singleProcessConfig(), nil
	}
	worldSize, err := intFromEnv(WorldSizeEnvKey, 1)
	if err != nil {
		return nil, err
	}
	rank, err := intFromEnv(RankEnvKey, 0)
	if err != nil {
		return nil, err
	}
	localRank, err := intFromEnv(LocalRankEnvKey, 0)
	if err != nil {
		return nil, err
	}
	masterPort, err := intFromEnv(MasterPortEnvKey, DefaultMasterPort)
	if err != nil {
		return nil, err
	}
	masterAddr := os.Getenv(MasterAddrEnvKey)
	if masterAddr == "" {
		masterAddr = "127.0.0.1"
	}
	cfg := &Config{
		WorldSize:  worldSize,
		Rank:       rank,
		LocalRank:  localRank,
		MasterAddr: masterAddr,
		MasterPort: masterPort,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid distributed config: %w", err)
	}
	return cfg, nil
}

func singleProcessConfig() *Config {
	return &Config{WorldSize: 1, Rank: 0, LocalRank: 0}
}

func intFromEnv(key string, fallback int) (int, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parse %s=%q: %w", key, val, err)
	}
	return n, nil
}
