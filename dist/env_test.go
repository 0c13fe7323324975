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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigFromEnvSingleProcess(t *testing.T) {
	// WORLD_SIZE unset means a single-process group.
	cfg, err := ParseConfigFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Single())
	assert.Equal(t, 0, cfg.Rank)
	assert.Equal(t, 1, cfg.WorldSize)
}

func TestParseConfigFromEnv(t *testing.T) {
	t.Setenv(WorldSizeEnvKey, "4")
	t.Setenv(RankEnvKey, "2")
	t.Setenv(LocalRankEnvKey, "2")
	t.Setenv(MasterAddrEnvKey, "10.0.0.5")
	t.Setenv(MasterPortEnvKey, "23456")

	cfg, err := ParseConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.WorldSize)
	assert.Equal(t, 2, cfg.Rank)
	assert.Equal(t, 2, cfg.LocalRank)
	assert.Equal(t, "10.0.0.5", cfg.MasterAddr)
	assert.Equal(t, 23456, cfg.MasterPort)
	assert.False(t, cfg.Single())
}

func TestParseConfigFromEnvDefaults(t *testing.T) {
	t.Setenv(WorldSizeEnvKey, "2")
	t.Setenv(RankEnvKey, "1")

	cfg, err := ParseConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.MasterAddr)
	assert.Equal(t, DefaultMasterPort, cfg.MasterPort)
}

func TestParseConfigFromEnvErrors(t *testing.T) {
	t.Run("bad int", func(t *testing.T) {
		t.Setenv(WorldSizeEnvKey, "two")
		_, err := ParseConfigFromEnv()
		assert.Error(t, err)
	})
	t.Run("rank out of range", func(t *testing.T) {
		t.Setenv(WorldSizeEnvKey, "2")
		t.Setenv(RankEnvKey, "2")
		_, err := ParseConfigFromEnv()
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "single", cfg: Config{WorldSize: 1}},
		{name: "valid multi", cfg: Config{WorldSize: 2, Rank: 1, MasterAddr: "h", MasterPort: 1234}},
		{name: "zero world", cfg: Config{}, wantErr: true},
		{name: "missing addr", cfg: Config{WorldSize: 2, Rank: 0, MasterPort: 1234}, wantErr: true},
		{name: "bad port", cfg: Config{WorldSize: 2, Rank: 0, MasterAddr: "h", MasterPort: 0}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
