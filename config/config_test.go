//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	content := `
data_dir: /data/longvideobench
annotation: val.jsonl
model: internvl2-8b
api_base: http://10.0.0.2:8000/v1
num_frames: 32
dynamic: true
max_num: 6
temperature: 0.7
status_addr: ":8089"
cos_bucket_url: https://results-125000.cos.ap-guangzhou.myqcloud.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/longvideobench", cfg.DataDir)
	assert.Equal(t, "val.jsonl", cfg.Annotation)
	assert.Equal(t, "internvl2-8b", cfg.Model)
	assert.Equal(t, 32, cfg.NumFrames)
	assert.True(t, cfg.Dynamic)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, ":8089", cfg.StatusAddr)
	assert.Equal(t, "https://results-125000.cos.ap-guangzhou.myqcloud.com", cfg.COSBucketURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
