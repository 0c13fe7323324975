//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package benchmark

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAnnotations(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "val.json"), []byte(content), 0o644))
	return dir
}

const sampleAnnotations = `[
  {
    "video_path": "clip_001",
    "duration": 42.5,
    "question": "What does the person pick up first?",
    "candidates": ["a cup", "a book", "a phone"],
    "correct_choice": 1,
    "id": "lvb_0001"
  },
  {
    "video_path": "clip_002",
    "duration": 10,
    "question": "What color is the car?",
    "candidates": ["red", "blue"],
    "id": "lvb_0002"
  }
]`

func TestLoadAndSample(t *testing.T) {
	dir := writeAnnotations(t, sampleAnnotations)
	ds, err := Load(dir, "val.json")
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	s, err := ds.Sample(0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "videos", "clip_001"), s.Video)
	assert.Equal(t, [2]float64{0, 42.5}, s.Bound)
	assert.Equal(t, []string{"A. a cup", "B. a book", "C. a phone"}, s.Options)
	assert.Equal(t, "B. a book", s.Answer)
	assert.Equal(t, "lvb_0001", s.ID)
}

func TestSampleWithoutLabel(t *testing.T) {
	dir := writeAnnotations(t, sampleAnnotations)
	ds, err := Load(dir, "val.json")
	require.NoError(t, err)

	s, err := ds.Sample(1)
	require.NoError(t, err)
	assert.Empty(t, s.Answer)
}

func TestLoadRejectsBadAnnotations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no candidates",
			content: `[{"video_path":"v","duration":1,"question":"q","candidates":[],"id":"x"}]`,
		},
		{
			name:    "correct_choice out of range",
			content: `[{"video_path":"v","duration":1,"question":"q","candidates":["a"],"correct_choice":3,"id":"x"}]`,
		},
		{
			name:    "not json",
			content: `{`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeAnnotations(t, tt.content)
			_, err := Load(dir, "val.json")
			assert.Error(t, err)
		})
	}
}

func TestSampleIndexOutOfRange(t *testing.T) {
	dir := writeAnnotations(t, sampleAnnotations)
	ds, err := Load(dir, "val.json")
	require.NoError(t, err)
	_, err = ds.Sample(2)
	assert.Error(t, err)
	_, err = ds.Sample(-1)
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	got := Prompt("What happens?", []string{"A. x", "B. y"})
	assert.True(t, strings.HasPrefix(got, "Question: What happens?\nOptions: A. x\nB. y\n"))
	assert.True(t, strings.HasSuffix(got, "directly."))
	assert.Contains(t, got, "option’s letter")
}
