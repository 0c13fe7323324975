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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	outputs := []Output{
		{Pred: "B. a book", GT: "B. a book"},
		{Pred: "A. a cup", GT: "B. a book"},
		{Pred: "the car is red", GT: "A. red"},
		{Pred: "D", GT: "B. a book"},
	}
	m := Score(outputs)
	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 2, m.Correct)
	assert.InDelta(t, 0.5, m.AccuracyOverall, 1e-9)
}

func TestScoreEmpty(t *testing.T) {
	m := Score(nil)
	assert.Equal(t, 0, m.Total)
	assert.InDelta(t, 0, m.AccuracyOverall, 1e-9)
}

func TestWriteMetricsFileNameAndFormat(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 11, 3, 14, 30, 59, 0, time.UTC)
	path, err := WriteMetrics(dir, Metrics{AccuracyOverall: 0.75, Total: 4, Correct: 3}, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "251103143059_metrics.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// Tab-indented JSON.
	assert.True(t, strings.Contains(string(raw), "\t\"Accuracy_overall\": 0.75"))

	var m Metrics
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, 3, m.Correct)
}

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 11, 3, 14, 30, 59, 0, time.UTC)
	outputs := []Output{{Question: "q", Pred: "p", GT: "g", TaskType: "lvb_0001"}}
	path, err := WriteOutputs(dir, outputs, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "251103143059_outputs.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded []Output
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, outputs, decoded)
}

func TestWriteMetricsCreatesOutDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "results")
	_, err := WriteMetrics(dir, Metrics{}, time.Now())
	require.NoError(t, err)
}

func TestEncodeAndMergeGathered(t *testing.T) {
	rank0 := []Output{{Question: "q0", TaskType: "a"}}
	rank1 := []Output{{Question: "q1", TaskType: "b"}, {Question: "q2", TaskType: "c"}}

	p0, err := EncodeOutputs(rank0)
	require.NoError(t, err)
	p1, err := EncodeOutputs(rank1)
	require.NoError(t, err)

	merged, err := MergeGathered([][]byte{p0, p1})
	require.NoError(t, err)
	require.Len(t, merged, 3)
	// Rank order preserved.
	assert.Equal(t, "q0", merged[0].Question)
	assert.Equal(t, "q1", merged[1].Question)
	assert.Equal(t, "q2", merged[2].Question)
}

func TestMergeGatheredSkipsEmptyAndRejectsGarbage(t *testing.T) {
	p, err := EncodeOutputs([]Output{{Question: "q"}})
	require.NoError(t, err)

	merged, err := MergeGathered([][]byte{nil, p})
	require.NoError(t, err)
	assert.Len(t, merged, 1)

	_, err = MergeGathered([][]byte{[]byte("not json")})
	assert.Error(t, err)
}
