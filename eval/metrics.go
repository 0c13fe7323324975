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
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Metrics holds the benchmark scores.
type Metrics struct {
	// AccuracyOverall is the fraction of items whose prediction matched.
	AccuracyOverall float64 `json:"Accuracy_overall"`
	// Total is the number of scored items.
	Total int `json:"total"`
	// Correct is the number of matching predictions.
	Correct int `json:"correct"`
}

// Score computes the metrics over merged outputs.
func Score(outputs []Output) Metrics {
	m := Metrics{Total: len(outputs)}
	for _, out := range outputs {
		if CheckAnswer(out.Pred, out.GT) {
			m.Correct++
		}
	}
	if m.Total > 0 {
		m.AccuracyOverall = float64(m.Correct) / float64(m.Total)
	}
	return m
}

// timePrefix names result files, yymmddHHMMSS.
func timePrefix(now time.Time) string {
	return now.Format("060102150405")
}

// WriteMetrics writes the metrics file `<yymmddHHMMSS>_metrics.json` into
// outDir and returns its path.
func WriteMetrics(outDir string, m Metrics, now time.Time) (string, error) {
	path := filepath.Join(outDir, timePrefix(now)+"_metrics.json")
	if err := writeJSON(path, m); err != nil {
		return "", err
	}
	return path, nil
}

// WriteOutputs writes the merged per-item outputs next to the metrics file
// as `<yymmddHHMMSS>_outputs.json` and returns its path.
func WriteOutputs(outDir string, outputs []Output, now time.Time) (string, error) {
	path := filepath.Join(outDir, timePrefix(now)+"_outputs.json")
	if err := writeJSON(path, outputs); err != nil {
		return "", err
	}
	return path, nil
}

// writeJSON writes v tab-indented to path via a temp file and rename.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "\t")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
