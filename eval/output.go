//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

// Package eval runs the distributed evaluation loop: shard the benchmark,
// run model inference per item, gather per-rank outputs, and score accuracy.
package eval

import (
	"encoding/json"
	"fmt"
)

// Output is one item's evaluation record.
type Output struct {
	// Question is the full rendered prompt.
	Question string `json:"question"`
	// Pred is the model's raw answer.
	Pred string `json:"pred"`
	// GT is the ground-truth answer ("<letter>. <candidate>").
	GT string `json:"gt"`
	// TaskType is the benchmark item ID.
	TaskType string `json:"task_type"`
}

// EncodeOutputs serializes a rank's outputs for the all-gather exchange.
func EncodeOutputs(outputs []Output) ([]byte, error) {
	data, err := json.Marshal(outputs)
	if err != nil {
		return nil, fmt.Errorf("encode outputs: %w", err)
	}
	return data, nil
}

// MergeGathered decodes the per-rank output payloads and concatenates them in
// rank order.
func MergeGathered(gathered [][]byte) ([]Output, error) {
	var merged []Output
	for rank, payload := range gathered {
		if len(payload) == 0 {
			continue
		}
		var outputs []Output
		if err := json.Unmarshal(payload, &outputs); err != nil {
			return nil, fmt.Errorf("decode outputs of rank %d: %w", rank, err)
		}
		merged = append(merged, outputs...)
	}
	return merged, nil
}
