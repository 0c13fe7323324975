//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

// Package benchmark loads video question-answering benchmark annotations and
// turns them into evaluation samples.
package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Item is a single raw annotation entry.
type Item struct {
	// VideoPath is the clip path relative to the videos directory.
	VideoPath string `json:"video_path"`
	// Duration is the clip duration in seconds.
	Duration float64 `json:"duration"`
	// Question is the question text.
	Question string `json:"question"`
	// Candidates are the answer candidates, in option order.
	Candidates []string `json:"candidates"`
	// CorrectChoice is the index of the correct candidate. It is absent for
	// unlabelled (test) splits.
	CorrectChoice *int `json:"correct_choice,omitempty"`
	// ID identifies the item; it doubles as the task type in outputs.
	ID string `json:"id"`
}

// Sample is one fully-resolved evaluation sample.
type Sample struct {
	// Video is the absolute path of the clip's frame directory.
	Video string
	// Bound is the [start, end] time window in seconds.
	Bound [2]float64
	// Question is the question text.
	Question string
	// Options are the candidates formatted as "A. <candidate>".
	Options []string
	// Answer is the ground-truth option formatted as "<letter>. <candidate>",
	// or empty when the item is unlabelled.
	Answer string
	// ID identifies the item.
	ID string
}

// Dataset holds the loaded annotations of one benchmark split.
type Dataset struct {
	dataPath string
	items    []Item
}

// Load reads the annotation file relative to dataPath and returns the dataset.
func Load(dataPath, annotationFile string) (*Dataset, error) {
	raw, err := os.ReadFile(filepath.Join(dataPath, annotationFile))
	if err != nil {
		return nil, fmt.Errorf("read annotation file: %w", err)
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse annotation file: %w", err)
	}
	for i, item := range items {
		if len(item.Candidates) == 0 {
			return nil, fmt.Errorf("item %d (%s): no candidates", i, item.ID)
		}
		if item.CorrectChoice != nil && (*item.CorrectChoice < 0 || *item.CorrectChoice >= len(item.Candidates)) {
			return nil, fmt.Errorf("item %d (%s): correct_choice %d out of range", i, item.ID, *item.CorrectChoice)
		}
	}
	return &Dataset{dataPath: dataPath, items: items}, nil
}

// Len returns the number of items in the dataset.
func (d *Dataset) Len() int {
	return len(d.items)
}

// Item returns the raw annotation at index i.
func (d *Dataset) Item(i int) (Item, error) {
	if i < 0 || i >= len(d.items) {
		return Item{}, errors.New("index out of range")
	}
	return d.items[i], nil
}

// Sample resolves the annotation at index i into an evaluation sample.
func (d *Dataset) Sample(i int) (Sample, error) {
	item, err := d.Item(i)
	if err != nil {
		return Sample{}, err
	}
	s := Sample{
		Video:    filepath.Join(d.dataPath, "videos", item.VideoPath),
		Bound:    [2]float64{0, item.Duration},
		Question: item.Question,
		Options:  FormatOptions(item.Candidates),
		ID:       item.ID,
	}
	if item.CorrectChoice != nil {
		s.Answer = formatOption(*item.CorrectChoice, item.Candidates[*item.CorrectChoice])
	}
	return s, nil
}

// FormatOptions renders candidates as "A. <candidate>", "B. <candidate>", ...
func FormatOptions(candidates []string) []string {
	options := make([]string, len(candidates))
	for i, candidate := range candidates {
		options[i] = formatOption(i, candidate)
	}
	return options
}

func formatOption(i int, candidate string) string {
	return fmt.Sprintf("%c. %s", rune('A'+i), candidate)
}
