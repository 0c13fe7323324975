//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package model

// GenerationConfig contains configuration for text generation.
type GenerationConfig struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens *int `json:"max_tokens,omitempty"`

	// MinTokens is the minimum number of tokens to generate.
	// Not every serving endpoint honors it; endpoints that do not simply ignore it.
	MinTokens *int `json:"min_tokens,omitempty"`

	// Temperature controls randomness (0.0 to 2.0).
	Temperature *float64 `json:"temperature,omitempty"`

	// TopP controls nucleus sampling (0.0 to 1.0).
	TopP *float64 `json:"top_p,omitempty"`

	// NumBeams is the beam-search width. Beam search is a property of the
	// serving side; the value is forwarded as an extra field when set above 1.
	NumBeams int `json:"num_beams,omitempty"`

	// DoSample toggles sampling. When false the endpoint should decode greedily,
	// which is expressed as temperature 0.
	DoSample bool `json:"do_sample,omitempty"`

	// Seed requests deterministic sampling where the endpoint supports it.
	Seed *int `json:"seed,omitempty"`

	// Stop sequences where the API will stop generating further tokens.
	Stop []string `json:"stop,omitempty"`
}

// Request is the request for chat model inference.
type Request struct {
	// Messages is the conversation history.
	Messages []Message `json:"messages"`

	// GenerationConfig contains the generation parameters.
	GenerationConfig `json:",inline"`
}

// IntPtr returns a pointer to the given int.
func IntPtr(i int) *int {
	return &i
}

// Float64Ptr returns a pointer to the given float64.
func Float64Ptr(f float64) *float64 {
	return &f
}
