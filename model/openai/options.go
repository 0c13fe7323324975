//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package openai

import (
	"net/http"

	openaiopt "github.com/openai/openai-go/option"
)

// options contains configuration options for the OpenAI-like model.
type options struct {
	// APIKey is the API key for authentication.
	APIKey string
	// BaseURL is the base URL for the API endpoint.
	BaseURL string
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	// ExtraFields are merged into every chat completion request body.
	ExtraFields map[string]any
	// OpenAIOptions are additional request options passed to the underlying client.
	OpenAIOptions []openaiopt.RequestOption
}

var defaultOptions = options{}

// Option configures the OpenAI-like model.
type Option func(*options)

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.APIKey = key
	}
}

// WithBaseURL sets the base URL for the API endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.HTTPClient = client
	}
}

// WithExtraFields sets extra JSON fields merged into every request body.
// Serving endpoints that expose non-standard generation knobs (beam width,
// minimum new tokens) pick them up from here.
func WithExtraFields(fields map[string]any) Option {
	return func(o *options) {
		o.ExtraFields = fields
	}
}

// WithOpenAIOptions appends raw request options for the underlying client.
func WithOpenAIOptions(opts ...openaiopt.RequestOption) Option {
	return func(o *options) {
		o.OpenAIOptions = append(o.OpenAIOptions, opts...)
	}
}
