//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package model

import "time"

// Error type constants for response errors.
const (
	// ErrorTypeAPIError indicates the serving endpoint returned an error.
	ErrorTypeAPIError = "api_error"
	// ErrorTypeInvalidRequest indicates the request was malformed.
	ErrorTypeInvalidRequest = "invalid_request"
)

// ResponseError represents an error from the model API.
type ResponseError struct {
	// Message is a human-readable error description.
	Message string `json:"message"`
	// Type categorizes the error.
	Type string `json:"type"`
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	return e.Message
}

// Usage represents token usage statistics for a completion.
type Usage struct {
	// PromptTokens is the number of tokens in the prompt.
	PromptTokens int `json:"prompt_tokens"`
	// CompletionTokens is the number of tokens in the completion.
	CompletionTokens int `json:"completion_tokens"`
	// TotalTokens is the total number of tokens used.
	TotalTokens int `json:"total_tokens"`
}

// Choice represents a single completion choice.
type Choice struct {
	// Index is the index of the choice.
	Index int `json:"index"`
	// Message is the completion message.
	Message Message `json:"message"`
	// FinishReason is why generation stopped.
	FinishReason string `json:"finish_reason,omitempty"`
}

// Response is the response from chat model inference.
type Response struct {
	// ID is the unique identifier of the completion.
	ID string `json:"id,omitempty"`
	// Model is the model that produced the completion.
	Model string `json:"model,omitempty"`
	// Created is the unix timestamp reported by the endpoint.
	Created int64 `json:"created,omitempty"`
	// Choices are the completion choices.
	Choices []Choice `json:"choices,omitempty"`
	// Usage is the token usage for the completion.
	Usage *Usage `json:"usage,omitempty"`
	// Error is set when the request failed.
	Error *ResponseError `json:"error,omitempty"`
	// Timestamp is when the response was received.
	Timestamp time.Time `json:"timestamp"`
}

// Text returns the content of the first choice, or the empty string.
func (r *Response) Text() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}
