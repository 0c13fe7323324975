//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

// Package model provides the chat model abstraction used by the evaluator.
package model

import "context"

// Info contains basic information about a model.
type Info struct {
	// Name is the name of the model.
	Name string `json:"name"`
}

// ChatModel is the interface implemented by chat model providers.
type ChatModel interface {
	// Chat performs a single non-streaming chat completion.
	Chat(ctx context.Context, req *Request) (*Response, error)

	// Info returns basic information about the model.
	Info() Info
}
