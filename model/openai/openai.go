//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

// Package openai provides an OpenAI-compatible implementation of the chat
// model interface. It works against any serving endpoint that speaks the
// chat completions protocol, including self-hosted multimodal models.
package openai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"trpc.group/trpc-go/videoqa-eval/model"
)

// Environment variables consulted when options do not provide credentials.
const (
	envAPIKey  = "OPENAI_API_KEY"
	envBaseURL = "OPENAI_BASE_URL"
)

// Model implements model.ChatModel backed by an OpenAI-compatible endpoint.
type Model struct {
	client      openai.Client
	name        string
	extraFields map[string]any
}

// New creates a new OpenAI-like model.
func New(name string, opts ...Option) *Model {
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.APIKey == "" {
		o.APIKey = os.Getenv(envAPIKey)
	}
	if o.BaseURL == "" {
		o.BaseURL = os.Getenv(envBaseURL)
	}

	var clientOpts []openaiopt.RequestOption
	if o.APIKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(o.APIKey))
	}
	if o.BaseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(o.BaseURL))
	}
	if o.HTTPClient != nil {
		clientOpts = append(clientOpts, openaiopt.WithHTTPClient(o.HTTPClient))
	}
	clientOpts = append(clientOpts, o.OpenAIOptions...)

	return &Model{
		client:      openai.NewClient(clientOpts...),
		name:        name,
		extraFields: o.ExtraFields,
	}
}

// Info returns basic information about the model.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.name}
}

// Chat performs a single non-streaming chat completion.
func (m *Model) Chat(ctx context.Context, req *model.Request) (*model.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("chat request is nil")
	}
	chatRequest, reqOpts := m.buildChatRequest(req)
	chatCompletion, err := m.client.Chat.Completions.New(ctx, chatRequest, reqOpts...)
	if err != nil {
		return &model.Response{
			Error: &model.ResponseError{
				Message: err.Error(),
				Type:    model.ErrorTypeAPIError,
			},
			Timestamp: time.Now(),
		}, fmt.Errorf("chat completion: %w", err)
	}
	return convertResponse(chatCompletion), nil
}

// buildChatRequest converts our Request to OpenAI request params and options.
func (m *Model) buildChatRequest(req *model.Request) (openai.ChatCompletionNewParams, []openaiopt.RequestOption) {
	chatRequest := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(m.name),
		Messages: convertMessages(req.Messages),
	}

	// MaxTokens is deprecated and not compatible with newer models.
	// Use MaxCompletionTokens instead.
	if req.MaxTokens != nil {
		chatRequest.MaxCompletionTokens = openai.Int(int64(*req.MaxTokens))
	}
	if req.DoSample && req.Temperature != nil {
		chatRequest.Temperature = openai.Float(*req.Temperature)
	} else {
		// Greedy decoding.
		chatRequest.Temperature = openai.Float(0)
	}
	if req.TopP != nil {
		chatRequest.TopP = openai.Float(*req.TopP)
	}
	if req.Seed != nil {
		chatRequest.Seed = openai.Int(int64(*req.Seed))
	}
	if len(req.Stop) > 0 {
		// Use the first stop string for simplicity.
		chatRequest.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfString: openai.String(req.Stop[0]),
		}
	}

	var opts []openaiopt.RequestOption
	if req.MinTokens != nil {
		opts = append(opts, openaiopt.WithJSONSet("min_tokens", *req.MinTokens))
	}
	if req.NumBeams > 1 {
		opts = append(opts, openaiopt.WithJSONSet("num_beams", req.NumBeams))
	}
	for key, value := range m.extraFields {
		opts = append(opts, openaiopt.WithJSONSet(key, value))
	}
	return chatRequest, opts
}

// convertMessages converts our Message format to OpenAI's format.
func convertMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			}
		case model.RoleAssistant:
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Content: openai.ChatCompletionAssistantMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			}
		default:
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: convertUserMessageContent(msg),
				},
			}
		}
	}
	return result
}

// convertUserMessageContent converts message content to user message content union.
func convertUserMessageContent(msg model.Message) openai.ChatCompletionUserMessageParamContentUnion {
	// If there are no content parts and Content is not empty, return as string.
	if len(msg.ContentParts) == 0 {
		return openai.ChatCompletionUserMessageParamContentUnion{
			OfString: openai.String(msg.Content),
		}
	}
	var contentParts []openai.ChatCompletionContentPartUnionParam
	if msg.Content != "" {
		contentParts = append(contentParts, openai.ChatCompletionContentPartUnionParam{
			OfText: &openai.ChatCompletionContentPartTextParam{
				Text: msg.Content,
			},
		})
	}
	for _, part := range msg.ContentParts {
		if converted := convertContentPart(part); converted != nil {
			contentParts = append(contentParts, *converted)
		}
	}
	return openai.ChatCompletionUserMessageParamContentUnion{
		OfArrayOfContentParts: contentParts,
	}
}

// convertContentPart converts a single content part to OpenAI's format.
func convertContentPart(part model.ContentPart) *openai.ChatCompletionContentPartUnionParam {
	switch part.Type {
	case model.ContentTypeText:
		if part.Text != nil {
			return &openai.ChatCompletionContentPartUnionParam{
				OfText: &openai.ChatCompletionContentPartTextParam{
					Text: *part.Text,
				},
			}
		}
	case model.ContentTypeImage:
		if part.Image != nil {
			return &openai.ChatCompletionContentPartUnionParam{
				OfImageURL: &openai.ChatCompletionContentPartImageParam{
					ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
						// The URL can be either an https URL or a data URL
						// with base64-encoded image bytes.
						URL:    part.Image.URL,
						Detail: part.Image.Detail,
					},
				},
			}
		}
	}
	return nil
}

// convertResponse converts an OpenAI chat completion to our Response format.
func convertResponse(chatCompletion *openai.ChatCompletion) *model.Response {
	response := &model.Response{
		ID:        chatCompletion.ID,
		Model:     chatCompletion.Model,
		Created:   chatCompletion.Created,
		Timestamp: time.Now(),
	}
	if len(chatCompletion.Choices) > 0 {
		response.Choices = make([]model.Choice, len(chatCompletion.Choices))
		for i, choice := range chatCompletion.Choices {
			response.Choices[i] = model.Choice{
				Index: int(choice.Index),
				Message: model.Message{
					Role:    model.RoleAssistant,
					Content: choice.Message.Content,
				},
				FinishReason: choice.FinishReason,
			}
		}
	}
	if chatCompletion.Usage.TotalTokens > 0 {
		response.Usage = &model.Usage{
			PromptTokens:     int(chatCompletion.Usage.PromptTokens),
			CompletionTokens: int(chatCompletion.Usage.CompletionTokens),
			TotalTokens:      int(chatCompletion.Usage.TotalTokens),
		}
	}
	return response
}
