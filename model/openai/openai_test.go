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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/videoqa-eval/model"
)

func TestNewModelInfo(t *testing.T) {
	m := New("internvl2-8b", WithBaseURL("http://localhost:8000/v1"))
	assert.Equal(t, "internvl2-8b", m.Info().Name)
}

func TestBuildChatRequestGenerationConfig(t *testing.T) {
	m := New("test-model")

	tests := []struct {
		name     string
		req      *model.Request
		wantTemp float64
	}{
		{
			name: "greedy when sampling disabled",
			req: &model.Request{
				GenerationConfig: model.GenerationConfig{
					Temperature: model.Float64Ptr(0.7),
					DoSample:    false,
				},
			},
			wantTemp: 0,
		},
		{
			name: "temperature forwarded when sampling",
			req: &model.Request{
				GenerationConfig: model.GenerationConfig{
					Temperature: model.Float64Ptr(0.7),
					DoSample:    true,
				},
			},
			wantTemp: 0.7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatRequest, _ := m.buildChatRequest(tt.req)
			require.True(t, chatRequest.Temperature.Valid())
			assert.InDelta(t, tt.wantTemp, chatRequest.Temperature.Value, 1e-9)
		})
	}
}

func TestBuildChatRequestMaxTokens(t *testing.T) {
	m := New("test-model")
	req := &model.Request{
		GenerationConfig: model.GenerationConfig{
			MaxTokens: model.IntPtr(1000),
		},
	}
	chatRequest, _ := m.buildChatRequest(req)
	require.True(t, chatRequest.MaxCompletionTokens.Valid())
	assert.Equal(t, int64(1000), chatRequest.MaxCompletionTokens.Value)
}

func TestBuildChatRequestExtraOptions(t *testing.T) {
	m := New("test-model", WithExtraFields(map[string]any{"repetition_penalty": 1.1}))
	req := &model.Request{
		GenerationConfig: model.GenerationConfig{
			MinTokens: model.IntPtr(1),
			NumBeams:  5,
		},
	}
	_, opts := m.buildChatRequest(req)
	// min_tokens, num_beams and the extra field each contribute one option.
	assert.Len(t, opts, 3)
}

func TestConvertMessagesMultimodal(t *testing.T) {
	parts := []model.ContentPart{
		model.NewTextContentPart("Question: what happens first?"),
		model.NewImageContentPart("data:image/jpeg;base64,AAAA", "low"),
	}
	msgs := convertMessages([]model.Message{
		model.NewSystemMessage("You are a helpful assistant."),
		model.NewUserMessageWithContentParts(parts),
	})
	require.Len(t, msgs, 2)

	require.NotNil(t, msgs[0].OfSystem)
	assert.Equal(t, "You are a helpful assistant.", msgs[0].OfSystem.Content.OfString.Value)

	require.NotNil(t, msgs[1].OfUser)
	converted := msgs[1].OfUser.Content.OfArrayOfContentParts
	require.Len(t, converted, 2)
	require.NotNil(t, converted[0].OfText)
	assert.Equal(t, "Question: what happens first?", converted[0].OfText.Text)
	require.NotNil(t, converted[1].OfImageURL)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", converted[1].OfImageURL.ImageURL.URL)
	assert.Equal(t, "low", converted[1].OfImageURL.ImageURL.Detail)
}

func TestConvertContentPartSkipsEmpty(t *testing.T) {
	assert.Nil(t, convertContentPart(model.ContentPart{Type: model.ContentTypeImage}))
	assert.Nil(t, convertContentPart(model.ContentPart{Type: model.ContentTypeText}))
}
