//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package model

// Role represents the role of a message author.
type Role string

// Role constants for message authors.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is one of the defined constants.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message represents a single message in a conversation.
type Message struct {
	// Role is the role of the message author.
	Role Role `json:"role"`
	// Content is the message content.
	// Only one of Content or ContentParts should be provided.
	// If both are provided, ContentParts will be used.
	Content string `json:"content,omitempty"`
	// ContentParts is the content parts for multimodal messages.
	// Only one of Content or ContentParts should be provided.
	// If both are provided, ContentParts will be used.
	ContentParts []ContentPart `json:"content_parts,omitempty"`
}

// ContentType represents the type of content.
type ContentType string

// ContentType constants for content types.
const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
)

// ContentPart represents a single content part in a multimodal message.
type ContentPart struct {
	// Type is the type of content: "text" or "image".
	Type ContentType `json:"type"`
	// Text is the text content.
	Text *string `json:"text,omitempty"`
	// Image is the image data.
	Image *Image `json:"image,omitempty"`
}

// Image represents an image for vision models.
type Image struct {
	// URL is the URL of the image. It may be an https URL or a data URL
	// carrying base64-encoded image bytes.
	URL string `json:"url"`
	// Detail is the detail level: "low", "high", "auto".
	Detail string `json:"detail,omitempty"`
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return Message{
		Role:    RoleSystem,
		Content: content,
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return Message{
		Role:    RoleUser,
		Content: content,
	}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return Message{
		Role:    RoleAssistant,
		Content: content,
	}
}

// NewUserMessageWithContentParts creates a new user message with content parts.
func NewUserMessageWithContentParts(contentParts []ContentPart) Message {
	return Message{
		Role:         RoleUser,
		ContentParts: contentParts,
	}
}

// NewTextContentPart creates a new text content part.
func NewTextContentPart(text string) ContentPart {
	return ContentPart{
		Type: ContentTypeText,
		Text: &text,
	}
}

// NewImageContentPart creates a new image content part.
func NewImageContentPart(url string, detail string) ContentPart {
	return ContentPart{
		Type: ContentTypeImage,
		Image: &Image{
			URL:    url,
			Detail: detail,
		},
	}
}
