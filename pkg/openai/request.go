// Package openai holds the client-dialect wire types the gateway exposes:
// OpenAI-style chat completion requests, streaming chunks, aggregate
// responses, model listings, and the uniform error envelope.
package openai

import (
	"encoding/json"
	"errors"
	"strings"
)

// ChatRequest is an inbound chat completion request.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// Message is one conversation message.
type Message struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

// MessageContent accepts both content encodings the dialect allows: a plain
// string, or an array of typed parts as sent by multimodal clients.
type MessageContent struct {
	Text        string
	Parts       []ContentPart
	IsMultiPart bool
}

// ContentPart is one element of array-form content.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// UnmarshalJSON handles both string and array content formats.
func (mc *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		mc.Text = s
		mc.IsMultiPart = false
		return nil
	}

	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err == nil {
		mc.Parts = parts
		mc.IsMultiPart = true
		return nil
	}

	return errors.New("content must be a string or an array of content parts")
}

// MarshalJSON serializes content back to whichever form it arrived in.
func (mc MessageContent) MarshalJSON() ([]byte, error) {
	if mc.IsMultiPart {
		return json.Marshal(mc.Parts)
	}
	return json.Marshal(mc.Text)
}

// GetText flattens the content to plain text. Array-form text parts are
// joined with newlines; non-text parts are dropped.
func (mc MessageContent) GetText() string {
	if !mc.IsMultiPart {
		return mc.Text
	}

	var texts []string
	for _, part := range mc.Parts {
		if part.Type == "text" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// TextMessage builds a plain string-content message.
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: MessageContent{Text: text}}
}

// LatestUserText returns the text of the most recent user message. The
// upstream holds no conversation state, so only the latest user turn is
// forwarded. Falls back to the last message of any role if no user message
// is present.
func LatestUserText(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content.GetText()
		}
	}
	if len(messages) > 0 {
		return messages[len(messages)-1].Content.GetText()
	}
	return ""
}
