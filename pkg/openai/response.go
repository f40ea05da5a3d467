package openai

import "github.com/google/uuid"

// ObjectChatCompletion tags aggregate responses.
const ObjectChatCompletion = "chat.completion"

// FinishStop is the terminal reason reported once the upstream responded
// successfully.
const FinishStop = "stop"

// ChatCompletionResponse is the non-streaming response shape.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one completion alternative. The gateway always produces exactly
// one.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage is the token accounting record. The gateway does not compute token
// counts, so every field is always zero.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewCompletionID mints the identifier shared by every unit of one response.
func NewCompletionID() string {
	return "chatcmpl-" + uuid.NewString()
}

// NewChatCompletion builds the aggregate response for a finished answer.
func NewChatCompletion(id string, created int64, model, answer string) ChatCompletionResponse {
	return ChatCompletionResponse{
		ID:      id,
		Object:  ObjectChatCompletion,
		Created: created,
		Model:   model,
		Choices: []Choice{
			{
				Index:        0,
				Message:      TextMessage("assistant", answer),
				FinishReason: FinishStop,
			},
		},
	}
}
