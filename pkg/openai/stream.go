package openai

// ObjectChatCompletionChunk tags streaming delivery units.
const ObjectChatCompletionChunk = "chat.completion.chunk"

// DoneSentinel is the literal terminal unit closing an event stream. It is
// a fixed marker, not a chunk.
const DoneSentinel = "data: [DONE]\n\n"

// StreamChunk is one incremental delivery unit.
type StreamChunk struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []StreamChoice `json:"choices"`
}

// StreamChoice pairs a delta with an optional terminal reason.
type StreamChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Delta is the incremental payload of a chunk. An empty delta accompanies
// the terminal chunk.
type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// NewContentChunk builds a chunk delivering a piece of assistant text.
func NewContentChunk(id string, created int64, model, text string) StreamChunk {
	return StreamChunk{
		ID:      id,
		Object:  ObjectChatCompletionChunk,
		Created: created,
		Model:   model,
		Choices: []StreamChoice{
			{Index: 0, Delta: Delta{Content: text}},
		},
	}
}

// NewStopChunk builds the empty-delta chunk carrying the terminal reason.
func NewStopChunk(id string, created int64, model string) StreamChunk {
	stop := FinishStop
	return StreamChunk{
		ID:      id,
		Object:  ObjectChatCompletionChunk,
		Created: created,
		Model:   model,
		Choices: []StreamChoice{
			{Index: 0, Delta: Delta{}, FinishReason: &stop},
		},
	}
}
