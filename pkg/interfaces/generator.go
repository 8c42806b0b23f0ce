package interfaces

import "context"

// GenerationResult is the outcome of a single generation turn
type GenerationResult struct {
	// Message is the assistant message produced from the transcript
	Message Message

	// RequestedTools contains the tool invocations the model asked for,
	// empty when the message is a plain answer
	RequestedTools []ToolCall
}

// Generator produces the next conversational message from a transcript.
// Implementations wrap a model provider and classify their failures as
// transient or permanent so callers can decide whether to retry.
type Generator interface {
	// Generate generates the next message based on the conversation history
	Generate(ctx context.Context, history []Message) (*GenerationResult, error)

	// Name returns the name of the generation provider
	Name() string
}
