package interfaces

import "context"

// ParameterSpec describes a single tool parameter
type ParameterSpec struct {
	Type        string
	Description string
	Required    bool
	Default     interface{}
	Enum        []interface{}
}

// Tool represents an external action the assistant can invoke
type Tool interface {
	// Name returns the name of the tool
	Name() string

	// Description returns a description of what the tool does
	Description() string

	// Parameters returns the parameters that the tool accepts
	Parameters() map[string]ParameterSpec

	// Execute executes the tool with the given JSON-encoded arguments
	Execute(ctx context.Context, args string) (string, error)
}

// ToolExecutor turns a requested tool call into a tool result message.
// Implementations must be safe to retry: re-executing a call must not
// double-apply side effects visible to the user.
type ToolExecutor interface {
	// Execute dispatches a single tool call and returns the tool message
	Execute(ctx context.Context, call ToolCall) (Message, error)
}
