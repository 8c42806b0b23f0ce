package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind categorizes collaborator failures
type ErrorKind string

const (
	// ErrorKindGeneration indicates a Generator failure
	ErrorKindGeneration ErrorKind = "GENERATION_ERROR"
	// ErrorKindToolExecution indicates a ToolExecutor failure
	ErrorKindToolExecution ErrorKind = "TOOL_EXECUTION_ERROR"
	// ErrorKindStorage indicates a Storage failure
	ErrorKindStorage ErrorKind = "STORAGE_ERROR"
	// ErrorKindTimeout indicates a collaborator call exceeded its deadline
	ErrorKindTimeout ErrorKind = "TIMEOUT_ERROR"
)

// CollaboratorError represents a classified failure of an external
// collaborator (Generator, ToolExecutor or Storage). Its message carries
// only the operation and kind; the raw collaborator error stays behind
// Unwrap so provider internals are not surfaced across the engine boundary.
type CollaboratorError struct {
	Op        string    // The operation that failed (e.g., "Generate", "ExecuteTool")
	Kind      ErrorKind // Category of error
	Transient bool      // Whether the call might succeed on retry
	Cause     error     // The underlying error
}

// Error implements the error interface
func (e *CollaboratorError) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("operation '%s'", e.Op))
	} else {
		parts = append(parts, "collaborator call")
	}
	parts = append(parts, "failed", fmt.Sprintf("(%s)", e.Kind))
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying error
func (e *CollaboratorError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether this error might succeed on retry
func (e *CollaboratorError) IsRetryable() bool {
	return e.Transient
}

// NewGenerationError creates a classified Generator failure
func NewGenerationError(cause error, transient bool) *CollaboratorError {
	return &CollaboratorError{Op: "Generate", Kind: ErrorKindGeneration, Transient: transient, Cause: cause}
}

// NewToolExecutionError creates a classified ToolExecutor failure
func NewToolExecutionError(cause error, transient bool) *CollaboratorError {
	return &CollaboratorError{Op: "ExecuteTool", Kind: ErrorKindToolExecution, Transient: transient, Cause: cause}
}

// NewStorageError creates a classified Storage failure
func NewStorageError(cause error, transient bool) *CollaboratorError {
	return &CollaboratorError{Op: "Write", Kind: ErrorKindStorage, Transient: transient, Cause: cause}
}

// NewTimeoutError creates a classified timeout failure
func NewTimeoutError(op string, cause error) *CollaboratorError {
	return &CollaboratorError{Op: op, Kind: ErrorKindTimeout, Transient: true, Cause: cause}
}

// IsTransient reports whether err is a collaborator error eligible for retry.
// Unclassified errors are treated as permanent.
func IsTransient(err error) bool {
	var collabErr *CollaboratorError
	if errors.As(err, &collabErr) {
		return collabErr.Transient
	}
	return false
}

// GraphDefinitionError is raised at graph construction time for structural
// defects. It is never recoverable at runtime and prevents registration.
type GraphDefinitionError struct {
	Issues []string
}

// Error implements the error interface
func (e *GraphDefinitionError) Error() string {
	return "invalid workflow graph: " + strings.Join(e.Issues, "; ")
}

// ErrUnknownUseCase is returned by Registry.Resolve for an unrecognized
// use case identifier. It is a user-correctable condition, distinct from
// in-graph execution failures.
var ErrUnknownUseCase = errors.New("unknown use case")

// ExecutionError is returned when a node's failure policy is exhausted. It
// carries the partial state so callers can show a degraded response.
type ExecutionError struct {
	NodeID string
	State  *State
	Err    error
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("workflow execution failed at node '%s': %v", e.NodeID, e.Err)
}

// Unwrap returns the underlying error
func (e *ExecutionError) Unwrap() error {
	return e.Err
}
