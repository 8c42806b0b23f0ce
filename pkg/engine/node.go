package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agentflow-ai/agentflow/pkg/interfaces"
)

// NodeRole tags the kind of work a node performs
type NodeRole string

const (
	// NodeRoleGenerate produces the next assistant message
	NodeRoleGenerate NodeRole = "generate"
	// NodeRoleInvokeTools executes pending tool calls
	NodeRoleInvokeTools NodeRole = "invoke_tools"
	// NodeRoleTransform runs a pipeline-specific computation over scratch
	NodeRoleTransform NodeRole = "transform"
	// NodeRolePersist writes a final artifact and terminates the run
	NodeRolePersist NodeRole = "persist"
)

// FailurePolicy declares how the executor handles a node's collaborator
// failures. Retries re-attempt the collaborator call only; routing is pure
// and never retried.
type FailurePolicy struct {
	// MaxRetries is the number of re-attempts after the first failure
	MaxRetries int

	// Backoff is the initial delay between attempts, grown exponentially
	Backoff time.Duration

	// Timeout bounds each collaborator attempt; zero means no deadline
	// beyond the run context
	Timeout time.Duration

	// Fallback is the node to transfer control to once retries are
	// exhausted; empty means the run aborts with the partial state
	Fallback string
}

// NoRetry fails fast on the first collaborator error
func NoRetry() FailurePolicy {
	return FailurePolicy{}
}

// RetryN re-attempts the collaborator call up to count times with the given
// initial backoff between attempts
func RetryN(count int, backoff time.Duration) FailurePolicy {
	return FailurePolicy{MaxRetries: count, Backoff: backoff}
}

// WithFallback designates a recovery node for when retries are exhausted
func (p FailurePolicy) WithFallback(nodeID string) FailurePolicy {
	p.Fallback = nodeID
	return p
}

// WithTimeout bounds each collaborator attempt
func (p FailurePolicy) WithTimeout(d time.Duration) FailurePolicy {
	p.Timeout = d
	return p
}

// Node is one unit of work in a workflow graph. Run receives a private copy
// of the state and returns the updated copy; it must not retain the state
// after returning.
type Node interface {
	// ID returns the node identifier, unique within a graph
	ID() string

	// Role returns the node's role tag
	Role() NodeRole

	// Policy returns the node's failure policy
	Policy() FailurePolicy

	// Run executes the node against the given state
	Run(ctx context.Context, state *State) (*State, error)
}

// nodeBase carries the fields shared by all node kinds
type nodeBase struct {
	id     string
	role   NodeRole
	policy FailurePolicy
}

func (n *nodeBase) ID() string            { return n.id }
func (n *nodeBase) Role() NodeRole        { return n.role }
func (n *nodeBase) Policy() FailurePolicy { return n.policy }

// NodeOption configures a node
type NodeOption func(*nodeBase)

// WithPolicy sets the node's failure policy
func WithPolicy(policy FailurePolicy) NodeOption {
	return func(n *nodeBase) {
		n.policy = policy
	}
}

// GenerateNode calls the Generator with the transcript, appends the returned
// assistant message and records any requested tool calls as pending.
type GenerateNode struct {
	nodeBase
	generator interfaces.Generator
}

// NewGenerateNode creates a generate node backed by the given generator
func NewGenerateNode(id string, generator interfaces.Generator, options ...NodeOption) *GenerateNode {
	n := &GenerateNode{
		nodeBase:  nodeBase{id: id, role: NodeRoleGenerate},
		generator: generator,
	}
	for _, opt := range options {
		opt(&n.nodeBase)
	}
	return n
}

// Run implements Node
func (n *GenerateNode) Run(ctx context.Context, state *State) (*State, error) {
	result, err := n.generator.Generate(ctx, state.History)
	if err != nil {
		return nil, classify(err, func(cause error) *CollaboratorError {
			return NewGenerationError(cause, false)
		})
	}

	msg := result.Message
	msg.Role = interfaces.MessageRoleAssistant
	msg.ToolCalls = result.RequestedTools
	state.AppendMessage(msg)

	state.PendingToolCalls = append([]interfaces.ToolCall(nil), result.RequestedTools...)
	return state, nil
}

// InvokeToolsNode executes every pending tool call through the ToolExecutor,
// appends the resulting tool messages and clears the pending set. The
// pending set is cleared here and nowhere else.
type InvokeToolsNode struct {
	nodeBase
	executor interfaces.ToolExecutor
}

// NewInvokeToolsNode creates a tool-invocation node backed by the given executor
func NewInvokeToolsNode(id string, executor interfaces.ToolExecutor, options ...NodeOption) *InvokeToolsNode {
	n := &InvokeToolsNode{
		nodeBase: nodeBase{id: id, role: NodeRoleInvokeTools},
		executor: executor,
	}
	for _, opt := range options {
		opt(&n.nodeBase)
	}
	return n
}

// Run implements Node
func (n *InvokeToolsNode) Run(ctx context.Context, state *State) (*State, error) {
	for _, call := range state.PendingToolCalls {
		msg, err := n.executor.Execute(ctx, call)
		if err != nil {
			return nil, classify(err, func(cause error) *CollaboratorError {
				return NewToolExecutionError(cause, false)
			})
		}
		msg.Role = interfaces.MessageRoleTool
		if msg.ToolCallID == "" {
			msg.ToolCallID = call.ID
		}
		state.AppendMessage(msg)
	}
	state.PendingToolCalls = nil
	return state, nil
}

// TransformFunc is a pipeline-specific computation over the state. It must
// confine its writes to Scratch and the transcript.
type TransformFunc func(ctx context.Context, state *State) (*State, error)

// TransformNode wraps a pipeline-specific computation
type TransformNode struct {
	nodeBase
	fn TransformFunc
}

// NewTransformNode creates a transform node around the given function
func NewTransformNode(id string, fn TransformFunc, options ...NodeOption) *TransformNode {
	n := &TransformNode{
		nodeBase: nodeBase{id: id, role: NodeRoleTransform},
		fn:       fn,
	}
	for _, opt := range options {
		opt(&n.nodeBase)
	}
	return n
}

// Run implements Node
func (n *TransformNode) Run(ctx context.Context, state *State) (*State, error) {
	return n.fn(ctx, state)
}

// ArtifactFunc derives the storage key and content of the final artifact
// from the state
type ArtifactFunc func(state *State) (key string, content []byte, err error)

// PersistNode writes the final artifact through the Storage collaborator and
// marks the run terminal once the write is acknowledged.
type PersistNode struct {
	nodeBase
	storage  interfaces.Storage
	artifact ArtifactFunc
}

// ScratchKeyArtifactPath is where PersistNode records the location returned
// by the storage backend.
const ScratchKeyArtifactPath = "artifactPath"

// NewPersistNode creates a persist node backed by the given storage
func NewPersistNode(id string, storage interfaces.Storage, artifact ArtifactFunc, options ...NodeOption) *PersistNode {
	n := &PersistNode{
		nodeBase: nodeBase{id: id, role: NodeRolePersist},
		storage:  storage,
		artifact: artifact,
	}
	for _, opt := range options {
		opt(&n.nodeBase)
	}
	return n
}

// Run implements Node
func (n *PersistNode) Run(ctx context.Context, state *State) (*State, error) {
	key, content, err := n.artifact(state)
	if err != nil {
		return nil, fmt.Errorf("failed to derive artifact: %w", err)
	}

	path, err := n.storage.Write(ctx, key, content)
	if err != nil {
		return nil, classify(err, func(cause error) *CollaboratorError {
			return NewStorageError(cause, false)
		})
	}

	state.Scratch[ScratchKeyArtifactPath] = path
	state.Terminal = true
	return state, nil
}

// classify passes already-classified collaborator errors through and wraps
// anything else as a permanent failure of the calling operation
func classify(err error, wrap func(error) *CollaboratorError) error {
	var collabErr *CollaboratorError
	if errors.As(err, &collabErr) {
		return err
	}
	return wrap(err)
}
