// Package orchestrator is the invocation surface: it validates input,
// resolves the requested use case, seeds the run state from conversation
// memory and persists the completed turn.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agentflow-ai/agentflow/pkg/engine"
	"github.com/agentflow-ai/agentflow/pkg/interfaces"
	"github.com/agentflow-ai/agentflow/pkg/logging"
	"github.com/agentflow-ai/agentflow/pkg/memory"
	"github.com/agentflow-ai/agentflow/pkg/workflows"
)

// Orchestrator runs registered workflows for user requests
type Orchestrator struct {
	registry *engine.Registry
	executor *engine.Executor
	memory   interfaces.Memory
	logger   logging.Logger
}

// Option represents an option for configuring the orchestrator
type Option func(*Orchestrator)

// WithExecutor sets the executor used for runs
func WithExecutor(executor *engine.Executor) Option {
	return func(o *Orchestrator) {
		o.executor = executor
	}
}

// WithMemory sets the conversation store
func WithMemory(mem interfaces.Memory) Option {
	return func(o *Orchestrator) {
		o.memory = mem
	}
}

// WithLogger sets the orchestrator's logger
func WithLogger(logger logging.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an orchestrator over the given workflow registry. Without
// options it uses a default executor and in-process conversation memory.
func New(registry *engine.Registry, options ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		executor: engine.NewExecutor(),
		memory:   memory.NewBuffer(),
		logger:   logging.NewNoop(),
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Request is one user turn submitted to a use case
type Request struct {
	// UseCase identifies the registered workflow to run
	UseCase string

	// ConversationID continues an existing conversation; empty starts a
	// new one
	ConversationID string

	// Input is the user's message or pipeline topic
	Input string

	// Frequency selects the digest window; required by the news use case
	Frequency string
}

// Response is the outcome of one submitted turn
type Response struct {
	// ConversationID identifies the conversation the turn belongs to
	ConversationID string

	// Result is the completed run
	Result *engine.Result
}

// Submit validates the request, runs the use case's graph over the
// conversation transcript and persists the new messages. Unknown use cases
// surface as engine.ErrUnknownUseCase; in-graph failures come back as
// *engine.ExecutionError with the partial state attached.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (*Response, error) {
	input, err := validateMessage(req.Input)
	if err != nil {
		return nil, err
	}

	graph, err := o.registry.Resolve(req.UseCase)
	if err != nil {
		return nil, err
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	history, err := o.memory.GetMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation %s: %w", conversationID, err)
	}

	state := engine.NewStateWithHistory(history)
	userMsg := interfaces.Message{Role: interfaces.MessageRoleUser, Content: input}
	state.AppendMessage(userMsg)
	seeded := len(state.History)

	if req.UseCase == workflows.UseCaseNews || req.Frequency != "" {
		freq, err := validateFrequency(req.Frequency)
		if err != nil {
			return nil, err
		}
		state.Scratch[workflows.ScratchKeyFrequency] = string(freq)
	}

	o.logger.Info(ctx, "Submitting run", map[string]interface{}{
		"use_case":     req.UseCase,
		"conversation": conversationID,
	})

	result, err := o.executor.Run(ctx, graph, state)
	if err != nil {
		return nil, err
	}

	if err := o.persistTurn(ctx, conversationID, result.FinalState, seeded); err != nil {
		// The run itself succeeded; a memory failure only loses
		// continuity for the next turn.
		o.logger.Warn(ctx, "Failed to persist conversation turn", map[string]interface{}{
			"conversation": conversationID,
			"error":        err.Error(),
		})
	}

	return &Response{ConversationID: conversationID, Result: result}, nil
}

// persistTurn appends the user message and every message the run produced
// to the conversation store
func (o *Orchestrator) persistTurn(ctx context.Context, conversationID string, final *engine.State, seeded int) error {
	for _, msg := range final.History[seeded-1:] {
		if err := o.memory.AddMessage(ctx, conversationID, msg); err != nil {
			return err
		}
	}
	return nil
}

// UseCases returns the registered use case ids
func (o *Orchestrator) UseCases() []string {
	return o.registry.List()
}
