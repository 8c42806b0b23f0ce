package engine

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/agentflow-ai/agentflow/pkg/logging"
)

// DefaultMaxSteps bounds a run when no explicit budget is configured.
// Generous enough for a realistic tool-call loop, small enough to bound cost.
const DefaultMaxSteps = 25

// Executor runs a workflow graph to completion for one input. It is
// sequential by design: one node at a time, the next chosen only after the
// previous node's state is fully produced. A single executor may serve many
// concurrent runs; each run owns its state exclusively.
type Executor struct {
	maxSteps int
	logger   logging.Logger
}

// ExecutorOption configures an executor
type ExecutorOption func(*Executor)

// WithMaxSteps sets the per-run step budget
func WithMaxSteps(maxSteps int) ExecutorOption {
	return func(e *Executor) {
		if maxSteps > 0 {
			e.maxSteps = maxSteps
		}
	}
}

// WithLogger sets the executor's logger
func WithLogger(logger logging.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates an executor with the given options
func NewExecutor(options ...ExecutorOption) *Executor {
	e := &Executor{
		maxSteps: DefaultMaxSteps,
		logger:   logging.NewNoop(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// Run executes the graph starting from its entry node. It returns a Result
// on normal or truncated completion, or an ExecutionError carrying the
// partial state once a node's failure policy is exhausted.
func (e *Executor) Run(ctx context.Context, graph *Graph, initial *State) (*Result, error) {
	state := initial
	if state == nil {
		state = NewState()
	}
	if state.Scratch == nil {
		state.Scratch = make(map[string]interface{})
	}

	current := graph.Entry()
	for {
		node, ok := graph.Node(current)
		if !ok {
			// Unreachable after Build validation; guard against a
			// hand-constructed graph anyway.
			return nil, &ExecutionError{NodeID: current, State: state, Err: errors.New("node not found")}
		}

		updated, err := e.runNode(ctx, node, state)
		if err != nil {
			if fb := node.Policy().Fallback; fb != "" {
				// A fallback transfer consumes a step: the failed node did
				// its work, and charging the transfer keeps fallback chains
				// inside the budget that guarantees termination.
				state.StepCount++
				e.logger.Warn(ctx, "Node failed, transferring to fallback", map[string]interface{}{
					"node":     node.ID(),
					"fallback": fb,
					"error":    err.Error(),
				})
				if state.StepCount >= e.maxSteps {
					return &Result{FinalState: state, Truncated: true, Steps: state.StepCount}, nil
				}
				current = fb
				continue
			}
			e.logger.Error(ctx, "Node failed, aborting run", map[string]interface{}{
				"node":  node.ID(),
				"error": err.Error(),
			})
			return nil, &ExecutionError{NodeID: node.ID(), State: state, Err: err}
		}

		state = updated
		state.StepCount++

		e.logger.Debug(ctx, "Node executed", map[string]interface{}{
			"node": node.ID(),
			"role": string(node.Role()),
			"step": state.StepCount,
		})

		if state.Terminal {
			return &Result{FinalState: state, Steps: state.StepCount}, nil
		}
		if state.StepCount >= e.maxSteps {
			// Budget exhaustion is a successful-but-truncated result, not
			// a failure; the caller decides whether the partial run is
			// usable.
			return &Result{FinalState: state, Truncated: true, Steps: state.StepCount}, nil
		}

		rule, ok := graph.Rule(node.ID())
		if !ok {
			return nil, &ExecutionError{NodeID: node.ID(), State: state, Err: errors.New("no routing rule")}
		}
		next, cont := rule.route(state)
		if !cont {
			state.Terminal = true
			return &Result{FinalState: state, Steps: state.StepCount}, nil
		}
		current = next
	}
}

// runNode executes one node under its failure policy. Each attempt receives
// a private copy of the state, so the state of a failed attempt is
// discarded, never accumulated. Permanent errors are not retried.
func (e *Executor) runNode(ctx context.Context, node Node, state *State) (*State, error) {
	policy := node.Policy()

	var delay *backoff.ExponentialBackOff
	if policy.Backoff > 0 {
		delay = backoff.NewExponentialBackOff()
		delay.InitialInterval = policy.Backoff
	}

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := e.wait(ctx, delay); err != nil {
				return nil, err
			}
			e.logger.Debug(ctx, "Retrying node", map[string]interface{}{
				"node":    node.ID(),
				"attempt": attempt + 1,
			})
		}

		updated, err := e.attempt(ctx, node, state.Clone())
		if err == nil {
			return updated, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !IsTransient(err) {
			break
		}
	}
	return nil, lastErr
}

// attempt runs the node once, applying the per-attempt timeout
func (e *Executor) attempt(ctx context.Context, node Node, state *State) (*State, error) {
	if timeout := node.Policy().Timeout; timeout > 0 {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		updated, err := node.Run(attemptCtx, state)
		if err != nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, NewTimeoutError(string(node.Role()), err)
		}
		return updated, err
	}
	return node.Run(ctx, state)
}

// wait sleeps for the next backoff interval, honoring cancellation
func (e *Executor) wait(ctx context.Context, delay *backoff.ExponentialBackOff) error {
	if delay == nil {
		return nil
	}
	interval := delay.NextBackOff()
	if interval <= 0 {
		return nil
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
