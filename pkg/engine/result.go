package engine

import (
	"github.com/agentflow-ai/agentflow/pkg/interfaces"
)

// Result is the outcome of a workflow run that stopped without error.
// Truncated marks runs stopped by the step budget rather than a terminal
// signal; the partial progress is still usable by the caller.
type Result struct {
	// FinalState is the state after the last executed node
	FinalState *State

	// Truncated is true when the run was stopped by the step budget
	Truncated bool

	// Steps is the number of node executions performed
	Steps int
}

// Output returns the content of the last assistant message, or empty when
// the run produced none
func (r *Result) Output() string {
	for i := len(r.FinalState.History) - 1; i >= 0; i-- {
		msg := r.FinalState.History[i]
		if msg.Role == interfaces.MessageRoleAssistant {
			return msg.Content
		}
	}
	return ""
}
