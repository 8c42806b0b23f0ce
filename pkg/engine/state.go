package engine

import (
	"github.com/agentflow-ai/agentflow/pkg/interfaces"
)

// State is the mutable data threaded through one workflow run. It is created
// fresh per run and exclusively owned by that run: nodes receive a copy from
// the executor and return the updated copy, so a failed attempt never leaks
// partial mutations into the run.
type State struct {
	// History is the conversation transcript. It is append-only: nodes add
	// messages, nothing reorders or truncates it.
	History []interfaces.Message

	// PendingToolCalls holds the tool invocations requested by the most
	// recent assistant message. It is populated by a Generate node and
	// cleared exactly once, by the InvokeTools node that consumes it.
	PendingToolCalls []interfaces.ToolCall

	// Scratch carries workflow-specific values for non-conversational
	// pipelines. The engine does not interpret its keys.
	Scratch map[string]interface{}

	// StepCount is incremented once per completed node execution
	StepCount int

	// Terminal forces completion of the run when set
	Terminal bool
}

// NewState creates an empty state for a fresh run
func NewState() *State {
	return &State{
		Scratch: make(map[string]interface{}),
	}
}

// NewStateWithHistory creates a state seeded with an existing transcript
func NewStateWithHistory(history []interfaces.Message) *State {
	s := NewState()
	s.History = append(s.History, history...)
	return s
}

// Clone returns a copy of the state with its own history, pending-call and
// scratch containers. Message and scratch values are shared; nodes treat
// them as immutable and append rather than modify.
func (s *State) Clone() *State {
	clone := &State{
		History:          make([]interfaces.Message, len(s.History)),
		PendingToolCalls: make([]interfaces.ToolCall, len(s.PendingToolCalls)),
		Scratch:          make(map[string]interface{}, len(s.Scratch)),
		StepCount:        s.StepCount,
		Terminal:         s.Terminal,
	}
	copy(clone.History, s.History)
	copy(clone.PendingToolCalls, s.PendingToolCalls)
	for k, v := range s.Scratch {
		clone.Scratch[k] = v
	}
	return clone
}

// AppendMessage appends a message to the transcript
func (s *State) AppendMessage(msg interfaces.Message) {
	s.History = append(s.History, msg)
}

// LastMessage returns the most recent message, if any
func (s *State) LastMessage() (interfaces.Message, bool) {
	if len(s.History) == 0 {
		return interfaces.Message{}, false
	}
	return s.History[len(s.History)-1], true
}
