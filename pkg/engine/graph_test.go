package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopTransform(ctx context.Context, state *State) (*State, error) {
	return state, nil
}

func TestBuilder_Build(t *testing.T) {
	tests := []struct {
		name      string
		build     func() *Builder
		wantIssue string
	}{
		{
			name: "valid linear graph",
			build: func() *Builder {
				return NewBuilder().
					AddNode(NewTransformNode("a", noopTransform)).
					AddNode(NewTransformNode("b", noopTransform)).
					AddRule("a", Always("b")).
					AddRule("b", Terminate())
			},
		},
		{
			name: "valid conditional loop",
			build: func() *Builder {
				return NewBuilder().
					AddNode(NewTransformNode("generate", noopTransform)).
					AddNode(NewTransformNode("tools", noopTransform)).
					AddRule("generate", If(HasPendingToolCalls, "tools", End)).
					AddRule("tools", Always("generate"))
			},
		},
		{
			name: "no nodes",
			build: func() *Builder {
				return NewBuilder()
			},
			wantIssue: "no entry node",
		},
		{
			name: "entry not found",
			build: func() *Builder {
				return NewBuilder().
					AddNode(NewTransformNode("a", noopTransform)).
					AddRule("a", Terminate()).
					SetEntry("missing")
			},
			wantIssue: "entry node 'missing' not found",
		},
		{
			name: "duplicate node",
			build: func() *Builder {
				return NewBuilder().
					AddNode(NewTransformNode("a", noopTransform)).
					AddNode(NewTransformNode("a", noopTransform)).
					AddRule("a", Terminate())
			},
			wantIssue: "duplicate node 'a'",
		},
		{
			name: "duplicate rule",
			build: func() *Builder {
				return NewBuilder().
					AddNode(NewTransformNode("a", noopTransform)).
					AddRule("a", Terminate()).
					AddRule("a", Always(End))
			},
			wantIssue: "duplicate rule for node 'a'",
		},
		{
			name: "rule for unknown node",
			build: func() *Builder {
				return NewBuilder().
					AddNode(NewTransformNode("a", noopTransform)).
					AddRule("a", Terminate()).
					AddRule("ghost", Terminate())
			},
			wantIssue: "rule for unknown node 'ghost'",
		},
		{
			name: "rule targets unknown node",
			build: func() *Builder {
				return NewBuilder().
					AddNode(NewTransformNode("a", noopTransform)).
					AddRule("a", Always("ghost"))
			},
			wantIssue: "node 'a' routes to unknown node 'ghost'",
		},
		{
			name: "node without rule",
			build: func() *Builder {
				return NewBuilder().
					AddNode(NewTransformNode("a", noopTransform)).
					AddNode(NewTransformNode("b", noopTransform)).
					AddRule("a", Always("b"))
			},
			wantIssue: "node 'b' has no routing rule",
		},
		{
			name: "unreachable node",
			build: func() *Builder {
				return NewBuilder().
					AddNode(NewTransformNode("a", noopTransform)).
					AddNode(NewTransformNode("island", noopTransform)).
					AddRule("a", Terminate()).
					AddRule("island", Terminate())
			},
			wantIssue: "node 'island' is unreachable from entry",
		},
		{
			name: "fallback targets unknown node",
			build: func() *Builder {
				return NewBuilder().
					AddNode(NewTransformNode("a", noopTransform, WithPolicy(NoRetry().WithFallback("ghost")))).
					AddRule("a", Terminate())
			},
			wantIssue: "node 'a' falls back to unknown node 'ghost'",
		},
		{
			name: "fallback to self",
			build: func() *Builder {
				return NewBuilder().
					AddNode(NewTransformNode("a", noopTransform, WithPolicy(NoRetry().WithFallback("a")))).
					AddRule("a", Terminate())
			},
			wantIssue: "node 'a' falls back to itself",
		},
		{
			name: "fallback-only node counts as reachable",
			build: func() *Builder {
				return NewBuilder().
					AddNode(NewTransformNode("a", noopTransform, WithPolicy(NoRetry().WithFallback("recover")))).
					AddNode(NewTransformNode("recover", noopTransform)).
					AddRule("a", Terminate()).
					AddRule("recover", Terminate())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph, err := tt.build().Build()
			if tt.wantIssue == "" {
				require.NoError(t, err)
				require.NotNil(t, graph)
				return
			}

			require.Error(t, err)
			assert.Nil(t, graph)
			var defErr *GraphDefinitionError
			require.ErrorAs(t, err, &defErr)
			assert.Contains(t, defErr.Issues, tt.wantIssue)
		})
	}
}

func TestBuilder_FirstNodeIsDefaultEntry(t *testing.T) {
	graph, err := NewBuilder().
		AddNode(NewTransformNode("first", noopTransform)).
		AddNode(NewTransformNode("second", noopTransform)).
		AddRule("first", Always("second")).
		AddRule("second", Terminate()).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "first", graph.Entry())
}

func TestGraph_EveryNodeHasExactlyOneRule(t *testing.T) {
	graph, err := NewBuilder().
		AddNode(NewTransformNode("generate", noopTransform)).
		AddNode(NewTransformNode("tools", noopTransform)).
		AddRule("generate", If(HasPendingToolCalls, "tools", End)).
		AddRule("tools", Always("generate")).
		Build()
	require.NoError(t, err)

	for _, id := range graph.NodeIDs() {
		_, ok := graph.Rule(id)
		assert.True(t, ok, "node %s should have a routing rule", id)
	}
}

func TestRule_Route(t *testing.T) {
	withPending := NewState()
	withPending.PendingToolCalls = append(withPending.PendingToolCalls, toolCall("1", "search", "{}"))

	tests := []struct {
		name          string
		rule          Rule
		state         *State
		wantNext      string
		wantTerminate bool
	}{
		{name: "always", rule: Always("b"), state: NewState(), wantNext: "b"},
		{name: "always end", rule: Always(End), state: NewState(), wantTerminate: true},
		{name: "terminate", rule: Terminate(), state: NewState(), wantTerminate: true},
		{name: "if true", rule: If(HasPendingToolCalls, "tools", End), state: withPending, wantNext: "tools"},
		{name: "if false", rule: If(HasPendingToolCalls, "tools", End), state: NewState(), wantTerminate: true},
		{name: "if false with else node", rule: If(HasPendingToolCalls, "tools", "next"), state: NewState(), wantNext: "next"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, cont := tt.rule.route(tt.state)
			if tt.wantTerminate {
				assert.False(t, cont)
			} else {
				require.True(t, cont)
				assert.Equal(t, tt.wantNext, next)
			}
		})
	}
}
