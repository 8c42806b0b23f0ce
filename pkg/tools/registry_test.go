package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow-ai/agentflow/pkg/engine"
	"github.com/agentflow-ai/agentflow/pkg/interfaces"
)

type fakeTool struct {
	name   string
	output string
	err    error
	args   []string
}

func (t *fakeTool) Name() string        { return t.name }
func (t *fakeTool) Description() string { return "fake tool" }
func (t *fakeTool) Parameters() map[string]interfaces.ParameterSpec {
	return map[string]interfaces.ParameterSpec{}
}
func (t *fakeTool) Execute(ctx context.Context, args string) (string, error) {
	t.args = append(t.args, args)
	if t.err != nil {
		return "", t.err
	}
	return t.output, nil
}

func TestRegistry_Execute(t *testing.T) {
	search := &fakeTool{name: "search", output: "three results"}
	registry := NewRegistry([]interfaces.Tool{search})

	msg, err := registry.Execute(context.Background(), interfaces.ToolCall{
		ID:        "call-1",
		Name:      "search",
		Arguments: `{"query":"go"}`,
	})
	require.NoError(t, err)

	assert.Equal(t, interfaces.MessageRoleTool, msg.Role)
	assert.Equal(t, "three results", msg.Content)
	assert.Equal(t, "call-1", msg.ToolCallID)
	assert.Equal(t, "search", msg.Metadata["tool"])
	require.Len(t, search.args, 1)
	assert.Equal(t, `{"query":"go"}`, search.args[0])
}

func TestRegistry_ExecuteUnknownTool(t *testing.T) {
	registry := NewRegistry(nil)

	_, err := registry.Execute(context.Background(), interfaces.ToolCall{Name: "ghost"})
	require.Error(t, err)

	var collabErr *engine.CollaboratorError
	require.ErrorAs(t, err, &collabErr)
	assert.Equal(t, engine.ErrorKindToolExecution, collabErr.Kind)
	assert.False(t, collabErr.Transient, "unknown tool is not retryable")
}

func TestRegistry_ExecuteWrapsToolErrors(t *testing.T) {
	t.Run("plain errors become transient tool errors", func(t *testing.T) {
		registry := NewRegistry([]interfaces.Tool{
			&fakeTool{name: "flaky", err: errors.New("connection reset")},
		})

		_, err := registry.Execute(context.Background(), interfaces.ToolCall{Name: "flaky"})
		require.Error(t, err)
		assert.True(t, engine.IsTransient(err))
	})

	t.Run("classified errors pass through", func(t *testing.T) {
		permanent := engine.NewToolExecutionError(errors.New("bad arguments"), false)
		registry := NewRegistry([]interfaces.Tool{
			&fakeTool{name: "strict", err: permanent},
		})

		_, err := registry.Execute(context.Background(), interfaces.ToolCall{Name: "strict"})
		require.Error(t, err)
		assert.False(t, engine.IsTransient(err))
	})
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	registry := NewRegistry([]interfaces.Tool{&fakeTool{name: "search"}})
	assert.Error(t, registry.Register(&fakeTool{name: "search"}))
}

func TestRegistry_List(t *testing.T) {
	registry := NewRegistry([]interfaces.Tool{
		&fakeTool{name: "zeta"},
		&fakeTool{name: "alpha"},
	})

	list := registry.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name())
	assert.Equal(t, "zeta", list[1].Name())
}
