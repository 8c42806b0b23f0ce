package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/agentflow-ai/agentflow/pkg/engine"
	"github.com/agentflow-ai/agentflow/pkg/interfaces"
	"github.com/agentflow-ai/agentflow/pkg/logging"
)

// Registry dispatches tool calls to registered tools by name. It implements
// interfaces.ToolExecutor. Dispatch itself is side-effect free, so a retried
// call is only as unsafe as the tool it reaches; registered tools must be
// idempotent-safe.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]interfaces.Tool
	logger logging.Logger
}

// Option represents an option for configuring the registry
type Option func(*Registry)

// WithLogger sets the registry's logger
func WithLogger(logger logging.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a tool registry with the given tools
func NewRegistry(toolList []interfaces.Tool, options ...Option) *Registry {
	r := &Registry{
		tools:  make(map[string]interfaces.Tool),
		logger: logging.NewNoop(),
	}
	for _, opt := range options {
		opt(r)
	}
	for _, tool := range toolList {
		r.tools[tool.Name()] = tool
	}
	return r
}

// Register adds a tool to the registry
func (r *Registry) Register(tool interfaces.Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; exists {
		return fmt.Errorf("tool %s is already registered", tool.Name())
	}
	r.tools[tool.Name()] = tool
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (interfaces.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns the registered tools sorted by name
func (r *Registry) List() []interfaces.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]interfaces.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		list = append(list, tool)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Execute implements interfaces.ToolExecutor. A call naming an unregistered
// tool is a permanent failure; tool errors are classified by the tool
// itself when it returns an engine error, and treated as transient
// otherwise.
func (r *Registry) Execute(ctx context.Context, call interfaces.ToolCall) (interfaces.Message, error) {
	tool, ok := r.Get(call.Name)
	if !ok {
		return interfaces.Message{}, engine.NewToolExecutionError(fmt.Errorf("tool %s not registered", call.Name), false)
	}

	r.logger.Debug(ctx, "Executing tool", map[string]interface{}{
		"tool":    call.Name,
		"call_id": call.ID,
	})

	output, err := tool.Execute(ctx, call.Arguments)
	if err != nil {
		r.logger.Warn(ctx, "Tool execution failed", map[string]interface{}{
			"tool":  call.Name,
			"error": err.Error(),
		})
		return interfaces.Message{}, wrapToolError(err)
	}

	return interfaces.Message{
		Role:       interfaces.MessageRoleTool,
		Content:    output,
		ToolCallID: call.ID,
		Metadata:   map[string]interface{}{"tool": call.Name},
	}, nil
}

func wrapToolError(err error) error {
	if _, ok := err.(*engine.CollaboratorError); ok {
		return err
	}
	return engine.NewToolExecutionError(err, true)
}
