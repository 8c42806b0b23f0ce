package workflows

import (
	"github.com/agentflow-ai/agentflow/pkg/engine"
	"github.com/agentflow-ai/agentflow/pkg/interfaces"
)

// Tools is a tool-calling chat loop: generation repeats as long as the
// model keeps requesting tools, with tool results fed back into the
// transcript between rounds.
func Tools(generator interfaces.Generator, executor interfaces.ToolExecutor, cfg Config) engine.GraphFactory {
	return func() (*engine.Graph, error) {
		return engine.NewBuilder().
			AddNode(engine.NewGenerateNode(nodeGenerate, generator, engine.WithPolicy(cfg.GeneratePolicy))).
			AddNode(engine.NewInvokeToolsNode(nodeInvokeTools, executor, engine.WithPolicy(cfg.ToolsPolicy))).
			AddRule(nodeGenerate, engine.If(engine.HasPendingToolCalls, nodeInvokeTools, engine.End)).
			AddRule(nodeInvokeTools, engine.Always(nodeGenerate)).
			Build()
	}
}
