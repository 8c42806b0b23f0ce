package workflows

import (
	"github.com/agentflow-ai/agentflow/pkg/engine"
	"github.com/agentflow-ai/agentflow/pkg/interfaces"
)

// Basic is a single-turn chat: one generation over the transcript, then the
// run terminates.
func Basic(generator interfaces.Generator, cfg Config) engine.GraphFactory {
	return func() (*engine.Graph, error) {
		return engine.NewBuilder().
			AddNode(engine.NewGenerateNode(nodeGenerate, generator, engine.WithPolicy(cfg.GeneratePolicy))).
			AddRule(nodeGenerate, engine.Terminate()).
			Build()
	}
}
