// Package workflows defines the built-in use cases as graph factories for
// the workflow registry.
package workflows

import (
	"time"

	"github.com/agentflow-ai/agentflow/pkg/engine"
	"github.com/agentflow-ai/agentflow/pkg/interfaces"
)

// Use case identifiers accepted by the registry
const (
	UseCaseBasic = "basic"
	UseCaseTools = "tools"
	UseCaseNews  = "news"
)

// Node identifiers shared by the built-in graphs
const (
	nodeGenerate    = "generate"
	nodeInvokeTools = "invoke_tools"
	nodeFetch       = "fetch"
	nodeSummarize   = "summarize"
	nodePersist     = "persist"
)

// Config tunes the failure handling of the built-in workflows. The zero
// value fails fast on every node; DefaultConfig retries transient
// collaborator errors.
type Config struct {
	// GeneratePolicy applies to nodes that call the Generator
	GeneratePolicy engine.FailurePolicy

	// ToolsPolicy applies to tool invocation and search nodes
	ToolsPolicy engine.FailurePolicy

	// PersistPolicy applies to artifact writes
	PersistPolicy engine.FailurePolicy
}

// DefaultConfig returns the failure handling used when nothing else is
// configured
func DefaultConfig() Config {
	return Config{
		GeneratePolicy: engine.RetryN(2, 500*time.Millisecond),
		ToolsPolicy:    engine.RetryN(2, time.Second),
		PersistPolicy:  engine.RetryN(1, 500*time.Millisecond),
	}
}

// Deps holds the collaborators the built-in workflows are wired to
type Deps struct {
	Generator interfaces.Generator
	Tools     interfaces.ToolExecutor
	Searcher  NewsSearcher
	Storage   interfaces.Storage
}

// RegisterAll registers every built-in use case whose collaborators are
// present. A use case with a missing collaborator is skipped rather than
// registered in a state where every run would fail.
func RegisterAll(registry *engine.Registry, deps Deps, cfg Config) error {
	if deps.Generator != nil {
		if err := registry.Register(UseCaseBasic, Basic(deps.Generator, cfg)); err != nil {
			return err
		}
	}
	if deps.Generator != nil && deps.Tools != nil {
		if err := registry.Register(UseCaseTools, Tools(deps.Generator, deps.Tools, cfg)); err != nil {
			return err
		}
	}
	if deps.Generator != nil && deps.Searcher != nil && deps.Storage != nil {
		if err := registry.Register(UseCaseNews, News(deps.Generator, deps.Searcher, deps.Storage, cfg)); err != nil {
			return err
		}
	}
	return nil
}
