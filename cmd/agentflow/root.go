package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/agentflow-ai/agentflow/pkg/config"
	"github.com/agentflow-ai/agentflow/pkg/engine"
	"github.com/agentflow-ai/agentflow/pkg/interfaces"
	"github.com/agentflow-ai/agentflow/pkg/llm/openai"
	"github.com/agentflow-ai/agentflow/pkg/logging"
	"github.com/agentflow-ai/agentflow/pkg/memory"
	"github.com/agentflow-ai/agentflow/pkg/orchestrator"
	"github.com/agentflow-ai/agentflow/pkg/storage/local"
	"github.com/agentflow-ai/agentflow/pkg/tools"
	"github.com/agentflow-ai/agentflow/pkg/tools/tavily"
	"github.com/agentflow-ai/agentflow/pkg/workflows"
)

var rootCmd = &cobra.Command{
	Use:   "agentflow",
	Short: "Agentflow runs conversational and pipeline workflows over LLM, tool and storage backends",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
}

// newOrchestrator wires the orchestrator from configuration
func newOrchestrator(cmd *cobra.Command) (*orchestrator.Orchestrator, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(os.Stderr, level)

	generatePolicy := engine.RetryN(cfg.MaxRetries, cfg.RetryBackoff).WithTimeout(cfg.NodeTimeout)
	wfConfig := workflows.Config{
		GeneratePolicy: generatePolicy,
		ToolsPolicy:    engine.RetryN(cfg.MaxRetries, cfg.RetryBackoff).WithTimeout(cfg.NodeTimeout),
		PersistPolicy:  engine.RetryN(1, 500*time.Millisecond),
	}

	deps := workflows.Deps{}

	var searchTool *tavily.Tool
	if cfg.TavilyAPIKey != "" {
		searchTool = tavily.New(cfg.TavilyAPIKey)
		deps.Searcher = searchTool
		deps.Tools = tools.NewRegistry([]interfaces.Tool{searchTool}, tools.WithLogger(logger))
	}

	generatorOptions := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithLogger(logger),
	}
	if searchTool != nil {
		generatorOptions = append(generatorOptions, openai.WithTools(searchTool))
	}
	deps.Generator = openai.NewClient(cfg.OpenAIAPIKey, generatorOptions...)

	storage, err := local.New(local.WithPath(cfg.StorageDir))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	deps.Storage = storage

	registry := engine.NewRegistry()
	if err := workflows.RegisterAll(registry, deps, wfConfig); err != nil {
		return nil, err
	}

	var mem interfaces.Memory = memory.NewBuffer()
	if cfg.RedisAddr != "" {
		mem = memory.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	return orchestrator.New(registry,
		orchestrator.WithExecutor(engine.NewExecutor(
			engine.WithMaxSteps(cfg.MaxSteps),
			engine.WithLogger(logger),
		)),
		orchestrator.WithMemory(mem),
		orchestrator.WithLogger(logger),
	), nil
}
