package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentflow-ai/agentflow/pkg/engine"
	"github.com/agentflow-ai/agentflow/pkg/orchestrator"
	"github.com/agentflow-ai/agentflow/pkg/workflows"
)

// newsCmd represents the news command
var newsCmd = &cobra.Command{
	Use:   "news [topic]",
	Short: "Generate a news digest and save it as markdown",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := newOrchestrator(cmd)
		if err != nil {
			return err
		}

		frequency, _ := cmd.Flags().GetString("frequency")

		resp, err := o.Submit(cmd.Context(), orchestrator.Request{
			UseCase:   workflows.UseCaseNews,
			Input:     strings.Join(args, " "),
			Frequency: frequency,
		})
		if err != nil {
			return err
		}

		if path, ok := resp.Result.FinalState.Scratch[engine.ScratchKeyArtifactPath].(string); ok {
			fmt.Printf("digest written to %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newsCmd)

	newsCmd.Flags().StringP("frequency", "f", "daily", "Digest window: daily, weekly, monthly or year")
}
