package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentflow-ai/agentflow/pkg/orchestrator"
	"github.com/agentflow-ai/agentflow/pkg/workflows"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long:  `Starts a chat loop on stdin. With --tools the model may call the configured web search tool between replies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := newOrchestrator(cmd)
		if err != nil {
			return err
		}

		useCase := workflows.UseCaseBasic
		if withTools, _ := cmd.Flags().GetBool("tools"); withTools {
			useCase = workflows.UseCaseTools
		}

		fmt.Println("agentflow chat (empty line to exit)")
		scanner := bufio.NewScanner(os.Stdin)
		conversationID := ""
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				return nil
			}

			resp, err := o.Submit(cmd.Context(), orchestrator.Request{
				UseCase:        useCase,
				ConversationID: conversationID,
				Input:          input,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			conversationID = resp.ConversationID

			if resp.Result.Truncated {
				fmt.Println("(run stopped at the step budget)")
			}
			fmt.Println(resp.Result.Output())
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Bool("tools", false, "Allow the model to call tools")
}
