package openai

import (
	"github.com/openai/openai-go/v2"

	"github.com/agentflow-ai/agentflow/pkg/interfaces"
)

// buildMessages converts the transcript into OpenAI chat messages,
// preserving chronological order. The configured system prompt, if any, is
// prepended unless the transcript already starts with a system message.
func (c *Client) buildMessages(history []interfaces.Message) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)

	if c.systemPrompt != "" && !startsWithSystem(history) {
		messages = append(messages, openai.SystemMessage(c.systemPrompt))
	}

	for _, msg := range history {
		if converted := convertMessage(msg); converted != nil {
			messages = append(messages, *converted)
		}
	}
	return messages
}

func startsWithSystem(history []interfaces.Message) bool {
	return len(history) > 0 && history[0].Role == interfaces.MessageRoleSystem
}

// convertMessage converts a transcript message to OpenAI format
func convertMessage(msg interfaces.Message) *openai.ChatCompletionMessageParamUnion {
	switch msg.Role {
	case interfaces.MessageRoleUser:
		userMsg := openai.UserMessage(msg.Content)
		return &userMsg

	case interfaces.MessageRoleAssistant:
		if len(msg.ToolCalls) > 0 {
			var toolCalls []openai.ChatCompletionMessageToolCallUnion
			for _, toolCall := range msg.ToolCalls {
				toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallUnion{
					ID:   toolCall.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageFunctionToolCallFunction{
						Name:      toolCall.Name,
						Arguments: toolCall.Arguments,
					},
				})
			}

			assistantMsg := openai.ChatCompletionMessage{
				Role:      "assistant",
				Content:   msg.Content,
				ToolCalls: toolCalls,
			}
			param := assistantMsg.ToParam()
			return &param
		}
		assistantMsg := openai.AssistantMessage(msg.Content)
		return &assistantMsg

	case interfaces.MessageRoleTool:
		if msg.ToolCallID != "" {
			toolMsg := openai.ToolMessage(msg.Content, msg.ToolCallID)
			return &toolMsg
		}

	case interfaces.MessageRoleSystem:
		systemMsg := openai.SystemMessage(msg.Content)
		return &systemMsg
	}

	return nil
}
