package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/agentflow-ai/agentflow/pkg/engine"
	"github.com/agentflow-ai/agentflow/pkg/interfaces"
	"github.com/agentflow-ai/agentflow/pkg/logging"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gpt-4o-mini"

// Client implements interfaces.Generator on the OpenAI chat completions
// API. When tools are configured, their definitions are sent with every
// request and requested invocations come back as pending tool calls.
type Client struct {
	client         openai.Client
	requestOptions []option.RequestOption
	model          string
	systemPrompt   string
	tools          []interfaces.Tool
	logger         logging.Logger
}

// Option represents an option for configuring the client
type Option func(*Client)

// WithModel sets the model used for generation
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithSystemPrompt sets a system message prepended to every request
func WithSystemPrompt(prompt string) Option {
	return func(c *Client) {
		c.systemPrompt = prompt
	}
}

// WithTools sets the tools offered to the model
func WithTools(tools ...interfaces.Tool) Option {
	return func(c *Client) {
		c.tools = tools
	}
}

// WithLogger sets the client's logger
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBaseURL overrides the API endpoint
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.requestOptions = append(c.requestOptions, option.WithBaseURL(url))
		c.client = openai.NewClient(c.requestOptions...)
	}
}

// NewClient creates a new OpenAI generator
func NewClient(apiKey string, options ...Option) *Client {
	c := &Client{
		model:  DefaultModel,
		logger: logging.NewNoop(),
	}
	c.requestOptions = []option.RequestOption{option.WithAPIKey(apiKey)}
	c.client = openai.NewClient(c.requestOptions...)
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Name returns the name of the generation provider
func (c *Client) Name() string {
	return "openai"
}

// Generate implements interfaces.Generator
func (c *Client) Generate(ctx context.Context, history []interfaces.Message) (*interfaces.GenerationResult, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: c.buildMessages(history),
	}
	if len(c.tools) > 0 {
		params.Tools = buildToolParams(c.tools)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, engine.NewGenerationError(err, isRetryable(err))
	}
	if len(completion.Choices) == 0 {
		return nil, engine.NewGenerationError(errors.New("completion contained no choices"), false)
	}

	choice := completion.Choices[0].Message

	result := &interfaces.GenerationResult{
		Message: interfaces.Message{
			Role:    interfaces.MessageRoleAssistant,
			Content: choice.Content,
		},
	}
	for _, toolCall := range choice.ToolCalls {
		result.RequestedTools = append(result.RequestedTools, interfaces.ToolCall{
			ID:        toolCall.ID,
			Name:      toolCall.Function.Name,
			Arguments: toolCall.Function.Arguments,
		})
	}

	c.logger.Debug(ctx, "Generation completed", map[string]interface{}{
		"model":           c.model,
		"requested_tools": len(result.RequestedTools),
	})
	return result, nil
}

// buildToolParams converts tool contracts into OpenAI function definitions
func buildToolParams(tools []interfaces.Tool) []openai.ChatCompletionToolUnionParam {
	params := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		properties := make(map[string]interface{})
		var required []string
		for name, spec := range tool.Parameters() {
			prop := map[string]interface{}{
				"type":        spec.Type,
				"description": spec.Description,
			}
			if len(spec.Enum) > 0 {
				prop["enum"] = spec.Enum
			}
			properties[name] = prop
			if spec.Required {
				required = append(required, name)
			}
		}

		schema := map[string]interface{}{
			"type":       "object",
			"properties": properties,
		}
		if len(required) > 0 {
			schema["required"] = required
		}

		params = append(params, openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        tool.Name(),
			Description: openai.String(tool.Description()),
			Parameters:  shared.FunctionParameters(schema),
		}))
	}
	return params
}

// isRetryable classifies API failures: rate limits, server errors and
// transport failures are transient, everything else is permanent.
func isRetryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests ||
			apiErr.StatusCode >= http.StatusInternalServerError
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// No structured API error means the request never got a response.
	return true
}
