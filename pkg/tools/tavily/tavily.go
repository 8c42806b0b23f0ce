package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agentflow-ai/agentflow/pkg/engine"
	"github.com/agentflow-ai/agentflow/pkg/interfaces"
)

const (
	tavilyAPIBaseURL     = "https://api.tavily.com"
	tavilySearchEndpoint = "/search"
	defaultTimeout       = 30 * time.Second
	defaultMaxResults    = 5
)

// Tool is a web search tool backed by the Tavily API. It satisfies
// interfaces.Tool for conversational tool calling and exposes a typed
// Search for the news pipeline.
type Tool struct {
	apiKey     string
	baseURL    string
	maxResults int
	client     *http.Client
}

// Option represents an option for configuring the tool
type Option func(*Tool)

// WithBaseURL overrides the API base URL
func WithBaseURL(url string) Option {
	return func(t *Tool) {
		t.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithMaxResults sets the default number of results per search
func WithMaxResults(n int) Option {
	return func(t *Tool) {
		if n > 0 {
			t.maxResults = n
		}
	}
}

// WithHTTPClient sets the HTTP client used for API calls
func WithHTTPClient(client *http.Client) Option {
	return func(t *Tool) {
		t.client = client
	}
}

// New creates a new Tavily search tool with the given API key
func New(apiKey string, options ...Option) *Tool {
	t := &Tool{
		apiKey:     apiKey,
		baseURL:    tavilyAPIBaseURL,
		maxResults: defaultMaxResults,
		client:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// Name returns the name of the tool
func (t *Tool) Name() string {
	return "tavily_search"
}

// Description returns a description of what the tool does
func (t *Tool) Description() string {
	return "Search the web for current information on topics, news, and data using the Tavily search engine."
}

// Parameters returns the parameters that the tool accepts
func (t *Tool) Parameters() map[string]interfaces.ParameterSpec {
	return map[string]interfaces.ParameterSpec{
		"query": {
			Type:        "string",
			Description: "The search query to look up information for",
			Required:    true,
		},
		"search_depth": {
			Type:        "string",
			Description: "The depth of search to perform (basic or advanced)",
			Required:    false,
			Default:     "basic",
			Enum:        []interface{}{"basic", "advanced"},
		},
		"topic": {
			Type:        "string",
			Description: "The category of the search (general or news)",
			Required:    false,
			Default:     "general",
			Enum:        []interface{}{"general", "news"},
		},
	}
}

// SearchRequest represents a request to the Tavily search API
type SearchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth,omitempty"`
	Topic       string `json:"topic,omitempty"`
	TimeRange   string `json:"time_range,omitempty"`
	Days        int    `json:"days,omitempty"`
	MaxResults  int    `json:"max_results,omitempty"`
}

// SearchResult is a single result from the Tavily search API
type SearchResult struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	PublishedDate string `json:"published_date,omitempty"`
}

// SearchResponse represents a response from the Tavily search API
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Answer  string         `json:"answer,omitempty"`
}

// Execute executes the tool with the given JSON-encoded arguments
func (t *Tool) Execute(ctx context.Context, args string) (string, error) {
	var params map[string]interface{}
	if err := json.Unmarshal([]byte(args), &params); err != nil {
		return "", engine.NewToolExecutionError(fmt.Errorf("failed to parse arguments: %w", err), false)
	}

	query, ok := params["query"].(string)
	if !ok || query == "" {
		return "", engine.NewToolExecutionError(fmt.Errorf("query parameter is required"), false)
	}

	req := SearchRequest{Query: query, SearchDepth: "basic", MaxResults: t.maxResults}
	if depth, ok := params["search_depth"].(string); ok && (depth == "basic" || depth == "advanced") {
		req.SearchDepth = depth
	}
	if topic, ok := params["topic"].(string); ok && (topic == "general" || topic == "news") {
		req.Topic = topic
	}

	resp, err := t.Search(ctx, req)
	if err != nil {
		return "", err
	}
	return formatResults(resp), nil
}

// Search performs a search using the Tavily API
func (t *Tool) Search(ctx context.Context, searchReq SearchRequest) (*SearchResponse, error) {
	if searchReq.MaxResults == 0 {
		searchReq.MaxResults = t.maxResults
	}

	jsonData, err := json.Marshal(searchReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+tavilySearchEndpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, engine.NewToolExecutionError(fmt.Errorf("failed to execute request: %w", err), true)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, engine.NewToolExecutionError(fmt.Errorf("failed to read response body: %w", err), true)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, engine.NewToolExecutionError(
			fmt.Errorf("tavily API returned status %d", resp.StatusCode),
			isRetryableStatus(resp.StatusCode),
		)
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, engine.NewToolExecutionError(fmt.Errorf("failed to parse response: %w", err), false)
	}
	return &searchResp, nil
}

// isRetryableStatus reports whether the API status indicates a transient
// condition: rate limiting or a server-side failure.
func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// formatResults renders a search response into a readable tool result
func formatResults(resp *SearchResponse) string {
	var sb strings.Builder
	if resp.Answer != "" {
		sb.WriteString("Answer: " + resp.Answer + "\n\n")
	}
	sb.WriteString("Search Results:\n")
	for i, r := range resp.Results {
		sb.WriteString(fmt.Sprintf("%d. %s\n   URL: %s\n   %s\n\n", i+1, r.Title, r.URL, r.Content))
	}
	return sb.String()
}
