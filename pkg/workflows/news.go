package workflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentflow-ai/agentflow/pkg/engine"
	"github.com/agentflow-ai/agentflow/pkg/interfaces"
	"github.com/agentflow-ai/agentflow/pkg/tools/tavily"
)

// Frequency selects the time window of a news digest
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYear    Frequency = "year"
)

// Valid reports whether f is a recognized digest frequency
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYear:
		return true
	}
	return false
}

// timeRange returns the search API time range code for the frequency
func (f Frequency) timeRange() string {
	switch f {
	case FrequencyWeekly:
		return "w"
	case FrequencyMonthly:
		return "m"
	case FrequencyYear:
		return "y"
	default:
		return "d"
	}
}

// days returns the news lookback window in days for the frequency
func (f Frequency) days() int {
	switch f {
	case FrequencyWeekly:
		return 7
	case FrequencyMonthly:
		return 30
	case FrequencyYear:
		return 366
	default:
		return 1
	}
}

// Scratch keys used by the news pipeline
const (
	// ScratchKeyFrequency selects the digest window; set by the caller
	// before the run starts
	ScratchKeyFrequency = "frequency"

	// ScratchKeyRawArticles holds the fetched articles, written by the
	// fetch node
	ScratchKeyRawArticles = "rawArticles"

	// ScratchKeySummary holds the generated digest, written by the
	// summarize node
	ScratchKeySummary = "summary"
)

const newsMaxResults = 10

const summarizePrompt = `You are a news editor. Write a concise markdown digest of the
articles below: group related stories, keep every claim attributable to one
of the articles, and end each item with its source URL. Do not invent
stories that are not in the articles.`

// NewsSearcher is the typed search surface the news pipeline fetches
// articles through. *tavily.Tool satisfies it.
type NewsSearcher interface {
	Search(ctx context.Context, req tavily.SearchRequest) (*tavily.SearchResponse, error)
}

// News is the digest pipeline: fetch recent articles on the requested
// topic, summarize them and persist the digest as <frequency>_summary.md.
func News(generator interfaces.Generator, searcher NewsSearcher, storage interfaces.Storage, cfg Config) engine.GraphFactory {
	return func() (*engine.Graph, error) {
		return engine.NewBuilder().
			AddNode(engine.NewTransformNode(nodeFetch, fetchArticles(searcher), engine.WithPolicy(cfg.ToolsPolicy))).
			AddNode(engine.NewTransformNode(nodeSummarize, summarizeArticles(generator), engine.WithPolicy(cfg.GeneratePolicy))).
			AddNode(engine.NewPersistNode(nodePersist, storage, digestArtifact, engine.WithPolicy(cfg.PersistPolicy))).
			AddRule(nodeFetch, engine.Always(nodeSummarize)).
			AddRule(nodeSummarize, engine.Always(nodePersist)).
			AddRule(nodePersist, engine.Terminate()).
			Build()
	}
}

// fetchArticles searches for recent news on the topic taken from the last
// user message, windowed by the frequency in scratch.
func fetchArticles(searcher NewsSearcher) engine.TransformFunc {
	return func(ctx context.Context, state *engine.State) (*engine.State, error) {
		freq, err := frequencyFromScratch(state)
		if err != nil {
			return nil, err
		}

		resp, err := searcher.Search(ctx, tavily.SearchRequest{
			Query:      newsTopic(state),
			Topic:      "news",
			TimeRange:  freq.timeRange(),
			Days:       freq.days(),
			MaxResults: newsMaxResults,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch articles: %w", err)
		}
		if len(resp.Results) == 0 {
			return nil, engine.NewToolExecutionError(fmt.Errorf("no articles found for the requested window"), false)
		}

		state.Scratch[ScratchKeyRawArticles] = formatArticles(resp.Results)
		return state, nil
	}
}

// summarizeArticles turns the fetched articles into a digest through the
// generator and appends it to the transcript.
func summarizeArticles(generator interfaces.Generator) engine.TransformFunc {
	return func(ctx context.Context, state *engine.State) (*engine.State, error) {
		articles, _ := state.Scratch[ScratchKeyRawArticles].(string)
		if articles == "" {
			return nil, fmt.Errorf("no fetched articles to summarize")
		}

		result, err := generator.Generate(ctx, []interfaces.Message{
			{Role: interfaces.MessageRoleSystem, Content: summarizePrompt},
			{Role: interfaces.MessageRoleUser, Content: articles},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to summarize articles: %w", err)
		}

		msg := result.Message
		msg.Role = interfaces.MessageRoleAssistant
		state.AppendMessage(msg)
		state.Scratch[ScratchKeySummary] = msg.Content
		return state, nil
	}
}

// digestArtifact derives the artifact written at the end of the pipeline
func digestArtifact(state *engine.State) (string, []byte, error) {
	freq, err := frequencyFromScratch(state)
	if err != nil {
		return "", nil, err
	}
	summary, _ := state.Scratch[ScratchKeySummary].(string)
	if summary == "" {
		return "", nil, fmt.Errorf("no digest to persist")
	}
	return fmt.Sprintf("%s_summary.md", freq), []byte(summary), nil
}

func frequencyFromScratch(state *engine.State) (Frequency, error) {
	raw, _ := state.Scratch[ScratchKeyFrequency].(string)
	freq := Frequency(raw)
	if !freq.Valid() {
		return "", fmt.Errorf("invalid digest frequency %q", raw)
	}
	return freq, nil
}

// newsTopic takes the search topic from the most recent user message
func newsTopic(state *engine.State) string {
	for i := len(state.History) - 1; i >= 0; i-- {
		if state.History[i].Role == interfaces.MessageRoleUser && state.History[i].Content != "" {
			return state.History[i].Content
		}
	}
	return "top news stories"
}

// formatArticles renders search results for the summarization prompt
func formatArticles(results []tavily.SearchResult) string {
	var sb strings.Builder
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("Article %d: %s\n", i+1, r.Title))
		if r.PublishedDate != "" {
			sb.WriteString("Published: " + r.PublishedDate + "\n")
		}
		sb.WriteString("URL: " + r.URL + "\n")
		sb.WriteString(r.Content + "\n\n")
	}
	return sb.String()
}
