package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"news-agent-be/internal/constant"
	"news-agent-be/pkg/llm"
	"news-agent-be/pkg/news"
)

// ExitReason makes the reasoning loop's termination observable instead of
// burying it in a generic catch.
type ExitReason string

const (
	ExitFinalAnswer     ExitReason = "final_answer"
	ExitRoundsExhausted ExitReason = "rounds_exhausted"
	ExitParseError      ExitReason = "parse_error"
	ExitProviderError   ExitReason = "provider_error"
)

const (
	toolNewsSearch = "NewsSearch"

	newsSearchDescription = "Useful for searching and finding recent news articles on specific topics. Input should be a search query."

	// searchLimit bounds both tool observations and the sources attached to
	// a turn's result.
	searchLimit = 5
)

// Result is the outcome of one agent turn. Success=false carries the apology
// text; provider failures never surface as errors.
type Result struct {
	Success  bool
	Response string
	Sources  []news.Article
	Exit     ExitReason
}

// Agent runs one conversational turn: persona prompt + replayed memory + a
// bounded ReAct loop over the news search tool. Construct one Agent per
// in-flight turn; the memory buffer is not safe for concurrent turns.
type Agent struct {
	llmProvider llm.LLMProvider
	searchTool  news.SearchProvider
	memory      *Memory
	logger      *log.Logger
	maxRounds   int
}

func New(llmProvider llm.LLMProvider, searchTool news.SearchProvider, logger *log.Logger) *Agent {
	return &Agent{
		llmProvider: llmProvider,
		searchTool:  searchTool,
		memory:      NewMemory(),
		logger:      logger,
		maxRounds:   constant.AgentMaxRounds,
	}
}

func (a *Agent) ClearMemory() {
	a.memory.Clear()
}

// Replay rebuilds agent memory from the persisted history, in order.
func (a *Agent) Replay(history []llm.Message) {
	a.memory.Replay(history)
}

func (a *Agent) Memory() *Memory {
	return a.memory
}

// Answer executes the bounded reason/act/observe loop for one query. Each
// round the model either emits a final answer or requests one NewsSearch
// action; observations are fed back into the transcript. Sources come from
// the articles captured during the loop, so no second retrieval call is
// needed for a turn that searched.
func (a *Agent) Answer(ctx context.Context, query string) Result {
	transcript := a.buildPrompt(query)

	var collected []news.Article

	for round := 0; round < a.maxRounds; round++ {
		output, err := a.llmProvider.Generate(ctx, transcript)
		if err != nil {
			a.logf("round %d: provider error: %v", round+1, err)
			return a.failure(ExitProviderError)
		}

		step, err := ParseStep(output)
		if err != nil {
			a.logf("round %d: unparsable output: %v", round+1, err)
			return a.failure(ExitParseError)
		}

		if step.IsFinal {
			a.memory.Add(constant.ChatMessageRoleUser, query)
			a.memory.Add(constant.ChatMessageRoleAssistant, step.FinalAnswer)

			sources := collected
			if sources == nil {
				// The model answered without searching; fetch citations
				// directly so the caller still gets sources.
				sources = a.searchQuiet(ctx, query)
			}

			return Result{
				Success:  true,
				Response: step.FinalAnswer,
				Sources:  sources,
				Exit:     ExitFinalAnswer,
			}
		}

		observation := a.observe(ctx, step, &collected)
		transcript = transcript + output + "\nObservation: " + observation + "\nThought: "
	}

	a.logf("loop exhausted after %d rounds without a final answer", a.maxRounds)
	return a.failure(ExitRoundsExhausted)
}

// observe executes the requested action and renders its observation text.
func (a *Agent) observe(ctx context.Context, step Step, collected *[]news.Article) string {
	if step.Action != toolNewsSearch {
		return fmt.Sprintf("Unknown tool %q. Available tools: %s.", step.Action, toolNewsSearch)
	}

	articles := a.searchQuiet(ctx, step.ActionInput)
	if len(articles) > 0 {
		*collected = articles
	}
	return news.FormatArticles(articles)
}

// searchQuiet converts retrieval failures into an empty result; the loop
// never raises on a tool error.
func (a *Agent) searchQuiet(ctx context.Context, query string) []news.Article {
	articles, err := a.searchTool.Search(ctx, query, searchLimit)
	if err != nil {
		a.logf("news search failed for %q: %v", query, err)
		return nil
	}
	return articles
}

func (a *Agent) buildPrompt(query string) string {
	catalog := fmt.Sprintf("%s: %s", toolNewsSearch, newsSearchDescription)
	persona := fmt.Sprintf(constant.AgentPersonaPromptV1, catalog, toolNewsSearch)

	var b strings.Builder
	b.WriteString(persona)
	if rendered := a.memory.Render(); rendered != "" {
		b.WriteString("\nPrevious conversation:\n")
		b.WriteString(rendered)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(query)
	b.WriteString("\nThought: ")
	return b.String()
}

func (a *Agent) failure(exit ExitReason) Result {
	return Result{
		Success:  false,
		Response: constant.AgentApologyMessage,
		Exit:     exit,
	}
}

func (a *Agent) logf(format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Printf("[AGENT] "+format, args...)
	}
}
