package service

import (
	"context"
	"fmt"
	"strings"

	"news-agent-be/internal/constant"
	"news-agent-be/internal/pkg/logger"
	"news-agent-be/pkg/llm"
)

type ITitleService interface {
	Generate(ctx context.Context, query string) string
}

type titleService struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewTitleService(llmProvider llm.LLMProvider, log logger.ILogger) ITitleService {
	return &titleService{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Generate derives a short session title from the first user query. Title
// generation never fails: any provider problem falls back to a truncated
// form of the query itself.
func (ts *titleService) Generate(ctx context.Context, query string) string {
	prompt := fmt.Sprintf(constant.TitlePromptV1, query)

	raw, err := ts.llmProvider.Generate(ctx, prompt)
	if err != nil {
		ts.logger.Warn("TitleService", "Title generation failed, using fallback", map[string]interface{}{"error": err.Error()})
		return fallbackTitle(query)
	}

	title := sanitizeTitle(raw)
	if title == "" {
		return fallbackTitle(query)
	}
	return truncateTitle(title)
}

func sanitizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	// Models like to quote their own suggestions.
	title = strings.Trim(title, `"'`)
	// Only the first line counts; anything after is commentary.
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}
	return strings.TrimSpace(title)
}

func fallbackTitle(query string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return constant.DefaultSessionTitle
	}
	return truncateTitle(q)
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= constant.SessionTitleMaxLen {
		return title
	}
	return string(runes[:constant.SessionTitleMaxLen-3]) + "..."
}
