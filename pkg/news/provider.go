package news

import (
	"context"
	"fmt"
	"strings"
)

// Article is one short-form news search result.
type Article struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Source  string `json:"source"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

// SearchProvider is the contract for any news search backend.
type SearchProvider interface {
	// Search returns up to limit ranked articles for the query.
	Search(ctx context.Context, query string, limit int) ([]Article, error)
}

// FormatArticles renders articles the way the agent presents observations to
// the model: numbered entries with source, date, snippet and link.
func FormatArticles(articles []Article) string {
	if len(articles) == 0 {
		return "No news articles found for the query."
	}

	var b strings.Builder
	b.WriteString("Here are the latest news articles I found:\n\n")

	for i, article := range articles {
		title := article.Title
		if title == "" {
			title = "No title"
		}
		source := article.Source
		if source == "" {
			source = "Unknown source"
		}
		snippet := article.Snippet
		if snippet == "" {
			snippet = "No description available"
		}

		fmt.Fprintf(&b, "%d. **%s**\n", i+1, title)
		fmt.Fprintf(&b, "   Source: %s", source)
		if article.Date != "" {
			fmt.Fprintf(&b, " | %s", article.Date)
		}
		fmt.Fprintf(&b, "\n   %s\n", snippet)
		fmt.Fprintf(&b, "   Link: %s\n\n", article.Link)
	}

	return b.String()
}
