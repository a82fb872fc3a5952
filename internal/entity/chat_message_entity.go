package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage belongs to exactly one ChatSession. Messages are append-only;
// there is no update path.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	Sources       []ArticleSource
	CreatedAt     time.Time
}

// ArticleSource is a citation attached to an assistant message.
type ArticleSource struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Source  string `json:"source"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}
