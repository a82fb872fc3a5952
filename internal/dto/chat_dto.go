package dto

import (
	"time"

	"github.com/google/uuid"
)

// SourceDTO is one cited article attached to an assistant reply.
type SourceDTO struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Source  string `json:"source,omitempty"`
	Date    string `json:"date,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

type CreateSessionRequest struct {
	InitialQuery string `json:"initial_query"`
}

type CreateSessionResponse struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// MatchedMessageDTO is a shortened excerpt of a message that matched a
// session search.
type MatchedMessageDTO struct {
	Role      string    `json:"role"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}

type SearchSessionsResponse struct {
	Id              uuid.UUID           `json:"id"`
	Title           string              `json:"title"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       *time.Time          `json:"updated_at"`
	MatchedMessages []MatchedMessageDTO `json:"matched_messages"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID   `json:"id"`
	Role      string      `json:"role"`
	Content   string      `json:"content"`
	Sources   []SourceDTO `json:"sources,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Message       string    `json:"message" validate:"required"`
}

type SendChatResponseChat struct {
	Id        uuid.UUID   `json:"id"`
	Role      string      `json:"role"`
	Content   string      `json:"content"`
	Sources   []SourceDTO `json:"sources,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type SendChatResponse struct {
	ChatSessionId uuid.UUID `json:"chat_session_id"`
	// ChatSessionTitle is set only on the turn that names the session.
	ChatSessionTitle string `json:"chat_session_title,omitempty"`
	Success          bool                  `json:"success"`
	Sent             *SendChatResponseChat `json:"sent"`
	Reply            *SendChatResponseChat `json:"reply"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
}

type UpdateSessionTitleRequest struct {
	Title string `json:"title" validate:"required"`
}

type UpdateSessionTitleResponse struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}
