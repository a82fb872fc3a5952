package contract

import (
	"context"

	"news-agent-be/internal/entity"
	"news-agent-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	// UpdateTitle reports how many rows were touched so callers can tell a
	// successful rename from a vanished session.
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) (int64, error)
	// Delete reports rows affected for the same reason.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
