package dto

import (
	"time"

	"github.com/google/uuid"
)

// TrackedQueryNotification is the payload pushed over WebSocket when a
// tracked query picks up new developments.
type TrackedQueryNotification struct {
	Type           string    `json:"type"`
	TrackedQueryId uuid.UUID `json:"tracked_query_id"`
	Query          string    `json:"query"`
	Summary        string    `json:"summary"`
	Diff           string    `json:"diff"`
	OccurredAt     time.Time `json:"occurred_at"`
}
