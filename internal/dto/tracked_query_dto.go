package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTrackedQueryRequest struct {
	Query string `json:"query" validate:"required"`
}

type TrackedQueryResponse struct {
	Id          uuid.UUID  `json:"id"`
	Query       string     `json:"query"`
	IsActive    bool       `json:"is_active"`
	LastSummary string     `json:"last_summary"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// UpdateTrackedQueryRequest toggles background tracking for a query. Pointer
// so an explicit false is distinguishable from an absent field.
type UpdateTrackedQueryRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type TrackedQueryUpdateResponse struct {
	Id             uuid.UUID `json:"id"`
	TrackedQueryId uuid.UUID `json:"tracked_query_id"`
	Summary        string    `json:"summary"`
	Diff           string    `json:"diff"`
	CreatedAt      time.Time `json:"created_at"`
}

type RefreshTrackedQueryResponse struct {
	Changed bool                        `json:"changed"`
	Update  *TrackedQueryUpdateResponse `json:"update,omitempty"`
}

// PublishRefreshMessage is the payload queued for the background refresh
// worker.
type PublishRefreshMessage struct {
	TrackedQueryId uuid.UUID `json:"tracked_query_id"`
}
