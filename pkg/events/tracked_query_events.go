package events

import (
	"time"

	"github.com/google/uuid"
)

// SubjectTrackedQueryUpdated is the NATS subject tracked-query refresh
// results are published on.
const SubjectTrackedQueryUpdated = "tracked_query.updated"

// TrackedQueryUpdated fires after a refresh appended a new entry to a tracked
// query's history.
type TrackedQueryUpdated struct {
	TrackedQueryId uuid.UUID
	UserId         uuid.UUID
	Query          string
	Summary        string
	Diff           string
	OccurredAt     time.Time
}

func (e TrackedQueryUpdated) EventType() string {
	return SubjectTrackedQueryUpdated
}

func (e TrackedQueryUpdated) Payload() map[string]interface{} {
	return map[string]interface{}{
		"tracked_query_id": e.TrackedQueryId.String(),
		"user_id":          e.UserId.String(),
		"query":            e.Query,
		"summary":          e.Summary,
		"diff":             e.Diff,
		"occurred_at":      e.OccurredAt.Format(time.RFC3339),
	}
}

func (e TrackedQueryUpdated) Timestamp() time.Time {
	return e.OccurredAt
}
