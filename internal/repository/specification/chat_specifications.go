package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// ByTrackedQueryID scopes update rows to one tracked query.
type ByTrackedQueryID struct {
	TrackedQueryID uuid.UUID
}

func (s ByTrackedQueryID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tracked_query_id = ?", s.TrackedQueryID)
}
