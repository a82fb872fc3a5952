package specification

import (
	"gorm.io/gorm"
)

// SessionMatchesTerm matches sessions whose title or any message content
// contains the term, case-insensitive.
type SessionMatchesTerm struct {
	Term string
}

func (s SessionMatchesTerm) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Term + "%"
	return db.Where(
		"title ILIKE ? OR EXISTS (SELECT 1 FROM chat_messages cm WHERE cm.chat_session_id = chat_sessions.id AND cm.content ILIKE ?)",
		pattern, pattern,
	)
}

// MessageMatchesTerm matches messages by content, case-insensitive.
type MessageMatchesTerm struct {
	Term string
}

func (s MessageMatchesTerm) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content ILIKE ?", "%"+s.Term+"%")
}
